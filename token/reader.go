package token

import (
	"bytes"
	"io"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/encoding/unicode/utf32"
	"golang.org/x/text/transform"
)

// Normalize sniffs the byte-order mark at the start of the input and
// returns the content transcoded to UTF-8 with the BOM removed. Input
// without a BOM is taken to be UTF-8 already, as the YAML spec
// directs, and is validated as such.
func Normalize(d []byte) ([]byte, error) {
	switch {
	case bytes.HasPrefix(d, []byte{0x00, 0x00, 0xfe, 0xff}):
		return transcode(d, utf32.UTF32(utf32.BigEndian, utf32.UseBOM).NewDecoder())
	case bytes.HasPrefix(d, []byte{0xff, 0xfe, 0x00, 0x00}):
		return transcode(d, utf32.UTF32(utf32.LittleEndian, utf32.UseBOM).NewDecoder())
	case bytes.HasPrefix(d, []byte{0xfe, 0xff}):
		return transcode(d, unicode.UTF16(unicode.BigEndian, unicode.UseBOM).NewDecoder())
	case bytes.HasPrefix(d, []byte{0xff, 0xfe}):
		return transcode(d, unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewDecoder())
	case bytes.HasPrefix(d, []byte{0xef, 0xbb, 0xbf}):
		d = d[3:]
	}
	if !utf8.Valid(d) {
		pd := &PosDoc{d: d}
		i := 0
		for i < len(d) {
			r, sz := utf8.DecodeRune(d[i:])
			if r == utf8.RuneError && sz <= 1 {
				return nil, NewScanError(ErrBadUTF8, pd.Pos(i))
			}
			i += sz
		}
	}
	return d, nil
}

// NormalizeReader reads r fully and normalizes the result.
func NormalizeReader(r io.Reader) ([]byte, error) {
	d, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return Normalize(d)
}

func transcode(d []byte, t transform.Transformer) ([]byte, error) {
	res, _, err := transform.Bytes(t, d)
	if err != nil {
		pd := &PosDoc{d: d}
		return nil, NewScanError(ErrBadEncoding, pd.Pos(0))
	}
	return res, nil
}
