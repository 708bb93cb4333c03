package token

import (
	"strings"
	"unicode/utf8"
)

// scanQuoted scans a single- or double-quoted scalar. Both styles
// fold line breaks the same way plain scalars do; double quotes add
// the YAML escape set, single quotes only the doubled-quote escape.
// An unterminated scalar reports the opening quote's position.
func (s *Scanner) scanQuoted(style ScalarStyle, pos *Pos, col int) error {
	s.maybeKey(pos, col)
	start := s.i
	quote := s.d[s.i]
	s.i++

	var b strings.Builder
	breaks := 0
	ws := 0
	multiline := false

	for {
		if s.i >= len(s.d) {
			return NewScanError(ErrUnterminated, pos)
		}
		c := s.d[s.i]
		switch {
		case c == quote:
			if style == SingleStyle && s.i+1 < len(s.d) && s.d[s.i+1] == '\'' {
				s.flushPlain(&b, &breaks, &ws)
				b.WriteByte('\'')
				s.i += 2
				continue
			}
			s.i++
			if multiline {
				s.staleKeys()
			}
			s.allowKey = false
			s.push(Token{
				Type:  TScalar,
				Style: style,
				Pos:   pos,
				Bytes: s.d[start:s.i],
				Value: b.String(),
			})
			return nil
		case c == '\n':
			s.posDoc.nl(s.i)
			s.i++
			s.lineStart = s.i
			ws = 0
			breaks++
			multiline = true
			// skip continuation indentation
			for s.i < len(s.d) && (s.d[s.i] == ' ' || s.d[s.i] == '\t') {
				s.i++
			}
		case c == ' ' || c == '\t' || c == '\r':
			ws++
			s.i++
		case c == '\\' && style == DoubleStyle:
			if s.i+1 >= len(s.d) {
				return NewScanError(ErrUnterminated, pos)
			}
			if s.d[s.i+1] == '\n' {
				// escaped break: no fold space
				s.flushPlain(&b, &breaks, &ws)
				s.posDoc.nl(s.i + 1)
				s.i += 2
				s.lineStart = s.i
				multiline = true
				for s.i < len(s.d) && (s.d[s.i] == ' ' || s.d[s.i] == '\t') {
					s.i++
				}
				continue
			}
			s.flushPlain(&b, &breaks, &ws)
			if err := s.scanEscape(&b); err != nil {
				return err
			}
		default:
			s.flushPlain(&b, &breaks, &ws)
			r, sz := utf8.DecodeRune(s.d[s.i:])
			if r == utf8.RuneError && sz <= 1 {
				return NewScanError(ErrBadUTF8, s.posDoc.Pos(s.i))
			}
			b.WriteRune(r)
			s.i += sz
		}
	}
}

// scanEscape decodes one backslash escape in a double-quoted scalar.
// s.i is at the backslash on entry and past the escape on return.
func (s *Scanner) scanEscape(b *strings.Builder) error {
	escPos := s.posDoc.Pos(s.i)
	s.i++ // backslash
	c := s.d[s.i]
	s.i++
	switch c {
	case '0':
		b.WriteByte(0)
	case 'a':
		b.WriteByte('\a')
	case 'b':
		b.WriteByte('\b')
	case 't':
		b.WriteByte('\t')
	case 'n':
		b.WriteByte('\n')
	case 'v':
		b.WriteByte('\v')
	case 'f':
		b.WriteByte('\f')
	case 'r':
		b.WriteByte('\r')
	case 'e':
		b.WriteByte(0x1b)
	case ' ':
		b.WriteByte(' ')
	case '"':
		b.WriteByte('"')
	case '/':
		b.WriteByte('/')
	case '\\':
		b.WriteByte('\\')
	case 'N':
		b.WriteRune(0x85)
	case '_':
		b.WriteRune(0xa0)
	case 'L':
		b.WriteRune(0x2028)
	case 'P':
		b.WriteRune(0x2029)
	case 'x':
		return s.scanHexEscape(b, 2, escPos)
	case 'u':
		return s.scanHexEscape(b, 4, escPos)
	case 'U':
		return s.scanHexEscape(b, 8, escPos)
	default:
		return NewScanError(ErrBadEscape, escPos)
	}
	return nil
}

func (s *Scanner) scanHexEscape(b *strings.Builder, n int, pos *Pos) error {
	if s.i+n > len(s.d) {
		return NewScanError(ErrBadUnicode, pos)
	}
	var r rune
	for k := 0; k < n; k++ {
		c := s.d[s.i+k]
		var v rune
		switch {
		case c >= '0' && c <= '9':
			v = rune(c - '0')
		case c >= 'a' && c <= 'f':
			v = rune(c-'a') + 10
		case c >= 'A' && c <= 'F':
			v = rune(c-'A') + 10
		default:
			return NewScanError(ErrBadUnicode, pos)
		}
		r = r<<4 | v
	}
	if !utf8.ValidRune(r) {
		return NewScanError(ErrBadUnicode, pos)
	}
	s.i += n
	b.WriteRune(r)
	return nil
}
