// Package yamlkit is a YAML 1.2.2 processing engine for tooling that
// needs exact structural insight into documents: scanning, parsing,
// composition with anchor/alias identity, and style-preserving
// serialization.
//
// The pipeline runs strictly forward, text → tokens → events → tree →
// text, and each stage is usable on its own: ScanTokens and
// ParseEvents expose the lower layers, Load runs the full pipeline,
// Dump and EmitEvents run it backwards.
package yamlkit

import (
	"io"
	"strings"

	"github.com/signadot/yaml-kit/go-yamlkit/compose"
	"github.com/signadot/yaml-kit/go-yamlkit/debug"
	"github.com/signadot/yaml-kit/go-yamlkit/encode"
	"github.com/signadot/yaml-kit/go-yamlkit/ir"
	"github.com/signadot/yaml-kit/go-yamlkit/parse"
	"github.com/signadot/yaml-kit/go-yamlkit/stream"
	"github.com/signadot/yaml-kit/go-yamlkit/token"
)

// ScanTokens lexes d completely.
func ScanTokens(d []byte) ([]token.Token, error) {
	toks, err := token.Tokens(d)
	if debug.Scan() && err == nil {
		token.PrintTokens(toks, "scan")
	}
	return toks, err
}

// ParseEvents scans and parses d into its event sequence.
func ParseEvents(d []byte, opts ...parse.ParseOption) ([]stream.Event, error) {
	return parse.Events(d, opts...)
}

// Decoder yields the documents of a stream one at a time, so callers
// of a long multi-document stream can stop early.
type Decoder struct {
	c *compose.Composer
}

func NewDecoder(r io.Reader, opts ...compose.Option) (*Decoder, error) {
	c, err := compose.NewComposerReader(r, opts...)
	if err != nil {
		return nil, err
	}
	return &Decoder{c: c}, nil
}

// Next returns the next document, or io.EOF after the last.
func (d *Decoder) Next() (*ir.Document, error) {
	return d.c.Next()
}

// Load runs the full pipeline over d and returns every document.
func Load(d []byte, opts ...compose.Option) ([]*ir.Document, error) {
	return compose.ComposeAll(d, opts...)
}

// LoadOne is Load for sources expected to hold a single document.
func LoadOne(d []byte, opts ...compose.Option) (*ir.Document, error) {
	return compose.Compose(d, opts...)
}

// Dump serializes documents back to text.
func Dump(docs []*ir.Document, opts ...encode.Option) (string, error) {
	var b strings.Builder
	if err := encode.EncodeStream(docs, &b, opts...); err != nil {
		return "", err
	}
	return b.String(), nil
}

// EmitEvents serializes an event sequence without building a tree.
func EmitEvents(events []stream.Event, opts ...encode.Option) (string, error) {
	var b strings.Builder
	err := encode.EncodeEvents(stream.NewSliceEventReader(events), &b, opts...)
	if err != nil {
		return "", err
	}
	return b.String(), nil
}
