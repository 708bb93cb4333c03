package encode

import (
	"github.com/fatih/color"

	"github.com/signadot/yaml-kit/go-yamlkit/schema"
)

// palette maps output fragments to terminal colors for the view
// path. Colors are forced on so callers can pipe through a pager;
// tty sniffing belongs to the caller.
type palette struct {
	key    *color.Color
	str    *color.Color
	num    *color.Color
	boolC  *color.Color
	nullC  *color.Color
	anchor *color.Color
	tagC   *color.Color
	punct  *color.Color
}

func newPalette() *palette {
	p := &palette{
		key:    color.New(color.FgCyan),
		str:    color.New(color.FgGreen),
		num:    color.New(color.FgMagenta),
		boolC:  color.New(color.FgYellow),
		nullC:  color.New(color.FgHiBlack),
		anchor: color.New(color.FgRed),
		tagC:   color.New(color.FgBlue),
		punct:  color.New(color.Faint),
	}
	for _, c := range []*color.Color{
		p.key, p.str, p.num, p.boolC, p.nullC, p.anchor, p.tagC, p.punct,
	} {
		c.EnableColor()
	}
	return p
}

func (e *enc) punct(s string) string {
	if e.pal == nil {
		return s
	}
	return e.pal.punct.Sprint(s)
}

func (e *enc) anchor(s string) string {
	if e.pal == nil {
		return s
	}
	return e.pal.anchor.Sprint(s)
}

func (e *enc) tag(s string) string {
	if e.pal == nil {
		return s
	}
	return e.pal.tagC.Sprint(s)
}

// colorScalar colors rendered scalar text by the core-schema type of
// its raw value.
func (e *enc) colorScalar(rendered, raw string, isKey bool) string {
	if e.pal == nil {
		return rendered
	}
	if isKey {
		return e.pal.key.Sprint(rendered)
	}
	switch schema.Resolve(raw) {
	case schema.TagNull:
		return e.pal.nullC.Sprint(rendered)
	case schema.TagBool:
		return e.pal.boolC.Sprint(rendered)
	case schema.TagInt, schema.TagFloat:
		return e.pal.num.Sprint(rendered)
	}
	return e.pal.str.Sprint(rendered)
}
