package encode

// QuotePref selects the preferred quoting escalation for scalars that
// cannot be written plain.
type QuotePref int

const (
	PreferPlain QuotePref = iota
	PreferSingle
	PreferDouble
)

func (p QuotePref) String() string {
	switch p {
	case PreferPlain:
		return "prefer-plain"
	case PreferSingle:
		return "prefer-single"
	case PreferDouble:
		return "prefer-double"
	}
	return "<unknown pref>"
}

type encodeOpts struct {
	indent      int
	defaultFlow bool
	lineWidth   int
	quote       QuotePref
	colors      bool
}

func defaultEncOpts() encodeOpts {
	return encodeOpts{indent: 2}
}

type Option func(*encodeOpts)

// Indent sets the indentation width, 1 to 8 columns. Values outside
// that range fail the encode with ErrBadOption.
func Indent(n int) Option {
	return func(o *encodeOpts) { o.indent = n }
}

// DefaultFlow renders collections in flow style unless a node carries
// an explicit block hint. The default is block.
func DefaultFlow(v bool) Option {
	return func(o *encodeOpts) { o.defaultFlow = v }
}

// LineWidth sets the column at which flow collections wrap. Zero, the
// default, never wraps.
func LineWidth(n int) Option {
	return func(o *encodeOpts) { o.lineWidth = n }
}

// Quote sets the quoting preference for scalars that need escaping
// out of plain style.
func Quote(p QuotePref) Option {
	return func(o *encodeOpts) { o.quote = p }
}

// Colors turns on terminal colorization of the output.
func Colors(v bool) Option {
	return func(o *encodeOpts) { o.colors = v }
}
