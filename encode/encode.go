// Package encode serializes document trees and event streams back to
// text, preserving styles where the format allows.
package encode

import (
	"fmt"
	"io"
	"strings"

	"github.com/signadot/yaml-kit/go-yamlkit/debug"
	"github.com/signadot/yaml-kit/go-yamlkit/ir"
	"github.com/signadot/yaml-kit/go-yamlkit/token"
)

type enc struct {
	b   strings.Builder
	o   encodeOpts
	pal *palette

	// anchor names for the current document, including generated
	// ones; defined tracks which have been written so far.
	names   map[*ir.Node]string
	defined map[*ir.Node]bool
	gen     int
}

func newEnc(opts []Option) (*enc, error) {
	e := &enc{o: defaultEncOpts()}
	for _, o := range opts {
		o(&e.o)
	}
	if e.o.indent < 1 || e.o.indent > 8 {
		return nil, errNode(ErrBadOption, fmt.Sprintf("indent %d", e.o.indent))
	}
	if e.o.colors {
		e.pal = newPalette()
	}
	return e, nil
}

// Encode writes one document to w.
func Encode(doc *ir.Document, w io.Writer, opts ...Option) error {
	return EncodeStream([]*ir.Document{doc}, w, opts...)
}

// EncodeStream writes a multi-document stream to w.
func EncodeStream(docs []*ir.Document, w io.Writer, opts ...Option) error {
	e, err := newEnc(opts)
	if err != nil {
		return err
	}
	for i, doc := range docs {
		if err := e.document(doc, i); err != nil {
			return err
		}
	}
	if debug.Emit() {
		debug.Logf("emit: %d documents, %d bytes", len(docs), e.b.Len())
	}
	_, err = io.WriteString(w, e.b.String())
	return err
}

// String renders one document to a string.
func String(doc *ir.Document, opts ...Option) (string, error) {
	var b strings.Builder
	if err := Encode(doc, &b, opts...); err != nil {
		return "", err
	}
	return b.String(), nil
}

// MustString renders one document, panicking on error. For building
// test fixtures and debug output.
func MustString(doc *ir.Document, opts ...Option) string {
	s, err := String(doc, opts...)
	if err != nil {
		panic(err)
	}
	return s
}

func (e *enc) document(doc *ir.Document, i int) error {
	if err := e.assignAnchors(doc); err != nil {
		return err
	}
	if len(doc.Directives) > 0 {
		if i > 0 {
			e.b.WriteString("...\n")
		}
		for _, d := range doc.Directives {
			e.b.WriteString(e.punct("%" + d))
			e.b.WriteByte('\n')
		}
		e.b.WriteString(e.punct("---"))
		e.b.WriteByte('\n')
	} else if i > 0 || doc.Explicit {
		e.b.WriteString(e.punct("---"))
		e.b.WriteByte('\n')
	}
	if doc.Root == nil {
		return nil
	}
	if doc.Root.Type == ir.ScalarType || doc.Root.Type == ir.AliasType {
		t, err := e.inlineText(doc.Root, false, false, 0)
		if err != nil {
			return err
		}
		if t = strings.TrimRight(t, " "); t != "" {
			e.b.WriteString(t)
			e.b.WriteByte('\n')
		}
		return nil
	}
	return e.blockNode(doc.Root, 0, false)
}

// assignAnchors seeds anchor names from the document table and
// generates deterministic aliasN names for shared nodes the table
// does not cover.
func (e *enc) assignAnchors(doc *ir.Document) error {
	e.names = map[*ir.Node]string{}
	e.defined = map[*ir.Node]bool{}
	e.gen = 0
	used := map[string]bool{}
	if doc.Anchors != nil {
		for _, name := range doc.Anchors.Names() {
			e.names[doc.Anchors.Lookup(name)] = name
			used[name] = true
		}
	}
	if doc.Root == nil {
		return nil
	}
	var verr error
	doc.Root.Visit(func(n *ir.Node, isPost bool) (bool, error) {
		if isPost || n.Type != ir.AliasType {
			return true, nil
		}
		if n.Target == nil {
			verr = errNode(ErrDanglingAlias, n.String())
			return false, verr
		}
		if _, ok := e.names[n.Target]; !ok {
			e.gen++
			name := fmt.Sprintf("alias%d", e.gen)
			if used[name] {
				verr = errNode(ErrAnchorCollision, name)
				return false, verr
			}
			used[name] = true
			e.names[n.Target] = name
		}
		return true, nil
	})
	return verr
}

func (e *enc) indentStr(n int) string {
	return strings.Repeat(" ", n)
}

// props renders the anchor and tag prefix of a node, trailing space
// included, and marks the anchor as defined.
func (e *enc) props(n *ir.Node) string {
	var b strings.Builder
	if name, ok := e.names[n]; ok {
		b.WriteString(e.anchor("&" + name))
		b.WriteByte(' ')
		e.defined[n] = true
	}
	if n.Tag != "" {
		b.WriteString(e.tag(tagText(n.Tag)))
		b.WriteByte(' ')
	}
	return b.String()
}

func tagText(t string) string {
	const yamlOrg = "tag:yaml.org,2002:"
	if strings.HasPrefix(t, yamlOrg) {
		return "!!" + t[len(yamlOrg):]
	}
	if strings.HasPrefix(t, "!") {
		return t
	}
	return "!<" + t + ">"
}

// inlineText renders a node that fits on the current line: scalars,
// aliases, and flow collections. Block collections return ok through
// blockNode instead.
func (e *enc) inlineText(n *ir.Node, inFlow, isKey bool, indent int) (string, error) {
	switch n.Type {
	case ir.AliasType:
		name := e.names[n.Target]
		if !e.defined[n.Target] {
			return "", errNode(ErrForwardAlias, "*"+name)
		}
		return e.anchor("*" + name), nil
	case ir.ScalarType:
		t, err := e.scalarText(n, inFlow, isKey, indent)
		if err != nil {
			return "", err
		}
		return e.props(n) + t, nil
	case ir.SequenceType, ir.MappingType:
		return e.flowText(n)
	}
	return "", errNode(ErrUnrepresentable, n.String())
}

// scalarText renders a scalar in its style, escalating quoting when
// the style cannot carry the value in this position.
func (e *enc) scalarText(n *ir.Node, inFlow, isKey bool, indent int) (string, error) {
	v := n.Value
	st := n.Style
	if inFlow || isKey {
		// block scalars need a line of their own
		if st == token.LiteralStyle || st == token.FoldedStyle {
			if !allPrintable(v) {
				return "", errNode(ErrUnrepresentable, n.String())
			}
			st = token.DoubleStyle
		}
	}
	switch st {
	case token.PlainStyle:
		if plainSafe(v, inFlow) {
			return e.colorScalar(v, v, isKey), nil
		}
		switch {
		case e.o.quote == PreferDouble:
			return e.colorScalar(renderDouble(v), v, isKey), nil
		case !singleSafe(v):
			if blockSafe(v) && !inFlow && !isKey {
				return e.blockScalarText(v, token.LiteralStyle, indent), nil
			}
			return e.colorScalar(renderDouble(v), v, isKey), nil
		default:
			return e.colorScalar(renderSingle(v), v, isKey), nil
		}
	case token.SingleStyle:
		if !singleSafe(v) {
			return "", errNode(ErrUnrepresentable, n.String())
		}
		return e.colorScalar(renderSingle(v), v, isKey), nil
	case token.DoubleStyle:
		return e.colorScalar(renderDouble(v), v, isKey), nil
	case token.LiteralStyle:
		if !blockSafe(v) {
			return "", errNode(ErrUnrepresentable, n.String())
		}
		return e.blockScalarText(v, token.LiteralStyle, indent), nil
	case token.FoldedStyle:
		if !foldedSafe(v) {
			if blockSafe(v) {
				return e.blockScalarText(v, token.LiteralStyle, indent), nil
			}
			return "", errNode(ErrUnrepresentable, n.String())
		}
		return e.blockScalarText(v, token.FoldedStyle, indent), nil
	}
	return "", errNode(ErrUnrepresentable, n.String())
}

// blockScalarText renders a literal or folded scalar: the header plus
// content lines indented past indent. The result ends without a
// trailing newline; callers terminate the line.
func (e *enc) blockScalarText(v string, st token.ScalarStyle, indent int) string {
	lines, chomp, trailing := chompSplit(v)
	ci := indent + e.o.indent
	pad := e.indentStr(ci)
	var b strings.Builder
	head := "|"
	if st == token.FoldedStyle {
		head = ">"
	}
	// an explicit indentation indicator when auto-detection would
	// misread the first content line
	if len(lines) > 0 && (lines[0] == "" || lines[0][0] == ' ' || lines[0][0] == '\t') {
		head += fmt.Sprintf("%d", e.o.indent)
	}
	b.WriteString(e.punct(head + chomp))
	if st == token.FoldedStyle {
		for i, line := range lines {
			if i > 0 {
				b.WriteByte('\n')
			}
			if line == "" {
				continue
			}
			b.WriteByte('\n')
			b.WriteString(pad)
			b.WriteString(e.colorScalar(line, line, false))
		}
	} else {
		for _, line := range lines {
			b.WriteByte('\n')
			if line == "" {
				continue
			}
			b.WriteString(pad)
			b.WriteString(e.colorScalar(line, line, false))
		}
	}
	for i := 1; i < trailing; i++ {
		b.WriteByte('\n')
	}
	return b.String()
}

// flowText renders a collection in flow style on one line.
func (e *enc) flowText(n *ir.Node) (string, error) {
	var b strings.Builder
	b.WriteString(e.props(n))
	switch n.Type {
	case ir.SequenceType:
		b.WriteString(e.punct("["))
		for i, v := range n.Values {
			if i > 0 {
				b.WriteString(e.punct(",") + " ")
			}
			t, err := e.flowEntryText(v)
			if err != nil {
				return "", err
			}
			b.WriteString(t)
		}
		b.WriteString(e.punct("]"))
	case ir.MappingType:
		b.WriteString(e.punct("{"))
		for i := range n.Fields {
			if i > 0 {
				b.WriteString(e.punct(",") + " ")
			}
			k, err := e.inlineText(n.Fields[i], true, true, 0)
			if err != nil {
				return "", err
			}
			v, err := e.inlineText(n.Values[i], true, false, 0)
			if err != nil {
				return "", err
			}
			b.WriteString(k)
			b.WriteString(e.punct(":") + " ")
			b.WriteString(v)
		}
		b.WriteString(e.punct("}"))
	default:
		return e.inlineText(n, true, false, 0)
	}
	return b.String(), nil
}

// flowEntryText renders one flow sequence entry. A bare empty plain
// scalar has no syntax of its own between the delimiters, so it is
// single-quoted; plain style is not preservable in that position.
func (e *enc) flowEntryText(v *ir.Node) (string, error) {
	if v.Type == ir.ScalarType && v.Style == token.PlainStyle && v.Value == "" {
		q := *v
		q.Style = token.SingleStyle
		return e.inlineText(&q, true, false, 0)
	}
	return e.inlineText(v, true, false, 0)
}

func (e *enc) useFlow(n *ir.Node) bool {
	if n.Type != ir.SequenceType && n.Type != ir.MappingType {
		return false
	}
	return n.Flow || e.o.defaultFlow || len(n.Values) == 0
}

// blockNode emits a collection in block style at the given indent.
// When atCol is set the cursor already sits at the indent column on
// the current line (after "- " or "? ").
func (e *enc) blockNode(n *ir.Node, indent int, atCol bool) error {
	if e.useFlow(n) {
		return e.wrappedFlow(n, indent, atCol)
	}
	pad := e.indentStr(indent)
	lead := func(first bool) {
		if !(first && atCol) {
			e.b.WriteString(pad)
		}
	}
	if p := e.props(n); p != "" {
		// the anchor/tag line for a block collection stands alone
		lead(true)
		e.b.WriteString(strings.TrimRight(p, " "))
		e.b.WriteByte('\n')
		atCol = false
	}
	switch n.Type {
	case ir.SequenceType:
		for i, v := range n.Values {
			lead(i == 0)
			e.b.WriteString(e.punct("-") + " ")
			if err := e.entryValue(v, indent, indent+2); err != nil {
				return err
			}
		}
	case ir.MappingType:
		for i := range n.Fields {
			k := n.Fields[i]
			lead(i == 0)
			if implicitKeyOK(k) {
				kt, err := e.inlineText(k, false, true, indent)
				if err != nil {
					return err
				}
				e.b.WriteString(kt)
				e.b.WriteString(e.punct(":"))
				if err := e.pairValue(n.Values[i], indent); err != nil {
					return err
				}
				continue
			}
			e.b.WriteString(e.punct("?") + " ")
			if err := e.entryValue(k, indent, indent+2); err != nil {
				return err
			}
			e.b.WriteString(pad)
			e.b.WriteString(e.punct(":"))
			if err := e.pairValue(n.Values[i], indent); err != nil {
				return err
			}
		}
	}
	return nil
}

// implicitKeyOK reports whether a key can sit before ':' on one line.
func implicitKeyOK(k *ir.Node) bool {
	switch k.Type {
	case ir.ScalarType, ir.AliasType:
		return true
	case ir.SequenceType, ir.MappingType:
		// flow collections are legal implicit keys but unwieldy;
		// keep them only when marked flow
		return k.Flow || len(k.Values) == 0
	}
	return false
}

// entryValue emits the node after "- " or "? ": inline when it fits,
// nested block otherwise. childIndent is the column after the marker.
func (e *enc) entryValue(v *ir.Node, indent, childIndent int) error {
	if v.Type == ir.SequenceType || v.Type == ir.MappingType {
		if !e.useFlow(v) {
			return e.blockNode(v, childIndent, true)
		}
	}
	t, err := e.inlineText(v, false, false, indent)
	if err != nil {
		return err
	}
	e.b.WriteString(strings.TrimRight(t, " "))
	e.b.WriteByte('\n')
	return nil
}

// pairValue emits the value after an implicit key's ':'.
func (e *enc) pairValue(v *ir.Node, indent int) error {
	if (v.Type == ir.SequenceType || v.Type == ir.MappingType) && !e.useFlow(v) {
		e.b.WriteByte('\n')
		return e.blockNode(v, indent+e.o.indent, false)
	}
	t, err := e.inlineText(v, false, false, indent)
	if err != nil {
		return err
	}
	if t = strings.TrimRight(t, " "); t == "" {
		e.b.WriteByte('\n')
		return nil
	}
	if (v.Type == ir.SequenceType || v.Type == ir.MappingType) &&
		e.o.lineWidth > 0 && indent+2+flatLen(t) > e.o.lineWidth {
		e.b.WriteByte('\n')
		return e.wrappedFlow(v, indent+e.o.indent, false)
	}
	e.b.WriteByte(' ')
	e.b.WriteString(t)
	e.b.WriteByte('\n')
	return nil
}

// wrappedFlow emits a flow collection, breaking one element per line
// when the one-line rendering overflows the configured width.
func (e *enc) wrappedFlow(n *ir.Node, indent int, atCol bool) error {
	t, err := e.flowText(n)
	if err != nil {
		return err
	}
	pad := e.indentStr(indent)
	if !atCol {
		e.b.WriteString(pad)
	}
	if e.o.lineWidth <= 0 || indent+flatLen(t) <= e.o.lineWidth || len(n.Values) == 0 {
		e.b.WriteString(t)
		e.b.WriteByte('\n')
		return nil
	}
	opener, closer := "[", "]"
	if n.Type == ir.MappingType {
		opener, closer = "{", "}"
	}
	e.b.WriteString(e.props(n))
	e.b.WriteString(e.punct(opener))
	e.b.WriteByte('\n')
	ipad := e.indentStr(indent + e.o.indent)
	for i := range n.Values {
		e.b.WriteString(ipad)
		if n.Type == ir.MappingType {
			k, err := e.inlineText(n.Fields[i], true, true, 0)
			if err != nil {
				return err
			}
			e.b.WriteString(k)
			e.b.WriteString(e.punct(":") + " ")
		}
		var v string
		if n.Type == ir.MappingType {
			v, err = e.inlineText(n.Values[i], true, false, 0)
		} else {
			v, err = e.flowEntryText(n.Values[i])
		}
		if err != nil {
			return err
		}
		e.b.WriteString(v)
		e.b.WriteString(e.punct(","))
		e.b.WriteByte('\n')
	}
	e.b.WriteString(pad)
	e.b.WriteString(e.punct(closer))
	e.b.WriteByte('\n')
	return nil
}

// flatLen approximates the printed width of a rendered fragment,
// ignoring color escape sequences.
func flatLen(s string) int {
	n := 0
	esc := false
	for _, r := range s {
		switch {
		case esc:
			if r == 'm' {
				esc = false
			}
		case r == 0x1b:
			esc = true
		default:
			n++
		}
	}
	return n
}
