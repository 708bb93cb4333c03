package encode

import (
	"io"
	"strings"

	"github.com/signadot/yaml-kit/go-yamlkit/ir"
	"github.com/signadot/yaml-kit/go-yamlkit/stream"
	"github.com/signadot/yaml-kit/go-yamlkit/token"
)

// EncodeEvents re-serializes an event stream directly, without
// building a tree. Anchors and aliases are written as carried on the
// events; no names are generated and no resolution happens.
func EncodeEvents(r stream.EventReader, w io.Writer, opts ...Option) error {
	e, err := newEnc(opts)
	if err != nil {
		return err
	}
	v := &evEnc{enc: e}
	for {
		ev, err := r.ReadEvent()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		if ev.Type == stream.EventStreamEnd {
			break
		}
		if err := v.feed(ev); err != nil {
			return err
		}
	}
	_, err = io.WriteString(w, e.b.String())
	return err
}

type evEnc struct {
	*enc
	stack []eframe
	docN  int
}

// where a block frame's opening sat, which decides what an empty
// collection owes.
type fpos int

const (
	posRoot  fpos = iota // cursor was at the indent column
	posEntry             // after "- " or "? ", cursor at column
	posValue             // after an implicit key's ':'
)

type eframe struct {
	flow    bool
	mapping bool
	indent  int
	n       int
	onKey   bool
	pos     fpos
	// block collection opened but nothing written yet
	pending bool
	// cursor already sits at the indent column for the first entry
	atCol bool
	// write ':' when the child key frame closes
	pendColon bool
}

func (v *evEnc) top() *eframe {
	if len(v.stack) == 0 {
		return nil
	}
	return &v.stack[len(v.stack)-1]
}

func (v *evEnc) feed(ev *stream.Event) error {
	switch ev.Type {
	case stream.EventStreamStart:
		return nil
	case stream.EventDocumentStart:
		v.docN++
		if len(ev.Directives) > 0 {
			if v.docN > 1 {
				v.b.WriteString(v.punct("..."))
				v.b.WriteByte('\n')
			}
			for _, d := range ev.Directives {
				v.b.WriteString(v.punct("%" + d))
				v.b.WriteByte('\n')
			}
			v.b.WriteString(v.punct("---"))
			v.b.WriteByte('\n')
		} else if v.docN > 1 || ev.Explicit {
			v.b.WriteString(v.punct("---"))
			v.b.WriteByte('\n')
		}
		return nil
	case stream.EventDocumentEnd:
		if ev.Explicit {
			v.b.WriteString(v.punct("..."))
			v.b.WriteByte('\n')
		}
		return nil
	case stream.EventScalar, stream.EventAlias:
		return v.leaf(ev)
	case stream.EventSequenceStart, stream.EventMappingStart:
		return v.open(ev)
	case stream.EventSequenceEnd, stream.EventMappingEnd:
		return v.close()
	}
	return nil
}

func evProps(e *enc, ev *stream.Event) string {
	var b strings.Builder
	if ev.Anchor != "" {
		b.WriteString(e.anchor("&" + ev.Anchor))
		b.WriteByte(' ')
	}
	if ev.Tag != "" {
		b.WriteString(e.tag(tagText(ev.Tag)))
		b.WriteByte(' ')
	}
	return b.String()
}

// leaf writes a scalar or alias in the current context.
func (v *evEnc) leaf(ev *stream.Event) error {
	f := v.top()
	isKey := f != nil && f.mapping && f.onKey
	inFlow := f != nil && f.flow
	var text string
	if ev.Type == stream.EventAlias {
		text = v.anchor("*" + ev.Value)
	} else {
		n := &ir.Node{Type: ir.ScalarType, Value: ev.Value, Style: ev.Style, Tag: ev.Tag}
		if inFlow && !isKey && f != nil && !f.mapping && n.Style == token.PlainStyle && n.Value == "" {
			// a bare empty flow entry has no syntax of its own
			n.Style = token.SingleStyle
		}
		indent := 0
		if f != nil {
			indent = f.indent
		}
		t, err := v.scalarText(n, inFlow, isKey, indent)
		if err != nil {
			return err
		}
		text = evProps(v.enc, ev) + t
	}
	if f == nil {
		if text = strings.TrimRight(text, " "); text != "" {
			v.b.WriteString(text)
			v.b.WriteByte('\n')
		}
		return nil
	}
	if f.flow {
		v.flowLead(f)
		v.b.WriteString(text)
		v.flowStep(f)
		return nil
	}
	if f.mapping {
		if f.onKey {
			v.blockLead(f)
			v.b.WriteString(text)
			v.b.WriteString(v.punct(":"))
			f.onKey = false
			return nil
		}
		if text = strings.TrimRight(text, " "); text != "" {
			v.b.WriteByte(' ')
			v.b.WriteString(text)
		}
		v.b.WriteByte('\n')
		f.onKey = true
		f.n++
		return nil
	}
	v.blockLead(f)
	if text = strings.TrimRight(text, " "); text != "" {
		v.b.WriteString(text)
	}
	v.b.WriteByte('\n')
	f.n++
	return nil
}

// blockLead positions the cursor at this frame's indent column and
// writes the "- " marker for sequences.
func (v *evEnc) blockLead(f *eframe) {
	if f.pending {
		f.pending = false
		if !f.atCol {
			v.b.WriteByte('\n')
			v.b.WriteString(v.indentStr(f.indent))
		}
	} else {
		v.b.WriteString(v.indentStr(f.indent))
	}
	if !f.mapping {
		v.b.WriteString(v.punct("-") + " ")
	}
}

func (v *evEnc) flowLead(f *eframe) {
	if f.n > 0 && (!f.mapping || f.onKey) {
		v.b.WriteString(v.punct(",") + " ")
	}
}

func (v *evEnc) flowStep(f *eframe) {
	if !f.mapping {
		f.n++
		return
	}
	if f.onKey {
		v.b.WriteString(v.punct(":") + " ")
		f.onKey = false
		return
	}
	f.onKey = true
	f.n++
}

func (v *evEnc) open(ev *stream.Event) error {
	f := v.top()
	mapping := ev.Type == stream.EventMappingStart
	flow := ev.Flow || v.o.defaultFlow || (f != nil && f.flow)
	props := evProps(v.enc, ev)

	indent := 0
	pos := posRoot
	atCol := true
	switch {
	case f == nil:
	case f.flow:
		v.flowLead(f)
	case f.mapping && f.onKey:
		v.blockLead(f)
		f.onKey = false
		f.pendColon = true
		if flow {
			pos = posEntry
			break
		}
		// a block collection cannot sit before ':' on one line
		v.b.WriteString(v.punct("?") + " ")
		indent = f.indent + 2
		pos = posEntry
	case f.mapping:
		indent = f.indent + v.o.indent
		pos = posValue
		atCol = false
	default:
		v.blockLead(f)
		indent = f.indent + 2
		pos = posEntry
	}

	if flow {
		if f != nil && !f.flow && f.mapping && !f.pendColon {
			v.b.WriteByte(' ')
		}
		v.b.WriteString(props)
		if mapping {
			v.b.WriteString(v.punct("{"))
		} else {
			v.b.WriteString(v.punct("["))
		}
		v.stack = append(v.stack, eframe{flow: true, mapping: mapping, onKey: mapping, pos: pos})
		return nil
	}
	if props != "" {
		// the anchor/tag takes a line of its own above the block
		switch pos {
		case posValue:
			v.b.WriteByte(' ')
			v.b.WriteString(strings.TrimRight(props, " "))
			v.b.WriteByte('\n')
		default:
			v.b.WriteString(strings.TrimRight(props, " "))
			v.b.WriteByte('\n')
		}
		v.stack = append(v.stack, eframe{
			mapping: mapping, indent: indent, onKey: mapping, pos: pos,
		})
		return nil
	}
	v.stack = append(v.stack, eframe{
		mapping: mapping, indent: indent, onKey: mapping, pos: pos,
		pending: true, atCol: atCol,
	})
	return nil
}

func (v *evEnc) close() error {
	f := *v.top()
	v.stack = v.stack[:len(v.stack)-1]
	p := v.top()
	if f.flow {
		if f.mapping {
			v.b.WriteString(v.punct("}"))
		} else {
			v.b.WriteString(v.punct("]"))
		}
	} else if f.pending {
		// no entries: only the flow form can say that
		empty := v.punct("[]")
		if f.mapping {
			empty = v.punct("{}")
		}
		if f.pos == posValue {
			v.b.WriteByte(' ')
		}
		v.b.WriteString(empty)
		f.flow = true // terminates like an inline form below
	}
	switch {
	case p == nil:
		if f.flow {
			v.b.WriteByte('\n')
		}
	case p.flow:
		v.flowStep(p)
	case p.mapping && p.pendColon:
		p.pendColon = false
		if f.flow {
			v.b.WriteString(v.punct(":"))
		} else {
			v.b.WriteString(v.indentStr(p.indent))
			v.b.WriteString(v.punct(":"))
		}
	case p.mapping:
		if f.flow {
			v.b.WriteByte('\n')
		}
		p.onKey = true
		p.n++
	default:
		if f.flow {
			v.b.WriteByte('\n')
		}
		p.n++
	}
	return nil
}
