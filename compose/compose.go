// Package compose turns a stream of parse events into document trees,
// resolving aliases against their anchors and enforcing expansion
// limits.
package compose

import (
	"io"

	"github.com/signadot/yaml-kit/go-yamlkit/debug"
	"github.com/signadot/yaml-kit/go-yamlkit/ir"
	"github.com/signadot/yaml-kit/go-yamlkit/parse"
	"github.com/signadot/yaml-kit/go-yamlkit/stream"
)

type Composer struct {
	r    stream.EventReader
	opts composeOpts

	// weights and depths memoize the expanded node count and alias
	// nesting depth of completed subtrees across the whole stream;
	// anchors are document scoped but a node's expansion never
	// changes once composed.
	weights map[*ir.Node]int
	depths  map[*ir.Node]int

	done bool
	err  error
}

// NewComposer composes documents from source text.
func NewComposer(d []byte, opts ...Option) (*Composer, error) {
	p, err := parse.NewParser(d)
	if err != nil {
		return nil, err
	}
	return NewComposerEvents(p, opts...), nil
}

// NewComposerReader composes documents read from r.
func NewComposerReader(r io.Reader, opts ...Option) (*Composer, error) {
	p, err := parse.NewParserReader(r)
	if err != nil {
		return nil, err
	}
	return NewComposerEvents(p, opts...), nil
}

// NewComposerEvents composes documents from an already-parsed event
// stream.
func NewComposerEvents(r stream.EventReader, opts ...Option) *Composer {
	c := &Composer{
		r:       r,
		opts:    defaultOpts(),
		weights: map[*ir.Node]int{},
		depths:  map[*ir.Node]int{},
	}
	for _, o := range opts {
		o(&c.opts)
	}
	return c
}

// Compose returns the first document of the source. It fails with
// ErrNoDocument on an empty stream.
func Compose(d []byte, opts ...Option) (*ir.Document, error) {
	c, err := NewComposer(d, opts...)
	if err != nil {
		return nil, err
	}
	doc, err := c.Next()
	if err == io.EOF {
		return nil, ErrNoDocument
	}
	return doc, err
}

// ComposeAll returns every document of the source.
func ComposeAll(d []byte, opts ...Option) ([]*ir.Document, error) {
	c, err := NewComposer(d, opts...)
	if err != nil {
		return nil, err
	}
	var docs []*ir.Document
	for {
		doc, err := c.Next()
		if err == io.EOF {
			return docs, nil
		}
		if err != nil {
			return docs, err
		}
		docs = append(docs, doc)
	}
}

// Next returns the next document of the stream, or io.EOF after the
// last one. Errors are sticky.
func (c *Composer) Next() (*ir.Document, error) {
	if c.err != nil {
		return nil, c.err
	}
	if c.done {
		return nil, io.EOF
	}
	doc, err := c.next()
	if err != nil {
		if err == io.EOF {
			c.done = true
		} else {
			c.err = err
		}
		return nil, err
	}
	if debug.Compose() {
		debug.Logf("compose: root %s, %d anchors", doc.Root, doc.Anchors.Len())
	}
	return doc, nil
}

type cframe struct {
	n      *ir.Node
	key    *ir.Node
	hasKey bool
}

func (c *Composer) next() (*ir.Document, error) {
	var doc *ir.Document
	for doc == nil {
		e, err := c.r.ReadEvent()
		if err != nil {
			return nil, err
		}
		switch e.Type {
		case stream.EventStreamStart:
		case stream.EventStreamEnd:
			return nil, io.EOF
		case stream.EventDocumentStart:
			doc = ir.NewDocument(nil)
			doc.Directives = e.Directives
			doc.Explicit = e.Explicit
		}
	}

	var stack []cframe
	total := 0
	for {
		e, err := c.r.ReadEvent()
		if err != nil {
			return nil, err
		}
		if e.Type == stream.EventDocumentEnd {
			return doc, nil
		}

		var n *ir.Node
		switch e.Type {
		case stream.EventScalar:
			n = &ir.Node{
				Type:  ir.ScalarType,
				Value: e.Value,
				Style: e.Style,
				Tag:   e.Tag,
				Pos:   e.Pos,
			}
			total++
		case stream.EventSequenceStart:
			n = &ir.Node{Type: ir.SequenceType, Tag: e.Tag, Flow: e.Flow, Pos: e.Pos}
			total++
		case stream.EventMappingStart:
			n = &ir.Node{Type: ir.MappingType, Tag: e.Tag, Flow: e.Flow, Pos: e.Pos}
			total++
		case stream.EventAlias:
			target := doc.Anchors.Lookup(e.Value)
			if target == nil {
				return nil, errAt(ErrUndefinedAlias, e.Pos)
			}
			for i := range stack {
				if stack[i].n == target {
					return nil, errAt(ErrAliasCycle, e.Pos)
				}
			}
			n = &ir.Node{Type: ir.AliasType, Name: e.Value, Target: target, Pos: e.Pos}
			total += c.weight(target)
			if c.opts.maxAliasDepth > 0 && 1+c.aliasDepth(target) > c.opts.maxAliasDepth {
				return nil, errAt(ErrAliasDepth, e.Pos)
			}
		case stream.EventSequenceEnd, stream.EventMappingEnd:
			fin := stack[len(stack)-1].n
			stack = stack[:len(stack)-1]
			if len(stack) == 0 {
				doc.Root = fin
				continue
			}
			if err := c.attach(&stack[len(stack)-1], fin); err != nil {
				return nil, err
			}
			continue
		default:
			// stream/document events inside a document body cannot
			// happen on a well-formed parse stream
			return nil, errAt(stream.ErrEventOrder, e.Pos)
		}

		if c.opts.maxNodes > 0 && total > c.opts.maxNodes {
			return nil, errAt(ErrExpansionLimit, e.Pos)
		}
		if e.Anchor != "" && e.Type != stream.EventAlias {
			doc.Anchors.Define(e.Anchor, n)
		}

		if !n.Type.IsLeaf() {
			if c.opts.maxDepth > 0 && len(stack) >= c.opts.maxDepth {
				return nil, errAt(ErrTooDeep, e.Pos)
			}
			stack = append(stack, cframe{n: n})
			continue
		}
		if len(stack) == 0 {
			doc.Root = n
			continue
		}
		if err := c.attach(&stack[len(stack)-1], n); err != nil {
			return nil, err
		}
	}
}

// attach places a completed node into the open container at the top
// of the stack.
func (c *Composer) attach(f *cframe, n *ir.Node) error {
	if f.n.Type == ir.SequenceType {
		f.n.Append(n)
		return nil
	}
	if !f.hasKey {
		f.key, f.hasKey = n, true
		return nil
	}
	key := f.key
	f.key, f.hasKey = nil, false
	if i := findKey(f.n, key); i >= 0 {
		switch c.opts.onDup {
		case DupFirstWins:
			return nil
		case DupLastWins:
			n.Parent = f.n
			n.ParentIndex = i
			f.n.Values[i] = n
			return nil
		default:
			return errAt(ErrDuplicateKey, key.Pos)
		}
	}
	f.n.Put(key, n)
	return nil
}

func findKey(m *ir.Node, key *ir.Node) int {
	for i, f := range m.Fields {
		if ir.EqualValues(f, key) {
			return i
		}
	}
	return -1
}

// weight returns the node count of a subtree with every alias counted
// as its full expansion. Memoized; safe because composed subtrees are
// immutable from the composer's point of view and acyclic.
func (c *Composer) weight(n *ir.Node) int {
	if w, ok := c.weights[n]; ok {
		return w
	}
	w := 1
	switch n.Type {
	case ir.AliasType:
		w = c.weight(n.Target)
	case ir.SequenceType:
		for _, v := range n.Values {
			w += c.weight(v)
		}
	case ir.MappingType:
		for i := range n.Fields {
			w += c.weight(n.Fields[i]) + c.weight(n.Values[i])
		}
	}
	c.weights[n] = w
	return w
}

// aliasDepth returns the deepest chain of aliases reachable inside a
// subtree: a tree with no aliases has depth 0, an alias adds one to
// its target's depth.
func (c *Composer) aliasDepth(n *ir.Node) int {
	if d, ok := c.depths[n]; ok {
		return d
	}
	d := 0
	switch n.Type {
	case ir.AliasType:
		d = 1 + c.aliasDepth(n.Target)
	case ir.SequenceType:
		for _, v := range n.Values {
			d = max(d, c.aliasDepth(v))
		}
	case ir.MappingType:
		for i := range n.Fields {
			d = max(d, c.aliasDepth(n.Fields[i]), c.aliasDepth(n.Values[i]))
		}
	}
	c.depths[n] = d
	return d
}
