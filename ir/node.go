package ir

import (
	"fmt"

	"github.com/signadot/yaml-kit/go-yamlkit/token"
)

// Node represents a node in a composed document tree. A single struct
// covers all node types; which fields are meaningful depends on Type.
//
// Scalars carry Value, Style, and Tag. Sequences carry Values.
// Mappings carry Fields and Values in parallel: Fields[i] is the key
// node for Values[i]. Aliases carry Name and Target, where Target
// points at the anchored node elsewhere in the same tree; the alias
// does not own its target.
type Node struct {
	Type Type

	// Parent is nil for a document root. ParentIndex is the index of
	// this node in the parent's Values (or Fields, for mapping keys,
	// with IsKey set).
	Parent      *Node
	ParentIndex int
	IsKey       bool

	// Tag is the resolved tag as written in the source, or "" when
	// the node carried no explicit tag.
	Tag string

	// Style records how a scalar was written. Flow records whether a
	// collection used flow notation.
	Style token.ScalarStyle
	Flow  bool

	Value string

	Fields []*Node
	Values []*Node

	// Name and Target are set for AliasType.
	Name   string
	Target *Node

	Pos *token.Pos
}

// Scalar returns a plain scalar node.
func Scalar(v string) *Node {
	return &Node{Type: ScalarType, Value: v}
}

// StyledScalar returns a scalar node with an explicit style.
func StyledScalar(v string, style token.ScalarStyle) *Node {
	return &Node{Type: ScalarType, Value: v, Style: style}
}

// Null returns an empty plain scalar, which the core schema resolves
// to null.
func Null() *Node {
	return &Node{Type: ScalarType}
}

// FromStrings returns a block sequence of plain scalars.
func FromStrings(vs ...string) *Node {
	n := &Node{Type: SequenceType}
	for _, v := range vs {
		n.Append(Scalar(v))
	}
	return n
}

// FromKeyVals returns a block mapping from alternating key, value
// scalar strings. It panics on an odd argument count.
func FromKeyVals(kvs ...string) *Node {
	if len(kvs)%2 != 0 {
		panic(fmt.Sprintf("FromKeyVals: %d arguments", len(kvs)))
	}
	n := &Node{Type: MappingType}
	for i := 0; i < len(kvs); i += 2 {
		n.Put(Scalar(kvs[i]), Scalar(kvs[i+1]))
	}
	return n
}

// Append adds c to a sequence node and wires its parent links.
func (n *Node) Append(c *Node) *Node {
	c.Parent = n
	c.ParentIndex = len(n.Values)
	n.Values = append(n.Values, c)
	return n
}

// Put adds a key/value pair to a mapping node and wires parent links.
// It does not check for duplicate keys; the composer does that.
func (n *Node) Put(k, v *Node) *Node {
	k.Parent = n
	k.ParentIndex = len(n.Fields)
	k.IsKey = true
	v.Parent = n
	v.ParentIndex = len(n.Values)
	n.Fields = append(n.Fields, k)
	n.Values = append(n.Values, v)
	return n
}

// Get returns the value for the given plain key in a mapping node,
// or nil if n is not a mapping or has no such key. Keys are matched
// on their scalar value; non-scalar keys never match.
func (n *Node) Get(key string) *Node {
	if n == nil || n.Type != MappingType {
		return nil
	}
	for i, f := range n.Fields {
		if f.Type == ScalarType && f.Value == key {
			return n.Values[i]
		}
	}
	return nil
}

// Index returns the i'th element of a sequence node, or nil when out
// of range or not a sequence.
func (n *Node) Index(i int) *Node {
	if n == nil || n.Type != SequenceType {
		return nil
	}
	if i < 0 || i >= len(n.Values) {
		return nil
	}
	return n.Values[i]
}

// Deref follows alias links to the aliased node. Non-alias nodes
// return themselves.
func (n *Node) Deref() *Node {
	for n != nil && n.Type == AliasType {
		n = n.Target
	}
	return n
}

// Root walks parent links to the top of the tree.
func (n *Node) Root() *Node {
	for n.Parent != nil {
		n = n.Parent
	}
	return n
}

// Clone deep-copies the tree rooted at n. Alias nodes in the copy
// point at the corresponding copied targets when the target lies
// inside the cloned subtree, and at the original otherwise.
func (n *Node) Clone() *Node {
	seen := map[*Node]*Node{}
	c := n.clone(seen)
	var fix func(m *Node)
	fix = func(m *Node) {
		if m.Type == AliasType {
			if t, ok := seen[m.Target]; ok {
				m.Target = t
			}
			return
		}
		for _, f := range m.Fields {
			fix(f)
		}
		for _, v := range m.Values {
			fix(v)
		}
	}
	fix(c)
	return c
}

func (n *Node) clone(seen map[*Node]*Node) *Node {
	c := &Node{}
	*c = *n
	c.Parent = nil
	c.ParentIndex = 0
	seen[n] = c
	if len(n.Fields) > 0 {
		c.Fields = make([]*Node, len(n.Fields))
	}
	if len(n.Values) > 0 {
		c.Values = make([]*Node, len(n.Values))
	}
	for i, f := range n.Fields {
		cf := f.clone(seen)
		cf.Parent = c
		cf.ParentIndex = i
		c.Fields[i] = cf
	}
	for i, v := range n.Values {
		cv := v.clone(seen)
		cv.Parent = c
		cv.ParentIndex = i
		c.Values[i] = cv
	}
	return c
}

// Visit walks the tree rooted at n, calling f before and after each
// node's children with isPost false and then true. Returning false
// from the pre call skips the subtree. Alias targets are not
// followed.
func (n *Node) Visit(f func(n *Node, isPost bool) (bool, error)) error {
	desc, err := f(n, false)
	if err != nil {
		return err
	}
	if desc {
		for i := range n.Fields {
			if err := n.Fields[i].Visit(f); err != nil {
				return err
			}
			if err := n.Values[i].Visit(f); err != nil {
				return err
			}
		}
		if n.Type == SequenceType {
			for _, v := range n.Values {
				if err := v.Visit(f); err != nil {
					return err
				}
			}
		}
	}
	if _, err := f(n, true); err != nil {
		return err
	}
	return nil
}

// Count returns the number of nodes in the tree rooted at n, not
// following alias targets.
func (n *Node) Count() int {
	c := 0
	n.Visit(func(_ *Node, isPost bool) (bool, error) {
		if !isPost {
			c++
		}
		return true, nil
	})
	return c
}

func (n *Node) String() string {
	switch n.Type {
	case ScalarType:
		return fmt.Sprintf("Scalar(%q)", n.Value)
	case SequenceType:
		return fmt.Sprintf("Sequence[%d]", len(n.Values))
	case MappingType:
		return fmt.Sprintf("Mapping[%d]", len(n.Fields))
	case AliasType:
		return fmt.Sprintf("Alias(*%s)", n.Name)
	}
	return "<unknown node>"
}
