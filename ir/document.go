package ir

import "sort"

// AnchorTable tracks anchor definitions within one document. A name
// redefined later in document order overwrites the earlier binding,
// so Lookup always yields the most recent definition.
type AnchorTable struct {
	byName map[string]*Node
	names  map[*Node]string
}

func NewAnchorTable() *AnchorTable {
	return &AnchorTable{
		byName: map[string]*Node{},
		names:  map[*Node]string{},
	}
}

// Define binds name to n, replacing any prior binding of name.
func (t *AnchorTable) Define(name string, n *Node) {
	if old, ok := t.byName[name]; ok {
		delete(t.names, old)
	}
	t.byName[name] = n
	t.names[n] = name
}

// Lookup returns the node currently bound to name, or nil.
func (t *AnchorTable) Lookup(name string) *Node {
	return t.byName[name]
}

// NameOf returns the anchor name bound to n, if any.
func (t *AnchorTable) NameOf(n *Node) (string, bool) {
	name, ok := t.names[n]
	return name, ok
}

// Names returns all defined anchor names, sorted.
func (t *AnchorTable) Names() []string {
	res := make([]string, 0, len(t.byName))
	for name := range t.byName {
		res = append(res, name)
	}
	sort.Strings(res)
	return res
}

func (t *AnchorTable) Len() int {
	return len(t.byName)
}

// Document is one document of a stream: a root node plus the
// directives and anchors scoped to it.
type Document struct {
	// Directives holds the %YAML and %TAG directive lines that
	// preceded the document, without the leading '%'.
	Directives []string

	Root *Node

	Anchors *AnchorTable

	// Explicit records whether the document opened with "---".
	Explicit bool
}

func NewDocument(root *Node) *Document {
	return &Document{Root: root, Anchors: NewAnchorTable()}
}
