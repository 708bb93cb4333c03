package ir

import (
	"strings"

	"github.com/signadot/yaml-kit/go-yamlkit/token"
)

type cmpOpts struct {
	styles bool
	tags   bool
}

// Equal reports structural equality of two trees, including scalar
// styles, flow vs block notation, and tags. Aliases are equal when
// their names match and their targets are equal. This is the relation
// a load/dump round trip preserves.
func Equal(a, b *Node) bool {
	return equal(a, b, cmpOpts{styles: true, tags: true}, map[[2]*Node]bool{})
}

// EqualValues reports equality of content only: presentation (styles,
// flow vs block) is ignored, tags are compared. A flow sequence and a
// block sequence with the same elements are EqualValues.
func EqualValues(a, b *Node) bool {
	return equal(a, b, cmpOpts{tags: true}, map[[2]*Node]bool{})
}

// styleDegrades reports style pairs that a round trip maps into each
// other because the first style cannot carry the value on re-emission:
// a plain scalar holding a real line break comes back as a literal
// block scalar.
func styleDegrades(a, b *Node) bool {
	plainToLiteral := func(x, y *Node) bool {
		return x.Style == token.PlainStyle && y.Style == token.LiteralStyle &&
			strings.Contains(x.Value, "\n")
	}
	return plainToLiteral(a, b) || plainToLiteral(b, a)
}

func equal(a, b *Node, o cmpOpts, seen map[[2]*Node]bool) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Type != b.Type {
		return false
	}
	if o.tags && a.Tag != b.Tag {
		return false
	}
	switch a.Type {
	case ScalarType:
		if o.styles && a.Style != b.Style && !styleDegrades(a, b) {
			return false
		}
		return a.Value == b.Value
	case AliasType:
		if a.Name != b.Name {
			return false
		}
		// composed trees are acyclic through targets, but guard
		// hand-built ones
		k := [2]*Node{a, b}
		if seen[k] {
			return true
		}
		seen[k] = true
		return equal(a.Target, b.Target, o, seen)
	case SequenceType:
		if o.styles && a.Flow != b.Flow {
			return false
		}
		if len(a.Values) != len(b.Values) {
			return false
		}
		for i := range a.Values {
			if !equal(a.Values[i], b.Values[i], o, seen) {
				return false
			}
		}
		return true
	case MappingType:
		if o.styles && a.Flow != b.Flow {
			return false
		}
		if len(a.Fields) != len(b.Fields) {
			return false
		}
		for i := range a.Fields {
			if !equal(a.Fields[i], b.Fields[i], o, seen) {
				return false
			}
			if !equal(a.Values[i], b.Values[i], o, seen) {
				return false
			}
		}
		return true
	}
	return false
}

// EqualDocuments compares two documents: equal roots and the same
// anchor names bound at the same structural positions.
func EqualDocuments(a, b *Document) bool {
	if !Equal(a.Root, b.Root) {
		return false
	}
	an, bn := a.Anchors.Names(), b.Anchors.Names()
	if len(an) != len(bn) {
		return false
	}
	for i := range an {
		if an[i] != bn[i] {
			return false
		}
		if !Equal(a.Anchors.Lookup(an[i]), b.Anchors.Lookup(bn[i])) {
			return false
		}
	}
	return true
}
