package encode

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/signadot/yaml-kit/go-yamlkit/compose"
	"github.com/signadot/yaml-kit/go-yamlkit/ir"
	"github.com/signadot/yaml-kit/go-yamlkit/token"
)

func reEncode(t *testing.T, in string, opts ...Option) string {
	t.Helper()
	doc, err := compose.Compose([]byte(in))
	if err != nil {
		t.Fatalf("compose %q: %v", in, err)
	}
	s, err := String(doc, opts...)
	if err != nil {
		t.Fatalf("encode %q: %v", in, err)
	}
	return s
}

func TestEncodeBasics(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"mapping", "a: 1\nb: 2\n", "a: 1\nb: 2\n"},
		{"nested mapping", "a:\n  b: 1\n  c: 2\n", "a:\n  b: 1\n  c: 2\n"},
		{"sequence", "- 1\n- 2\n", "- 1\n- 2\n"},
		{"sequence of mappings", "- a: 1\n  b: 2\n- c: 3\n", "- a: 1\n  b: 2\n- c: 3\n"},
		{"flow preserved", "a: [1, 2]\n", "a: [1, 2]\n"},
		{"flow mapping preserved", "a: {x: 1}\n", "a: {x: 1}\n"},
		{"quoted styles", "a: 'x'\nb: \"y\"\n", "a: 'x'\nb: \"y\"\n"},
		{"anchor and alias", "a: &x 1\nb: *x\n", "a: &x 1\nb: *x\n"},
		{"empty value", "a:\nb: 1\n", "a:\nb: 1\n"},
		{"explicit tag", "a: !!str 1\n", "a: !!str 1\n"},
		{"local tag", "a: !foo 1\n", "a: !foo 1\n"},
		{"empty flow seq", "a: []\n", "a: []\n"},
		{"literal scalar", "a: |\n  text\n", "a: |\n  text\n"},
		{"literal strip", "a: |-\n  text\n", "a: |-\n  text\n"},
		{"literal keep", "a: |+\n  text\n\n\n", "a: |+\n  text\n\n\n"},
		{"folded scalar", "a: >\n  one two\n", "a: >\n  one two\n"},
		{"anchored collection", "a: &x\n  - 1\n", "a: &x\n  - 1\n"},
		{"deep sequence nesting", "- - 1\n  - 2\n- 3\n", "- - 1\n  - 2\n- 3\n"},
		{"empty flow value stays plain", "{a: , b: 2}\n", "{a: , b: 2}\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if d := cmp.Diff(tt.want, reEncode(t, tt.in)); d != "" {
				t.Errorf("(-want +got):\n%s", d)
			}
		})
	}
}

// a bare empty plain entry has no flow syntax of its own, so it is
// quoted; empty mapping values keep their plain form after the ':'.
func TestEncodeEmptyFlowEntry(t *testing.T) {
	seq := ir.FromStrings("", "1")
	seq.Flow = true
	got, err := String(ir.NewDocument(seq))
	if err != nil {
		t.Fatal(err)
	}
	if got != "['', 1]\n" {
		t.Errorf("got %q", got)
	}
}

func TestEncodeRequoting(t *testing.T) {
	tests := []struct {
		name string
		node *ir.Node
		want string
	}{
		{"colon space", ir.FromKeyVals("a", "x: y"), "a: 'x: y'\n"},
		{"leading hash", ir.FromKeyVals("a", "#x"), "a: '#x'\n"},
		{"leading dash space", ir.FromKeyVals("a", "- x"), "a: '- x'\n"},
		{"doc marker", ir.FromKeyVals("a", "---"), "a: '---'\n"},
		{"plain stays plain", ir.FromKeyVals("a", "true"), "a: true\n"},
		{"quote escape", ir.FromKeyVals("a", "it's"), "a: 'it''s'\n"},
		{"multiline goes literal", ir.FromKeyVals("a", "x\ny\n"), "a: |\n  x\n  y\n"},
		{"control char goes double", ir.FromKeyVals("a", "x\x01"), "a: \"x\\x01\"\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := ir.NewDocument(tt.node)
			got, err := String(doc)
			if err != nil {
				t.Fatal(err)
			}
			if d := cmp.Diff(tt.want, got); d != "" {
				t.Errorf("(-want +got):\n%s", d)
			}
		})
	}
}

func TestEncodePreferDouble(t *testing.T) {
	doc := ir.NewDocument(ir.FromKeyVals("a", "x: y"))
	got, err := String(doc, Quote(PreferDouble))
	if err != nil {
		t.Fatal(err)
	}
	if got != "a: \"x: y\"\n" {
		t.Errorf("got %q", got)
	}
}

func TestEncodeIndentOption(t *testing.T) {
	got := reEncode(t, "a:\n  b: 1\n", Indent(4))
	if got != "a:\n    b: 1\n" {
		t.Errorf("got %q", got)
	}
	doc := ir.NewDocument(ir.Scalar("x"))
	if _, err := String(doc, Indent(0)); !errors.Is(err, ErrBadOption) {
		t.Errorf("got %v", err)
	}
	if _, err := String(doc, Indent(9)); !errors.Is(err, ErrBadOption) {
		t.Errorf("got %v", err)
	}
}

func TestEncodeDefaultFlow(t *testing.T) {
	got := reEncode(t, "a:\n  - 1\n  - 2\n", DefaultFlow(true))
	if got != "{a: [1, 2]}\n" {
		t.Errorf("got %q", got)
	}
}

func TestEncodeLineWidth(t *testing.T) {
	in := "a: [alpha, beta, gamma, delta, epsilon]\n"
	got := reEncode(t, in, LineWidth(20))
	want := "a:\n  [\n    alpha,\n    beta,\n    gamma,\n    delta,\n    epsilon,\n  ]\n"
	if d := cmp.Diff(want, got); d != "" {
		t.Errorf("(-want +got):\n%s", d)
	}
	// wide enough stays inline
	if got := reEncode(t, in, LineWidth(120)); got != in {
		t.Errorf("inline: got %q", got)
	}
}

func TestEncodeGeneratedAnchors(t *testing.T) {
	shared := ir.Scalar("v")
	root := &ir.Node{Type: ir.MappingType}
	root.Put(ir.Scalar("a"), shared)
	root.Put(ir.Scalar("b"), &ir.Node{Type: ir.AliasType, Target: shared})
	root.Put(ir.Scalar("c"), &ir.Node{Type: ir.AliasType, Target: shared})
	got, err := String(ir.NewDocument(root))
	if err != nil {
		t.Fatal(err)
	}
	want := "a: &alias1 v\nb: *alias1\nc: *alias1\n"
	if got != want {
		t.Errorf("got %q want %q", got, want)
	}
}

func TestEncodeAnchorCollision(t *testing.T) {
	shared := ir.Scalar("v")
	other := ir.Scalar("w")
	root := &ir.Node{Type: ir.MappingType}
	root.Put(ir.Scalar("a"), other)
	root.Put(ir.Scalar("b"), shared)
	root.Put(ir.Scalar("c"), &ir.Node{Type: ir.AliasType, Target: shared})
	doc := ir.NewDocument(root)
	doc.Anchors.Define("alias1", other)
	if _, err := String(doc); !errors.Is(err, ErrAnchorCollision) {
		t.Errorf("got %v", err)
	}
}

func TestEncodeForwardAlias(t *testing.T) {
	target := ir.Scalar("v")
	root := &ir.Node{Type: ir.MappingType}
	root.Put(ir.Scalar("a"), &ir.Node{Type: ir.AliasType, Target: target})
	root.Put(ir.Scalar("b"), target)
	if _, err := String(ir.NewDocument(root)); !errors.Is(err, ErrForwardAlias) {
		t.Errorf("got %v", err)
	}
}

func TestEncodeUnrepresentable(t *testing.T) {
	doc := ir.NewDocument(ir.FromKeyVals("a", "x"))
	doc.Root.Values[0].Style = token.SingleStyle
	doc.Root.Values[0].Value = "x\ny"
	if _, err := String(doc); !errors.Is(err, ErrUnrepresentable) {
		t.Errorf("got %v", err)
	}
}

func TestEncodeStreamMarkers(t *testing.T) {
	docs := []*ir.Document{
		ir.NewDocument(ir.Scalar("a")),
		ir.NewDocument(ir.Scalar("b")),
	}
	var b strings.Builder
	if err := EncodeStream(docs, &b); err != nil {
		t.Fatal(err)
	}
	if got := b.String(); got != "a\n---\nb\n" {
		t.Errorf("got %q", got)
	}
	docs[1].Directives = []string{"YAML 1.2"}
	b.Reset()
	if err := EncodeStream(docs, &b); err != nil {
		t.Fatal(err)
	}
	if got := b.String(); got != "a\n...\n%YAML 1.2\n---\nb\n" {
		t.Errorf("with directives: got %q", got)
	}
}

func TestEncodeColors(t *testing.T) {
	got := reEncode(t, "a: 1\n", Colors(true))
	if !strings.Contains(got, "\x1b[") {
		t.Errorf("no escape codes in %q", got)
	}
	if plain := stripANSI(got); plain != "a: 1\n" {
		t.Errorf("stripped: %q", plain)
	}
}

func stripANSI(s string) string {
	var b strings.Builder
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
			b.WriteRune(r)
		}
	}
	return b.String()
}
