package token

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func sum(tk *Token) string {
	switch tk.Type {
	case TScalar:
		return fmt.Sprintf("%s/%s(%s)", tk.Type, tk.Style, tk.Value)
	case TAnchor, TAlias, TTag, TDirective, TComment:
		return fmt.Sprintf("%s(%s)", tk.Type, tk.Value)
	}
	return tk.Type.String()
}

func sums(toks []Token) []string {
	res := make([]string, 0, len(toks))
	for i := range toks {
		res = append(res, sum(&toks[i]))
	}
	return res
}

func TestScanTokens(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{
			name: "plain mapping",
			in:   "a: 1\n",
			want: []string{
				"TStreamStart",
				"TKey", "TScalar/plain(a)", "TValue", "TScalar/plain(1)",
				"TStreamEnd",
			},
		},
		{
			name: "nested mapping",
			in:   "a:\n  b: 1\nc: 2\n",
			want: []string{
				"TStreamStart",
				"TKey", "TScalar/plain(a)", "TValue",
				"TKey", "TScalar/plain(b)", "TValue", "TScalar/plain(1)",
				"TKey", "TScalar/plain(c)", "TValue", "TScalar/plain(2)",
				"TStreamEnd",
			},
		},
		{
			name: "block sequence",
			in:   "- a\n- b\n",
			want: []string{
				"TStreamStart",
				"TSeqEntry", "TScalar/plain(a)",
				"TSeqEntry", "TScalar/plain(b)",
				"TStreamEnd",
			},
		},
		{
			name: "sequence of mappings",
			in:   "- a: 1\n  b: 2\n",
			want: []string{
				"TStreamStart",
				"TSeqEntry",
				"TKey", "TScalar/plain(a)", "TValue", "TScalar/plain(1)",
				"TKey", "TScalar/plain(b)", "TValue", "TScalar/plain(2)",
				"TStreamEnd",
			},
		},
		{
			name: "flow sequence",
			in:   "[a, b]",
			want: []string{
				"TStreamStart",
				"TFlowSeqStart", "TScalar/plain(a)", "TFlowEntry",
				"TScalar/plain(b)", "TFlowSeqEnd",
				"TStreamEnd",
			},
		},
		{
			name: "flow mapping",
			in:   "{a: 1, b: 2}",
			want: []string{
				"TStreamStart",
				"TFlowMapStart",
				"TKey", "TScalar/plain(a)", "TValue", "TScalar/plain(1)",
				"TFlowEntry",
				"TKey", "TScalar/plain(b)", "TValue", "TScalar/plain(2)",
				"TFlowMapEnd",
				"TStreamEnd",
			},
		},
		{
			name: "flow sequence as key",
			in:   "[a]: b\n",
			want: []string{
				"TStreamStart",
				"TKey", "TFlowSeqStart", "TScalar/plain(a)", "TFlowSeqEnd",
				"TValue", "TScalar/plain(b)",
				"TStreamEnd",
			},
		},
		{
			name: "flow nested in block",
			in:   "a: {b: [1, 2]}\n",
			want: []string{
				"TStreamStart",
				"TKey", "TScalar/plain(a)", "TValue",
				"TFlowMapStart",
				"TKey", "TScalar/plain(b)", "TValue",
				"TFlowSeqStart", "TScalar/plain(1)", "TFlowEntry",
				"TScalar/plain(2)", "TFlowSeqEnd",
				"TFlowMapEnd",
				"TStreamEnd",
			},
		},
		{
			name: "anchor and alias",
			in:   "a: &x 1\nb: *x\n",
			want: []string{
				"TStreamStart",
				"TKey", "TScalar/plain(a)", "TValue", "TAnchor(x)", "TScalar/plain(1)",
				"TKey", "TScalar/plain(b)", "TValue", "TAlias(x)",
				"TStreamEnd",
			},
		},
		{
			name: "tagged scalar",
			in:   "!!str a\n",
			want: []string{
				"TStreamStart",
				"TTag(!!str)", "TScalar/plain(a)",
				"TStreamEnd",
			},
		},
		{
			name: "documents",
			in:   "---\na: 1\n...\n",
			want: []string{
				"TStreamStart",
				"TDocStart",
				"TKey", "TScalar/plain(a)", "TValue", "TScalar/plain(1)",
				"TDocEnd",
				"TStreamEnd",
			},
		},
		{
			name: "directive",
			in:   "%YAML 1.2\n---\nx\n",
			want: []string{
				"TStreamStart",
				"TDirective(YAML 1.2)",
				"TDocStart",
				"TScalar/plain(x)",
				"TStreamEnd",
			},
		},
		{
			name: "trailing comment",
			in:   "a: 1 # note\n",
			want: []string{
				"TStreamStart",
				"TKey", "TScalar/plain(a)", "TValue", "TScalar/plain(1)",
				"TComment(# note)",
				"TStreamEnd",
			},
		},
		{
			name: "key after multiline plain",
			in:   "a: one\n\n  two\nb: 2\n",
			want: []string{
				"TStreamStart",
				"TKey", "TScalar/plain(a)", "TValue", "TScalar/plain(one\ntwo)",
				"TKey", "TScalar/plain(b)", "TValue", "TScalar/plain(2)",
				"TStreamEnd",
			},
		},
		{
			name: "explicit key",
			in:   "? a\n: b\n",
			want: []string{
				"TStreamStart",
				"TKey", "TScalar/plain(a)",
				"TValue", "TScalar/plain(b)",
				"TStreamEnd",
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			toks, err := Tokens([]byte(tt.in))
			if err != nil {
				t.Fatalf("scan %q: %v", tt.in, err)
			}
			if d := cmp.Diff(tt.want, sums(toks)); d != "" {
				t.Errorf("token mismatch (-want +got):\n%s", d)
			}
		})
	}
}

func TestScanPlainFolding(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"a: one\n  two\n", "one two"},
		{"a: one\n\n  two\n", "one\ntwo"},
		{"a: one\n  two\n  three\n", "one two three"},
	}
	for _, tt := range tests {
		toks, err := Tokens([]byte(tt.in))
		if err != nil {
			t.Fatalf("scan %q: %v", tt.in, err)
		}
		got := ""
		for i := range toks {
			if toks[i].Type == TScalar && toks[i].Value != "a" {
				got = toks[i].Value
			}
		}
		if got != tt.want {
			t.Errorf("%q: got %q want %q", tt.in, got, tt.want)
		}
	}
}

func TestScanQuoted(t *testing.T) {
	tests := []struct {
		in    string
		want  string
		style ScalarStyle
	}{
		{`'it''s'`, "it's", SingleStyle},
		{`''`, "", SingleStyle},
		{"'a  b'", "a  b", SingleStyle},
		{"'one\n two'", "one two", SingleStyle},
		{`""`, "", DoubleStyle},
		{`"a\tb"`, "a\tb", DoubleStyle},
		{`"\u0041\x42"`, "AB", DoubleStyle},
		{`"\e\0"`, "\x1b\x00", DoubleStyle},
		{`"\\n"`, `\n`, DoubleStyle},
		{"\"one\ntwo\"", "one two", DoubleStyle},
		{"\"one\\\ntwo\"", "onetwo", DoubleStyle},
	}
	for _, tt := range tests {
		toks, err := Tokens([]byte(tt.in))
		if err != nil {
			t.Fatalf("scan %q: %v", tt.in, err)
		}
		var sc *Token
		for i := range toks {
			if toks[i].Type == TScalar {
				sc = &toks[i]
			}
		}
		if sc == nil {
			t.Fatalf("%q: no scalar token", tt.in)
		}
		if sc.Value != tt.want {
			t.Errorf("%q: got %q want %q", tt.in, sc.Value, tt.want)
		}
		if sc.Style != tt.style {
			t.Errorf("%q: got style %s want %s", tt.in, sc.Style, tt.style)
		}
	}
}

func TestScanQuotedErrs(t *testing.T) {
	tests := []struct {
		in   string
		want error
	}{
		{`"a\q"`, ErrBadEscape},
		{`"\u00GG"`, ErrBadUnicode},
		{`"\uD800"`, ErrBadUnicode},
	}
	for _, tt := range tests {
		_, err := Tokens([]byte(tt.in))
		if !errors.Is(err, tt.want) {
			t.Errorf("%q: got %v want %v", tt.in, err, tt.want)
		}
	}
}

// an unterminated quoted scalar reports the opening quote's position,
// not the end of input.
func TestScanUnterminatedQuotePos(t *testing.T) {
	in := "key: \"abc\n  def"
	_, err := Tokens([]byte(in))
	if !errors.Is(err, ErrUnterminated) {
		t.Fatalf("got %v want %v", err, ErrUnterminated)
	}
	var se *ScanError
	if !errors.As(err, &se) {
		t.Fatalf("not a ScanError: %v", err)
	}
	if se.Pos.I != 5 {
		t.Errorf("got offset %d want 5", se.Pos.I)
	}
	if l, c := se.Pos.LineCol(); l != 0 || c != 5 {
		t.Errorf("got line=%d col=%d want line=0 col=5", l, c)
	}
}

func TestScanUnterminatedFlowPos(t *testing.T) {
	in := "[a, b\n"
	_, err := Tokens([]byte(in))
	if !errors.Is(err, ErrUnterminated) {
		t.Fatalf("got %v want %v", err, ErrUnterminated)
	}
	var se *ScanError
	if !errors.As(err, &se) {
		t.Fatalf("not a ScanError: %v", err)
	}
	if se.Pos.I != 0 {
		t.Errorf("got offset %d want 0", se.Pos.I)
	}
}

func TestScanBlockScalar(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		want  string
		style ScalarStyle
	}{
		{"literal clip", "a: |\n  one\n  two\n", "one\ntwo\n", LiteralStyle},
		{"literal strip", "a: |-\n  one\n", "one", LiteralStyle},
		{"literal keep", "a: |+\n  one\n\n", "one\n\n", LiteralStyle},
		{"folded", "a: >\n  one\n  two\n", "one two\n", FoldedStyle},
		{"folded blank line", "a: >\n  one\n\n  two\n", "one\ntwo\n", FoldedStyle},
		{"folded more indented", ">\n  one\n   more\n  two\n", "one\n more\ntwo\n", FoldedStyle},
		{"literal more indented", "|\n  one\n    two\n  three\n", "one\n  two\nthree\n", LiteralStyle},
		{"explicit indent", "a: |2\n    x\n", "  x\n", LiteralStyle},
		{"leading blank", "|\n\n  text\n", "\ntext\n", LiteralStyle},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			toks, err := Tokens([]byte(tt.in))
			if err != nil {
				t.Fatalf("scan %q: %v", tt.in, err)
			}
			var sc *Token
			for i := range toks {
				if toks[i].Type == TScalar && toks[i].Style != PlainStyle {
					sc = &toks[i]
				}
			}
			if sc == nil {
				t.Fatalf("%q: no block scalar token", tt.in)
			}
			if sc.Value != tt.want {
				t.Errorf("%q: got %q want %q", tt.in, sc.Value, tt.want)
			}
			if sc.Style != tt.style {
				t.Errorf("%q: got style %s want %s", tt.in, sc.Style, tt.style)
			}
		})
	}
}

func TestScanBlockScalarEnd(t *testing.T) {
	in := "a: |\n  x\nb: 2\n"
	toks, err := Tokens([]byte(in))
	if err != nil {
		t.Fatal(err)
	}
	want := []string{
		"TStreamStart",
		"TKey", "TScalar/plain(a)", "TValue", "TScalar/literal(x\n)",
		"TKey", "TScalar/plain(b)", "TValue", "TScalar/plain(2)",
		"TStreamEnd",
	}
	if d := cmp.Diff(want, sums(toks)); d != "" {
		t.Errorf("token mismatch (-want +got):\n%s", d)
	}
}

func TestScanTabIndent(t *testing.T) {
	if _, err := Tokens([]byte("a:\n\tb: 1\n")); !errors.Is(err, ErrTabIndent) {
		t.Errorf("got %v want %v", err, ErrTabIndent)
	}
	// tabs on blank and comment lines are harmless
	if _, err := Tokens([]byte("a: 1\n\t\nb: 2\n")); err != nil {
		t.Errorf("blank tab line: %v", err)
	}
	if _, err := Tokens([]byte("a: 1\n\t# note\nb: 2\n")); err != nil {
		t.Errorf("comment tab line: %v", err)
	}
}

func TestTokenPositions(t *testing.T) {
	toks, err := Tokens([]byte("foo: bar\nbaz: qux\n"))
	if err != nil {
		t.Fatal(err)
	}
	at := func(val string) *Token {
		for i := range toks {
			if toks[i].Type == TScalar && toks[i].Value == val {
				return &toks[i]
			}
		}
		t.Fatalf("no token %q", val)
		return nil
	}
	checks := []struct {
		val       string
		line, col int
	}{
		{"foo", 0, 0},
		{"bar", 0, 5},
		{"baz", 1, 0},
		{"qux", 1, 5},
	}
	for _, c := range checks {
		tk := at(c.val)
		if l, cl := tk.Pos.LineCol(); l != c.line || cl != c.col {
			t.Errorf("%s: got line=%d col=%d want line=%d col=%d", c.val, l, cl, c.line, c.col)
		}
	}
	// the implicit key token carries the key scalar's position
	for i := range toks {
		if toks[i].Type == TKey {
			if toks[i].Pos.I != toks[i+1].Pos.I {
				t.Errorf("key token at %d, key scalar at %d", toks[i].Pos.I, toks[i+1].Pos.I)
			}
		}
	}
}

func TestNormalize(t *testing.T) {
	// UTF-8 BOM is stripped
	d, err := Normalize([]byte("\xef\xbb\xbfa: 1\n"))
	if err != nil {
		t.Fatal(err)
	}
	if string(d) != "a: 1\n" {
		t.Errorf("got %q", d)
	}
	// UTF-16LE is transcoded
	d, err = Normalize([]byte{0xff, 0xfe, 'a', 0, ':', 0, ' ', 0, '1', 0, '\n', 0})
	if err != nil {
		t.Fatal(err)
	}
	if string(d) != "a: 1\n" {
		t.Errorf("got %q", d)
	}
	// invalid UTF-8 is rejected with the offending offset
	_, err = Normalize([]byte("ab\xffc"))
	if !errors.Is(err, ErrBadUTF8) {
		t.Fatalf("got %v want %v", err, ErrBadUTF8)
	}
	var se *ScanError
	if !errors.As(err, &se) {
		t.Fatalf("not a ScanError: %v", err)
	}
	if se.Pos.I != 2 {
		t.Errorf("got offset %d want 2", se.Pos.I)
	}
}

func TestTagParts(t *testing.T) {
	tests := []struct {
		in, handle, suffix string
	}{
		{"!!str", "!!", "str"},
		{"!local", "!", "local"},
		{"!<tag:yaml.org,2002:str>", "", "tag:yaml.org,2002:str"},
		{"!h!s", "!h!", "s"},
	}
	for _, tt := range tests {
		h, s := TagParts(tt.in)
		if h != tt.handle || s != tt.suffix {
			t.Errorf("%q: got (%q, %q) want (%q, %q)", tt.in, h, s, tt.handle, tt.suffix)
		}
	}
}
