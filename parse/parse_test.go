package parse

import (
	"errors"
	"io"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/signadot/yaml-kit/go-yamlkit/stream"
	"github.com/signadot/yaml-kit/go-yamlkit/token"
)

func esum(e *stream.Event) string {
	s := e.Type.String()
	if e.Anchor != "" {
		s += " &" + e.Anchor
	}
	if e.Tag != "" {
		s += " <" + e.Tag + ">"
	}
	switch e.Type {
	case stream.EventScalar:
		s += "(" + e.Value + ")"
	case stream.EventAlias:
		s += "(*" + e.Value + ")"
	}
	return s
}

func esums(events []stream.Event) []string {
	res := make([]string, 0, len(events))
	for i := range events {
		res = append(res, esum(&events[i]))
	}
	return res
}

func TestParseEvents(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{
			name: "simple mapping",
			in:   "a: 1\n",
			want: []string{
				"StreamStart", "DocumentStart", "MappingStart",
				"Scalar(a)", "Scalar(1)",
				"MappingEnd", "DocumentEnd", "StreamEnd",
			},
		},
		{
			name: "nested mapping",
			in:   "a:\n  b: 1\n  c: 2\n",
			want: []string{
				"StreamStart", "DocumentStart", "MappingStart",
				"Scalar(a)", "MappingStart",
				"Scalar(b)", "Scalar(1)", "Scalar(c)", "Scalar(2)",
				"MappingEnd", "MappingEnd", "DocumentEnd", "StreamEnd",
			},
		},
		{
			name: "under-indented sibling pops the nested mapping",
			in:   "a:\n b: 1\nc: 2\n",
			want: []string{
				"StreamStart", "DocumentStart", "MappingStart",
				"Scalar(a)", "MappingStart",
				"Scalar(b)", "Scalar(1)",
				"MappingEnd",
				"Scalar(c)", "Scalar(2)",
				"MappingEnd", "DocumentEnd", "StreamEnd",
			},
		},
		{
			name: "flow sequence",
			in:   "[1, 2, 3]",
			want: []string{
				"StreamStart", "DocumentStart", "SequenceStart",
				"Scalar(1)", "Scalar(2)", "Scalar(3)",
				"SequenceEnd", "DocumentEnd", "StreamEnd",
			},
		},
		{
			name: "block sequence",
			in:   "- 1\n- 2\n- 3\n",
			want: []string{
				"StreamStart", "DocumentStart", "SequenceStart",
				"Scalar(1)", "Scalar(2)", "Scalar(3)",
				"SequenceEnd", "DocumentEnd", "StreamEnd",
			},
		},
		{
			name: "sequence under key at same column",
			in:   "key:\n- 1\n- 2\n",
			want: []string{
				"StreamStart", "DocumentStart", "MappingStart",
				"Scalar(key)", "SequenceStart",
				"Scalar(1)", "Scalar(2)",
				"SequenceEnd", "MappingEnd", "DocumentEnd", "StreamEnd",
			},
		},
		{
			name: "anchor and alias",
			in:   "a: &x 1\nb: *x\n",
			want: []string{
				"StreamStart", "DocumentStart", "MappingStart",
				"Scalar(a)", "Scalar &x(1)",
				"Scalar(b)", "Alias(*x)",
				"MappingEnd", "DocumentEnd", "StreamEnd",
			},
		},
		{
			name: "secondary tag handle",
			in:   "!!str a\n",
			want: []string{
				"StreamStart", "DocumentStart",
				"Scalar <tag:yaml.org,2002:str>(a)",
				"DocumentEnd", "StreamEnd",
			},
		},
		{
			name: "tag directive",
			in:   "%TAG !e! tag:example.com,2000:app/\n---\n!e!foo bar\n",
			want: []string{
				"StreamStart", "DocumentStart",
				"Scalar <tag:example.com,2000:app/foo>(bar)",
				"DocumentEnd", "StreamEnd",
			},
		},
		{
			name: "multiple documents",
			in:   "---\na\n---\nb\n",
			want: []string{
				"StreamStart",
				"DocumentStart", "Scalar(a)", "DocumentEnd",
				"DocumentStart", "Scalar(b)", "DocumentEnd",
				"StreamEnd",
			},
		},
		{
			name: "empty documents",
			in:   "---\n---\n",
			want: []string{
				"StreamStart",
				"DocumentStart", "Scalar()", "DocumentEnd",
				"DocumentStart", "Scalar()", "DocumentEnd",
				"StreamEnd",
			},
		},
		{
			name: "compact pair in flow sequence",
			in:   "[a: 1, b]",
			want: []string{
				"StreamStart", "DocumentStart", "SequenceStart",
				"MappingStart", "Scalar(a)", "Scalar(1)", "MappingEnd",
				"Scalar(b)",
				"SequenceEnd", "DocumentEnd", "StreamEnd",
			},
		},
		{
			name: "flow mapping key without value",
			in:   "{a}",
			want: []string{
				"StreamStart", "DocumentStart", "MappingStart",
				"Scalar(a)", "Scalar()",
				"MappingEnd", "DocumentEnd", "StreamEnd",
			},
		},
		{
			name: "trailing comment between entries",
			in:   "a: 1 # note\nb: 2\n",
			want: []string{
				"StreamStart", "DocumentStart", "MappingStart",
				"Scalar(a)", "Scalar(1)",
				"Scalar(b)", "Scalar(2)",
				"MappingEnd", "DocumentEnd", "StreamEnd",
			},
		},
		{
			name: "multiline plain with blank line",
			in:   "a: one\n\n  two\nb: 2\n",
			want: []string{
				"StreamStart", "DocumentStart", "MappingStart",
				"Scalar(a)", "Scalar(one\ntwo)",
				"Scalar(b)", "Scalar(2)",
				"MappingEnd", "DocumentEnd", "StreamEnd",
			},
		},
		{
			name: "explicit key",
			in:   "? a\n: b\n",
			want: []string{
				"StreamStart", "DocumentStart", "MappingStart",
				"Scalar(a)", "Scalar(b)",
				"MappingEnd", "DocumentEnd", "StreamEnd",
			},
		},
		{
			name: "missing value",
			in:   "a:\nb: 1\n",
			want: []string{
				"StreamStart", "DocumentStart", "MappingStart",
				"Scalar(a)", "Scalar()",
				"Scalar(b)", "Scalar(1)",
				"MappingEnd", "DocumentEnd", "StreamEnd",
			},
		},
		{
			name: "anchored empty value",
			in:   "a: &x\nb: 1\n",
			want: []string{
				"StreamStart", "DocumentStart", "MappingStart",
				"Scalar(a)", "Scalar &x()",
				"Scalar(b)", "Scalar(1)",
				"MappingEnd", "DocumentEnd", "StreamEnd",
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			events, err := Events([]byte(tt.in))
			if err != nil {
				t.Fatalf("parse %q: %v", tt.in, err)
			}
			if d := cmp.Diff(tt.want, esums(events)); d != "" {
				t.Errorf("event mismatch (-want +got):\n%s", d)
			}
		})
	}
}

func TestParseErrs(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want error
	}{
		{"inline seq entry after value", "a: - b\n", ErrUnexpectedToken},
		{"alias with property", "- &x *y\n", ErrAliasProperty},
		{"dangling property at marker", "&x\n---\n", ErrDanglingProperty},
		{"duplicate yaml directive", "%YAML 1.2\n%YAML 1.2\n---\na\n", ErrDupYAMLDirective},
		{"directive without marker", "%YAML 1.2\na: 1\n", ErrStrayDirective},
		{"unknown tag handle", "!e!x y\n", ErrUnknownTagHandle},
		{"two roots", "a\nb: 1\n", ErrMultipleRoots},
		{"scalar where key expected", "a: 1\n  b\n", ErrUnexpectedToken},
		{"over-indented key", "a: 1\n  b: 2\n", ErrBadIndent},
		{"bad version", "%YAML 2.0\n---\na\n", ErrBadVersion},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Events([]byte(tt.in))
			if !errors.Is(err, tt.want) {
				t.Errorf("%q: got %v want %v", tt.in, err, tt.want)
			}
		})
	}
}

func TestParseOnComment(t *testing.T) {
	var got []string
	_, err := Events([]byte("a: 1 # note\n# standalone\nb: 2\n"),
		OnComment(func(tk *token.Token) {
			got = append(got, tk.Value)
		}))
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"# note", "# standalone"}
	if d := cmp.Diff(want, got); d != "" {
		t.Errorf("comments (-want +got):\n%s", d)
	}
}

// a flow collection closed with the wrong delimiter reports the
// opening position.
func TestParseFlowMismatch(t *testing.T) {
	_, err := Events([]byte("{a: 1]"))
	if !errors.Is(err, ErrUnclosedFlow) {
		t.Fatalf("got %v want %v", err, ErrUnclosedFlow)
	}
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("not a ParseError: %v", err)
	}
	if pe.Pos.I != 0 {
		t.Errorf("got offset %d want 0", pe.Pos.I)
	}
}

func TestParseDocumentMarkers(t *testing.T) {
	events, err := Events([]byte("a\n...\n"))
	if err != nil {
		t.Fatal(err)
	}
	var docEnd *stream.Event
	var docStart *stream.Event
	for i := range events {
		switch events[i].Type {
		case stream.EventDocumentEnd:
			docEnd = &events[i]
		case stream.EventDocumentStart:
			docStart = &events[i]
		}
	}
	if docStart == nil || docStart.Explicit {
		t.Errorf("document start should be implicit")
	}
	if docEnd == nil || !docEnd.Explicit {
		t.Errorf("document end should be explicit")
	}
}

func TestParseDirectivesOnDocument(t *testing.T) {
	events, err := Events([]byte("%YAML 1.2\n---\na\n"))
	if err != nil {
		t.Fatal(err)
	}
	for i := range events {
		if events[i].Type != stream.EventDocumentStart {
			continue
		}
		if !events[i].Explicit {
			t.Error("document start should be explicit")
		}
		if d := cmp.Diff([]string{"YAML 1.2"}, events[i].Directives); d != "" {
			t.Errorf("directives (-want +got):\n%s", d)
		}
		return
	}
	t.Fatal("no DocumentStart event")
}

func TestParseResync(t *testing.T) {
	in := "a: - b\n---\nok: 1\n"
	p, err := NewParser([]byte(in), Resync(true))
	if err != nil {
		t.Fatal(err)
	}
	var events []stream.Event
	for {
		e, err := p.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("resync should swallow the error, got %v", err)
		}
		events = append(events, *e)
	}
	if len(p.Errs()) != 1 {
		t.Fatalf("got %d errors want 1", len(p.Errs()))
	}
	if !errors.Is(p.Errs()[0], ErrUnexpectedToken) {
		t.Errorf("got %v", p.Errs()[0])
	}
	found := false
	for i := range events {
		if events[i].Type == stream.EventScalar && events[i].Value == "ok" {
			found = true
		}
	}
	if !found {
		t.Errorf("second document not parsed: %v", esums(events))
	}
	// without resync the same input fails outright
	if _, err := Events([]byte(in)); !errors.Is(err, ErrUnexpectedToken) {
		t.Errorf("strict mode: got %v", err)
	}
}

func TestParseEventsAreBalanced(t *testing.T) {
	inputs := []string{
		"a: 1\n",
		"a:\n  b: [1, {c: 2}]\n- ignored\n",
		"---\n- 1\n- x: y\n...\n---\nz\n",
		"? [a, b]\n: c\n",
	}
	for _, in := range inputs {
		events, err := Events([]byte(in))
		if err != nil {
			// malformed inputs are fine here; balance is only
			// checked for event streams that parse
			continue
		}
		st := stream.NewState()
		for i := range events {
			if perr := st.ProcessEvent(&events[i]); perr != nil {
				t.Errorf("%q: event %d (%s): %v", in, i, events[i].Type, perr)
				break
			}
		}
	}
}
