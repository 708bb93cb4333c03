package schema

import (
	"math"
	"testing"

	"github.com/signadot/yaml-kit/go-yamlkit/ir"
	"github.com/signadot/yaml-kit/go-yamlkit/token"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", TagNull},
		{"~", TagNull},
		{"null", TagNull},
		{"NULL", TagNull},
		{"Null", TagNull},
		{"nUll", TagStr},
		{"true", TagBool},
		{"False", TagBool},
		{"TRUE", TagBool},
		{"yes", TagStr},
		{"on", TagStr},
		{"0", TagInt},
		{"-12", TagInt},
		{"+34", TagInt},
		{"0o17", TagInt},
		{"0x1aF", TagInt},
		{"-0x1", TagStr},
		{"08", TagInt},
		{"1.5", TagFloat},
		{"-2.", TagFloat},
		{".5", TagFloat},
		{"1e3", TagFloat},
		{"6.02E23", TagFloat},
		{".inf", TagFloat},
		{"-.Inf", TagFloat},
		{".nan", TagFloat},
		{".", TagStr},
		{"1e", TagStr},
		{"1.2.3", TagStr},
		{"0x", TagStr},
		{"hello", TagStr},
		{"12 34", TagStr},
	}
	for _, tt := range tests {
		if got := Resolve(tt.in); got != tt.want {
			t.Errorf("Resolve(%q): got %s want %s", tt.in, got, tt.want)
		}
	}
}

func TestInt(t *testing.T) {
	tests := []struct {
		in   string
		want int64
		ok   bool
	}{
		{"0", 0, true},
		{"-7", -7, true},
		{"+7", 7, true},
		{"0o17", 15, true},
		{"0x1f", 31, true},
		{"0xG", 0, false},
		{"0o8", 0, false},
		{"", 0, false},
		{"-", 0, false},
	}
	for _, tt := range tests {
		got, ok := Int(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("Int(%q): got %d,%v want %d,%v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestFloat(t *testing.T) {
	if f, ok := Float("-.inf"); !ok || !math.IsInf(f, -1) {
		t.Errorf("-.inf: %v %v", f, ok)
	}
	if f, ok := Float(".nan"); !ok || !math.IsNaN(f) {
		t.Errorf(".nan: %v %v", f, ok)
	}
	if f, ok := Float("6.02e23"); !ok || f != 6.02e23 {
		t.Errorf("6.02e23: %v %v", f, ok)
	}
	for _, bad := range []string{"inf", "nan", "0x1p3", "1_0.5", "12"} {
		if _, ok := Float(bad); ok {
			t.Errorf("Float(%q) should fail", bad)
		}
	}
}

func TestNodeTag(t *testing.T) {
	if got := NodeTag(ir.Scalar("12")); got != TagInt {
		t.Errorf("plain 12: %s", got)
	}
	if got := NodeTag(ir.StyledScalar("12", token.SingleStyle)); got != TagStr {
		t.Errorf("quoted 12: %s", got)
	}
	tagged := ir.Scalar("12")
	tagged.Tag = TagStr
	if got := NodeTag(tagged); got != TagStr {
		t.Errorf("explicit tag: %s", got)
	}
	if got := NodeTag(ir.FromStrings("a")); got != TagSeq {
		t.Errorf("sequence: %s", got)
	}
	if got := NodeTag(ir.FromKeyVals("a", "b")); got != TagMap {
		t.Errorf("mapping: %s", got)
	}
	alias := &ir.Node{Type: ir.AliasType, Name: "x", Target: ir.Scalar("true")}
	if got := NodeTag(alias); got != TagBool {
		t.Errorf("alias: %s", got)
	}
}
