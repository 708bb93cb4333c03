// Package schema implements the YAML core schema: the rules that give
// untagged plain scalars their types.
package schema

import (
	"math"
	"strconv"
	"strings"

	"github.com/signadot/yaml-kit/go-yamlkit/ir"
	"github.com/signadot/yaml-kit/go-yamlkit/token"
)

const (
	TagNull  = "tag:yaml.org,2002:null"
	TagBool  = "tag:yaml.org,2002:bool"
	TagInt   = "tag:yaml.org,2002:int"
	TagFloat = "tag:yaml.org,2002:float"
	TagStr   = "tag:yaml.org,2002:str"
	TagSeq   = "tag:yaml.org,2002:seq"
	TagMap   = "tag:yaml.org,2002:map"
)

// Resolve returns the core-schema tag for an untagged plain scalar
// with the given text.
func Resolve(v string) string {
	switch {
	case IsNull(v):
		return TagNull
	case IsBool(v):
		return TagBool
	case isInt(v):
		return TagInt
	case isFloat(v):
		return TagFloat
	}
	return TagStr
}

func IsNull(v string) bool {
	switch v {
	case "", "~", "null", "Null", "NULL":
		return true
	}
	return false
}

func IsBool(v string) bool {
	switch v {
	case "true", "True", "TRUE", "false", "False", "FALSE":
		return true
	}
	return false
}

// Bool returns the boolean value of v and whether v is a core-schema
// boolean.
func Bool(v string) (bool, bool) {
	switch v {
	case "true", "True", "TRUE":
		return true, true
	case "false", "False", "FALSE":
		return false, true
	}
	return false, false
}

func isInt(v string) bool {
	_, ok := Int(v)
	return ok
}

// Int parses v as a core-schema integer: optionally signed decimal,
// or unsigned 0o octal or 0x hexadecimal.
func Int(v string) (int64, bool) {
	s := v
	neg := false
	if len(s) > 0 && (s[0] == '+' || s[0] == '-') {
		neg = s[0] == '-'
		s = s[1:]
	}
	if s == "" {
		return 0, false
	}
	base := 10
	switch {
	case strings.HasPrefix(s, "0o"):
		if neg || v[0] == '+' {
			return 0, false
		}
		base, s = 8, s[2:]
	case strings.HasPrefix(s, "0x"):
		if neg || v[0] == '+' {
			return 0, false
		}
		base, s = 16, s[2:]
	}
	if s == "" {
		return 0, false
	}
	n, err := strconv.ParseInt(s, base, 64)
	if err != nil {
		return 0, false
	}
	if neg {
		n = -n
	}
	return n, true
}

func isFloat(v string) bool {
	_, ok := Float(v)
	return ok
}

// Float parses v as a core-schema float, including the .inf and .nan
// forms. JSON-style numbers like "1e3" and "1." are accepted;
// "1e" and a bare "." are not.
func Float(v string) (float64, bool) {
	s := v
	sign := 1.0
	if len(s) > 0 && (s[0] == '+' || s[0] == '-') {
		if s[0] == '-' {
			sign = -1
		}
		s = s[1:]
	}
	switch s {
	case ".inf", ".Inf", ".INF":
		return sign * math.Inf(1), true
	}
	switch v {
	case ".nan", ".NaN", ".NAN":
		return math.NaN(), true
	}
	// must contain a '.' or exponent, otherwise it is an int or str
	if !strings.ContainsAny(s, ".eE") {
		return 0, false
	}
	if s == "" || s == "." {
		return 0, false
	}
	// reject forms ParseFloat accepts but the schema does not
	if strings.ContainsAny(s, "xXpP_") {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return sign * f, true
}

// NodeTag returns the effective tag of a node: its explicit tag when
// present, otherwise the core-schema resolution. Untagged non-plain
// scalars are always strings. Aliases take their target's tag.
func NodeTag(n *ir.Node) string {
	n = n.Deref()
	if n == nil {
		return ""
	}
	if n.Tag != "" {
		return n.Tag
	}
	switch n.Type {
	case ir.SequenceType:
		return TagSeq
	case ir.MappingType:
		return TagMap
	}
	if n.Style != token.PlainStyle {
		return TagStr
	}
	return Resolve(n.Value)
}
