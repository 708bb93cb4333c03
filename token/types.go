package token

import "fmt"

type TokenType int

const (
	TStreamStart TokenType = iota
	TStreamEnd
	TDocStart
	TDocEnd
	TDirective
	TSeqEntry
	TKey
	TValue
	TFlowSeqStart
	TFlowSeqEnd
	TFlowMapStart
	TFlowMapEnd
	TFlowEntry
	TAnchor
	TAlias
	TTag
	TScalar
	TComment
)

func (t TokenType) String() string {
	return map[TokenType]string{
		TStreamStart:  "TStreamStart",
		TStreamEnd:    "TStreamEnd",
		TDocStart:     "TDocStart",
		TDocEnd:       "TDocEnd",
		TDirective:    "TDirective",
		TSeqEntry:     "TSeqEntry",
		TKey:          "TKey",
		TValue:        "TValue",
		TFlowSeqStart: "TFlowSeqStart",
		TFlowSeqEnd:   "TFlowSeqEnd",
		TFlowMapStart: "TFlowMapStart",
		TFlowMapEnd:   "TFlowMapEnd",
		TFlowEntry:    "TFlowEntry",
		TAnchor:       "TAnchor",
		TAlias:        "TAlias",
		TTag:          "TTag",
		TScalar:       "TScalar",
		TComment:      "TComment",
	}[t]
}

// ScalarStyle is the presentation style of a scalar token. It is
// carried through events onto nodes so that round-tripping a document
// does not re-derive the author's formatting choices.
type ScalarStyle int

const (
	PlainStyle ScalarStyle = iota
	SingleStyle
	DoubleStyle
	LiteralStyle
	FoldedStyle
)

func (s ScalarStyle) String() string {
	return map[ScalarStyle]string{
		PlainStyle:   "plain",
		SingleStyle:  "single",
		DoubleStyle:  "double",
		LiteralStyle: "literal",
		FoldedStyle:  "folded",
	}[s]
}

func (s ScalarStyle) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *ScalarStyle) UnmarshalText(d []byte) error {
	ps, ok := map[string]ScalarStyle{
		"plain":   PlainStyle,
		"single":  SingleStyle,
		"double":  DoubleStyle,
		"literal": LiteralStyle,
		"folded":  FoldedStyle,
	}[string(d)]
	if !ok {
		return fmt.Errorf("unknown scalar style %q", d)
	}
	*s = ps
	return nil
}

// Token is one lexical unit of the input. Bytes is the raw span;
// Value is the decoded content for scalar, anchor, alias, tag and
// directive tokens.
type Token struct {
	Type  TokenType
	Pos   *Pos
	Bytes []byte

	Value string
	Style ScalarStyle
}

func (t *Token) Info() string {
	return fmt.Sprintf("%s %s", t.Type, t.Pos.String())
}

func (t *Token) String() string {
	switch t.Type {
	case TScalar, TAnchor, TAlias, TTag, TDirective:
		return t.Value
	default:
		return string(t.Bytes)
	}
}

// TagParts splits a raw tag token value into handle and suffix.
// "!!str" -> ("!!", "str"), "!local" -> ("!", "local"),
// "!<tag:x>" -> ("", "tag:x"), "!h!s" -> ("!h!", "s").
func TagParts(v string) (handle, suffix string) {
	if len(v) > 2 && v[0] == '!' && v[1] == '<' && v[len(v)-1] == '>' {
		return "", v[2 : len(v)-1]
	}
	if len(v) >= 2 && v[0] == '!' && v[1] == '!' {
		return "!!", v[2:]
	}
	for i := 1; i < len(v); i++ {
		if v[i] == '!' {
			return v[:i+1], v[i+1:]
		}
	}
	if len(v) >= 1 && v[0] == '!' {
		return "!", v[1:]
	}
	return "", v
}
