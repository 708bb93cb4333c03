package parse

import (
	"errors"
	"fmt"

	"github.com/signadot/yaml-kit/go-yamlkit/token"
)

var (
	ErrUnexpectedToken  = errors.New("unexpected token")
	ErrBadIndent        = errors.New("bad indentation")
	ErrUnclosedFlow     = errors.New("unclosed flow collection")
	ErrDanglingProperty = errors.New("anchor or tag with no following node")
	ErrAliasProperty    = errors.New("alias cannot carry properties")
	ErrDupYAMLDirective = errors.New("duplicate %YAML directive")
	ErrDupTagHandle     = errors.New("duplicate %TAG handle")
	ErrBadDirective     = errors.New("malformed directive")
	ErrBadVersion       = errors.New("unsupported YAML version")
	ErrStrayDirective   = errors.New("directive not followed by document start")
	ErrUnknownTagHandle = errors.New("undeclared tag handle")
	ErrMultipleRoots    = errors.New("unexpected content after document root")
)

// ParseError wraps a sentinel error with the position where the
// grammar broke down.
type ParseError struct {
	Err error
	Pos token.Pos
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s at %s", e.Err.Error(), e.Pos.String())
}

func NewParseError(err error, p *token.Pos) *ParseError {
	return &ParseError{Err: err, Pos: *p}
}

func errAt(tok *token.Token, err error) error {
	return NewParseError(err, tok.Pos)
}

func errTok(tok *token.Token) error {
	return NewParseError(fmt.Errorf("%w %s", ErrUnexpectedToken, tok.Type), tok.Pos)
}
