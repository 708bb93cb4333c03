package compose

import (
	"errors"
	"fmt"

	"github.com/signadot/yaml-kit/go-yamlkit/token"
)

var (
	ErrUndefinedAlias = errors.New("alias to undefined anchor")
	ErrAliasCycle     = errors.New("alias to enclosing node")
	ErrDuplicateKey   = errors.New("duplicate mapping key")
	ErrExpansionLimit = errors.New("alias expansion exceeds node limit")
	ErrAliasDepth     = errors.New("alias nesting exceeds depth limit")
	ErrTooDeep        = errors.New("nesting exceeds depth limit")
	ErrNoDocument     = errors.New("no document in stream")
)

// ComposeError wraps a sentinel error with the position of the event
// that triggered it.
type ComposeError struct {
	Err error
	Pos token.Pos
}

func (e *ComposeError) Unwrap() error {
	return e.Err
}

func (e *ComposeError) Error() string {
	return fmt.Sprintf("%s at %s", e.Err.Error(), e.Pos.String())
}

func errAt(err error, p *token.Pos) error {
	if p == nil {
		return err
	}
	return &ComposeError{Err: err, Pos: *p}
}
