package encode

import (
	"errors"
	"fmt"
)

var (
	ErrUnrepresentable = errors.New("scalar not representable in its style")
	ErrAnchorCollision = errors.New("generated anchor name collides")
	ErrForwardAlias    = errors.New("alias precedes its anchor in document order")
	ErrBadOption       = errors.New("invalid encode option")
	ErrDanglingAlias   = errors.New("alias with no target")
)

// EmitError wraps a sentinel with a description of the offending
// node.
type EmitError struct {
	Err  error
	Node string
}

func (e *EmitError) Unwrap() error {
	return e.Err
}

func (e *EmitError) Error() string {
	if e.Node == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: %s", e.Err.Error(), e.Node)
}

func errNode(err error, desc string) error {
	return &EmitError{Err: err, Node: desc}
}
