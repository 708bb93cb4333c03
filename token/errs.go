package token

import (
	"errors"
	"fmt"
)

var (
	ErrBadUTF8        = errors.New("bad utf8")
	ErrBadEncoding    = errors.New("bad encoding")
	ErrUnterminated   = errors.New("unterminated")
	ErrBadEscape      = errors.New("bad escape")
	ErrBadUnicode     = errors.New("bad unicode escape")
	ErrTabIndent      = errors.New("tab in indentation")
	ErrBadAnchor      = errors.New("bad anchor name")
	ErrBadTag         = errors.New("bad tag")
	ErrBadDirective   = errors.New("bad directive")
	ErrBadBlockHeader = errors.New("bad block scalar header")
	ErrBadIndent      = errors.New("inconsistent indentation")
)

// ScanError wraps a sentinel error with the position of the offending
// input. The scanner is fail-fast: the first ScanError ends the token
// stream.
type ScanError struct {
	Err error
	Pos Pos
}

func (e *ScanError) Unwrap() error {
	return e.Err
}

func NewScanError(err error, p *Pos) *ScanError {
	return &ScanError{Err: err, Pos: *p}
}

func (e *ScanError) Error() string {
	return fmt.Sprintf("%s at %s", e.Err.Error(), e.Pos.String())
}

func ExpectedErr(what string, p *Pos) error {
	return NewScanError(fmt.Errorf("expected %s", what), p)
}

func UnexpectedErr(what string, p *Pos) error {
	return NewScanError(fmt.Errorf("unexpected %s", what), p)
}
