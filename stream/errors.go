package stream

import "errors"

var (
	ErrEventOrder   = errors.New("event out of order")
	ErrNegDepth     = errors.New("end event without matching start")
	ErrNoDocument   = errors.New("value event outside document")
	ErrStreamEnded  = errors.New("event after stream end")
	ErrOddMapEvents = errors.New("mapping ended after key without value")
)
