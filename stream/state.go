package stream

import (
	"fmt"
	"strings"
)

// State provides minimal stack/state/path management over an event
// sequence. Just processes events and tracks nesting - no scanning,
// no io.Reader. Use this to validate event order or to know where in
// the tree a stream of events currently is.
type State struct {
	stack   []item
	started bool
	ended   bool
}

type kind int

const (
	inDoc kind = iota
	inSeq
	inMap
)

type item struct {
	kind   kind
	n      int
	hasKey bool
	key    string
}

// NewState creates a new State for tracking event structure.
func NewState() *State {
	return &State{}
}

func (s *State) pop() {
	s.stack = s.stack[:len(s.stack)-1]
}

func (s *State) current() *item {
	if len(s.stack) == 0 {
		return nil
	}
	return &s.stack[len(s.stack)-1]
}

// ProcessEvent processes an event and updates nesting and path
// tracking. Call this for each event in order.
func (s *State) ProcessEvent(e *Event) error {
	if s.ended {
		return ErrStreamEnded
	}
	switch e.Type {
	case EventStreamStart:
		if s.started {
			return ErrEventOrder
		}
		s.started = true
	case EventStreamEnd:
		if !s.started || len(s.stack) > 0 {
			return ErrEventOrder
		}
		s.ended = true
	case EventDocumentStart:
		if !s.started || len(s.stack) > 0 {
			return ErrEventOrder
		}
		s.stack = append(s.stack, item{kind: inDoc})
	case EventDocumentEnd:
		cur := s.current()
		if cur == nil || cur.kind != inDoc {
			return ErrEventOrder
		}
		s.pop()
	case EventSequenceStart, EventMappingStart, EventScalar, EventAlias:
		cur := s.current()
		if cur == nil {
			return ErrNoDocument
		}
		switch cur.kind {
		case inDoc:
			if cur.n > 0 {
				return ErrEventOrder
			}
			cur.n++
		case inSeq:
			cur.n++
		case inMap:
			if cur.hasKey {
				cur.hasKey = false
			} else {
				cur.hasKey = true
				if e.Type == EventScalar {
					cur.key = e.Value
				} else {
					cur.key = "?"
				}
			}
		}
		switch e.Type {
		case EventSequenceStart:
			s.stack = append(s.stack, item{kind: inSeq, n: -1})
		case EventMappingStart:
			s.stack = append(s.stack, item{kind: inMap})
		}
	case EventSequenceEnd:
		cur := s.current()
		if cur == nil || cur.kind != inSeq {
			return ErrNegDepth
		}
		s.pop()
	case EventMappingEnd:
		cur := s.current()
		if cur == nil || cur.kind != inMap {
			return ErrNegDepth
		}
		if cur.hasKey {
			return ErrOddMapEvents
		}
		s.pop()
	}
	return nil
}

// Depth returns the collection nesting depth, not counting the
// document frame.
func (s *State) Depth() int {
	n := len(s.stack)
	if n > 0 && s.stack[0].kind == inDoc {
		n--
	}
	return n
}

// InDocument reports whether a document is open.
func (s *State) InDocument() bool {
	return len(s.stack) > 0
}

// IsInMapping reports whether the innermost open collection is a
// mapping.
func (s *State) IsInMapping() bool {
	cur := s.current()
	return cur != nil && cur.kind == inMap
}

// IsInSequence reports whether the innermost open collection is a
// sequence.
func (s *State) IsInSequence() bool {
	cur := s.current()
	return cur != nil && cur.kind == inSeq
}

// CurrentKey returns the pending mapping key, if the innermost
// collection is a mapping and a key has been seen without its value.
func (s *State) CurrentKey() (string, bool) {
	cur := s.current()
	if cur == nil || cur.kind != inMap || !cur.hasKey {
		return "", false
	}
	return cur.key, true
}

// CurrentPath returns the current path, e.g. "", "key", "key[0].sub".
func (s *State) CurrentPath() string {
	var b strings.Builder
	for i := range s.stack {
		it := &s.stack[i]
		switch it.kind {
		case inMap:
			if it.key == "" {
				continue
			}
			if b.Len() > 0 {
				b.WriteByte('.')
			}
			b.WriteString(it.key)
		case inSeq:
			if it.n < 0 {
				continue
			}
			fmt.Fprintf(&b, "[%d]", it.n)
		}
	}
	return b.String()
}
