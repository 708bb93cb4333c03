package stream

import (
	"fmt"
	"strings"

	"github.com/signadot/yaml-kit/go-yamlkit/token"
)

// Event represents one structural event between the parser and the
// composer. Events correspond to the emitter's API methods, providing
// a symmetric parse/emit interface.
type Event struct {
	Type EventType
	Pos  *token.Pos

	// Anchor and Tag apply to Scalar, Alias (anchor only on the
	// defining side), SequenceStart and MappingStart events.
	Anchor string
	Tag    string

	// Value and Style are set for Scalar events. For Alias events
	// Value holds the alias name.
	Value string
	Style token.ScalarStyle

	// Flow marks flow-style collection starts.
	Flow bool

	// Directives and Explicit apply to DocumentStart; Explicit also
	// applies to DocumentEnd.
	Directives []string
	Explicit   bool
}

// IsValueStart reports whether the event begins a node: a collection
// start, a scalar, or an alias.
func (e *Event) IsValueStart() bool {
	switch e.Type {
	case EventSequenceStart, EventMappingStart, EventScalar, EventAlias:
		return true
	}
	return false
}

func (e *Event) String() string {
	var b strings.Builder
	b.WriteString(e.Type.String())
	if e.Anchor != "" {
		fmt.Fprintf(&b, " &%s", e.Anchor)
	}
	if e.Tag != "" {
		fmt.Fprintf(&b, " %s", e.Tag)
	}
	switch e.Type {
	case EventScalar:
		fmt.Fprintf(&b, " %s %q", e.Style, e.Value)
	case EventAlias:
		fmt.Fprintf(&b, " *%s", e.Value)
	}
	return b.String()
}

// EventType represents the type of a structural event.
type EventType int

const (
	EventStreamStart EventType = iota
	EventStreamEnd
	EventDocumentStart
	EventDocumentEnd
	EventSequenceStart
	EventSequenceEnd
	EventMappingStart
	EventMappingEnd
	EventScalar
	EventAlias
)

func (t EventType) String() string {
	switch t {
	case EventStreamStart:
		return "StreamStart"
	case EventStreamEnd:
		return "StreamEnd"
	case EventDocumentStart:
		return "DocumentStart"
	case EventDocumentEnd:
		return "DocumentEnd"
	case EventSequenceStart:
		return "SequenceStart"
	case EventSequenceEnd:
		return "SequenceEnd"
	case EventMappingStart:
		return "MappingStart"
	case EventMappingEnd:
		return "MappingEnd"
	case EventScalar:
		return "Scalar"
	case EventAlias:
		return "Alias"
	default:
		return "Unknown"
	}
}

func (t EventType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *EventType) UnmarshalText(d []byte) error {
	k := string(d)
	pt, ok := map[string]EventType{
		"StreamStart":   EventStreamStart,
		"StreamEnd":     EventStreamEnd,
		"DocumentStart": EventDocumentStart,
		"DocumentEnd":   EventDocumentEnd,
		"SequenceStart": EventSequenceStart,
		"SequenceEnd":   EventSequenceEnd,
		"MappingStart":  EventMappingStart,
		"MappingEnd":    EventMappingEnd,
		"Scalar":        EventScalar,
		"Alias":         EventAlias,
	}[k]
	if ok {
		*t = pt
		return nil
	}
	return fmt.Errorf("unknown type %q", k)
}
