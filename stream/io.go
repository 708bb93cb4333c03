package stream

import (
	"io"
)

// EventReader provides events from a source (parser, snapshot, empty
// stream, etc.).
type EventReader interface {
	ReadEvent() (*Event, error)
}

// EventSink receives events (composer, emitter, collector, etc.).
type EventSink interface {
	WriteEvent(*Event) error
}

// EmptyEventReader provides an empty event stream.
type EmptyEventReader struct{}

func NewEmptyEventReader() *EmptyEventReader {
	return &EmptyEventReader{}
}

// ReadEvent returns io.EOF immediately.
func (r *EmptyEventReader) ReadEvent() (*Event, error) {
	return nil, io.EOF
}

// SliceEventReader replays a recorded event sequence.
type SliceEventReader struct {
	events []Event
	i      int
}

func NewSliceEventReader(events []Event) *SliceEventReader {
	return &SliceEventReader{events: events}
}

func (r *SliceEventReader) ReadEvent() (*Event, error) {
	if r.i >= len(r.events) {
		return nil, io.EOF
	}
	e := &r.events[r.i]
	r.i++
	return e, nil
}

// SliceEventSink collects events into a slice.
type SliceEventSink struct {
	Events []Event
}

func NewSliceEventSink() *SliceEventSink {
	return &SliceEventSink{}
}

func (s *SliceEventSink) WriteEvent(e *Event) error {
	s.Events = append(s.Events, *e)
	return nil
}

// ValidatingSink checks event order before forwarding to the wrapped
// sink.
type ValidatingSink struct {
	sink  EventSink
	state *State
}

func NewValidatingSink(sink EventSink) *ValidatingSink {
	return &ValidatingSink{sink: sink, state: NewState()}
}

func (s *ValidatingSink) WriteEvent(e *Event) error {
	if err := s.state.ProcessEvent(e); err != nil {
		return err
	}
	return s.sink.WriteEvent(e)
}

// Copy drains r into sink until io.EOF.
func Copy(sink EventSink, r EventReader) error {
	for {
		e, err := r.ReadEvent()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if err := sink.WriteEvent(e); err != nil {
			return err
		}
	}
}
