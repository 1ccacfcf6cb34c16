package event

import "gitlab.com/gomidi/midi/v2"

// Type tags the payload carried by an Event.
type Type int

const (
	// TypeParameter is an immediate parameter change.
	TypeParameter Type = iota + 1
	// TypeParameterRamp is a parameter change interpolated over a
	// sample duration.
	TypeParameterRamp
	// TypeMIDI carries a raw MIDI message.
	TypeMIDI
)

// String returns the event type name.
func (t Type) String() string {
	switch t {
	case TypeParameter:
		return "parameter"
	case TypeParameterRamp:
		return "parameter-ramp"
	case TypeMIDI:
		return "midi"
	default:
		return "other"
	}
}

// Parameter is the payload of a parameter change event. RampDuration
// is the interpolation length in samples; 0 means the change applies
// immediately.
type Parameter struct {
	ID           uint64
	Value        float64
	RampDuration int
}

// Event is one element of a caller-owned, time-ordered singly linked
// list presented to the engine for the duration of a single render
// call. SampleTime is absolute (same clock as the render timestamp)
// and must be non-decreasing along the list; the engine never mutates
// the list. Events with an unknown Type are dropped silently.
type Event struct {
	SampleTime int64
	Type       Type
	Next       *Event

	Parameter Parameter
	MIDI      midi.Message
}

// NewParameter returns an immediate parameter change event.
func NewParameter(sampleTime int64, id uint64, value float64) *Event {
	return &Event{
		SampleTime: sampleTime,
		Type:       TypeParameter,
		Parameter:  Parameter{ID: id, Value: value},
	}
}

// NewParameterRamp returns a ramped parameter change event.
func NewParameterRamp(sampleTime int64, id uint64, value float64, rampDuration int) *Event {
	return &Event{
		SampleTime: sampleTime,
		Type:       TypeParameterRamp,
		Parameter:  Parameter{ID: id, Value: value, RampDuration: rampDuration},
	}
}

// NewMIDI returns a MIDI message event.
func NewMIDI(sampleTime int64, msg midi.Message) *Event {
	return &Event{
		SampleTime: sampleTime,
		Type:       TypeMIDI,
		MIDI:       msg,
	}
}

// Chain links the given events in argument order and returns the head,
// or nil for an empty call. Callers are responsible for passing events
// in non-decreasing SampleTime order.
func Chain(events ...*Event) *Event {
	var head, tail *Event
	for _, ev := range events {
		if ev == nil {
			continue
		}
		if head == nil {
			head = ev
		} else {
			tail.Next = ev
		}
		tail = ev
	}
	if tail != nil {
		tail.Next = nil
	}
	return head
}
