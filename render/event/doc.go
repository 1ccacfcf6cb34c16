// Package event defines the control events the render engine
// interleaves with audio rendering: parameter changes (immediate or
// ramped) and MIDI messages. Events form a caller-owned, time-ordered
// singly linked list that lives for exactly one render call.
package event
