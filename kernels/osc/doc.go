// Package osc provides a polyphonic sine instrument kernel. It shows
// the no-input acquisition path of the render engine: the kernel
// renders from MIDI-driven voice state alone, with the input facet
// left unlinked.
package osc
