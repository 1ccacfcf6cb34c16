// Package gain provides a gain kernel for the render engine, with
// sample-accurate immediate and ramped parameter changes and MIDI
// channel-volume handling. It doubles as the reference for how a
// minimal effect kernel satisfies the engine's kernel contract.
package gain
