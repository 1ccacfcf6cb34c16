// Package engine implements the sample-accurate render scheduler at
// the heart of algo-render. A Processor splits each requested frame
// block at event boundaries, rendering event-free segments through a
// statically bound kernel and dispatching parameter and MIDI events
// exactly at their sample times.
//
// Two execution contexts exist and the caller keeps them mutually
// exclusive: the render context (ProcessAndRender; bounded time, no
// allocation, no locks, status-code errors) and the configuration
// context (Configure, Teardown, SetBypass; may allocate). The engine
// itself holds no locks.
package engine
