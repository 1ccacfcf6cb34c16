package engine

import "strconv"

// Status is the result of a render-context call. The render path
// reports failures as status values instead of errors so that no
// allocation or unwinding happens on the audio thread. Upstream pull
// functions return their own nonzero codes, which the engine
// propagates verbatim; callers should pick values that do not collide
// with the engine's own codes.
type Status int32

const (
	// StatusOK means the full block was rendered.
	StatusOK Status = 0
	// StatusTooManyFrames means the requested frame count exceeds the
	// configured capacity of the target bus. Nothing was rendered.
	StatusTooManyFrames Status = -1
	// StatusInvalidBus means the bus index is outside the configured
	// bus count. Nothing was rendered.
	StatusInvalidBus Status = -2
)

// String returns a short description of the status.
func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusTooManyFrames:
		return "too many frames"
	case StatusInvalidBus:
		return "invalid bus"
	default:
		return "upstream pull failed (" + strconv.Itoa(int(s)) + ")"
	}
}
