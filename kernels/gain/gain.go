package gain

import (
	"github.com/cwbudde/algo-vecmath"
	"gitlab.com/gomidi/midi/v2"

	"github.com/cwbudde/algo-render/render/event"
)

// ParamGain identifies the gain parameter.
const ParamGain uint64 = 1

// MIDI CC 7 is channel volume.
const ccVolume = 7

// Kernel scales its input by a gain factor. Parameter changes apply
// either immediately or as a linear ramp over a sample duration; the
// ramp carries across segment and block boundaries. MIDI CC 7
// messages set the gain immediately.
type Kernel struct {
	gain          float64
	target        float64
	step          float64
	rampRemaining int
}

// New returns a gain kernel at the given initial gain.
func New(initial float64) *Kernel {
	return &Kernel{gain: initial, target: initial}
}

// Gain returns the current gain value.
func (k *Kernel) Gain() float64 {
	return k.gain
}

// ConsumeParameterEvent applies a gain change. Unknown parameter IDs
// are ignored.
func (k *Kernel) ConsumeParameterEvent(p event.Parameter) {
	if p.ID != ParamGain {
		return
	}
	if p.RampDuration <= 0 {
		k.gain = p.Value
		k.target = p.Value
		k.rampRemaining = 0
		return
	}
	k.target = p.Value
	k.rampRemaining = p.RampDuration
	k.step = (k.target - k.gain) / float64(p.RampDuration)
}

// ConsumeMIDIEvent maps CC 7 (channel volume) to an immediate gain
// change. Other messages are ignored.
func (k *Kernel) ConsumeMIDIEvent(msg midi.Message) {
	var ch, cc, val uint8
	if msg.GetControlChange(&ch, &cc, &val) && cc == ccVolume {
		k.gain = float64(val) / 127
		k.target = k.gain
		k.rampRemaining = 0
	}
}

// RenderFrames writes in scaled by the current gain into out. With no
// input linked the output is silence. The steady (non-ramping) path is
// a vectorized block scale; while a ramp is active the gain advances
// per frame.
func (k *Kernel) RenderFrames(bus int, in, out [][]float64, frames int) {
	if len(in) == 0 {
		for _, ch := range out {
			for i := 0; i < frames && i < len(ch); i++ {
				ch[i] = 0
			}
		}
		return
	}

	if k.rampRemaining == 0 {
		for ch := range out {
			if ch >= len(in) || in[ch] == nil {
				continue
			}
			vecmath.ScaleBlock(out[ch][:frames], in[ch][:frames], k.gain)
		}
		return
	}

	for i := 0; i < frames; i++ {
		if k.rampRemaining > 0 {
			k.gain += k.step
			k.rampRemaining--
			if k.rampRemaining == 0 {
				k.gain = k.target
			}
		}
		for ch := range out {
			if ch >= len(in) || in[ch] == nil {
				continue
			}
			out[ch][i] = in[ch][i] * k.gain
		}
	}
}
