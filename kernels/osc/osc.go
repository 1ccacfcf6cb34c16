package osc

import (
	"math"

	"gitlab.com/gomidi/midi/v2"

	"github.com/cwbudde/algo-render/render/event"
)

// ParamLevel identifies the output level parameter.
const ParamLevel uint64 = 1

const maxVoices = 8

type voice struct {
	key    uint8
	phase  float64
	inc    float64
	vel    float64
	active bool
}

// Kernel is a small polyphonic sine instrument. It consumes MIDI note
// events and renders without any input bus, exercising the engine's
// instrument path (input facet unlinked). Voice state lives in fixed
// arrays; rendering never allocates.
type Kernel struct {
	sampleRate float64
	level      float64
	voices     [maxVoices]voice
}

// New returns an instrument kernel for the given sample rate.
func New(sampleRate float64) *Kernel {
	return &Kernel{sampleRate: sampleRate, level: 0.2}
}

// Level returns the current output level.
func (k *Kernel) Level() float64 {
	return k.level
}

// ActiveVoices returns the number of currently sounding voices.
func (k *Kernel) ActiveVoices() int {
	n := 0
	for i := range k.voices {
		if k.voices[i].active {
			n++
		}
	}
	return n
}

// ConsumeParameterEvent applies a level change. Ramp durations are
// honored as immediate changes; this instrument has no per-sample
// parameter smoothing.
func (k *Kernel) ConsumeParameterEvent(p event.Parameter) {
	if p.ID == ParamLevel {
		k.level = p.Value
	}
}

// ConsumeMIDIEvent starts and stops voices from note messages. A note
// start takes the first free slot, stealing slot 0 when all voices are
// busy; a note end releases every voice playing that key.
func (k *Kernel) ConsumeMIDIEvent(msg midi.Message) {
	var ch, key, vel uint8
	switch {
	case msg.GetNoteStart(&ch, &key, &vel):
		k.noteOn(key, vel)
	case msg.GetNoteEnd(&ch, &key):
		k.noteOff(key)
	}
}

func (k *Kernel) noteOn(key, vel uint8) {
	slot := 0
	for i := range k.voices {
		if !k.voices[i].active {
			slot = i
			break
		}
	}
	freq := 440 * math.Pow(2, (float64(key)-69)/12)
	k.voices[slot] = voice{
		key:    key,
		inc:    2 * math.Pi * freq / k.sampleRate,
		vel:    float64(vel) / 127,
		active: true,
	}
}

func (k *Kernel) noteOff(key uint8) {
	for i := range k.voices {
		if k.voices[i].active && k.voices[i].key == key {
			k.voices[i].active = false
		}
	}
}

// RenderFrames sums all active voices into out. The input buses are
// ignored; this kernel is an instrument.
func (k *Kernel) RenderFrames(bus int, in, out [][]float64, frames int) {
	for _, ch := range out {
		for i := 0; i < frames && i < len(ch); i++ {
			ch[i] = 0
		}
	}

	for v := range k.voices {
		vc := &k.voices[v]
		if !vc.active {
			continue
		}
		phase := vc.phase
		amp := vc.vel * k.level
		for i := 0; i < frames; i++ {
			s := math.Sin(phase) * amp
			phase += vc.inc
			for _, ch := range out {
				if i < len(ch) {
					ch[i] += s
				}
			}
		}
		if phase > 2*math.Pi {
			phase = math.Mod(phase, 2*math.Pi)
		}
		vc.phase = phase
	}
}
