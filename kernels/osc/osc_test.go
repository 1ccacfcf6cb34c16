package osc

import (
	"math"
	"testing"

	"gitlab.com/gomidi/midi/v2"

	"github.com/cwbudde/algo-render/render/engine"
	"github.com/cwbudde/algo-render/render/event"
	"github.com/cwbudde/algo-render/render/store"
)

func rms(buf []float64) float64 {
	var sum float64
	for _, v := range buf {
		sum += v * v
	}
	return math.Sqrt(sum / float64(len(buf)))
}

func render(k *Kernel, frames int) [][]float64 {
	out := [][]float64{make([]float64, frames)}
	k.RenderFrames(0, nil, out, frames)
	return out
}

func TestSilentWithoutNotes(t *testing.T) {
	k := New(48000)
	out := render(k, 64)
	if r := rms(out[0]); r != 0 {
		t.Fatalf("rms = %v without notes, want 0", r)
	}
}

func TestNoteOnProducesSignal(t *testing.T) {
	k := New(48000)
	k.ConsumeMIDIEvent(midi.NoteOn(0, 69, 100))
	if k.ActiveVoices() != 1 {
		t.Fatalf("ActiveVoices() = %d, want 1", k.ActiveVoices())
	}
	out := render(k, 4800)
	if r := rms(out[0]); r < 0.01 {
		t.Fatalf("rms = %v with a sounding note, want > 0.01", r)
	}
}

func TestNoteOffSilences(t *testing.T) {
	k := New(48000)
	k.ConsumeMIDIEvent(midi.NoteOn(0, 60, 100))
	render(k, 256)
	k.ConsumeMIDIEvent(midi.NoteOff(0, 60))
	if k.ActiveVoices() != 0 {
		t.Fatalf("ActiveVoices() = %d after note off, want 0", k.ActiveVoices())
	}
	out := render(k, 256)
	if r := rms(out[0]); r != 0 {
		t.Fatalf("rms = %v after note off, want 0", r)
	}
}

func TestPolyphony(t *testing.T) {
	k := New(48000)
	k.ConsumeMIDIEvent(midi.NoteOn(0, 60, 100))
	k.ConsumeMIDIEvent(midi.NoteOn(0, 64, 100))
	k.ConsumeMIDIEvent(midi.NoteOn(0, 67, 100))
	if k.ActiveVoices() != 3 {
		t.Fatalf("ActiveVoices() = %d, want 3", k.ActiveVoices())
	}
	k.ConsumeMIDIEvent(midi.NoteOff(0, 64))
	if k.ActiveVoices() != 2 {
		t.Fatalf("ActiveVoices() = %d after one note off, want 2", k.ActiveVoices())
	}
}

func TestLevelParameter(t *testing.T) {
	k := New(48000)
	k.ConsumeParameterEvent(event.Parameter{ID: ParamLevel, Value: 0.5})
	if k.Level() != 0.5 {
		t.Fatalf("Level() = %v, want 0.5", k.Level())
	}
	k.ConsumeParameterEvent(event.Parameter{ID: 99, Value: 0.9})
	if k.Level() != 0.5 {
		t.Fatalf("Level() = %v, want unchanged 0.5", k.Level())
	}
}

func TestVoiceStealingWhenFull(t *testing.T) {
	k := New(48000)
	for key := uint8(40); key < 40+maxVoices; key++ {
		k.ConsumeMIDIEvent(midi.NoteOn(0, key, 100))
	}
	if k.ActiveVoices() != maxVoices {
		t.Fatalf("ActiveVoices() = %d, want %d", k.ActiveVoices(), maxVoices)
	}
	k.ConsumeMIDIEvent(midi.NoteOn(0, 100, 100))
	if k.ActiveVoices() != maxVoices {
		t.Fatalf("ActiveVoices() = %d after steal, want %d", k.ActiveVoices(), maxVoices)
	}
}

// MIDI events scheduled at block offsets start voices exactly there.
func TestNoteStartsAtExactSample(t *testing.T) {
	p, err := engine.New(New(48000))
	if err != nil {
		t.Fatalf("engine.New: %v", err)
	}
	if err := p.Configure(1, store.Format{SampleRate: 48000, Channels: 1}, 512); err != nil {
		t.Fatalf("Configure: %v", err)
	}

	out := [][]float64{make([]float64, 256)}
	events := event.NewMIDI(128, midi.NoteOn(0, 69, 127))

	// No pull function: instrument path, the input facet stays unlinked.
	if status := p.ProcessAndRender(engine.Timestamp{}, 256, 0, out, events, nil); status != engine.StatusOK {
		t.Fatalf("status = %v, want ok", status)
	}

	if r := rms(out[0][:128]); r != 0 {
		t.Fatalf("rms before the note = %v, want 0", r)
	}
	if r := rms(out[0][128:]); r < 0.01 {
		t.Fatalf("rms after the note = %v, want > 0.01", r)
	}
}
