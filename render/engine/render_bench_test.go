package engine

import (
	"math"
	"testing"

	"gitlab.com/gomidi/midi/v2"

	"github.com/cwbudde/algo-render/render/event"
	"github.com/cwbudde/algo-render/render/store"
)

type sineKernel struct {
	phase float64
	inc   float64
	level float64
}

func (k *sineKernel) RenderFrames(bus int, in, out [][]float64, frames int) {
	for i := 0; i < frames; i++ {
		v := math.Sin(k.phase) * k.level
		k.phase += k.inc
		for ch := range out {
			out[ch][i] = v
		}
	}
}

func (k *sineKernel) ConsumeParameterEvent(p event.Parameter) {
	k.level = p.Value
}

func (k *sineKernel) ConsumeMIDIEvent(msg midi.Message) {}

func newBenchProcessor(b testing.TB, maxFrames int) *Processor[*sineKernel] {
	b.Helper()
	kernel := &sineKernel{inc: 2 * math.Pi * 440 / 48000, level: 0.5}
	p, err := New(kernel)
	if err != nil {
		b.Fatalf("New: %v", err)
	}
	if err := p.Configure(1, store.Format{SampleRate: 48000, Channels: 2}, maxFrames); err != nil {
		b.Fatalf("Configure: %v", err)
	}
	return p
}

var benchPull = func(flags *PullFlags, ts Timestamp, frames, bus int, dst *store.Store) Status {
	return StatusOK
}

func TestProcessAndRenderDoesNotAllocate(t *testing.T) {
	p := newBenchProcessor(t, 512)
	out := make([][]float64, 2)
	for ch := range out {
		out[ch] = make([]float64, 512)
	}
	events := event.Chain(
		event.NewParameter(128, 1, 0.25),
		event.NewParameter(256, 1, 0.75),
	)

	var ts Timestamp
	allocs := testing.AllocsPerRun(200, func() {
		if status := p.ProcessAndRender(ts, 512, 0, out, events, benchPull); status != StatusOK {
			t.Fatalf("status = %v", status)
		}
	})
	if allocs != 0 {
		t.Fatalf("render path allocated %v times per call, want 0", allocs)
	}
}

func BenchmarkProcessAndRenderNoEvents(b *testing.B) {
	p := newBenchProcessor(b, 512)
	out := make([][]float64, 2)
	for ch := range out {
		out[ch] = make([]float64, 512)
	}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		p.ProcessAndRender(Timestamp{SampleTime: int64(i) * 512}, 512, 0, out, nil, nil)
	}
}

func BenchmarkProcessAndRenderWithEvents(b *testing.B) {
	p := newBenchProcessor(b, 512)
	out := make([][]float64, 2)
	for ch := range out {
		out[ch] = make([]float64, 512)
	}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		base := int64(i) * 512
		events := event.Chain(
			event.NewParameter(base+100, 1, 0.25),
			event.NewParameter(base+300, 1, 0.75),
		)
		p.ProcessAndRender(Timestamp{SampleTime: base}, 512, 0, out, events, nil)
	}
}
