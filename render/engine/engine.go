package engine

import (
	"errors"
	"fmt"

	"gitlab.com/gomidi/midi/v2"

	"github.com/cwbudde/algo-render/render/event"
	"github.com/cwbudde/algo-render/render/facet"
	"github.com/cwbudde/algo-render/render/store"
)

// ErrInvalidBusCount is returned by Configure for a non-positive bus count.
var ErrInvalidBusCount = errors.New("invalid bus count")

// ErrNotAPuller is returned by New when the custom-pull option is set
// but the kernel does not implement InputPuller.
var ErrNotAPuller = errors.New("kernel does not implement InputPuller")

// Timestamp identifies the absolute sample time of the first frame of
// a render request. Event sample times share the same clock.
type Timestamp struct {
	SampleTime int64
}

// PullFlags carries action flags between the engine and an upstream
// pull function. The engine passes a zeroed value each call; the pull
// function may modify it.
type PullFlags uint32

// PullFunc obtains upstream samples for one bus, filling dst in place
// with frames samples starting at ts. A nonzero status aborts the
// render call that requested the pull.
type PullFunc func(flags *PullFlags, ts Timestamp, frames, bus int, dst *store.Store) Status

// Kernel is the surface the engine drives. RenderFrames must not
// allocate or block; in is nil when no input was acquired for the
// call (instruments). All three methods are only ever invoked from
// the render context.
type Kernel interface {
	RenderFrames(bus int, in, out [][]float64, frames int)
	ConsumeParameterEvent(p event.Parameter)
	ConsumeMIDIEvent(msg midi.Message)
}

// InputPuller is implemented by kernels that acquire their own input
// samples instead of having the engine pull into a Store. A nonzero
// status aborts the render call.
type InputPuller interface {
	PullInput(ts Timestamp, frames, bus int, pull PullFunc) Status
}

type config struct {
	customPull bool
}

// Option adjusts processor construction.
type Option func(*config)

// WithCustomPull hands input acquisition to the kernel, which must
// implement InputPuller. The engine then prepares no input buffers and
// the input facet stays unlinked.
func WithCustomPull() Option {
	return func(cfg *config) {
		cfg.customPull = true
	}
}

// Processor interleaves control events with block rendering for a
// kernel of type K. The kernel binding is a type parameter so the
// render loop carries no per-call dispatch setup.
//
// All exported methods except ProcessAndRender belong to the
// configuration context; the caller guarantees they never run
// concurrently with ProcessAndRender on the same instance.
type Processor[K Kernel] struct {
	kernel K
	puller InputPuller

	busCount int
	format   store.Format
	inputs   []*store.Store
	inFacets []facet.Facet
	output   facet.Facet

	pullFlags PullFlags
	bypassed  bool
}

// New returns a processor driving the given kernel.
func New[K Kernel](kernel K, opts ...Option) (*Processor[K], error) {
	var cfg config
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	p := &Processor[K]{kernel: kernel}
	if cfg.customPull {
		puller, ok := any(kernel).(InputPuller)
		if !ok {
			return nil, fmt.Errorf("engine: %w", ErrNotAPuller)
		}
		p.puller = puller
	}

	return p, nil
}

// Kernel returns the driven kernel.
func (p *Processor[K]) Kernel() K {
	return p.kernel
}

// Configure sizes the processor for busCount buses of the given format
// and a maximum of maxFrames frames per render call. It allocates all
// per-bus storage up front; reconfiguring with identical parameters
// keeps existing storage. Configuration-context only.
func (p *Processor[K]) Configure(busCount int, format store.Format, maxFrames int) error {
	if busCount <= 0 {
		return fmt.Errorf("engine: %w: %d", ErrInvalidBusCount, busCount)
	}

	if len(p.inputs) != busCount {
		inputs := make([]*store.Store, busCount)
		facets := make([]facet.Facet, busCount)
		for bus := range inputs {
			if bus < len(p.inputs) {
				inputs[bus] = p.inputs[bus]
				facets[bus] = p.inFacets[bus]
			} else {
				inputs[bus] = store.New()
			}
		}
		p.inputs = inputs
		p.inFacets = facets
	}

	for bus, st := range p.inputs {
		if err := st.Allocate(format, maxFrames); err != nil {
			return fmt.Errorf("engine: bus %d: %w", bus, err)
		}
		p.inFacets[bus].Reserve(format.Channels)
	}
	p.output.Reserve(format.Channels)

	p.busCount = busCount
	p.format = format

	return nil
}

// Teardown releases all per-bus storage. The processor must be
// reconfigured before rendering again. Configuration-context only.
func (p *Processor[K]) Teardown() {
	for bus := range p.inputs {
		p.inFacets[bus].Unlink()
		p.inputs[bus].Release()
	}
	p.output.Unlink()
	p.busCount = 0
}

// BusCount returns the configured number of buses.
func (p *Processor[K]) BusCount() int {
	return p.busCount
}

// Format returns the configured sample format.
func (p *Processor[K]) Format() store.Format {
	return p.format
}

// SetBypass toggles bypass mode. While bypassed, rendering copies the
// input window to the output window instead of invoking the kernel.
// Configuration-context only; the value is read once per render call.
func (p *Processor[K]) SetBypass(bypass bool) {
	p.bypassed = bypass
}

// Bypassed reports the current bypass mode.
func (p *Processor[K]) Bypassed() bool {
	return p.bypassed
}
