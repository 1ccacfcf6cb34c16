package spectral

import (
	"errors"
	"fmt"
	"math"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-vecmath"
	"gitlab.com/gomidi/midi/v2"

	"github.com/cwbudde/algo-render/render/event"
)

// ErrInvalidSize is returned when the FFT size is not a power of two.
var ErrInvalidSize = errors.New("fft size must be a power of two >= 2")

// Kernel is a pass-through analyzer: it copies input to output
// unchanged while capturing a mono mix of the rendered frames into a
// ring buffer. Spectrum computes the magnitude spectrum of the most
// recent fftSize samples; it allocates and therefore belongs to the
// non-real-time context, matching the engine's configuration side.
type Kernel struct {
	size int
	ring []float64
	pos  int
}

// New returns an analyzer kernel capturing fftSize samples.
func New(fftSize int) (*Kernel, error) {
	if fftSize < 2 || fftSize&(fftSize-1) != 0 {
		return nil, fmt.Errorf("spectral: %w: %d", ErrInvalidSize, fftSize)
	}
	return &Kernel{
		size: fftSize,
		ring: make([]float64, fftSize),
	}, nil
}

// Size returns the capture length in samples.
func (k *Kernel) Size() int {
	return k.size
}

// ConsumeParameterEvent is a no-op; the analyzer has no parameters.
func (k *Kernel) ConsumeParameterEvent(event.Parameter) {}

// ConsumeMIDIEvent is a no-op.
func (k *Kernel) ConsumeMIDIEvent(midi.Message) {}

// RenderFrames copies in to out and captures a channel-averaged mono
// mix into the ring buffer. Without input the output is silence and
// silence is captured. No allocation.
func (k *Kernel) RenderFrames(bus int, in, out [][]float64, frames int) {
	for ch := range out {
		buf := out[ch]
		var src []float64
		if ch < len(in) {
			src = in[ch]
		}
		for i := 0; i < frames && i < len(buf); i++ {
			if i < len(src) {
				buf[i] = src[i]
			} else {
				buf[i] = 0
			}
		}
	}

	channels := len(in)
	for i := 0; i < frames; i++ {
		var mix float64
		if channels > 0 {
			for ch := 0; ch < channels; ch++ {
				if i < len(in[ch]) {
					mix += in[ch][i]
				}
			}
			mix /= float64(channels)
		}
		k.ring[k.pos] = mix
		k.pos++
		if k.pos == k.size {
			k.pos = 0
		}
	}
}

// Spectrum returns the single-sided magnitude spectrum (size/2+1 bins)
// of the most recent size captured samples, Hann windowed and
// normalized so a full-scale sine peaks near 1. Configuration-context
// only: this allocates and runs a full FFT.
func (k *Kernel) Spectrum() ([]float64, error) {
	n := k.size
	in := make([]complex128, n)
	for i := 0; i < n; i++ {
		// Oldest sample first.
		s := k.ring[(k.pos+i)%n]
		w := 0.5 - 0.5*math.Cos(2*math.Pi*float64(i)/float64(n-1))
		in[i] = complex(s*w, 0)
	}

	plan, err := algofft.NewPlan64(n)
	if err != nil {
		return nil, fmt.Errorf("spectral: %w", err)
	}
	out := make([]complex128, n)
	if err := plan.Forward(out, in); err != nil {
		return nil, fmt.Errorf("spectral: %w", err)
	}

	bins := n/2 + 1
	re := make([]float64, bins)
	im := make([]float64, bins)
	for i := 0; i < bins; i++ {
		re[i] = real(out[i])
		im[i] = imag(out[i])
	}
	mags := make([]float64, bins)
	vecmath.Magnitude(mags, re, im)

	// Hann coherent gain is 0.5; single-sided scaling doubles all
	// bins except DC and Nyquist.
	scale := 2.0 / (0.5 * float64(n))
	for i := range mags {
		s := scale
		if i == 0 || i == bins-1 {
			s = 1.0 / (0.5 * float64(n))
		}
		mags[i] *= s
	}

	return mags, nil
}
