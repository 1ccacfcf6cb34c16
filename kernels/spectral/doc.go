// Package spectral provides a pass-through analyzer kernel. Rendering
// stays allocation-free and merely captures frames; the FFT-based
// magnitude spectrum is computed on demand outside the render context.
package spectral
