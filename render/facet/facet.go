package facet

// Facet is a non-owning, repositionable window over per-channel sample
// slices. It never allocates after Reserve and never owns the memory it
// points at; the render engine relinks it on every render call.
//
// The addressable window is [offset, frameCount). Pointers returns the
// channel slices for that window while the facet is linked.
type Facet struct {
	channels [][]float64
	view     [][]float64
	offset   int
	frames   int
	linked   bool
}

// Reserve preallocates pointer slots for the given channel count so
// that SetStorage and Pointers stay allocation-free. Called from the
// configuration context only.
func (f *Facet) Reserve(channels int) {
	if channels < 0 {
		channels = 0
	}
	if cap(f.channels) < channels {
		f.channels = make([][]float64, channels)
		f.view = make([][]float64, channels)
	}
	f.channels = f.channels[:channels]
	f.view = f.view[:channels]
}

// SetStorage links the facet to concrete channel storage. A nil or
// missing channel in target falls back to the corresponding channel of
// fallback, which supports hosts that request in-place rendering by
// handing out buffers without backing memory.
func (f *Facet) SetStorage(target, fallback [][]float64) {
	for ch := range f.channels {
		var buf []float64
		if ch < len(target) {
			buf = target[ch]
		}
		if buf == nil && ch < len(fallback) {
			buf = fallback[ch]
		}
		f.channels[ch] = buf
	}
	f.offset = 0
	f.frames = 0
	f.linked = true
}

// Unlink clears the channel pointers. Safe to call when already
// unlinked.
func (f *Facet) Unlink() {
	if !f.linked {
		return
	}
	for ch := range f.channels {
		f.channels[ch] = nil
		f.view[ch] = nil
	}
	f.offset = 0
	f.frames = 0
	f.linked = false
}

// Linked reports whether the facet currently references storage.
func (f *Facet) Linked() bool {
	return f.linked
}

// ChannelCount returns the number of reserved channel slots.
func (f *Facet) ChannelCount() int {
	return len(f.channels)
}

// SetFrameCount sets the end of the addressable window, counted from
// the start of the linked storage. No memory is touched.
func (f *Facet) SetFrameCount(n int) {
	if n < 0 {
		n = 0
	}
	f.frames = n
}

// SetOffset sets the start of the addressable window. No memory is
// touched.
func (f *Facet) SetOffset(k int) {
	if k < 0 {
		k = 0
	}
	f.offset = k
}

// Pointers returns the channel slices covering [offset, frameCount),
// or nil when the facet is unlinked. The returned slice is reused
// across calls; callers must not retain it.
func (f *Facet) Pointers() [][]float64 {
	if !f.linked {
		return nil
	}
	for ch := range f.channels {
		buf := f.channels[ch]
		if buf == nil || f.offset > len(buf) {
			f.view[ch] = nil
			continue
		}
		end := f.frames
		if end > len(buf) {
			end = len(buf)
		}
		if end < f.offset {
			end = f.offset
		}
		f.view[ch] = buf[f.offset:end]
	}
	return f.view
}

// CopyInto copies this facet's [offset, offset+n) window into the same
// window of dst, channel by channel. The offsets are explicit and
// independent of either facet's current window. When the source is
// unlinked there is nothing to copy and the call is a no-op.
func (f *Facet) CopyInto(dst *Facet, offset, n int) {
	if !f.linked || dst == nil || !dst.linked || n <= 0 {
		return
	}
	channels := len(f.channels)
	if len(dst.channels) < channels {
		channels = len(dst.channels)
	}
	for ch := 0; ch < channels; ch++ {
		src := f.channels[ch]
		out := dst.channels[ch]
		if src == nil || out == nil {
			continue
		}
		end := offset + n
		if end > len(src) {
			end = len(src)
		}
		if end > len(out) {
			end = len(out)
		}
		if offset >= end {
			continue
		}
		// Aliased in-place buffers are fine here, the windows are
		// identical so copy degenerates to a self-copy.
		copy(out[offset:end], src[offset:end])
	}
}
