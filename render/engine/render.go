package engine

import "github.com/cwbudde/algo-render/render/event"

// ProcessAndRender renders frames samples for the given bus into
// output, interleaving event dispatch with rendering so that every
// event takes effect at its exact sample time. events is a read-only,
// time-ordered list valid for this call only; pull, when non-nil,
// supplies upstream samples (or is forwarded to the kernel in
// custom-pull mode). Output channels may be nil, in which case the
// bus's own storage backs them.
//
// Render-context entry point: no allocation, no locks, failures are
// status codes. A failed pull or capacity violation aborts before any
// output is produced.
func (p *Processor[K]) ProcessAndRender(ts Timestamp, frames, bus int, output [][]float64,
	events *event.Event, pull PullFunc) Status {
	if bus < 0 || bus >= p.busCount {
		return StatusInvalidBus
	}

	st := p.inputs[bus]
	if frames > st.Capacity() {
		return StatusTooManyFrames
	}

	in := &p.inFacets[bus]
	if pull != nil {
		if p.puller != nil {
			if status := p.puller.PullInput(ts, frames, bus, pull); status != StatusOK {
				return status
			}
		} else {
			p.pullFlags = 0
			if status := pull(&p.pullFlags, ts, frames, bus, st); status != StatusOK {
				return status
			}
			in.SetStorage(st.Channels(), nil)
			in.SetFrameCount(frames)
		}
	}

	out := &p.output
	out.SetStorage(output, st.Channels())
	out.SetFrameCount(frames)

	p.render(bus, ts, frames, events)

	in.Unlink()
	out.Unlink()

	return StatusOK
}

// render walks the block, repeatedly rendering the longest event-free
// prefix and then dispatching all events at the reached time point.
// Rendering up to now before dispatching events at now guarantees an
// event at sample time T affects frame T onward, never frame T-1.
func (p *Processor[K]) render(bus int, ts Timestamp, frames int, events *event.Event) {
	now := ts.SampleTime
	remaining := frames

	for remaining > 0 {
		if events == nil {
			p.renderSegment(bus, remaining, frames-remaining)
			return
		}

		segment := int(events.SampleTime - now)
		if segment > 0 {
			// Events at or past the block end take effect on a later
			// call; never render beyond the requested block.
			if segment > remaining {
				segment = remaining
			}
			p.renderSegment(bus, segment, frames-remaining)
			remaining -= segment
			now += int64(segment)
		}

		// The block is exhausted once now reaches its end; an event at
		// that time belongs to the next block and stays undispatched.
		if remaining == 0 {
			return
		}

		events = p.dispatchEventsThrough(now, events)
	}
}

// dispatchEventsThrough forwards every event with SampleTime <= now to
// the kernel, in list order, and returns the first undispatched event.
func (p *Processor[K]) dispatchEventsThrough(now int64, ev *event.Event) *event.Event {
	for ev != nil && ev.SampleTime <= now {
		switch ev.Type {
		case event.TypeParameter, event.TypeParameterRamp:
			p.kernel.ConsumeParameterEvent(ev.Parameter)
		case event.TypeMIDI:
			p.kernel.ConsumeMIDIEvent(ev.MIDI)
		default:
			// Unrecognized variants are dropped.
		}
		ev = ev.Next
	}
	return ev
}

// renderSegment produces n frames at the given frame offset within the
// block. Bypass copies the input window; otherwise both facets are
// positioned and the kernel renders.
func (p *Processor[K]) renderSegment(bus, n, offset int) {
	in := &p.inFacets[bus]
	out := &p.output

	if p.bypassed {
		in.CopyInto(out, offset, n)
		return
	}

	in.SetOffset(offset)
	out.SetOffset(offset)
	p.kernel.RenderFrames(bus, in.Pointers(), out.Pointers(), n)
}
