// Command renderdemo plays a short arpeggio through the render engine
// and an oto output device. MIDI note events are scheduled at exact
// sample offsets inside each render block, so note starts are
// sample-accurate regardless of the device's buffer size.
//
// Usage:
//
//	renderdemo [flags]
//
// Examples:
//
//	renderdemo
//	renderdemo -rate 44100 -block 256 -seconds 10
//	renderdemo -level 0.4
package main

import (
	"encoding/binary"
	"flag"
	"math"
	"os"
	"time"

	"github.com/ebitengine/oto/v3"
	"github.com/sirupsen/logrus"
	"gitlab.com/gomidi/midi/v2"

	"github.com/cwbudde/algo-render/kernels/osc"
	"github.com/cwbudde/algo-render/render/engine"
	"github.com/cwbudde/algo-render/render/event"
	"github.com/cwbudde/algo-render/render/store"
)

const channels = 2

// arpeggio pattern, one note per step.
var pattern = []uint8{60, 64, 67, 72, 67, 64}

type streamer struct {
	proc      *engine.Processor[*osc.Kernel]
	log       *logrus.Logger
	block     int
	out       [][]float64
	samplePos int64

	stepSamples int64
	noteSamples int64
	step        int
	noteOffAt   int64
	noteOffKey  uint8
	noteOffSet  bool
}

// Read renders audio into the device buffer, little-endian float32
// interleaved, one engine block at a time.
func (s *streamer) Read(p []byte) (int, error) {
	const bytesPerFrame = 4 * channels
	frames := len(p) / bytesPerFrame
	done := 0

	for done < frames {
		n := frames - done
		if n > s.block {
			n = s.block
		}

		events := s.scheduleEvents(n)
		status := s.proc.ProcessAndRender(
			engine.Timestamp{SampleTime: s.samplePos}, n, 0, s.out, events, nil)
		if status != engine.StatusOK {
			s.log.WithField("status", status.String()).Error("render failed")
			for i := done * bytesPerFrame; i < (done+n)*bytesPerFrame; i++ {
				p[i] = 0
			}
		} else {
			for i := 0; i < n; i++ {
				for ch := 0; ch < channels; ch++ {
					bits := math.Float32bits(float32(s.out[ch][i]))
					off := (done+i)*bytesPerFrame + ch*4
					binary.LittleEndian.PutUint32(p[off:off+4], bits)
				}
			}
		}

		s.samplePos += int64(n)
		done += n
	}

	return frames * bytesPerFrame, nil
}

// scheduleEvents emits note on/off events that fall inside the next n
// samples, at their exact offsets.
func (s *streamer) scheduleEvents(n int) *event.Event {
	var head, tail *event.Event
	push := func(ev *event.Event) {
		if head == nil {
			head = ev
		} else {
			tail.Next = ev
		}
		tail = ev
	}

	blockEnd := s.samplePos + int64(n)
	flushNoteOff := func(before int64) {
		if !s.noteOffSet || s.noteOffAt >= before {
			return
		}
		at := s.noteOffAt
		if at < s.samplePos {
			at = s.samplePos
		}
		push(event.NewMIDI(at, midi.NoteOff(0, s.noteOffKey)))
		s.noteOffSet = false
	}

	nextStart := ((s.samplePos + s.stepSamples - 1) / s.stepSamples) * s.stepSamples
	for t := nextStart; t < blockEnd; t += s.stepSamples {
		flushNoteOff(t + 1)
		key := pattern[s.step%len(pattern)]
		s.step++
		push(event.NewMIDI(t, midi.NoteOn(0, key, 100)))
		s.noteOffAt = t + s.noteSamples
		s.noteOffKey = key
		s.noteOffSet = true
	}
	flushNoteOff(blockEnd)

	return head
}

func main() {
	rate := flag.Int("rate", 48000, "sample rate in Hz")
	block := flag.Int("block", 512, "render block size in frames")
	seconds := flag.Int("seconds", 6, "playback duration")
	level := flag.Float64("level", 0.2, "instrument output level")
	flag.Parse()

	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	kernel := osc.New(float64(*rate))
	proc, err := engine.New(kernel)
	if err != nil {
		log.WithError(err).Fatal("create processor")
	}

	format := store.Format{SampleRate: float64(*rate), Channels: channels}
	if err := proc.Configure(1, format, *block); err != nil {
		log.WithError(err).Fatal("configure processor")
	}
	kernel.ConsumeParameterEvent(event.Parameter{ID: osc.ParamLevel, Value: *level})

	out := make([][]float64, channels)
	for ch := range out {
		out[ch] = make([]float64, *block)
	}

	stepSamples := int64(*rate) / 4 // sixteenths at 60 bpm
	s := &streamer{
		proc:        proc,
		log:         log,
		block:       *block,
		out:         out,
		stepSamples: stepSamples,
		noteSamples: stepSamples * 3 / 4,
	}

	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   *rate,
		ChannelCount: channels,
		Format:       oto.FormatFloat32LE,
	})
	if err != nil {
		log.WithError(err).Fatal("open audio device")
	}
	<-ready

	player := ctx.NewPlayer(s)
	defer player.Close()

	log.WithFields(logrus.Fields{
		"rate":  *rate,
		"block": *block,
	}).Info("playing")

	player.Play()
	time.Sleep(time.Duration(*seconds) * time.Second)

	log.Info("done")
	proc.Teardown()
	os.Exit(0)
}
