package store

import (
	"errors"
	"fmt"
)

// ErrInvalidFormat is returned when a format has no channels.
var ErrInvalidFormat = errors.New("invalid format")

// ErrInvalidCapacity is returned when the requested frame capacity is not positive.
var ErrInvalidCapacity = errors.New("invalid capacity")

// Format describes the sample layout a Store holds.
type Format struct {
	SampleRate float64
	Channels   int
}

// Valid reports whether the format can back a Store.
func (f Format) Valid() bool {
	return f.Channels > 0 && f.SampleRate > 0
}

// Store owns contiguous per-channel sample storage for one bus.
// Allocation happens only in Allocate; the render path only reads
// the channel slices. Resizing requires a full Allocate call.
type Store struct {
	format   Format
	capacity int
	data     []float64
	channels [][]float64
}

// New returns an empty Store with zero capacity.
func New() *Store {
	return &Store{}
}

// Allocate reserves channel buffers sized to maxFrames frames and
// format.Channels channels. Repeated calls with identical parameters
// keep the existing storage; anything else replaces it.
func (s *Store) Allocate(format Format, maxFrames int) error {
	if !format.Valid() {
		return fmt.Errorf("store: %w: %+v", ErrInvalidFormat, format)
	}
	if maxFrames <= 0 {
		return fmt.Errorf("store: %w: %d", ErrInvalidCapacity, maxFrames)
	}
	if s.format == format && s.capacity == maxFrames && s.data != nil {
		return nil
	}

	s.format = format
	s.capacity = maxFrames
	s.data = make([]float64, format.Channels*maxFrames)
	s.channels = make([][]float64, format.Channels)
	for ch := range s.channels {
		s.channels[ch] = s.data[ch*maxFrames : (ch+1)*maxFrames]
	}

	return nil
}

// Release frees the storage. Capacity reports 0 afterwards.
func (s *Store) Release() {
	s.format = Format{}
	s.capacity = 0
	s.data = nil
	s.channels = nil
}

// Capacity returns the configured maximum frame count, 0 when unallocated.
func (s *Store) Capacity() int {
	return s.capacity
}

// Format returns the format the storage was allocated for.
func (s *Store) Format() Format {
	return s.format
}

// ChannelCount returns the number of allocated channels.
func (s *Store) ChannelCount() int {
	return len(s.channels)
}

// Channels returns the owned per-channel slices, each Capacity frames
// long, or nil when unallocated. Callers must not retain the slices
// across a reallocation.
func (s *Store) Channels() [][]float64 {
	return s.channels
}

// Zero clears all allocated samples.
func (s *Store) Zero() {
	for i := range s.data {
		s.data[i] = 0
	}
}
