// Package store provides per-bus owned sample storage for the render
// engine. A Store is sized once, outside the real-time path, for a
// maximum frame capacity and a channel format; render calls only read
// its channel slices and never trigger allocation.
package store
