// Package facet provides a non-owning window type over channel sample
// buffers. A Facet addresses a sub-range of a render block without
// copying, so the engine can hand kernels exactly the frames of one
// event-free segment. Facets are relinked every render call and are
// allocation-free after Reserve.
package facet
