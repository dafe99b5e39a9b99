// Package slab implements a reusable-slot table with generation-tagged handles.
//
// A Handle packs a 32-bit slot index and a 32-bit generation. Removing a value
// bumps its slot's generation, so handles to the old value stop resolving even
// after the slot index is handed out again.
package slab

import "fmt"

// Handle identifies a value in a Slab. The zero Handle never refers to a live
// value: generations start at 1.
type Handle uint64

// NewHandle packs an index and generation.
func NewHandle(index, generation uint32) Handle {
	return Handle(uint64(generation)<<32 | uint64(index))
}

func (h Handle) Index() uint32      { return uint32(h) }
func (h Handle) Generation() uint32 { return uint32(h >> 32) }
func (h Handle) IsZero() bool       { return h == 0 }

func (h Handle) String() string {
	return fmt.Sprintf("%d@%d", h.Index(), h.Generation())
}

// Slab stores values in reusable slots. Freed slots are reused most recently
// freed first. Not safe for concurrent use.
type Slab[T any] struct {
	values      []T
	generations []uint32
	live        []bool
	free        []uint32
	count       int
}

// New creates an empty slab.
func New[T any]() *Slab[T] {
	return &Slab[T]{}
}

// Insert stores v and returns its handle.
func (s *Slab[T]) Insert(v T) Handle {
	var idx uint32
	if n := len(s.free); n > 0 {
		idx = s.free[n-1]
		s.free = s.free[:n-1]
		s.values[idx] = v
	} else {
		idx = uint32(len(s.values))
		s.values = append(s.values, v)
		s.generations = append(s.generations, 1)
		s.live = append(s.live, false)
	}
	s.live[idx] = true
	s.count++
	return NewHandle(idx, s.generations[idx])
}

// Contains reports whether h refers to a live value.
func (s *Slab[T]) Contains(h Handle) bool {
	idx := h.Index()
	return int(idx) < len(s.values) && s.live[idx] && s.generations[idx] == h.Generation()
}

// Get returns a pointer to the value for h. The pointer is valid until the
// next Insert.
func (s *Slab[T]) Get(h Handle) (*T, bool) {
	if !s.Contains(h) {
		return nil, false
	}
	return &s.values[h.Index()], true
}

// Remove frees the slot for h and returns the value it held.
func (s *Slab[T]) Remove(h Handle) (T, bool) {
	var zero T
	if !s.Contains(h) {
		return zero, false
	}
	idx := h.Index()
	v := s.values[idx]
	s.values[idx] = zero
	s.live[idx] = false
	s.generations[idx]++
	s.free = append(s.free, idx)
	s.count--
	return v, true
}

// Clear removes every value. Slot 0 is the first one reused afterwards.
func (s *Slab[T]) Clear() {
	var zero T
	s.free = s.free[:0]
	for i := len(s.values) - 1; i >= 0; i-- {
		if s.live[i] {
			s.values[i] = zero
			s.live[i] = false
			s.generations[i]++
		}
		s.free = append(s.free, uint32(i))
	}
	s.count = 0
}

// Len returns the number of live values.
func (s *Slab[T]) Len() int {
	return s.count
}

// Each calls fn for every live value in slot order. fn must not insert or
// remove values.
func (s *Slab[T]) Each(fn func(Handle, *T)) {
	for i := range s.values {
		if s.live[i] {
			fn(NewHandle(uint32(i), s.generations[i]), &s.values[i])
		}
	}
}
