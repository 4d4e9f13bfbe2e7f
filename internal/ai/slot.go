package ai

import "sync"

// Slot holds the latest result of a repeatable AI request. Every request
// takes a sequence number from Begin; Publish only accepts the result of the
// most recently begun request, so a slow response cannot overwrite a fresher
// one.
type Slot[T any] struct {
	mu     sync.Mutex
	latest uint64
	seq    uint64 // request the current value came from
	value  T
	filled bool
}

// Begin issues a new request sequence number.
func (s *Slot[T]) Begin() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.latest++
	return s.latest
}

// Publish stores v if seq is still the latest request. It reports whether
// the value was kept.
func (s *Slot[T]) Publish(seq uint64, v T) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if seq != s.latest {
		return false
	}
	s.value = v
	s.seq = seq
	s.filled = true
	return true
}

// Take empties the slot and returns the value it held with the sequence
// number it was published under. A second Take finds nothing until the next
// Publish. Handing the value back with Publish(seq, v) succeeds only while no
// newer request has begun.
func (s *Slot[T]) Take() (T, uint64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var zero T
	if !s.filled {
		return zero, 0, false
	}
	v, seq := s.value, s.seq
	s.value = zero
	s.filled = false
	return v, seq, true
}

// Load returns the current value and whether one was ever published.
func (s *Slot[T]) Load() (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value, s.filled
}

// Update replaces the current value in place, for edits that are not new
// requests (dismissing a suggestion, for one).
func (s *Slot[T]) Update(fn func(T) T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.value = fn(s.value)
}
