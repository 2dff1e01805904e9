package jobs

import (
	"sync"
	"time"
)

// Snapshot holds the latest value produced by a refresh. Values are replaced
// wholesale; the most recent Set wins.
type Snapshot[T any] struct {
	mu      sync.RWMutex
	value   T
	updated time.Time
	loaded  bool
}

// Get returns the current value and when it was stored. The zero value and
// a zero time are returned before the first Set.
func (s *Snapshot[T]) Get() (T, time.Time) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.value, s.updated
}

// Set replaces the value.
func (s *Snapshot[T]) Set(v T) {
	s.mu.Lock()
	s.value = v
	s.updated = time.Now()
	s.loaded = true
	s.mu.Unlock()
}

// Loaded reports whether any refresh has succeeded.
func (s *Snapshot[T]) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}
