// Package reactive holds observable values: a Signal owns state, a Memo derives from signals
// and recomputes lazily only when one of its dependencies changed.
package reactive

import (
	"sort"
	"sync"
)

type Signal[T any] struct {
	mu        sync.RWMutex
	value     T
	nextID    int
	listeners map[int]func(T)
}

func NewSignal[T any](initial T) *Signal[T] {
	return &Signal[T]{
		value:     initial,
		listeners: make(map[int]func(T)),
	}
}

func (s *Signal[T]) Get() T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.value
}

// Set stores v and notifies subscribers. Listeners run outside the lock,
// in subscription order, so they may read or set the signal again.
func (s *Signal[T]) Set(v T) {
	s.mu.Lock()
	s.value = v
	fns := s.snapshot()
	s.mu.Unlock()

	for _, fn := range fns {
		fn(v)
	}
}

// Update applies fn to the current value atomically and notifies subscribers.
func (s *Signal[T]) Update(fn func(T) T) {
	s.mu.Lock()
	s.value = fn(s.value)
	v := s.value
	fns := s.snapshot()
	s.mu.Unlock()

	for _, l := range fns {
		l(v)
	}
}

// Subscribe registers fn for future changes and returns the func removing it.
func (s *Signal[T]) Subscribe(fn func(T)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.listeners, id)
			s.mu.Unlock()
		})
	}
}

// OnChange is Subscribe for listeners that only care that something changed.
func (s *Signal[T]) OnChange(fn func()) (unsubscribe func()) {
	return s.Subscribe(func(T) { fn() })
}

func (s *Signal[T]) snapshot() []func(T) {
	ids := make([]int, 0, len(s.listeners))
	for id := range s.listeners {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	fns := make([]func(T), 0, len(ids))
	for _, id := range ids {
		fns = append(fns, s.listeners[id])
	}
	return fns
}

// Source is anything a Memo can depend on.
type Source interface {
	OnChange(fn func()) (unsubscribe func())
}
