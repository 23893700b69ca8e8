package reactive

import (
	"sync"
	"sync/atomic"
)

type Memo[T any] struct {
	mu      sync.Mutex
	compute func() T
	value   T
	valid   bool
	unsubs  []func()

	recomputations atomic.Int64
}

// NewMemo returns a derived value computed by compute. It is invalidated whenever
// one of deps changes and recomputed on the next Get.
func NewMemo[T any](compute func() T, deps ...Source) *Memo[T] {
	m := &Memo[T]{compute: compute}
	for _, d := range deps {
		m.unsubs = append(m.unsubs, d.OnChange(m.Invalidate))
	}
	return m
}

func (m *Memo[T]) Get() T {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.valid {
		m.value = m.compute()
		m.valid = true
		m.recomputations.Add(1)
	}
	return m.value
}

func (m *Memo[T]) Invalidate() {
	m.mu.Lock()
	m.valid = false
	m.mu.Unlock()
}

// Recomputations reports how many times compute ran.
func (m *Memo[T]) Recomputations() int64 {
	return m.recomputations.Load()
}

// Close detaches the memo from its dependencies.
func (m *Memo[T]) Close() {
	m.mu.Lock()
	unsubs := m.unsubs
	m.unsubs = nil
	m.mu.Unlock()

	for _, u := range unsubs {
		u()
	}
}
