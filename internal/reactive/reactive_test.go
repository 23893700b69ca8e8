package reactive

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignal_SetNotifiesInOrder(t *testing.T) {
	s := NewSignal(1)
	var got []string

	unsubA := s.Subscribe(func(v int) { got = append(got, "a") })
	s.Subscribe(func(v int) { got = append(got, "b") })

	s.Set(2)
	assert.Equal(t, 2, s.Get())
	assert.Equal(t, []string{"a", "b"}, got)

	unsubA()
	unsubA() // idempotent
	s.Set(3)
	assert.Equal(t, []string{"a", "b", "b"}, got)
}

func TestSignal_Update(t *testing.T) {
	s := NewSignal([]string{"x"})
	notified := 0
	s.OnChange(func() { notified++ })

	s.Update(func(v []string) []string { return append(v, "y") })
	assert.Equal(t, []string{"x", "y"}, s.Get())
	assert.Equal(t, 1, notified)
}

func TestSignal_ListenerMaySetAgain(t *testing.T) {
	s := NewSignal(0)
	s.Subscribe(func(v int) {
		if v < 3 {
			s.Set(v + 1)
		}
	})
	s.Set(1)
	assert.Equal(t, 3, s.Get())
}

func TestSignal_ConcurrentSet(t *testing.T) {
	s := NewSignal(0)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Update(func(v int) int { return v + 1 })
		}()
	}
	wg.Wait()
	assert.Equal(t, 50, s.Get())
}

func TestMemo_RecomputesOnlyOnDependencyChange(t *testing.T) {
	items := NewSignal([]string{"Biceps", "Triceps", "Quads"})
	search := NewSignal("")

	filtered := NewMemo(func() []string {
		q := strings.ToLower(search.Get())
		var out []string
		for _, it := range items.Get() {
			if strings.Contains(strings.ToLower(it), q) {
				out = append(out, it)
			}
		}
		return out
	}, items, search)
	defer filtered.Close()

	require.Len(t, filtered.Get(), 3)
	require.Len(t, filtered.Get(), 3)
	assert.Equal(t, int64(1), filtered.Recomputations())

	search.Set("ceps")
	assert.Equal(t, []string{"Biceps", "Triceps"}, filtered.Get())
	assert.Equal(t, int64(2), filtered.Recomputations())

	items.Set([]string{"Forearms"})
	assert.Empty(t, filtered.Get())
	assert.Equal(t, int64(3), filtered.Recomputations())
}

func TestMemo_Close(t *testing.T) {
	dep := NewSignal(1)
	m := NewMemo(func() int { return dep.Get() * 2 }, dep)
	assert.Equal(t, 2, m.Get())

	m.Close()
	dep.Set(5)
	// detached: the cached value stays
	assert.Equal(t, 2, m.Get())
	assert.Equal(t, int64(1), m.Recomputations())
}
