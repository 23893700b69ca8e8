// Package listview is the state behind every collection screen: fetch on mount, a search box
// filtering the rows, a retry after failures and a confirmed delete followed by a re-fetch.
package listview

import (
	"context"
	"strings"
	"sync"

	"github.com/c7d5a6/goliath/internal/api"
	"github.com/c7d5a6/goliath/internal/reactive"

	log "github.com/sirupsen/logrus"
)

type Status int

const (
	StatusLoading Status = iota
	StatusError
	StatusReady
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusError:
		return "error"
	case StatusReady:
		return "ready"
	default:
		return "unknown"
	}
}

// Mode tells apart the three things a ready view can show.
type Mode int

const (
	ModeRows Mode = iota
	ModeEmptyCollection
	ModeEmptySearch
)

//go:generate mockgen -source=$GOFILE -destination=view_mocks_test.go -package=listview_test

// Confirmer asks the user a blocking yes/no question.
type Confirmer interface {
	Confirm(prompt string) (bool, error)
}

// Navigator moves the front end to another screen, e.g. "/exercises".
type Navigator interface {
	Navigate(path string)
}

// Column is one table column and one line of a card.
type Column[T any] struct {
	Header string
	Value  func(T) string
}

type Params[T any] struct {
	Title string
	Fetch func(ctx context.Context) ([]T, error)
	// Match reports whether item matches query. query is already trimmed, lower-cased and non-empty.
	Match   func(item T, query string) bool
	Columns []Column[T]

	EmptyMessage string
	// EmptySearchMessage is a format string receiving the search query.
	EmptySearchMessage string
}

type state struct {
	status  Status
	loadErr error
	banner  error
}

type View[T any] struct {
	params Params[T]

	// guards the load sequence number
	mu      sync.Mutex
	loadSeq int

	items    *reactive.Signal[[]T]
	search   *reactive.Signal[string]
	state    *reactive.Signal[state]
	filtered *reactive.Memo[[]T]
}

func New[T any](params Params[T]) *View[T] {
	if params.EmptyMessage == "" {
		params.EmptyMessage = "Nothing here yet."
	}
	if params.EmptySearchMessage == "" {
		params.EmptySearchMessage = "No results for %q."
	}

	v := &View[T]{
		params: params,
		items:  reactive.NewSignal[[]T](nil),
		search: reactive.NewSignal(""),
		state:  reactive.NewSignal(state{status: StatusLoading}),
	}
	v.filtered = reactive.NewMemo(v.filter, v.items, v.search)

	return v
}

func (v *View[T]) filter() []T {
	items := v.items.Get()
	query := normalizeQuery(v.search.Get())
	if query == "" || v.params.Match == nil {
		return items
	}

	matched := make([]T, 0, len(items))
	for _, item := range items {
		if v.params.Match(item, query) {
			matched = append(matched, item)
		}
	}
	return matched
}

func normalizeQuery(q string) string {
	return strings.ToLower(strings.TrimSpace(q))
}

// Load fetches the collection. A failed fetch keeps the previous rows and switches the
// view to the error state, from which Retry re-issues the fetch.
func (v *View[T]) Load(ctx context.Context) error {
	v.mu.Lock()
	v.loadSeq++
	seq := v.loadSeq
	v.mu.Unlock()

	v.state.Update(func(s state) state {
		s.status = StatusLoading
		s.loadErr = nil
		return s
	})

	items, err := v.params.Fetch(ctx)

	v.mu.Lock()
	stale := seq != v.loadSeq
	v.mu.Unlock()
	if stale {
		// a later load owns the state now
		return err
	}

	if err != nil {
		log.Debugf("listview %s: load: %s", v.params.Title, err)
		v.state.Update(func(s state) state {
			s.status = StatusError
			s.loadErr = err
			return s
		})
		return err
	}

	v.items.Set(items)
	v.state.Update(func(s state) state {
		s.status = StatusReady
		return s
	})
	return nil
}

// Retry re-issues the fetch past any cached response.
func (v *View[T]) Retry(ctx context.Context) error {
	return v.Load(api.Fresh(ctx))
}

func (v *View[T]) SetSearch(q string) {
	if v.search.Get() == q {
		return
	}
	v.search.Set(q)
}

func (v *View[T]) Title() string {
	return v.params.Title
}

func (v *View[T]) Search() string {
	return v.search.Get()
}

func (v *View[T]) Items() []T {
	return v.items.Get()
}

// ItemsSource lets derived values depend on the fetched rows.
func (v *View[T]) ItemsSource() reactive.Source {
	return v.items
}

// Filtered returns the rows matching the search box. It is recomputed only after the
// rows or the search string changed.
func (v *View[T]) Filtered() []T {
	return v.filtered.Get()
}

// FilterRecomputations is the number of times the filtered rows were derived.
func (v *View[T]) FilterRecomputations() int64 {
	return v.filtered.Recomputations()
}

func (v *View[T]) Status() Status {
	return v.state.Get().status
}

// Err is the fetch failure shown in the error state.
func (v *View[T]) Err() error {
	return v.state.Get().loadErr
}

// Banner is the failure of the last row action, if any.
func (v *View[T]) Banner() error {
	return v.state.Get().banner
}

func (v *View[T]) DismissError() {
	v.state.Update(func(s state) state {
		s.banner = nil
		return s
	})
}

func (v *View[T]) Mode() Mode {
	if len(v.items.Get()) == 0 {
		return ModeEmptyCollection
	}
	if len(v.Filtered()) == 0 {
		return ModeEmptySearch
	}
	return ModeRows
}

// Subscribe calls fn after any change to rows, search or status.
func (v *View[T]) Subscribe(fn func()) (unsubscribe func()) {
	unsubs := []func(){
		v.items.OnChange(fn),
		v.search.OnChange(fn),
		v.state.OnChange(fn),
	}
	return func() {
		for _, u := range unsubs {
			u()
		}
	}
}

// Delete asks c to confirm prompt and only then calls del. A failed del is kept as the banner
// and the rows are left as they are. A successful del is followed by exactly one re-fetch.
func (v *View[T]) Delete(ctx context.Context, item T, prompt string, c Confirmer, del func(context.Context, T) error) (bool, error) {
	ok, err := c.Confirm(prompt)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, nil
	}

	if err := del(ctx, item); err != nil {
		log.Debugf("listview %s: delete: %s", v.params.Title, err)
		v.state.Update(func(s state) state {
			s.banner = err
			return s
		})
		return false, err
	}

	v.DismissError()
	return true, v.Load(api.Fresh(ctx))
}

// Close detaches the derived rows from their inputs.
func (v *View[T]) Close() {
	v.filtered.Close()
}
