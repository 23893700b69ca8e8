package workouts

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/c7d5a6/goliath/internal/api"
	"github.com/c7d5a6/goliath/internal/listview"
	"github.com/c7d5a6/goliath/internal/reactive"
	"github.com/c7d5a6/goliath/pkg"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const (
	MaxSuggestions     = 10
	DefaultSets        = 3
	DefaultReps        = 10
	DefaultTimeSeconds = 30
)

//go:generate mockgen -destination=confirmer_mocks_test.go -package=workouts_test github.com/c7d5a6/goliath/internal/listview Confirmer

type editorClient interface {
	Exercises(ctx context.Context) ([]api.Exercise, error)
	WorkoutExercises(ctx context.Context, workoutID int) ([]api.WorkoutExercise, error)
	AddWorkoutExercise(ctx context.Context, workoutID int, req api.AddWorkoutExerciseRequest) (*api.CreatedResponse, error)
	UpdateWorkoutExercise(ctx context.Context, workoutID, workoutExerciseID int, req api.UpdateWorkoutExerciseRequest) (*api.MessageResponse, error)
	DeleteWorkoutExercise(ctx context.Context, workoutID, workoutExerciseID int) (*api.MessageResponse, error)
}

// RowEdit is the inline edit buffer of one attached exercise.
type RowEdit struct {
	ID           int
	ExerciseType api.ExerciseType
	Position     int
	Sets         int
	Reps         int
	TimeSeconds  int
	Weight       *float64
	Notes        string
}

func newRowEdit(we api.WorkoutExercise) RowEdit {
	e := RowEdit{
		ID:           we.ID,
		ExerciseType: we.ExerciseType,
		Position:     we.Position,
		Weight:       we.Weight,
	}
	if we.Sets != nil {
		e.Sets = *we.Sets
	}
	if we.Reps != nil {
		e.Reps = *we.Reps
	}
	if we.TimeSeconds != nil {
		e.TimeSeconds = *we.TimeSeconds
	}
	if we.Notes != nil {
		e.Notes = *we.Notes
	}
	return e
}

// request carries sets and reps for rep based exercises and the duration for the rest.
func (e RowEdit) request() api.UpdateWorkoutExerciseRequest {
	req := api.UpdateWorkoutExerciseRequest{Position: e.Position, Weight: e.Weight}
	if e.ExerciseType.RepBased() {
		req.Sets, req.Reps = ptr(e.Sets), ptr(e.Reps)
	} else {
		req.TimeSeconds = ptr(e.TimeSeconds)
	}
	if notes := strings.TrimSpace(e.Notes); notes != "" {
		req.Notes = &notes
	}
	return req
}

type editorState struct {
	loading bool
	busy    bool
	err     error
	editing *RowEdit
}

// ExercisesEditor manages the exercises attached to a saved workout. Every add, update and
// removal is its own request followed by a re-fetch of the attached rows.
type ExercisesEditor struct {
	client    editorClient
	workoutID int

	catalog  *reactive.Signal[[]api.Exercise]
	attached *reactive.Signal[[]api.WorkoutExercise]
	query    *reactive.Signal[string]
	state    *reactive.Signal[editorState]

	suggestions *reactive.Memo[[]api.Exercise]
}

func NewExercisesEditor(client editorClient, workoutID int) *ExercisesEditor {
	e := &ExercisesEditor{
		client:    client,
		workoutID: workoutID,
		catalog:   reactive.NewSignal[[]api.Exercise](nil),
		attached:  reactive.NewSignal[[]api.WorkoutExercise](nil),
		query:     reactive.NewSignal(""),
		state:     reactive.NewSignal(editorState{loading: true}),
	}
	e.suggestions = reactive.NewMemo(e.computeSuggestions, e.catalog, e.attached, e.query)
	return e
}

// Load fetches the exercise catalog and the attached rows.
func (e *ExercisesEditor) Load(ctx context.Context) error {
	e.setState(func(s *editorState) {
		s.loading = true
		s.err = nil
	})

	var (
		catalog  []api.Exercise
		attached []api.WorkoutExercise
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		catalog, err = e.client.Exercises(gctx)
		return err
	})
	g.Go(func() (err error) {
		attached, err = e.client.WorkoutExercises(gctx, e.workoutID)
		return err
	})
	if err := g.Wait(); err != nil {
		e.setState(func(s *editorState) {
			s.loading = false
			s.err = err
		})
		return err
	}

	e.catalog.Set(catalog)
	e.attached.Set(sortByPosition(attached))
	e.setState(func(s *editorState) { s.loading = false })
	return nil
}

func (e *ExercisesEditor) refetch(ctx context.Context) error {
	attached, err := e.client.WorkoutExercises(api.Fresh(ctx), e.workoutID)
	if err != nil {
		return err
	}
	e.attached.Set(sortByPosition(attached))
	return nil
}

func sortByPosition(list []api.WorkoutExercise) []api.WorkoutExercise {
	sorted := append([]api.WorkoutExercise(nil), list...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Position < sorted[j].Position
	})
	return sorted
}

// Attached lists the attached rows in stored position order. Positions may have gaps.
func (e *ExercisesEditor) Attached() []api.WorkoutExercise {
	return e.attached.Get()
}

func (e *ExercisesEditor) SetQuery(q string) {
	e.query.Set(q)
}

func (e *ExercisesEditor) Query() string {
	return e.query.Get()
}

// Suggestions lists catalog exercises not attached yet whose name matches the query.
func (e *ExercisesEditor) Suggestions() []api.Exercise {
	return e.suggestions.Get()
}

func (e *ExercisesEditor) computeSuggestions() []api.Exercise {
	q := strings.ToLower(strings.TrimSpace(e.query.Get()))
	if q == "" {
		return nil
	}

	attached := make(map[int]bool)
	for _, we := range e.attached.Get() {
		attached[we.ExerciseID] = true
	}

	var out []api.Exercise
	for _, ex := range e.catalog.Get() {
		if attached[ex.ID] || !pkg.ContainsFold(ex.Name, q) {
			continue
		}
		out = append(out, ex)
		if len(out) == MaxSuggestions {
			break
		}
	}
	return out
}

// Add attaches a catalog exercise at the end with parameters defaulted by its type.
func (e *ExercisesEditor) Add(ctx context.Context, exerciseID int) error {
	var exercise *api.Exercise
	for _, ex := range e.catalog.Get() {
		if ex.ID == exerciseID {
			exercise = &ex
			break
		}
	}
	if exercise == nil {
		return fmt.Errorf("exercise %d not in catalog", exerciseID)
	}

	req := api.AddWorkoutExerciseRequest{
		ExerciseID: exercise.ID,
		Position:   len(e.attached.Get()),
	}
	if exercise.Type.RepBased() {
		req.Sets, req.Reps = ptr(DefaultSets), ptr(DefaultReps)
	} else {
		req.TimeSeconds = ptr(DefaultTimeSeconds)
	}

	return e.mutate(ctx, "add", func(ctx context.Context) error {
		_, err := e.client.AddWorkoutExercise(ctx, e.workoutID, req)
		if err == nil {
			e.query.Set("")
		}
		return err
	})
}

// StartEdit opens the inline editor on one row, closing any other open row.
func (e *ExercisesEditor) StartEdit(workoutExerciseID int) error {
	for _, we := range e.attached.Get() {
		if we.ID == workoutExerciseID {
			edit := newRowEdit(we)
			e.setState(func(s *editorState) { s.editing = &edit })
			return nil
		}
	}
	return fmt.Errorf("workout exercise %d not attached", workoutExerciseID)
}

// Editing returns a copy of the open row edit, or nil.
func (e *ExercisesEditor) Editing() *RowEdit {
	edit := e.state.Get().editing
	if edit == nil {
		return nil
	}
	c := *edit
	return &c
}

// UpdateEdit changes the open row edit in place.
func (e *ExercisesEditor) UpdateEdit(fn func(edit *RowEdit)) {
	e.setState(func(s *editorState) {
		if s.editing == nil {
			return
		}
		c := *s.editing
		fn(&c)
		s.editing = &c
	})
}

func (e *ExercisesEditor) CancelEdit() {
	e.setState(func(s *editorState) { s.editing = nil })
}

// SaveEdit sends the full parameter set of the open row.
func (e *ExercisesEditor) SaveEdit(ctx context.Context) error {
	edit := e.Editing()
	if edit == nil {
		return fmt.Errorf("no row is being edited")
	}

	return e.mutate(ctx, "update", func(ctx context.Context) error {
		_, err := e.client.UpdateWorkoutExercise(ctx, e.workoutID, edit.ID, edit.request())
		if err == nil {
			e.setState(func(s *editorState) { s.editing = nil })
		}
		return err
	})
}

// Remove detaches a row once the user confirmed it.
func (e *ExercisesEditor) Remove(ctx context.Context, workoutExerciseID int, c listview.Confirmer) (bool, error) {
	name := ""
	for _, we := range e.attached.Get() {
		if we.ID == workoutExerciseID {
			name = we.ExerciseName
		}
	}
	ok, err := c.Confirm(fmt.Sprintf("Remove %s from this workout?", name))
	if err != nil || !ok {
		return false, err
	}

	err = e.mutate(ctx, "remove", func(ctx context.Context) error {
		_, err := e.client.DeleteWorkoutExercise(ctx, e.workoutID, workoutExerciseID)
		if err == nil {
			e.setState(func(s *editorState) {
				if s.editing != nil && s.editing.ID == workoutExerciseID {
					s.editing = nil
				}
			})
		}
		return err
	})
	return err == nil, err
}

// mutate runs one sub-resource call and re-fetches the attached rows after it succeeded.
func (e *ExercisesEditor) mutate(ctx context.Context, op string, call func(context.Context) error) error {
	e.setState(func(s *editorState) {
		s.busy = true
		s.err = nil
	})

	err := call(ctx)
	if err == nil {
		err = e.refetch(ctx)
	}
	if err != nil {
		log.Debugf("workout %d exercises: %s: %s", e.workoutID, op, err)
	}

	e.setState(func(s *editorState) {
		s.busy = false
		s.err = err
	})
	return err
}

func (e *ExercisesEditor) Loading() bool {
	return e.state.Get().loading
}

// Busy is true while a sub-resource call or its re-fetch is in flight.
func (e *ExercisesEditor) Busy() bool {
	return e.state.Get().busy
}

func (e *ExercisesEditor) Err() error {
	return e.state.Get().err
}

func (e *ExercisesEditor) DismissError() {
	e.setState(func(s *editorState) { s.err = nil })
}

func (e *ExercisesEditor) setState(fn func(s *editorState)) {
	e.state.Update(func(s editorState) editorState {
		fn(&s)
		return s
	})
}

func (e *ExercisesEditor) Subscribe(fn func()) (unsubscribe func()) {
	unsubs := []func(){
		e.catalog.OnChange(fn),
		e.attached.OnChange(fn),
		e.query.OnChange(fn),
		e.state.OnChange(fn),
	}
	return func() {
		for _, u := range unsubs {
			u()
		}
	}
}

func (e *ExercisesEditor) Close() {
	e.suggestions.Close()
}

func ptr[T any](v T) *T {
	return &v
}
