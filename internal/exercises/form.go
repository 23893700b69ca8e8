package exercises

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/c7d5a6/goliath/internal/api"
	"github.com/c7d5a6/goliath/internal/listview"
	"github.com/c7d5a6/goliath/internal/reactive"
	"github.com/c7d5a6/goliath/pkg"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const (
	MaxSuggestions    = 10
	DefaultPercentage = 20
	PercentPerStar    = 20
	MaxStars          = 5
)

var (
	ErrNameRequired = errors.New("Exercise name is required")
	ErrTypeRequired = errors.New("Exercise type is required")
	ErrNoMuscles    = errors.New("At least one muscle must be selected")
	// ErrSubmitInProgress is returned by Submit while an earlier save is still in flight.
	ErrSubmitInProgress = errors.New("Exercise is already being saved")
)

//go:generate mockgen -source=$GOFILE -destination=form_mocks_test.go -package=exercises_test

type formClient interface {
	Muscles(ctx context.Context) ([]api.Muscle, error)
	ExerciseTypes(ctx context.Context) ([]api.ExerciseType, error)
	Exercise(ctx context.Context, id int) (*api.Exercise, error)
	CreateExercise(ctx context.Context, req api.ExerciseRequest) (*api.CreatedResponse, error)
	UpdateExercise(ctx context.Context, id int, req api.ExerciseRequest) (*api.MessageResponse, error)
}

type AttachedMuscle struct {
	MuscleID   int
	Name       string
	GroupName  string
	Percentage float64
}

// Stars is the 1..5 control value for the percentage.
func (m AttachedMuscle) Stars() int {
	return int(math.Round(m.Percentage / PercentPerStar))
}

// Fields are the editable values of an exercise.
type Fields struct {
	Name    string
	Type    api.ExerciseType
	Muscles []AttachedMuscle
}

func (f Fields) clone() Fields {
	f.Muscles = append([]AttachedMuscle(nil), f.Muscles...)
	return f
}

func (f Fields) attached(muscleID int) int {
	for i, m := range f.Muscles {
		if m.MuscleID == muscleID {
			return i
		}
	}
	return -1
}

type formState struct {
	loading    bool
	submitting bool
	err        error
}

// Form backs both the add and the edit exercise screens. It edits a draft next to the
// committed fields; Load merges server state into both, Cancel discards the draft.
type Form struct {
	client    formClient
	navigator listview.Navigator
	// 0 when adding
	exerciseID int

	catalog   *reactive.Signal[[]api.Muscle]
	types     *reactive.Signal[[]api.ExerciseType]
	committed *reactive.Signal[Fields]
	draft     *reactive.Signal[Fields]
	query     *reactive.Signal[string]
	state     *reactive.Signal[formState]

	suggestions *reactive.Memo[[]api.Muscle]
	total       *reactive.Memo[float64]
}

func NewForm(client formClient, navigator listview.Navigator) *Form {
	return newForm(client, navigator, 0)
}

func NewEditForm(client formClient, navigator listview.Navigator, exerciseID int) *Form {
	return newForm(client, navigator, exerciseID)
}

func newForm(client formClient, navigator listview.Navigator, exerciseID int) *Form {
	f := &Form{
		client:     client,
		navigator:  navigator,
		exerciseID: exerciseID,
		catalog:    reactive.NewSignal[[]api.Muscle](nil),
		types:      reactive.NewSignal[[]api.ExerciseType](nil),
		committed:  reactive.NewSignal(Fields{}),
		draft:      reactive.NewSignal(Fields{}),
		query:      reactive.NewSignal(""),
		state:      reactive.NewSignal(formState{loading: true}),
	}
	f.suggestions = reactive.NewMemo(f.computeSuggestions, f.catalog, f.draft, f.query)
	f.total = reactive.NewMemo(f.computeTotal, f.draft)
	return f
}

func (f *Form) Editing() bool {
	return f.exerciseID != 0
}

// Load fetches the muscle catalog and the exercise types and, when editing, the exercise.
// The stored muscle pairs are joined against the catalog once every fetch resolved;
// pairs whose muscle is missing from the catalog are dropped.
func (f *Form) Load(ctx context.Context) error {
	f.setState(func(s *formState) {
		s.loading = true
		s.err = nil
	})

	var (
		catalog  []api.Muscle
		types    []api.ExerciseType
		exercise *api.Exercise
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		catalog, err = f.client.Muscles(gctx)
		return err
	})
	g.Go(func() (err error) {
		types, err = f.client.ExerciseTypes(gctx)
		return err
	})
	if f.Editing() {
		g.Go(func() (err error) {
			exercise, err = f.client.Exercise(gctx, f.exerciseID)
			return err
		})
	}

	if err := g.Wait(); err != nil {
		log.Debugf("exercise form: load: %s", err)
		f.setState(func(s *formState) {
			s.loading = false
			s.err = err
		})
		return err
	}

	f.catalog.Set(catalog)
	f.types.Set(types)
	if exercise != nil {
		fields := join(exercise, catalog)
		f.committed.Set(fields)
		f.draft.Set(fields.clone())
	}
	f.setState(func(s *formState) { s.loading = false })

	return nil
}

func join(e *api.Exercise, catalog []api.Muscle) Fields {
	byID := make(map[int]api.Muscle, len(catalog))
	for _, m := range catalog {
		byID[m.ID] = m
	}

	fields := Fields{Name: e.Name, Type: e.Type}
	for _, em := range e.Muscles {
		m, ok := byID[em.MuscleID]
		if !ok {
			continue
		}
		fields.Muscles = append(fields.Muscles, AttachedMuscle{
			MuscleID:   m.ID,
			Name:       m.Name,
			GroupName:  m.MuscleGroupName,
			Percentage: em.Percentage,
		})
	}
	return fields
}

func (f *Form) Draft() Fields {
	return f.draft.Get().clone()
}

func (f *Form) Committed() Fields {
	return f.committed.Get().clone()
}

func (f *Form) Types() []api.ExerciseType {
	return f.types.Get()
}

func (f *Form) SetName(name string) {
	f.draft.Update(func(d Fields) Fields {
		d = d.clone()
		d.Name = name
		return d
	})
}

func (f *Form) SetType(t api.ExerciseType) {
	f.draft.Update(func(d Fields) Fields {
		d = d.clone()
		d.Type = t
		return d
	})
}

func (f *Form) SetQuery(q string) {
	f.query.Set(q)
}

func (f *Form) Query() string {
	return f.query.Get()
}

// Suggestions lists catalog muscles not attached yet whose name or group matches the query.
// A blank query suggests nothing.
func (f *Form) Suggestions() []api.Muscle {
	return f.suggestions.Get()
}

func (f *Form) computeSuggestions() []api.Muscle {
	q := strings.ToLower(strings.TrimSpace(f.query.Get()))
	if q == "" {
		return nil
	}

	draft := f.draft.Get()
	var out []api.Muscle
	for _, m := range f.catalog.Get() {
		if draft.attached(m.ID) >= 0 {
			continue
		}
		if !pkg.ContainsFold(m.Name, q) && !pkg.ContainsFold(m.MuscleGroupName, q) {
			continue
		}
		out = append(out, m)
		if len(out) == MaxSuggestions {
			break
		}
	}
	return out
}

// AddMuscle attaches a catalog muscle with the default percentage and clears the query.
func (f *Form) AddMuscle(muscleID int) error {
	var muscle *api.Muscle
	for _, m := range f.catalog.Get() {
		if m.ID == muscleID {
			muscle = &m
			break
		}
	}
	if muscle == nil {
		return fmt.Errorf("muscle %d not in catalog", muscleID)
	}

	f.draft.Update(func(d Fields) Fields {
		if d.attached(muscleID) >= 0 {
			return d
		}
		d = d.clone()
		d.Muscles = append(d.Muscles, AttachedMuscle{
			MuscleID:   muscle.ID,
			Name:       muscle.Name,
			GroupName:  muscle.MuscleGroupName,
			Percentage: DefaultPercentage,
		})
		return d
	})
	f.query.Set("")

	return nil
}

// SetStars overwrites the percentage of an attached muscle with stars*20.
func (f *Form) SetStars(muscleID, stars int) error {
	if stars < 1 || stars > MaxStars {
		return fmt.Errorf("stars must be between 1 and %d, got %d", MaxStars, stars)
	}

	found := false
	f.draft.Update(func(d Fields) Fields {
		i := d.attached(muscleID)
		if i < 0 {
			return d
		}
		found = true
		d = d.clone()
		d.Muscles[i].Percentage = float64(stars * PercentPerStar)
		return d
	})
	if !found {
		return fmt.Errorf("muscle %d is not attached", muscleID)
	}
	return nil
}

func (f *Form) RemoveMuscle(muscleID int) {
	f.draft.Update(func(d Fields) Fields {
		i := d.attached(muscleID)
		if i < 0 {
			return d
		}
		d = d.clone()
		d.Muscles = append(d.Muscles[:i], d.Muscles[i+1:]...)
		return d
	})
}

// TotalPercentage is the running sum shown next to the muscles. It is not required to be 100.
func (f *Form) TotalPercentage() float64 {
	return f.total.Get()
}

func (f *Form) computeTotal() float64 {
	var total float64
	for _, m := range f.draft.Get().Muscles {
		total += m.Percentage
	}
	return total
}

// Validate checks the draft in order and stops at the first failure.
func (f *Form) Validate() error {
	d := f.draft.Get()
	switch {
	case strings.TrimSpace(d.Name) == "":
		return ErrNameRequired
	case d.Type == "":
		return ErrTypeRequired
	case len(d.Muscles) == 0:
		return ErrNoMuscles
	}
	return nil
}

func (f *Form) request() api.ExerciseRequest {
	d := f.draft.Get()
	req := api.ExerciseRequest{
		Name:    strings.TrimSpace(d.Name),
		Type:    d.Type,
		Muscles: make([]api.MusclePercentage, 0, len(d.Muscles)),
	}
	for _, m := range d.Muscles {
		req.Muscles = append(req.Muscles, api.MusclePercentage{MuscleID: m.MuscleID, Percentage: m.Percentage})
	}
	return req
}

// Submit validates the draft and creates or updates the exercise. On success the draft
// becomes the committed state and the front end is sent back to the list. On failure the
// draft is kept and the error is shown.
func (f *Form) Submit(ctx context.Context) error {
	if f.Submitting() {
		return ErrSubmitInProgress
	}
	if err := f.Validate(); err != nil {
		f.setState(func(s *formState) { s.err = err })
		return err
	}

	busy := false
	f.setState(func(s *formState) {
		if s.submitting {
			busy = true
			return
		}
		s.submitting = true
		s.err = nil
	})
	if busy {
		return ErrSubmitInProgress
	}

	req := f.request()
	var err error
	if f.Editing() {
		_, err = f.client.UpdateExercise(ctx, f.exerciseID, req)
	} else {
		_, err = f.client.CreateExercise(ctx, req)
	}

	if err != nil {
		log.Debugf("exercise form: submit: %s", err)
		f.setState(func(s *formState) {
			s.submitting = false
			s.err = err
		})
		return err
	}

	f.committed.Set(f.draft.Get().clone())
	f.setState(func(s *formState) { s.submitting = false })
	f.navigator.Navigate(ListPath)

	return nil
}

// Cancel drops every unsaved change and leaves the form.
func (f *Form) Cancel() {
	f.draft.Set(f.committed.Get().clone())
	f.query.Set("")
	f.setState(func(s *formState) { s.err = nil })
	f.navigator.Navigate(ListPath)
}

func (f *Form) Loading() bool {
	return f.state.Get().loading
}

// Submitting is true while a save is in flight; the submit control is disabled meanwhile.
func (f *Form) Submitting() bool {
	return f.state.Get().submitting
}

func (f *Form) Err() error {
	return f.state.Get().err
}

func (f *Form) DismissError() {
	f.setState(func(s *formState) { s.err = nil })
}

func (f *Form) setState(fn func(s *formState)) {
	f.state.Update(func(s formState) formState {
		fn(&s)
		return s
	})
}

func (f *Form) Subscribe(fn func()) (unsubscribe func()) {
	unsubs := []func(){
		f.catalog.OnChange(fn),
		f.types.OnChange(fn),
		f.draft.OnChange(fn),
		f.query.OnChange(fn),
		f.state.OnChange(fn),
	}
	return func() {
		for _, u := range unsubs {
			u()
		}
	}
}

func (f *Form) Close() {
	f.suggestions.Close()
	f.total.Close()
}
