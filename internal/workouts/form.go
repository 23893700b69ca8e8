package workouts

import (
	"context"
	"errors"
	"strings"

	"github.com/c7d5a6/goliath/internal/api"
	"github.com/c7d5a6/goliath/internal/identity"
	"github.com/c7d5a6/goliath/internal/listview"
	"github.com/c7d5a6/goliath/internal/reactive"

	log "github.com/sirupsen/logrus"
)

var (
	ErrNameRequired     = errors.New("Workout name is required")
	ErrAuthRequired     = errors.New("Please sign in to edit workouts.")
	ErrSubmitInProgress = errors.New("Workout is already being saved")
)

//go:generate mockgen -source=$GOFILE -destination=form_mocks_test.go -package=workouts_test

type formClient interface {
	Workout(ctx context.Context, id int) (*api.Workout, error)
	CreateWorkout(ctx context.Context, req api.WorkoutRequest) (*api.CreatedResponse, error)
	UpdateWorkout(ctx context.Context, id int, req api.WorkoutRequest) (*api.MessageResponse, error)
}

type currentUser interface {
	User() *identity.User
}

type formState struct {
	loading    bool
	submitting bool
	err        error
}

// Form edits the workout name. The attached exercises are saved separately by ExercisesEditor.
type Form struct {
	client    formClient
	session   currentUser
	navigator listview.Navigator
	workoutID int

	committed *reactive.Signal[string]
	draft     *reactive.Signal[string]
	state     *reactive.Signal[formState]
}

func NewForm(client formClient, session currentUser, navigator listview.Navigator) *Form {
	return newForm(client, session, navigator, 0)
}

func NewEditForm(client formClient, session currentUser, navigator listview.Navigator, workoutID int) *Form {
	return newForm(client, session, navigator, workoutID)
}

func newForm(client formClient, session currentUser, navigator listview.Navigator, workoutID int) *Form {
	return &Form{
		client:    client,
		session:   session,
		navigator: navigator,
		workoutID: workoutID,
		committed: reactive.NewSignal(""),
		draft:     reactive.NewSignal(""),
		state:     reactive.NewSignal(formState{}),
	}
}

func (f *Form) Editing() bool {
	return f.workoutID != 0
}

// WorkoutID is 0 until a new workout was created.
func (f *Form) WorkoutID() int {
	return f.workoutID
}

// Load fetches the stored name when editing.
func (f *Form) Load(ctx context.Context) error {
	if !f.Editing() {
		return nil
	}

	f.setState(func(s *formState) {
		s.loading = true
		s.err = nil
	})
	w, err := f.client.Workout(ctx, f.workoutID)
	if err != nil {
		f.setState(func(s *formState) {
			s.loading = false
			s.err = err
		})
		return err
	}

	f.committed.Set(w.Name)
	f.draft.Set(w.Name)
	f.setState(func(s *formState) { s.loading = false })
	return nil
}

func (f *Form) Name() string {
	return f.draft.Get()
}

func (f *Form) Committed() string {
	return f.committed.Get()
}

func (f *Form) SetName(name string) {
	f.draft.Set(name)
}

func (f *Form) Submit(ctx context.Context) error {
	if f.Submitting() {
		return ErrSubmitInProgress
	}
	if f.session.User() == nil {
		f.setState(func(s *formState) { s.err = ErrAuthRequired })
		return ErrAuthRequired
	}
	name := strings.TrimSpace(f.draft.Get())
	if name == "" {
		f.setState(func(s *formState) { s.err = ErrNameRequired })
		return ErrNameRequired
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

	req := api.WorkoutRequest{Name: name}
	var err error
	if f.Editing() {
		_, err = f.client.UpdateWorkout(ctx, f.workoutID, req)
	} else {
		var created *api.CreatedResponse
		created, err = f.client.CreateWorkout(ctx, req)
		if err == nil {
			f.workoutID = created.ID
		}
	}

	if err != nil {
		log.Debugf("workout form: submit: %s", err)
		f.setState(func(s *formState) {
			s.submitting = false
			s.err = err
		})
		return err
	}

	f.committed.Set(name)
	f.draft.Set(name)
	f.setState(func(s *formState) { s.submitting = false })
	f.navigator.Navigate(ListPath)
	return nil
}

func (f *Form) Cancel() {
	f.draft.Set(f.committed.Get())
	f.setState(func(s *formState) { s.err = nil })
	f.navigator.Navigate(ListPath)
}

func (f *Form) Loading() bool {
	return f.state.Get().loading
}

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
	u1, u2 := f.draft.OnChange(fn), f.state.OnChange(fn)
	return func() {
		u1()
		u2()
	}
}
