// Package login holds the sign-in / sign-up screen state.
package login

import (
	"context"
	"errors"
	"strings"

	"github.com/c7d5a6/goliath/internal/listview"
	"github.com/c7d5a6/goliath/internal/reactive"

	log "github.com/sirupsen/logrus"
)

const (
	HomePath = "/"

	fallbackMessage       = "Authentication failed"
	googleFallbackMessage = "Google sign-in failed"
)

// ErrInProgress is returned by a submit made while another one is still running.
var ErrInProgress = errors.New("Sign-in already in progress")

type Mode int

const (
	ModeSignIn Mode = iota
	ModeSignUp
)

func (m Mode) String() string {
	if m == ModeSignUp {
		return "sign up"
	}
	return "sign in"
}

//go:generate mockgen -source=$GOFILE -destination=view_mocks_test.go -package=login_test

type authenticator interface {
	SignIn(ctx context.Context, email, password string) error
	SignUp(ctx context.Context, email, password string) error
	SignInWithGoogle(ctx context.Context) error
}

// Limiter throttles sign-in attempts per email.
type Limiter interface {
	Allow(ctx context.Context, email string) error
}

type State struct {
	Mode     Mode
	Email    string
	Password string
	Error    string
	Loading  bool
}

type View struct {
	auth      authenticator
	navigator listview.Navigator
	limiter   Limiter

	state *reactive.Signal[State]
}

// NewView returns the login screen state. limiter may be nil.
func NewView(auth authenticator, navigator listview.Navigator, limiter Limiter) *View {
	return &View{
		auth:      auth,
		navigator: navigator,
		limiter:   limiter,
		state:     reactive.NewSignal(State{}),
	}
}

func (v *View) State() State {
	return v.state.Get()
}

func (v *View) Subscribe(fn func(State)) (unsubscribe func()) {
	return v.state.Subscribe(fn)
}

func (v *View) SetEmail(email string) {
	v.update(func(s *State) { s.Email = email })
}

func (v *View) SetPassword(password string) {
	v.update(func(s *State) { s.Password = password })
}

// ToggleMode switches between signing in and signing up.
func (v *View) ToggleMode() {
	v.update(func(s *State) {
		if s.Mode == ModeSignIn {
			s.Mode = ModeSignUp
		} else {
			s.Mode = ModeSignIn
		}
		s.Error = ""
	})
}

func (v *View) DismissError() {
	v.update(func(s *State) { s.Error = "" })
}

// Submit signs in or up with the entered credentials, depending on the mode.
func (v *View) Submit(ctx context.Context) error {
	st, ok := v.begin()
	if !ok {
		return ErrInProgress
	}
	defer v.end()

	email := strings.TrimSpace(st.Email)
	if v.limiter != nil {
		if err := v.limiter.Allow(ctx, email); err != nil {
			v.fail(err, fallbackMessage)
			return err
		}
	}

	var err error
	if st.Mode == ModeSignUp {
		err = v.auth.SignUp(ctx, email, st.Password)
	} else {
		err = v.auth.SignIn(ctx, email, st.Password)
	}
	if err != nil {
		v.fail(err, fallbackMessage)
		return err
	}

	v.navigator.Navigate(HomePath)
	return nil
}

func (v *View) SubmitGoogle(ctx context.Context) error {
	if _, ok := v.begin(); !ok {
		return ErrInProgress
	}
	defer v.end()

	if err := v.auth.SignInWithGoogle(ctx); err != nil {
		v.fail(err, googleFallbackMessage)
		return err
	}

	v.navigator.Navigate(HomePath)
	return nil
}

// begin marks the view loading. It reports false, and changes nothing, when a submit is
// already running.
func (v *View) begin() (State, bool) {
	var (
		st   State
		busy bool
	)
	v.update(func(s *State) {
		if s.Loading {
			busy = true
			return
		}
		s.Loading = true
		s.Error = ""
		st = *s
	})
	return st, !busy
}

// end runs deferred so loading is cleared on every way out, panics included.
func (v *View) end() {
	v.update(func(s *State) { s.Loading = false })
}

func (v *View) fail(err error, fallback string) {
	log.Debugf("login: %s", err)
	msg := err.Error()
	if strings.TrimSpace(msg) == "" {
		msg = fallback
	}
	v.update(func(s *State) { s.Error = msg })
}

func (v *View) update(fn func(s *State)) {
	v.state.Update(func(s State) State {
		fn(&s)
		return s
	})
}
