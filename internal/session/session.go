// Package session holds the process wide auth state: the signed-in user, a loading flag
// and the bearer token, kept in step with the identity provider and mirrored to durable storage.
package session

import (
	"context"
	"errors"
	"sync"

	"github.com/c7d5a6/goliath/internal/identity"
	"github.com/c7d5a6/goliath/internal/reactive"
	"github.com/c7d5a6/goliath/internal/tokenstore"

	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -destination=provider_mocks_test.go -package=session_test github.com/c7d5a6/goliath/internal/identity Provider
//go:generate mockgen -destination=store_mocks_test.go -package=session_test github.com/c7d5a6/goliath/internal/tokenstore Store

type State struct {
	User    *identity.User
	Loading bool
	Token   string
}

// AuthError is a failed auth operation carrying the provider's message.
type AuthError struct {
	Op      string
	Message string
	Err     error
}

func (e *AuthError) Error() string {
	return e.Message
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

func newAuthError(op string, err error) *AuthError {
	msg := err.Error()
	var idErr *identity.Error
	if errors.As(err, &idErr) {
		msg = idErr.Message
	}
	return &AuthError{Op: op, Message: msg, Err: err}
}

type Store struct {
	provider identity.Provider
	storage  tokenstore.Store
	state    *reactive.Signal[State]

	mu          sync.Mutex
	unsubscribe func()
}

// NewStore returns a store in the loading state; Start ends it with the provider's first event.
func NewStore(provider identity.Provider, storage tokenstore.Store) *Store {
	return &Store{
		provider: provider,
		storage:  storage,
		state:    reactive.NewSignal(State{Loading: true}),
	}
}

func (s *Store) State() State { return s.state.Get() }
func (s *Store) User() *identity.User { return s.state.Get().User }
func (s *Store) Loading() bool { return s.state.Get().Loading }
func (s *Store) Token() string { return s.state.Get().Token }

// Subscribe calls fn with every new state until the returned func is called.
func (s *Store) Subscribe(fn func(State)) (unsubscribe func()) {
	return s.state.Subscribe(fn)
}

// Signal exposes the state as a reactive dependency.
func (s *Store) Signal() *reactive.Signal[State] {
	return s.state
}

// Start subscribes to the provider's auth state stream. ctx is used for the
// storage writes and token reads triggered by later events.
func (s *Store) Start(ctx context.Context) {
	s.mu.Lock()
	if s.unsubscribe != nil {
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()

	unsubscribe := s.provider.OnAuthStateChanged(func(user *identity.User) {
		s.onAuthStateChanged(ctx, user)
	})

	s.mu.Lock()
	s.unsubscribe = unsubscribe
	s.mu.Unlock()
}

// Close tears the provider subscription down.
func (s *Store) Close() {
	s.mu.Lock()
	unsubscribe := s.unsubscribe
	s.unsubscribe = nil
	s.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
}

func (s *Store) onAuthStateChanged(ctx context.Context, user *identity.User) {
	if user == nil {
		s.state.Set(State{})
		s.deleteToken(ctx)
		return
	}

	token, err := s.provider.IDToken(ctx, false)
	if err != nil {
		log.Warnf("session: read id token: %s", err)
		token = user.IDToken
	}

	s.state.Set(State{User: user, Token: token})
	s.writeToken(ctx, token)
}

func (s *Store) SignIn(ctx context.Context, email, password string) error {
	user, err := s.provider.SignInWithPassword(ctx, email, password)
	if err != nil {
		return newAuthError("sign in", err)
	}
	s.signedIn(ctx, user)
	return nil
}

func (s *Store) SignUp(ctx context.Context, email, password string) error {
	user, err := s.provider.SignUp(ctx, email, password)
	if err != nil {
		return newAuthError("sign up", err)
	}
	s.signedIn(ctx, user)
	return nil
}

func (s *Store) SignInWithGoogle(ctx context.Context) error {
	user, err := s.provider.SignInWithGoogle(ctx)
	if err != nil {
		return newAuthError("google sign in", err)
	}
	s.signedIn(ctx, user)
	return nil
}

func (s *Store) SignOut(ctx context.Context) error {
	if err := s.provider.SignOut(ctx); err != nil {
		return newAuthError("sign out", err)
	}
	s.state.Set(State{})
	s.deleteToken(ctx)
	return nil
}

// RefreshToken forces a new token from the current user. It returns "" when nobody is signed in.
func (s *Store) RefreshToken(ctx context.Context) (string, error) {
	user := s.provider.CurrentUser()
	if user == nil {
		return "", nil
	}

	token, err := s.provider.IDToken(ctx, true)
	if err != nil {
		if errors.Is(err, identity.ErrNoUser) {
			return "", nil
		}
		return "", newAuthError("refresh token", err)
	}

	s.state.Update(func(st State) State {
		st.Token = token
		if st.User == nil {
			st.User = user
		}
		st.Loading = false
		return st
	})
	s.writeToken(ctx, token)
	return token, nil
}

func (s *Store) signedIn(ctx context.Context, user *identity.User) {
	s.state.Set(State{User: user, Token: user.IDToken})
	s.writeToken(ctx, user.IDToken)
}

func (s *Store) writeToken(ctx context.Context, token string) {
	if token == "" {
		return
	}
	if err := s.storage.Set(ctx, tokenstore.TokenKey, token); err != nil {
		log.Errorf("session: persist token: %s", err)
	}
}

func (s *Store) deleteToken(ctx context.Context) {
	if err := s.storage.Delete(ctx, tokenstore.TokenKey); err != nil {
		log.Errorf("session: delete token: %s", err)
	}
}
