package identity

import (
	"context"
	"errors"
	"time"
)

var ErrNoUser = errors.New("no signed in user")

// User is the identity provider's view of the signed-in account.
type User struct {
	UID          string
	Email        string
	DisplayName  string
	ProviderID   string
	IDToken      string
	RefreshToken string
	ExpiresAt    time.Time
}

// Provider issues and refreshes bearer tokens and pushes auth state changes.
type Provider interface {
	SignInWithPassword(ctx context.Context, email, password string) (*User, error)
	SignUp(ctx context.Context, email, password string) (*User, error)
	SignInWithGoogle(ctx context.Context) (*User, error)
	SignOut(ctx context.Context) error
	// IDToken returns the current user's ID token, refreshing it when forceRefresh
	// is set or the cached one is about to expire.
	IDToken(ctx context.Context, forceRefresh bool) (string, error)
	CurrentUser() *User
	// OnAuthStateChanged calls fn with the current user (nil when signed out) on sign in,
	// sign out and every token refresh.
	OnAuthStateChanged(fn func(*User)) (unsubscribe func())
}
