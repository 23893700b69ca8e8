package tokenstore

import (
	"context"
	"errors"
)

const (
	// TokenKey holds the current bearer (ID) token.
	TokenKey = "firebase_token"
	// RefreshTokenKey holds the identity provider refresh token used to restore a session.
	RefreshTokenKey = "firebase_refresh_token"
)

var ErrNotFound = errors.New("key not found")

// Store is a durable string key/value store that survives restarts.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}
