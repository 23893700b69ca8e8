package session

import (
	"context"
	"errors"
	"time"

	"github.com/c7d5a6/goliath/internal/identity"
	"github.com/c7d5a6/goliath/internal/tokenstore"

	log "github.com/sirupsen/logrus"
)

// StorageTokenSource reads the bearer token from durable storage on every call,
// so requests made before the session store has caught up still authenticate.
type StorageTokenSource struct {
	storage tokenstore.Store
	now     func() time.Time
}

func NewStorageTokenSource(storage tokenstore.Store) *StorageTokenSource {
	return &StorageTokenSource{
		storage: storage,
		now:     time.Now,
	}
}

func (ts *StorageTokenSource) Token(ctx context.Context) (string, error) {
	token, err := ts.storage.Get(ctx, tokenstore.TokenKey)
	if err != nil {
		if errors.Is(err, tokenstore.ErrNotFound) {
			return "", nil
		}
		return "", err
	}

	if identity.TokenExpired(token, ts.now()) {
		log.Debugln("session: stored token expired, sending request without it")
		return "", nil
	}
	return token, nil
}
