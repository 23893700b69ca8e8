package tokenstore

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-redis/redis/v8"
	"github.com/go-redis/redismock/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		// INFO: https://github.com/go-redis/redis/issues/1029
		goleak.IgnoreTopFunction(
			"github.com/go-redis/redis/v8/internal/pool.(*ConnPool).reaper",
		),
	)
}

func TestFileStore(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "goliath_storage.json")
	store := NewFileStore(path)

	_, err := store.Get(ctx, TokenKey)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.Set(ctx, TokenKey, "tok-1"))
	require.NoError(t, store.Set(ctx, RefreshTokenKey, "refresh-1"))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	// a second instance on the same path sees the persisted values
	other := NewFileStore(path)
	v, err := other.Get(ctx, TokenKey)
	require.NoError(t, err)
	assert.Equal(t, "tok-1", v)

	require.NoError(t, store.Set(ctx, TokenKey, "tok-2"))
	v, err = other.Get(ctx, TokenKey)
	require.NoError(t, err)
	assert.Equal(t, "tok-2", v)

	require.NoError(t, store.Delete(ctx, TokenKey))
	require.NoError(t, store.Delete(ctx, TokenKey))
	_, err = other.Get(ctx, TokenKey)
	assert.ErrorIs(t, err, ErrNotFound)

	v, err = other.Get(ctx, RefreshTokenKey)
	require.NoError(t, err)
	assert.Equal(t, "refresh-1", v)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files must not be left behind")
}

func TestFileStore_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "goliath_storage.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, err := NewFileStore(path).Get(context.Background(), TokenKey)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestRedisStore(t *testing.T) {
	ctx := context.Background()
	rdb, mock := redismock.NewClientMock()
	defer rdb.Close()

	store := NewRedisStore(rdb, "")
	key := DefaultRedisKeyPrefix + TokenKey

	mock.ExpectGet(key).RedisNil()
	_, err := store.Get(ctx, TokenKey)
	assert.ErrorIs(t, err, ErrNotFound)

	mock.ExpectSet(key, "tok-1", 0).SetVal("OK")
	require.NoError(t, store.Set(ctx, TokenKey, "tok-1"))

	mock.ExpectGet(key).SetVal("tok-1")
	v, err := store.Get(ctx, TokenKey)
	require.NoError(t, err)
	assert.Equal(t, "tok-1", v)

	mock.ExpectDel(key).SetVal(1)
	require.NoError(t, store.Delete(ctx, TokenKey))

	mock.ExpectGet(key).SetErr(errors.New("connection refused"))
	_, err = store.Get(ctx, TokenKey)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.False(t, errors.Is(err, redis.Nil))

	assert.NoError(t, mock.ExpectationsWereMet())
}
