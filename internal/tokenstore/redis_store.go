package tokenstore

import (
	"context"
	"errors"

	"github.com/go-redis/redis/v8"
)

const DefaultRedisKeyPrefix = "goliath-client||"

// RedisStore keeps tokens in redis so several client processes can share one session.
type RedisStore struct {
	redisClient *redis.Client
	keyPrefix   string
}

func NewRedisStore(redisClient *redis.Client, keyPrefix string) *RedisStore {
	if keyPrefix == "" {
		keyPrefix = DefaultRedisKeyPrefix
	}
	return &RedisStore{
		redisClient: redisClient,
		keyPrefix:   keyPrefix,
	}
}

func (rs *RedisStore) Get(ctx context.Context, key string) (string, error) {
	cmd := rs.redisClient.Get(ctx, rs.keyPrefix+key)
	if err := cmd.Err(); err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrNotFound
		}
		return "", err
	}
	return cmd.Val(), nil
}

func (rs *RedisStore) Set(ctx context.Context, key, value string) error {
	return rs.redisClient.Set(ctx, rs.keyPrefix+key, value, 0).Err()
}

func (rs *RedisStore) Delete(ctx context.Context, key string) error {
	return rs.redisClient.Del(ctx, rs.keyPrefix+key).Err()
}
