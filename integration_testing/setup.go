package integration_testing

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
)

func redisSetup(pool *dockertest.Pool) (string, func(), error) {
	redisResource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "redis",
		Name:       "goliath-redis",
		Tag:        "6.2",
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{
			Name: "no",
		}
	})
	if err != nil {
		return "", nil, fmt.Errorf("run redis: %s", err)
	}

	port := redisResource.GetPort("6379/tcp")
	if err := pool.Retry(func() error {
		return pingRedis(port)
	}); err != nil {
		_ = redisResource.Close()
		return "", nil, fmt.Errorf("wait for redis: %s", err)
	}

	return port, func() {
		_ = redisResource.Close()
	}, nil
}

func pingRedis(port string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	rdb := redis.NewClient(&redis.Options{Addr: net.JoinHostPort("localhost", port)})
	defer rdb.Close()
	return rdb.Ping(ctx).Err()
}
