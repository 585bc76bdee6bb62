package main

import (
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/isaacgyampoh/recipe-saver/internal/bootstrap"
)

// connectRedis wires up the Redis client for session commands.
//
//nolint:ireturn // returning redis.UniversalClient keeps sentinel support flexible.
func connectRedis(cmdCtx *commandContext) (redis.UniversalClient, error) {
	client, err := bootstrap.ConnectRedis(bootstrap.DatabaseConfig{
		RedisConfig: cmdCtx.Config.Redis,
		Logger:      cmdCtx.Logger,
	})
	if err != nil {
		return nil, fmt.Errorf("connect redis: %w", err)
	}
	return client, nil
}
