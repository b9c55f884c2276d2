package cache

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"reviewhub/internal/config"
)

// Connect opens the Redis client used for confirmation codes and rate-limit
// counters and verifies the connection with a ping.
func Connect(cfg *config.Config) (*redis.Client, error) {
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	if cfg.RedisPassword != "" {
		opts.Password = cfg.RedisPassword
	}

	client := redis.NewClient(opts)
	if err := client.Ping(context.Background()).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return client, nil
}
