// Package redis wires the go-redis client that backs the login
// throttle and the readiness probe.
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const pingTimeout = 5 * time.Second

// Config selects the Redis instance holding the login failure counters.
type Config struct {
	Addr    string
	DB      int
	Timeout time.Duration
}

// Connect opens a client against cfg.Addr and pings it so that a
// misconfigured address fails at startup rather than on the first
// throttled login. cfg.Timeout bounds the ping; zero means pingTimeout.
func Connect(ctx context.Context, cfg Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr: cfg.Addr,
		DB:   cfg.DB,
	})

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = pingTimeout
	}
	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return client, nil
}
