package redis

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	throttleWindow = 15 * time.Minute
	throttleLimit  = 5
)

// LoginThrottle counts failed login attempts per identifier in Redis.
// Key format: login_fail:<lowercased identifier>, expiring after the window.
// Callers treat errors as "not throttled" so a degraded Redis only disables
// the limiter, never logins.
type LoginThrottle struct {
	client *redis.Client
}

// NewLoginThrottle creates a LoginThrottle wrapping the given Redis client.
func NewLoginThrottle(client *redis.Client) *LoginThrottle {
	return &LoginThrottle{client: client}
}

// TooManyFailures reports whether the identifier has reached the failure limit.
func (t *LoginThrottle) TooManyFailures(ctx context.Context, identifier string) (bool, error) {
	n, err := t.client.Get(ctx, t.key(identifier)).Int64()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("throttle check: %w", err)
	}
	return n >= throttleLimit, nil
}

// RecordFailure increments the failure counter. The window restarts on the
// first failure only; later failures ride the existing expiry.
func (t *LoginThrottle) RecordFailure(ctx context.Context, identifier string) error {
	key := t.key(identifier)
	n, err := t.client.Incr(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("throttle incr: %w", err)
	}
	if n == 1 {
		if err := t.client.Expire(ctx, key, throttleWindow).Err(); err != nil {
			return fmt.Errorf("throttle expire: %w", err)
		}
	}
	return nil
}

// Clear drops the counter after a successful login.
func (t *LoginThrottle) Clear(ctx context.Context, identifier string) error {
	return t.client.Del(ctx, t.key(identifier)).Err()
}

func (t *LoginThrottle) key(identifier string) string {
	return "login_fail:" + strings.ToLower(identifier)
}
