package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	failureWindow = 10 * time.Minute
	maxFailures   = 5
)

// LoginThrottle counts consecutive failed login attempts per user name.
// Key format: login_fail:<user_name>, expiring after failureWindow.
type LoginThrottle struct {
	client *redis.Client
}

// NewLoginThrottle creates a LoginThrottle wrapping the given Redis client.
func NewLoginThrottle(client *redis.Client) *LoginThrottle {
	return &LoginThrottle{client: client}
}

// TooManyFailures reports whether the user has exceeded the failure budget
// within the current window.
func (t *LoginThrottle) TooManyFailures(ctx context.Context, userName string) (bool, error) {
	val, err := t.client.Get(ctx, t.key(userName)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("throttle check: %w", err)
	}

	n, err := strconv.Atoi(val)
	if err != nil {
		return false, fmt.Errorf("throttle check: %w", err)
	}
	return n >= maxFailures, nil
}

// RecordFailure increments the failure counter, starting the window on the
// first failure.
func (t *LoginThrottle) RecordFailure(ctx context.Context, userName string) error {
	key := t.key(userName)

	n, err := t.client.Incr(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("throttle record: %w", err)
	}
	if n == 1 {
		if err := t.client.Expire(ctx, key, failureWindow).Err(); err != nil {
			return fmt.Errorf("throttle expire: %w", err)
		}
	}
	return nil
}

// Reset clears the failure counter after a successful login.
func (t *LoginThrottle) Reset(ctx context.Context, userName string) error {
	return t.client.Del(ctx, t.key(userName)).Err()
}

func (t *LoginThrottle) key(userName string) string {
	return "login_fail:" + userName
}
