package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/fetchsocial/fetch-api/internal/core/domain"
)

const (
	defaultLoginWindow    = 15 * time.Minute
	defaultLoginAttempts  = 10
	defaultResendCooldown = time.Minute
)

// LoginLimiter throttles login attempts per email in a fixed window and
// enforces a cooldown between verification resends.
// Keys: login_attempts:<email>, verify_cooldown:<email>.
type LoginLimiter struct {
	client      *redis.Client
	window      time.Duration
	maxAttempts int
	cooldown    time.Duration
}

// NewLoginLimiter creates a limiter wrapping the given Redis client. Zero
// values fall back to the defaults.
func NewLoginLimiter(client *redis.Client, window time.Duration, maxAttempts int, cooldown time.Duration) *LoginLimiter {
	if window <= 0 {
		window = defaultLoginWindow
	}
	if maxAttempts <= 0 {
		maxAttempts = defaultLoginAttempts
	}
	if cooldown <= 0 {
		cooldown = defaultResendCooldown
	}
	return &LoginLimiter{client: client, window: window, maxAttempts: maxAttempts, cooldown: cooldown}
}

func (l *LoginLimiter) AllowLogin(ctx context.Context, email string) error {
	key := l.attemptKey(email)
	n, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("login limiter: %w", err)
	}
	if n == 1 {
		if err := l.client.Expire(ctx, key, l.window).Err(); err != nil {
			return fmt.Errorf("login limiter expire: %w", err)
		}
	}
	if n > int64(l.maxAttempts) {
		return domain.ErrTooManyAttempts
	}
	return nil
}

func (l *LoginLimiter) ResetLogin(ctx context.Context, email string) error {
	return l.client.Del(ctx, l.attemptKey(email)).Err()
}

func (l *LoginLimiter) AllowResend(ctx context.Context, email string) error {
	ok, err := l.client.SetNX(ctx, l.cooldownKey(email), "1", l.cooldown).Result()
	if err != nil {
		return fmt.Errorf("resend cooldown: %w", err)
	}
	if !ok {
		return domain.ErrTooManyAttempts
	}
	return nil
}

func (l *LoginLimiter) attemptKey(email string) string {
	return "login_attempts:" + email
}

func (l *LoginLimiter) cooldownKey(email string) string {
	return "verify_cooldown:" + email
}
