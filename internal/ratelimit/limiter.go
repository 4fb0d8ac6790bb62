// Package ratelimit throttles abuse-prone endpoints with counters kept in Redis.
package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Purposes keep the counters of different endpoints apart
const (
	PurposeRegister  = "register"
	PurposeLogin     = "login"
	PurposeResetOTP  = "reset-otp"
	PurposeVerifyOTP = "verify-otp"
)

// Limiter counts requests per IP inside a fixed window and holds
// per-recipient cooldowns between emails
type Limiter struct {
	client        *redis.Client
	maxRequests   int
	window        time.Duration
	emailCooldown time.Duration
}

func NewLimiter(client *redis.Client, maxRequests int, window, emailCooldown time.Duration) *Limiter {
	return &Limiter{
		client:        client,
		maxRequests:   maxRequests,
		window:        window,
		emailCooldown: emailCooldown,
	}
}

// CheckIPRateLimitWithPurpose reports whether ip has used up its requests for purpose
func (l *Limiter) CheckIPRateLimitWithPurpose(ctx context.Context, ip, purpose string) (bool, error) {
	count, err := l.client.Get(ctx, ipKey(purpose, ip)).Int()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("failed to read rate limit counter: %w", err)
	}

	return count >= l.maxRequests, nil
}

// RecordIPRequestWithPurpose counts one request. The window starts at the first request.
func (l *Limiter) RecordIPRequestWithPurpose(ctx context.Context, ip, purpose string) error {
	key := ipKey(purpose, ip)

	count, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("failed to increment rate limit counter: %w", err)
	}

	if count == 1 {
		if err := l.client.Expire(ctx, key, l.window).Err(); err != nil {
			return fmt.Errorf("failed to set rate limit window: %w", err)
		}
	}

	return nil
}

// CheckEmailCooldown reports whether an email for purpose went to key too recently
func (l *Limiter) CheckEmailCooldown(ctx context.Context, purpose, key string) (bool, error) {
	n, err := l.client.Exists(ctx, cooldownKey(purpose, key)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to read email cooldown: %w", err)
	}
	return n > 0, nil
}

// SetEmailCooldown starts the cooldown for key
func (l *Limiter) SetEmailCooldown(ctx context.Context, purpose, key string) error {
	if err := l.client.Set(ctx, cooldownKey(purpose, key), 1, l.emailCooldown).Err(); err != nil {
		return fmt.Errorf("failed to set email cooldown: %w", err)
	}
	return nil
}

func ipKey(purpose, ip string) string {
	return fmt.Sprintf("ratelimit:%s:ip:%s", purpose, ip)
}

func cooldownKey(purpose, key string) string {
	return fmt.Sprintf("cooldown:%s:%s", purpose, key)
}
