// Package di provides dependency injection factories for creating application components.
package di

import (
	"github.com/redis/go-redis/v9"

	"shopgraph/internal/platform/config"
	"shopgraph/internal/shared/ratelimiter"
)

// NewLoginLimiter creates the login attempt limiter.
// It returns nil when LoginMaxAttempts is not positive, which disables throttling.
// If Redis is available, it returns a Redis-backed implementation shared across instances.
// Otherwise, it falls back to an in-process limiter.
func NewLoginLimiter(rdb *redis.Client, cfg config.Config) ratelimiter.AttemptLimiter {
	if cfg.LoginMaxAttempts <= 0 {
		return nil
	}
	if rdb != nil {
		return ratelimiter.NewRedisLimiter(rdb, cfg.LoginMaxAttempts, cfg.LoginWindow, "login")
	}
	return ratelimiter.NewMemoryLimiter(cfg.LoginMaxAttempts, cfg.LoginWindow)
}
