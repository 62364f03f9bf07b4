package config

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/nexus/jobboard/internal/config"
)

var dbCounter int64

// Option adjusts a test configuration
type Option func(*config.Config)

// New returns a configuration for in-process tests: an isolated in-memory
// SQLite database, the given Redis address, console email and debug mode so
// verification tokens are echoed back.
func New(t *testing.T, redisAddr string, opts ...Option) *config.Config {
	t.Helper()

	cfg := &config.Config{
		Port:     "0",
		GinMode:  "test",
		Debug:    true,
		LogLevel: "warn",

		DBDriver: "sqlite",
		DSN:      fmt.Sprintf("file:e2e_%d?mode=memory&cache=shared", atomic.AddInt64(&dbCounter, 1)),

		RedisAddr: redisAddr,

		JWTSecret:  "test-secret-for-e2e-only",
		JWTIssuer:  "jobboard-test",
		AccessTTL:  15 * time.Minute,
		RefreshTTL: time.Hour,

		OTP_TTL:          10 * time.Minute,
		OTP_Length:       6,
		OTP_MaxAttempts:  5,
		OTP_ResendWindow: time.Minute,
		EmailTokenTTL:    24 * time.Hour,

		EmailTransport:   "console",
		EmailFrom:        "noreply@nexusjobboard.com",
		DefaultFromEmail: "inbox@nexusjobboard.com",
		EmailSendTimeout: 5 * time.Second,

		QueueWorkers: 1,
		QueueBuffer:  16,

		CacheEnabled: true,
		JobsCacheTTL: time.Minute,
		ListCacheTTL: time.Minute,

		MediaRoot:      t.TempDir(),
		MaxResumeBytes: 1 << 20,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("invalid test configuration: %v", err)
	}
	return cfg
}

// WithRateLimit turns on throttling with the given daily allowances
func WithRateLimit(userPerDay, anonPerDay int) Option {
	return func(c *config.Config) {
		c.RateLimitEnabled = true
		c.UserPerDay = userPerDay
		c.AnonPerDay = anonPerDay
	}
}

// WithoutCache disables the list cache
func WithoutCache() Option {
	return func(c *config.Config) { c.CacheEnabled = false }
}
