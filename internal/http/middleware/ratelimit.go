package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

const (
	day            = 24 * time.Hour
	pruneThreshold = 10000
	idleAfter      = time.Hour
)

// RateLimitConfig sets the daily request allowance per client. Zero means unlimited.
type RateLimitConfig struct {
	UserPerDay int
	AnonPerDay int
}

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter throttles authenticated users by id and anonymous clients by IP
type RateLimiter struct {
	cfg     RateLimitConfig
	mu      sync.Mutex
	buckets map[string]*bucket
	now     func() time.Time
}

// NewRateLimiter creates a rate limiter. Each client's bucket holds its whole
// daily allowance and refills at allowance per day.
func NewRateLimiter(cfg RateLimitConfig) *RateLimiter {
	return &RateLimiter{cfg: cfg, buckets: make(map[string]*bucket), now: time.Now}
}

func perDay(n int) rate.Limit {
	if n <= 0 {
		return rate.Inf
	}
	return rate.Limit(float64(n) / day.Seconds())
}

func (rl *RateLimiter) allow(key string, perDayAllowance int) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	if len(rl.buckets) > pruneThreshold {
		for k, b := range rl.buckets {
			if now.Sub(b.lastSeen) > idleAfter {
				delete(rl.buckets, k)
			}
		}
	}

	b, ok := rl.buckets[key]
	if !ok {
		b = &bucket{limiter: rate.NewLimiter(perDay(perDayAllowance), max(perDayAllowance, 1))}
		rl.buckets[key] = b
	}
	b.lastSeen = now
	return b.limiter.AllowN(now, 1)
}

// Handler returns the throttling middleware. Mount it after WithJWT or
// OptionalJWT so requests carrying a token are keyed by user.
func (rl *RateLimiter) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		key, allowance := "anon:"+c.ClientIP(), rl.cfg.AnonPerDay
		if user := CurrentUser(c); user != nil {
			key, allowance = "user:"+strconv.FormatUint(uint64(user.ID), 10), rl.cfg.UserPerDay
		}
		if !rl.allow(key, allowance) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"detail": "Request was throttled."})
			return
		}
		c.Next()
	}
}
