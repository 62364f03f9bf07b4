package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nexus/jobboard/domain"
	"github.com/stretchr/testify/assert"
)

func limitedRouter(rl *RateLimiter, user *domain.User) *gin.Engine {
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if user != nil {
			c.Set(ContextUser, user)
		}
		c.Next()
	})
	r.Use(rl.Handler())
	r.GET("/jobs/", func(c *gin.Context) { c.Status(http.StatusOK) })
	return r
}

func fromIP(r *gin.Engine, ip string) int {
	req := httptest.NewRequest(http.MethodGet, "/jobs/", nil)
	req.RemoteAddr = ip + ":1234"
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w.Code
}

func TestRateLimiter_AnonymousByIP(t *testing.T) {
	rl := NewRateLimiter(RateLimitConfig{UserPerDay: 1000, AnonPerDay: 2})
	r := limitedRouter(rl, nil)

	assert.Equal(t, http.StatusOK, fromIP(r, "10.0.0.1"))
	assert.Equal(t, http.StatusOK, fromIP(r, "10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, fromIP(r, "10.0.0.1"))

	// other clients keep their own bucket
	assert.Equal(t, http.StatusOK, fromIP(r, "10.0.0.2"))
}

func TestRateLimiter_WholeDailyAllowanceAvailableAtOnce(t *testing.T) {
	now := time.Now()
	rl := NewRateLimiter(RateLimitConfig{UserPerDay: 1000, AnonPerDay: 100})
	rl.now = func() time.Time { return now }
	r := limitedRouter(rl, activeUser(1))

	allowed := 0
	for i := 0; i < 1001; i++ {
		if fromIP(r, "10.0.0.1") == http.StatusOK {
			allowed++
		}
	}
	assert.Equal(t, 1000, allowed)
}

func TestRateLimiter_Refills(t *testing.T) {
	now := time.Now()
	rl := NewRateLimiter(RateLimitConfig{AnonPerDay: 24})
	rl.now = func() time.Time { return now }
	r := limitedRouter(rl, nil)

	for i := 0; i < 24; i++ {
		assert.Equal(t, http.StatusOK, fromIP(r, "10.0.0.1"))
	}
	assert.Equal(t, http.StatusTooManyRequests, fromIP(r, "10.0.0.1"))

	// 24 per day is one per hour
	now = now.Add(time.Hour + time.Second)
	assert.Equal(t, http.StatusOK, fromIP(r, "10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, fromIP(r, "10.0.0.1"))
}

func TestRateLimiter_UsersKeyedByID(t *testing.T) {
	rl := NewRateLimiter(RateLimitConfig{UserPerDay: 1, AnonPerDay: 100})
	alice := limitedRouter(rl, activeUser(1))
	bob := limitedRouter(rl, activeUser(2))

	assert.Equal(t, http.StatusOK, fromIP(alice, "10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, fromIP(alice, "10.0.0.9"))
	assert.Equal(t, http.StatusOK, fromIP(bob, "10.0.0.1"))
}

func TestRateLimiter_ZeroMeansUnlimited(t *testing.T) {
	rl := NewRateLimiter(RateLimitConfig{})
	r := limitedRouter(rl, nil)
	for i := 0; i < 20; i++ {
		assert.Equal(t, http.StatusOK, fromIP(r, "10.0.0.1"))
	}
}

func TestRateLimiter_PrunesIdleBuckets(t *testing.T) {
	now := time.Now()
	rl := NewRateLimiter(RateLimitConfig{AnonPerDay: 100})
	rl.now = func() time.Time { return now }
	for i := 0; i <= pruneThreshold; i++ {
		rl.buckets[string(rune(i))+"stale"] = &bucket{lastSeen: now.Add(-2 * idleAfter)}
	}

	rl.allow("anon:fresh", 100)

	assert.Len(t, rl.buckets, 1)
}
