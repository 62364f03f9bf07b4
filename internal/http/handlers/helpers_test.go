package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/nexus/jobboard/domain"
	"github.com/nexus/jobboard/internal/http/middleware"
	"github.com/nexus/jobboard/internal/infrastructure/cache"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var (
	alice = &domain.User{ID: 1, Email: "alice@example.com", FirstName: "Alice", Role: domain.RoleUser, IsActive: true, IsVerified: true}
	bob   = &domain.User{ID: 2, Email: "bob@example.com", FirstName: "Bob", Role: domain.RoleUser, IsActive: true, IsVerified: true}
)

// newRouter returns an engine whose requests run as user (nil for anonymous).
func newRouter(user *domain.User) *gin.Engine {
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if user != nil {
			c.Set(middleware.ContextUser, user)
		}
		c.Next()
	})
	return r
}

func newListCache(t *testing.T) (ListCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	log, _ := test.NewNullLogger()
	return ListCache{
		RT:      cache.NewReadThrough(cache.NewRedisCache(client), log),
		JobsTTL: 30 * time.Second,
		ListTTL: 15 * time.Second,
	}, mr
}

func noCache() ListCache {
	log, _ := test.NewNullLogger()
	return ListCache{RT: cache.NewReadThrough(cache.NewNoopCache(), log)}
}

func doJSON(r http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, _ := json.Marshal(b)
		reader = bytes.NewBuffer(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func data(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	body := decode(t, w)
	d, ok := body["data"].(map[string]interface{})
	require.True(t, ok, "expected object data, got %s", w.Body.String())
	return d
}

func dataList(t *testing.T, w *httptest.ResponseRecorder) []interface{} {
	t.Helper()
	body := decode(t, w)
	d, ok := body["data"].([]interface{})
	require.True(t, ok, "expected list data, got %s", w.Body.String())
	return d
}
