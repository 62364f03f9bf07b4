package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/nexus/jobboard/domain"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
)

// List cache prefixes
const (
	PrefixJobsList          = "jobs:list:"
	PrefixApplicationsList  = "applications:list:"
	PrefixApplicationsMy    = "applications:my:"
	PrefixNotificationsList = "notifications:list:"
)

// EngineListPrefixes are the listings affected by application and notification writes.
var EngineListPrefixes = []string{PrefixApplicationsList, PrefixApplicationsMy, PrefixNotificationsList}

// Key builds a list cache key: prefix, viewer discriminator, request URI.
func Key(prefix, discriminator, requestURI string) string {
	return prefix + discriminator + ":" + requestURI
}

// ReadThrough serves JSON-encoded values from a cache, loading and storing on miss.
// Cache failures are logged and never returned.
type ReadThrough struct {
	cache domain.Cache
	log   logrus.FieldLogger
	group singleflight.Group
}

// NewReadThrough wraps cache
func NewReadThrough(cache domain.Cache, log logrus.FieldLogger) *ReadThrough {
	return &ReadThrough{cache: cache, log: log}
}

// Fetch returns the cached value for key when present, else the result of load,
// which is stored for ttl. Concurrent misses for one key share a single load.
func Fetch[T any](ctx context.Context, rt *ReadThrough, key string, ttl time.Duration, load func(context.Context) (T, error)) (T, error) {
	var zero T

	if raw, ok, err := rt.cache.Get(ctx, key); err != nil {
		rt.log.WithError(err).WithField("key", key).Warn("cache get failed")
	} else if ok {
		var v T
		if err := json.Unmarshal(raw, &v); err == nil {
			return v, nil
		}
		rt.log.WithField("key", key).Warn("discarding undecodable cache entry")
	}

	// the shared load outlives any single caller; each caller still honors its own ctx
	shared := context.WithoutCancel(ctx)
	ch := rt.group.DoChan(key, func() (interface{}, error) {
		v, err := load(shared)
		if err != nil {
			return nil, err
		}
		if raw, err := json.Marshal(v); err != nil {
			rt.log.WithError(err).WithField("key", key).Warn("cache encode failed")
		} else if err := rt.cache.Set(shared, key, raw, ttl); err != nil {
			rt.log.WithError(err).WithField("key", key).Warn("cache set failed")
		}
		return v, nil
	})

	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return zero, res.Err
		}
		return res.Val.(T), nil
	}
}

// Invalidate drops every key under the given prefixes.
func (rt *ReadThrough) Invalidate(ctx context.Context, prefixes ...string) {
	for _, p := range prefixes {
		if err := rt.cache.DeletePrefix(ctx, p); err != nil {
			rt.log.WithError(err).WithField("prefix", p).Warn("cache invalidation failed")
		}
	}
}
