package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return client, mr
}

func TestRedisCache_GetSet(t *testing.T) {
	client, mr := setupTestRedis(t)
	c := NewRedisCache(client)
	ctx := context.Background()

	_, ok, err := c.Get(ctx, "jobs:list:anon:/jobs/")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, "jobs:list:anon:/jobs/", []byte(`[1]`), 30*time.Second))
	assert.True(t, mr.Exists(Namespace+"jobs:list:anon:/jobs/"))

	raw, ok, err := c.Get(ctx, "jobs:list:anon:/jobs/")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[1]`, string(raw))

	mr.FastForward(31 * time.Second)
	_, ok, err = c.Get(ctx, "jobs:list:anon:/jobs/")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisCache_DeletePrefix(t *testing.T) {
	client, mr := setupTestRedis(t)
	c := NewRedisCache(client)
	ctx := context.Background()

	for i := 0; i < 250; i++ {
		key := Key(PrefixApplicationsList, "user:1", fmt.Sprintf("/applications/?page=%d", i))
		require.NoError(t, c.Set(ctx, key, []byte("x"), time.Minute))
	}
	require.NoError(t, c.Set(ctx, Key(PrefixJobsList, "anon", "/jobs/"), []byte("x"), time.Minute))
	require.NoError(t, client.Set(ctx, "session:abc", "keep", 0).Err())

	require.NoError(t, c.DeletePrefix(ctx, PrefixApplicationsList))

	for _, k := range mr.Keys() {
		assert.NotContains(t, k, PrefixApplicationsList)
	}
	assert.True(t, mr.Exists(Namespace+Key(PrefixJobsList, "anon", "/jobs/")))
	assert.True(t, mr.Exists("session:abc"))
}

func TestRedisCache_Errors(t *testing.T) {
	client, mr := setupTestRedis(t)
	c := NewRedisCache(client)
	mr.Close()

	_, _, err := c.Get(context.Background(), "k")
	assert.Error(t, err)
	assert.Error(t, c.DeletePrefix(context.Background(), "k"))
}

func TestNoopCache(t *testing.T) {
	c := NewNoopCache()
	require.NoError(t, c.Set(context.Background(), "k", []byte("v"), time.Minute))
	_, ok, err := c.Get(context.Background(), "k")
	assert.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, c.DeletePrefix(context.Background(), "k"))
}

type item struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

func TestFetch_HitAndInvalidate(t *testing.T) {
	client, _ := setupTestRedis(t)
	logger, _ := test.NewNullLogger()
	rt := NewReadThrough(NewRedisCache(client), logger)
	ctx := context.Background()

	var loads int32
	load := func(context.Context) ([]item, error) {
		atomic.AddInt32(&loads, 1)
		return []item{{ID: 1, Name: "first"}}, nil
	}
	key := Key(PrefixNotificationsList, "user:7", "/notifications/")

	got, err := Fetch(ctx, rt, key, time.Minute, load)
	require.NoError(t, err)
	assert.Equal(t, []item{{ID: 1, Name: "first"}}, got)

	got, err = Fetch(ctx, rt, key, time.Minute, load)
	require.NoError(t, err)
	assert.Equal(t, "first", got[0].Name)
	assert.Equal(t, int32(1), atomic.LoadInt32(&loads))

	rt.Invalidate(ctx, EngineListPrefixes...)
	_, err = Fetch(ctx, rt, key, time.Minute, load)
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&loads))
}

func TestFetch_LoadErrorIsNotCached(t *testing.T) {
	client, mr := setupTestRedis(t)
	logger, _ := test.NewNullLogger()
	rt := NewReadThrough(NewRedisCache(client), logger)

	boom := errors.New("db down")
	_, err := Fetch(context.Background(), rt, "k", time.Minute, func(context.Context) ([]item, error) {
		return nil, boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, mr.Keys())
}

func TestFetch_CacheOutageFallsThrough(t *testing.T) {
	client, mr := setupTestRedis(t)
	logger, hook := test.NewNullLogger()
	rt := NewReadThrough(NewRedisCache(client), logger)
	mr.Close()

	got, err := Fetch(context.Background(), rt, "k", time.Minute, func(context.Context) (int, error) {
		return 42, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 42, got)
	assert.NotEmpty(t, hook.AllEntries())

	rt.Invalidate(context.Background(), PrefixJobsList)
}

func TestFetch_CollapsesConcurrentMisses(t *testing.T) {
	logger, _ := test.NewNullLogger()
	rt := NewReadThrough(NewNoopCache(), logger)

	var loads int32
	release := make(chan struct{})
	load := func(context.Context) (int, error) {
		atomic.AddInt32(&loads, 1)
		<-release
		return 1, nil
	}

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := Fetch(context.Background(), rt, "same", time.Minute, load)
			assert.NoError(t, err)
			assert.Equal(t, 1, v)
		}()
	}
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&loads))
}

func TestFetch_CancelledCallerDoesNotFailSharedLoad(t *testing.T) {
	client, mr := setupTestRedis(t)
	logger, _ := test.NewNullLogger()
	rt := NewReadThrough(NewRedisCache(client), logger)

	started := make(chan struct{})
	release := make(chan struct{})
	var loads int32
	load := func(ctx context.Context) (int, error) {
		if atomic.AddInt32(&loads, 1) == 1 {
			close(started)
		}
		select {
		case <-release:
			return 7, nil
		case <-ctx.Done():
			return 0, ctx.Err()
		}
	}

	ctxA, cancelA := context.WithCancel(context.Background())
	errA := make(chan error, 1)
	go func() {
		_, err := Fetch(ctxA, rt, "shared", time.Minute, load)
		errA <- err
	}()
	<-started

	type result struct {
		v   int
		err error
	}
	resB := make(chan result, 1)
	go func() {
		v, err := Fetch(context.Background(), rt, "shared", time.Minute, load)
		resB <- result{v, err}
	}()
	time.Sleep(50 * time.Millisecond)

	cancelA()
	assert.ErrorIs(t, <-errA, context.Canceled)

	close(release)
	b := <-resB
	require.NoError(t, b.err)
	assert.Equal(t, 7, b.v)
	assert.Equal(t, int32(1), atomic.LoadInt32(&loads))
	assert.True(t, mr.Exists(Namespace+"shared"), "value stored even though the first caller left")
}
