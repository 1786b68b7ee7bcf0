package cache

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	c := New(mr.Addr(), "", 0)
	t.Cleanup(func() { _ = c.Close() })
	return c, mr
}

func TestGetOrLoadCachesValue(t *testing.T) {
	c, mr := newRedisCache(t)
	ctx := context.Background()
	var calls int32
	load := func(context.Context) ([]byte, error) {
		atomic.AddInt32(&calls, 1)
		return []byte(`["A-01"]`), nil
	}

	for i := 0; i < 3; i++ {
		b, err := c.GetOrLoad(ctx, "slots:available", time.Minute, load)
		require.NoError(t, err)
		assert.Equal(t, `["A-01"]`, string(b))
	}
	assert.Equal(t, int32(1), calls)
	assert.True(t, mr.TTL("slots:available") > 0)

	require.NoError(t, c.Invalidate(ctx, "slots:available"))
	assert.False(t, mr.Exists("slots:available"))
	_, err := c.GetOrLoad(ctx, "slots:available", time.Minute, load)
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls)
}

func TestInvalidateDuringLoadIsNotOverwritten(t *testing.T) {
	c, mr := newRedisCache(t)
	ctx := context.Background()

	// the slot changes while the listing is being read
	b, err := c.GetOrLoad(ctx, "slots:available", time.Minute, func(ctx context.Context) ([]byte, error) {
		require.NoError(t, c.Invalidate(ctx, "slots:available"))
		return []byte("stale"), nil
	})
	require.NoError(t, err)
	assert.Equal(t, "stale", string(b))
	assert.False(t, mr.Exists("slots:available"))

	b, err = c.GetOrLoad(ctx, "slots:available", time.Minute, func(context.Context) ([]byte, error) {
		return []byte("fresh"), nil
	})
	require.NoError(t, err)
	assert.Equal(t, "fresh", string(b))
	got, err := mr.Get("slots:available")
	require.NoError(t, err)
	assert.Equal(t, "fresh", got)
}

func TestCancelledCallerDoesNotFailSharedLoad(t *testing.T) {
	c, _ := newRedisCache(t)
	started, release := make(chan struct{}), make(chan struct{})
	load := func(ctx context.Context) ([]byte, error) {
		close(started)
		select {
		case <-release:
			return []byte("ok"), nil
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	first, cancel := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := c.GetOrLoad(first, "k", time.Minute, load)
		firstErr <- err
	}()
	<-started

	second := make(chan []byte, 1)
	go func() {
		b, err := c.GetOrLoad(context.Background(), "k", time.Minute, func(context.Context) ([]byte, error) {
			return []byte("second load"), nil
		})
		assert.NoError(t, err)
		second <- b
	}()

	cancel()
	assert.ErrorIs(t, <-firstErr, context.Canceled)
	close(release)
	assert.Equal(t, "ok", string(<-second))
}

func TestRedisLockerExcludesAndReleases(t *testing.T) {
	c, mr := newRedisCache(t)
	l := NewLocker(c, time.Second).(*RedisLocker)
	l.Retry = 5 * time.Millisecond

	unlock, err := l.Lock(context.Background(), "slot:1")
	require.NoError(t, err)
	assert.True(t, mr.Exists("lock:slot:1"))

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	_, err = l.Lock(ctx, "slot:1")
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	unlock()
	assert.False(t, mr.Exists("lock:slot:1"))
	again, err := l.Lock(context.Background(), "slot:1")
	require.NoError(t, err)
	again()
}

func TestRedisLockerKeepsOthersLock(t *testing.T) {
	c, mr := newRedisCache(t)
	l := NewLocker(c, time.Second).(*RedisLocker)

	unlock, err := l.Lock(context.Background(), "slot:2")
	require.NoError(t, err)
	// lease ran out and someone else took the key
	require.NoError(t, mr.Set("lock:slot:2", "someone-else"))
	unlock()

	got, err := mr.Get("lock:slot:2")
	require.NoError(t, err)
	assert.Equal(t, "someone-else", got)
}
