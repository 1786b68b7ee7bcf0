package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

// Cache is a read-through byte cache. A nil *Cache, or one without a client,
// loads straight from the source so services run without Redis.
type Cache struct {
	RDB *redis.Client
	sf  singleflight.Group
}

func New(addr, pass string, db int) *Cache {
	if addr == "" {
		return nil
	}
	return &Cache{
		RDB: redis.NewClient(&redis.Options{Addr: addr, Password: pass, DB: db}),
	}
}

func (c *Cache) enabled() bool { return c != nil && c.RDB != nil }

// loadTimeout bounds a shared load, which no single caller's context may cancel.
const loadTimeout = 30 * time.Second

func versionKey(key string) string { return "ver:" + key }

// setIfVersion stores the loaded value only while no Invalidate ran since the
// load started, so a listing read before a write is not cached after it.
var setIfVersion = redis.NewScript(`
if (redis.call("GET", KEYS[2]) or "") ~= ARGV[1] then
	return 0
end
if tonumber(ARGV[3]) > 0 then
	redis.call("SET", KEYS[1], ARGV[2], "PX", ARGV[3])
else
	redis.call("SET", KEYS[1], ARGV[2])
end
return 1
`)

func (c *Cache) GetOrLoad(ctx context.Context, key string, ttl time.Duration, load func(context.Context) ([]byte, error)) ([]byte, error) {
	if !c.enabled() {
		return load(ctx)
	}
	if b, err := c.RDB.Get(ctx, key).Bytes(); err == nil {
		return b, nil
	}
	// concurrent misses share one load
	ch := c.sf.DoChan(key, func() (any, error) {
		lctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), loadTimeout)
		defer cancel()
		// a missing version reads as ""; an unreadable one makes the guarded set skip
		ver, _ := c.RDB.Get(lctx, versionKey(key)).Result()
		b, err := load(lctx)
		if err != nil {
			return nil, err
		}
		_ = setIfVersion.Run(lctx, c.RDB, []string{key, versionKey(key)}, ver, b, ttl.Milliseconds()).Err()
		return b, nil
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-ch:
		if r.Err != nil {
			return nil, r.Err
		}
		return r.Val.([]byte), nil
	}
}

// Invalidate drops keys and bumps their versions so loads already in flight do
// not store what they read. A Redis failure only means entries live until their TTL.
func (c *Cache) Invalidate(ctx context.Context, keys ...string) error {
	if !c.enabled() || len(keys) == 0 {
		return nil
	}
	_, err := c.RDB.TxPipelined(ctx, func(p redis.Pipeliner) error {
		for _, k := range keys {
			p.Incr(ctx, versionKey(k))
		}
		p.Del(ctx, keys...)
		return nil
	})
	return err
}

func (c *Cache) Ping(ctx context.Context) error {
	if !c.enabled() {
		return nil
	}
	return c.RDB.Ping(ctx).Err()
}

func (c *Cache) Close() error {
	if !c.enabled() {
		return nil
	}
	return c.RDB.Close()
}
