package cache

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis is a Store shared by every instance pointing at the same server.
// Each entry is a hash holding the value and its ttl, so a hit can re-arm
// the expiry without the caller knowing the window.
type Redis struct {
	rdb    *redis.Client
	prefix string
}

func NewRedis(rdb *redis.Client, prefix string) *Redis {
	return &Redis{rdb: rdb, prefix: prefix}
}

func (r *Redis) key(k string) string { return r.prefix + k }

func (r *Redis) Get(ctx context.Context, key string) ([]byte, bool, error) {
	k := r.key(key)
	vals, err := r.rdb.HMGet(ctx, k, "v", "ttl").Result()
	if err != nil {
		return nil, false, err
	}
	v, ok := vals[0].(string)
	if !ok {
		return nil, false, nil
	}
	if s, ok := vals[1].(string); ok {
		if ms, err := strconv.ParseInt(s, 10, 64); err == nil && ms > 0 {
			if err := r.rdb.PExpire(ctx, k, time.Duration(ms)*time.Millisecond).Err(); err != nil {
				return nil, false, err
			}
		}
	}
	return []byte(v), true, nil
}

func (r *Redis) Set(ctx context.Context, key string, val []byte, ttl time.Duration) error {
	k := r.key(key)
	pipe := r.rdb.TxPipeline()
	pipe.Del(ctx, k)
	pipe.HSet(ctx, k, "v", val, "ttl", ttl.Milliseconds())
	pipe.PExpire(ctx, k, ttl)
	_, err := pipe.Exec(ctx)
	return err
}

func (r *Redis) Delete(ctx context.Context, key string) error {
	return r.rdb.Del(ctx, r.key(key)).Err()
}
