package session

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis 每个会话一个 hash：session:<sid> → {current_user, user_identifier}
type Redis struct {
	rdb    redis.Cmdable
	prefix string
	ttl    time.Duration
}

func NewRedis(rdb redis.Cmdable, ttl time.Duration) *Redis {
	return &Redis{rdb: rdb, prefix: "session:", ttl: ttl}
}

func (r *Redis) key(sid string) string { return r.prefix + sid }

func (r *Redis) Get(ctx context.Context, sid, key string) (string, bool, error) {
	v, err := r.rdb.HGet(ctx, r.key(sid), key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

func (r *Redis) Set(ctx context.Context, sid, key, value string) error {
	_, err := r.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.HSet(ctx, r.key(sid), key, value)
		if r.ttl > 0 {
			p.Expire(ctx, r.key(sid), r.ttl)
		}
		return nil
	})
	return err
}

func (r *Redis) Clear(ctx context.Context, sid string) error {
	return r.rdb.Del(ctx, r.key(sid)).Err()
}
