package ratelimit

import (
	"context"
	"time"

	"payment-sync/core/utils"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps the shared State in a Redis hash.
type RedisStore struct {
	rdb *redis.Client
	key string
	ttl time.Duration
}

// NewRedisClient creates a client from the governor configuration.
func NewRedisClient(cfg Config) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
}

// NewRedisStore creates a store writing to key.
func NewRedisStore(rdb *redis.Client, key string) *RedisStore {
	return &RedisStore{rdb: rdb, key: key, ttl: 10 * time.Minute}
}

// Load implements StateStore.
func (s *RedisStore) Load(ctx context.Context) (State, bool, error) {
	vals, err := s.rdb.HGetAll(ctx, s.key).Result()
	if err != nil {
		return State{}, false, err
	}
	if len(vals) == 0 {
		return State{}, false, nil
	}

	st := State{
		Remaining:    utils.ToInt(vals["remaining"]),
		Limit:        utils.ToInt(vals["limit"]),
		ResetSeconds: utils.ToInt(vals["reset_seconds"]),
	}
	if ms := vals["last_updated_ms"]; ms != "" {
		st.LastUpdated = time.UnixMilli(int64(utils.ToInt(ms)))
	}
	return st, true, nil
}

// Save implements StateStore.
func (s *RedisStore) Save(ctx context.Context, st State) error {
	pipe := s.rdb.TxPipeline()
	pipe.HSet(ctx, s.key,
		"remaining", st.Remaining,
		"limit", st.Limit,
		"reset_seconds", st.ResetSeconds,
		"last_updated_ms", st.LastUpdated.UnixMilli(),
	)
	pipe.Expire(ctx, s.key, s.ttl)
	_, err := pipe.Exec(ctx)
	return err
}
