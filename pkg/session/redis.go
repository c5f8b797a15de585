package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/troikatech/kisan-voicebot/pkg/otel"
)

const maxUpdateRetries = 5

// RedisStore shares sessions between worker processes.
type RedisStore struct {
	client     *redis.Client
	prefix     string
	defaultTTL time.Duration
}

func NewRedisStore(client *redis.Client, prefix string, defaultTTL time.Duration) *RedisStore {
	if defaultTTL <= 0 {
		defaultTTL = DefaultTTL
	}
	return &RedisStore{client: client, prefix: prefix, defaultTTL: defaultTTL}
}

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var (
		val []byte
		ok  bool
	)
	err := otel.WithStoreSpan(ctx, "redis", "get", key, func(ctx context.Context) error {
		b, err := s.client.Get(ctx, s.prefix+key).Bytes()
		if errors.Is(err, redis.Nil) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("redis get %s: %w", key, err)
		}
		val, ok = b, true
		return nil
	})
	return val, ok, err
}

func (s *RedisStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return otel.WithStoreSpan(ctx, "redis", "set", key, func(ctx context.Context) error {
		if err := s.client.Set(ctx, s.prefix+key, value, s.ttl(ttl)).Err(); err != nil {
			return fmt.Errorf("redis set %s: %w", key, err)
		}
		return nil
	})
}

// Update uses optimistic locking (WATCH/MULTI) and retries when another
// writer touched the key between read and write.
func (s *RedisStore) Update(ctx context.Context, key string, ttl time.Duration, fn UpdateFunc) error {
	k := s.prefix + key
	txf := func(tx *redis.Tx) error {
		old, err := tx.Get(ctx, k).Bytes()
		ok := true
		if errors.Is(err, redis.Nil) {
			old, ok = nil, false
		} else if err != nil {
			return err
		}

		next, err := fn(old, ok)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, k, next, s.ttl(ttl))
			return nil
		})
		return err
	}

	return otel.WithStoreSpan(ctx, "redis", "update", key, func(ctx context.Context) error {
		for i := 0; i < maxUpdateRetries; i++ {
			err := s.client.Watch(ctx, txf, k)
			if err == nil {
				return nil
			}
			if errors.Is(err, redis.TxFailedErr) {
				continue
			}
			return fmt.Errorf("redis update %s: %w", key, err)
		}
		return ErrConflict
	})
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

func (s *RedisStore) ttl(ttl time.Duration) time.Duration {
	if ttl <= 0 {
		return s.defaultTTL
	}
	return ttl
}
