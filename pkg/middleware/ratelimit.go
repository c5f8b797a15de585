package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/troikatech/kisan-voicebot/pkg/errors"
	"github.com/troikatech/kisan-voicebot/pkg/session"
)

// Counter counts hits per key in a fixed window.
type Counter interface {
	Incr(ctx context.Context, key string, window time.Duration) (int64, error)
}

// RedisCounter shares counts across instances with INCR + EXPIRE.
type RedisCounter struct {
	client *redis.Client
}

func NewRedisCounter(client *redis.Client) *RedisCounter {
	return &RedisCounter{client: client}
}

func (r *RedisCounter) Incr(ctx context.Context, key string, window time.Duration) (int64, error) {
	count, err := r.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	if count == 1 {
		r.client.Expire(ctx, key, window)
	}
	return count, nil
}

// StoreCounter keeps counts in a session.Store, for deployments without Redis.
type StoreCounter struct {
	store session.Store
	now   func() time.Time
}

func NewStoreCounter(store session.Store) *StoreCounter {
	return &StoreCounter{store: store, now: time.Now}
}

type window struct {
	Count   int64     `json:"count"`
	ResetAt time.Time `json:"reset_at"`
}

func (s *StoreCounter) Incr(ctx context.Context, key string, win time.Duration) (int64, error) {
	var count int64
	err := s.store.Update(ctx, key, win, func(old []byte, ok bool) ([]byte, error) {
		now := s.now()
		w := window{ResetAt: now.Add(win)}
		if ok {
			var prev window
			if json.Unmarshal(old, &prev) == nil && now.Before(prev.ResetAt) {
				w = prev
			}
		}
		w.Count++
		count = w.Count
		return json.Marshal(w)
	})
	return count, err
}

// RateLimiter allows max requests per client IP in each window. Counter
// failures let the request through.
type RateLimiter struct {
	counter     Counter
	prefix      string
	maxRequests int
	window      time.Duration
	logger      *zap.Logger
}

func NewRateLimiter(counter Counter, maxRequestsPerMinute int, logger *zap.Logger) *RateLimiter {
	return &RateLimiter{
		counter:     counter,
		prefix:      "ratelimit",
		maxRequests: maxRequestsPerMinute,
		window:      time.Minute,
		logger:      logger,
	}
}

// NewKeyIssueLimiter is the stricter hourly limit on minting API keys.
func NewKeyIssueLimiter(counter Counter, maxPerHour int, logger *zap.Logger) *RateLimiter {
	return &RateLimiter{
		counter:     counter,
		prefix:      "keyissue_ratelimit",
		maxRequests: maxPerHour,
		window:      time.Hour,
		logger:      logger,
	}
}

func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if rl.maxRequests <= 0 {
			c.Next()
			return
		}

		key := fmt.Sprintf("%s:%s", rl.prefix, c.ClientIP())
		count, err := rl.counter.Incr(c.Request.Context(), key, rl.window)
		if err != nil {
			rl.logger.Warn("Rate limit check failed, allowing request", zap.Error(err))
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(rl.maxRequests))
		if count > int64(rl.maxRequests) {
			c.Header("X-RateLimit-Remaining", "0")
			c.Header("Retry-After", strconv.Itoa(int(rl.window.Seconds())))
			errors.TooManyRequests(c, "rate limit exceeded")
			return
		}

		c.Header("X-RateLimit-Remaining", strconv.Itoa(rl.maxRequests-int(count)))
		c.Next()
	}
}
