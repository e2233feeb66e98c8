package ratelimit

import (
	"context"
	"time"

	"github.com/visheshc14/career-counselor-chat/internal/pkg/logger"

	"github.com/redis/go-redis/v9"
)

// RedisAdmitter shares the fixed window across server instances through a
// counter with a TTL. On Redis failure it fails open: dropping a
// legitimate send is worse than letting one extra through.
type RedisAdmitter struct {
	client *redis.Client
	limit  int
	window time.Duration
	logger logger.ILogger
}

func NewRedisAdmitter(client *redis.Client, limit int, window time.Duration, log logger.ILogger) *RedisAdmitter {
	return &RedisAdmitter{
		client: client,
		limit:  limit,
		window: window,
		logger: log,
	}
}

func (a *RedisAdmitter) Admit(key string) bool {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	n, err := a.client.Incr(ctx, "ratelimit:"+key).Result()
	if err != nil {
		if a.logger != nil {
			a.logger.Warn("ratelimit", "redis admit failed, admitting", map[string]interface{}{"error": err.Error()})
		}
		return true
	}
	if n == 1 {
		a.client.Expire(ctx, "ratelimit:"+key, a.window)
	}
	return n <= int64(a.limit)
}
