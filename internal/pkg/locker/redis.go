package locker

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Deletes the key only while it still holds our token.
const unlockScript = `if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
else
	return 0
end`

const (
	defaultRetryInterval = 50 * time.Millisecond
	unlockTimeout        = 5 * time.Second
)

// RedisLocker shares per-key locks between service instances using
// SET NX PX. A lock not released within ttl expires on its own.
type RedisLocker struct {
	client        redis.Cmdable
	prefix        string
	ttl           time.Duration
	retryInterval time.Duration
	newToken      func() string
}

type RedisOption func(*RedisLocker)

func WithRetryInterval(d time.Duration) RedisOption {
	return func(l *RedisLocker) {
		l.retryInterval = d
	}
}

func WithTokenGenerator(fn func() string) RedisOption {
	return func(l *RedisLocker) {
		l.newToken = fn
	}
}

func NewRedisLocker(client redis.Cmdable, ttl time.Duration, opts ...RedisOption) *RedisLocker {
	l := &RedisLocker{
		client:        client,
		prefix:        "lock:",
		ttl:           ttl,
		retryInterval: defaultRetryInterval,
		newToken:      uuid.NewString,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *RedisLocker) Lock(ctx context.Context, key string) (func(), error) {
	redisKey := l.prefix + key
	token := l.newToken()

	for {
		acquired, err := l.client.SetNX(ctx, redisKey, token, l.ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to acquire lock %s: %w", redisKey, err)
		}
		if acquired {
			break
		}

		timer := time.NewTimer(l.retryInterval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			l.unlock(redisKey, token)
		})
	}, nil
}

func (l *RedisLocker) unlock(redisKey, token string) {
	ctx, cancel := context.WithTimeout(context.Background(), unlockTimeout)
	defer cancel()

	released, err := l.client.Eval(ctx, unlockScript, []string{redisKey}, token).Int()
	if err != nil {
		slog.Error("Failed to release lock", "key", redisKey, "error", err)
		return
	}
	if released == 0 {
		slog.Warn("Lock expired before release", "key", redisKey, "ttl", l.ttl)
	}
}
