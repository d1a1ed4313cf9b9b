package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const lockPrefix = "lock:"

// unlockScript deletes the lock only while it still holds our token
var unlockScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Locker is a SET NX PX mutex keyed by string, shared between bot and API processes
type Locker struct {
	client *Client
	ttl    time.Duration
	retry  time.Duration
}

// NewLocker creates a lock whose keys expire after ttl if never released
func NewLocker(client *Client, ttl time.Duration) *Locker {
	return &Locker{client: client, ttl: ttl, retry: 25 * time.Millisecond}
}

// Lock blocks until key is acquired or ctx is done. The returned func releases it.
func (l *Locker) Lock(ctx context.Context, key string) (func(), error) {
	fullKey := lockPrefix + key
	token := uuid.NewString()

	for {
		ok, err := l.client.rdb.SetNX(ctx, fullKey, token, l.ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to acquire lock %s: %w", key, err)
		}
		if ok {
			break
		}

		timer := time.NewTimer(l.retry)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, fmt.Errorf("failed to acquire lock %s: %w", key, ctx.Err())
		case <-timer.C:
		}
	}

	return func() {
		// the caller's ctx may already be cancelled
		releaseCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		if err := unlockScript.Run(releaseCtx, l.client.rdb, []string{fullKey}, token).Err(); err != nil && !errors.Is(err, redis.Nil) {
			log.Warn().Err(err).Str("key", key).Msg("Failed to release lock")
		}
	}, nil
}
