package lock

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	lockTTL       = 10 * time.Second
	retryInterval = 25 * time.Millisecond
)

// RedisLocker is the cross-replica ShowLocker. Acquisition is SET NX with a
// TTL so a crashed holder cannot wedge a show forever; release checks the
// owner token before deleting so an expired holder cannot free someone
// else's lock.
type RedisLocker struct {
	client *redis.Client
}

func NewRedisLocker(client *redis.Client) *RedisLocker {
	return &RedisLocker{client: client}
}

func (l *RedisLocker) WithLock(ctx context.Context, key string, fn func() error) error {
	lockKey := "show_lock:" + key
	token := uuid.NewString()

	if err := l.acquire(ctx, lockKey, token); err != nil {
		return err
	}
	defer l.release(lockKey, token)

	return fn()
}

func (l *RedisLocker) acquire(ctx context.Context, lockKey, token string) error {
	for {
		ok, err := l.client.SetNX(ctx, lockKey, token, lockTTL).Result()
		if err != nil {
			return fmt.Errorf("acquire lock %s: %w", lockKey, err)
		}
		if ok {
			return nil
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("acquire lock %s: %w", lockKey, ctx.Err())
		case <-time.After(retryInterval):
		}
	}
}

// releaseScript deletes the lock only while the caller still owns it. The
// check and the delete run as one script, so a holder whose lock expired
// cannot delete the next owner's lock in between.
var releaseScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0
`)

func (l *RedisLocker) release(lockKey, token string) {
	// Detached context: the lock must be freed even when the request
	// context is already cancelled.
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	releaseScript.Run(ctx, l.client, []string{lockKey}, token)
}
