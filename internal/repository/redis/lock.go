package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"clubsphere/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	LockPrefix     = "clubsphere:lock"
	DefaultLockTTL = 10 * time.Second
)

var ErrRedisUnavailable = errors.New("redis unavailable")

// releaseScript deletes the key only while it still holds our token, so a lock that
// expired and was taken by someone else is left alone.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
  return redis.call("DEL", KEYS[1])
end
return 0
`)

type Locker struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewLocker(client *redis.Client, ttl time.Duration) *Locker {
	if ttl <= 0 {
		ttl = DefaultLockTTL
	}
	return &Locker{Client: client, TTL: ttl}
}

// Acquire takes key for the locker's TTL. It does not wait: a held key yields repository.ErrLocked.
func (l *Locker) Acquire(ctx context.Context, key string) (func(), error) {
	full := fmt.Sprintf("%s:%s", LockPrefix, key)
	token := uuid.NewString()

	ok, err := l.Client.SetNX(ctx, full, token, l.TTL).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	if !ok {
		return nil, repository.ErrLocked
	}

	release := func() {
		// The request context may already be cancelled when release runs.
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = releaseScript.Run(ctx, l.Client, []string{full}, token).Err()
	}
	return release, nil
}
