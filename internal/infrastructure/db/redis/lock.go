package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/cafeteria/portal-system/internal/core/ports"
)

const lockTTL = 30 * time.Second

var _ ports.Locker = (*Locker)(nil)

// releaseScript deletes the key only while it still holds our token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Locker provides short-lived cross-process locks backed by SET NX.
// Key format: lock:<name>
type Locker struct {
	client redis.UniversalClient
	ttl    time.Duration
}

// NewLocker creates a Locker wrapping the given Redis client.
func NewLocker(client redis.UniversalClient) *Locker {
	return &Locker{client: client, ttl: lockTTL}
}

// TryLock acquires name without waiting. ok is false when someone else holds it.
func (l *Locker) TryLock(ctx context.Context, name string) (func(), bool, error) {
	token := uuid.NewString()
	key := l.key(name)

	ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
	if err != nil {
		return nil, false, fmt.Errorf("lock %s: %w", name, err)
	}
	if !ok {
		return nil, false, nil
	}

	release := func() {
		// The caller's context may already be done; release on a fresh one.
		ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
		defer cancel()
		_ = releaseScript.Run(ctx, l.client, []string{key}, token).Err()
	}
	return release, true, nil
}

func (l *Locker) key(name string) string {
	return "lock:" + name
}
