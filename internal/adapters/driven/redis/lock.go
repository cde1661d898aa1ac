package redis

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/custodia-labs/ai2aim-core/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.DistributedLock = (*Lock)(nil)

const lockPrefix = "ai2aim:lock:"

// Lock implements DistributedLock using SET NX with a TTL.
// Each instance has an owner ID so it never releases another instance's lock.
type Lock struct {
	client  *redis.Client
	ownerID string
}

// NewLock creates a Redis-backed distributed lock with a generated owner ID.
func NewLock(client *redis.Client) *Lock {
	return &Lock{
		client:  client,
		ownerID: newOwnerID(),
	}
}

// newOwnerID returns hostname:pid:random.
func newOwnerID() string {
	hostname, _ := os.Hostname()
	b := make([]byte, 8)
	_, _ = rand.Read(b)
	return fmt.Sprintf("%s:%d:%s", hostname, os.Getpid(), hex.EncodeToString(b))
}

// Acquire takes the lock if nobody holds it.
func (l *Lock) Acquire(ctx context.Context, name string, ttl time.Duration) (bool, error) {
	ok, err := l.client.SetNX(ctx, lockPrefix+name, l.ownerID, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("acquire lock %s: %w", name, err)
	}
	return ok, nil
}

// releaseScript deletes the key only while it still holds our owner ID.
var releaseScript = redis.NewScript(`
	if redis.call("get", KEYS[1]) == ARGV[1] then
		return redis.call("del", KEYS[1])
	end
	return 0
`)

// Release releases the lock if this instance holds it.
func (l *Lock) Release(ctx context.Context, name string) error {
	err := releaseScript.Run(ctx, l.client, []string{lockPrefix + name}, l.ownerID).Err()
	if err != nil && err != redis.Nil {
		return fmt.Errorf("release lock %s: %w", name, err)
	}
	return nil
}

// Ping checks if the Redis backend is healthy.
func (l *Lock) Ping(ctx context.Context) error {
	return l.client.Ping(ctx).Err()
}

// OwnerID returns the identifier this instance locks with.
func (l *Lock) OwnerID() string {
	return l.ownerID
}
