package driven

import (
	"context"
	"time"
)

// DistributedLock coordinates periodic work across backend instances,
// so only one of them sweeps expired OAuth states at a time.
type DistributedLock interface {
	// Acquire attempts to take a named lock for at most ttl.
	// Returns false without error if another instance holds it.
	Acquire(ctx context.Context, name string, ttl time.Duration) (acquired bool, err error)

	// Release gives the lock back. Releasing a lock that is not held is not an error.
	Release(ctx context.Context, name string) error

	// Ping checks if the lock backend is healthy.
	Ping(ctx context.Context) error
}
