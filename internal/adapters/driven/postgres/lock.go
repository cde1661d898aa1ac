package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"hash/fnv"
	"sync"
	"time"

	"github.com/custodia-labs/ai2aim-core/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.DistributedLock = (*AdvisoryLock)(nil)

// AdvisoryLock implements DistributedLock with PostgreSQL session advisory locks.
//
// Advisory locks belong to a connection, so each held lock pins one pooled
// connection until Release. The TTL is ignored: a lock lasts until it is
// released or its connection drops.
type AdvisoryLock struct {
	db *DB

	mu   sync.Mutex
	held map[string]*sql.Conn
}

// NewAdvisoryLock creates a new PostgreSQL advisory lock adapter.
func NewAdvisoryLock(db *DB) *AdvisoryLock {
	return &AdvisoryLock{db: db, held: make(map[string]*sql.Conn)}
}

// lockKey maps a lock name to the 64-bit key advisory locks take.
func lockKey(name string) int64 {
	h := fnv.New64a()
	h.Write([]byte("ai2aim:lock:" + name))
	return int64(h.Sum64())
}

// Acquire tries pg_try_advisory_lock without blocking.
func (l *AdvisoryLock) Acquire(ctx context.Context, name string, _ time.Duration) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.held[name]; ok {
		return false, nil
	}

	conn, err := l.db.Conn(ctx)
	if err != nil {
		return false, fmt.Errorf("acquire lock %s: %w", name, err)
	}

	var acquired bool
	if err := conn.QueryRowContext(ctx, "SELECT pg_try_advisory_lock($1)", lockKey(name)).Scan(&acquired); err != nil {
		conn.Close()
		return false, fmt.Errorf("acquire lock %s: %w", name, err)
	}
	if !acquired {
		conn.Close()
		return false, nil
	}

	l.held[name] = conn
	return true, nil
}

// Release unlocks on the connection that took the lock and returns it to the pool.
func (l *AdvisoryLock) Release(ctx context.Context, name string) error {
	l.mu.Lock()
	conn, ok := l.held[name]
	delete(l.held, name)
	l.mu.Unlock()
	if !ok {
		return nil
	}
	defer conn.Close()

	var released bool
	if err := conn.QueryRowContext(ctx, "SELECT pg_advisory_unlock($1)", lockKey(name)).Scan(&released); err != nil {
		return fmt.Errorf("release lock %s: %w", name, err)
	}
	return nil
}

// Ping checks if the PostgreSQL backend is healthy.
func (l *AdvisoryLock) Ping(ctx context.Context) error {
	return l.db.PingContext(ctx)
}
