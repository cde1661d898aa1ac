package mocks

import (
	"context"
	"sync"
	"time"
)

// MockDistributedLock is an in-memory DistributedLock with TTL tracking.
type MockDistributedLock struct {
	mu    sync.Mutex
	locks map[string]time.Time

	// AcquireErr is returned by Acquire when set
	AcquireErr error

	// Acquired counts successful acquisitions
	Acquired int
}

// NewMockDistributedLock creates a new mock distributed lock.
func NewMockDistributedLock() *MockDistributedLock {
	return &MockDistributedLock{locks: make(map[string]time.Time)}
}

func (m *MockDistributedLock) Acquire(ctx context.Context, name string, ttl time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.AcquireErr != nil {
		return false, m.AcquireErr
	}
	if expiry, held := m.locks[name]; held && time.Now().Before(expiry) {
		return false, nil
	}
	m.locks[name] = time.Now().Add(ttl)
	m.Acquired++
	return true, nil
}

func (m *MockDistributedLock) Release(ctx context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.locks, name)
	return nil
}

func (m *MockDistributedLock) Ping(ctx context.Context) error {
	return nil
}

// Hold marks a lock as held by another instance.
func (m *MockDistributedLock) Hold(name string, ttl time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.locks[name] = time.Now().Add(ttl)
}

// IsHeld reports whether a lock is currently held.
func (m *MockDistributedLock) IsHeld(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	expiry, held := m.locks[name]
	return held && time.Now().Before(expiry)
}
