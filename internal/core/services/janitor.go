package services

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/custodia-labs/ai2aim-core/internal/core/ports/driven"
)

const janitorLockName = "oauth-state-cleanup"

// StateJanitor periodically removes expired OAuth states.
//
// Stores with native expiry (Redis, go-cache) make this mostly a no-op; the
// Postgres store relies on it. With several instances, configure a
// DistributedLock so only one of them sweeps per interval.
type StateJanitor struct {
	store    driven.OAuthStateStore
	lock     driven.DistributedLock
	logger   *slog.Logger
	interval time.Duration
	lockTTL  time.Duration

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// StateJanitorConfig holds configuration for the janitor.
type StateJanitorConfig struct {
	Store    driven.OAuthStateStore
	Lock     driven.DistributedLock // Optional
	Logger   *slog.Logger
	Interval time.Duration // Default: 5m
}

// NewStateJanitor creates a new janitor.
func NewStateJanitor(cfg StateJanitorConfig) *StateJanitor {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	interval := cfg.Interval
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &StateJanitor{
		store:    cfg.Store,
		lock:     cfg.Lock,
		logger:   logger,
		interval: interval,
		lockTTL:  interval,
	}
}

// Start begins the cleanup loop. It runs until Stop is called or ctx is cancelled.
func (j *StateJanitor) Start(ctx context.Context) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.running {
		return
	}
	j.running = true
	j.stopCh = make(chan struct{})
	j.doneCh = make(chan struct{})

	j.logger.Info("state janitor starting", "interval", j.interval)
	go j.run(ctx)
}

// Stop stops the loop and waits for it to exit.
func (j *StateJanitor) Stop() {
	j.mu.Lock()
	if !j.running {
		j.mu.Unlock()
		return
	}
	close(j.stopCh)
	done := j.doneCh
	j.running = false
	j.mu.Unlock()

	<-done
	j.logger.Info("state janitor stopped")
}

func (j *StateJanitor) run(ctx context.Context) {
	defer close(j.doneCh)

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-j.stopCh:
			return
		case <-ticker.C:
			j.Sweep(ctx)
		}
	}
}

// Sweep runs one cleanup pass. It returns false if the pass was skipped
// because another instance holds the lock or the lock backend failed.
func (j *StateJanitor) Sweep(ctx context.Context) bool {
	if j.lock != nil {
		acquired, err := j.lock.Acquire(ctx, janitorLockName, j.lockTTL)
		if err != nil {
			j.logger.Warn("failed to acquire janitor lock", "error", err)
			return false
		}
		if !acquired {
			j.logger.Debug("janitor lock held by another instance, skipping")
			return false
		}
		defer func() {
			if err := j.lock.Release(ctx, janitorLockName); err != nil {
				j.logger.Warn("failed to release janitor lock", "error", err)
			}
		}()
	}

	if err := j.store.Cleanup(ctx); err != nil {
		j.logger.Error("oauth state cleanup failed", "error", err)
		return false
	}
	return true
}
