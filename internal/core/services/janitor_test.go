package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ai2aim-core/internal/core/domain"
	"github.com/custodia-labs/ai2aim-core/internal/core/ports/driven"
	"github.com/custodia-labs/ai2aim-core/internal/core/ports/driven/mocks"
)

func TestStateJanitor_Sweep(t *testing.T) {
	store := mocks.NewMockOAuthStateStore()
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, &driven.OAuthState{State: "old", Platform: domain.PlatformLinkedIn, ExpiresAt: time.Now().Add(-time.Minute)}))
	require.NoError(t, store.Save(ctx, &driven.OAuthState{State: "new", Platform: domain.PlatformLinkedIn, ExpiresAt: time.Now().Add(time.Minute)}))

	lock := mocks.NewMockDistributedLock()
	j := NewStateJanitor(StateJanitorConfig{Store: store, Lock: lock})

	assert.True(t, j.Sweep(ctx))
	assert.Equal(t, 1, store.Len())
	assert.Nil(t, store.Peek("old"))
	assert.Equal(t, 1, lock.Acquired)
	assert.False(t, lock.IsHeld(janitorLockName))
}

func TestStateJanitor_SkipsWhenLockHeld(t *testing.T) {
	store := mocks.NewMockOAuthStateStore()
	lock := mocks.NewMockDistributedLock()
	lock.Hold(janitorLockName, time.Minute)

	j := NewStateJanitor(StateJanitorConfig{Store: store, Lock: lock})
	assert.False(t, j.Sweep(context.Background()))

	lock.AcquireErr = assert.AnError
	assert.False(t, j.Sweep(context.Background()))
}

func TestStateJanitor_StartStop(t *testing.T) {
	j := NewStateJanitor(StateJanitorConfig{Store: mocks.NewMockOAuthStateStore(), Interval: 10 * time.Millisecond})
	j.Start(context.Background())
	j.Start(context.Background())
	time.Sleep(30 * time.Millisecond)
	j.Stop()
	j.Stop()
}
