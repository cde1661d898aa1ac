package memory

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ai2aim-core/internal/core/domain"
	"github.com/custodia-labs/ai2aim-core/internal/core/ports/driven"
)

func TestOAuthStateStore_SingleUse(t *testing.T) {
	store := NewOAuthStateStore(10*time.Minute, time.Minute)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, &driven.OAuthState{
		State:        "s1",
		Platform:     domain.PlatformTwitter,
		UserID:       "u1",
		CodeVerifier: "verifier",
	}))

	got, err := store.GetAndDelete(ctx, "s1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "u1", got.UserID)
	assert.Equal(t, "verifier", got.CodeVerifier)
	assert.False(t, got.ExpiresAt.IsZero())

	got, err = store.GetAndDelete(ctx, "s1")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestOAuthStateStore_Expired(t *testing.T) {
	store := NewOAuthStateStore(10*time.Minute, time.Minute)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, &driven.OAuthState{
		State:     "short",
		Platform:  domain.PlatformLinkedIn,
		ExpiresAt: time.Now().Add(20 * time.Millisecond),
	}))
	time.Sleep(40 * time.Millisecond)

	got, err := store.GetAndDelete(ctx, "short")
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, store.Cleanup(ctx))
	assert.Equal(t, 0, store.Len())
}

func TestOAuthStateStore_ConcurrentRedeem(t *testing.T) {
	store := NewOAuthStateStore(10*time.Minute, time.Minute)
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, &driven.OAuthState{State: "race", Platform: domain.PlatformLinkedIn}))

	var wins int32
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if s, _ := store.GetAndDelete(ctx, "race"); s != nil {
				atomic.AddInt32(&wins, 1)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), wins)
}
