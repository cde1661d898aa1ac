// Package memory provides process-local stores for single-instance deployments and tests.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/custodia-labs/ai2aim-core/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.OAuthStateStore = (*OAuthStateStore)(nil)

const stateKeyPrefix = "oauth_state:"

// OAuthStateStore keeps pending OAuth states in a go-cache with per-item expiry.
type OAuthStateStore struct {
	// mu makes Get+Delete a single step; go-cache only locks each call.
	mu    sync.Mutex
	cache *cache.Cache
	ttl   time.Duration
}

// NewOAuthStateStore creates a store whose entries expire after ttl.
// The cache sweeps expired entries every cleanupInterval.
func NewOAuthStateStore(ttl, cleanupInterval time.Duration) *OAuthStateStore {
	return &OAuthStateStore{
		cache: cache.New(ttl, cleanupInterval),
		ttl:   ttl,
	}
}

// Save stores a new OAuth state until its ExpiresAt.
func (s *OAuthStateStore) Save(ctx context.Context, state *driven.OAuthState) error {
	now := time.Now()
	if state.CreatedAt.IsZero() {
		state.CreatedAt = now
	}
	if state.ExpiresAt.IsZero() {
		state.ExpiresAt = now.Add(s.ttl)
	}
	ttl := state.ExpiresAt.Sub(now)
	if ttl <= 0 {
		return nil
	}

	copied := *state
	s.cache.Set(stateKeyPrefix+state.State, &copied, ttl)
	return nil
}

// GetAndDelete returns and removes the state. Missing and expired states return nil, nil.
func (s *OAuthStateStore) GetAndDelete(ctx context.Context, state string) (*driven.OAuthState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := stateKeyPrefix + state
	item, ok := s.cache.Get(key)
	if !ok {
		return nil, nil
	}
	s.cache.Delete(key)

	oauthState := item.(*driven.OAuthState)
	if oauthState.IsExpired(time.Now()) {
		return nil, nil
	}
	return oauthState, nil
}

// Cleanup removes expired states.
func (s *OAuthStateStore) Cleanup(ctx context.Context) error {
	s.cache.DeleteExpired()
	return nil
}

// Len returns the number of cached states, including expired ones not yet swept.
func (s *OAuthStateStore) Len() int {
	return s.cache.ItemCount()
}
