package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/custodia-labs/ai2aim-core/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.OAuthStateStore = (*OAuthStateStore)(nil)

const statePrefix = "ai2aim:oauth_state:"

// OAuthStateStore implements driven.OAuthStateStore with SET EX and GETDEL,
// so expiry is native and redemption is atomic across instances.
type OAuthStateStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewOAuthStateStore creates a Redis-backed OAuth state store.
func NewOAuthStateStore(client *redis.Client, ttl time.Duration) *OAuthStateStore {
	return &OAuthStateStore{client: client, ttl: ttl}
}

// Save stores the state with a TTL matching its ExpiresAt.
func (s *OAuthStateStore) Save(ctx context.Context, state *driven.OAuthState) error {
	now := time.Now()
	if state.CreatedAt.IsZero() {
		state.CreatedAt = now
	}
	if state.ExpiresAt.IsZero() {
		state.ExpiresAt = now.Add(s.ttl)
	}
	ttl := time.Until(state.ExpiresAt)
	if ttl <= 0 {
		return nil
	}

	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal oauth state: %w", err)
	}
	if err := s.client.Set(ctx, statePrefix+state.State, data, ttl).Err(); err != nil {
		return fmt.Errorf("save oauth state: %w", err)
	}
	return nil
}

// GetAndDelete atomically retrieves and deletes the state.
func (s *OAuthStateStore) GetAndDelete(ctx context.Context, state string) (*driven.OAuthState, error) {
	data, err := s.client.GetDel(ctx, statePrefix+state).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get and delete oauth state: %w", err)
	}

	var oauthState driven.OAuthState
	if err := json.Unmarshal(data, &oauthState); err != nil {
		return nil, fmt.Errorf("unmarshal oauth state: %w", err)
	}
	if oauthState.IsExpired(time.Now()) {
		return nil, nil
	}
	return &oauthState, nil
}

// Cleanup is a no-op; Redis expires keys itself.
func (s *OAuthStateStore) Cleanup(ctx context.Context) error {
	return nil
}
