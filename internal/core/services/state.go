package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"golang.org/x/oauth2"

	"github.com/custodia-labs/ai2aim-core/internal/core/domain"
	"github.com/custodia-labs/ai2aim-core/internal/core/ports/driven"
)

// DefaultStateTTL is how long an issued state token can be redeemed.
const DefaultStateTTL = 10 * time.Minute

// stateTokenBytes is the entropy of a state token before hex encoding.
const stateTokenBytes = 32

// stateRegistry issues and redeems one-time CSRF/PKCE correlation tokens
// on top of an injected OAuthStateStore.
type stateRegistry struct {
	store driven.OAuthStateStore
	ttl   time.Duration
	now   func() time.Time
}

func newStateRegistry(store driven.OAuthStateStore, ttl time.Duration, now func() time.Time) *stateRegistry {
	if ttl <= 0 {
		ttl = DefaultStateTTL
	}
	if now == nil {
		now = time.Now
	}
	return &stateRegistry{store: store, ttl: ttl, now: now}
}

// Create generates a random state token, stores its association and returns the record.
// When withPKCE is set a fresh code verifier is stored alongside the state.
func (r *stateRegistry) Create(ctx context.Context, platform domain.Platform, userID string, withPKCE bool) (*driven.OAuthState, error) {
	token, err := generateStateToken()
	if err != nil {
		return nil, fmt.Errorf("generate state: %w", err)
	}

	now := r.now()
	state := &driven.OAuthState{
		State:     token,
		Platform:  platform,
		UserID:    userID,
		CreatedAt: now,
		ExpiresAt: now.Add(r.ttl),
	}
	if withPKCE {
		state.CodeVerifier = oauth2.GenerateVerifier()
	}

	if err := r.store.Save(ctx, state); err != nil {
		return nil, fmt.Errorf("save oauth state: %w", err)
	}
	return state, nil
}

// Redeem consumes a state token. Unknown, already used and expired tokens
// all fail with domain.ErrInvalidState.
func (r *stateRegistry) Redeem(ctx context.Context, token string) (*driven.OAuthState, error) {
	if token == "" {
		return nil, domain.ErrInvalidState
	}

	state, err := r.store.GetAndDelete(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("get oauth state: %w", err)
	}
	if state == nil || state.IsExpired(r.now()) {
		return nil, domain.ErrInvalidState
	}
	return state, nil
}

// generateStateToken returns a hex-encoded cryptographically random token.
func generateStateToken() (string, error) {
	bytes := make([]byte, stateTokenBytes)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}

// codeChallenge derives the S256 PKCE challenge for a verifier.
func codeChallenge(verifier string) string {
	if verifier == "" {
		return ""
	}
	return oauth2.S256ChallengeFromVerifier(verifier)
}
