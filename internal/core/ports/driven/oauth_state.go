package driven

import (
	"context"
	"time"

	"github.com/custodia-labs/ai2aim-core/internal/core/domain"
)

// OAuthState represents a pending OAuth authorization flow state.
// Used for CSRF protection and PKCE code verifier storage.
type OAuthState struct {
	// State is a cryptographically random string used for CSRF protection.
	State string `json:"state"`

	// Platform is the provider the flow was started for.
	Platform domain.Platform `json:"platform"`

	// UserID is the dashboard user connecting the platform.
	// Empty for Google login, which identifies the user instead.
	UserID string `json:"user_id,omitempty"`

	// CodeVerifier is the PKCE code verifier (plain text, not hashed).
	// Only set for providers that use PKCE.
	CodeVerifier string `json:"code_verifier,omitempty"`

	// CreatedAt is when the state was created.
	CreatedAt time.Time `json:"created_at"`

	// ExpiresAt is when the state expires (typically 10 minutes).
	ExpiresAt time.Time `json:"expires_at"`
}

// IsExpired returns true if the state is past its expiry.
func (s *OAuthState) IsExpired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

// OAuthStateStore manages OAuth flow state for CSRF protection.
// States are single-use and expire after a short period.
type OAuthStateStore interface {
	// Save stores a new OAuth state.
	// Implementations fill in ExpiresAt from their TTL when it is zero.
	Save(ctx context.Context, state *OAuthState) error

	// GetAndDelete atomically retrieves and deletes the state.
	// This ensures single-use semantics.
	// Returns nil, nil if the state doesn't exist or has expired.
	GetAndDelete(ctx context.Context, state string) (*OAuthState, error)

	// Cleanup removes expired states.
	Cleanup(ctx context.Context) error
}
