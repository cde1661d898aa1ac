package driven

import (
	"context"

	"github.com/custodia-labs/ai2aim-core/internal/core/domain"
)

// CredentialStore persists per-user, per-platform credentials.
// Implementations must be safe for concurrent use.
type CredentialStore interface {
	// Get returns the credential for a user and platform.
	// Returns nil, nil if the user has not connected the platform.
	Get(ctx context.Context, userID string, platform domain.Platform) (*domain.PlatformCredential, error)

	// Set stores the credential, replacing any previous one for the pair,
	// and stamps ConnectedAt.
	Set(ctx context.Context, userID string, platform domain.Platform, cred *domain.PlatformCredential) error

	// Remove deletes the credential. Removing a missing credential is not an error.
	Remove(ctx context.Context, userID string, platform domain.Platform) error

	// GetAll returns every credential stored for the user, keyed by platform.
	GetAll(ctx context.Context, userID string) (map[domain.Platform]*domain.PlatformCredential, error)

	// IsConnected returns true iff a credential with a non-empty access token exists.
	IsConnected(ctx context.Context, userID string, platform domain.Platform) (bool, error)
}
