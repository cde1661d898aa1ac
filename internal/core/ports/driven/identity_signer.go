package driven

import "github.com/custodia-labs/ai2aim-core/internal/core/domain"

// IdentitySigner signs and verifies the login payload handed to the frontend.
type IdentitySigner interface {
	// Sign returns a compact token carrying the identity.
	Sign(identity *domain.Identity) (string, error)

	// Verify validates a token and returns the identity it carries.
	// Returns domain.ErrTokenInvalid for forged, malformed or expired tokens.
	Verify(token string) (*domain.Identity, error)
}
