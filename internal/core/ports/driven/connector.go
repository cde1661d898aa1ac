package driven

import (
	"context"

	"github.com/custodia-labs/ai2aim-core/internal/core/domain"
)

// ProviderConnector drives one provider's authorization-code flow.
// Each platform (LinkedIn, Twitter, Facebook, Instagram, Google) has its own implementation;
// the shared callback orchestration lives in the OAuth service.
type ProviderConnector interface {
	// Platform returns the platform this connector serves.
	Platform() domain.Platform

	// Configured returns true if client credentials are present.
	Configured() bool

	// UsesPKCE returns true if the authorization URL must carry a code challenge
	// and the token exchange a code verifier.
	UsesPKCE() bool

	// AuthCodeURL builds the provider authorization URL.
	// codeChallenge is empty for providers without PKCE.
	AuthCodeURL(state, codeChallenge string) string

	// ExchangeCode exchanges an authorization code for tokens.
	// codeVerifier is empty for providers without PKCE.
	ExchangeCode(ctx context.Context, code, codeVerifier string) (*OAuthToken, error)

	// FetchProfile loads the account behind the access token.
	FetchProfile(ctx context.Context, token *OAuthToken) (*Profile, error)
}

// OAuthToken represents OAuth tokens from a provider.
type OAuthToken struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    int64  // Seconds until expiry
	TokenType    string // Usually "Bearer"
	Scope        string
}

// Profile is the provider account data kept alongside a credential.
type Profile struct {
	ID       string
	Name     string
	Username string
	Email    string
	Picture  string

	// Facebook / Instagram
	Pages              []domain.FacebookPage
	InstagramAccountID string
}

// ConnectorRegistry resolves connectors by platform.
type ConnectorRegistry interface {
	// Get returns the connector for a platform, or nil if none is registered.
	Get(platform domain.Platform) ProviderConnector

	// Platforms returns all registered platforms.
	Platforms() []domain.Platform
}
