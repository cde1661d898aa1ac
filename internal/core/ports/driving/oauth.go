package driving

import (
	"context"

	"github.com/custodia-labs/ai2aim-core/internal/core/domain"
)

// OAuthService handles OAuth connect flows for publishing platforms.
// It manages the authorization redirect, state validation, token exchange
// and credential persistence.
type OAuthService interface {
	// Authorize starts an OAuth authorization flow.
	// Returns the provider authorization URL to redirect the browser to.
	// Fails with domain.ErrMissingParameter when UserID is empty.
	Authorize(ctx context.Context, req AuthorizeRequest) (*AuthorizeResponse, error)

	// Callback handles the OAuth callback from the provider.
	// The response is always non-nil and its RedirectURL always points at a
	// frontend route; the error is returned for logging only.
	Callback(ctx context.Context, req CallbackRequest) (*CallbackResponse, error)
}

// AuthorizeRequest represents a request to start an OAuth flow.
// @Description Request to start OAuth authorization flow
type AuthorizeRequest struct {
	// Platform is the OAuth provider (linkedin, twitter, facebook, instagram)
	Platform domain.Platform `json:"platform" example:"linkedin"`

	// UserID is the dashboard user connecting the account
	UserID string `json:"userId" example:"u1"`
}

// AuthorizeResponse contains the authorization URL and state.
// @Description Response containing the OAuth authorization URL
type AuthorizeResponse struct {
	// AuthorizationURL is the URL to redirect the user to for authorization.
	AuthorizationURL string `json:"authorization_url"`

	// State is the CSRF token that will be returned in the callback.
	State string `json:"state"`

	// ExpiresAt is when the authorization state expires (typically 10 minutes).
	ExpiresAt string `json:"expires_at" example:"2024-01-15T10:10:00Z"`
}

// CallbackRequest represents the OAuth callback from the provider.
// @Description OAuth callback parameters from provider redirect
type CallbackRequest struct {
	// Platform is taken from the callback route.
	Platform domain.Platform `json:"platform"`

	// Code is the authorization code from the provider.
	Code string `json:"code"`

	// State is the CSRF token returned by the provider.
	State string `json:"state"`

	// Error is set if the provider returned an error.
	Error string `json:"error,omitempty" example:"access_denied"`

	// ErrorDescription provides details about the error.
	ErrorDescription string `json:"error_description,omitempty" example:"The user denied access"`
}

// CallbackResponse contains the result of the OAuth callback.
type CallbackResponse struct {
	// RedirectURL is the frontend route the browser is sent to.
	RedirectURL string `json:"redirect_url"`

	// Stage is the last flow stage reached (connected or failed).
	Stage domain.FlowStage `json:"stage"`

	// FailedAt is the stage at which the flow failed, empty on success.
	FailedAt domain.FlowStage `json:"failed_at,omitempty"`

	// DisplayName is the connected account label, empty on failure.
	DisplayName string `json:"display_name,omitempty"`
}
