package driving

import (
	"context"

	"github.com/custodia-labs/ai2aim-core/internal/core/domain"
)

// LoginService authenticates the dashboard user through Google.
// It creates no server-side session; the frontend receives a signed identity token.
type LoginService interface {
	// Begin starts the login flow and returns the Google authorization URL.
	Begin(ctx context.Context) (*AuthorizeResponse, error)

	// Complete handles the Google callback. Like OAuthService.Callback, the
	// response is always non-nil and carries the frontend redirect.
	Complete(ctx context.Context, req CallbackRequest) (*LoginResponse, error)

	// VerifySession validates an identity token issued by Complete.
	VerifySession(ctx context.Context, token string) (*domain.Identity, error)
}

// LoginResponse contains the result of the Google login callback.
type LoginResponse struct {
	RedirectURL string           `json:"redirect_url"`
	Identity    *domain.Identity `json:"identity,omitempty"`
	Token       string           `json:"token,omitempty"`
}
