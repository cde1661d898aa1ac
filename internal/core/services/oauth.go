package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/custodia-labs/ai2aim-core/internal/core/domain"
	"github.com/custodia-labs/ai2aim-core/internal/core/ports/driven"
	"github.com/custodia-labs/ai2aim-core/internal/core/ports/driving"
)

// DefaultProviderTimeout bounds every outbound provider call.
const DefaultProviderTimeout = 10 * time.Second

var tracer = otel.Tracer("github.com/custodia-labs/ai2aim-core/internal/core/services")

// Ensure oauthService implements OAuthService
var _ driving.OAuthService = (*oauthService)(nil)

// OAuthServiceConfig holds configuration for the OAuth service.
type OAuthServiceConfig struct {
	// StateStore manages OAuth flow state.
	StateStore driven.OAuthStateStore

	// CredentialStore persists connected platform credentials.
	CredentialStore driven.CredentialStore

	// Connectors provides the per-platform OAuth handlers.
	Connectors driven.ConnectorRegistry

	// Redirects builds the frontend routes callbacks end on.
	Redirects *RedirectController

	// StateTTL is how long a state token stays redeemable. Defaults to 10 minutes.
	StateTTL time.Duration

	// ProviderTimeout bounds token exchange and profile calls. Defaults to 10 seconds.
	ProviderTimeout time.Duration

	Logger *slog.Logger

	// Now overrides the clock in tests.
	Now func() time.Time
}

// oauthService implements the OAuthService interface.
type oauthService struct {
	states          *stateRegistry
	credentialStore driven.CredentialStore
	connectors      driven.ConnectorRegistry
	redirects       *RedirectController
	providerTimeout time.Duration
	logger          *slog.Logger
	now             func() time.Time
}

// NewOAuthService creates a new OAuth service.
func NewOAuthService(cfg OAuthServiceConfig) driving.OAuthService {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	timeout := cfg.ProviderTimeout
	if timeout <= 0 {
		timeout = DefaultProviderTimeout
	}
	return &oauthService{
		states:          newStateRegistry(cfg.StateStore, cfg.StateTTL, now),
		credentialStore: cfg.CredentialStore,
		connectors:      cfg.Connectors,
		redirects:       cfg.Redirects,
		providerTimeout: timeout,
		logger:          logger,
		now:             now,
	}
}

// Authorize starts an OAuth authorization flow.
// It stores a fresh state (plus a PKCE verifier where the provider needs one)
// and returns the provider authorization URL.
func (s *oauthService) Authorize(ctx context.Context, req driving.AuthorizeRequest) (*driving.AuthorizeResponse, error) {
	ctx, span := tracer.Start(ctx, "oauth.authorize")
	defer span.End()
	span.SetAttributes(attribute.String("platform", string(req.Platform)))

	if !req.Platform.IsConnectable() {
		return nil, domain.ErrUnsupportedPlatform
	}
	if req.UserID == "" {
		return nil, fmt.Errorf("%w: userId is required", domain.ErrMissingParameter)
	}

	connector, err := s.connector(req.Platform)
	if err != nil {
		return nil, err
	}

	state, err := s.states.Create(ctx, req.Platform, req.UserID, connector.UsesPKCE())
	if err != nil {
		return nil, err
	}

	authURL := connector.AuthCodeURL(state.State, codeChallenge(state.CodeVerifier))

	s.logger.Info("oauth flow started",
		"platform", string(req.Platform),
		"user_id", req.UserID,
		"pkce", connector.UsesPKCE())

	return &driving.AuthorizeResponse{
		AuthorizationURL: authURL,
		State:            state.State,
		ExpiresAt:        state.ExpiresAt.Format(time.RFC3339),
	}, nil
}

// Callback handles the OAuth callback from the provider.
// It validates state, exchanges the code for tokens, loads the profile and
// stores the credential. Every outcome, success or failure, ends in a redirect.
func (s *oauthService) Callback(ctx context.Context, req driving.CallbackRequest) (*driving.CallbackResponse, error) {
	ctx, span := tracer.Start(ctx, "oauth.callback")
	defer span.End()
	span.SetAttributes(attribute.String("platform", string(req.Platform)))

	flow := newConnectFlow(req.Platform, s.logger, span)
	flow.advance(domain.FlowStageCallbackReceived)

	cred, err := s.connect(ctx, flow, req)
	if err != nil {
		flow.fail(err)
		return &driving.CallbackResponse{
			RedirectURL: s.redirects.ConnectError(domain.UserMessage(err)),
			Stage:       flow.stage,
			FailedAt:    flow.failedAt,
		}, err
	}

	flow.advance(domain.FlowStageConnected)
	name := cred.DisplayName()
	s.logger.Info("platform connected", "platform", string(req.Platform), "account", name)

	return &driving.CallbackResponse{
		RedirectURL: s.redirects.ConnectSuccess(req.Platform, name),
		Stage:       flow.stage,
		DisplayName: name,
	}, nil
}

func (s *oauthService) connect(ctx context.Context, flow *connectFlow, req driving.CallbackRequest) (*domain.PlatformCredential, error) {
	// Check for error from provider
	if req.Error != "" {
		message := req.ErrorDescription
		if message == "" {
			message = req.Error
		}
		return nil, domain.NewProviderError(domain.ErrProviderAuth, req.Platform, "authorize", message)
	}

	// Validate and consume state (single-use) before touching the provider
	state, err := s.states.Redeem(ctx, req.State)
	if err != nil {
		return nil, err
	}
	if state.Platform != req.Platform || state.UserID == "" {
		return nil, domain.ErrInvalidState
	}
	if req.Code == "" {
		return nil, fmt.Errorf("%w: code is required", domain.ErrMissingParameter)
	}

	connector, err := s.connector(req.Platform)
	if err != nil {
		return nil, err
	}

	exchangeCtx, cancel := context.WithTimeout(ctx, s.providerTimeout)
	token, err := connector.ExchangeCode(exchangeCtx, req.Code, state.CodeVerifier)
	cancel()
	if err != nil {
		return nil, classifyProviderError(err, domain.ErrTokenExchangeFailed, req.Platform, "token exchange")
	}
	flow.advance(domain.FlowStageTokenExchanged)

	profileCtx, cancel := context.WithTimeout(ctx, s.providerTimeout)
	profile, err := connector.FetchProfile(profileCtx, token)
	cancel()
	if err != nil {
		return nil, classifyProviderError(err, domain.ErrProfileFetchFailed, req.Platform, "profile")
	}
	flow.advance(domain.FlowStageProfileFetched)

	cred := newCredential(req.Platform, token, profile)
	if err := s.credentialStore.Set(ctx, state.UserID, req.Platform, cred); err != nil {
		return nil, fmt.Errorf("save credential: %w", err)
	}
	return cred, nil
}

func (s *oauthService) connector(platform domain.Platform) (driven.ProviderConnector, error) {
	connector := s.connectors.Get(platform)
	if connector == nil {
		return nil, domain.ErrUnsupportedPlatform
	}
	if !connector.Configured() {
		return nil, domain.ErrPlatformNotConfigured
	}
	return connector, nil
}

func newCredential(platform domain.Platform, token *driven.OAuthToken, profile *driven.Profile) *domain.PlatformCredential {
	cred := &domain.PlatformCredential{
		Platform:     platform,
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		TokenType:    token.TokenType,
		Scope:        token.Scope,
		ExpiresIn:    token.ExpiresIn,
	}
	if profile != nil {
		cred.ProfileID = profile.ID
		cred.ProfileName = profile.Name
		cred.Username = profile.Username
		cred.ProfilePicture = profile.Picture
		cred.Pages = profile.Pages
		cred.InstagramAccountID = profile.InstagramAccountID
	}
	return cred
}

// classifyProviderError keeps errors connectors already classified and
// labels everything else with kind. Deadlines always mean unavailable.
func classifyProviderError(err error, kind error, platform domain.Platform, op string) error {
	var perr *domain.ProviderError
	if errors.As(err, &perr) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &domain.ProviderError{Kind: domain.ErrProviderUnavailable, Platform: platform, Op: op}
	}
	if errors.Is(err, kind) {
		return err
	}
	return fmt.Errorf("%w: %s %s: %v", kind, platform, op, err)
}
