package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/custodia-labs/ai2aim-core/internal/core/domain"
	"github.com/custodia-labs/ai2aim-core/internal/core/ports/driven"
	"github.com/custodia-labs/ai2aim-core/internal/core/ports/driving"
)

// Ensure loginService implements LoginService
var _ driving.LoginService = (*loginService)(nil)

// LoginServiceConfig holds configuration for the Google login service.
type LoginServiceConfig struct {
	StateStore driven.OAuthStateStore

	// Connector is the Google connector.
	Connector driven.ProviderConnector

	// Signer issues the identity token handed to the frontend.
	Signer driven.IdentitySigner

	Redirects *RedirectController

	StateTTL        time.Duration
	ProviderTimeout time.Duration
	Logger          *slog.Logger
	Now             func() time.Time
}

type loginService struct {
	states          *stateRegistry
	connector       driven.ProviderConnector
	signer          driven.IdentitySigner
	redirects       *RedirectController
	providerTimeout time.Duration
	logger          *slog.Logger
}

// NewLoginService creates a new login service.
func NewLoginService(cfg LoginServiceConfig) driving.LoginService {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	timeout := cfg.ProviderTimeout
	if timeout <= 0 {
		timeout = DefaultProviderTimeout
	}
	return &loginService{
		states:          newStateRegistry(cfg.StateStore, cfg.StateTTL, cfg.Now),
		connector:       cfg.Connector,
		signer:          cfg.Signer,
		redirects:       cfg.Redirects,
		providerTimeout: timeout,
		logger:          logger,
	}
}

// Begin starts the Google login flow.
func (s *loginService) Begin(ctx context.Context) (*driving.AuthorizeResponse, error) {
	if s.connector == nil || !s.connector.Configured() {
		return nil, domain.ErrPlatformNotConfigured
	}

	state, err := s.states.Create(ctx, domain.PlatformGoogle, "", s.connector.UsesPKCE())
	if err != nil {
		return nil, err
	}

	return &driving.AuthorizeResponse{
		AuthorizationURL: s.connector.AuthCodeURL(state.State, codeChallenge(state.CodeVerifier)),
		State:            state.State,
		ExpiresAt:        state.ExpiresAt.Format(time.RFC3339),
	}, nil
}

// Complete handles the Google callback and signs the resulting identity.
func (s *loginService) Complete(ctx context.Context, req driving.CallbackRequest) (*driving.LoginResponse, error) {
	ctx, span := tracer.Start(ctx, "login.complete")
	defer span.End()

	identity, token, err := s.complete(ctx, req)
	if err != nil {
		span.RecordError(err)
		s.logger.Warn("google login failed", "error", err)
		return &driving.LoginResponse{RedirectURL: s.redirects.LoginError(domain.UserMessage(err))}, err
	}

	redirectURL, err := s.redirects.LoginSuccess(identity, token)
	if err != nil {
		return &driving.LoginResponse{RedirectURL: s.redirects.LoginError(domain.UserMessage(err))}, err
	}

	s.logger.Info("google login completed", "user_id", identity.ID)
	return &driving.LoginResponse{
		RedirectURL: redirectURL,
		Identity:    identity,
		Token:       token,
	}, nil
}

func (s *loginService) complete(ctx context.Context, req driving.CallbackRequest) (*domain.Identity, string, error) {
	if req.Error != "" {
		message := req.ErrorDescription
		if message == "" {
			message = req.Error
		}
		return nil, "", domain.NewProviderError(domain.ErrProviderAuth, domain.PlatformGoogle, "authorize", message)
	}

	state, err := s.states.Redeem(ctx, req.State)
	if err != nil {
		return nil, "", err
	}
	if state.Platform != domain.PlatformGoogle {
		return nil, "", domain.ErrInvalidState
	}
	if req.Code == "" {
		return nil, "", fmt.Errorf("%w: code is required", domain.ErrMissingParameter)
	}
	if s.connector == nil || !s.connector.Configured() {
		return nil, "", domain.ErrPlatformNotConfigured
	}

	exchangeCtx, cancel := context.WithTimeout(ctx, s.providerTimeout)
	token, err := s.connector.ExchangeCode(exchangeCtx, req.Code, state.CodeVerifier)
	cancel()
	if err != nil {
		return nil, "", classifyProviderError(err, domain.ErrTokenExchangeFailed, domain.PlatformGoogle, "token exchange")
	}

	profileCtx, cancel := context.WithTimeout(ctx, s.providerTimeout)
	profile, err := s.connector.FetchProfile(profileCtx, token)
	cancel()
	if err != nil {
		return nil, "", classifyProviderError(err, domain.ErrProfileFetchFailed, domain.PlatformGoogle, "userinfo")
	}

	identity := &domain.Identity{
		ID:       profile.ID,
		Email:    profile.Email,
		Name:     profile.Name,
		Picture:  profile.Picture,
		Provider: string(domain.PlatformGoogle),
	}

	signed, err := s.signer.Sign(identity)
	if err != nil {
		return nil, "", fmt.Errorf("sign identity: %w", err)
	}
	return identity, signed, nil
}

// VerifySession validates an identity token.
func (s *loginService) VerifySession(ctx context.Context, token string) (*domain.Identity, error) {
	if token == "" {
		return nil, fmt.Errorf("%w: token is required", domain.ErrMissingParameter)
	}
	return s.signer.Verify(token)
}
