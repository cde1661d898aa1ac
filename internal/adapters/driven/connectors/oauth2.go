package connectors

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"golang.org/x/oauth2"

	"github.com/custodia-labs/ai2aim-core/internal/core/domain"
	"github.com/custodia-labs/ai2aim-core/internal/core/ports/driven"
)

// OAuth2Flow runs a standards-compliant authorization-code flow through x/oauth2.
// LinkedIn, Twitter and Google use it; the Graph API token call is a GET and
// does not fit.
type OAuth2Flow struct {
	Platform   domain.Platform
	Config     *oauth2.Config
	HTTPClient *http.Client

	// AuthParams are extra query parameters for the authorization URL.
	AuthParams []oauth2.AuthCodeOption
}

// Configured reports whether client credentials are present.
func (f *OAuth2Flow) Configured() bool {
	return f.Config.ClientID != "" && f.Config.ClientSecret != ""
}

// AuthCodeURL builds the authorization URL, adding the S256 challenge when given.
func (f *OAuth2Flow) AuthCodeURL(state, codeChallenge string) string {
	opts := append([]oauth2.AuthCodeOption(nil), f.AuthParams...)
	if codeChallenge != "" {
		opts = append(opts,
			oauth2.SetAuthURLParam("code_challenge", codeChallenge),
			oauth2.SetAuthURLParam("code_challenge_method", "S256"),
		)
	}
	return f.Config.AuthCodeURL(state, opts...)
}

// Exchange trades the code (and PKCE verifier, if any) for tokens.
func (f *OAuth2Flow) Exchange(ctx context.Context, code, codeVerifier string) (*driven.OAuthToken, error) {
	if f.HTTPClient != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, f.HTTPClient)
	}

	var opts []oauth2.AuthCodeOption
	if codeVerifier != "" {
		opts = append(opts, oauth2.VerifierOption(codeVerifier))
	}

	tok, err := f.Config.Exchange(ctx, code, opts...)
	if err != nil {
		return nil, f.exchangeError(err)
	}

	token := &driven.OAuthToken{
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		TokenType:    tok.TokenType,
		ExpiresIn:    tok.ExpiresIn,
	}
	if scope, ok := tok.Extra("scope").(string); ok {
		token.Scope = scope
	}
	return token, nil
}

func (f *OAuth2Flow) exchangeError(err error) error {
	var rerr *oauth2.RetrieveError
	if errors.As(err, &rerr) {
		perr := &domain.ProviderError{
			Kind:     domain.ErrTokenExchangeFailed,
			Platform: f.Platform,
			Op:       "token exchange",
			Message:  rerr.ErrorDescription,
		}
		if perr.Message == "" {
			perr.Message = ErrorMessage(rerr.Body, "Failed to exchange authorization code")
		}
		if rerr.Response != nil {
			perr.StatusCode = rerr.Response.StatusCode
		}
		return perr
	}
	var uerr *url.Error
	if IsTimeout(err) || errors.As(err, &uerr) {
		return TransportError(err, f.Platform, "token exchange")
	}
	return &domain.ProviderError{
		Kind:     domain.ErrTokenExchangeFailed,
		Platform: f.Platform,
		Op:       "token exchange",
		Message:  "Failed to exchange authorization code",
	}
}

// Bearer sets the Authorization header for an access token.
func Bearer(req *http.Request, accessToken string) {
	req.Header.Set("Authorization", "Bearer "+accessToken)
}
