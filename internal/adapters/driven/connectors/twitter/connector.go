// Package twitter connects X/Twitter accounts with OAuth 2.0 PKCE and posts tweets.
package twitter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"golang.org/x/oauth2"

	"github.com/custodia-labs/ai2aim-core/internal/adapters/driven/connectors"
	"github.com/custodia-labs/ai2aim-core/internal/core/domain"
	"github.com/custodia-labs/ai2aim-core/internal/core/ports/driven"
)

// Ensure interface compliance.
var (
	_ driven.ProviderConnector = (*Connector)(nil)
	_ driven.Publisher         = (*Connector)(nil)
)

const (
	defaultAuthURL  = "https://twitter.com/i/oauth2/authorize"
	defaultTokenURL = "https://api.twitter.com/2/oauth2/token"
	defaultAPIURL   = "https://api.twitter.com"
	statusURL       = "https://twitter.com/i/status/"
)

// Scopes requested for reading the account and posting tweets.
var Scopes = []string{"tweet.read", "tweet.write", "users.read", "offline.access"}

// Config holds the Twitter app credentials. Empty URLs use production endpoints.
type Config struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string

	AuthURL  string
	TokenURL string
	APIURL   string
}

// Connector implements the Twitter OAuth 2.0 flow with PKCE.
type Connector struct {
	flow       *connectors.OAuth2Flow
	apiURL     string
	httpClient *http.Client
}

// New creates a Twitter connector.
func New(cfg Config, httpClient *http.Client) *Connector {
	authURL := cfg.AuthURL
	if authURL == "" {
		authURL = defaultAuthURL
	}
	tokenURL := cfg.TokenURL
	if tokenURL == "" {
		tokenURL = defaultTokenURL
	}
	apiURL := cfg.APIURL
	if apiURL == "" {
		apiURL = defaultAPIURL
	}
	if httpClient == nil {
		httpClient = connectors.NewHTTPClient(0)
	}
	return &Connector{
		flow: &connectors.OAuth2Flow{
			Platform: domain.PlatformTwitter,
			Config: &oauth2.Config{
				ClientID:     cfg.ClientID,
				ClientSecret: cfg.ClientSecret,
				RedirectURL:  cfg.RedirectURL,
				Scopes:       Scopes,
				Endpoint: oauth2.Endpoint{
					AuthURL:  authURL,
					TokenURL: tokenURL,
					// Confidential clients authenticate with HTTP Basic.
					AuthStyle: oauth2.AuthStyleInHeader,
				},
			},
			HTTPClient: httpClient,
		},
		apiURL:     strings.TrimSuffix(apiURL, "/"),
		httpClient: httpClient,
	}
}

func (c *Connector) Platform() domain.Platform { return domain.PlatformTwitter }
func (c *Connector) Configured() bool          { return c.flow.Configured() }
func (c *Connector) UsesPKCE() bool            { return true }

// AuthCodeURL builds the authorization URL with the S256 code challenge.
func (c *Connector) AuthCodeURL(state, codeChallenge string) string {
	return c.flow.AuthCodeURL(state, codeChallenge)
}

// ExchangeCode exchanges the code together with the PKCE verifier stored with the state.
func (c *Connector) ExchangeCode(ctx context.Context, code, codeVerifier string) (*driven.OAuthToken, error) {
	if codeVerifier == "" {
		return nil, domain.NewProviderError(domain.ErrTokenExchangeFailed, domain.PlatformTwitter, "token exchange", "Missing PKCE code verifier")
	}
	return c.flow.Exchange(ctx, code, codeVerifier)
}

// FetchProfile loads the authenticated user from /2/users/me.
func (c *Connector) FetchProfile(ctx context.Context, token *driven.OAuthToken) (*driven.Profile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiURL+"/2/users/me?user.fields=profile_image_url", nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	connectors.Bearer(req, token.AccessToken)

	resp, err := connectors.Do(c.httpClient, req, domain.PlatformTwitter, "profile")
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return nil, connectors.APIError(domain.ErrProfileFetchFailed, domain.PlatformTwitter, "profile", resp, "Failed to fetch profile")
	}

	data := resp.JSON().Get("data")
	profile := &driven.Profile{
		ID:       data.Get("id").String(),
		Name:     data.Get("name").String(),
		Username: data.Get("username").String(),
		Picture:  data.Get("profile_image_url").String(),
	}
	if profile.ID == "" {
		return nil, domain.NewProviderError(domain.ErrProfileFetchFailed, domain.PlatformTwitter, "profile", "Twitter returned no user")
	}
	return profile, nil
}

// Publish posts a tweet.
func (c *Connector) Publish(ctx context.Context, cred *domain.PlatformCredential, post domain.Post) (*domain.PublishResult, error) {
	body, err := json.Marshal(map[string]string{"text": post.Content})
	if err != nil {
		return nil, fmt.Errorf("marshal tweet: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL+"/2/tweets", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	connectors.Bearer(req, cred.AccessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := connectors.Do(c.httpClient, req, domain.PlatformTwitter, "publish")
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return nil, connectors.APIError(domain.ErrPublishFailed, domain.PlatformTwitter, "publish", resp, "Failed to post tweet")
	}

	id := resp.JSON().Get("data.id").String()
	if id == "" {
		return nil, domain.NewProviderError(domain.ErrPublishFailed, domain.PlatformTwitter, "publish", "Twitter returned no tweet id")
	}
	return &domain.PublishResult{
		Success: true,
		PostID:  id,
		URL:     statusURL + id,
	}, nil
}
