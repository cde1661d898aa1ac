// Package google authenticates end users with Google sign-in.
package google

import (
	"context"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"

	"github.com/custodia-labs/ai2aim-core/internal/adapters/driven/connectors"
	"github.com/custodia-labs/ai2aim-core/internal/core/domain"
	"github.com/custodia-labs/ai2aim-core/internal/core/ports/driven"
)

// Ensure interface compliance.
var _ driven.ProviderConnector = (*Connector)(nil)

const (
	defaultAuthURL     = "https://accounts.google.com/o/oauth2/v2/auth"
	defaultTokenURL    = "https://oauth2.googleapis.com/token"
	defaultUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"
)

// Scopes requested for sign-in.
var Scopes = []string{"openid", "email", "profile"}

// Config holds the Google client credentials. Empty URLs use production endpoints.
type Config struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string

	AuthURL     string
	TokenURL    string
	UserInfoURL string
}

// Connector implements Google sign-in. It has no publishing side.
type Connector struct {
	flow        *connectors.OAuth2Flow
	userInfoURL string
	httpClient  *http.Client
}

// New creates a Google connector.
func New(cfg Config, httpClient *http.Client) *Connector {
	authURL := cfg.AuthURL
	if authURL == "" {
		authURL = defaultAuthURL
	}
	tokenURL := cfg.TokenURL
	if tokenURL == "" {
		tokenURL = defaultTokenURL
	}
	userInfoURL := cfg.UserInfoURL
	if userInfoURL == "" {
		userInfoURL = defaultUserInfoURL
	}
	if httpClient == nil {
		httpClient = connectors.NewHTTPClient(0)
	}
	return &Connector{
		flow: &connectors.OAuth2Flow{
			Platform: domain.PlatformGoogle,
			Config: &oauth2.Config{
				ClientID:     cfg.ClientID,
				ClientSecret: cfg.ClientSecret,
				RedirectURL:  cfg.RedirectURL,
				Scopes:       Scopes,
				Endpoint: oauth2.Endpoint{
					AuthURL:   authURL,
					TokenURL:  tokenURL,
					AuthStyle: oauth2.AuthStyleInParams,
				},
			},
			HTTPClient: httpClient,
			AuthParams: []oauth2.AuthCodeOption{
				oauth2.AccessTypeOffline,
				oauth2.SetAuthURLParam("prompt", "consent"),
			},
		},
		userInfoURL: userInfoURL,
		httpClient:  httpClient,
	}
}

func (c *Connector) Platform() domain.Platform { return domain.PlatformGoogle }
func (c *Connector) Configured() bool          { return c.flow.Configured() }
func (c *Connector) UsesPKCE() bool            { return false }

func (c *Connector) AuthCodeURL(state, codeChallenge string) string {
	return c.flow.AuthCodeURL(state, codeChallenge)
}

func (c *Connector) ExchangeCode(ctx context.Context, code, codeVerifier string) (*driven.OAuthToken, error) {
	return c.flow.Exchange(ctx, code, codeVerifier)
}

// FetchProfile loads the signed-in user.
func (c *Connector) FetchProfile(ctx context.Context, token *driven.OAuthToken) (*driven.Profile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.userInfoURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	connectors.Bearer(req, token.AccessToken)

	resp, err := connectors.Do(c.httpClient, req, domain.PlatformGoogle, "userinfo")
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return nil, connectors.APIError(domain.ErrProfileFetchFailed, domain.PlatformGoogle, "userinfo", resp, "Failed to get user info")
	}

	info := resp.JSON()
	profile := &driven.Profile{
		ID:      info.Get("id").String(),
		Email:   info.Get("email").String(),
		Name:    info.Get("name").String(),
		Picture: info.Get("picture").String(),
	}
	if profile.ID == "" {
		return nil, domain.NewProviderError(domain.ErrProfileFetchFailed, domain.PlatformGoogle, "userinfo", "Failed to get user info")
	}
	return profile, nil
}
