// Package linkedin connects LinkedIn member accounts and shares posts through ugcPosts.
package linkedin

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
	defaultAuthURL  = "https://www.linkedin.com/oauth/v2/authorization"
	defaultTokenURL = "https://www.linkedin.com/oauth/v2/accessToken"
	defaultAPIURL   = "https://api.linkedin.com"
	postViewURL     = "https://www.linkedin.com/feed/update/"
)

// Scopes requested for sign-in and member posting.
var Scopes = []string{"openid", "profile", "email", "w_member_social"}

// Config holds the LinkedIn app credentials. Empty URLs use production endpoints.
type Config struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string

	AuthURL  string
	TokenURL string
	APIURL   string
}

// Connector implements the LinkedIn authorization-code flow and posting.
type Connector struct {
	flow       *connectors.OAuth2Flow
	apiURL     string
	httpClient *http.Client
}

// New creates a LinkedIn connector.
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
			Platform: domain.PlatformLinkedIn,
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
		},
		apiURL:     strings.TrimSuffix(apiURL, "/"),
		httpClient: httpClient,
	}
}

func (c *Connector) Platform() domain.Platform { return domain.PlatformLinkedIn }
func (c *Connector) Configured() bool          { return c.flow.Configured() }
func (c *Connector) UsesPKCE() bool            { return false }

// AuthCodeURL builds the LinkedIn authorization URL.
func (c *Connector) AuthCodeURL(state, codeChallenge string) string {
	return c.flow.AuthCodeURL(state, codeChallenge)
}

// ExchangeCode exchanges an authorization code for tokens.
// LinkedIn expects client credentials in the form body.
func (c *Connector) ExchangeCode(ctx context.Context, code, codeVerifier string) (*driven.OAuthToken, error) {
	return c.flow.Exchange(ctx, code, codeVerifier)
}

// FetchProfile loads the member from the OpenID userinfo endpoint.
func (c *Connector) FetchProfile(ctx context.Context, token *driven.OAuthToken) (*driven.Profile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiURL+"/v2/userinfo", nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	connectors.Bearer(req, token.AccessToken)

	resp, err := connectors.Do(c.httpClient, req, domain.PlatformLinkedIn, "profile")
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return nil, connectors.APIError(domain.ErrProfileFetchFailed, domain.PlatformLinkedIn, "profile", resp, "Failed to fetch profile")
	}

	info := resp.JSON()
	profile := &driven.Profile{
		ID:      info.Get("sub").String(),
		Name:    info.Get("name").String(),
		Email:   info.Get("email").String(),
		Picture: info.Get("picture").String(),
	}
	if profile.ID == "" {
		return nil, domain.NewProviderError(domain.ErrProfileFetchFailed, domain.PlatformLinkedIn, "profile", "LinkedIn profile has no member id")
	}
	return profile, nil
}

type shareRequest struct {
	Author          string         `json:"author"`
	LifecycleState  string         `json:"lifecycleState"`
	SpecificContent map[string]any `json:"specificContent"`
	Visibility      map[string]any `json:"visibility"`
}

// Publish shares a text post on the member's feed.
func (c *Connector) Publish(ctx context.Context, cred *domain.PlatformCredential, post domain.Post) (*domain.PublishResult, error) {
	body, err := json.Marshal(shareRequest{
		Author:         "urn:li:person:" + cred.ProfileID,
		LifecycleState: "PUBLISHED",
		SpecificContent: map[string]any{
			"com.linkedin.ugc.ShareContent": map[string]any{
				"shareCommentary":    map[string]string{"text": post.Content},
				"shareMediaCategory": "NONE",
			},
		},
		Visibility: map[string]any{
			"com.linkedin.ugc.MemberNetworkVisibility": "PUBLIC",
		},
	})
	if err != nil {
		return nil, fmt.Errorf("marshal share: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL+"/v2/ugcPosts", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	connectors.Bearer(req, cred.AccessToken)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Restli-Protocol-Version", "2.0.0")

	resp, err := connectors.Do(c.httpClient, req, domain.PlatformLinkedIn, "publish")
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return nil, connectors.APIError(domain.ErrPublishFailed, domain.PlatformLinkedIn, "publish", resp, "Failed to post")
	}

	id := resp.JSON().Get("id").String()
	if id == "" {
		id = strings.TrimSpace(string(resp.Body))
	}
	return &domain.PublishResult{
		Success: true,
		PostID:  id,
		URL:     postViewURL + id,
	}, nil
}
