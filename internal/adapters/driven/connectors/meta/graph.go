// Package meta connects Facebook Pages and Instagram business accounts
// through the Graph API. Both platforms share one Meta app.
package meta

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/custodia-labs/ai2aim-core/internal/adapters/driven/connectors"
	"github.com/custodia-labs/ai2aim-core/internal/core/domain"
	"github.com/custodia-labs/ai2aim-core/internal/core/ports/driven"
)

const (
	graphVersion     = "v18.0"
	defaultGraphURL  = "https://graph.facebook.com/" + graphVersion
	defaultDialogURL = "https://www.facebook.com/" + graphVersion + "/dialog/oauth"
)

// Scope requested by both connectors. Publishing permissions need App Review
// and are granted on the Page tokens.
const Scope = "public_profile,email"

// Config holds the Meta app credentials. Empty URLs use production endpoints.
type Config struct {
	AppID     string
	AppSecret string

	// RedirectURL is the callback for this connector; Facebook and
	// Instagram each have their own.
	RedirectURL string

	DialogURL string
	GraphURL  string
}

// graphClient issues Graph API calls for a single platform.
type graphClient struct {
	platform   domain.Platform
	cfg        Config
	baseURL    string
	dialogURL  string
	httpClient *http.Client
}

func newGraphClient(platform domain.Platform, cfg Config, httpClient *http.Client) *graphClient {
	baseURL := cfg.GraphURL
	if baseURL == "" {
		baseURL = defaultGraphURL
	}
	dialogURL := cfg.DialogURL
	if dialogURL == "" {
		dialogURL = defaultDialogURL
	}
	if httpClient == nil {
		httpClient = connectors.NewHTTPClient(0)
	}
	return &graphClient{
		platform:   platform,
		cfg:        cfg,
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		dialogURL:  dialogURL,
		httpClient: httpClient,
	}
}

func (g *graphClient) configured() bool {
	return g.cfg.AppID != "" && g.cfg.AppSecret != ""
}

func (g *graphClient) authCodeURL(state string) string {
	q := url.Values{}
	q.Set("client_id", g.cfg.AppID)
	q.Set("redirect_uri", g.cfg.RedirectURL)
	q.Set("state", state)
	q.Set("scope", Scope)
	q.Set("response_type", "code")
	return g.dialogURL + "?" + q.Encode()
}

// exchange trades a code for a user access token. Graph takes the client
// secret as a query parameter on a GET.
func (g *graphClient) exchange(ctx context.Context, code string) (*driven.OAuthToken, error) {
	q := url.Values{}
	q.Set("client_id", g.cfg.AppID)
	q.Set("redirect_uri", g.cfg.RedirectURL)
	q.Set("client_secret", g.cfg.AppSecret)
	q.Set("code", code)

	res, err := g.get(ctx, "/oauth/access_token", q, domain.ErrTokenExchangeFailed, "token exchange", "Failed to exchange authorization code")
	if err != nil {
		return nil, err
	}

	token := &driven.OAuthToken{
		AccessToken: res.Get("access_token").String(),
		TokenType:   res.Get("token_type").String(),
		ExpiresIn:   res.Get("expires_in").Int(),
	}
	if token.AccessToken == "" {
		return nil, domain.NewProviderError(domain.ErrTokenExchangeFailed, g.platform, "token exchange", "Meta returned no access token")
	}
	return token, nil
}

// pages lists the Pages the user manages.
func (g *graphClient) pages(ctx context.Context, accessToken string) ([]domain.FacebookPage, error) {
	res, err := g.get(ctx, "/me/accounts", url.Values{"access_token": {accessToken}}, domain.ErrProfileFetchFailed, "pages", "Failed to fetch Pages")
	if err != nil {
		return nil, err
	}

	var pages []domain.FacebookPage
	for _, p := range res.Get("data").Array() {
		pages = append(pages, domain.FacebookPage{
			ID:          p.Get("id").String(),
			Name:        p.Get("name").String(),
			AccessToken: p.Get("access_token").String(),
			Category:    p.Get("category").String(),
		})
	}
	return pages, nil
}

func (g *graphClient) get(ctx context.Context, path string, q url.Values, kind error, op, fallback string) (gjson.Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+path+"?"+q.Encode(), nil)
	if err != nil {
		return gjson.Result{}, fmt.Errorf("create request: %s", connectors.RedactURL(err))
	}
	return g.do(req, kind, op, fallback)
}

func (g *graphClient) post(ctx context.Context, path string, body any, kind error, op, fallback string) (gjson.Result, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return gjson.Result{}, fmt.Errorf("marshal %s: %w", op, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return gjson.Result{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return g.do(req, kind, op, fallback)
}

// do sends a Graph request. Graph reports failures as an "error" object,
// sometimes with a 200 status, so both are checked.
func (g *graphClient) do(req *http.Request, kind error, op, fallback string) (gjson.Result, error) {
	resp, err := connectors.Do(g.httpClient, req, g.platform, op)
	if err != nil {
		return gjson.Result{}, err
	}
	res := resp.JSON()
	if !resp.OK() || res.Get("error").Exists() {
		perr := connectors.APIError(kind, g.platform, op, resp, fallback)
		if perr.StatusCode < 400 {
			perr.StatusCode = http.StatusBadRequest
		}
		return gjson.Result{}, perr
	}
	return res, nil
}
