package meta

import (
	"context"
	"net/http"
	"net/url"

	"github.com/custodia-labs/ai2aim-core/internal/core/domain"
	"github.com/custodia-labs/ai2aim-core/internal/core/ports/driven"
)

// Ensure interface compliance.
var (
	_ driven.ProviderConnector = (*Facebook)(nil)
	_ driven.Publisher         = (*Facebook)(nil)
)

// Facebook connects a user and the Pages they manage, and posts to the first Page.
type Facebook struct {
	graph *graphClient
}

// NewFacebook creates a Facebook connector.
func NewFacebook(cfg Config, httpClient *http.Client) *Facebook {
	return &Facebook{graph: newGraphClient(domain.PlatformFacebook, cfg, httpClient)}
}

func (f *Facebook) Platform() domain.Platform { return domain.PlatformFacebook }
func (f *Facebook) Configured() bool          { return f.graph.configured() }
func (f *Facebook) UsesPKCE() bool            { return false }

func (f *Facebook) AuthCodeURL(state, _ string) string {
	return f.graph.authCodeURL(state)
}

func (f *Facebook) ExchangeCode(ctx context.Context, code, _ string) (*driven.OAuthToken, error) {
	return f.graph.exchange(ctx, code)
}

// FetchProfile loads the user and their Pages. A user without Pages still
// connects; posting fails later with domain.ErrNoPagesFound.
func (f *Facebook) FetchProfile(ctx context.Context, token *driven.OAuthToken) (*driven.Profile, error) {
	pages, err := f.graph.pages(ctx, token.AccessToken)
	if err != nil {
		return nil, err
	}

	me, err := f.graph.get(ctx, "/me", url.Values{
		"fields":       {"id,name,picture"},
		"access_token": {token.AccessToken},
	}, domain.ErrProfileFetchFailed, "profile", "Failed to fetch profile")
	if err != nil {
		return nil, err
	}

	return &driven.Profile{
		ID:      me.Get("id").String(),
		Name:    me.Get("name").String(),
		Picture: me.Get("picture.data.url").String(),
		Pages:   pages,
	}, nil
}

// Publish posts the content to the user's first Page with the Page token.
func (f *Facebook) Publish(ctx context.Context, cred *domain.PlatformCredential, post domain.Post) (*domain.PublishResult, error) {
	page := cred.PrimaryPage()
	if page == nil {
		return nil, domain.ErrNoPagesFound
	}

	res, err := f.graph.post(ctx, "/"+page.ID+"/feed", map[string]string{
		"message":      post.Content,
		"access_token": page.AccessToken,
	}, domain.ErrPublishFailed, "publish", "Failed to post to Facebook")
	if err != nil {
		return nil, err
	}

	id := res.Get("id").String()
	if id == "" {
		return nil, domain.NewProviderError(domain.ErrPublishFailed, domain.PlatformFacebook, "publish", "Facebook returned no post id")
	}
	return &domain.PublishResult{
		Success:  true,
		PostID:   id,
		URL:      "https://facebook.com/" + id,
		PageName: page.Name,
	}, nil
}
