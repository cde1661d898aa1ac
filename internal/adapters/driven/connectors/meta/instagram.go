package meta

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/custodia-labs/ai2aim-core/internal/core/domain"
	"github.com/custodia-labs/ai2aim-core/internal/core/ports/driven"
)

// Ensure interface compliance.
var (
	_ driven.ProviderConnector = (*Instagram)(nil)
	_ driven.Publisher         = (*Instagram)(nil)
)

// Instagram connects the Instagram business account linked to one of the
// user's Facebook Pages and publishes images to it.
type Instagram struct {
	graph *graphClient
}

// NewInstagram creates an Instagram connector.
func NewInstagram(cfg Config, httpClient *http.Client) *Instagram {
	return &Instagram{graph: newGraphClient(domain.PlatformInstagram, cfg, httpClient)}
}

func (i *Instagram) Platform() domain.Platform { return domain.PlatformInstagram }
func (i *Instagram) Configured() bool          { return i.graph.configured() }
func (i *Instagram) UsesPKCE() bool            { return false }

func (i *Instagram) AuthCodeURL(state, _ string) string {
	return i.graph.authCodeURL(state)
}

func (i *Instagram) ExchangeCode(ctx context.Context, code, _ string) (*driven.OAuthToken, error) {
	return i.graph.exchange(ctx, code)
}

// FetchProfile finds the first Page with a linked business account. Pages the
// lookup is refused for are skipped. No linked account is not an error here;
// publishing reports domain.ErrNoBusinessAccount.
func (i *Instagram) FetchProfile(ctx context.Context, token *driven.OAuthToken) (*driven.Profile, error) {
	pages, err := i.graph.pages(ctx, token.AccessToken)
	if err != nil {
		return nil, err
	}

	profile := &driven.Profile{Pages: pages}
	for _, page := range pages {
		res, err := i.graph.get(ctx, "/"+page.ID, url.Values{
			"fields":       {"instagram_business_account"},
			"access_token": {token.AccessToken},
		}, domain.ErrProfileFetchFailed, "business account", "Failed to look up Instagram account")
		if errors.Is(err, domain.ErrProviderUnavailable) {
			return nil, err
		}
		if err != nil {
			continue
		}
		if id := res.Get("instagram_business_account.id").String(); id != "" {
			profile.ID = id
			profile.InstagramAccountID = id
			break
		}
	}
	return profile, nil
}

// Publish creates a media container for the image and publishes it.
// The two steps fail with different messages so users can tell them apart.
func (i *Instagram) Publish(ctx context.Context, cred *domain.PlatformCredential, post domain.Post) (*domain.PublishResult, error) {
	if cred.InstagramAccountID == "" {
		return nil, domain.ErrNoBusinessAccount
	}
	if post.MediaURL == "" {
		return nil, domain.ErrMissingMedia
	}

	igID := cred.InstagramAccountID
	container, err := i.graph.post(ctx, "/"+igID+"/media", map[string]string{
		"image_url":    post.MediaURL,
		"caption":      post.Content,
		"access_token": cred.AccessToken,
	}, domain.ErrPublishFailed, "create media", "Failed to create Instagram media container")
	if err != nil {
		return nil, err
	}

	creationID := container.Get("id").String()
	if creationID == "" {
		return nil, domain.NewProviderError(domain.ErrPublishFailed, domain.PlatformInstagram, "create media", "Instagram returned no media container id")
	}

	published, err := i.graph.post(ctx, "/"+igID+"/media_publish", map[string]string{
		"creation_id":  creationID,
		"access_token": cred.AccessToken,
	}, domain.ErrPublishFailed, "publish media", "Failed to publish Instagram media")
	if err != nil {
		return nil, err
	}

	mediaID := published.Get("id").String()
	return &domain.PublishResult{
		Success: true,
		PostID:  mediaID,
		URL:     i.permalink(ctx, mediaID, cred.AccessToken),
	}, nil
}

// permalink looks up the public URL of a published media. The post already
// exists at this point, so a failed lookup only leaves the URL empty.
func (i *Instagram) permalink(ctx context.Context, mediaID, accessToken string) string {
	if mediaID == "" {
		return ""
	}
	res, err := i.graph.get(ctx, "/"+mediaID, url.Values{
		"fields":       {"permalink"},
		"access_token": {accessToken},
	}, domain.ErrPublishFailed, "permalink", "")
	if err != nil {
		return ""
	}
	return res.Get("permalink").String()
}
