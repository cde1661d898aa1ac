package connectors

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ai2aim-core/internal/core/domain"
	"github.com/custodia-labs/ai2aim-core/internal/core/ports/driven"
)

type fakeConnector struct {
	platform   domain.Platform
	configured bool
}

func (f *fakeConnector) Platform() domain.Platform { return f.platform }
func (f *fakeConnector) Configured() bool          { return f.configured }
func (f *fakeConnector) UsesPKCE() bool            { return false }
func (f *fakeConnector) AuthCodeURL(state, _ string) string {
	return "https://example.com/?state=" + state
}
func (f *fakeConnector) ExchangeCode(context.Context, string, string) (*driven.OAuthToken, error) {
	return nil, nil
}
func (f *fakeConnector) FetchProfile(context.Context, *driven.OAuthToken) (*driven.Profile, error) {
	return nil, nil
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	r.Register(&fakeConnector{platform: domain.PlatformTwitter, configured: true})
	r.Register(&fakeConnector{platform: domain.PlatformLinkedIn})

	assert.Equal(t, []domain.Platform{domain.PlatformLinkedIn, domain.PlatformTwitter}, r.Platforms())
	assert.NotNil(t, r.Get(domain.PlatformTwitter))
	assert.Nil(t, r.Get(domain.PlatformFacebook))
	assert.True(t, r.Configured(domain.PlatformTwitter))
	assert.False(t, r.Configured(domain.PlatformLinkedIn))
	assert.False(t, r.Configured(domain.PlatformGoogle))
}

func TestErrorMessage(t *testing.T) {
	tests := []struct {
		body string
		want string
	}{
		{`{"error":{"message":"Invalid OAuth access token.","code":190}}`, "Invalid OAuth access token."},
		{`{"error":"invalid_grant","error_description":"Code expired"}`, "Code expired"},
		{`{"title":"Unauthorized","detail":"Unauthorized","type":"about:blank"}`, "Unauthorized"},
		{`{"message":"Resource not found"}`, "Resource not found"},
		{`not json`, "fallback"},
		{`{}`, "fallback"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ErrorMessage([]byte(tt.body), "fallback"), tt.body)
	}
}

func TestDo_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(time.Second):
		}
	}))
	defer srv.Close()

	client := NewHTTPClient(20 * time.Millisecond)
	req, _ := http.NewRequest(http.MethodGet, srv.URL, nil)

	_, err := Do(client, req, domain.PlatformTwitter, "profile")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrProviderUnavailable))
	assert.Equal(t, "Provider is unavailable, please try again", domain.UserMessage(err))
}

func TestTransportError_DropsRequestURL(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/me?access_token=user-token-value", nil)
	_, err := Do(NewHTTPClient(0), req, domain.PlatformFacebook, "profile")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrProviderUnavailable))
	assert.NotContains(t, err.Error(), "user-token-value")
	assert.NotContains(t, err.Error(), srv.URL)
	assert.Contains(t, err.Error(), "facebook profile: Get")
}

func TestDo_ReadsBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"detail":"bad"}`))
	}))
	defer srv.Close()

	req, _ := http.NewRequest(http.MethodGet, srv.URL, nil)
	resp, err := Do(NewHTTPClient(0), req, domain.PlatformTwitter, "profile")
	require.NoError(t, err)
	assert.False(t, resp.OK())

	perr := APIError(domain.ErrPublishFailed, domain.PlatformTwitter, "publish", resp, "Failed to post")
	assert.Equal(t, "bad", perr.Message)
	assert.Equal(t, http.StatusBadRequest, perr.StatusCode)
	assert.ErrorIs(t, perr, domain.ErrPublishFailed)
}
