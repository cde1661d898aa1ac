package google

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ai2aim-core/internal/core/domain"
	"github.com/custodia-labs/ai2aim-core/internal/core/ports/driven"
)

func TestConnector_AuthCodeURL(t *testing.T) {
	c := New(Config{ClientID: "gid", ClientSecret: "gs", RedirectURL: "http://localhost:3001/auth/google/callback"}, nil)

	u, err := url.Parse(c.AuthCodeURL("st", ""))
	require.NoError(t, err)
	assert.Equal(t, "accounts.google.com", u.Host)
	q := u.Query()
	assert.Equal(t, "openid email profile", q.Get("scope"))
	assert.Equal(t, "offline", q.Get("access_type"))
	assert.Equal(t, "consent", q.Get("prompt"))
	assert.Equal(t, "st", q.Get("state"))
}

func TestConnector_NotConfigured(t *testing.T) {
	assert.False(t, New(Config{}, nil).Configured())
}

func TestConnector_ExchangeAndUserInfo(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /token", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "gid", r.PostForm.Get("client_id"))
		assert.Equal(t, "gs", r.PostForm.Get("client_secret"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token":"ya29","expires_in":3599,"token_type":"Bearer","id_token":"x"}`))
	})
	mux.HandleFunc("GET /userinfo", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer ya29", r.Header.Get("Authorization"))
		w.Write([]byte(`{"id":"g1","email":"jane@example.com","name":"Jane","picture":"https://img/jane"}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := New(Config{
		ClientID:     "gid",
		ClientSecret: "gs",
		TokenURL:     srv.URL + "/token",
		UserInfoURL:  srv.URL + "/userinfo",
	}, nil)

	token, err := c.ExchangeCode(context.Background(), "C", "")
	require.NoError(t, err)
	profile, err := c.FetchProfile(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, &driven.Profile{ID: "g1", Email: "jane@example.com", Name: "Jane", Picture: "https://img/jane"}, profile)
}

func TestConnector_UserInfoRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"code":401,"message":"Request had invalid authentication credentials."}}`))
	}))
	defer srv.Close()

	c := New(Config{ClientID: "gid", ClientSecret: "gs", UserInfoURL: srv.URL}, nil)
	_, err := c.FetchProfile(context.Background(), &driven.OAuthToken{AccessToken: "bad"})
	assert.ErrorIs(t, err, domain.ErrProfileFetchFailed)
	assert.Equal(t, "Request had invalid authentication credentials.", domain.UserMessage(err))
}
