package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 3001, cfg.Port)
	assert.Equal(t, "http://localhost:3000", cfg.FrontendURL)
	assert.Equal(t, "http://localhost:3001", cfg.PublicBaseURL)
	assert.Equal(t, 10*time.Minute, cfg.StateTTL)
	assert.Equal(t, 10*time.Second, cfg.ProviderTimeout)
	assert.Equal(t, 5*time.Minute, cfg.IdentityTokenTTL)
	assert.Equal(t, "gpt-4o-mini", cfg.OpenAI.Model)
	assert.Equal(t, "http://localhost:3001/auth/linkedin/callback", cfg.LinkedIn.RedirectURI)
	assert.Equal(t, "http://localhost:3001/auth/instagram/callback", cfg.Meta.InstagramRedirectURI)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORSOrigins)
	assert.Equal(t, BackendMemory, cfg.CredentialBackend())
	assert.Equal(t, BackendMemory, cfg.StateBackend())
	assert.False(t, cfg.LinkedIn.Configured())
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("PUBLIC_BASE_URL", "https://api.example.com/")
	t.Setenv("FRONTEND_URL", "https://app.example.com/")
	t.Setenv("CORS_ORIGINS", "https://app.example.com, http://localhost:5173,")
	t.Setenv("STATE_TTL", "2m")
	t.Setenv("TWITTER_CLIENT_ID", "tw-id")
	t.Setenv("TWITTER_CLIENT_SECRET", "tw-secret")
	t.Setenv("TWITTER_REDIRECT_URI", "https://custom/callback")
	t.Setenv("META_APP_ID", "meta-id")
	t.Setenv("META_APP_SECRET", "meta-secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "https://app.example.com", cfg.FrontendURL)
	assert.Equal(t, 2*time.Minute, cfg.StateTTL)
	assert.True(t, cfg.Twitter.Configured())
	assert.Equal(t, "https://custom/callback", cfg.Twitter.RedirectURI)
	assert.Equal(t, "https://api.example.com/auth/facebook/callback", cfg.Meta.FacebookRedirectURI)
	assert.Equal(t, "meta-id", cfg.Meta.AppID)
	assert.Equal(t, []string{"https://app.example.com", "http://localhost:5173"}, cfg.CORSOrigins)
}

func TestBackends(t *testing.T) {
	tests := []struct {
		name           string
		databaseURL    string
		redisURL       string
		wantCredential string
		wantState      string
	}{
		{"memory", "", "", BackendMemory, BackendMemory},
		{"redis only", "", "redis://localhost:6379", BackendRedis, BackendRedis},
		{"postgres only", "postgres://localhost/db", "", BackendPostgres, BackendPostgres},
		{"both", "postgres://localhost/db", "redis://localhost:6379", BackendPostgres, BackendRedis},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{DatabaseURL: tt.databaseURL, RedisURL: tt.redisURL}
			assert.Equal(t, tt.wantCredential, cfg.CredentialBackend())
			assert.Equal(t, tt.wantState, cfg.StateBackend())
		})
	}
}

func TestLoad_Invalid(t *testing.T) {
	t.Run("bad duration", func(t *testing.T) {
		t.Setenv("PROVIDER_TIMEOUT", "soon")
		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("bad port", func(t *testing.T) {
		t.Setenv("PORT", "70000")
		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("zero ttl", func(t *testing.T) {
		t.Setenv("STATE_TTL", "0s")
		_, err := Load()
		assert.Error(t, err)
	})
}
