// Package config loads the server configuration from environment variables.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Storage backends selected from the configured URLs.
const (
	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

// Config is the complete server configuration.
type Config struct {
	Port          int      `env:"PORT"            envDefault:"3001"`
	PublicBaseURL string   `env:"PUBLIC_BASE_URL"`
	FrontendURL   string   `env:"FRONTEND_URL"    envDefault:"http://localhost:3000"`
	CORSOrigins   []string `env:"CORS_ORIGINS"    envSeparator:","`

	DatabaseURL string `env:"DATABASE_URL"`
	RedisURL    string `env:"REDIS_URL"`

	// SecretKey derives the credential encryption key and the identity
	// token signing key. A random key is generated when empty.
	SecretKey string `env:"SECRET_KEY"`

	StateTTL         time.Duration `env:"STATE_TTL"          envDefault:"10m"`
	ProviderTimeout  time.Duration `env:"PROVIDER_TIMEOUT"   envDefault:"10s"`
	IdentityTokenTTL time.Duration `env:"IDENTITY_TOKEN_TTL" envDefault:"5m"`
	JanitorInterval  time.Duration `env:"STATE_SWEEP_INTERVAL" envDefault:"5m"`

	LinkedIn Provider `envPrefix:"LINKEDIN_"`
	Twitter  Provider `envPrefix:"TWITTER_"`
	Google   Provider `envPrefix:"GOOGLE_"`
	Meta     Meta     `envPrefix:"META_"`

	OpenAI OpenAI `envPrefix:"OPENAI_"`

	OTelEndpoint string `env:"OTEL_ENDPOINT"`
	LogLevel     string `env:"LOG_LEVEL" envDefault:"info"`
}

// Provider holds one OAuth client registration.
type Provider struct {
	ClientID     string `env:"CLIENT_ID"`
	ClientSecret string `env:"CLIENT_SECRET"`
	RedirectURI  string `env:"REDIRECT_URI"`
}

// Configured returns true if client credentials are present.
func (p Provider) Configured() bool {
	return p.ClientID != "" && p.ClientSecret != ""
}

// Meta holds the app shared by Facebook and Instagram.
type Meta struct {
	AppID                string `env:"APP_ID"`
	AppSecret            string `env:"APP_SECRET"`
	FacebookRedirectURI  string `env:"FACEBOOK_REDIRECT_URI"`
	InstagramRedirectURI string `env:"INSTAGRAM_REDIRECT_URI"`
}

// OpenAI configures the content generator.
type OpenAI struct {
	APIKey  string `env:"API_KEY"`
	Model   string `env:"MODEL"    envDefault:"gpt-4o-mini"`
	BaseURL string `env:"BASE_URL" envDefault:"https://api.openai.com/v1"`
}

// Load parses the environment and fills derived defaults.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.finish(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) finish() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid PORT %d", c.Port)
	}
	if c.StateTTL <= 0 {
		return fmt.Errorf("STATE_TTL must be positive")
	}
	if c.ProviderTimeout <= 0 {
		return fmt.Errorf("PROVIDER_TIMEOUT must be positive")
	}

	c.FrontendURL = strings.TrimRight(c.FrontendURL, "/")
	if c.PublicBaseURL == "" {
		c.PublicBaseURL = fmt.Sprintf("http://localhost:%d", c.Port)
	}
	c.PublicBaseURL = strings.TrimRight(c.PublicBaseURL, "/")

	setDefault(&c.LinkedIn.RedirectURI, c.callbackURL("linkedin"))
	setDefault(&c.Twitter.RedirectURI, c.callbackURL("twitter"))
	setDefault(&c.Google.RedirectURI, c.callbackURL("google"))
	setDefault(&c.Meta.FacebookRedirectURI, c.callbackURL("facebook"))
	setDefault(&c.Meta.InstagramRedirectURI, c.callbackURL("instagram"))

	c.CORSOrigins = allowedOrigins(c.FrontendURL, c.CORSOrigins)
	return nil
}

func (c *Config) callbackURL(platform string) string {
	return c.PublicBaseURL + "/auth/" + platform + "/callback"
}

// CredentialBackend is where connected credentials are stored.
func (c *Config) CredentialBackend() string {
	switch {
	case c.DatabaseURL != "":
		return BackendPostgres
	case c.RedisURL != "":
		return BackendRedis
	default:
		return BackendMemory
	}
}

// StateBackend is where OAuth states are stored. Redis wins over Postgres
// for short-lived states when both are configured.
func (c *Config) StateBackend() string {
	switch {
	case c.RedisURL != "":
		return BackendRedis
	case c.DatabaseURL != "":
		return BackendPostgres
	default:
		return BackendMemory
	}
}

func setDefault(target *string, value string) {
	if *target == "" {
		*target = value
	}
}

// allowedOrigins puts the frontend first and drops blanks and duplicates.
func allowedOrigins(frontend string, extra []string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, o := range append([]string{frontend}, extra...) {
		o = strings.TrimRight(strings.TrimSpace(o), "/")
		if o == "" || seen[o] {
			continue
		}
		seen[o] = true
		out = append(out, o)
	}
	return out
}
