package services

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/custodia-labs/ai2aim-core/internal/core/domain"
)

// Frontend routes the browser lands on after a provider redirect.
const (
	connectRoute       = "/content-studio"
	loginCallbackRoute = "/auth/callback"
	loginErrorRoute    = "/login"
)

// RedirectController builds the frontend URLs the backend sends the browser to.
// Every callback outcome maps to one of these routes.
type RedirectController struct {
	frontendURL string
}

// NewRedirectController creates a controller for the given frontend base URL.
func NewRedirectController(frontendURL string) *RedirectController {
	return &RedirectController{frontendURL: strings.TrimRight(frontendURL, "/")}
}

// ConnectSuccess is the route after a platform connection succeeds.
func (c *RedirectController) ConnectSuccess(platform domain.Platform, displayName string) string {
	q := [][2]string{{"connected", string(platform)}}
	if displayName != "" {
		q = append(q, [2]string{"name", displayName})
	}
	return c.build(connectRoute, q)
}

// ConnectError is the route after a platform connection fails.
func (c *RedirectController) ConnectError(message string) string {
	return c.build(connectRoute, [][2]string{{"error", message}})
}

// LoginSuccess is the route after Google login. The identity is passed as JSON
// next to a signed token the frontend must verify before trusting it.
func (c *RedirectController) LoginSuccess(identity *domain.Identity, token string) (string, error) {
	payload, err := json.Marshal(identity)
	if err != nil {
		return "", fmt.Errorf("marshal identity: %w", err)
	}
	return c.build(loginCallbackRoute, [][2]string{
		{"user", string(payload)},
		{"token", token},
	}), nil
}

// LoginError is the route after Google login fails.
func (c *RedirectController) LoginError(message string) string {
	return c.build(loginErrorRoute, [][2]string{{"error", message}})
}

// build keeps parameter order stable and percent-encodes spaces as %20,
// which is what the frontend decodes with decodeURIComponent.
func (c *RedirectController) build(route string, params [][2]string) string {
	var b strings.Builder
	b.WriteString(c.frontendURL)
	b.WriteString(route)
	for i, kv := range params {
		if i == 0 {
			b.WriteByte('?')
		} else {
			b.WriteByte('&')
		}
		b.WriteString(kv[0])
		b.WriteByte('=')
		b.WriteString(encodeURIComponent(kv[1]))
	}
	return b.String()
}

func encodeURIComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
