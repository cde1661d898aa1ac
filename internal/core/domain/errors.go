package domain

import (
	"errors"
	"fmt"
)

// Domain errors - used across all layers
var (
	// ErrMissingParameter indicates a required request parameter was absent
	ErrMissingParameter = errors.New("missing parameter")

	// ErrInvalidState indicates the OAuth state token is unknown, expired or already used
	ErrInvalidState = errors.New("invalid state")

	// ErrProviderAuth indicates the provider redirected back with an OAuth error
	ErrProviderAuth = errors.New("provider authorization error")

	// ErrTokenExchangeFailed indicates the authorization code could not be exchanged
	ErrTokenExchangeFailed = errors.New("token exchange failed")

	// ErrProfileFetchFailed indicates the provider profile could not be loaded
	ErrProfileFetchFailed = errors.New("profile fetch failed")

	// ErrNotConnected indicates the user has no usable credential for the platform
	ErrNotConnected = errors.New("not connected")

	// ErrNoPagesFound indicates a Facebook credential has no Pages to post to
	ErrNoPagesFound = errors.New("no facebook pages found")

	// ErrNoBusinessAccount indicates no Instagram business account is linked
	ErrNoBusinessAccount = errors.New("no instagram business account found")

	// ErrMissingMedia indicates a platform requires a media URL that was not supplied
	ErrMissingMedia = errors.New("missing media")

	// ErrProviderUnavailable indicates the provider could not be reached in time
	ErrProviderUnavailable = errors.New("provider unavailable")

	// ErrPublishFailed indicates the provider rejected a post
	ErrPublishFailed = errors.New("publish failed")

	// ErrUnsupportedPlatform indicates an unknown platform name
	ErrUnsupportedPlatform = errors.New("unsupported platform")

	// ErrPlatformNotConfigured indicates the platform has no OAuth app credentials
	ErrPlatformNotConfigured = errors.New("platform not configured")

	// ErrGenerationFailed indicates the content generator returned an error
	ErrGenerationFailed = errors.New("content generation failed")

	// ErrGeneratorAuth indicates the language model rejected the API key
	ErrGeneratorAuth = errors.New("content generator authentication failed")

	// ErrGeneratorQuota indicates the language model quota is exhausted or rate limited
	ErrGeneratorQuota = errors.New("content generator quota exceeded")

	// ErrGeneratorNotConfigured indicates no language model API key is set
	ErrGeneratorNotConfigured = errors.New("content generator not configured")

	// ErrTokenInvalid indicates a signed identity token is malformed, forged or expired
	ErrTokenInvalid = errors.New("token invalid")

	// ErrUnknown is used when no other classification applies
	ErrUnknown = errors.New("unknown error")
)

// ProviderError describes a failure reported by (or while talking to) a provider.
// Message is safe to show to end users: it never contains tokens or secrets.
type ProviderError struct {
	// Kind is one of the sentinel errors above
	Kind error

	Platform Platform

	// Op names the protocol step, e.g. "token exchange" or "publish media"
	Op string

	Message string

	// StatusCode is the provider HTTP status, zero when unknown
	StatusCode int
}

func (e *ProviderError) Error() string {
	prefix := string(e.Platform)
	if e.Op != "" {
		prefix += " " + e.Op
	}
	if e.Message == "" {
		return prefix
	}
	return fmt.Sprintf("%s: %s", prefix, e.Message)
}

func (e *ProviderError) Unwrap() error {
	return e.Kind
}

// NewProviderError builds a ProviderError.
func NewProviderError(kind error, platform Platform, op, message string) *ProviderError {
	return &ProviderError{Kind: kind, Platform: platform, Op: op, Message: message}
}

// UserMessage returns the text shown to end users for an error.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}

	var perr *ProviderError
	if errors.As(err, &perr) && perr.Message != "" {
		return perr.Message
	}

	switch {
	case errors.Is(err, ErrInvalidState):
		return "Invalid state"
	case errors.Is(err, ErrNotConnected):
		return "Not connected"
	case errors.Is(err, ErrNoPagesFound):
		return "No Facebook Pages found. Create a Page first."
	case errors.Is(err, ErrNoBusinessAccount):
		return "No Instagram Business Account found"
	case errors.Is(err, ErrMissingMedia):
		return "Instagram requires an image URL"
	case errors.Is(err, ErrProviderUnavailable):
		return "Provider is unavailable, please try again"
	case errors.Is(err, ErrTokenExchangeFailed):
		return "Failed to exchange authorization code"
	case errors.Is(err, ErrProfileFetchFailed):
		return "Failed to fetch profile"
	case errors.Is(err, ErrPlatformNotConfigured):
		return "Platform is not configured"
	case errors.Is(err, ErrUnsupportedPlatform):
		return "Unsupported platform"
	case errors.Is(err, ErrMissingParameter):
		return err.Error()
	default:
		return "Something went wrong"
	}
}
