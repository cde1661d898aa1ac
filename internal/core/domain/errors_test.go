package domain

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestErrorsAreDistinct(t *testing.T) {
	allErrors := []error{
		ErrMissingParameter,
		ErrInvalidState,
		ErrProviderAuth,
		ErrTokenExchangeFailed,
		ErrProfileFetchFailed,
		ErrNotConnected,
		ErrNoPagesFound,
		ErrNoBusinessAccount,
		ErrMissingMedia,
		ErrProviderUnavailable,
		ErrPublishFailed,
		ErrUnsupportedPlatform,
		ErrPlatformNotConfigured,
		ErrGenerationFailed,
		ErrTokenInvalid,
		ErrUnknown,
	}

	for i, a := range allErrors {
		for j, b := range allErrors {
			if i != j && errors.Is(a, b) {
				t.Errorf("expected %v and %v to be distinct", a, b)
			}
		}
	}
}

func TestProviderError_Unwrap(t *testing.T) {
	err := NewProviderError(ErrTokenExchangeFailed, PlatformLinkedIn, "token exchange", "The authorization code expired")

	if !errors.Is(err, ErrTokenExchangeFailed) {
		t.Error("expected ProviderError to unwrap to its kind")
	}

	wrapped := fmt.Errorf("callback: %w", err)
	var perr *ProviderError
	if !errors.As(wrapped, &perr) {
		t.Fatal("expected errors.As to find ProviderError")
	}
	if perr.Platform != PlatformLinkedIn {
		t.Errorf("expected linkedin, got %s", perr.Platform)
	}
	if !strings.Contains(err.Error(), "token exchange") {
		t.Errorf("expected op in error text, got %q", err.Error())
	}
}

func TestProviderError_ErrorWithoutMessage(t *testing.T) {
	err := &ProviderError{Kind: ErrProviderUnavailable, Platform: PlatformFacebook, Op: "token exchange"}
	if got := err.Error(); got != "facebook token exchange" {
		t.Errorf("expected %q, got %q", "facebook token exchange", got)
	}

	err = &ProviderError{Kind: ErrProviderUnavailable, Platform: PlatformTwitter}
	if got := err.Error(); got != "twitter" {
		t.Errorf("expected %q, got %q", "twitter", got)
	}

	err = NewProviderError(ErrPublishFailed, PlatformTwitter, "", "Duplicate content")
	if got := err.Error(); got != "twitter: Duplicate content" {
		t.Errorf("expected %q, got %q", "twitter: Duplicate content", got)
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"invalid state", ErrInvalidState, "Invalid state"},
		{"wrapped invalid state", fmt.Errorf("redeem: %w", ErrInvalidState), "Invalid state"},
		{"provider message wins", NewProviderError(ErrPublishFailed, PlatformInstagram, "publish media", "Media ID is not available"), "Media ID is not available"},
		{"provider error without message", NewProviderError(ErrProviderUnavailable, PlatformTwitter, "token exchange", ""), "Provider is unavailable, please try again"},
		{"no pages", ErrNoPagesFound, "No Facebook Pages found. Create a Page first."},
		{"unknown", errors.New("boom"), "Something went wrong"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UserMessage(tt.err); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}
