package domain

import (
	"errors"
	"strings"
	"testing"
)

func TestParsePlatform(t *testing.T) {
	tests := []struct {
		raw     string
		want    Platform
		wantErr bool
	}{
		{"linkedin", PlatformLinkedIn, false},
		{"twitter", PlatformTwitter, false},
		{"facebook", PlatformFacebook, false},
		{"instagram", PlatformInstagram, false},
		{"google", PlatformGoogle, false},
		{"myspace", "", true},
		{"", "", true},
		{"LinkedIn", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := ParsePlatform(tt.raw)
			if tt.wantErr {
				if !errors.Is(err, ErrUnsupportedPlatform) {
					t.Fatalf("expected ErrUnsupportedPlatform, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestConnectablePlatforms(t *testing.T) {
	platforms := ConnectablePlatforms()
	if len(platforms) != 4 {
		t.Fatalf("expected 4 connectable platforms, got %d", len(platforms))
	}
	for _, p := range platforms {
		if !p.IsConnectable() {
			t.Errorf("expected %s to be connectable", p)
		}
	}
	if PlatformGoogle.IsConnectable() {
		t.Error("google is a login provider, not a publishing connection")
	}
}

func TestClampContent(t *testing.T) {
	long := strings.Repeat("a", 300)

	got := PlatformTwitter.ClampContent(long)
	if len([]rune(got)) != 280 {
		t.Errorf("expected 280 characters, got %d", len([]rune(got)))
	}

	if PlatformLinkedIn.ClampContent(long) != long {
		t.Error("linkedin should not truncate 300 characters")
	}

	emoji := strings.Repeat("🚀", 281)
	clamped := PlatformTwitter.ClampContent(emoji)
	if n := len([]rune(clamped)); n != 280 {
		t.Errorf("expected clamp to count runes, got %d", n)
	}

	if PlatformGoogle.ClampContent(long) != long {
		t.Error("platforms without a limit should return content unchanged")
	}
}

func TestPlatformDisplayName(t *testing.T) {
	if PlatformTwitter.DisplayName() != "Twitter" {
		t.Errorf("unexpected display name %q", PlatformTwitter.DisplayName())
	}
	if Platform("custom").DisplayName() != "custom" {
		t.Error("unknown platforms should use their raw name")
	}
}
