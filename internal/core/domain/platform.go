package domain

import "fmt"

// Platform identifies an OAuth provider the backend talks to
type Platform string

const (
	// Publishing platforms (per-user connections)
	PlatformLinkedIn  Platform = "linkedin"
	PlatformTwitter   Platform = "twitter"
	PlatformFacebook  Platform = "facebook"
	PlatformInstagram Platform = "instagram"

	// Identity provider used for end-user login only
	PlatformGoogle Platform = "google"
)

// Content length limits enforced before posting.
const (
	maxLinkedInContent  = 3000
	maxTwitterContent   = 280
	maxFacebookContent  = 63206
	maxInstagramCaption = 2200
)

// ConnectablePlatforms returns the platforms a user can connect for publishing,
// in the order they are reported by the connections endpoint.
func ConnectablePlatforms() []Platform {
	return []Platform{
		PlatformLinkedIn,
		PlatformTwitter,
		PlatformFacebook,
		PlatformInstagram,
	}
}

// ParsePlatform validates a raw platform name.
func ParsePlatform(raw string) (Platform, error) {
	p := Platform(raw)
	switch p {
	case PlatformLinkedIn, PlatformTwitter, PlatformFacebook, PlatformInstagram, PlatformGoogle:
		return p, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedPlatform, raw)
	}
}

// IsConnectable returns true if users can link this platform as a publishing account.
func (p Platform) IsConnectable() bool {
	for _, c := range ConnectablePlatforms() {
		if c == p {
			return true
		}
	}
	return false
}

// DisplayName returns a human-readable name for a platform.
func (p Platform) DisplayName() string {
	switch p {
	case PlatformLinkedIn:
		return "LinkedIn"
	case PlatformTwitter:
		return "Twitter"
	case PlatformFacebook:
		return "Facebook"
	case PlatformInstagram:
		return "Instagram"
	case PlatformGoogle:
		return "Google"
	default:
		return string(p)
	}
}

// MaxContentLength returns the number of characters the platform accepts in a post.
// Zero means no limit is applied.
func (p Platform) MaxContentLength() int {
	switch p {
	case PlatformLinkedIn:
		return maxLinkedInContent
	case PlatformTwitter:
		return maxTwitterContent
	case PlatformFacebook:
		return maxFacebookContent
	case PlatformInstagram:
		return maxInstagramCaption
	default:
		return 0
	}
}

// ClampContent truncates content to the platform limit, counting runes.
func (p Platform) ClampContent(content string) string {
	limit := p.MaxContentLength()
	if limit == 0 {
		return content
	}
	runes := []rune(content)
	if len(runes) <= limit {
		return content
	}
	return string(runes[:limit])
}
