package domain

import "time"

// PlatformCredential is the stored connection of one user to one platform.
// It is owned by a single (userID, platform) pair and is overwritten on reconnect.
type PlatformCredential struct {
	Platform Platform `json:"platform"`

	// OAuth2 tokens (never exposed through the API)
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	TokenType    string `json:"token_type,omitempty"`
	Scope        string `json:"scope,omitempty"`
	ExpiresIn    int64  `json:"expires_in,omitempty"` // Seconds, as reported by the provider

	// Profile metadata
	ProfileID      string `json:"profile_id,omitempty"`
	ProfileName    string `json:"profile_name,omitempty"`
	Username       string `json:"username,omitempty"`
	ProfilePicture string `json:"profile_picture,omitempty"`

	// Facebook / Instagram extras
	Pages              []FacebookPage `json:"pages,omitempty"`
	InstagramAccountID string         `json:"instagram_account_id,omitempty"`

	ConnectedAt time.Time `json:"connected_at"`
}

// FacebookPage is a Page the user manages, as returned by /me/accounts.
type FacebookPage struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	AccessToken string `json:"access_token,omitempty"`
	Category    string `json:"category,omitempty"`
}

// IsConnected returns true if the credential holds a usable access token.
func (c *PlatformCredential) IsConnected() bool {
	return c != nil && c.AccessToken != ""
}

// ExpiresAt returns when the access token expires, or nil if the provider did not say.
func (c *PlatformCredential) ExpiresAt() *time.Time {
	if c == nil || c.ExpiresIn <= 0 || c.ConnectedAt.IsZero() {
		return nil
	}
	t := c.ConnectedAt.Add(time.Duration(c.ExpiresIn) * time.Second)
	return &t
}

// IsExpired returns true if the access token has expired.
func (c *PlatformCredential) IsExpired() bool {
	exp := c.ExpiresAt()
	if exp == nil {
		return false
	}
	return time.Now().After(*exp)
}

// DisplayName returns the account label shown on the frontend after connecting.
func (c *PlatformCredential) DisplayName() string {
	if c == nil {
		return ""
	}
	if c.Platform == PlatformTwitter && c.Username != "" {
		return "@" + c.Username
	}
	if c.ProfileName != "" {
		return c.ProfileName
	}
	return c.Username
}

// PrimaryPage returns the first managed Facebook Page, or nil if there is none.
func (c *PlatformCredential) PrimaryPage() *FacebookPage {
	if c == nil || len(c.Pages) == 0 {
		return nil
	}
	return &c.Pages[0]
}

// Connections reports which publishing platforms a user has connected.
type Connections map[Platform]bool

// NewConnections builds a Connections map with every connectable platform set to false.
func NewConnections() Connections {
	conns := make(Connections, len(ConnectablePlatforms()))
	for _, p := range ConnectablePlatforms() {
		conns[p] = false
	}
	return conns
}
