package domain

// Identity is the authenticated end user returned by the Google login flow.
// It identifies the person using the dashboard, not a publishing account.
type Identity struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	Picture  string `json:"picture"`
	Provider string `json:"provider"`
}
