package domain

// Post is content to publish on a connected platform.
type Post struct {
	UserID   string `json:"userId"`
	Content  string `json:"content"`
	MediaURL string `json:"mediaUrl,omitempty"`
}

// PublishResult is what a provider returns after a successful post.
type PublishResult struct {
	Success  bool   `json:"success"`
	PostID   string `json:"postId"`
	URL      string `json:"url,omitempty"`
	PageName string `json:"pageName,omitempty"`
}
