package driving

import (
	"context"

	"github.com/custodia-labs/ai2aim-core/internal/core/domain"
)

// PublishService posts content to connected platforms.
type PublishService interface {
	// Publish posts to a platform on behalf of post.UserID.
	// Returns domain.ErrNotConnected when the user has no usable credential.
	Publish(ctx context.Context, platform domain.Platform, post domain.Post) (*domain.PublishResult, error)

	// ReconnectURL returns the relative URL that starts the connect flow again.
	ReconnectURL(platform domain.Platform, userID string) string
}
