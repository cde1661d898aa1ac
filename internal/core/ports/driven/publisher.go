package driven

import (
	"context"

	"github.com/custodia-labs/ai2aim-core/internal/core/domain"
)

// Publisher posts content to one platform using a stored credential.
type Publisher interface {
	// Platform returns the platform this publisher posts to.
	Platform() domain.Platform

	// Publish posts the content. The caller has already verified the credential
	// is connected and clamped the content to the platform limit.
	Publish(ctx context.Context, cred *domain.PlatformCredential, post domain.Post) (*domain.PublishResult, error)
}
