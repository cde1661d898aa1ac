package driving

import (
	"context"

	"github.com/custodia-labs/ai2aim-core/internal/core/domain"
)

// ContentService generates social posts through the configured language model.
type ContentService interface {
	// Generate writes a post about req.Topic and scores it.
	Generate(ctx context.Context, req domain.GenerateRequest) (*domain.GeneratedContent, error)

	// Available returns true if a generator is configured.
	Available() bool
}
