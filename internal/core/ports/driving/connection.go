package driving

import (
	"context"

	"github.com/custodia-labs/ai2aim-core/internal/core/domain"
)

// ConnectionService reports and removes a user's platform connections.
type ConnectionService interface {
	// List returns the connected flag for every publishing platform.
	List(ctx context.Context, userID string) (domain.Connections, error)

	// Disconnect removes the stored credential for one platform.
	Disconnect(ctx context.Context, userID string, platform domain.Platform) error
}
