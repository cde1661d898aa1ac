package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/custodia-labs/ai2aim-core/internal/core/domain"
	"github.com/custodia-labs/ai2aim-core/internal/core/ports/driven"
	"github.com/custodia-labs/ai2aim-core/internal/core/ports/driving"
)

// Ensure connectionService implements ConnectionService
var _ driving.ConnectionService = (*connectionService)(nil)

type connectionService struct {
	credentialStore driven.CredentialStore
	logger          *slog.Logger
}

// NewConnectionService creates a new connection service.
func NewConnectionService(credentialStore driven.CredentialStore, logger *slog.Logger) driving.ConnectionService {
	if logger == nil {
		logger = slog.Default()
	}
	return &connectionService{credentialStore: credentialStore, logger: logger}
}

// List returns the connection flag of every publishing platform.
// Users that never connected anything get all flags false.
func (s *connectionService) List(ctx context.Context, userID string) (domain.Connections, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: userId is required", domain.ErrMissingParameter)
	}

	creds, err := s.credentialStore.GetAll(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get credentials: %w", err)
	}

	conns := domain.NewConnections()
	for platform := range conns {
		conns[platform] = creds[platform].IsConnected()
	}
	return conns, nil
}

// Disconnect removes the stored credential for a platform.
func (s *connectionService) Disconnect(ctx context.Context, userID string, platform domain.Platform) error {
	if userID == "" {
		return fmt.Errorf("%w: userId is required", domain.ErrMissingParameter)
	}
	if !platform.IsConnectable() {
		return domain.ErrUnsupportedPlatform
	}

	if err := s.credentialStore.Remove(ctx, userID, platform); err != nil {
		return fmt.Errorf("remove credential: %w", err)
	}
	s.logger.Info("platform disconnected", "platform", string(platform), "user_id", userID)
	return nil
}
