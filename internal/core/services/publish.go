package services

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/custodia-labs/ai2aim-core/internal/core/domain"
	"github.com/custodia-labs/ai2aim-core/internal/core/ports/driven"
	"github.com/custodia-labs/ai2aim-core/internal/core/ports/driving"
)

// Ensure publishService implements PublishService
var _ driving.PublishService = (*publishService)(nil)

// PublishServiceConfig holds configuration for the publish service.
type PublishServiceConfig struct {
	CredentialStore driven.CredentialStore
	Publishers      []driven.Publisher

	// ProviderTimeout bounds each publish call. Defaults to 10 seconds.
	ProviderTimeout time.Duration

	Logger *slog.Logger
}

type publishService struct {
	credentialStore driven.CredentialStore
	publishers      map[domain.Platform]driven.Publisher
	providerTimeout time.Duration
	logger          *slog.Logger
}

// NewPublishService creates a new publish service.
func NewPublishService(cfg PublishServiceConfig) driving.PublishService {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	timeout := cfg.ProviderTimeout
	if timeout <= 0 {
		timeout = DefaultProviderTimeout
	}
	publishers := make(map[domain.Platform]driven.Publisher, len(cfg.Publishers))
	for _, p := range cfg.Publishers {
		publishers[p.Platform()] = p
	}
	return &publishService{
		credentialStore: cfg.CredentialStore,
		publishers:      publishers,
		providerTimeout: timeout,
		logger:          logger,
	}
}

// Publish posts content for a user. The stored credential must be connected.
func (s *publishService) Publish(ctx context.Context, platform domain.Platform, post domain.Post) (*domain.PublishResult, error) {
	ctx, span := tracer.Start(ctx, "publish")
	defer span.End()
	span.SetAttributes(attribute.String("platform", string(platform)))

	if post.UserID == "" || strings.TrimSpace(post.Content) == "" {
		return nil, fmt.Errorf("%w: userId and content are required", domain.ErrMissingParameter)
	}
	if !platform.IsConnectable() {
		return nil, domain.ErrUnsupportedPlatform
	}
	publisher, ok := s.publishers[platform]
	if !ok {
		return nil, domain.ErrUnsupportedPlatform
	}

	cred, err := s.credentialStore.Get(ctx, post.UserID, platform)
	if err != nil {
		return nil, fmt.Errorf("get credential: %w", err)
	}
	if !cred.IsConnected() {
		return nil, domain.ErrNotConnected
	}

	post.Content = platform.ClampContent(post.Content)

	s.logger.Info("publishing post", "platform", string(platform), "user_id", post.UserID)

	publishCtx, cancel := context.WithTimeout(ctx, s.providerTimeout)
	defer cancel()
	result, err := publisher.Publish(publishCtx, cred, post)
	if err != nil {
		err = classifyProviderError(err, domain.ErrPublishFailed, platform, "publish")
		span.RecordError(err)
		span.SetStatus(codes.Error, domain.UserMessage(err))
		s.logger.Warn("publish failed", "platform", string(platform), "user_id", post.UserID, "error", err)
		return nil, err
	}

	s.logger.Info("post published", "platform", string(platform), "post_id", result.PostID)
	return result, nil
}

// ReconnectURL returns the route that restarts the connect flow.
func (s *publishService) ReconnectURL(platform domain.Platform, userID string) string {
	return "/auth/" + string(platform) + "?userId=" + url.QueryEscape(userID)
}
