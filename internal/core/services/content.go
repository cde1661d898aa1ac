package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/custodia-labs/ai2aim-core/internal/core/domain"
	"github.com/custodia-labs/ai2aim-core/internal/core/ports/driven"
	"github.com/custodia-labs/ai2aim-core/internal/core/ports/driving"
)

// Ensure contentService implements ContentService
var _ driving.ContentService = (*contentService)(nil)

const contentSystemPrompt = `You are an expert content writer and SEO specialist. Create engaging, professional content optimized for social media.

Your content should:
- Be informative, engaging, and valuable
- Include relevant keywords naturally
- End with a call-to-action
- Include 3-5 relevant hashtags
- Be optimized for %s

DO NOT use markdown formatting. Write in plain text only.
Keep content between 200-400 words.`

type contentService struct {
	generator driven.ContentGenerator
	logger    *slog.Logger
}

// NewContentService creates a new content service. generator may be nil when
// no language model is configured.
func NewContentService(generator driven.ContentGenerator, logger *slog.Logger) driving.ContentService {
	if logger == nil {
		logger = slog.Default()
	}
	return &contentService{generator: generator, logger: logger}
}

// Available returns true if a generator is configured.
func (s *contentService) Available() bool {
	return s.generator != nil
}

// Generate writes a post about the topic and scores it.
func (s *contentService) Generate(ctx context.Context, req domain.GenerateRequest) (*domain.GeneratedContent, error) {
	topic := strings.TrimSpace(req.Topic)
	if topic == "" {
		return nil, fmt.Errorf("%w: topic is required", domain.ErrMissingParameter)
	}
	if s.generator == nil {
		return nil, domain.ErrGeneratorNotConfigured
	}

	platform := req.Platform
	if platform == "" {
		platform = domain.PlatformLinkedIn
	}
	seo := req.SEOOptimized == nil || *req.SEOOptimized

	ctx, span := tracer.Start(ctx, "content.generate")
	defer span.End()

	s.logger.Info("generating content", "platform", string(platform), "model", s.generator.Model())

	text, err := s.generator.Generate(ctx, fmt.Sprintf(contentSystemPrompt, platform), userPrompt(platform, topic, seo))
	if err != nil {
		span.RecordError(err)
		s.logger.Error("content generation failed", "error", err)
		if errors.Is(err, domain.ErrGeneratorAuth) || errors.Is(err, domain.ErrGeneratorQuota) || errors.Is(err, domain.ErrGenerationFailed) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrGenerationFailed, err)
	}

	return domain.ScoreContent(topic, text), nil
}

func userPrompt(platform domain.Platform, topic string, seo bool) string {
	if seo {
		return fmt.Sprintf("Write an SEO-optimized %s post about: %q", platform, topic)
	}
	return fmt.Sprintf("Write a %s post about: %q", platform, topic)
}
