package ai

import (
	"github.com/custodia-labs/ai2aim-core/internal/core/ports/driven"
)

// Settings selects the language model used for content generation
type Settings struct {
	APIKey  string
	Model   string
	BaseURL string
}

// IsConfigured returns true if an API key is present
func (s Settings) IsConfigured() bool {
	return s.APIKey != ""
}

// NewContentGenerator creates a content generator from settings.
// Returns nil without error when no API key is configured.
func NewContentGenerator(settings Settings) (driven.ContentGenerator, error) {
	if !settings.IsConfigured() {
		return nil, nil
	}
	return NewOpenAIChat(settings.APIKey, settings.Model, settings.BaseURL)
}
