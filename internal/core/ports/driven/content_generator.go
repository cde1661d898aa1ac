package driven

import (
	"context"
)

// ContentGenerator produces post text from prompts using a large language model.
type ContentGenerator interface {
	// Generate returns the model completion for the given prompts.
	Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error)

	// Model returns the model name being used
	Model() string
}
