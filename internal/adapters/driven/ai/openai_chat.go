package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/custodia-labs/ai2aim-core/internal/core/domain"
	"github.com/custodia-labs/ai2aim-core/internal/core/ports/driven"
)

// Ensure OpenAIChat implements ContentGenerator
var _ driven.ContentGenerator = (*OpenAIChat)(nil)

const (
	defaultOpenAIModel   = "gpt-4o-mini"
	defaultOpenAIBaseURL = "https://api.openai.com/v1"
	defaultMaxTokens     = 1000
	defaultTemperature   = 0.7
)

// OpenAIChat implements ContentGenerator using OpenAI's chat completions API
type OpenAIChat struct {
	apiKey      string
	model       string
	baseURL     string
	maxTokens   int
	temperature float64
	client      *http.Client
}

// NewOpenAIChat creates a new OpenAI chat content generator
func NewOpenAIChat(apiKey, model, baseURL string) (*OpenAIChat, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	if model == "" {
		model = defaultOpenAIModel
	}

	if baseURL == "" {
		baseURL = defaultOpenAIBaseURL
	}

	return &OpenAIChat{
		apiKey:      apiKey,
		model:       model,
		baseURL:     strings.TrimSuffix(baseURL, "/"),
		maxTokens:   defaultMaxTokens,
		temperature: defaultTemperature,
		client: &http.Client{
			Timeout: 60 * time.Second,
		},
	}, nil
}

// chatMessage is a single message in a chat completion request
type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatRequest is the request body for OpenAI chat completions
type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

// chatResponse is the response from OpenAI chat completions
type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    string `json:"code"`
	} `json:"error,omitempty"`
}

// Generate returns the first completion choice for the prompts
func (c *OpenAIChat) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	reqBody := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
	}

	resp, err := c.doRequest(ctx, reqBody)
	if err != nil {
		return "", err
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: no completion returned", domain.ErrGenerationFailed)
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// Model returns the model name being used
func (c *OpenAIChat) Model() string {
	return c.model
}

// Close releases idle connections
func (c *OpenAIChat) Close() error {
	c.client.CloseIdleConnections()
	return nil
}

// doRequest makes a request to the chat completions API
func (c *OpenAIChat) doRequest(ctx context.Context, reqBody chatRequest) (*chatResponse, error) {
	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: request failed: %v", domain.ErrGenerationFailed, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response: %v", domain.ErrGenerationFailed, err)
	}

	var chatResp chatResponse
	if err := json.Unmarshal(respBody, &chatResp); err != nil && resp.StatusCode == http.StatusOK {
		return nil, fmt.Errorf("%w: failed to parse response: %v", domain.ErrGenerationFailed, err)
	}

	if chatResp.Error != nil || resp.StatusCode != http.StatusOK {
		message := fmt.Sprintf("OpenAI API returned status %d", resp.StatusCode)
		if chatResp.Error != nil && chatResp.Error.Message != "" {
			message = chatResp.Error.Message
		}
		return nil, fmt.Errorf("%w: %s", classifyStatus(resp.StatusCode, message), message)
	}

	return &chatResp, nil
}

// classifyStatus maps an OpenAI failure to the domain error the API reports.
// Quota errors sometimes arrive with a non-429 status, so the message is checked too.
func classifyStatus(status int, message string) error {
	lower := strings.ToLower(message)
	switch {
	case status == http.StatusUnauthorized:
		return domain.ErrGeneratorAuth
	case status == http.StatusTooManyRequests,
		strings.Contains(lower, "quota"),
		strings.Contains(lower, "rate limit"):
		return domain.ErrGeneratorQuota
	default:
		return domain.ErrGenerationFailed
	}
}
