package llm

import (
	"context"
	"fmt"

	"ai-event-planner/internal/config"
	"ai-event-planner/internal/shared"

	"github.com/sashabaranov/go-openai"
)

// openAIClient talks to any OpenAI-compatible chat completions endpoint (Groq by default).
type openAIClient struct {
	client *openai.Client
	model  string
}

// NewOpenAIClient creates a client for the endpoint at baseURL.
func NewOpenAIClient(apiKey, baseURL, model string) Client {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL == "" {
		baseURL = config.DefaultGroqBaseURL
	}
	cfg.BaseURL = baseURL
	if model == "" {
		model = config.DefaultGroqModel
	}
	return &openAIClient{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}
}

// GenerateContent sends the prompt as a single user message.
func (c *openAIClient) GenerateContent(ctx context.Context, prompt string) (ContentResponse, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
	})
	if err != nil {
		return ContentResponse{}, fmt.Errorf("failed to generate content: %w", err)
	}

	usage := shared.TokenUsage{
		PromptTokens:     resp.Usage.PromptTokens,
		CompletionTokens: resp.Usage.CompletionTokens,
		TotalTokens:      resp.Usage.TotalTokens,
		Model:            c.model,
	}
	if len(resp.Choices) == 0 {
		return ContentResponse{Usage: usage}, ErrNoCandidates
	}
	return ContentResponse{
		Content: resp.Choices[0].Message.Content,
		Usage:   usage,
	}, nil
}

// Close is a no-op; the underlying HTTP client needs no teardown.
func (c *openAIClient) Close() error {
	return nil
}
