package llm

import (
	"context"
	"fmt"

	"ai-event-planner/internal/config"
	"ai-event-planner/internal/shared"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// geminiClient is a client for the Google Gemini API.
type geminiClient struct {
	client    *genai.Client
	model     *genai.GenerativeModel
	modelName string
}

// NewGeminiClient creates a new Gemini API client bound to cfg.GeminiModel.
func NewGeminiClient(ctx context.Context, cfg *config.Config) (Client, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.GeminiAPIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	modelName := cfg.GeminiModel
	if modelName == "" {
		modelName = config.DefaultGeminiModel
	}
	return &geminiClient{
		client:    client,
		model:     client.GenerativeModel(modelName),
		modelName: modelName,
	}, nil
}

// GenerateContent sends a single-turn prompt and returns the first candidate's first part.
func (c *geminiClient) GenerateContent(ctx context.Context, prompt string) (ContentResponse, error) {
	resp, err := c.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return ContentResponse{}, fmt.Errorf("failed to generate content: %w", err)
	}

	text, err := firstText(resp)
	if err != nil {
		return ContentResponse{Usage: usageOf(resp, c.modelName)}, err
	}
	return ContentResponse{
		Content: text,
		Usage:   usageOf(resp, c.modelName),
	}, nil
}

// Close closes the underlying Gemini client.
func (c *geminiClient) Close() error {
	return c.client.Close()
}

func firstText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", ErrNoCandidates
	}

	content := resp.Candidates[0].Content
	if content == nil || len(content.Parts) == 0 {
		return "", fmt.Errorf("first candidate has no content parts")
	}

	text, ok := content.Parts[0].(genai.Text)
	if !ok {
		return "", fmt.Errorf("generated content is not text (got %T)", content.Parts[0])
	}
	return string(text), nil
}

func usageOf(resp *genai.GenerateContentResponse, model string) shared.TokenUsage {
	usage := shared.TokenUsage{Model: model}
	if resp == nil || resp.UsageMetadata == nil {
		return usage
	}
	usage.PromptTokens = int(resp.UsageMetadata.PromptTokenCount)
	usage.CompletionTokens = int(resp.UsageMetadata.CandidatesTokenCount)
	usage.TotalTokens = int(resp.UsageMetadata.TotalTokenCount)
	return usage
}
