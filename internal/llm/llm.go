package llm

import (
	"context"
	"errors"
	"fmt"

	"ai-event-planner/internal/config"
	"ai-event-planner/internal/shared"
)

// ErrNoCandidates is returned when the call succeeded but the model produced no candidate.
var ErrNoCandidates = errors.New("no candidates in model response")

// ContentResponse contains the generated text and metadata like token usage.
type ContentResponse struct {
	Content string
	Usage   shared.TokenUsage
}

// TextGenerator is an interface for generating text from a single-turn prompt.
type TextGenerator interface {
	GenerateContent(ctx context.Context, prompt string) (ContentResponse, error)
}

// Closer is an interface for closing resources.
type Closer interface {
	Close() error
}

// Client is a TextGenerator that owns network resources.
type Client interface {
	TextGenerator
	Closer
}

// New builds the client for the configured provider. It is created once per process and
// shared by every session.
func New(ctx context.Context, cfg *config.Config) (Client, error) {
	switch cfg.Provider {
	case config.ProviderGemini, "":
		return NewGeminiClient(ctx, cfg)
	case config.ProviderGroq:
		return NewOpenAIClient(cfg.GroqAPIKey, cfg.GroqBaseURL, cfg.GroqModel), nil
	default:
		return nil, fmt.Errorf("unsupported llm provider %q", cfg.Provider)
	}
}
