package shared

import (
	"time"
)

// TokenUsage tracks the tokens consumed by a single generation call.
type TokenUsage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
	Model            string
}

// AgentMeta holds operational metadata for one model call made on behalf of a user action
// ("plan", "refine:cheaper", ...).
type AgentMeta struct {
	Action  string
	Usage   TokenUsage
	Latency time.Duration
}
