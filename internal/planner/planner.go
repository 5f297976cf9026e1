package planner

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ai-event-planner/internal/llm"
	"ai-event-planner/internal/shared"
)

// NoResponseText is returned when the model answers without any candidate.
const NoResponseText = "No response from model. Please try again."

// ActionPlan names the initial generation in metrics.
const ActionPlan = "plan"

// Outcome tags a PlanResult.
type Outcome int

const (
	OutcomeSuccess Outcome = iota
	// OutcomeFailed means the API call itself failed.
	OutcomeFailed
	// OutcomeNoResponse means the call succeeded but returned no candidates.
	OutcomeNoResponse
	// OutcomeRejected means the brief was invalid and no call was made.
	OutcomeRejected
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeFailed:
		return "failed"
	case OutcomeNoResponse:
		return "no_response"
	case OutcomeRejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// PlanResult is the outcome of one plan generation. Text is always displayable: the plan on
// success, otherwise a message for the user. Err carries the detail for every non-success.
type PlanResult struct {
	Outcome Outcome
	Text    string
	Err     error
	Meta    shared.AgentMeta
}

// OK reports whether Text is a generated plan.
func (r PlanResult) OK() bool {
	return r.Outcome == OutcomeSuccess
}

// Called reports whether the model endpoint was reached.
func (r PlanResult) Called() bool {
	return r.Outcome != OutcomeRejected
}

// Planner turns briefs into plans and applies refinements, using one shared TextGenerator.
type Planner struct {
	textGen llm.TextGenerator
}

// NewPlanner creates a new Planner instance.
func NewPlanner(textGen llm.TextGenerator) *Planner {
	return &Planner{textGen: textGen}
}

// GeneratePlan validates the brief, sends the assembled prompt, and returns the first
// candidate's text. It never returns a Go error: failures are tagged in the result.
func (p *Planner) GeneratePlan(ctx context.Context, brief EventBrief) PlanResult {
	brief = brief.Normalized()
	if err := brief.Validate(); err != nil {
		return PlanResult{Outcome: OutcomeRejected, Text: err.Error(), Err: err}
	}

	start := time.Now()
	resp, err := p.textGen.GenerateContent(ctx, BuildPrompt(brief))
	meta := shared.AgentMeta{
		Action:  ActionPlan,
		Usage:   resp.Usage,
		Latency: time.Since(start),
	}

	switch {
	case errors.Is(err, llm.ErrNoCandidates):
		return PlanResult{Outcome: OutcomeNoResponse, Text: NoResponseText, Err: err, Meta: meta}
	case err != nil:
		return PlanResult{
			Outcome: OutcomeFailed,
			Text:    fmt.Sprintf("API request failed: %v", err),
			Err:     err,
			Meta:    meta,
		}
	}

	return PlanResult{Outcome: OutcomeSuccess, Text: resp.Content, Meta: meta}
}
