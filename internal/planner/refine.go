package planner

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"time"

	"ai-event-planner/internal/shared"
)

//go:embed prompts/checklist.md
var checklistInstruction string

// ErrNoPlan is returned when a refinement is requested before any plan exists.
var ErrNoPlan = errors.New("no plan to refine yet")

// Refinement is one of the canned follow-up transformations.
type Refinement string

const (
	RefineCheaper     Refinement = "cheaper"
	RefineChecklist   Refinement = "checklist"
	RefineKidFriendly Refinement = "kid-friendly"
)

// Refinements lists every transformation in display order.
var Refinements = []Refinement{RefineCheaper, RefineChecklist, RefineKidFriendly}

// ParseRefinement accepts the canonical names plus a few aliases.
func ParseRefinement(s string) (Refinement, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "cheaper", "cheap", "cost":
		return RefineCheaper, nil
	case "checklist", "tasks":
		return RefineChecklist, nil
	case "kid-friendly", "kid", "kids", "family":
		return RefineKidFriendly, nil
	default:
		return "", fmt.Errorf("unknown refinement %q (expected cheaper, checklist or kid-friendly)", s)
	}
}

// Label is the button caption for r.
func (r Refinement) Label() string {
	switch r {
	case RefineCheaper:
		return "Make It Cheaper"
	case RefineChecklist:
		return "Generate Event Checklist"
	case RefineKidFriendly:
		return "Make Kid-Friendly"
	default:
		return string(r)
	}
}

// Valid reports whether r is one of the known refinements.
func (r Refinement) Valid() bool {
	return r == RefineCheaper || r == RefineChecklist || r == RefineKidFriendly
}

// ProducesPlan reports whether the refined text replaces the current plan.
func (r Refinement) ProducesPlan() bool {
	return r == RefineCheaper || r == RefineKidFriendly
}

// Suffix is the fixed instruction appended to the plan text.
func (r Refinement) Suffix() string {
	switch r {
	case RefineCheaper:
		return "\n\nRefine this plan to reduce total cost by ~20% without lowering quality."
	case RefineChecklist:
		return "\n\n\n" + checklistInstruction
	case RefineKidFriendly:
		return "\n\nAdapt this plan to be family- and kid-friendly, including safe activities and menu changes."
	default:
		return ""
	}
}

// Action is the metrics name of r.
func (r Refinement) Action() string {
	return "refine:" + string(r)
}

// BuildRefinePrompt appends r's instruction to the plan. The brief is not resent.
func BuildRefinePrompt(plan string, r Refinement) string {
	return plan + r.Suffix()
}

// Refine applies r to plan and returns the first candidate's text. Unlike GeneratePlan,
// failures come back as errors; the returned meta is filled whenever the model was called.
func (p *Planner) Refine(ctx context.Context, plan string, r Refinement) (string, shared.AgentMeta, error) {
	meta := shared.AgentMeta{Action: r.Action()}
	if !r.Valid() {
		return "", meta, fmt.Errorf("unknown refinement %q", r)
	}
	if strings.TrimSpace(plan) == "" {
		return "", meta, ErrNoPlan
	}

	start := time.Now()
	resp, err := p.textGen.GenerateContent(ctx, BuildRefinePrompt(plan, r))
	meta.Usage = resp.Usage
	meta.Latency = time.Since(start)
	if err != nil {
		return "", meta, fmt.Errorf("%s refinement failed: %w", r, err)
	}
	return resp.Content, meta, nil
}
