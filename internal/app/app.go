package app

import (
	"context"
	"errors"
	"fmt"

	"ai-event-planner/internal/checklist"
	"ai-event-planner/internal/planner"
	"ai-event-planner/internal/session"
	"ai-event-planner/internal/shared"

	"go.uber.org/zap"
)

// ErrExportDisabled is returned by Export when no exporter was configured.
var ErrExportDisabled = errors.New("plan export is not configured")

// MetricsRecorder persists one model call.
type MetricsRecorder interface {
	RecordMeta(meta shared.AgentMeta, success bool) error
}

// Exporter writes a plan and its checklist somewhere durable and returns the location.
type Exporter interface {
	Save(brief planner.EventBrief, plan string, list *checklist.Checklist) (string, error)
}

// RefineResult is the outcome of a successful refinement.
type RefineResult struct {
	Refinement planner.Refinement
	Text       string
	// Checklist is set for the checklist refinement; nil when the reply held no tasks.
	Checklist *checklist.Checklist
	Meta      shared.AgentMeta
}

// App holds the application's dependencies.
type App struct {
	planner  *planner.Planner
	metrics  MetricsRecorder
	exporter Exporter
	log      *zap.Logger
}

// NewApp creates and initializes a new App instance. metrics and exporter may be nil.
func NewApp(p *planner.Planner, metrics MetricsRecorder, exporter Exporter, log *zap.Logger) *App {
	if log == nil {
		log = zap.NewNop()
	}
	return &App{
		planner:  p,
		metrics:  metrics,
		exporter: exporter,
		log:      log,
	}
}

// SubmitBrief generates a plan for brief and, on success, makes it the session's plan.
// The session is untouched by any other outcome.
func (a *App) SubmitBrief(ctx context.Context, sess *session.Session, brief planner.EventBrief) planner.PlanResult {
	a.log.Info("Generating plan",
		zap.String("event_type", brief.EventType),
		zap.Int("guests", brief.GuestCount),
	)

	res := a.planner.GeneratePlan(ctx, brief)
	if res.Called() {
		a.record(res.Meta, res.OK())
	}

	switch res.Outcome {
	case planner.OutcomeSuccess:
		sess.StartPlan(brief.Normalized(), res.Text)
		a.log.Info("Plan generated",
			zap.Int("chars", len(res.Text)),
			zap.Int("total_tokens", res.Meta.Usage.TotalTokens),
			zap.Duration("latency", res.Meta.Latency),
		)
	case planner.OutcomeRejected:
		a.log.Debug("Brief rejected", zap.Error(res.Err))
	default:
		a.log.Warn("Plan generation failed",
			zap.Stringer("outcome", res.Outcome),
			zap.Error(res.Err),
		)
	}
	return res
}

// Refine applies r to the session's plan. On error the session is left as it was.
func (a *App) Refine(ctx context.Context, sess *session.Session, r planner.Refinement) (RefineResult, error) {
	if !r.Valid() {
		return RefineResult{}, fmt.Errorf("unknown refinement %q", r)
	}
	if !sess.HasPlan() {
		return RefineResult{}, planner.ErrNoPlan
	}

	a.log.Info("Refining plan", zap.String("refinement", string(r)))

	text, meta, err := a.planner.Refine(ctx, sess.Plan(), r)
	a.record(meta, err == nil)
	if err != nil {
		a.log.Warn("Refinement failed", zap.String("refinement", string(r)), zap.Error(err))
		return RefineResult{}, err
	}

	res := RefineResult{Refinement: r, Text: text, Meta: meta}
	if r == planner.RefineChecklist {
		list := checklist.FromText(text)
		sess.ReplaceChecklist(list)
		if !list.Empty() {
			res.Checklist = list
		}
		a.log.Info("Checklist extracted", zap.Int("tasks", list.Len()))
		return res, nil
	}

	sess.SetPlan(text)
	return res, nil
}

// Export saves the session's plan and checklist through the configured exporter.
func (a *App) Export(sess *session.Session) (string, error) {
	if a.exporter == nil {
		return "", ErrExportDisabled
	}
	if !sess.HasPlan() {
		return "", planner.ErrNoPlan
	}
	path, err := a.exporter.Save(sess.Brief(), sess.Plan(), sess.Checklist())
	if err != nil {
		return "", fmt.Errorf("failed to export plan: %w", err)
	}
	a.log.Info("Plan exported", zap.String("path", path))
	return path, nil
}

func (a *App) record(meta shared.AgentMeta, success bool) {
	if a.metrics == nil {
		return
	}
	if err := a.metrics.RecordMeta(meta, success); err != nil {
		a.log.Warn("Failed to record metrics", zap.String("action", meta.Action), zap.Error(err))
	}
}
