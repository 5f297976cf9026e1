// Package session holds the state of one planning conversation: the last accepted brief,
// the current plan text and an optional checklist.
package session

import (
	"errors"

	"ai-event-planner/internal/checklist"
	"ai-event-planner/internal/planner"
)

// ErrNoChecklist is returned when a task is toggled before any checklist exists.
var ErrNoChecklist = errors.New("no checklist generated yet")

// State is the coarse position of a session in its lifecycle.
type State int

const (
	StateEmpty State = iota
	StateHasPlan
	StateHasPlanAndChecklist
)

func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StateHasPlan:
		return "has_plan"
	case StateHasPlanAndChecklist:
		return "has_plan_and_checklist"
	default:
		return "unknown"
	}
}

// Session is not safe for concurrent use. Front-ends keep one action in flight per session.
type Session struct {
	brief     planner.EventBrief
	plan      string
	checklist *checklist.Checklist
}

// New returns an empty session.
func New() *Session {
	return &Session{}
}

// State derives the lifecycle state from the stored values.
func (s *Session) State() State {
	switch {
	case s.plan == "":
		return StateEmpty
	case s.checklist.Empty():
		return StateHasPlan
	default:
		return StateHasPlanAndChecklist
	}
}

// Brief is the brief behind the current plan.
func (s *Session) Brief() planner.EventBrief {
	return s.brief
}

// Plan returns the current plan text, empty before the first successful generation.
func (s *Session) Plan() string {
	return s.plan
}

// HasPlan reports whether refinements can run.
func (s *Session) HasPlan() bool {
	return s.plan != ""
}

// StartPlan stores a freshly generated plan and its brief. An existing checklist is kept
// until the next checklist refinement replaces it.
func (s *Session) StartPlan(brief planner.EventBrief, plan string) {
	s.brief = brief
	s.plan = plan
}

// SetPlan overwrites the plan text after a cheaper or kid-friendly refinement. The checklist
// is kept.
func (s *Session) SetPlan(plan string) {
	s.plan = plan
}

// ReplaceChecklist installs c, discarding all previous completion flags. An empty checklist
// clears it.
func (s *Session) ReplaceChecklist(c *checklist.Checklist) {
	if c.Empty() {
		s.checklist = nil
		return
	}
	s.checklist = c
}

// Checklist returns the current checklist or nil.
func (s *Session) Checklist() *checklist.Checklist {
	return s.checklist
}

// ToggleTask flips item i of the checklist and returns its new completion flag.
func (s *Session) ToggleTask(i int) (bool, error) {
	if s.checklist.Empty() {
		return false, ErrNoChecklist
	}
	return s.checklist.Toggle(i)
}

// Reset returns the session to StateEmpty.
func (s *Session) Reset() {
	*s = Session{}
}
