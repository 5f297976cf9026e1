package ui

import (
	"context"
	"errors"
	"strings"
	"testing"

	"ai-event-planner/internal/app"
	"ai-event-planner/internal/checklist"
	"ai-event-planner/internal/planner"
	"ai-event-planner/internal/session"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeService mimics app.App's effect on the session without a model.
type fakeService struct {
	planText  string
	planFail  bool
	refineErr error
	checklist string
	exported  int
	briefs    []planner.EventBrief
}

func (f *fakeService) SubmitBrief(ctx context.Context, sess *session.Session, b planner.EventBrief) planner.PlanResult {
	f.briefs = append(f.briefs, b)
	if err := b.Validate(); err != nil {
		return planner.PlanResult{Outcome: planner.OutcomeRejected, Text: err.Error(), Err: err}
	}
	if f.planFail {
		return planner.PlanResult{Outcome: planner.OutcomeFailed, Text: "API request failed: boom", Err: errors.New("boom")}
	}
	sess.StartPlan(b, f.planText)
	return planner.PlanResult{Outcome: planner.OutcomeSuccess, Text: f.planText}
}

func (f *fakeService) Refine(ctx context.Context, sess *session.Session, r planner.Refinement) (app.RefineResult, error) {
	if f.refineErr != nil {
		return app.RefineResult{}, f.refineErr
	}
	if r == planner.RefineChecklist {
		list := checklist.FromText(f.checklist)
		sess.ReplaceChecklist(list)
		res := app.RefineResult{Refinement: r, Text: f.checklist}
		if !list.Empty() {
			res.Checklist = list
		}
		return res, nil
	}
	sess.SetPlan("refined: " + string(r))
	return app.RefineResult{Refinement: r, Text: sess.Plan()}, nil
}

func (f *fakeService) Export(sess *session.Session) (string, error) {
	f.exported++
	return "plans/picnic.md", nil
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// press feeds msg to the model and then runs the returned command chain until it settles,
// the way the bubbletea runtime would.
func press(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, cmd := m.Update(msg)
	m = next.(Model)
	for _, out := range drain(cmd) {
		switch out.(type) {
		case planDoneMsg, refineDoneMsg, exportDoneMsg:
			next, _ = m.Update(out)
			m = next.(Model)
		}
	}
	return m
}

func drain(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, drain(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

func newTestModel(svc *fakeService) Model {
	return New(svc, session.New(), Options{Theme: "notty", WordWrap: 60})
}

func fillForm(m *Model, values ...string) {
	for i, v := range values {
		m.form.inputs[i].SetValue(v)
	}
}

func TestFormSubmitGeneratesPlan(t *testing.T) {
	svc := &fakeService{planText: "# Event Details\nA lovely picnic"}
	m := newTestModel(svc)
	fillForm(&m, "Picnic", "10", "200", "Cottagecore", "3 hours", "park setting")

	m = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})

	require.Len(t, svc.briefs, 1)
	assert.Equal(t, 10, svc.briefs[0].GuestCount)
	assert.Equal(t, screenPlan, m.screen)
	assert.Contains(t, m.View(), "A lovely picnic")
	assert.Contains(t, m.View(), "Picnic · 10 guests · $200")
}

func TestFormNavigation(t *testing.T) {
	m := newTestModel(&fakeService{})

	m = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, 1, m.form.focus)
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, 2, m.form.focus, "enter advances on all but the last field")
	m = press(t, m, tea.KeyMsg{Type: tea.KeyShiftTab})
	assert.Equal(t, 1, m.form.focus)
	m = press(t, m, tea.KeyMsg{Type: tea.KeyUp})
	m = press(t, m, tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, 5, m.form.focus, "focus wraps around")

	m = press(t, m, runes("q"))
	assert.Equal(t, screenForm, m.screen, "q is text on the form")
	assert.Equal(t, "q", m.form.inputs[5].Value())
}

func TestIncompleteFormShowsErrorWithoutCall(t *testing.T) {
	svc := &fakeService{planText: "plan"}
	m := newTestModel(svc)
	fillForm(&m, "Picnic", "10", "", "Cottagecore")

	m = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})

	assert.Empty(t, svc.briefs)
	assert.Equal(t, screenForm, m.screen)
	assert.Contains(t, m.err, "Budget (USD), Duration, Special Considerations")

	fillForm(&m, "Picnic", "lots")
	m = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
	assert.Contains(t, m.err, "Guest Count must be a whole number")
	assert.Empty(t, svc.briefs)
}

func TestEnterOnLastFieldSubmits(t *testing.T) {
	svc := &fakeService{planText: "plan"}
	m := newTestModel(svc)
	fillForm(&m, "Picnic", "10", "200", "Cottagecore", "3 hours", "park setting")
	m.form.move(5)

	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Len(t, svc.briefs, 1)
	assert.Equal(t, screenPlan, m.screen)
}

func TestPlanFailureReturnsToForm(t *testing.T) {
	svc := &fakeService{planFail: true}
	m := newTestModel(svc)
	fillForm(&m, "Picnic", "10", "200", "Cottagecore", "3 hours", "park setting")

	m = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})

	assert.Equal(t, screenForm, m.screen)
	assert.Equal(t, "API request failed: boom", m.err)
	assert.Equal(t, "Picnic", m.form.inputs[0].Value(), "inputs are kept for another try")
}

func planModel(t *testing.T, svc *fakeService) Model {
	t.Helper()
	svc.planText = "# Event Details\nplan"
	m := newTestModel(svc)
	fillForm(&m, "Picnic", "10", "200", "Cottagecore", "3 hours", "park setting")
	m = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
	require.Equal(t, screenPlan, m.screen)
	return m
}

func TestRefinementKeys(t *testing.T) {
	svc := &fakeService{}
	m := planModel(t, svc)

	m = press(t, m, runes("c"))
	assert.Equal(t, screenPlan, m.screen)
	assert.Equal(t, "refined: cheaper", m.sess.Plan())
	assert.Contains(t, m.status, "Make It Cheaper")

	m = press(t, m, runes("k"))
	assert.Equal(t, "refined: kid-friendly", m.sess.Plan())

	svc.refineErr = errors.New("cheaper refinement failed: timeout")
	m = press(t, m, runes("c"))
	assert.Equal(t, screenPlan, m.screen)
	assert.Equal(t, "cheaper refinement failed: timeout", m.err)
	assert.Equal(t, "refined: kid-friendly", m.sess.Plan())
}

func TestChecklistScreen(t *testing.T) {
	svc := &fakeService{checklist: "### Tasks\n1. Book park\n2. Buy cups\n3. Pack games"}
	m := planModel(t, svc)

	m = press(t, m, runes("l"))
	require.Equal(t, screenChecklist, m.screen)
	assert.Contains(t, m.View(), "0/3 tasks completed")

	m = press(t, m, tea.KeyMsg{Type: tea.KeyDown})
	m = press(t, m, runes("x"))
	assert.Contains(t, m.View(), "1/3 tasks completed")
	items := m.sess.Checklist().Items()
	require.Len(t, items, 3)
	assert.True(t, items[1].Done)

	m = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, screenPlan, m.screen)
	m = press(t, m, runes("t"))
	assert.Equal(t, screenChecklist, m.screen)
	assert.True(t, strings.Contains(m.View(), "1/3 tasks completed"), "flags survive leaving the screen")
}

func TestEmptyChecklistStaysOnPlan(t *testing.T) {
	svc := &fakeService{checklist: "### Nothing useful\n\n"}
	m := planModel(t, svc)

	m = press(t, m, runes("l"))
	assert.Equal(t, screenPlan, m.screen)
	assert.Contains(t, m.status, "no checklist items")

	m = press(t, m, runes("t"))
	assert.Equal(t, screenPlan, m.screen)
	assert.Contains(t, m.status, "No checklist yet")
}

func TestExportAndNewBrief(t *testing.T) {
	svc := &fakeService{}
	m := planModel(t, svc)

	m = press(t, m, runes("s"))
	assert.Equal(t, 1, svc.exported)
	assert.Equal(t, "Saved to plans/picnic.md", m.status)

	m = press(t, m, runes("n"))
	assert.Equal(t, screenForm, m.screen)
	assert.Equal(t, "Cottagecore", m.form.inputs[3].Value(), "new brief starts from the last one")
	assert.Equal(t, "200", m.form.inputs[2].Value())
}

func TestQuit(t *testing.T) {
	m := planModel(t, &fakeService{})
	_, cmd := m.Update(runes("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())

	_, cmd = newTestModel(&fakeService{}).Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestRenderMarkdownFallsBack(t *testing.T) {
	out := RenderMarkdown("# Title\n\nbody", "no-such-style", 40)
	assert.Equal(t, "# Title\n\nbody", out)

	out = RenderMarkdown("# Title\n\nbody", "notty", 40)
	assert.Contains(t, out, "Title")
	assert.Contains(t, out, "body")
}
