// Package ui is the interactive terminal front-end: a brief form, the rendered plan with
// its refinements, and a checkable task list.
package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"ai-event-planner/internal/app"
	"ai-event-planner/internal/planner"
	"ai-event-planner/internal/session"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Service is what the UI needs from the application layer. *app.App satisfies it.
type Service interface {
	SubmitBrief(ctx context.Context, sess *session.Session, brief planner.EventBrief) planner.PlanResult
	Refine(ctx context.Context, sess *session.Session, r planner.Refinement) (app.RefineResult, error)
	Export(sess *session.Session) (string, error)
}

type screen int

const (
	screenForm screen = iota
	screenWorking
	screenPlan
	screenChecklist
)

type planDoneMsg struct {
	res planner.PlanResult
}

type refineDoneMsg struct {
	r   planner.Refinement
	res app.RefineResult
	err error
}

type exportDoneMsg struct {
	path string
	err  error
}

// Options configures a Model.
type Options struct {
	Theme    string
	WordWrap int
	// Timeout bounds each model call; zero means no limit.
	Timeout time.Duration
}

// Model is the bubbletea model. The session is only touched by commands while the
// Working screen is shown, so the two never race.
type Model struct {
	svc  Service
	sess *session.Session
	opts Options
	keys KeyMap

	screen     screen
	prevScreen screen
	working    string

	form     briefForm
	spinner  spinner.Model
	viewport viewport.Model
	progress progress.Model
	help     help.Model
	md       *markdownRenderer

	cursor int
	status string
	err    string

	width  int
	height int
}

// New builds the initial model showing an empty brief form.
func New(svc Service, sess *session.Session, opts Options) Model {
	if opts.WordWrap <= 0 {
		opts.WordWrap = 80
	}
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(accent)

	return Model{
		svc:      svc,
		sess:     sess,
		opts:     opts,
		keys:     DefaultKeyMap(),
		screen:   screenForm,
		form:     newBriefForm(),
		spinner:  s,
		viewport: viewport.New(opts.WordWrap, 20),
		progress: progress.New(progress.WithDefaultGradient(), progress.WithWidth(40)),
		help:     help.New(),
		md:       newMarkdownRenderer(opts.Theme, opts.WordWrap),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles one message.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case spinner.TickMsg:
		if m.screen != screenWorking {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case planDoneMsg:
		return m.onPlanDone(msg), nil

	case refineDoneMsg:
		return m.onRefineDone(msg), nil

	case exportDoneMsg:
		if msg.err != nil {
			m.err = msg.err.Error()
		} else {
			m.status = "Saved to " + msg.path
		}
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.ForceQuit) {
			return m, tea.Quit
		}
		switch m.screen {
		case screenForm:
			return m.updateForm(msg)
		case screenPlan:
			return m.updatePlan(msg)
		case screenChecklist:
			return m.updateChecklist(msg)
		}
		return m, nil
	}

	if m.screen == screenForm {
		cmd := m.form.update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Submit):
		return m.submit()
	case msg.Type == tea.KeyEnter:
		if m.form.last() {
			return m.submit()
		}
		return m, m.form.move(1)
	case key.Matches(msg, m.keys.Next):
		return m, m.form.move(1)
	case key.Matches(msg, m.keys.Prev):
		return m, m.form.move(-1)
	}
	cmd := m.form.update(msg)
	return m, cmd
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	brief, err := m.form.brief()
	if err != nil {
		m.err = formatFormError(err)
		return m, nil
	}
	m.err = ""
	m.status = ""
	return m.startWork("Drafting your event plan", m.generate(brief))
}

func (m Model) updatePlan(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Cheaper):
		return m.startRefine(planner.RefineCheaper)
	case key.Matches(msg, m.keys.Checklist):
		return m.startRefine(planner.RefineChecklist)
	case key.Matches(msg, m.keys.KidFriendly):
		return m.startRefine(planner.RefineKidFriendly)
	case key.Matches(msg, m.keys.ShowChecklist):
		if m.sess.Checklist().Empty() {
			m.status = "No checklist yet. Press l to generate one."
			return m, nil
		}
		m.status, m.err = "", ""
		m.screen = screenChecklist
		return m, nil
	case key.Matches(msg, m.keys.Export):
		m.status, m.err = "", ""
		return m, m.export()
	case key.Matches(msg, m.keys.NewBrief):
		m.form = newBriefForm()
		m.form.fill(m.sess.Brief())
		m.status, m.err = "", ""
		m.screen = screenForm
		return m, nil
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) updateChecklist(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	list := m.sess.Checklist()
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Back):
		m.screen = screenPlan
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < list.Len()-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Toggle):
		if _, err := m.sess.ToggleTask(m.cursor); err != nil {
			m.err = err.Error()
		}
	}
	return m, nil
}

func (m Model) startRefine(r planner.Refinement) (tea.Model, tea.Cmd) {
	m.status, m.err = "", ""
	return m.startWork(r.Label(), m.refine(r))
}

func (m Model) startWork(label string, work tea.Cmd) (tea.Model, tea.Cmd) {
	m.prevScreen = m.screen
	m.screen = screenWorking
	m.working = label
	return m, tea.Batch(m.spinner.Tick, work)
}

func (m Model) onPlanDone(msg planDoneMsg) Model {
	if !msg.res.OK() {
		m.screen = m.prevScreen
		m.err = msg.res.Text
		return m
	}
	m.showPlan()
	return m
}

func (m Model) onRefineDone(msg refineDoneMsg) Model {
	if msg.err != nil {
		m.screen = m.prevScreen
		m.err = msg.err.Error()
		return m
	}
	if msg.r != planner.RefineChecklist {
		m.showPlan()
		m.status = msg.r.Label() + " applied."
		return m
	}
	if msg.res.Checklist == nil {
		m.showPlan()
		m.status = "The model returned no checklist items."
		return m
	}
	m.cursor = 0
	m.screen = screenChecklist
	return m
}

// showPlan renders the session's plan into the viewport and switches to the Plan screen.
func (m *Model) showPlan() {
	m.viewport.SetContent(m.md.render(m.sess.Plan()))
	m.viewport.GotoTop()
	m.screen = screenPlan
}

func (m *Model) resize(width, height int) {
	m.width, m.height = width, height
	m.help.Width = width

	wrap := width - 6
	if wrap > m.opts.WordWrap {
		wrap = m.opts.WordWrap
	}
	m.md.resize(wrap)

	m.viewport.Width = width - 4
	m.viewport.Height = height - 8
	if m.viewport.Height < 5 {
		m.viewport.Height = 5
	}
	if m.sess.HasPlan() {
		m.viewport.SetContent(m.md.render(m.sess.Plan()))
	}

	pw := width - 10
	if pw > 60 {
		pw = 60
	}
	if pw < 10 {
		pw = 10
	}
	m.progress.Width = pw
}

func (m Model) callContext() (context.Context, context.CancelFunc) {
	if m.opts.Timeout > 0 {
		return context.WithTimeout(context.Background(), m.opts.Timeout)
	}
	return context.WithCancel(context.Background())
}

func (m Model) generate(brief planner.EventBrief) tea.Cmd {
	svc, sess := m.svc, m.sess
	ctx, cancel := m.callContext()
	return func() tea.Msg {
		defer cancel()
		return planDoneMsg{res: svc.SubmitBrief(ctx, sess, brief)}
	}
}

func (m Model) refine(r planner.Refinement) tea.Cmd {
	svc, sess := m.svc, m.sess
	ctx, cancel := m.callContext()
	return func() tea.Msg {
		defer cancel()
		res, err := svc.Refine(ctx, sess, r)
		return refineDoneMsg{r: r, res: res, err: err}
	}
}

func (m Model) export() tea.Cmd {
	svc, sess := m.svc, m.sess
	return func() tea.Msg {
		path, err := svc.Export(sess)
		return exportDoneMsg{path: path, err: err}
	}
}

// formatFormError lists each problem on its own line.
func formatFormError(err error) string {
	var verr *planner.ValidationError
	if errors.As(err, &verr) {
		labels := make([]string, len(verr.Fields))
		for i, f := range verr.Fields {
			labels[i] = f.Label()
		}
		return fmt.Sprintf("Please fill in all fields before generating a plan. Missing or invalid: %s.", strings.Join(labels, ", "))
	}
	return err.Error()
}
