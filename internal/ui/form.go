package ui

import (
	"errors"
	"strings"

	"ai-event-planner/internal/planner"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// briefForm is the six-field input screen.
type briefForm struct {
	inputs []textinput.Model
	focus  int
}

func newBriefForm() briefForm {
	f := briefForm{inputs: make([]textinput.Model, len(planner.Fields))}
	for i, field := range planner.Fields {
		in := textinput.New()
		in.Placeholder = field.Placeholder()
		in.Prompt = "› "
		in.CharLimit = 200
		in.Width = 50
		in.Cursor.SetMode(cursor.CursorStatic)
		if field.Numeric() {
			in.CharLimit = 16
		}
		f.inputs[i] = in
	}
	f.inputs[0].Focus()
	return f
}

func (f *briefForm) last() bool {
	return f.focus == len(f.inputs)-1
}

// move shifts focus by delta, wrapping around.
func (f *briefForm) move(delta int) tea.Cmd {
	f.inputs[f.focus].Blur()
	f.focus = (f.focus + delta + len(f.inputs)) % len(f.inputs)
	return f.inputs[f.focus].Focus()
}

func (f *briefForm) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return cmd
}

// brief parses every input. Parse errors and missing values are joined into one error.
func (f *briefForm) brief() (planner.EventBrief, error) {
	var b planner.EventBrief
	var errs []error
	for i, field := range planner.Fields {
		if err := b.Set(field, f.inputs[i].Value()); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return b, errors.Join(errs...)
	}
	return b, b.Validate()
}

// fill copies b into the inputs so a previous brief can be edited.
func (f *briefForm) fill(b planner.EventBrief) {
	for i, field := range planner.Fields {
		v := b.Value(field)
		if field.Numeric() && (v == "0" || v == "") {
			v = ""
		}
		f.inputs[i].SetValue(v)
	}
}

func (f *briefForm) view() string {
	var sb strings.Builder
	for i, field := range planner.Fields {
		label := labelStyle.Render(field.Label())
		if i == f.focus {
			label = focusedLabelStyle.Render(field.Label())
		}
		sb.WriteString(label)
		sb.WriteString("\n")
		sb.WriteString(f.inputs[i].View())
		sb.WriteString("\n\n")
	}
	return sb.String()
}
