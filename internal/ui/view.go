package ui

import (
	"fmt"
	"strings"

	"ai-event-planner/internal/planner"
)

// View renders the current screen.
func (m Model) View() string {
	var body, helpLine string
	switch m.screen {
	case screenForm:
		body = m.form.view()
		helpLine = m.help.ShortHelpView(m.keys.formHelp())
	case screenWorking:
		body = fmt.Sprintf("%s %s…", m.spinner.View(), m.working)
	case screenPlan:
		body = m.viewport.View()
		helpLine = m.help.ShortHelpView(m.keys.planHelp())
	case screenChecklist:
		body = m.checklistView()
		helpLine = m.help.ShortHelpView(m.keys.checklistHelp())
	}

	var sb strings.Builder
	sb.WriteString(titleStyle.Render(m.title()))
	sb.WriteString("\n\n")
	sb.WriteString(body)
	if m.err != "" {
		sb.WriteString("\n")
		sb.WriteString(errorStyle.Render(m.err))
	}
	if m.status != "" {
		sb.WriteString("\n")
		sb.WriteString(statusStyle.Render(m.status))
	}
	if helpLine != "" {
		sb.WriteString("\n\n")
		sb.WriteString(helpLine)
	}
	return frameStyle.Render(sb.String())
}

func (m Model) title() string {
	switch m.screen {
	case screenForm:
		return "🎉 AI Event Planner · Event Brief"
	case screenWorking:
		return "🎉 AI Event Planner · Working"
	case screenChecklist:
		return "🎉 AI Event Planner · Checklist"
	default:
		b := m.sess.Brief()
		return fmt.Sprintf("🎉 %s · %d guests · $%s", b.EventType, b.GuestCount, planner.FormatAmount(b.Budget))
	}
}

func (m Model) checklistView() string {
	list := m.sess.Checklist()
	if list.Empty() {
		return hintStyle.Render("No checklist yet.")
	}

	var sb strings.Builder
	for i, item := range list.Items() {
		pointer := "  "
		if i == m.cursor {
			pointer = cursorStyle.Render("› ")
		}
		box := "[ ]"
		task := item.Task
		if item.Done {
			box = "[x]"
			task = doneTaskStyle.Render(task)
		}
		fmt.Fprintf(&sb, "%s%s %s\n", pointer, box, task)
	}
	sb.WriteString("\n")
	sb.WriteString(m.progress.ViewAs(list.Progress()))
	sb.WriteString("\n")
	sb.WriteString(hintStyle.Render(list.Caption()))
	return sb.String()
}
