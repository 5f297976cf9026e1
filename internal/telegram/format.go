package telegram

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"ai-event-planner/internal/checklist"
	"ai-event-planner/internal/planner"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// maxMessageLen is Telegram's limit for one text message.
const maxMessageLen = 4096

const (
	actionRefine = "refine"
	actionToggle = "toggle"
	actionPage   = "page"
)

// splitMessage cuts text into chunks of at most limit runes, preferring line breaks.
func splitMessage(text string, limit int) []string {
	if utf8.RuneCountInString(text) <= limit {
		return []string{text}
	}

	var chunks []string
	var cur strings.Builder
	curLen := 0
	flush := func() {
		if curLen > 0 {
			chunks = append(chunks, strings.TrimRight(cur.String(), "\n"))
			cur.Reset()
			curLen = 0
		}
	}

	for _, line := range strings.SplitAfter(text, "\n") {
		n := utf8.RuneCountInString(line)
		if curLen+n > limit {
			flush()
		}
		for n > limit {
			runes := []rune(line)
			chunks = append(chunks, string(runes[:limit]))
			line = string(runes[limit:])
			n -= limit
		}
		cur.WriteString(line)
		curLen += n
	}
	flush()
	return chunks
}

// progressBar draws frac as ten cells followed by a percentage.
func progressBar(frac float64) string {
	const width = 10
	filled := int(frac*width + 0.5)
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	return fmt.Sprintf("%s%s %d%%", strings.Repeat("▓", filled), strings.Repeat("░", width-filled), int(frac*100+0.5))
}

// checklistPageSize keeps one page's keyboard (toggles plus navigation) far below Telegram's
// 100 button limit.
const checklistPageSize = 20

func checklistPages(list *checklist.Checklist) int {
	n := (list.Len() + checklistPageSize - 1) / checklistPageSize
	if n < 1 {
		return 1
	}
	return n
}

func clampPage(list *checklist.Checklist, page int) int {
	if page < 0 {
		return 0
	}
	if last := checklistPages(list) - 1; page > last {
		return last
	}
	return page
}

// pageOf returns the page showing task i.
func pageOf(i int) int {
	return i / checklistPageSize
}

// formatChecklist renders one page of the checklist. Progress and caption come first so
// that trimming overlong task lines never removes them.
func formatChecklist(list *checklist.Checklist, page int) string {
	page = clampPage(list, page)
	pages := checklistPages(list)

	var sb strings.Builder
	sb.WriteString("📋 Event Checklist")
	if pages > 1 {
		fmt.Fprintf(&sb, " (page %d/%d)", page+1, pages)
	}
	fmt.Fprintf(&sb, "\n%s\n%s\n", progressBar(list.Progress()), list.Caption())

	remaining := maxMessageLen - utf8.RuneCountInString(sb.String())
	items := list.Items()
	from := page * checklistPageSize
	to := min(from+checklistPageSize, len(items))
	for i := from; i < to; i++ {
		mark := "⬜"
		if items[i].Done {
			mark = "✅"
		}
		line := fmt.Sprintf("\n%s %d. %s", mark, i+1, items[i].Task)
		n := utf8.RuneCountInString(line)
		if n > remaining {
			if remaining > 1 {
				sb.WriteString(string([]rune(line)[:remaining-1]) + "…")
			}
			break
		}
		sb.WriteString(line)
		remaining -= n
	}
	return sb.String()
}

// checklistKeyboard has one toggle button per task on the page, five per row, and a
// navigation row when the checklist spans several pages.
func checklistKeyboard(list *checklist.Checklist, page int) tgbotapi.InlineKeyboardMarkup {
	page = clampPage(list, page)
	items := list.Items()
	from := page * checklistPageSize
	to := min(from+checklistPageSize, len(items))

	var rows [][]tgbotapi.InlineKeyboardButton
	var row []tgbotapi.InlineKeyboardButton
	for i := from; i < to; i++ {
		mark := "⬜"
		if items[i].Done {
			mark = "✅"
		}
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(
			fmt.Sprintf("%s %d", mark, i+1),
			actionToggle+"|"+strconv.Itoa(i),
		))
		if len(row) == 5 {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}

	var nav []tgbotapi.InlineKeyboardButton
	if page > 0 {
		nav = append(nav, tgbotapi.NewInlineKeyboardButtonData("◀ Prev", actionPage+"|"+strconv.Itoa(page-1)))
	}
	if page < checklistPages(list)-1 {
		nav = append(nav, tgbotapi.NewInlineKeyboardButtonData("Next ▶", actionPage+"|"+strconv.Itoa(page+1)))
	}
	if len(nav) > 0 {
		rows = append(rows, nav)
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func refineKeyboard() tgbotapi.InlineKeyboardMarkup {
	var row []tgbotapi.InlineKeyboardButton
	for _, r := range planner.Refinements {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(refineButtonLabel(r), actionRefine+"|"+string(r)))
	}
	return tgbotapi.NewInlineKeyboardMarkup(row)
}

func refineButtonLabel(r planner.Refinement) string {
	switch r {
	case planner.RefineCheaper:
		return "💸 Cheaper"
	case planner.RefineChecklist:
		return "📋 Checklist"
	case planner.RefineKidFriendly:
		return "🧒 Kid-Friendly"
	default:
		return r.Label()
	}
}

func fieldPrompt(f planner.Field, step int) string {
	return fmt.Sprintf("(%d/%d) *%s*?\n_%s_", step+1, len(planner.Fields), f.Label(), f.Placeholder())
}

// parseCallback splits "action|data".
func parseCallback(data string) (action, arg string, ok bool) {
	action, arg, ok = strings.Cut(data, "|")
	return action, arg, ok && arg != ""
}
