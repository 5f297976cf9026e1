package ui

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

// markdownRenderer renders plan markdown for the terminal and falls back to the raw text
// when glamour cannot be set up or fails.
type markdownRenderer struct {
	theme string
	wrap  int
	tr    *glamour.TermRenderer
}

func newMarkdownRenderer(theme string, wrap int) *markdownRenderer {
	r := &markdownRenderer{theme: theme}
	r.resize(wrap)
	return r
}

// resize rebuilds the renderer for a new wrap width.
func (r *markdownRenderer) resize(wrap int) {
	if wrap < 20 {
		wrap = 20
	}
	if wrap == r.wrap && r.tr != nil {
		return
	}
	r.wrap = wrap

	style := glamour.WithAutoStyle()
	if t := strings.ToLower(strings.TrimSpace(r.theme)); t != "" && t != "auto" {
		style = glamour.WithStandardStyle(t)
	}
	tr, err := glamour.NewTermRenderer(style, glamour.WithWordWrap(wrap))
	if err != nil {
		r.tr = nil
		return
	}
	r.tr = tr
}

func (r *markdownRenderer) render(md string) string {
	if r.tr == nil {
		return md
	}
	out, err := r.tr.Render(md)
	if err != nil {
		return md
	}
	return out
}

// RenderMarkdown renders md once with the given theme and width, for non-interactive output.
func RenderMarkdown(md, theme string, wrap int) string {
	return newMarkdownRenderer(theme, wrap).render(md)
}
