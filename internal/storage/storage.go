package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
	"unicode"

	"ai-event-planner/internal/checklist"
	"ai-event-planner/internal/planner"
)

const timestampLayout = "20060102-150405"

// PlanStore provides a file-based archive of exported plans, one markdown file each.
type PlanStore struct {
	basePath string
	now      func() time.Time
}

// NewPlanStore creates a new PlanStore and ensures the base directory exists.
func NewPlanStore(basePath string) (*PlanStore, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory %s: %w", basePath, err)
	}
	return &PlanStore{basePath: basePath, now: time.Now}, nil
}

// Dir returns the export directory.
func (s *PlanStore) Dir() string {
	return s.basePath
}

// slug makes the event type safe for filenames: lower case, runs of anything other than
// letters and digits collapsed to "-".
func slug(s string) string {
	var sb strings.Builder
	dash := false
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			sb.WriteRune(r)
			dash = false
			continue
		}
		if !dash && sb.Len() > 0 {
			sb.WriteByte('-')
			dash = true
		}
	}
	out := strings.TrimSuffix(sb.String(), "-")
	if out == "" {
		return "event"
	}
	return out
}

// FileName is the export name for an event created at t, without extension.
func FileName(eventType string, t time.Time) string {
	return fmt.Sprintf("%s_%s", slug(eventType), t.Format(timestampLayout))
}

// Render builds the markdown document written by Save.
func Render(plan string, list *checklist.Checklist) string {
	var sb strings.Builder
	sb.WriteString(strings.TrimRight(plan, "\n"))
	sb.WriteString("\n")

	if !list.Empty() {
		sb.WriteString("\n## Checklist\n\n")
		sb.WriteString(RenderChecklist(list))
	}
	return sb.String()
}

// RenderChecklist writes list as markdown task items followed by the completion caption.
func RenderChecklist(list *checklist.Checklist) string {
	var sb strings.Builder
	for _, item := range list.Items() {
		box := "[ ]"
		if item.Done {
			box = "[x]"
		}
		fmt.Fprintf(&sb, "- %s %s\n", box, item.Task)
	}
	fmt.Fprintf(&sb, "\n_%s_\n", list.Caption())
	return sb.String()
}

// Save writes the plan and, when present, the checklist to
// <slug(event type)>_<timestamp>.md and returns the file path.
func (s *PlanStore) Save(brief planner.EventBrief, plan string, list *checklist.Checklist) (string, error) {
	if strings.TrimSpace(plan) == "" {
		return "", planner.ErrNoPlan
	}

	base := FileName(brief.EventType, s.now())
	filePath := filepath.Join(s.basePath, base+".md")
	for n := 2; fileExists(filePath); n++ {
		filePath = filepath.Join(s.basePath, fmt.Sprintf("%s-%d.md", base, n))
	}

	if err := os.WriteFile(filePath, []byte(Render(plan, list)), 0644); err != nil {
		return "", fmt.Errorf("failed to write plan file: %w", err)
	}
	return filePath, nil
}

// List returns the exported plan files, newest first.
func (s *PlanStore) List() ([]string, error) {
	entries, err := os.ReadDir(s.basePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read storage directory: %w", err)
	}

	type file struct {
		path string
		mod  time.Time
	}
	var files []file
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".md" {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		files = append(files, file{filepath.Join(s.basePath, e.Name()), info.ModTime()})
	}

	sort.Slice(files, func(i, j int) bool {
		if files[i].mod.Equal(files[j].mod) {
			return files[i].path > files[j].path
		}
		return files[i].mod.After(files[j].mod)
	})

	paths := make([]string, len(files))
	for i, f := range files {
		paths[i] = f.path
	}
	return paths, nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
