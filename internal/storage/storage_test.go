package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"ai-event-planner/internal/checklist"
	"ai-event-planner/internal/planner"
)

func TestPlanStore(t *testing.T) {
	tempDir := filepath.Join(t.TempDir(), "plans")

	store, err := NewPlanStore(tempDir)
	if err != nil {
		t.Fatalf("Failed to create PlanStore: %v", err)
	}
	clock := time.Date(2026, 10, 18, 14, 30, 0, 0, time.UTC)
	store.now = func() time.Time { return clock }

	brief := planner.EventBrief{EventType: "Pool Party!", GuestCount: 50, Budget: 500}
	list := checklist.New([]string{"1. Buy floats", "2. Hire lifeguard"})
	if err := list.Set(1, true); err != nil {
		t.Fatal(err)
	}

	var first string
	t.Run("Save", func(t *testing.T) {
		first, err = store.Save(brief, "# Event Details\n- Pool Party\n\n", list)
		if err != nil {
			t.Fatalf("Failed to save plan: %v", err)
		}
		if filepath.Base(first) != "pool-party_20261018-143000.md" {
			t.Errorf("unexpected file name %q", filepath.Base(first))
		}

		data, err := os.ReadFile(first)
		if err != nil {
			t.Fatalf("Failed to read export: %v", err)
		}
		content := string(data)
		for _, want := range []string{
			"# Event Details\n- Pool Party\n",
			"## Checklist",
			"- [ ] 1. Buy floats\n",
			"- [x] 2. Hire lifeguard\n",
			"1/2 tasks completed",
		} {
			if !strings.Contains(content, want) {
				t.Errorf("export lacks %q:\n%s", want, content)
			}
		}
	})

	t.Run("Save-SameSecond", func(t *testing.T) {
		second, err := store.Save(brief, "plan", nil)
		if err != nil {
			t.Fatalf("Failed to save plan: %v", err)
		}
		if second == first {
			t.Fatal("second export overwrote the first")
		}
		data, _ := os.ReadFile(second)
		if strings.Contains(string(data), "Checklist") {
			t.Error("export without checklist should not have a checklist section")
		}
	})

	t.Run("Save-NoPlan", func(t *testing.T) {
		if _, err := store.Save(brief, "  ", nil); err == nil {
			t.Fatal("Expected an error for an empty plan, got nil")
		}
	})

	t.Run("List", func(t *testing.T) {
		if err := os.WriteFile(filepath.Join(tempDir, "notes.txt"), []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
		older := time.Now().Add(-time.Hour)
		if err := os.Chtimes(first, older, older); err != nil {
			t.Fatal(err)
		}

		paths, err := store.List()
		if err != nil {
			t.Fatalf("Failed to list plans: %v", err)
		}
		if len(paths) != 2 {
			t.Fatalf("Expected 2 plans, got %d: %v", len(paths), paths)
		}
		if paths[1] != first {
			t.Errorf("Expected the older export last, got %v", paths)
		}
	})
}

func TestSlug(t *testing.T) {
	cases := map[string]string{
		"Pool Party":           "pool-party",
		"  Kid's B-day  (5th)": "kid-s-b-day-5th",
		"Fête":                 "fête",
		"!!!":                  "event",
		"":                     "event",
	}
	for in, want := range cases {
		if got := slug(in); got != want {
			t.Errorf("slug(%q) = %q, want %q", in, got, want)
		}
	}
}
