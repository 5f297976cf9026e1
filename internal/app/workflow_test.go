package app_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"ai-event-planner/internal/app"
	"ai-event-planner/internal/database"
	"ai-event-planner/internal/llm"
	"ai-event-planner/internal/metrics"
	"ai-event-planner/internal/planner"
	"ai-event-planner/internal/session"
	"ai-event-planner/internal/shared"
	"ai-event-planner/internal/storage"
)

// --- Mock LLM Client ---
// It answers by looking at what the prompt asks for, the way a real model would.
type mockLLMClient struct {
	generateContentCalls int
}

func (m *mockLLMClient) GenerateContent(ctx context.Context, prompt string) (llm.ContentResponse, error) {
	m.generateContentCalls++
	usage := shared.TokenUsage{PromptTokens: len(prompt) / 4, CompletionTokens: 120, Model: "mock-flash"}

	switch {
	case strings.HasSuffix(prompt, planner.RefineChecklist.Suffix()):
		return llm.ContentResponse{Content: "### Pre-event\n1. Reserve the park\n2. Buy lemonade\n\n### Cleanup\n3. Collect trash", Usage: usage}, nil
	case strings.HasSuffix(prompt, planner.RefineCheaper.Suffix()):
		return llm.ContentResponse{Content: "# Event Details\nCheaper picnic\n\n## Timeline of Preparation\n- DIY everything", Usage: usage}, nil
	case strings.Contains(prompt, "# New Event Brief"):
		return llm.ContentResponse{Content: "# Event Details\nPicnic for 10\n\n## Timeline of Preparation\n- Book park", Usage: usage}, nil
	}
	return llm.ContentResponse{}, llm.ErrNoCandidates
}

// --- Acceptance Test ---
func TestFullWorkflow(t *testing.T) {
	ctx := context.Background()
	tempDir := t.TempDir()

	// 1. Real storage: SQLite metrics and a markdown export directory.
	db, err := database.NewDB(filepath.Join(tempDir, "data", "metrics.db"))
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	metricsStore := metrics.NewStore(db.SQL)
	defer metricsStore.Close()

	plans, err := storage.NewPlanStore(filepath.Join(tempDir, "plans"))
	if err != nil {
		t.Fatalf("Failed to create PlanStore: %v", err)
	}

	llmClient := &mockLLMClient{}
	application := app.NewApp(planner.NewPlanner(llmClient), metricsStore, plans, nil)
	sess := session.New()

	// --- Step 1: Plan ---
	t.Log("--- Step 1: Generating Plan ---")
	res := application.SubmitBrief(ctx, sess, planner.EventBrief{
		EventType:             "Picnic",
		GuestCount:            10,
		Budget:                200,
		Theme:                 "Cottagecore",
		Duration:              "3 hours",
		SpecialConsiderations: "park setting",
	})
	if !res.OK() {
		t.Fatalf("Plan generation failed: %s", res.Text)
	}
	if sess.State() != session.StateHasPlan {
		t.Errorf("Expected state has_plan, got %s", sess.State())
	}

	// --- Step 2: Checklist ---
	t.Log("--- Step 2: Checklist ---")
	if _, err := application.Refine(ctx, sess, planner.RefineChecklist); err != nil {
		t.Fatalf("Checklist refinement failed: %v", err)
	}
	if sess.Checklist().Len() != 3 {
		t.Fatalf("Expected 3 tasks, got %v", sess.Checklist().Items())
	}
	if _, err := sess.ToggleTask(0); err != nil {
		t.Fatalf("Toggle failed: %v", err)
	}

	// --- Step 3: Cheaper ---
	t.Log("--- Step 3: Cheaper ---")
	if _, err := application.Refine(ctx, sess, planner.RefineCheaper); err != nil {
		t.Fatalf("Cheaper refinement failed: %v", err)
	}
	if !strings.Contains(sess.Plan(), "Cheaper picnic") {
		t.Errorf("Expected the cheaper plan, got %q", sess.Plan())
	}
	if sess.Checklist().Caption() != "1/3 tasks completed" {
		t.Errorf("Checklist should be untouched, got %q", sess.Checklist().Caption())
	}

	// --- Step 4: Export ---
	t.Log("--- Step 4: Export ---")
	path, err := application.Export(sess)
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read export: %v", err)
	}
	for _, want := range []string{"Cheaper picnic", "- [x] 1. Reserve the park", "- [ ] 3. Collect trash", "1/3 tasks completed"} {
		if !strings.Contains(string(data), want) {
			t.Errorf("Export lacks %q", want)
		}
	}

	// --- Step 5: Metrics ---
	if llmClient.generateContentCalls != 3 {
		t.Errorf("Expected 3 calls to LLM, got %d", llmClient.generateContentCalls)
	}
	usage, err := metricsStore.GetDailyUsage(1)
	if err != nil {
		t.Fatalf("Failed to read metrics: %v", err)
	}
	if len(usage) != 1 || usage[0].TotalExecution != 3 || usage[0].Failures != 0 {
		t.Errorf("Expected 3 successful calls recorded, got %+v", usage)
	}
}
