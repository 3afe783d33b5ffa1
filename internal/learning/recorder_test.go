package learning

import (
	"strings"
	"testing"
	"time"

	"github.com/ShayCichocki/deepthink/pkg/models"
)

func sampleSummary() *models.RunSummary {
	return &models.RunSummary{
		RunID:  "run-1",
		Goal:   "build a website for my bakery",
		UserID: "user-1",
		Results: []*models.SubtaskResult{
			{ID: 1, Title: "Plan", Output: "the plan", Model: "anthropic", Latency: time.Second, Status: models.SubtaskStatusSuccess},
			{ID: 2, Title: "Build", Output: "the site", Model: "anthropic", Latency: 2 * time.Second, Status: models.SubtaskStatusFailed},
		},
		Output:     "final output",
		Reflection: "could be better",
		Lessons:    []string{"a", "b"},
		Elapsed:    3 * time.Second,
		StartedAt:  time.Now(),
	}
}

func TestRedact(t *testing.T) {
	rec := Redact(sampleSummary())

	if rec.Category != "web_development" {
		t.Errorf("category = %s, want web_development", rec.Category)
	}
	if rec.SuccessRate != 0.5 {
		t.Errorf("success rate = %f, want 0.5", rec.SuccessRate)
	}
	if rec.TopModel != "anthropic" {
		t.Errorf("top model = %s", rec.TopModel)
	}
	if !rec.IsCacheable {
		t.Error("benign run should be cacheable")
	}
	// Summaries never carry full subtask output.
	for _, st := range rec.Subtasks {
		if strings.Contains(st.Title, "the plan") {
			t.Error("subtask summary leaked output text")
		}
	}
	if len(rec.Subtasks) != 2 {
		t.Fatalf("got %d subtask summaries, want 2", len(rec.Subtasks))
	}
	if rec.Subtasks[0].Status != "success" || rec.Subtasks[1].Status != "failed" {
		t.Errorf("statuses = %s, %s", rec.Subtasks[0].Status, rec.Subtasks[1].Status)
	}
}

func TestRedactCapsLengths(t *testing.T) {
	summary := sampleSummary()
	summary.Goal = strings.Repeat("g", 5000)
	summary.Output = strings.Repeat("o", 50000)

	rec := Redact(summary)

	if len(rec.Goal) != maxGoalLen {
		t.Errorf("goal length = %d, want %d", len(rec.Goal), maxGoalLen)
	}
	if len(rec.Output) != maxOutputLen {
		t.Errorf("output length = %d, want %d", len(rec.Output), maxOutputLen)
	}
}

func TestRedactSensitiveContentNotCacheable(t *testing.T) {
	summary := sampleSummary()
	summary.Goal = "store this: my api key is sk-abcdef0123456789ABCDEF01"

	rec := Redact(summary)
	if rec.IsCacheable {
		t.Error("sensitive goal must clear is_cacheable")
	}
}

func TestRecordSkipsSilently(t *testing.T) {
	store := newTestStore(t)
	r := NewRecorder(store)

	optedOut := sampleSummary()
	if err := r.record(optedOut, false); err != nil {
		t.Errorf("opt-out should skip silently, got %v", err)
	}

	anonymous := sampleSummary()
	anonymous.UserID = ""
	if err := r.record(anonymous, true); err != nil {
		t.Errorf("missing user id should skip silently, got %v", err)
	}

	noStore := NewRecorder(nil)
	if err := noStore.record(sampleSummary(), true); err != nil {
		t.Errorf("missing store should skip silently, got %v", err)
	}

	if recs, _ := store.ListRecent(10); len(recs) != 0 {
		t.Errorf("%d records persisted, want 0", len(recs))
	}
}

func TestRecordPersists(t *testing.T) {
	store := newTestStore(t)
	r := NewRecorder(store)

	if err := r.record(sampleSummary(), true); err != nil {
		t.Fatalf("record: %v", err)
	}

	rec, err := store.Get("run-1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if rec.UserID != "user-1" {
		t.Errorf("user id = %s", rec.UserID)
	}
}
