package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ShayCichocki/deepthink/internal/learning"
	"github.com/ShayCichocki/deepthink/pkg/models"
)

type stubRunner struct {
	resp *models.ThinkResponse
	err  error
}

func (s *stubRunner) Run(ctx context.Context, req *models.ThinkRequest) (*models.ThinkResponse, error) {
	return s.resp, s.err
}

func TestThinkEndpoint(t *testing.T) {
	runner := &stubRunner{resp: &models.ThinkResponse{
		Output: "the answer",
		Summary: models.PipelineSummary{
			TotalSubtasks:     3,
			CompletedSubtasks: 3,
		},
	}}
	srv := httptest.NewServer(New(runner, nil).Handler())
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/think", "application/json",
		strings.NewReader(`{"message":"do something"}`))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var body models.ThinkResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body.Output != "the answer" {
		t.Errorf("output = %q", body.Output)
	}
	if body.Summary.TotalSubtasks != 3 {
		t.Errorf("totalSubtasks = %d", body.Summary.TotalSubtasks)
	}
}

func TestThinkEndpointBadJSON(t *testing.T) {
	srv := httptest.NewServer(New(&stubRunner{}, nil).Handler())
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/think", "application/json", strings.NewReader("{"))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestThinkEndpointEngineError(t *testing.T) {
	srv := httptest.NewServer(New(&stubRunner{err: errors.New("pipeline broke")}, nil).Handler())
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/think", "application/json",
		strings.NewReader(`{"message":"x"}`))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", resp.StatusCode)
	}
}

func TestHealthz(t *testing.T) {
	srv := httptest.NewServer(New(&stubRunner{}, nil).Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d", resp.StatusCode)
	}
}

func TestGetRun(t *testing.T) {
	store, err := learning.NewStore(filepath.Join(t.TempDir(), "runs.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	rec := &learning.RunRecord{
		RunID:     "run-42",
		UserID:    "u",
		Category:  "general",
		Goal:      "a goal",
		Output:    "an output",
		Subtasks:  []learning.SubtaskSummary{{ID: 1, Title: "T", Model: "m", Status: "success"}},
		Lessons:   []string{"l"},
		CreatedAt: time.Now(),
	}
	if err := store.Insert(rec); err != nil {
		t.Fatal(err)
	}

	srv := httptest.NewServer(New(&stubRunner{}, store).Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/runs/run-42")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	missing, err := http.Get(srv.URL + "/runs/absent")
	if err != nil {
		t.Fatal(err)
	}
	defer missing.Body.Close()
	if missing.StatusCode != http.StatusNotFound {
		t.Errorf("missing run status = %d, want 404", missing.StatusCode)
	}
}

func TestGetRunNoStore(t *testing.T) {
	srv := httptest.NewServer(New(&stubRunner{}, nil).Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/runs/any")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}
