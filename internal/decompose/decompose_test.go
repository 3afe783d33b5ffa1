package decompose

import (
	"context"
	"errors"
	"testing"

	"github.com/ShayCichocki/deepthink/internal/provider"
)

type stubAdapter struct {
	response string
	err      error
}

func (s *stubAdapter) Name() string { return "stub" }

func (s *stubAdapter) Generate(ctx context.Context, req provider.Request) (string, error) {
	return s.response, s.err
}

func TestParseResponse(t *testing.T) {
	tests := []struct {
		name      string
		response  string
		wantCount int
		wantErr   bool
	}{
		{
			name:      "plain array",
			response:  `[{"id":1,"title":"Research","description":"look things up","dependencies":[]},{"id":2,"title":"Write","description":"write it","dependencies":[1]}]`,
			wantCount: 2,
		},
		{
			name:      "fenced array",
			response:  "```json\n[{\"id\":1,\"title\":\"Only step\",\"description\":\"\",\"dependencies\":[]}]\n```",
			wantCount: 1,
		},
		{
			name:      "array with surrounding prose",
			response:  `Here is the plan: [{"id":1,"title":"Step","description":"","dependencies":[]}] Hope that helps!`,
			wantCount: 1,
		},
		{
			name:     "no array",
			response: "I cannot break this down.",
			wantErr:  true,
		},
		{
			name:     "malformed json",
			response: `[{"id":1,"title":"Step"`,
			wantErr:  true,
		},
		{
			name:     "empty array",
			response: `[]`,
			wantErr:  true,
		},
		{
			name:     "empty title",
			response: `[{"id":1,"title":"  ","description":"x","dependencies":[]}]`,
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			subtasks, err := ParseResponse(tt.response)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %d subtasks", len(subtasks))
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(subtasks) != tt.wantCount {
				t.Errorf("got %d subtasks, want %d", len(subtasks), tt.wantCount)
			}
		})
	}
}

func TestDecomposeFallbackOnMalformedResponse(t *testing.T) {
	d := New(&stubAdapter{response: "not json at all"}, 5)

	subtasks := d.Decompose(context.Background(), "Build a 3-step plan to launch a blog")

	if len(subtasks) != 3 {
		t.Fatalf("got %d subtasks, want 3", len(subtasks))
	}

	wantTitles := []string{"Analyze & Plan", "Execute", "Synthesize"}
	for i, want := range wantTitles {
		if subtasks[i].Title != want {
			t.Errorf("subtask %d title = %q, want %q", i, subtasks[i].Title, want)
		}
		if subtasks[i].ID != i+1 {
			t.Errorf("subtask %d id = %d, want %d", i, subtasks[i].ID, i+1)
		}
	}

	deps := subtasks[2].Dependencies
	if len(deps) != 2 || deps[0] != 1 || deps[1] != 2 {
		t.Errorf("Synthesize dependencies = %v, want [1 2]", deps)
	}
}

func TestDecomposeFallbackOnProviderError(t *testing.T) {
	d := New(&stubAdapter{err: errors.New("boom")}, 5)

	subtasks := d.Decompose(context.Background(), "anything")
	if len(subtasks) != 3 {
		t.Fatalf("got %d subtasks, want fallback of 3", len(subtasks))
	}
}

func TestDecomposeNormalization(t *testing.T) {
	// Seven subtasks with messy ids and dependencies: out-of-range,
	// forward, self, and duplicate references.
	response := `[
		{"id":10,"title":"A","dependencies":[]},
		{"id":20,"title":"B","dependencies":[10]},
		{"id":30,"title":"C","dependencies":[1,1,3,99]},
		{"id":40,"title":"D","dependencies":[2]},
		{"id":50,"title":"E","dependencies":[]},
		{"id":60,"title":"F","dependencies":[]},
		{"id":70,"title":"G","dependencies":[]}
	]`
	d := New(&stubAdapter{response: response}, 5)

	subtasks := d.Decompose(context.Background(), "goal")

	if len(subtasks) != 5 {
		t.Fatalf("got %d subtasks, want truncation to 5", len(subtasks))
	}
	for i, st := range subtasks {
		if st.ID != i+1 {
			t.Errorf("subtask %d id = %d, want positional %d", i, st.ID, i+1)
		}
		for _, dep := range st.Dependencies {
			if dep < 1 || dep >= st.ID {
				t.Errorf("subtask %d has invalid dependency %d", st.ID, dep)
			}
		}
	}

	// C's dependencies: 1 kept once, self and out-of-range dropped.
	if got := subtasks[2].Dependencies; len(got) != 1 || got[0] != 1 {
		t.Errorf("subtask 3 dependencies = %v, want [1]", got)
	}

	// Last subtask had no declared dependencies; the synthesis
	// convention assigns all prior ids.
	last := subtasks[len(subtasks)-1]
	if len(last.Dependencies) != last.ID-1 {
		t.Errorf("last subtask dependencies = %v, want all of 1..%d", last.Dependencies, last.ID-1)
	}
}

func TestDecomposeBounds(t *testing.T) {
	goals := []string{"short", "a much longer and more involved goal with many words"}
	for _, goal := range goals {
		d := New(&stubAdapter{response: `[{"id":1,"title":"Do it","dependencies":[]}]`}, 5)
		subtasks := d.Decompose(context.Background(), goal)
		if len(subtasks) < 1 || len(subtasks) > 5 {
			t.Errorf("goal %q: got %d subtasks, want between 1 and 5", goal, len(subtasks))
		}
		seen := make(map[int]bool)
		for _, st := range subtasks {
			if seen[st.ID] {
				t.Errorf("goal %q: duplicate id %d", goal, st.ID)
			}
			seen[st.ID] = true
		}
	}
}
