package engine

import (
	"testing"

	"github.com/ShayCichocki/deepthink/pkg/models"
)

func TestFinalOutput(t *testing.T) {
	tests := []struct {
		name    string
		results []*models.SubtaskResult
		want    string
	}{
		{
			name: "last success wins",
			results: []*models.SubtaskResult{
				{ID: 1, Output: "plan", Status: models.SubtaskStatusSuccess},
				{ID: 2, Output: "final synthesis", Status: models.SubtaskStatusSuccess},
			},
			want: "final synthesis",
		},
		{
			name: "skips trailing failure",
			results: []*models.SubtaskResult{
				{ID: 1, Output: "partial work", Status: models.SubtaskStatusSuccess},
				{ID: 2, Output: "timed out", Status: models.SubtaskStatusFailed},
			},
			want: "partial work",
		},
		{
			name: "all failed falls back to last",
			results: []*models.SubtaskResult{
				{ID: 1, Output: "err one", Status: models.SubtaskStatusFailed},
				{ID: 2, Output: "err two", Status: models.SubtaskStatusFailed},
			},
			want: "err two",
		},
		{
			name: "empty",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := finalOutput(tt.results); got != tt.want {
				t.Errorf("finalOutput() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestClassifyProject(t *testing.T) {
	tests := []struct {
		name       string
		goal       string
		artifacts  []*models.CodeArtifact
		wantType   models.ProjectType
		wantDeploy bool
	}{
		{
			name:     "no artifacts is a document",
			goal:     "write me a story",
			wantType: models.ProjectTypeDocument,
		},
		{
			name: "html only is a website",
			goal: "make a landing page",
			artifacts: []*models.CodeArtifact{
				{Filename: "index.html", Language: "html"},
				{Filename: "styles.css", Language: "css"},
			},
			wantType:   models.ProjectTypeWebsite,
			wantDeploy: true,
		},
		{
			name: "html plus js is an app",
			goal: "make a todo tracker",
			artifacts: []*models.CodeArtifact{
				{Filename: "index.html", Language: "html"},
				{Filename: "script.js", Language: "javascript"},
			},
			wantType:   models.ProjectTypeApp,
			wantDeploy: true,
		},
		{
			name: "python only is a script",
			goal: "parse these logs",
			artifacts: []*models.CodeArtifact{
				{Filename: "main.py", Language: "python"},
			},
			wantType: models.ProjectTypeScript,
		},
		{
			name: "json only is a document",
			goal: "give me the data",
			artifacts: []*models.CodeArtifact{
				{Filename: "data.json", Language: "json"},
			},
			wantType: models.ProjectTypeDocument,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotType, gotDeploy := classifyProject(tt.goal, tt.artifacts)
			if gotType != tt.wantType {
				t.Errorf("type = %s, want %s", gotType, tt.wantType)
			}
			if gotDeploy != tt.wantDeploy {
				t.Errorf("deploy = %t, want %t", gotDeploy, tt.wantDeploy)
			}
		})
	}
}
