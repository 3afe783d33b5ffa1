package models

import "time"

// ProjectType classifies what kind of deliverable a run produced.
type ProjectType string

const (
	// ProjectTypeWebsite indicates a static website build.
	ProjectTypeWebsite ProjectType = "website"
	// ProjectTypeApp indicates an interactive application build.
	ProjectTypeApp ProjectType = "app"
	// ProjectTypeScript indicates a standalone script or program.
	ProjectTypeScript ProjectType = "script"
	// ProjectTypeDocument indicates a text-only deliverable.
	ProjectTypeDocument ProjectType = "document"
)

// Message is one turn of prior conversation supplied with a request.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ThinkRequest is the logical request shape accepted by the engine.
type ThinkRequest struct {
	// Message is the free-text goal.
	Message string `json:"message"`
	// History is optional prior conversation context.
	History []Message `json:"history,omitempty"`
	// UserID identifies the requesting user, if known.
	UserID string `json:"user_id,omitempty"`
	// ConversationID groups related requests.
	ConversationID string `json:"conversation_id,omitempty"`
	// AllowLearning controls run-summary persistence. Nil means allowed.
	AllowLearning *bool `json:"allow_learning,omitempty"`
}

// LearningAllowed returns false only when the user explicitly opted out.
func (r *ThinkRequest) LearningAllowed() bool {
	return r.AllowLearning == nil || *r.AllowLearning
}

// PipelineSummary describes the decomposition and completion counts of a run.
type PipelineSummary struct {
	// TotalSubtasks is the size of the decomposition.
	TotalSubtasks int `json:"totalSubtasks"`
	// CompletedSubtasks counts results with success status.
	CompletedSubtasks int `json:"completedSubtasks"`
	// TotalTime is the wall-clock duration of the whole pipeline.
	TotalTime time.Duration `json:"totalTime"`
	// Decomposition is the ordered subtask list produced by the decomposer.
	Decomposition []*Subtask `json:"decomposition"`
}

// ThinkResponse is the logical response shape returned by the engine.
type ThinkResponse struct {
	// Output is the synthesized final answer.
	Output string `json:"output"`
	// Summary describes the decomposition and completion counts.
	Summary PipelineSummary `json:"dppmSummary"`
	// SubtaskResults lists every settled subtask in execution order.
	SubtaskResults []*SubtaskResult `json:"subtaskResults"`
	// LessonsLearned holds the two lessons emitted by the reflection stage.
	LessonsLearned []string `json:"lessonsLearned"`
	// Reflection is the reflection stage's summary text.
	Reflection string `json:"reflection"`
	// Artifacts lists deduplicated code artifacts, if any were found.
	Artifacts []*CodeArtifact `json:"artifacts,omitempty"`
	// RequiresDeployment is true when artifacts form a deployable project.
	RequiresDeployment bool `json:"requiresDeployment,omitempty"`
	// ProjectType classifies the deliverable when artifacts are present.
	ProjectType ProjectType `json:"projectType,omitempty"`
}

// RunSummary is the ephemeral aggregate of one pipeline run.
// It is never mutated after synthesis; the learning recorder persists
// a redacted copy when the user allows it.
type RunSummary struct {
	// RunID uniquely identifies the run.
	RunID string `json:"run_id"`
	// Goal is the original request text.
	Goal string `json:"goal"`
	// UserID identifies the requesting user, if known.
	UserID string `json:"user_id,omitempty"`
	// Subtasks is the decomposition.
	Subtasks []*Subtask `json:"subtasks"`
	// Results holds one settled result per subtask.
	Results []*SubtaskResult `json:"results"`
	// Artifacts holds extracted code artifacts.
	Artifacts []*CodeArtifact `json:"artifacts,omitempty"`
	// Output is the synthesized final answer.
	Output string `json:"output"`
	// Reflection is the reflection stage's text.
	Reflection string `json:"reflection"`
	// Lessons holds the lessons emitted by the reflection stage.
	Lessons []string `json:"lessons"`
	// Elapsed is the total pipeline duration.
	Elapsed time.Duration `json:"elapsed"`
	// StartedAt is when the run began.
	StartedAt time.Time `json:"started_at"`
}

// SuccessRate returns the fraction of results with success status,
// or 0 when there are no results.
func (r *RunSummary) SuccessRate() float64 {
	if len(r.Results) == 0 {
		return 0
	}
	var ok int
	for _, res := range r.Results {
		if res.Status == SubtaskStatusSuccess {
			ok++
		}
	}
	return float64(ok) / float64(len(r.Results))
}

// TopModel returns the provider name that won the most subtasks,
// or "none" when no subtask settled with a real provider.
func (r *RunSummary) TopModel() string {
	counts := make(map[string]int)
	for _, res := range r.Results {
		if res.Model != "" && res.Model != "none" {
			counts[res.Model]++
		}
	}
	top, best := "none", 0
	for model, n := range counts {
		if n > best || (n == best && top != "none" && model < top) {
			top, best = model, n
		}
	}
	return top
}
