package models

import "time"

// SubtaskStatus represents the outcome of a subtask execution.
type SubtaskStatus string

const (
	// SubtaskStatusSuccess indicates the subtask produced usable output.
	SubtaskStatusSuccess SubtaskStatus = "success"
	// SubtaskStatusFailed indicates the subtask produced no usable output.
	SubtaskStatusFailed SubtaskStatus = "failed"
)

// Valid returns true if the status is a known value.
func (s SubtaskStatus) Valid() bool {
	switch s {
	case SubtaskStatusSuccess, SubtaskStatusFailed:
		return true
	default:
		return false
	}
}

// Subtask represents one node of a goal's decomposition.
// IDs are unique within a run, 1-indexed, assigned by the decomposer.
type Subtask struct {
	// ID is the 1-indexed identifier within the run.
	ID int `json:"id"`
	// Title is the short description of the subtask.
	Title string `json:"title"`
	// Description provides detailed instructions for the subtask.
	Description string `json:"description"`
	// Dependencies lists subtask IDs whose outputs this subtask consumes.
	// It references only IDs already present in the same decomposition.
	Dependencies []int `json:"dependencies"`
}

// Independent returns true if the subtask has no dependencies.
func (s *Subtask) Independent() bool {
	return len(s.Dependencies) == 0
}

// SubtaskResult records the settled outcome of one subtask.
// Exactly one result is created per subtask by the scheduler.
type SubtaskResult struct {
	// ID is the subtask ID this result belongs to.
	ID int `json:"id"`
	// Title is copied from the subtask for display.
	Title string `json:"title"`
	// Output is the winning model output, or a short error string on failure.
	Output string `json:"output"`
	// Model is the name of the provider that won the race ("none" on timeout).
	Model string `json:"model"`
	// Latency is how long the subtask took to settle.
	Latency time.Duration `json:"latency"`
	// Status is success or failed.
	Status SubtaskStatus `json:"status"`
}

// CodeArtifact is a named file derived from fenced code regions in
// subtask outputs. Artifacts are derived, not authoritative: they are
// regenerated from result text on every extraction pass.
type CodeArtifact struct {
	// Filename is the canonical output filename (e.g. "index.html").
	Filename string `json:"filename"`
	// Content is the code block body.
	Content string `json:"content"`
	// Language is the fence language tag, if any.
	Language string `json:"language"`
}
