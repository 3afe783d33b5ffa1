// Package engine wires the full pipeline: decompose a goal, schedule
// subtasks over racing providers, extract artifacts, reflect, and
// record a redacted summary.
package engine

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ShayCichocki/deepthink/internal/artifact"
	"github.com/ShayCichocki/deepthink/internal/config"
	"github.com/ShayCichocki/deepthink/internal/decompose"
	"github.com/ShayCichocki/deepthink/internal/deploy"
	"github.com/ShayCichocki/deepthink/internal/learning"
	"github.com/ShayCichocki/deepthink/internal/provider"
	"github.com/ShayCichocki/deepthink/internal/race"
	"github.com/ShayCichocki/deepthink/internal/reflection"
	"github.com/ShayCichocki/deepthink/internal/scheduler"
	"github.com/ShayCichocki/deepthink/pkg/models"
)

// Engine runs the decompose/schedule/race/merge pipeline for one goal
// at a time. It is safe for concurrent use.
type Engine struct {
	decomposer *decompose.Decomposer
	sched      *scheduler.Scheduler
	critic     provider.Adapter
	recorder   *learning.Recorder
	deployer   deploy.Deployer
}

// New builds an engine from configuration. The store and deployer may
// be nil; recording and deployment are then skipped.
func New(cfg *config.Config, store *learning.Store) (*Engine, error) {
	adapters, err := provider.Build(cfg)
	if err != nil {
		return nil, fmt.Errorf("building providers: %w", err)
	}
	if len(adapters) == 0 {
		return nil, fmt.Errorf("no provider credentials configured")
	}

	arbiter := race.NewArbiter(adapters, race.Options{
		ProviderTimeout: cfg.Race.ProviderTimeout,
		GlobalDeadline:  cfg.Race.GlobalDeadline,
		Quorum:          cfg.Race.MajorityThreshold,
	})

	// The first adapter doubles as the fast single-call provider for
	// decomposition and the failure critique.
	fast := adapters[0]

	var deployer deploy.Deployer
	if cfg.Deploy.Endpoint != "" {
		deployer = deploy.NewHTTPDeployer(cfg.Deploy.Endpoint, cfg.Deploy.Token)
	}

	var recorder *learning.Recorder
	if cfg.Learning.Enabled {
		recorder = learning.NewRecorder(store)
	}

	return &Engine{
		decomposer: decompose.New(fast, cfg.Race.MaxSubtasks),
		sched:      scheduler.New(arbiter),
		critic:     fast,
		recorder:   recorder,
		deployer:   deployer,
	}, nil
}

// Run executes the full pipeline for one request. Failures inside the
// pipeline surface as failed subtask results; only a panic or an
// invalid decomposition produces an error.
func (e *Engine) Run(ctx context.Context, req *models.ThinkRequest) (resp *models.ThinkResponse, err error) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[engine] run panicked: %v", r)
			resp = nil
			err = fmt.Errorf("internal pipeline error: %v", r)
		}
	}()

	if strings.TrimSpace(req.Message) == "" {
		return nil, fmt.Errorf("empty message")
	}

	runID := uuid.New().String()
	start := time.Now()
	goal := req.Message
	log.Printf("[engine] run %s: %q", runID, truncateForLog(goal))

	subtasks := e.decomposer.Decompose(ctx, goal)

	results, err := e.sched.Run(ctx, goal, subtasks)
	if err != nil {
		return nil, fmt.Errorf("scheduling subtasks: %w", err)
	}

	var successOutputs []string
	completed := 0
	for _, res := range results {
		if res.Status == models.SubtaskStatusSuccess {
			successOutputs = append(successOutputs, res.Output)
			completed++
		}
	}

	artifacts := artifact.Extract(successOutputs)
	projectType, needsDeploy := classifyProject(goal, artifacts)

	output := finalOutput(results)
	reflectionText, lessons := reflection.Reflect(ctx, e.critic, goal, results)

	if needsDeploy && e.deployer != nil {
		if url := e.tryDeploy(ctx, runID, artifacts); url != "" {
			output += "\n\nDeployed to: " + url
		}
	}

	elapsed := time.Since(start)

	summary := &models.RunSummary{
		RunID:      runID,
		Goal:       goal,
		UserID:     req.UserID,
		Subtasks:   subtasks,
		Results:    results,
		Artifacts:  artifacts,
		Output:     output,
		Reflection: reflectionText,
		Lessons:    lessons,
		Elapsed:    elapsed,
		StartedAt:  start,
	}
	if e.recorder != nil {
		e.recorder.RecordDetached(summary, req.LearningAllowed())
	}

	log.Printf("[engine] run %s finished: %d/%d subtasks in %s", runID, completed, len(results), elapsed.Round(time.Millisecond))

	return &models.ThinkResponse{
		Output: output,
		Summary: models.PipelineSummary{
			TotalSubtasks:     len(subtasks),
			CompletedSubtasks: completed,
			TotalTime:         elapsed,
			Decomposition:     subtasks,
		},
		SubtaskResults:     results,
		LessonsLearned:     lessons,
		Reflection:         reflectionText,
		Artifacts:          artifacts,
		RequiresDeployment: needsDeploy,
		ProjectType:        projectType,
	}, nil
}

// finalOutput picks the user-facing answer: the last successful
// result, which by the synthesis convention integrates all prior
// steps. If nothing succeeded, fall back to the last result's output
// so the caller still sees the failure text.
func finalOutput(results []*models.SubtaskResult) string {
	for i := len(results) - 1; i >= 0; i-- {
		if results[i].Status == models.SubtaskStatusSuccess {
			return results[i].Output
		}
	}
	if len(results) > 0 {
		return results[len(results)-1].Output
	}
	return ""
}

// tryDeploy publishes artifacts as files. Deployment failures are
// logged and never fail the run.
func (e *Engine) tryDeploy(ctx context.Context, runID string, artifacts []*models.CodeArtifact) string {
	files := make([]deploy.File, 0, len(artifacts))
	for _, a := range artifacts {
		files = append(files, deploy.File{Path: a.Filename, Content: a.Content})
	}
	url, err := e.deployer.Deploy(ctx, "deepthink-"+runID[:8], files)
	if err != nil {
		log.Printf("[engine] deploy failed for run %s: %v", runID, err)
		return ""
	}
	return url
}

func truncateForLog(s string) string {
	if len(s) > 80 {
		return s[:80] + "..."
	}
	return s
}
