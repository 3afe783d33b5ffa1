package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ShayCichocki/deepthink/internal/config"
	"github.com/ShayCichocki/deepthink/internal/engine"
	"github.com/ShayCichocki/deepthink/internal/learning"
	"github.com/ShayCichocki/deepthink/pkg/models"
)

var (
	runUserID  string
	runNoLearn bool
	runOutDir  string
)

var runCmd = &cobra.Command{
	Use:   "run <goal>",
	Short: "Run the pipeline once for a goal",
	Long: `Run decomposes the goal, races the configured providers for each
subtask, and prints the synthesized result. Extracted code artifacts
can be written to a directory with --out.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		goal := strings.Join(args, " ")

		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		store, err := openStore(cfg)
		if err != nil {
			return err
		}
		if store != nil {
			defer store.Close()
		}

		eng, err := engine.New(cfg, store)
		if err != nil {
			return err
		}

		req := &models.ThinkRequest{Message: goal, UserID: runUserID}
		if runNoLearn {
			allow := false
			req.AllowLearning = &allow
		}

		resp, err := eng.Run(context.Background(), req)
		if err != nil {
			return err
		}

		printResponse(resp)

		if runOutDir != "" && len(resp.Artifacts) > 0 {
			if err := writeArtifacts(runOutDir, resp); err != nil {
				return err
			}
		}
		return nil
	},
}

func init() {
	runCmd.Flags().StringVar(&runUserID, "user", "", "User ID to associate with the run")
	runCmd.Flags().BoolVar(&runNoLearn, "no-learning", false, "Opt out of run-summary recording")
	runCmd.Flags().StringVar(&runOutDir, "out", "", "Directory to write extracted artifacts to")
}

func printResponse(resp *models.ThinkResponse) {
	header := color.New(color.FgCyan, color.Bold)
	ok := color.New(color.FgGreen)
	bad := color.New(color.FgRed)
	dim := color.New(color.Faint)

	header.Println("── Subtasks ──")
	for _, res := range resp.SubtaskResults {
		status := ok
		if res.Status == models.SubtaskStatusFailed {
			status = bad
		}
		status.Printf("  [%s]", res.Status)
		fmt.Printf(" %d. %s ", res.ID, res.Title)
		dim.Printf("(%s, %s)\n", res.Model, res.Latency.Round(time.Millisecond))
	}

	fmt.Println()
	header.Println("── Result ──")
	fmt.Println(resp.Output)

	if len(resp.Artifacts) > 0 {
		fmt.Println()
		header.Println("── Artifacts ──")
		for _, a := range resp.Artifacts {
			fmt.Printf("  %s ", a.Filename)
			dim.Printf("(%s, %d bytes)\n", a.Language, len(a.Content))
		}
	}

	if resp.Reflection != "" {
		fmt.Println()
		dim.Printf("%s\n", resp.Reflection)
	}
}

func writeArtifacts(dir string, resp *models.ThinkResponse) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	for _, a := range resp.Artifacts {
		path := filepath.Join(dir, a.Filename)
		if err := os.WriteFile(path, []byte(a.Content), 0644); err != nil {
			return fmt.Errorf("writing %s: %w", a.Filename, err)
		}
		fmt.Printf("wrote %s\n", path)
	}
	return nil
}

// openStore opens the run-summary store, or returns nil when learning
// is disabled.
func openStore(cfg *config.Config) (*learning.Store, error) {
	if !cfg.Learning.Enabled {
		return nil, nil
	}
	dbPath := cfg.Learning.DBPath
	if dbPath == "" {
		dbPath = learning.DefaultDBPath()
	}
	store, err := learning.NewStore(dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening run store: %w", err)
	}
	return store, nil
}
