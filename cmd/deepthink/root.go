package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "deepthink",
	Short: "Multi-provider deep thinking engine",
	Long: `Deepthink decomposes a goal into dependent subtasks, races several
text-generation providers for each one, and merges the fastest quorum
of answers into a final result with any embedded code artifacts.

Run a goal directly:
  deepthink run "Build a landing page for a coffee shop"

Or serve the pipeline over HTTP:
  deepthink serve`,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(versionCmd)
}
