package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ShayCichocki/deepthink/internal/config"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		store, err := openStore(cfg)
		if err != nil {
			return err
		}
		if store == nil {
			return fmt.Errorf("learning is disabled; no run history available")
		}
		defer store.Close()

		recs, err := store.ListRecent(historyLimit)
		if err != nil {
			return fmt.Errorf("listing runs: %w", err)
		}
		if len(recs) == 0 {
			fmt.Println("no recorded runs")
			return nil
		}

		dim := color.New(color.Faint)
		for _, rec := range recs {
			fmt.Printf("%s  %-16s %3.0f%%  %s\n",
				rec.CreatedAt.Local().Format("2006-01-02 15:04"),
				rec.Category, rec.SuccessRate*100, rec.Goal)
			dim.Printf("    run %s, top model %s\n", rec.RunID, rec.TopModel)
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "Maximum number of runs to show")
}
