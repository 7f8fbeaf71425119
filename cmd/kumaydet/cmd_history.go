package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"kumaydet/internal/history"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent validation runs",
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 10, "number of runs to show")
}

func runHistory(cmd *cobra.Command, args []string) error {
	store, err := history.Open(cfg.History.Path)
	if err != nil {
		return fmt.Errorf("failed to open history store: %w", err)
	}
	defer store.Close()

	runs, err := store.Recent(historyLimit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("No validation runs recorded yet.")
		return nil
	}

	for _, run := range runs {
		status := "valid"
		if !run.IsValid {
			status = "INVALID"
		}
		fmt.Printf("%s  %-7s  errors=%d warnings=%d  train=%d val=%d  %s\n",
			run.RecordedAt.Format("2006-01-02 15:04:05"), status,
			run.ErrorCount, run.WarningCount,
			run.Statistics.ImageCounts["train"], run.Statistics.ImageCounts["val"],
			run.DatasetPath)
	}
	return nil
}
