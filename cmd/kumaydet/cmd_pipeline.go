package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"kumaydet/internal/history"
	"kumaydet/internal/pipeline"
	"kumaydet/internal/ux"
)

var pipelineCmd = &cobra.Command{
	Use:   "pipeline",
	Short: "Run the full pipeline: environment, validation, search, training",
	Long: `Sequences the configured stages into one run with a shared results
directory. Hyperparameter search and training only execute when their
collaborator engines are wired in and enabled in config; without them
the stages report as skipped.`,
	RunE: runPipeline,
}

func runPipeline(cmd *cobra.Command, args []string) error {
	opts := []pipeline.Option{}
	if cfg.History.Enabled {
		store, err := history.Open(cfg.History.Path)
		if err != nil {
			return fmt.Errorf("failed to open history store: %w", err)
		}
		defer store.Close()
		opts = append(opts, pipeline.WithHistory(store))
	}

	result, err := pipeline.New(cfg, logger, opts...).Run(cmd.Context())
	if err != nil {
		return err
	}

	fmt.Printf("Pipeline run %s\nResults: %s\n\n", result.RunID, result.ResultsDir)
	for _, stage := range result.Stages {
		line := fmt.Sprintf("  %-12s %-8s %s", stage.Name, stage.Status, stage.Duration.Round(time.Millisecond))
		if stage.Error != "" {
			line += "  " + stage.Error
		}
		fmt.Println(line)
	}
	fmt.Println()

	if result.Report != nil {
		fmt.Println(ux.RenderReport(result.Report, ux.NewStyles()))
		if !result.Report.IsValid {
			return fmt.Errorf("dataset invalid: %d errors", len(result.Report.Errors))
		}
	}
	return nil
}
