package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"kumaydet/internal/dataset"
	"kumaydet/internal/history"
	"kumaydet/internal/ux"
	"kumaydet/internal/validate"
	"kumaydet/internal/watch"
)

var (
	reportPath string
	watchMode  bool
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the dataset and produce a report",
	Long: `Runs the full validation sequence against the configured dataset:
directory structure, descriptor consistency, image/label pairing,
per-file quality checks, statistics, and recommendations.

Exits non-zero when the dataset is invalid so it can gate CI or a
training run. With --watch the dataset is re-validated whenever its
files change, until interrupted.`,
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().StringVarP(&reportPath, "report", "r", "", "write the JSON report to this path (overrides config)")
	validateCmd.Flags().BoolVarP(&watchMode, "watch", "w", false, "re-validate when the dataset changes")
}

func runValidate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	var store *history.Store
	if cfg.History.Enabled {
		var err error
		store, err = history.Open(cfg.History.Path)
		if err != nil {
			return fmt.Errorf("failed to open history store: %w", err)
		}
		defer store.Close()
	}

	info := dataset.CollectInfo(dataset.NewLayout(cfg.Dataset.Path), cfg.Dataset.ClassNames)
	logger.Info("Dataset summary",
		zap.Int("train_images", info.TrainImages),
		zap.Int("val_images", info.ValImages),
		zap.Int("train_labels", info.TrainLabels),
		zap.Int("val_labels", info.ValLabels),
		zap.Strings("classes", info.Classes))

	runOnce := func(ctx context.Context) *validate.Report {
		report := validate.New(cfg, logger).Run(ctx)
		fmt.Println(ux.RenderReport(report, ux.NewStyles()))

		if dest := destinationPath(); dest != "" {
			if err := report.WriteJSON(dest); err != nil {
				// Persistence failure never voids the computed report.
				logger.Warn("Failed to write report", zap.String("path", dest), zap.Error(err))
			} else {
				logger.Info("Report written", zap.String("path", dest))
			}
		}
		if store != nil {
			if err := store.Record(cfg.Dataset.Path, report); err != nil {
				logger.Warn("Failed to record run history", zap.Error(err))
			}
		}
		return report
	}

	if !watchMode {
		report := runOnce(ctx)
		if !report.IsValid {
			return fmt.Errorf("dataset invalid: %d errors", len(report.Errors))
		}
		return nil
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	runOnce(ctx)

	watcher, err := watch.New(dataset.NewLayout(cfg.Dataset.Path), logger, func(ctx context.Context) {
		runOnce(ctx)
	})
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := watcher.Start(ctx); err != nil {
		return err
	}
	defer watcher.Stop()

	logger.Info("Watching dataset for changes", zap.String("dataset", cfg.Dataset.Path))
	<-ctx.Done()
	return nil
}

func destinationPath() string {
	if reportPath != "" {
		return reportPath
	}
	return cfg.Validation.ReportPath
}
