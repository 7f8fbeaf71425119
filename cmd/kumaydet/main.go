// Package main implements the kumaydet CLI: configuration-driven dataset
// validation and training-pipeline orchestration for the binary-class
// wildlife detector.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"kumaydet/internal/config"
	"kumaydet/internal/logging"
)

var (
	// Global flags
	configPath  string
	datasetPath string
	verbose     bool

	// Shared state built in PersistentPreRunE
	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "kumaydet",
	Short: "Dataset validation and training pipeline for the kumay detector",
	Long: `kumaydet sequences environment preparation, dataset validation,
hyperparameter search, and model training into one repeatable pipeline
for a two-class (kumay / not_kumay) detection task.

The detection engine and the search engine are external collaborators;
kumaydet validates the dataset they consume and orchestrates their runs.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		if datasetPath != "" {
			cfg.Dataset.Path = datasetPath
		}
		if verbose {
			cfg.Logging.Debug = true
		}

		logger, err = logging.New(cfg.Logging)
		if err != nil {
			return err
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config.yaml", "path to the kumaydet config file")
	rootCmd.PersistentFlags().StringVarP(&datasetPath, "dataset", "d", "", "override the configured dataset root")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(pipelineCmd)
	rootCmd.AddCommand(historyCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
