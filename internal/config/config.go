package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds all kumaydet configuration.
type Config struct {
	// Core settings
	Name    string `yaml:"name"`
	Version string `yaml:"version"`

	// Dataset location and class declaration
	Dataset DatasetConfig `yaml:"dataset"`

	// Validation thresholds
	Validation ValidationConfig `yaml:"validation"`

	// Pipeline orchestration
	Pipeline PipelineConfig `yaml:"pipeline"`

	// Run history store
	History HistoryConfig `yaml:"history"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`
}

// DatasetConfig declares where the dataset lives and what classes it contains.
// ClassNames is the single source of truth for multi-class vs single-class
// mode: len(ClassNames) == 1 means single-class, anything else multi-class.
// ClassCount must always match len(ClassNames); this is checked at load time,
// never inferred per stage.
type DatasetConfig struct {
	Path       string   `yaml:"path"`
	ClassCount int      `yaml:"class_count"`
	ClassNames []string `yaml:"class_names"`
}

// ValidationConfig carries the thresholds consumed by the validation stages.
type ValidationConfig struct {
	// Minimum acceptable width/height in pixels. Smaller images are warnings.
	MinImageDim int `yaml:"min_image_dim"`

	// Minimum object count per class before a collect-more recommendation.
	MinSamplesPerClass int `yaml:"min_samples_per_class"`

	// Largest/smallest class count ratio before a rebalance recommendation.
	ImbalanceRatio float64 `yaml:"imbalance_ratio"`

	// Minimum val/train image count fraction before a split recommendation.
	MinValFraction float64 `yaml:"min_val_fraction"`

	// Worker goroutines for per-file quality checks. 0 = GOMAXPROCS.
	Workers int `yaml:"workers"`

	// Where to persist the JSON report. Empty disables persistence.
	ReportPath string `yaml:"report_path"`
}

// PipelineConfig controls which stages the full pipeline runs.
type PipelineConfig struct {
	ResultsDir    string `yaml:"results_dir"`
	RunEnvCheck   bool   `yaml:"run_env_check"`
	RunSearch     bool   `yaml:"run_search"`
	RunTraining   bool   `yaml:"run_training"`
	HaltOnInvalid bool   `yaml:"halt_on_invalid"`
}

// HistoryConfig configures the SQLite run-history store.
type HistoryConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// LoggingConfig configures the zap logger.
type LoggingConfig struct {
	Debug bool   `yaml:"debug"`
	Level string `yaml:"level"` // debug/info/warn/error
}

// Default returns a Config with sane defaults for a binary-class
// wildlife-detection dataset.
func Default() *Config {
	return &Config{
		Name:    "kumaydet",
		Version: "1.0.0",
		Dataset: DatasetConfig{
			ClassCount: 2,
			ClassNames: []string{"kumay", "not_kumay"},
		},
		Validation: ValidationConfig{
			MinImageDim:        32,
			MinSamplesPerClass: 50,
			ImbalanceRatio:     3.0,
			MinValFraction:     0.1,
		},
		Pipeline: PipelineConfig{
			ResultsDir:    "results",
			RunEnvCheck:   true,
			RunSearch:     false,
			RunTraining:   false,
			HaltOnInvalid: true,
		},
		History: HistoryConfig{
			Enabled: false,
			Path:    "kumaydet_history.db",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load reads a YAML config file, applies defaults for unset fields,
// applies environment overrides, and validates the result.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnvOverrides lets environment variables win over file values.
// KUMAYDET_DATASET overrides the dataset path, KUMAYDET_DEBUG enables
// debug logging, KUMAYDET_WORKERS sets quality-check parallelism.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("KUMAYDET_DATASET"); v != "" {
		c.Dataset.Path = v
	}
	if v := os.Getenv("KUMAYDET_DEBUG"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Logging.Debug = b
		}
	}
	if v := os.Getenv("KUMAYDET_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Validation.Workers = n
		}
	}
	if v := os.Getenv("KUMAYDET_HISTORY_DB"); v != "" {
		c.History.Path = v
		c.History.Enabled = true
	}
}

// Validate checks the config once at load time so later stages never have
// to probe for missing or inconsistent fields.
func (c *Config) Validate() error {
	if c.Dataset.Path == "" {
		return fmt.Errorf("dataset.path is required")
	}
	if c.Dataset.ClassCount <= 0 {
		return fmt.Errorf("dataset.class_count must be positive, got %d", c.Dataset.ClassCount)
	}
	if len(c.Dataset.ClassNames) != c.Dataset.ClassCount {
		return fmt.Errorf("dataset.class_count=%d does not match %d class_names",
			c.Dataset.ClassCount, len(c.Dataset.ClassNames))
	}
	if c.Validation.MinImageDim <= 0 {
		return fmt.Errorf("validation.min_image_dim must be positive, got %d", c.Validation.MinImageDim)
	}
	if c.Validation.ImbalanceRatio < 1.0 {
		return fmt.Errorf("validation.imbalance_ratio must be >= 1.0, got %g", c.Validation.ImbalanceRatio)
	}
	if c.Validation.MinValFraction < 0 || c.Validation.MinValFraction > 1 {
		return fmt.Errorf("validation.min_val_fraction must be in [0,1], got %g", c.Validation.MinValFraction)
	}
	if c.Validation.Workers < 0 {
		return fmt.Errorf("validation.workers must not be negative, got %d", c.Validation.Workers)
	}
	return nil
}

// Save writes the config back to disk as YAML.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}
