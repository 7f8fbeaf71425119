// Package pipeline sequences environment checking, dataset validation,
// hyperparameter search, and training into one repeatable run. The search
// and training engines are external collaborators injected through
// interfaces; this package only orchestrates them.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"kumaydet/internal/config"
	"kumaydet/internal/history"
	"kumaydet/internal/validate"
)

// EnvironmentChecker verifies the runtime environment before anything runs.
type EnvironmentChecker interface {
	Check(ctx context.Context) error
}

// BestParams is the hyperparameter set a search collaborator settles on.
type BestParams map[string]float64

// Optimizer runs hyperparameter search and returns the best parameters.
type Optimizer interface {
	Search(ctx context.Context, resultsDir string) (BestParams, error)
}

// TrainResult is what a training collaborator reports back.
type TrainResult struct {
	WeightsPath string
	Metrics     map[string]float64
}

// Trainer runs model training with the chosen parameters.
type Trainer interface {
	Train(ctx context.Context, params BestParams, resultsDir string) (TrainResult, error)
}

// Stage statuses.
const (
	StatusOK      = "ok"
	StatusFailed  = "failed"
	StatusSkipped = "skipped"
)

// StageResult records one stage's outcome and timing.
type StageResult struct {
	Name     string        `json:"name"`
	Status   string        `json:"status"`
	Duration time.Duration `json:"duration"`
	Error    string        `json:"error,omitempty"`
}

// RunResult is the outcome of one pipeline run.
type RunResult struct {
	RunID      string           `json:"run_id"`
	StartedAt  time.Time        `json:"started_at"`
	ResultsDir string           `json:"results_dir"`
	Stages     []StageResult    `json:"stages"`
	Report     *validate.Report `json:"report"`
	BestParams BestParams       `json:"best_params,omitempty"`
	Training   *TrainResult     `json:"training,omitempty"`
}

// Pipeline wires the stages together.
type Pipeline struct {
	cfg       *config.Config
	logger    *zap.Logger
	env       EnvironmentChecker
	optimizer Optimizer
	trainer   Trainer
	store     *history.Store
}

// Option configures optional collaborators.
type Option func(*Pipeline)

// WithEnvironmentChecker injects the environment collaborator.
func WithEnvironmentChecker(e EnvironmentChecker) Option {
	return func(p *Pipeline) { p.env = e }
}

// WithOptimizer injects the search collaborator.
func WithOptimizer(o Optimizer) Option {
	return func(p *Pipeline) { p.optimizer = o }
}

// WithTrainer injects the training collaborator.
func WithTrainer(tr Trainer) Option {
	return func(p *Pipeline) { p.trainer = tr }
}

// WithHistory records runs to the given store.
func WithHistory(s *history.Store) Option {
	return func(p *Pipeline) { p.store = s }
}

// New creates a Pipeline. A nil logger falls back to a no-op logger.
func New(cfg *config.Config, logger *zap.Logger, opts ...Option) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	p := &Pipeline{cfg: cfg, logger: logger}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run executes the configured stage sequence. Validation always runs; a
// failed environment check or an invalid dataset (with halt_on_invalid)
// stops before the expensive stages. The returned RunResult always carries
// whatever completed; err is non-nil only when the run could not even
// establish its results directory.
func (p *Pipeline) Run(ctx context.Context) (*RunResult, error) {
	result := &RunResult{
		RunID:     uuid.NewString(),
		StartedAt: time.Now().UTC(),
	}
	log := p.logger.With(zap.String("run_id", result.RunID))

	result.ResultsDir = filepath.Join(p.cfg.Pipeline.ResultsDir,
		"pipeline_"+result.StartedAt.Format("20060102_150405"))
	if err := os.MkdirAll(result.ResultsDir, 0755); err != nil {
		return result, fmt.Errorf("failed to create results directory: %w", err)
	}

	if p.cfg.Pipeline.RunEnvCheck {
		stage := p.runStage("environment", log, func() error {
			if p.env == nil {
				return nil
			}
			return p.env.Check(ctx)
		})
		result.Stages = append(result.Stages, stage)
		if stage.Status == StatusFailed {
			return result, nil
		}
	}

	var report *validate.Report
	stage := p.runStage("validation", log, func() error {
		report = validate.New(p.cfg, p.logger).Run(ctx)
		result.Report = report

		reportPath := filepath.Join(result.ResultsDir, "validation_report.json")
		if err := report.WriteJSON(reportPath); err != nil {
			// The in-memory report stands; persistence failure is
			// reported but never invalidates the run.
			log.Warn("Failed to persist validation report", zap.Error(err))
		}
		if p.store != nil {
			if err := p.store.Record(p.cfg.Dataset.Path, report); err != nil {
				log.Warn("Failed to record run history", zap.Error(err))
			}
		}
		return nil
	})
	result.Stages = append(result.Stages, stage)

	if !report.IsValid && p.cfg.Pipeline.HaltOnInvalid {
		log.Warn("Dataset invalid, halting pipeline", zap.Int("errors", len(report.Errors)))
		return result, nil
	}

	params := BestParams{}
	if p.cfg.Pipeline.RunSearch {
		if p.optimizer == nil {
			result.Stages = append(result.Stages, StageResult{Name: "search", Status: StatusSkipped})
		} else {
			stage := p.runStage("search", log, func() error {
				best, err := p.optimizer.Search(ctx, result.ResultsDir)
				if err != nil {
					return err
				}
				params = best
				result.BestParams = best
				return nil
			})
			result.Stages = append(result.Stages, stage)
			if stage.Status == StatusFailed {
				return result, nil
			}
		}
	}

	if p.cfg.Pipeline.RunTraining {
		if p.trainer == nil {
			result.Stages = append(result.Stages, StageResult{Name: "training", Status: StatusSkipped})
		} else {
			stage := p.runStage("training", log, func() error {
				tr, err := p.trainer.Train(ctx, params, result.ResultsDir)
				if err != nil {
					return err
				}
				result.Training = &tr
				return nil
			})
			result.Stages = append(result.Stages, stage)
		}
	}

	return result, nil
}

func (p *Pipeline) runStage(name string, log *zap.Logger, fn func() error) StageResult {
	log.Info("Stage starting", zap.String("stage", name))
	start := time.Now()
	err := fn()
	stage := StageResult{Name: name, Duration: time.Since(start)}
	if err != nil {
		stage.Status = StatusFailed
		stage.Error = err.Error()
		log.Error("Stage failed", zap.String("stage", name), zap.Error(err))
		return stage
	}
	stage.Status = StatusOK
	log.Info("Stage complete", zap.String("stage", name), zap.Duration("took", stage.Duration))
	return stage
}
