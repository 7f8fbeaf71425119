package validate

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"kumaydet/internal/config"
	"kumaydet/internal/dataset"
)

// Validator runs the full validation sequence against one dataset.
// Stages are pure functions over prior-stage outputs; the Validator only
// threads results from one to the next.
type Validator struct {
	cfg    *config.Config
	logger *zap.Logger
}

// New creates a Validator. A nil logger falls back to a no-op logger.
func New(cfg *config.Config, logger *zap.Logger) *Validator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Validator{cfg: cfg, logger: logger}
}

// Run executes every stage and always returns a report, even when the
// dataset root is missing entirely. Per-file failures degrade to findings
// rather than aborting the run.
func (v *Validator) Run(ctx context.Context) *Report {
	runID := uuid.NewString()
	layout := dataset.NewLayout(v.cfg.Dataset.Path)
	log := v.logger.With(zap.String("run_id", runID), zap.String("dataset", layout.Root))

	log.Info("Starting dataset validation")

	var findings []Finding

	structural := CheckStructure(layout)
	findings = append(findings, structural...)
	log.Debug("Structure check complete", zap.Int("findings", len(structural)))

	// With no root every descriptor check would just restate the four
	// structural errors, so the stage is skipped and the run continues
	// with empty splits.
	if RootExists(layout) {
		descFindings, _ := CheckDescriptor(layout.Root)
		findings = append(findings, descFindings...)
		log.Debug("Descriptor check complete", zap.Int("findings", len(descFindings)))
	} else {
		log.Warn("Dataset root missing, skipping descriptor check")
	}

	consistency, files := CheckConsistency(layout)
	findings = append(findings, consistency...)
	log.Debug("Consistency check complete", zap.Int("findings", len(consistency)))

	quality, qualityResult := CheckQuality(ctx, layout, files, QualityOptions{
		ClassCount:  v.cfg.Dataset.ClassCount,
		MinImageDim: v.cfg.Validation.MinImageDim,
		Workers:     v.cfg.Validation.Workers,
	})
	findings = append(findings, quality...)
	log.Debug("Quality check complete",
		zap.Int("findings", len(quality)),
		zap.Int("label_lines", qualityResult.TotalLines),
		zap.Int("malformed_lines", qualityResult.MalformedLines))

	stats := Aggregate(files, qualityResult, v.cfg.Dataset.ClassNames)

	findings = append(findings, Recommend(stats, Thresholds{
		MinSamplesPerClass: v.cfg.Validation.MinSamplesPerClass,
		ImbalanceRatio:     v.cfg.Validation.ImbalanceRatio,
		MinValFraction:     v.cfg.Validation.MinValFraction,
	})...)

	report := Assemble(runID, findings, stats)
	log.Info("Validation complete",
		zap.Bool("is_valid", report.IsValid),
		zap.Int("errors", len(report.Errors)),
		zap.Int("warnings", len(report.Warnings)),
		zap.Int("recommendations", len(report.Recommendations)))
	return report
}
