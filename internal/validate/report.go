package validate

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Report is the assembled result of one validation run. Immutable once
// returned; IsValid is true exactly when Errors is empty.
type Report struct {
	RunID           string          `json:"run_id"`
	IsValid         bool            `json:"is_valid"`
	Errors          []string        `json:"errors"`
	Warnings        []string        `json:"warnings"`
	Recommendations []string        `json:"recommendations"`
	Statistics      SplitStatistics `json:"statistics"`
	GeneratedAt     time.Time       `json:"generated_at"`
}

// Assemble merges the ordered stage findings, the statistics snapshot, and
// the recommendations into one Report. Findings keep their insertion
// order within each severity.
func Assemble(runID string, findings []Finding, stats SplitStatistics) *Report {
	errors := messages(findings, SeverityError)
	return &Report{
		RunID:           runID,
		IsValid:         len(errors) == 0,
		Errors:          errors,
		Warnings:        messages(findings, SeverityWarning),
		Recommendations: messages(findings, SeverityRecommendation),
		Statistics:      stats,
		GeneratedAt:     time.Now().UTC(),
	}
}

// WriteJSON persists the report atomically: the document is written to a
// temp file in the destination directory and renamed into place, so a
// crash never leaves a partial report behind.
func (r *Report) WriteJSON(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create report directory: %w", err)
		}
	}

	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".report-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp report: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write report: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close report: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to finalize report: %w", err)
	}
	return nil
}

// LoadReport reads a previously written report back from disk.
func LoadReport(path string) (*Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read report: %w", err)
	}
	var r Report
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("failed to parse report %s: %w", path, err)
	}
	return &r, nil
}
