package validate

import "kumaydet/internal/dataset"

// SplitStatistics holds the aggregate counts computed after all per-file
// checks finished. Computed once, read-only afterward.
type SplitStatistics struct {
	ImageCounts map[string]int `json:"image_counts"`
	LabelCounts map[string]int `json:"label_counts"`
	ClassCounts map[string]int `json:"class_counts"`
}

// Aggregate is pure aggregation over the outputs of the consistency and
// quality stages; it does no I/O. Every declared class appears in
// ClassCounts even when its object count is zero. Objects whose class
// index exceeds the declared name list were already reported as errors
// and are not counted.
func Aggregate(files map[string]SplitFiles, quality QualityResult, classNames []string) SplitStatistics {
	stats := SplitStatistics{
		ImageCounts: make(map[string]int, len(dataset.Splits)),
		LabelCounts: make(map[string]int, len(dataset.Splits)),
		ClassCounts: make(map[string]int, len(classNames)),
	}

	for _, split := range dataset.Splits {
		sf := files[split]
		stats.ImageCounts[split] = len(sf.Images)
		stats.LabelCounts[split] = len(sf.Labels)
	}

	for i, name := range classNames {
		stats.ClassCounts[name] = quality.ClassObjects[i]
	}
	return stats
}
