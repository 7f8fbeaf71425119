package validate

import (
	"sort"

	"kumaydet/internal/dataset"
)

// Thresholds are the advisory policy knobs for the recommendation stage.
type Thresholds struct {
	MinSamplesPerClass int
	ImbalanceRatio     float64
	MinValFraction     float64
}

// Recommend derives advisory findings from the aggregated statistics.
// Recommendations never affect report validity. Classes are visited in
// name order so repeated runs produce identical output.
func Recommend(stats SplitStatistics, th Thresholds) []Finding {
	var findings []Finding

	names := make([]string, 0, len(stats.ClassCounts))
	for name := range stats.ClassCounts {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if count := stats.ClassCounts[name]; count < th.MinSamplesPerClass {
			findings = append(findings, Recommendf(
				"class %s has only %d samples (minimum %d): collect more data for this class",
				name, count, th.MinSamplesPerClass))
		}
	}

	if len(names) >= 2 {
		min, max := stats.ClassCounts[names[0]], stats.ClassCounts[names[0]]
		for _, name := range names[1:] {
			c := stats.ClassCounts[name]
			if c < min {
				min = c
			}
			if c > max {
				max = c
			}
		}
		imbalanced := false
		if min == 0 {
			imbalanced = max > 0
		} else {
			imbalanced = float64(max)/float64(min) > th.ImbalanceRatio
		}
		if imbalanced {
			findings = append(findings, Recommendf(
				"class imbalance: largest class has %d objects, smallest %d (threshold %g:1): consider rebalancing or augmentation",
				max, min, th.ImbalanceRatio))
		}
	}

	trainImages := stats.ImageCounts[dataset.SplitTrain]
	valImages := stats.ImageCounts[dataset.SplitVal]
	if trainImages > 0 && float64(valImages) < th.MinValFraction*float64(trainImages) {
		findings = append(findings, Recommendf(
			"validation split has %d images, below %g%% of the %d training images: adjust the split ratio",
			valImages, th.MinValFraction*100, trainImages))
	}

	return findings
}
