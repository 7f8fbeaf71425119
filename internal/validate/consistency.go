package validate

import (
	"sort"

	"kumaydet/internal/dataset"
)

// SplitFiles lists the image and label filenames found in one split,
// both sorted. Later stages consume these lists instead of re-reading
// the directories.
type SplitFiles struct {
	Images []string
	Labels []string
}

// CheckConsistency cross-references image files against label files per
// split by extension-stripped base name. Images without a label and labels
// without an image each produce a warning Finding, sorted alphabetically
// within each split for reproducible reports.
func CheckConsistency(l dataset.Layout) ([]Finding, map[string]SplitFiles) {
	var findings []Finding
	files := make(map[string]SplitFiles, len(dataset.Splits))

	for _, split := range dataset.Splits {
		sf := SplitFiles{
			Images: l.ListImages(split),
			Labels: l.ListLabels(split),
		}
		files[split] = sf

		imageStems := stemSet(sf.Images)
		labelStems := stemSet(sf.Labels)

		for _, stem := range sortedDiff(imageStems, labelStems) {
			findings = append(findings, Warnf("%s: label missing for image %s", split, stem))
		}
		for _, stem := range sortedDiff(labelStems, imageStems) {
			findings = append(findings, Warnf("%s: orphan label %s", split, stem))
		}
	}

	return findings, files
}

func stemSet(names []string) map[string]bool {
	set := make(map[string]bool, len(names))
	for _, name := range names {
		set[dataset.Stem(name)] = true
	}
	return set
}

// sortedDiff returns the elements of a not present in b, sorted.
func sortedDiff(a, b map[string]bool) []string {
	var out []string
	for k := range a {
		if !b[k] {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}
