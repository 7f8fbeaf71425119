// Package dataset models the on-disk layout of a detection dataset:
// images/<split> and labels/<split> directories plus a YAML descriptor
// declaring paths, class count, and class names.
package dataset

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Split names. The layout always has exactly these two.
const (
	SplitTrain = "train"
	SplitVal   = "val"
)

// Splits lists the splits in pipeline order.
var Splits = []string{SplitTrain, SplitVal}

var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
}

// Layout locates the split directories under a dataset root.
type Layout struct {
	Root string
}

// NewLayout returns a Layout rooted at the given dataset directory.
func NewLayout(root string) Layout {
	return Layout{Root: root}
}

// ImagesDir returns the image directory for a split.
func (l Layout) ImagesDir(split string) string {
	return filepath.Join(l.Root, "images", split)
}

// LabelsDir returns the label directory for a split.
func (l Layout) LabelsDir(split string) string {
	return filepath.Join(l.Root, "labels", split)
}

// RequiredDirs returns the four directories every dataset must have.
func (l Layout) RequiredDirs() []string {
	return []string{
		l.ImagesDir(SplitTrain),
		l.ImagesDir(SplitVal),
		l.LabelsDir(SplitTrain),
		l.LabelsDir(SplitVal),
	}
}

// ListImages returns the sorted image filenames in a split.
// A missing directory yields an empty slice, not an error, so downstream
// stages can still produce a partial report when structure checks failed.
func (l Layout) ListImages(split string) []string {
	return listDir(l.ImagesDir(split), IsImageFile)
}

// ListLabels returns the sorted label filenames in a split.
func (l Layout) ListLabels(split string) []string {
	return listDir(l.LabelsDir(split), IsLabelFile)
}

func listDir(dir string, keep func(string) bool) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if keep(e.Name()) {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names
}

// IsImageFile reports whether the filename has a recognized image extension.
func IsImageFile(name string) bool {
	return imageExtensions[strings.ToLower(filepath.Ext(name))]
}

// IsLabelFile reports whether the filename is a YOLO label file.
func IsLabelFile(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".txt")
}

// Stem strips the extension from a filename, giving the base name used to
// pair images with labels.
func Stem(name string) string {
	return strings.TrimSuffix(name, filepath.Ext(name))
}
