package validate

import (
	"bufio"
	"context"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"sync"

	_ "image/jpeg"
	_ "image/png"

	"golang.org/x/sync/errgroup"

	"kumaydet/internal/dataset"
)

// QualityOptions carries the thresholds the quality stage needs.
type QualityOptions struct {
	ClassCount  int
	MinImageDim int
	// Workers bounds the per-file goroutines. 0 means GOMAXPROCS.
	Workers int
}

// QualityResult accumulates the per-file label parse results that the
// statistics stage aggregates. ClassObjects is keyed by class index.
type QualityResult struct {
	ClassObjects   map[int]int
	TotalLines     int
	MalformedLines int
}

// CheckQuality decodes every image and parses every label file discovered
// by the consistency stage. Per-file checks run in parallel; one file's
// failure never aborts its siblings, it just becomes a Finding. Findings
// are re-assembled in split order then filename order so the report is
// deterministic regardless of worker scheduling.
func CheckQuality(ctx context.Context, l dataset.Layout, files map[string]SplitFiles, opts QualityOptions) ([]Finding, QualityResult) {
	result := QualityResult{ClassObjects: make(map[int]int)}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	var mu sync.Mutex
	perFile := make(map[string][]Finding)

	record := func(key string, fs []Finding, parsed *labelFileResult) {
		mu.Lock()
		defer mu.Unlock()
		if len(fs) > 0 {
			perFile[key] = fs
		}
		if parsed != nil {
			for class, n := range parsed.objects {
				result.ClassObjects[class] += n
			}
			result.TotalLines += parsed.totalLines
			result.MalformedLines += parsed.malformedLines
		}
	}

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(workers)

	for _, split := range dataset.Splits {
		sf := files[split]
		for _, name := range sf.Images {
			split, name := split, name
			eg.Go(func() error {
				if egCtx.Err() != nil {
					return nil
				}
				fs := checkImage(filepath.Join(l.ImagesDir(split), name), split, name, opts.MinImageDim)
				record(fileKey(split, "image", name), fs, nil)
				return nil
			})
		}
		for _, name := range sf.Labels {
			split, name := split, name
			eg.Go(func() error {
				if egCtx.Err() != nil {
					return nil
				}
				parsed, fs := checkLabelFile(filepath.Join(l.LabelsDir(split), name), split, name, opts.ClassCount)
				record(fileKey(split, "label", name), fs, parsed)
				return nil
			})
		}
	}

	// Workers only ever return nil; the group exists for the limit and
	// context plumbing.
	_ = eg.Wait()

	// Deterministic assembly: split order, images before labels, then
	// filename order within each group.
	var findings []Finding
	for _, split := range dataset.Splits {
		sf := files[split]
		for _, name := range sf.Images {
			findings = append(findings, perFile[fileKey(split, "image", name)]...)
		}
		for _, name := range sf.Labels {
			findings = append(findings, perFile[fileKey(split, "label", name)]...)
		}
	}
	return findings, result
}

func fileKey(split, kind, name string) string {
	return split + "/" + kind + "/" + name
}

// checkImage decodes an image to confirm it is readable and large enough.
func checkImage(path, split, name string, minDim int) []Finding {
	f, err := os.Open(path)
	if err != nil {
		return []Finding{Errorf("%s: corrupt image %s: %v", split, name, err)}
	}
	defer f.Close()

	img, _, err := image.Decode(bufio.NewReader(f))
	if err != nil {
		return []Finding{Errorf("%s: corrupt image %s: %v", split, name, err)}
	}

	bounds := img.Bounds()
	if bounds.Dx() < minDim || bounds.Dy() < minDim {
		return []Finding{Warnf("%s: undersized image %s: %dx%d below minimum %dpx",
			split, name, bounds.Dx(), bounds.Dy(), minDim)}
	}
	return nil
}

type labelFileResult struct {
	objects        map[int]int
	totalLines     int
	malformedLines int
}

// checkLabelFile parses a YOLO label file line by line. Each non-empty
// line must hold exactly five numeric fields: an in-range class index and
// four normalized [0,1] coordinates. An empty file is a valid
// background-only sample and produces no findings.
func checkLabelFile(path, split, name string, classCount int) (*labelFileResult, []Finding) {
	res := &labelFileResult{objects: make(map[int]int)}

	f, err := os.Open(path)
	if err != nil {
		return res, []Finding{Errorf("%s: unreadable label %s: %v", split, name, err)}
	}
	defer f.Close()

	var findings []Finding
	scanner := bufio.NewScanner(f)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		res.totalLines++

		class, ok, fs := parseLabelLine(line, split, name, lineNum, classCount)
		if !ok {
			res.malformedLines++
			findings = append(findings, fs...)
			continue
		}
		res.objects[class]++
	}
	if err := scanner.Err(); err != nil {
		findings = append(findings, Errorf("%s: unreadable label %s: %v", split, name, err))
	}
	return res, findings
}

// parseLabelLine validates one label line and returns the class index when
// the line is well formed.
func parseLabelLine(line, split, name string, lineNum, classCount int) (int, bool, []Finding) {
	loc := fmt.Sprintf("%s/%s:%d", split, name, lineNum)

	fields := strings.Fields(line)
	if len(fields) != 5 {
		return 0, false, []Finding{Errorf("%s: malformed label line: expected 5 fields, got %d", loc, len(fields))}
	}

	class, err := strconv.Atoi(fields[0])
	if err != nil {
		return 0, false, []Finding{Errorf("%s: malformed label line: class index %q is not an integer", loc, fields[0])}
	}
	if class < 0 || class >= classCount {
		return 0, false, []Finding{Errorf("%s: class index out of range: %d not in [0,%d)", loc, class, classCount)}
	}

	for i, field := range fields[1:] {
		v, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return 0, false, []Finding{Errorf("%s: malformed label line: field %d (%q) is not numeric", loc, i+1, field)}
		}
		if v < 0 || v > 1 {
			return 0, false, []Finding{Errorf("%s: coordinate out of range: field %d is %g, expected [0,1]", loc, i+1, v)}
		}
	}
	return class, true, nil
}
