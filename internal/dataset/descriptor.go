package dataset

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrNoDescriptor is returned by Locate when the dataset root contains no
// YAML descriptor file.
var ErrNoDescriptor = fmt.Errorf("no dataset descriptor (.yaml/.yml) found")

// Descriptor mirrors the YOLO data.yaml consumed by the training framework.
type Descriptor struct {
	Train      string   `yaml:"train"`
	Val        string   `yaml:"val"`
	ClassCount int      `yaml:"nc"`
	Names      []string `yaml:"names"`
}

// Locate finds the dataset descriptor under root by extension. With zero
// matches it returns ErrNoDescriptor. With multiple matches the pick must
// be deterministic: the lexicographically smallest name wins and the rest
// are returned so the caller can warn about the ambiguity.
func Locate(root string) (path string, ambiguous []string, err error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return "", nil, fmt.Errorf("failed to read dataset root: %w", err)
	}

	var candidates []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if ext == ".yaml" || ext == ".yml" {
			candidates = append(candidates, e.Name())
		}
	}
	if len(candidates) == 0 {
		return "", nil, ErrNoDescriptor
	}

	sort.Strings(candidates)
	path = filepath.Join(root, candidates[0])
	for _, name := range candidates[1:] {
		ambiguous = append(ambiguous, filepath.Join(root, name))
	}
	return path, ambiguous, nil
}

// Parse reads and decodes a descriptor file.
func Parse(path string) (*Descriptor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read descriptor: %w", err)
	}
	var d Descriptor
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("failed to parse descriptor %s: %w", path, err)
	}
	return &d, nil
}

// pathStrategy is one way of turning a descriptor path reference into a
// filesystem location. Strategies are pure: they report a candidate and
// whether it applies, nothing else.
type pathStrategy struct {
	name    string
	resolve func(ref string) (string, bool)
}

// ResolvePath resolves a path reference from a descriptor against an
// explicit ordered list of strategies: absolute as-is, relative to the
// descriptor's directory, relative to the dataset root. The first
// candidate that exists wins; if none exist the error lists every
// candidate that was tried.
func ResolvePath(ref, descriptorDir, root string) (string, error) {
	strategies := []pathStrategy{
		{
			name: "absolute",
			resolve: func(ref string) (string, bool) {
				if !filepath.IsAbs(ref) {
					return "", false
				}
				return ref, true
			},
		},
		{
			name: "relative to descriptor",
			resolve: func(ref string) (string, bool) {
				if filepath.IsAbs(ref) || descriptorDir == "" {
					return "", false
				}
				return filepath.Join(descriptorDir, ref), true
			},
		},
		{
			name: "relative to dataset root",
			resolve: func(ref string) (string, bool) {
				if filepath.IsAbs(ref) || root == "" {
					return "", false
				}
				return filepath.Join(root, ref), true
			},
		},
	}

	var tried []string
	for _, s := range strategies {
		candidate, ok := s.resolve(ref)
		if !ok {
			continue
		}
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
		tried = append(tried, fmt.Sprintf("%s: %s", s.name, candidate))
	}
	return "", fmt.Errorf("path %q does not resolve (tried %s)", ref, strings.Join(tried, "; "))
}
