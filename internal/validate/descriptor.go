package validate

import (
	"errors"
	"path/filepath"

	"kumaydet/internal/dataset"
)

// CheckDescriptor locates and validates the dataset descriptor file.
// It verifies the descriptor declares train/val paths, a class count, and
// class names; that the count matches the name list; and that the declared
// paths resolve to existing locations. The parsed descriptor is returned
// when one could be read, even if its contents produced findings.
func CheckDescriptor(root string) ([]Finding, *dataset.Descriptor) {
	var findings []Finding

	path, ambiguous, err := dataset.Locate(root)
	if err != nil {
		if errors.Is(err, dataset.ErrNoDescriptor) {
			findings = append(findings, Errorf("missing descriptor: no .yaml/.yml file under %s", root))
		} else {
			findings = append(findings, Errorf("failed to search for descriptor: %v", err))
		}
		return findings, nil
	}
	for _, other := range ambiguous {
		findings = append(findings, Warnf("ambiguous descriptor: using %s, ignoring %s", path, other))
	}

	desc, err := dataset.Parse(path)
	if err != nil {
		findings = append(findings, Errorf("unreadable descriptor: %v", err))
		return findings, nil
	}

	if desc.Train == "" {
		findings = append(findings, Errorf("descriptor %s missing required field 'train'", path))
	}
	if desc.Val == "" {
		findings = append(findings, Errorf("descriptor %s missing required field 'val'", path))
	}
	if desc.ClassCount == 0 {
		findings = append(findings, Errorf("descriptor %s missing required field 'nc'", path))
	}
	if len(desc.Names) == 0 {
		findings = append(findings, Errorf("descriptor %s missing required field 'names'", path))
	}

	if desc.ClassCount != 0 && len(desc.Names) != 0 && desc.ClassCount != len(desc.Names) {
		findings = append(findings, Errorf("descriptor class count mismatch: nc=%d but %d names declared",
			desc.ClassCount, len(desc.Names)))
	}

	descDir := filepath.Dir(path)
	for _, ref := range []struct{ field, value string }{
		{"train", desc.Train},
		{"val", desc.Val},
	} {
		if ref.value == "" {
			continue
		}
		if _, err := dataset.ResolvePath(ref.value, descDir, root); err != nil {
			findings = append(findings, Errorf("descriptor %s path unresolved: %v", ref.field, err))
		}
	}

	return findings, desc
}
