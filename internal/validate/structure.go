package validate

import (
	"os"

	"kumaydet/internal/dataset"
)

// CheckStructure verifies the four required split directories exist under
// the dataset root, emitting one error Finding per missing directory.
// A missing root therefore yields exactly four errors, and downstream
// stages see the splits as empty rather than failing.
func CheckStructure(l dataset.Layout) []Finding {
	var findings []Finding
	for _, dir := range l.RequiredDirs() {
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			findings = append(findings, Errorf("required directory missing: %s", dir))
		}
	}
	return findings
}

// RootExists reports whether the dataset root directory is present.
// The descriptor stage is skipped when it is not, since every one of its
// checks would just restate the missing root.
func RootExists(l dataset.Layout) bool {
	info, err := os.Stat(l.Root)
	return err == nil && info.IsDir()
}
