package validate

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleStats() SplitStatistics {
	return SplitStatistics{
		ImageCounts: map[string]int{"train": 2, "val": 1},
		LabelCounts: map[string]int{"train": 2, "val": 1},
		ClassCounts: map[string]int{"kumay": 3, "not_kumay": 1},
	}
}

func TestAssemble(t *testing.T) {
	t.Run("validity follows error count", func(t *testing.T) {
		findings := []Finding{
			Warnf("just a warning"),
			Recommendf("just advice"),
		}
		report := Assemble("run-1", findings, sampleStats())
		assert.True(t, report.IsValid)
		assert.Empty(t, report.Errors)
		assert.Equal(t, []string{"just a warning"}, report.Warnings)
		assert.Equal(t, []string{"just advice"}, report.Recommendations)
		assert.False(t, report.GeneratedAt.IsZero())
	})

	t.Run("single error invalidates", func(t *testing.T) {
		report := Assemble("run-2", []Finding{Errorf("boom")}, sampleStats())
		assert.False(t, report.IsValid)
		assert.Equal(t, []string{"boom"}, report.Errors)
	})

	t.Run("insertion order preserved", func(t *testing.T) {
		findings := []Finding{
			Errorf("first"),
			Warnf("w1"),
			Errorf("second"),
			Warnf("w2"),
		}
		report := Assemble("run-3", findings, sampleStats())
		assert.Equal(t, []string{"first", "second"}, report.Errors)
		assert.Equal(t, []string{"w1", "w2"}, report.Warnings)
	})

	t.Run("no findings yields empty non-nil slices", func(t *testing.T) {
		report := Assemble("run-4", nil, sampleStats())
		assert.NotNil(t, report.Errors)
		assert.NotNil(t, report.Warnings)
		assert.NotNil(t, report.Recommendations)
	})
}

func TestReportRoundTrip(t *testing.T) {
	report := Assemble("run-5", []Finding{
		Errorf("boom"),
		Warnf("careful"),
		Recommendf("more data"),
	}, sampleStats())

	path := filepath.Join(t.TempDir(), "reports", "validation.json")
	require.NoError(t, report.WriteJSON(path))

	loaded, err := LoadReport(path)
	require.NoError(t, err)

	if diff := cmp.Diff(report, loaded, cmpopts.EquateApproxTime(0)); diff != "" {
		t.Errorf("report mismatch (-written +loaded):\n%s", diff)
	}
}

func TestWriteJSON(t *testing.T) {
	t.Run("no temp file is left behind", func(t *testing.T) {
		dir := t.TempDir()
		report := Assemble("run-6", nil, sampleStats())
		require.NoError(t, report.WriteJSON(filepath.Join(dir, "report.json")))

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "report.json", entries[0].Name())
	})

	t.Run("unwritable destination errors", func(t *testing.T) {
		report := Assemble("run-7", nil, sampleStats())
		blocked := filepath.Join(t.TempDir(), "file")
		require.NoError(t, os.WriteFile(blocked, []byte("x"), 0644))
		// Destination directory path is actually a file.
		err := report.WriteJSON(filepath.Join(blocked, "report.json"))
		assert.Error(t, err)
	})
}
