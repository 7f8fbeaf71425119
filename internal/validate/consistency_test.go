package validate

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kumaydet/internal/dataset"
)

func TestCheckConsistency(t *testing.T) {
	t.Run("fully paired", func(t *testing.T) {
		_, l := newDatasetRoot(t)
		writePNG(t, filepath.Join(l.ImagesDir(dataset.SplitTrain), "a.png"), 64, 64)
		writeFile(t, filepath.Join(l.LabelsDir(dataset.SplitTrain), "a.txt"), "0 0.5 0.5 0.2 0.2\n")

		findings, files := CheckConsistency(l)
		assert.Empty(t, findings)
		assert.Equal(t, []string{"a.png"}, files[dataset.SplitTrain].Images)
		assert.Equal(t, []string{"a.txt"}, files[dataset.SplitTrain].Labels)
	})

	t.Run("label missing for image", func(t *testing.T) {
		_, l := newDatasetRoot(t)
		writePNG(t, filepath.Join(l.ImagesDir(dataset.SplitTrain), "a.png"), 64, 64)
		writePNG(t, filepath.Join(l.ImagesDir(dataset.SplitTrain), "b.png"), 64, 64)
		writeFile(t, filepath.Join(l.LabelsDir(dataset.SplitTrain), "a.txt"), "")

		findings, _ := CheckConsistency(l)
		require.Len(t, findings, 1)
		assert.Equal(t, SeverityWarning, findings[0].Severity)
		assert.Equal(t, "train: label missing for image b", findings[0].Message)
	})

	t.Run("orphan label", func(t *testing.T) {
		_, l := newDatasetRoot(t)
		writeFile(t, filepath.Join(l.LabelsDir(dataset.SplitVal), "ghost.txt"), "")

		findings, _ := CheckConsistency(l)
		require.Len(t, findings, 1)
		assert.Equal(t, "val: orphan label ghost", findings[0].Message)
	})

	t.Run("deterministic alphabetical order", func(t *testing.T) {
		_, l := newDatasetRoot(t)
		for _, name := range []string{"zebra.png", "alpha.png", "mid.png"} {
			writePNG(t, filepath.Join(l.ImagesDir(dataset.SplitTrain), name), 64, 64)
		}

		findings, _ := CheckConsistency(l)
		require.Len(t, findings, 3)
		assert.Contains(t, findings[0].Message, "alpha")
		assert.Contains(t, findings[1].Message, "mid")
		assert.Contains(t, findings[2].Message, "zebra")
	})

	t.Run("missing directories yield empty splits", func(t *testing.T) {
		l := dataset.NewLayout(filepath.Join(t.TempDir(), "nope"))
		findings, files := CheckConsistency(l)
		assert.Empty(t, findings)
		assert.Empty(t, files[dataset.SplitTrain].Images)
		assert.Empty(t, files[dataset.SplitVal].Labels)
	})
}
