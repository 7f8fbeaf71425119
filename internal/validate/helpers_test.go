package validate

import (
	"bytes"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"kumaydet/internal/config"
	"kumaydet/internal/dataset"
)

// writePNG writes a decodable PNG of the given dimensions.
func writePNG(t *testing.T, path string, w, h int) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0644))
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

// newDatasetRoot lays out the four required split directories.
func newDatasetRoot(t *testing.T) (string, dataset.Layout) {
	t.Helper()
	root := t.TempDir()
	l := dataset.NewLayout(root)
	for _, dir := range l.RequiredDirs() {
		require.NoError(t, os.MkdirAll(dir, 0755))
	}
	return root, l
}

// writeDescriptor adds a standard two-class descriptor at the root.
func writeDescriptor(t *testing.T, root string) {
	t.Helper()
	writeFile(t, filepath.Join(root, "data.yaml"), `
train: images/train
val: images/val
nc: 2
names: [kumay, not_kumay]
`)
}

func testConfig(root string) *config.Config {
	cfg := config.Default()
	cfg.Dataset.Path = root
	return cfg
}
