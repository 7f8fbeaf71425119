package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"kumaydet/internal/dataset"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newWatchedLayout(t *testing.T) dataset.Layout {
	t.Helper()
	root := t.TempDir()
	l := dataset.NewLayout(root)
	for _, dir := range l.RequiredDirs() {
		require.NoError(t, os.MkdirAll(dir, 0755))
	}
	return l
}

func TestWatcher_TriggersOnChange(t *testing.T) {
	l := newWatchedLayout(t)

	var triggers atomic.Int32
	w, err := New(l, nil, func(ctx context.Context) {
		triggers.Add(1)
	})
	require.NoError(t, err)
	w.SetDebounce(50 * time.Millisecond)

	require.NoError(t, w.Start(context.Background()))
	defer w.Stop()

	require.NoError(t, os.WriteFile(
		filepath.Join(l.ImagesDir(dataset.SplitTrain), "new.jpg"), []byte("x"), 0644))

	assert.Eventually(t, func() bool {
		return triggers.Load() >= 1
	}, 5*time.Second, 20*time.Millisecond)
}

func TestWatcher_DebouncesBursts(t *testing.T) {
	l := newWatchedLayout(t)

	var triggers atomic.Int32
	w, err := New(l, nil, func(ctx context.Context) {
		triggers.Add(1)
	})
	require.NoError(t, err)
	w.SetDebounce(200 * time.Millisecond)

	require.NoError(t, w.Start(context.Background()))
	defer w.Stop()

	for i := 0; i < 10; i++ {
		name := filepath.Join(l.ImagesDir(dataset.SplitTrain), "burst"+string(rune('a'+i))+".jpg")
		require.NoError(t, os.WriteFile(name, []byte("x"), 0644))
	}

	assert.Eventually(t, func() bool {
		return triggers.Load() >= 1
	}, 5*time.Second, 20*time.Millisecond)

	// The burst happened inside one settle window.
	assert.Equal(t, int32(1), triggers.Load())
	assert.GreaterOrEqual(t, w.Snapshot().Events, 2)
}

func TestWatcher_StopIsIdempotent(t *testing.T) {
	l := newWatchedLayout(t)
	w, err := New(l, nil, func(ctx context.Context) {})
	require.NoError(t, err)

	require.NoError(t, w.Start(context.Background()))
	require.NoError(t, w.Stop())
	require.NoError(t, w.Stop())
}

func TestWatcher_MissingDirsStillStart(t *testing.T) {
	l := dataset.NewLayout(t.TempDir())

	w, err := New(l, nil, func(ctx context.Context) {})
	require.NoError(t, err)
	require.NoError(t, w.Start(context.Background()))
	require.NoError(t, w.Stop())
}
