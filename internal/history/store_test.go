package history

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kumaydet/internal/validate"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func sampleReport(runID string, errors []string) *validate.Report {
	return &validate.Report{
		RunID:   runID,
		IsValid: len(errors) == 0,
		Errors:  errors,
		Statistics: validate.SplitStatistics{
			ImageCounts: map[string]int{"train": 10, "val": 2},
			LabelCounts: map[string]int{"train": 10, "val": 2},
			ClassCounts: map[string]int{"kumay": 8, "not_kumay": 4},
		},
		GeneratedAt: time.Now().UTC(),
	}
}

func TestRecordAndRecent(t *testing.T) {
	store := openStore(t)

	require.NoError(t, store.Record("/data/bears", sampleReport("run-a", nil)))
	require.NoError(t, store.Record("/data/bears", sampleReport("run-b", []string{"boom"})))

	runs, err := store.Recent(10)
	require.NoError(t, err)
	require.Len(t, runs, 2)

	byID := map[string]Run{}
	for _, r := range runs {
		byID[r.RunID] = r
	}
	assert.True(t, byID["run-a"].IsValid)
	assert.False(t, byID["run-b"].IsValid)
	assert.Equal(t, 1, byID["run-b"].ErrorCount)
	assert.Equal(t, 8, byID["run-a"].Statistics.ClassCounts["kumay"])
	assert.Equal(t, "/data/bears", byID["run-a"].DatasetPath)
}

func TestRecentLimit(t *testing.T) {
	store := openStore(t)
	for _, id := range []string{"r1", "r2", "r3"} {
		require.NoError(t, store.Record("/data", sampleReport(id, nil)))
	}

	runs, err := store.Recent(2)
	require.NoError(t, err)
	assert.Len(t, runs, 2)
}

func TestRecordIsIdempotentPerRunID(t *testing.T) {
	store := openStore(t)
	report := sampleReport("run-x", nil)
	require.NoError(t, store.Record("/data", report))
	require.NoError(t, store.Record("/data", report))

	runs, err := store.Recent(10)
	require.NoError(t, err)
	assert.Len(t, runs, 1)
}

func TestOpenCreatesParentDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "history.db")
	store, err := Open(path)
	require.NoError(t, err)
	defer store.Close()
	assert.Equal(t, path, store.Path())
}
