package queue

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test helper: write a dataset file and open it
func createTestDatasetStore(t *testing.T, records []PostRecord) (*DatasetStore, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dataset.json")
	data, err := json.Marshal(records)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0644))

	store, err := NewDatasetStore(path)
	require.NoError(t, err, "should open dataset store")
	t.Cleanup(func() { store.Close() })
	return store, path
}

func sampleRecords() []PostRecord {
	return []PostRecord{
		{Index: 1, Category: "go", Filename: "one.md", Title: "One", TargetPath: "source/_posts/one.md"},
		{Index: 2, Category: "go", Filename: "two.md", Title: "Two", TargetPath: "source/_posts/two.md"},
		{Index: 3, Category: "web", Filename: "three.md", Title: "Three", TargetPath: "source/_posts/three.md", Created: true},
	}
}

// TestDatasetStore_Load verifies status comes from the created flag
func TestDatasetStore_Load(t *testing.T) {
	store, _ := createTestDatasetStore(t, sampleRecords())

	q, err := store.Load()
	require.NoError(t, err)
	require.Equal(t, 3, q.Len())
	assert.Equal(t, 2, q.Pending())
	assert.Equal(t, 1, q.Completed())

	items := q.Items()
	require.NotNil(t, items[0].Record)
	assert.Equal(t, "One", items[0].Record.Title)
	assert.Equal(t, StatusPending, items[0].Status)
	assert.Equal(t, StatusCompleted, items[2].Status)
}

// TestDatasetStore_CommitFlipsFlags verifies commits toggle created in place
// and never remove records
func TestDatasetStore_CommitFlipsFlags(t *testing.T) {
	store, path := createTestDatasetStore(t, sampleRecords())

	q, err := store.Load()
	require.NoError(t, err)
	require.NoError(t, q.MarkCompleted(q.NextBatch(1, nil)))
	require.NoError(t, store.Commit(q))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var saved []PostRecord
	require.NoError(t, json.Unmarshal(data, &saved))
	require.Len(t, saved, 3, "records are never removed")
	assert.True(t, saved[0].Created)
	assert.False(t, saved[1].Created)
	assert.True(t, saved[2].Created)
}

// TestDatasetStore_CommitPreservesOrder verifies the array order and record
// fields survive a rewrite
func TestDatasetStore_CommitPreservesOrder(t *testing.T) {
	store, path := createTestDatasetStore(t, sampleRecords())

	q, err := store.Load()
	require.NoError(t, err)
	require.NoError(t, store.Commit(q))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var saved []PostRecord
	require.NoError(t, json.Unmarshal(data, &saved))
	assert.Equal(t, "One", saved[0].Title)
	assert.Equal(t, "Two", saved[1].Title)
	assert.Equal(t, "Three", saved[2].Title)
	assert.Equal(t, "go", saved[0].Category)
	assert.Equal(t, "source/_posts/two.md", saved[1].TargetPath)
}

// TestDatasetStore_ResumeSkipsCreated verifies a resumed run only sees
// records still pending
func TestDatasetStore_ResumeSkipsCreated(t *testing.T) {
	store, _ := createTestDatasetStore(t, sampleRecords())

	q, err := store.Load()
	require.NoError(t, err)
	require.NoError(t, q.MarkCompleted(q.NextBatch(1, nil)))
	require.NoError(t, store.Commit(q))

	reloaded, err := store.Load()
	require.NoError(t, err)
	batch := reloaded.NextBatch(5, nil)
	require.Len(t, batch, 1)
	assert.Equal(t, "Two", batch[0].Record.Title)
}

// TestDatasetStore_LoadInvalidJSON verifies parse failures surface
func TestDatasetStore_LoadInvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	store, err := NewDatasetStore(path)
	require.NoError(t, err)
	defer store.Close()

	_, err = store.Load()
	assert.Error(t, err)
}
