package queue

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/gofrs/flock"
)

// DatasetStore persists the queue as a JSON array of post records carrying an
// explicit created flag. Records are never removed: commits rewrite the whole
// array in original order with the flags of completed items flipped in place.
type DatasetStore struct {
	path string
	lock *flock.Flock
}

// NewDatasetStore opens a dataset store and acquires its writer lock.
func NewDatasetStore(path string) (*DatasetStore, error) {
	lock, err := acquireLock(path)
	if err != nil {
		return nil, err
	}
	return &DatasetStore{path: path, lock: lock}, nil
}

// Load reads the dataset file and returns a queue with one item per record.
// Records with created=true load as completed; everything else is pending.
func (s *DatasetStore) Load() (*Queue, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("read dataset %s: %w", s.path, err)
	}

	var records []PostRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parse dataset %s: %w", s.path, err)
	}

	items := make([]Item, len(records))
	for i := range records {
		record := records[i]
		status := StatusPending
		if record.Created {
			status = StatusCompleted
		}
		items[i] = Item{
			Payload: record.Title,
			Record:  &record,
			Status:  status,
		}
	}
	return NewQueue(items), nil
}

// Commit rewrites the full record array, order preserved, with each record's
// created flag reflecting its item's status.
func (s *DatasetStore) Commit(q *Queue) error {
	items := q.Items()
	records := make([]PostRecord, 0, len(items))
	for _, item := range items {
		if item.Record == nil {
			return fmt.Errorf("dataset item at position %d has no record", item.Position)
		}
		record := *item.Record
		record.Created = item.Status == StatusCompleted
		records = append(records, record)
	}

	data, err := json.MarshalIndent(records, "", "    ")
	if err != nil {
		return fmt.Errorf("marshal dataset: %w", err)
	}
	if err := writeFileAtomic(s.path, append(data, '\n')); err != nil {
		return fmt.Errorf("commit dataset %s: %w", s.path, err)
	}
	return nil
}

// Close releases the store's writer lock.
func (s *DatasetStore) Close() error {
	return s.lock.Unlock()
}
