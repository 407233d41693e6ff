package queue

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// Store persists a queue. Commit must be atomic with respect to the previous
// on-disk state from the perspective of the next Load: a crash between
// submission and commit leaves the store in the pre-batch state. Persistence
// is write-after-success only.
type Store interface {
	Load() (*Queue, error)
	Commit(*Queue) error
	Close() error
}

// acquireLock takes a non-blocking advisory lock next to the store file,
// enforcing the single-writer discipline on the store. Only one run is
// expected to operate on a given store at a time.
func acquireLock(path string) (*flock.Flock, error) {
	lock := flock.New(path + ".lock")
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire store lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("store %s is locked by another process", path)
	}
	return lock, nil
}

// writeFileAtomic replaces path with data via a temp file and rename in the
// same directory, so readers never observe a partially written store.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}
