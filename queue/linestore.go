package queue

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/gofrs/flock"
)

// LineStore persists the queue as a newline-delimited list of opaque tokens
// (typically URLs). Presence in the file is the pending signal: commits
// rewrite the file with only the still-pending lines, so removal is the
// completion record.
type LineStore struct {
	path string
	lock *flock.Flock
}

// NewLineStore opens a line-oriented store and acquires its writer lock.
func NewLineStore(path string) (*LineStore, error) {
	lock, err := acquireLock(path)
	if err != nil {
		return nil, err
	}
	return &LineStore{path: path, lock: lock}, nil
}

// Load reads the store file and returns a queue of pending items, one per
// non-empty line, in file order.
func (s *LineStore) Load() (*Queue, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("read store %s: %w", s.path, err)
	}

	var items []Item
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		items = append(items, Item{Payload: line, Status: StatusPending})
	}
	return NewQueue(items), nil
}

// Commit rewrites the file with the pending lines in original order.
// Completed items are dropped, which is their durable completion record.
func (s *LineStore) Commit(q *Queue) error {
	var buf bytes.Buffer
	for _, item := range q.Items() {
		if item.Status != StatusPending {
			continue
		}
		buf.WriteString(item.Payload)
		buf.WriteByte('\n')
	}
	if err := writeFileAtomic(s.path, buf.Bytes()); err != nil {
		return fmt.Errorf("commit store %s: %w", s.path, err)
	}
	return nil
}

// Close releases the store's writer lock.
func (s *LineStore) Close() error {
	return s.lock.Unlock()
}
