// Package queue models an ordered, durable collection of submittable work
// items. A queue is reconstructed from its backing store at process start and
// committed back after every successfully submitted batch, so all state lives
// in the store, not in process memory across runs.
package queue

import (
	"fmt"
)

// Status is the completion state of a work item. Transitions are monotonic:
// once completed, an item never reverts to pending.
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
)

// PostRecord is the structured payload used by the dataset store: one blog
// post to generate, with the target path the generated article is written to.
type PostRecord struct {
	Index      int    `json:"index"`
	Category   string `json:"post_category"`
	Filename   string `json:"filename"`
	Title      string `json:"post_title"`
	TargetPath string `json:"post_file"`
	Created    bool   `json:"created"`
}

// Item is one unit of submittable work. Payload carries the opaque token for
// line-oriented stores (a URL); Record is set for dataset stores. Position is
// the item's index in the original order, which is significant and preserved
// across slicing and persistence.
type Item struct {
	Position int
	Payload  string
	Record   *PostRecord
	Status   Status
}

// Queue is the full ordered sequence of work items backed by a Store.
type Queue struct {
	items []Item
}

// NewQueue builds a queue from items, assigning positions in input order.
func NewQueue(items []Item) *Queue {
	copied := make([]Item, len(items))
	copy(copied, items)
	for i := range copied {
		copied[i].Position = i
	}
	return &Queue{items: copied}
}

// Items returns a copy of the queue's items in original order.
func (q *Queue) Items() []Item {
	copied := make([]Item, len(q.items))
	copy(copied, q.items)
	return copied
}

// Len returns the total number of items.
func (q *Queue) Len() int {
	return len(q.items)
}

// Pending returns the number of items not yet completed.
func (q *Queue) Pending() int {
	count := 0
	for _, item := range q.items {
		if item.Status == StatusPending {
			count++
		}
	}
	return count
}

// Completed returns the number of completed items.
func (q *Queue) Completed() int {
	return len(q.items) - q.Pending()
}

// NextBatch returns up to size pending items in original order, skipping any
// positions present in omit. It is deterministic and side-effect-free:
// calling it twice without an intervening MarkCompleted returns the same
// batch.
func (q *Queue) NextBatch(size int, omit map[int]struct{}) []Item {
	if size < 1 {
		size = 1
	}
	batch := make([]Item, 0, size)
	for _, item := range q.items {
		if item.Status != StatusPending {
			continue
		}
		if _, skip := omit[item.Position]; skip {
			continue
		}
		batch = append(batch, item)
		if len(batch) == size {
			break
		}
	}
	return batch
}

// MarkCompleted transitions the given items to completed. The caller commits
// the queue via its store afterwards; marking is an in-memory operation only.
func (q *Queue) MarkCompleted(items []Item) error {
	for _, item := range items {
		if item.Position < 0 || item.Position >= len(q.items) {
			return fmt.Errorf("unknown queue position %d", item.Position)
		}
		q.items[item.Position].Status = StatusCompleted
	}
	return nil
}
