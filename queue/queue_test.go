package queue

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test helper: build a queue of n pending line items
func pendingQueue(n int) *Queue {
	items := make([]Item, n)
	for i := range items {
		items[i] = Item{Payload: string(rune('a' + i)), Status: StatusPending}
	}
	return NewQueue(items)
}

// TestNewQueue_AssignsPositions verifies original order becomes positions
func TestNewQueue_AssignsPositions(t *testing.T) {
	q := pendingQueue(3)

	items := q.Items()
	require.Len(t, items, 3)
	for i, item := range items {
		assert.Equal(t, i, item.Position)
	}
}

// TestNextBatch_PreservesOrder verifies batches come out in original order
func TestNextBatch_PreservesOrder(t *testing.T) {
	q := pendingQueue(5)

	batch := q.NextBatch(3, nil)
	require.Len(t, batch, 3)
	assert.Equal(t, "a", batch[0].Payload)
	assert.Equal(t, "b", batch[1].Payload)
	assert.Equal(t, "c", batch[2].Payload)
}

// TestNextBatch_Deterministic verifies two calls without an intervening
// commit return the same batch
func TestNextBatch_Deterministic(t *testing.T) {
	q := pendingQueue(5)

	first := q.NextBatch(2, nil)
	second := q.NextBatch(2, nil)
	assert.Equal(t, first, second)
}

// TestNextBatch_SkipsCompleted verifies only pending items are sliced
func TestNextBatch_SkipsCompleted(t *testing.T) {
	q := pendingQueue(5)
	require.NoError(t, q.MarkCompleted(q.NextBatch(2, nil)))

	batch := q.NextBatch(2, nil)
	require.Len(t, batch, 2)
	assert.Equal(t, "c", batch[0].Payload)
	assert.Equal(t, "d", batch[1].Payload)
}

// TestNextBatch_ShortFinalBatch verifies fewer than size remaining items
// still form a batch
func TestNextBatch_ShortFinalBatch(t *testing.T) {
	q := pendingQueue(5)
	require.NoError(t, q.MarkCompleted(q.NextBatch(4, nil)))

	batch := q.NextBatch(4, nil)
	require.Len(t, batch, 1)
	assert.Equal(t, "e", batch[0].Payload)
}

// TestNextBatch_OmitsPositions verifies skipped positions are passed over
// without affecting neighbors
func TestNextBatch_OmitsPositions(t *testing.T) {
	q := pendingQueue(5)

	omit := map[int]struct{}{2: {}}
	batch := q.NextBatch(5, omit)
	require.Len(t, batch, 4)
	assert.Equal(t, "a", batch[0].Payload)
	assert.Equal(t, "b", batch[1].Payload)
	assert.Equal(t, "d", batch[2].Payload)
	assert.Equal(t, "e", batch[3].Payload)
}

// TestNextBatch_Empty verifies a drained queue yields an empty batch
func TestNextBatch_Empty(t *testing.T) {
	q := pendingQueue(2)
	require.NoError(t, q.MarkCompleted(q.NextBatch(2, nil)))

	assert.Empty(t, q.NextBatch(2, nil))
}

// TestMarkCompleted_Counts verifies pending/completed accounting
func TestMarkCompleted_Counts(t *testing.T) {
	q := pendingQueue(5)
	require.NoError(t, q.MarkCompleted(q.NextBatch(3, nil)))

	assert.Equal(t, 3, q.Completed())
	assert.Equal(t, 2, q.Pending())
	assert.Equal(t, 5, q.Len())
}

// TestMarkCompleted_UnknownPosition verifies out-of-range positions error
func TestMarkCompleted_UnknownPosition(t *testing.T) {
	q := pendingQueue(2)

	err := q.MarkCompleted([]Item{{Position: 9}})
	assert.Error(t, err)
}
