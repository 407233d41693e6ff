// Package engine drives an ordered queue of work through an external sink in
// fixed-size batches, committing progress to the queue's store after every
// accepted batch. Because commits are strictly write-after-success, an
// interrupted run loses at most the in-flight batch and a re-run resumes
// exactly where the previous run stopped.
package engine

import (
	"context"
	"fmt"

	"github.com/pevans/pressrun/queue"
)

// State is the run controller's lifecycle. Running transitions to exactly one
// of the four terminal states.
type State string

const (
	StateRunning         State = "running"
	StateDrained         State = "drained"
	StateQuotaExhausted  State = "quota_exhausted"
	StateSinkError       State = "sink_error"
	StateOperatorAborted State = "operator_aborted"
)

// OutcomeKind classifies the result of submitting one batch.
type OutcomeKind int

const (
	// OutcomeAccepted means the sink took the whole batch; the engine
	// commits it as completed.
	OutcomeAccepted OutcomeKind = iota
	// OutcomeRejected means the sink failed the batch (transport error,
	// error response, or failed generation). The engine stops without
	// committing, so the next run retries the same batch.
	OutcomeRejected
	// OutcomeSkipped means the operator declined this item only. The engine
	// advances past it for the rest of the run; the item stays pending.
	OutcomeSkipped
	// OutcomeAborted means the operator stopped the run.
	OutcomeAborted
)

// QuotaUntracked marks an outcome from a sink without quota accounting.
const QuotaUntracked = -1

// Outcome reports the result of sending one batch to a sink.
type Outcome struct {
	Kind OutcomeKind
	// Quota is the sink-reported remaining allowance after an accepted
	// batch, or QuotaUntracked.
	Quota  int
	Reason string
}

// Sink submits one batch of work and reports the outcome. A sink may perform
// network I/O or spawn processes but must never mutate the queue; only the
// engine records completion.
type Sink interface {
	Submit(ctx context.Context, batch []queue.Item) (Outcome, error)
}

// Observer receives per-batch progress. Seq is 1-based within the run.
type Observer interface {
	BatchSubmitted(seq int, batch []queue.Item, out Outcome)
}

// Summary is the externally observable result of a run: the terminal state
// plus completed and remaining counts from the committed store state.
type Summary struct {
	State     State
	Completed int
	Remaining int
	Skipped   int
	Reason    string
}

// Runner is the run controller. One batch is in flight at a time: ordering
// and quota accounting require that the outcome of batch N is observed before
// batch N+1 is attempted.
type Runner struct {
	store     queue.Store
	sink      Sink
	batchSize int
	observer  Observer
}

// NewRunner builds a runner over the given store and sink. Batch sizes below
// one are treated as one.
func NewRunner(store queue.Store, sink Sink, batchSize int) *Runner {
	if batchSize < 1 {
		batchSize = 1
	}
	return &Runner{store: store, sink: sink, batchSize: batchSize}
}

// SetObserver registers a per-batch progress callback.
func (r *Runner) SetObserver(obs Observer) {
	r.observer = obs
}

// Run loads the queue once, then repeatedly slices the next pending batch,
// submits it, and commits on acceptance, until a terminal state is reached.
// A persistence failure aborts immediately with ErrPersistence: silently
// losing the durable record of progress risks duplicate resubmission.
func (r *Runner) Run(ctx context.Context) (*Summary, error) {
	q, err := r.store.Load()
	if err != nil {
		return nil, fmt.Errorf("load queue: %w", err)
	}

	skipped := make(map[int]struct{})
	seq := 0
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		batch := q.NextBatch(r.batchSize, skipped)
		if len(batch) == 0 {
			return r.summarize(q, skipped, StateDrained, ""), nil
		}

		seq++
		out, err := r.sink.Submit(ctx, batch)
		if err != nil {
			out = Outcome{Kind: OutcomeRejected, Quota: QuotaUntracked, Reason: err.Error()}
		}
		if r.observer != nil {
			r.observer.BatchSubmitted(seq, batch, out)
		}

		switch out.Kind {
		case OutcomeAccepted:
			if err := q.MarkCompleted(batch); err != nil {
				return nil, err
			}
			if err := r.store.Commit(q); err != nil {
				return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
			}
			if out.Quota != QuotaUntracked && out.Quota <= 0 {
				return r.summarize(q, skipped, StateQuotaExhausted, out.Reason), nil
			}
		case OutcomeRejected:
			return r.summarize(q, skipped, StateSinkError, out.Reason), nil
		case OutcomeSkipped:
			for _, item := range batch {
				skipped[item.Position] = struct{}{}
			}
		case OutcomeAborted:
			return r.summarize(q, skipped, StateOperatorAborted, out.Reason), nil
		default:
			return nil, fmt.Errorf("sink returned unknown outcome kind %d", out.Kind)
		}
	}
}

func (r *Runner) summarize(q *queue.Queue, skipped map[int]struct{}, state State, reason string) *Summary {
	return &Summary{
		State:     state,
		Completed: q.Completed(),
		Remaining: q.Pending(),
		Skipped:   len(skipped),
		Reason:    reason,
	}
}
