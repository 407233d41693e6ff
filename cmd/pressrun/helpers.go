package main

import (
	"fmt"
	"log"

	"github.com/pevans/pressrun/engine"
	"github.com/pevans/pressrun/journal"
	"github.com/pevans/pressrun/queue"
)

// outcomeName renders an outcome kind for logs and the journal.
func outcomeName(kind engine.OutcomeKind) string {
	switch kind {
	case engine.OutcomeAccepted:
		return "accepted"
	case engine.OutcomeRejected:
		return "rejected"
	case engine.OutcomeSkipped:
		return "skipped"
	case engine.OutcomeAborted:
		return "aborted"
	default:
		return "unknown"
	}
}

// runRecorder logs per-batch progress and mirrors it into the run journal.
// Journal trouble degrades to warnings: history must never block a run.
type runRecorder struct {
	store *journal.Store
	run   *journal.Run
}

// startRecorder opens the journal and registers a run. On any failure the
// recorder still works as a plain logger.
func startRecorder(dsn, kind, storePath string) *runRecorder {
	rec := &runRecorder{}
	if dsn == "" {
		return rec
	}

	store, err := journal.NewStore(dsn)
	if err != nil {
		log.Printf("WARN: run journal unavailable: %v", err)
		return rec
	}
	run, err := store.StartRun(kind, storePath)
	if err != nil {
		log.Printf("WARN: failed to register run: %v", err)
		store.Close()
		return rec
	}
	rec.store = store
	rec.run = run
	return rec
}

// BatchSubmitted implements engine.Observer.
func (r *runRecorder) BatchSubmitted(seq int, batch []queue.Item, out engine.Outcome) {
	switch out.Kind {
	case engine.OutcomeAccepted:
		if out.Quota != engine.QuotaUntracked {
			log.Printf("INFO: batch %d: %s (quota left: %d)", seq, out.Reason, out.Quota)
		} else {
			log.Printf("INFO: batch %d: %s", seq, out.Reason)
		}
	case engine.OutcomeSkipped:
		log.Printf("INFO: batch %d: %s", seq, out.Reason)
	default:
		log.Printf("ERROR: batch %d: %s", seq, out.Reason)
	}

	if r.store != nil {
		err := r.store.RecordBatch(r.run.RunID, seq, len(batch),
			outcomeName(out.Kind), out.Quota, out.Reason)
		if err != nil {
			log.Printf("WARN: failed to journal batch %d: %v", seq, err)
		}
	}
}

// finish records the terminal state and closes the journal.
func (r *runRecorder) finish(sum *engine.Summary) {
	if r.store == nil {
		return
	}
	err := r.store.FinishRun(r.run.RunID, string(sum.State),
		sum.Completed, sum.Remaining, sum.Skipped, sum.Reason)
	if err != nil {
		log.Printf("WARN: failed to journal run result: %v", err)
	}
	r.store.Close()
}

// closeAbandoned closes the journal after a run that never reached a
// terminal state (load or persistence failure).
func (r *runRecorder) closeAbandoned() {
	if r.store != nil {
		r.store.Close()
	}
}

// printSummary reports the externally observable result of a run.
func printSummary(sum *engine.Summary) {
	fmt.Println()
	fmt.Printf("Run finished: %s\n", sum.State)
	fmt.Printf("  Completed: %d\n", sum.Completed)
	fmt.Printf("  Remaining: %d\n", sum.Remaining)
	if sum.Skipped > 0 {
		fmt.Printf("  Skipped:   %d\n", sum.Skipped)
	}
	if sum.Reason != "" {
		fmt.Printf("  Reason:    %s\n", sum.Reason)
	}
}
