package generate

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/pevans/pressrun/engine"
	"github.com/pevans/pressrun/post"
	"github.com/pevans/pressrun/queue"
)

// Sink generates one article per work item and writes it to the record's
// target path. Implements engine.Sink at single-item granularity: run it
// with a batch size of one.
type Sink struct {
	gen              Generator
	systemPrompt     string
	creator          PostCreator
	decider          DecisionProvider
	imagePlaceholder string
	onFragment       func(string)
}

// NewSink creates a generate-and-commit sink. A nil decider means auto-save:
// every successfully generated article is accepted without confirmation. A
// nil creator skips post registration with the site generator.
func NewSink(gen Generator, systemPrompt string, creator PostCreator, decider DecisionProvider) *Sink {
	return &Sink{
		gen:          gen,
		systemPrompt: systemPrompt,
		creator:      creator,
		decider:      decider,
	}
}

// SetImagePlaceholder rewrites image links in generated articles to the given
// asset path before saving.
func (s *Sink) SetImagePlaceholder(placeholder string) {
	s.imagePlaceholder = placeholder
}

// SetFragmentEcho streams generation fragments to the given callback as they
// arrive, so the operator can read the article while deciding.
func (s *Sink) SetFragmentEcho(fn func(string)) {
	s.onFragment = fn
}

// Submit generates an article for the batch's single item. A failed or empty
// generation stream rejects the item without retry; regeneration repeats the
// same item without advancing the queue.
func (s *Sink) Submit(ctx context.Context, batch []queue.Item) (engine.Outcome, error) {
	if len(batch) != 1 {
		return engine.Outcome{}, fmt.Errorf("generate sink submits one item at a time, got %d", len(batch))
	}
	item := batch[0]
	record := item.Record
	if record == nil {
		return engine.Outcome{}, fmt.Errorf("item at position %d has no post record", item.Position)
	}

	for {
		article, err := s.gen.StreamChat(ctx,
			SystemPrompt(s.systemPrompt, record.Category),
			UserPrompt(record.Title),
			s.onFragment)
		if err != nil {
			return engine.Outcome{
				Kind:   engine.OutcomeRejected,
				Quota:  engine.QuotaUntracked,
				Reason: fmt.Sprintf("generation failed for %q: %v", record.Title, err),
			}, nil
		}

		// Register the post with the site generator. Best-effort; the
		// artifact is still saved if this fails.
		if s.creator != nil {
			if err := s.creator.CreatePost(ctx, record.Filename, record.Title); err != nil {
				log.Printf("WARN: post creation command failed: %v", err)
			}
		}

		article = post.Clean(article, s.imagePlaceholder)

		if s.decider == nil {
			return s.save(record, article)
		}

		decision, err := s.decider.Decide(item, article)
		if err != nil {
			return engine.Outcome{}, fmt.Errorf("operator decision: %w", err)
		}
		switch decision {
		case DecisionSave:
			return s.save(record, article)
		case DecisionRegenerate:
			continue
		case DecisionSkip:
			return engine.Outcome{
				Kind:   engine.OutcomeSkipped,
				Quota:  engine.QuotaUntracked,
				Reason: fmt.Sprintf("%q skipped by operator", record.Title),
			}, nil
		case DecisionAbort:
			return engine.Outcome{
				Kind:   engine.OutcomeAborted,
				Quota:  engine.QuotaUntracked,
				Reason: "aborted by operator",
			}, nil
		default:
			return engine.Outcome{}, fmt.Errorf("unknown decision %d", decision)
		}
	}
}

func (s *Sink) save(record *queue.PostRecord, article string) (engine.Outcome, error) {
	dir := filepath.Dir(record.TargetPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return rejected(fmt.Sprintf("create post directory %s: %v", dir, err)), nil
	}
	if err := os.WriteFile(record.TargetPath, []byte(article), 0644); err != nil {
		return rejected(fmt.Sprintf("write article %s: %v", record.TargetPath, err)), nil
	}
	return engine.Outcome{
		Kind:   engine.OutcomeAccepted,
		Quota:  engine.QuotaUntracked,
		Reason: fmt.Sprintf("saved %s", record.TargetPath),
	}, nil
}

func rejected(reason string) engine.Outcome {
	return engine.Outcome{
		Kind:   engine.OutcomeRejected,
		Quota:  engine.QuotaUntracked,
		Reason: reason,
	}
}
