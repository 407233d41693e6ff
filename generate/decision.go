package generate

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/pevans/pressrun/queue"
)

// Decision is the operator's directive for a generated artifact.
type Decision int

const (
	// DecisionSave accepts the artifact; the item is committed as completed.
	DecisionSave Decision = iota
	// DecisionRegenerate repeats generation for the same item. Not counted
	// as a new queue position.
	DecisionRegenerate
	// DecisionSkip passes over this item only; it stays pending.
	DecisionSkip
	// DecisionAbort stops the whole run.
	DecisionAbort
)

// DecisionProvider surfaces a generated artifact and blocks for a directive.
// Substituting a scripted provider makes interactive flows testable.
type DecisionProvider interface {
	Decide(item queue.Item, artifact string) (Decision, error)
}

// ConsolePrompter reads directives from an input stream, prompting on out.
// The wait is unbounded; the in-flight item is neither lost nor duplicated
// while the prompt is open.
type ConsolePrompter struct {
	in  *bufio.Reader
	out io.Writer
}

// NewConsolePrompter creates a prompter over the given streams.
func NewConsolePrompter(in io.Reader, out io.Writer) *ConsolePrompter {
	return &ConsolePrompter{in: bufio.NewReader(in), out: out}
}

// Decide prompts until it reads a recognized directive. End of input is
// treated as abort: the operator has walked away, and stopping keeps the
// item pending for the next run.
func (p *ConsolePrompter) Decide(item queue.Item, artifact string) (Decision, error) {
	for {
		fmt.Fprintf(p.out, "\nSave (s), regenerate (r), skip (k), or abort (a)? ")
		line, err := p.in.ReadString('\n')
		if err == io.EOF {
			return DecisionAbort, nil
		}
		if err != nil {
			return 0, fmt.Errorf("read directive: %w", err)
		}

		switch strings.ToLower(strings.TrimSpace(line)) {
		case "s", "save":
			return DecisionSave, nil
		case "r", "regenerate":
			return DecisionRegenerate, nil
		case "k", "skip":
			return DecisionSkip, nil
		case "a", "abort", "q", "quit":
			return DecisionAbort, nil
		}
	}
}
