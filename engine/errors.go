package engine

import "errors"

// ErrPersistence marks a failed progress commit. It is fatal: the run stops
// immediately and the store keeps its pre-batch state, so the next invocation
// retries the affected batch rather than losing or duplicating work.
var ErrPersistence = errors.New("queue persistence failed")
