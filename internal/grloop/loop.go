// Package grloop provides the single-threaded, run-to-completion event
// dispatcher spec.md §5 requires: all GR state transitions run on one
// goroutine, with timers and cross-record notifications posted as
// deferred tasks rather than executed inline from whatever goroutine
// raised them.
package grloop

import "context"

// Dispatcher posts a function to run on the owning loop. Posting is the
// only form of "asynchrony" spec.md §5 permits between handlers.
type Dispatcher interface {
	Post(fn func())
}

// Loop is a Dispatcher backed by a buffered channel and a single worker
// goroutine, mirroring the ticker-plus-select shape the reference
// project's stabilizer loops use (internal/node/worker.go in the
// teacher), generalized to arbitrary posted closures instead of a fixed
// set of periodic tasks.
type Loop struct {
	ch chan func()
}

// New creates a Loop with the given pending-task buffer size.
func New(buffer int) *Loop {
	return &Loop{ch: make(chan func(), buffer)}
}

// Post enqueues fn to run on the loop goroutine. It blocks if the buffer
// is full, applying natural backpressure rather than dropping events.
func (l *Loop) Post(fn func()) {
	l.ch <- fn
}

// Run processes posted functions one at a time, in order, until ctx is
// canceled. Each function runs to completion before the next begins.
func (l *Loop) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case fn := <-l.ch:
			fn()
		}
	}
}

// Sync is a Dispatcher that runs fn immediately on the calling goroutine.
// It is used by unit tests and the cmd/grsim scenario runner, where a
// single goroutine already drives the virtual clock and needs every timer
// callback to happen synchronously and deterministically.
type Sync struct{}

func (Sync) Post(fn func()) { fn() }
