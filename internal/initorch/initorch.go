// Package initorch implements the initialization orchestrator (C8):
// single-flight asynchronous initialization of each corpus controller, a
// pending-task registry, and a synchronous "wait for all initialization"
// primitive used only during process startup.
package initorch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/singleflight"
)

// ErrServiceUnavailable is returned by Instance when the named controller's
// initialization task completed with an error.
var ErrServiceUnavailable = errors.New("initorch: service unavailable")

// task is one registered record type's single-flight initialization: a
// group keyed by the type's name, plus the result once it is known. Only
// one singleflight.Group is used per Orchestrator, keyed by name, so this
// struct mostly exists to remember the result after Do has already run
// once (Do itself re-runs the function on every call once the in-flight
// one completes, which is not what we want for a one-shot boot-time init).
type task struct {
	once sync.Once
	fn   func(ctx context.Context) (any, error)
	done chan struct{}
	val  any
	err  error
}

// Orchestrator coordinates single-flight startup initialization across an
// arbitrary number of registered record types.
type Orchestrator struct {
	group singleflight.Group

	mu      sync.Mutex
	tasks   map[string]*task
	pending []*task
	logger  *slog.Logger
}

// New returns an empty Orchestrator. logger defaults to slog.Default() when
// nil.
func New(logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{tasks: make(map[string]*task), logger: logger}
}

// Register creates the (single-flight) initialization task for a record
// type, identified by name, and starts it immediately in the background.
// init should run the scraper, build the controller, and call the cache
// registry's Overwrite; any error is logged here with the given name and
// the task is recorded as failed (nil value), never retried after startup.
// Register is idempotent per name: calling it twice for the same name is a
// programmer error (the second call's task is simply never started), since
// the orchestrator is populated once at boot before any request is served.
func (o *Orchestrator) Register(ctx context.Context, name string, init func(ctx context.Context) (any, error)) {
	o.mu.Lock()
	if _, exists := o.tasks[name]; exists {
		o.mu.Unlock()
		return
	}
	t := &task{fn: init, done: make(chan struct{})}
	o.tasks[name] = t
	o.pending = append(o.pending, t)
	o.mu.Unlock()

	go func() {
		defer close(t.done)
		val, err, _ := o.group.Do(name, func() (any, error) {
			return init(ctx)
		})
		if err != nil {
			o.logger.Error("initialization failed", "service", name, "kind", fmt.Sprintf("%T", err), "error", err)
			t.err = ErrServiceUnavailable
			return
		}
		t.val = val
	}()
}

// Instance awaits the named task's completion and returns its value, or
// ErrServiceUnavailable if initialization failed or the name was never
// registered. Concurrent callers before completion all observe the same
// terminal outcome.
func (o *Orchestrator) Instance(ctx context.Context, name string) (any, error) {
	o.mu.Lock()
	t, ok := o.tasks[name]
	o.mu.Unlock()
	if !ok {
		return nil, ErrServiceUnavailable
	}

	select {
	case <-t.done:
		if t.err != nil {
			return nil, t.err
		}
		return t.val, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// WaitAll awaits every pending initialization task in registration order;
// on the first error it stops awaiting further tasks and returns that
// error.
func (o *Orchestrator) WaitAll(ctx context.Context) error {
	o.mu.Lock()
	pending := make([]*task, len(o.pending))
	copy(pending, o.pending)
	o.mu.Unlock()

	for _, t := range pending {
		select {
		case <-t.done:
			if t.err != nil {
				return t.err
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

// WaitAllBlocking schedules WaitAll on a background goroutine and blocks
// the caller until it completes. It is used only during process startup;
// requests admitted before it returns may observe ErrServiceUnavailable
// for a corpus whose initialization has not yet reached a terminal state.
func (o *Orchestrator) WaitAllBlocking(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- o.WaitAll(ctx)
	}()
	return <-errCh
}
