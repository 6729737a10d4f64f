// Package parallel fans independent probes out across goroutines with
// bounded concurrency and collects their failures.
package parallel

import (
	"context"
	"fmt"
	"sync"
)

// Executor runs probe functions concurrently. Cancellation flows through
// the shared context: once canceled, scheduled work that has not started
// is dropped.
type Executor struct {
	ctx    context.Context
	cancel context.CancelFunc
	sem    chan struct{}
	wg     sync.WaitGroup
	mu     sync.Mutex
	errs   []error
}

// NewExecutor returns an executor running at most limit probes at once.
// A non-positive limit means unbounded.
func NewExecutor(ctx context.Context, limit int) *Executor {
	execCtx, cancel := context.WithCancel(ctx)
	e := &Executor{ctx: execCtx, cancel: cancel}
	if limit > 0 {
		e.sem = make(chan struct{}, limit)
	}
	return e
}

// Go schedules fn under the executor's context. The name tags any error
// the function returns.
func (e *Executor) Go(name string, fn func(context.Context) error) {
	e.wg.Add(1)
	go func() {
		defer e.wg.Done()

		if e.sem != nil {
			select {
			case e.sem <- struct{}{}:
				defer func() { <-e.sem }()
			case <-e.ctx.Done():
				return
			}
		} else {
			select {
			case <-e.ctx.Done():
				return
			default:
			}
		}

		if err := fn(e.ctx); err != nil {
			e.mu.Lock()
			e.errs = append(e.errs, fmt.Errorf("%s: %w", name, err))
			e.mu.Unlock()
		}
	}()
}

// Wait blocks until every scheduled probe has finished or been dropped.
func (e *Executor) Wait() {
	e.wg.Wait()
}

// Cancel stops unstarted work and signals running probes through their
// context.
func (e *Executor) Cancel() {
	e.cancel()
}

// Errors returns the failures collected so far.
func (e *Executor) Errors() []error {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]error, len(e.errs))
	copy(out, e.errs)
	return out
}

// Context exposes the executor's context for child operations.
func (e *Executor) Context() context.Context {
	return e.ctx
}
