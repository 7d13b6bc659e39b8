package viewmodel

import (
	"context"
	"sync"
)

// Task is a handle to an asynchronous refresh.
type Task struct {
	done   chan struct{}
	cancel context.CancelFunc
	once   sync.Once
	err    error
}

func newTask(cancel context.CancelFunc) *Task {
	return &Task{done: make(chan struct{}), cancel: cancel}
}

// finish records the result and releases waiters. Only the first call counts.
func (t *Task) finish(err error) {
	t.once.Do(func() {
		t.err = err
		close(t.done)
		t.cancel()
	})
}

// Done is closed when the task completes.
func (t *Task) Done() <-chan struct{} {
	return t.done
}

// Wait blocks until the task completes or ctx ends.
func (t *Task) Wait(ctx context.Context) error {
	select {
	case <-t.done:
		return t.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Cancel cancels the underlying fetch. The task still completes.
func (t *Task) Cancel() {
	t.cancel()
}

// Err returns the task result, or nil while it is still running.
func (t *Task) Err() error {
	select {
	case <-t.done:
		return t.err
	default:
		return nil
	}
}
