// Package future provides a single-assignment asynchronous value.
//
// A Future is started once and may be awaited any number of times from any number of
// goroutines; every waiter observes the same value or error.
package future

import (
	"context"
	"fmt"

	"github.com/yigit/degreeaudit/internal/pkg/apperrors"
)

// Future is a value that becomes available once its producer finishes.
type Future[T any] struct {
	done  chan struct{}
	value T
	err   error
}

// Go runs fn in a new goroutine and returns a Future for its outcome. A panic inside fn is
// converted into an error instead of crashing the process.
func Go[T any](ctx context.Context, fn func(ctx context.Context) (T, error)) *Future[T] {
	f := &Future[T]{done: make(chan struct{})}
	go func() {
		defer close(f.done)
		defer func() {
			if r := recover(); r != nil {
				f.err = fmt.Errorf("future panicked: %v", r)
			}
		}()
		f.value, f.err = fn(ctx)
	}()
	return f
}

// Resolved returns a Future that is already settled with v.
func Resolved[T any](v T) *Future[T] {
	f := &Future[T]{done: make(chan struct{}), value: v}
	close(f.done)
	return f
}

// Failed returns a Future that is already settled with err.
func Failed[T any](err error) *Future[T] {
	f := &Future[T]{done: make(chan struct{}), err: err}
	close(f.done)
	return f
}

// Await blocks until the future settles or ctx is done. Awaiting a nil future fails with
// apperrors.ErrMissingField.
func (f *Future[T]) Await(ctx context.Context) (T, error) {
	if f == nil || f.done == nil {
		var zero T
		return zero, apperrors.NewMissingFieldError("future")
	}
	select {
	case <-f.done:
		return f.value, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Done is closed once the future has settled. A nil future reports as settled.
func (f *Future[T]) Done() <-chan struct{} {
	if f == nil || f.done == nil {
		closed := make(chan struct{})
		close(closed)
		return closed
	}
	return f.done
}
