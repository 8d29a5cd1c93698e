// Package async provides a small future primitive for running storage
// operations off the caller's thread of control.
//
// A Future is produced by Go, which runs the supplied function on its own
// goroutine under a cancellable context. Callers resume by selecting on
// Done or by calling Await; abandoning a future via Cancel aborts the
// underlying operation at its next checkpoint.
package async

import (
	"context"
	"sync"
)

// Future is the pending result of an operation started with Go.
type Future[T any] struct {
	done   chan struct{}
	cancel context.CancelFunc
	once   sync.Once

	value T
	err   error
}

// Go runs fn on a new goroutine under a context derived from ctx and
// returns a future that resolves with fn's result. Cancelling the parent
// context cancels the operation.
func Go[T any](ctx context.Context, fn func(context.Context) (T, error)) *Future[T] {
	ctx, cancel := context.WithCancel(ctx)
	f := &Future[T]{
		done:   make(chan struct{}),
		cancel: cancel,
	}
	go func() {
		defer cancel()
		f.value, f.err = fn(ctx)
		close(f.done)
	}()
	return f
}

// Resolved returns an already-completed future carrying value and err.
func Resolved[T any](value T, err error) *Future[T] {
	f := &Future[T]{
		done:   make(chan struct{}),
		cancel: func() {},
		value:  value,
		err:    err,
	}
	close(f.done)
	return f
}

// Done is closed when the future has resolved. It is safe to select on
// from multiple goroutines.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// Await blocks until the future resolves or ctx is cancelled. On ctx
// cancellation the underlying operation is also cancelled and ctx's
// error is returned.
func (f *Future[T]) Await(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.value, f.err
	case <-ctx.Done():
		f.Cancel()
		var zero T
		return zero, ctx.Err()
	}
}

// Cancel aborts the underlying operation. The future still resolves,
// typically with a cancellation error, once the operation observes the
// signal. Cancel is idempotent.
func (f *Future[T]) Cancel() {
	f.once.Do(f.cancel)
}

// Result returns the resolved value and error. It must only be called
// after Done is closed.
func (f *Future[T]) Result() (T, error) {
	return f.value, f.err
}
