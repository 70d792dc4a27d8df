package async

import (
	"context"
	"time"
)

// Future represents the result of an asynchronous computation.
type Future[U any] struct {
	result U
	err    error
	done   chan struct{}
}

func newFuture[U any]() *Future[U] {
	return &Future[U]{done: make(chan struct{})}
}

// complete stores the outcome and releases every waiter. Must be called exactly once.
func (f *Future[U]) complete(res U, err error) {
	f.result = res
	f.err = err
	close(f.done)
}

// Done returns a channel closed once the future has a result.
func (f *Future[U]) Done() <-chan struct{} {
	return f.done
}

// Await waits for the asynchronous function to complete and returns its result and error.
func (f *Future[U]) Await() (U, error) {
	<-f.done
	return f.result, f.err
}

// AwaitContext waits for completion or for ctx to be done, whichever comes first.
// The future keeps running when ctx is done; only the wait is abandoned.
func (f *Future[U]) AwaitContext(ctx context.Context) (U, error) {
	select {
	case <-f.done:
		return f.result, f.err
	case <-ctx.Done():
		var zero U
		return zero, ctx.Err()
	}
}

// AwaitWithTimeout waits for the asynchronous function to complete with a timeout.
// If the timeout occurs before completion, returns ErrTimeout.
func (f *Future[U]) AwaitWithTimeout(timeout time.Duration) (U, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-f.done:
		return f.result, f.err
	case <-timer.C:
		var zero U
		return zero, ErrTimeout
	}
}

// IsComplete checks if the asynchronous function is complete without blocking.
func (f *Future[U]) IsComplete() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

// OnComplete registers fn to run with the future's outcome once it is available.
// fn runs on its own goroutine; the returned channel is closed after fn returns.
func (f *Future[U]) OnComplete(fn func(U, error)) <-chan struct{} {
	finished := make(chan struct{})
	go func() {
		defer close(finished)
		<-f.done
		if fn != nil {
			fn(f.result, f.err)
		}
	}()
	return finished
}

// Async executes a function asynchronously and returns a Future.
// If ctx is already done the function is never called and the future
// completes with ctx.Err().
func Async[T any, U any](ctx context.Context, param T, fn func(context.Context, T) (U, error)) *Future[U] {
	f := newFuture[U]()

	go func() {
		if err := ctx.Err(); err != nil {
			var zero U
			f.complete(zero, err)
			return
		}

		f.complete(fn(ctx, param))
	}()

	return f
}

// Then chains fn onto prev. fn receives prev's result only when prev succeeded;
// a failed prev propagates its error unchanged, and a done ctx short-circuits
// the continuation with ctx.Err().
func Then[U any, V any](ctx context.Context, prev *Future[U], fn func(context.Context, U) (V, error)) *Future[V] {
	f := newFuture[V]()

	go func() {
		var zero V

		select {
		case <-prev.done:
		case <-ctx.Done():
			f.complete(zero, ctx.Err())
			return
		}

		if prev.err != nil {
			f.complete(zero, prev.err)
			return
		}
		if err := ctx.Err(); err != nil {
			f.complete(zero, err)
			return
		}

		f.complete(fn(ctx, prev.result))
	}()

	return f
}

// Resolved returns an already completed future. Handy for tests and for
// short-circuiting a pipeline stage.
func Resolved[U any](res U, err error) *Future[U] {
	f := newFuture[U]()
	f.complete(res, err)
	return f
}

// WaitAll waits for all futures to complete and returns a slice of their results and an error
// if any of the futures returned an error.
func WaitAll[U any](futures ...*Future[U]) ([]U, error) {
	results := make([]U, len(futures))

	for i, future := range futures {
		result, err := future.Await()
		results[i] = result
		if err != nil {
			return results, err
		}
	}

	return results, nil
}
