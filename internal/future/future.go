// Package future is a one-shot result that is filled in by one goroutine and
// polled by another.
package future

import (
	"context"
	"errors"
	"sync"
)

// ErrNotReady is returned by Poll before the future resolves.
var ErrNotReady = errors.New("future: not ready")

type Future[T any] struct {
	done chan struct{}
	once sync.Once
	val  T
	err  error
}

// New returns an unresolved future and the function that resolves it. Only
// the first call to resolve has an effect.
func New[T any]() (*Future[T], func(T, error)) {
	f := &Future[T]{done: make(chan struct{})}
	return f, f.resolve
}

// Go runs fn on a new goroutine and resolves the future with its result.
func Go[T any](ctx context.Context, fn func(context.Context) (T, error)) *Future[T] {
	f, resolve := New[T]()
	go func() {
		v, err := fn(ctx)
		resolve(v, err)
	}()
	return f
}

// Resolved returns a future that is already complete.
func Resolved[T any](v T, err error) *Future[T] {
	f, resolve := New[T]()
	resolve(v, err)
	return f
}

func (f *Future[T]) resolve(v T, err error) {
	f.once.Do(func() {
		f.val, f.err = v, err
		close(f.done)
	})
}

func (f *Future[T]) Done() <-chan struct{} { return f.done }

// Ready reports whether the result is available. It never blocks.
func (f *Future[T]) Ready() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

// Poll returns the result, or ErrNotReady without blocking.
func (f *Future[T]) Poll() (T, error) {
	if !f.Ready() {
		var zero T
		return zero, ErrNotReady
	}
	return f.val, f.err
}

// Wait blocks until the future resolves or ctx is done.
func (f *Future[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.val, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}
