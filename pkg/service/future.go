package service

import (
	"context"
	"fmt"
	"runtime/debug"
)

// Future is the pending outcome of a handler started by a DynService. It is
// always heap allocated and safe to wait on from several goroutines.
type Future[T any] struct {
	done  chan struct{}
	value T
	err   error
	panic *PanicError
}

// PanicError carries a panic recovered from a handler goroutine
type PanicError struct {
	Value interface{}
	Stack []byte
}

func (p *PanicError) Error() string {
	return fmt.Sprintf("handler panicked: %v", p.Value)
}

// Go runs fn on a new goroutine and returns its Future. A panic in fn is
// captured and re-raised by Wait.
func Go[T any](fn func() (T, error)) *Future[T] {
	f := &Future[T]{done: make(chan struct{})}
	go func() {
		defer close(f.done)
		defer func() {
			if r := recover(); r != nil {
				f.panic = &PanicError{Value: r, Stack: debug.Stack()}
			}
		}()
		f.value, f.err = fn()
	}()
	return f
}

// Resolved returns a Future that is already complete
func Resolved[T any](value T, err error) *Future[T] {
	f := &Future[T]{done: make(chan struct{}), value: value, err: err}
	close(f.done)
	return f
}

// Done is closed once the outcome is available
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// Ready reports whether the outcome is available without blocking
func (f *Future[T]) Ready() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

// Wait blocks until the handler finishes and returns its outcome. If the
// handler panicked, Wait panics with the same value.
func (f *Future[T]) Wait() (T, error) {
	<-f.done
	if f.panic != nil {
		panic(f.panic.Value)
	}
	return f.value, f.err
}

// Await is Wait bounded by ctx. A handler panic is returned as *PanicError
// instead of being re-raised.
func (f *Future[T]) Await(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		if f.panic != nil {
			var zero T
			return zero, f.panic
		}
		return f.value, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}
