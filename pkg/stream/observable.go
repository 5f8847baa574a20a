package stream

import (
	"context"
	"errors"
)

// Observable is a pull-driven producer in the style of context-cancelled
// pipelines: Observe blocks, calling next sequentially for each item, until
// the producer finishes, next returns an error, or ctx is cancelled.
type Observable[T any] interface {
	Observe(ctx context.Context, next func(T) error) error
}

// FuncObservable wraps a function that implements Observe.
type FuncObservable[T any] func(context.Context, func(T) error) error

// Observe implements Observable.
func (f FuncObservable[T]) Observe(ctx context.Context, next func(T) error) error {
	return f(ctx, next)
}

// FromObservable runs src on its own goroutine and delivers its items,
// error and completion through sched. Releasing the subscription cancels the
// context passed to Observe. Cancellation caused by the release is not
// reported as an error.
func FromObservable[T any](parent context.Context, src Observable[T], sched Scheduler) Stream[T] {
	return FuncStream[T](func(e Emitter[T]) func() {
		ctx, cancel := context.WithCancel(parent)
		go func() {
			err := src.Observe(ctx, func(item T) error {
				if err := ctx.Err(); err != nil {
					return err
				}
				sched.Dispatch(func() {
					if !e.Closed() {
						e.Next(item)
					}
				})
				return nil
			})
			if ctx.Err() != nil && errors.Is(err, ctx.Err()) && parent.Err() == nil {
				// released by the subscriber
				return
			}
			sched.Dispatch(func() {
				if err != nil {
					e.Error(err)
				} else {
					e.Complete()
				}
			})
		}()
		return cancel
	})
}

// ToObservable converts a stream into an Observable whose Observe blocks until
// the stream terminates or ctx is cancelled. The stream's notifications are
// handed to next on the Observe goroutine.
func ToObservable[T any](src Stream[T]) Observable[T] {
	return FuncObservable[T](func(ctx context.Context, next func(T) error) error {
		items := make(chan T)
		errs := make(chan error, 1)
		stop := make(chan struct{})
		defer close(stop)

		// Synchronous sources emit during Subscribe, so subscribe off this
		// goroutine to keep the hand-off below unblocked.
		subs := make(chan Subscription, 1)
		go func() {
			subs <- src.Subscribe(Observer[T]{
				Next: func(v T) {
					select {
					case items <- v:
					case <-stop:
					}
				},
				Error:    func(err error) { errs <- err },
				Complete: func() { errs <- nil },
			})
		}()
		defer func() {
			go func() { (<-subs).Release() }()
		}()

		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case err := <-errs:
				return err
			case v := <-items:
				if err := next(v); err != nil {
					return err
				}
			}
		}
	})
}
