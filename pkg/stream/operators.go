package stream

import (
	"sync"

	"golang.org/x/time/rate"
)

// subscribeTo connects an upstream to the given emitter, forwarding errors and
// completion, and routing values through next.
func subscribeTo[A, B any](src Stream[A], e Emitter[B], next func(A)) Subscription {
	return src.Subscribe(Observer[A]{
		Next:     next,
		Error:    e.Error,
		Complete: e.Complete,
	})
}

// Map applies a function onto each value of a stream.
func Map[A, B any](src Stream[A], apply func(A) B) Stream[B] {
	return FuncStream[B](func(e Emitter[B]) func() {
		return subscribeTo(src, e, func(a A) { e.Next(apply(a)) }).Release
	})
}

// Filter keeps only the values for which the filter function returns true.
func Filter[T any](src Stream[T], filter func(T) bool) Stream[T] {
	return FuncStream[T](func(e Emitter[T]) func() {
		return subscribeTo(src, e, func(x T) {
			if filter(x) {
				e.Next(x)
			}
		}).Release
	})
}

// Scan takes an initial state and a step function that is called on each value
// with the previous state, and emits every intermediate state. Each subscription
// keeps its own state, starting from init.
func Scan[In, Out any](src Stream[In], init Out, step func(Out, In) Out) Stream[Out] {
	return FuncStream[Out](func(e Emitter[Out]) func() {
		state := init
		return subscribeTo(src, e, func(x In) {
			state = step(state, x)
			e.Next(state)
		}).Release
	})
}

// StartWith emits the given values before the values of src.
func StartWith[T any](src Stream[T], items ...T) Stream[T] {
	return FuncStream[T](func(e Emitter[T]) func() {
		for _, item := range items {
			if e.Closed() {
				return nil
			}
			e.Next(item)
		}
		if e.Closed() {
			return nil
		}
		return subscribeTo(src, e, e.Next).Release
	})
}

// Merge multiple streams into one. Values are forwarded in arrival order.
// An error from any source terminates the merged stream and releases the
// others; the merged stream completes when every source completed.
func Merge[T any](srcs ...Stream[T]) Stream[T] {
	return FuncStream[T](func(e Emitter[T]) func() {
		if len(srcs) == 0 {
			e.Complete()
			return nil
		}

		var (
			mu        sync.Mutex
			remaining = len(srcs)
			group     Composite
		)
		for _, src := range srcs {
			if e.Closed() {
				break
			}
			group.Add(src.Subscribe(Observer[T]{
				Next:  e.Next,
				Error: e.Error,
				Complete: func() {
					mu.Lock()
					remaining--
					last := remaining == 0
					mu.Unlock()
					if last {
						e.Complete()
					}
				},
			}))
		}
		return group.Release
	})
}

// Take emits the first n values of src and then completes.
func Take[T any](n int, src Stream[T]) Stream[T] {
	return FuncStream[T](func(e Emitter[T]) func() {
		if n <= 0 {
			e.Complete()
			return nil
		}
		count := 0
		return subscribeTo(src, e, func(x T) {
			if count >= n {
				return
			}
			count++
			e.Next(x)
			if count == n {
				e.Complete()
			}
		}).Release
	})
}

// Throttle limits the rate of values to ratePerSecond with the given burst.
// Values arriving while the limiter has no tokens are dropped; the stream
// never blocks its producer, so it is safe on an event loop.
func Throttle[T any](src Stream[T], ratePerSecond float64, burst int) Stream[T] {
	return FuncStream[T](func(e Emitter[T]) func() {
		limiter := rate.NewLimiter(rate.Limit(ratePerSecond), burst)
		return subscribeTo(src, e, func(x T) {
			if limiter.Allow() {
				e.Next(x)
			}
		}).Release
	})
}

// Tap calls f on each value before passing it downstream.
func Tap[T any](src Stream[T], f func(T)) Stream[T] {
	return FuncStream[T](func(e Emitter[T]) func() {
		return subscribeTo(src, e, func(x T) {
			f(x)
			e.Next(x)
		}).Release
	})
}

// ObserveOn re-delivers every notification of src through sched. Each
// dispatched callback re-checks the subscription, so nothing is delivered
// after release even if it was already queued.
func ObserveOn[T any](src Stream[T], sched Scheduler) Stream[T] {
	return FuncStream[T](func(e Emitter[T]) func() {
		return src.Subscribe(Observer[T]{
			Next: func(x T) {
				sched.Dispatch(func() {
					if !e.Closed() {
						e.Next(x)
					}
				})
			},
			Error: func(err error) {
				sched.Dispatch(func() { e.Error(err) })
			},
			Complete: func() {
				sched.Dispatch(e.Complete)
			},
		}).Release
	})
}

// Any converts a typed stream into a stream of untyped values.
func Any[T any](src Stream[T]) Stream[any] {
	return Map(src, func(v T) any { return v })
}
