package stream

import (
	"time"
)

//
// Sources, e.g. operators that create new streams.
//

// Just creates a stream that emits the given values and completes.
func Just[T any](items ...T) Stream[T] {
	return FromSlice(items)
}

// FromSlice converts a slice into a stream that emits each item and completes.
func FromSlice[T any](items []T) Stream[T] {
	return FuncStream[T](func(e Emitter[T]) func() {
		for _, item := range items {
			if e.Closed() {
				return nil
			}
			e.Next(item)
		}
		e.Complete()
		return nil
	})
}

// Empty creates a stream that completes immediately.
func Empty[T any]() Stream[T] {
	return FuncStream[T](func(e Emitter[T]) func() {
		e.Complete()
		return nil
	})
}

// Fail creates a stream that fails immediately with the given error.
func Fail[T any](err error) Stream[T] {
	return FuncStream[T](func(e Emitter[T]) func() {
		e.Error(err)
		return nil
	})
}

// Never creates a stream that never emits and never terminates.
// Mainly meant for testing.
func Never[T any]() Stream[T] {
	return FuncStream[T](func(Emitter[T]) func() { return nil })
}

// Interval emits an increasing counter value every 'interval' period.
// Ticks are produced on a timer goroutine and delivered through sched, so
// observers run on the scheduler's execution context. Releasing the
// subscription stops the timer; a tick already dispatched but not yet run is
// discarded.
func Interval(interval time.Duration, sched Scheduler) Stream[int] {
	return FuncStream[int](func(e Emitter[int]) func() {
		done := make(chan struct{})
		go func() {
			ticker := time.NewTicker(interval)
			defer ticker.Stop()
			for i := 0; ; i++ {
				select {
				case <-done:
					return
				case <-ticker.C:
					n := i
					sched.Dispatch(func() {
						if !e.Closed() {
							e.Next(n)
						}
					})
				}
			}
		}()
		return func() { close(done) }
	})
}

// FromChannel creates a stream from a channel. Values are delivered through
// sched. The stream completes when the channel is closed. The channel is
// consumed by the first subscriber.
func FromChannel[T any](in <-chan T, sched Scheduler) Stream[T] {
	return FuncStream[T](func(e Emitter[T]) func() {
		done := make(chan struct{})
		go func() {
			for {
				select {
				case <-done:
					return
				case v, ok := <-in:
					if !ok {
						sched.Dispatch(e.Complete)
						return
					}
					sched.Dispatch(func() {
						if !e.Closed() {
							e.Next(v)
						}
					})
				}
			}
		}()
		return func() { close(done) }
	})
}
