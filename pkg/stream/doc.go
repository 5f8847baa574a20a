// Package stream provides the push-based stream abstraction that bound
// components consume.
//
// A Stream delivers values to an Observer until it errors, completes, or the
// Subscription returned by Subscribe is released:
//
//	sub := stream.Interval(time.Second, loop).Subscribe(stream.OnNext(func(i int) {
//	    fmt.Println("tick", i)
//	}))
//	defer sub.Release()
//
// # Sources
//
// Just, FromSlice, Empty, Fail, Never, Interval, FromChannel, FromObservable
// and Subject create streams. Time- and goroutine-driven sources take a
// Scheduler and deliver through it, so observers run on the scheduler's
// execution context (usually a UI event loop).
//
// # Operators
//
// Map, Filter, Scan, StartWith, Merge, Take, Throttle, Tap and ObserveOn
// compose streams. Operators are cold: every subscription runs its own copy
// of the pipeline with its own state.
//
// # Release
//
// Release is idempotent. Once it returns, the observer is never called again,
// and notifications already queued on a Scheduler are discarded when they run.
package stream
