package stream

// Scheduler delivers callbacks onto an execution context, typically a UI
// event loop. Dispatch must be safe to call from any goroutine and must run
// callbacks in the order they were dispatched.
type Scheduler interface {
	Dispatch(fn func())
}

// SchedulerFunc adapts a function to the Scheduler interface.
type SchedulerFunc func(fn func())

// Dispatch implements Scheduler.
func (f SchedulerFunc) Dispatch(fn func()) { f(fn) }

// Immediate runs callbacks synchronously on the dispatching goroutine.
// Useful in tests and for sources that are already on the loop.
var Immediate Scheduler = SchedulerFunc(func(fn func()) { fn() })
