// Package reactive provides the lifecycle core shared by the binder and the
// session runtime.
//
// # Owners
//
// An Owner is a cleanup scope. Every mounted component gets one; resources
// acquired during the mount (stream subscriptions, timers) register a
// cleanup on it:
//
//	owner := reactive.NewOwner(parent)
//	owner.OnCleanup(func() { sub.Release() })
//	...
//	owner.Dispose() // runs cleanups in reverse order, exactly once
//
// Owners form a hierarchy mirroring the component tree. Disposing an Owner
// disposes its children first.
//
// # Batching
//
// A Batcher groups listener notifications raised during one turn of the
// event loop so each Listener is notified once:
//
//	b.Batch(func() {
//	    b.Notify(a)
//	    b.Notify(a)
//	}) // a.MarkDirty called once
//
// # Ctx
//
// Ctx is the mount-scoped handle a host gives to components that need
// lifecycle (see vdom.Mounter). It exposes the loop's Dispatch, render
// invalidation and failure reporting.
//
// # Threading
//
// Owner is safe for concurrent use. Batcher is owned by a single event loop
// and must only be used from that loop's goroutine.
package reactive
