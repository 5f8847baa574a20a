package reactive

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// Listener is anything that can be notified when a dependency changes.
// Mounted component instances implement it.
type Listener interface {
	// MarkDirty notifies the listener that one of its inputs has changed.
	// For components, this schedules a re-render.
	MarkDirty()

	// ID returns a unique identifier for this listener.
	// Used for deduplication during batch processing.
	ID() uint64
}

// Cleanup is a function that releases resources held by a mount.
type Cleanup func()

// Ctx is the mount-scoped runtime handle given to components that manage
// their own resources. The host implements it; every method must be called
// from the host's event loop except Dispatch, which is safe from any goroutine.
type Ctx interface {
	// Dispatch queues fn to run on the host's event loop.
	Dispatch(fn func())

	// Invalidate requests a re-render of the mounted component.
	// Requests within one loop turn are coalesced.
	Invalidate()

	// Fail reports an error that leaves the mounted component unusable.
	// The host switches the component to its error state.
	Fail(err error)

	// Owner returns the cleanup scope of the mount.
	Owner() *Owner

	// Logger returns the host's structured logger.
	Logger() *slog.Logger

	// StdContext returns a context cancelled when the mount ends.
	StdContext() context.Context
}

// globalIDCounter is the source of unique IDs for owners and listeners.
var globalIDCounter atomic.Uint64

// nextID returns the next unique ID. IDs are monotonically increasing and never reused.
func nextID() uint64 {
	return globalIDCounter.Add(1)
}

// NextID exposes the shared ID sequence to listener implementations outside this package.
func NextID() uint64 {
	return nextID()
}
