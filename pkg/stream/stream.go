package stream

import (
	"sync"
	"sync/atomic"
)

// Stream is a push-based sequence of values delivered to subscribed observers,
// optionally terminated by an error or a completion signal.
//
// Implementations must maintain the following invariants:
//   - Values are delivered to a single observer in the order they were produced.
//   - After Error or Complete, no further notifications reach that observer.
//   - After the returned Subscription is released, no further notifications
//     reach that observer.
type Stream[T any] interface {
	Subscribe(o Observer[T]) Subscription
}

// Observer receives notifications from a Stream. Nil callbacks are ignored.
type Observer[T any] struct {
	Next     func(T)
	Error    func(error)
	Complete func()
}

// OnNext is shorthand for an Observer with only a Next callback.
func OnNext[T any](fn func(T)) Observer[T] {
	return Observer[T]{Next: fn}
}

// Subscription represents an active registration on a stream.
type Subscription interface {
	// Release stops delivery and frees upstream resources.
	// Calling Release more than once is a no-op.
	Release()

	// Released reports whether Release has been called or the stream terminated.
	Released() bool
}

// Emitter is the producer side handed to Create. All methods are no-ops once
// the stream terminated or the subscription was released.
type Emitter[T any] interface {
	Next(v T)
	Error(err error)
	Complete()

	// Closed reports whether the downstream no longer accepts notifications.
	// Synchronous producers check it to stop early.
	Closed() bool
}

// FuncStream wraps a subscribe function. Convenience when declaring a struct to
// implement Subscribe is overkill. The function receives an Emitter and returns
// a teardown run exactly once when the subscription ends (may be nil).
type FuncStream[T any] func(Emitter[T]) func()

// Subscribe implements Stream.
func (f FuncStream[T]) Subscribe(o Observer[T]) Subscription {
	s := &sink[T]{observer: o}
	teardown := f(s)
	s.setTeardown(teardown)
	return s
}

// Create builds a Stream from a subscribe function; see FuncStream.
func Create[T any](subscribe func(Emitter[T]) func()) Stream[T] {
	return FuncStream[T](subscribe)
}

// sink guards an Observer and doubles as the Subscription handed back to the
// subscriber. Termination (error, completion, release) is recorded once and
// runs the teardown exactly once.
type sink[T any] struct {
	observer Observer[T]
	closed   atomic.Bool

	mu         sync.Mutex
	teardown   func()
	tornDown   bool
	terminated bool
}

func (s *sink[T]) Next(v T) {
	if s.closed.Load() {
		return
	}
	if s.observer.Next != nil {
		s.observer.Next(v)
	}
}

func (s *sink[T]) Error(err error) {
	if s.closed.Swap(true) {
		return
	}
	if s.observer.Error != nil {
		s.observer.Error(err)
	}
	s.runTeardown()
}

func (s *sink[T]) Complete() {
	if s.closed.Swap(true) {
		return
	}
	if s.observer.Complete != nil {
		s.observer.Complete()
	}
	s.runTeardown()
}

func (s *sink[T]) Closed() bool {
	return s.closed.Load()
}

func (s *sink[T]) Release() {
	s.closed.Store(true)
	s.runTeardown()
}

func (s *sink[T]) Released() bool {
	return s.closed.Load()
}

// setTeardown records the producer's teardown. When the stream already
// terminated synchronously during subscribe, the teardown runs right away.
func (s *sink[T]) setTeardown(fn func()) {
	s.mu.Lock()
	if s.terminated {
		s.mu.Unlock()
		if fn != nil {
			fn()
		}
		return
	}
	s.teardown = fn
	s.mu.Unlock()
}

func (s *sink[T]) runTeardown() {
	s.mu.Lock()
	if s.terminated {
		s.mu.Unlock()
		return
	}
	s.terminated = true
	fn := s.teardown
	s.teardown = nil
	s.mu.Unlock()
	if fn != nil {
		fn()
	}
}

// NewSubscription returns a Subscription that runs release once.
func NewSubscription(release func()) Subscription {
	return &funcSubscription{release: release}
}

type funcSubscription struct {
	once     sync.Once
	released atomic.Bool
	release  func()
}

func (f *funcSubscription) Release() {
	f.once.Do(func() {
		f.released.Store(true)
		if f.release != nil {
			f.release()
		}
	})
}

func (f *funcSubscription) Released() bool {
	return f.released.Load()
}

// Composite releases a group of subscriptions together.
type Composite struct {
	mu       sync.Mutex
	subs     []Subscription
	released bool
}

// Add registers sub with the group. If the group is already released, sub is
// released immediately.
func (c *Composite) Add(sub Subscription) {
	if sub == nil {
		return
	}
	c.mu.Lock()
	if c.released {
		c.mu.Unlock()
		sub.Release()
		return
	}
	c.subs = append(c.subs, sub)
	c.mu.Unlock()
}

// Release releases every subscription in the group. Idempotent.
func (c *Composite) Release() {
	c.mu.Lock()
	if c.released {
		c.mu.Unlock()
		return
	}
	c.released = true
	subs := c.subs
	c.subs = nil
	c.mu.Unlock()

	for _, sub := range subs {
		sub.Release()
	}
}

// Released reports whether Release has been called.
func (c *Composite) Released() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.released
}

// Len returns the number of live subscriptions in the group.
func (c *Composite) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.subs)
}
