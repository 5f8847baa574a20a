package stream

import "sync"

// Subject is a hot, multicast stream that is also an event source: values passed
// to Next are delivered to every current subscriber in subscription order.
// Subscribers that arrive after Error or Complete receive the terminal
// notification immediately.
//
// Subject is safe for concurrent use, but delivery happens on the caller's
// goroutine. Components bound on an event loop should call Next from that loop
// (or wrap the subject with ObserveOn).
type Subject[T any] struct {
	mu        sync.Mutex
	observers []*subjectObserver[T]
	done      bool
	err       error
}

type subjectObserver[T any] struct {
	emitter Emitter[T]
}

// NewSubject creates an empty subject.
func NewSubject[T any]() *Subject[T] {
	return &Subject[T]{}
}

// Subscribe implements Stream.
func (s *Subject[T]) Subscribe(o Observer[T]) Subscription {
	return FuncStream[T](func(e Emitter[T]) func() {
		s.mu.Lock()
		if s.done {
			err := s.err
			s.mu.Unlock()
			if err != nil {
				e.Error(err)
			} else {
				e.Complete()
			}
			return nil
		}
		so := &subjectObserver[T]{emitter: e}
		s.observers = append(s.observers, so)
		s.mu.Unlock()

		return func() { s.remove(so) }
	}).Subscribe(o)
}

func (s *Subject[T]) remove(so *subjectObserver[T]) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, cur := range s.observers {
		if cur == so {
			s.observers = append(s.observers[:i], s.observers[i+1:]...)
			return
		}
	}
}

func (s *Subject[T]) snapshot() []*subjectObserver[T] {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.done {
		return nil
	}
	return append([]*subjectObserver[T](nil), s.observers...)
}

// Next delivers v to all current subscribers.
func (s *Subject[T]) Next(v T) {
	for _, so := range s.snapshot() {
		so.emitter.Next(v)
	}
}

// Error terminates the subject with err.
func (s *Subject[T]) Error(err error) {
	observers := s.terminate(err)
	for _, so := range observers {
		so.emitter.Error(err)
	}
}

// Complete terminates the subject successfully.
func (s *Subject[T]) Complete() {
	observers := s.terminate(nil)
	for _, so := range observers {
		so.emitter.Complete()
	}
}

func (s *Subject[T]) terminate(err error) []*subjectObserver[T] {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.done {
		return nil
	}
	s.done = true
	s.err = err
	observers := s.observers
	s.observers = nil
	return observers
}

// Observers returns the number of active subscribers.
func (s *Subject[T]) Observers() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.observers)
}
