package stream

//
// Sinks: helpers that run a stream and collect its output.
//

// ToSlice subscribes to a synchronous stream and returns every value it
// emitted before terminating. Values emitted later (by asynchronous sources)
// are not collected; the subscription is released before returning.
func ToSlice[T any](src Stream[T]) (items []T, err error) {
	items = make([]T, 0)
	sub := src.Subscribe(Observer[T]{
		Next:  func(item T) { items = append(items, item) },
		Error: func(e error) { err = e },
	})
	sub.Release()
	return
}

// Recorder is an Observer that records every notification. Intended for tests
// and diagnostics on a single goroutine.
type Recorder[T any] struct {
	Values    []T
	Err       error
	Completed bool
}

// Observer returns an Observer that appends to the recorder.
func (r *Recorder[T]) Observer() Observer[T] {
	return Observer[T]{
		Next:     func(v T) { r.Values = append(r.Values, v) },
		Error:    func(err error) { r.Err = err },
		Complete: func() { r.Completed = true },
	}
}
