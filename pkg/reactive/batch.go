package reactive

// Batcher groups listener notifications into a single notification phase.
// All notifications raised inside Batch are collected, deduplicated by
// listener ID, and delivered once when the outermost batch completes.
//
// A Batcher belongs to one event loop and is not safe for concurrent use.
type Batcher struct {
	depth   int
	pending []Listener
}

// Batch runs fn with notifications deferred until fn returns.
// Batches can be nested. Notifications only fire when the outermost batch completes.
//
// Example:
//
//	b.Batch(func() {
//	    b.Notify(instance)
//	    b.Notify(instance)
//	})
//	// instance.MarkDirty called once
func (b *Batcher) Batch(fn func()) {
	b.depth++
	defer func() {
		b.depth--
		if b.depth == 0 {
			b.flush()
		}
	}()
	fn()
}

// Notify marks l dirty, or queues it when a batch is in progress.
func (b *Batcher) Notify(l Listener) {
	if b.depth > 0 {
		b.pending = append(b.pending, l)
		return
	}
	l.MarkDirty()
}

// InBatch reports whether a batch is currently open.
func (b *Batcher) InBatch() bool {
	return b.depth > 0
}

// flush deduplicates and notifies all pending listeners.
func (b *Batcher) flush() {
	updates := b.pending
	b.pending = nil
	if len(updates) == 0 {
		return
	}

	seen := make(map[uint64]bool, len(updates))
	for _, listener := range updates {
		id := listener.ID()
		if seen[id] {
			continue
		}
		seen[id] = true
		listener.MarkDirty()
	}
}
