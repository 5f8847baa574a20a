package reactive

import (
	"sync"
	"testing"
)

func TestOwnerBasic(t *testing.T) {
	owner := NewOwner(nil)

	if owner.ID() == 0 {
		t.Error("owner should have non-zero ID")
	}
	if owner.Parent() != nil {
		t.Error("root owner should have nil parent")
	}
	if owner.IsDisposed() {
		t.Error("new owner should not be disposed")
	}
}

func TestOwnerHierarchy(t *testing.T) {
	root := NewOwner(nil)
	child1 := NewOwner(root)
	child2 := NewOwner(root)
	grandchild := NewOwner(child1)

	if child1.Parent() != root || child2.Parent() != root {
		t.Error("children should have root as parent")
	}
	if grandchild.Parent() != child1 {
		t.Error("grandchild parent should be child1")
	}
	if got := len(root.Children()); got != 2 {
		t.Errorf("len(root.Children()) = %d, want 2", got)
	}
}

func TestOwnerDisposeOrder(t *testing.T) {
	root := NewOwner(nil)
	child1 := NewOwner(root)
	child2 := NewOwner(root)
	grandchild := NewOwner(child1)

	var order []string
	var mu sync.Mutex
	record := func(name string) Cleanup {
		return func() {
			mu.Lock()
			order = append(order, name)
			mu.Unlock()
		}
	}

	grandchild.OnCleanup(record("grandchild"))
	child1.OnCleanup(record("child1"))
	child2.OnCleanup(record("child2"))
	root.OnCleanup(record("root-a"))
	root.OnCleanup(record("root-b"))

	root.Dispose()

	want := []string{"child2", "grandchild", "child1", "root-b", "root-a"}
	if len(order) != len(want) {
		t.Fatalf("order = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("order[%d] = %s, want %s", i, order[i], want[i])
		}
	}
	for _, o := range []*Owner{root, child1, child2, grandchild} {
		if !o.IsDisposed() {
			t.Errorf("owner %d should be disposed", o.ID())
		}
	}
}

func TestOwnerDisposeIdempotent(t *testing.T) {
	owner := NewOwner(nil)
	calls := 0
	owner.OnCleanup(func() { calls++ })

	owner.Dispose()
	owner.Dispose()

	if calls != 1 {
		t.Errorf("cleanup calls = %d, want 1", calls)
	}
	if owner.PendingCleanups() != 0 {
		t.Errorf("PendingCleanups() = %d, want 0", owner.PendingCleanups())
	}
}

func TestOwnerCleanupAfterDispose(t *testing.T) {
	owner := NewOwner(nil)
	owner.Dispose()

	ran := false
	owner.OnCleanup(func() { ran = true })
	if !ran {
		t.Error("cleanup registered after Dispose should run immediately")
	}
	owner.OnCleanup(nil)
}

func TestOwnerDisposeDetachesFromParent(t *testing.T) {
	root := NewOwner(nil)
	child := NewOwner(root)
	child.Dispose()

	if len(root.Children()) != 0 {
		t.Error("disposed child should be removed from parent")
	}
	if root.IsDisposed() {
		t.Error("disposing a child must not dispose the parent")
	}
}

type countingListener struct {
	id    uint64
	dirty int
}

func (c *countingListener) MarkDirty() { c.dirty++ }
func (c *countingListener) ID() uint64 { return c.id }

func TestBatcherDeduplicates(t *testing.T) {
	var b Batcher
	a := &countingListener{id: NextID()}
	c := &countingListener{id: NextID()}

	b.Batch(func() {
		b.Notify(a)
		b.Notify(c)
		b.Notify(a)
		if a.dirty != 0 {
			t.Error("notification should be deferred inside a batch")
		}
		if !b.InBatch() {
			t.Error("InBatch() = false inside Batch")
		}
	})

	if a.dirty != 1 || c.dirty != 1 {
		t.Errorf("dirty counts = %d, %d, want 1, 1", a.dirty, c.dirty)
	}
	if b.InBatch() {
		t.Error("InBatch() = true after Batch")
	}
}

func TestBatcherNested(t *testing.T) {
	var b Batcher
	a := &countingListener{id: NextID()}

	b.Batch(func() {
		b.Batch(func() {
			b.Notify(a)
		})
		if a.dirty != 0 {
			t.Error("inner batch must not flush")
		}
		b.Notify(a)
	})

	if a.dirty != 1 {
		t.Errorf("dirty = %d, want 1", a.dirty)
	}
}

func TestBatcherOutsideBatch(t *testing.T) {
	var b Batcher
	a := &countingListener{id: NextID()}
	b.Notify(a)
	b.Notify(a)
	if a.dirty != 2 {
		t.Errorf("dirty = %d, want 2", a.dirty)
	}
}

func TestBatcherFlushesOnPanic(t *testing.T) {
	var b Batcher
	a := &countingListener{id: NextID()}

	func() {
		defer func() { _ = recover() }()
		b.Batch(func() {
			b.Notify(a)
			panic("boom")
		})
	}()

	if a.dirty != 1 {
		t.Errorf("dirty = %d, want 1", a.dirty)
	}
	if b.InBatch() {
		t.Error("batch depth should be restored after panic")
	}
}
