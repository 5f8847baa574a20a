package connect

import (
	"context"
	"io"
	"log/slog"

	"github.com/vango-dev/connect/pkg/reactive"
	"github.com/vango-dev/connect/pkg/stream"
	"github.com/vango-dev/connect/pkg/vdom"
)

// fakeCtx is a host stand-in that runs everything inline and records
// invalidations, failures and probe calls.
type fakeCtx struct {
	owner         *reactive.Owner
	invalidations int
	failures      []error

	subscribed map[string]int
	released   map[string]int
	emitted    map[string]int
	failed     map[string]int
}

func newFakeCtx() *fakeCtx {
	return &fakeCtx{
		owner:      reactive.NewOwner(nil),
		subscribed: map[string]int{},
		released:   map[string]int{},
		emitted:    map[string]int{},
		failed:     map[string]int{},
	}
}

func (c *fakeCtx) Dispatch(fn func())            { fn() }
func (c *fakeCtx) Invalidate()                   { c.invalidations++ }
func (c *fakeCtx) Fail(err error)                { c.failures = append(c.failures, err) }
func (c *fakeCtx) Owner() *reactive.Owner        { return c.owner }
func (c *fakeCtx) StdContext() context.Context   { return context.Background() }
func (c *fakeCtx) Logger() *slog.Logger          { return slog.New(slog.NewTextHandler(io.Discard, nil)) }
func (c *fakeCtx) BindingSubscribed(_, n string) { c.subscribed[n]++ }
func (c *fakeCtx) BindingReleased(_, n string)   { c.released[n]++ }
func (c *fakeCtx) BindingEmitted(_, n string)    { c.emitted[n]++ }
func (c *fakeCtx) BindingFailed(_, n string, _ bool) {
	c.failed[n]++
}

// unmount ends the mount the way a host does.
func (c *fakeCtx) unmount() {
	c.owner.Dispose()
}

// recorder is a wrapped component that remembers what it was rendered with.
type recorder struct {
	renders int
	last    vdom.Props
}

func (r *recorder) Render(props vdom.Props) *vdom.VNode {
	r.renders++
	r.last = props.Clone()
	return vdom.Div(vdom.Textf("%v", props))
}

// tracked wraps a stream and counts subscriptions and releases.
type tracked[T any] struct {
	src        stream.Stream[T]
	subscribes int
	releases   int
}

func track[T any](src stream.Stream[T]) *tracked[T] {
	return &tracked[T]{src: src}
}

func (t *tracked[T]) Subscribe(o stream.Observer[T]) stream.Subscription {
	t.subscribes++
	sub := t.src.Subscribe(o)
	return stream.NewSubscription(func() {
		t.releases++
		sub.Release()
	})
}

// rogue ignores release and keeps a handle on its observer, like a source
// that emits after teardown.
type rogue struct {
	observer stream.Observer[any]
}

func (r *rogue) Subscribe(o stream.Observer[any]) stream.Subscription {
	r.observer = o
	return stream.NewSubscription(nil)
}

func mount(t interface{ Fatalf(string, ...any) }, b *Bound, ctx *fakeCtx, props vdom.Props) Mounted {
	c, err := b.Mount(ctx, props)
	if err != nil {
		t.Fatalf("Mount: %v", err)
	}
	return c.(Mounted)
}
