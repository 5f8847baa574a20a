package connect

import (
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/vango-dev/connect/internal/errors"
	"github.com/vango-dev/connect/pkg/reactive"
	"github.com/vango-dev/connect/pkg/stream"
	"github.com/vango-dev/connect/pkg/vdom"
)

// Factory builds the stream bound to one prop name. It receives the props the
// component was mounted with.
type Factory func(props vdom.Props) (stream.Stream[any], error)

// Spec maps prop names to stream factories.
type Spec map[string]Factory

// Stream adapts a typed stream constructor to a Factory.
func Stream[T any](fn func(props vdom.Props) stream.Stream[T]) Factory {
	return func(props vdom.Props) (stream.Stream[any], error) {
		src := fn(props)
		if src == nil {
			return nil, errors.New("E200").WithDetail("factory returned a nil stream")
		}
		return stream.Any(src), nil
	}
}

// Value is a Factory for a stream that emits v once.
func Value[T any](v T) Factory {
	return Stream(func(vdom.Props) stream.Stream[T] { return stream.Just(v) })
}

// Option configures a Bound component.
type Option func(*Bound)

// WithName sets the name used for the component in logs and metrics.
func WithName(name string) Option {
	return func(b *Bound) { b.name = name }
}

// WithErrorView sets the view rendered once a bound stream failed. Without
// it the host renders its default error view.
func WithErrorView(view func(err error) *vdom.VNode) Option {
	return func(b *Bound) { b.errorView = view }
}

// Bound is a component whose props are fed by the streams of a Spec.
// It is immutable and may be mounted any number of times; mounts share
// nothing.
type Bound struct {
	name      string
	spec      Spec
	names     []string
	inner     vdom.Component
	errorView func(err error) *vdom.VNode
}

// Connect returns a function that binds spec into a component.
func Connect(spec Spec, opts ...Option) func(vdom.Component) *Bound {
	spec = maps.Clone(spec)
	names := maps.Keys(spec)
	slices.Sort(names)

	return func(inner vdom.Component) *Bound {
		if inner == nil {
			panic(errors.New("E200").WithDetail("Connect called with a nil component"))
		}
		b := &Bound{
			name:  "connected",
			spec:  spec,
			names: names,
			inner: inner,
		}
		for _, opt := range opts {
			opt(b)
		}
		return b
	}
}

// Name returns the display name of the component.
func (b *Bound) Name() string {
	return b.name
}

// Names returns the bound prop names in binding order.
func (b *Bound) Names() []string {
	return slices.Clone(b.names)
}

// Render renders the wrapped component with pass-through props only. Hosts
// that do not mount components (static rendering) end up here.
func (b *Bound) Render(props vdom.Props) *vdom.VNode {
	return b.inner.Render(props)
}

// Mount starts a new binding: every factory is invoked once with props and
// its stream subscribed once, in name order. The returned component renders
// the latest values and must be rendered on ctx's loop.
//
// Setup failures are joined into the returned error, one E210 per name; the
// names that did bind stay active. All subscriptions are released when
// ctx.Owner() is disposed.
func (b *Bound) Mount(ctx reactive.Ctx, props vdom.Props) (vdom.Component, error) {
	m := newBinding(b, ctx)
	ctx.Owner().OnCleanup(m.release)
	return m, m.bindAll(props)
}

var _ vdom.Mounter = (*Bound)(nil)
