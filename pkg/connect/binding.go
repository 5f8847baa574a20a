package connect

import (
	stderrors "errors"
	"sync/atomic"

	"github.com/vango-dev/connect/internal/errors"
	"github.com/vango-dev/connect/pkg/reactive"
	"github.com/vango-dev/connect/pkg/stream"
	"github.com/vango-dev/connect/pkg/vdom"
)

// Probe is implemented by hosts that record binding activity. Mount looks
// for it on the reactive.Ctx it is given.
type Probe interface {
	BindingSubscribed(component, name string)
	BindingReleased(component, name string)
	BindingEmitted(component, name string)
	BindingFailed(component, name string, setup bool)
}

// binding is the per-mount state of a Bound component. Stream handlers and
// Render run on the host loop; released may be read from anywhere.
type binding struct {
	bound *Bound
	ctx   reactive.Ctx
	probe Probe

	latest vdom.Props
	subs   map[string]stream.Subscription
	failed map[string]error

	// mounting suppresses invalidation for values emitted synchronously
	// while subscribing; the mount render picks them up.
	mounting bool
	released atomic.Bool
}

func newBinding(b *Bound, ctx reactive.Ctx) *binding {
	probe, _ := ctx.(Probe)
	return &binding{
		bound:  b,
		ctx:    ctx,
		probe:  probe,
		latest: make(vdom.Props, len(b.names)),
		subs:   make(map[string]stream.Subscription, len(b.names)),
		failed: make(map[string]error),
	}
}

func (m *binding) bindAll(props vdom.Props) error {
	m.mounting = true
	defer func() { m.mounting = false }()

	var errs []error
	for _, name := range m.bound.names {
		if m.released.Load() {
			break
		}
		if err := m.bind(name, props); err != nil {
			m.failed[name] = err
			m.ctx.Logger().Warn("stream binding failed",
				"component", m.bound.name,
				"binding", name,
				"err", err,
			)
			if m.probe != nil {
				m.probe.BindingFailed(m.bound.name, name, true)
			}
			errs = append(errs, err)
		}
	}
	return stderrors.Join(errs...)
}

// bind invokes the factory for name and subscribes to its stream. Panics in
// the factory or during subscribe are turned into setup errors.
func (m *binding) bind(name string, props vdom.Props) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.New("E210").WithDetailf("binding %q panicked: %v", name, r)
		}
	}()

	factory := m.bound.spec[name]
	if name == "" || factory == nil {
		return errors.New("E200").WithDetailf("binding %q has no factory", name)
	}

	src, ferr := factory(props)
	if ferr == nil && src == nil {
		ferr = stderrors.New("factory returned a nil stream")
	}
	if ferr != nil {
		return errors.New("E210").WithDetailf("binding %q: %v", name, ferr).Wrap(ferr)
	}

	sub := src.Subscribe(stream.Observer[any]{
		Next:     func(v any) { m.next(name, v) },
		Error:    func(err error) { m.fail(name, err) },
		Complete: func() { m.complete(name) },
	})
	if m.released.Load() {
		sub.Release()
		return nil
	}
	m.subs[name] = sub
	if m.probe != nil {
		m.probe.BindingSubscribed(m.bound.name, name)
	}
	m.ctx.Logger().Debug("stream bound", "component", m.bound.name, "binding", name)
	return nil
}

func (m *binding) next(name string, v any) {
	if m.released.Load() {
		return
	}
	m.latest[name] = v
	if m.probe != nil {
		m.probe.BindingEmitted(m.bound.name, name)
	}
	if !m.mounting {
		m.ctx.Invalidate()
	}
}

// fail ends the binding for name and reports the error to the host.
// The last value stays in place.
func (m *binding) fail(name string, err error) {
	if m.released.Load() {
		return
	}
	ce := errors.New("E211").WithDetailf("binding %q: %v", name, err).Wrap(err)
	m.failed[name] = ce
	if sub, ok := m.subs[name]; ok {
		sub.Release()
	}
	if m.probe != nil {
		m.probe.BindingFailed(m.bound.name, name, false)
	}
	m.ctx.Fail(ce)
}

func (m *binding) complete(name string) {
	if m.released.Load() {
		return
	}
	m.ctx.Logger().Debug("stream completed", "component", m.bound.name, "binding", name)
}

// release releases every subscription once. Registered on the mount owner.
func (m *binding) release() {
	if m.released.Swap(true) {
		return
	}
	for _, name := range m.bound.names {
		sub, ok := m.subs[name]
		if !ok {
			continue
		}
		sub.Release()
		if m.probe != nil {
			m.probe.BindingReleased(m.bound.name, name)
		}
	}
	m.subs = nil
	m.latest = vdom.Props{}
}

// Render renders the wrapped component with props merged with the latest
// stream values.
func (m *binding) Render(props vdom.Props) *vdom.VNode {
	return m.bound.inner.Render(vdom.Merge(props, m.latest))
}

// RenderError renders the error view configured with WithErrorView, or nil.
func (m *binding) RenderError(err error) *vdom.VNode {
	if m.bound.errorView == nil {
		return nil
	}
	return m.bound.errorView(err)
}

// Name returns the display name of the bound component.
func (m *binding) Name() string {
	return m.bound.name
}

// Latest returns a copy of the latest value of every name that emitted.
func (m *binding) Latest() vdom.Props {
	return m.latest.Clone()
}

// Err returns the errors of the failed names joined, or nil.
func (m *binding) Err() error {
	var errs []error
	for _, name := range m.bound.names {
		if err := m.failed[name]; err != nil {
			errs = append(errs, err)
		}
	}
	return stderrors.Join(errs...)
}

// Active returns the number of subscriptions that have not terminated.
func (m *binding) Active() int {
	n := 0
	for _, sub := range m.subs {
		if !sub.Released() {
			n++
		}
	}
	return n
}

// Mounted is the component returned by Bound.Mount.
type Mounted interface {
	vdom.Component
	Latest() vdom.Props
	Err() error
	Active() int
}

var _ Mounted = (*binding)(nil)
