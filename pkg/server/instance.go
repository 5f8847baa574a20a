package server

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync/atomic"

	cerrors "github.com/vango-dev/connect/internal/errors"
	"github.com/vango-dev/connect/pkg/connect"
	"github.com/vango-dev/connect/pkg/reactive"
	"github.com/vango-dev/connect/pkg/vdom"
)

// ComponentInstance is a component mounted in a Session. It is the
// reactive.Ctx handed to components that implement vdom.Mounter, and the
// error boundary for everything it renders.
type ComponentInstance struct {
	// InstanceID is the unique instance identifier.
	InstanceID string

	// Name is the component's display name, used in logs and metrics.
	Name string

	// Component is the component that was mounted.
	Component vdom.Component

	// Props are the props passed to Mount.
	Props vdom.Props

	id      uint64
	session *Session
	owner   *reactive.Owner
	logger  *slog.Logger

	// target is what gets rendered: the component returned by Mount, or
	// Component itself when it does not implement vdom.Mounter.
	target vdom.Component

	dirty    atomic.Bool
	lastTree *vdom.VNode
	err      error
	setupErr error

	ctx    context.Context
	cancel context.CancelFunc
}

var (
	_ reactive.Ctx      = (*ComponentInstance)(nil)
	_ reactive.Listener = (*ComponentInstance)(nil)
	_ connect.Probe     = (*ComponentInstance)(nil)
)

var instanceIDCounter atomic.Uint64

func generateInstanceID() string {
	return fmt.Sprintf("c%d", instanceIDCounter.Add(1))
}

func newComponentInstance(component vdom.Component, props vdom.Props, s *Session) *ComponentInstance {
	id := generateInstanceID()
	name := componentName(component)
	ctx, cancel := context.WithCancel(s.ctx)

	c := &ComponentInstance{
		InstanceID: id,
		Name:       name,
		Component:  component,
		Props:      props.Clone(),
		owner:      reactive.NewOwner(s.owner),
		id:         reactive.NextID(),
		session:    s,
		logger:     s.logger.With("component", name, "instance", id),
		target:     component,
		ctx:        ctx,
		cancel:     cancel,
	}
	c.owner.OnCleanup(reactive.Cleanup(cancel))
	return c
}

func componentName(component vdom.Component) string {
	if n, ok := component.(interface{ Name() string }); ok && n.Name() != "" {
		return n.Name()
	}
	return fmt.Sprintf("%T", component)
}

// mount runs the component's Mount, if it has one.
func (c *ComponentInstance) mount() (err error) {
	m, ok := c.Component.(vdom.Mounter)
	if !ok {
		return nil
	}
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("mount panic", "panic", r, "stack", string(debug.Stack()))
			err = cerrors.New("E210").WithDetailf("mount panicked: %v", r)
		}
	}()

	mounted, err := m.Mount(c, c.Props.Clone())
	if mounted != nil {
		c.target = mounted
	}
	c.setupErr = err
	return err
}

// Dispatch queues fn on the session loop. fn is dropped once the instance
// is unmounted.
func (c *ComponentInstance) Dispatch(fn func()) {
	c.session.Dispatch(func() {
		if c.owner.IsDisposed() {
			return
		}
		fn()
	})
}

// Invalidate schedules a re-render of the instance.
func (c *ComponentInstance) Invalidate() {
	if c.owner.IsDisposed() {
		return
	}
	c.session.batcher.Notify(c)
}

// Fail switches the instance to its error state. The first error wins;
// later ones are only logged.
func (c *ComponentInstance) Fail(err error) {
	if err == nil || c.owner.IsDisposed() {
		return
	}
	c.logger.Error("component failed", "err", err)
	if c.err != nil {
		return
	}
	c.err = err
	c.Invalidate()
}

// Owner returns the cleanup scope of the mount. Disposing it unmounts.
func (c *ComponentInstance) Owner() *reactive.Owner {
	return c.owner
}

// Logger returns the instance logger.
func (c *ComponentInstance) Logger() *slog.Logger {
	return c.logger
}

// StdContext returns a context cancelled on unmount or session close.
func (c *ComponentInstance) StdContext() context.Context {
	return c.ctx
}

// MarkDirty implements reactive.Listener.
func (c *ComponentInstance) MarkDirty() {
	c.dirty.Store(true)
	c.session.scheduleRender()
}

// ID implements reactive.Listener.
func (c *ComponentInstance) ID() uint64 {
	return c.id
}

// IsDirty reports whether the instance needs to be re-rendered.
func (c *ComponentInstance) IsDirty() bool {
	return c.dirty.Load()
}

// Err returns the error that put the instance into its error state, or nil.
func (c *ComponentInstance) Err() error {
	return c.err
}

// SetupErr returns the error returned by the component's Mount, or nil.
func (c *ComponentInstance) SetupErr() error {
	return c.setupErr
}

// Mounted returns the component rendered for this instance.
func (c *ComponentInstance) Mounted() vdom.Component {
	return c.target
}

// Tree returns the last rendered tree.
func (c *ComponentInstance) Tree() *vdom.VNode {
	return c.lastTree
}

// render renders the instance and clears its dirty flag. A panic in Render
// puts the instance into its error state.
func (c *ComponentInstance) render() *vdom.VNode {
	c.dirty.Store(false)
	tree := c.safeRender()
	c.lastTree = tree
	return tree
}

func (c *ComponentInstance) safeRender() (tree *vdom.VNode) {
	if c.err != nil {
		return c.errorView()
	}
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("render panic", "panic", r, "stack", string(debug.Stack()))
			c.session.metrics.renderFailed(c.Name)
			c.err = cerrors.New("E212").WithDetailf("%s: %v", c.Name, r)
			tree = c.errorView()
		}
	}()
	tree = c.target.Render(c.Props)
	c.session.metrics.rendered(c.Name)
	return tree
}

func (c *ComponentInstance) errorView() *vdom.VNode {
	if er, ok := c.target.(ErrorRenderer); ok {
		if view := er.RenderError(c.err); view != nil {
			return view
		}
	}
	return DefaultErrorView(c.err)
}

// dispose unmounts the instance. Safe to call more than once.
func (c *ComponentInstance) dispose() bool {
	if c.owner.IsDisposed() {
		return false
	}
	c.owner.Dispose()
	return true
}

// BindingSubscribed records a new stream subscription.
func (c *ComponentInstance) BindingSubscribed(component, name string) {
	c.session.metrics.subscribed(component)
}

// BindingReleased records a released stream subscription.
func (c *ComponentInstance) BindingReleased(component, name string) {
	c.session.metrics.released(component)
}

// BindingEmitted records a value delivered to a binding.
func (c *ComponentInstance) BindingEmitted(component, name string) {
	c.session.metrics.emitted(component, name)
}

// BindingFailed records a setup or emission failure.
func (c *ComponentInstance) BindingFailed(component, name string, setup bool) {
	c.session.metrics.bindingFailed(component, setup)
}
