package deck

import (
	stderrors "errors"

	"github.com/vango-dev/connect/internal/errors"
	"github.com/vango-dev/connect/pkg/connect"
	"github.com/vango-dev/connect/pkg/reactive"
	"github.com/vango-dev/connect/pkg/vdom"
)

// demoCtx is the reactive.Ctx of one demo on a slide. It runs on the
// presentation's loop but has its own owner and error state, so a failing
// demo only replaces itself.
type demoCtx struct {
	reactive.Ctx
	owner *reactive.Owner
	err   error
}

var (
	_ reactive.Ctx  = (*demoCtx)(nil)
	_ connect.Probe = (*demoCtx)(nil)
)

func newDemoCtx(parent reactive.Ctx) *demoCtx {
	return &demoCtx{Ctx: parent, owner: reactive.NewOwner(parent.Owner())}
}

func (d *demoCtx) Owner() *reactive.Owner {
	return d.owner
}

// Fail keeps the first error and re-renders the presentation.
func (d *demoCtx) Fail(err error) {
	if err == nil || d.owner.IsDisposed() {
		return
	}
	d.Logger().Error("demo failed", "err", err)
	if d.err != nil {
		return
	}
	d.err = err
	d.Ctx.Invalidate()
}

func (d *demoCtx) probe() connect.Probe {
	p, _ := d.Ctx.(connect.Probe)
	return p
}

func (d *demoCtx) BindingSubscribed(component, name string) {
	if p := d.probe(); p != nil {
		p.BindingSubscribed(component, name)
	}
}

func (d *demoCtx) BindingReleased(component, name string) {
	if p := d.probe(); p != nil {
		p.BindingReleased(component, name)
	}
}

func (d *demoCtx) BindingEmitted(component, name string) {
	if p := d.probe(); p != nil {
		p.BindingEmitted(component, name)
	}
}

func (d *demoCtx) BindingFailed(component, name string, setup bool) {
	if p := d.probe(); p != nil {
		p.BindingFailed(component, name, setup)
	}
}

// demoBoundary renders a mounted demo, or its error view once it failed.
type demoBoundary struct {
	ctx  *demoCtx
	demo vdom.Component
}

func (b *demoBoundary) Render(props vdom.Props) *vdom.VNode {
	if b.ctx.err == nil {
		return b.demo.Render(props)
	}
	if er, ok := b.demo.(interface{ RenderError(error) *vdom.VNode }); ok {
		if view := er.RenderError(b.ctx.err); view != nil {
			return view
		}
	}
	return demoErrorView(b.ctx.err)
}

func demoErrorView(err error) *vdom.VNode {
	code := "error"
	var ce *errors.CodedError
	if stderrors.As(err, &ce) && ce.Code != "" {
		code = ce.Code
	}
	return vdom.Div(vdom.Class("demo", "demo-error"), vdom.Data("code", code),
		vdom.P(vdom.Text("This demo stopped: "+err.Error())),
	)
}
