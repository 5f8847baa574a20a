package deck

import (
	"context"
	stderrors "errors"
	"strconv"

	"github.com/vango-dev/connect/pkg/assets"
	"github.com/vango-dev/connect/pkg/connect"
	"github.com/vango-dev/connect/pkg/reactive"
	"github.com/vango-dev/connect/pkg/stream"
	"github.com/vango-dev/connect/pkg/vdom"
)

// Slide is one page of a presentation.
type Slide struct {
	Title   string
	Bullets []string

	// Image is an asset name shown below the bullets.
	Image string

	// Demo is a live component shown on the slide. Demos that implement
	// vdom.Mounter are mounted with the presentation.
	Demo vdom.Component
}

// Nav is a navigation action.
type Nav int

const (
	Prev Nav = iota
	Next
	First
	Last
)

// step moves index by nav within [0, n).
func step(n int) func(int, Nav) int {
	return func(index int, nav Nav) int {
		switch nav {
		case Prev:
			index--
		case Next:
			index++
		case First:
			index = 0
		case Last:
			index = n - 1
		}
		return max(0, min(index, n-1))
	}
}

// PresentationOption configures a Presentation.
type PresentationOption func(*Presentation)

// WithAssets preloads every slide image from store and resolves image URLs
// with resolver.
func WithAssets(store assets.Store, resolver *assets.Resolver) PresentationOption {
	return func(p *Presentation) {
		p.store = store
		p.resolver = resolver
	}
}

// Presentation shows one slide at a time. The current slide is itself a
// bound stream: navigation buttons push Nav actions into a subject that is
// scanned into the slide index.
type Presentation struct {
	slides   []Slide
	nav      *stream.Subject[Nav]
	bound    *connect.Bound
	store    assets.Store
	resolver *assets.Resolver
}

// NewPresentation creates a presentation of slides. sched is the scheduler
// of the session it is mounted on.
func NewPresentation(sched stream.Scheduler, slides []Slide, opts ...PresentationOption) *Presentation {
	p := &Presentation{
		slides:   slides,
		nav:      stream.NewSubject[Nav](),
		resolver: assets.NewResolver("/assets/"),
	}
	for _, opt := range opts {
		opt(p)
	}

	spec := connect.Spec{
		"slide": connect.Stream(func(vdom.Props) stream.Stream[int] {
			return stream.StartWith(stream.Scan[Nav](p.nav, 0, step(len(p.slides))), 0)
		}),
	}
	if p.store != nil {
		images := p.images()
		spec["preload"] = connect.Stream(func(vdom.Props) stream.Stream[assets.Progress] {
			return assets.Preload(context.Background(), p.store, images, sched)
		})
	}
	p.bound = connect.Connect(spec, connect.WithName("presentation"))(vdom.Func(p.view))
	return p
}

// Go sends a navigation action.
func (p *Presentation) Go(nav Nav) {
	p.nav.Next(nav)
}

// Slides returns the number of slides.
func (p *Presentation) Slides() int {
	return len(p.slides)
}

func (p *Presentation) images() []string {
	var names []string
	for _, s := range p.slides {
		if s.Image != "" {
			names = append(names, s.Image)
		}
	}
	return names
}

// Name returns the component name.
func (p *Presentation) Name() string {
	return p.bound.Name()
}

// Render renders the first slide with unmounted demos.
func (p *Presentation) Render(props vdom.Props) *vdom.VNode {
	return p.bound.Render(props)
}

// Mount mounts the slide index binding and every demo. Demo setup errors
// are joined with the presentation's own; a demo whose stream fails later
// shows its own error view while the rest of the deck keeps running.
func (p *Presentation) Mount(ctx reactive.Ctx, props vdom.Props) (vdom.Component, error) {
	var errs []error
	demos := make([]vdom.Component, len(p.slides))
	for i, s := range p.slides {
		demos[i] = s.Demo
		m, ok := s.Demo.(vdom.Mounter)
		if !ok {
			continue
		}
		dctx := newDemoCtx(ctx)
		c, err := m.Mount(dctx, vdom.Props{})
		if c != nil {
			demos[i] = &demoBoundary{ctx: dctx, demo: c}
		}
		if err != nil {
			errs = append(errs, err)
		}
	}

	nav, err := p.bound.Mount(ctx, props)
	if err != nil {
		errs = append(errs, err)
	}
	return &mountedPresentation{nav: nav, demos: demos}, stderrors.Join(errs...)
}

var _ vdom.Mounter = (*Presentation)(nil)

type mountedPresentation struct {
	nav   vdom.Component
	demos []vdom.Component
}

func (m *mountedPresentation) Render(props vdom.Props) *vdom.VNode {
	return m.nav.Render(vdom.Merge(props, vdom.Props{"demos": m.demos}))
}

func (m *mountedPresentation) RenderError(err error) *vdom.VNode {
	if er, ok := m.nav.(interface{ RenderError(error) *vdom.VNode }); ok {
		return er.RenderError(err)
	}
	return nil
}

func (p *Presentation) view(props vdom.Props) *vdom.VNode {
	if len(p.slides) == 0 {
		return vdom.Section(vdom.Class("slide", "empty"), vdom.Text("No slides"))
	}
	index := vdom.Get(props, "slide", 0)
	s := p.slides[index]

	var demo *vdom.VNode
	if demos := vdom.Get[[]vdom.Component](props, "demos", nil); index < len(demos) && demos[index] != nil {
		demo = vdom.Comp(demos[index], nil)
	} else if s.Demo != nil {
		demo = vdom.Comp(s.Demo, nil)
	}

	return vdom.Main(vdom.Class("deck"),
		vdom.Section(vdom.Class("slide"), vdom.Data("index", strconv.Itoa(index)),
			vdom.H1(vdom.Text(s.Title)),
			vdom.If(len(s.Bullets) > 0, vdom.Ul(vdom.Range(s.Bullets, func(b string, _ int) *vdom.VNode {
				return vdom.Li(vdom.Text(b))
			}))),
			vdom.If(s.Image != "", vdom.Img(vdom.Src(p.resolver.URL(s.Image)), vdom.Alt(s.Title))),
			demo,
		),
		p.navBar(index),
		preloadStatus(props),
	)
}

func (p *Presentation) navBar(index int) *vdom.VNode {
	button := func(label string, nav Nav, disabled bool) *vdom.VNode {
		if disabled {
			return vdom.Button(vdom.Disabled(), vdom.AriaLabel(label), vdom.Text(label))
		}
		return vdom.Button(vdom.AriaLabel(label), vdom.OnClick(func() { p.Go(nav) }), vdom.Text(label))
	}
	last := len(p.slides) - 1
	return vdom.Nav(vdom.Class("deck-nav"),
		button("first", First, index == 0),
		button("prev", Prev, index == 0),
		vdom.Span(vdom.Class("position"), vdom.Textf("%d / %d", index+1, len(p.slides))),
		button("next", Next, index == last),
		button("last", Last, index == last),
	)
}

func preloadStatus(props vdom.Props) *vdom.VNode {
	progress, ok := vdom.Lookup[assets.Progress](props, "preload")
	if !ok || progress.Done() && len(progress.Failed) == 0 {
		return nil
	}
	if progress.Done() {
		return vdom.Footer(vdom.Class("preload", "failed"),
			vdom.Textf("%d image(s) failed to load", len(progress.Failed)))
	}
	return vdom.Footer(vdom.Class("preload"),
		vdom.Textf("loading images %d/%d", progress.Loaded+len(progress.Failed), progress.Total))
}
