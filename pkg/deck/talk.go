package deck

import (
	"time"

	"github.com/vango-dev/connect/pkg/assets"
	"github.com/vango-dev/connect/pkg/stream"
	"github.com/vango-dev/connect/pkg/vdom"
)

// TalkConfig configures Talk.
type TalkConfig struct {
	// Tick is the interval of the timer demos. Default: one second.
	Tick time.Duration

	// Store and Resolver enable slide images. Images are only shown when
	// Store is set.
	Store    assets.Store
	Resolver *assets.Resolver

	// Logo is the image on the title and closing slides.
	Logo string
}

// Demos maps demo names to constructors, for hosts that run a single demo.
var Demos = map[string]func(sched stream.Scheduler, tick time.Duration) vdom.Component{
	"timer":           func(s stream.Scheduler, t time.Duration) vdom.Component { return Timer(s, t) },
	"timer-plus":      func(s stream.Scheduler, t time.Duration) vdom.Component { return TimerPlus(s, t) },
	"what-observable": func(s stream.Scheduler, t time.Duration) vdom.Component { return WhatObservable(s, t) },
	"counter":         func(stream.Scheduler, time.Duration) vdom.Component { return Counter() },
}

// Talk builds the presentation about binding streams into components.
func Talk(sched stream.Scheduler, cfg TalkConfig) *Presentation {
	if cfg.Tick <= 0 {
		cfg.Tick = time.Second
	}
	logo := ""
	if cfg.Store != nil {
		logo = cfg.Logo
	}

	slides := []Slide{
		{
			Title: "Connecting streams to components",
			Bullets: []string{
				"A component is a function of its props",
				"A stream is a value that changes over time",
				"Bind one to the other and the view follows the data",
			},
			Image: logo,
		},
		{
			Title:   "What is an Observable?",
			Bullets: []string{"A push-based sequence: values, then maybe an error or completion"},
			Demo:    WhatObservable(sched, cfg.Tick),
		},
		{
			Title:   "Binding a timer",
			Bullets: []string{`connect.Spec{"timer": interval.StartWith(0)}`},
			Demo:    Timer(sched, cfg.Tick),
		},
		{
			Title:   "Actions are streams too",
			Bullets: []string{"Clicks go into a subject", "Scan folds actions into state"},
			Demo:    Counter(),
		},
		{
			Title:   "Merging sources",
			Bullets: []string{"User actions merged with a timer", "Same reducer, two producers"},
			Demo:    TimerPlus(sched, cfg.Tick),
		},
		{
			Title: "Unmount releases everything",
			Bullets: []string{
				"Every subscription is released exactly once",
				"Late values after unmount are ignored",
			},
			Image: logo,
		},
	}

	var opts []PresentationOption
	if cfg.Store != nil {
		resolver := cfg.Resolver
		if resolver == nil {
			resolver = assets.NewResolver("/assets/")
		}
		opts = append(opts, WithAssets(cfg.Store, resolver))
	}
	return NewPresentation(sched, slides, opts...)
}
