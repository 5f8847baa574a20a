package deck

import (
	"strconv"
	"time"

	"github.com/vango-dev/connect/pkg/connect"
	"github.com/vango-dev/connect/pkg/stream"
	"github.com/vango-dev/connect/pkg/vdom"
)

// windowSize is the number of recent ticks WhatObservable shows.
const windowSize = 3

// WhatObservable shows the last three ticks of an interval as marbles,
// newest last. Slots not yet filled show "-".
func WhatObservable(sched stream.Scheduler, tick time.Duration) *connect.Bound {
	spec := connect.Spec{
		"marbles": connect.Stream(func(vdom.Props) stream.Stream[[]string] {
			return stream.Scan(stream.Interval(tick, sched), emptyWindow(), slide)
		}),
	}
	return connect.Connect(spec, connect.WithName("what_observable"))(vdom.Func(whatView))
}

func emptyWindow() []string {
	w := make([]string, windowSize)
	for i := range w {
		w[i] = "-"
	}
	return w
}

// slide returns a new window with n appended and the oldest entry dropped.
func slide(window []string, n int) []string {
	next := make([]string, 0, windowSize)
	next = append(next, window[1:]...)
	return append(next, strconv.Itoa(n))
}

func whatView(props vdom.Props) *vdom.VNode {
	marbles := vdom.Get(props, "marbles", emptyWindow())
	return vdom.Div(vdom.Class("demo", "what-observable"),
		vdom.H2(vdom.Text("What is an Observable?")),
		vdom.Ul(vdom.Class("marbles"),
			vdom.Range(marbles, func(m string, _ int) *vdom.VNode {
				return vdom.Li(vdom.Class("marble"), vdom.Text(m))
			}),
		),
	)
}
