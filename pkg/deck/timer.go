package deck

import (
	"time"

	"github.com/vango-dev/connect/pkg/connect"
	"github.com/vango-dev/connect/pkg/stream"
	"github.com/vango-dev/connect/pkg/vdom"
)

// Timer counts ticks of tick, starting at 0.
func Timer(sched stream.Scheduler, tick time.Duration) *connect.Bound {
	spec := connect.Spec{
		"timer": connect.Stream(func(vdom.Props) stream.Stream[int] {
			return stream.StartWith(ticks(sched, tick), 0)
		}),
	}
	return connect.Connect(spec, connect.WithName("timer"))(vdom.Func(timerView))
}

func timerView(props vdom.Props) *vdom.VNode {
	return vdom.Div(vdom.Class("demo", "timer"),
		vdom.H2(vdom.Text("Timer")),
		vdom.P(vdom.Class("value"), vdom.Textf("%d", vdom.Get(props, "timer", 0))),
	)
}

// TimerPlus is a counter driven both by the user and by a timer that adds
// one every tick.
func TimerPlus(sched stream.Scheduler, tick time.Duration) *connect.Bound {
	spec := connect.Spec{
		"state": connect.Stream(func(vdom.Props) stream.Stream[counterState] {
			actions := stream.NewSubject[Action]()
			auto := stream.Map(ticks(sched, tick), func(int) Action { return Action{Type: Add} })
			return counterStates(actions, stream.Merge[Action](actions, auto))
		}),
	}
	return connect.Connect(spec, connect.WithName("timer_plus"))(vdom.Func(counterView("Timer+")))
}

// ticks emits 1, 2, 3... one per tick.
func ticks(sched stream.Scheduler, tick time.Duration) stream.Stream[int] {
	return stream.Map(stream.Interval(tick, sched), func(n int) int { return n + 1 })
}
