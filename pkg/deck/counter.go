package deck

import (
	"github.com/vango-dev/connect/pkg/connect"
	"github.com/vango-dev/connect/pkg/stream"
	"github.com/vango-dev/connect/pkg/vdom"
)

// counterState is the "state" prop of counters: the count and the dispatch
// that changes it.
type counterState struct {
	Count    int
	Dispatch Dispatch
}

// Counter is a counter driven by its buttons. Each mount gets its own
// subject; its actions are scanned into the count.
func Counter() *connect.Bound {
	spec := connect.Spec{
		"state": connect.Stream(func(vdom.Props) stream.Stream[counterState] {
			actions := stream.NewSubject[Action]()
			return counterStates(actions, actions)
		}),
	}
	return connect.Connect(spec, connect.WithName("counter"))(vdom.Func(counterView("Counter")))
}

// counterStates folds actions into counts, starting at 0, paired with a
// dispatch that feeds subj.
func counterStates(subj *stream.Subject[Action], actions stream.Stream[Action]) stream.Stream[counterState] {
	dispatch := Dispatch(subj.Next)
	counts := stream.StartWith(stream.Scan(actions, 0, reduce), 0)
	return stream.Map(counts, func(n int) counterState {
		return counterState{Count: n, Dispatch: dispatch}
	})
}

// counterView renders a count with buttons that dispatch actions. Before
// the first state arrives the buttons are disabled.
func counterView(title string) func(vdom.Props) *vdom.VNode {
	return func(props vdom.Props) *vdom.VNode {
		state, _ := vdom.Lookup[counterState](props, "state")
		dispatch, live := state.Dispatch, state.Dispatch != nil
		button := func(label, action string) *vdom.VNode {
			if !live {
				return vdom.Button(vdom.Disabled(), vdom.Text(label))
			}
			return vdom.Button(
				vdom.OnClick(func() { dispatch(Action{Type: action}) }),
				vdom.Text(label),
			)
		}
		return vdom.Div(vdom.Class("demo", "counter"),
			vdom.H2(vdom.Text(title)),
			vdom.P(vdom.Class("value"), vdom.Textf("%d", state.Count)),
			vdom.Div(vdom.Class("controls"),
				button("-", Subtract),
				button("+", Add),
				button("reset", Reset),
			),
		)
	}
}
