// Package connect binds named streams into the props of a component.
//
// Connect takes a Spec, a map from prop name to a stream factory, and
// returns a function that wraps any vdom.Component:
//
//	counter := connect.Connect(connect.Spec{
//	    "count": connect.Stream(func(vdom.Props) stream.Stream[int] {
//	        return stream.StartWith(stream.Scan(actions, 0, reduce), 0)
//	    }),
//	})(view)
//
// The returned *Bound is itself a component. When a host mounts it, every
// factory is invoked once with the mount-time props and its stream is
// subscribed once. Each emission replaces the latest value for its name and
// asks the host for a re-render; the wrapped component then renders with the
// pass-through props merged with the latest values (latest values win).
// Names that have not emitted yet are absent from the props, so components
// read them with vdom.Get and a default.
//
// Disposing the mount's owner releases every subscription exactly once. No
// handler runs after release has begun, even if a source keeps emitting.
//
// Factories that fail are reported from Mount as E210 errors without
// preventing the other names from binding. A stream that delivers an error
// ends only its own binding; the error is reported to the host with
// reactive.Ctx.Fail as E211.
package connect
