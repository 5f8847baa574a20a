// Package vdom provides the virtual node tree that components render to.
//
// # Core Types
//
// VNode is the fundamental building block representing elements, text,
// fragments, components, and raw HTML. Props holds attributes and event
// handlers of elements, and the input values of components.
//
// # Element API
//
// Elements are created using variadic factory functions:
//
//	Div(Class("slide"),
//	    H1(Text("Title")),
//	    P(Textf("tick %d", n)),
//	    Button(OnClick(next), Text("next")),
//	)
//
// # Components
//
// A Component renders a tree from props. Components that need resources
// while they are on screen (subscriptions, timers) also implement Mounter;
// the host mounts them once and disposes the mount's Owner when they leave.
//
// Get and Merge are the usual way to read and combine props:
//
//	n := vdom.Get(props, "count", 0)
//	all := vdom.Merge(passThrough, latest)
package vdom
