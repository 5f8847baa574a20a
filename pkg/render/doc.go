// Package render provides server-side rendering of vdom trees to HTML.
//
// To render a VNode tree to a string:
//
//	renderer := render.NewRenderer(render.RendererConfig{})
//	html, err := renderer.RenderToString(node)
//
// Interactive elements (those with on* handlers) receive a data-hid
// attribute. The handlers are collected during rendering and can be looked
// up with Handler(hid, event) when the client reports an event.
//
// RenderPage wraps a tree in a complete document. When PageData.LiveURL is
// set, the page carries ClientScript, which keeps the page in sync with a
// live session over a WebSocket.
//
// All text content is escaped. Raw HTML can be inserted using KindRaw nodes,
// but should only be used with trusted content.
package render
