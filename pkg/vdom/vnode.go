package vdom

import (
	"strings"

	"github.com/vango-dev/connect/pkg/reactive"
)

// VKind is the node type discriminator.
type VKind uint8

const (
	KindElement   VKind = iota // <div>, <button>, etc.
	KindText                   // Plain text node
	KindFragment               // Grouping without wrapper
	KindComponent              // Nested component
	KindRaw                    // Raw HTML (dangerous)
)

// String returns the string representation of the VKind.
func (k VKind) String() string {
	switch k {
	case KindElement:
		return "Element"
	case KindText:
		return "Text"
	case KindFragment:
		return "Fragment"
	case KindComponent:
		return "Component"
	case KindRaw:
		return "Raw"
	default:
		return "Unknown"
	}
}

// VNode is the virtual DOM node.
type VNode struct {
	Kind     VKind     // Node type
	Tag      string    // Element tag name (e.g., "div")
	Props    Props     // Attributes and event handlers; component props for KindComponent
	Children []*VNode  // Child nodes
	Key      string    // Reconciliation key
	Text     string    // For KindText and KindRaw
	Comp     Component // For KindComponent
	HID      string    // Hydration ID (assigned during render)
}

// IsInteractive returns true if this node has event handlers and needs a HID.
func (v *VNode) IsInteractive() bool {
	if v == nil || v.Kind != KindElement {
		return false
	}
	for key := range v.Props {
		if strings.HasPrefix(key, "on") {
			return true
		}
	}
	return false
}

// Attr represents a single attribute.
type Attr struct {
	Key   string
	Value any
}

// IsEmpty returns true if this is an empty/nil attribute.
func (a Attr) IsEmpty() bool {
	return a.Key == ""
}

// EventHandler represents an event handler.
type EventHandler struct {
	Event   string // "onclick", "oninput", etc.
	Handler any    // Function to call
}

// Component renders a tree from the props it is given.
// Render must be a pure function of props.
type Component interface {
	Render(props Props) *VNode
}

// FuncComponent wraps a render function.
type FuncComponent struct {
	render func(Props) *VNode
}

// Render implements Component.
func (f *FuncComponent) Render(props Props) *VNode {
	return f.render(props)
}

// Func creates a component from a render function.
func Func(render func(props Props) *VNode) Component {
	return &FuncComponent{render: render}
}

// Mounter is implemented by components that hold resources while mounted.
// The host calls Mount once with the mount-time props and renders the
// returned component for the lifetime of the mount. Resources acquired by
// Mount are registered on ctx.Owner() and released when the mount ends.
//
// A non-nil error reports a setup failure. The returned component is still
// used (it may render partial state) unless it is nil.
type Mounter interface {
	Component
	Mount(ctx reactive.Ctx, props Props) (Component, error)
}

// Comp embeds a component with the given props as a child node.
func Comp(c Component, props Props) *VNode {
	return &VNode{
		Kind:  KindComponent,
		Comp:  c,
		Props: props,
	}
}
