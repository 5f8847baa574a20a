package vdom

import (
	"testing"
)

func TestVKindString(t *testing.T) {
	tests := []struct {
		kind VKind
		want string
	}{
		{KindElement, "Element"},
		{KindText, "Text"},
		{KindFragment, "Fragment"},
		{KindComponent, "Component"},
		{KindRaw, "Raw"},
		{VKind(99), "Unknown"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("VKind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

func TestCreateElement(t *testing.T) {
	handler := func() {}
	node := Div(
		Class("card", "active"),
		nil,
		Key(7),
		[]Attr{ID("main"), {}},
		H1(Text("Title")),
		[]*VNode{P(), nil},
		"plain",
		OnClick(handler),
	)

	if node.Kind != KindElement || node.Tag != "div" {
		t.Fatalf("node = %v %q, want Element div", node.Kind, node.Tag)
	}
	if got := node.Props["class"]; got != "card active" {
		t.Errorf("class = %v, want %q", got, "card active")
	}
	if got := node.Props["id"]; got != "main" {
		t.Errorf("id = %v, want main", got)
	}
	if node.Key != "7" {
		t.Errorf("Key = %q, want 7", node.Key)
	}
	if len(node.Children) != 3 {
		t.Fatalf("len(Children) = %d, want 3", len(node.Children))
	}
	if node.Children[2].Kind != KindText || node.Children[2].Text != "plain" {
		t.Errorf("string child = %+v, want text node", node.Children[2])
	}
	if _, ok := node.Props["onclick"]; !ok {
		t.Error("onclick handler not stored in props")
	}
	if !node.IsInteractive() {
		t.Error("IsInteractive() = false, want true")
	}
}

func TestEmbeddedComponent(t *testing.T) {
	c := Func(func(p Props) *VNode { return Text(Get(p, "label", "none")) })
	node := Div(c, Comp(c, Props{"label": "x"}))

	if len(node.Children) != 2 {
		t.Fatalf("len(Children) = %d, want 2", len(node.Children))
	}
	for _, child := range node.Children {
		if child.Kind != KindComponent {
			t.Errorf("child kind = %v, want Component", child.Kind)
		}
	}
	if got := node.Children[0].Comp.Render(node.Children[0].Props).Text; got != "none" {
		t.Errorf("render without props = %q, want none", got)
	}
	if got := node.Children[1].Comp.Render(node.Children[1].Props).Text; got != "x" {
		t.Errorf("render with props = %q, want x", got)
	}
}

func TestFragment(t *testing.T) {
	f := Fragment(nil, Text("a"), []*VNode{Text("b"), nil}, "c")
	if f.Kind != KindFragment {
		t.Fatalf("Kind = %v, want Fragment", f.Kind)
	}
	if len(f.Children) != 3 {
		t.Fatalf("len(Children) = %d, want 3", len(f.Children))
	}
}

func TestConditionals(t *testing.T) {
	a, b := Text("a"), Text("b")
	if If(false, a) != nil || If(true, a) != a {
		t.Error("If returned wrong node")
	}
	if IfElse(true, a, b) != a || IfElse(false, a, b) != b {
		t.Error("IfElse returned wrong node")
	}
	if ClassIf(false, "x").Key != "" {
		t.Error("ClassIf(false) should be empty")
	}
	nodes := Range([]string{"x", "y"}, func(s string, i int) *VNode {
		if i == 1 {
			return nil
		}
		return Text(s)
	})
	if len(nodes) != 1 {
		t.Errorf("Range kept %d nodes, want 1", len(nodes))
	}
}

func TestMerge(t *testing.T) {
	a := Props{"x": 1, "y": 2}
	b := Props{"y": 3, "z": nil}

	m := Merge(a, nil, b)
	if len(m) != 3 {
		t.Fatalf("len = %d, want 3", len(m))
	}
	if m["y"] != 3 {
		t.Errorf("y = %v, want 3 (later wins)", m["y"])
	}
	if !m.Has("z") {
		t.Error("nil-valued entry dropped")
	}
	if a["y"] != 2 {
		t.Error("Merge mutated its input")
	}
	if Merge() == nil {
		t.Error("Merge() returned nil")
	}
}

func TestPropsKeysSorted(t *testing.T) {
	p := Props{"b": 1, "c": 2, "a": 3}
	keys := p.Keys()
	want := []string{"a", "b", "c"}
	for i := range want {
		if keys[i] != want[i] {
			t.Fatalf("Keys() = %v, want %v", keys, want)
		}
	}
	clone := p.Clone()
	clone["d"] = 4
	if p.Has("d") {
		t.Error("Clone shares storage with original")
	}
}

func TestGet(t *testing.T) {
	p := Props{"n": 5, "s": "str", "nil": nil}

	if got := Get(p, "n", 0); got != 5 {
		t.Errorf("Get n = %d, want 5", got)
	}
	if got := Get(p, "s", 0); got != 0 {
		t.Errorf("Get wrong type = %d, want default", got)
	}
	if got := Get(p, "missing", "def"); got != "def" {
		t.Errorf("Get missing = %q, want def", got)
	}
	if got := Get(p, "nil", "def"); got != "def" {
		t.Errorf("Get nil = %q, want def", got)
	}
	if got := Get[int](nil, "n", 9); got != 9 {
		t.Errorf("Get on nil props = %d, want 9", got)
	}

	if v, ok := Lookup[string](p, "s"); !ok || v != "str" {
		t.Errorf("Lookup s = %q, %v", v, ok)
	}
	if _, ok := Lookup[string](p, "n"); ok {
		t.Error("Lookup with wrong type reported ok")
	}
}

func TestVoidElements(t *testing.T) {
	if !IsVoidElement("img") || IsVoidElement("div") {
		t.Error("IsVoidElement misclassified")
	}
}
