package vdom

import "testing"

type testComp struct{ name string }

func (c *testComp) ComponentName() string { return c.name }

func TestKindString(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{KindElement, "Element"},
		{KindText, "Text"},
		{KindFragment, "Fragment"},
		{KindComponent, "Component"},
		{Kind(255), "Unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.kind.String(); got != tt.want {
				t.Errorf("Kind.String() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsOn(t *testing.T) {
	tests := []struct {
		key  string
		want bool
	}{
		{"onClick", true},
		{"onUpdate:value", true},
		{"onclick", false},
		{"on", false},
		{"onX", true},
		{"one", false},
		{"class", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := IsOn(tt.key); got != tt.want {
			t.Errorf("IsOn(%q) = %v, want %v", tt.key, got, tt.want)
		}
	}
}

func TestSameVNodeType(t *testing.T) {
	compA := &testComp{"A"}
	compB := &testComp{"A"}

	tests := []struct {
		name string
		a, b *VNode
		want bool
	}{
		{"same tag", Div(), Div(), true},
		{"different tag", Div(), Span(), false},
		{"same key", Li(Key(1)), Li(Key("1")), true},
		{"different key", Li(Key(1)), Li(Key(2)), false},
		{"keyed vs unkeyed", Li(Key(1)), Li(), false},
		{"text nodes", Text("a"), Text("b"), true},
		{"text vs element", Text("a"), Div(), false},
		{"same component", Comp(compA), Comp(compA), true},
		{"equal but distinct descriptors", Comp(compA), Comp(compB), false},
		{"fragments", Fragment(), Fragment(), true},
		{"nil", nil, Div(), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SameVNodeType(tt.a, tt.b); got != tt.want {
				t.Errorf("SameVNodeType = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestShapeFlags(t *testing.T) {
	tests := []struct {
		name string
		node *VNode
		want ShapeFlags
	}{
		{"empty element", Div(), ShapeElement},
		{"text children", Div("hi"), ShapeElement | ShapeTextChildren},
		{"array children", Ul(Li("a"), Li("b")), ShapeElement | ShapeArrayChildren},
		{"mixed string and node", Div("a", Span()), ShapeElement | ShapeArrayChildren},
		{"component", Comp(&testComp{}), ShapeStatefulComponent},
		{"component with children", Comp(&testComp{}, Div()), ShapeStatefulComponent | ShapeSlotsChildren},
		{"fragment", Fragment(), ShapeArrayChildren},
		{"text node", Text("x"), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.node.ShapeFlag != tt.want {
				t.Errorf("ShapeFlag = %b, want %b", tt.node.ShapeFlag, tt.want)
			}
		})
	}
}

func TestHArguments(t *testing.T) {
	handler := func(...any) {}
	node := H("button",
		Class("btn", "primary"),
		Key("save"),
		OnClick(handler),
		Props{"disabled": true},
		nil,
		"Save",
	)

	if node.Key != "save" {
		t.Errorf("Key = %q", node.Key)
	}
	if _, ok := node.Props["key"]; ok {
		t.Error("key should not be stored as a prop")
	}
	if node.Props["class"] != "btn primary" {
		t.Errorf("class = %v", node.Props["class"])
	}
	if node.Props["onClick"] == nil {
		t.Error("onClick handler missing")
	}
	if node.Props["disabled"] != true {
		t.Error("Props argument not merged")
	}
	if node.Text != "Save" || node.Children != nil {
		t.Errorf("text children = %q / %v", node.Text, node.Children)
	}
}

func TestHMixedChildren(t *testing.T) {
	node := Div("a", Span("b"), []*VNode{Text("c"), nil})
	if len(node.Children) != 3 {
		t.Fatalf("children = %d, want 3", len(node.Children))
	}
	if node.Children[0].Kind != KindText || node.Children[0].Text != "a" {
		t.Errorf("first child = %+v", node.Children[0])
	}
	if node.Text != "" {
		t.Errorf("array children should not set Text, got %q", node.Text)
	}
}

func TestCompSlots(t *testing.T) {
	c := &testComp{"Card"}
	node := Comp(c,
		Prop("title", "Hi"),
		Slots{"footer": func(Props) []*VNode { return []*VNode{Text("f")} }},
		P("body"),
	)

	if node.Props["title"] != "Hi" {
		t.Errorf("title = %v", node.Props["title"])
	}
	if node.Slots["footer"] == nil || node.Slots[DefaultSlot] == nil {
		t.Fatalf("slots = %v", node.Slots)
	}

	first := node.Slots[DefaultSlot](nil)
	second := node.Slots[DefaultSlot](nil)
	if len(first) != 1 || first[0].Tag != "p" {
		t.Fatalf("default slot = %v", first)
	}
	if first[0] == second[0] {
		t.Error("static slot content should be fresh on every call")
	}
}

func TestClone(t *testing.T) {
	orig := Ul(Class("list"), Li(Key(1), "a"), Li(Key(2), "b"))
	orig.El = "host"
	orig.Children[0].El = "li-host"

	c := orig.Clone()
	if c == orig || c.Children[0] == orig.Children[0] {
		t.Fatal("Clone should allocate new nodes")
	}
	if c.El != nil || c.Children[0].El != nil {
		t.Error("Clone should drop host handles")
	}
	if c.Props["class"] != "list" || c.Children[1].Key != "2" || c.Children[1].Text != "b" {
		t.Error("Clone lost data")
	}
	c.Props["class"] = "changed"
	if orig.Props["class"] != "list" {
		t.Error("Clone shares the props map")
	}
	if (*VNode)(nil).Clone() != nil {
		t.Error("nil Clone should be nil")
	}
}

func TestFragmentKey(t *testing.T) {
	f := Fragment(Key("k"), "a", Div())
	if f.Key != "k" || len(f.Children) != 2 {
		t.Errorf("fragment = %+v", f)
	}
}
