package vdom

import "fmt"

// Text creates a text node.
func Text(content string) *VNode {
	return &VNode{
		Kind: KindText,
		Text: content,
	}
}

// Textf creates a formatted text node.
func Textf(format string, args ...any) *VNode {
	return Text(fmt.Sprintf(format, args...))
}

// Fragment groups children without a wrapper element.
// Arguments can be: nil, Attr (only "key" is used), *VNode, []*VNode, string.
func Fragment(args ...any) *VNode {
	node := &VNode{
		Kind:      KindFragment,
		ShapeFlag: ShapeArrayChildren,
		Children:  make([]*VNode, 0),
	}

	for _, arg := range args {
		switch v := arg.(type) {
		case nil:
			continue
		case Attr:
			if v.Key == "key" {
				node.Key, _ = v.Value.(string)
			}
		case *VNode:
			if v != nil {
				node.Children = append(node.Children, v)
			}
		case []*VNode:
			for _, c := range v {
				if c != nil {
					node.Children = append(node.Children, c)
				}
			}
		case string:
			node.Children = append(node.Children, Text(v))
		}
	}

	return node
}

// Comp creates a component node.
// Arguments can be: nil, Attr, []Attr, Props, EventHandler, Slots,
// SlotFunc (the default slot), *VNode and []*VNode (static default slot
// content).
func Comp(t ComponentType, args ...any) *VNode {
	node := &VNode{
		Kind:      KindComponent,
		Type:      t,
		ShapeFlag: ShapeStatefulComponent,
		Props:     make(Props),
	}

	var static []*VNode
	for _, arg := range args {
		switch v := arg.(type) {
		case nil:
			continue
		case Attr:
			node.setProp(v.Key, v.Value)
		case []Attr:
			for _, a := range v {
				node.setProp(a.Key, a.Value)
			}
		case Props:
			for k, val := range v {
				node.setProp(k, val)
			}
		case EventHandler:
			node.setProp(v.Event, v.Handler)
		case Slots:
			for name, fn := range v {
				node.addSlot(name, fn)
			}
		case SlotFunc:
			node.addSlot(DefaultSlot, v)
		case func(Props) []*VNode:
			node.addSlot(DefaultSlot, v)
		case *VNode:
			if v != nil {
				static = append(static, v)
			}
		case []*VNode:
			for _, c := range v {
				if c != nil {
					static = append(static, c)
				}
			}
		}
	}

	if len(static) > 0 {
		node.addSlot(DefaultSlot, func(Props) []*VNode { return cloneAll(static) })
	}
	return node
}

func (v *VNode) addSlot(name string, fn SlotFunc) {
	if fn == nil {
		return
	}
	if v.Slots == nil {
		v.Slots = make(Slots)
	}
	v.Slots[name] = fn
	v.ShapeFlag |= ShapeSlotsChildren
}

// cloneAll copies static slot content so every render gets fresh nodes.
func cloneAll(nodes []*VNode) []*VNode {
	out := make([]*VNode, len(nodes))
	for i, n := range nodes {
		out[i] = n.Clone()
	}
	return out
}

// Key creates a key attribute for reconciliation.
// The key is converted to a string using fmt.Sprintf.
func Key(key any) Attr {
	return attr("key", fmt.Sprintf("%v", key))
}

// If returns the node if condition is true, nil otherwise.
func If(condition bool, node *VNode) *VNode {
	if condition {
		return node
	}
	return nil
}

// IfElse returns the first node if condition is true, the second otherwise.
func IfElse(condition bool, ifTrue, ifFalse *VNode) *VNode {
	if condition {
		return ifTrue
	}
	return ifFalse
}

// When is like If but with lazy evaluation.
// The function is only called if condition is true.
func When(condition bool, fn func() *VNode) *VNode {
	if condition {
		return fn()
	}
	return nil
}

// Range maps a slice to VNodes.
func Range[T any](items []T, fn func(item T, index int) *VNode) []*VNode {
	result := make([]*VNode, 0, len(items))
	for i, item := range items {
		node := fn(item, i)
		if node != nil {
			result = append(result, node)
		}
	}
	return result
}

// Repeat creates n nodes using the given function.
func Repeat(n int, fn func(i int) *VNode) []*VNode {
	if n <= 0 {
		return nil
	}
	result := make([]*VNode, 0, n)
	for i := 0; i < n; i++ {
		node := fn(i)
		if node != nil {
			result = append(result, node)
		}
	}
	return result
}
