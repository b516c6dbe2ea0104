package host

import (
	"fmt"
	"sync/atomic"

	"github.com/vango-dev/vmini/pkg/vdom"
)

// Node is a MemHost node. Text nodes have an empty Tag.
type Node struct {
	ID       uint64
	Tag      string
	Text     string
	Attrs    map[string]any
	Parent   *Node
	Children []*Node

	invokers map[string]*invoker
}

// IsText reports whether n is a text node.
func (n *Node) IsText() bool {
	return n.Tag == ""
}

// TextContent returns the concatenated text of n and its descendants.
func (n *Node) TextContent() string {
	if n.IsText() {
		return n.Text
	}
	var s string
	for _, c := range n.Children {
		s += c.TextContent()
	}
	return s
}

// Listeners returns the event names n has handlers for.
func (n *Node) Listeners() []string {
	out := make([]string, 0, len(n.invokers))
	for name := range n.invokers {
		out = append(out, name)
	}
	return out
}

// invoker is the stable listener attached to a node. Updating a handler
// swaps fn and leaves the subscription alone.
type invoker struct {
	fn any
}

func (iv *invoker) call(args ...any) {
	switch h := iv.fn.(type) {
	case func():
		h()
	case func(...any):
		h(args...)
	case func(any):
		var arg any
		if len(args) > 0 {
			arg = args[0]
		}
		h(arg)
	}
}

// MemHost is an in-memory Adapter.
type MemHost struct {
	nextID atomic.Uint64

	// subscriptions counts invoker attachments, removals and swaps.
	subscriptions int
	unsubscribes  int
	swaps         int
}

// NewMemHost creates an empty host.
func NewMemHost() *MemHost {
	return &MemHost{}
}

// NewRoot creates a detached container element.
func (h *MemHost) NewRoot() *Node {
	return h.CreateElement("root").(*Node)
}

// CreateElement creates a detached element.
func (h *MemHost) CreateElement(tag string) any {
	return &Node{ID: h.nextID.Add(1), Tag: tag, Attrs: make(map[string]any)}
}

// CreateText creates a detached text node.
func (h *MemHost) CreateText(content string) any {
	return &Node{ID: h.nextID.Add(1), Text: content}
}

// SetText replaces the content of a text node.
func (h *MemHost) SetText(node any, content string) {
	mustNode(node).Text = content
}

// SetElementText replaces all children of an element with a single text
// node, or with nothing when content is empty.
func (h *MemHost) SetElementText(node any, content string) {
	n := mustNode(node)
	for _, c := range n.Children {
		c.Parent = nil
	}
	n.Children = nil
	if content != "" {
		t := h.CreateText(content).(*Node)
		t.Parent = n
		n.Children = []*Node{t}
	}
}

// Insert moves node into container before anchor. A nil anchor appends.
func (h *MemHost) Insert(node, container, anchor any) {
	n, parent := mustNode(node), mustNode(container)
	detach(n)

	idx := len(parent.Children)
	if anchor != nil {
		a := mustNode(anchor)
		idx = indexOf(parent, a)
		if idx < 0 {
			panic(fmt.Sprintf("memhost: anchor %d is not a child of %d", a.ID, parent.ID))
		}
	}
	parent.Children = append(parent.Children, nil)
	copy(parent.Children[idx+1:], parent.Children[idx:])
	parent.Children[idx] = n
	n.Parent = parent
}

// Remove detaches node from its parent.
func (h *MemHost) Remove(node any) {
	detach(mustNode(node))
}

// PatchProp sets, updates or removes an attribute or event handler.
// A nil or false value removes an attribute.
func (h *MemHost) PatchProp(node any, key string, prev, next any) {
	n := mustNode(node)
	if vdom.IsOn(key) {
		h.patchEvent(n, eventName(key), next)
		return
	}
	if next == nil || next == false {
		delete(n.Attrs, key)
		return
	}
	n.Attrs[key] = next
}

func (h *MemHost) patchEvent(n *Node, name string, next any) {
	existing := n.invokers[name]
	switch {
	case next != nil && existing != nil:
		existing.fn = next
		h.swaps++
	case next != nil:
		if n.invokers == nil {
			n.invokers = make(map[string]*invoker)
		}
		n.invokers[name] = &invoker{fn: next}
		h.subscriptions++
	case existing != nil:
		delete(n.invokers, name)
		h.unsubscribes++
	}
}

// NextSibling returns the node after node in its parent, or nil.
func (h *MemHost) NextSibling(node any) any {
	n := mustNode(node)
	if n.Parent == nil {
		return nil
	}
	i := indexOf(n.Parent, n)
	if i < 0 || i+1 >= len(n.Parent.Children) {
		return nil
	}
	return n.Parent.Children[i+1]
}

// Dispatch calls the handler for event on node and reports whether one
// was attached. event is the plain name ("click").
func (h *MemHost) Dispatch(node any, event string, args ...any) bool {
	n := mustNode(node)
	iv, ok := n.invokers[event]
	if !ok {
		return false
	}
	iv.call(args...)
	return true
}

// Subscriptions returns how many listeners were attached, removed and
// swapped in place.
func (h *MemHost) Subscriptions() (attached, removed, swapped int) {
	return h.subscriptions, h.unsubscribes, h.swaps
}

// Find returns the first element below root (depth first) whose attribute
// key equals value.
func Find(root *Node, key string, value any) *Node {
	if root == nil {
		return nil
	}
	for _, c := range root.Children {
		if c.Attrs[key] == value && !c.IsText() {
			return c
		}
		if found := Find(c, key, value); found != nil {
			return found
		}
	}
	return nil
}

// eventName turns "onClick" into "click".
func eventName(key string) string {
	rest := key[2:]
	return string(rest[0]+('a'-'A')) + rest[1:]
}

func mustNode(v any) *Node {
	n, ok := v.(*Node)
	if !ok || n == nil {
		panic(fmt.Sprintf("memhost: not a host node: %T", v))
	}
	return n
}

func indexOf(parent, child *Node) int {
	for i, c := range parent.Children {
		if c == child {
			return i
		}
	}
	return -1
}

func detach(n *Node) {
	if n.Parent == nil {
		return
	}
	p := n.Parent
	if i := indexOf(p, n); i >= 0 {
		p.Children = append(p.Children[:i], p.Children[i+1:]...)
	}
	n.Parent = nil
}
