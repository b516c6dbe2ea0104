package vdom

// Kind is the node type discriminator.
type Kind uint8

const (
	KindElement   Kind = iota // <div>, <button>, etc.
	KindText                  // Plain text node
	KindFragment              // Grouping without wrapper
	KindComponent             // Stateful component
)

// String returns the string representation of the Kind.
func (k Kind) String() string {
	switch k {
	case KindElement:
		return "Element"
	case KindText:
		return "Text"
	case KindFragment:
		return "Fragment"
	case KindComponent:
		return "Component"
	default:
		return "Unknown"
	}
}

// ShapeFlags classify a node and its children representation.
type ShapeFlags uint16

const (
	ShapeElement ShapeFlags = 1 << iota
	ShapeStatefulComponent
	ShapeTextChildren
	ShapeArrayChildren
	ShapeSlotsChildren
)

// Has reports whether every bit of f is set.
func (s ShapeFlags) Has(f ShapeFlags) bool {
	return s&f == f
}

// ComponentType is a component descriptor. Two component nodes are the
// same type when their descriptors are the same value, normally the same
// pointer.
type ComponentType interface {
	ComponentName() string
}

// SlotFunc renders a slot with the props the component passes to it.
type SlotFunc func(props Props) []*VNode

// Slots holds a component's named slots. The default slot is "default".
type Slots map[string]SlotFunc

// DefaultSlot is the name of the slot filled by plain children.
const DefaultSlot = "default"

// VNode is the virtual node.
type VNode struct {
	Kind      Kind          // Node type
	Tag       string        // Element tag name (e.g., "div")
	Type      ComponentType // For KindComponent
	Key       string        // Reconciliation key ("" means unkeyed)
	ShapeFlag ShapeFlags    // Node and children shape
	Props     Props         // Attributes and event handlers
	Text      string        // Text content, or element text children
	Children  []*VNode      // Array children
	Slots     Slots         // Component children

	// El is the host node once mounted. A fragment is bracketed by two
	// empty text nodes: El is the start one and Anchor the end one.
	El     any
	Anchor any

	// Instance is the component instance behind a KindComponent node.
	Instance any
}

// Props holds attributes and event handlers.
type Props map[string]any

// Clone returns a copy of the props.
func (p Props) Clone() Props {
	if p == nil {
		return nil
	}
	out := make(Props, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// HasKey reports whether the node carries a reconciliation key.
func (v *VNode) HasKey() bool {
	return v != nil && v.Key != ""
}

// IsComponent reports whether the node is a stateful component.
func (v *VNode) IsComponent() bool {
	return v != nil && v.ShapeFlag.Has(ShapeStatefulComponent)
}

// Clone returns a deep copy of the tree without host handles or
// instances. Props maps are copied; prop values are shared.
func (v *VNode) Clone() *VNode {
	if v == nil {
		return nil
	}
	out := &VNode{
		Kind:      v.Kind,
		Tag:       v.Tag,
		Type:      v.Type,
		Key:       v.Key,
		ShapeFlag: v.ShapeFlag,
		Props:     v.Props.Clone(),
		Text:      v.Text,
		Slots:     v.Slots,
	}
	if v.Children != nil {
		out.Children = make([]*VNode, len(v.Children))
		for i, c := range v.Children {
			out.Children[i] = c.Clone()
		}
	}
	return out
}

// SameVNodeType reports whether b can be patched into a: same kind, same
// tag for elements, same descriptor for components, and same key.
func SameVNodeType(a, b *VNode) bool {
	if a == nil || b == nil {
		return false
	}
	if a.Kind != b.Kind || a.Key != b.Key {
		return false
	}
	switch a.Kind {
	case KindElement:
		return a.Tag == b.Tag
	case KindComponent:
		return a.Type == b.Type
	}
	return true
}

// IsOn reports whether a prop key names an event handler: "on" followed
// by an upper-case ASCII letter.
func IsOn(key string) bool {
	return len(key) > 2 && key[0] == 'o' && key[1] == 'n' && key[2] >= 'A' && key[2] <= 'Z'
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
	Event   string // "onClick", "onInput", etc.
	Handler any    // Function to call
}
