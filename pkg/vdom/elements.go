package vdom

// voidElements are elements that cannot have children.
var voidElements = map[string]bool{
	"area":   true,
	"base":   true,
	"br":     true,
	"col":    true,
	"embed":  true,
	"hr":     true,
	"img":    true,
	"input":  true,
	"link":   true,
	"meta":   true,
	"param":  true,
	"source": true,
	"track":  true,
	"wbr":    true,
}

// IsVoidElement returns true if the tag is a void element.
func IsVoidElement(tag string) bool {
	return voidElements[tag]
}

// H creates an element node.
// Arguments can be: nil, Attr, []Attr, Props, EventHandler, *VNode, []*VNode,
// string. A single string argument with no other children becomes the
// element's text content.
func H(tag string, args ...any) *VNode {
	node := &VNode{
		Kind:      KindElement,
		Tag:       tag,
		ShapeFlag: ShapeElement,
		Props:     make(Props),
	}

	var children []*VNode
	var text string
	textOnly := true
	for _, arg := range args {
		switch v := arg.(type) {
		case nil:
			// Ignore nil (allows conditional attributes)
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

		case *VNode:
			if v != nil {
				children = append(children, v)
				textOnly = false
			}

		case []*VNode:
			for _, child := range v {
				if child != nil {
					children = append(children, child)
					textOnly = false
				}
			}

		case string:
			children = append(children, Text(v))
			text = v
		}
	}

	switch {
	case len(children) == 1 && textOnly:
		node.Text = text
		node.ShapeFlag |= ShapeTextChildren
	case len(children) > 0:
		node.Children = children
		node.ShapeFlag |= ShapeArrayChildren
	}
	return node
}

func (v *VNode) setProp(key string, value any) {
	if key == "" {
		return
	}
	if key == "key" {
		if s, ok := value.(string); ok {
			v.Key = s
		}
		return
	}
	v.Props[key] = value
}

// Document structure

// Div creates a <div> element.
func Div(args ...any) *VNode { return H("div", args...) }

// Span creates a <span> element.
func Span(args ...any) *VNode { return H("span", args...) }

// P creates a <p> element.
func P(args ...any) *VNode { return H("p", args...) }

// Section creates a <section> element.
func Section(args ...any) *VNode { return H("section", args...) }

// Header creates a <header> element.
func Header(args ...any) *VNode { return H("header", args...) }

// Footer creates a <footer> element.
func Footer(args ...any) *VNode { return H("footer", args...) }

// Headings

// H1 creates an <h1> element.
func H1(args ...any) *VNode { return H("h1", args...) }

// H2 creates an <h2> element.
func H2(args ...any) *VNode { return H("h2", args...) }

// H3 creates an <h3> element.
func H3(args ...any) *VNode { return H("h3", args...) }

// Lists

// Ul creates a <ul> element.
func Ul(args ...any) *VNode { return H("ul", args...) }

// Ol creates an <ol> element.
func Ol(args ...any) *VNode { return H("ol", args...) }

// Li creates an <li> element.
func Li(args ...any) *VNode { return H("li", args...) }

// Forms

// Form creates a <form> element.
func Form(args ...any) *VNode { return H("form", args...) }

// Button creates a <button> element.
func Button(args ...any) *VNode { return H("button", args...) }

// Input creates an <input> element.
func Input(args ...any) *VNode { return H("input", args...) }

// Label creates a <label> element.
func Label(args ...any) *VNode { return H("label", args...) }

// Inline

// A creates an <a> element.
func A(args ...any) *VNode { return H("a", args...) }

// Strong creates a <strong> element.
func Strong(args ...any) *VNode { return H("strong", args...) }

// Em creates an <em> element.
func Em(args ...any) *VNode { return H("em", args...) }

// Br creates a <br> element.
func Br(args ...any) *VNode { return H("br", args...) }
