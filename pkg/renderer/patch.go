package renderer

import (
	"sort"

	"github.com/vango-dev/vmini/internal/errors"
	"github.com/vango-dev/vmini/pkg/reactivity"
	"github.com/vango-dev/vmini/pkg/vdom"
)

// patch reconciles n2 against n1. A nil n1 mounts n2 before anchor; an n1
// of a different type or key is unmounted and n2 mounted in its place.
func (r *Renderer) patch(n1, n2 *vdom.VNode, container, anchor Node, parent *ComponentInstance) {
	if n1 == n2 {
		return
	}
	if n1 != nil && !vdom.SameVNodeType(n1, n2) {
		anchor = r.nextHostNode(n1)
		r.unmount(n1, true)
		n1 = nil
	}

	switch {
	case n2.Kind == vdom.KindText:
		r.processText(n1, n2, container, anchor)
	case n2.Kind == vdom.KindFragment:
		r.processFragment(n1, n2, container, anchor, parent)
	case n2.ShapeFlag.Has(vdom.ShapeElement):
		r.processElement(n1, n2, container, anchor, parent)
	case n2.ShapeFlag.Has(vdom.ShapeStatefulComponent):
		r.processComponent(n1, n2, container, anchor, parent)
	default:
		throw(errors.New("E201").WithDetailf("%s has kind %s and shape %b", describe(n2), n2.Kind, n2.ShapeFlag))
	}
}

func (r *Renderer) createText(content string) Node {
	n := r.host.CreateText(content)
	if n == nil {
		throw(errors.New("E202").WithDetail("CreateText returned nil"))
	}
	return n
}

func (r *Renderer) processText(n1, n2 *vdom.VNode, container, anchor Node) {
	if n1 == nil {
		n2.El = r.createText(n2.Text)
		r.host.Insert(n2.El, container, anchor)
		return
	}
	n2.El = n1.El
	if n2.Text != n1.Text {
		r.host.SetText(n2.El, n2.Text)
	}
}

// processFragment mounts fragment children between two empty text nodes
// so the fragment has stable bounds even when it has no children.
func (r *Renderer) processFragment(n1, n2 *vdom.VNode, container, anchor Node, parent *ComponentInstance) {
	if n1 == nil {
		n2.El = r.createText("")
		n2.Anchor = r.createText("")
		r.host.Insert(n2.El, container, anchor)
		r.host.Insert(n2.Anchor, container, anchor)
		r.mountChildren(n2.Children, container, n2.Anchor, parent)
		return
	}
	n2.El, n2.Anchor = n1.El, n1.Anchor
	r.patchChildren(n1, n2, container, n2.Anchor, parent)
}

func (r *Renderer) processElement(n1, n2 *vdom.VNode, container, anchor Node, parent *ComponentInstance) {
	if n1 == nil {
		r.mountElement(n2, container, anchor, parent)
		return
	}
	r.patchElement(n1, n2, parent)
}

func (r *Renderer) mountElement(vnode *vdom.VNode, container, anchor Node, parent *ComponentInstance) {
	el := r.host.CreateElement(vnode.Tag)
	if el == nil {
		throw(errors.New("E202").WithDetailf("CreateElement(%q) returned nil", vnode.Tag))
	}
	vnode.El = el

	if vnode.ShapeFlag.Has(vdom.ShapeTextChildren) {
		r.host.SetElementText(el, vnode.Text)
	} else if vnode.ShapeFlag.Has(vdom.ShapeArrayChildren) {
		r.mountChildren(vnode.Children, el, nil, parent)
	}

	for _, key := range sortedKeys(vnode.Props) {
		r.host.PatchProp(el, key, nil, vnode.Props[key])
	}

	r.host.Insert(el, container, anchor)
}

func (r *Renderer) mountChildren(children []*vdom.VNode, container, anchor Node, parent *ComponentInstance) {
	for _, child := range children {
		r.patch(nil, child, container, anchor, parent)
	}
}

func (r *Renderer) patchElement(n1, n2 *vdom.VNode, parent *ComponentInstance) {
	el := n1.El
	n2.El = el
	r.patchProps(el, n1.Props, n2.Props)
	r.patchChildren(n1, n2, el, nil, parent)
}

// patchProps applies every new prop whose value changed and removes every
// old prop that is gone. Keys are visited in sorted order.
func (r *Renderer) patchProps(el Node, oldProps, newProps vdom.Props) {
	for _, key := range sortedKeys(newProps) {
		prev, had := oldProps[key]
		next := newProps[key]
		if had && reactivity.SameValue(prev, next) {
			continue
		}
		r.host.PatchProp(el, key, prev, next)
	}
	for _, key := range sortedKeys(oldProps) {
		if _, ok := newProps[key]; !ok {
			r.host.PatchProp(el, key, oldProps[key], nil)
		}
	}
}

// patchChildren reconciles the children of n1 and n2, branching on their
// shapes: text, array, or none.
func (r *Renderer) patchChildren(n1, n2 *vdom.VNode, container, anchor Node, parent *ComponentInstance) {
	prevShape, shape := n1.ShapeFlag, n2.ShapeFlag

	if shape.Has(vdom.ShapeTextChildren) {
		if prevShape.Has(vdom.ShapeArrayChildren) {
			r.unmountChildren(n1.Children)
		}
		if !prevShape.Has(vdom.ShapeTextChildren) || n1.Text != n2.Text {
			r.host.SetElementText(container, n2.Text)
		}
		return
	}

	if prevShape.Has(vdom.ShapeArrayChildren) {
		if shape.Has(vdom.ShapeArrayChildren) {
			r.patchKeyedChildren(n1.Children, n2.Children, container, anchor, parent)
		} else {
			r.unmountChildren(n1.Children)
		}
		return
	}

	if prevShape.Has(vdom.ShapeTextChildren) {
		r.host.SetElementText(container, "")
	}
	if shape.Has(vdom.ShapeArrayChildren) {
		r.mountChildren(n2.Children, container, anchor, parent)
	}
}

// unmount tears vnode down. Components stop their update effect first.
// With doRemove false only component teardown happens; the caller removes
// an ancestor host node instead.
func (r *Renderer) unmount(vnode *vdom.VNode, doRemove bool) {
	switch {
	case vnode.ShapeFlag.Has(vdom.ShapeStatefulComponent):
		r.unmountComponent(vnode, doRemove)
	case vnode.Kind == vdom.KindFragment:
		for _, c := range vnode.Children {
			r.unmount(c, doRemove)
		}
		if doRemove {
			r.host.Remove(vnode.El)
			r.host.Remove(vnode.Anchor)
		}
	default:
		if vnode.ShapeFlag.Has(vdom.ShapeArrayChildren) {
			for _, c := range vnode.Children {
				if hasComponents(c) {
					r.unmount(c, false)
				}
			}
		}
		if doRemove && vnode.El != nil {
			r.host.Remove(vnode.El)
		}
	}
}

func (r *Renderer) unmountChildren(children []*vdom.VNode) {
	for _, c := range children {
		r.unmount(c, true)
	}
}

// hasComponents reports whether any node in the tree is a component.
func hasComponents(v *vdom.VNode) bool {
	if v.ShapeFlag.Has(vdom.ShapeStatefulComponent) {
		return true
	}
	for _, c := range v.Children {
		if hasComponents(c) {
			return true
		}
	}
	return false
}

// move repositions the host nodes of an already mounted vnode before
// anchor.
func (r *Renderer) move(vnode *vdom.VNode, container, anchor Node) {
	switch {
	case vnode.ShapeFlag.Has(vdom.ShapeStatefulComponent):
		r.move(instanceOf(vnode).subTree, container, anchor)
	case vnode.Kind == vdom.KindFragment:
		r.host.Insert(vnode.El, container, anchor)
		for _, c := range vnode.Children {
			r.move(c, container, anchor)
		}
		r.host.Insert(vnode.Anchor, container, anchor)
	default:
		r.host.Insert(vnode.El, container, anchor)
	}
}

// nextHostNode returns the host node right after vnode's last host node.
func (r *Renderer) nextHostNode(vnode *vdom.VNode) Node {
	switch {
	case vnode.ShapeFlag.Has(vdom.ShapeStatefulComponent):
		return r.nextHostNode(instanceOf(vnode).subTree)
	case vnode.Kind == vdom.KindFragment:
		return r.host.NextSibling(vnode.Anchor)
	default:
		return r.host.NextSibling(vnode.El)
	}
}

func sortedKeys(props vdom.Props) []string {
	keys := make([]string, 0, len(props))
	for k := range props {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
