package renderer

import (
	"context"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/vango-dev/vmini/internal/errors"
	"github.com/vango-dev/vmini/pkg/metrics"
	"github.com/vango-dev/vmini/pkg/reactivity"
	"github.com/vango-dev/vmini/pkg/vdom"
)

// RenderFunc produces a component's tree. It is called once per render
// pass with the component's accessor.
type RenderFunc func(ctx *RenderContext) *vdom.VNode

// Component describes a stateful component.
//
// Setup runs once per instance, untracked. It may return a RenderFunc (or
// a plain func with the same signature), which takes precedence over
// Render, or a map[string]any of setup state that render code reads
// through RenderContext.Get with refs unwrapped.
type Component struct {
	Name   string
	Setup  func(props vdom.Props, ctx *SetupContext) any
	Render RenderFunc
}

// ComponentName implements vdom.ComponentType.
func (c *Component) ComponentName() string {
	if c.Name == "" {
		return "Anonymous"
	}
	return c.Name
}

var instanceIDs atomic.Uint64

// ComponentInstance is a mounted component.
type ComponentInstance struct {
	uid      uint64
	typ      *Component
	renderer *Renderer

	// vnode is the current component node; next is set while an update
	// from the parent is pending.
	vnode *vdom.VNode
	next  *vdom.VNode

	// subTree is the last rendered tree.
	subTree *vdom.VNode

	parent *ComponentInstance

	props      vdom.Props
	slots      vdom.Slots
	setupState *reactivity.RefsProxy
	render     RenderFunc
	ctx        *RenderContext

	update *reactivity.Effect

	provides    map[any]any
	ownProvides bool

	// container and anchor are where the first render is mounted.
	container Node
	anchor    Node

	isMounted   bool
	isUnmounted bool
}

func newInstance(vnode *vdom.VNode, parent *ComponentInstance, r *Renderer) *ComponentInstance {
	typ, _ := vnode.Type.(*Component)
	inst := &ComponentInstance{
		uid:      instanceIDs.Add(1),
		typ:      typ,
		renderer: r,
		vnode:    vnode,
		parent:   parent,
		props:    vnode.Props,
		slots:    vnode.Slots,
	}
	if parent != nil {
		inst.provides = parent.provides
	} else {
		inst.provides = r.provides
	}
	inst.ctx = &RenderContext{inst: inst}
	return inst
}

// UID returns the instance id.
func (i *ComponentInstance) UID() uint64 { return i.uid }

// Name returns the component name.
func (i *ComponentInstance) Name() string {
	if i.typ == nil {
		return "Anonymous"
	}
	return i.typ.ComponentName()
}

// Parent returns the parent instance, or nil for a root component.
func (i *ComponentInstance) Parent() *ComponentInstance { return i.parent }

// VNode returns the current component node.
func (i *ComponentInstance) VNode() *vdom.VNode { return i.vnode }

// SubTree returns the last rendered tree.
func (i *ComponentInstance) SubTree() *vdom.VNode { return i.subTree }

// Props returns the current props.
func (i *ComponentInstance) Props() vdom.Props { return i.props }

// Update returns the effect driving the instance's render cycle.
func (i *ComponentInstance) Update() *reactivity.Effect { return i.update }

// IsMounted reports whether the first render has been patched in.
func (i *ComponentInstance) IsMounted() bool { return i.isMounted }

// IsUnmounted reports whether the instance has been torn down.
func (i *ComponentInstance) IsUnmounted() bool { return i.isUnmounted }

func instanceOf(vnode *vdom.VNode) *ComponentInstance {
	inst, _ := vnode.Instance.(*ComponentInstance)
	return inst
}

func (r *Renderer) processComponent(n1, n2 *vdom.VNode, container, anchor Node, parent *ComponentInstance) {
	if n1 == nil {
		r.mountComponent(n2, container, anchor, parent)
		return
	}
	r.updateComponent(n1, n2)
}

func (r *Renderer) mountComponent(vnode *vdom.VNode, container, anchor Node, parent *ComponentInstance) {
	inst := newInstance(vnode, parent, r)
	vnode.Instance = inst

	r.setupComponent(inst)
	inst.container = container
	inst.anchor = anchor
	r.setupRenderEffect(inst)
}

// setupComponent runs Setup and resolves the render function.
func (r *Renderer) setupComponent(inst *ComponentInstance) {
	if inst.typ == nil {
		throw(errors.New("E203").WithDetail("component descriptor is not a *renderer.Component"))
	}

	if inst.typ.Setup != nil {
		prev := r.current
		r.current = inst
		var result any
		func() {
			defer func() { r.current = prev }()
			r.rt.Untracked(func() {
				result = inst.typ.Setup(inst.props, &SetupContext{inst: inst})
			})
		}()

		switch v := result.(type) {
		case RenderFunc:
			inst.render = v
		case func(*RenderContext) *vdom.VNode:
			inst.render = v
		case map[string]any:
			inst.setupState = reactivity.ProxyRefs(v)
		case nil:
		default:
			r.logger.Warn("setup returned an unsupported value",
				"component", inst.Name(),
				"type", typeName(v))
		}
	}

	if inst.render == nil {
		inst.render = inst.typ.Render
	}
	if inst.render == nil {
		throw(errors.New("E203").WithDetailf("component %s", inst.Name()))
	}
}

// setupRenderEffect wraps the render and patch cycle in an effect that
// re-runs through the queue, and runs it once to mount.
func (r *Renderer) setupRenderEffect(inst *ComponentInstance) {
	inst.update = r.rt.NewEffect(
		func() { r.componentUpdate(inst) },
		reactivity.WithName("render:"+inst.Name()),
		reactivity.WithScheduler(func(e *reactivity.Effect) { r.queue.QueueJob(e) }),
	)
	inst.update.Run()
}

// componentUpdate is the body of the instance's update effect.
func (r *Renderer) componentUpdate(inst *ComponentInstance) {
	if inst.isUnmounted {
		return
	}
	start := time.Now()
	_, end := metrics.StartSpan(context.Background(), r.tracer, "renderer.component",
		attribute.String("vmini.component", inst.Name()),
		attribute.Bool("vmini.mounted", inst.isMounted),
	)
	defer func() {
		r.metrics.ObserveRender(inst.Name(), time.Since(start))
		end(nil)
	}()

	if !inst.isMounted {
		tree := r.renderRoot(inst)
		r.patch(nil, tree, inst.container, inst.anchor, inst)
		inst.subTree = tree
		inst.vnode.El = tree.El
		inst.isMounted = true
		inst.anchor = nil
		return
	}

	if next := inst.next; next != nil {
		inst.next = nil
		next.El = inst.vnode.El
		next.Instance = inst
		inst.vnode = next
		inst.props = next.Props
		inst.slots = next.Slots
	}

	prev := inst.subTree
	tree := r.renderRoot(inst)
	inst.subTree = tree
	r.patch(prev, tree, inst.container, nil, inst)
	inst.vnode.El = tree.El
}

// renderRoot calls the render function. A nil tree becomes an empty text
// node so the component always owns a host node.
func (r *Renderer) renderRoot(inst *ComponentInstance) *vdom.VNode {
	tree := inst.render(inst.ctx)
	if tree == nil {
		tree = vdom.Text("")
	}
	return tree
}

// updateComponent re-renders the instance behind n1 with n2's props when
// they changed, and otherwise just hands the host node over.
func (r *Renderer) updateComponent(n1, n2 *vdom.VNode) {
	inst := instanceOf(n1)
	n2.Instance = inst
	if ShouldUpdateComponent(n1, n2) {
		inst.next = n2
		r.queue.InvalidateJob(inst.update)
		inst.update.Run()
		return
	}
	n2.El = n1.El
	inst.vnode = n2
}

// ShouldUpdateComponent reports whether next differs from prev enough to
// re-render: any slots, a different prop count, or any prop whose value
// is not the same value.
func ShouldUpdateComponent(prev, next *vdom.VNode) bool {
	if len(prev.Slots) > 0 || len(next.Slots) > 0 {
		return true
	}
	if len(prev.Props) != len(next.Props) {
		return true
	}
	for key, nv := range next.Props {
		pv, ok := prev.Props[key]
		if !ok || !reactivity.SameValue(pv, nv) {
			return true
		}
	}
	return false
}

func (r *Renderer) unmountComponent(vnode *vdom.VNode, doRemove bool) {
	inst := instanceOf(vnode)
	if inst == nil || inst.isUnmounted {
		return
	}
	if inst.update != nil {
		inst.update.Stop()
		r.queue.InvalidateJob(inst.update)
	}
	inst.isUnmounted = true
	if inst.subTree != nil {
		r.unmount(inst.subTree, doRemove)
	}
}
