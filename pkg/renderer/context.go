package renderer

import (
	"fmt"

	"github.com/vango-dev/vmini/pkg/reactivity"
	"github.com/vango-dev/vmini/pkg/vdom"
)

// Reserved RenderContext keys.
const (
	KeyEl    = "$el"
	KeyEmit  = "$emit"
	KeyProps = "$props"
	KeySlots = "$slots"
)

// RenderContext is the accessor a render function reads its component
// through.
type RenderContext struct {
	inst *ComponentInstance
}

// Get resolves key: reserved keys first, then setup state with refs
// unwrapped, then props. Reads of reactive setup state are tracked.
func (c *RenderContext) Get(key string) any {
	switch key {
	case KeyEl:
		return c.El()
	case KeyEmit:
		return c.Emit
	case KeyProps:
		return c.inst.props
	case KeySlots:
		return c.inst.slots
	}
	if c.inst.setupState != nil {
		if v, ok := c.inst.setupState.Get(key); ok {
			return v
		}
	}
	return c.inst.props[key]
}

// Set writes key into setup state, through the ref stored there if any.
// Props are read-only; writing one (or an unknown key) logs a warning and
// returns false.
func (c *RenderContext) Set(key string, value any) bool {
	if c.inst.setupState != nil && c.inst.setupState.Has(key) {
		c.inst.setupState.Set(key, value)
		return true
	}
	c.inst.renderer.logger.Warn("render context key is not writable",
		"component", c.inst.Name(),
		"key", key)
	return false
}

// El returns the host node of the component's root.
func (c *RenderContext) El() Node {
	return c.inst.vnode.El
}

// Props returns the current props.
func (c *RenderContext) Props() vdom.Props {
	return c.inst.props
}

// Slot renders the named slot, or returns nil if the parent did not
// provide it.
func (c *RenderContext) Slot(name string, props vdom.Props) []*vdom.VNode {
	fn := c.inst.slots[name]
	if fn == nil {
		return nil
	}
	return fn(props)
}

// Emit calls the parent's handler for event.
func (c *RenderContext) Emit(event string, args ...any) {
	c.inst.Emit(event, args...)
}

// Instance returns the component instance.
func (c *RenderContext) Instance() *ComponentInstance {
	return c.inst
}

// Runtime returns the reactive runtime the component runs on.
func (c *RenderContext) Runtime() *reactivity.Runtime {
	return c.inst.renderer.rt
}

// SetupContext is passed to Component.Setup.
type SetupContext struct {
	inst *ComponentInstance
}

// Instance returns the instance being set up.
func (c *SetupContext) Instance() *ComponentInstance {
	return c.inst
}

// Runtime returns the reactive runtime.
func (c *SetupContext) Runtime() *reactivity.Runtime {
	return c.inst.renderer.rt
}

// Emit calls the parent's handler for event.
func (c *SetupContext) Emit(event string, args ...any) {
	c.inst.Emit(event, args...)
}

// Slots returns the slots passed by the parent.
func (c *SetupContext) Slots() vdom.Slots {
	return c.inst.slots
}

// Provide makes value available to descendants under key.
func (c *SetupContext) Provide(key, value any) {
	c.inst.Provide(key, value)
}

// Inject looks key up in the ancestors' provides, returning def when no
// ancestor provided it.
func (c *SetupContext) Inject(key, def any) any {
	return c.inst.Inject(key, def)
}

// NextTick returns a channel closed after the pending flush.
func (c *SetupContext) NextTick(fn func()) <-chan struct{} {
	return c.inst.renderer.queue.NextTick(fn)
}

// Emit calls the handler prop for event: "on" plus the camelized event
// name, falling back to the hyphenated form. Handlers may be func(),
// func(...any) or func(any). It reports whether a handler was found.
func (i *ComponentInstance) Emit(event string, args ...any) bool {
	handler, ok := i.props[vdom.HandlerKey(vdom.Camelize(event))]
	if !ok {
		handler, ok = i.props[vdom.HandlerKey(vdom.Hyphenate(event))]
	}
	if !ok || handler == nil {
		return false
	}
	switch h := handler.(type) {
	case func(...any):
		h(args...)
	case func():
		h()
	case func(any):
		var arg any
		if len(args) > 0 {
			arg = args[0]
		}
		h(arg)
	default:
		i.renderer.logger.Warn("emit handler has an unsupported type",
			"component", i.Name(),
			"event", event,
			"type", typeName(handler))
		return false
	}
	return true
}

// Provide stores value under key for descendants. The first write copies
// the parent's provides so siblings and ancestors are unaffected.
func (i *ComponentInstance) Provide(key, value any) {
	if !i.ownProvides {
		own := make(map[any]any, len(i.provides)+1)
		for k, v := range i.provides {
			own[k] = v
		}
		i.provides = own
		i.ownProvides = true
	}
	i.provides[key] = value
}

// Inject returns the value provided under key by an ancestor, or def.
func (i *ComponentInstance) Inject(key, def any) any {
	provides := i.renderer.provides
	if i.parent != nil {
		provides = i.parent.provides
	}
	if v, ok := provides[key]; ok {
		return v
	}
	return def
}

func typeName(v any) string {
	return fmt.Sprintf("%T", v)
}
