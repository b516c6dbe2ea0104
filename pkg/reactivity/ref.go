package reactivity

// Ref is a single-value reactive cell.
//
// It keeps the raw value for change detection and, when the value is a
// map, a Reactive wrapping it for reads.
type Ref struct {
	rt    *Runtime
	raw   any
	value any
	dep   Dep
}

// Ref creates a cell holding value.
func (rt *Runtime) Ref(value any) *Ref {
	value = ToRaw(value)
	return &Ref{
		rt:    rt,
		raw:   value,
		value: rt.toReactive(value),
	}
}

// Value returns the current value and tracks the read.
func (r *Ref) Value() any {
	r.rt.TrackDep(&r.dep)
	return r.value
}

// Peek returns the current value without tracking.
func (r *Ref) Peek() any {
	return r.value
}

// SetValue stores v and fires dependents unless v is the same value as
// the current raw value.
func (r *Ref) SetValue(v any) {
	v = ToRaw(v)
	if SameValue(v, r.raw) {
		return
	}
	r.raw = v
	r.value = r.rt.toReactive(v)
	r.rt.TriggerDep(&r.dep)
}

// Dep returns the ref's dependency set.
func (r *Ref) Dep() *Dep {
	return &r.dep
}

// IsRef reports whether v is a *Ref.
func IsRef(v any) bool {
	_, ok := v.(*Ref)
	return ok
}

// Unref returns the value of a ref, or v itself.
func Unref(v any) any {
	if r, ok := v.(*Ref); ok {
		return r.Value()
	}
	return v
}

// RefValue reads a ref and converts its value to T.
func RefValue[T any](r *Ref) T {
	v, _ := r.Value().(T)
	return v
}

// RefsProxy gives access to a state map with refs unwrapped, so render
// code can read and write refs as plain values.
type RefsProxy struct {
	raw map[string]any
}

// ProxyRefs wraps a setup result map.
func ProxyRefs(state map[string]any) *RefsProxy {
	if state == nil {
		state = make(map[string]any)
	}
	return &RefsProxy{raw: state}
}

// Get returns the value stored under key with a ref unwrapped, and
// whether the key exists.
func (p *RefsProxy) Get(key string) (any, bool) {
	v, ok := p.raw[key]
	if !ok {
		return nil, false
	}
	return Unref(v), true
}

// Has reports whether key exists.
func (p *RefsProxy) Has(key string) bool {
	_, ok := p.raw[key]
	return ok
}

// Set writes through to an existing ref when the new value is not a ref
// itself; otherwise it replaces the entry.
func (p *RefsProxy) Set(key string, value any) {
	if old, ok := p.raw[key].(*Ref); ok && !IsRef(value) {
		old.SetValue(value)
		return
	}
	p.raw[key] = value
}

// Len returns the number of entries.
func (p *RefsProxy) Len() int {
	return len(p.raw)
}
