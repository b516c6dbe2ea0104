package reactivity

import (
	"reflect"
	"runtime"
	"sort"
	"weak"

	"github.com/vango-dev/vmini/internal/errors"
)

// Reactive is a tracked view over a plain map.
//
// Reads through Get, Has and Keys register the running effect as a
// dependent; writes through Set and Delete fire the dependents of the key.
// Nested maps are wrapped lazily when read, through the same identity
// cache, so the same underlying map always yields the same *Reactive.
type Reactive struct {
	rt  *Runtime
	raw map[string]any

	// deps holds one Dep per key, created on first tracked read.
	deps map[string]*Dep

	// iterDep tracks readers of the key set (Keys, Len).
	iterDep *Dep
}

// Reactive returns the wrapper for m, creating it on first use.
// It panics with E001 if m is nil.
func (rt *Runtime) Reactive(m map[string]any) *Reactive {
	if m == nil {
		panic(errors.New("E001"))
	}
	id := mapIdentity(m)

	rt.wrappersMu.Lock()
	defer rt.wrappersMu.Unlock()

	if wp, ok := rt.wrappers[id]; ok {
		if r := wp.Value(); r != nil {
			return r
		}
	}

	r := &Reactive{
		rt:   rt,
		raw:  m,
		deps: make(map[string]*Dep),
	}
	wp := weak.Make(r)
	rt.wrappers[id] = wp
	runtime.AddCleanup(r, rt.forgetWrapper, wrapperKey{id: id, ptr: wp})
	return r
}

// wrapperKey identifies one cache entry for cleanup.
type wrapperKey struct {
	id  uintptr
	ptr weak.Pointer[Reactive]
}

// forgetWrapper drops a cache entry once its wrapper has been collected.
// The entry may already belong to a newer wrapper for a map allocated at
// the same address, in which case it is left alone.
func (rt *Runtime) forgetWrapper(k wrapperKey) {
	rt.wrappersMu.Lock()
	defer rt.wrappersMu.Unlock()
	if cur, ok := rt.wrappers[k.id]; ok && cur == k.ptr {
		delete(rt.wrappers, k.id)
	}
}

// cachedWrappers returns the number of live identity cache entries.
func (rt *Runtime) cachedWrappers() int {
	rt.wrappersMu.Lock()
	defer rt.wrappersMu.Unlock()
	return len(rt.wrappers)
}

func mapIdentity(m map[string]any) uintptr {
	return uintptr(reflect.ValueOf(m).UnsafePointer())
}

// IsReactive reports whether v is a reactive target.
func IsReactive(v any) bool {
	_, ok := v.(*Reactive)
	return ok
}

// ToRaw returns the map behind a Reactive, or v unchanged.
func ToRaw(v any) any {
	if r, ok := v.(*Reactive); ok {
		return r.raw
	}
	return v
}

// Raw returns the underlying map. Mutating it bypasses tracking.
func (r *Reactive) Raw() map[string]any {
	return r.raw
}

// Runtime returns the runtime the target belongs to.
func (r *Reactive) Runtime() *Runtime {
	return r.rt
}

// Dep returns the dependency set for key, or nil if nothing tracked it yet.
func (r *Reactive) Dep(key string) *Dep {
	return r.deps[key]
}

func (r *Reactive) depFor(key string, create bool) *Dep {
	dep := r.deps[key]
	if dep == nil && create {
		dep = &Dep{target: r}
		r.deps[key] = dep
	}
	return dep
}

func (r *Reactive) iterateDep(create bool) *Dep {
	if r.iterDep == nil && create {
		r.iterDep = &Dep{target: r}
	}
	return r.iterDep
}

// Get returns the value stored under key and tracks the read.
// Nested maps come back wrapped.
func (r *Reactive) Get(key string) any {
	r.rt.Track(r, key)
	return r.rt.toReactive(r.raw[key])
}

// Peek returns the value stored under key without tracking.
func (r *Reactive) Peek(key string) any {
	return r.rt.toReactive(r.raw[key])
}

// Has reports whether key is present and tracks the read.
func (r *Reactive) Has(key string) bool {
	r.rt.Track(r, key)
	_, ok := r.raw[key]
	return ok
}

// Set stores value under key.
// Nothing is assigned or triggered when the key exists and the new value
// is the same value as the old one (see SameValue). Adding a new key also
// fires readers of the key set.
func (r *Reactive) Set(key string, value any) {
	value = ToRaw(value)
	old, had := r.raw[key]
	if had && SameValue(old, value) {
		return
	}
	r.raw[key] = value
	r.rt.Trigger(r, key)
	if !had {
		r.rt.TriggerDep(r.iterateDep(false))
	}
}

// Delete removes key, firing its dependents and readers of the key set.
func (r *Reactive) Delete(key string) {
	if _, had := r.raw[key]; !had {
		return
	}
	delete(r.raw, key)
	r.rt.Trigger(r, key)
	r.rt.TriggerDep(r.iterateDep(false))
}

// Keys returns the sorted keys and tracks the key set.
func (r *Reactive) Keys() []string {
	if r.rt.IsTracking() {
		r.rt.TrackDep(r.iterateDep(true))
	}
	keys := make([]string, 0, len(r.raw))
	for k := range r.raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Len returns the number of keys and tracks the key set.
func (r *Reactive) Len() int {
	if r.rt.IsTracking() {
		r.rt.TrackDep(r.iterateDep(true))
	}
	return len(r.raw)
}

// toReactive wraps nested maps; any other value is returned as is.
func (rt *Runtime) toReactive(v any) any {
	if m, ok := v.(map[string]any); ok && m != nil {
		return rt.Reactive(m)
	}
	return v
}

// GetAs reads key and converts it to T, returning the zero value when the
// key is missing or holds another type.
func GetAs[T any](r *Reactive, key string) T {
	v, _ := r.Get(key).(T)
	return v
}
