package reactivity

import (
	"log/slog"
	"sync"
	"weak"

	"github.com/vango-dev/vmini/pkg/metrics"
)

// Runtime holds the tracking gate and the dependency registry.
//
// The tracking gate is the currently running effect plus a flag that says
// whether reads should register dependencies. Both are restored after every
// run, so reads made after an effect returns are never attributed to it.
type Runtime struct {
	// activeEffect is the effect whose reads are being tracked.
	activeEffect *Effect

	// shouldTrack gates tracking even while an effect is active.
	shouldTrack bool

	// wrappers maps a raw map identity to its Reactive wrapper.
	// Guarded by wrappersMu because GC cleanups run on their own goroutine.
	wrappers   map[uintptr]weak.Pointer[Reactive]
	wrappersMu sync.Mutex

	logger  *slog.Logger
	metrics *metrics.Collector
}

// Option configures a Runtime.
type Option func(*Runtime)

// WithLogger sets the logger used for debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(rt *Runtime) {
		if logger != nil {
			rt.logger = logger
		}
	}
}

// WithMetrics records effect runs and triggers on the collector.
func WithMetrics(c *metrics.Collector) Option {
	return func(rt *Runtime) {
		rt.metrics = c
	}
}

// NewRuntime creates an empty runtime.
func NewRuntime(opts ...Option) *Runtime {
	rt := &Runtime{
		wrappers: make(map[uintptr]weak.Pointer[Reactive]),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(rt)
	}
	return rt
}

var (
	defaultRuntime     *Runtime
	defaultRuntimeOnce sync.Once
)

// Default returns the process-wide runtime.
func Default() *Runtime {
	defaultRuntimeOnce.Do(func() {
		defaultRuntime = NewRuntime()
	})
	return defaultRuntime
}

// ActiveEffect returns the effect currently collecting dependencies, or nil.
func (rt *Runtime) ActiveEffect() *Effect {
	return rt.activeEffect
}

// IsTracking reports whether a read right now would register a dependency.
func (rt *Runtime) IsTracking() bool {
	return rt.shouldTrack && rt.activeEffect != nil && rt.activeEffect.active
}

// Untracked runs fn with tracking disabled.
//
// Example:
//
//	rt.Effect(func() {
//	    total := state.Get("total")
//	    rt.Untracked(func() {
//	        log.Println("label is", state.Get("label")) // no dependency
//	    })
//	    _ = total
//	})
func (rt *Runtime) Untracked(fn func()) {
	prev := rt.shouldTrack
	rt.shouldTrack = false
	defer func() { rt.shouldTrack = prev }()
	fn()
}

// Track registers the active effect as a dependent of (target, key).
func (rt *Runtime) Track(target *Reactive, key string) {
	if target == nil || !rt.IsTracking() {
		return
	}
	rt.TrackDep(target.depFor(key, true))
}

// TrackDep adds the active effect to dep, recording the back-reference.
func (rt *Runtime) TrackDep(dep *Dep) {
	if dep == nil || !rt.IsTracking() {
		return
	}
	e := rt.activeEffect
	if dep.add(e) {
		e.deps = append(e.deps, dep)
	}
}

// Trigger fires every effect subscribed to (target, key).
// A key nobody depends on is a no-op.
func (rt *Runtime) Trigger(target *Reactive, key string) {
	if target == nil {
		return
	}
	rt.TriggerDep(target.depFor(key, false))
}

// TriggerDep fires every effect in dep.
//
// The dep is snapshotted first because running an effect can change the
// membership of the very set being walked (it re-tracks, stops itself or
// triggers again). Effects with a scheduler are handed to it instead of
// running, including the effect currently running: a render that writes
// state it read gets another pass later. A running effect without a
// scheduler is skipped so it does not recurse into itself.
func (rt *Runtime) TriggerDep(dep *Dep) {
	if dep == nil || len(dep.subs) == 0 {
		return
	}
	rt.metrics.RecordTrigger()

	effects := dep.snapshot()
	for _, e := range effects {
		if !e.active {
			continue
		}
		if e.scheduler != nil {
			e.scheduler(e)
			continue
		}
		if e != rt.activeEffect {
			e.Run()
		}
	}
}
