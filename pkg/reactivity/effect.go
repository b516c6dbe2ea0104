package reactivity

import "github.com/vango-dev/vmini/internal/errors"

// Effect is a trackable computation.
//
// Running an effect records every reactive value it reads. When one of
// those values is later written with a different value the effect is
// triggered: its scheduler is called if it has one, otherwise it re-runs
// synchronously.
type Effect struct {
	id uint64
	rt *Runtime

	fn   func()
	name string

	// active is false once Stop has been called.
	active bool

	// deps are the dependency sets this effect is subscribed to.
	deps []*Dep

	scheduler func(*Effect)
	onStop    func()
	lazy      bool
}

// EffectOption configures an Effect.
type EffectOption func(*Effect)

// WithScheduler makes triggers call fn instead of re-running the effect.
func WithScheduler(fn func(e *Effect)) EffectOption {
	return func(e *Effect) {
		e.scheduler = fn
	}
}

// OnStop registers a teardown callback invoked once by Stop.
func OnStop(fn func()) EffectOption {
	return func(e *Effect) {
		e.onStop = fn
	}
}

// WithName labels the effect for logs and traces.
func WithName(name string) EffectOption {
	return func(e *Effect) {
		e.name = name
	}
}

// Lazy skips the initial run. The caller runs the effect when ready.
func Lazy() EffectOption {
	return func(e *Effect) {
		e.lazy = true
	}
}

// NewEffect builds an effect without running it.
func (rt *Runtime) NewEffect(fn func(), opts ...EffectOption) *Effect {
	if fn == nil {
		panic(errors.New("E002"))
	}
	e := &Effect{
		id:     nextID(),
		rt:     rt,
		fn:     fn,
		active: true,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Effect builds an effect and runs it once so its first reads populate
// the dependency sets. The returned effect is the runner: call Run to
// execute it again and Stop to detach it.
//
// Example:
//
//	e := rt.Effect(func() {
//	    fmt.Println(state.Get("name"))
//	}, reactivity.OnStop(func() { fmt.Println("stopped") }))
//	defer e.Stop()
func (rt *Runtime) Effect(fn func(), opts ...EffectOption) *Effect {
	e := rt.NewEffect(fn, opts...)
	if !e.lazy {
		e.Run()
	}
	return e
}

// ID returns the unique identifier of the effect.
func (e *Effect) ID() uint64 {
	return e.id
}

// Name returns the label given with WithName.
func (e *Effect) Name() string {
	return e.name
}

// Active reports whether the effect has not been stopped.
func (e *Effect) Active() bool {
	return e.active
}

// Deps returns the dependency sets the effect is currently subscribed to.
func (e *Effect) Deps() []*Dep {
	out := make([]*Dep, len(e.deps))
	copy(out, e.deps)
	return out
}

// Run executes the effect.
//
// An active effect first drops every subscription from its previous run,
// so branches it no longer takes stop triggering it, then re-collects
// dependencies while fn runs. A stopped effect still executes fn but
// collects nothing.
func (e *Effect) Run() {
	if !e.active {
		e.fn()
		return
	}

	rt := e.rt
	e.cleanupDeps()

	prevEffect, prevTrack := rt.activeEffect, rt.shouldTrack
	rt.activeEffect = e
	rt.shouldTrack = true
	defer func() {
		rt.activeEffect = prevEffect
		rt.shouldTrack = prevTrack
	}()

	rt.metrics.RecordEffectRun()
	e.fn()
}

// Stop detaches the effect from every dependency set, calls the OnStop
// callback and marks the effect inactive. Calling Stop again is a no-op.
func (e *Effect) Stop() {
	if !e.active {
		return
	}
	e.cleanupDeps()
	if onStop := e.onStop; onStop != nil {
		e.onStop = nil
		onStop()
	}
	e.active = false
}

// Stop stops the effect. It is a convenience for e.Stop().
func Stop(e *Effect) {
	if e != nil {
		e.Stop()
	}
}

func (e *Effect) cleanupDeps() {
	for _, dep := range e.deps {
		dep.remove(e)
	}
	e.deps = e.deps[:0]
}
