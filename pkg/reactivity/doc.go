// Package reactivity provides the dependency tracking core of vmini.
//
// Plain maps are wrapped in a Reactive target whose Get and Set calls
// record and fire dependencies. An Effect is a computation that runs once
// immediately and re-runs whenever a value it read during its last run is
// written with a different value.
//
//	rt := reactivity.NewRuntime()
//	state := rt.Reactive(map[string]any{"count": 0})
//
//	rt.Effect(func() {
//	    fmt.Println("count is", state.Get("count"))
//	})
//
//	state.Set("count", 1) // prints "count is 1"
//
// # Dependency Registry
//
// Every Reactive target owns its dependency sets, one Dep per key, created
// lazily on the first tracked read. The identity cache that maps a raw map
// to its wrapper only holds weak pointers, so a target nobody references
// is collected together with its deps.
//
// # Schedulers
//
// An effect created WithScheduler does not re-run synchronously when
// triggered. Its scheduler is called instead, which is how component
// updates are redirected into the job queue.
//
// # Threading
//
// A Runtime is single-threaded. All reads, writes and effect runs for a
// runtime must happen on one goroutine, normally the scheduler loop.
// Other goroutines hand work to that goroutine with scheduler.Loop.Dispatch.
package reactivity
