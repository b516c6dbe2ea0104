// Package scheduler batches reactive updates.
//
// A Loop is a single-goroutine executor with two queues: macrotasks posted
// from any goroutine with Dispatch, and microtasks added with Enqueue. After
// every macrotask the loop drains all microtasks, which is the point where
// queued work becomes visible.
//
// A Queue sits on a Loop and collects jobs (usually effects) triggered
// during a macrotask. Each job runs at most once per flush, in the order it
// was first queued:
//
//	loop := scheduler.NewLoop()
//	queue := scheduler.NewQueue(loop)
//
//	e := rt.Effect(render, reactivity.WithScheduler(func(e *reactivity.Effect) {
//	    queue.QueueJob(e)
//	}))
//
//	loop.Do(func() {
//	    state.Set("a", 1)
//	    state.Set("b", 2)
//	})
//	// render ran once
//
// Everything except Enqueue and Dispatch must be called on the loop
// goroutine.
package scheduler
