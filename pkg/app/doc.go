// Package app bootstraps a component tree: it builds the reactive
// runtime, the event loop, the job queue and the renderer from a config,
// and mounts a root component into a host container.
//
//	a := app.CreateApp(Root, app.WithConfig(cfg))
//	a.Provide("theme", "dark")
//	if err := a.Mount(container); err != nil {
//	    return err
//	}
//	a.Loop().Do(func() { /* reactive writes */ })
package app
