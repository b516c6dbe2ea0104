// Package errors provides structured, coded errors for vmini.
//
// Every error carries a code (e.g. "E201") that maps to a registered
// template with a category, a short message and a longer explanation.
// Warnings use the same registry with a "W" prefix and are logged rather
// than returned.
//
// # Error Categories
//
//   - reactivity: dependency tracking and effect misuse
//   - scheduler: job queue failures (recovered job panics)
//   - render: reconciliation failures (unknown vnode shapes, bad components)
//   - host: host adapter contract violations
//   - config: vmini.json / vmini.toml problems
//   - cli: command line usage errors
//
// # Usage
//
//	err := errors.New("E201").
//	    WithDetail("vnode kind 7 is not renderable").
//	    WithSuggestion("Build vnodes with vdom.H, vdom.Text or vdom.Fragment")
//
//	fmt.Println(err.Format())
package errors
