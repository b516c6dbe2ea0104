// Package vtest provides testing helpers for vmini components.
//
// A Harness mounts a component into an in-memory host, records every host
// operation and runs reactive writes as one batched macrotask.
//
// # Quick Start
//
//	func TestCounter(t *testing.T) {
//	    h := vtest.Mount(t, Counter, vdom.Props{"start": 1})
//	    vtest.ExpectHTML(t, h, "<button>1</button>")
//
//	    h.Click("button")
//	    vtest.ExpectContains(t, h, "2")
//	}
//
// # Render Assertions
//
// Assert on the serialized host tree:
//
//	vtest.ExpectContains(t, h, "Welcome")
//	vtest.ExpectNotContains(t, h, "Error")
//	vtest.ExpectElement(t, h, "button")
//	vtest.ExpectAttribute(t, h, "class", "done")
//
// # Host Operations
//
// Reset the recorder before an update and check what it cost:
//
//	h.Reset()
//	h.Act(func() { store.Toggle(2) })
//	if h.Recorder().Moves() != 0 {
//	    t.Error("toggle should not move nodes")
//	}
//
// Static trees can be rendered without a harness:
//
//	html := vtest.RenderToString(vdom.Div(vdom.Class("card"), "hi"))
package vtest
