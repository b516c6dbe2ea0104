// Package host provides in-memory host adapters for the renderer.
//
// MemHost keeps a plain tree of element and text nodes, which is enough to
// run components end to end without a browser: event handlers are attached
// through invokers, so swapping a handler never re-subscribes, and HTML
// serializes the tree for assertions.
//
// Recorder wraps any adapter and records every mutating call. Tests use it
// to count mounts, moves and removals; the devtools server streams the same
// records to inspector clients.
//
//	mem := host.NewMemHost()
//	rec := host.NewRecorder(mem)
//	r := renderer.New(rec)
//
//	root := mem.CreateElement("div")
//	r.Render(vdom.Div("hello"), root)
//
//	fmt.Println(host.HTML(root))  // <div><div>hello</div></div>
//	fmt.Println(rec.Count(host.OpInsert))
package host

// Adapter is the host contract the renderer drives. It mirrors
// renderer.HostAdapter so this package does not depend on the renderer.
type Adapter interface {
	CreateElement(tag string) any
	CreateText(content string) any
	SetText(node any, content string)
	SetElementText(node any, content string)
	Insert(node, container, anchor any)
	Remove(node any)
	PatchProp(node any, key string, prev, next any)
	NextSibling(node any) any
}
