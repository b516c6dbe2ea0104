// Package renderer reconciles VNode trees against a host tree.
//
// A Renderer owns a HostAdapter and patches new VNode trees into host
// containers: nodes of the same type and key are updated in place, others
// are replaced, and keyed child lists are diffed with a prefix/suffix scan
// followed by a longest-increasing-subsequence pass so the fewest host
// nodes move.
//
// Components are described by a *Component. Each mounted component gets a
// ComponentInstance whose render and patch cycle runs inside a reactive
// effect; writes to state read during render queue the effect on the
// scheduler, so any number of writes in one macrotask cause one re-render.
//
//	counter := &renderer.Component{
//	    Name: "Counter",
//	    Setup: func(props vdom.Props, ctx *renderer.SetupContext) any {
//	        count := ctx.Runtime().Ref(0)
//	        return func(rc *renderer.RenderContext) *vdom.VNode {
//	            return vdom.Button(
//	                vdom.OnClick(func() { count.SetValue(count.Peek().(int) + 1) }),
//	                fmt.Sprint(count.Value()),
//	            )
//	        }
//	    },
//	}
//
//	r := renderer.New(host)
//	if err := r.Render(vdom.Comp(counter), root); err != nil {
//	    log.Fatal(err)
//	}
package renderer
