package demo

import (
	"fmt"

	"github.com/vango-dev/vmini/pkg/renderer"
	"github.com/vango-dev/vmini/pkg/vdom"
)

// TodoItem renders one entry. It emits "toggle" and "remove" with the
// item id.
var TodoItem = &renderer.Component{
	Name: "TodoItem",
	Render: func(rc *renderer.RenderContext) *vdom.VNode {
		todo := rc.Get("todo").(Todo)
		var done any
		if todo.Done {
			done = vdom.Class("done")
		}
		return vdom.Li(done,
			vdom.Input(vdom.Type("checkbox"), vdom.Checked(todo.Done),
				vdom.OnChange(func() { rc.Emit("toggle", todo.ID) })),
			vdom.Span(todo.Title),
			vdom.Button(vdom.OnClick(func() { rc.Emit("remove", todo.ID) }), "x"),
		)
	},
}

// TodoApp renders the list held by the injected *Store.
var TodoApp = &renderer.Component{
	Name: "TodoApp",
	Setup: func(_ vdom.Props, ctx *renderer.SetupContext) any {
		store, ok := ctx.Inject(StoreKey, nil).(*Store)
		if !ok {
			store = NewStore(ctx.Runtime())
		}

		// Created once so item props compare equal across renders
		toggle := func(id any) { store.Toggle(id.(int)) }
		remove := func(id any) { store.Remove(id.(int)) }

		return func(*renderer.RenderContext) *vdom.VNode {
			items := store.Visible()
			return vdom.Section(vdom.Class("todo"),
				vdom.H1(fmt.Sprintf("Todos (%d left)", store.Remaining())),
				vdom.Ul(vdom.Range(items, func(t Todo, _ int) *vdom.VNode {
					return vdom.Comp(TodoItem,
						vdom.Key(t.ID),
						vdom.Prop("todo", t),
						vdom.On("toggle", toggle),
						vdom.On("remove", remove),
					)
				})),
				vdom.Footer(vdom.Data("filter", store.Filter())),
			)
		}
	},
}
