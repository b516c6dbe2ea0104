package vtest

import (
	"fmt"
	"testing"

	"github.com/vango-dev/vmini/pkg/renderer"
	"github.com/vango-dev/vmini/pkg/vdom"
)

var counter = &renderer.Component{
	Name: "Counter",
	Setup: func(props vdom.Props, ctx *renderer.SetupContext) any {
		start, _ := props["start"].(int)
		return map[string]any{"n": ctx.Runtime().Ref(start)}
	},
	Render: func(rc *renderer.RenderContext) *vdom.VNode {
		n := rc.Get("n").(int)
		return vdom.Div(
			vdom.Button(vdom.Data("action", "inc"), vdom.OnClick(func() { rc.Set("n", n+1) }), "+"),
			vdom.Span(vdom.Class(fmt.Sprintf("n%d", n)), fmt.Sprint(n)),
		)
	},
}

func TestHarness(t *testing.T) {
	h := Mount(t, counter, vdom.Props{"start": 1})
	ExpectHTML(t, h, `<div><button data-action="inc">+</button><span class="n1">1</span></div>`)
	ExpectElement(t, h, "span")

	h.Reset()
	h.Click("[data-action=inc]")
	h.Click("button")

	ExpectContains(t, h, ">3<")
	ExpectNotContains(t, h, ">1<")
	ExpectAttribute(t, h, "class", "n3")
	if h.Recorder().Count("createElement") != 0 {
		t.Errorf("clicks should patch in place, ops: %v", h.Recorder().Ops())
	}
}

func TestHarnessProvide(t *testing.T) {
	themed := &renderer.Component{
		Name: "Themed",
		Setup: func(_ vdom.Props, ctx *renderer.SetupContext) any {
			theme := ctx.Inject("theme", "light")
			return func(*renderer.RenderContext) *vdom.VNode {
				return vdom.P(vdom.Class(theme.(string)))
			}
		},
	}
	h := Mount(t, themed, nil, WithProvide("theme", "dark"))
	ExpectAttribute(t, h, "class", "dark")
}

func TestRenderToString(t *testing.T) {
	tests := []struct {
		name string
		node *vdom.VNode
		want string
	}{
		{"element", vdom.Div(vdom.Class("card"), "hi"), `<div class="card">hi</div>`},
		{"escaping", vdom.P("a < b"), "<p>a &lt; b</p>"},
		{"void", vdom.Input(vdom.Type("text")), `<input type="text">`},
		{"fragment", vdom.Fragment(vdom.Em("x"), "y"), "<em>x</em>y"},
		{"invalid", &vdom.VNode{Kind: vdom.KindElement}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RenderToString(tt.node); got != tt.want {
				t.Errorf("RenderToString = %q, want %q", got, tt.want)
			}
		})
	}
}
