package host

import (
	"strings"
	"testing"
)

func TestInsertAndRemove(t *testing.T) {
	h := NewMemHost()
	root := h.NewRoot()

	a := h.CreateElement("a")
	b := h.CreateElement("b")
	c := h.CreateElement("c")

	h.Insert(a, root, nil)
	h.Insert(c, root, nil)
	h.Insert(b, root, c)

	if got := InnerHTML(root); got != "<a></a><b></b><c></c>" {
		t.Fatalf("after inserts = %s", got)
	}
	if h.NextSibling(a) != b || h.NextSibling(c) != nil {
		t.Error("NextSibling wrong")
	}

	// Moving c to the front
	h.Insert(c, root, a)
	if got := InnerHTML(root); got != "<c></c><a></a><b></b>" {
		t.Errorf("after move = %s", got)
	}

	h.Remove(a)
	if got := InnerHTML(root); got != "<c></c><b></b>" {
		t.Errorf("after remove = %s", got)
	}
	if a.(*Node).Parent != nil {
		t.Error("removed node keeps its parent")
	}
	if h.NextSibling(a) != nil {
		t.Error("detached node should have no sibling")
	}
}

func TestNextSiblingReturnsUntypedNil(t *testing.T) {
	h := NewMemHost()
	root := h.NewRoot()
	a := h.CreateElement("a")
	h.Insert(a, root, nil)

	if next := h.NextSibling(a); next != nil {
		t.Errorf("NextSibling of last child = %#v, want nil interface", next)
	}
}

func TestInsertWithForeignAnchorPanics(t *testing.T) {
	h := NewMemHost()
	root := h.NewRoot()
	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	h.Insert(h.CreateElement("a"), root, h.CreateElement("b"))
}

func TestTextOps(t *testing.T) {
	h := NewMemHost()
	root := h.NewRoot()
	el := h.CreateElement("p")
	h.Insert(el, root, nil)

	h.SetElementText(el, "a < b")
	if got := HTML(el.(*Node)); got != "<p>a &lt; b</p>" {
		t.Errorf("HTML = %s", got)
	}
	h.SetElementText(el, "")
	if len(el.(*Node).Children) != 0 {
		t.Error("empty text should clear children")
	}

	txt := h.CreateText("x")
	h.Insert(txt, el, nil)
	h.SetText(txt, "y")
	if got := root.TextContent(); got != "y" {
		t.Errorf("TextContent = %q", got)
	}
}

func TestPatchPropAttributes(t *testing.T) {
	h := NewMemHost()
	el := h.CreateElement("input")

	h.PatchProp(el, "value", nil, "hi")
	h.PatchProp(el, "disabled", nil, true)
	h.PatchProp(el, "title", nil, `say "hi"`)
	if got := HTML(el.(*Node)); got != `<input disabled title="say &quot;hi&quot;" value="hi">` {
		t.Errorf("HTML = %s", got)
	}

	h.PatchProp(el, "disabled", true, false)
	h.PatchProp(el, "title", "x", nil)
	if got := HTML(el.(*Node)); got != `<input value="hi">` {
		t.Errorf("after removal = %s", got)
	}
}

func TestEventInvokers(t *testing.T) {
	h := NewMemHost()
	el := h.CreateElement("button")

	var calls []string
	h.PatchProp(el, "onClick", nil, func() { calls = append(calls, "first") })
	if !h.Dispatch(el, "click") {
		t.Fatal("handler not attached")
	}

	h.PatchProp(el, "onClick", nil, func(args ...any) {
		calls = append(calls, "second:"+args[0].(string))
	})
	h.Dispatch(el, "click", "arg")

	attached, removed, swapped := h.Subscriptions()
	if attached != 1 || swapped != 1 || removed != 0 {
		t.Errorf("subscriptions = %d/%d/%d, want 1/0/1", attached, removed, swapped)
	}

	h.PatchProp(el, "onClick", nil, nil)
	if h.Dispatch(el, "click") {
		t.Error("handler should be removed")
	}
	if got := strings.Join(calls, ","); got != "first,second:arg" {
		t.Errorf("calls = %s", got)
	}
	if strings.Contains(HTML(el.(*Node)), "onClick") {
		t.Error("handlers should not be serialized")
	}
}

func TestFind(t *testing.T) {
	h := NewMemHost()
	root := h.NewRoot()
	outer := h.CreateElement("div")
	inner := h.CreateElement("span")
	h.PatchProp(inner, "id", nil, "target")
	h.Insert(inner, outer, nil)
	h.Insert(outer, root, nil)

	if Find(root, "id", "target") != inner {
		t.Error("Find did not locate nested element")
	}
	if Find(root, "id", "missing") != nil {
		t.Error("Find returned a node for a missing value")
	}
}

func TestVoidElementsHaveNoClosingTag(t *testing.T) {
	h := NewMemHost()
	br := h.CreateElement("br")
	if got := HTML(br.(*Node)); got != "<br>" {
		t.Errorf("HTML = %s", got)
	}
}

func TestEscaping(t *testing.T) {
	tests := []struct {
		name string
		fn   func(string) string
		in   string
		want string
	}{
		{"text markup", escapeText, "a < b && c > d", "a &lt; b &amp;&amp; c &gt; d"},
		{"text quotes kept", escapeText, `it's "fine"`, `it's "fine"`},
		{"attr quote", escapeAttr, `say "hi"`, "say &quot;hi&quot;"},
		{"attr single quote kept", escapeAttr, "it's", "it's"},
		{"attr whitespace", escapeAttr, "a\nb\tc\r&", "a&#10;b&#9;c&#13;&amp;"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.fn(tt.in); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTextSerializesQuotesVerbatim(t *testing.T) {
	h := NewMemHost()
	el := h.CreateElement("p")
	h.Insert(h.CreateText(`don't "quote" <me>`), el, nil)
	if got := HTML(el.(*Node)); got != `<p>don't "quote" &lt;me&gt;</p>` {
		t.Errorf("HTML = %s", got)
	}
}
