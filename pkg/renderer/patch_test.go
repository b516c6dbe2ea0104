package renderer

import (
	stderrors "errors"
	"math/rand"
	"strings"
	"testing"

	"github.com/vango-dev/vmini/internal/errors"
	"github.com/vango-dev/vmini/pkg/host"
	"github.com/vango-dev/vmini/pkg/vdom"
)

func TestMountElementTree(t *testing.T) {
	f := newFixture(t)
	f.render(t, vdom.Div(vdom.Class("card"), vdom.ID("main"),
		vdom.H1("Title"),
		vdom.P("a ", vdom.Strong("b")),
		vdom.Input(vdom.Disabled(true)),
	))

	want := `<div class="card" id="main"><h1>Title</h1><p>a <strong>b</strong></p><input disabled></div>`
	if got := f.html(); got != want {
		t.Errorf("HTML =\n%s\nwant\n%s", got, want)
	}

	// Children are inserted before their parent is attached
	ops := f.rec.Ops()
	last := ops[len(ops)-1]
	if last.Kind != host.OpInsert || last.Node != f.r.Root(f.root).El {
		t.Errorf("last op = %v, want insert of the root element", last)
	}
}

func TestKeyedSingleMove(t *testing.T) {
	f := newFixture(t)
	f.render(t, keyedList("a", "b", "c", "d"))

	old := f.r.Root(f.root)
	aEl, dEl := old.Children[0].El, old.Children[3].El
	f.rec.Reset()

	f.render(t, keyedList("a", "c", "b", "d"))

	if got := f.html(); got != "<ul><li>a</li><li>c</li><li>b</li><li>d</li></ul>" {
		t.Fatalf("HTML = %s", got)
	}
	if f.rec.Moves() != 1 {
		t.Errorf("moves = %d, want 1", f.rec.Moves())
	}
	if f.rec.Mounts() != 0 || f.rec.Count(host.OpCreateElement) != 0 {
		t.Errorf("mounts = %d, creates = %d, want 0", f.rec.Mounts(), f.rec.Count(host.OpCreateElement))
	}
	if f.rec.Count(host.OpRemove) != 0 {
		t.Errorf("removes = %d, want 0", f.rec.Count(host.OpRemove))
	}
	if f.touched(aEl) || f.touched(dEl) {
		t.Error("a and d should be untouched")
	}
}

func TestUnmountAllChildren(t *testing.T) {
	f := newFixture(t)
	f.render(t, keyedList("1", "2", "3"))
	f.rec.Reset()

	f.render(t, keyedList())

	if f.rec.Count(host.OpRemove) != 3 {
		t.Errorf("removes = %d, want 3", f.rec.Count(host.OpRemove))
	}
	if f.rec.Len() != 3 {
		t.Errorf("ops = %v, want only the three removals", f.rec.Ops())
	}
	if got := f.html(); got != "<ul></ul>" {
		t.Errorf("HTML = %s", got)
	}
}

func TestMountAllChildrenInOrder(t *testing.T) {
	f := newFixture(t)
	f.render(t, keyedList())
	f.rec.Reset()

	f.render(t, keyedList("1", "2", "3"))

	var inserted []string
	for _, op := range f.rec.Ops() {
		if op.Kind == host.OpInsert {
			inserted = append(inserted, op.Node.(*host.Node).TextContent())
		}
	}
	if strings.Join(inserted, ",") != "1,2,3" {
		t.Errorf("insert order = %v, want 1,2,3", inserted)
	}
	if f.rec.Count(host.OpRemove) != 0 || f.rec.Moves() != 0 {
		t.Error("mounting into an empty list should not remove or move")
	}
	if got := f.html(); got != "<ul><li>1</li><li>2</li><li>3</li></ul>" {
		t.Errorf("HTML = %s", got)
	}
}

func TestPatchAgainstIdenticalCopyIsNoop(t *testing.T) {
	f := newFixture(t)
	onClick := func() {}
	child := &Component{Name: "Badge", Render: func(rc *RenderContext) *vdom.VNode {
		return vdom.Span(vdom.Class("badge"), rc.Get("label").(string))
	}}

	tree := vdom.Div(vdom.Class("app"),
		vdom.Button(vdom.OnClick(onClick), vdom.Disabled(false), "go"),
		keyedList("x", "y", "z"),
		vdom.Fragment(vdom.Text("one"), vdom.Text("two")),
		vdom.Comp(child, vdom.Prop("label", "new")),
	)
	f.render(t, tree)
	attached, _, _ := f.mem.Subscriptions()
	f.rec.Reset()

	f.render(t, tree.Clone())

	if f.rec.Len() != 0 {
		t.Errorf("identical patch emitted %d ops: %v", f.rec.Len(), f.rec.Ops())
	}
	if a, r, s := f.mem.Subscriptions(); a != attached || r != 0 || s != 0 {
		t.Errorf("listeners churned: attached %d->%d removed %d swapped %d", attached, a, r, s)
	}
}

func TestKeyedRandomPermutations(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	randomKeys := func() []string {
		perm := rng.Perm(12)
		n := rng.Intn(len(perm) + 1)
		keys := make([]string, n)
		for i := 0; i < n; i++ {
			keys[i] = string(rune('a' + perm[i]))
		}
		return keys
	}

	for trial := 0; trial < 200; trial++ {
		f := newFixture(t)
		oldKeys, newKeys := randomKeys(), randomKeys()

		f.render(t, keyedList(oldKeys...))
		before := make(map[string]any)
		oldIndex := make(map[string]int)
		for i, c := range f.r.Root(f.root).Children {
			before[c.Key] = c.El
			oldIndex[c.Key] = i
		}
		f.rec.Reset()

		f.render(t, keyedList(newKeys...))

		var want strings.Builder
		want.WriteString("<ul>")
		for _, k := range newKeys {
			want.WriteString("<li>" + k + "</li>")
		}
		want.WriteString("</ul>")
		if got := f.html(); got != want.String() {
			t.Fatalf("%v -> %v: HTML = %s", oldKeys, newKeys, got)
		}

		var survivors []int
		added := 0
		for _, c := range f.r.Root(f.root).Children {
			if el, ok := before[c.Key]; ok {
				if el != c.El {
					t.Fatalf("%v -> %v: key %s was recreated", oldKeys, newKeys, c.Key)
				}
				survivors = append(survivors, oldIndex[c.Key])
			} else {
				added++
			}
		}

		wantMoves := len(survivors) - len(vdom.LIS(survivors))
		if f.rec.Moves() != wantMoves {
			t.Fatalf("%v -> %v: moves = %d, want %d", oldKeys, newKeys, f.rec.Moves(), wantMoves)
		}
		if f.rec.Mounts() != added {
			t.Fatalf("%v -> %v: mounts = %d, want %d", oldKeys, newKeys, f.rec.Mounts(), added)
		}
		if removed := len(oldKeys) - len(survivors); f.rec.Count(host.OpRemove) != removed {
			t.Fatalf("%v -> %v: removes = %d, want %d", oldKeys, newKeys, f.rec.Count(host.OpRemove), removed)
		}
	}
}

func TestReplaceKeepsPosition(t *testing.T) {
	f := newFixture(t)
	f.render(t, vdom.Div(vdom.P("1"), vdom.Div("2"), vdom.P("3")))
	f.render(t, vdom.Div(vdom.P("1"), vdom.Span("2"), vdom.P("3")))

	if got := f.html(); got != "<div><p>1</p><span>2</span><p>3</p></div>" {
		t.Errorf("HTML = %s", got)
	}
}

func TestReplaceRootOnKeyChange(t *testing.T) {
	f := newFixture(t)
	f.render(t, vdom.Div(vdom.Key("a"), "x"))
	first := f.r.Root(f.root).El
	f.render(t, vdom.Div(vdom.Key("b"), "x"))

	if f.r.Root(f.root).El == first {
		t.Error("different key should create a new host node")
	}
	if got := f.html(); got != "<div>x</div>" {
		t.Errorf("HTML = %s", got)
	}
}

func TestTextNodeUpdate(t *testing.T) {
	f := newFixture(t)
	f.render(t, vdom.Div("a ", vdom.Text("b")))
	f.rec.Reset()

	f.render(t, vdom.Div("a ", vdom.Text("c")))
	if f.rec.Count(host.OpSetText) != 1 || f.rec.Len() != 1 {
		t.Errorf("ops = %v, want one setText", f.rec.Ops())
	}
	if got := f.html(); got != "<div>a c</div>" {
		t.Errorf("HTML = %s", got)
	}
}

func TestChildShapeTransitions(t *testing.T) {
	f := newFixture(t)
	steps := []struct {
		name string
		node *vdom.VNode
		want string
	}{
		{"text", vdom.Div("hello"), "<div>hello</div>"},
		{"same text", vdom.Div("hello"), "<div>hello</div>"},
		{"text to array", vdom.Div(vdom.Span("a"), vdom.Span("b")), "<div><span>a</span><span>b</span></div>"},
		{"array to text", vdom.Div("bye"), "<div>bye</div>"},
		{"text to none", vdom.Div(), "<div></div>"},
		{"none to array", vdom.Div(vdom.Span("a")), "<div><span>a</span></div>"},
		{"array to none", vdom.Div(), "<div></div>"},
		{"none to text", vdom.Div("x"), "<div>x</div>"},
	}
	for _, s := range steps {
		f.render(t, s.node)
		if got := f.html(); got != s.want {
			t.Fatalf("%s: HTML = %s, want %s", s.name, got, s.want)
		}
	}

	f.rec.Reset()
	f.render(t, vdom.Div("x"))
	if f.rec.Len() != 0 {
		t.Errorf("unchanged text children emitted %v", f.rec.Ops())
	}
}

func TestPropPatching(t *testing.T) {
	f := newFixture(t)
	f.render(t, vdom.Div(vdom.Class("a"), vdom.ID("x"), vdom.Title("t")))
	f.rec.Reset()

	f.render(t, vdom.Div(vdom.Class("b"), vdom.ID("x"), vdom.Data("role", "r")))

	var keys []string
	for _, op := range f.rec.Ops() {
		keys = append(keys, op.Key)
	}
	if got := strings.Join(keys, ","); got != "class,data-role,title" {
		t.Errorf("patched props = %s, want class,data-role,title", got)
	}
	if got := f.html(); got != `<div class="b" data-role="r" id="x"></div>` {
		t.Errorf("HTML = %s", got)
	}
}

func TestHandlerSwapDoesNotResubscribe(t *testing.T) {
	f := newFixture(t)
	var got []string
	handler := func(label string) func() {
		return func() { got = append(got, label) }
	}

	f.render(t, vdom.Button(vdom.OnClick(handler("first"))))
	btn := f.r.Root(f.root).El
	f.render(t, vdom.Button(vdom.OnClick(handler("second"))))
	f.mem.Dispatch(btn, "click")

	if strings.Join(got, ",") != "second" {
		t.Errorf("handler calls = %v", got)
	}
	attached, removed, swapped := f.mem.Subscriptions()
	if attached != 1 || removed != 0 || swapped != 1 {
		t.Errorf("subscriptions = %d/%d/%d, want 1/0/1", attached, removed, swapped)
	}

	f.render(t, vdom.Button())
	if f.mem.Dispatch(btn, "click") {
		t.Error("removed handler still attached")
	}
}

func TestFragments(t *testing.T) {
	f := newFixture(t)
	frag := func(key string, items ...string) *vdom.VNode {
		children := make([]*vdom.VNode, len(items))
		for i, s := range items {
			children[i] = vdom.Span(s)
		}
		return vdom.Fragment(vdom.Key(key), children)
	}

	f.render(t, vdom.Div(frag("a", "1", "2"), frag("b"), frag("c", "3")))
	if got := f.html(); got != "<div><span>1</span><span>2</span><span>3</span></div>" {
		t.Fatalf("mount HTML = %s", got)
	}

	// Reorder fragments and change their contents
	f.render(t, vdom.Div(frag("c", "3", "4"), frag("a", "1"), frag("b", "5")))
	if got := f.html(); got != "<div><span>3</span><span>4</span><span>1</span><span>5</span></div>" {
		t.Fatalf("update HTML = %s", got)
	}

	f.render(t, vdom.Div(frag("a", "1")))
	if got := f.html(); got != "<div><span>1</span></div>" {
		t.Fatalf("unmount HTML = %s", got)
	}
	if n := len(f.r.Root(f.root).El.(*host.Node).Children); n != 3 {
		t.Errorf("host children = %d, want span plus two fragment bounds", n)
	}
}

func TestMissingKeyWarning(t *testing.T) {
	f := newFixture(t)
	f.render(t, vdom.Ul(vdom.Li(vdom.Key("a")), vdom.Li()))
	f.render(t, vdom.Ul(vdom.Li(), vdom.Li(vdom.Key("a"))))

	if !strings.Contains(f.logs.String(), "W001") {
		t.Errorf("expected W001 warning, logs: %s", f.logs.String())
	}
	if got := f.html(); got != "<ul><li></li><li></li></ul>" {
		t.Errorf("HTML = %s", got)
	}

	quietFix := newFixture(t, WithWarnMissingKeys(false))
	quietFix.render(t, vdom.Ul(vdom.Li(vdom.Key("a")), vdom.Li()))
	quietFix.render(t, vdom.Ul(vdom.Li(), vdom.Li(vdom.Key("a"))))
	if strings.Contains(quietFix.logs.String(), "W001") {
		t.Error("warning should be disabled")
	}
}

func TestUnkeyedMiddleMatchesByPosition(t *testing.T) {
	f := newFixture(t, WithLogger(quiet()))
	f.render(t, vdom.Ul(vdom.Li(vdom.Key("a")), vdom.Li("x"), vdom.Li(vdom.Key("b"))))
	mid := f.r.Root(f.root).Children[1].El

	f.render(t, vdom.Ul(vdom.Li(vdom.Key("b")), vdom.Li("y"), vdom.Li(vdom.Key("a"))))

	if f.r.Root(f.root).Children[1].El != mid {
		t.Error("unkeyed node at the same window position should be reused")
	}
	if got := f.html(); got != "<ul><li></li><li>y</li><li></li></ul>" {
		t.Errorf("HTML = %s", got)
	}
}

func TestRenderNilUnmountsRoot(t *testing.T) {
	f := newFixture(t)
	f.render(t, keyedList("a"))
	f.render(t, nil)
	if f.html() != "" || f.r.Root(f.root) != nil {
		t.Errorf("root not unmounted: %s", f.html())
	}
	// Unmounting twice is a no-op
	f.render(t, nil)
}

type nilHost struct{ *host.MemHost }

func (nilHost) CreateElement(string) Node { return nil }

func TestClassifiedErrors(t *testing.T) {
	t.Run("unknown shape", func(t *testing.T) {
		f := newFixture(t)
		err := f.r.Render(&vdom.VNode{Kind: vdom.KindElement, Tag: "div"}, f.root)
		assertCode(t, err, "E201")
		var verr *errors.VmError
		if stderrors.As(err, &verr) && !strings.HasPrefix(verr.Detail, "<div> has kind Element") {
			t.Errorf("detail = %q, want it to name the node", verr.Detail)
		}
	})

	t.Run("nil host node", func(t *testing.T) {
		mem := host.NewMemHost()
		r := New(nilHost{mem}, WithLogger(quiet()))
		err := r.Render(vdom.Div(), mem.NewRoot())
		assertCode(t, err, "E202")
	})

	t.Run("no render function", func(t *testing.T) {
		f := newFixture(t)
		err := f.r.Render(vdom.Comp(&Component{Name: "Broken"}), f.root)
		assertCode(t, err, "E203")
	})

	t.Run("other panics propagate", func(t *testing.T) {
		f := newFixture(t)
		boom := &Component{Render: func(*RenderContext) *vdom.VNode { panic("boom") }}
		defer func() {
			if recover() != "boom" {
				t.Error("expected the original panic")
			}
		}()
		_ = f.r.Render(vdom.Comp(boom), f.root)
	})
}

func assertCode(t *testing.T, err error, code string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s, got nil", code)
	}
	if !IsRenderError(err) {
		t.Errorf("IsRenderError(%v) = false", err)
	}
	if !strings.Contains(err.Error(), code) {
		t.Errorf("error %q does not carry %s", err, code)
	}
}
