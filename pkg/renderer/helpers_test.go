package renderer

import (
	"bytes"
	"io"
	"log/slog"
	"testing"

	"github.com/vango-dev/vmini/pkg/host"
	"github.com/vango-dev/vmini/pkg/vdom"
)

type fixture struct {
	r    *Renderer
	mem  *host.MemHost
	rec  *host.Recorder
	root *host.Node
	logs *bytes.Buffer
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()
	mem := host.NewMemHost()
	rec := host.NewRecorder(mem)
	logs := &bytes.Buffer{}
	logger := slog.New(slog.NewTextHandler(logs, nil))
	r := New(rec, append([]Option{WithLogger(logger)}, opts...)...)
	return &fixture{r: r, mem: mem, rec: rec, root: mem.NewRoot(), logs: logs}
}

func (f *fixture) render(t *testing.T, vnode *vdom.VNode) {
	t.Helper()
	if err := f.r.Render(vnode, f.root); err != nil {
		t.Fatalf("Render: %v", err)
	}
}

// flush runs every queued microtask, which includes pending component
// updates.
func (f *fixture) flush() {
	f.r.Queue().Loop().Drain()
}

// act runs fn as a macrotask and drains the queue afterwards.
func (f *fixture) act(fn func()) {
	f.r.Queue().Loop().Do(fn)
}

func (f *fixture) html() string {
	return host.InnerHTML(f.root)
}

// touched reports whether any recorded op acted on node.
func (f *fixture) touched(node any) bool {
	for _, op := range f.rec.Ops() {
		if op.Node == node {
			return true
		}
	}
	return false
}

func keyedList(keys ...string) *vdom.VNode {
	return vdom.Ul(vdom.Range(keys, func(k string, _ int) *vdom.VNode {
		return vdom.Li(vdom.Key(k), k)
	}))
}

func quiet() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
