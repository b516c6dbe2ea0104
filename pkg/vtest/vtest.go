package vtest

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/vango-dev/vmini/internal/config"
	"github.com/vango-dev/vmini/pkg/app"
	"github.com/vango-dev/vmini/pkg/host"
	"github.com/vango-dev/vmini/pkg/renderer"
	"github.com/vango-dev/vmini/pkg/vdom"
)

// Harness is a mounted component under test.
type Harness struct {
	t    testing.TB
	app  *app.App
	mem  *host.MemHost
	rec  *host.Recorder
	root *host.Node
	logs *bytes.Buffer
}

// Option configures Mount.
type Option func(*mountConfig)

type mountConfig struct {
	provides [][2]any
	config   *config.Config
}

// WithProvide provides value under key to the mounted tree.
func WithProvide(key, value any) Option {
	return func(c *mountConfig) {
		c.provides = append(c.provides, [2]any{key, value})
	}
}

// WithConfig mounts with cfg instead of the defaults.
func WithConfig(cfg *config.Config) Option {
	return func(c *mountConfig) {
		c.config = cfg
	}
}

// Mount mounts comp with props and fails the test on error. The app is
// unmounted when the test ends.
func Mount(t testing.TB, comp *renderer.Component, props vdom.Props, opts ...Option) *Harness {
	t.Helper()
	var mc mountConfig
	for _, opt := range opts {
		opt(&mc)
	}

	h := &Harness{t: t, mem: host.NewMemHost(), logs: &bytes.Buffer{}}
	h.rec = host.NewRecorder(h.mem)
	h.root = h.mem.NewRoot()

	logger := slog.New(slog.NewTextHandler(h.logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	h.app = app.CreateApp(comp,
		app.WithConfig(mc.config),
		app.WithHost(h.rec),
		app.WithProps(props),
		app.WithLogger(logger),
	)
	for _, p := range mc.provides {
		h.app.Provide(p[0], p[1])
	}

	if err := h.app.Mount(h.root); err != nil {
		t.Fatalf("vtest: mount %s: %v", comp.ComponentName(), err)
	}
	t.Cleanup(func() {
		if h.app.IsMounted() {
			_ = h.app.Unmount()
		}
	})
	return h
}

// App returns the underlying app.
func (h *Harness) App() *app.App { return h.app }

// Root returns the host container.
func (h *Harness) Root() *host.Node { return h.root }

// Recorder returns the op recorder.
func (h *Harness) Recorder() *host.Recorder { return h.rec }

// Logs returns everything logged so far.
func (h *Harness) Logs() string { return h.logs.String() }

// HTML returns the serialized tree.
func (h *Harness) HTML() string { return host.InnerHTML(h.root) }

// Reset clears the recorded ops.
func (h *Harness) Reset() { h.rec.Reset() }

// Act runs fn as one macrotask and flushes the resulting updates.
func (h *Harness) Act(fn func()) {
	h.app.Loop().Do(fn)
}

// Find returns the first element with tag, or the first element whose
// attribute matches when selector has the form "[attr=value]".
func (h *Harness) Find(selector string) *host.Node {
	if strings.HasPrefix(selector, "[") && strings.HasSuffix(selector, "]") {
		key, value, _ := strings.Cut(selector[1:len(selector)-1], "=")
		return host.Find(h.root, key, value)
	}
	return findTag(h.root, selector)
}

// Dispatch fires event on the element matched by selector inside Act.
func (h *Harness) Dispatch(selector, event string, args ...any) {
	h.t.Helper()
	node := h.Find(selector)
	if node == nil {
		h.t.Fatalf("vtest: no element matches %q", selector)
	}
	h.Act(func() {
		if !h.mem.Dispatch(node, event, args...) {
			h.t.Errorf("vtest: %q has no %s listener", selector, event)
		}
	})
}

// Click dispatches a click on selector.
func (h *Harness) Click(selector string) {
	h.t.Helper()
	h.Dispatch(selector, "click")
}

func findTag(n *host.Node, tag string) *host.Node {
	for _, c := range n.Children {
		if c.Tag == tag {
			return c
		}
		if found := findTag(c, tag); found != nil {
			return found
		}
	}
	return nil
}

// RenderToString mounts a static tree into a throwaway host and returns
// its HTML, or "" if it fails to render.
func RenderToString(node *vdom.VNode) string {
	mem := host.NewMemHost()
	root := mem.NewRoot()
	r := renderer.New(mem, renderer.WithLogger(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))))
	if err := r.Render(node, root); err != nil {
		return ""
	}
	return host.InnerHTML(root)
}

// ExpectHTML asserts that the tree serializes to want exactly.
func ExpectHTML(t testing.TB, h *Harness, want string) {
	t.Helper()
	if got := h.HTML(); got != want {
		t.Errorf("HTML mismatch:\n got: %s\nwant: %s", truncate(got, 500), want)
	}
}

// ExpectContains asserts that the tree contains expected.
func ExpectContains(t testing.TB, h *Harness, expected string) {
	t.Helper()
	html := h.HTML()
	if !strings.Contains(html, expected) {
		t.Errorf("expected rendered output to contain %q, got:\n%s", expected, truncate(html, 500))
	}
}

// ExpectNotContains asserts that the tree does not contain unexpected.
func ExpectNotContains(t testing.TB, h *Harness, unexpected string) {
	t.Helper()
	html := h.HTML()
	if strings.Contains(html, unexpected) {
		t.Errorf("expected rendered output to NOT contain %q, got:\n%s", unexpected, truncate(html, 500))
	}
}

// ExpectElement asserts that the tree contains a tag element.
func ExpectElement(t testing.TB, h *Harness, tag string) {
	t.Helper()
	if findTag(h.root, tag) == nil {
		t.Errorf("expected rendered output to contain <%s> element, got:\n%s", tag, truncate(h.HTML(), 500))
	}
}

// ExpectAttribute asserts that some element has attr set to value.
func ExpectAttribute(t testing.TB, h *Harness, attr, value string) {
	t.Helper()
	if host.Find(h.root, attr, value) == nil {
		t.Errorf("expected attribute %s=%q not found, got:\n%s", attr, value, truncate(h.HTML(), 500))
	}
}

// truncate truncates a string to max length with ellipsis.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
