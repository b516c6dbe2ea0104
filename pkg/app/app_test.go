package app

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/vango-dev/vmini/internal/config"
	"github.com/vango-dev/vmini/pkg/host"
	"github.com/vango-dev/vmini/pkg/reactivity"
	"github.com/vango-dev/vmini/pkg/renderer"
	"github.com/vango-dev/vmini/pkg/vdom"
)

func greeter(count **reactivity.Ref) *renderer.Component {
	return &renderer.Component{
		Name: "Greeter",
		Setup: func(props vdom.Props, ctx *renderer.SetupContext) any {
			*count = ctx.Runtime().Ref(0)
			theme := ctx.Inject("theme", "plain")
			return func(rc *renderer.RenderContext) *vdom.VNode {
				return vdom.P(fmt.Sprintf("%v %v %v", rc.Get("name"), (*count).Value(), theme))
			}
		},
	}
}

func TestMountAndUnmount(t *testing.T) {
	mem := host.NewMemHost()
	var count *reactivity.Ref
	a := CreateApp(greeter(&count),
		WithHost(mem),
		WithProps(vdom.Props{"name": "vmini"}),
		WithLogger(NewLogger(&bytes.Buffer{}, config.LogConfig{})),
	).Provide("theme", "dark")

	root := mem.NewRoot()
	if err := a.Mount(root); err != nil {
		t.Fatalf("Mount: %v", err)
	}
	if got := host.InnerHTML(root); got != "<p>vmini 0 dark</p>" {
		t.Errorf("HTML = %s", got)
	}
	if inst := a.Instance(); inst == nil || inst.Name() != "Greeter" {
		t.Errorf("Instance = %v", inst)
	}

	a.Loop().Do(func() {
		count.SetValue(1)
		count.SetValue(2)
	})
	if got := host.InnerHTML(root); got != "<p>vmini 2 dark</p>" {
		t.Errorf("HTML after update = %s", got)
	}

	if err := a.Mount(root); err == nil || !strings.Contains(err.Error(), "E204") {
		t.Errorf("second Mount error = %v, want E204", err)
	}

	inst := a.Instance()
	if err := a.Unmount(); err != nil {
		t.Fatalf("Unmount: %v", err)
	}
	if host.InnerHTML(root) != "" || !inst.IsUnmounted() || a.IsMounted() {
		t.Error("root not unmounted")
	}
	if err := a.Unmount(); err == nil || !strings.Contains(err.Error(), "E205") {
		t.Errorf("second Unmount error = %v, want E205", err)
	}
}

func TestConfigIsApplied(t *testing.T) {
	cfg := config.New()
	warn := false
	cfg.Renderer.WarnMissingKeys = &warn
	cfg.Scheduler.MaxFlushPasses = 3

	var logs bytes.Buffer
	var flip *reactivity.Ref
	list := &renderer.Component{
		Name: "List",
		Setup: func(_ vdom.Props, ctx *renderer.SetupContext) any {
			flip = ctx.Runtime().Ref(false)
			return map[string]any{"flip": flip}
		},
		Render: func(rc *renderer.RenderContext) *vdom.VNode {
			if rc.Get("flip").(bool) {
				return vdom.Ul(vdom.Li(), vdom.Li(vdom.Key("a")))
			}
			return vdom.Ul(vdom.Li(vdom.Key("a")), vdom.Li())
		},
	}
	mem := host.NewMemHost()
	a := CreateApp(list, WithConfig(cfg), WithHost(mem), WithLogger(NewLogger(&logs, cfg.Log)))
	if err := a.Mount(mem.NewRoot()); err != nil {
		t.Fatalf("Mount: %v", err)
	}
	a.Loop().Do(func() { flip.SetValue(true) })

	if strings.Contains(logs.String(), "W001") {
		t.Error("W001 should be disabled by config")
	}
	if a.Config().Scheduler.MaxFlushPasses != 3 {
		t.Errorf("config not kept")
	}
}

func TestMountErrorsAreReturned(t *testing.T) {
	mem := host.NewMemHost()
	a := CreateApp(&renderer.Component{Name: "Empty"}, WithHost(mem),
		WithLogger(NewLogger(&bytes.Buffer{}, config.LogConfig{})))

	err := a.Mount(mem.NewRoot())
	if err == nil || !renderer.IsRenderError(err) {
		t.Fatalf("Mount error = %v, want E203", err)
	}
	if a.IsMounted() {
		t.Error("failed mount should leave the app unmounted")
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, config.LogConfig{Level: "warn", Format: "json"})
	logger.Info("hidden")
	logger.Warn("shown", "k", "v")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("info should be filtered at warn level")
	}
	if !strings.Contains(out, `"msg":"shown"`) || !strings.Contains(out, `"k":"v"`) {
		t.Errorf("unexpected output: %s", out)
	}
}
