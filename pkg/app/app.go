package app

import (
	"log/slog"

	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/vmini/internal/config"
	"github.com/vango-dev/vmini/internal/errors"
	"github.com/vango-dev/vmini/pkg/host"
	"github.com/vango-dev/vmini/pkg/metrics"
	"github.com/vango-dev/vmini/pkg/reactivity"
	"github.com/vango-dev/vmini/pkg/renderer"
	"github.com/vango-dev/vmini/pkg/scheduler"
	"github.com/vango-dev/vmini/pkg/vdom"
)

// App owns one root component and everything it runs on.
type App struct {
	root      *renderer.Component
	rootProps vdom.Props

	// Configuration
	config    *config.Config
	logger    *slog.Logger
	collector *metrics.Collector
	tracer    trace.Tracer

	// Runtime
	host     renderer.HostAdapter
	loop     *scheduler.Loop
	queue    *scheduler.Queue
	rt       *reactivity.Runtime
	renderer *renderer.Renderer

	container renderer.Node
	mounted   bool
}

// Option configures an App.
type Option func(*App)

// WithConfig sets the configuration. Defaults come from config.New.
func WithConfig(cfg *config.Config) Option {
	return func(a *App) {
		if cfg != nil {
			a.config = cfg
		}
	}
}

// WithLogger overrides the logger built from the config.
func WithLogger(logger *slog.Logger) Option {
	return func(a *App) {
		a.logger = logger
	}
}

// WithMetrics records runtime metrics on c.
func WithMetrics(c *metrics.Collector) Option {
	return func(a *App) {
		a.collector = c
	}
}

// WithTracer sets the tracer for flush and render spans.
func WithTracer(t trace.Tracer) Option {
	return func(a *App) {
		a.tracer = t
	}
}

// WithHost sets the host adapter. The default is a fresh host.MemHost.
func WithHost(h renderer.HostAdapter) Option {
	return func(a *App) {
		a.host = h
	}
}

// WithLoop runs the app on an existing loop.
func WithLoop(l *scheduler.Loop) Option {
	return func(a *App) {
		a.loop = l
	}
}

// WithProps sets the props passed to the root component.
func WithProps(props vdom.Props) Option {
	return func(a *App) {
		a.rootProps = props
	}
}

// CreateApp wires a runtime, loop, queue and renderer for root.
func CreateApp(root *renderer.Component, opts ...Option) *App {
	a := &App{root: root}
	for _, opt := range opts {
		opt(a)
	}

	// Apply defaults
	if a.config == nil {
		a.config = config.New()
	}
	if a.logger == nil {
		a.logger = NewLogger(nil, a.config.Log)
	}
	if a.host == nil {
		a.host = host.NewMemHost()
	}
	if a.loop == nil {
		a.loop = scheduler.NewLoop(scheduler.WithLoopLogger(a.logger))
	}

	a.rt = reactivity.NewRuntime(
		reactivity.WithLogger(a.logger),
		reactivity.WithMetrics(a.collector),
	)
	a.queue = scheduler.NewQueue(a.loop,
		scheduler.WithLogger(a.logger),
		scheduler.WithMetrics(a.collector),
		scheduler.WithTracer(a.tracer),
		scheduler.WithMaxFlushPasses(a.config.Scheduler.MaxFlushPasses),
	)
	a.renderer = renderer.New(a.host,
		renderer.WithRuntime(a.rt),
		renderer.WithQueue(a.queue),
		renderer.WithLogger(a.logger),
		renderer.WithMetrics(a.collector),
		renderer.WithTracer(a.tracer),
		renderer.WithWarnMissingKeys(a.config.WarnMissingKeys()),
	)
	return a
}

// Provide makes value injectable under key by every component of the app.
func (a *App) Provide(key, value any) *App {
	a.renderer.Provide(key, value)
	return a
}

// Mount renders the root component into container.
func (a *App) Mount(container renderer.Node) error {
	if a.mounted {
		return errors.New("E204")
	}
	if err := a.renderer.Render(vdom.Comp(a.root, a.rootProps), container); err != nil {
		return err
	}
	a.container = container
	a.mounted = true
	a.logger.Debug("app mounted", "component", a.root.ComponentName())
	return nil
}

// Unmount tears the root component down and clears the container.
func (a *App) Unmount() error {
	if !a.mounted {
		return errors.New("E205")
	}
	if err := a.renderer.Render(nil, a.container); err != nil {
		return err
	}
	a.mounted = false
	a.container = nil
	a.logger.Debug("app unmounted", "component", a.root.ComponentName())
	return nil
}

// Instance returns the mounted root instance, or nil.
func (a *App) Instance() *renderer.ComponentInstance {
	if !a.mounted {
		return nil
	}
	root := a.renderer.Root(a.container)
	if root == nil {
		return nil
	}
	inst, _ := root.Instance.(*renderer.ComponentInstance)
	return inst
}

// IsMounted reports whether the root is mounted.
func (a *App) IsMounted() bool { return a.mounted }

// Container returns the mount container, or nil.
func (a *App) Container() renderer.Node { return a.container }

// Config returns the configuration.
func (a *App) Config() *config.Config { return a.config }

// Logger returns the logger.
func (a *App) Logger() *slog.Logger { return a.logger }

// Host returns the host adapter.
func (a *App) Host() renderer.HostAdapter { return a.host }

// Loop returns the event loop.
func (a *App) Loop() *scheduler.Loop { return a.loop }

// Queue returns the job queue.
func (a *App) Queue() *scheduler.Queue { return a.queue }

// Runtime returns the reactive runtime.
func (a *App) Runtime() *reactivity.Runtime { return a.rt }

// Renderer returns the renderer.
func (a *App) Renderer() *renderer.Renderer { return a.renderer }
