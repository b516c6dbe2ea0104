package renderer

import (
	stderrors "errors"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/vmini/internal/errors"
	"github.com/vango-dev/vmini/pkg/metrics"
	"github.com/vango-dev/vmini/pkg/reactivity"
	"github.com/vango-dev/vmini/pkg/scheduler"
	"github.com/vango-dev/vmini/pkg/vdom"
)

// Renderer patches VNode trees into host containers.
type Renderer struct {
	host    HostAdapter
	rt      *reactivity.Runtime
	queue   *scheduler.Queue
	logger  *slog.Logger
	metrics *metrics.Collector
	tracer  trace.Tracer

	warnMissingKeys bool

	// roots holds the last tree rendered into each container.
	roots map[Node]*vdom.VNode

	// current is the instance whose setup is running.
	current *ComponentInstance

	// provides are app-level values visible to every root component.
	provides map[any]any
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithRuntime sets the reactive runtime used for component effects.
func WithRuntime(rt *reactivity.Runtime) Option {
	return func(r *Renderer) {
		if rt != nil {
			r.rt = rt
		}
	}
}

// WithQueue sets the job queue component updates are scheduled on.
func WithQueue(q *scheduler.Queue) Option {
	return func(r *Renderer) {
		if q != nil {
			r.queue = q
		}
	}
}

// WithLogger sets the logger for warnings.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Renderer) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithMetrics records component render durations on c.
func WithMetrics(c *metrics.Collector) Option {
	return func(r *Renderer) {
		r.metrics = c
	}
}

// WithTracer sets the tracer for component render spans.
func WithTracer(t trace.Tracer) Option {
	return func(r *Renderer) {
		r.tracer = t
	}
}

// WithWarnMissingKeys toggles the warning for keyed lists with unkeyed
// siblings (default on).
func WithWarnMissingKeys(warn bool) Option {
	return func(r *Renderer) {
		r.warnMissingKeys = warn
	}
}

// New creates a renderer over host. Without WithRuntime and WithQueue it
// gets its own runtime and a queue on a fresh loop.
func New(host HostAdapter, opts ...Option) *Renderer {
	r := &Renderer{
		host:            host,
		logger:          slog.Default(),
		warnMissingKeys: true,
		roots:           make(map[Node]*vdom.VNode),
		provides:        make(map[any]any),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.rt == nil {
		r.rt = reactivity.NewRuntime(reactivity.WithLogger(r.logger), reactivity.WithMetrics(r.metrics))
	}
	if r.queue == nil {
		r.queue = scheduler.NewQueue(nil, scheduler.WithLogger(r.logger), scheduler.WithMetrics(r.metrics))
	}
	return r
}

// Runtime returns the reactive runtime.
func (r *Renderer) Runtime() *reactivity.Runtime {
	return r.rt
}

// Queue returns the job queue.
func (r *Renderer) Queue() *scheduler.Queue {
	return r.queue
}

// Host returns the host adapter.
func (r *Renderer) Host() HostAdapter {
	return r.host
}

// Root returns the tree last rendered into container.
func (r *Renderer) Root(container Node) *vdom.VNode {
	return r.roots[container]
}

// CurrentInstance returns the component whose setup is running, or nil.
func (r *Renderer) CurrentInstance() *ComponentInstance {
	return r.current
}

// Provide makes value injectable under key by every component.
func (r *Renderer) Provide(key, value any) {
	r.provides[key] = value
}

// Render patches vnode into container against whatever was rendered there
// before. A nil vnode unmounts the previous tree.
//
// Classified render errors (unknown shapes, nil host nodes, components
// without a render function) are returned as *errors.VmError. Any other
// panic propagates.
func (r *Renderer) Render(vnode *vdom.VNode, container Node) (err error) {
	defer recoverRenderError(&err)

	prev := r.roots[container]
	if vnode == nil {
		if prev != nil {
			r.unmount(prev, true)
			delete(r.roots, container)
		}
		return nil
	}
	r.patch(prev, vnode, container, nil, nil)
	r.roots[container] = vnode
	return nil
}

// Patch reconciles n2 against n1 inside container. It is the entry point
// for callers that manage their own root bookkeeping.
func (r *Renderer) Patch(n1, n2 *vdom.VNode, container, anchor Node) (err error) {
	defer recoverRenderError(&err)
	r.patch(n1, n2, container, anchor, nil)
	return nil
}

// renderPanic carries a classified error through the patch walk.
type renderPanic struct {
	err *errors.VmError
}

func throw(err *errors.VmError) {
	panic(renderPanic{err: err})
}

func recoverRenderError(errp *error) {
	if rec := recover(); rec != nil {
		if rp, ok := rec.(renderPanic); ok {
			*errp = rp.err
			return
		}
		panic(rec)
	}
}

// IsRenderError reports whether err is a classified render error.
func IsRenderError(err error) bool {
	var verr *errors.VmError
	if !stderrors.As(err, &verr) {
		return false
	}
	return verr.Category == errors.CategoryRender || verr.Category == errors.CategoryHost
}

func (r *Renderer) warnKeys(code string, detail string) {
	if !r.warnMissingKeys {
		return
	}
	w := errors.New(code).WithDetail(detail)
	r.logger.Warn(w.Message, "code", code, "detail", detail)
}

func describe(v *vdom.VNode) string {
	switch v.Kind {
	case vdom.KindElement:
		return fmt.Sprintf("<%s>", v.Tag)
	case vdom.KindComponent:
		if v.Type != nil {
			return v.Type.ComponentName()
		}
	}
	return v.Kind.String()
}
