package scheduler

import (
	"context"
	"log/slog"
	"runtime/debug"
	"sync"
)

// DefaultBacklog is the default capacity of the macrotask channel.
const DefaultBacklog = 256

// Loop runs macrotasks and microtasks on one goroutine.
type Loop struct {
	mu    sync.Mutex
	micro []func()

	macro chan func()
	done  chan struct{}
	once  sync.Once

	logger *slog.Logger
}

// LoopOption configures a Loop.
type LoopOption func(*Loop)

// WithBacklog sets the capacity of the macrotask channel.
func WithBacklog(n int) LoopOption {
	return func(l *Loop) {
		if n > 0 {
			l.macro = make(chan func(), n)
		}
	}
}

// WithLoopLogger sets the logger used for recovered panics.
func WithLoopLogger(logger *slog.Logger) LoopOption {
	return func(l *Loop) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// NewLoop creates an idle loop.
func NewLoop(opts ...LoopOption) *Loop {
	l := &Loop{
		macro:  make(chan func(), DefaultBacklog),
		done:   make(chan struct{}),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Enqueue appends a microtask. Safe from any goroutine.
func (l *Loop) Enqueue(fn func()) {
	if fn == nil {
		return
	}
	l.mu.Lock()
	l.micro = append(l.micro, fn)
	l.mu.Unlock()
}

// Pending returns the number of queued microtasks.
func (l *Loop) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.micro)
}

// Drain runs microtasks in FIFO order until none are left, including those
// enqueued while draining. It returns the number of microtasks run.
func (l *Loop) Drain() int {
	n := 0
	for {
		l.mu.Lock()
		if len(l.micro) == 0 {
			l.micro = nil
			l.mu.Unlock()
			return n
		}
		fn := l.micro[0]
		l.micro[0] = nil
		l.micro = l.micro[1:]
		l.mu.Unlock()

		l.safeRun("microtask", fn)
		n++
	}
}

// Do runs fn as a macrotask on the calling goroutine, then drains
// microtasks. Use it when the caller already owns the loop goroutine.
func (l *Loop) Do(fn func()) {
	if fn != nil {
		l.safeRun("macrotask", fn)
	}
	l.Drain()
}

// Dispatch posts fn to run on the loop goroutine. It is safe to call from
// any goroutine and returns false if the loop has stopped or the backlog
// is full.
func (l *Loop) Dispatch(fn func()) bool {
	if fn == nil {
		return false
	}
	select {
	case <-l.done:
		return false
	default:
	}
	select {
	case l.macro <- fn:
		return true
	case <-l.done:
		return false
	default:
		l.logger.Warn("dispatch backlog full, discarding callback")
		return false
	}
}

// Run processes macrotasks on the calling goroutine until ctx is done,
// draining microtasks after each one. Microtasks already queued are
// drained first.
func (l *Loop) Run(ctx context.Context) error {
	defer l.once.Do(func() { close(l.done) })

	l.Drain()
	for {
		select {
		case fn := <-l.macro:
			l.Do(fn)
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// RunPending runs every macrotask already posted, draining microtasks after
// each, and returns without blocking.
func (l *Loop) RunPending() int {
	n := 0
	l.Drain()
	for {
		select {
		case fn := <-l.macro:
			l.Do(fn)
			n++
		default:
			return n
		}
	}
}

// Done is closed once Run returns.
func (l *Loop) Done() <-chan struct{} {
	return l.done
}

func (l *Loop) safeRun(kind string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			l.logger.Error(kind+" panic",
				"panic", r,
				"stack", string(debug.Stack()))
		}
	}()
	fn()
}
