package scheduler

import (
	"context"
	"log/slog"
	"runtime/debug"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/vmini/internal/errors"
	"github.com/vango-dev/vmini/pkg/metrics"
)

// DefaultMaxFlushPasses bounds how many flushes may chain off each other
// before the queue gives up on the batch.
const DefaultMaxFlushPasses = 100

// Queue is the job queue. It is idle until the first QueueJob of a
// macrotask, then flush-pending until its flush microtask runs.
type Queue struct {
	loop *Loop

	// queue is the batch waiting for the next flush.
	queue []Job

	// current is the batch being flushed and index the job running.
	current []Job
	index   int

	flushPending bool
	flushing     bool

	// scheduledInFlush marks a pending flush requested by a running job.
	scheduledInFlush bool
	chain            int
	maxPasses        int

	logger  *slog.Logger
	metrics *metrics.Collector
	tracer  trace.Tracer
}

// Option configures a Queue.
type Option func(*Queue)

// WithLogger sets the logger for recovered job panics.
func WithLogger(logger *slog.Logger) Option {
	return func(q *Queue) {
		if logger != nil {
			q.logger = logger
		}
	}
}

// WithMetrics records flushes, jobs and queue depth on c.
func WithMetrics(c *metrics.Collector) Option {
	return func(q *Queue) {
		q.metrics = c
	}
}

// WithTracer sets the tracer used for flush spans.
func WithTracer(t trace.Tracer) Option {
	return func(q *Queue) {
		q.tracer = t
	}
}

// WithMaxFlushPasses sets the chained flush limit. Zero disables it.
func WithMaxFlushPasses(n int) Option {
	return func(q *Queue) {
		if n >= 0 {
			q.maxPasses = n
		}
	}
}

// NewQueue creates a queue that flushes on loop. A nil loop gets a fresh one.
func NewQueue(loop *Loop, opts ...Option) *Queue {
	if loop == nil {
		loop = NewLoop()
	}
	q := &Queue{
		loop:      loop,
		maxPasses: DefaultMaxFlushPasses,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

// Loop returns the loop the queue flushes on.
func (q *Queue) Loop() *Loop {
	return q.loop
}

// QueueJob adds job to the pending batch unless it is already waiting,
// either in that batch or later in the pass being flushed. The first job
// of an idle queue schedules a flush.
func (q *Queue) QueueJob(job Job) {
	if job == nil || q.waiting(job) {
		return
	}
	q.queue = append(q.queue, job)
	q.metrics.SetQueueDepth(len(q.queue))

	if !q.flushPending {
		q.flushPending = true
		q.scheduledInFlush = q.flushing
		q.loop.Enqueue(q.flush)
	}
}

func (q *Queue) waiting(job Job) bool {
	for _, j := range q.queue {
		if j == job {
			return true
		}
	}
	if q.flushing {
		for _, j := range q.current[q.index+1:] {
			if j == job {
				return true
			}
		}
	}
	return false
}

// InvalidateJob removes job from the pending batch and from the rest of
// the pass being flushed. Use it when the job is about to run directly.
func (q *Queue) InvalidateJob(job Job) {
	if job == nil {
		return
	}
	for i, j := range q.queue {
		if j == job {
			q.queue = append(q.queue[:i], q.queue[i+1:]...)
			q.metrics.SetQueueDepth(len(q.queue))
			break
		}
	}
	if q.flushing {
		rest := q.current[q.index+1:]
		for i, j := range rest {
			if j == job {
				rest[i] = nil
			}
		}
	}
}

// Pending returns the number of jobs in the pending batch.
func (q *Queue) Pending() int {
	return len(q.queue)
}

// FlushPending reports whether a flush is scheduled.
func (q *Queue) FlushPending() bool {
	return q.flushPending
}

// NextTick schedules fn behind any pending flush so it sees the updated
// state. The returned channel is closed once that point is reached; fn may
// be nil when only the channel is wanted.
func (q *Queue) NextTick(fn func()) <-chan struct{} {
	done := make(chan struct{})
	q.loop.Enqueue(func() {
		defer close(done)
		if fn != nil {
			fn()
		}
	})
	return done
}

// flush runs the pending batch in queue order.
func (q *Queue) flush() {
	q.flushPending = false
	batch := q.queue
	q.queue = nil
	q.metrics.SetQueueDepth(0)

	if q.scheduledInFlush {
		q.chain++
	} else {
		q.chain = 1
	}
	if q.maxPasses > 0 && q.chain > q.maxPasses {
		err := errors.New("E302").WithDetailf("%d chained flushes, %d jobs dropped", q.chain-1, len(batch))
		q.logger.Error("flush aborted", "error", err, "jobs", len(batch))
		for range batch {
			q.metrics.RecordJob(metrics.OutcomeSkipped)
		}
		q.chain = 0
		return
	}

	_, end := metrics.StartSpan(context.Background(), q.tracer, "scheduler.flush",
		attribute.Int("vmini.jobs", len(batch)),
		attribute.Int("vmini.pass", q.chain),
	)
	start := time.Now()

	q.flushing = true
	q.current = batch
	var firstErr error
	for q.index = 0; q.index < len(batch); q.index++ {
		job := batch[q.index]
		if job == nil {
			continue
		}
		if a, ok := job.(activeJob); ok && !a.Active() {
			q.metrics.RecordJob(metrics.OutcomeSkipped)
			continue
		}
		if err := q.runJob(job); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	q.current = nil
	q.index = 0
	q.flushing = false

	q.metrics.RecordFlush(time.Since(start))
	end(firstErr)
}

// runJob runs job, converting a panic into an E301 error.
func (q *Queue) runJob(job Job) (err error) {
	defer func() {
		if r := recover(); r != nil {
			verr := errors.New("E301").WithDetailf("job %s: %v", jobName(job), r)
			q.logger.Error("job panic",
				"job", jobName(job),
				"error", verr,
				"stack", string(debug.Stack()))
			q.metrics.RecordJob(metrics.OutcomePanicked)
			err = verr
		}
	}()
	job.Run()
	q.metrics.RecordJob(metrics.OutcomeRun)
	return nil
}
