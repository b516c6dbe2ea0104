package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Config configures the collector.
type Config struct {
	// Namespace is the metrics namespace (default: "vmini").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for durations.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// Option configures the collector.
type Option func(*Config)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) Option {
	return func(c *Config) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) Option {
	return func(c *Config) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) Option {
	return func(c *Config) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the histogram buckets.
func WithBuckets(buckets []float64) Option {
	return func(c *Config) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) Option {
	return func(c *Config) {
		c.Registry = registry
	}
}

func defaultConfig() Config {
	return Config{
		Namespace: "vmini",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Job outcomes used as the "outcome" label of jobs_total.
const (
	OutcomeRun      = "run"
	OutcomeSkipped  = "skipped"
	OutcomePanicked = "panicked"
)

// Collector holds the Prometheus metrics.
type Collector struct {
	effectRuns     prometheus.Counter
	triggers       prometheus.Counter
	flushes        prometheus.Counter
	flushDuration  prometheus.Histogram
	jobs           *prometheus.CounterVec
	queueDepth     prometheus.Gauge
	hostOps        *prometheus.CounterVec
	renderDuration *prometheus.HistogramVec
}

// New creates a collector and registers its metrics.
func New(opts ...Option) *Collector {
	config := defaultConfig()
	for _, opt := range opts {
		opt(&config)
	}
	factory := promauto.With(config.Registry)

	return &Collector{
		effectRuns: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "effect_runs_total",
			Help:        "Total number of effect executions",
			ConstLabels: config.ConstLabels,
		}),

		triggers: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "triggers_total",
			Help:        "Total number of dependency triggers that reached subscribers",
			ConstLabels: config.ConstLabels,
		}),

		flushes: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "flushes_total",
			Help:        "Total number of job queue drain passes",
			ConstLabels: config.ConstLabels,
		}),

		flushDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "flush_duration_seconds",
			Help:        "Job queue drain pass duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}),

		jobs: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "jobs_total",
			Help:        "Total number of dequeued jobs by outcome",
			ConstLabels: config.ConstLabels,
		}, []string{"outcome"}),

		queueDepth: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "queue_depth",
			Help:        "Number of jobs waiting for the next drain pass",
			ConstLabels: config.ConstLabels,
		}),

		hostOps: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "host_ops_total",
			Help:        "Total number of host adapter calls by operation",
			ConstLabels: config.ConstLabels,
		}, []string{"op"}),

		renderDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "render_duration_seconds",
			Help:        "Component render and patch duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"component"}),
	}
}

// RecordEffectRun counts one effect execution.
func (c *Collector) RecordEffectRun() {
	if c != nil {
		c.effectRuns.Inc()
	}
}

// RecordTrigger counts one trigger that reached subscribers.
func (c *Collector) RecordTrigger() {
	if c != nil {
		c.triggers.Inc()
	}
}

// RecordFlush records one drain pass.
func (c *Collector) RecordFlush(d time.Duration) {
	if c != nil {
		c.flushes.Inc()
		c.flushDuration.Observe(d.Seconds())
	}
}

// RecordJob counts one dequeued job with the given outcome.
func (c *Collector) RecordJob(outcome string) {
	if c != nil {
		c.jobs.WithLabelValues(outcome).Inc()
	}
}

// SetQueueDepth records the number of waiting jobs.
func (c *Collector) SetQueueDepth(n int) {
	if c != nil {
		c.queueDepth.Set(float64(n))
	}
}

// RecordHostOp counts one host adapter call.
func (c *Collector) RecordHostOp(op string) {
	if c != nil {
		c.hostOps.WithLabelValues(op).Inc()
	}
}

// ObserveRender records the duration of one component update.
func (c *Collector) ObserveRender(component string, d time.Duration) {
	if c != nil {
		if component == "" {
			component = "anonymous"
		}
		c.renderDuration.WithLabelValues(component).Observe(d.Seconds())
	}
}
