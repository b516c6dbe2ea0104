// Package metrics collects Prometheus metrics and OpenTelemetry spans for
// the reactive runtime, the job queue and the reconciler.
//
// Metrics collected (namespace defaults to "vmini"):
//   - vmini_effect_runs_total: Counter of effect executions
//   - vmini_triggers_total: Counter of dependency triggers with subscribers
//   - vmini_flushes_total: Counter of job queue drain passes
//   - vmini_flush_duration_seconds: Histogram of drain pass duration
//   - vmini_jobs_total: Counter of jobs by outcome (run, skipped, panicked)
//   - vmini_queue_depth: Gauge of jobs waiting for the next drain
//   - vmini_host_ops_total: Counter of host adapter calls by operation
//   - vmini_render_duration_seconds: Histogram of component render+patch time
//
// Every method is safe on a nil *Collector, so instrumented code does not
// need to check whether metrics are enabled.
//
// Example:
//
//	reg := prometheus.NewRegistry()
//	c := metrics.New(metrics.WithRegistry(reg))
//	rt := reactivity.NewRuntime(reactivity.WithMetrics(c))
//	http.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
package metrics
