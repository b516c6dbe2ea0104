package metrics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.opentelemetry.io/otel/attribute"
)

func newTestCollector(t *testing.T) (*Collector, *prometheus.Registry) {
	t.Helper()
	reg := prometheus.NewRegistry()
	return New(WithRegistry(reg), WithNamespace("test")), reg
}

func TestNilCollectorIsSafe(t *testing.T) {
	var c *Collector
	c.RecordEffectRun()
	c.RecordTrigger()
	c.RecordFlush(time.Millisecond)
	c.RecordJob(OutcomeRun)
	c.SetQueueDepth(3)
	c.RecordHostOp("insert")
	c.ObserveRender("App", time.Millisecond)
}

func TestCounters(t *testing.T) {
	c, _ := newTestCollector(t)

	c.RecordEffectRun()
	c.RecordEffectRun()
	c.RecordTrigger()
	c.RecordJob(OutcomeRun)
	c.RecordJob(OutcomeRun)
	c.RecordJob(OutcomeSkipped)
	c.RecordHostOp("insert")
	c.SetQueueDepth(4)

	if got := testutil.ToFloat64(c.effectRuns); got != 2 {
		t.Errorf("effect runs = %v, want 2", got)
	}
	if got := testutil.ToFloat64(c.triggers); got != 1 {
		t.Errorf("triggers = %v, want 1", got)
	}
	if got := testutil.ToFloat64(c.jobs.WithLabelValues(OutcomeRun)); got != 2 {
		t.Errorf("jobs{run} = %v, want 2", got)
	}
	if got := testutil.ToFloat64(c.jobs.WithLabelValues(OutcomeSkipped)); got != 1 {
		t.Errorf("jobs{skipped} = %v, want 1", got)
	}
	if got := testutil.ToFloat64(c.hostOps.WithLabelValues("insert")); got != 1 {
		t.Errorf("host ops = %v, want 1", got)
	}
	if got := testutil.ToFloat64(c.queueDepth); got != 4 {
		t.Errorf("queue depth = %v, want 4", got)
	}
}

func TestHistogramsRegistered(t *testing.T) {
	c, reg := newTestCollector(t)
	c.RecordFlush(2 * time.Millisecond)
	c.ObserveRender("", time.Millisecond)

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}
	names := make(map[string]bool)
	for _, f := range families {
		names[f.GetName()] = true
	}
	for _, want := range []string{"test_flush_duration_seconds", "test_render_duration_seconds", "test_flushes_total"} {
		if !names[want] {
			t.Errorf("metric %s not gathered", want)
		}
	}
}

func TestStartSpanNoopProvider(t *testing.T) {
	ctx, end := StartSpan(context.Background(), nil, "flush", attribute.Int("jobs", 2))
	if ctx == nil {
		t.Fatal("nil context")
	}
	end(nil)

	_, end = StartSpan(nil, Tracer(), "render")
	end(errors.New("failed"))
}
