package observe

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lead-exporter/internal/metrics"
)

func TestCombine(t *testing.T) {
	assert.Equal(t, Nop{}, Combine())
	assert.Equal(t, Nop{}, Combine(nil, nil))

	var calls []string
	a := Func(func(context.Context, Event) { calls = append(calls, "a") })
	b := Func(func(context.Context, Event) { calls = append(calls, "b") })

	single := Combine(nil, a)
	single.Observe(context.Background(), Event{})
	assert.Equal(t, []string{"a"}, calls)

	calls = nil
	Combine(a, nil, b).Observe(context.Background(), Event{})
	assert.Equal(t, []string{"a", "b"}, calls)
}

func TestMulti_SkipsNil(t *testing.T) {
	n := 0
	m := Multi{nil, Func(func(context.Context, Event) { n++ })}

	assert.NotPanics(t, func() { m.Observe(context.Background(), Event{}) })
	assert.Equal(t, 1, n)
}

func TestEventStatus(t *testing.T) {
	assert.Equal(t, "ok", Event{OK: true}.Status())
	assert.Equal(t, "error", Event{}.Status())
}

func TestStamp(t *testing.T) {
	ctx := WithRun(context.Background(), Run{ID: "r1", Campaign: "c1"})

	e := Stamp(ctx, Event{Name: BatchCompleted})
	assert.Equal(t, "r1", e.RunID)
	assert.Equal(t, "c1", e.Campaign)

	e = Stamp(ctx, Event{RunID: "mine"})
	assert.Equal(t, "mine", e.RunID, "explicit values win")

	assert.Equal(t, Run{}, RunFrom(context.Background()))
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo})))

	ctx := context.Background()
	l.Observe(ctx, Event{Name: RuleEvaluated, Field: "name", OK: true})
	l.Observe(ctx, Event{Name: RecordValidated, Record: "Show", Errors: []string{"bad"}, Count: 1})
	l.Observe(ctx, Event{Name: BatchCompleted, RunID: "r1", OK: true, Duration: time.Second, Attrs: map[string]any{"status": "SUCCESS"}})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2, "rule events are debug level")

	var rec map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &rec))
	assert.Equal(t, "WARN", rec["level"])
	assert.Equal(t, RecordValidated, rec["msg"])
	assert.Equal(t, "Show", rec["record"])

	var batch map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &batch))
	assert.Equal(t, "INFO", batch["level"])
	assert.Equal(t, "SUCCESS", batch["status"])
	assert.Equal(t, "r1", batch["run_id"])
}

func TestHooks(t *testing.T) {
	h := NewHooks()
	defer h.Close()

	got := make(chan Event, 4)
	forward := func(_ context.Context, e Event) error {
		got <- e
		return nil
	}

	require.NoError(t, h.OnBatchCompleted(forward))
	require.NoError(t, h.OnExport(forward))

	h.Observe(context.Background(), Event{Name: RuleEvaluated})
	h.Observe(context.Background(), Event{Name: ExportFailed})
	h.Observe(context.Background(), Event{Name: BatchCompleted, Count: 3})

	seen := map[string]Event{}
	for len(seen) < 2 {
		select {
		case e := <-got:
			seen[e.Name] = e
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for hook events, got %v", seen)
		}
	}

	assert.Contains(t, seen, ExportFailed)
	assert.Equal(t, 3, seen[BatchCompleted].Count)
	assert.NotContains(t, seen, RuleEvaluated)
}

type captureBackend struct {
	mu       sync.Mutex
	counters map[string]float64
	samples  int
}

func (c *captureBackend) IncCounter(name string, delta float64, labels metrics.Labels) {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := name
	for _, k := range []string{"step", "status", "kind", "field"} {
		if v, ok := labels[k]; ok {
			key += "|" + k + "=" + v
		}
	}
	c.counters[key] += delta
}

func (c *captureBackend) ObserveHistogram(string, float64, metrics.Labels) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.samples++
}

func TestMetrics(t *testing.T) {
	b := &captureBackend{counters: map[string]float64{}}
	metrics.SetBackend(b)
	t.Cleanup(func() { metrics.SetBackend(nil) })

	ctx := context.Background()
	m := Metrics{}

	m.Observe(ctx, Event{Name: RuleEvaluated, Field: "email"})
	m.Observe(ctx, Event{Name: RuleEvaluated, Field: "name", OK: true})
	m.Observe(ctx, Event{Name: RecordValidated, Step: StepValidateRecord, OK: true})
	m.Observe(ctx, Event{Name: RecordValidated, Step: StepValidateRecord})
	m.Observe(ctx, Event{Name: ExportCompleted, Step: StepExport, OK: true, Count: 1})
	m.Observe(ctx, Event{Name: BatchCompleted, Step: StepBatch, OK: true, Attrs: map[string]any{"status": "PARTIAL_SUCCESS"}})

	assert.Equal(t, 1.0, b.counters[metrics.FieldErrorsTotal+"|field=email"])
	assert.Zero(t, b.counters[metrics.FieldErrorsTotal+"|field=name"])
	assert.Equal(t, 1.0, b.counters[metrics.RecordsTotal+"|kind=valid"])
	assert.Equal(t, 1.0, b.counters[metrics.RecordsTotal+"|kind=invalid"])
	assert.Equal(t, 1.0, b.counters[metrics.RecordsTotal+"|kind=exported"])
	assert.Equal(t, 1.0, b.counters[metrics.StepTotal+"|step=validate_record|status=ok"])
	assert.Equal(t, 1.0, b.counters[metrics.StepTotal+"|step=validate_record|status=error"])
	assert.Equal(t, 1.0, b.counters[metrics.BatchesTotal+"|status=PARTIAL_SUCCESS"])
	assert.Equal(t, 4, b.samples)
}
