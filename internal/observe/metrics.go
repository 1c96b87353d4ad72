package observe

import (
	"context"

	"lead-exporter/internal/metrics"
)

// Metrics forwards events to the process-wide metrics backend.
type Metrics struct{}

// Observe implements Observer.
func (Metrics) Observe(_ context.Context, e Event) {
	switch e.Name {
	case RuleEvaluated:
		if !e.OK {
			metrics.RecordFieldError(e.Field)
		}
	case RecordValidated:
		metrics.RecordStep(e.Step, e.Status(), e.Duration)
		if e.OK {
			metrics.RecordRecords(metrics.KindValid, 1)
		} else {
			metrics.RecordRecords(metrics.KindInvalid, 1)
		}
	case ExportCompleted:
		metrics.RecordStep(e.Step, e.Status(), e.Duration)
		metrics.RecordRecords(metrics.KindExported, e.Count)
	case ExportFailed:
		metrics.RecordStep(e.Step, e.Status(), e.Duration)
	case BatchCompleted:
		metrics.RecordStep(e.Step, e.Status(), e.Duration)
		if status, ok := e.Attrs["status"].(string); ok {
			metrics.RecordBatch(status)
		}
	}
}
