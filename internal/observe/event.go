// Package observe defines the instrumentation events emitted by the
// validator and the export orchestrator, and the observers that consume them.
//
// Observers are injected; nothing in the pipeline logs or records metrics
// through process globals. An observer must not block for long and must be
// safe for concurrent use. Its failures never affect the outcome of an export.
package observe

import (
	"context"
	"time"
)

// Event names.
const (
	RuleEvaluated   = "rule.evaluated"
	RecordValidated = "record.validated"
	ExportCompleted = "export.completed"
	ExportFailed    = "export.failed"
	BatchCompleted  = "batch.completed"
)

// Step names carried by events.
const (
	StepValidateRule   = "validate_rule"
	StepValidateRecord = "validate_record"
	StepExport         = "export"
	StepBatch          = "batch"
)

// Event is one instrumentation point.
type Event struct {
	Name     string
	Step     string
	Time     time.Time
	RunID    string
	Campaign string
	// Record identifies the lead (batch events leave it empty).
	Record string
	// Field is the source field of a rule event.
	Field    string
	Duration time.Duration
	// Count is the number of items the event covers: errors for rule and
	// record events, exported rows for export events, input records for
	// batch events.
	Count  int
	OK     bool
	Errors []string
	Attrs  map[string]any
}

// Status returns "ok" or "error" for metric labels.
func (e Event) Status() string {
	if e.OK {
		return "ok"
	}

	return "error"
}

// Observer receives events.
type Observer interface {
	Observe(ctx context.Context, e Event)
}

// Func adapts a function to Observer.
type Func func(ctx context.Context, e Event)

// Observe calls f.
func (f Func) Observe(ctx context.Context, e Event) { f(ctx, e) }

// Nop discards events.
type Nop struct{}

// Observe does nothing.
func (Nop) Observe(context.Context, Event) {}

// Multi fans an event out to several observers in order.
type Multi []Observer

// Observe forwards e to every non-nil observer.
func (m Multi) Observe(ctx context.Context, e Event) {
	for _, o := range m {
		if o != nil {
			o.Observe(ctx, e)
		}
	}
}

// Combine returns a single observer for the non-nil observers given.
func Combine(observers ...Observer) Observer {
	var out Multi

	for _, o := range observers {
		if o != nil {
			out = append(out, o)
		}
	}

	switch len(out) {
	case 0:
		return Nop{}
	case 1:
		return out[0]
	default:
		return out
	}
}
