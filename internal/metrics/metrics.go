// Package metrics is the process-wide metrics facade used by the export
// pipeline. Code records through the helpers in this package; the concrete
// sink (Datadog, or nothing) is chosen once in main via SetBackend.
package metrics

import (
	"sync"
	"time"
)

// Labels are metric dimensions.
type Labels map[string]string

// Backend receives counter increments and histogram samples.
type Backend interface {
	IncCounter(name string, delta float64, labels Labels)
	ObserveHistogram(name string, value float64, labels Labels)
}

// Flusher is implemented by backends that buffer.
type Flusher interface {
	Flush() error
}

// Metric names. Backends ignore names they do not know.
const (
	StepTotal           = "lead_step_total"
	StepDurationSeconds = "lead_step_duration_seconds"
	RecordsTotal        = "lead_records_total"
	FieldErrorsTotal    = "lead_field_errors_total"
	BatchesTotal        = "lead_batches_total"
)

// Record kinds for RecordsTotal.
const (
	KindValid    = "valid"
	KindInvalid  = "invalid"
	KindExported = "exported"
)

type nopBackend struct{}

func (nopBackend) IncCounter(string, float64, Labels)       {}
func (nopBackend) ObserveHistogram(string, float64, Labels) {}

var (
	mu      sync.RWMutex
	backend Backend = nopBackend{}
)

// SetBackend installs b as the process-wide backend. nil restores the no-op
// backend.
func SetBackend(b Backend) {
	mu.Lock()
	defer mu.Unlock()

	if b == nil {
		b = nopBackend{}
	}

	backend = b
}

func current() Backend {
	mu.RLock()
	defer mu.RUnlock()

	return backend
}

// Flush flushes the current backend if it buffers.
func Flush() error {
	if f, ok := current().(Flusher); ok {
		return f.Flush()
	}

	return nil
}

// RecordStep counts one execution of a pipeline step and samples its duration.
func RecordStep(step, status string, d time.Duration) {
	b := current()
	l := Labels{"step": step, "status": status}
	b.IncCounter(StepTotal, 1, l)
	b.ObserveHistogram(StepDurationSeconds, d.Seconds(), l)
}

// RecordRecords adds n records of the given kind.
func RecordRecords(kind string, n int) {
	if n <= 0 {
		return
	}

	current().IncCounter(RecordsTotal, float64(n), Labels{"kind": kind})
}

// RecordFieldError counts one field-level validation error.
func RecordFieldError(field string) {
	current().IncCounter(FieldErrorsTotal, 1, Labels{"field": field})
}

// RecordBatch counts one finished batch by final status.
func RecordBatch(status string) {
	current().IncCounter(BatchesTotal, 1, Labels{"status": status})
}
