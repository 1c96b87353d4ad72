package orchestrate

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/google/uuid"
	"github.com/zoobzio/clockz"
	"github.com/zoobzio/metricz"
	"github.com/zoobzio/tracez"

	"lead-exporter/internal/common"
	"lead-exporter/internal/export"
	"lead-exporter/internal/mapping"
	"lead-exporter/internal/observe"
	"lead-exporter/internal/validate"
)

// Metric keys.
const (
	RecordsTotal        = metricz.Key("export.records.total")
	RecordsValidTotal   = metricz.Key("export.records.valid.total")
	RecordsInvalidTotal = metricz.Key("export.records.invalid.total")
	BatchesTotal        = metricz.Key("export.batches.total")
	FailuresTotal       = metricz.Key("export.failures.total")
	BatchDurationMs     = metricz.Key("export.batch.duration.ms")
)

// Span and tag keys.
const (
	ProcessSpan = tracez.Key("export.process")

	TagRunID  = tracez.Tag("export.run_id")
	TagStatus = tracez.Tag("export.status")
	TagTotal  = tracez.Tag("export.total")
	TagValid  = tracez.Tag("export.valid")
	TagError  = tracez.Tag("export.error")
)

// RecordValidator validates one raw record.
type RecordValidator interface {
	Validate(ctx context.Context, rec validate.Record) validate.Outcome
}

// Exporter writes validated rows and returns where they went.
type Exporter interface {
	Export(rows []validate.Output, columns []string, dir string) (string, error)
}

// Service validates and exports batches of leads for one rule set.
// Batches may be processed concurrently.
type Service struct {
	rules     *mapping.RuleSet
	validator RecordValidator
	exporter  Exporter
	observer  observe.Observer
	log       *slog.Logger
	clock     clockz.Clock
	campaign  string

	metrics *metricz.Registry
	tracer  *tracez.Tracer
}

// New returns a service for rules.
func New(rules *mapping.RuleSet, opts ...Option) *Service {
	metrics := metricz.New()
	metrics.Counter(RecordsTotal)
	metrics.Counter(RecordsValidTotal)
	metrics.Counter(RecordsInvalidTotal)
	metrics.Counter(BatchesTotal)
	metrics.Counter(FailuresTotal)
	metrics.Gauge(BatchDurationMs)

	s := &Service{
		rules:    rules,
		observer: observe.Nop{},
		log:      slog.Default(),
		clock:    clockz.RealClock,
		metrics:  metrics,
		tracer:   tracez.New(),
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.validator == nil {
		s.validator = validate.New(rules,
			validate.WithObserver(s.observer),
			validate.WithLogger(s.log),
			validate.WithClock(s.clock))
	}

	if s.exporter == nil {
		s.exporter = export.NewCSVExporter(export.WithClock(s.clock), export.WithLogger(s.log))
	}

	return s
}

// Process validates records in order and exports the valid ones into dir.
func (s *Service) Process(ctx context.Context, records []validate.Record, dir string) *Summary {
	sum := &Summary{
		RunID:        uuid.New().String(),
		CampaignID:   s.campaign,
		TotalInput:   len(records),
		RecordErrors: map[string][]string{},
		StartedAt:    s.clock.Now(),
		Phases:       []Phase{PhaseNotStarted},
	}

	ctx = observe.WithRun(ctx, observe.Run{ID: sum.RunID, Campaign: s.campaign})

	ctx, span := s.tracer.StartSpan(ctx, ProcessSpan)
	span.SetTag(TagRunID, sum.RunID)
	span.SetTag(TagTotal, strconv.Itoa(len(records)))

	s.log.InfoContext(ctx, "starting export",
		slog.String("run_id", sum.RunID),
		slog.Int("leads", len(records)))

	valid, aborted := s.validateAll(ctx, records, sum)
	sum.ValidCount = len(valid)

	switch {
	case aborted != nil:
		sum.Phases = append(sum.Phases, PhaseSkipped)
		sum.Status = StatusSystemFailure
		sum.FatalError = fmt.Sprintf("Export aborted: %v", aborted)
	case common.IsEmpty(valid):
		sum.Phases = append(sum.Phases, PhaseSkipped)
		if len(records) > 0 {
			sum.Status = StatusValidationFailure
		} else {
			sum.Status = StatusNoLeadsProvided
		}

		s.log.InfoContext(ctx, "no valid leads to export", slog.String("run_id", sum.RunID))
	default:
		sum.Phases = append(sum.Phases, PhaseExporting)
		s.exportValid(ctx, valid, dir, sum)
	}

	sum.Phases = append(sum.Phases, PhaseDone)
	sum.FinishedAt = s.clock.Now()

	if len(sum.RecordErrors) == 0 {
		sum.RecordErrors = nil
	}

	if sum.Status == StatusSystemFailure {
		span.SetTag(TagError, sum.FatalError)
	}

	span.SetTag(TagStatus, string(sum.Status))
	span.SetTag(TagValid, strconv.Itoa(sum.ValidCount))
	span.Finish()

	s.finish(ctx, sum)

	return sum
}

// validateAll runs the validator over records until ctx is done. It returns
// the context error when the batch was cut short.
func (s *Service) validateAll(ctx context.Context, records []validate.Record, sum *Summary) ([]validate.Output, error) {
	sum.Phases = append(sum.Phases, PhaseValidating)

	var valid []validate.Output

	for i, rec := range records {
		if err := ctx.Err(); err != nil {
			for j := i; j < len(records); j++ {
				key := uniqueKey(sum.RecordErrors, identifier(records[j], j))
				sum.RecordErrors[key] = []string{fmt.Sprintf("Internal validation error: %v", err)}
			}

			return valid, err
		}

		id := identifier(rec, i)
		s.metrics.Counter(RecordsTotal).Inc()

		outcome := s.validateOne(ctx, id, rec)
		if outcome.Valid && outcome.Output != nil {
			valid = append(valid, outcome.Output)
			s.metrics.Counter(RecordsValidTotal).Inc()

			continue
		}

		s.metrics.Counter(RecordsInvalidTotal).Inc()

		if len(outcome.Errors) > 0 {
			sum.RecordErrors[uniqueKey(sum.RecordErrors, id)] = outcome.Errors
		}
	}

	s.log.InfoContext(ctx, "validation complete",
		slog.String("run_id", sum.RunID),
		slog.Int("valid", len(valid)),
		slog.Int("total", len(records)))

	return valid, nil
}

func (s *Service) validateOne(ctx context.Context, id string, rec validate.Record) (outcome validate.Outcome) {
	defer func() {
		if r := recover(); r != nil {
			s.log.ErrorContext(ctx, "unexpected validation error",
				slog.String("record", id),
				slog.Any("panic", r))

			outcome = validate.Outcome{Errors: []string{fmt.Sprintf("Internal validation error: %v", r)}}
		}
	}()

	return s.validator.Validate(ctx, rec)
}

func (s *Service) exportValid(ctx context.Context, valid []validate.Output, dir string, sum *Summary) {
	start := s.clock.Now()

	path, err := s.exporter.Export(valid, s.rules.Columns(), dir)
	if err != nil {
		sum.Status = StatusSystemFailure
		sum.FatalError = fmt.Sprintf("CSV export failed: %v", err)

		s.log.ErrorContext(ctx, "CSV export failed",
			slog.String("run_id", sum.RunID),
			slog.Any("error", err))

		s.observer.Observe(ctx, observe.Stamp(ctx, observe.Event{
			Name:     observe.ExportFailed,
			Step:     observe.StepExport,
			Time:     s.clock.Now(),
			Duration: s.clock.Since(start),
			Count:    len(valid),
			Errors:   []string{err.Error()},
		}))

		return
	}

	sum.OutputPath = path
	if len(valid) == sum.TotalInput {
		sum.Status = StatusSuccess
	} else {
		sum.Status = StatusPartialSuccess
	}

	s.observer.Observe(ctx, observe.Stamp(ctx, observe.Event{
		Name:     observe.ExportCompleted,
		Step:     observe.StepExport,
		Time:     s.clock.Now(),
		Duration: s.clock.Since(start),
		Count:    len(valid),
		OK:       true,
		Attrs:    map[string]any{"path": path},
	}))
}

func (s *Service) finish(ctx context.Context, sum *Summary) {
	elapsed := sum.Duration()

	s.metrics.Counter(BatchesTotal).Inc()
	s.metrics.Gauge(BatchDurationMs).Set(float64(elapsed.Milliseconds()))
	if sum.Status == StatusSystemFailure {
		s.metrics.Counter(FailuresTotal).Inc()
	}

	s.observer.Observe(ctx, observe.Stamp(ctx, observe.Event{
		Name:     observe.BatchCompleted,
		Step:     observe.StepBatch,
		Time:     sum.FinishedAt,
		Duration: elapsed,
		Count:    sum.TotalInput,
		OK:       sum.Status.OK(),
		Attrs: map[string]any{
			"status":  string(sum.Status),
			"valid":   sum.ValidCount,
			"invalid": sum.InvalidCount(),
		},
	}))

	s.log.InfoContext(ctx, "export finished",
		slog.String("run_id", sum.RunID),
		slog.String("status", string(sum.Status)),
		slog.Duration("duration", elapsed))
}

// Metrics returns the service's metrics registry.
func (s *Service) Metrics() *metricz.Registry {
	return s.metrics
}

// Tracer returns the service's tracer.
func (s *Service) Tracer() *tracez.Tracer {
	return s.tracer
}

// Close releases the tracer.
func (s *Service) Close() error {
	if s.tracer != nil {
		s.tracer.Close()
	}

	return nil
}

// identifier names a record for the error map: its name, else its position.
func identifier(rec validate.Record, i int) string {
	if name := rec.Name(); name != "" {
		return name
	}

	return fmt.Sprintf("Lead Index %d", i)
}

// uniqueKey returns id, or id with a " (n)" suffix if id is already taken.
func uniqueKey(m map[string][]string, id string) string {
	if _, ok := m[id]; !ok {
		return id
	}

	for n := 2; ; n++ {
		key := fmt.Sprintf("%s (%d)", id, n)
		if _, ok := m[key]; !ok {
			return key
		}
	}
}
