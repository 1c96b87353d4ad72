package observe

import (
	"context"
	"log/slog"
)

// Logger writes events to a slog.Logger. Rule events are logged at debug
// level, everything else at info, and failures at warn.
type Logger struct {
	log *slog.Logger
}

// NewLogger returns an observer logging to l (slog.Default() when nil).
func NewLogger(l *slog.Logger) *Logger {
	if l == nil {
		l = slog.Default()
	}

	return &Logger{log: l}
}

// Observe implements Observer.
func (o *Logger) Observe(ctx context.Context, e Event) {
	level := slog.LevelInfo

	switch {
	case e.Name == RuleEvaluated:
		level = slog.LevelDebug
	case !e.OK:
		level = slog.LevelWarn
	}

	if !o.log.Enabled(ctx, level) {
		return
	}

	attrs := []slog.Attr{
		slog.String("event", e.Name),
		slog.String("step", e.Step),
		slog.Bool("ok", e.OK),
	}

	if e.RunID != "" {
		attrs = append(attrs, slog.String("run_id", e.RunID))
	}
	if e.Campaign != "" {
		attrs = append(attrs, slog.String("campaign", e.Campaign))
	}
	if e.Record != "" {
		attrs = append(attrs, slog.String("record", e.Record))
	}
	if e.Field != "" {
		attrs = append(attrs, slog.String("field", e.Field))
	}
	if e.Duration > 0 {
		attrs = append(attrs, slog.Duration("duration", e.Duration))
	}
	if e.Count > 0 {
		attrs = append(attrs, slog.Int("count", e.Count))
	}
	if len(e.Errors) > 0 {
		attrs = append(attrs, slog.Any("errors", e.Errors))
	}
	for k, v := range e.Attrs {
		attrs = append(attrs, slog.Any(k, v))
	}

	o.log.LogAttrs(ctx, level, e.Name, attrs...)
}
