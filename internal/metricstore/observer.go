package metricstore

import (
	"context"
	"log/slog"

	"lead-exporter/internal/observe"
)

// Observer records events into s. Rule-level events are skipped unless
// withRules is set. Failures are logged and never returned to the caller.
func (s *Store) Observer(log *slog.Logger, withRules bool) observe.Observer {
	if log == nil {
		log = slog.Default()
	}

	return observe.Func(func(ctx context.Context, e observe.Event) {
		if e.Name == observe.RuleEvaluated && !withRules {
			return
		}

		if err := s.Record(ctx, e); err != nil {
			log.WarnContext(ctx, "failed to record event",
				slog.String("event", e.Name),
				slog.Any("error", err))
		}
	})
}
