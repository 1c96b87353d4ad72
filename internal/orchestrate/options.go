package orchestrate

import (
	"log/slog"

	"github.com/zoobzio/clockz"

	"lead-exporter/internal/observe"
)

// Option configures a Service.
type Option func(*Service)

// WithValidator replaces the validator built from the rule set.
func WithValidator(v RecordValidator) Option {
	return func(s *Service) {
		if v != nil {
			s.validator = v
		}
	}
}

// WithExporter replaces the default CSV exporter.
func WithExporter(e Exporter) Option {
	return func(s *Service) {
		if e != nil {
			s.exporter = e
		}
	}
}

// WithObserver sets the observer for batch events. It is also handed to the
// default validator.
func WithObserver(o observe.Observer) Option {
	return func(s *Service) {
		if o != nil {
			s.observer = o
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.log = l
		}
	}
}

// WithClock sets the clock used for timestamps and durations.
func WithClock(c clockz.Clock) Option {
	return func(s *Service) {
		if c != nil {
			s.clock = c
		}
	}
}

// WithCampaign tags every run with a campaign id.
func WithCampaign(id string) Option {
	return func(s *Service) {
		s.campaign = id
	}
}
