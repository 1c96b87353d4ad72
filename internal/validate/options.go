package validate

import (
	"log/slog"

	"github.com/zoobzio/clockz"

	"lead-exporter/internal/observe"
)

// Option configures a Validator.
type Option func(*Validator)

// WithObserver sets the observer notified after every rule and record.
func WithObserver(o observe.Observer) Option {
	return func(v *Validator) {
		if o != nil {
			v.observer = o
		}
	}
}

// WithLogger sets the logger used for internal rule faults.
func WithLogger(l *slog.Logger) Option {
	return func(v *Validator) {
		if l != nil {
			v.log = l
		}
	}
}

// WithClock sets the clock used to time rule and record evaluation.
func WithClock(c clockz.Clock) Option {
	return func(v *Validator) {
		if c != nil {
			v.clock = c
		}
	}
}
