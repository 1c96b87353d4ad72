package export

import (
	"log/slog"

	"github.com/zoobzio/clockz"
)

const (
	DefaultPrefix    = "attio_export"
	DefaultExtension = "csv"
	DefaultDelimiter = ','

	timestampLayout = "20060102_150405"
)

// Option configures a CSVExporter.
type Option func(*CSVExporter)

// WithClock sets the clock used for file name timestamps.
func WithClock(c clockz.Clock) Option {
	return func(x *CSVExporter) {
		if c != nil {
			x.clock = c
		}
	}
}

// WithPrefix sets the file name prefix.
func WithPrefix(prefix string) Option {
	return func(x *CSVExporter) {
		if prefix != "" {
			x.prefix = prefix
		}
	}
}

// WithExtension sets the file extension, without the leading dot.
func WithExtension(ext string) Option {
	return func(x *CSVExporter) {
		if ext != "" {
			x.ext = ext
		}
	}
}

// WithDelimiter sets the field delimiter.
func WithDelimiter(d rune) Option {
	return func(x *CSVExporter) {
		x.delimiter = d
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(x *CSVExporter) {
		if l != nil {
			x.log = l
		}
	}
}
