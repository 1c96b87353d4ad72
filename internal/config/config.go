// Package config loads process configuration from environment variables.
// Every setting has a default except the Datadog API key, which is only
// required when the Datadog metrics backend is selected.
package config

import "time"

// Config holds all application configuration.
type Config struct {
	Mapping MappingConfig
	Export  ExportConfig
	Metrics MetricsConfig
	Events  EventsConfig
	Logging LoggingConfig
}

// MappingConfig locates the field mapping file.
type MappingConfig struct {
	// Path is the YAML or JSON mapping file (default: configs/attio_mapping.yaml)
	Path string `env:"LEAD_MAPPING_PATH" default:"configs/attio_mapping.yaml"`
}

// ExportConfig holds batch input and CSV output settings.
type ExportConfig struct {
	// Input is the leads file to process; the -input flag overrides it.
	Input string `env:"LEAD_INPUT_PATH"`

	// Dir is where CSV files are written (default: exports)
	Dir string `env:"LEAD_EXPORT_DIR" envAlt:"EXPORT_DIR" default:"exports"`

	// Prefix is the CSV file name prefix (default: attio_export)
	Prefix string `env:"LEAD_EXPORT_PREFIX" default:"attio_export"`

	// Campaign tags every event of the run.
	Campaign string `env:"CAMPAIGN_ID"`
}

// MetricsConfig selects and configures the metrics backend.
type MetricsConfig struct {
	// Backend is "none" or "datadog" (default: none)
	Backend string `env:"METRICS_BACKEND" default:"none"`

	// JobName is reported as the job tag (default: lead_export)
	JobName string `env:"METRICS_JOB_NAME" default:"lead_export"`

	// Tags is a comma-separated list of extra key:value tags.
	Tags []string `env:"METRICS_TAGS"`

	// FlushEvery is the submission interval (default: 60s)
	FlushEvery time.Duration `env:"METRICS_FLUSH_EVERY" default:"60s"`

	// DatadogAPIKey is read by the Datadog client; required for that backend.
	DatadogAPIKey string `env:"DD_API_KEY" envAlt:"DATADOG_API_KEY"`
}

// EventsConfig configures the SQLite event store.
type EventsConfig struct {
	// DBPath enables the event store when set.
	DBPath string `env:"EVENTS_DB_PATH"`

	// RecordRules also stores one event per evaluated rule (default: false)
	RecordRules bool `env:"EVENTS_RECORD_RULES" default:"false"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`
}
