package config

import (
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"
)

// Load reads configuration from environment variables, applies defaults and
// validates the result.
func Load() (*Config, error) {
	cfg := &Config{}

	if err := loadStruct(reflect.ValueOf(cfg).Elem()); err != nil {
		return nil, fmt.Errorf("config load: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

// loadStruct recursively populates struct fields from environment variables.
func loadStruct(v reflect.Value) error {
	t := v.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		fieldVal := v.Field(i)

		if !fieldVal.CanSet() {
			continue
		}

		if field.Type.Kind() == reflect.Struct {
			if err := loadStruct(fieldVal); err != nil {
				return err
			}

			continue
		}

		envName := field.Tag.Get("env")
		if envName == "" {
			continue
		}

		value := os.Getenv(envName)
		if alt := field.Tag.Get("envAlt"); value == "" && alt != "" {
			value = os.Getenv(alt)
		}

		if value == "" {
			if field.Tag.Get("required") == "true" {
				return fmt.Errorf("required environment variable %s is not set", envName)
			}

			value = field.Tag.Get("default")
		}

		if value == "" {
			continue
		}

		if err := setField(fieldVal, value); err != nil {
			return fmt.Errorf("invalid value for %s=%q: %w", envName, value, err)
		}
	}

	return nil
}

// setField sets a reflect.Value from a string based on its type.
func setField(field reflect.Value, value string) error {
	switch field.Kind() {
	case reflect.String:
		field.SetString(value)

	case reflect.Int, reflect.Int64:
		if field.Type() == reflect.TypeOf(time.Duration(0)) {
			d, err := time.ParseDuration(value)
			if err != nil {
				return fmt.Errorf("invalid duration: %w", err)
			}

			field.Set(reflect.ValueOf(d))

			return nil
		}

		i, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid integer: %w", err)
		}

		field.SetInt(i)

	case reflect.Bool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean: %w", err)
		}

		field.SetBool(b)

	case reflect.Slice:
		if field.Type().Elem().Kind() != reflect.String {
			return fmt.Errorf("unsupported slice type: %s", field.Type().Elem().Kind())
		}

		parts := strings.Split(value, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				result = append(result, p)
			}
		}

		field.Set(reflect.ValueOf(result))

	default:
		return fmt.Errorf("unsupported field type: %s", field.Kind())
	}

	return nil
}

// Validate checks that the configuration is usable and reports every
// problem at once.
func (c *Config) Validate() error {
	var errs []string

	if c.Mapping.Path == "" {
		errs = append(errs, "LEAD_MAPPING_PATH must not be empty")
	}
	if c.Export.Dir == "" {
		errs = append(errs, "LEAD_EXPORT_DIR must not be empty")
	}
	if strings.ContainsAny(c.Export.Prefix, `/\`) {
		errs = append(errs, fmt.Sprintf("LEAD_EXPORT_PREFIX (%q) must not contain path separators", c.Export.Prefix))
	}

	switch strings.ToLower(c.Metrics.Backend) {
	case "", "none":
	case "datadog":
		if c.Metrics.DatadogAPIKey == "" {
			errs = append(errs, "DD_API_KEY is required when METRICS_BACKEND is datadog")
		}
	default:
		errs = append(errs, fmt.Sprintf("METRICS_BACKEND (%q) must be one of: none, datadog", c.Metrics.Backend))
	}
	if c.Metrics.FlushEvery <= 0 {
		errs = append(errs, "METRICS_FLUSH_EVERY must be positive")
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, fmt.Sprintf("LOG_LEVEL (%q) must be one of: debug, info, warn, error", c.Logging.Level))
	}

	validFormats := map[string]bool{"text": true, "json": true}
	if !validFormats[strings.ToLower(c.Logging.Format)] {
		errs = append(errs, fmt.Sprintf("LOG_FORMAT (%q) must be one of: text, json", c.Logging.Format))
	}

	if len(errs) > 0 {
		return fmt.Errorf("validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}

	return nil
}

// String returns a representation safe for logging; the API key is masked.
func (c *Config) String() string {
	key := ""
	if c.Metrics.DatadogAPIKey != "" {
		key = "[MASKED]"
	}

	var b strings.Builder
	b.WriteString("Config{")
	b.WriteString(fmt.Sprintf("Mapping: {Path: %q}, ", c.Mapping.Path))
	b.WriteString(fmt.Sprintf("Export: {Input: %q, Dir: %q, Prefix: %q, Campaign: %q}, ",
		c.Export.Input, c.Export.Dir, c.Export.Prefix, c.Export.Campaign))
	b.WriteString(fmt.Sprintf("Metrics: {Backend: %q, JobName: %q, Tags: %v, FlushEvery: %s, DatadogAPIKey: %q}, ",
		c.Metrics.Backend, c.Metrics.JobName, c.Metrics.Tags, c.Metrics.FlushEvery, key))
	b.WriteString(fmt.Sprintf("Events: {DBPath: %q, RecordRules: %v}, ", c.Events.DBPath, c.Events.RecordRules))
	b.WriteString(fmt.Sprintf("Logging: {Level: %q, Format: %q}", c.Logging.Level, c.Logging.Format))
	b.WriteString("}")

	return b.String()
}
