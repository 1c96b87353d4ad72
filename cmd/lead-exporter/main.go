// Package main provides the CLI entrypoint for lead-exporter.
//
// lead-exporter validates a batch of podcast leads against a field mapping,
// writes the valid ones to a CSV file ready for CRM import and prints a run
// summary as JSON.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/davecgh/go-spew/spew"
	"github.com/joho/godotenv"

	"lead-exporter/internal/config"
	"lead-exporter/internal/export"
	"lead-exporter/internal/leads"
	"lead-exporter/internal/logging"
	"lead-exporter/internal/mapping"
	"lead-exporter/internal/metrics"
	"lead-exporter/internal/metrics/datadog"
	"lead-exporter/internal/metricstore"
	"lead-exporter/internal/observe"
	"lead-exporter/internal/orchestrate"
)

// Exit codes.
const (
	exitOK          = 0
	exitConfig      = 1
	exitBatchFailed = 2
)

type backendCloser interface {
	metrics.Backend
	Close() error
}

// deps holds the process dependencies run needs; tests replace them.
type deps struct {
	Stdout io.Writer
	Stderr io.Writer

	BackendFactory func(ctx context.Context, opts datadog.Options) (backendCloser, error)
}

func main() {
	if err := godotenv.Overload(); err != nil {
		slog.Debug("no .env file found, using environment variables")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	code := run(ctx, os.Args[1:], deps{
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		BackendFactory: func(ctx context.Context, opts datadog.Options) (backendCloser, error) {
			return datadog.NewBackend(ctx, opts)
		},
	})

	stop()
	os.Exit(code)
}

type options struct {
	dumpRules bool
	showStats bool
}

// parseFlags layers command-line flags over the environment configuration
// and validates the result.
func parseFlags(cfg *config.Config, args []string, stderr io.Writer) (options, error) {
	var o options

	fs := flag.NewFlagSet("lead-exporter", flag.ContinueOnError)
	fs.SetOutput(stderr)

	fs.StringVar(&cfg.Mapping.Path, "mapping", cfg.Mapping.Path, "field mapping file (YAML or JSON)")
	fs.StringVar(&cfg.Export.Input, "input", cfg.Export.Input, "leads file (JSON array or JSON lines)")
	fs.StringVar(&cfg.Export.Dir, "out", cfg.Export.Dir, "directory for CSV exports")
	fs.StringVar(&cfg.Export.Prefix, "prefix", cfg.Export.Prefix, "CSV file name prefix")
	fs.StringVar(&cfg.Export.Campaign, "campaign", cfg.Export.Campaign, "campaign id attached to events")
	fs.StringVar(&cfg.Metrics.Backend, "metrics-backend", cfg.Metrics.Backend, "metrics backend (none, datadog)")
	fs.StringVar(&cfg.Events.DBPath, "events-db", cfg.Events.DBPath, "SQLite event store path (empty disables it)")
	fs.StringVar(&cfg.Logging.Level, "log-level", cfg.Logging.Level, "log level (debug, info, warn, error)")
	fs.StringVar(&cfg.Logging.Format, "log-format", cfg.Logging.Format, "log format (text, json)")
	fs.BoolVar(&o.dumpRules, "dump-rules", false, "print the loaded rules and exit")
	fs.BoolVar(&o.showStats, "stats", false, "log step duration statistics from the event store after the run")

	if err := fs.Parse(args); err != nil {
		return o, err
	}

	return o, cfg.Validate()
}

// run executes one batch and returns the process exit code.
func run(ctx context.Context, args []string, d deps) int {
	if d.Stdout == nil {
		d.Stdout = io.Discard
	}
	if d.Stderr == nil {
		d.Stderr = io.Discard
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(d.Stderr, "failed to load configuration: %v\n", err)
		return exitConfig
	}

	opts, err := parseFlags(cfg, args, d.Stderr)
	if err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintln(d.Stderr, err.Error())
		}

		return exitConfig
	}

	// Logs go to stderr; stdout carries the JSON summary.
	logger := logging.SetupWriter(d.Stderr, cfg.Logging.Level, cfg.Logging.Format)
	logger.Debug("configuration loaded", "config", cfg.String())

	rules, err := mapping.LoadFile(cfg.Mapping.Path)
	if err != nil {
		fmt.Fprintln(d.Stderr, err.Error())
		return exitConfig
	}

	diags := rules.Diagnostics()
	for _, w := range diags.Warnings {
		logger.Warn("mapping config", "finding", w.String())
	}
	for _, i := range diags.Infos {
		logger.Debug("mapping config", "finding", i.String())
	}

	if opts.dumpRules {
		spew.Fdump(d.Stdout, rules.Rules())
		return exitOK
	}

	if cfg.Export.Input == "" {
		fmt.Fprintln(d.Stderr, "no input: set -input or LEAD_INPUT_PATH")
		return exitConfig
	}

	records, err := leads.ReadFile(cfg.Export.Input)
	if err != nil {
		fmt.Fprintln(d.Stderr, err.Error())
		return exitConfig
	}

	observers := []observe.Observer{observe.NewLogger(logger)}

	switch strings.ToLower(cfg.Metrics.Backend) {
	case "datadog":
		tags := append(append([]string(nil), cfg.Metrics.Tags...), "tool:lead_exporter")

		b, err := d.BackendFactory(ctx, datadog.Options{
			JobName:    cfg.Metrics.JobName,
			Tags:       tags,
			FlushEvery: cfg.Metrics.FlushEvery,
			APIKey:     cfg.Metrics.DatadogAPIKey,
		})
		if err != nil {
			logger.Warn("metrics: failed to init datadog backend; using nop", "error", err)
		} else {
			logger.Info("metrics: datadog backend enabled", "job_name", cfg.Metrics.JobName, "tags", tags)
			metrics.SetBackend(b)
			observers = append(observers, observe.Metrics{})

			defer func() {
				if err := b.Close(); err != nil {
					logger.Warn("metrics: datadog close/flush error", "error", err)
				}
				metrics.SetBackend(nil)
			}()
		}
	case "", "none":
		logger.Debug("metrics: disabled")
	}

	var store *metricstore.Store
	if cfg.Events.DBPath != "" {
		store, err = metricstore.Open(ctx, cfg.Events.DBPath)
		if err != nil {
			fmt.Fprintln(d.Stderr, err.Error())
			return exitConfig
		}
		defer store.Close()

		observers = append(observers, store.Observer(logger, cfg.Events.RecordRules))
	}

	hooks := observe.NewHooks()
	defer hooks.Close()

	_ = hooks.OnExport(func(ctx context.Context, e observe.Event) error {
		if !e.OK {
			logging.WithFields(ctx, "errors", e.Errors).Error("export step failed")
		}

		return nil
	})
	_ = hooks.OnBatchCompleted(func(ctx context.Context, _ observe.Event) error {
		if err := metrics.Flush(); err != nil {
			logging.FromContext(ctx).Warn("metrics: flush after batch failed", "error", err)
		}

		return nil
	})
	observers = append(observers, hooks)

	svc := orchestrate.New(rules,
		orchestrate.WithObserver(observe.Combine(observers...)),
		orchestrate.WithLogger(logger),
		orchestrate.WithCampaign(cfg.Export.Campaign),
		orchestrate.WithExporter(export.NewCSVExporter(
			export.WithPrefix(cfg.Export.Prefix),
			export.WithLogger(logger),
		)),
	)
	defer svc.Close()

	sum := svc.Process(ctx, records, cfg.Export.Dir)

	enc := json.NewEncoder(d.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(sum); err != nil {
		fmt.Fprintf(d.Stderr, "failed to write summary: %v\n", err)
	}

	if store != nil && opts.showStats {
		stats, err := store.StepDurations(ctx, cfg.Export.Campaign)
		if err != nil {
			logger.Warn("failed to read step durations", "error", err)
		}

		for step, st := range stats {
			logger.Info("step durations",
				"step", step,
				"count", st.Count,
				"avg_ms", st.AvgMs,
				"median_ms", st.MedianMs)
		}
	}

	if !sum.Status.OK() {
		return exitBatchFailed
	}

	return exitOK
}
