// Package metricstore persists instrumentation events in SQLite and answers
// the step-duration and time-series queries analytics consumers run over
// them.
package metricstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"lead-exporter/internal/observe"
)

// Timestamps are stored as UTC text so SQLite date functions can bucket them.
const tsLayout = "2006-01-02T15:04:05.000Z"

const schema = `
CREATE TABLE IF NOT EXISTS events (
	id          TEXT PRIMARY KEY,
	ts          TEXT NOT NULL,
	event_name  TEXT NOT NULL,
	run_id      TEXT,
	campaign_id TEXT,
	step        TEXT,
	duration_ms REAL,
	count       INTEGER,
	metadata    TEXT
);
CREATE INDEX IF NOT EXISTS events_campaign_step ON events (campaign_id, step);
CREATE INDEX IF NOT EXISTS events_name_ts ON events (event_name, ts);
`

// Store is an SQLite-backed event log.
type Store struct {
	db *sql.DB
}

// Open connects to the SQLite database at dsn and creates the schema.
func Open(ctx context.Context, dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open event store: %w", err)
	}

	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("open event store: %w", err)
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create event schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Record inserts one event. Events without a duration store NULL.
func (s *Store) Record(ctx context.Context, e observe.Event) error {
	meta, err := metadata(e)
	if err != nil {
		return fmt.Errorf("encode event metadata: %w", err)
	}

	ts := e.Time
	if ts.IsZero() {
		ts = time.Now()
	}

	var duration sql.NullFloat64
	if e.Duration > 0 {
		duration = sql.NullFloat64{Float64: float64(e.Duration) / float64(time.Millisecond), Valid: true}
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO events (id, ts, event_name, run_id, campaign_id, step, duration_ms, count, metadata)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		uuid.New().String(),
		ts.UTC().Format(tsLayout),
		e.Name,
		nullString(e.RunID),
		nullString(e.Campaign),
		nullString(e.Step),
		duration,
		e.Count,
		meta,
	)
	if err != nil {
		return fmt.Errorf("insert event %s: %w", e.Name, err)
	}

	return nil
}

func metadata(e observe.Event) (string, error) {
	m := make(map[string]any, len(e.Attrs)+4)
	for k, v := range e.Attrs {
		m[k] = v
	}

	m["ok"] = e.OK
	if e.Record != "" {
		m["record"] = e.Record
	}
	if e.Field != "" {
		m["field"] = e.Field
	}
	if len(e.Errors) > 0 {
		m["errors"] = e.Errors
	}

	b, err := json.Marshal(m)
	if err != nil {
		return "", err
	}

	return string(b), nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// StepStats summarizes the recorded durations of one step.
type StepStats struct {
	Count    int     `json:"count"`
	AvgMs    float64 `json:"avg_duration_ms"`
	MedianMs float64 `json:"median_duration_ms"`
}

// StepDurations returns average and median durations per step for every
// event that carries a duration. An empty campaignID covers all campaigns.
func (s *Store) StepDurations(ctx context.Context, campaignID string) (map[string]StepStats, error) {
	q := `SELECT step, duration_ms FROM events WHERE duration_ms IS NOT NULL AND step IS NOT NULL`
	args := []any{}

	if campaignID != "" {
		q += ` AND campaign_id = ?`
		args = append(args, campaignID)
	}

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query step durations: %w", err)
	}
	defer rows.Close()

	samples := map[string][]float64{}
	for rows.Next() {
		var (
			step string
			ms   float64
		)
		if err := rows.Scan(&step, &ms); err != nil {
			return nil, fmt.Errorf("scan step duration: %w", err)
		}

		samples[step] = append(samples[step], ms)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query step durations: %w", err)
	}

	out := make(map[string]StepStats, len(samples))
	for step, ds := range samples {
		out[step] = StepStats{Count: len(ds), AvgMs: mean(ds), MedianMs: median(ds)}
	}

	return out, nil
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}

	var sum float64
	for _, x := range xs {
		sum += x
	}

	return sum / float64(len(xs))
}

func median(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}

	s := append([]float64(nil), xs...)
	sort.Float64s(s)

	mid := len(s) / 2
	if len(s)%2 == 1 {
		return s[mid]
	}

	return (s[mid-1] + s[mid]) / 2
}

// Bucket is a time-series granularity.
type Bucket string

const (
	BucketHour  Bucket = "hour"
	BucketDay   Bucket = "day"
	BucketMonth Bucket = "month"
)

func (b Bucket) format() string {
	switch b {
	case BucketHour:
		return "%Y-%m-%dT%H:00:00Z"
	case BucketMonth:
		return "%Y-%m-01"
	default:
		return "%Y-%m-%d"
	}
}

// BucketCount is one point of a time series.
type BucketCount struct {
	Bucket string `json:"bucket"`
	Count  int    `json:"count"`
}

// TimeSeries counts events named eventName per bucket, oldest first.
// Unknown buckets fall back to daily.
func (s *Store) TimeSeries(ctx context.Context, eventName string, bucket Bucket, campaignID string) ([]BucketCount, error) {
	q := `SELECT strftime(?, ts) AS bucket, COUNT(*) FROM events WHERE event_name = ?`
	args := []any{bucket.format(), eventName}

	if campaignID != "" {
		q += ` AND campaign_id = ?`
		args = append(args, campaignID)
	}

	q += ` GROUP BY bucket ORDER BY bucket`

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query time series: %w", err)
	}
	defer rows.Close()

	out := []BucketCount{}
	for rows.Next() {
		var bc BucketCount
		if err := rows.Scan(&bc.Bucket, &bc.Count); err != nil {
			return nil, fmt.Errorf("scan time series: %w", err)
		}

		out = append(out, bc)
	}

	return out, rows.Err()
}
