package orchestrate

import (
	"context"
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zoobzio/clockz"

	"lead-exporter/internal/mapping"
	"lead-exporter/internal/observe"
	"lead-exporter/internal/validate"
)

const testMapping = `
mappings:
  - {source_field: name, target_field: Company Name, required: true, type: text}
  - {source_field: podcast_link, target_field: Domain, required: true, type: text, transform: extract_domain}
  - {source_field: must_exist, target_field: Must Exist, required: true, type: text}
  - {source_field: episode_count, target_field: Episode Count, type: number}
  - {source_field: email, target_field: Contact Email, type: email}
`

func testRules(t *testing.T) *mapping.RuleSet {
	t.Helper()

	rs, err := mapping.Load([]byte(testMapping))
	require.NoError(t, err)

	return rs
}

func goodLead(name string) validate.Record {
	return validate.Record{
		"name":          name,
		"podcast_link":  "https://" + name + ".fm",
		"must_exist":    "yes",
		"episode_count": 10,
		"email":         "host@example.com",
	}
}

type fakeExporter struct {
	err     error
	rows    []validate.Output
	columns []string
}

func (f *fakeExporter) Export(rows []validate.Output, columns []string, _ string) (string, error) {
	f.rows = rows
	f.columns = columns
	if f.err != nil {
		return "", f.err
	}

	return "/exports/out.csv", nil
}

type panickingValidator struct{}

func (panickingValidator) Validate(context.Context, validate.Record) validate.Outcome {
	panic("boom")
}

type recorder struct {
	mu     sync.Mutex
	events []observe.Event
}

func (r *recorder) Observe(_ context.Context, e observe.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recorder) named(name string) []observe.Event {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []observe.Event
	for _, e := range r.events {
		if e.Name == name {
			out = append(out, e)
		}
	}

	return out
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)

	return rows
}

func TestProcess_PartialSuccess(t *testing.T) {
	svc := New(testRules(t), WithClock(clockz.NewFakeClock()))
	defer svc.Close()

	dir := filepath.Join(t.TempDir(), "exports")

	sum := svc.Process(context.Background(), []validate.Record{
		goodLead("good"),
		{"name": "Missing Fields", "podcast_link": "https://missing.fm"},
	}, dir)

	assert.Equal(t, StatusPartialSuccess, sum.Status)
	assert.Equal(t, 2, sum.TotalInput)
	assert.Equal(t, 1, sum.ValidCount)
	assert.Empty(t, sum.FatalError)
	assert.NotEmpty(t, sum.RunID)

	require.Len(t, sum.RecordErrors, 1)
	assert.Equal(t, []string{"Required field 'must_exist' (maps to 'Must Exist') is missing."}, sum.RecordErrors["Missing Fields"])

	assert.Equal(t, []Phase{PhaseNotStarted, PhaseValidating, PhaseExporting, PhaseDone}, sum.Phases)

	require.NotEmpty(t, sum.OutputPath)
	rows := readCSV(t, sum.OutputPath)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"Company Name", "Domain", "Must Exist", "Episode Count", "Contact Email"}, rows[0])
	assert.Equal(t, []string{"good", "good.fm", "yes", "10", "host@example.com"}, rows[1])
}

func TestProcess_Success(t *testing.T) {
	svc := New(testRules(t))

	sum := svc.Process(context.Background(), []validate.Record{goodLead("a"), goodLead("b")}, t.TempDir())

	assert.Equal(t, StatusSuccess, sum.Status)
	assert.Equal(t, 2, sum.ValidCount)
	assert.Nil(t, sum.RecordErrors)
	assert.Len(t, readCSV(t, sum.OutputPath), 3)
}

func TestProcess_NoLeads(t *testing.T) {
	svc := New(testRules(t))
	dir := filepath.Join(t.TempDir(), "never")

	sum := svc.Process(context.Background(), nil, dir)

	assert.Equal(t, StatusNoLeadsProvided, sum.Status)
	assert.Equal(t, 0, sum.TotalInput)
	assert.Empty(t, sum.OutputPath)
	assert.Equal(t, []Phase{PhaseNotStarted, PhaseValidating, PhaseSkipped, PhaseDone}, sum.Phases)

	_, err := os.Stat(dir)
	assert.True(t, os.IsNotExist(err), "no file or directory is written")
}

func TestProcess_ValidationFailure(t *testing.T) {
	exp := &fakeExporter{}
	svc := New(testRules(t), WithExporter(exp))

	sum := svc.Process(context.Background(), []validate.Record{
		{"name": "No Link", "must_exist": "y"},
		{"podcast_link": "https://anon.fm", "must_exist": "y"},
	}, t.TempDir())

	assert.Equal(t, StatusValidationFailure, sum.Status)
	assert.Equal(t, 0, sum.ValidCount)
	assert.Nil(t, exp.rows, "export is not attempted")
	assert.Contains(t, sum.RecordErrors, "No Link")
	assert.Contains(t, sum.RecordErrors, "Lead Index 1")
	assert.False(t, sum.Status.OK())
}

func TestProcess_DuplicateIdentifiersAreKept(t *testing.T) {
	svc := New(testRules(t), WithExporter(&fakeExporter{}))

	sum := svc.Process(context.Background(), []validate.Record{
		{"name": "Same"},
		{"name": "Same"},
		{"name": "Same"},
	}, "")

	assert.Len(t, sum.RecordErrors, 3)
	assert.Contains(t, sum.RecordErrors, "Same")
	assert.Contains(t, sum.RecordErrors, "Same (2)")
	assert.Contains(t, sum.RecordErrors, "Same (3)")
}

func TestProcess_ExportFailureKeepsValidationErrors(t *testing.T) {
	exp := &fakeExporter{err: errors.New("disk full")}
	svc := New(testRules(t), WithExporter(exp))

	sum := svc.Process(context.Background(), []validate.Record{
		goodLead("ok"),
		{"name": "bad"},
	}, "out")

	assert.Equal(t, StatusSystemFailure, sum.Status)
	assert.Equal(t, "CSV export failed: disk full", sum.FatalError)
	assert.Equal(t, 1, sum.ValidCount)
	assert.Empty(t, sum.OutputPath)
	assert.Contains(t, sum.RecordErrors, "bad")

	require.Len(t, exp.rows, 1)
	assert.Equal(t, svc.rules.Columns(), exp.columns)
}

func TestProcess_PersistIOFailure(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	sum := New(testRules(t)).Process(context.Background(), []validate.Record{goodLead("ok")}, filepath.Join(blocker, "sub"))

	assert.Equal(t, StatusSystemFailure, sum.Status)
	assert.Contains(t, sum.FatalError, "CSV export failed: create directory")
}

func TestProcess_ValidatorPanicIsCaptured(t *testing.T) {
	svc := New(testRules(t), WithValidator(panickingValidator{}))

	var sum *Summary
	require.NotPanics(t, func() {
		sum = svc.Process(context.Background(), []validate.Record{{"name": "x"}}, t.TempDir())
	})

	assert.Equal(t, StatusValidationFailure, sum.Status)
	assert.Equal(t, []string{"Internal validation error: boom"}, sum.RecordErrors["x"])
}

func TestProcess_CancelledContext(t *testing.T) {
	exp := &fakeExporter{}
	svc := New(testRules(t), WithExporter(exp))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sum := svc.Process(ctx, []validate.Record{goodLead("a"), {"name": "b"}}, "out")

	assert.Equal(t, StatusSystemFailure, sum.Status)
	assert.Equal(t, "Export aborted: context canceled", sum.FatalError)
	assert.Equal(t, []string{"Internal validation error: context canceled"}, sum.RecordErrors["a"])
	assert.Len(t, sum.RecordErrors, 2)
	assert.Nil(t, exp.rows)
	assert.Contains(t, sum.Phases, PhaseSkipped)
}

func TestProcess_MetricsAndTiming(t *testing.T) {
	clock := clockz.NewFakeClock()
	svc := New(testRules(t), WithClock(clock), WithExporter(&fakeExporter{}), WithCampaign("spring"))
	defer svc.Close()

	sum := svc.Process(context.Background(), []validate.Record{goodLead("a"), {"name": "b"}, goodLead("c")}, "")

	assert.Equal(t, "spring", sum.CampaignID)
	assert.Equal(t, clock.Now(), sum.StartedAt)
	assert.Equal(t, sum.StartedAt, sum.FinishedAt)
	assert.Zero(t, sum.Duration())

	m := svc.Metrics()
	assert.Equal(t, 3.0, m.Counter(RecordsTotal).Value())
	assert.Equal(t, 2.0, m.Counter(RecordsValidTotal).Value())
	assert.Equal(t, 1.0, m.Counter(RecordsInvalidTotal).Value())
	assert.Equal(t, 1.0, m.Counter(BatchesTotal).Value())
	assert.Equal(t, 0.0, m.Counter(FailuresTotal).Value())
	assert.NotNil(t, svc.Tracer())
}

func TestProcess_NotifiesObserver(t *testing.T) {
	rec := &recorder{}
	rs := testRules(t)
	svc := New(rs, WithObserver(rec), WithExporter(&fakeExporter{}), WithCampaign("c1"))

	sum := svc.Process(context.Background(), []validate.Record{goodLead("a"), {"name": "b"}}, "")

	assert.Len(t, rec.named(observe.RuleEvaluated), 2*rs.Len())
	require.Len(t, rec.named(observe.RecordValidated), 2)
	require.Len(t, rec.named(observe.ExportCompleted), 1)
	assert.Equal(t, 1, rec.named(observe.ExportCompleted)[0].Count)

	batch := rec.named(observe.BatchCompleted)
	require.Len(t, batch, 1)
	assert.Equal(t, string(StatusPartialSuccess), batch[0].Attrs["status"])
	assert.Equal(t, 2, batch[0].Count)
	assert.True(t, batch[0].OK)

	for _, e := range rec.events {
		assert.Equal(t, sum.RunID, e.RunID, e.Name)
		assert.Equal(t, "c1", e.Campaign, e.Name)
	}
}

func TestProcess_ExportFailureEvent(t *testing.T) {
	rec := &recorder{}
	svc := New(testRules(t), WithObserver(rec), WithExporter(&fakeExporter{err: errors.New("nope")}))

	svc.Process(context.Background(), []validate.Record{goodLead("a")}, "")

	failed := rec.named(observe.ExportFailed)
	require.Len(t, failed, 1)
	assert.False(t, failed[0].OK)
	assert.Equal(t, []string{"nope"}, failed[0].Errors)
	assert.False(t, rec.named(observe.BatchCompleted)[0].OK)
}

func TestIdentifier(t *testing.T) {
	assert.Equal(t, "Show", identifier(validate.Record{"name": "Show"}, 3))
	assert.Equal(t, "Lead Index 3", identifier(validate.Record{}, 3))
	assert.Equal(t, "Lead Index 0", identifier(validate.Record{"name": ""}, 0))
	assert.Equal(t, "Lead Index 1", identifier(validate.Record{"name": []any{"Show"}}, 1))
}
