package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/zoobzio/clockz"

	"lead-exporter/internal/common"
	"lead-exporter/internal/transform"
	"lead-exporter/internal/validate"
)

// CSVExporter renders output records as CSV and persists them.
// It is safe for concurrent use.
type CSVExporter struct {
	clock     clockz.Clock
	prefix    string
	ext       string
	delimiter rune
	log       *slog.Logger
}

// NewCSVExporter returns an exporter with the default prefix, extension and
// delimiter.
func NewCSVExporter(opts ...Option) *CSVExporter {
	x := &CSVExporter{
		clock:     clockz.RealClock,
		prefix:    DefaultPrefix,
		ext:       DefaultExtension,
		delimiter: DefaultDelimiter,
		log:       slog.Default(),
	}

	for _, opt := range opts {
		opt(x)
	}

	return x
}

// Render writes a header row of columns followed by one row per record with
// its values in column order. Null cells are empty. An empty batch renders
// to "" rather than a header-only table.
func (x *CSVExporter) Render(rows []validate.Output, columns []string) (string, error) {
	if common.IsEmpty(rows) {
		return "", nil
	}

	var buf bytes.Buffer

	w := csv.NewWriter(&buf)
	w.Comma = x.delimiter
	w.UseCRLF = true

	if err := w.Write(columns); err != nil {
		return "", fmt.Errorf("write header: %w", err)
	}

	record := make([]string, len(columns))
	for i, row := range rows {
		for j, col := range columns {
			record[j] = cell(row[col])
		}

		if err := w.Write(record); err != nil {
			return "", fmt.Errorf("write row %d: %w", i, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("flush csv: %w", err)
	}

	return buf.String(), nil
}

func cell(v any) string {
	s, err := transform.Text(v)
	if err != nil {
		return fmt.Sprint(v)
	}

	return s
}

// FileName returns the name a file persisted now would get.
func (x *CSVExporter) FileName() string {
	return fmt.Sprintf("%s_%s.%s", x.prefix, x.clock.Now().Format(timestampLayout), x.ext)
}

// Persist writes text into dir, creating it if needed, and returns the
// absolute path of the new file.
func (x *CSVExporter) Persist(text, dir string) (string, error) {
	if text == "" {
		return "", ErrNoData
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", &IOFailure{Op: "create directory", Path: dir, Err: err}
	}

	path, err := filepath.Abs(filepath.Join(dir, x.FileName()))
	if err != nil {
		return "", &IOFailure{Op: "resolve path", Path: dir, Err: err}
	}

	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return "", &IOFailure{Op: "write", Path: path, Err: err}
	}

	return path, nil
}

// Export renders rows and persists the result. An empty batch yields
// ErrNoData.
func (x *CSVExporter) Export(rows []validate.Output, columns []string, dir string) (string, error) {
	text, err := x.Render(rows, columns)
	if err != nil {
		return "", err
	}

	path, err := x.Persist(text, dir)
	if err != nil {
		return "", err
	}

	x.log.Info("exported leads", slog.Int("rows", len(rows)), slog.String("path", path))

	return path, nil
}
