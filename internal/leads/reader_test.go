package leads

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lead-exporter/internal/validate"
)

func TestRead(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []validate.Record
	}{
		{
			name:  "array",
			input: `[{"name": "A", "episode_count": 12}, {"name": "B", "categories": ["x", "y"]}]`,
			want: []validate.Record{
				{"name": "A", "episode_count": json.Number("12")},
				{"name": "B", "categories": []any{"x", "y"}},
			},
		},
		{
			name:  "json lines",
			input: "{\"name\": \"A\"}\n\n{\"name\": \"B\", \"email\": null}\n",
			want: []validate.Record{
				{"name": "A"},
				{"name": "B", "email": nil},
			},
		},
		{
			name:  "envelope",
			input: `{"leads": [{"name": "A"}]}`,
			want:  []validate.Record{{"name": "A"}},
		},
		{
			name:  "empty input",
			input: "  \n",
			want:  []validate.Record{},
		},
		{
			name:  "empty array",
			input: "[]",
			want:  []validate.Record{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Read(strings.NewReader(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRead_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "array of scalars", input: `[1, 2]`},
		{name: "broken array", input: `[{"name": "A"}`},
		{name: "scalar line", input: "{\"name\": \"A\"}\n\"oops\"\n"},
		{name: "envelope with scalars", input: `{"leads": [1]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Read(strings.NewReader(tt.input))
			require.Error(t, err)
		})
	}

	_, err := Read(strings.NewReader(`[1]`))
	assert.ErrorIs(t, err, ErrNotObject)
}

func TestRead_EnvelopeMustBeLast(t *testing.T) {
	_, err := Read(strings.NewReader("{\"leads\": [{\"name\": \"A\"}]}\n{\"name\": \"B\"}\n"))
	assert.ErrorIs(t, err, ErrTrailingData)

	got, err := Read(strings.NewReader("{\"leads\": [{\"name\": \"A\"}]}\n\n  \n"))
	require.NoError(t, err)
	assert.Equal(t, []validate.Record{{"name": "A"}}, got)
}

func TestReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "leads.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"name": "A"}]`), 0o644))

	got, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []validate.Record{{"name": "A"}}, got)

	_, err = ReadFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
