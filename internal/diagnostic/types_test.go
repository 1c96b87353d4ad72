package diagnostic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiagnostics_ErrorJoinsMessages(t *testing.T) {
	d := &Diagnostics{}
	assert.True(t, d.IsValid())
	assert.NoError(t, d.Error())

	d.AddError("unknown_type", `unknown field type "txt"`, "mappings[0]", "name", "text")
	d.AddError("empty_source_field", "source_field is required", "mappings[2]", "")
	d.AddWarning("duplicate_source_field", "declared twice", "mappings[4]", "email")

	require.True(t, d.HasErrors())
	assert.True(t, d.HasWarnings())
	assert.Equal(t, []string{"unknown_type", "empty_source_field"}, d.Codes(DiagnosticError))
	assert.Equal(t, []string{"duplicate_source_field"}, d.Codes(DiagnosticWarning))

	err := d.Error()
	require.Error(t, err)
	assert.Equal(t,
		`[mappings[0]] name: [unknown_type] unknown field type "txt" (did you mean "text"?); `+
			`[mappings[2]]: [empty_source_field] source_field is required`,
		err.Error())
}

func TestDiagnostics_Merge(t *testing.T) {
	a := &Diagnostics{}
	a.AddInfo("defaulted_transform", "transform defaulted to none", "mappings[0]", "name")

	b := Diagnostics{}
	b.AddError("no_mappings", "config declares no mappings", "", "")

	a.Merge(b)
	assert.Len(t, a.Infos, 1)
	assert.Len(t, a.Errors, 1)
	assert.False(t, a.IsValid())
}

func TestSeverity_String(t *testing.T) {
	assert.Equal(t, "info", DiagnosticInfo.String())
	assert.Equal(t, "warning", DiagnosticWarning.String())
	assert.Equal(t, "error", DiagnosticError.String())
	assert.Equal(t, "unknown", DiagnosticSeverity(42).String())
}
