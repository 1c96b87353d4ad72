package mapping

import (
	"slices"

	"lead-exporter/internal/common"
)

// MappingFile represents the root of a mapping definition file.
type MappingFile struct {
	// Version of the mapping schema (for future compatibility).
	Version string `yaml:"version,omitempty"`

	// Description is free text describing the mapping.
	Description string `yaml:"description,omitempty"`

	// TargetObject names the CRM object the exported rows are imported into.
	TargetObject string `yaml:"target_object,omitempty"`

	// Mappings is the ordered list of field rules.
	Mappings []MappingRule `yaml:"mappings"`
}

// MappingRule maps one source field of a raw lead to one target column.
type MappingRule struct {
	// SourceField is the key read from the raw lead.
	SourceField string `yaml:"source_field"`

	// TargetField is the output column. An empty target makes the rule
	// evaluate without ever writing a value or contributing a column.
	TargetField string `yaml:"target_field,omitempty"`

	// Required marks values that must be present and non-empty.
	Required bool `yaml:"required,omitempty"`

	// Type is the value type the raw value must satisfy.
	Type FieldType `yaml:"type"`

	// Transform is applied after the type check.
	Transform Transform `yaml:"transform,omitempty"`

	// Notes is documentation only.
	Notes string `yaml:"notes,omitempty"`

	// legacy is set when Transform was migrated from a notes directive.
	legacy bool
}

// HasTarget reports whether the rule writes an output column.
func (r MappingRule) HasTarget() bool {
	return r.TargetField != ""
}

// FieldType is the declared type of a mapped value.
type FieldType string

const (
	TypeText        FieldType = "text"
	TypeNumber      FieldType = "number"
	TypeURL         FieldType = "url"
	TypeEmail       FieldType = "email"
	TypeDate        FieldType = "date"
	TypeMultiSelect FieldType = "multi-select"
)

var fieldTypes = []FieldType{TypeText, TypeNumber, TypeURL, TypeEmail, TypeDate, TypeMultiSelect}

// IsValid returns true if the type is a recognized value.
func (t FieldType) IsValid() bool {
	return slices.Contains(fieldTypes, t)
}

// String returns the type name, or "unknown" for unrecognized values.
func (t FieldType) String() string {
	if !t.IsValid() {
		return common.UnknownStr
	}

	return string(t)
}

// FieldTypeNames lists the recognized type names in declaration order.
func FieldTypeNames() []string {
	names := make([]string, len(fieldTypes))
	for i, t := range fieldTypes {
		names[i] = string(t)
	}

	return names
}
