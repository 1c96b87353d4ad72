package mapping

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"lead-exporter/internal/diagnostic"
)

// ConfigError reports a mapping config that could not be loaded.
// Either Err (read or decode failure) or Diagnostics (invalid content) is set.
type ConfigError struct {
	Path        string
	Err         error
	Diagnostics *diagnostic.Diagnostics
}

func (e *ConfigError) Error() string {
	src := e.Path
	if src == "" {
		src = "<inline>"
	}

	if e.Err != nil {
		return fmt.Sprintf("mapping config %s: %v", src, e.Err)
	}

	return fmt.Sprintf("mapping config %s: %v", src, e.Diagnostics.Error())
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// IsNotFound reports whether err is a ConfigError for a missing file.
func IsNotFound(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce) && errors.Is(ce.Err, os.ErrNotExist)
}

// LoadFile reads, validates and builds the rule set stored at path.
func LoadFile(path string) (*RuleSet, error) {
	mf, err := ParseFile(path)
	if err != nil {
		return nil, &ConfigError{Path: path, Err: err}
	}

	return build(path, mf)
}

// Load validates and builds a rule set from an in-memory document.
func Load(data []byte) (*RuleSet, error) {
	mf, err := Parse(data)
	if err != nil {
		return nil, &ConfigError{Err: err}
	}

	return build("", mf)
}

func build(path string, mf *MappingFile) (*RuleSet, error) {
	diags := Validate(mf)
	if diags.HasErrors() {
		return nil, &ConfigError{Path: path, Diagnostics: diags}
	}

	rs := NewRuleSet(mf.Mappings)
	rs.meta = MappingFile{
		Version:      mf.Version,
		Description:  mf.Description,
		TargetObject: mf.TargetObject,
	}
	rs.diagnostics = *diags

	return rs, nil
}

// ParseFile loads and parses a mapping file from the given path.
func ParseFile(path string) (*MappingFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read mapping file %s: %w", path, err)
	}

	return Parse(data)
}

// Parse parses YAML (or JSON) data into a MappingFile and applies defaults.
func Parse(data []byte) (*MappingFile, error) {
	var mf MappingFile

	err := yaml.Unmarshal(data, &mf)
	if err != nil {
		return nil, fmt.Errorf("failed to parse mapping YAML: %w", err)
	}

	applyDefaults(&mf)

	return &mf, nil
}

// applyDefaults fills in default values for optional fields and migrates
// legacy notes directives into explicit transforms.
func applyDefaults(mf *MappingFile) {
	if mf.Version == "" {
		mf.Version = "1"
	}

	for i := range mf.Mappings {
		r := &mf.Mappings[i]
		if r.Transform != "" {
			continue
		}

		if t, ok := TransformFromNotes(r.Notes); ok {
			r.Transform = t
			r.legacy = true

			continue
		}

		r.Transform = TransformNone
	}
}

// Marshal serializes a MappingFile to YAML.
func Marshal(mf *MappingFile) ([]byte, error) {
	return yaml.Marshal(mf)
}

// WriteFile writes a MappingFile to the given path.
func WriteFile(mf *MappingFile, path string) error {
	data, err := Marshal(mf)
	if err != nil {
		return fmt.Errorf("failed to marshal mapping: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write mapping file %s: %w", path, err)
	}

	return nil
}
