package mapping

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// rawRule mirrors MappingRule with the aliases accepted on input.
type rawRule struct {
	SourceField string    `yaml:"source_field"`
	TargetField string    `yaml:"target_field"`
	AttioField  string    `yaml:"attio_field"`
	Required    bool      `yaml:"required"`
	Type        FieldType `yaml:"type"`
	Transform   Transform `yaml:"transform"`
	Notes       string    `yaml:"notes"`
}

// UnmarshalYAML implements custom YAML unmarshaling for MappingRule.
// "attio_field" is accepted as an alias of "target_field"; when both are
// present target_field wins.
func (r *MappingRule) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: expected a mapping rule object, got %v", node.Line, kindName(node.Kind))
	}

	var raw rawRule
	if err := node.Decode(&raw); err != nil {
		return err
	}

	target := raw.TargetField
	if target == "" {
		target = raw.AttioField
	}

	*r = MappingRule{
		SourceField: raw.SourceField,
		TargetField: target,
		Required:    raw.Required,
		Type:        raw.Type,
		Transform:   raw.Transform,
		Notes:       raw.Notes,
	}

	return nil
}

// MarshalYAML implements custom YAML marshaling for MappingRule.
// The default transform is omitted.
func (r MappingRule) MarshalYAML() (any, error) {
	transform := r.Transform
	if transform == TransformNone {
		transform = ""
	}

	return struct {
		SourceField string    `yaml:"source_field"`
		TargetField string    `yaml:"target_field,omitempty"`
		Required    bool      `yaml:"required,omitempty"`
		Type        FieldType `yaml:"type"`
		Transform   Transform `yaml:"transform,omitempty"`
		Notes       string    `yaml:"notes,omitempty"`
	}{r.SourceField, r.TargetField, r.Required, r.Type, transform, r.Notes}, nil
}

func kindName(k yaml.Kind) string {
	switch k {
	case yaml.DocumentNode:
		return "document"
	case yaml.SequenceNode:
		return "sequence"
	case yaml.MappingNode:
		return "mapping"
	case yaml.ScalarNode:
		return "scalar"
	case yaml.AliasNode:
		return "alias"
	default:
		return "unknown"
	}
}
