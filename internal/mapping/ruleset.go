package mapping

import (
	"lead-exporter/internal/diagnostic"
)

// RuleSet is the immutable, deduplicated list of mapping rules.
//
// Rules, Lookup and Columns are views over one backing slice built at
// construction time, so they always agree with each other.
type RuleSet struct {
	meta        MappingFile
	rules       []MappingRule
	bySource    map[string]int
	columns     []string
	diagnostics diagnostic.Diagnostics
}

// NewRuleSet builds a rule set from rules in declaration order.
// A repeated source field keeps the position of its first declaration and
// the content of its last one.
func NewRuleSet(rules []MappingRule) *RuleSet {
	rs := &RuleSet{bySource: make(map[string]int, len(rules))}

	for _, r := range rules {
		if i, ok := rs.bySource[r.SourceField]; ok {
			rs.rules[i] = r
			continue
		}

		rs.bySource[r.SourceField] = len(rs.rules)
		rs.rules = append(rs.rules, r)
	}

	for _, r := range rs.rules {
		if r.HasTarget() {
			rs.columns = append(rs.columns, r.TargetField)
		}
	}

	return rs
}

// Rules returns the rules in evaluation order. The slice is a copy.
func (rs *RuleSet) Rules() []MappingRule {
	return append([]MappingRule(nil), rs.rules...)
}

// Each calls fn for every rule in evaluation order without copying.
func (rs *RuleSet) Each(fn func(MappingRule)) {
	for _, r := range rs.rules {
		fn(r)
	}
}

// Lookup returns the rule for a source field.
func (rs *RuleSet) Lookup(sourceField string) (MappingRule, bool) {
	i, ok := rs.bySource[sourceField]
	if !ok {
		return MappingRule{}, false
	}

	return rs.rules[i], true
}

// Len returns the number of distinct rules.
func (rs *RuleSet) Len() int {
	return len(rs.rules)
}

// Columns returns the output column order: every non-empty target field in
// rule order. The slice is a copy.
func (rs *RuleSet) Columns() []string {
	return append([]string(nil), rs.columns...)
}

// SourceFields returns the source fields in rule order.
func (rs *RuleSet) SourceFields() []string {
	out := make([]string, len(rs.rules))
	for i, r := range rs.rules {
		out[i] = r.SourceField
	}

	return out
}

// Version returns the version declared by the mapping file.
func (rs *RuleSet) Version() string { return rs.meta.Version }

// TargetObject returns the CRM object declared by the mapping file.
func (rs *RuleSet) TargetObject() string { return rs.meta.TargetObject }

// Description returns the mapping file's description.
func (rs *RuleSet) Description() string { return rs.meta.Description }

// Diagnostics returns the warnings and infos recorded while loading.
func (rs *RuleSet) Diagnostics() *diagnostic.Diagnostics {
	d := rs.diagnostics
	return &d
}

// File returns a MappingFile equivalent to the rule set, with migrated
// transforms made explicit.
func (rs *RuleSet) File() *MappingFile {
	mf := rs.meta
	mf.Mappings = rs.Rules()

	return &mf
}
