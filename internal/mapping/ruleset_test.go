package mapping

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRuleSet_TwoViewsAgree(t *testing.T) {
	rules := []MappingRule{
		{SourceField: "name", TargetField: "Company Name", Required: true, Type: TypeText},
		{SourceField: "email", TargetField: "Contact Email", Type: TypeEmail},
		{SourceField: "internal", Type: TypeText},
		{SourceField: "episode_count", TargetField: "Episode Count", Type: TypeNumber},
	}

	rs := NewRuleSet(rules)
	require.Equal(t, 4, rs.Len())
	assert.Equal(t, []string{"name", "email", "internal", "episode_count"}, rs.SourceFields())
	assert.Equal(t, []string{"Company Name", "Contact Email", "Episode Count"}, rs.Columns())

	for _, r := range rs.Rules() {
		got, ok := rs.Lookup(r.SourceField)
		require.True(t, ok)
		assert.Equal(t, r, got)
	}

	_, ok := rs.Lookup("missing")
	assert.False(t, ok)
}

func TestNewRuleSet_DuplicateSourceLastWinsInFirstPosition(t *testing.T) {
	rules := []MappingRule{
		{SourceField: "email", TargetField: "Old Email", Type: TypeText},
		{SourceField: "name", TargetField: "Company Name", Type: TypeText},
		{SourceField: "email", TargetField: "Contact Email", Type: TypeEmail},
	}

	rs := NewRuleSet(rules)
	require.Equal(t, 2, rs.Len())
	assert.Equal(t, []string{"email", "name"}, rs.SourceFields())
	assert.Equal(t, []string{"Contact Email", "Company Name"}, rs.Columns())

	r, ok := rs.Lookup("email")
	require.True(t, ok)
	assert.Equal(t, TypeEmail, r.Type)
}

func TestRuleSet_ViewsAreCopies(t *testing.T) {
	rs := NewRuleSet([]MappingRule{{SourceField: "name", TargetField: "Company Name", Type: TypeText}})

	rules := rs.Rules()
	rules[0].TargetField = "mutated"
	cols := rs.Columns()
	cols[0] = "mutated"

	r, _ := rs.Lookup("name")
	assert.Equal(t, "Company Name", r.TargetField)
	assert.Equal(t, []string{"Company Name"}, rs.Columns())
}

func TestRuleSet_Each(t *testing.T) {
	rs := NewRuleSet([]MappingRule{
		{SourceField: "a", TargetField: "A", Type: TypeText},
		{SourceField: "b", TargetField: "B", Type: TypeText},
	})

	var seen []string
	rs.Each(func(r MappingRule) { seen = append(seen, r.SourceField) })
	assert.Equal(t, []string{"a", "b"}, seen)
}
