package mapping

import (
	"fmt"

	"lead-exporter/internal/diagnostic"
	"lead-exporter/internal/match"
)

const maxSuggestions = 2

// Validate checks a parsed mapping file for structural problems.
// Errors make the file unusable; warnings and infos are kept on the rule set.
func Validate(mf *MappingFile) *diagnostic.Diagnostics {
	res := &diagnostic.Diagnostics{}
	if mf == nil {
		res.AddError("mapping_is_nil", "mapping file is nil", "", "")
		return res
	}

	if len(mf.Mappings) == 0 {
		res.AddError("no_mappings", "mapping file declares no mappings", "", "")
		return res
	}

	seenSource := map[string]int{}
	seenTarget := map[string]int{}

	for i := range mf.Mappings {
		r := &mf.Mappings[i]
		loc := fmt.Sprintf("mappings[%d]", i)

		redeclared := false

		if r.SourceField == "" {
			res.AddError("empty_source_field", "source_field is required", loc, "")
		} else if prev, ok := seenSource[r.SourceField]; ok {
			res.AddWarning("duplicate_source_field",
				fmt.Sprintf("source field already declared at mappings[%d]; this declaration replaces it", prev),
				loc, r.SourceField)

			redeclared = true
		} else {
			seenSource[r.SourceField] = i
		}

		validateType(res, loc, r)
		validateTransform(res, loc, r)

		if !redeclared {
			validateTarget(res, loc, i, r, seenTarget)
		}
	}

	return res
}

func validateType(res *diagnostic.Diagnostics, loc string, r *MappingRule) {
	if r.Type == "" {
		res.AddError("missing_type", "type is required", loc, r.SourceField)
		return
	}

	if !r.Type.IsValid() {
		res.AddError("unknown_type", fmt.Sprintf("unknown field type %q", string(r.Type)), loc, r.SourceField,
			match.Suggest(string(r.Type), FieldTypeNames(), maxSuggestions)...)
	}
}

func validateTransform(res *diagnostic.Diagnostics, loc string, r *MappingRule) {
	if !r.Transform.IsValid() {
		res.AddError("unknown_transform", fmt.Sprintf("unknown transform %q", string(r.Transform)), loc, r.SourceField,
			match.Suggest(string(r.Transform), TransformNames(), maxSuggestions)...)

		return
	}

	if r.legacy {
		res.AddWarning("legacy_notes_directive",
			fmt.Sprintf("transform %q inferred from notes; declare it explicitly", string(r.Transform)),
			loc, r.SourceField)
	} else if t, ok := TransformFromNotes(r.Notes); ok && t != r.Transform {
		res.AddInfo("notes_directive_ignored",
			fmt.Sprintf("notes mention %q but transform is %q", string(t), string(r.Transform)),
			loc, r.SourceField)
	}

	if r.Type == TypeMultiSelect && r.Transform == TransformNone {
		res.AddWarning("multi_select_not_joined",
			"multi-select values are written as JSON text unless transform is join_list",
			loc, r.SourceField, string(TransformJoinList))
	}

	if expected, ok := transformInputType(r.Transform); ok && r.Type.IsValid() && !expected(r.Type) {
		res.AddInfo("transform_type_mismatch",
			fmt.Sprintf("transform %q is unusual for type %q", string(r.Transform), string(r.Type)),
			loc, r.SourceField)
	}
}

func validateTarget(res *diagnostic.Diagnostics, loc string, idx int, r *MappingRule, seen map[string]int) {
	if r.TargetField == "" {
		res.AddWarning("empty_target_field", "rule has no target_field and will not produce a column", loc, r.SourceField)
		return
	}

	if prev, ok := seen[r.TargetField]; ok {
		res.AddWarning("duplicate_target_field",
			fmt.Sprintf("target field %q already fed by mappings[%d]", r.TargetField, prev),
			loc, r.SourceField)

		return
	}

	seen[r.TargetField] = idx
}

// transformInputType returns the types each transform is normally paired with.
func transformInputType(t Transform) (func(FieldType) bool, bool) {
	switch t {
	case TransformExtractDomain:
		return func(ft FieldType) bool { return ft == TypeText || ft == TypeURL }, true
	case TransformJoinList:
		return func(ft FieldType) bool { return ft == TypeMultiSelect || ft == TypeText }, true
	case TransformExtractLinkedInCompanyURL:
		return func(ft FieldType) bool { return ft == TypeURL }, true
	default:
		return nil, false
	}
}
