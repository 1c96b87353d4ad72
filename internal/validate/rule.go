package validate

import (
	"errors"
	"fmt"

	"lead-exporter/internal/mapping"
	"lead-exporter/internal/transform"
)

// evaluation is the working state of one rule applied to one record.
type evaluation struct {
	rule  mapping.MappingRule
	raw   any
	value any
	errs  []string
}

func (e *evaluation) fail(format string, args ...any) {
	e.errs = append(e.errs, fmt.Sprintf(format, args...))
}

// run evaluates the rule. It returns false when an absent optional value
// short-circuited evaluation.
func (e *evaluation) run() bool {
	r := e.rule

	if r.Required && isMissing(e.raw) {
		e.fail("Required field '%s' (maps to '%s') is missing.", r.SourceField, r.TargetField)
	}

	if e.raw == nil && !r.Required {
		return false
	}

	typeOK := e.checkType()

	if typeOK || r.Type == mapping.TypeMultiSelect {
		e.applyTransform()
	}

	return true
}

func isMissing(v any) bool {
	if v == nil {
		return true
	}

	s, ok := v.(string)

	return ok && s == ""
}

func (e *evaluation) checkType() bool {
	r := e.rule

	switch r.Type {
	case mapping.TypeText:
		if _, ok := e.value.(string); ok {
			return true
		}

		s, err := transform.Text(e.value)
		if err != nil {
			e.fail("Field '%s' could not be converted to text: Got type %s", r.SourceField, transform.TypeName(e.raw))
			return false
		}

		e.value = s

	case mapping.TypeNumber:
		return e.checkNumber()

	case mapping.TypeURL:
		if r.Transform == mapping.TransformExtractLinkedInCompanyURL {
			return true
		}

		if !transform.IsValidURL(e.value) {
			e.fail("Field '%s' (maps to '%s') is not a valid URL: %s", r.SourceField, r.TargetField, transform.Display(e.raw))
			return false
		}

	case mapping.TypeEmail:
		if !transform.IsValidEmail(e.value) {
			e.fail("Field '%s' (maps to '%s') is not a valid email: %s", r.SourceField, r.TargetField, transform.Display(e.raw))
			return false
		}

	case mapping.TypeDate:
		d, ok := transform.NormalizeDate(e.value)
		if !ok {
			e.fail("Field '%s' (maps to '%s') has invalid date format: %s", r.SourceField, r.TargetField, transform.Display(e.raw))
			return false
		}

		e.value = d

	case mapping.TypeMultiSelect:
		if _, ok := transform.AsList(e.value); !ok {
			e.fail("Field '%s' (maps to '%s') should be a list for multi-select: Got type %s",
				r.SourceField, r.TargetField, transform.TypeName(e.raw))
			return false
		}
	}

	return true
}

func (e *evaluation) checkNumber() bool {
	r := e.rule

	if transform.IsNaN(e.value) {
		e.fail("Field '%s' (maps to '%s') cannot be NaN.", r.SourceField, r.TargetField)
		return false
	}

	if transform.IsNumeric(e.value) {
		return true
	}

	if b, ok := e.value.(bool); ok {
		e.value = 0.0
		if b {
			e.value = 1.0
		}

		return true
	}

	f, err := transform.ParseNumber(e.value)

	switch {
	case errors.Is(err, transform.ErrNaN):
		e.fail("Field '%s' (maps to '%s') resulted in NaN after conversion: Got '%s'",
			r.SourceField, r.TargetField, transform.Display(e.raw))
		return false
	case err != nil:
		e.fail("Field '%s' (maps to '%s') must be a number: Got '%s'",
			r.SourceField, r.TargetField, transform.Display(e.raw))
		return false
	}

	e.value = f

	return true
}

// applyTransform works on the raw source value, not the type-coerced one.
func (e *evaluation) applyTransform() {
	r := e.rule

	switch r.Transform {
	case mapping.TransformExtractDomain:
		s, ok := e.raw.(string)
		if !ok {
			if r.Required {
				e.fail("Cannot extract domain from non-string required field '%s': type %s",
					r.SourceField, transform.TypeName(e.raw))
			}

			e.value = nil

			return
		}

		domain, ok := transform.ExtractDomain(s)
		if !ok {
			if r.Required {
				e.fail("Could not extract domain from required field '%s': %s", r.SourceField, s)
			}

			e.value = nil

			return
		}

		e.value = domain

	case mapping.TransformJoinList:
		if joined, ok := transform.JoinList(e.raw); ok {
			e.value = joined
		}

	case mapping.TransformExtractLinkedInCompanyURL:
		if _, ok := transform.AsList(e.raw); !ok {
			if r.Required {
				e.fail("Cannot extract LinkedIn URL from non-list required field '%s': type %s",
					r.SourceField, transform.TypeName(e.raw))
			}

			e.value = nil

			return
		}

		link, found, err := transform.ExtractLinkedInCompanyURL(e.raw)

		switch {
		case err != nil:
			e.fail("Internal error processing field '%s': %v", r.SourceField, err)
			e.value = nil
		case found && !transform.IsValidURL(link):
			e.fail("Extracted LinkedIn URL for '%s' is invalid: %s", r.SourceField, link)
			e.value = nil
		case !found:
			if r.Required {
				e.fail("Required LinkedIn company URL not found or invalid in '%s'.", r.SourceField)
			}

			e.value = nil
		default:
			e.value = link
		}
	}
}

// cellValue narrows a committed value to null, a string or a number. Lists,
// objects and other kinds are stored in their text form.
func cellValue(v any) any {
	if v == nil || transform.IsNumeric(v) {
		return v
	}

	if s, ok := v.(string); ok {
		return s
	}

	return transform.Display(v)
}
