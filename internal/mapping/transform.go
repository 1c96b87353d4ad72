package mapping

import (
	"slices"
	"strings"

	"lead-exporter/internal/common"
)

// Transform names the post-type-check transformation of a rule.
type Transform string

const (
	TransformNone                      Transform = "none"
	TransformExtractDomain             Transform = "extract_domain"
	TransformJoinList                  Transform = "join_list"
	TransformExtractLinkedInCompanyURL Transform = "extract_linkedin_company_url"
)

var transforms = []Transform{
	TransformNone,
	TransformExtractDomain,
	TransformJoinList,
	TransformExtractLinkedInCompanyURL,
}

// IsValid returns true if the transform is a recognized value.
func (t Transform) IsValid() bool {
	return slices.Contains(transforms, t)
}

// String returns the transform name, or "unknown" for unrecognized values.
func (t Transform) String() string {
	if !t.IsValid() {
		return common.UnknownStr
	}

	return string(t)
}

// TransformNames lists the recognized transform names.
func TransformNames() []string {
	names := make([]string, len(transforms))
	for i, t := range transforms {
		names[i] = string(t)
	}

	return names
}

// legacyDirective pairs a notes phrase with the transform it used to trigger.
type legacyDirective struct {
	phrase    string
	transform Transform
}

// Checked in this order; the first phrase found wins.
var legacyDirectives = []legacyDirective{
	{phrase: "Extract domain", transform: TransformExtractDomain},
	{phrase: "Join list with ','", transform: TransformJoinList},
	{phrase: "Extract LinkedIn URL where platform='linkedin'", transform: TransformExtractLinkedInCompanyURL},
}

// TransformFromNotes returns the transform a legacy notes phrase encodes.
func TransformFromNotes(notes string) (Transform, bool) {
	for _, d := range legacyDirectives {
		if strings.Contains(notes, d.phrase) {
			return d.transform, true
		}
	}

	return TransformNone, false
}
