// Package mapping provides the YAML schema, parsing, validation and the
// immutable rule set that drive lead field mapping.
//
// A mapping file declares one rule per source field of a raw lead. Each rule
// names the CRM column it feeds, whether the value is required, the type the
// value must satisfy and an optional transform applied after the type check.
//
// # Schema Overview
//
//	version: "1"
//	target_object: companies
//	description: Podcast leads to Attio companies
//	mappings:
//	  - source_field: name
//	    target_field: Company Name
//	    required: true
//	    type: text
//	  - source_field: podcast_link
//	    target_field: Domain
//	    required: true
//	    type: text
//	    transform: extract_domain
//	  - source_field: categories
//	    target_field: Industry Tags
//	    type: multi-select
//	    transform: join_list
//
// JSON documents with the same shape are accepted as well, and "attio_field"
// is read as an alias of "target_field".
//
// # Types
//
//   - text, number, url, email, date, multi-select
//
// # Transforms
//
//   - none (default)
//   - extract_domain: host of a URL string
//   - join_list: list elements joined with ", "
//   - extract_linkedin_company_url: first LinkedIn company URL of a profile list
//
// Older configs encoded transforms as phrases inside notes ("Extract domain",
// "Join list with ','", "Extract LinkedIn URL where platform='linkedin'").
// When a rule has no explicit transform the loader migrates such a phrase into
// the transform attribute and records a legacy_notes_directive warning. Notes
// are never consulted after loading.
//
// # Rule sets
//
// A RuleSet is built once from the declared rules and never mutated. It
// exposes two views over the same slice: the declaration order (used for
// validation and for CSV column order) and a lookup by source field.
package mapping
