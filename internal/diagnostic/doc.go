// Package diagnostic collects the findings produced while loading a field
// mapping config: errors that make it unusable, warnings about suspicious
// rules and informational notes. Findings carry a stable code, the rule
// location and, for typos, close-match suggestions.
package diagnostic
