// Package orchestrate runs one batch of leads through validation and export
// and reports the result as a Summary.
//
// A batch moves through not_started, validating, then exporting or skipped,
// and finally done. Per-record faults are captured in the summary's error
// map and persistence faults become a SYSTEM_FAILURE status; Process never
// returns an error or panics.
package orchestrate
