// Package validate applies a mapping rule set to one lead record at a time.
//
// For each rule, in declaration order, the validator runs a presence check,
// short-circuits absent optional values, checks and coerces the value by its
// declared type and then applies the rule's transform. Errors from every rule
// are collected; a record is valid only when none were recorded, and only a
// valid record yields an output record.
//
// A multi-select rule runs its transform even when the list check failed.
// A required rule whose transform yields nothing is an error of its own,
// separate from the presence check.
package validate
