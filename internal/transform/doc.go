// Package transform holds the pure value checks and conversions applied to
// raw lead fields: URL and email checks, domain extraction, date
// normalization, list joining, LinkedIn company URL extraction, number
// parsing and text rendering.
//
// Every function accepts a dynamically typed value as decoded from JSON (or
// built by hand) and either returns a typed result or reports that it does
// not apply. None of them keep state.
package transform
