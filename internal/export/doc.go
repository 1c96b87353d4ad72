// Package export serializes validated output records to CSV and writes them
// to timestamped files.
package export
