// Package export writes extraction results to disk: a JSON dump of the
// full document, one CSV file per detected table, and a human-readable
// summary report. File names are deterministic per source document so
// repeated runs into the same directory overwrite their own artifacts.
package export
