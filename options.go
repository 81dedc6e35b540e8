package docharvest

import (
	"log/slog"

	"github.com/tsawler/docharvest/tables"
)

// DefaultWorkers is the number of concurrent page workers used when no
// explicit worker count is configured.
const DefaultWorkers = 4

// ExtractionOptions holds configuration for document processing.
type ExtractionOptions struct {
	// Content switches
	extractText     bool
	extractTables   bool
	extractImages   bool
	extractMetadata bool

	// Table detection methods
	useLattice bool
	useStream  bool
	useTextual bool

	// OCR of extracted images
	ocrImages   bool
	ocrLanguage string

	// Output
	outputDir   string
	saveJSON    bool
	saveCSV     bool
	saveSummary bool

	// Concurrency
	workers int

	// Logging
	logger *slog.Logger

	// Table detector tuning
	tableConfig tables.Config
}

// defaultOptions returns the default extraction options: every content
// type on, all three table methods on, nothing written to disk.
func defaultOptions() ExtractionOptions {
	return ExtractionOptions{
		extractText:     true,
		extractTables:   true,
		extractImages:   true,
		extractMetadata: true,
		useLattice:      true,
		useStream:       true,
		useTextual:      true,
		workers:         DefaultWorkers,
		tableConfig:     tables.DefaultConfig(),
	}
}

// clone creates a copy of ExtractionOptions.
func (o ExtractionOptions) clone() ExtractionOptions {
	return o
}

// methods returns the names of the enabled table detection methods.
func (o ExtractionOptions) methods() []string {
	var names []string
	if o.useLattice {
		names = append(names, tables.MethodLattice)
	}
	if o.useStream {
		names = append(names, tables.MethodStream)
	}
	if o.useTextual {
		names = append(names, tables.MethodTextual)
	}
	return names
}
