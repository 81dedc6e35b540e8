package docharvest

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/tsawler/docharvest/model"
	"github.com/tsawler/docharvest/pdfdoc"
	"github.com/tsawler/docharvest/tables"
)

// source is the document backend the pipeline reads from. pdfdoc.Reader
// is the production implementation; tests substitute fakes.
type source interface {
	Path() string
	PageCount() int
	Metadata() map[string]string
	PageContent(pageIndex int) (*model.PageContent, error)
	PageImages(pageIndex int) ([]pdfdoc.PageImage, error)
	Close() error
}

// Extractor provides a fluent interface for extracting content from PDF
// files. Each configuration method returns a new Extractor instance,
// making it safe for concurrent use and allowing method chaining.
type Extractor struct {
	// Source
	filename string
	src      source

	// Lifecycle
	ownsReader   bool // true if we opened the source and should close it
	readerOpened bool // true if the source has been opened

	// Configuration
	options ExtractionOptions

	// Accumulated error (fail-fast)
	err error
}

// clone creates a shallow copy of the Extractor with a copy of options.
// This ensures immutability: each chain method returns a new instance.
func (e *Extractor) clone() *Extractor {
	return &Extractor{
		filename:     e.filename,
		src:          e.src,
		ownsReader:   e.ownsReader,
		readerOpened: e.readerOpened,
		options:      e.options.clone(),
		err:          e.err,
	}
}

// ensureReader opens the source if not already open. Failing to open is
// fatal: no page work is dispatched.
func (e *Extractor) ensureReader() error {
	if e.readerOpened {
		return nil
	}
	if e.filename == "" {
		return fmt.Errorf("no filename specified")
	}

	r, err := pdfdoc.Open(e.filename)
	if err != nil {
		return fmt.Errorf("failed to open PDF: %w", err)
	}
	e.src = r
	e.ownsReader = true
	e.readerOpened = true
	return nil
}

// Close releases resources associated with the Extractor.
// It is safe to call Close multiple times.
func (e *Extractor) Close() error {
	if e.ownsReader && e.src != nil {
		err := e.src.Close()
		e.src = nil
		e.ownsReader = false
		e.readerOpened = false
		return err
	}
	return nil
}

// ============================================================================
// Configuration Methods (return new Extractor instance)
// ============================================================================

// Workers sets the number of pages processed concurrently. Values below 1
// fall back to sequential processing.
//
// Example:
//
//	doc, _, err := docharvest.Open("doc.pdf").Workers(8).Extract(ctx)
func (e *Extractor) Workers(n int) *Extractor {
	newExt := e.clone()
	newExt.options.workers = n
	return newExt
}

// OutputDir sets the directory artifacts are written to (extracted images,
// JSON and CSV dumps, the summary report). When unset, a directory named
// after the source file is created next to it as soon as any artifact
// needs writing.
func (e *Extractor) OutputDir(dir string) *Extractor {
	newExt := e.clone()
	newExt.options.outputDir = dir
	return newExt
}

// WithoutText disables raw text extraction.
func (e *Extractor) WithoutText() *Extractor {
	newExt := e.clone()
	newExt.options.extractText = false
	return newExt
}

// WithoutTables disables table detection.
func (e *Extractor) WithoutTables() *Extractor {
	newExt := e.clone()
	newExt.options.extractTables = false
	return newExt
}

// WithoutImages disables image extraction.
func (e *Extractor) WithoutImages() *Extractor {
	newExt := e.clone()
	newExt.options.extractImages = false
	return newExt
}

// WithoutMetadata disables document metadata extraction.
func (e *Extractor) WithoutMetadata() *Extractor {
	newExt := e.clone()
	newExt.options.extractMetadata = false
	return newExt
}

// Methods restricts table detection to the named methods ("lattice",
// "stream", "textual"). Unknown names produce a fail-fast error on the
// next terminal operation. With no arguments all methods stay enabled.
//
// Example:
//
//	doc, _, err := docharvest.Open("doc.pdf").Methods("lattice", "stream").Extract(ctx)
func (e *Extractor) Methods(names ...string) *Extractor {
	newExt := e.clone()
	if len(names) == 0 {
		return newExt
	}
	newExt.options.useLattice = false
	newExt.options.useStream = false
	newExt.options.useTextual = false
	for _, name := range names {
		switch name {
		case tables.MethodLattice:
			newExt.options.useLattice = true
		case tables.MethodStream:
			newExt.options.useStream = true
		case tables.MethodTextual:
			newExt.options.useTextual = true
		default:
			newExt.err = fmt.Errorf("unknown table detection method: %q", name)
		}
	}
	return newExt
}

// TableConfig overrides the table detector tuning parameters.
func (e *Extractor) TableConfig(cfg tables.Config) *Extractor {
	newExt := e.clone()
	newExt.options.tableConfig = cfg
	return newExt
}

// WithOCR enables OCR of extracted images. lang is a Tesseract language
// string ("eng", "eng+deu", ...); empty means English. Requires a binary
// built with the ocr tag; without it each page records an ocr-unavailable
// warning and image text stays empty.
func (e *Extractor) WithOCR(lang string) *Extractor {
	newExt := e.clone()
	newExt.options.ocrImages = true
	newExt.options.ocrLanguage = lang
	return newExt
}

// Logger sets the structured logger used during processing. The default
// is slog.Default().
func (e *Extractor) Logger(l *slog.Logger) *Extractor {
	newExt := e.clone()
	newExt.options.logger = l
	return newExt
}

// SaveJSON writes the full extraction result as JSON into the output
// directory after processing.
func (e *Extractor) SaveJSON() *Extractor {
	newExt := e.clone()
	newExt.options.saveJSON = true
	return newExt
}

// SaveCSV writes every detected table as a CSV file into the output
// directory after processing.
func (e *Extractor) SaveCSV() *Extractor {
	newExt := e.clone()
	newExt.options.saveCSV = true
	return newExt
}

// WithSummary writes a human-readable summary report into the output
// directory after processing.
func (e *Extractor) WithSummary() *Extractor {
	newExt := e.clone()
	newExt.options.saveSummary = true
	return newExt
}

// ============================================================================
// Terminal Operations
// ============================================================================

// Extract processes the whole document and returns it together with any
// warnings. This is a terminal operation that closes the underlying
// reader. Pages are processed concurrently; a page that fails is recorded
// with StatusFailed on its slot and never aborts the run. Cancelling ctx
// aborts the whole run with ctx's error.
//
// Example:
//
//	doc, warnings, err := docharvest.Open("document.pdf").Extract(ctx)
func (e *Extractor) Extract(ctx context.Context) (*model.Document, []Warning, error) {
	if e.err != nil {
		return nil, nil, e.err
	}

	if err := e.ensureReader(); err != nil {
		return nil, nil, err
	}
	defer e.Close()

	return e.run(ctx)
}

// Text extracts and concatenates the raw text of every page, separated by
// blank lines. This is a terminal operation that closes the underlying
// reader.
//
// Example:
//
//	text, warnings, err := docharvest.Open("document.pdf").Text(ctx)
func (e *Extractor) Text(ctx context.Context) (string, []Warning, error) {
	trimmed := e.WithoutTables().WithoutImages().WithoutMetadata()
	trimmed.options.extractText = true

	doc, warnings, err := trimmed.Extract(ctx)
	if err != nil {
		return "", warnings, err
	}
	return doc.Text(), warnings, nil
}

// Tables extracts and returns every table detected in the document, in
// page order. This is a terminal operation that closes the underlying
// reader.
//
// Example:
//
//	tbls, warnings, err := docharvest.Open("document.pdf").Tables(ctx)
func (e *Extractor) Tables(ctx context.Context) ([]*model.Table, []Warning, error) {
	trimmed := e.WithoutImages().WithoutMetadata()
	trimmed.options.extractTables = true

	doc, warnings, err := trimmed.Extract(ctx)
	if err != nil {
		return nil, warnings, err
	}

	var all []*model.Table
	for _, page := range doc.Pages {
		all = append(all, page.Tables...)
	}
	return all, warnings, nil
}

// PageCount returns the total number of pages in the document.
// Note: This does NOT close the reader, allowing further operations.
//
// Example:
//
//	ext := docharvest.Open("document.pdf")
//	defer ext.Close()
//	count, err := ext.PageCount()
func (e *Extractor) PageCount() (int, error) {
	if e.err != nil {
		return 0, e.err
	}
	if err := e.ensureReader(); err != nil {
		return 0, err
	}
	return e.src.PageCount(), nil
}

// Metadata returns the document information dictionary (Title, Author,
// Producer, ...). Note: This does NOT close the reader.
func (e *Extractor) Metadata() (map[string]string, error) {
	if e.err != nil {
		return nil, e.err
	}
	if err := e.ensureReader(); err != nil {
		return nil, err
	}
	return e.src.Metadata(), nil
}
