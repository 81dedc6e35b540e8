// Package docharvest provides a fluent API for extracting text, tables,
// images and metadata from PDF files, processing pages concurrently and
// reconciling the results of multiple table detection methods.
//
// Basic usage:
//
//	doc, warnings, err := docharvest.Open("document.pdf").Extract(ctx)
//	if err != nil {
//	    // handle error
//	}
//	if len(warnings) > 0 {
//	    log.Println("Warnings:", docharvest.FormatWarnings(warnings))
//	}
//
// With options:
//
//	doc, _, err := docharvest.Open("report.pdf").
//	    Workers(8).
//	    WithoutImages().
//	    OutputDir("out").
//	    SaveJSON().
//	    Extract(ctx)
//
// For advanced use cases, the lower-level pdfdoc and tables packages are
// also available.
package docharvest

import (
	"github.com/tsawler/docharvest/pdfdoc"
)

// Open prepares a PDF file for extraction and returns an Extractor for
// fluent configuration. The file is not opened until a terminal operation
// runs. The returned Extractor must be closed when done, either explicitly
// via Close() or implicitly when calling a terminal operation like
// Extract().
//
// Example:
//
//	doc, warnings, err := docharvest.Open("document.pdf").Extract(ctx)
func Open(filename string) *Extractor {
	return &Extractor{
		filename: filename,
		options:  defaultOptions(),
	}
}

// FromReader creates an Extractor from an already-opened pdfdoc.Reader.
// This is useful when you need more control over the reader lifecycle.
// Note: The caller is responsible for closing the reader.
//
// Example:
//
//	r, err := pdfdoc.Open("document.pdf")
//	if err != nil {
//	    // handle error
//	}
//	defer r.Close()
//	doc, warnings, err := docharvest.FromReader(r).Extract(ctx)
func FromReader(r *pdfdoc.Reader) *Extractor {
	return &Extractor{
		filename:     r.Path(),
		src:          r,
		ownsReader:   false,
		readerOpened: true,
		options:      defaultOptions(),
	}
}

// Must is a helper that wraps a call to a function returning (T, error)
// and panics if the error is non-nil. It is intended for use in scripts
// or tests where error handling would be cumbersome.
//
// Example:
//
//	count := docharvest.Must(docharvest.Open("document.pdf").PageCount())
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}

// MustExtract wraps a terminal operation returning (T, []Warning, error)
// and panics if the error is non-nil, discarding warnings.
//
// Example:
//
//	doc := docharvest.MustExtract(docharvest.Open("document.pdf").Extract(ctx))
func MustExtract[T any](val T, _ []Warning, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}
