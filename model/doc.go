// Package model defines the document structure produced by the extraction
// pipeline: a Document holding ordered Pages, each with extracted text,
// images, and tables, plus document-level metadata and summary statistics.
//
// Everything in this package is a plain value type. The pipeline populates a
// Document once; consumers (JSON/CSV export, summary reports) read it and
// never mutate it.
//
// # Coordinate system
//
// Bounding boxes use the PDF coordinate system: origin at the bottom-left of
// the page, Y increasing upward, units in points (1/72 inch).
//
// # Page status
//
// Each Page carries an extraction status. A failed page still occupies its
// slot in Document.Pages so that the page sequence always has exactly one
// entry per source page index:
//
//	for _, page := range doc.Pages {
//	    if page.Status == model.StatusFailed {
//	        log.Printf("page %d failed: %s", page.Index, page.Error)
//	    }
//	}
package model
