// Package pdfdoc provides read access to PDF documents for the extraction
// pipeline, built on pdfcpu.
//
// A [Reader] is opened once per document and exposes the page count,
// document information dictionary, per-page content (raw text, positioned
// text fragments, and ruling lines), and embedded raster images. Opening
// validates the document up front, so a file that cannot be parsed fails
// here, before any page work is dispatched, rather than mid-run.
//
// After Open returns, the underlying pdfcpu context is never mutated, so a
// single Reader may be shared by concurrent page workers.
//
// Content-stream interpretation is deliberately approximate: the scanner
// tracks text positioning operators (Tm, Td, TD, T*) well enough to place
// fragments for table detection, and treats thin filled rectangles as
// ruling lines. It does not apply font metrics or CMaps; fragment widths
// are estimated from font size.
package pdfdoc
