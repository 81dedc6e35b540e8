// Package tables provides table detection for PDF pages and reconciliation
// of competing detection results.
//
// # Detectors
//
// Table detection is performed by types implementing the [Detector]
// interface. The package provides three independent methods:
//
//   - [LatticeDetector] ("lattice") - builds a grid from ruling lines drawn
//     on the page, then assigns text fragments to cells. Works best on
//     tables with visible borders.
//   - [StreamDetector] ("stream") - spatial clustering of text fragment
//     positions with row/column alignment analysis. Works on borderless
//     tables.
//   - [TextualDetector] ("textual") - separator and numeric-content
//     heuristics over raw text lines. The coarsest method, used as a
//     fallback when positional information is poor.
//
// Detectors are registered globally and can be retrieved by name:
//
//	detector := tables.GetDetector("lattice")
//	found, err := detector.Detect(content)
//
// Each detector normalizes its raw output into [model.Table] at the
// boundary, so reconciliation never needs to know which method produced a
// table.
//
// # Reconciliation
//
// When more than one method runs against the same page, [Reconcile] merges
// their outputs into one best-effort table set: tables whose bounding boxes
// overlap above a threshold are grouped, and the group's representative is
// the table with the highest fill ratio (non-empty-cell ratio), with larger
// row×column extent and then a fixed method priority (lattice, stream,
// textual) as deterministic tie-breaks. Tables with no significant overlap
// are all kept; the policy favors completeness over deduplication
// precision. No cell-level merging across methods is attempted.
//
// # Configuration
//
// Detector behavior is controlled by [Config]:
//
//	config := tables.DefaultConfig()
//	config.MinRows = 3
//	config.MinConfidence = 0.7
//	detector.Configure(config)
package tables
