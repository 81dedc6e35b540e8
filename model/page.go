package model

import "strings"

// PageStatus records the outcome of extracting a single page.
type PageStatus int

const (
	// StatusSuccess means every enabled extractor completed for the page.
	StatusSuccess PageStatus = iota
	// StatusPartial means at least one extractor failed but others produced
	// usable output (e.g. text extracted, image decoding failed).
	StatusPartial
	// StatusFailed means the page produced no usable output.
	StatusFailed
)

func (s PageStatus) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusPartial:
		return "partial"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler so statuses serialize
// as their string form in JSON dumps.
func (s PageStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Page holds everything extracted from a single PDF page. A Page is owned
// exclusively by the worker that processes it and is written exactly once.
type Page struct {
	Index     int        `json:"index"` // 0-based, stable across the run
	Width     float64    `json:"width"`
	Height    float64    `json:"height"`
	Rotation  int        `json:"rotation,omitempty"`
	Text      string     `json:"text"`
	WordCount int        `json:"word_count"`
	CharCount int        `json:"char_count"`
	Images    []ImageRef `json:"images,omitempty"`
	Tables    []*Table   `json:"tables,omitempty"`
	Status    PageStatus `json:"status"`
	Error     string     `json:"error,omitempty"` // failure reason when Status != success
}

// NewPage creates a page for the given 0-based index.
func NewPage(index int) *Page {
	return &Page{Index: index}
}

// SetText stores the page text and updates the word and character counts.
func (p *Page) SetText(text string) {
	p.Text = text
	p.WordCount = len(strings.Fields(text))
	p.CharCount = len([]rune(text))
}

// ImageRef references a raster image extracted from a page and persisted to
// the run's output directory. Immutable once created.
type ImageRef struct {
	PageIndex int    `json:"page_index"`
	Index     int    `json:"index"` // sequential within the page
	Path      string `json:"path"`  // on-disk location, deterministic per (doc, page, index)
	Format    string `json:"format"`
	Width     int    `json:"width,omitempty"`
	Height    int    `json:"height,omitempty"`
	Size      int64  `json:"size_bytes"`
	Text      string `json:"text,omitempty"` // OCR text, when OCR is enabled
}
