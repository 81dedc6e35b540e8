package model

import "strings"

// Document is the final result of one pipeline run: document-level metadata
// plus one Page per source page index, in ascending index order. The
// pipeline guarantees exactly one entry per index regardless of worker
// completion order; a failed page occupies its slot with StatusFailed
// rather than being dropped.
type Document struct {
	Source    string            `json:"source"` // source filename
	PageCount int               `json:"page_count"`
	Metadata  map[string]string `json:"metadata,omitempty"` // opaque key/value properties
	Pages     []*Page           `json:"pages"`
	OutputDir string            `json:"output_dir,omitempty"` // where extracted images were written
}

// NewDocument creates an empty document for the given source file.
func NewDocument(source string, pageCount int) *Document {
	return &Document{
		Source:    source,
		PageCount: pageCount,
		Metadata:  make(map[string]string),
		Pages:     make([]*Page, 0, pageCount),
	}
}

// Page returns the page at the given 0-based index, or nil if out of range.
func (d *Document) Page(index int) *Page {
	if index < 0 || index >= len(d.Pages) {
		return nil
	}
	return d.Pages[index]
}

// Text concatenates the raw text of all pages in page order, separated
// by blank lines. Pages with no text contribute nothing.
func (d *Document) Text() string {
	var sb strings.Builder
	for _, p := range d.Pages {
		if p.Text == "" {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString(p.Text)
	}
	return sb.String()
}

// FailedPages returns the number of pages with StatusFailed.
func (d *Document) FailedPages() int {
	n := 0
	for _, p := range d.Pages {
		if p.Status == StatusFailed {
			n++
		}
	}
	return n
}

// Summary holds aggregate statistics computed by folding over all pages.
type Summary struct {
	Pages       int `json:"pages"`
	FailedPages int `json:"failed_pages"`
	Words       int `json:"words"`
	Characters  int `json:"characters"`
	Tables      int `json:"tables"`
	Images      int `json:"images"`
}

// Summarize folds over all pages and returns aggregate counts.
func (d *Document) Summarize() Summary {
	s := Summary{Pages: len(d.Pages)}
	for _, p := range d.Pages {
		if p.Status == StatusFailed {
			s.FailedPages++
		}
		s.Words += p.WordCount
		s.Characters += p.CharCount
		s.Tables += len(p.Tables)
		s.Images += len(p.Images)
	}
	return s
}
