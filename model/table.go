package model

import "strings"

// Table represents a detected table as a row-major grid of cells.
// Rows may be ragged. Immutable once created.
type Table struct {
	PageIndex  int      `json:"page_index"`
	Index      int      `json:"index"` // sequential within the page, assigned after reconciliation
	Rows       [][]Cell `json:"rows"`
	BBox       BBox     `json:"bbox"`
	Method     string   `json:"method"`     // detection method that produced this table
	Confidence float64  `json:"confidence"` // detector confidence (0-1)
}

// Cell represents a table cell.
type Cell struct {
	Text string `json:"text"`
	BBox BBox   `json:"bbox,omitempty"`
}

// NewTable creates an empty table with the given dimensions.
func NewTable(rows, cols int) *Table {
	t := &Table{Rows: make([][]Cell, rows)}
	for i := range t.Rows {
		t.Rows[i] = make([]Cell, cols)
	}
	return t
}

// RowCount returns the number of rows.
func (t *Table) RowCount() int {
	return len(t.Rows)
}

// ColCount returns the widest row's column count (rows may be ragged).
func (t *Table) ColCount() int {
	cols := 0
	for _, row := range t.Rows {
		if len(row) > cols {
			cols = len(row)
		}
	}
	return cols
}

// Extent returns rows × columns, used as a tie-break when competing
// detections have the same fill ratio.
func (t *Table) Extent() int {
	return t.RowCount() * t.ColCount()
}

// FillRatio returns the fraction of cells with non-empty content.
// This is the quality signal used to pick among competing detections
// of the same page region. An empty table scores 0.
func (t *Table) FillRatio() float64 {
	total, filled := 0, 0
	for _, row := range t.Rows {
		for _, cell := range row {
			total++
			if strings.TrimSpace(cell.Text) != "" {
				filled++
			}
		}
	}
	if total == 0 {
		return 0
	}
	return float64(filled) / float64(total)
}

// GetText returns the table content as tab-separated rows.
func (t *Table) GetText() string {
	var sb strings.Builder
	for _, row := range t.Rows {
		for j, cell := range row {
			sb.WriteString(cell.Text)
			if j < len(row)-1 {
				sb.WriteString("\t")
			}
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// ToCSV converts the table to CSV format.
func (t *Table) ToCSV() string {
	var sb strings.Builder
	for _, row := range t.Rows {
		for j, cell := range row {
			text := cell.Text
			if strings.ContainsAny(text, ",\"\n") {
				text = "\"" + strings.ReplaceAll(text, "\"", "\"\"") + "\""
			}
			sb.WriteString(text)
			if j < len(row)-1 {
				sb.WriteString(",")
			}
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
