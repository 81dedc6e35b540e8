package model

import (
	"strings"
	"testing"
)

func TestBBoxEdges(t *testing.T) {
	b := NewBBox(10, 20, 100, 50)
	if b.Left() != 10 {
		t.Errorf("Expected Left 10, got %f", b.Left())
	}
	if b.Right() != 110 {
		t.Errorf("Expected Right 110, got %f", b.Right())
	}
	if b.Bottom() != 20 {
		t.Errorf("Expected Bottom 20, got %f", b.Bottom())
	}
	if b.Top() != 70 {
		t.Errorf("Expected Top 70, got %f", b.Top())
	}
	if b.Area() != 5000 {
		t.Errorf("Expected Area 5000, got %f", b.Area())
	}
}

func TestBBoxOverlapRatio(t *testing.T) {
	tests := []struct {
		name string
		a, b BBox
		want float64
	}{
		{"identical", NewBBox(0, 0, 100, 100), NewBBox(0, 0, 100, 100), 1.0},
		{"disjoint", NewBBox(0, 0, 10, 10), NewBBox(50, 50, 10, 10), 0.0},
		{"half overlap of smaller", NewBBox(0, 0, 100, 100), NewBBox(50, 0, 100, 100), 0.5},
		{"contained", NewBBox(0, 0, 100, 100), NewBBox(25, 25, 50, 50), 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.a.OverlapRatio(tt.b)
			if got < tt.want-0.001 || got > tt.want+0.001 {
				t.Errorf("OverlapRatio = %f, want %f", got, tt.want)
			}
		})
	}
}

func TestBBoxIntersection(t *testing.T) {
	a := NewBBox(0, 0, 100, 100)
	b := NewBBox(50, 50, 100, 100)

	got := a.Intersection(b)
	if got.X != 50 || got.Y != 50 || got.Width != 50 || got.Height != 50 {
		t.Errorf("Intersection = %+v, want 50,50,50,50", got)
	}

	u := a.Union(b)
	if u.X != 0 || u.Y != 0 || u.Width != 150 || u.Height != 150 {
		t.Errorf("Union = %+v, want 0,0,150,150", u)
	}
}

func TestTableFillRatio(t *testing.T) {
	tbl := NewTable(2, 2)
	if tbl.FillRatio() != 0 {
		t.Errorf("Empty table should have fill ratio 0, got %f", tbl.FillRatio())
	}

	tbl.Rows[0][0].Text = "a"
	tbl.Rows[0][1].Text = "b"
	if tbl.FillRatio() != 0.5 {
		t.Errorf("Expected fill ratio 0.5, got %f", tbl.FillRatio())
	}

	tbl.Rows[1][0].Text = "   " // whitespace-only does not count as filled
	if tbl.FillRatio() != 0.5 {
		t.Errorf("Whitespace cell should not count, got %f", tbl.FillRatio())
	}
}

func TestTableRaggedRows(t *testing.T) {
	tbl := &Table{Rows: [][]Cell{
		{{Text: "a"}, {Text: "b"}, {Text: "c"}},
		{{Text: "d"}},
	}}
	if tbl.RowCount() != 2 {
		t.Errorf("Expected 2 rows, got %d", tbl.RowCount())
	}
	if tbl.ColCount() != 3 {
		t.Errorf("Expected 3 cols (widest row), got %d", tbl.ColCount())
	}
	if tbl.Extent() != 6 {
		t.Errorf("Expected extent 6, got %d", tbl.Extent())
	}
}

func TestTableToCSV(t *testing.T) {
	tbl := &Table{Rows: [][]Cell{
		{{Text: "name"}, {Text: "value"}},
		{{Text: "a,b"}, {Text: `say "hi"`}},
	}}

	csv := tbl.ToCSV()
	if !strings.Contains(csv, `"a,b"`) {
		t.Errorf("Comma cell not quoted: %q", csv)
	}
	if !strings.Contains(csv, `"say ""hi"""`) {
		t.Errorf("Quote cell not escaped: %q", csv)
	}
	if !strings.HasPrefix(csv, "name,value\n") {
		t.Errorf("Unexpected header row: %q", csv)
	}
}

func TestPageSetText(t *testing.T) {
	p := NewPage(3)
	p.SetText("hello concurrent world")

	if p.Index != 3 {
		t.Errorf("Expected index 3, got %d", p.Index)
	}
	if p.WordCount != 3 {
		t.Errorf("Expected 3 words, got %d", p.WordCount)
	}
	if p.CharCount != 22 {
		t.Errorf("Expected 22 characters, got %d", p.CharCount)
	}
}

func TestPageStatusString(t *testing.T) {
	if StatusSuccess.String() != "success" {
		t.Errorf("StatusSuccess = %q", StatusSuccess.String())
	}
	if StatusPartial.String() != "partial" {
		t.Errorf("StatusPartial = %q", StatusPartial.String())
	}
	if StatusFailed.String() != "failed" {
		t.Errorf("StatusFailed = %q", StatusFailed.String())
	}
}

func TestDocumentSummarize(t *testing.T) {
	doc := NewDocument("report.pdf", 3)

	p0 := NewPage(0)
	p0.SetText("one two")
	p0.Tables = []*Table{NewTable(2, 2)}

	p1 := NewPage(1)
	p1.Status = StatusFailed
	p1.Error = "corrupt stream"

	p2 := NewPage(2)
	p2.SetText("three")
	p2.Images = []ImageRef{{PageIndex: 2, Index: 0}}

	doc.Pages = append(doc.Pages, p0, p1, p2)

	s := doc.Summarize()
	if s.Pages != 3 {
		t.Errorf("Expected 3 pages, got %d", s.Pages)
	}
	if s.FailedPages != 1 {
		t.Errorf("Expected 1 failed page, got %d", s.FailedPages)
	}
	if s.Words != 3 {
		t.Errorf("Expected 3 words, got %d", s.Words)
	}
	if s.Tables != 1 {
		t.Errorf("Expected 1 table, got %d", s.Tables)
	}
	if s.Images != 1 {
		t.Errorf("Expected 1 image, got %d", s.Images)
	}

	if doc.FailedPages() != 1 {
		t.Errorf("FailedPages = %d, want 1", doc.FailedPages())
	}
	if doc.Page(1) != p1 {
		t.Error("Page(1) did not return the failed page")
	}
	if doc.Page(5) != nil {
		t.Error("Page(5) should be nil")
	}
}

func TestLineOrientation(t *testing.T) {
	h := Line{Start: Point{X: 0, Y: 10}, End: Point{X: 100, Y: 10}}
	if !h.IsHorizontal() || h.IsVertical() {
		t.Error("Expected horizontal line")
	}
	if h.Length() != 100 {
		t.Errorf("Expected length 100, got %f", h.Length())
	}

	v := Line{Start: Point{X: 10, Y: 0}, End: Point{X: 10, Y: 50}}
	if !v.IsVertical() || v.IsHorizontal() {
		t.Error("Expected vertical line")
	}
	if v.Length() != 50 {
		t.Errorf("Expected length 50, got %f", v.Length())
	}
}
