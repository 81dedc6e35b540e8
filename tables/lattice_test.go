package tables

import (
	"testing"

	"github.com/tsawler/docharvest/model"
)

// Helper to create horizontal lines
func makeHLine(y, x1, x2 float64) model.Line {
	return model.Line{Start: model.Point{X: x1, Y: y}, End: model.Point{X: x2, Y: y}}
}

// Helper to create vertical lines
func makeVLine(x, y1, y2 float64) model.Line {
	return model.Line{Start: model.Point{X: x, Y: y1}, End: model.Point{X: x, Y: y2}}
}

// makeFragment places text at a position with a nominal size.
func makeFragment(text string, x, y float64) model.TextFragment {
	return model.TextFragment{Text: text, X: x, Y: y, Width: 30, Height: 10, FontSize: 10}
}

func TestNewLatticeDetector(t *testing.T) {
	d := NewLatticeDetector()
	if d == nil {
		t.Fatal("NewLatticeDetector returned nil")
	}
	if d.Name() != MethodLattice {
		t.Errorf("Expected name %q, got %q", MethodLattice, d.Name())
	}
	if d.config.AlignmentTolerance != 3.0 {
		t.Errorf("Expected AlignmentTolerance 3.0, got %f", d.config.AlignmentTolerance)
	}
}

func TestLatticeDetector_SimpleGrid(t *testing.T) {
	d := NewLatticeDetector()

	// A 2x2 grid: 3 horizontal lines, 3 vertical lines, with a fragment
	// centered in each cell.
	content := &model.PageContent{
		Index:  0,
		Width:  612,
		Height: 792,
		Lines: []model.Line{
			makeHLine(100, 0, 200),
			makeHLine(50, 0, 200),
			makeHLine(0, 0, 200),
			makeVLine(0, 0, 100),
			makeVLine(100, 0, 100),
			makeVLine(200, 0, 100),
		},
		Fragments: []model.TextFragment{
			makeFragment("a", 20, 70),
			makeFragment("b", 120, 70),
			makeFragment("c", 20, 20),
			makeFragment("d", 120, 20),
		},
	}

	found, err := d.Detect(content)
	if err != nil {
		t.Fatalf("Detect returned error: %v", err)
	}
	if len(found) != 1 {
		t.Fatalf("Expected 1 table, got %d", len(found))
	}

	table := found[0]
	if table.RowCount() != 2 || table.ColCount() != 2 {
		t.Errorf("Expected 2x2 table, got %dx%d", table.RowCount(), table.ColCount())
	}
	if table.Method != MethodLattice {
		t.Errorf("Expected method %q, got %q", MethodLattice, table.Method)
	}
	// Top row first: "a" is at y=70, above "c" at y=20.
	if table.Rows[0][0].Text != "a" || table.Rows[1][1].Text != "d" {
		t.Errorf("Cell assignment wrong: %+v", table.Rows)
	}
	if table.FillRatio() != 1.0 {
		t.Errorf("Expected full occupancy, got %f", table.FillRatio())
	}
}

func TestLatticeDetector_NoLines(t *testing.T) {
	d := NewLatticeDetector()
	content := &model.PageContent{
		Fragments: []model.TextFragment{makeFragment("a", 10, 10)},
	}

	found, err := d.Detect(content)
	if err != nil {
		t.Fatalf("Detect returned error: %v", err)
	}
	if len(found) != 0 {
		t.Errorf("Expected no tables without ruling lines, got %d", len(found))
	}
}

func TestLatticeDetector_TooFewBoundaries(t *testing.T) {
	d := NewLatticeDetector()

	// Only two horizontal lines cannot form the default 2-row minimum.
	content := &model.PageContent{
		Lines: []model.Line{
			makeHLine(100, 0, 200),
			makeHLine(0, 0, 200),
			makeVLine(0, 0, 100),
			makeVLine(100, 0, 100),
			makeVLine(200, 0, 100),
		},
		Fragments: []model.TextFragment{makeFragment("a", 20, 50)},
	}

	found, _ := d.Detect(content)
	if len(found) != 0 {
		t.Errorf("Expected no table from an under-ruled grid, got %d", len(found))
	}
}

func TestLatticeDetector_ShortLinesFiltered(t *testing.T) {
	d := NewLatticeDetector()

	// Lines shorter than MinLineLength are stray marks, not rules.
	content := &model.PageContent{
		Lines: []model.Line{
			makeHLine(100, 0, 5),
			makeHLine(50, 0, 5),
			makeHLine(0, 0, 5),
			makeVLine(0, 0, 5),
			makeVLine(100, 0, 5),
			makeVLine(200, 0, 5),
		},
		Fragments: []model.TextFragment{makeFragment("a", 20, 50)},
	}

	found, _ := d.Detect(content)
	if len(found) != 0 {
		t.Errorf("Expected short lines to be filtered, got %d tables", len(found))
	}
}

func TestLatticeDetector_AlignedLinesMerge(t *testing.T) {
	d := NewLatticeDetector()

	// Two horizontal lines 1pt apart are the same boundary drawn twice.
	bounds := d.groupPositions([]model.Line{
		makeHLine(100, 0, 200),
		makeHLine(101, 0, 200),
		makeHLine(50, 0, 200),
	}, true)

	if len(bounds) != 2 {
		t.Fatalf("Expected 2 merged boundaries, got %d", len(bounds))
	}
	if bounds[0] < bounds[1] {
		t.Error("Horizontal boundaries should be sorted top-down")
	}
	if bounds[0] < 100 || bounds[0] > 101 {
		t.Errorf("Merged boundary should average to ~100.5, got %f", bounds[0])
	}
}
