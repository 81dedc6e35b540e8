package tables

import (
	"testing"

	"github.com/tsawler/docharvest/model"
)

func TestNewStreamDetector(t *testing.T) {
	d := NewStreamDetector()
	if d == nil {
		t.Fatal("NewStreamDetector returned nil")
	}
	if d.Name() != MethodStream {
		t.Errorf("Expected name %q, got %q", MethodStream, d.Name())
	}
}

func TestStreamDetector_AlignedGrid(t *testing.T) {
	d := NewStreamDetector()

	// 3 rows x 2 columns of fragments, column starts at x=50 and x=95.
	content := &model.PageContent{
		Index: 2,
		Fragments: []model.TextFragment{
			makeFragment("name", 50, 700),
			makeFragment("value", 95, 700),
			makeFragment("alpha", 50, 680),
			makeFragment("1.5", 95, 680),
			makeFragment("beta", 50, 660),
			makeFragment("2.5", 95, 660),
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
	if table.RowCount() != 3 || table.ColCount() != 2 {
		t.Errorf("Expected 3x2 table, got %dx%d", table.RowCount(), table.ColCount())
	}
	if table.PageIndex != 2 {
		t.Errorf("Expected page index 2, got %d", table.PageIndex)
	}
	if table.Rows[0][0].Text != "name" || table.Rows[2][1].Text != "2.5" {
		t.Errorf("Cell assignment wrong: %+v", table.Rows)
	}
	if table.Confidence < 0.9 {
		t.Errorf("Perfectly aligned grid should score high, got %f", table.Confidence)
	}
}

func TestStreamDetector_TooFewFragments(t *testing.T) {
	d := NewStreamDetector()
	content := &model.PageContent{
		Fragments: []model.TextFragment{
			makeFragment("lonely", 50, 700),
		},
	}

	found, _ := d.Detect(content)
	if len(found) != 0 {
		t.Errorf("Expected no tables from a single fragment, got %d", len(found))
	}
}

func TestStreamDetector_ProseDoesNotQualify(t *testing.T) {
	d := NewStreamDetector()

	// A single ragged column of text: only one column start, below MinCols.
	content := &model.PageContent{
		Fragments: []model.TextFragment{
			makeFragment("the quick", 50, 700),
			makeFragment("brown fox", 50, 685),
			makeFragment("jumps over", 50, 670),
			makeFragment("the lazy dog", 50, 655),
		},
	}

	found, _ := d.Detect(content)
	if len(found) != 0 {
		t.Errorf("Expected prose to be rejected, got %d tables", len(found))
	}
}

func TestClusterValues(t *testing.T) {
	d := NewStreamDetector()

	got := d.clusterValues([]float64{10, 11, 12, 50, 51, 90}, 3)
	if len(got) != 3 {
		t.Fatalf("Expected 3 clusters, got %d: %v", len(got), got)
	}
	if got[0] != 11 {
		t.Errorf("Expected first cluster mean 11, got %f", got[0])
	}
	if got[2] != 90 {
		t.Errorf("Expected last cluster 90, got %f", got[2])
	}
}
