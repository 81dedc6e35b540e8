package tables

import (
	"testing"

	"github.com/tsawler/docharvest/model"
)

// makeTable builds a table with the given method, bbox, and cell texts.
func makeTable(method string, bbox model.BBox, rows [][]string) *model.Table {
	t := &model.Table{Method: method, BBox: bbox}
	for _, row := range rows {
		cells := make([]model.Cell, len(row))
		for i, text := range row {
			cells[i] = model.Cell{Text: text}
		}
		t.Rows = append(t.Rows, cells)
	}
	return t
}

func TestReconcileEmpty(t *testing.T) {
	if got := Reconcile(nil, 0.5); got != nil {
		t.Errorf("Expected nil for empty input, got %v", got)
	}
	if got := Reconcile([]*model.Table{}, 0.5); got != nil {
		t.Errorf("Expected nil for empty slice, got %v", got)
	}
}

func TestReconcileOverlappingPicksHigherFill(t *testing.T) {
	region := model.NewBBox(50, 500, 200, 100)

	sparse := makeTable(MethodStream, region, [][]string{
		{"a", ""},
		{"", ""},
	})
	dense := makeTable(MethodLattice, region, [][]string{
		{"a", "b"},
		{"c", "d"},
	})

	result := Reconcile([]*model.Table{sparse, dense}, 0.5)
	if len(result) != 1 {
		t.Fatalf("Expected 1 reconciled table, got %d", len(result))
	}
	if result[0] != dense {
		t.Errorf("Expected the denser table to win, got method %s", result[0].Method)
	}
}

func TestReconcileDisjointKeepsBoth(t *testing.T) {
	top := makeTable(MethodLattice, model.NewBBox(50, 600, 200, 100), [][]string{
		{"a", "b"},
	})
	bottom := makeTable(MethodStream, model.NewBBox(50, 100, 200, 100), [][]string{
		{"c", "d"},
	})

	result := Reconcile([]*model.Table{bottom, top}, 0.5)
	if len(result) != 2 {
		t.Fatalf("Expected 2 tables for disjoint regions, got %d", len(result))
	}
	// Ordered top-down regardless of input order.
	if result[0] != top || result[1] != bottom {
		t.Error("Expected top-down ordering of reconciled tables")
	}
	if result[0].Index != 0 || result[1].Index != 1 {
		t.Errorf("Expected sequential indices, got %d and %d", result[0].Index, result[1].Index)
	}
}

func TestReconcileTieBreaks(t *testing.T) {
	region := model.NewBBox(0, 0, 100, 100)

	// Same fill ratio: the larger table wins.
	small := makeTable(MethodLattice, region, [][]string{
		{"a", "b"},
	})
	large := makeTable(MethodStream, region, [][]string{
		{"a", "b"},
		{"c", "d"},
	})
	result := Reconcile([]*model.Table{small, large}, 0.5)
	if len(result) != 1 || result[0] != large {
		t.Error("Expected larger extent to win on equal fill ratio")
	}

	// Same fill ratio and extent: fixed method priority decides.
	lattice := makeTable(MethodLattice, region, [][]string{{"a", "b"}})
	textual := makeTable(MethodTextual, region, [][]string{{"a", "b"}})
	result = Reconcile([]*model.Table{textual, lattice}, 0.5)
	if len(result) != 1 || result[0] != lattice {
		t.Error("Expected lattice to win the exact tie")
	}
}

func TestReconcileEmptyBBoxNeverMerges(t *testing.T) {
	positioned := makeTable(MethodLattice, model.NewBBox(0, 0, 100, 100), [][]string{{"a"}})
	unpositioned := makeTable(MethodTextual, model.BBox{}, [][]string{{"b"}})

	result := Reconcile([]*model.Table{positioned, unpositioned}, 0.5)
	if len(result) != 2 {
		t.Fatalf("Expected tables without geometry to stay distinct, got %d", len(result))
	}
}

func TestReconcilePreservesRowOrder(t *testing.T) {
	table := makeTable(MethodStream, model.NewBBox(0, 0, 100, 100), [][]string{
		{"first"},
		{"second"},
		{"third"},
	})

	result := Reconcile([]*model.Table{table}, 0.5)
	if len(result) != 1 {
		t.Fatalf("Expected 1 table, got %d", len(result))
	}
	rows := result[0].Rows
	if rows[0][0].Text != "first" || rows[2][0].Text != "third" {
		t.Error("Row order was not preserved through reconciliation")
	}
}

func TestMethodRank(t *testing.T) {
	if !(methodRank(MethodLattice) < methodRank(MethodStream)) {
		t.Error("lattice should outrank stream")
	}
	if !(methodRank(MethodStream) < methodRank(MethodTextual)) {
		t.Error("stream should outrank textual")
	}
	if methodRank("bogus") <= methodRank(MethodTextual) {
		t.Error("unknown methods should rank last")
	}
}
