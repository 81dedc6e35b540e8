package tables

import (
	"sort"

	"github.com/tsawler/docharvest/model"
)

// methodRank orders methods for deterministic tie-breaking when competing
// detections have identical fill ratio and extent. Lower wins.
func methodRank(method string) int {
	switch method {
	case MethodLattice:
		return 0
	case MethodStream:
		return 1
	case MethodTextual:
		return 2
	default:
		return 3
	}
}

// Reconcile merges the raw table detections of competing methods for one
// page into a single best-effort table set.
//
// Tables whose bounding boxes overlap by at least overlapThreshold are
// grouped as detections of the same page region. Each group contributes one
// representative: the table with the highest fill ratio, tie-broken by
// larger row×column extent, then by fixed method priority (lattice, stream,
// textual). Tables with no significant overlap (including any with an
// empty bounding box) are all kept, so the result favors completeness over
// deduplication precision.
//
// The result is ordered top-down, left-right by bounding box, with
// sequential per-page indices assigned. Row order within each table is
// preserved as returned by its source method; no cell-level merging across
// methods is attempted.
//
// Reconcile is a pure function over normalized tables: it never invokes a
// detector and does not care which method produced its input.
func Reconcile(detected []*model.Table, overlapThreshold float64) []*model.Table {
	if len(detected) == 0 {
		return nil
	}

	var groups [][]*model.Table
	for _, table := range detected {
		placed := false
		if !table.BBox.IsEmpty() {
			for gi, group := range groups {
				if group[0].BBox.IsEmpty() {
					continue
				}
				if table.BBox.OverlapRatio(group[0].BBox) >= overlapThreshold {
					groups[gi] = append(group, table)
					placed = true
					break
				}
			}
		}
		if !placed {
			groups = append(groups, []*model.Table{table})
		}
	}

	result := make([]*model.Table, 0, len(groups))
	for _, group := range groups {
		result = append(result, selectRepresentative(group))
	}

	sort.SliceStable(result, func(i, j int) bool {
		a, b := result[i].BBox, result[j].BBox
		if a.Top() != b.Top() {
			return a.Top() > b.Top()
		}
		return a.Left() < b.Left()
	})

	for i, table := range result {
		table.Index = i
	}
	return result
}

// selectRepresentative picks the group's winner by quality signal.
func selectRepresentative(group []*model.Table) *model.Table {
	best := group[0]
	for _, candidate := range group[1:] {
		if better(candidate, best) {
			best = candidate
		}
	}
	return best
}

// better reports whether a beats b under the reconciliation ordering:
// fill ratio, then extent, then method rank.
func better(a, b *model.Table) bool {
	af, bf := a.FillRatio(), b.FillRatio()
	if af != bf {
		return af > bf
	}
	if a.Extent() != b.Extent() {
		return a.Extent() > b.Extent()
	}
	return methodRank(a.Method) < methodRank(b.Method)
}
