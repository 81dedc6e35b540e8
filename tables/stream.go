package tables

import (
	"math"
	"sort"

	"github.com/tsawler/docharvest/model"
)

// StreamDetector detects tables from the spatial arrangement of text
// fragments alone, without relying on ruling lines. Fragments are clustered
// into regions; a region whose fragments align into consistent rows and
// columns is treated as a table.
type StreamDetector struct {
	config Config
}

// NewStreamDetector creates a stream detector with default settings.
func NewStreamDetector() *StreamDetector {
	return &StreamDetector{config: DefaultConfig()}
}

// Name returns the detector name.
func (d *StreamDetector) Name() string {
	return MethodStream
}

// Configure sets detector parameters.
func (d *StreamDetector) Configure(config Config) error {
	d.config = config
	return nil
}

// Detect finds tables by clustering fragment positions.
func (d *StreamDetector) Detect(content *model.PageContent) ([]*model.Table, error) {
	if content == nil || len(content.Fragments) < d.config.MinRows*d.config.MinCols {
		return nil, nil
	}

	var tables []*model.Table
	for _, cluster := range d.clusterFragments(content.Fragments) {
		if len(cluster) < d.config.MinRows*d.config.MinCols {
			continue
		}
		table := d.detectInCluster(cluster)
		if table == nil || table.Confidence < d.config.MinConfidence {
			continue
		}
		table.Method = MethodStream
		table.PageIndex = content.Index
		tables = append(tables, table)
	}
	return tables, nil
}

// clusterFragments groups fragments whose expanded bounding boxes touch.
func (d *StreamDetector) clusterFragments(fragments []model.TextFragment) [][]model.TextFragment {
	var clusters [][]model.TextFragment
	used := make([]bool, len(fragments))

	for i := range fragments {
		if used[i] {
			continue
		}

		cluster := []model.TextFragment{fragments[i]}
		used[i] = true
		bounds := fragments[i].BBox()

		// Grow the cluster until no nearby fragment remains.
		for changed := true; changed; {
			changed = false
			search := bounds.Expand(d.config.MaxClusterGap)
			for j := range fragments {
				if used[j] {
					continue
				}
				if search.Intersects(fragments[j].BBox()) {
					cluster = append(cluster, fragments[j])
					bounds = bounds.Union(fragments[j].BBox())
					used[j] = true
					changed = true
				}
			}
		}

		clusters = append(clusters, cluster)
	}
	return clusters
}

// detectInCluster attempts to interpret one cluster as a table.
func (d *StreamDetector) detectInCluster(fragments []model.TextFragment) *model.Table {
	rowCenters := d.clusterValues(yCenters(fragments), d.config.AlignmentTolerance*2)
	colStarts := d.clusterValues(xStarts(fragments), d.config.AlignmentTolerance*2)

	rows := len(rowCenters)
	cols := len(colStarts)
	if rows < d.config.MinRows || cols < d.config.MinCols {
		return nil
	}

	// Top of page first.
	sort.Sort(sort.Reverse(sort.Float64Slice(rowCenters)))
	sort.Float64s(colStarts)

	cellFrags := make([][][]model.TextFragment, rows)
	for i := range cellFrags {
		cellFrags[i] = make([][]model.TextFragment, cols)
	}

	aligned := 0
	for _, frag := range fragments {
		row := nearestIndex(rowCenters, frag.Y+frag.Height/2)
		col := nearestIndex(colStarts, frag.X)
		cellFrags[row][col] = append(cellFrags[row][col], frag)
		if math.Abs(colStarts[col]-frag.X) <= d.config.AlignmentTolerance {
			aligned++
		}
	}

	table := model.NewTable(rows, cols)
	bbox := fragments[0].BBox()
	occupied := 0
	for _, frag := range fragments[1:] {
		bbox = bbox.Union(frag.BBox())
	}
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			text := joinFragments(cellFrags[i][j])
			if text != "" {
				occupied++
			}
			table.Rows[i][j] = model.Cell{Text: text}
		}
	}
	table.BBox = bbox

	// Without ruling lines, confidence rests on column alignment quality
	// and how completely the inferred grid is occupied.
	alignment := float64(aligned) / float64(len(fragments))
	occupancy := float64(occupied) / float64(rows*cols)
	table.Confidence = 0.5*alignment + 0.5*occupancy
	return table
}

// clusterValues merges values within tolerance and returns cluster means.
func (d *StreamDetector) clusterValues(values []float64, tolerance float64) []float64 {
	if len(values) == 0 {
		return nil
	}
	sort.Float64s(values)

	var result []float64
	clusterStart := 0
	for i := 1; i <= len(values); i++ {
		if i == len(values) || values[i]-values[i-1] > tolerance {
			sum := 0.0
			for _, v := range values[clusterStart:i] {
				sum += v
			}
			result = append(result, sum/float64(i-clusterStart))
			clusterStart = i
		}
	}
	return result
}

func yCenters(fragments []model.TextFragment) []float64 {
	out := make([]float64, len(fragments))
	for i, f := range fragments {
		out[i] = f.Y + f.Height/2
	}
	return out
}

func xStarts(fragments []model.TextFragment) []float64 {
	out := make([]float64, len(fragments))
	for i, f := range fragments {
		out[i] = f.X
	}
	return out
}

// nearestIndex returns the index of the closest value. For row centers the
// slice is descending; linear scan keeps it order-agnostic.
func nearestIndex(values []float64, v float64) int {
	best := 0
	bestDist := math.Abs(values[0] - v)
	for i := 1; i < len(values); i++ {
		if dist := math.Abs(values[i] - v); dist < bestDist {
			best = i
			bestDist = dist
		}
	}
	return best
}
