package tables

import (
	"sort"
	"strings"

	"github.com/tsawler/docharvest/model"
)

// LatticeDetector detects tables from ruling lines drawn on the page.
// It groups aligned horizontal and vertical lines into a grid, then assigns
// text fragments to the resulting cells.
type LatticeDetector struct {
	config Config
}

// NewLatticeDetector creates a lattice detector with default settings.
func NewLatticeDetector() *LatticeDetector {
	return &LatticeDetector{config: DefaultConfig()}
}

// Name returns the detector name.
func (d *LatticeDetector) Name() string {
	return MethodLattice
}

// Configure sets detector parameters.
func (d *LatticeDetector) Configure(config Config) error {
	d.config = config
	return nil
}

// Detect finds tables formed by ruling lines in the page content.
func (d *LatticeDetector) Detect(content *model.PageContent) ([]*model.Table, error) {
	if content == nil || len(content.Lines) == 0 {
		return nil, nil
	}

	var horizontals, verticals []model.Line
	for _, line := range content.Lines {
		if line.Length() < d.config.MinLineLength {
			continue
		}
		if line.IsHorizontal() {
			horizontals = append(horizontals, line)
		} else {
			verticals = append(verticals, line)
		}
	}

	rowBounds := d.groupPositions(horizontals, true)
	colBounds := d.groupPositions(verticals, false)

	// A grid of R rows and C columns needs R+1 and C+1 boundary lines.
	if len(rowBounds) < d.config.MinRows+1 || len(colBounds) < d.config.MinCols+1 {
		return nil, nil
	}

	grid := &lineGrid{rows: rowBounds, cols: colBounds}
	table := d.buildTable(grid, content.Fragments)
	if table == nil {
		return nil, nil
	}

	table.Method = MethodLattice
	table.PageIndex = content.Index
	if table.Confidence < d.config.MinConfidence {
		return nil, nil
	}
	return []*model.Table{table}, nil
}

// lineGrid holds cell boundaries derived from ruling lines.
// rows are Y coordinates sorted descending (top of page first),
// cols are X coordinates sorted ascending.
type lineGrid struct {
	rows []float64
	cols []float64
}

func (g *lineGrid) bbox() model.BBox {
	return model.BBox{
		X:      g.cols[0],
		Y:      g.rows[len(g.rows)-1],
		Width:  g.cols[len(g.cols)-1] - g.cols[0],
		Height: g.rows[0] - g.rows[len(g.rows)-1],
	}
}

// groupPositions clusters aligned lines into boundary positions.
// Horizontal lines cluster by Y, vertical lines by X.
func (d *LatticeDetector) groupPositions(lines []model.Line, horizontal bool) []float64 {
	if len(lines) == 0 {
		return nil
	}

	positions := make([]float64, 0, len(lines))
	for _, line := range lines {
		if horizontal {
			positions = append(positions, (line.Start.Y+line.End.Y)/2)
		} else {
			positions = append(positions, (line.Start.X+line.End.X)/2)
		}
	}
	sort.Float64s(positions)

	// Merge positions within alignment tolerance into one boundary.
	var bounds []float64
	clusterStart := 0
	for i := 1; i <= len(positions); i++ {
		if i == len(positions) || positions[i]-positions[i-1] > d.config.AlignmentTolerance {
			sum := 0.0
			for _, v := range positions[clusterStart:i] {
				sum += v
			}
			bounds = append(bounds, sum/float64(i-clusterStart))
			clusterStart = i
		}
	}

	if horizontal {
		// Top of page first.
		sort.Sort(sort.Reverse(sort.Float64Slice(bounds)))
	}
	return bounds
}

// buildTable assigns fragments to grid cells and scores the result.
func (d *LatticeDetector) buildTable(grid *lineGrid, fragments []model.TextFragment) *model.Table {
	rows := len(grid.rows) - 1
	cols := len(grid.cols) - 1
	if rows < 1 || cols < 1 {
		return nil
	}

	cellFrags := make([][][]model.TextFragment, rows)
	for i := range cellFrags {
		cellFrags[i] = make([][]model.TextFragment, cols)
	}

	bbox := grid.bbox().Expand(d.config.AlignmentTolerance)
	assigned := 0
	for _, frag := range fragments {
		center := frag.BBox().Center()
		if !bbox.Contains(center) {
			continue
		}
		row, col := grid.findCell(center)
		if row < 0 || col < 0 {
			continue
		}
		cellFrags[row][col] = append(cellFrags[row][col], frag)
		assigned++
	}

	if assigned == 0 {
		return nil
	}

	table := model.NewTable(rows, cols)
	table.BBox = grid.bbox()
	occupied := 0
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			text := joinFragments(cellFrags[i][j])
			if text != "" {
				occupied++
			}
			table.Rows[i][j] = model.Cell{
				Text: text,
				BBox: grid.cellBBox(i, j),
			}
		}
	}

	// All boundaries come from real ruling lines, so confidence hinges on
	// how much of the grid the text actually fills.
	occupancy := float64(occupied) / float64(rows*cols)
	table.Confidence = 0.5 + 0.5*occupancy
	return table
}

// findCell returns the grid cell containing the point, or (-1, -1).
func (g *lineGrid) findCell(p model.Point) (row, col int) {
	row, col = -1, -1
	for i := 0; i < len(g.rows)-1; i++ {
		if p.Y <= g.rows[i] && p.Y >= g.rows[i+1] {
			row = i
			break
		}
	}
	for j := 0; j < len(g.cols)-1; j++ {
		if p.X >= g.cols[j] && p.X <= g.cols[j+1] {
			col = j
			break
		}
	}
	return row, col
}

func (g *lineGrid) cellBBox(row, col int) model.BBox {
	return model.BBox{
		X:      g.cols[col],
		Y:      g.rows[row+1],
		Width:  g.cols[col+1] - g.cols[col],
		Height: g.rows[row] - g.rows[row+1],
	}
}

// joinFragments concatenates fragments in reading order (top-down, then
// left-right) with single spaces.
func joinFragments(frags []model.TextFragment) string {
	if len(frags) == 0 {
		return ""
	}
	sorted := make([]model.TextFragment, len(frags))
	copy(sorted, frags)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Y != sorted[j].Y {
			return sorted[i].Y > sorted[j].Y
		}
		return sorted[i].X < sorted[j].X
	})

	parts := make([]string, 0, len(sorted))
	for _, f := range sorted {
		if s := strings.TrimSpace(f.Text); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " ")
}
