package tables

import (
	"regexp"
	"sort"
	"strings"

	"github.com/tsawler/docharvest/model"
)

// TextualDetector detects tables from the textual shape of page lines:
// consistent separator characters, numeric content, and uniform line
// lengths. It is the coarsest of the three methods and mainly catches
// tables the positional detectors miss on pages with poor geometry.
type TextualDetector struct {
	config Config
}

// NewTextualDetector creates a textual detector with default settings.
func NewTextualDetector() *TextualDetector {
	return &TextualDetector{config: DefaultConfig()}
}

// Name returns the detector name.
func (d *TextualDetector) Name() string {
	return MethodTextual
}

// Configure sets detector parameters.
func (d *TextualDetector) Configure(config Config) error {
	d.config = config
	return nil
}

// textLine is one visual line of text, with its bounding box when the page
// content carries positioned fragments.
type textLine struct {
	text string
	bbox model.BBox
}

// Separator patterns tried in priority order when splitting rows into cells.
var separators = []*regexp.Regexp{
	regexp.MustCompile(`\t`),
	regexp.MustCompile(`\|`),
	regexp.MustCompile(`;`),
	regexp.MustCompile(`\s{2,}`),
	regexp.MustCompile(`,`),
}

var digitRe = regexp.MustCompile(`\d+`)

// Detect finds table-shaped blocks of text lines.
func (d *TextualDetector) Detect(content *model.PageContent) ([]*model.Table, error) {
	if content == nil {
		return nil, nil
	}

	lines := d.pageLines(content)
	if len(lines) < d.config.MinRows {
		return nil, nil
	}

	var tables []*model.Table
	for _, block := range d.splitBlocks(lines) {
		if len(block) < 3 {
			continue
		}
		sep := d.likelyTable(block)
		if sep == nil {
			continue
		}
		table := d.buildTable(block, sep)
		if table == nil {
			continue
		}
		table.Method = MethodTextual
		table.PageIndex = content.Index
		tables = append(tables, table)
	}
	return tables, nil
}

// pageLines groups positioned fragments into visual lines; without
// fragments it falls back to the raw text split on newlines (those lines
// carry an empty bounding box and never merge with positional detections
// during reconciliation).
func (d *TextualDetector) pageLines(content *model.PageContent) []textLine {
	if len(content.Fragments) == 0 {
		var lines []textLine
		for _, raw := range strings.Split(content.Text, "\n") {
			lines = append(lines, textLine{text: raw})
		}
		return lines
	}

	frags := make([]model.TextFragment, len(content.Fragments))
	copy(frags, content.Fragments)
	sort.Slice(frags, func(i, j int) bool {
		if frags[i].Y != frags[j].Y {
			return frags[i].Y > frags[j].Y
		}
		return frags[i].X < frags[j].X
	})

	var lines []textLine
	var current []model.TextFragment
	flush := func() {
		if len(current) == 0 {
			return
		}
		bbox := current[0].BBox()
		parts := make([]string, 0, len(current))
		for _, f := range current {
			bbox = bbox.Union(f.BBox())
			parts = append(parts, f.Text)
		}
		lines = append(lines, textLine{text: strings.Join(parts, " "), bbox: bbox})
		current = nil
	}

	for _, f := range frags {
		if len(current) > 0 {
			tol := current[0].Height
			if tol < d.config.AlignmentTolerance {
				tol = d.config.AlignmentTolerance
			}
			if current[0].Y-f.Y > tol {
				flush()
			}
		}
		current = append(current, f)
	}
	flush()
	return lines
}

// splitBlocks cuts the line sequence into blocks at blank lines (raw text)
// or large vertical gaps (positioned lines).
func (d *TextualDetector) splitBlocks(lines []textLine) [][]textLine {
	var blocks [][]textLine
	var current []textLine

	for _, line := range lines {
		if strings.TrimSpace(line.text) == "" {
			if len(current) > 0 {
				blocks = append(blocks, current)
				current = nil
			}
			continue
		}
		if len(current) > 0 && !line.bbox.IsEmpty() {
			prev := current[len(current)-1].bbox
			if !prev.IsEmpty() && prev.Bottom()-line.bbox.Top() > prev.Height*1.5 {
				blocks = append(blocks, current)
				current = nil
			}
		}
		current = append(current, line)
	}
	if len(current) > 0 {
		blocks = append(blocks, current)
	}
	return blocks
}

// likelyTable applies the table-shape heuristics to a block and returns the
// separator to split rows with, or nil if the block does not look tabular.
func (d *TextualDetector) likelyTable(block []textLine) *regexp.Regexp {
	// Consistent separator count across all lines.
	for _, sep := range separators {
		count := len(sep.FindAllString(block[0].text, -1))
		if count == 0 {
			continue
		}
		uniform := true
		for _, line := range block[1:] {
			if len(sep.FindAllString(line.text, -1)) != count {
				uniform = false
				break
			}
		}
		if uniform {
			return sep
		}
	}

	// Mostly-numeric blocks with similar line lengths still qualify;
	// rows are then split on runs of whitespace.
	numeric := 0
	total := 0.0
	for _, line := range block {
		if digitRe.MatchString(line.text) {
			numeric++
		}
		total += float64(len(strings.TrimSpace(line.text)))
	}
	if float64(numeric)/float64(len(block)) <= 0.5 {
		return nil
	}
	avg := total / float64(len(block))
	similar := 0
	for _, line := range block {
		l := float64(len(strings.TrimSpace(line.text)))
		if l > avg*0.7 && l < avg*1.3 {
			similar++
		}
	}
	if float64(similar)/float64(len(block)) > 0.7 {
		return regexp.MustCompile(`\s+`)
	}
	return nil
}

// buildTable splits each block line into cells on the separator.
// Rows may be ragged.
func (d *TextualDetector) buildTable(block []textLine, sep *regexp.Regexp) *model.Table {
	table := &model.Table{Rows: make([][]model.Cell, 0, len(block))}

	bbox := model.BBox{}
	maxCols := 0
	for _, line := range block {
		fields := sep.Split(strings.TrimSpace(line.text), -1)
		row := make([]model.Cell, 0, len(fields))
		for _, field := range fields {
			row = append(row, model.Cell{Text: strings.TrimSpace(field)})
		}
		if len(row) > maxCols {
			maxCols = len(row)
		}
		table.Rows = append(table.Rows, row)
		if bbox.IsEmpty() {
			bbox = line.bbox
		} else if !line.bbox.IsEmpty() {
			bbox = bbox.Union(line.bbox)
		}
	}

	if len(table.Rows) < d.config.MinRows || maxCols < d.config.MinCols {
		return nil
	}

	table.BBox = bbox
	// Heuristic detection is inherently medium confidence.
	table.Confidence = 0.5
	return table
}
