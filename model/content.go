package model

// TextFragment represents a positioned piece of text on a page.
type TextFragment struct {
	Text     string
	X        float64 // left edge
	Y        float64 // baseline (PDF coordinates, bottom-up)
	Width    float64
	Height   float64
	FontSize float64
}

// BBox returns the fragment's bounding box.
func (f TextFragment) BBox() BBox {
	return BBox{X: f.X, Y: f.Y, Width: f.Width, Height: f.Height}
}

// Line represents a ruling line or thin filled rectangle drawn on a page.
type Line struct {
	Start Point
	End   Point
	Width float64
}

// IsHorizontal reports whether the line runs (near) horizontally.
func (l Line) IsHorizontal() bool {
	dx := l.End.X - l.Start.X
	dy := l.End.Y - l.Start.Y
	if dx < 0 {
		dx = -dx
	}
	if dy < 0 {
		dy = -dy
	}
	return dx > dy
}

// IsVertical reports whether the line runs (near) vertically.
func (l Line) IsVertical() bool {
	return !l.IsHorizontal()
}

// Length returns the line's length along its dominant axis.
func (l Line) Length() float64 {
	dx := l.End.X - l.Start.X
	dy := l.End.Y - l.Start.Y
	if dx < 0 {
		dx = -dx
	}
	if dy < 0 {
		dy = -dy
	}
	if dx > dy {
		return dx
	}
	return dy
}

// PageContent is the normalized per-page input handed to the table
// detectors and the text assembler: raw text plus positioned fragments and
// ruling lines. It is read-only once built; detectors never share
// intermediate state through it.
type PageContent struct {
	Index     int // 0-based page index
	Width     float64
	Height    float64
	Rotation  int
	Text      string
	Fragments []TextFragment
	Lines     []Line
}
