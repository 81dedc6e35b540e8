package pdfdoc

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"golang.org/x/text/unicode/norm"

	"github.com/tsawler/docharvest/model"
)

// ErrClosed is returned when a page operation is attempted on a closed reader.
var ErrClosed = errors.New("pdfdoc: reader is closed")

// PageContent extracts the content of a 0-based page index: assembled raw
// text, positioned text fragments, and ruling lines. An empty page yields
// empty content, not an error.
func (r *Reader) PageContent(pageIndex int) (*model.PageContent, error) {
	if r.ctx == nil {
		return nil, ErrClosed
	}
	if pageIndex < 0 || pageIndex >= r.ctx.PageCount {
		return nil, fmt.Errorf("page index %d out of range [0..%d)", pageIndex, r.ctx.PageCount)
	}

	width, height := r.pageDim(pageIndex)
	content := &model.PageContent{
		Index:  pageIndex,
		Width:  width,
		Height: height,
	}

	rd, err := pdfcpu.ExtractPageContent(r.ctx, pageIndex+1)
	if err != nil {
		return nil, fmt.Errorf("page %d content: %w", pageIndex+1, err)
	}
	if rd == nil {
		return content, nil
	}

	data, err := io.ReadAll(rd)
	if err != nil {
		return nil, fmt.Errorf("page %d content: %w", pageIndex+1, err)
	}

	content.Fragments, content.Lines = scanContent(data)
	content.Text = assembleText(content.Fragments)
	return content, nil
}

// textState tracks the subset of the PDF text state the scanner needs.
type textState struct {
	fontSize float64
	leading  float64
	lineX    float64 // start of the current text line
	lineY    float64
	x        float64 // current text position
	y        float64
}

func (st *textState) nextLine() {
	leading := st.leading
	if leading == 0 {
		leading = st.fontSize * 1.2
	}
	st.lineY -= leading
	st.x = st.lineX
	st.y = st.lineY
}

// scanContent interprets a page content stream, producing positioned text
// fragments and ruling lines. Interpretation is approximate: no font
// metrics are applied, so fragment widths are estimated from font size.
func scanContent(data []byte) ([]model.TextFragment, []model.Line) {
	var (
		frags []model.TextFragment
		lines []model.Line
		nums  []float64
		strs  []string
		arr   []any
	)

	st := textState{fontSize: 12}
	var pathX, pathY float64

	emit := func(text string) {
		if strings.TrimSpace(text) == "" {
			// Whitespace-only show operators still advance the position.
			st.x += float64(len(text)) * st.fontSize * 0.5
			return
		}
		width := float64(len([]rune(text))) * st.fontSize * 0.5
		frags = append(frags, model.TextFragment{
			Text:     text,
			X:        st.x,
			Y:        st.y,
			Width:    width,
			Height:   st.fontSize,
			FontSize: st.fontSize,
		})
		st.x += width
	}

	num := func(i int) float64 {
		// i counts back from the end of the operand stack.
		if len(nums) < i {
			return 0
		}
		return nums[len(nums)-i]
	}

	s := &contentScanner{data: data}
	for {
		tok, ok := s.next()
		if !ok {
			break
		}

		switch t := tok.(type) {
		case float64:
			nums = append(nums, t)
			continue
		case string:
			strs = append(strs, t)
			continue
		case []any:
			arr = t
			continue
		}

		switch op := tok.(operator); op {
		case "BT":
			st.lineX, st.lineY, st.x, st.y = 0, 0, 0, 0
		case "Tf":
			st.fontSize = num(1)
		case "TL":
			st.leading = num(1)
		case "Tm":
			st.lineX, st.lineY = num(2), num(1)
			st.x, st.y = st.lineX, st.lineY
		case "Td":
			st.lineX += num(2)
			st.lineY += num(1)
			st.x, st.y = st.lineX, st.lineY
		case "TD":
			st.leading = -num(1)
			st.lineX += num(2)
			st.lineY += num(1)
			st.x, st.y = st.lineX, st.lineY
		case "T*":
			st.nextLine()
		case "Tj":
			if len(strs) > 0 {
				emit(strs[len(strs)-1])
			}
		case "'":
			st.nextLine()
			if len(strs) > 0 {
				emit(strs[len(strs)-1])
			}
		case "\"":
			st.nextLine()
			if len(strs) > 0 {
				emit(strs[len(strs)-1])
			}
		case "TJ":
			var sb strings.Builder
			for _, item := range arr {
				switch v := item.(type) {
				case string:
					sb.WriteString(v)
				case float64:
					// Large negative adjustments are inter-word gaps.
					if v < -100 {
						sb.WriteString(" ")
					}
				}
			}
			emit(sb.String())
		case "m":
			pathX, pathY = num(2), num(1)
		case "l":
			x, y := num(2), num(1)
			line := model.Line{
				Start: model.Point{X: pathX, Y: pathY},
				End:   model.Point{X: x, Y: y},
			}
			// Only near-axis-aligned segments matter for table grids.
			if line.IsHorizontal() && abs(y-pathY) <= 2 ||
				line.IsVertical() && abs(x-pathX) <= 2 {
				lines = append(lines, line)
			}
			pathX, pathY = x, y
		case "re":
			lines = append(lines, rectLines(num(4), num(3), num(2), num(1))...)
		case "BI":
			s.skipInlineImage()
		}

		nums = nums[:0]
		strs = strs[:0]
		arr = nil
	}

	return frags, lines
}

// rectLines converts a rectangle into ruling lines. Thin rectangles are
// treated as single rules (tables are often drawn with filled hairline
// rects); thicker rectangles contribute their four borders.
func rectLines(x, y, w, h float64) []model.Line {
	if w < 0 {
		x, w = x+w, -w
	}
	if h < 0 {
		y, h = y+h, -h
	}
	switch {
	case h <= 2 && w > 2:
		return []model.Line{{Start: model.Point{X: x, Y: y + h/2}, End: model.Point{X: x + w, Y: y + h/2}, Width: h}}
	case w <= 2 && h > 2:
		return []model.Line{{Start: model.Point{X: x + w/2, Y: y}, End: model.Point{X: x + w/2, Y: y + h}, Width: w}}
	case w > 2 && h > 2:
		return []model.Line{
			{Start: model.Point{X: x, Y: y}, End: model.Point{X: x + w, Y: y}},
			{Start: model.Point{X: x, Y: y + h}, End: model.Point{X: x + w, Y: y + h}},
			{Start: model.Point{X: x, Y: y}, End: model.Point{X: x, Y: y + h}},
			{Start: model.Point{X: x + w, Y: y}, End: model.Point{X: x + w, Y: y + h}},
		}
	default:
		return nil
	}
}

// assembleText joins fragments into page text in reading order: top-down,
// then left-right, with newlines on baseline changes and blank lines on
// larger vertical jumps. The result is NFC-normalized.
func assembleText(frags []model.TextFragment) string {
	if len(frags) == 0 {
		return ""
	}

	sorted := make([]model.TextFragment, len(frags))
	copy(sorted, frags)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Y != sorted[j].Y {
			return sorted[i].Y > sorted[j].Y
		}
		return sorted[i].X < sorted[j].X
	})

	var result strings.Builder
	lastY := sorted[0].Y
	lastEndX := sorted[0].X
	for i, frag := range sorted {
		if i > 0 {
			yDiff := abs(frag.Y - lastY)
			if yDiff > frag.Height*0.5 {
				if yDiff > frag.Height*1.5 {
					result.WriteString("\n\n")
				} else {
					result.WriteString("\n")
				}
			} else if frag.X-lastEndX > frag.FontSize*0.3 {
				result.WriteString(" ")
			}
		}
		result.WriteString(frag.Text)
		lastY = frag.Y
		lastEndX = frag.X + frag.Width
	}

	return norm.NFC.String(result.String())
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}

// operator is a content stream operator token.
type operator string

// contentScanner tokenizes a PDF content stream.
type contentScanner struct {
	data []byte
	pos  int
}

func (s *contentScanner) next() (any, bool) {
	s.skipSpace()
	if s.pos >= len(s.data) {
		return nil, false
	}

	switch c := s.data[s.pos]; {
	case c == '(':
		return s.literalString(), true
	case c == '<':
		if s.pos+1 < len(s.data) && s.data[s.pos+1] == '<' {
			s.skipDict()
			return s.next()
		}
		return s.hexString(), true
	case c == '[':
		return s.array(), true
	case c == ']':
		s.pos++
		return s.next()
	case c == '/':
		s.pos++
		s.regularToken()
		return s.next() // names are not operands the scanner cares about
	case c == '%':
		s.skipComment()
		return s.next()
	case c >= '0' && c <= '9' || c == '+' || c == '-' || c == '.':
		tok := s.regularToken()
		f, err := strconv.ParseFloat(tok, 64)
		if err != nil {
			return s.next()
		}
		return f, true
	default:
		tok := s.regularToken()
		if tok == "" {
			s.pos++
			return s.next()
		}
		return operator(tok), true
	}
}

func (s *contentScanner) skipSpace() {
	for s.pos < len(s.data) {
		switch s.data[s.pos] {
		case ' ', '\t', '\r', '\n', '\f', 0:
			s.pos++
		default:
			return
		}
	}
}

func (s *contentScanner) skipComment() {
	for s.pos < len(s.data) && s.data[s.pos] != '\n' {
		s.pos++
	}
}

// regularToken reads a run of regular (non-delimiter) characters.
func (s *contentScanner) regularToken() string {
	start := s.pos
	for s.pos < len(s.data) {
		c := s.data[s.pos]
		if c == ' ' || c == '\t' || c == '\r' || c == '\n' || c == '\f' || c == 0 ||
			c == '(' || c == ')' || c == '<' || c == '>' || c == '[' || c == ']' ||
			c == '/' || c == '%' {
			break
		}
		s.pos++
	}
	return string(s.data[start:s.pos])
}

// literalString parses a parenthesized string with nesting and escapes.
func (s *contentScanner) literalString() string {
	s.pos++ // consume '('
	var sb strings.Builder
	depth := 1
	for s.pos < len(s.data) {
		c := s.data[s.pos]
		switch c {
		case '\\':
			s.pos++
			if s.pos >= len(s.data) {
				return sb.String()
			}
			switch e := s.data[s.pos]; e {
			case 'n':
				sb.WriteByte('\n')
			case 'r':
				sb.WriteByte('\r')
			case 't':
				sb.WriteByte('\t')
			case 'b', 'f':
				// ignored
			case '(', ')', '\\':
				sb.WriteByte(e)
			default:
				if e >= '0' && e <= '7' {
					val := int(e - '0')
					for k := 0; k < 2 && s.pos+1 < len(s.data); k++ {
						nc := s.data[s.pos+1]
						if nc < '0' || nc > '7' {
							break
						}
						val = val*8 + int(nc-'0')
						s.pos++
					}
					sb.WriteByte(byte(val))
				} else {
					sb.WriteByte(e)
				}
			}
			s.pos++
		case '(':
			depth++
			sb.WriteByte(c)
			s.pos++
		case ')':
			depth--
			s.pos++
			if depth == 0 {
				return sb.String()
			}
			sb.WriteByte(c)
		default:
			sb.WriteByte(c)
			s.pos++
		}
	}
	return sb.String()
}

// hexString parses <...> keeping only printable ASCII, which is the best
// that can be done without decoding the font's CMap.
func (s *contentScanner) hexString() string {
	s.pos++ // consume '<'
	var digits []byte
	for s.pos < len(s.data) && s.data[s.pos] != '>' {
		c := s.data[s.pos]
		if c >= '0' && c <= '9' || c >= 'a' && c <= 'f' || c >= 'A' && c <= 'F' {
			digits = append(digits, c)
		}
		s.pos++
	}
	if s.pos < len(s.data) {
		s.pos++ // consume '>'
	}

	var sb strings.Builder
	for i := 0; i+1 < len(digits); i += 2 {
		v, err := strconv.ParseUint(string(digits[i:i+2]), 16, 8)
		if err != nil {
			continue
		}
		if v >= 0x20 && v < 0x7f {
			sb.WriteByte(byte(v))
		}
	}
	return sb.String()
}

// array parses [ ... ] collecting strings and numbers (the TJ operand form).
func (s *contentScanner) array() []any {
	s.pos++ // consume '['
	var items []any
	for s.pos < len(s.data) {
		s.skipSpace()
		if s.pos >= len(s.data) || s.data[s.pos] == ']' {
			s.pos++
			return items
		}
		switch c := s.data[s.pos]; {
		case c == '(':
			items = append(items, s.literalString())
		case c == '<':
			items = append(items, s.hexString())
		default:
			tok := s.regularToken()
			if tok == "" {
				s.pos++
				continue
			}
			if f, err := strconv.ParseFloat(tok, 64); err == nil {
				items = append(items, f)
			}
		}
	}
	return items
}

// skipDict advances past << ... >> with nesting.
func (s *contentScanner) skipDict() {
	depth := 0
	for s.pos+1 < len(s.data) {
		if s.data[s.pos] == '<' && s.data[s.pos+1] == '<' {
			depth++
			s.pos += 2
			continue
		}
		if s.data[s.pos] == '>' && s.data[s.pos+1] == '>' {
			depth--
			s.pos += 2
			if depth == 0 {
				return
			}
			continue
		}
		s.pos++
	}
	s.pos = len(s.data)
}

// skipInlineImage advances past BI ... ID <binary> EI.
func (s *contentScanner) skipInlineImage() {
	for s.pos+1 < len(s.data) {
		if s.data[s.pos] == 'E' && s.data[s.pos+1] == 'I' {
			s.pos += 2
			return
		}
		s.pos++
	}
	s.pos = len(s.data)
}
