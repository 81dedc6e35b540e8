package pdfdoc

import (
	"strings"
	"testing"

	"github.com/tsawler/docharvest/model"
)

func TestScanContentSimpleText(t *testing.T) {
	stream := []byte(`BT
/F1 12 Tf
72 700 Td
(Hello World) Tj
ET`)

	frags, lines := scanContent(stream)

	if len(lines) != 0 {
		t.Errorf("expected no lines, got %d", len(lines))
	}
	if len(frags) != 1 {
		t.Fatalf("expected 1 fragment, got %d", len(frags))
	}
	f := frags[0]
	if f.Text != "Hello World" {
		t.Errorf("expected %q, got %q", "Hello World", f.Text)
	}
	if f.X != 72 || f.Y != 700 {
		t.Errorf("expected position (72, 700), got (%g, %g)", f.X, f.Y)
	}
	if f.FontSize != 12 {
		t.Errorf("expected font size 12, got %g", f.FontSize)
	}
}

func TestScanContentTextMatrix(t *testing.T) {
	stream := []byte(`BT /F2 10 Tf 1 0 0 1 100 500 Tm (first) Tj T* (second) Tj ET`)

	frags, _ := scanContent(stream)
	if len(frags) != 2 {
		t.Fatalf("expected 2 fragments, got %d", len(frags))
	}
	if frags[0].X != 100 || frags[0].Y != 500 {
		t.Errorf("first fragment at (%g, %g), expected (100, 500)", frags[0].X, frags[0].Y)
	}
	if frags[1].Y >= frags[0].Y {
		t.Errorf("T* should move down: %g >= %g", frags[1].Y, frags[0].Y)
	}
	if frags[1].X != 100 {
		t.Errorf("T* should reset x to line start, got %g", frags[1].X)
	}
}

func TestScanContentTJArray(t *testing.T) {
	stream := []byte(`BT 0 0 Td [(Hel) -20 (lo) -300 (World)] TJ ET`)

	frags, _ := scanContent(stream)
	if len(frags) != 1 {
		t.Fatalf("expected 1 fragment, got %d", len(frags))
	}
	if frags[0].Text != "Hello World" {
		t.Errorf("expected %q, got %q", "Hello World", frags[0].Text)
	}
}

func TestScanContentQuoteOperator(t *testing.T) {
	stream := []byte(`BT 14 TL 0 100 Td (one) Tj (two) ' ET`)

	frags, _ := scanContent(stream)
	if len(frags) != 2 {
		t.Fatalf("expected 2 fragments, got %d", len(frags))
	}
	if frags[1].Y != frags[0].Y-14 {
		t.Errorf("' should advance by leading: got %g, want %g", frags[1].Y, frags[0].Y-14)
	}
}

func TestScanContentEscapes(t *testing.T) {
	tests := []struct {
		name   string
		stream string
		want   string
	}{
		{"escaped parens", `BT 0 0 Td (a\(b\)c) Tj ET`, "a(b)c"},
		{"escaped backslash", `BT 0 0 Td (a\\b) Tj ET`, `a\b`},
		{"octal escape", `BT 0 0 Td (\101\102) Tj ET`, "AB"},
		{"nested parens", `BT 0 0 Td (a(b)c) Tj ET`, "a(b)c"},
		{"hex string", `BT 0 0 Td <48656C6C6F> Tj ET`, "Hello"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			frags, _ := scanContent([]byte(tt.stream))
			if len(frags) != 1 {
				t.Fatalf("expected 1 fragment, got %d", len(frags))
			}
			if frags[0].Text != tt.want {
				t.Errorf("expected %q, got %q", tt.want, frags[0].Text)
			}
		})
	}
}

func TestScanContentRulingLines(t *testing.T) {
	// A hairline rect, a thick rect and a stroked path segment.
	stream := []byte(`
72 400 468 1 re f
100 100 200 150 re S
72 300 m 540 300 l S`)

	_, lines := scanContent(stream)

	// 1 from the thin rect, 4 borders from the thick rect, 1 segment.
	if len(lines) != 6 {
		t.Fatalf("expected 6 lines, got %d", len(lines))
	}

	thin := lines[0]
	if !thin.IsHorizontal() {
		t.Error("thin rect should become a horizontal rule")
	}
	if thin.Start.Y != 400.5 {
		t.Errorf("thin rule should sit at rect center, got y=%g", thin.Start.Y)
	}

	seg := lines[5]
	if !seg.IsHorizontal() || seg.Start.X != 72 || seg.End.X != 540 {
		t.Errorf("unexpected path segment: %+v", seg)
	}
}

func TestScanContentIgnoresDiagonals(t *testing.T) {
	stream := []byte(`10 10 m 200 300 l S`)

	_, lines := scanContent(stream)
	if len(lines) != 0 {
		t.Errorf("diagonal segments should be ignored, got %d lines", len(lines))
	}
}

func TestScanContentSkipsDictsAndComments(t *testing.T) {
	stream := []byte(`% page header
/GS0 gs
<< /Type /Foo >> BDC
BT 0 0 Td (ok) Tj ET`)

	frags, _ := scanContent(stream)
	if len(frags) != 1 || frags[0].Text != "ok" {
		t.Errorf("expected single %q fragment, got %v", "ok", frags)
	}
}

func TestScanContentSkipsInlineImage(t *testing.T) {
	stream := []byte("BI /W 2 /H 2 ID \x00\x01\x02\x03 EI BT 0 0 Td (after) Tj ET")

	frags, _ := scanContent(stream)
	if len(frags) != 1 || frags[0].Text != "after" {
		t.Errorf("expected scanner to resume after inline image, got %v", frags)
	}
}

func TestScanContentEmpty(t *testing.T) {
	frags, lines := scanContent(nil)
	if len(frags) != 0 || len(lines) != 0 {
		t.Error("empty stream should yield nothing")
	}
}

func TestAssembleTextReadingOrder(t *testing.T) {
	frags := []model.TextFragment{
		{Text: "world", X: 120, Y: 700, Width: 50, Height: 12, FontSize: 12},
		{Text: "Second line", X: 72, Y: 686, Width: 100, Height: 12, FontSize: 12},
		{Text: "Hello", X: 72, Y: 700, Width: 40, Height: 12, FontSize: 12},
	}

	got := assembleText(frags)
	want := "Hello world\nSecond line"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestAssembleTextParagraphBreak(t *testing.T) {
	frags := []model.TextFragment{
		{Text: "para one", X: 72, Y: 700, Width: 60, Height: 12, FontSize: 12},
		{Text: "para two", X: 72, Y: 650, Width: 60, Height: 12, FontSize: 12},
	}

	got := assembleText(frags)
	if !strings.Contains(got, "\n\n") {
		t.Errorf("large vertical gap should produce a blank line, got %q", got)
	}
}

func TestAssembleTextEmpty(t *testing.T) {
	if got := assembleText(nil); got != "" {
		t.Errorf("expected empty string, got %q", got)
	}
}
