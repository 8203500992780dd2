package segmenter

import (
	"strings"
	"testing"
)

func TestSegmentDelimiterSplit(t *testing.T) {
	lines := Segment("人生如梦，一尊还酹江月", 10)

	if len(lines) != 2 {
		t.Fatalf("Expected 2 lines, got %d: %+v", len(lines), lines)
	}
	if lines[0].Text != "人生如梦" || lines[1].Text != "一尊还酹江月" {
		t.Errorf("Unexpected lines: %q, %q", lines[0].Text, lines[1].Text)
	}
	for _, l := range lines {
		if l.MaxWidth != 10 {
			t.Errorf("Expected MaxWidth 10, got %d", l.MaxWidth)
		}
	}
}

func TestSegmentHardWrap(t *testing.T) {
	quote := strings.Repeat("山", 25)
	lines := Segment(quote, 10)

	want := []int{10, 10, 5}
	if len(lines) != len(want) {
		t.Fatalf("Expected %d lines, got %d", len(want), len(lines))
	}
	for i, l := range lines {
		if l.Len() != want[i] {
			t.Errorf("Line %d: expected %d chars, got %d", i, want[i], l.Len())
		}
	}
	if lines[0].Text+lines[1].Text+lines[2].Text != quote {
		t.Error("Chunks must preserve character order")
	}
}

func TestSegmentDegenerateInput(t *testing.T) {
	tests := []struct {
		name  string
		quote string
		want  string
	}{
		{"empty", "", ""},
		{"only delimiters", "，。!?", "，。!?"},
		{"whitespace and delimiters", "  , . ", ", ."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lines := Segment(tt.quote, 10)
			if len(lines) != 1 {
				t.Fatalf("Expected exactly 1 line, got %d", len(lines))
			}
			if lines[0].Text != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, lines[0].Text)
			}
		})
	}
}

func TestSegmentTrimsPieces(t *testing.T) {
	lines := Segment("  hello ,  world  ; ", 12)
	if len(lines) != 2 || lines[0].Text != "hello" || lines[1].Text != "world" {
		t.Errorf("Unexpected lines: %+v", lines)
	}
}

func TestSegmentNoRetrimOfChunks(t *testing.T) {
	lines := Segment("abc def", 4)
	if len(lines) != 2 || lines[0].Text != "abc " || lines[1].Text != "def" {
		t.Errorf("Unexpected chunks: %+v", lines)
	}
}

func TestSegmentBounded(t *testing.T) {
	quotes := []string{
		"Сквозь волнистые туманы пробирается луна, на печальные поляны льет печально свет она",
		"The quick brown fox jumps over the lazy dog. Pack my box with five dozen liquor jugs!",
		"长风破浪会有时：直挂云帆济沧海；行路难！行路难！多歧路，今安在？",
		"🙂🙂🙂🙂🙂🙂🙂🙂🙂",
	}

	for _, q := range quotes {
		for _, max := range []int{1, 3, 7, 12} {
			for _, l := range Segment(q, max) {
				if l.Len() > max {
					t.Errorf("Segment(%q, %d) produced %q with %d chars", q, max, l.Text, l.Len())
				}
				if l.Len() == 0 {
					t.Errorf("Segment(%q, %d) produced an empty line", q, max)
				}
			}
		}
	}
}

func TestSegmentCountsCodePoints(t *testing.T) {
	// Three 4-byte emoji fit in a 3-character line.
	lines := Segment("🙂🙂🙂", 3)
	if len(lines) != 1 || lines[0].Len() != 3 {
		t.Errorf("Expected one 3-char line, got %+v", lines)
	}
}

func TestSegmentKeepsDecomposedText(t *testing.T) {
	// e + U+0301 is two code points; six code points wrap at 3.
	quote := "e\u0301e\u0301e\u0301"
	lines := Segment(quote, 3)

	if len(lines) != 2 {
		t.Fatalf("Expected 2 lines, got %d: %+v", len(lines), lines)
	}
	if lines[0].Text+lines[1].Text != quote {
		t.Errorf("Lines must concatenate back to the input, got %q + %q", lines[0].Text, lines[1].Text)
	}
	if lines[0].Len() != 3 || lines[1].Len() != 3 {
		t.Errorf("Expected 3 code points per line, got %d and %d", lines[0].Len(), lines[1].Len())
	}
}
