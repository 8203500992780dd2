package segmenter

import (
	"strings"
	"unicode/utf8"
)

// Delimiters are the sentence and clause separators a quote is split on,
// full-width and ASCII forms alike.
const Delimiters = "，,。.？?！!：:；;"

// DisplayLine is one rendered row of the quote.
type DisplayLine struct {
	Text     string `yaml:"text"`
	MaxWidth int    `yaml:"max_width"`
}

// Len returns the number of code points in the line.
func (l DisplayLine) Len() int {
	return utf8.RuneCountInString(l.Text)
}

// Runes returns the line as decoded characters.
func (l DisplayLine) Runes() []rune {
	return []rune(l.Text)
}

// Segment splits quote into display lines: first on Delimiters, then
// hard-wrapping any piece longer than maxChars into fixed-size chunks.
// Input without any usable piece yields a single line holding the trimmed
// input, which may be empty. The text is not normalized: a combining mark
// counts as its own character.
func Segment(quote string, maxChars int) []DisplayLine {
	if maxChars <= 0 {
		maxChars = 1
	}

	pieces := strings.FieldsFunc(quote, isDelimiter)

	var lines []DisplayLine
	for _, piece := range pieces {
		piece = strings.TrimSpace(piece)
		if piece == "" {
			continue
		}
		for _, chunk := range chunk(piece, maxChars) {
			lines = append(lines, DisplayLine{Text: chunk, MaxWidth: maxChars})
		}
	}

	if len(lines) == 0 {
		return []DisplayLine{{Text: strings.TrimSpace(quote), MaxWidth: maxChars}}
	}
	return lines
}

func isDelimiter(r rune) bool {
	return strings.ContainsRune(Delimiters, r)
}

// chunk cuts s into consecutive pieces of exactly size code points; the
// last piece may be shorter. Chunks are not re-trimmed.
func chunk(s string, size int) []string {
	runes := []rune(s)
	if len(runes) <= size {
		return []string{s}
	}

	out := make([]string, 0, (len(runes)+size-1)/size)
	for start := 0; start < len(runes); start += size {
		end := start + size
		if end > len(runes) {
			end = len(runes)
		}
		out = append(out, string(runes[start:end]))
	}
	return out
}
