package timeline

import (
	"unicode/utf8"

	"github.com/ivlev/quote2video/internal/domain"
	"github.com/ivlev/quote2video/internal/segmenter"
)

// Version of the serialized timeline format.
const Version = "1.0"

// lineGap is the inter-line pause, in character units.
const lineGap = 2

// Marker names for the overlay groups revealed after the attribution.
const (
	MarkerLogo = "logo"
	MarkerCode = "code"
)

// Kind identifies the subject group an Event belongs to.
type Kind string

const (
	KindLine   Kind = "line"
	KindChar   Kind = "char"
	KindAuthor Kind = "author"
	KindMarker Kind = "marker"
)

// Params holds the timing constants of a run. All values are seconds.
type Params struct {
	UnitSpeed       float64
	InitialDelay    float64
	EndingDelay     float64
	AuthorLogoGap   float64
	RevealSpan      float64 // per-character fade span; 0 means UnitSpeed
	SecondaryMarker bool
}

// Timeline is the complete reveal schedule of one animation.
type Timeline struct {
	Version       string     `yaml:"version"`
	UnitSpeed     float64    `yaml:"unit_speed"`
	Lead          float64    `yaml:"lead"` // initial delay before t=0 of the schedule
	Author        string     `yaml:"author"`
	Lines         []LineData `yaml:"lines"`
	QuoteEnd      float64    `yaml:"quote_end"`
	BaseDuration  float64    `yaml:"base_duration"`
	Events        []Event    `yaml:"events"`
	TotalDuration float64    `yaml:"total_duration"`
}

// LineData is the group timing of a single display line.
type LineData struct {
	Text     string  `yaml:"text"`
	Delay    float64 `yaml:"delay"`
	Duration float64 `yaml:"duration"`
}

// Event is one scheduled reveal. Start is relative to the schedule origin,
// which sits Lead seconds into the video.
type Event struct {
	Kind   Kind    `yaml:"kind"`
	Line   int     `yaml:"line,omitempty"`
	Index  int     `yaml:"index,omitempty"`
	Marker string  `yaml:"marker,omitempty"`
	Start  float64 `yaml:"start"`
	Span   float64 `yaml:"span"`
}

// Progress returns how far the event has advanced at schedule time at, in [0, 1].
func (e Event) Progress(at float64) float64 {
	if at < e.Start {
		return 0
	}
	if e.Span <= 0 {
		return 1
	}
	p := (at - e.Start) / e.Span
	if p > 1 {
		return 1
	}
	return p
}

// Synthesize builds the reveal schedule for lines followed by author.
// Offsets are closed-form sums, so equal inputs give bit-identical output.
func Synthesize(lines []segmenter.DisplayLine, author string, p Params) (*Timeline, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}

	u := p.UnitSpeed
	span := p.RevealSpan
	if span <= 0 {
		span = u
	}

	tl := &Timeline{
		Version:   Version,
		UnitSpeed: u,
		Lead:      p.InitialDelay,
		Author:    author,
		Lines:     make([]LineData, 0, len(lines)),
	}

	accDelay := 0.0
	for i, line := range lines {
		n := line.Len()
		ld := LineData{
			Text:     line.Text,
			Delay:    accDelay,
			Duration: float64(n) * u,
		}
		tl.Lines = append(tl.Lines, ld)

		tl.Events = append(tl.Events, Event{Kind: KindLine, Line: i, Start: ld.Delay, Span: ld.Duration})
		for j := 0; j < n; j++ {
			tl.Events = append(tl.Events, Event{
				Kind:  KindChar,
				Line:  i,
				Index: j,
				Start: ld.Delay + float64(j)*u,
				Span:  span,
			})
		}

		accDelay += float64(n+lineGap) * u
	}

	authorLen := utf8.RuneCountInString(author)
	tl.BaseDuration = accDelay + float64(authorLen)*u

	// The attribution follows the last character directly; the trailing
	// inter-line gap in accDelay is not part of it.
	if len(tl.Lines) > 0 {
		last := tl.Lines[len(tl.Lines)-1]
		tl.QuoteEnd = last.Delay + last.Duration
	}

	for k := 0; k < authorLen; k++ {
		tl.Events = append(tl.Events, Event{
			Kind:  KindAuthor,
			Index: k,
			Start: tl.QuoteEnd + float64(k)*u,
			Span:  span,
		})
	}

	logoAt := tl.QuoteEnd + p.AuthorLogoGap + float64(authorLen)*u
	tl.Events = append(tl.Events, Event{Kind: KindMarker, Marker: MarkerLogo, Start: logoAt, Span: span})
	if p.SecondaryMarker {
		tl.Events = append(tl.Events, Event{Kind: KindMarker, Marker: MarkerCode, Start: logoAt + u, Span: span})
	}

	tl.TotalDuration = p.InitialDelay + tl.BaseDuration + p.AuthorLogoGap + p.EndingDelay
	return tl, nil
}

// LineRunes returns the characters of line i.
func (t *Timeline) LineRunes(i int) []rune {
	return []rune(t.Lines[i].Text)
}

// Marker returns the event for the named marker group, if scheduled.
func (t *Timeline) Marker(name string) (Event, bool) {
	for _, e := range t.Events {
		if e.Kind == KindMarker && e.Marker == name {
			return e, true
		}
	}
	return Event{}, false
}

func (p Params) validate() error {
	switch {
	case p.UnitSpeed <= 0:
		return &domain.InputError{Field: "unit-speed", Reason: "must be positive"}
	case p.InitialDelay < 0:
		return &domain.InputError{Field: "initial-delay", Reason: "must not be negative"}
	case p.EndingDelay < 0:
		return &domain.InputError{Field: "ending-delay", Reason: "must not be negative"}
	case p.AuthorLogoGap < 0:
		return &domain.InputError{Field: "author-logo-gap", Reason: "must not be negative"}
	case p.RevealSpan < 0:
		return &domain.InputError{Field: "reveal-span", Reason: "must not be negative"}
	}
	return nil
}
