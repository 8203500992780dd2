package timeline

import (
	"fmt"
	"math"
	"unicode/utf8"

	"github.com/ivlev/quote2video/internal/domain"
)

// delayTolerance absorbs float drift in line delays read back from YAML.
const delayTolerance = 1e-6

// Validate checks that the schedule is well formed: a known version,
// non-decreasing event starts, non-negative spans, line delays that follow
// the accumulator rule (first line at 0, each next line one line length plus
// lineGap units later), and a total long enough to hold every reveal.
func (t *Timeline) Validate() error {
	if t == nil {
		return &domain.InputError{Field: "timeline", Reason: "missing"}
	}
	if t.Version != Version {
		return &domain.InputError{Field: "timeline.version", Reason: fmt.Sprintf("unsupported version %q", t.Version)}
	}
	if t.UnitSpeed <= 0 {
		return &domain.InputError{Field: "timeline.unit_speed", Reason: "must be positive"}
	}
	if t.Lead < 0 {
		return &domain.InputError{Field: "timeline.lead", Reason: "must not be negative"}
	}
	if len(t.Lines) == 0 {
		return &domain.InputError{Field: "timeline.lines", Reason: "at least one line is required"}
	}

	want := 0.0
	for i, l := range t.Lines {
		if math.Abs(l.Delay-want) > delayTolerance {
			return &domain.InputError{
				Field:  fmt.Sprintf("timeline.lines[%d].delay", i),
				Reason: fmt.Sprintf("%.3f, want %.3f", l.Delay, want),
			}
		}
		want = l.Delay + float64(utf8.RuneCountInString(l.Text)+lineGap)*t.UnitSpeed
	}

	last := 0.0
	for i, e := range t.Events {
		if e.Start < 0 || e.Span < 0 {
			return &domain.InputError{
				Field:  fmt.Sprintf("timeline.events[%d]", i),
				Reason: "negative start or span",
			}
		}
		if e.Start < last {
			return &domain.InputError{
				Field:  fmt.Sprintf("timeline.events[%d].start", i),
				Reason: fmt.Sprintf("%.3f precedes previous event at %.3f", e.Start, last),
			}
		}
		switch e.Kind {
		case KindLine, KindChar:
			if e.Line < 0 || e.Line >= len(t.Lines) {
				return &domain.InputError{Field: fmt.Sprintf("timeline.events[%d].line", i), Reason: "out of range"}
			}
		case KindAuthor, KindMarker:
		default:
			return &domain.InputError{Field: fmt.Sprintf("timeline.events[%d].kind", i), Reason: fmt.Sprintf("unknown kind %q", e.Kind)}
		}
		last = e.Start
	}

	if t.TotalDuration <= 0 || t.TotalDuration < t.Lead+last {
		return &domain.InputError{
			Field:  "timeline.total_duration",
			Reason: fmt.Sprintf("%.3f does not cover the last reveal at %.3f", t.TotalDuration, t.Lead+last),
		}
	}
	return nil
}
