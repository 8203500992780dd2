package video

import (
	"fmt"
	"strings"
)

// fadeFilter builds the audio filter graph for env: a fade-in at the head
// of the mixed output and a fade-out ending with it. Empty when env has no fades.
func fadeFilter(env Envelope) string {
	var stages []string
	if env.FadeIn > 0 {
		stages = append(stages, fmt.Sprintf("afade=t=in:st=0:d=%s", seconds(env.FadeIn)))
	}
	if env.FadeOutSpan > 0 {
		start := env.FadeOutStart
		if start < 0 {
			start = 0
		}
		stages = append(stages, fmt.Sprintf("afade=t=out:st=%s:d=%s", seconds(start), seconds(env.FadeOutSpan)))
	}
	if len(stages) == 0 {
		return ""
	}
	return "[1:a]" + strings.Join(stages, ",") + "[aout]"
}
