package audio

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"

	"github.com/ivlev/quote2video/internal/domain"
)

// SyncPlan places the animation inside a background track. All values are
// seconds; fades are applied to the mixed output, not to the source track.
type SyncPlan struct {
	Track         string  `yaml:"track"`
	TrackDuration float64 `yaml:"track_duration"`
	StartOffset   float64 `yaml:"start_offset"`
	FadeInSpan    float64 `yaml:"fade_in_span"`
	FadeOutStart  float64 `yaml:"fade_out_start"`
	FadeOutSpan   float64 `yaml:"fade_out_span"`
}

// Prober reports the duration of an audio file in seconds.
type Prober interface {
	ProbeDuration(ctx context.Context, path string) (float64, error)
}

// Plan picks a start offset inside a track of trackDuration seconds so that
// total seconds of animation plus safetyMargin fit before the track ends.
// The offset is a whole number of seconds drawn uniformly from rng. A track
// shorter than total+safetyMargin yields *domain.InfeasibleError.
func Plan(trackDuration, total, safetyMargin, fadeSpan float64, rng *rand.Rand) (SyncPlan, error) {
	if total <= 0 {
		return SyncPlan{}, &domain.InputError{Field: "total-duration", Reason: "must be positive"}
	}
	if safetyMargin < 0 || fadeSpan < 0 {
		return SyncPlan{}, &domain.InputError{Field: "audio", Reason: "safety margin and fade must not be negative"}
	}
	if trackDuration < total+safetyMargin {
		return SyncPlan{}, &domain.InfeasibleError{Need: total + safetyMargin, Best: trackDuration}
	}

	maxStart := math.Max(0, trackDuration-total-safetyMargin)
	start := float64(rng.Intn(int(math.Floor(maxStart)) + 1))

	// Long fades on short clips would overlap; keep each within half the clip.
	if fadeSpan > total/2 {
		fadeSpan = total / 2
	}

	return SyncPlan{
		TrackDuration: trackDuration,
		StartOffset:   start,
		FadeInSpan:    fadeSpan,
		FadeOutStart:  total - fadeSpan,
		FadeOutSpan:   fadeSpan,
	}, nil
}

// SelectTrack shuffles candidates with rng and returns a plan for the first
// one long enough. Durations are probed lazily, so a feasible early pick
// avoids probing the rest of the catalog.
func SelectTrack(ctx context.Context, p Prober, candidates []string, total, safetyMargin, fadeSpan float64, rng *rand.Rand) (SyncPlan, error) {
	if len(candidates) == 0 {
		return SyncPlan{}, &domain.AssetError{Path: "audio", Err: fmt.Errorf("no candidate tracks")}
	}

	order := rng.Perm(len(candidates))
	best := 0.0
	for _, i := range order {
		path := candidates[i]
		d, err := p.ProbeDuration(ctx, path)
		if err != nil {
			return SyncPlan{}, &domain.AssetError{Path: path, Err: err}
		}
		if d > best {
			best = d
		}

		plan, err := Plan(d, total, safetyMargin, fadeSpan, rng)
		if err != nil {
			var infeasible *domain.InfeasibleError
			if errors.As(err, &infeasible) {
				continue
			}
			return SyncPlan{}, err
		}
		plan.Track = path
		return plan, nil
	}

	return SyncPlan{}, &domain.InfeasibleError{Need: total + safetyMargin, Best: best}
}
