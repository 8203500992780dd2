package audio

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	"github.com/ivlev/quote2video/internal/domain"
)

func TestPlanBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	for _, track := range []float64{12, 12.9, 30, 95.5, 240} {
		for i := 0; i < 200; i++ {
			p, err := Plan(track, 7, 5, 2, rng)
			if err != nil {
				t.Fatalf("Plan(%v) failed: %v", track, err)
			}
			if p.StartOffset < 0 || p.StartOffset > track-7-5 {
				t.Fatalf("Plan(%v): start %v outside [0, %v]", track, p.StartOffset, track-7-5)
			}
			if p.StartOffset != float64(int(p.StartOffset)) {
				t.Fatalf("Plan(%v): start %v is not whole seconds", track, p.StartOffset)
			}
		}
	}
}

func TestPlanEnvelope(t *testing.T) {
	p, err := Plan(60, 7, 5, 2, rand.New(rand.NewSource(9)))
	if err != nil {
		t.Fatalf("Plan failed: %v", err)
	}
	if p.FadeInSpan != 2 || p.FadeOutSpan != 2 || p.FadeOutStart != 5 {
		t.Errorf("Unexpected envelope: %+v", p)
	}
	if p.TrackDuration != 60 {
		t.Errorf("Expected track duration 60, got %v", p.TrackDuration)
	}
}

func TestPlanInfeasible(t *testing.T) {
	tests := []struct {
		name  string
		track float64
	}{
		{"shorter than animation", 5},
		{"within safety margin", 11.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Plan(tt.track, 7, 5, 2, rand.New(rand.NewSource(1)))

			var infeasible *domain.InfeasibleError
			if !errors.As(err, &infeasible) {
				t.Fatalf("Expected InfeasibleError, got %v", err)
			}
			if infeasible.Need != 12 || infeasible.Best != tt.track {
				t.Errorf("Unexpected details: %+v", infeasible)
			}
		})
	}
}

func TestPlanExactFit(t *testing.T) {
	p, err := Plan(12, 7, 5, 2, rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatalf("Plan failed: %v", err)
	}
	if p.StartOffset != 0 {
		t.Errorf("Expected start 0 for an exact fit, got %v", p.StartOffset)
	}
}

func TestPlanDeterministic(t *testing.T) {
	a, _ := Plan(300, 7, 5, 2, rand.New(rand.NewSource(77)))
	b, _ := Plan(300, 7, 5, 2, rand.New(rand.NewSource(77)))
	if a != b {
		t.Errorf("Same seed produced %+v and %+v", a, b)
	}
}

type fakeProber map[string]float64

func (f fakeProber) ProbeDuration(_ context.Context, path string) (float64, error) {
	d, ok := f[path]
	if !ok {
		return 0, errors.New("no such file")
	}
	return d, nil
}

func TestSelectTrack(t *testing.T) {
	prober := fakeProber{"short.mp3": 4, "long.mp3": 180, "tiny.mp3": 1}

	for seed := int64(0); seed < 20; seed++ {
		p, err := SelectTrack(context.Background(), prober, []string{"short.mp3", "long.mp3", "tiny.mp3"}, 7, 5, 2, rand.New(rand.NewSource(seed)))
		if err != nil {
			t.Fatalf("SelectTrack failed: %v", err)
		}
		if p.Track != "long.mp3" {
			t.Errorf("Expected the only feasible track, got %s", p.Track)
		}
	}
}

func TestSelectTrackFailures(t *testing.T) {
	ctx := context.Background()
	rng := rand.New(rand.NewSource(1))

	_, err := SelectTrack(ctx, fakeProber{"a.mp3": 3, "b.mp3": 9}, []string{"a.mp3", "b.mp3"}, 7, 5, 2, rng)
	var infeasible *domain.InfeasibleError
	if !errors.As(err, &infeasible) || infeasible.Best != 9 {
		t.Errorf("Expected InfeasibleError with best 9, got %v", err)
	}

	_, err = SelectTrack(ctx, fakeProber{}, nil, 7, 5, 2, rng)
	var assetErr *domain.AssetError
	if !errors.As(err, &assetErr) {
		t.Errorf("Expected AssetError for empty catalog, got %v", err)
	}

	_, err = SelectTrack(ctx, fakeProber{}, []string{"missing.mp3"}, 7, 5, 2, rng)
	if !errors.As(err, &assetErr) || assetErr.Path != "missing.mp3" {
		t.Errorf("Expected AssetError for missing.mp3, got %v", err)
	}
}
