package effects

import (
	"math"
	"math/rand"
	"testing"
)

func TestLookup(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	tests := []struct {
		style   string
		wantErr bool
	}{
		{"fade", false},
		{"RISE", false},
		{"", false},
		{"random", false},
		{"sparkle", true},
	}

	for _, tt := range tests {
		t.Run(tt.style, func(t *testing.T) {
			e, err := Lookup(tt.style, rng)
			if tt.wantErr {
				if err == nil {
					t.Error("Expected error, got nil")
				}
				return
			}
			if err != nil || e == nil {
				t.Fatalf("Unexpected result: %v, %v", e, err)
			}
		})
	}
}

func TestLookupRandomIsSeeded(t *testing.T) {
	a, _ := Lookup("random", rand.New(rand.NewSource(42)))
	b, _ := Lookup("random", rand.New(rand.NewSource(42)))
	if a.Name() != b.Name() {
		t.Errorf("Same seed picked %s and %s", a.Name(), b.Name())
	}
}

func TestEffectsSettle(t *testing.T) {
	for _, name := range Names() {
		e := catalog[name]

		start := e.State(0)
		if start.Alpha != 0 {
			t.Errorf("%s: expected hidden at progress 0, got alpha %v", name, start.Alpha)
		}

		end := e.State(1)
		if math.Abs(end.Alpha-1) > 1e-9 || math.Abs(end.DX) > 1e-9 || math.Abs(end.DY) > 1e-9 {
			t.Errorf("%s: expected rest state at progress 1, got %+v", name, end)
		}

		prev := -1.0
		for p := 0.0; p <= 1.0; p += 0.05 {
			a := e.State(p).Alpha
			if a < prev {
				t.Errorf("%s: alpha decreased at %.2f", name, p)
			}
			prev = a
		}
	}
}

func TestPickPalette(t *testing.T) {
	a := PickPalette(rand.New(rand.NewSource(3)))
	b := PickPalette(rand.New(rand.NewSource(3)))
	if a.Name != b.Name {
		t.Errorf("Same seed picked %s and %s", a.Name, b.Name)
	}
}
