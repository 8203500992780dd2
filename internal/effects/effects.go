package effects

import (
	"fmt"
	"math/rand"
	"strings"
)

// CharState is the visual state of one revealing element: opacity in [0, 1]
// and an offset in units of the glyph size.
type CharState struct {
	Alpha  float64
	DX, DY float64
}

// Effect maps reveal progress in [0, 1] to a visual state.
type Effect interface {
	Name() string
	State(progress float64) CharState
}

// Random is the style tag that defers the choice to the run's random source.
const Random = "random"

var catalog = map[string]Effect{
	"fade":  fadeEffect{},
	"rise":  shiftEffect{name: "rise", dy: 0.6},
	"drop":  shiftEffect{name: "drop", dy: -0.6},
	"slide": shiftEffect{name: "slide", dx: -0.8},
	"type":  typeEffect{},
}

// Names returns the known style tags in a stable order.
func Names() []string {
	return []string{"fade", "rise", "drop", "slide", "type"}
}

// Lookup resolves a style tag. "random" or an empty tag picks one with rng.
func Lookup(style string, rng *rand.Rand) (Effect, error) {
	if IsRandom(style) {
		names := Names()
		return catalog[names[rng.Intn(len(names))]], nil
	}
	return Get(style)
}

// IsRandom reports whether style defers the choice to a random source.
func IsRandom(style string) bool {
	style = strings.ToLower(strings.TrimSpace(style))
	return style == "" || style == Random
}

// Get resolves a concrete style tag.
func Get(style string) (Effect, error) {
	e, ok := catalog[strings.ToLower(strings.TrimSpace(style))]
	if !ok {
		return nil, fmt.Errorf("unknown animation style %q (known: %s)", style, strings.Join(Names(), ", "))
	}
	return e, nil
}

type fadeEffect struct{}

func (fadeEffect) Name() string { return "fade" }

func (fadeEffect) State(p float64) CharState {
	return CharState{Alpha: easeInOutCubic(clamp(p))}
}

// shiftEffect fades in while travelling from an offset back to rest.
type shiftEffect struct {
	name   string
	dx, dy float64
}

func (e shiftEffect) Name() string { return e.name }

func (e shiftEffect) State(p float64) CharState {
	t := easeInOutCubic(clamp(p))
	return CharState{
		Alpha: t,
		DX:    e.dx * (1 - t),
		DY:    e.dy * (1 - t),
	}
}

// typeEffect shows a character fully as soon as its reveal begins.
type typeEffect struct{}

func (typeEffect) Name() string { return "type" }

func (typeEffect) State(p float64) CharState {
	if p <= 0 {
		return CharState{}
	}
	return CharState{Alpha: 1}
}

// easeInOutCubic applies smooth easing function
func easeInOutCubic(t float64) float64 {
	if t < 0.5 {
		return 4 * t * t * t
	}
	return 1 - pow(-2*t+2, 3)/2
}

// pow calculates x^n
func pow(x float64, n int) float64 {
	result := 1.0
	for i := 0; i < n; i++ {
		result *= x
	}
	return result
}

func clamp(p float64) float64 {
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}
