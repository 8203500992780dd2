package effects

import (
	"image/color"
	"math/rand"
)

// Palette is a background/foreground pair for the rendered surface.
type Palette struct {
	Name       string
	Background color.RGBA
	Foreground color.RGBA
}

var palettes = []Palette{
	{"ink", color.RGBA{0x14, 0x14, 0x18, 0xff}, color.RGBA{0xf2, 0xee, 0xe3, 0xff}},
	{"paper", color.RGBA{0xf4, 0xf0, 0xe6, 0xff}, color.RGBA{0x22, 0x22, 0x22, 0xff}},
	{"jade", color.RGBA{0x1e, 0x3d, 0x36, 0xff}, color.RGBA{0xe8, 0xf1, 0xea, 0xff}},
	{"ember", color.RGBA{0x3a, 0x16, 0x12, 0xff}, color.RGBA{0xfb, 0xe3, 0xc4, 0xff}},
	{"sky", color.RGBA{0xdc, 0xea, 0xf5, 0xff}, color.RGBA{0x1a, 0x2b, 0x3c, 0xff}},
}

// PickPalette chooses a palette uniformly with rng.
func PickPalette(rng *rand.Rand) Palette {
	return palettes[rng.Intn(len(palettes))]
}
