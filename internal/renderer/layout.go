package renderer

import (
	"image"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"github.com/ivlev/quote2video/internal/assets"
)

// glyph is a character placed on the canvas at its baseline origin.
type glyph struct {
	r    rune
	x, y int
}

// layout holds pre-computed positions for one scene.
type layout struct {
	lines  [][]glyph
	author []glyph
	size   int // nominal glyph size in pixels, used to scale effect offsets

	logo   *image.RGBA
	logoAt image.Point
	code   *image.RGBA
	codeAt image.Point
}

// computeLayout centers the quote lines slightly above the middle of the
// canvas, right-aligns the attribution beneath them and reserves the lower
// band for the markers.
func computeLayout(scene *Scene, face font.Face) *layout {
	w, h := scene.Width, scene.Height
	m := face.Metrics()
	lineHeight := (m.Height * 3 / 2).Ceil()
	ascent := m.Ascent.Ceil()

	tl := scene.Timeline
	l := &layout{
		lines: make([][]glyph, len(tl.Lines)),
		size:  int(scene.FontSize),
	}

	blockHeight := (len(tl.Lines) + 1) * lineHeight
	top := (h-blockHeight)/2 - h/10
	if top < 0 {
		top = 0
	}

	for i := range tl.Lines {
		runes := tl.LineRunes(i)
		width := advance(face, runes)
		x := fixed.I((w - width.Ceil()) / 2)
		y := top + i*lineHeight + ascent

		row := make([]glyph, len(runes))
		for j, r := range runes {
			row[j] = glyph{r: r, x: x.Round(), y: y}
			x += glyphAdvance(face, r)
		}
		l.lines[i] = row
	}

	authorRunes := []rune(tl.Author)
	authorWidth := advance(face, authorRunes)
	margin := w / 12
	x := fixed.I(w - margin - authorWidth.Ceil())
	y := top + len(tl.Lines)*lineHeight + lineHeight/2 + ascent
	l.author = make([]glyph, len(authorRunes))
	for k, r := range authorRunes {
		l.author[k] = glyph{r: r, x: x.Round(), y: y}
		x += glyphAdvance(face, r)
	}

	if scene.Logo != nil {
		l.logo = assets.Fit(scene.Logo, w/4, h/10)
		l.logoAt = image.Pt((w-l.logo.Bounds().Dx())/2, h-h/8-l.logo.Bounds().Dy())
	}
	if scene.Code != nil {
		side := w / 6
		l.code = assets.Fit(scene.Code, side, side)
		l.codeAt = image.Pt(w-margin-l.code.Bounds().Dx(), h-h/8-l.code.Bounds().Dy())
		if l.logo != nil {
			// Keep the code clear of a wide logo.
			l.logoAt.X = margin
		}
	}
	return l
}

func advance(face font.Face, runes []rune) fixed.Int26_6 {
	var total fixed.Int26_6
	for _, r := range runes {
		total += glyphAdvance(face, r)
	}
	return total
}

func glyphAdvance(face font.Face, r rune) fixed.Int26_6 {
	adv, ok := face.GlyphAdvance(r)
	if !ok {
		// Missing glyph: reserve a square cell so following characters keep their place.
		return face.Metrics().Height
	}
	return adv
}
