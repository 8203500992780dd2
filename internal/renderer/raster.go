package renderer

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"
	"time"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"github.com/ivlev/quote2video/internal/assets"
	"github.com/ivlev/quote2video/internal/effects"
	"github.com/ivlev/quote2video/internal/system"
	"github.com/ivlev/quote2video/internal/timeline"
)

var errNoScene = errors.New("renderer: no scene loaded")

// RasterRenderer draws scenes in-process with x/image. Seeking is exact:
// every capture is a pure function of the scene and the clock.
type RasterRenderer struct {
	scene  *Scene
	effect effects.Effect
	face   font.Face
	layout *layout
	clock  float64
}

// NewRasterRenderer returns an empty renderer; call LoadScene before use.
func NewRasterRenderer() *RasterRenderer {
	return &RasterRenderer{}
}

// NewRasterFactory returns a Factory producing independent raster renderers.
func NewRasterFactory() Factory {
	return func() (Renderer, error) {
		return NewRasterRenderer(), nil
	}
}

func (r *RasterRenderer) LoadScene(ctx context.Context, scene *Scene, style string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if scene == nil || scene.Timeline == nil {
		return fmt.Errorf("renderer: scene without timeline")
	}
	if scene.Width <= 0 || scene.Height <= 0 {
		return fmt.Errorf("renderer: invalid canvas %dx%d", scene.Width, scene.Height)
	}
	if effects.IsRandom(style) {
		return fmt.Errorf("renderer: style must be resolved before loading the scene")
	}

	eff, err := effects.Get(style)
	if err != nil {
		return err
	}

	face, err := assets.LoadFace(scene.FontPath, scene.FontSize)
	if err != nil {
		return err
	}

	if r.face != nil {
		r.face.Close()
	}
	r.scene = scene
	r.effect = eff
	r.face = face
	r.layout = computeLayout(scene, face)
	r.clock = 0
	return nil
}

// AwaitReady returns as soon as a scene is loaded; drawing is synchronous.
func (r *RasterRenderer) AwaitReady(ctx context.Context, timeout time.Duration) error {
	if r.scene == nil {
		return errNoScene
	}
	return ctx.Err()
}

func (r *RasterRenderer) SeekTo(ctx context.Context, t float64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if r.scene == nil {
		return errNoScene
	}
	if t < 0 || math.IsNaN(t) || math.IsInf(t, 0) {
		return fmt.Errorf("renderer: cannot seek to %v", t)
	}
	r.clock = t
	return nil
}

// Capture draws the scene at the current clock into a pooled buffer. The
// caller owns the result and may hand it back with system.PutImage.
func (r *RasterRenderer) Capture(ctx context.Context) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if r.scene == nil {
		return nil, errNoScene
	}

	s := r.scene
	img := system.GetImage(image.Rect(0, 0, s.Width, s.Height))
	draw.Draw(img, img.Bounds(), image.NewUniform(s.Palette.Background), image.Point{}, draw.Src)

	at := r.clock - s.Timeline.Lead
	for _, e := range s.Timeline.Events {
		p := e.Progress(at)
		if p <= 0 {
			continue
		}
		st := r.effect.State(p)
		if st.Alpha <= 0 {
			continue
		}

		switch e.Kind {
		case timeline.KindChar:
			if e.Line < len(r.layout.lines) && e.Index < len(r.layout.lines[e.Line]) {
				r.drawGlyph(img, r.layout.lines[e.Line][e.Index], st)
			}
		case timeline.KindAuthor:
			if e.Index < len(r.layout.author) {
				r.drawGlyph(img, r.layout.author[e.Index], st)
			}
		case timeline.KindMarker:
			switch e.Marker {
			case timeline.MarkerLogo:
				r.drawMarker(img, r.layout.logo, r.layout.logoAt, st)
			case timeline.MarkerCode:
				r.drawMarker(img, r.layout.code, r.layout.codeAt, st)
			}
		}
	}
	return img, nil
}

func (r *RasterRenderer) Close() error {
	if r.face != nil {
		err := r.face.Close()
		r.face = nil
		return err
	}
	return nil
}

func (r *RasterRenderer) drawGlyph(dst *image.RGBA, g glyph, st effects.CharState) {
	fg := r.scene.Palette.Foreground
	col := color.NRGBA{R: fg.R, G: fg.G, B: fg.B, A: alpha8(st.Alpha)}

	x := g.x + int(math.Round(st.DX*float64(r.layout.size)))
	y := g.y + int(math.Round(st.DY*float64(r.layout.size)))

	d := font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(col),
		Face: r.face,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(string(g.r))
}

func (r *RasterRenderer) drawMarker(dst *image.RGBA, src *image.RGBA, at image.Point, st effects.CharState) {
	if src == nil {
		return
	}
	at = at.Add(image.Pt(
		int(math.Round(st.DX*float64(r.layout.size))),
		int(math.Round(st.DY*float64(r.layout.size))),
	))
	rect := src.Bounds().Add(at)
	mask := image.NewUniform(color.Alpha{A: alpha8(st.Alpha)})
	draw.DrawMask(dst, rect, src, src.Bounds().Min, mask, image.Point{}, draw.Over)
}

func alpha8(a float64) uint8 {
	if a >= 1 {
		return 0xff
	}
	return uint8(math.Round(a * 0xff))
}
