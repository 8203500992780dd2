package renderer

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"testing"
	"time"

	"github.com/ivlev/quote2video/internal/effects"
	"github.com/ivlev/quote2video/internal/segmenter"
	"github.com/ivlev/quote2video/internal/timeline"
)

var testPalette = effects.Palette{
	Name:       "test",
	Background: color.RGBA{0, 0, 0, 0xff},
	Foreground: color.RGBA{0xff, 0xff, 0xff, 0xff},
}

func testScene(t *testing.T) *Scene {
	t.Helper()
	tl, err := timeline.Synthesize(segmenter.Segment("Hello, world", 8), "Ann", timeline.Params{
		UnitSpeed:       0.1,
		InitialDelay:    0.5,
		EndingDelay:     0.5,
		AuthorLogoGap:   0.2,
		RevealSpan:      0.3,
		SecondaryMarker: true,
	})
	if err != nil {
		t.Fatalf("Synthesize failed: %v", err)
	}

	code := image.NewRGBA(image.Rect(0, 0, 10, 10))
	for i := range code.Pix {
		code.Pix[i] = 0xff
	}

	return &Scene{
		Width:    160,
		Height:   120,
		Timeline: tl,
		Palette:  testPalette,
		FontSize: 14,
		Code:     code,
	}
}

func loaded(t *testing.T) *RasterRenderer {
	t.Helper()
	r := NewRasterRenderer()
	if err := r.LoadScene(context.Background(), testScene(t), "fade"); err != nil {
		t.Fatalf("LoadScene failed: %v", err)
	}
	t.Cleanup(func() { r.Close() })
	return r
}

func captureAt(t *testing.T, r *RasterRenderer, at float64) *image.RGBA {
	t.Helper()
	ctx := context.Background()
	if err := r.SeekTo(ctx, at); err != nil {
		t.Fatalf("SeekTo(%v) failed: %v", at, err)
	}
	img, err := r.Capture(ctx)
	if err != nil {
		t.Fatalf("Capture failed: %v", err)
	}
	// Copy out of the pooled buffer so later captures cannot alias it.
	rgba := img.(*image.RGBA)
	out := image.NewRGBA(rgba.Bounds())
	copy(out.Pix, rgba.Pix)
	return out
}

func litPixels(img *image.RGBA) int {
	n := 0
	for i := 0; i < len(img.Pix); i += 4 {
		if img.Pix[i] > 0 {
			n++
		}
	}
	return n
}

func TestCaptureBeforeLeadIsBlank(t *testing.T) {
	r := loaded(t)
	if n := litPixels(captureAt(t, r, 0)); n != 0 {
		t.Errorf("Expected blank canvas before the lead, got %d lit pixels", n)
	}
}

func TestCaptureRevealsOverTime(t *testing.T) {
	r := loaded(t)
	total := r.scene.Timeline.TotalDuration

	early := litPixels(captureAt(t, r, 0.65))
	late := litPixels(captureAt(t, r, total-0.01))
	if late == 0 {
		t.Fatal("Expected text on the final frame")
	}
	if early >= late {
		t.Errorf("Expected more pixels revealed later: early=%d late=%d", early, late)
	}
}

func TestCaptureIsDeterministic(t *testing.T) {
	r := loaded(t)

	a := captureAt(t, r, 1.234)
	captureAt(t, r, 3) // move the clock elsewhere
	b := captureAt(t, r, 1.234)

	if !bytes.Equal(a.Pix, b.Pix) {
		t.Error("Seeking back to the same time must reproduce the frame")
	}

	other := loaded(t)
	c := captureAt(t, other, 1.234)
	if !bytes.Equal(a.Pix, c.Pix) {
		t.Error("Independent instances must agree on the same time")
	}
}

func TestRendererErrors(t *testing.T) {
	ctx := context.Background()
	r := NewRasterRenderer()

	if _, err := r.Capture(ctx); err == nil {
		t.Error("Expected error capturing without a scene")
	}
	if err := r.AwaitReady(ctx, time.Second); err == nil {
		t.Error("Expected error awaiting without a scene")
	}
	if err := r.LoadScene(ctx, testScene(t), "random"); err == nil {
		t.Error("Expected error for unresolved random style")
	}
	if err := r.LoadScene(ctx, testScene(t), "sparkle"); err == nil {
		t.Error("Expected error for unknown style")
	}

	r = loaded(t)
	if err := r.SeekTo(ctx, -1); err == nil {
		t.Error("Expected error seeking to negative time")
	}

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	if _, err := r.Capture(cancelled); err == nil {
		t.Error("Expected error capturing with a cancelled context")
	}
}
