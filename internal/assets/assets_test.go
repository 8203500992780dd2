package assets

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/ivlev/quote2video/internal/domain"
)

func writePNG(t *testing.T, w, h int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: 200, A: 255})
		}
	}

	path := filepath.Join(t.TempDir(), "logo.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadImage(t *testing.T) {
	path := writePNG(t, 40, 20)

	img, err := LoadImage(path)
	if err != nil {
		t.Fatalf("LoadImage failed: %v", err)
	}
	if img.Bounds().Dx() != 40 || img.Bounds().Dy() != 20 {
		t.Errorf("Unexpected bounds %v", img.Bounds())
	}
}

func TestLoadImageMissing(t *testing.T) {
	for _, name := range []string{"nope.png", "nope.svg"} {
		path := filepath.Join(t.TempDir(), name)
		_, err := LoadImage(path)

		var assetErr *domain.AssetError
		if !errors.As(err, &assetErr) {
			t.Fatalf("Expected AssetError for %s, got %v", name, err)
		}
		if assetErr.Path != path {
			t.Errorf("Expected path %s in error, got %s", path, assetErr.Path)
		}
	}
}

func TestFit(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 400, 100))

	got := Fit(img, 100, 100)
	if got.Bounds().Dx() != 100 || got.Bounds().Dy() != 25 {
		t.Errorf("Expected 100x25, got %v", got.Bounds())
	}
}

func TestLoadFace(t *testing.T) {
	face, err := LoadFace("", 24)
	if err != nil {
		t.Fatalf("LoadFace failed: %v", err)
	}
	defer face.Close()

	if face.Metrics().Height <= 0 {
		t.Error("Expected positive line height")
	}

	_, err = LoadFace(filepath.Join(t.TempDir(), "missing.ttf"), 24)
	var assetErr *domain.AssetError
	if !errors.As(err, &assetErr) {
		t.Errorf("Expected AssetError, got %v", err)
	}
}

func TestCode(t *testing.T) {
	img, err := Code("https://example.com/q/42", 128, color.Black, color.White)
	if err != nil {
		t.Fatalf("Code failed: %v", err)
	}
	if img.Bounds().Dx() != img.Bounds().Dy() {
		t.Errorf("Expected square code, got %v", img.Bounds())
	}
}
