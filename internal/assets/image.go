package assets

import (
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/gen2brain/go-fitz"
	"golang.org/x/image/draw"

	"github.com/ivlev/quote2video/internal/domain"
)

// vectorDPI is the rasterization density for PDF/SVG marker assets.
const vectorDPI = 300

// LoadImage decodes a marker image. PNG and JPEG are decoded directly,
// PDF and SVG documents are rasterized from their first page.
func LoadImage(path string) (image.Image, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf", ".svg":
		return loadVector(path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, &domain.AssetError{Path: path, Err: err}
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, &domain.AssetError{Path: path, Err: err}
	}
	return img, nil
}

func loadVector(path string) (image.Image, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, &domain.AssetError{Path: path, Err: err}
	}

	doc, err := fitz.New(path)
	if err != nil {
		return nil, &domain.AssetError{Path: path, Err: err}
	}
	defer doc.Close()

	if doc.NumPage() == 0 {
		return nil, &domain.AssetError{Path: path, Err: os.ErrNotExist}
	}

	img, err := doc.ImageDPI(0, vectorDPI)
	if err != nil {
		return nil, &domain.AssetError{Path: path, Err: err}
	}
	return img, nil
}

// Fit scales img to fit inside a w x h box, keeping its aspect ratio.
func Fit(img image.Image, w, h int) *image.RGBA {
	b := img.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 || w <= 0 || h <= 0 {
		return image.NewRGBA(image.Rect(0, 0, 0, 0))
	}

	scale := float64(w) / float64(b.Dx())
	if s := float64(h) / float64(b.Dy()); s < scale {
		scale = s
	}

	dw := int(float64(b.Dx())*scale + 0.5)
	dh := int(float64(b.Dy())*scale + 0.5)
	if dw < 1 {
		dw = 1
	}
	if dh < 1 {
		dh = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, dw, dh))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Over, nil)
	return dst
}
