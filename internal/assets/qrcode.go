package assets

import (
	"image"
	"image/color"

	"github.com/skip2/go-qrcode"

	"github.com/ivlev/quote2video/internal/domain"
)

// Code renders content as a square scannable code of size pixels, drawn in
// fg on bg.
func Code(content string, size int, fg, bg color.Color) (image.Image, error) {
	q, err := qrcode.New(content, qrcode.Medium)
	if err != nil {
		return nil, &domain.AssetError{Path: "code:" + content, Err: err}
	}
	q.ForegroundColor = fg
	q.BackgroundColor = bg
	q.DisableBorder = true

	return q.Image(size), nil
}
