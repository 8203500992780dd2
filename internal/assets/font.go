package assets

import (
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"

	"github.com/ivlev/quote2video/internal/domain"
)

// LoadFace opens a TrueType/OpenType font at size points (72 DPI, so one
// point is one pixel). An empty path selects the bundled Go Regular face,
// which covers Latin and Cyrillic but not CJK.
func LoadFace(path string, size float64) (font.Face, error) {
	var (
		f   *opentype.Font
		err error
	)

	if path == "" {
		f, err = opentype.Parse(goregular.TTF)
		if err != nil {
			return nil, &domain.AssetError{Path: "gofont/goregular", Err: err}
		}
	} else {
		f, err = parseFontFile(path)
		if err != nil {
			return nil, err
		}
	}

	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, &domain.AssetError{Path: path, Err: err}
	}
	return face, nil
}

func parseFontFile(path string) (*opentype.Font, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &domain.AssetError{Path: path, Err: err}
	}

	// Collections (.ttc/.otc) ship several faces; the first is the regular one.
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ttc", ".otc":
		coll, err := opentype.ParseCollection(data)
		if err != nil {
			return nil, &domain.AssetError{Path: path, Err: err}
		}
		f, err := coll.Font(0)
		if err != nil {
			return nil, &domain.AssetError{Path: path, Err: err}
		}
		return f, nil
	}

	f, err := opentype.Parse(data)
	if err != nil {
		return nil, &domain.AssetError{Path: path, Err: err}
	}
	return f, nil
}
