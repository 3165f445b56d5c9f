package export

import (
	"fmt"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

type fontPair struct {
	regular *opentype.Font
	bold    *opentype.Font
}

// Parsed fonts are shared; faces are not safe for concurrent use and are
// created per render.
var loadFonts = sync.OnceValues(func() (*fontPair, error) {
	regular, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse regular font: %w", err)
	}
	bold, err := opentype.Parse(gobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse bold font: %w", err)
	}
	return &fontPair{regular: regular, bold: bold}, nil
})

type faceKey struct {
	size float64
	bold bool
}

// faceCache hands out faces sized in device pixels for one render.
type faceCache struct {
	fonts *fontPair
	scale float64
	faces map[faceKey]font.Face
}

func newFaceCache(scale float64) (*faceCache, error) {
	fonts, err := loadFonts()
	if err != nil {
		return nil, err
	}
	return &faceCache{fonts: fonts, scale: scale, faces: make(map[faceKey]font.Face)}, nil
}

// face returns a face for a CSS pixel size.
func (fc *faceCache) face(size float64, bold bool) font.Face {
	key := faceKey{size: size, bold: bold}
	if f, ok := fc.faces[key]; ok {
		return f
	}

	src := fc.fonts.regular
	if bold {
		src = fc.fonts.bold
	}
	f, err := opentype.NewFace(src, &opentype.FaceOptions{
		Size:    size * fc.scale,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return basicfont.Face7x13
	}
	fc.faces[key] = f
	return f
}

func (fc *faceCache) Close() {
	for _, f := range fc.faces {
		_ = f.Close()
	}
}
