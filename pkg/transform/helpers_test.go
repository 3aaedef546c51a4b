package transform

import (
	"image"
	"image/color"
	"math/rand/v2"
	"testing"

	"github.com/menta2k/image-synth/pkg/element"
)

func testRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

func solid(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

var (
	red   = color.NRGBA{R: 255, A: 255}
	blue  = color.NRGBA{B: 255, A: 255}
	white = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
)

func background(t *testing.T, w, h int, objects ...*element.Element) *element.Element {
	t.Helper()
	return element.New(solid(w, h, white), objects...)
}

func object(w, h int, name string) *element.Element {
	return element.NewChild(solid(w, h, red), name)
}
