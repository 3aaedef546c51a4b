package processing

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"

	"github.com/menta2k/image-synth/pkg/types"
)

// Supported output formats
const (
	FormatJPEG = "jpg"
	FormatPNG  = "png"
	FormatWebP = "webp"
)

// Processor handles image loading, saving and debug rendering
type Processor struct{}

// NewProcessor creates a new image processor
func NewProcessor() *Processor {
	return &Processor{}
}

// LoadImage loads an image from a file path with WebP support.
// EXIF orientation is applied so objects are composited the way they look.
func (p *Processor) LoadImage(path string) (*image.NRGBA, error) {
	// Try imaging.Open (registered decoders)
	if img, err := imaging.Open(path, imaging.AutoOrientation(true)); err == nil {
		return imaging.Clone(img), nil
	}

	// Fallback: explicit WebP decode
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read image %s: %w", path, err)
	}
	if img, err := webp.Decode(bytes.NewReader(data)); err == nil {
		return imaging.Clone(img), nil
	}
	if img, _, err := image.Decode(bytes.NewReader(data)); err == nil {
		return imaging.Clone(img), nil
	}
	return nil, fmt.Errorf("image: unknown format for %s", path)
}

// SaveImage saves an image to a file with the specified format and quality
func (p *Processor) SaveImage(img image.Image, path, format string, quality int, lossless bool) error {
	switch NormalizeFormat(format) {
	case FormatWebP:
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		opts := &webp.Options{Lossless: lossless, Quality: float32(quality)}
		if err := webp.Encode(f, img, opts); err != nil {
			f.Close()
			return fmt.Errorf("failed to encode webp %s: %w", path, err)
		}
		return f.Close()
	case FormatPNG:
		return imaging.Save(img, path)
	default: // jpg/jpeg
		return imaging.Save(img, path, imaging.JPEGQuality(quality))
	}
}

// NormalizeFormat maps format aliases onto the supported output formats.
// Unknown formats fall back to JPEG.
func NormalizeFormat(format string) string {
	switch strings.TrimPrefix(strings.ToLower(format), ".") {
	case "png":
		return FormatPNG
	case "webp":
		return FormatWebP
	default:
		return FormatJPEG
	}
}

// IsSupportedFormat reports whether format is one SaveImage can write
func IsSupportedFormat(format string) bool {
	switch strings.TrimPrefix(strings.ToLower(format), ".") {
	case "jpg", "jpeg", "png", "webp":
		return true
	}
	return false
}

// FormatFromPath derives the output format from a file extension
func FormatFromPath(path string) string {
	return NormalizeFormat(filepath.Ext(path))
}

// CreateDebugOverlay draws the given pixel boxes over a copy of img, cycling
// through boxPalette. Boxes are clamped to the image.
func (p *Processor) CreateDebugOverlay(img image.Image, boxes []types.Box) image.Image {
	canvas := imaging.Clone(img)
	b := canvas.Bounds()

	stroke := max(2, int(0.004*float64(min(b.Dx(), b.Dy()))))
	for i, box := range boxes {
		strokeRect(canvas, boxToRect(box, b.Dx(), b.Dy()), stroke, boxPalette[i%len(boxPalette)])
	}
	return canvas
}

var boxPalette = []color.NRGBA{
	{0, 255, 0, 255},   // green
	{255, 204, 0, 255}, // gold
	{255, 0, 0, 255},   // red
	{0, 170, 255, 255}, // blue
}

// boxToRect rounds a box to whole pixels inside a w x h image; the result is never empty
func boxToRect(box types.Box, w, h int) image.Rectangle {
	r := image.Rect(
		int(math.Round(clamp(box.X, 0, float64(w)))),
		int(math.Round(clamp(box.Y, 0, float64(h)))),
		int(math.Round(clamp(box.Right(), 0, float64(w)))),
		int(math.Round(clamp(box.Bottom(), 0, float64(h)))),
	)
	if r.Dx() == 0 {
		r.Max.X = r.Min.X + 1
	}
	if r.Dy() == 0 {
		r.Max.Y = r.Min.Y + 1
	}
	return r
}

// strokeRect paints the inner border of r, width pixels thick
func strokeRect(dst *image.NRGBA, r image.Rectangle, width int, c color.NRGBA) {
	src := image.NewUniform(c)
	width = min(width, r.Dx(), r.Dy())
	edges := []image.Rectangle{
		image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+width),
		image.Rect(r.Min.X, r.Max.Y-width, r.Max.X, r.Max.Y),
		image.Rect(r.Min.X, r.Min.Y, r.Min.X+width, r.Max.Y),
		image.Rect(r.Max.X-width, r.Min.Y, r.Max.X, r.Max.Y),
	}
	for _, e := range edges {
		draw.Draw(dst, e.Intersect(dst.Bounds()), src, image.Point{}, draw.Src)
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
