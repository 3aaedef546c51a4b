package processing

import (
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/menta2k/image-synth/pkg/types"
)

func testImage(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x * 10), G: uint8(y * 10), B: 128, A: 255})
		}
	}
	return img
}

func TestNormalizeFormat(t *testing.T) {
	tests := map[string]string{
		"png":  FormatPNG,
		".PNG": FormatPNG,
		"webp": FormatWebP,
		"jpg":  FormatJPEG,
		"jpeg": FormatJPEG,
		"bmp":  FormatJPEG,
		"":     FormatJPEG,
	}
	for in, want := range tests {
		assert.Equal(t, want, NormalizeFormat(in), in)
	}

	assert.True(t, IsSupportedFormat("JPEG"))
	assert.True(t, IsSupportedFormat(".webp"))
	assert.False(t, IsSupportedFormat("gif"))
	assert.Equal(t, FormatPNG, FormatFromPath("a/b/c.png"))
}

func TestSaveLoadRoundTrip(t *testing.T) {
	p := NewProcessor()
	dir := t.TempDir()
	src := testImage(16, 12)

	for _, format := range []string{FormatPNG, FormatJPEG, FormatWebP} {
		t.Run(format, func(t *testing.T) {
			path := filepath.Join(dir, "img."+format)
			require.NoError(t, p.SaveImage(src, path, format, 90, format == FormatWebP))

			img, err := p.LoadImage(path)
			require.NoError(t, err)
			assert.Equal(t, src.Bounds(), img.Bounds())
		})
	}

	t.Run("png is lossless", func(t *testing.T) {
		img, err := p.LoadImage(filepath.Join(dir, "img.png"))
		require.NoError(t, err)
		assert.Equal(t, src.Pix, img.Pix)
	})
}

func TestLoadImage_Errors(t *testing.T) {
	p := NewProcessor()
	dir := t.TempDir()

	_, err := p.LoadImage(filepath.Join(dir, "missing.png"))
	assert.Error(t, err)

	bad := filepath.Join(dir, "bad.jpg")
	require.NoError(t, os.WriteFile(bad, []byte("not an image"), 0o644))
	_, err = p.LoadImage(bad)
	assert.Error(t, err)
}

func TestCreateDebugOverlay(t *testing.T) {
	p := NewProcessor()
	src := image.NewNRGBA(image.Rect(0, 0, 100, 100))

	out := p.CreateDebugOverlay(src, []types.Box{
		{X: 10, Y: 10, W: 30, H: 30},
		{X: 80, Y: 80, W: 50, H: 50},
	})
	nrgba, ok := out.(*image.NRGBA)
	require.True(t, ok)

	assert.Equal(t, boxPalette[0], nrgba.NRGBAAt(10, 10))
	assert.Equal(t, boxPalette[0], nrgba.NRGBAAt(39, 20))
	assert.Equal(t, color.NRGBA{}, nrgba.NRGBAAt(25, 25), "box interior stays untouched")
	assert.Equal(t, boxPalette[1], nrgba.NRGBAAt(99, 90), "box past the edge is clamped")
	assert.Equal(t, color.NRGBA{}, src.NRGBAAt(10, 10), "source is not modified")
}

func TestImageCache(t *testing.T) {
	p := NewProcessor()
	dir := t.TempDir()
	path := filepath.Join(dir, "a.png")
	require.NoError(t, p.SaveImage(testImage(4, 4), path, FormatPNG, 0, false))

	c := NewImageCache(nil)
	first, err := c.Load(path)
	require.NoError(t, err)
	second, err := c.Load(path)
	require.NoError(t, err)
	assert.Same(t, first, second)
	assert.Equal(t, 1, c.Len())

	c.Evict(path)
	assert.Zero(t, c.Len())

	_, err = c.Load(filepath.Join(dir, "missing.png"))
	assert.Error(t, err)
	assert.Zero(t, c.Len())

	_, err = c.Load(path)
	require.NoError(t, err)
	c.Clear()
	assert.Zero(t, c.Len())
}
