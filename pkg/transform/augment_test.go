package transform

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/menta2k/image-synth/pkg/element"
)

func TestRotate_AngleWithinRange(t *testing.T) {
	r := NewRotate(testRand(1), -5, 5)
	for range 200 {
		a, err := r.Angle()
		require.NoError(t, err)
		assert.GreaterOrEqual(t, a, -5.0)
		assert.LessOrEqual(t, a, 5.0)
	}
}

func TestRotate_Fixed90SwapsSize(t *testing.T) {
	el := object(40, 20, "o")
	r := &Rotate{Mode: RotateFixed, Min: 90}

	out, err := r.Transform(el)
	require.NoError(t, err)
	w, h := out.Size()
	assert.Equal(t, 20, w)
	assert.Equal(t, 40, h)
}

func TestRotate_GrowsCanvasWithTransparentCorners(t *testing.T) {
	el := object(40, 40, "o")
	r := &Rotate{Mode: RotateFixed, Min: 45}

	out, err := r.Transform(el)
	require.NoError(t, err)
	w, h := out.Size()
	assert.Greater(t, w, 40)
	assert.Greater(t, h, 40)
	assert.Zero(t, out.Image.NRGBAAt(0, 0).A)
}

func TestRotate_ZeroKeepsImage(t *testing.T) {
	el := object(5, 5, "o")
	img := el.Image
	out, err := (&Rotate{Mode: RotateFixed}).Transform(el)
	require.NoError(t, err)
	assert.Same(t, img, out.Image)
}

func TestRotate_Errors(t *testing.T) {
	_, err := NewRotate(testRand(1), 5, 1).Angle()
	assert.Error(t, err)
	_, err = NewRotate(nil, 0, 1).Angle()
	assert.Error(t, err)
	_, err = (&Rotate{Mode: "spin"}).Angle()
	assert.Error(t, err)
}

func twoTone() *element.Element {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	img.SetNRGBA(0, 0, red)
	img.SetNRGBA(1, 0, blue)
	img.SetNRGBA(0, 1, white)
	img.SetNRGBA(1, 1, white)
	return element.NewChild(img, "two")
}

func TestFlip(t *testing.T) {
	tests := []struct {
		mode     FlipMode
		topLeft  color.NRGBA
		topRight color.NRGBA
	}{
		{FlipNone, red, blue},
		{FlipX, blue, red},
		{FlipY, white, white},
		{FlipXY, white, white},
	}

	for _, tt := range tests {
		t.Run(string(tt.mode), func(t *testing.T) {
			out, err := NewFlip(nil, tt.mode).Transform(twoTone())
			require.NoError(t, err)
			assert.Equal(t, tt.topLeft, out.Image.NRGBAAt(0, 0))
			assert.Equal(t, tt.topRight, out.Image.NRGBAAt(1, 0))
		})
	}

	t.Run("y moves top row down", func(t *testing.T) {
		out, err := NewFlip(nil, FlipY).Transform(twoTone())
		require.NoError(t, err)
		assert.Equal(t, red, out.Image.NRGBAAt(0, 1))
		assert.Equal(t, blue, out.Image.NRGBAAt(1, 1))
	})

	t.Run("xy", func(t *testing.T) {
		out, err := NewFlip(nil, FlipXY).Transform(twoTone())
		require.NoError(t, err)
		assert.Equal(t, blue, out.Image.NRGBAAt(0, 1))
		assert.Equal(t, red, out.Image.NRGBAAt(1, 1))
	})
}

func TestFlip_Random(t *testing.T) {
	f := NewFlip(testRand(3), FlipRandom)
	for range 20 {
		_, err := f.Transform(twoTone())
		require.NoError(t, err)
	}

	_, err := NewFlip(nil, FlipRandom).Transform(twoTone())
	assert.Error(t, err)
	_, err = NewFlip(nil, "z").Transform(twoTone())
	assert.Error(t, err)
}

func TestRandomResize_SymmetricW(t *testing.T) {
	r := NewRandomResize(testRand(5), ResizeSymmetricW, RelationParent, 0.1, 0.2, 0, 0)
	assert.Equal(t, 0.1, r.HMin)
	assert.Equal(t, 0.2, r.HMax)

	for range 20 {
		obj := object(100, 50, "o")
		background(t, 1000, 400, obj)

		out, err := r.Transform(obj)
		require.NoError(t, err)
		w, h := out.Size()
		assert.GreaterOrEqual(t, w, 100)
		assert.LessOrEqual(t, w, 200)
		assert.InDelta(t, float64(w)/2, float64(h), 1)
	}
}

func TestRandomResize_SymmetricH(t *testing.T) {
	r := NewRandomResize(testRand(6), ResizeSymmetricH, RelationParent, 0, 0, 0.5, 0.5)
	obj := object(40, 20, "o")
	background(t, 100, 100, obj)

	out, err := r.Transform(obj)
	require.NoError(t, err)
	w, h := out.Size()
	assert.Equal(t, 50, h)
	assert.Equal(t, 100, w)
}

func TestRandomResize_AsymmetricSelf(t *testing.T) {
	r := NewRandomResize(testRand(7), ResizeAsymmetric, RelationSelf, 2, 2, 0.5, 0.5)
	out, err := r.Transform(object(10, 10, "o"))
	require.NoError(t, err)
	w, h := out.Size()
	assert.Equal(t, 20, w)
	assert.Equal(t, 5, h)
}

func TestRandomResize_NeverBelowOnePixel(t *testing.T) {
	r := NewRandomResize(testRand(8), ResizeSymmetricW, RelationSelf, 0.001, 0.001, 0, 0)
	w, h, err := r.TargetSize(10, 10, 10, 10)
	require.NoError(t, err)
	assert.Equal(t, 1, w)
	assert.Equal(t, 1, h)
}

func TestRandomResize_Errors(t *testing.T) {
	r := NewRandomResize(testRand(9), ResizeSymmetricW, RelationParent, 0.1, 0.2, 0, 0)
	_, err := r.Transform(object(4, 4, "orphan"))
	assert.Error(t, err)

	bad := NewRandomResize(testRand(9), ResizeSymmetricW, RelationSelf, 0.5, 0.1, 0, 0)
	_, err = bad.Transform(object(4, 4, "o"))
	assert.Error(t, err)

	_, _, err = (&RandomResize{Mode: "warp", rng: testRand(1)}).TargetSize(1, 1, 1, 1)
	assert.Error(t, err)
}

func TestTrim(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 10, 10))
	for y := 3; y < 6; y++ {
		for x := 2; x < 8; x++ {
			img.SetNRGBA(x, y, red)
		}
	}
	assert.Equal(t, image.Rect(2, 3, 8, 6), OpaqueBounds(img, 0))

	out, err := (&Trim{}).Transform(element.NewChild(img, "t"))
	require.NoError(t, err)
	w, h := out.Size()
	assert.Equal(t, 6, w)
	assert.Equal(t, 3, h)
	assert.Equal(t, red, out.Image.NRGBAAt(0, 0))
}

func TestTrim_TransparentUntouched(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	assert.True(t, OpaqueBounds(img, 0).Empty())

	out, err := (&Trim{}).Transform(element.NewChild(img, "t"))
	require.NoError(t, err)
	assert.Same(t, img, out.Image)
}
