package transform

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"math/rand/v2"

	"github.com/disintegration/imaging"

	"github.com/menta2k/image-synth/pkg/element"
)

// RotateMode selects how the rotation angle is chosen
type RotateMode string

const (
	// RotateRandom draws an angle uniformly from [Min, Max]
	RotateRandom RotateMode = "random"
	// RotateFixed always rotates by Min
	RotateFixed RotateMode = "fixed"
)

// Rotate turns an image counter-clockwise by an angle in degrees.
// The canvas grows to fit and the new corners are transparent.
type Rotate struct {
	Mode RotateMode
	Min  float64
	Max  float64
	rng  *rand.Rand
}

// NewRotate creates a random rotation between minDeg and maxDeg
func NewRotate(rng *rand.Rand, minDeg, maxDeg float64) *Rotate {
	return &Rotate{Mode: RotateRandom, Min: minDeg, Max: maxDeg, rng: rng}
}

// Angle returns the next rotation angle
func (r *Rotate) Angle() (float64, error) {
	switch r.Mode {
	case RotateFixed:
		return r.Min, nil
	case RotateRandom, "":
		if r.Max < r.Min {
			return 0, fmt.Errorf("rotate: max %.2f below min %.2f", r.Max, r.Min)
		}
		if r.rng == nil {
			return 0, fmt.Errorf("rotate: no random source")
		}
		return r.Min + r.rng.Float64()*(r.Max-r.Min), nil
	default:
		return 0, fmt.Errorf("rotate: unknown mode %q", r.Mode)
	}
}

// Transform implements Transformer
func (r *Rotate) Transform(el *element.Element) (*element.Element, error) {
	if err := requireImage(el); err != nil {
		return nil, err
	}
	angle, err := r.Angle()
	if err != nil {
		return nil, err
	}
	if math.Mod(angle, 360) == 0 {
		return el, nil
	}
	el.Image = imaging.Rotate(el.Image, angle, color.Transparent)
	return el, nil
}

func (r *Rotate) String() string { return "rotate" }

// FlipMode selects the mirror axis
type FlipMode string

const (
	FlipNone FlipMode = "none"
	// FlipX mirrors left-right
	FlipX FlipMode = "x"
	// FlipY mirrors top-bottom
	FlipY FlipMode = "y"
	// FlipXY mirrors both ways
	FlipXY FlipMode = "xy"
	// FlipRandom picks one of none, x, y or xy per element
	FlipRandom FlipMode = "random"
)

var flipChoices = []FlipMode{FlipNone, FlipX, FlipY, FlipXY}

// Flip mirrors an image
type Flip struct {
	Mode FlipMode
	rng  *rand.Rand
}

// NewFlip creates a flip stage. rng is only consulted in FlipRandom mode.
func NewFlip(rng *rand.Rand, mode FlipMode) *Flip {
	return &Flip{Mode: mode, rng: rng}
}

// Transform implements Transformer
func (f *Flip) Transform(el *element.Element) (*element.Element, error) {
	if err := requireImage(el); err != nil {
		return nil, err
	}

	mode := f.Mode
	if mode == FlipRandom {
		if f.rng == nil {
			return nil, fmt.Errorf("flip: no random source")
		}
		mode = flipChoices[f.rng.IntN(len(flipChoices))]
	}

	switch mode {
	case FlipNone, "":
	case FlipX:
		el.Image = imaging.FlipH(el.Image)
	case FlipY:
		el.Image = imaging.FlipV(el.Image)
	case FlipXY:
		el.Image = imaging.FlipV(imaging.FlipH(el.Image))
	default:
		return nil, fmt.Errorf("flip: unknown mode %q", f.Mode)
	}
	return el, nil
}

func (f *Flip) String() string { return "flip" }

// ResizeMode selects which dimensions are drawn at random
type ResizeMode string

const (
	// ResizeSymmetricW draws the width and keeps the aspect ratio
	ResizeSymmetricW ResizeMode = "symmetric_w"
	// ResizeSymmetricH draws the height and keeps the aspect ratio
	ResizeSymmetricH ResizeMode = "symmetric_h"
	// ResizeAsymmetric draws width and height independently
	ResizeAsymmetric ResizeMode = "asymmetric"
)

// Relation selects what the resize percentages are relative to
type Relation string

const (
	RelationParent Relation = "parent"
	RelationSelf   Relation = "self"
)

// RandomResize scales an object to a random fraction of its parent (or itself)
type RandomResize struct {
	Mode     ResizeMode
	Relation Relation
	WMin     float64
	WMax     float64
	HMin     float64
	HMax     float64
	rng      *rand.Rand
}

// NewRandomResize creates a resize stage; unset height bounds follow the width bounds
func NewRandomResize(rng *rand.Rand, mode ResizeMode, relation Relation, wMin, wMax, hMin, hMax float64) *RandomResize {
	if hMin == 0 && hMax == 0 {
		hMin, hMax = wMin, wMax
	}
	return &RandomResize{
		Mode:     mode,
		Relation: relation,
		WMin:     wMin,
		WMax:     wMax,
		HMin:     hMin,
		HMax:     hMax,
		rng:      rng,
	}
}

// TargetSize computes the new size for an objW x objH image with the given reference size
func (r *RandomResize) TargetSize(objW, objH, refW, refH int) (int, int, error) {
	if r.rng == nil {
		return 0, 0, fmt.Errorf("resize: no random source")
	}
	if r.WMax < r.WMin || r.HMax < r.HMin {
		return 0, 0, fmt.Errorf("resize: max percentage below min")
	}
	aspect := float64(objH) / float64(objW)

	var w, h float64
	switch r.Mode {
	case ResizeSymmetricW, "":
		w = r.draw(r.WMin, r.WMax) * float64(refW)
		h = w * aspect
	case ResizeSymmetricH:
		h = r.draw(r.HMin, r.HMax) * float64(refH)
		w = h / aspect
	case ResizeAsymmetric:
		w = r.draw(r.WMin, r.WMax) * float64(refW)
		h = r.draw(r.HMin, r.HMax) * float64(refH)
	default:
		return 0, 0, fmt.Errorf("resize: unknown mode %q", r.Mode)
	}

	return max(1, int(math.Round(w))), max(1, int(math.Round(h))), nil
}

func (r *RandomResize) draw(lo, hi float64) float64 {
	return lo + r.rng.Float64()*(hi-lo)
}

// Transform implements Transformer
func (r *RandomResize) Transform(el *element.Element) (*element.Element, error) {
	if err := requireImage(el); err != nil {
		return nil, err
	}
	objW, objH := el.Size()

	var refW, refH int
	switch r.Relation {
	case RelationParent, "":
		if el.Parent == nil {
			return nil, fmt.Errorf("resize: %q has no parent", el.Name)
		}
		refW, refH = el.Parent.Size()
	case RelationSelf:
		refW, refH = objW, objH
	default:
		return nil, fmt.Errorf("resize: unknown relation %q", r.Relation)
	}
	if refW == 0 || refH == 0 {
		return nil, ErrEmptyImage
	}

	w, h, err := r.TargetSize(objW, objH, refW, refH)
	if err != nil {
		return nil, err
	}
	if w != objW || h != objH {
		el.Image = imaging.Resize(el.Image, w, h, imaging.Lanczos)
	}
	return el, nil
}

func (r *RandomResize) String() string { return "random-resize" }

// Trim crops an object down to its non-transparent pixels so the bounding box
// hugs what is actually drawn. Fully transparent images are left untouched.
type Trim struct {
	// AlphaThreshold is the highest alpha still treated as transparent
	AlphaThreshold uint8
}

// Transform implements Transformer
func (t *Trim) Transform(el *element.Element) (*element.Element, error) {
	if err := requireImage(el); err != nil {
		return nil, err
	}
	rect := OpaqueBounds(el.Image, t.AlphaThreshold)
	if rect.Empty() || rect == el.Image.Bounds() {
		return el, nil
	}
	el.Image = imaging.Crop(el.Image, rect)
	return el, nil
}

func (t *Trim) String() string { return "trim" }

// OpaqueBounds returns the smallest rectangle holding every pixel with alpha above threshold
func OpaqueBounds(img *image.NRGBA, threshold uint8) image.Rectangle {
	b := img.Bounds()
	minX, minY := b.Max.X, b.Max.Y
	maxX, maxY := b.Min.X-1, b.Min.Y-1

	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := img.Pix[(y-b.Min.Y)*img.Stride:]
		for x := b.Min.X; x < b.Max.X; x++ {
			if row[(x-b.Min.X)*4+3] <= threshold {
				continue
			}
			minX = min(minX, x)
			maxX = max(maxX, x)
			minY = min(minY, y)
			maxY = max(maxY, y)
		}
	}
	if maxX < minX {
		return image.Rectangle{}
	}
	return image.Rect(minX, minY, maxX+1, maxY+1)
}
