// Package element defines the unit of composition: a background image with the
// object images placed onto it, plus everything derived from rendering it.
package element

import (
	"image"

	"github.com/disintegration/imaging"

	"github.com/menta2k/image-synth/pkg/types"
)

// Element is either a background (with Objects) or an object child (with Name and Position)
type Element struct {
	Image   *image.NRGBA
	Name    string
	Objects []*Element
	Parent  *Element

	// Position is the top-left corner of a child on its parent. Only meaningful when Placed.
	Position image.Point
	Placed   bool

	// Created holds the composite once the element has been drawn
	Created *image.NRGBA
	Tags    []types.Tag

	// SavedPath is set once the created image has been written to disk
	SavedPath string
}

// New creates a background element holding objects
func New(img image.Image, objects ...*Element) *Element {
	el := &Element{
		Image:   toNRGBA(img),
		Objects: objects,
	}
	for _, obj := range objects {
		obj.Parent = el
	}
	return el
}

// NewChild creates a named object element
func NewChild(img image.Image, name string) *Element {
	return &Element{
		Image: toNRGBA(img),
		Name:  name,
	}
}

// Size returns the width and height of the element image
func (e *Element) Size() (int, int) {
	if e.Image == nil {
		return 0, 0
	}
	b := e.Image.Bounds()
	return b.Dx(), b.Dy()
}

// Bounds returns the box the element occupies on its parent
func (e *Element) Bounds() types.Box {
	w, h := e.Size()
	return types.Box{
		X: float64(e.Position.X),
		Y: float64(e.Position.Y),
		W: float64(w),
		H: float64(h),
	}
}

// PlacedObjects returns the children that received a position
func (e *Element) PlacedObjects() []*Element {
	var placed []*Element
	for _, obj := range e.Objects {
		if obj.Placed {
			placed = append(placed, obj)
		}
	}
	return placed
}

// Rendered returns the composite if drawn, the plain image otherwise
func (e *Element) Rendered() *image.NRGBA {
	if e.Created != nil {
		return e.Created
	}
	return e.Image
}

func toNRGBA(img image.Image) *image.NRGBA {
	if img == nil {
		return nil
	}
	if n, ok := img.(*image.NRGBA); ok && n.Bounds().Min == (image.Point{}) {
		return n
	}
	return imaging.Clone(img)
}
