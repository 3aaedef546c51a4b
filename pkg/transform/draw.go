package transform

import (
	"github.com/disintegration/imaging"

	"github.com/menta2k/image-synth/pkg/element"
	"github.com/menta2k/image-synth/pkg/types"
)

// Draw composites every placed object over a copy of the background.
// Objects are drawn in order, alpha blended and clipped at the canvas edge.
type Draw struct{}

// Transform implements Transformer
func (Draw) Transform(el *element.Element) (*element.Element, error) {
	if err := requireImage(el); err != nil {
		return nil, err
	}
	canvas := imaging.Clone(el.Image)
	for _, obj := range el.PlacedObjects() {
		canvas = imaging.Overlay(canvas, obj.Image, obj.Position, 1.0)
	}
	el.Created = canvas
	return el, nil
}

func (Draw) String() string { return "draw" }

// CreateBoundingBoxes tags every placed object with the box it occupies.
// Boxes are not clipped here; the label writer clips them to the image.
type CreateBoundingBoxes struct{}

// Transform implements Transformer
func (CreateBoundingBoxes) Transform(el *element.Element) (*element.Element, error) {
	if el == nil {
		return nil, ErrNilElement
	}
	placed := el.PlacedObjects()
	el.Tags = make([]types.Tag, 0, len(placed))
	for _, obj := range placed {
		el.Tags = append(el.Tags, types.Tag{Name: obj.Name, Pos: obj.Bounds()})
	}
	return el, nil
}

func (CreateBoundingBoxes) String() string { return "create-bounding-boxes" }
