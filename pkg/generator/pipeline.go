package generator

import (
	"github.com/menta2k/image-synth/pkg/transform"
)

// Pipeline builds the fixed stage sequence for one sample saved as name:
//
//	objects: rotate, [trim], flip, random resize
//	element: random position, draw, bounding boxes, save
func (g *Generator) Pipeline(name string) *transform.Pipeline {
	a := g.cfg.Augment
	p := g.cfg.Position
	out := g.cfg.Output

	objectStages := []transform.Transformer{
		transform.NewRotate(g.rng, a.RotateMin, a.RotateMax),
	}
	if a.Trim {
		objectStages = append(objectStages, &transform.Trim{})
	}
	objectStages = append(objectStages,
		transform.NewFlip(g.rng, transform.FlipMode(a.Flip)),
		transform.NewRandomResize(g.rng,
			transform.ResizeMode(a.ResizeMode), transform.Relation(a.ResizeRelation),
			a.WidthMin, a.WidthMax, a.HeightMin, a.HeightMax),
	)

	position := transform.NewObjectsRandomPosition(g.rng, p.XMin, p.YMin, p.XMax, p.YMax, p.Overlap)
	position.Mode = transform.PositionMode(p.Mode)
	position.MaxAttempts = p.MaxAttempts

	return transform.Compose(
		transform.NewApplyToObjects(objectStages...),
		position,
		transform.Draw{},
		transform.CreateBoundingBoxes{},
		transform.NewSaveImage(g.processor, out.Dir, name, out.Format, out.Quality, out.Lossless),
	)
}
