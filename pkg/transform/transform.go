// Package transform implements the composition stages a synthetic sample goes
// through: per-object augmentation (rotate, flip, resize, trim), random
// placement with an overlap limit, drawing, bounding-box tagging and saving.
//
// Stages share the Transformer interface and are chained with Compose. Stages
// that draw random numbers take a *rand.Rand so a run is reproducible from
// its seed.
package transform

import (
	"errors"
	"fmt"

	"github.com/menta2k/image-synth/pkg/element"
)

var (
	// ErrNilElement is returned when a stage receives no element
	ErrNilElement = errors.New("nil element")
	// ErrEmptyImage is returned when an element has no pixels to work on
	ErrEmptyImage = errors.New("element has no image")
)

// Transformer is a single pipeline stage
type Transformer interface {
	Transform(el *element.Element) (*element.Element, error)
}

// Func adapts a plain function into a Transformer
type Func func(el *element.Element) (*element.Element, error)

// Transform calls f
func (f Func) Transform(el *element.Element) (*element.Element, error) {
	return f(el)
}

// Pipeline runs its stages in order and stops at the first failure
type Pipeline struct {
	stages []Transformer
}

// Compose builds a pipeline from stages
func Compose(stages ...Transformer) *Pipeline {
	return &Pipeline{stages: stages}
}

// Transform runs every stage on el
func (p *Pipeline) Transform(el *element.Element) (*element.Element, error) {
	if el == nil {
		return nil, ErrNilElement
	}
	for i, stage := range p.stages {
		out, err := stage.Transform(el)
		if err != nil {
			return nil, fmt.Errorf("stage %d (%s): %w", i, stageName(stage), err)
		}
		el = out
	}
	return el, nil
}

// Len returns the number of stages
func (p *Pipeline) Len() int { return len(p.stages) }

// ApplyToObjects runs the stages on every child of the element it receives
type ApplyToObjects struct {
	pipeline *Pipeline
}

// NewApplyToObjects wraps stages so they act on an element's objects
func NewApplyToObjects(stages ...Transformer) *ApplyToObjects {
	return &ApplyToObjects{pipeline: Compose(stages...)}
}

// Transform implements Transformer
func (a *ApplyToObjects) Transform(el *element.Element) (*element.Element, error) {
	if el == nil {
		return nil, ErrNilElement
	}
	for i, obj := range el.Objects {
		out, err := a.pipeline.Transform(obj)
		if err != nil {
			return nil, fmt.Errorf("object %d (%s): %w", i, obj.Name, err)
		}
		out.Parent = el
		el.Objects[i] = out
	}
	return el, nil
}

func (a *ApplyToObjects) String() string { return "apply-to-objects" }

func stageName(t Transformer) string {
	if s, ok := t.(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprintf("%T", t)
}

func requireImage(el *element.Element) error {
	if el == nil {
		return ErrNilElement
	}
	if w, h := el.Size(); w == 0 || h == 0 {
		return ErrEmptyImage
	}
	return nil
}
