package transform

import (
	"fmt"
	"image"
	"math/rand/v2"

	"github.com/menta2k/image-synth/pkg/element"
	"github.com/menta2k/image-synth/pkg/types"
)

// PositionMode selects the unit of the placement range
type PositionMode string

const (
	// PositionPercentage reads the range as fractions of the background size
	PositionPercentage PositionMode = "percentage"
	// PositionPixel reads the range as pixels
	PositionPixel PositionMode = "pixel"
)

// DefaultMaxAttempts bounds the tries spent placing a single object
const DefaultMaxAttempts = 100

// ObjectsRandomPosition gives each object a random top-left corner inside the
// range while keeping pairwise overlap under a limit. Overlap is measured as
// the intersection area over the smaller box's area. An object that finds no
// spot within MaxAttempts is left unplaced and is neither drawn nor tagged.
type ObjectsRandomPosition struct {
	XMin, YMin  float64
	XMax, YMax  float64
	Mode        PositionMode
	Overlap     float64
	MaxAttempts int
	rng         *rand.Rand
}

// NewObjectsRandomPosition creates a placement stage in percentage mode
func NewObjectsRandomPosition(rng *rand.Rand, xMin, yMin, xMax, yMax, overlap float64) *ObjectsRandomPosition {
	return &ObjectsRandomPosition{
		XMin:        xMin,
		YMin:        yMin,
		XMax:        xMax,
		YMax:        yMax,
		Mode:        PositionPercentage,
		Overlap:     overlap,
		MaxAttempts: DefaultMaxAttempts,
		rng:         rng,
	}
}

// Transform implements Transformer
func (p *ObjectsRandomPosition) Transform(el *element.Element) (*element.Element, error) {
	if err := requireImage(el); err != nil {
		return nil, err
	}
	if p.rng == nil {
		return nil, fmt.Errorf("position: no random source")
	}
	x0, y0, x1, y1, err := p.pixelRange(el.Size())
	if err != nil {
		return nil, err
	}

	attempts := p.MaxAttempts
	if attempts <= 0 {
		attempts = DefaultMaxAttempts
	}

	var placed []types.Box
	for _, obj := range el.Objects {
		obj.Placed = false
		w, h := obj.Size()
		if w == 0 || h == 0 {
			continue
		}
		for range attempts {
			pt := image.Pt(p.draw(x0, x1), p.draw(y0, y1))
			cand := types.Box{X: float64(pt.X), Y: float64(pt.Y), W: float64(w), H: float64(h)}
			if !p.fits(cand, placed) {
				continue
			}
			obj.Position = pt
			obj.Placed = true
			placed = append(placed, cand)
			break
		}
	}
	return el, nil
}

func (p *ObjectsRandomPosition) String() string { return "objects-random-position" }

func (p *ObjectsRandomPosition) pixelRange(w, h int) (x0, y0, x1, y1 float64, err error) {
	x0, y0, x1, y1 = p.XMin, p.YMin, p.XMax, p.YMax
	switch p.Mode {
	case PositionPercentage, "":
		x0, x1 = x0*float64(w), x1*float64(w)
		y0, y1 = y0*float64(h), y1*float64(h)
	case PositionPixel:
	default:
		return 0, 0, 0, 0, fmt.Errorf("position: unknown mode %q", p.Mode)
	}
	if x1 < x0 || y1 < y0 {
		return 0, 0, 0, 0, fmt.Errorf("position: empty range (%.1f,%.1f)-(%.1f,%.1f)", x0, y0, x1, y1)
	}

	// corners must land on the canvas
	x1 = min(x1, float64(w-1))
	y1 = min(y1, float64(h-1))
	if x1 < x0 || y1 < y0 {
		return 0, 0, 0, 0, fmt.Errorf("position: range (%.1f,%.1f) starts outside the %dx%d background", x0, y0, w, h)
	}
	return x0, y0, x1, y1, nil
}

func (p *ObjectsRandomPosition) draw(lo, hi float64) int {
	return int(lo + p.rng.Float64()*(hi-lo))
}

func (p *ObjectsRandomPosition) fits(cand types.Box, placed []types.Box) bool {
	for _, other := range placed {
		smaller := min(cand.Area(), other.Area())
		if smaller == 0 {
			continue
		}
		if cand.Intersection(other)/smaller > p.Overlap {
			return false
		}
	}
	return true
}
