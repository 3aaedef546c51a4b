package transform

import (
	"fmt"
	"path/filepath"

	"github.com/menta2k/image-synth/pkg/element"
	"github.com/menta2k/image-synth/pkg/processing"
)

// SaveImage writes the rendered element to Dir/Name.<format>
type SaveImage struct {
	Dir      string
	Name     string
	Format   string
	Quality  int
	Lossless bool

	processor *processing.Processor
}

// NewSaveImage creates a save stage
func NewSaveImage(p *processing.Processor, dir, name, format string, quality int, lossless bool) *SaveImage {
	if p == nil {
		p = processing.NewProcessor()
	}
	return &SaveImage{
		Dir:       dir,
		Name:      name,
		Format:    processing.NormalizeFormat(format),
		Quality:   quality,
		Lossless:  lossless,
		processor: p,
	}
}

// Path returns the file the stage writes to
func (s *SaveImage) Path() string {
	return filepath.Join(s.Dir, s.Name+"."+s.Format)
}

// Transform implements Transformer
func (s *SaveImage) Transform(el *element.Element) (*element.Element, error) {
	if err := requireImage(el); err != nil {
		return nil, err
	}
	path := s.Path()
	if err := s.processor.SaveImage(el.Rendered(), path, s.Format, s.Quality, s.Lossless); err != nil {
		return nil, fmt.Errorf("failed to save %s: %w", path, err)
	}
	el.SavedPath = path
	return el, nil
}

func (s *SaveImage) String() string { return "save-image" }
