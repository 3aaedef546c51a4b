// Package labels writes bounding boxes in the YOLO text format:
//
//	class x_center y_center width height
//
// with the four trailing values normalized by the image dimensions.
package labels

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/menta2k/image-synth/pkg/types"
)

// DefaultClass is the class id written when nothing maps an object name
const DefaultClass = 0

// ErrOutsideImage is returned for a box that does not overlap the image at all
var ErrOutsideImage = errors.New("box lies outside the image")

// Label is one normalized YOLO box
type Label struct {
	Class   int
	XCenter float64
	YCenter float64
	Width   float64
	Height  float64
}

// String formats the label as a YOLO line without the trailing newline
func (l Label) String() string {
	return fmt.Sprintf("%d %.6f %.6f %.6f %.6f", l.Class, l.XCenter, l.YCenter, l.Width, l.Height)
}

// Box converts the label back into a pixel box for an imgW x imgH image
func (l Label) Box(imgW, imgH int) types.Box {
	fw, fh := float64(imgW), float64(imgH)
	return types.Box{
		X: (l.XCenter - l.Width/2) * fw,
		Y: (l.YCenter - l.Height/2) * fh,
		W: l.Width * fw,
		H: l.Height * fh,
	}
}

// FromBox normalizes a pixel box against an imgW x imgH image.
// A box sticking out past the bottom or right edge is clipped to that edge first.
func FromBox(class int, box types.Box, imgW, imgH int) (Label, error) {
	if imgW <= 0 || imgH <= 0 {
		return Label{}, fmt.Errorf("invalid image dimensions %dx%d", imgW, imgH)
	}
	fw, fh := float64(imgW), float64(imgH)

	x, y, w, h := box.X, box.Y, box.W, box.H
	if x >= fw || y >= fh || x+w <= 0 || y+h <= 0 {
		return Label{}, fmt.Errorf("%w: box at (%.1f,%.1f) on %dx%d image", ErrOutsideImage, x, y, imgW, imgH)
	}
	if h+y > fh {
		h = fh - y
	}
	if w+x > fw {
		w = fw - x
	}

	return Label{
		Class:   class,
		XCenter: (x + w/2) / fw,
		YCenter: (y + h/2) / fh,
		Width:   w / fw,
		Height:  h / fh,
	}, nil
}

// FromTags converts every tag of an image into a label
func FromTags(tags []types.Tag, imgW, imgH int, classes *ClassResolver) ([]Label, error) {
	out := make([]Label, 0, len(tags))
	for _, tag := range tags {
		l, err := FromBox(classes.Resolve(tag.Name), tag.Pos, imgW, imgH)
		if err != nil {
			return nil, fmt.Errorf("label for %q: %w", tag.Name, err)
		}
		out = append(out, l)
	}
	return out, nil
}

// PathFor returns the label file path sitting next to an image: same base name, .txt
func PathFor(imagePath string) string {
	return strings.TrimSuffix(imagePath, filepath.Ext(imagePath)) + ".txt"
}

// WriteFile writes one line per label to path, replacing any previous
// content. The file is created even when labels is empty so every generated
// image has a label file.
func WriteFile(path string, labels []Label) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open label file: %w", err)
	}

	w := bufio.NewWriter(f)
	for _, l := range labels {
		if _, err := fmt.Fprintln(w, l.String()); err != nil {
			f.Close()
			return fmt.Errorf("failed to write label: %w", err)
		}
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("failed to write label file: %w", err)
	}
	return f.Close()
}
