// Package preview lays generated samples out on a captioned contact sheet:
// one row per background, the original first and its samples after it.
package preview

import (
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Default grid geometry: five backgrounds, each with its original and five samples
const (
	DefaultRows       = 5
	DefaultCols       = 6
	DefaultCellWidth  = 240
	DefaultCellHeight = 180
)

const (
	captionHeight = 18
	padding       = 6
)

var (
	backgroundColor = color.NRGBA{255, 255, 255, 255}
	captionColor    = color.NRGBA{34, 34, 34, 255}
)

type cell struct {
	img     image.Image
	caption string
}

// Sheet is a fixed-size grid of captioned thumbnails
type Sheet struct {
	rows, cols   int
	cellW, cellH int
	cells        [][]cell
}

// NewSheet creates an empty sheet; non-positive sizes fall back to the defaults
func NewSheet(rows, cols, cellW, cellH int) *Sheet {
	if rows <= 0 {
		rows = DefaultRows
	}
	if cols <= 0 {
		cols = DefaultCols
	}
	if cellW <= 0 {
		cellW = DefaultCellWidth
	}
	if cellH <= captionHeight {
		cellH = DefaultCellHeight
	}
	return &Sheet{rows: rows, cols: cols, cellW: cellW, cellH: cellH}
}

// StartRow opens a new row with img as its first cell.
// It returns false when every row is already taken.
func (s *Sheet) StartRow(img image.Image, caption string) bool {
	if len(s.cells) >= s.rows {
		return false
	}
	s.cells = append(s.cells, []cell{{img: img, caption: caption}})
	return true
}

// Append adds img to the current row. It returns false when there is no open
// row or the row is full.
func (s *Sheet) Append(img image.Image, caption string) bool {
	if len(s.cells) == 0 {
		return false
	}
	last := len(s.cells) - 1
	if len(s.cells[last]) >= s.cols {
		return false
	}
	s.cells[last] = append(s.cells[last], cell{img: img, caption: caption})
	return true
}

// RowOpen reports whether the current row still has room
func (s *Sheet) RowOpen() bool {
	return len(s.cells) > 0 && len(s.cells[len(s.cells)-1]) < s.cols
}

// Full reports whether no further row can be started
func (s *Sheet) Full() bool { return len(s.cells) >= s.rows }

// Empty reports whether nothing was added yet
func (s *Sheet) Empty() bool { return len(s.cells) == 0 }

// Count returns the number of thumbnails on the sheet
func (s *Sheet) Count() int {
	n := 0
	for _, row := range s.cells {
		n += len(row)
	}
	return n
}

// Size returns the pixel size of the rendered sheet
func (s *Sheet) Size() (int, int) {
	rows := max(1, len(s.cells))
	return s.cols*(s.cellW+padding) + padding, rows*(s.cellH+padding) + padding
}

// Render draws the sheet
func (s *Sheet) Render() *image.NRGBA {
	w, h := s.Size()
	canvas := imaging.New(w, h, backgroundColor)

	for r, row := range s.cells {
		for c, cl := range row {
			x := padding + c*(s.cellW+padding)
			y := padding + r*(s.cellH+padding)
			canvas = s.drawCell(canvas, cl, x, y)
		}
	}
	return canvas
}

// Save renders the sheet and writes it to path; the format follows the extension
func (s *Sheet) Save(path string) error {
	if err := imaging.Save(s.Render(), path); err != nil {
		return fmt.Errorf("failed to save preview: %w", err)
	}
	return nil
}

func (s *Sheet) drawCell(canvas *image.NRGBA, cl cell, x, y int) *image.NRGBA {
	if cl.img != nil {
		thumb := imaging.Fit(cl.img, s.cellW, s.cellH-captionHeight, imaging.Lanczos)
		tb := thumb.Bounds()
		offX := x + (s.cellW-tb.Dx())/2
		offY := y + (s.cellH-captionHeight-tb.Dy())/2
		canvas = imaging.Paste(canvas, thumb, image.Pt(offX, offY))
	}
	drawCaption(canvas, cl.caption, x, y+s.cellH-captionHeight, s.cellW)
	return canvas
}

func drawCaption(dst *image.NRGBA, text string, x, y, width int) {
	if text == "" {
		return
	}
	face := basicfont.Face7x13
	textW := font.MeasureString(face, text).Ceil()
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(captionColor),
		Face: face,
		Dot:  fixed.P(x+max(0, (width-textW)/2), y+face.Ascent+2),
	}
	d.DrawString(text)
}
