package types

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
)

// Box represents an axis-aligned bounding box in pixel coordinates.
// X and Y are the top-left corner.
type Box struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// Right returns the x coordinate of the right edge
func (b Box) Right() float64 { return b.X + b.W }

// Bottom returns the y coordinate of the bottom edge
func (b Box) Bottom() float64 { return b.Y + b.H }

// Area returns the box area, zero for degenerate boxes
func (b Box) Area() float64 {
	if b.W <= 0 || b.H <= 0 {
		return 0
	}
	return b.W * b.H
}

// Intersection returns the area shared by b and o
func (b Box) Intersection(o Box) float64 {
	w := min(b.Right(), o.Right()) - max(b.X, o.X)
	h := min(b.Bottom(), o.Bottom()) - max(b.Y, o.Y)
	if w <= 0 || h <= 0 {
		return 0
	}
	return w * h
}

// Tag is the bounding-box record of one object drawn onto a composed image
type Tag struct {
	Name string `json:"name"`
	Pos  Box    `json:"pos"`
}

// Range is an inclusive integer range. A fixed value has Min == Max.
type Range struct {
	Min int
	Max int
}

// Fixed returns a range holding the single value n
func Fixed(n int) Range {
	return Range{Min: n, Max: n}
}

// ParseRange parses "3", "2-5" or "2:5"
func ParseRange(s string) (Range, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Range{}, fmt.Errorf("empty range")
	}

	sep := strings.IndexAny(s, "-:")
	if sep <= 0 {
		n, err := strconv.Atoi(s)
		if err != nil {
			return Range{}, fmt.Errorf("invalid range %q: %w", s, err)
		}
		return Fixed(n), nil
	}

	lo, err := strconv.Atoi(strings.TrimSpace(s[:sep]))
	if err != nil {
		return Range{}, fmt.Errorf("invalid range start %q: %w", s, err)
	}
	hi, err := strconv.Atoi(strings.TrimSpace(s[sep+1:]))
	if err != nil {
		return Range{}, fmt.Errorf("invalid range end %q: %w", s, err)
	}
	if hi < lo {
		return Range{}, fmt.Errorf("invalid range %q: end before start", s)
	}
	return Range{Min: lo, Max: hi}, nil
}

// IsFixed reports whether the range holds a single value
func (r Range) IsFixed() bool { return r.Min == r.Max }

// String formats the range the way ParseRange reads it
func (r Range) String() string {
	if r.IsFixed() {
		return strconv.Itoa(r.Min)
	}
	return fmt.Sprintf("%d-%d", r.Min, r.Max)
}

// MarshalText implements encoding.TextMarshaler so ranges read naturally in config files
func (r Range) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (r *Range) UnmarshalText(text []byte) error {
	parsed, err := ParseRange(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// UnmarshalJSON accepts both a bare number and the textual form
func (r *Range) UnmarshalJSON(data []byte) error {
	data = bytes.Trim(bytes.TrimSpace(data), `"`)
	return r.UnmarshalText(data)
}

// Set implements pflag.Value
func (r *Range) Set(s string) error {
	return r.UnmarshalText([]byte(s))
}

// Type implements pflag.Value
func (r *Range) Type() string { return "range" }
