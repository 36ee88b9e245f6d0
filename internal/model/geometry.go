package model

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Tolerance absorbs floating-point drift when comparing box boundaries.
// Every bounds and overlap check in the module goes through it.
const Tolerance = 1e-6

// ErrInvalidDimensions is returned when a width, height, or depth is not a
// strictly positive finite number.
var ErrInvalidDimensions = errors.New("dimensions must be positive")

// Dimensions is the extent of a cuboid along X (width), Y (height) and
// Z (depth). Y is the vertical axis.
type Dimensions struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Depth  float64 `json:"depth"`
}

// NewDimensions returns validated dimensions.
func NewDimensions(w, h, d float64) (Dimensions, error) {
	dims := Dimensions{Width: w, Height: h, Depth: d}
	if err := dims.Validate(); err != nil {
		return Dimensions{}, err
	}
	return dims, nil
}

// Validate reports a non-positive, NaN or infinite component.
func (d Dimensions) Validate() error {
	for _, c := range []struct {
		name  string
		value float64
	}{
		{"width", d.Width},
		{"height", d.Height},
		{"depth", d.Depth},
	} {
		if math.IsNaN(c.value) || math.IsInf(c.value, 0) || c.value <= 0 {
			return fmt.Errorf("%w: %s is %g", ErrInvalidDimensions, c.name, c.value)
		}
	}
	return nil
}

// Volume returns width * height * depth.
func (d Dimensions) Volume() float64 {
	return d.Width * d.Height * d.Depth
}

// Vec returns the dimensions as a vector.
func (d Dimensions) Vec() mgl64.Vec3 {
	return mgl64.Vec3{d.Width, d.Height, d.Depth}
}

// MaxSide returns the largest of the three components.
func (d Dimensions) MaxSide() float64 {
	return math.Max(d.Width, math.Max(d.Height, d.Depth))
}

func (d Dimensions) String() string {
	return fmt.Sprintf("%gx%gx%g", d.Width, d.Height, d.Depth)
}

// Position is the minimum corner of a part inside the container frame.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Vec returns the position as a vector.
func (p Position) Vec() mgl64.Vec3 {
	return mgl64.Vec3{p.X, p.Y, p.Z}
}

// Box is an axis-aligned bounding box. Min is inclusive, Max exclusive.
type Box struct {
	Min mgl64.Vec3 `json:"min"`
	Max mgl64.Vec3 `json:"max"`
}

// BoxAt returns the region occupied by a cuboid of size d whose minimum
// corner sits at p.
func BoxAt(p Position, d Dimensions) Box {
	min := p.Vec()
	return Box{Min: min, Max: min.Add(d.Vec())}
}

// Size returns the extent of the box on each axis.
func (b Box) Size() mgl64.Vec3 {
	return b.Max.Sub(b.Min)
}

// Volume returns the volume of the box.
func (b Box) Volume() float64 {
	s := b.Size()
	return s.X() * s.Y() * s.Z()
}

// Overlaps reports whether two boxes share a positive-volume intersection.
// Boxes that only touch on a face, edge or corner do not overlap.
func (b Box) Overlaps(other Box) bool {
	for axis := 0; axis < 3; axis++ {
		if b.Min[axis] >= other.Max[axis]-Tolerance || other.Min[axis] >= b.Max[axis]-Tolerance {
			return false
		}
	}
	return true
}

// Within reports whether b lies entirely inside outer.
func (b Box) Within(outer Box) bool {
	for axis := 0; axis < 3; axis++ {
		if b.Min[axis] < outer.Min[axis]-Tolerance || b.Max[axis] > outer.Max[axis]+Tolerance {
			return false
		}
	}
	return true
}
