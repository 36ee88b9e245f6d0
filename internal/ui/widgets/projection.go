package widgets

import (
	"fmt"
	"image/color"
	"math"
	"sort"

	"github.com/piwi3910/BoxStack/internal/model"
)

// View selects which pair of container axes a projection shows.
type View int

const (
	FrontView View = iota // X across, Y up, looking along -Z
	TopView               // X across, Z down the page, looking along -Y
)

func (v View) String() string {
	switch v {
	case FrontView:
		return "Front (X / Y)"
	case TopView:
		return "Top (X / Z)"
	default:
		return fmt.Sprintf("View(%d)", int(v))
	}
}

// unplacedGap separates unplaced parts lined up above the container.
const unplacedGap = 0.5

// Part colors used when a part's hex color does not parse.
var partColors = []color.NRGBA{
	{R: 76, G: 175, B: 80, A: 200},  // green
	{R: 33, G: 150, B: 243, A: 200}, // blue
	{R: 255, G: 152, B: 0, A: 200},  // orange
	{R: 156, G: 39, B: 176, A: 200}, // purple
	{R: 0, G: 188, B: 212, A: 200},  // cyan
	{R: 244, G: 67, B: 54, A: 200},  // red
	{R: 255, G: 235, B: 59, A: 200}, // yellow
	{R: 121, G: 85, B: 72, A: 200},  // brown
}

// Rect is an axis-aligned rectangle in projection space: container units,
// origin top-left, Y growing down the page.
type Rect struct {
	X, Y, W, H float64
}

// ProjectedPart is one placement drawn in a projection.
type ProjectedPart struct {
	Placement int // index into PackResult.Placements
	Rect      Rect
	Fill      color.NRGBA
	Label     string
	Unplaced  bool
}

// Projection is a flattened view of a packing result.
type Projection struct {
	Width, Height float64
	Container     Rect
	Parts         []ProjectedPart // back to front
}

// Project flattens result onto the plane of v. The front view also shows
// unplaced parts lined up above the container; the top view shows only
// parts inside it, since unplaced parts would cover the layout.
func Project(result model.PackResult, v View) Projection {
	dims := result.Container.Dims
	positions := result.DisplayPositions(unplacedGap)

	type item struct {
		index int
		box   model.Box
	}
	var items []item
	maxX, maxY := dims.Width, dims.Height
	for i, p := range result.Placements {
		fits := p.Fits(result.Container)
		if v == TopView && !fits {
			continue
		}
		b := model.BoxAt(positions[i], p.Part.Dims)
		items = append(items, item{index: i, box: b})
		maxX = math.Max(maxX, b.Max.X())
		maxY = math.Max(maxY, b.Max.Y())
	}

	proj := Projection{}
	switch v {
	case TopView:
		proj.Width, proj.Height = dims.Width, dims.Depth
		proj.Container = Rect{W: dims.Width, H: dims.Depth}
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].box.Min.Y() < items[j].box.Min.Y()
		})
	default:
		proj.Width, proj.Height = maxX, maxY
		proj.Container = Rect{Y: maxY - dims.Height, W: dims.Width, H: dims.Height}
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].box.Min.Z() > items[j].box.Min.Z()
		})
	}

	for _, it := range items {
		p := result.Placements[it.index]
		b := it.box
		var r Rect
		if v == TopView {
			r = Rect{X: b.Min.X(), Y: b.Min.Z(), W: b.Max.X() - b.Min.X(), H: b.Max.Z() - b.Min.Z()}
		} else {
			r = Rect{X: b.Min.X(), Y: maxY - b.Max.Y(), W: b.Max.X() - b.Min.X(), H: b.Max.Y() - b.Min.Y()}
		}
		proj.Parts = append(proj.Parts, ProjectedPart{
			Placement: it.index,
			Rect:      r,
			Fill:      fillFor(p.Part, it.index),
			Label:     p.Part.Label,
			Unplaced:  !p.Placed(),
		})
	}
	return proj
}

func fillFor(p model.Part, i int) color.NRGBA {
	r, g, b, err := model.ParseHexColor(p.Color)
	if err != nil {
		return partColors[i%len(partColors)]
	}
	return color.NRGBA{R: r, G: g, B: b, A: 200}
}
