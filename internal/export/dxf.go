package export

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/yofu/dxf"
	"github.com/yofu/dxf/color"
	"github.com/yofu/dxf/drawing"

	"github.com/piwi3910/BoxStack/internal/model"
)

// DXF layer names, one per outcome plus the container outline.
const (
	LayerContainer = "CONTAINER"
	LayerPlaced    = "PLACED"
	LayerUnplaced  = "UNPLACED"
)

// unplacedGap separates unplaced parts lined up above the container.
const unplacedGap = 0.5

// ExportDXF writes a 3D wireframe of the container and every part. Unplaced
// parts are drawn on their own layer, lined up from the sentinel position.
func ExportDXF(path string, result model.PackResult) error {
	if len(result.Placements) == 0 {
		return ErrEmptyResult
	}

	d := dxf.NewDrawing()
	layers := []struct {
		name  string
		color color.ColorNumber
	}{
		{LayerContainer, color.White},
		{LayerPlaced, color.Green},
		{LayerUnplaced, color.Red},
	}
	for _, l := range layers {
		if _, err := d.AddLayer(l.name, l.color, dxf.DefaultLineType, false); err != nil {
			return fmt.Errorf("adding layer %s: %w", l.name, err)
		}
	}

	if err := d.ChangeLayer(LayerContainer); err != nil {
		return err
	}
	if err := drawWireframe(d, result.Container.Bounds()); err != nil {
		return fmt.Errorf("drawing container: %w", err)
	}

	positions := result.DisplayPositions(unplacedGap)
	for i, p := range result.Placements {
		layer := LayerPlaced
		if !p.Placed() {
			layer = LayerUnplaced
		}
		if err := d.ChangeLayer(layer); err != nil {
			return err
		}
		if err := drawWireframe(d, model.BoxAt(positions[i], p.Part.Dims)); err != nil {
			return fmt.Errorf("drawing part %s: %w", p.Part.ID, err)
		}
	}

	return d.SaveAs(path)
}

// boxEdges lists the 12 edges of a box as pairs of corner indices. Corner i
// takes Max on axis a when bit a of i is set.
var boxEdges = [12][2]int{
	{0, 1}, {2, 3}, {4, 5}, {6, 7}, // along X
	{0, 2}, {1, 3}, {4, 6}, {5, 7}, // along Y
	{0, 4}, {1, 5}, {2, 6}, {3, 7}, // along Z
}

func boxCorner(b model.Box, i int) mgl64.Vec3 {
	var v mgl64.Vec3
	for axis := 0; axis < 3; axis++ {
		if i&(1<<axis) != 0 {
			v[axis] = b.Max[axis]
		} else {
			v[axis] = b.Min[axis]
		}
	}
	return v
}

// drawWireframe adds the 12 edges of b to the current layer.
func drawWireframe(d *drawing.Drawing, b model.Box) error {
	for _, e := range boxEdges {
		p, q := boxCorner(b, e[0]), boxCorner(b, e[1])
		if _, err := d.Line(p.X(), p.Y(), p.Z(), q.X(), q.Y(), q.Z()); err != nil {
			return err
		}
	}
	return nil
}
