package export

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"math"
	"os"

	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/piwi3910/BoxStack/internal/model"
)

// boxFaces lists each face of a box as four corner indices (see boxCorner)
// wound counter-clockwise when seen from outside.
var boxFaces = [6][4]int{
	{0, 4, 6, 2}, // -X
	{1, 3, 7, 5}, // +X
	{0, 1, 5, 4}, // -Y
	{2, 6, 7, 3}, // +Y
	{0, 2, 3, 1}, // -Z
	{4, 5, 7, 6}, // +Z
}

// BoxTriangles returns the 12 outward-facing triangles of b.
func BoxTriangles(b model.Box) []sdf.Triangle3 {
	corner := func(i int) v3.Vec {
		c := boxCorner(b, i)
		return v3.Vec{X: c.X(), Y: c.Y(), Z: c.Z()}
	}
	tris := make([]sdf.Triangle3, 0, 12)
	for _, f := range boxFaces {
		a, bb, c, d := corner(f[0]), corner(f[1]), corner(f[2]), corner(f[3])
		tris = append(tris, sdf.Triangle3{a, bb, c}, sdf.Triangle3{a, c, d})
	}
	return tris
}

// ExportSTL writes a binary STL mesh of every part that fits inside the
// container. Coordinates keep the container frame with Y up.
func ExportSTL(path string, result model.PackResult) error {
	if len(result.Placements) == 0 {
		return ErrEmptyResult
	}

	var mesh []sdf.Triangle3
	for _, p := range result.Placements {
		if p.Fits(result.Container) {
			mesh = append(mesh, BoxTriangles(p.Box())...)
		}
	}
	if len(mesh) == 0 {
		return fmt.Errorf("no parts fit in container %q", result.Container.Label)
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(f)
	if err := writeBinarySTL(w, result.Container.Label, mesh); err != nil {
		f.Close()
		return err
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// writeBinarySTL emits the 80-byte header, the triangle count and one
// 50-byte record per triangle, all little-endian.
func writeBinarySTL(w *bufio.Writer, name string, mesh []sdf.Triangle3) error {
	var header [80]byte
	copy(header[:], "BoxStack "+name)
	if _, err := w.Write(header[:]); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(len(mesh))); err != nil {
		return err
	}

	var rec [50]byte
	put := func(off int, v float64) {
		binary.LittleEndian.PutUint32(rec[off:], math.Float32bits(float32(v)))
	}
	for _, tri := range mesh {
		n := tri.Normal()
		put(0, n.X)
		put(4, n.Y)
		put(8, n.Z)
		for j := 0; j < 3; j++ {
			put(12+j*12, tri[j].X)
			put(16+j*12, tri[j].Y)
			put(20+j*12, tri[j].Z)
		}
		if _, err := w.Write(rec[:]); err != nil {
			return err
		}
	}
	return nil
}
