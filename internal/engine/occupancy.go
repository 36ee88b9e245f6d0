package engine

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/piwi3910/BoxStack/internal/model"
)

// Index records the regions claimed by placed parts during one packing run
// and answers overlap queries against them.
type Index interface {
	// Record adds a committed region.
	Record(b model.Box)
	// Overlaps reports whether b intersects any recorded region on a
	// positive volume.
	Overlaps(b model.Box) bool
	// Blocking returns the earliest recorded region that overlaps b.
	Blocking(b model.Box) (model.Box, bool)
	// Len returns the number of recorded regions.
	Len() int
}

// defaultGridCells is the size of the spatial hash table before rounding
// up to a power of two.
const defaultGridCells = 4096

// NewIndex returns an empty index of the requested kind. cellSize only
// applies to the grid index and must be positive there.
func NewIndex(kind model.IndexKind, cellSize float64) Index {
	if kind == model.IndexGrid && cellSize > 0 {
		return newGridIndex(cellSize, defaultGridCells)
	}
	return &listIndex{}
}

// listIndex is a flat slice scanned linearly.
type listIndex struct {
	boxes []model.Box
}

func (l *listIndex) Record(b model.Box) {
	l.boxes = append(l.boxes, b)
}

func (l *listIndex) Overlaps(b model.Box) bool {
	_, ok := l.Blocking(b)
	return ok
}

func (l *listIndex) Blocking(b model.Box) (model.Box, bool) {
	for _, o := range l.boxes {
		if o.Overlaps(b) {
			return o, true
		}
	}
	return model.Box{}, false
}

func (l *listIndex) Len() int {
	return len(l.boxes)
}

// cellKey addresses one cell of the uniform grid.
type cellKey struct {
	X, Y, Z int
}

// gridIndex buckets recorded regions into a hashed uniform grid. Queries
// only run the exact overlap test against regions sharing a cell with the
// query box. Hash collisions merely widen the candidate set.
type gridIndex struct {
	cellSize float64
	cells    [][]int
	cellMask int
	boxes    []model.Box
	// seen deduplicates candidates spanning several cells; stamp avoids
	// clearing it between queries.
	seen  []uint32
	stamp uint32
}

func newGridIndex(cellSize float64, numCells int) *gridIndex {
	numCells = nextPowerOfTwo(numCells)
	return &gridIndex{
		cellSize: cellSize,
		cells:    make([][]int, numCells),
		cellMask: numCells - 1,
	}
}

// nextPowerOfTwo rounds n up to the next power of two.
func nextPowerOfTwo(n int) int {
	if n <= 0 {
		return 1
	}
	n--
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	n++
	return n
}

func (g *gridIndex) Record(b model.Box) {
	idx := len(g.boxes)
	g.boxes = append(g.boxes, b)
	g.seen = append(g.seen, 0)

	minCell, maxCell := g.cellRange(b)
	for x := minCell.X; x <= maxCell.X; x++ {
		for y := minCell.Y; y <= maxCell.Y; y++ {
			for z := minCell.Z; z <= maxCell.Z; z++ {
				h := g.hashCell(cellKey{x, y, z})
				g.cells[h] = append(g.cells[h], idx)
			}
		}
	}
}

func (g *gridIndex) Overlaps(b model.Box) bool {
	_, ok := g.Blocking(b)
	return ok
}

// Blocking returns the overlapping region with the lowest record order so
// results match the list index exactly.
func (g *gridIndex) Blocking(b model.Box) (model.Box, bool) {
	g.stamp++
	if g.stamp == 0 {
		for i := range g.seen {
			g.seen[i] = 0
		}
		g.stamp = 1
	}

	best := -1
	minCell, maxCell := g.cellRange(b)
	for x := minCell.X; x <= maxCell.X; x++ {
		for y := minCell.Y; y <= maxCell.Y; y++ {
			for z := minCell.Z; z <= maxCell.Z; z++ {
				for _, idx := range g.cells[g.hashCell(cellKey{x, y, z})] {
					if g.seen[idx] == g.stamp {
						continue
					}
					g.seen[idx] = g.stamp
					if (best < 0 || idx < best) && g.boxes[idx].Overlaps(b) {
						best = idx
					}
				}
			}
		}
	}
	if best < 0 {
		return model.Box{}, false
	}
	return g.boxes[best], true
}

func (g *gridIndex) Len() int {
	return len(g.boxes)
}

// cellRange returns the inclusive range of cells touched by b. The maximum
// corner is pulled in by the tolerance so a box ending exactly on a cell
// boundary does not claim the next cell.
func (g *gridIndex) cellRange(b model.Box) (cellKey, cellKey) {
	minCell := g.worldToCell(b.Min)
	maxCell := g.worldToCell(b.Max.Sub(mgl64.Vec3{model.Tolerance, model.Tolerance, model.Tolerance}))
	if maxCell.X < minCell.X {
		maxCell.X = minCell.X
	}
	if maxCell.Y < minCell.Y {
		maxCell.Y = minCell.Y
	}
	if maxCell.Z < minCell.Z {
		maxCell.Z = minCell.Z
	}
	return minCell, maxCell
}

func (g *gridIndex) worldToCell(pos mgl64.Vec3) cellKey {
	return cellKey{
		X: int(math.Floor(pos.X() / g.cellSize)),
		Y: int(math.Floor(pos.Y() / g.cellSize)),
		Z: int(math.Floor(pos.Z() / g.cellSize)),
	}
}

func (g *gridIndex) hashCell(key cellKey) int {
	h := (key.X * 73856093) ^ (key.Y * 19349663) ^ (key.Z * 83492791)
	return h & g.cellMask
}
