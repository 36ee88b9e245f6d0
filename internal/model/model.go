package model

import (
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
)

// Palette cycles through these colors for newly created parts.
var Palette = []string{
	"#3b82f6", // blue
	"#ef4444", // red
	"#10b981", // green
	"#f59e0b", // amber
	"#8b5cf6", // violet
	"#ec4899", // pink
	"#06b6d4", // cyan
	"#84cc16", // lime
	"#f97316", // orange
	"#6366f1", // indigo
}

// paletteIndex advances with every NewPart call so consecutive parts differ.
var paletteIndex atomic.Uint32

// Part represents a cuboid that needs a place in the container.
type Part struct {
	ID       string     `json:"id"`
	Label    string     `json:"label"`
	Dims     Dimensions `json:"dims"`
	Color    string     `json:"color"`
	Quantity int        `json:"quantity"` // Expanded into individual instances by the engine
}

func NewPart(label string, w, h, d float64, qty int) Part {
	col := Palette[int(paletteIndex.Add(1)-1)%len(Palette)]
	return Part{
		ID:       uuid.New().String()[:8],
		Label:    label,
		Dims:     Dimensions{Width: w, Height: h, Depth: d},
		Color:    col,
		Quantity: qty,
	}
}

// Copies returns the number of instances this part stands for. A quantity
// below one still counts as a single instance.
func (p Part) Copies() int {
	if p.Quantity < 1 {
		return 1
	}
	return p.Quantity
}

// Volume returns the volume of a single instance.
func (p Part) Volume() float64 {
	return p.Dims.Volume()
}

// Container is the box parts are stacked into. Its minimum corner is the origin.
type Container struct {
	Label string     `json:"label"`
	Dims  Dimensions `json:"dims"`
}

func NewContainer(label string, w, h, d float64) Container {
	return Container{
		Label: label,
		Dims:  Dimensions{Width: w, Height: h, Depth: d},
	}
}

// Bounds returns the region spanned by the container.
func (c Container) Bounds() Box {
	return BoxAt(Position{}, c.Dims)
}

// Outcome tags whether the engine found room for a part.
type Outcome int

const (
	OutcomePlaced   Outcome = iota // Part sits inside the container
	OutcomeUnplaced                // No feasible position; Position holds the sentinel
)

func (o Outcome) String() string {
	switch o {
	case OutcomePlaced:
		return "Placed"
	case OutcomeUnplaced:
		return "Unplaced"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

// Placement is a single part instance with its engine-assigned position.
type Placement struct {
	Part     Part     `json:"part"`
	Outcome  Outcome  `json:"outcome"`
	Position Position `json:"position"`
}

// Placed reports whether the part was fitted inside the container.
func (p Placement) Placed() bool {
	return p.Outcome == OutcomePlaced
}

// Box returns the region the part occupies at its assigned position.
func (p Placement) Box() Box {
	return BoxAt(p.Position, p.Part.Dims)
}

// Fits re-derives the in-bounds check using the same boundary convention
// as the engine.
func (p Placement) Fits(c Container) bool {
	return p.Box().Within(c.Bounds())
}

// PackResult holds the full solution for one container.
type PackResult struct {
	Container  Container   `json:"container"`
	Placements []Placement `json:"placements"`
}

// PlacedCount returns how many parts were fitted inside the container.
func (r PackResult) PlacedCount() int {
	n := 0
	for _, p := range r.Placements {
		if p.Placed() {
			n++
		}
	}
	return n
}

// FitsCount returns how many parts satisfy the geometric fits predicate.
func (r PackResult) FitsCount() int {
	n := 0
	for _, p := range r.Placements {
		if p.Fits(r.Container) {
			n++
		}
	}
	return n
}

// UnplacedParts returns the parts that received a sentinel position.
func (r PackResult) UnplacedParts() []Part {
	var parts []Part
	for _, p := range r.Placements {
		if !p.Placed() {
			parts = append(parts, p.Part)
		}
	}
	return parts
}

// UsedVolume returns the total volume of placed parts.
func (r PackResult) UsedVolume() float64 {
	var total float64
	for _, p := range r.Placements {
		if p.Placed() {
			total += p.Part.Volume()
		}
	}
	return total
}

// DisplayPositions returns a drawing position per placement. Placed parts
// keep their position. Unplaced parts all share the sentinel, so they are
// lined up along X from it with gap between neighbours.
func (r PackResult) DisplayPositions(gap float64) []Position {
	out := make([]Position, len(r.Placements))
	offset := 0.0
	for i, p := range r.Placements {
		out[i] = p.Position
		if p.Placed() {
			continue
		}
		out[i].X += offset
		offset += p.Part.Dims.Width + gap
	}
	return out
}

// Efficiency returns the percentage of container volume filled by placed parts.
func (r PackResult) Efficiency() float64 {
	v := r.Container.Dims.Volume()
	if v <= 0 {
		return 0
	}
	return (r.UsedVolume() / v) * 100.0
}

// Algorithm selects how the engine orders parts before the first-fit scan.
type Algorithm string

const (
	AlgorithmFirstFit Algorithm = "firstfit" // Volume-descending greedy order (fast, deterministic)
	AlgorithmGenetic  Algorithm = "genetic"  // Genetic search over part orderings (slower, often denser)
)

// IndexKind selects the occupancy index data structure.
type IndexKind string

const (
	IndexList IndexKind = "list" // Flat slice with linear scan
	IndexGrid IndexKind = "grid" // Uniform spatial hash broad phase
)

// ErrInvalidSettings is returned by PackSettings.Validate.
var ErrInvalidSettings = errors.New("invalid pack settings")

// GeneticSettings holds parameters for the genetic ordering search.
type GeneticSettings struct {
	PopulationSize int     `json:"population_size"`
	Generations    int     `json:"generations"`
	MutationRate   float64 `json:"mutation_rate"`
	TournamentSize int     `json:"tournament_size"`
	EliteCount     int     `json:"elite_count"`
	Seed           int64   `json:"seed"`
}

// PackSettings holds engine configuration.
type PackSettings struct {
	Algorithm      Algorithm       `json:"algorithm"`
	GridStep       float64         `json:"grid_step"`       // Candidate scan step in container units
	SentinelMargin float64         `json:"sentinel_margin"` // Gap above the container for unplaced parts
	Index          IndexKind       `json:"index"`
	GridCellSize   float64         `json:"grid_cell_size"` // Spatial hash cell size; 0 picks one from the container
	Genetic        GeneticSettings `json:"genetic"`
}

func DefaultSettings() PackSettings {
	return PackSettings{
		Algorithm:      AlgorithmFirstFit,
		GridStep:       0.5,
		SentinelMargin: 2.0,
		Index:          IndexList,
		GridCellSize:   0,
		Genetic: GeneticSettings{
			PopulationSize: 20,
			Generations:    30,
			MutationRate:   0.15,
			TournamentSize: 3,
			EliteCount:     2,
			Seed:           42,
		},
	}
}

// Validate checks the settings before a run.
func (s PackSettings) Validate() error {
	if !(s.GridStep > 0) {
		return fmt.Errorf("%w: grid step must be positive, got %g", ErrInvalidSettings, s.GridStep)
	}
	if s.SentinelMargin < 0 {
		return fmt.Errorf("%w: sentinel margin must not be negative, got %g", ErrInvalidSettings, s.SentinelMargin)
	}
	if s.GridCellSize < 0 {
		return fmt.Errorf("%w: grid cell size must not be negative, got %g", ErrInvalidSettings, s.GridCellSize)
	}
	switch s.Algorithm {
	case AlgorithmFirstFit, AlgorithmGenetic, "":
	default:
		return fmt.Errorf("%w: unknown algorithm %q", ErrInvalidSettings, s.Algorithm)
	}
	switch s.Index {
	case IndexList, IndexGrid, "":
	default:
		return fmt.Errorf("%w: unknown index %q", ErrInvalidSettings, s.Index)
	}
	return nil
}

// Project ties everything together for save/load.
type Project struct {
	Name      string       `json:"name"`
	Parts     []Part       `json:"parts"`
	Container Container    `json:"container"`
	Settings  PackSettings `json:"settings"`
	Result    *PackResult  `json:"result,omitempty"`
}

func NewProject() Project {
	return Project{
		Name:      "Untitled",
		Parts:     []Part{},
		Container: NewContainer("Container", 10, 10, 10),
		Settings:  DefaultSettings(),
	}
}
