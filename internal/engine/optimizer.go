package engine

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"go.uber.org/multierr"
	"k8s.io/klog/v2"

	"github.com/piwi3910/BoxStack/internal/model"
)

var (
	// ErrInvalidContainer is returned when the container has a non-positive dimension.
	ErrInvalidContainer = errors.New("invalid container")
	// ErrInvalidPart is returned for every part with a non-positive dimension.
	ErrInvalidPart = errors.New("invalid part")
)

// Packer runs the 3D first-fit stacking algorithm.
type Packer struct {
	Settings model.PackSettings
	logger   klog.Logger
}

func New(settings model.PackSettings) *Packer {
	return &Packer{Settings: settings, logger: klog.Background().WithName("packer")}
}

// WithLogger returns a copy of the packer that logs to logger.
func (p *Packer) WithLogger(logger klog.Logger) *Packer {
	cp := *p
	cp.logger = logger
	return &cp
}

// Pack assigns a position to every part instance. Parts that do not fit
// come back as OutcomeUnplaced with the sentinel position above the
// container. An error is only returned for invalid input, in which case no
// placement work is done.
func (p *Packer) Pack(parts []model.Part, container model.Container) (model.PackResult, error) {
	if err := container.Dims.Validate(); err != nil {
		return model.PackResult{}, fmt.Errorf("%w %q: %w", ErrInvalidContainer, container.Label, err)
	}
	settings := p.effectiveSettings()
	if err := settings.Validate(); err != nil {
		return model.PackResult{}, err
	}
	if err := validateParts(parts); err != nil {
		return model.PackResult{}, err
	}

	start := time.Now()
	instances := Expand(parts)

	var placements []model.Placement
	if settings.Algorithm == model.AlgorithmGenetic && len(instances) > 1 {
		placements = p.packGenetic(settings, instances, container)
	} else {
		placements = p.packFirstFit(settings, SortByVolume(instances), container, p.logger)
	}

	result := model.PackResult{Container: container, Placements: placements}
	p.logger.V(2).Info("Packed container",
		"container", container.Label,
		"dims", container.Dims.String(),
		"algorithm", string(settings.Algorithm),
		"parts", len(placements),
		"placed", result.PlacedCount(),
		"efficiency", result.Efficiency(),
		"duration", time.Since(start),
	)
	return result, nil
}

// effectiveSettings fills zero values left by callers that build
// PackSettings by hand.
func (p *Packer) effectiveSettings() model.PackSettings {
	s := p.Settings
	if s.Algorithm == "" {
		s.Algorithm = model.AlgorithmFirstFit
	}
	if s.Index == "" {
		s.Index = model.IndexList
	}
	return s
}

// validateParts collects one error per invalid part.
func validateParts(parts []model.Part) error {
	var errs error
	for i, part := range parts {
		if err := part.Dims.Validate(); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("%w %d (%s): %w", ErrInvalidPart, i, part.Label, err))
		}
	}
	return errs
}

// Expand turns each part into Quantity single instances. Instances of a part
// with more than one copy get the suffix "-<n>" on their ID and a graded
// shade of the part color. IDs stay unique: a derived or repeated ID that is
// already taken gets a further ".<k>" suffix.
func Expand(parts []model.Part) []model.Part {
	reserved := make(map[string]bool, len(parts))
	for _, p := range parts {
		if p.Copies() == 1 {
			reserved[p.ID] = true
		}
	}
	used := make(map[string]bool, len(parts))
	claim := func(id string, derived bool) string {
		if used[id] || (derived && reserved[id]) {
			for k := 2; ; k++ {
				alt := fmt.Sprintf("%s.%d", id, k)
				if !used[alt] && !reserved[alt] {
					id = alt
					break
				}
			}
		}
		used[id] = true
		return id
	}

	expanded := make([]model.Part, 0, len(parts))
	for _, p := range parts {
		n := p.Copies()
		for i := 0; i < n; i++ {
			cp := p
			cp.Quantity = 1
			if n > 1 {
				cp.ID = claim(fmt.Sprintf("%s-%d", p.ID, i+1), true)
				cp.Color = model.Shade(p.Color, i, n)
			} else {
				cp.ID = claim(p.ID, false)
			}
			expanded = append(expanded, cp)
		}
	}
	return expanded
}

// SortByVolume returns a copy of parts ordered by descending volume. Equal
// volumes keep their input order.
func SortByVolume(parts []model.Part) []model.Part {
	sorted := make([]model.Part, len(parts))
	copy(sorted, parts)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Volume() > sorted[j].Volume()
	})
	return sorted
}

// packFirstFit places parts in the given order against a fresh index.
func (p *Packer) packFirstFit(settings model.PackSettings, order []model.Part, container model.Container, logger klog.Logger) []model.Placement {
	index := newRunIndex(settings, container)
	placements := make([]model.Placement, 0, len(order))

	for _, part := range order {
		pos, ok := scan(part.Dims, container, settings.GridStep, index)
		if !ok {
			sentinel := sentinelPosition(container, settings.SentinelMargin)
			placements = append(placements, model.Placement{
				Part:     part,
				Outcome:  model.OutcomeUnplaced,
				Position: sentinel,
			})
			logger.V(4).Info("No room for part", "id", part.ID, "label", part.Label, "dims", part.Dims.String())
			continue
		}

		index.Record(model.BoxAt(pos, part.Dims))
		placements = append(placements, model.Placement{
			Part:     part,
			Outcome:  model.OutcomePlaced,
			Position: pos,
		})
		logger.V(4).Info("Placed part", "id", part.ID, "label", part.Label, "x", pos.X, "y", pos.Y, "z", pos.Z)
	}
	return placements
}

// maxCellsPerSide bounds how many grid cells a single box can span along one
// axis, whatever cell size the caller asked for.
const maxCellsPerSide = 64

// newRunIndex builds the index for one run. The grid cell size defaults to
// a sixteenth of the container's longest side. An explicit size is used as
// given but never finer than the scan step or 1/maxCellsPerSide of the
// container's longest side.
func newRunIndex(settings model.PackSettings, container model.Container) Index {
	cellSize := settings.GridCellSize
	if cellSize <= 0 {
		cellSize = container.Dims.MaxSide() / 16
	}
	cellSize = math.Max(cellSize, settings.GridStep)
	cellSize = math.Max(cellSize, container.Dims.MaxSide()/maxCellsPerSide)
	return NewIndex(settings.Index, cellSize)
}

func sentinelPosition(container model.Container, margin float64) model.Position {
	return model.Position{X: 0, Y: container.Dims.Height + margin, Z: 0}
}

// scan walks candidate positions Y outer, Z middle, X inner and returns the
// first one where the part lies inside the container without overlapping a
// recorded region.
//
// When a candidate is blocked, every X up to the blocker's far face is
// blocked by the same region, so the inner loop jumps past it.
func scan(d model.Dimensions, container model.Container, step float64, index Index) (model.Position, bool) {
	ny := lastStep(container.Dims.Height-d.Height, step)
	nz := lastStep(container.Dims.Depth-d.Depth, step)
	nx := lastStep(container.Dims.Width-d.Width, step)
	bounds := container.Bounds()

	for iy := 0; iy <= ny; iy++ {
		y := float64(iy) * step
		for iz := 0; iz <= nz; iz++ {
			z := float64(iz) * step
			for ix := 0; ix <= nx; {
				pos := model.Position{X: float64(ix) * step, Y: y, Z: z}
				box := model.BoxAt(pos, d)
				if !box.Within(bounds) {
					ix++
					continue
				}
				blocker, blocked := index.Blocking(box)
				if !blocked {
					return pos, true
				}
				ix = nextClearStep(ix, blocker.Max.X(), step)
			}
		}
	}
	return model.Position{}, false
}

// lastStep returns the largest i with i*step <= limit, or -1 when the part
// is larger than the container on this axis.
func lastStep(limit, step float64) int {
	if limit < -model.Tolerance {
		return -1
	}
	return int(math.Floor((limit + model.Tolerance) / step))
}

// nextClearStep returns the first step index whose X coordinate can clear a
// blocker ending at maxX. It errs low so no feasible candidate is skipped.
func nextClearStep(ix int, maxX, step float64) int {
	next := int(math.Ceil((maxX-model.Tolerance)/step - 1e-9))
	if next <= ix {
		return ix + 1
	}
	return next
}
