package engine

import (
	"math/rand"
	"strings"
	"sync"
	"testing"

	"github.com/go-logr/logr/funcr"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"

	"github.com/piwi3910/BoxStack/internal/model"
)

func part(id string, w, h, d float64) model.Part {
	return model.Part{ID: id, Label: id, Dims: model.Dimensions{Width: w, Height: h, Depth: d}, Quantity: 1}
}

func pos(x, y, z float64) model.Position {
	return model.Position{X: x, Y: y, Z: z}
}

func packDefault(t *testing.T, parts []model.Part, c model.Container) model.PackResult {
	t.Helper()
	result, err := New(model.DefaultSettings()).Pack(parts, c)
	require.NoError(t, err)
	return result
}

func TestPack_SinglePartAtOrigin(t *testing.T) {
	result := packDefault(t, []model.Part{part("a", 2, 2, 2)}, model.NewContainer("C", 10, 10, 10))

	require.Len(t, result.Placements, 1)
	assert.Equal(t, model.OutcomePlaced, result.Placements[0].Outcome)
	assert.Equal(t, pos(0, 0, 0), result.Placements[0].Position)
}

func TestPack_SideBySideThenDepth(t *testing.T) {
	parts := []model.Part{part("a", 5, 2, 5), part("b", 5, 2, 5), part("c", 5, 2, 5)}
	result := packDefault(t, parts, model.NewContainer("C", 10, 4, 10))

	require.Len(t, result.Placements, 3)
	assert.Equal(t, pos(0, 0, 0), result.Placements[0].Position)
	assert.Equal(t, pos(5, 0, 0), result.Placements[1].Position)
	assert.Equal(t, pos(0, 0, 5), result.Placements[2].Position)
	assert.Equal(t, 3, result.PlacedCount())
}

func TestPack_StacksWhenFloorIsFull(t *testing.T) {
	parts := make([]model.Part, 5)
	for i := range parts {
		parts[i] = part(string(rune('a'+i)), 5, 2, 5)
	}
	result := packDefault(t, parts, model.NewContainer("C", 10, 4, 10))

	require.Len(t, result.Placements, 5)
	assert.Equal(t, pos(5, 0, 5), result.Placements[3].Position)
	assert.Equal(t, pos(0, 2, 0), result.Placements[4].Position, "fifth part should go on the second layer")
	assert.Equal(t, 5, result.PlacedCount())
}

func TestPack_UnplacedGetsSentinel(t *testing.T) {
	parts := []model.Part{part("a", 6, 6, 6), part("b", 6, 6, 6)}
	result := packDefault(t, parts, model.NewContainer("C", 10, 10, 10))

	require.Len(t, result.Placements, 2)
	assert.True(t, result.Placements[0].Placed())
	assert.Equal(t, pos(0, 0, 0), result.Placements[0].Position)

	second := result.Placements[1]
	assert.Equal(t, model.OutcomeUnplaced, second.Outcome)
	assert.Equal(t, pos(0, 12, 0), second.Position)
	assert.False(t, second.Fits(result.Container))
	assert.Equal(t, 1, result.FitsCount())
}

func TestPack_SentinelMarginFromSettings(t *testing.T) {
	s := model.DefaultSettings()
	s.SentinelMargin = 5
	result, err := New(s).Pack([]model.Part{part("big", 11, 1, 1)}, model.NewContainer("C", 10, 10, 10))
	require.NoError(t, err)

	require.Len(t, result.Placements, 1)
	assert.Equal(t, model.OutcomeUnplaced, result.Placements[0].Outcome)
	assert.Equal(t, pos(0, 15, 0), result.Placements[0].Position)
}

func TestPack_ExactFit(t *testing.T) {
	result := packDefault(t, []model.Part{part("a", 10, 10, 10)}, model.NewContainer("C", 10, 10, 10))

	require.Len(t, result.Placements, 1)
	assert.True(t, result.Placements[0].Placed())
	assert.InDelta(t, 100.0, result.Efficiency(), 1e-9)
}

func TestPack_OversizedOnOneAxis(t *testing.T) {
	result := packDefault(t, []model.Part{part("tall", 1, 11, 1), part("small", 1, 1, 1)}, model.NewContainer("C", 10, 10, 10))

	require.Len(t, result.Placements, 2)
	assert.Equal(t, "tall", result.Placements[0].Part.ID)
	assert.False(t, result.Placements[0].Placed())
	assert.True(t, result.Placements[1].Placed())
	assert.Equal(t, pos(0, 0, 0), result.Placements[1].Position, "sentinels are not recorded in the index")
}

func TestPack_EmptyParts(t *testing.T) {
	result, err := New(model.DefaultSettings()).Pack(nil, model.NewContainer("C", 10, 10, 10))
	require.NoError(t, err)
	assert.Empty(t, result.Placements)
	assert.Equal(t, 0.0, result.Efficiency())
}

func TestPack_InvalidContainer(t *testing.T) {
	_, err := New(model.DefaultSettings()).Pack([]model.Part{part("a", 1, 1, 1)}, model.NewContainer("C", 10, 0, 10))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidContainer)
	assert.ErrorIs(t, err, model.ErrInvalidDimensions)
}

func TestPack_InvalidPartsAggregated(t *testing.T) {
	parts := []model.Part{part("ok", 1, 1, 1), part("flat", 1, 0, 1), part("neg", -1, 1, 1)}
	_, err := New(model.DefaultSettings()).Pack(parts, model.NewContainer("C", 10, 10, 10))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidPart)
	assert.Len(t, multierr.Errors(err), 2)
	assert.Contains(t, err.Error(), "flat")
	assert.Contains(t, err.Error(), "neg")
}

func TestPack_InvalidSettings(t *testing.T) {
	s := model.DefaultSettings()
	s.GridStep = 0
	_, err := New(s).Pack([]model.Part{part("a", 1, 1, 1)}, model.NewContainer("C", 10, 10, 10))
	assert.ErrorIs(t, err, model.ErrInvalidSettings)
}

func TestPack_ZeroValueSettingsFallBack(t *testing.T) {
	s := model.PackSettings{GridStep: 1}
	result, err := New(s).Pack([]model.Part{part("a", 1, 1, 1)}, model.NewContainer("C", 2, 2, 2))
	require.NoError(t, err)
	assert.Equal(t, 1, result.PlacedCount())
}

func TestPack_VolumeDescendingOrder(t *testing.T) {
	parts := []model.Part{part("small", 1, 1, 1), part("large", 3, 3, 3), part("medium", 2, 2, 2)}
	result := packDefault(t, parts, model.NewContainer("C", 10, 10, 10))

	ids := make([]string, len(result.Placements))
	for i, p := range result.Placements {
		ids[i] = p.Part.ID
	}
	assert.Equal(t, []string{"large", "medium", "small"}, ids)
}

func TestPack_EqualVolumesKeepInputOrder(t *testing.T) {
	parts := []model.Part{part("x", 1, 2, 3), part("y", 3, 2, 1), part("z", 2, 3, 1)}
	result := packDefault(t, parts, model.NewContainer("C", 10, 10, 10))

	for i, id := range []string{"x", "y", "z"} {
		assert.Equal(t, id, result.Placements[i].Part.ID)
	}
}

func TestPack_QuantityExpanded(t *testing.T) {
	p := part("box", 2, 2, 2)
	p.Quantity = 3
	result := packDefault(t, []model.Part{p}, model.NewContainer("C", 10, 10, 10))

	require.Len(t, result.Placements, 3)
	assert.Equal(t, "box-1", result.Placements[0].Part.ID)
	assert.Equal(t, "box-2", result.Placements[1].Part.ID)
	assert.Equal(t, "box-3", result.Placements[2].Part.ID)
	assert.Equal(t, pos(2, 0, 0), result.Placements[1].Position)
}

func TestExpand(t *testing.T) {
	single := part("one", 1, 1, 1)
	zero := part("zero", 1, 1, 1)
	zero.Quantity = 0
	multi := part("multi", 1, 1, 1)
	multi.Quantity = 2
	multi.Color = "#646464"

	expanded := Expand([]model.Part{single, zero, multi})

	require.Len(t, expanded, 4)
	assert.Equal(t, "one", expanded[0].ID)
	assert.Equal(t, "zero", expanded[1].ID)
	assert.Equal(t, 1, expanded[1].Quantity)
	assert.Equal(t, "multi-1", expanded[2].ID)
	assert.Equal(t, "multi-2", expanded[3].ID)
	assert.Equal(t, "#555555", expanded[2].Color)
	assert.Equal(t, "#737373", expanded[3].Color)
	assert.Equal(t, multi.Dims, expanded[3].Dims)
}

func TestExpand_IDsStayUnique(t *testing.T) {
	multi := part("a", 1, 1, 1)
	multi.Quantity = 2
	clash := part("a-1", 1, 1, 1)
	dup := part("a-1", 1, 1, 1)

	expanded := Expand([]model.Part{multi, clash, dup})

	require.Len(t, expanded, 4)
	seen := make(map[string]bool)
	for _, p := range expanded {
		assert.False(t, seen[p.ID], "duplicate id %s", p.ID)
		seen[p.ID] = true
	}
	assert.Equal(t, "a-1.2", expanded[0].ID)
	assert.Equal(t, "a-2", expanded[1].ID)
	assert.Equal(t, "a-1", expanded[2].ID)
	assert.Equal(t, "a-1.3", expanded[3].ID)
}

func TestPack_DoesNotMutateInput(t *testing.T) {
	parts := []model.Part{part("a", 1, 1, 1), part("b", 4, 4, 4)}
	before := make([]model.Part, len(parts))
	copy(before, parts)

	result := packDefault(t, parts, model.NewContainer("C", 10, 10, 10))

	assert.Empty(t, cmp.Diff(before, parts))
	for _, pl := range result.Placements {
		assert.Contains(t, before, pl.Part)
	}
}

func TestPack_FractionalStepDoesNotDrift(t *testing.T) {
	s := model.DefaultSettings()
	s.GridStep = 0.1
	parts := make([]model.Part, 10)
	for i := range parts {
		parts[i] = part(string(rune('a'+i)), 0.1, 1, 1)
	}

	result, err := New(s).Pack(parts, model.NewContainer("C", 1, 1, 1))
	require.NoError(t, err)

	assert.Equal(t, 10, result.PlacedCount())
	for i, pl := range result.Placements {
		assert.InDelta(t, float64(i)*0.1, pl.Position.X, 1e-9)
		assert.True(t, pl.Fits(result.Container))
	}
}

func TestPack_Deterministic(t *testing.T) {
	parts, c := randomScenario(7, 40)
	first := packDefault(t, parts, c)
	second := packDefault(t, parts, c)

	assert.Empty(t, cmp.Diff(first, second))
}

func TestPack_Invariants(t *testing.T) {
	for _, kind := range []model.IndexKind{model.IndexList, model.IndexGrid} {
		t.Run(string(kind), func(t *testing.T) {
			for seed := int64(1); seed <= 5; seed++ {
				parts, c := randomScenario(seed, 30)
				s := model.DefaultSettings()
				s.Index = kind

				result, err := New(s).Pack(parts, c)
				require.NoError(t, err)
				assertPackInvariants(t, parts, result, s.SentinelMargin)
			}
		})
	}
}

func TestPack_GridIndexMatchesList(t *testing.T) {
	for seed := int64(1); seed <= 5; seed++ {
		parts, c := randomScenario(seed, 40)

		list := model.DefaultSettings()
		grid := list
		grid.Index = model.IndexGrid
		grid.GridCellSize = 1.5

		a, err := New(list).Pack(parts, c)
		require.NoError(t, err)
		b, err := New(grid).Pack(parts, c)
		require.NoError(t, err)

		assert.Empty(t, cmp.Diff(a, b), "seed %d", seed)
	}
}

func TestNewRunIndex_ClampsCellSize(t *testing.T) {
	c := model.NewContainer("Hall", 1000, 1000, 1000)
	s := model.DefaultSettings()
	s.Index = model.IndexGrid

	tests := []struct {
		name string
		cell float64
		step float64
		want float64
	}{
		{"auto", 0, 1, 62.5},
		{"explicit", 100, 1, 100},
		{"finer than step", 0.001, 20, 20},
		{"tiny", 0.001, 1, 1000.0 / maxCellsPerSide},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			settings := s
			settings.GridCellSize = tt.cell
			settings.GridStep = tt.step
			g, ok := newRunIndex(settings, c).(*gridIndex)
			require.True(t, ok)
			assert.InDelta(t, tt.want, g.cellSize, 1e-9)
		})
	}
}

func TestPack_TinyCellSizeStillPacks(t *testing.T) {
	s := model.DefaultSettings()
	s.Index = model.IndexGrid
	s.GridCellSize = 0.001
	s.GridStep = 250

	result, err := New(s).Pack(
		[]model.Part{part("slab", 1000, 250, 1000), part("cube", 500, 500, 500)},
		model.NewContainer("Hall", 1000, 1000, 1000),
	)
	require.NoError(t, err)
	assert.Equal(t, 2, result.FitsCount())
	assert.Equal(t, pos(0, 250, 0), result.Placements[1].Position)
}

func TestPack_LogsSummary(t *testing.T) {
	var mu sync.Mutex
	var lines []string
	logger := funcr.New(func(prefix, args string) {
		mu.Lock()
		defer mu.Unlock()
		lines = append(lines, args)
	}, funcr.Options{Verbosity: 4})

	_, err := New(model.DefaultSettings()).WithLogger(logger).Pack(
		[]model.Part{part("a", 6, 6, 6), part("b", 6, 6, 6)},
		model.NewContainer("C", 10, 10, 10),
	)
	require.NoError(t, err)

	all := strings.Join(lines, "\n")
	assert.Contains(t, all, "Packed container")
	assert.Contains(t, all, "Placed part")
	assert.Contains(t, all, "No room for part")
}

func TestLastStep(t *testing.T) {
	assert.Equal(t, -1, lastStep(-1, 0.5))
	assert.Equal(t, 0, lastStep(0, 0.5))
	assert.Equal(t, 0, lastStep(-1e-9, 0.5))
	assert.Equal(t, 10, lastStep(5, 0.5))
	assert.Equal(t, 9, lastStep(0.9, 0.1))
}

func TestNextClearStep(t *testing.T) {
	assert.Equal(t, 10, nextClearStep(0, 5, 0.5))
	assert.Equal(t, 4, nextClearStep(3, 1, 0.5), "always advances")
	assert.Equal(t, 3, nextClearStep(0, 1.25, 0.5))
}

// randomScenario builds a deterministic mix of parts that overflows a small
// container.
func randomScenario(seed int64, n int) ([]model.Part, model.Container) {
	rng := rand.New(rand.NewSource(seed))
	parts := make([]model.Part, n)
	for i := range parts {
		w := float64(1+rng.Intn(8)) * 0.5
		h := float64(1+rng.Intn(8)) * 0.5
		d := float64(1+rng.Intn(8)) * 0.5
		parts[i] = part(string(rune('A'+i%26))+string(rune('a'+i/26)), w, h, d)
	}
	return parts, model.NewContainer("C", 6, 5, 6)
}

func assertPackInvariants(t *testing.T, parts []model.Part, result model.PackResult, margin float64) {
	t.Helper()

	expanded := Expand(parts)
	require.Len(t, result.Placements, len(expanded), "every instance appears exactly once")

	seen := make(map[string]bool)
	for _, pl := range result.Placements {
		assert.False(t, seen[pl.Part.ID], "duplicate %s", pl.Part.ID)
		seen[pl.Part.ID] = true
	}
	for _, p := range expanded {
		assert.True(t, seen[p.ID], "missing %s", p.ID)
	}

	placed := make([]model.Placement, 0, len(result.Placements))
	for _, pl := range result.Placements {
		if pl.Placed() {
			assert.True(t, pl.Fits(result.Container), "%s out of bounds", pl.Part.ID)
			placed = append(placed, pl)
			continue
		}
		assert.Equal(t, pos(0, result.Container.Dims.Height+margin, 0), pl.Position)
	}
	for i := range placed {
		for j := i + 1; j < len(placed); j++ {
			assert.False(t, placed[i].Box().Overlaps(placed[j].Box()),
				"%s overlaps %s", placed[i].Part.ID, placed[j].Part.ID)
		}
	}
}
