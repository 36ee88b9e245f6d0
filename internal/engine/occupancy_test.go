package engine

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/BoxStack/internal/model"
)

func box(x, y, z, w, h, d float64) model.Box {
	return model.BoxAt(pos(x, y, z), model.Dimensions{Width: w, Height: h, Depth: d})
}

func indexKinds() map[string]Index {
	return map[string]Index{
		"list": NewIndex(model.IndexList, 0),
		"grid": NewIndex(model.IndexGrid, 1),
	}
}

func TestIndex_EmptyHasNoOverlaps(t *testing.T) {
	for name, idx := range indexKinds() {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, 0, idx.Len())
			assert.False(t, idx.Overlaps(box(0, 0, 0, 5, 5, 5)))
		})
	}
}

func TestIndex_TouchingIsNotOverlap(t *testing.T) {
	for name, idx := range indexKinds() {
		t.Run(name, func(t *testing.T) {
			idx.Record(box(0, 0, 0, 2, 2, 2))

			assert.False(t, idx.Overlaps(box(2, 0, 0, 2, 2, 2)), "shared face on X")
			assert.False(t, idx.Overlaps(box(0, 2, 0, 2, 2, 2)), "shared face on Y")
			assert.False(t, idx.Overlaps(box(0, 0, 2, 2, 2, 2)), "shared face on Z")
			assert.False(t, idx.Overlaps(box(2, 2, 2, 1, 1, 1)), "shared corner")
			assert.True(t, idx.Overlaps(box(1, 1, 1, 2, 2, 2)))
			assert.True(t, idx.Overlaps(box(0.5, 0.5, 0.5, 0.5, 0.5, 0.5)), "contained")
			assert.Equal(t, 1, idx.Len())
		})
	}
}

func TestIndex_BlockingReturnsEarliest(t *testing.T) {
	for name, idx := range indexKinds() {
		t.Run(name, func(t *testing.T) {
			first := box(0, 0, 0, 4, 1, 1)
			second := box(2, 0, 0, 4, 1, 1)
			idx.Record(first)
			idx.Record(second)

			got, ok := idx.Blocking(box(3, 0, 0, 1, 1, 1))
			require.True(t, ok)
			assert.Equal(t, first, got)

			_, ok = idx.Blocking(box(6, 0, 0, 1, 1, 1))
			assert.False(t, ok)
		})
	}
}

func TestIndex_GridMatchesList(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	list := NewIndex(model.IndexList, 0)
	grid := NewIndex(model.IndexGrid, 0.75)

	randomBox := func() model.Box {
		return box(
			float64(rng.Intn(40))*0.25, float64(rng.Intn(40))*0.25, float64(rng.Intn(40))*0.25,
			float64(1+rng.Intn(12))*0.25, float64(1+rng.Intn(12))*0.25, float64(1+rng.Intn(12))*0.25,
		)
	}

	for i := 0; i < 60; i++ {
		b := randomBox()
		list.Record(b)
		grid.Record(b)
	}
	for i := 0; i < 500; i++ {
		q := randomBox()
		lb, lok := list.Blocking(q)
		gb, gok := grid.Blocking(q)
		require.Equal(t, lok, gok, "query %v", q)
		assert.Equal(t, lb, gb)
	}
	assert.Equal(t, list.Len(), grid.Len())
}

func TestNewIndex_GridWithoutCellSizeFallsBackToList(t *testing.T) {
	_, ok := NewIndex(model.IndexGrid, 0).(*listIndex)
	assert.True(t, ok)
	_, ok = NewIndex(model.IndexGrid, 2).(*gridIndex)
	assert.True(t, ok)
}

func TestNextPowerOfTwo(t *testing.T) {
	tests := []struct {
		in, want int
	}{
		{0, 1},
		{1, 1},
		{3, 4},
		{4096, 4096},
		{5000, 8192},
	}
	for _, tt := range tests {
		if got := nextPowerOfTwo(tt.in); got != tt.want {
			t.Errorf("nextPowerOfTwo(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
