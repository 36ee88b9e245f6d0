package export

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/piwi3910/BoxStack/internal/model"
)

func placed(id string, w, h, d, x, y, z float64) model.Placement {
	return model.Placement{
		Part:     model.Part{ID: id, Label: "Part " + id, Dims: model.Dimensions{Width: w, Height: h, Depth: d}, Color: "#3b82f6", Quantity: 1},
		Outcome:  model.OutcomePlaced,
		Position: model.Position{X: x, Y: y, Z: z},
	}
}

func unplaced(id string, w, h, d, sentinelY float64) model.Placement {
	return model.Placement{
		Part:     model.Part{ID: id, Label: "Part " + id, Dims: model.Dimensions{Width: w, Height: h, Depth: d}, Color: "not a color", Quantity: 1},
		Outcome:  model.OutcomeUnplaced,
		Position: model.Position{Y: sentinelY},
	}
}

func buildTestResult() model.PackResult {
	return model.PackResult{
		Container: model.NewContainer("Crate", 10, 4, 10),
		Placements: []model.Placement{
			placed("a", 5, 2, 5, 0, 0, 0),
			placed("b", 5, 2, 5, 5, 0, 0),
			placed("c", 5, 2, 5, 0, 0, 5),
			placed("d", 5, 2, 5, 5, 0, 5),
			placed("e", 5, 2, 5, 0, 2, 0),
		},
	}
}

func assertNonEmptyFile(t *testing.T, path string, minSize int64) {
	t.Helper()
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("file was not created: %v", err)
	}
	if info.Size() < minSize {
		t.Errorf("file seems too small: %d bytes", info.Size())
	}
}

func TestExportPDF_CreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test_output.pdf")

	if err := ExportPDF(path, buildTestResult(), model.DefaultSettings()); err != nil {
		t.Fatalf("ExportPDF returned error: %v", err)
	}
	assertNonEmptyFile(t, path, 500)
}

func TestExportPDF_EmptyResult(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.pdf")

	err := ExportPDF(path, model.PackResult{}, model.DefaultSettings())
	if !errors.Is(err, ErrEmptyResult) {
		t.Fatalf("expected ErrEmptyResult, got %v", err)
	}
}

func TestExportPDF_WithUnplacedParts(t *testing.T) {
	path := filepath.Join(t.TempDir(), "unplaced.pdf")

	result := buildTestResult()
	result.Placements = append(result.Placements,
		unplaced("u1", 20, 1, 1, 6),
		unplaced("u2", 11, 11, 11, 6),
	)

	if err := ExportPDF(path, result, model.DefaultSettings()); err != nil {
		t.Fatalf("ExportPDF returned error: %v", err)
	}
	assertNonEmptyFile(t, path, 500)
}

func TestExportPDF_ManyParts(t *testing.T) {
	path := filepath.Join(t.TempDir(), "many.pdf")

	result := model.PackResult{Container: model.NewContainer("Shelf", 100, 1, 1)}
	for i := 0; i < 100; i++ {
		result.Placements = append(result.Placements, placed(fmt.Sprintf("p%d", i), 1, 1, 1, float64(i), 0, 0))
	}

	if err := ExportPDF(path, result, model.DefaultSettings()); err != nil {
		t.Fatalf("ExportPDF returned error: %v", err)
	}
	assertNonEmptyFile(t, path, 500)
}

func TestPaintOrder(t *testing.T) {
	result := model.PackResult{
		Container: model.NewContainer("C", 10, 10, 10),
		Placements: []model.Placement{
			placed("near-low", 1, 1, 1, 0, 0, 0),
			placed("far-high", 1, 1, 1, 0, 5, 5),
			unplaced("gone", 1, 1, 1, 12),
		},
	}

	front := paintOrder(result, frontView)
	if len(front) != 2 {
		t.Fatalf("expected only fitted parts, got %d", len(front))
	}
	if front[0].placement.Part.ID != "far-high" {
		t.Errorf("front view should paint the far part first, got %s", front[0].placement.Part.ID)
	}

	top := paintOrder(result, topView)
	if top[0].placement.Part.ID != "near-low" {
		t.Errorf("top view should paint the low part first, got %s", top[0].placement.Part.ID)
	}
}

func TestColorFor(t *testing.T) {
	good := colorFor(model.Part{Color: "#102030"}, 0)
	if good != (partColor{R: 0x10, G: 0x20, B: 0x30}) {
		t.Errorf("unexpected color %+v", good)
	}
	if got := colorFor(model.Part{Color: "bad"}, 1); got != fallbackColors[1] {
		t.Errorf("expected fallback color, got %+v", got)
	}
}

func TestLabelFontSize(t *testing.T) {
	tests := []struct {
		w, h float64
		want float64
	}{
		{50, 50, 8},
		{30, 25, 7},
		{10, 10, 6},
	}
	for _, tt := range tests {
		if got := labelFontSize(tt.w, tt.h); got != tt.want {
			t.Errorf("labelFontSize(%.0f, %.0f) = %.0f, want %.0f", tt.w, tt.h, got, tt.want)
		}
	}
}
