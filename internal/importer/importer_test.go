package importer

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/piwi3910/BoxStack/internal/model"
)

// ─── DetectCSVDelimiter Tests ──────────────────────────────

func TestDetectCSVDelimiter(t *testing.T) {
	tests := []struct {
		name string
		data string
		want rune
	}{
		{"comma", "Label,Width,Height,Depth\nCrate,6,3,4\nBox,4,8,2\n", ','},
		{"semicolon", "Label;Width;Height;Depth\nCrate;6;3;4\nBox;4;8;2\n", ';'},
		{"tab", "Label\tWidth\tHeight\tDepth\nCrate\t6\t3\t4\nBox\t4\t8\t2\n", '\t'},
		{"pipe", "Label|Width|Height|Depth\nCrate|6|3|4\nBox|4|8|2\n", '|'},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectCSVDelimiter([]byte(tt.data)); got != tt.want {
				t.Errorf("expected %q delimiter, got %q", tt.want, got)
			}
		})
	}
}

// ─── DetectColumns Tests ───────────────────────────────────

func TestDetectColumns_StandardHeaders(t *testing.T) {
	row := []string{"Label", "Width", "Height", "Depth", "Quantity", "Color"}
	mapping, isHeader := DetectColumns(row)

	if !isHeader {
		t.Error("expected header to be detected")
	}
	want := ColumnMapping{Label: 0, Width: 1, Height: 2, Depth: 3, Quantity: 4, Color: 5}
	if mapping != want {
		t.Errorf("expected %+v, got %+v", want, mapping)
	}
}

func TestDetectColumns_AlternativeNames(t *testing.T) {
	row := []string{"QTY", "Z", "Y", "X", "Item", "Colour"}
	mapping, isHeader := DetectColumns(row)

	if !isHeader {
		t.Error("expected header to be detected")
	}
	want := ColumnMapping{Label: 4, Width: 3, Height: 2, Depth: 1, Quantity: 0, Color: 5}
	if mapping != want {
		t.Errorf("expected %+v, got %+v", want, mapping)
	}
}

func TestDetectColumns_NoHeader(t *testing.T) {
	mapping, isHeader := DetectColumns([]string{"Crate", "6", "3", "4"})

	if isHeader {
		t.Error("expected no header")
	}
	if mapping.Width != 1 || mapping.Depth != 3 || mapping.Quantity != 4 {
		t.Errorf("unexpected positional mapping %+v", mapping)
	}
}

// ─── CSV Reader Tests ──────────────────────────────────────

func TestImportCSVFromReader_WithHeaders(t *testing.T) {
	data := "Label,Width,Height,Depth,Quantity,Color\nCrate,6,3,4,2,#AABBCC\nBox,4,8,2,1,\n"
	result := ImportCSVFromReader(strings.NewReader(data), ',')

	if len(result.Errors) > 0 {
		t.Errorf("unexpected errors: %v", result.Errors)
	}
	if len(result.Parts) != 2 {
		t.Fatalf("expected 2 parts, got %d", len(result.Parts))
	}

	p := result.Parts[0]
	if p.Label != "Crate" {
		t.Errorf("expected label 'Crate', got '%s'", p.Label)
	}
	if p.Dims != (model.Dimensions{Width: 6, Height: 3, Depth: 4}) {
		t.Errorf("unexpected dims %v", p.Dims)
	}
	if p.Quantity != 2 {
		t.Errorf("expected quantity 2, got %d", p.Quantity)
	}
	if p.Color != "#aabbcc" {
		t.Errorf("expected color #aabbcc, got %s", p.Color)
	}
	if p.ID == "" {
		t.Error("expected generated ID")
	}
	if result.Parts[1].Color == "" {
		t.Error("expected palette color when column is blank")
	}
}

func TestImportCSVFromReader_WithoutHeaders(t *testing.T) {
	data := "Crate,6,3,4\nBox,4,8,2,3\n"
	result := ImportCSVFromReader(strings.NewReader(data), ',')

	if len(result.Parts) != 2 {
		t.Fatalf("expected 2 parts, got %d (errors: %v)", len(result.Parts), result.Errors)
	}
	if result.Parts[0].Quantity != 1 {
		t.Errorf("expected default quantity 1, got %d", result.Parts[0].Quantity)
	}
	if result.Parts[1].Quantity != 3 {
		t.Errorf("expected quantity 3, got %d", result.Parts[1].Quantity)
	}
}

func TestImportCSVFromReader_MissingDepthColumn(t *testing.T) {
	data := "Label,Width,Height\nCrate,6,3\n"
	result := ImportCSVFromReader(strings.NewReader(data), ',')

	if len(result.Errors) == 0 {
		t.Fatal("expected error for missing depth column")
	}
	if !strings.Contains(result.Errors[0], "Depth") {
		t.Errorf("expected error to name Depth, got %s", result.Errors[0])
	}
}

func TestImportCSVFromReader_RejectsNonPositive(t *testing.T) {
	data := "Label,Width,Height,Depth\nZero,0,1,1\nNeg,1,-1,1\nGood,1,1,1\n"
	result := ImportCSVFromReader(strings.NewReader(data), ',')

	if len(result.Errors) != 2 {
		t.Errorf("expected 2 errors, got %v", result.Errors)
	}
	if len(result.Parts) != 1 || result.Parts[0].Label != "Good" {
		t.Errorf("expected only 'Good' to import, got %+v", result.Parts)
	}
}

func TestImportCSVFromReader_InvalidValues(t *testing.T) {
	tests := []struct {
		name string
		row  string
		want string
	}{
		{"width", "Crate,abc,1,1,1", "Invalid width"},
		{"depth", "Crate,1,1,,1", "Missing depth"},
		{"quantity", "Crate,1,1,1,many", "Invalid quantity"},
		{"zero quantity", "Crate,1,1,1,0", "must be positive"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ImportCSVFromReader(strings.NewReader("Label,Width,Height,Depth,Qty\n"+tt.row+"\n"), ',')
			if len(result.Errors) != 1 || !strings.Contains(result.Errors[0], tt.want) {
				t.Errorf("expected error containing %q, got %v", tt.want, result.Errors)
			}
		})
	}
}

func TestImportCSVFromReader_UnknownColorWarns(t *testing.T) {
	result := ImportCSVFromReader(strings.NewReader("Name,W,H,D,Color\nCrate,1,1,1,blue\n"), ',')

	if len(result.Parts) != 1 {
		t.Fatalf("expected 1 part, got %d", len(result.Parts))
	}
	found := false
	for _, w := range result.Warnings {
		if strings.Contains(w, "Unknown color") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected unknown color warning, got %v", result.Warnings)
	}
}

func TestImportCSVFromReader_EmptyRowsAndLabels(t *testing.T) {
	data := "Label,Width,Height,Depth\n,1,1,1\n\n,2,2,2\n"
	result := ImportCSVFromReader(strings.NewReader(data), ',')

	if len(result.Parts) != 2 {
		t.Fatalf("expected 2 parts, got %d", len(result.Parts))
	}
	if result.Parts[0].Label != "Part 1" || result.Parts[1].Label != "Part 2" {
		t.Errorf("expected generated labels, got %q and %q", result.Parts[0].Label, result.Parts[1].Label)
	}
}

func TestImportCSVFromReader_EmptyFile(t *testing.T) {
	result := ImportCSVFromReader(strings.NewReader(""), ',')
	if len(result.Errors) == 0 {
		t.Error("expected error for empty file")
	}
}

func TestImportCSVFromReader_UnrecognizedHeaderSkipped(t *testing.T) {
	data := "Thing,Across,Up,Back\nCrate,1.5,2.25,3\n"
	result := ImportCSVFromReader(strings.NewReader(data), ',')

	if len(result.Parts) != 1 {
		t.Fatalf("expected 1 part, got %d (errors: %v)", len(result.Parts), result.Errors)
	}
	if result.Parts[0].Dims.Height != 2.25 {
		t.Errorf("expected height 2.25, got %f", result.Parts[0].Dims.Height)
	}
}

// ─── CSV File Import Tests ──────────────────────────────────

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}
	return path
}

func TestImportCSV_SemicolonFile(t *testing.T) {
	path := writeFile(t, "parts.csv", "Label;Width;Height;Depth\nCrate;6;3;4\nBox;4;8;2\n")

	result := ImportCSV(path)

	if len(result.Parts) != 2 {
		t.Errorf("expected 2 parts, got %d (errors: %v)", len(result.Parts), result.Errors)
	}
	hasSemicolonWarning := false
	for _, w := range result.Warnings {
		if strings.Contains(w, "semicolon") {
			hasSemicolonWarning = true
		}
	}
	if !hasSemicolonWarning {
		t.Error("expected warning about semicolon delimiter detection")
	}
}

func TestImportCSV_FileNotFound(t *testing.T) {
	result := ImportCSV("/nonexistent/path/file.csv")
	if len(result.Errors) == 0 {
		t.Error("expected error for nonexistent file")
	}
}

func TestImportCSV_EmptyFile(t *testing.T) {
	result := ImportCSV(writeFile(t, "empty.csv", "  \n"))
	if len(result.Errors) == 0 {
		t.Error("expected error for empty file")
	}
}

// ─── Excel Import Tests ────────────────────────────────────

func createTestExcel(t *testing.T, rows [][]interface{}) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "parts.xlsx")

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	for i, row := range rows {
		for j, cell := range row {
			cellRef, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				t.Fatalf("failed to create cell reference: %v", err)
			}
			if err := f.SetCellValue(sheet, cellRef, cell); err != nil {
				t.Fatalf("failed to set cell value: %v", err)
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		t.Fatalf("failed to save Excel file: %v", err)
	}
	return path
}

func TestImportExcel_WithHeaders(t *testing.T) {
	path := createTestExcel(t, [][]interface{}{
		{"Name", "Width", "Height", "Depth", "Qty"},
		{"Crate", 6, 3, 4, 2},
		{"Box", 4.5, 8, 2, 1},
	})

	result := ImportExcel(path)

	if len(result.Errors) > 0 {
		t.Errorf("unexpected errors: %v", result.Errors)
	}
	if len(result.Parts) != 2 {
		t.Fatalf("expected 2 parts, got %d", len(result.Parts))
	}
	if result.Parts[1].Dims.Width != 4.5 {
		t.Errorf("expected width 4.5, got %f", result.Parts[1].Dims.Width)
	}
	if result.Parts[0].Quantity != 2 {
		t.Errorf("expected quantity 2, got %d", result.Parts[0].Quantity)
	}
}

func TestImportExcel_WithoutHeaders(t *testing.T) {
	path := createTestExcel(t, [][]interface{}{
		{"Crate", 6, 3, 4},
		{"Box", 4, 8, 2},
	})

	result := ImportExcel(path)

	if len(result.Parts) != 2 {
		t.Fatalf("expected 2 parts, got %d (errors: %v)", len(result.Parts), result.Errors)
	}
}

func TestImportExcel_FileNotFound(t *testing.T) {
	result := ImportExcel("/nonexistent/path/file.xlsx")
	if len(result.Errors) == 0 {
		t.Error("expected error for nonexistent file")
	}
}

// ─── Dispatch Tests ────────────────────────────────────────

func TestImport_DispatchByExtension(t *testing.T) {
	csvPath := writeFile(t, "parts.csv", "Crate,1,2,3\n")
	txtPath := writeFile(t, "parts.txt", "Crate: 1 x 2 x 3\n")
	xlsxPath := createTestExcel(t, [][]interface{}{{"Crate", 1, 2, 3}})

	for _, path := range []string{csvPath, txtPath, xlsxPath} {
		result := Import(path)
		if len(result.Parts) != 1 {
			t.Errorf("%s: expected 1 part, got %d (errors: %v)", filepath.Ext(path), len(result.Parts), result.Errors)
			continue
		}
		if result.Parts[0].Dims != (model.Dimensions{Width: 1, Height: 2, Depth: 3}) {
			t.Errorf("%s: unexpected dims %v", filepath.Ext(path), result.Parts[0].Dims)
		}
	}
}

func TestImport_UnsupportedExtension(t *testing.T) {
	result := Import("parts.pdf")
	if len(result.Errors) != 1 || !strings.Contains(result.Errors[0], "Unsupported") {
		t.Errorf("expected unsupported file error, got %v", result.Errors)
	}
}
