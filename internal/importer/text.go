package importer

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"
)

var (
	// "Name, 10, 20, 30" with an optional trailing quantity.
	commaLine = regexp.MustCompile(`^([^,]+),\s*(\d+\.?\d*),\s*(\d+\.?\d*),\s*(\d+\.?\d*)(?:,\s*(\d+))?\s*$`)
	// "Name: 10 x 20 x 30" or "Name 10x20x30", optionally followed by a quantity.
	timesLine = regexp.MustCompile(`(?i)^([^:]+)[:|\s]+(\d+\.?\d*)\s*x\s*(\d+\.?\d*)\s*x\s*(\d+\.?\d*)(?:\s*[,;\s]\s*(\d+)\b)?`)
)

// ImportTextFile reads a free-form part list from disk.
func ImportTextFile(path string) ImportResult {
	f, err := os.Open(path)
	if err != nil {
		return ImportResult{Errors: []string{fmt.Sprintf("Cannot open file: %v", err)}}
	}
	defer f.Close()
	return ImportText(f)
}

// ImportText parses one part per line. Accepted forms are
//
//	Name, W, H, D[, Qty]
//	Name: W x H x D [Qty]
//	Name W x H x D [Qty]
//	Name<TAB>W<TAB>H<TAB>D[<TAB>Qty]
//
// Blank lines and lines starting with '#' are skipped.
func ImportText(r io.Reader) ImportResult {
	result := ImportResult{}

	scanner := bufio.NewScanner(r)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		rowLabel := fmt.Sprintf("Line %d", lineNum)
		fields, ok := matchTextLine(line)
		if !ok {
			result.Warnings = append(result.Warnings, fmt.Sprintf("%s: Unrecognized format, skipping", rowLabel))
			continue
		}

		mapping := ColumnMapping{Label: 0, Width: 1, Height: 2, Depth: 3, Quantity: 4, Color: -1}
		part, errMsg, warnings := parseRow(fields, mapping, rowLabel, len(result.Parts))
		if errMsg != "" {
			result.Errors = append(result.Errors, errMsg)
			continue
		}
		result.Warnings = append(result.Warnings, warnings...)
		result.Parts = append(result.Parts, part)
	}
	if err := scanner.Err(); err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read text: %v", err))
	}

	if len(result.Parts) == 0 && len(result.Errors) == 0 {
		result.Errors = append(result.Errors, "No parts found")
	}
	return result
}

// matchTextLine returns label, width, height, depth and quantity (possibly
// empty) when the line has one of the accepted forms.
func matchTextLine(line string) ([]string, bool) {
	if m := commaLine.FindStringSubmatch(line); m != nil {
		return m[1:], true
	}
	if m := timesLine.FindStringSubmatch(line); m != nil {
		return m[1:], true
	}

	var cells []string
	for _, cell := range strings.Split(line, "\t") {
		if strings.TrimSpace(cell) != "" {
			cells = append(cells, cell)
		}
	}
	if len(cells) < 4 {
		return nil, false
	}
	for _, cell := range cells[1:4] {
		if _, err := strconv.ParseFloat(strings.TrimSpace(cell), 64); err != nil {
			return nil, false
		}
	}
	if len(cells) > 5 {
		cells = cells[:5]
	}
	return cells, true
}
