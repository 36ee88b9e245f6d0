// Package export provides functionality for exporting packing results to
// various file formats.
package export

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/go-pdf/fpdf"

	"github.com/piwi3910/BoxStack/internal/model"
)

// ErrEmptyResult is returned by every exporter when there is nothing to export.
var ErrEmptyResult = errors.New("no placements to export")

// partColor represents an RGB color for a placed part.
type partColor struct {
	R, G, B int
}

// fallbackColors is used for parts whose Color does not parse.
var fallbackColors = []partColor{
	{R: 76, G: 175, B: 80},  // green
	{R: 33, G: 150, B: 243}, // blue
	{R: 255, G: 152, B: 0},  // orange
	{R: 156, G: 39, B: 176}, // purple
	{R: 0, G: 188, B: 212},  // cyan
	{R: 244, G: 67, B: 54},  // red
	{R: 255, G: 235, B: 59}, // yellow
	{R: 121, G: 85, B: 72},  // brown
}

func colorFor(p model.Part, i int) partColor {
	r, g, b, err := model.ParseHexColor(p.Color)
	if err != nil {
		return fallbackColors[i%len(fallbackColors)]
	}
	return partColor{R: int(r), G: int(g), B: int(b)}
}

// Page layout constants (A4 landscape in mm).
const (
	pageWidth    = 297.0
	pageHeight   = 210.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 15.0
	headerHeight = 12.0
	legendHeight = 30.0
	viewGap      = 15.0
	drawAreaTop  = marginTop + headerHeight + 10.0
)

// view selects which container axes a projection maps to the page.
type view struct {
	title string
	// horizontal and vertical axis indices into a Vec3 (0=X, 1=Y, 2=Z)
	h, v int
	// flip draws the vertical axis upward
	flip bool
	// depth is the axis hidden by the projection
	depth int
}

var (
	frontView = view{title: "Front (X / Y)", h: 0, v: 1, flip: true, depth: 2}
	topView   = view{title: "Top (X / Z)", h: 0, v: 2, depth: 1}
)

// ExportPDF generates a PDF report for a packing result: a layout page with
// front and top orthographic projections, followed by a summary page.
func ExportPDF(path string, result model.PackResult, settings model.PackSettings) error {
	if len(result.Placements) == 0 {
		return ErrEmptyResult
	}

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, marginBottom)

	pdf.AddPage()
	renderLayoutPage(pdf, result)

	pdf.AddPage()
	renderSummaryPage(pdf, result, settings)

	return pdf.OutputFileAndClose(path)
}

// renderLayoutPage draws both projections of the container side by side.
func renderLayoutPage(pdf *fpdf.Fpdf, result model.PackResult) {
	c := result.Container

	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetXY(marginLeft, marginTop)
	title := fmt.Sprintf("Container: %s (%s)", c.Label, c.Dims.String())
	pdf.CellFormat(pageWidth-marginLeft-marginRight, headerHeight, title, "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetXY(marginLeft, marginTop+headerHeight)
	stats := fmt.Sprintf("Parts: %d | Fit: %d | Unplaced: %d | Efficiency: %.1f%%",
		len(result.Placements), result.FitsCount(), len(result.UnplacedParts()), result.Efficiency())
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 5, stats, "", 0, "L", false, 0, "")

	viewWidth := (pageWidth - marginLeft - marginRight - viewGap) / 2
	viewHeight := pageHeight - drawAreaTop - marginBottom - legendHeight

	drawProjection(pdf, result, frontView, marginLeft, drawAreaTop, viewWidth, viewHeight)
	drawProjection(pdf, result, topView, marginLeft+viewWidth+viewGap, drawAreaTop, viewWidth, viewHeight)

	drawPartsLegend(pdf, result, pageHeight-marginBottom-legendHeight+5)
}

// drawProjection renders the container outline and every placed part along
// one view into the given page rectangle.
func drawProjection(pdf *fpdf.Fpdf, result model.PackResult, v view, x, y, w, h float64) {
	size := result.Container.Dims.Vec()
	scale := math.Min(w/size[v.h], h/size[v.v])
	canvasW := size[v.h] * scale
	canvasH := size[v.v] * scale
	offsetX := x + (w-canvasW)/2
	offsetY := y

	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetXY(x, y-6)
	pdf.CellFormat(w, 5, v.title, "", 0, "C", false, 0, "")

	pdf.SetFillColor(240, 240, 240)
	pdf.SetDrawColor(100, 100, 100)
	pdf.SetLineWidth(0.5)
	pdf.Rect(offsetX, offsetY, canvasW, canvasH, "FD")

	for _, item := range paintOrder(result, v) {
		b := item.placement.Box()
		pw := (b.Max[v.h] - b.Min[v.h]) * scale
		ph := (b.Max[v.v] - b.Min[v.v]) * scale
		px := offsetX + b.Min[v.h]*scale
		py := offsetY + b.Min[v.v]*scale
		if v.flip {
			py = offsetY + canvasH - b.Max[v.v]*scale
		}

		col := colorFor(item.placement.Part, item.index)
		pdf.SetFillColor(col.R, col.G, col.B)
		pdf.SetDrawColor(30, 30, 30)
		pdf.SetLineWidth(0.3)
		pdf.Rect(px, py, pw, ph, "FD")

		if pw > 15 && ph > 8 {
			pdf.SetFont("Helvetica", "", labelFontSize(pw, ph))
			pdf.SetTextColor(0, 0, 0)
			label := item.placement.Part.Label
			if labelW := pdf.GetStringWidth(label); labelW < pw-2 {
				pdf.SetXY(px+(pw-labelW)/2, py+ph/2-2)
				pdf.CellFormat(labelW, 4, label, "", 0, "C", false, 0, "")
			}
		}
	}

	drawDimensionAnnotations(pdf, size[v.h], size[v.v], offsetX, offsetY, canvasW, canvasH)
}

type paintItem struct {
	placement model.Placement
	index     int
}

// paintOrder returns the placed parts sorted so that parts hidden behind
// others along the view's depth axis are drawn first.
func paintOrder(result model.PackResult, v view) []paintItem {
	items := make([]paintItem, 0, len(result.Placements))
	for i, p := range result.Placements {
		if p.Fits(result.Container) {
			items = append(items, paintItem{placement: p, index: i})
		}
	}
	sort.SliceStable(items, func(i, j int) bool {
		a := items[i].placement.Box()
		b := items[j].placement.Box()
		if v.depth == 2 {
			// Front view looks along -Z, so larger Z is farther away.
			return a.Min[2] > b.Min[2]
		}
		// Top view looks down, so lower parts are drawn first.
		return a.Min[v.depth] < b.Min[v.depth]
	})
	return items
}

// drawDimensionAnnotations adds size labels outside the projection rectangle.
func drawDimensionAnnotations(pdf *fpdf.Fpdf, horiz, vert, offsetX, offsetY, canvasW, canvasH float64) {
	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(80, 80, 80)

	widthLabel := fmt.Sprintf("%g", horiz)
	wLabelW := pdf.GetStringWidth(widthLabel)
	pdf.SetXY(offsetX+(canvasW-wLabelW)/2, offsetY+canvasH+1)
	pdf.CellFormat(wLabelW, 4, widthLabel, "", 0, "C", false, 0, "")

	heightLabel := fmt.Sprintf("%g", vert)
	pdf.TransformBegin()
	pdf.TransformRotate(90, offsetX-3, offsetY+canvasH/2)
	hLabelW := pdf.GetStringWidth(heightLabel)
	pdf.SetXY(offsetX-3-hLabelW/2, offsetY+canvasH/2-2)
	pdf.CellFormat(hLabelW, 4, heightLabel, "", 0, "C", false, 0, "")
	pdf.TransformEnd()

	pdf.SetTextColor(0, 0, 0)
}

// drawPartsLegend renders a compact legend of fitted parts at the bottom of the page.
func drawPartsLegend(pdf *fpdf.Fpdf, result model.PackResult, startY float64) {
	pdf.SetFont("Helvetica", "B", 8)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(marginLeft, startY)
	pdf.CellFormat(30, 4, "Parts placed:", "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	xPos := marginLeft + 32
	maxX := pageWidth - marginRight

	for i, p := range result.Placements {
		if !p.Fits(result.Container) {
			continue
		}
		col := colorFor(p.Part, i)
		label := fmt.Sprintf("%s (%s)", p.Part.Label, p.Part.Dims.String())
		labelW := pdf.GetStringWidth(label) + 6

		if xPos+labelW > maxX {
			startY += 5
			xPos = marginLeft
		}

		pdf.SetFillColor(col.R, col.G, col.B)
		pdf.Rect(xPos, startY+0.5, 3, 3, "F")

		pdf.SetXY(xPos+4, startY)
		pdf.CellFormat(labelW-4, 4, label, "", 0, "L", false, 0, "")

		xPos += labelW + 2
	}
}

// renderSummaryPage draws the final summary page with overall statistics.
func renderSummaryPage(pdf *fpdf.Fpdf, result model.PackResult, settings model.PackSettings) {
	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetXY(marginLeft, marginTop)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 10, "Packing Summary", "", 0, "L", false, 0, "")

	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.5)
	pdf.Line(marginLeft, marginTop+12, pageWidth-marginRight, marginTop+12)

	y := marginTop + 18

	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(100, 7, "Overall Statistics", "", 0, "L", false, 0, "")
	y += 9

	summaryItems := []struct {
		label string
		value string
	}{
		{"Container", fmt.Sprintf("%s (%s)", result.Container.Label, result.Container.Dims.String())},
		{"Parts Fit", fmt.Sprintf("%d of %d", result.FitsCount(), len(result.Placements))},
		{"Used Volume", fmt.Sprintf("%.2f of %.2f", result.UsedVolume(), result.Container.Dims.Volume())},
		{"Efficiency", fmt.Sprintf("%.1f%%", result.Efficiency())},
	}

	pdf.SetFont("Helvetica", "", 10)
	for _, item := range summaryItems {
		pdf.SetXY(marginLeft+5, y)
		pdf.CellFormat(60, 6, item.label+":", "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(80, 6, item.value, "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		y += 7
	}

	y += 5
	y = renderPlacementTable(pdf, result, y)

	if unplaced := result.UnplacedParts(); len(unplaced) > 0 {
		y += 8
		pdf.SetFont("Helvetica", "B", 11)
		pdf.SetTextColor(200, 0, 0)
		pdf.SetXY(marginLeft, y)
		pdf.CellFormat(200, 7, "WARNING: Unplaced Parts", "", 0, "L", false, 0, "")
		y += 8

		pdf.SetFont("Helvetica", "", 9)
		pdf.SetTextColor(0, 0, 0)
		for _, part := range unplaced {
			if y > pageHeight-marginBottom-40 {
				pdf.AddPage()
				y = marginTop
			}
			pdf.SetXY(marginLeft+5, y)
			text := fmt.Sprintf("- %s [%s]: %s", part.Label, part.ID, part.Dims.String())
			pdf.CellFormat(200, 5, text, "", 0, "L", false, 0, "")
			y += 5
		}
	}

	y += 8
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(100, 7, "Pack Settings", "", 0, "L", false, 0, "")
	y += 9

	settingsItems := []struct {
		label string
		value string
	}{
		{"Algorithm", string(settings.Algorithm)},
		{"Grid Step", fmt.Sprintf("%g", settings.GridStep)},
		{"Sentinel Margin", fmt.Sprintf("%g", settings.SentinelMargin)},
		{"Occupancy Index", string(settings.Index)},
	}

	pdf.SetFont("Helvetica", "", 9)
	for _, item := range settingsItems {
		pdf.SetXY(marginLeft+5, y)
		pdf.CellFormat(50, 5, item.label+":", "", 0, "L", false, 0, "")
		pdf.CellFormat(30, 5, item.value, "", 0, "L", false, 0, "")
		y += 5
	}

	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetTextColor(120, 120, 120)
	pdf.SetXY(marginLeft, pageHeight-marginBottom)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 4, "Generated by BoxStack - 3D Container Stacking Optimizer", "", 0, "C", false, 0, "")
}

// renderPlacementTable lists every fitted part with its position and
// returns the y coordinate below the table. Long tables continue on new pages.
func renderPlacementTable(pdf *fpdf.Fpdf, result model.PackResult, y float64) float64 {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(100, 7, "Placements", "", 0, "L", false, 0, "")
	y += 9

	colWidths := []float64{15, 70, 30, 50, 60}
	headers := []string{"#", "Part", "ID", "Dimensions", "Position (x, y, z)"}

	header := func() {
		pdf.SetFont("Helvetica", "B", 9)
		pdf.SetFillColor(230, 230, 230)
		xPos := marginLeft
		for i, h := range headers {
			pdf.SetXY(xPos, y)
			pdf.CellFormat(colWidths[i], 6, h, "1", 0, "C", true, 0, "")
			xPos += colWidths[i]
		}
		y += 6
		pdf.SetFont("Helvetica", "", 9)
	}
	header()

	row := 0
	for _, p := range result.Placements {
		if !p.Placed() {
			continue
		}
		if y > pageHeight-marginBottom-10 {
			pdf.AddPage()
			y = marginTop
			header()
		}
		row++
		cells := []string{
			fmt.Sprintf("%d", row),
			p.Part.Label,
			p.Part.ID,
			p.Part.Dims.String(),
			fmt.Sprintf("%g, %g, %g", p.Position.X, p.Position.Y, p.Position.Z),
		}
		if row%2 == 1 {
			pdf.SetFillColor(245, 245, 245)
		} else {
			pdf.SetFillColor(255, 255, 255)
		}
		xPos := marginLeft
		for j, cell := range cells {
			pdf.SetXY(xPos, y)
			pdf.CellFormat(colWidths[j], 6, cell, "1", 0, "C", true, 0, "")
			xPos += colWidths[j]
		}
		y += 6
	}
	return y
}

// labelFontSize returns an appropriate font size based on the rectangle dimensions.
func labelFontSize(w, h float64) float64 {
	minDim := math.Min(w, h)
	switch {
	case minDim > 40:
		return 8
	case minDim > 20:
		return 7
	default:
		return 6
	}
}
