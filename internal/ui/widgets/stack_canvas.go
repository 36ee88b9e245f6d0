package widgets

import (
	"fmt"
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/piwi3910/BoxStack/internal/model"
)

// StackCanvas renders one orthographic projection of a packing result.
type StackCanvas struct {
	widget.BaseWidget
	result    model.PackResult
	view      View
	maxWidth  float32
	maxHeight float32
}

func NewStackCanvas(result model.PackResult, view View, maxW, maxH float32) *StackCanvas {
	sc := &StackCanvas{
		result:    result,
		view:      view,
		maxWidth:  maxW,
		maxHeight: maxH,
	}
	sc.ExtendBaseWidget(sc)
	return sc
}

func (sc *StackCanvas) CreateRenderer() fyne.WidgetRenderer {
	return newStackCanvasRenderer(sc)
}

type stackCanvasRenderer struct {
	sc      *StackCanvas
	objects []fyne.CanvasObject
}

func newStackCanvasRenderer(sc *StackCanvas) *stackCanvasRenderer {
	r := &stackCanvasRenderer{sc: sc}
	r.rebuild()
	return r
}

// scale fits the projection inside the widget's maximum size.
func (r *stackCanvasRenderer) scale(proj Projection) float32 {
	if proj.Width <= 0 || proj.Height <= 0 {
		return 1
	}
	scale := r.sc.maxWidth / float32(proj.Width)
	if s := r.sc.maxHeight / float32(proj.Height); s < scale {
		scale = s
	}
	return scale
}

func (r *stackCanvasRenderer) rebuild() {
	r.objects = nil

	proj := Project(r.sc.result, r.sc.view)
	scale := r.scale(proj)
	toCanvas := func(rect Rect) (fyne.Position, fyne.Size) {
		return fyne.NewPos(float32(rect.X)*scale, float32(rect.Y)*scale),
			fyne.NewSize(float32(rect.W)*scale, float32(rect.H)*scale)
	}

	pos, size := toCanvas(proj.Container)
	bg := canvas.NewRectangle(color.NRGBA{R: 235, G: 235, B: 235, A: 255})
	bg.Resize(size)
	bg.Move(pos)
	r.objects = append(r.objects, bg)

	for _, p := range proj.Parts {
		pos, size := toCanvas(p.Rect)

		fill := p.Fill
		stroke := color.NRGBA{R: 30, G: 30, B: 30, A: 255}
		if p.Unplaced {
			fill.A = 90
			stroke = color.NRGBA{R: 200, G: 0, B: 0, A: 255}
		}

		partRect := canvas.NewRectangle(fill)
		partRect.StrokeColor = stroke
		partRect.StrokeWidth = 1
		partRect.Resize(size)
		partRect.Move(pos)
		r.objects = append(r.objects, partRect)

		// Label (only if big enough)
		if size.Width > 30 && size.Height > 14 {
			label := canvas.NewText(p.Label, color.Black)
			label.TextSize = 10
			label.Move(fyne.NewPos(pos.X+3, pos.Y+2))
			r.objects = append(r.objects, label)
		}
	}

	// Container border drawn last so parts never hide it.
	pos, size = toCanvas(proj.Container)
	border := canvas.NewRectangle(color.Transparent)
	border.StrokeColor = color.NRGBA{R: 100, G: 100, B: 100, A: 255}
	border.StrokeWidth = 2
	border.Resize(size)
	border.Move(pos)
	r.objects = append(r.objects, border)
}

func (r *stackCanvasRenderer) Layout(size fyne.Size)        {}
func (r *stackCanvasRenderer) Refresh()                     { r.rebuild() }
func (r *stackCanvasRenderer) Destroy()                     {}
func (r *stackCanvasRenderer) Objects() []fyne.CanvasObject { return r.objects }
func (r *stackCanvasRenderer) MinSize() fyne.Size {
	proj := Project(r.sc.result, r.sc.view)
	scale := r.scale(proj)
	return fyne.NewSize(float32(proj.Width)*scale, float32(proj.Height)*scale)
}

// FitSummary reads "N of M parts fit in container".
func FitSummary(result model.PackResult) string {
	return fmt.Sprintf("%d of %d parts fit in container", result.FitsCount(), len(result.Placements))
}

// RenderResults builds the results panel: fit summary, front and top
// projections, and the list of unplaced parts.
func RenderResults(result *model.PackResult) fyne.CanvasObject {
	if result == nil || len(result.Placements) == 0 {
		return widget.NewLabel("No results yet. Add parts and set the container, then click Pack.")
	}

	summary := widget.NewLabel(fmt.Sprintf("%s (%.1f%% of volume used)", FitSummary(*result), result.Efficiency()))
	summary.TextStyle = fyne.TextStyle{Bold: true}
	if result.FitsCount() < len(result.Placements) {
		summary.Importance = widget.DangerImportance
	} else {
		summary.Importance = widget.SuccessImportance
	}

	views := container.NewGridWithColumns(2,
		widget.NewCard(FrontView.String(), "", container.NewCenter(NewStackCanvas(*result, FrontView, 520, 380))),
		widget.NewCard(TopView.String(), "", container.NewCenter(NewStackCanvas(*result, TopView, 520, 380))),
	)

	items := []fyne.CanvasObject{summary, views}

	if unplaced := result.UnplacedParts(); len(unplaced) > 0 {
		warning := widget.NewLabel(fmt.Sprintf(
			"WARNING: %d parts could not be placed and are shown above the container.",
			len(unplaced),
		))
		warning.Importance = widget.DangerImportance
		items = append(items, widget.NewSeparator(), warning)
		for _, p := range unplaced {
			items = append(items, widget.NewLabel(fmt.Sprintf("  %s  %s  (%s)", p.ID, p.Label, p.Dims.String())))
		}
	}

	items = append(items, widget.NewSeparator(), placementTable(*result))

	return container.NewVScroll(container.NewVBox(items...))
}

// placementTable lists every placement with its position.
func placementTable(result model.PackResult) fyne.CanvasObject {
	grid := container.NewGridWithColumns(5,
		widget.NewLabelWithStyle("ID", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		widget.NewLabelWithStyle("Label", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		widget.NewLabelWithStyle("Size", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		widget.NewLabelWithStyle("Outcome", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		widget.NewLabelWithStyle("Position", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
	)
	for _, p := range result.Placements {
		outcome := widget.NewLabel(p.Outcome.String())
		if !p.Placed() {
			outcome.Importance = widget.DangerImportance
		}
		grid.Add(widget.NewLabel(p.Part.ID))
		grid.Add(widget.NewLabel(p.Part.Label))
		grid.Add(widget.NewLabel(p.Part.Dims.String()))
		grid.Add(outcome)
		grid.Add(widget.NewLabel(fmt.Sprintf("%g, %g, %g", p.Position.X, p.Position.Y, p.Position.Z)))
	}
	return grid
}
