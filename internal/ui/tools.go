package ui

import (
	"fmt"
	"strconv"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/piwi3910/BoxStack/internal/engine"
	"github.com/piwi3910/BoxStack/internal/model"
)

// bestScenario returns the index of the most efficient successful scenario,
// or -1 when every scenario failed.
func bestScenario(results []engine.ComparisonResult) int {
	best := -1
	for i, r := range results {
		if r.Err == nil && (best < 0 || r.Efficiency > results[best].Efficiency) {
			best = i
		}
	}
	return best
}

// showCompareDialog packs the project under the default what-if scenarios
// and offers to adopt the settings of any of them.
func (a *App) showCompareDialog() {
	if len(a.project.Parts) == 0 {
		dialog.ShowInformation("Nothing to compare", "Add at least one part first.", a.window)
		return
	}

	parts := copyParts(a.project.Parts)
	box := a.project.Container
	scenarios := engine.BuildDefaultScenarios(a.project.Settings)

	progress := dialog.NewCustomWithoutButtons("Comparing",
		container.NewVBox(
			widget.NewLabel(fmt.Sprintf("Running %d scenarios...", len(scenarios))),
			widget.NewProgressBarInfinite(),
		), a.window)
	progress.Show()

	go func() {
		results := engine.CompareScenarios(scenarios, parts, box)
		fyne.Do(func() {
			progress.Hide()
			a.showComparisonResults(results)
		})
	}()
}

func (a *App) showComparisonResults(results []engine.ComparisonResult) {
	best := bestScenario(results)

	grid := container.NewGridWithColumns(5,
		boldLabel("Scenario"),
		boldLabel("Placed"),
		boldLabel("Unplaced"),
		boldLabel("Efficiency"),
		widget.NewLabel(""),
	)

	var d dialog.Dialog
	for i, r := range results {
		r := r
		name := widget.NewLabel(r.Scenario.Name)
		if i == best {
			name.TextStyle = fyne.TextStyle{Bold: true}
			name.Importance = widget.SuccessImportance
		}
		grid.Add(name)
		if r.Err != nil {
			grid.Add(widget.NewLabel("-"))
			grid.Add(widget.NewLabel("-"))
			errLabel := widget.NewLabel(r.Err.Error())
			errLabel.Importance = widget.DangerImportance
			grid.Add(errLabel)
			grid.Add(widget.NewLabel(""))
			continue
		}
		grid.Add(widget.NewLabel(strconv.Itoa(r.PlacedCount)))
		grid.Add(widget.NewLabel(strconv.Itoa(r.UnplacedCount)))
		grid.Add(widget.NewLabel(fmt.Sprintf("%.1f%%", r.Efficiency)))
		grid.Add(widget.NewButton("Use", func() {
			d.Hide()
			a.mutate("Use Scenario "+r.Scenario.Name, func() {
				a.project.Settings = r.Scenario.Settings
			})
			result := r.Result
			a.project.Result = &result
			a.refreshResults()
			a.tabs.SelectIndex(tabResults)
		}))
	}

	d = dialog.NewCustom("Scenario Comparison", "Close", container.NewVScroll(grid), a.window)
	d.Resize(fyne.NewSize(640, 360))
	d.Show()
}

// showEstimateDialog reports how many containers the part list needs by volume.
func (a *App) showEstimateDialog() {
	if len(a.project.Parts) == 0 {
		dialog.ShowInformation("Nothing to estimate", "Add at least one part first.", a.window)
		return
	}

	wasteEntry := widget.NewEntry()
	wasteEntry.SetText("15")
	priceEntry := widget.NewEntry()
	priceEntry.SetText("0")

	form := dialog.NewForm("Estimate Containers", "Calculate", "Cancel",
		[]*widget.FormItem{
			widget.NewFormItem("Waste Allowance (%)", wasteEntry),
			widget.NewFormItem("Price per Container", priceEntry),
		},
		func(ok bool) {
			if !ok {
				return
			}
			waste, err1 := strconv.ParseFloat(strings.TrimSpace(wasteEntry.Text), 64)
			price, err2 := strconv.ParseFloat(strings.TrimSpace(priceEntry.Text), 64)
			if err1 != nil || err2 != nil || waste < 0 || price < 0 {
				dialog.ShowError(fmt.Errorf("waste and price must be numbers >= 0"), a.window)
				return
			}
			est := model.CalculateContainerEstimate(a.project.Parts, a.project.Container, waste, price)
			a.showEstimate(est)
		},
		a.window,
	)
	form.Resize(fyne.NewSize(380, 220))
	form.Show()
}

func (a *App) showEstimate(est model.ContainerEstimate) {
	grid := container.NewGridWithColumns(2,
		widget.NewLabel("Container"), widget.NewLabel(fmt.Sprintf("%s (%s)", a.project.Container.Label, a.project.Container.Dims.String())),
		widget.NewLabel("Part volume"), widget.NewLabel(fmt.Sprintf("%g", est.TotalPartVolume)),
		widget.NewLabel("Container volume"), widget.NewLabel(fmt.Sprintf("%g", est.ContainerVolume)),
		widget.NewLabel("Containers (exact)"), widget.NewLabel(fmt.Sprintf("%.2f", est.ContainersNeededExact)),
		widget.NewLabel("Containers (minimum)"), widget.NewLabel(strconv.Itoa(est.ContainersNeededMin)),
		widget.NewLabel(fmt.Sprintf("Containers (+%g%% waste)", est.WastePercent)), boldLabel(strconv.Itoa(est.ContainersWithWaste)),
	)
	if est.PricePerContainer > 0 {
		grid.Add(widget.NewLabel("Estimated cost"))
		grid.Add(widget.NewLabel(fmt.Sprintf("%.2f", est.EstimatedCost)))
	}

	content := container.NewVBox(grid)
	if len(est.OversizedParts) > 0 {
		warning := widget.NewLabel(fmt.Sprintf("%d parts are larger than the container and were left out:", len(est.OversizedParts)))
		warning.Importance = widget.DangerImportance
		content.Add(widget.NewSeparator())
		content.Add(warning)
		for _, p := range est.OversizedParts {
			content.Add(widget.NewLabel(fmt.Sprintf("  %s (%s) x%d", p.Label, p.Dims.String(), p.Copies())))
		}
	}

	dialog.ShowCustom("Container Estimate", "Close", content, a.window)
}
