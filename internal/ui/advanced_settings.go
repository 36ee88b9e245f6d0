package ui

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/piwi3910/BoxStack/internal/engine"
	"github.com/piwi3910/BoxStack/internal/model"
)

// validateGenetic rejects parameters the search cannot run with.
func validateGenetic(g model.GeneticSettings) error {
	switch {
	case g.PopulationSize < 2:
		return fmt.Errorf("population size must be at least 2")
	case g.Generations < 1:
		return fmt.Errorf("generations must be at least 1")
	case g.MutationRate < 0 || g.MutationRate > 1:
		return fmt.Errorf("mutation rate must be between 0 and 1")
	case g.TournamentSize < 1 || g.TournamentSize > g.PopulationSize:
		return fmt.Errorf("tournament size must be between 1 and the population size")
	case g.EliteCount < 0 || g.EliteCount >= g.PopulationSize:
		return fmt.Errorf("elite count must be below the population size")
	}
	return nil
}

// showAdvancedSettingsDialog edits the genetic search parameters of the
// current project. They only take effect with the genetic algorithm.
func (a *App) showAdvancedSettingsDialog() {
	g := a.project.Settings.Genetic

	seed := float64(g.Seed)
	populationSection := widget.NewCard("Population",
		"Each individual is one processing order decoded by the first-fit scan",
		container.NewGridWithColumns(2,
			widget.NewLabel("Population Size"), intEntry(&g.PopulationSize),
			widget.NewLabel("Generations"), intEntry(&g.Generations),
			widget.NewLabel("Elite Count"), intEntry(&g.EliteCount),
		))

	selectionSection := widget.NewCard("Selection and Mutation", "",
		container.NewGridWithColumns(2,
			widget.NewLabel("Tournament Size"), intEntry(&g.TournamentSize),
			widget.NewLabel("Mutation Rate (0-1)"), floatEntry(&g.MutationRate),
			widget.NewLabel("Random Seed"), floatEntry(&seed),
		))

	resetBtn := widget.NewButton("Reset to Defaults", nil)

	content := container.NewVBox(populationSection, selectionSection, resetBtn)
	if a.project.Settings.Algorithm != model.AlgorithmGenetic {
		note := widget.NewLabel("The current project uses first fit; switch the algorithm to Genetic Search to use these.")
		note.Wrapping = fyne.TextWrapWord
		content.Add(note)
	}

	var d dialog.Dialog
	d = dialog.NewCustomConfirm("Genetic Search Settings", "Save", "Cancel", content,
		func(ok bool) {
			if !ok {
				return
			}
			g.Seed = int64(seed)
			if err := validateGenetic(g); err != nil {
				dialog.ShowError(err, a.window)
				return
			}
			a.mutate("Edit Genetic Settings", func() {
				a.project.Settings.Genetic = g
			})
		},
		a.window,
	)
	resetBtn.OnTapped = func() {
		d.Hide()
		a.mutate("Reset Genetic Settings", func() {
			a.project.Settings.Genetic = engine.DefaultGeneticConfig()
		})
	}
	d.Resize(fyne.NewSize(520, 420))
	d.Show()
}
