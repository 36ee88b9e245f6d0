package ui

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/piwi3910/BoxStack/internal/model"
	"github.com/piwi3910/BoxStack/internal/project"
)

// showPreferencesDialog edits the defaults applied to new projects and the theme.
func (a *App) showPreferencesDialog() {
	cfg := a.config

	themeSelect := widget.NewSelect(ThemeNames, func(selected string) {
		cfg.Theme = selected
	})
	themeSelect.SetSelected(cfg.Theme)

	algorithmSelect := widget.NewSelect(algorithmOptions, func(selected string) {
		if selected == algorithmOptions[1] {
			cfg.DefaultAlgorithm = model.AlgorithmGenetic
		} else {
			cfg.DefaultAlgorithm = model.AlgorithmFirstFit
		}
	})
	algorithmSelect.SetSelected(algorithmLabel(cfg.DefaultAlgorithm))

	indexSelect := widget.NewSelect(indexOptions, func(selected string) {
		if selected == "Grid" {
			cfg.DefaultIndex = model.IndexGrid
		} else {
			cfg.DefaultIndex = model.IndexList
		}
	})
	if cfg.DefaultIndex == model.IndexGrid {
		indexSelect.SetSelected("Grid")
	} else {
		indexSelect.SetSelected("List")
	}

	containerSelect := widget.NewSelect(a.inventory.ContainerNames(), func(selected string) {
		if preset := a.inventory.FindContainerByName(selected); preset != nil {
			cfg.DefaultContainer = preset.ToContainer()
		}
	})
	containerSelect.PlaceHolder = fmt.Sprintf("%s (%s)", cfg.DefaultContainer.Label, cfg.DefaultContainer.Dims.String())

	formItems := []*widget.FormItem{
		widget.NewFormItem("Theme", themeSelect),
		widget.NewFormItem("", widget.NewSeparator()),
		widget.NewFormItem("Default Algorithm", algorithmSelect),
		widget.NewFormItem("Default Scan Step", floatEntry(&cfg.DefaultGridStep)),
		widget.NewFormItem("Default Unplaced Margin", floatEntry(&cfg.DefaultSentinelMargin)),
		widget.NewFormItem("Default Index", indexSelect),
		widget.NewFormItem("Default Container", containerSelect),
	}

	d := dialog.NewForm("Preferences", "Save", "Cancel", formItems,
		func(ok bool) {
			if !ok {
				return
			}
			probe := model.DefaultSettings()
			cfg.ApplyToSettings(&probe)
			if err := probe.Validate(); err != nil {
				dialog.ShowError(err, a.window)
				return
			}
			a.config = cfg
			a.theme.SetThemeName(cfg.Theme)
			a.fyneApp.Settings().SetTheme(a.theme)
			if err := project.SaveAppConfig(a.configPath, a.config); err != nil {
				dialog.ShowError(fmt.Errorf("failed to save preferences: %w", err), a.window)
				return
			}
			dialog.ShowInformation("Preferences Saved", "New projects will use these defaults.", a.window)
		},
		a.window,
	)
	d.Resize(fyne.NewSize(480, 420))
	d.Show()
}

// showImportExportDialog backs up or restores preferences, container
// presets, templates and custom profiles as one file.
func (a *App) showImportExportDialog() {
	exportBtn := widget.NewButton("Export All Data...", func() {
		d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
			if err != nil || writer == nil {
				return
			}
			path := writer.URI().Path()
			writer.Close()

			backup := project.BackupData{
				Config:    a.config,
				Inventory: a.inventory,
				Templates: a.templates,
				Profiles:  a.customProfiles,
			}
			if err := project.ExportAllData(path, backup); err != nil {
				dialog.ShowError(err, a.window)
				return
			}
			dialog.ShowInformation("Export Complete",
				fmt.Sprintf("All application data exported to:\n%s", path), a.window)
		}, a.window)
		d.SetFileName("boxstack-backup.json")
		d.Show()
	})

	importBtn := widget.NewButton("Import All Data...", func() {
		dialog.ShowConfirm("Import Data",
			"Importing replaces your preferences, container presets, templates and custom profiles.\n\nContinue?",
			func(ok bool) {
				if !ok {
					return
				}
				d := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
					if err != nil || reader == nil {
						return
					}
					defer reader.Close()
					a.restoreBackup(reader.URI().Path())
				}, a.window)
				d.Show()
			},
			a.window,
		)
	})

	content := container.NewVBox(
		widget.NewLabel("Export all application data to a backup file,\nor import from a previously exported backup."),
		widget.NewSeparator(),
		exportBtn,
		widget.NewSeparator(),
		importBtn,
	)

	d := dialog.NewCustom("Import / Export Data", "Close", content, a.window)
	d.Resize(fyne.NewSize(450, 250))
	d.Show()
}

func (a *App) restoreBackup(path string) {
	backup, err := project.ImportAllData(path)
	if err != nil {
		dialog.ShowError(err, a.window)
		return
	}

	a.config = backup.Config
	if len(backup.Inventory.Containers) > 0 {
		a.inventory = backup.Inventory
	}
	a.templates = backup.Templates
	a.customProfiles = backup.Profiles

	if err := project.SaveAppConfig(a.configPath, a.config); err != nil {
		dialog.ShowError(fmt.Errorf("failed to save imported preferences: %w", err), a.window)
		return
	}
	a.persistInventory()
	a.persistTemplates()
	a.persistCustomProfiles(a.window)

	a.theme.SetThemeName(a.config.Theme)
	a.fyneApp.Settings().SetTheme(a.theme)
	a.SetupMenus()
	a.refreshAll()

	dialog.ShowInformation("Import Complete",
		fmt.Sprintf("Data imported successfully from backup created at %s.", backup.CreatedAt), a.window)
}
