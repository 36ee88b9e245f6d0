package ui

import (
	"fmt"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/piwi3910/BoxStack/internal/model"
	"github.com/piwi3910/BoxStack/internal/project"
)

// ─── Container Presets Dialog ──────────────────────────────

func (a *App) showContainerPresets() {
	presetList := container.NewVBox()
	var refreshList func()

	refreshList = func() {
		presetList.RemoveAll()

		if len(a.inventory.Containers) == 0 {
			presetList.Add(widget.NewLabel("No container presets defined."))
			return
		}

		presetList.Add(container.NewGridWithColumns(6,
			boldLabel("Name"),
			boldLabel("Size (W x H x D)"),
			boldLabel("Notes"),
			widget.NewLabel(""),
			widget.NewLabel(""),
			widget.NewLabel(""),
		))
		presetList.Add(widget.NewSeparator())

		for i := range a.inventory.Containers {
			idx := i
			c := a.inventory.Containers[idx]
			presetList.Add(container.NewGridWithColumns(6,
				widget.NewLabel(c.Name),
				widget.NewLabel(c.Dims.String()),
				widget.NewLabel(c.Notes),
				iconButton(theme.ConfirmIcon(), "Use for this project", func() {
					a.mutate("Use Container Preset", func() {
						a.project.Container = a.inventory.Containers[idx].ToContainer()
					})
				}),
				iconButton(theme.DocumentCreateIcon(), "Edit preset", func() {
					a.showPresetDialog(idx, refreshList)
				}),
				iconButton(theme.DeleteIcon(), "Delete preset", func() {
					a.inventory.Containers = append(a.inventory.Containers[:idx], a.inventory.Containers[idx+1:]...)
					a.persistInventory()
					refreshList()
					a.refreshContainerPanel()
				}),
			))
		}
	}

	refreshList()

	addBtn := widget.NewButtonWithIcon("Add Preset", theme.ContentAddIcon(), func() {
		a.showPresetDialog(-1, refreshList)
	})
	fromProjectBtn := widget.NewButtonWithIcon("Save Current Container", theme.DocumentSaveIcon(), func() {
		c := a.project.Container
		a.inventory.Containers = append(a.inventory.Containers,
			model.NewContainerPreset(c.Label, c.Dims.Width, c.Dims.Height, c.Dims.Depth, ""))
		a.persistInventory()
		refreshList()
		a.refreshContainerPanel()
	})
	importBtn := widget.NewButtonWithIcon("Import...", theme.FolderOpenIcon(), func() {
		a.importInventory(refreshList)
	})
	exportBtn := widget.NewButtonWithIcon("Export...", theme.DocumentSaveIcon(), a.exportInventory)

	toolbar := container.NewHBox(addBtn, fromProjectBtn, layout.NewSpacer(), importBtn, exportBtn)

	content := container.NewBorder(
		toolbar,
		nil, nil, nil,
		container.NewVScroll(presetList),
	)

	d := dialog.NewCustom("Container Presets", "Close", content, a.window)
	d.Resize(fyne.NewSize(760, 460))
	d.Show()
}

// showPresetDialog adds a preset when idx is negative and edits
// a.inventory.Containers[idx] otherwise.
func (a *App) showPresetDialog(idx int, onDone func()) {
	var preset model.ContainerPreset
	title, confirm := "Add Container Preset", "Add"
	if idx >= 0 {
		preset = a.inventory.Containers[idx]
		title, confirm = "Edit Container Preset", "Save"
	}

	nameEntry := widget.NewEntry()
	nameEntry.SetPlaceHolder("Preset name")
	nameEntry.SetText(preset.Name)
	widthEntry := dimEntry(preset.Dims.Width, "Width")
	heightEntry := dimEntry(preset.Dims.Height, "Height")
	depthEntry := dimEntry(preset.Dims.Depth, "Depth")
	notesEntry := widget.NewEntry()
	notesEntry.SetText(preset.Notes)

	form := dialog.NewForm(title, confirm, "Cancel",
		[]*widget.FormItem{
			widget.NewFormItem("Name", nameEntry),
			widget.NewFormItem("Width (X)", widthEntry),
			widget.NewFormItem("Height (Y)", heightEntry),
			widget.NewFormItem("Depth (Z)", depthEntry),
			widget.NewFormItem("Notes", notesEntry),
		},
		func(ok bool) {
			if !ok {
				return
			}
			name := strings.TrimSpace(nameEntry.Text)
			if name == "" {
				dialog.ShowError(fmt.Errorf("preset name cannot be empty"), a.window)
				return
			}
			dims, err := parseDims(widthEntry, heightEntry, depthEntry)
			if err != nil {
				dialog.ShowError(err, a.window)
				return
			}

			if idx < 0 {
				p := model.NewContainerPreset(name, dims.Width, dims.Height, dims.Depth, notesEntry.Text)
				a.inventory.Containers = append(a.inventory.Containers, p)
			} else {
				p := &a.inventory.Containers[idx]
				p.Name = name
				p.Dims = dims
				p.Notes = notesEntry.Text
			}
			a.persistInventory()
			onDone()
			a.refreshContainerPanel()
		},
		a.window,
	)
	form.Resize(fyne.NewSize(420, 360))
	form.Show()
}

func (a *App) importInventory(onDone func()) {
	d := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		defer reader.Close()

		before := len(a.inventory.Containers)
		inv, skipped, err := project.ImportInventory(reader.URI().Path(), a.inventory)
		if err != nil {
			dialog.ShowError(fmt.Errorf("failed to import presets: %w", err), a.window)
			return
		}
		a.inventory = inv
		a.persistInventory()
		onDone()
		a.refreshContainerPanel()

		msg := fmt.Sprintf("Imported %d container presets.", len(inv.Containers)-before)
		if skipped > 0 {
			msg += fmt.Sprintf("\n%d duplicates or invalid presets were skipped.", skipped)
		}
		dialog.ShowInformation("Import Complete", msg, a.window)
	}, a.window)
	d.Show()
}

func (a *App) exportInventory() {
	d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		path := writer.URI().Path()
		writer.Close()

		if err := project.SaveInventory(path, a.inventory); err != nil {
			dialog.ShowError(fmt.Errorf("failed to export presets: %w", err), a.window)
			return
		}
		dialog.ShowInformation("Export Complete", "Container presets exported.", a.window)
	}, a.window)
	d.SetFileName("boxstack-containers.json")
	d.Show()
}

func (a *App) persistInventory() {
	if a.inventoryPath == "" {
		return
	}
	if err := project.SaveInventory(a.inventoryPath, a.inventory); err != nil {
		dialog.ShowError(fmt.Errorf("failed to save container presets: %w", err), a.window)
	}
}
