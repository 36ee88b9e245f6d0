package ui

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/piwi3910/BoxStack/internal/model"
	"github.com/piwi3910/BoxStack/internal/ui/widgets"
)

func boldLabel(text string) *widget.Label {
	return widget.NewLabelWithStyle(text, fyne.TextAlignLeading, fyne.TextStyle{Bold: true})
}

// parseDims reads three strictly positive dimensions from entries.
func parseDims(w, h, d *widget.Entry) (model.Dimensions, error) {
	width, _ := strconv.ParseFloat(strings.TrimSpace(w.Text), 64)
	height, _ := strconv.ParseFloat(strings.TrimSpace(h.Text), 64)
	depth, _ := strconv.ParseFloat(strings.TrimSpace(d.Text), 64)
	return model.NewDimensions(width, height, depth)
}

func dimEntry(v float64, placeholder string) *widget.Entry {
	e := widget.NewEntry()
	e.SetPlaceHolder(placeholder)
	if v > 0 {
		e.SetText(strconv.FormatFloat(v, 'g', -1, 64))
	}
	return e
}

// ─── Parts Panel ───────────────────────────────────────────

func (a *App) buildPartsPanel() fyne.CanvasObject {
	a.partsContainer = container.NewVBox()
	a.refreshPartsList()

	addBtn := widget.NewButtonWithIcon("Add Part", theme.ContentAddIcon(), a.showAddPartDialog)
	importBtn := toolbarButton("Import", theme.FolderOpenIcon(),
		"Append parts from a .txt, .csv or .xlsx list", a.importParts)
	packBtn := toolbarButton("Pack", theme.MediaPlayIcon(),
		"Stack the parts into the container", a.runPack)
	packBtn.Importance = widget.HighImportance

	return container.NewBorder(
		container.NewHBox(
			boldLabel("Parts"),
			layout.NewSpacer(),
			importBtn,
			addBtn,
			packBtn,
		),
		nil, nil, nil,
		container.NewVScroll(a.partsContainer),
	)
}

func (a *App) refreshPartsList() {
	if a.partsContainer == nil {
		return
	}
	a.partsContainer.RemoveAll()

	if len(a.project.Parts) == 0 {
		a.partsContainer.Add(widget.NewLabel("No parts added yet. Click 'Add Part' or 'Import' to begin."))
		return
	}

	header := container.NewGridWithColumns(8,
		boldLabel("Label"),
		boldLabel("Width"),
		boldLabel("Height"),
		boldLabel("Depth"),
		boldLabel("Qty"),
		boldLabel("Color"),
		widget.NewLabel(""),
		widget.NewLabel(""),
	)
	a.partsContainer.Add(header)
	a.partsContainer.Add(widget.NewSeparator())

	for i := range a.project.Parts {
		idx := i
		p := a.project.Parts[idx]
		row := container.NewGridWithColumns(8,
			widget.NewLabel(p.Label),
			widget.NewLabel(fmt.Sprintf("%g", p.Dims.Width)),
			widget.NewLabel(fmt.Sprintf("%g", p.Dims.Height)),
			widget.NewLabel(fmt.Sprintf("%g", p.Dims.Depth)),
			widget.NewLabel(fmt.Sprintf("%d", p.Copies())),
			colorSwatch(p.Color),
			iconButton(theme.DocumentCreateIcon(), "Edit part", func() {
				a.showEditPartDialog(idx)
			}),
			iconButton(theme.DeleteIcon(), "Delete part", func() {
				a.mutate("Delete Part", func() {
					a.project.Parts = append(a.project.Parts[:idx], a.project.Parts[idx+1:]...)
				})
			}),
		)
		a.partsContainer.Add(row)
	}

	a.partsContainer.Add(widget.NewSeparator())
	total := 0
	for _, p := range a.project.Parts {
		total += p.Copies()
	}
	a.partsContainer.Add(widget.NewLabel(fmt.Sprintf("%d part types, %d instances", len(a.project.Parts), total)))
}

func colorSwatch(hex string) fyne.CanvasObject {
	fill := color.NRGBA{R: 160, G: 160, B: 160, A: 255}
	if r, g, b, err := model.ParseHexColor(hex); err == nil {
		fill = color.NRGBA{R: r, G: g, B: b, A: 255}
	}
	swatch := canvas.NewRectangle(fill)
	swatch.SetMinSize(fyne.NewSize(18, 18))
	return container.NewHBox(swatch, widget.NewLabel(hex))
}

// partForm holds the entries shared by the add and edit dialogs.
type partForm struct {
	label, width, height, depth, qty, color *widget.Entry
}

func newPartForm(p model.Part) partForm {
	f := partForm{
		label:  widget.NewEntry(),
		width:  dimEntry(p.Dims.Width, "Width"),
		height: dimEntry(p.Dims.Height, "Height"),
		depth:  dimEntry(p.Dims.Depth, "Depth"),
		qty:    widget.NewEntry(),
		color:  widget.NewEntry(),
	}
	f.label.SetPlaceHolder("Part name")
	f.label.SetText(p.Label)
	f.qty.SetText(strconv.Itoa(p.Copies()))
	f.color.SetPlaceHolder("#rrggbb")
	f.color.SetText(p.Color)
	return f
}

func (f partForm) items() []*widget.FormItem {
	return []*widget.FormItem{
		widget.NewFormItem("Label", f.label),
		widget.NewFormItem("Width", f.width),
		widget.NewFormItem("Height", f.height),
		widget.NewFormItem("Depth", f.depth),
		widget.NewFormItem("Quantity", f.qty),
		widget.NewFormItem("Color", f.color),
	}
}

// apply validates the entries and writes them into p.
func (f partForm) apply(p *model.Part) error {
	dims, err := parseDims(f.width, f.height, f.depth)
	if err != nil {
		return err
	}
	q, err := strconv.Atoi(strings.TrimSpace(f.qty.Text))
	if err != nil || q <= 0 {
		return fmt.Errorf("quantity must be a whole number > 0")
	}
	col := strings.ToLower(strings.TrimSpace(f.color.Text))
	if col != "" {
		if _, _, _, err := model.ParseHexColor(col); err != nil {
			return err
		}
	}

	p.Label = strings.TrimSpace(f.label.Text)
	p.Dims = dims
	p.Quantity = q
	if col != "" {
		p.Color = col
	}
	return nil
}

func (a *App) showAddPartDialog() {
	part := model.NewPart(fmt.Sprintf("Part %d", len(a.project.Parts)+1), 0, 0, 0, 1)
	f := newPartForm(part)

	form := dialog.NewForm("Add Part", "Add", "Cancel", f.items(),
		func(ok bool) {
			if !ok {
				return
			}
			if err := f.apply(&part); err != nil {
				dialog.ShowError(err, a.window)
				return
			}
			a.mutate("Add Part", func() {
				a.project.Parts = append(a.project.Parts, part)
			})
		},
		a.window,
	)
	form.Resize(fyne.NewSize(400, 380))
	form.Show()
}

func (a *App) showEditPartDialog(idx int) {
	part := a.project.Parts[idx]
	f := newPartForm(part)

	form := dialog.NewForm("Edit Part", "Save", "Cancel", f.items(),
		func(ok bool) {
			if !ok {
				return
			}
			if err := f.apply(&part); err != nil {
				dialog.ShowError(err, a.window)
				return
			}
			a.mutate("Edit Part", func() {
				a.project.Parts[idx] = part
			})
		},
		a.window,
	)
	form.Resize(fyne.NewSize(400, 380))
	form.Show()
}

// ─── Container Panel ───────────────────────────────────────

func (a *App) buildContainerPanel() fyne.CanvasObject {
	a.containerContainer = container.NewVBox()
	a.refreshContainerPanel()
	return container.NewVScroll(a.containerContainer)
}

func (a *App) refreshContainerPanel() {
	if a.containerContainer == nil {
		return
	}
	a.containerContainer.RemoveAll()

	c := a.project.Container
	labelEntry := widget.NewEntry()
	labelEntry.SetText(c.Label)
	widthEntry := dimEntry(c.Dims.Width, "Width")
	heightEntry := dimEntry(c.Dims.Height, "Height")
	depthEntry := dimEntry(c.Dims.Depth, "Depth")

	presetSelect := widget.NewSelect(a.inventory.ContainerNames(), func(selected string) {
		preset := a.inventory.FindContainerByName(selected)
		if preset == nil {
			return
		}
		a.mutate("Use Container Preset", func() {
			a.project.Container = preset.ToContainer()
		})
	})
	presetSelect.PlaceHolder = "Select a preset..."

	applyBtn := widget.NewButtonWithIcon("Apply", theme.ConfirmIcon(), func() {
		dims, err := parseDims(widthEntry, heightEntry, depthEntry)
		if err != nil {
			dialog.ShowError(err, a.window)
			return
		}
		a.mutate("Edit Container", func() {
			a.project.Container = model.Container{Label: strings.TrimSpace(labelEntry.Text), Dims: dims}
		})
	})
	applyBtn.Importance = widget.HighImportance

	manageBtn := widget.NewButtonWithIcon("Manage Presets", theme.SettingsIcon(), a.showContainerPresets)

	a.containerContainer.Add(widget.NewCard("Container", "Parts are stacked from the origin corner; Y is up",
		container.NewVBox(
			container.NewGridWithColumns(2,
				widget.NewLabel("Preset"), container.NewBorder(nil, nil, nil, manageBtn, presetSelect),
				widget.NewLabel("Label"), labelEntry,
				widget.NewLabel("Width (X)"), widthEntry,
				widget.NewLabel("Height (Y)"), heightEntry,
				widget.NewLabel("Depth (Z)"), depthEntry,
			),
			container.NewHBox(layout.NewSpacer(), applyBtn),
		)))

	a.containerContainer.Add(widget.NewCard("Summary", "", container.NewGridWithColumns(2,
		widget.NewLabel("Dimensions"), widget.NewLabel(c.Dims.String()),
		widget.NewLabel("Volume"), widget.NewLabel(fmt.Sprintf("%g", c.Dims.Volume())),
	)))
}

// ─── Settings Panel ────────────────────────────────────────

var algorithmOptions = []string{"First Fit (Fast)", "Genetic Search (Denser)"}

func algorithmLabel(alg model.Algorithm) string {
	if alg == model.AlgorithmGenetic {
		return algorithmOptions[1]
	}
	return algorithmOptions[0]
}

var indexOptions = []string{"List", "Grid"}

func (a *App) buildSettingsPanel() fyne.CanvasObject {
	a.settingsContainer = container.NewVBox()
	a.refreshSettingsPanel()
	return container.NewVScroll(a.settingsContainer)
}

// floatEntry binds an entry to *val; unparsable text leaves val unchanged.
func floatEntry(val *float64) *widget.Entry {
	e := widget.NewEntry()
	e.SetText(strconv.FormatFloat(*val, 'g', -1, 64))
	e.OnChanged = func(text string) {
		if v, err := strconv.ParseFloat(strings.TrimSpace(text), 64); err == nil {
			*val = v
		}
	}
	return e
}

func intEntry(val *int) *widget.Entry {
	e := widget.NewEntry()
	e.SetText(strconv.Itoa(*val))
	e.OnChanged = func(text string) {
		if v, err := strconv.Atoi(strings.TrimSpace(text)); err == nil {
			*val = v
		}
	}
	return e
}

func (a *App) refreshSettingsPanel() {
	if a.settingsContainer == nil {
		return
	}
	a.settingsContainer.RemoveAll()
	s := &a.project.Settings

	algorithmSelect := widget.NewSelect(algorithmOptions, func(selected string) {
		if selected == algorithmOptions[1] {
			s.Algorithm = model.AlgorithmGenetic
		} else {
			s.Algorithm = model.AlgorithmFirstFit
		}
	})
	algorithmSelect.SetSelected(algorithmLabel(s.Algorithm))

	indexSelect := widget.NewSelect(indexOptions, func(selected string) {
		s.Index = model.IndexKind(strings.ToLower(selected))
	})
	if s.Index == model.IndexGrid {
		indexSelect.SetSelected("Grid")
	} else {
		indexSelect.SetSelected("List")
	}

	geneticBtn := widget.NewButtonWithIcon("Genetic Settings", theme.SettingsIcon(), a.showAdvancedSettingsDialog)

	packerSection := widget.NewCard("Packer", "", container.NewGridWithColumns(2,
		widget.NewLabel("Profile"), a.buildProfileSelector(),
		widget.NewLabel("Algorithm"), container.NewBorder(nil, nil, nil, geneticBtn, algorithmSelect),
		widget.NewLabel("Scan Step"), floatEntry(&s.GridStep),
		widget.NewLabel("Unplaced Margin"), floatEntry(&s.SentinelMargin),
	))

	indexSection := widget.NewCard("Occupancy Index", "Grid hashes regions into cells; list scans every region",
		container.NewGridWithColumns(2,
			widget.NewLabel("Index"), indexSelect,
			widget.NewLabel("Cell Size (0 = auto)"), floatEntry(&s.GridCellSize),
		))

	a.settingsContainer.Add(packerSection)
	a.settingsContainer.Add(indexSection)
}

// buildProfileSelector copies a profile's settings into the project.
func (a *App) buildProfileSelector() *widget.Select {
	profiles := a.allProfiles()
	names := make([]string, len(profiles))
	for i, p := range profiles {
		names[i] = p.Name
	}
	selector := widget.NewSelect(names, func(selected string) {
		p := model.FindProfile(profiles, selected)
		if p == nil {
			return
		}
		a.mutate("Apply Profile "+p.Name, func() {
			a.project.Settings = p.Settings
		})
	})
	selector.PlaceHolder = "Apply a profile..."
	return selector
}

func (a *App) allProfiles() []model.SettingsProfile {
	return append(model.BuiltInProfiles(), a.customProfiles...)
}

// ─── Results Panel ─────────────────────────────────────────

func (a *App) buildResultsPanel() fyne.CanvasObject {
	a.resultContainer = container.NewStack()
	a.refreshResults()
	return a.resultContainer
}

func (a *App) refreshResults() {
	if a.resultContainer == nil {
		return
	}
	a.resultContainer.RemoveAll()
	a.resultContainer.Add(widgets.RenderResults(a.project.Result))
	a.resultContainer.Refresh()
}
