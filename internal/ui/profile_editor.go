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

// showProfileManager lists built-in and custom settings profiles. Custom
// profiles can be edited, duplicated, deleted, imported and exported.
func (a *App) showProfileManager() {
	w := a.fyneApp.NewWindow("Settings Profiles")
	w.Resize(fyne.NewSize(700, 460))

	profiles := a.allProfiles()
	selectedIdx := -1

	detailContainer := container.NewVBox(widget.NewLabel("Select a profile to view details."))

	var listWidget *widget.List
	reload := func() {
		profiles = a.allProfiles()
		selectedIdx = -1
		listWidget.UnselectAll()
		listWidget.Refresh()
		detailContainer.RemoveAll()
		detailContainer.Add(widget.NewLabel("Select a profile to view details."))
		detailContainer.Refresh()
		a.refreshSettingsPanel()
	}

	listWidget = widget.NewList(
		func() int {
			return len(profiles)
		},
		func() fyne.CanvasObject {
			return container.NewHBox(
				widget.NewIcon(theme.DocumentIcon()),
				widget.NewLabel("Profile Name"),
				layout.NewSpacer(),
				widget.NewLabel("(built-in)"),
			)
		},
		func(id widget.ListItemID, obj fyne.CanvasObject) {
			box := obj.(*fyne.Container)
			p := profiles[id]
			box.Objects[1].(*widget.Label).SetText(p.Name)
			if p.IsBuiltIn {
				box.Objects[3].(*widget.Label).SetText("(built-in)")
			} else {
				box.Objects[3].(*widget.Label).SetText("(custom)")
			}
		},
	)

	listWidget.OnSelected = func(id widget.ListItemID) {
		selectedIdx = id
		a.showProfileDetail(detailContainer, profiles[id], w, reload)
	}

	selected := func(action string) (model.SettingsProfile, bool) {
		if selectedIdx < 0 || selectedIdx >= len(profiles) {
			dialog.ShowInformation("No Selection", "Select a profile to "+action+".", w)
			return model.SettingsProfile{}, false
		}
		return profiles[selectedIdx], true
	}

	newBtn := widget.NewButtonWithIcon("From Project", theme.ContentAddIcon(), func() {
		a.showEditProfileDialog(model.SettingsProfile{
			Name:        a.project.Name + " settings",
			Description: "Saved from project " + a.project.Name,
			Settings:    a.project.Settings,
		}, "", w, reload)
	})

	duplicateBtn := widget.NewButtonWithIcon("Duplicate", theme.ContentCopyIcon(), func() {
		p, ok := selected("duplicate")
		if !ok {
			return
		}
		dup := p
		dup.Name = p.Name + " (Copy)"
		dup.Description = "Copy of " + p.Name
		dup.IsBuiltIn = false
		a.showEditProfileDialog(dup, "", w, reload)
	})

	importBtn := widget.NewButtonWithIcon("Import", theme.FolderOpenIcon(), func() {
		a.importProfileDialog(w, reload)
	})

	exportBtn := widget.NewButtonWithIcon("Export", theme.DocumentSaveIcon(), func() {
		if p, ok := selected("export"); ok {
			a.exportProfileDialog(p, w)
		}
	})

	deleteBtn := widget.NewButtonWithIcon("Delete", theme.DeleteIcon(), func() {
		p, ok := selected("delete")
		if !ok {
			return
		}
		if p.IsBuiltIn {
			dialog.ShowInformation("Cannot Delete", "Built-in profiles cannot be deleted.", w)
			return
		}
		dialog.ShowConfirm("Delete Profile",
			fmt.Sprintf("Delete custom profile %q?", p.Name),
			func(ok bool) {
				if !ok {
					return
				}
				a.removeCustomProfile(p.Name)
				a.persistCustomProfiles(w)
				reload()
			},
			w,
		)
	})

	toolbar := container.NewHBox(newBtn, duplicateBtn, importBtn, exportBtn, deleteBtn)

	listPanel := container.NewBorder(boldLabel("Profiles"), toolbar, nil, nil, listWidget)
	detailPanel := container.NewBorder(boldLabel("Profile Details"), nil, nil, nil,
		container.NewVScroll(detailContainer))

	split := container.NewHSplit(listPanel, detailPanel)
	split.SetOffset(0.4)

	w.SetContent(split)
	w.Show()
}

func (a *App) showProfileDetail(c *fyne.Container, p model.SettingsProfile, w fyne.Window, onChanged func()) {
	c.RemoveAll()

	s := p.Settings
	cellSize := "auto"
	if s.GridCellSize > 0 {
		cellSize = fmt.Sprintf("%g", s.GridCellSize)
	}

	info := container.NewVBox(
		boldLabel(p.Name),
		widget.NewLabel(p.Description),
		widget.NewSeparator(),
		container.NewGridWithColumns(2,
			boldLabel("Algorithm:"), widget.NewLabel(algorithmLabel(s.Algorithm)),
			boldLabel("Scan Step:"), widget.NewLabel(fmt.Sprintf("%g", s.GridStep)),
			boldLabel("Unplaced Margin:"), widget.NewLabel(fmt.Sprintf("%g", s.SentinelMargin)),
			boldLabel("Index:"), widget.NewLabel(string(s.Index)),
			boldLabel("Cell Size:"), widget.NewLabel(cellSize),
		),
	)
	if s.Algorithm == model.AlgorithmGenetic {
		g := s.Genetic
		info.Add(widget.NewSeparator())
		info.Add(boldLabel("Genetic Search"))
		info.Add(container.NewGridWithColumns(2,
			widget.NewLabel("Population:"), widget.NewLabel(fmt.Sprintf("%d", g.PopulationSize)),
			widget.NewLabel("Generations:"), widget.NewLabel(fmt.Sprintf("%d", g.Generations)),
			widget.NewLabel("Mutation Rate:"), widget.NewLabel(fmt.Sprintf("%g", g.MutationRate)),
			widget.NewLabel("Seed:"), widget.NewLabel(fmt.Sprintf("%d", g.Seed)),
		))
	}

	applyBtn := widget.NewButtonWithIcon("Apply to Project", theme.ConfirmIcon(), func() {
		a.mutate("Apply Profile "+p.Name, func() {
			a.project.Settings = p.Settings
		})
	})
	applyBtn.Importance = widget.HighImportance
	buttons := container.NewHBox(applyBtn)

	if !p.IsBuiltIn {
		buttons.Add(widget.NewButtonWithIcon("Edit Profile", theme.DocumentCreateIcon(), func() {
			a.showEditProfileDialog(p, p.Name, w, onChanged)
		}))
	} else {
		c.Add(widget.NewLabel("Built-in profiles are read-only. Duplicate to customize."))
	}

	c.Add(buttons)
	c.Add(info)
	c.Refresh()
}

// showEditProfileDialog saves p as a custom profile, replacing the custom
// profile named original when it is not empty.
func (a *App) showEditProfileDialog(p model.SettingsProfile, original string, w fyne.Window, onSaved func()) {
	s := p.Settings

	nameEntry := widget.NewEntry()
	nameEntry.SetText(p.Name)
	descEntry := widget.NewEntry()
	descEntry.SetText(p.Description)

	algorithmSelect := widget.NewSelect(algorithmOptions, nil)
	algorithmSelect.SetSelected(algorithmLabel(s.Algorithm))
	indexSelect := widget.NewSelect(indexOptions, nil)
	if s.Index == model.IndexGrid {
		indexSelect.SetSelected("Grid")
	} else {
		indexSelect.SetSelected("List")
	}

	form := dialog.NewForm("Edit Profile", "Save", "Cancel",
		[]*widget.FormItem{
			widget.NewFormItem("Name", nameEntry),
			widget.NewFormItem("Description", descEntry),
			widget.NewFormItem("Algorithm", algorithmSelect),
			widget.NewFormItem("Scan Step", floatEntry(&s.GridStep)),
			widget.NewFormItem("Unplaced Margin", floatEntry(&s.SentinelMargin)),
			widget.NewFormItem("Index", indexSelect),
			widget.NewFormItem("Cell Size (0 = auto)", floatEntry(&s.GridCellSize)),
		},
		func(ok bool) {
			if !ok {
				return
			}
			name := strings.TrimSpace(nameEntry.Text)
			if name == "" {
				dialog.ShowError(fmt.Errorf("profile name cannot be empty"), w)
				return
			}
			if name != original && model.FindProfile(a.allProfiles(), name) != nil {
				dialog.ShowError(fmt.Errorf("a profile named %q already exists", name), w)
				return
			}

			s.Algorithm = model.AlgorithmFirstFit
			if algorithmSelect.Selected == algorithmOptions[1] {
				s.Algorithm = model.AlgorithmGenetic
			}
			s.Index = model.IndexKind(strings.ToLower(indexSelect.Selected))
			if err := s.Validate(); err != nil {
				dialog.ShowError(err, w)
				return
			}

			if original != "" {
				a.removeCustomProfile(original)
			}
			a.customProfiles = append(a.customProfiles, model.SettingsProfile{
				Name:        name,
				Description: descEntry.Text,
				Settings:    s,
			})
			a.persistCustomProfiles(w)
			onSaved()
		},
		w,
	)
	form.Resize(fyne.NewSize(440, 440))
	form.Show()
}

func (a *App) removeCustomProfile(name string) {
	kept := a.customProfiles[:0]
	for _, p := range a.customProfiles {
		if p.Name != name {
			kept = append(kept, p)
		}
	}
	a.customProfiles = kept
}

func (a *App) importProfileDialog(w fyne.Window, onImported func()) {
	dialog.ShowFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		defer reader.Close()

		profile, err := project.ImportProfile(reader.URI().Path())
		if err != nil {
			dialog.ShowError(fmt.Errorf("failed to import profile: %w", err), w)
			return
		}
		if model.FindProfile(a.allProfiles(), profile.Name) != nil {
			dialog.ShowError(fmt.Errorf("a profile named %q already exists", profile.Name), w)
			return
		}

		a.customProfiles = append(a.customProfiles, profile)
		a.persistCustomProfiles(w)
		onImported()
		dialog.ShowInformation("Import Complete",
			fmt.Sprintf("Profile %q imported successfully.", profile.Name), w)
	}, w)
}

func (a *App) exportProfileDialog(p model.SettingsProfile, w fyne.Window) {
	d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		path := writer.URI().Path()
		writer.Close()

		if err := project.ExportProfile(path, p); err != nil {
			dialog.ShowError(fmt.Errorf("failed to export profile: %w", err), w)
			return
		}
		dialog.ShowInformation("Export Complete",
			fmt.Sprintf("Profile %q exported successfully.", p.Name), w)
	}, w)
	d.SetFileName(strings.ReplaceAll(strings.ToLower(p.Name), " ", "_") + "_profile.json")
	d.Show()
}

func (a *App) persistCustomProfiles(w fyne.Window) {
	if err := project.SaveCustomProfiles(project.DefaultProfilesPath(), a.customProfiles); err != nil {
		dialog.ShowError(fmt.Errorf("failed to save profiles: %w", err), w)
	}
}
