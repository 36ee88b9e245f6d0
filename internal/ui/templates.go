package ui

import (
	"fmt"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/piwi3910/BoxStack/internal/model"
	"github.com/piwi3910/BoxStack/internal/project"
)

// showSaveTemplateDialog stores the current parts, container and settings
// as a reusable template.
func (a *App) showSaveTemplateDialog() {
	nameEntry := widget.NewEntry()
	nameEntry.SetText(a.project.Name)
	descEntry := widget.NewMultiLineEntry()
	descEntry.SetMinRowsVisible(3)

	form := dialog.NewForm("Save as Template", "Save", "Cancel",
		[]*widget.FormItem{
			widget.NewFormItem("Name", nameEntry),
			widget.NewFormItem("Description", descEntry),
		},
		func(ok bool) {
			if !ok {
				return
			}
			name := strings.TrimSpace(nameEntry.Text)
			if name == "" {
				dialog.ShowError(fmt.Errorf("template name cannot be empty"), a.window)
				return
			}
			save := func() {
				if existing := a.templates.FindByName(name); existing != nil {
					a.templates.Remove(existing.ID)
				}
				a.templates.Add(model.NewProjectTemplate(name, descEntry.Text,
					a.project.Parts, a.project.Container, a.project.Settings))
				a.persistTemplates()
			}
			if a.templates.FindByName(name) != nil {
				dialog.ShowConfirm("Replace Template",
					fmt.Sprintf("A template named %q exists. Replace it?", name),
					func(ok bool) {
						if ok {
							save()
						}
					}, a.window)
				return
			}
			save()
		},
		a.window,
	)
	form.Resize(fyne.NewSize(420, 280))
	form.Show()
}

func (a *App) showNewFromTemplateDialog() {
	names := a.templates.Names()
	if len(names) == 0 {
		dialog.ShowInformation("No Templates", "Use File > Save as Template to create one.", a.window)
		return
	}

	templateSelect := widget.NewSelect(names, nil)
	templateSelect.SetSelected(names[0])
	nameEntry := widget.NewEntry()
	nameEntry.SetText("Untitled")

	form := dialog.NewForm("New from Template", "Create", "Cancel",
		[]*widget.FormItem{
			widget.NewFormItem("Template", templateSelect),
			widget.NewFormItem("Project Name", nameEntry),
		},
		func(ok bool) {
			if !ok {
				return
			}
			t := a.templates.FindByName(templateSelect.Selected)
			if t == nil {
				return
			}
			name := strings.TrimSpace(nameEntry.Text)
			if name == "" {
				name = t.Name
			}
			a.setProject(t.ToProject(name), "")
		},
		a.window,
	)
	form.Resize(fyne.NewSize(400, 220))
	form.Show()
}

func (a *App) showTemplateManager() {
	list := container.NewVBox()
	var refresh func()
	refresh = func() {
		list.RemoveAll()
		if len(a.templates.Templates) == 0 {
			list.Add(widget.NewLabel("No templates saved."))
			return
		}
		for _, t := range a.templates.Templates {
			t := t
			list.Add(container.NewGridWithColumns(4,
				widget.NewLabel(t.Name),
				widget.NewLabel(fmt.Sprintf("%d parts, %s", len(t.Parts), t.Container.Dims.String())),
				widget.NewLabel(t.Description),
				iconButton(theme.DeleteIcon(), "Delete template", func() {
					a.templates.Remove(t.ID)
					a.persistTemplates()
					refresh()
				}),
			))
		}
	}
	refresh()

	d := dialog.NewCustom("Templates", "Close", container.NewVScroll(list), a.window)
	d.Resize(fyne.NewSize(600, 360))
	d.Show()
}

func (a *App) persistTemplates() {
	if err := project.SaveTemplates(project.DefaultTemplatePath(), a.templates); err != nil {
		dialog.ShowError(fmt.Errorf("failed to save templates: %w", err), a.window)
	}
}
