package ui

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"
	"k8s.io/klog/v2"

	"github.com/piwi3910/BoxStack/internal/engine"
	partimporter "github.com/piwi3910/BoxStack/internal/importer"
	"github.com/piwi3910/BoxStack/internal/metrics"
	"github.com/piwi3910/BoxStack/internal/model"
	"github.com/piwi3910/BoxStack/internal/project"
)

const maxRecentProjects = 10

// Tab order in Build.
const (
	tabParts = iota
	tabContainer
	tabSettings
	tabResults
)

// App holds all application state and UI references.
type App struct {
	fyneApp     fyne.App
	window      fyne.Window
	project     model.Project
	projectPath string // "" until the project is saved or opened

	config         model.AppConfig
	configPath     string
	inventory      model.Inventory
	inventoryPath  string
	templates      model.TemplateStore
	customProfiles []model.SettingsProfile

	history *History
	metrics *metrics.Recorder
	theme   *BoxStackTheme
	logger  klog.Logger

	tabs *container.AppTabs

	// UI references for dynamic updates
	partsContainer     *fyne.Container
	containerContainer *fyne.Container
	settingsContainer  *fyne.Container
	resultContainer    *fyne.Container
}

// NewApp loads the stored preferences, container presets, templates and
// custom profiles. Unreadable stores are logged and replaced by defaults so
// the window always opens.
func NewApp(fyneApp fyne.App, window fyne.Window) *App {
	a := &App{
		fyneApp:    fyneApp,
		window:     window,
		configPath: project.DefaultConfigPath(),
		history:    NewHistory(),
		metrics:    metrics.NewRecorder(),
		logger:     klog.Background().WithName("ui"),
	}

	cfg, err := project.LoadAppConfig(a.configPath)
	if err != nil {
		a.logger.Error(err, "Loading preferences, using defaults", "path", a.configPath)
		cfg = model.DefaultAppConfig()
	}
	a.config = cfg

	inv, invPath, err := project.LoadOrCreateInventory()
	if err != nil {
		a.logger.Error(err, "Loading container presets, using defaults")
		inv = model.DefaultInventory()
	}
	a.inventory, a.inventoryPath = inv, invPath

	store, err := project.LoadTemplates(project.DefaultTemplatePath())
	if err != nil {
		a.logger.Error(err, "Loading templates")
		store = model.NewTemplateStore()
	}
	a.templates = store

	profiles, err := project.LoadCustomProfiles(project.DefaultProfilesPath())
	if err != nil {
		a.logger.Error(err, "Loading custom profiles")
	}
	a.customProfiles = profiles

	a.theme = NewBoxStackTheme(a.config.Theme)
	fyneApp.Settings().SetTheme(a.theme)

	a.project = a.newProject()
	return a
}

// newProject returns an empty project seeded from the preferences.
func (a *App) newProject() model.Project {
	proj := model.NewProject()
	a.config.ApplyToSettings(&proj.Settings)
	if a.config.DefaultContainer.Dims.Validate() == nil {
		proj.Container = a.config.DefaultContainer
	}
	return proj
}

// SetupMenus creates the native menu bar for the application.
func (a *App) SetupMenus() {
	recentItem := fyne.NewMenuItem("Open Recent", nil)
	recentItem.ChildMenu = a.recentMenu()

	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("New Project", func() {
			a.setProject(a.newProject(), "")
		}),
		fyne.NewMenuItem("New from Template...", a.showNewFromTemplateDialog),
		fyne.NewMenuItem("Open Project...", a.loadProject),
		recentItem,
		fyne.NewMenuItem("Save Project", a.saveProject),
		fyne.NewMenuItem("Save Project As...", a.saveProjectAs),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Import Parts...", a.importParts),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Export PDF Report...", a.exportPDF),
		fyne.NewMenuItem("Export DXF Layout...", a.exportDXF),
		fyne.NewMenuItem("Export STL Model...", a.exportSTL),
		fyne.NewMenuItem("Export Labels...", a.exportLabels),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Save as Template...", a.showSaveTemplateDialog),
		fyne.NewMenuItem("Manage Templates...", a.showTemplateManager),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Quit", func() {
			a.window.Close()
		}),
	)

	editMenu := fyne.NewMenu("Edit",
		fyne.NewMenuItem("Undo", a.undo),
		fyne.NewMenuItem("Redo", a.redo),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Clear All Parts", func() {
			a.mutate("Clear Parts", func() {
				a.project.Parts = []model.Part{}
			})
		}),
	)

	toolsMenu := fyne.NewMenu("Tools",
		fyne.NewMenuItem("Pack", a.runPack),
		fyne.NewMenuItem("Compare Scenarios...", a.showCompareDialog),
		fyne.NewMenuItem("Estimate Containers...", a.showEstimateDialog),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Container Presets...", a.showContainerPresets),
		fyne.NewMenuItem("Settings Profiles...", a.showProfileManager),
		fyne.NewMenuItem("Genetic Search Settings...", a.showAdvancedSettingsDialog),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Export Pack Metrics...", a.exportMetrics),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Preferences...", a.showPreferencesDialog),
		fyne.NewMenuItem("Import / Export Data...", a.showImportExportDialog),
	)

	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("About", a.showAboutDialog),
	)

	a.window.SetMainMenu(fyne.NewMainMenu(fileMenu, editMenu, toolsMenu, helpMenu))
}

func (a *App) recentMenu() *fyne.Menu {
	var items []*fyne.MenuItem
	for _, path := range a.config.RecentProjects {
		path := path
		items = append(items, fyne.NewMenuItem(filepath.Base(path), func() {
			a.openProjectPath(path)
		}))
	}
	if len(items) == 0 {
		none := fyne.NewMenuItem("No recent projects", nil)
		none.Disabled = true
		items = append(items, none)
	}
	return fyne.NewMenu("Open Recent", items...)
}

func (a *App) showAboutDialog() {
	dialog.ShowInformation(
		"About BoxStack",
		"BoxStack - 3D Container Stacking\n\n"+
			"Packs axis-aligned boxes into a container with a\n"+
			"deterministic first-fit scan or a genetic ordering search.\n\n"+
			"Version 1.0.0",
		a.window,
	)
}

// Build constructs the full UI and returns the root container.
func (a *App) Build() fyne.CanvasObject {
	partsTab := container.NewTabItem("Parts", a.buildPartsPanel())
	containerTab := container.NewTabItem("Container", a.buildContainerPanel())
	settingsTab := container.NewTabItem("Settings", a.buildSettingsPanel())
	resultsTab := container.NewTabItem("Results", a.buildResultsPanel())

	a.tabs = container.NewAppTabs(partsTab, containerTab, settingsTab, resultsTab)
	a.tabs.SetTabLocation(container.TabLocationTop)

	a.updateTitle()
	return a.tabs
}

// refreshAll redraws every panel from a.project.
func (a *App) refreshAll() {
	a.refreshPartsList()
	a.refreshContainerPanel()
	a.refreshSettingsPanel()
	a.refreshResults()
	a.updateTitle()
}

func (a *App) updateTitle() {
	title := "BoxStack - " + a.project.Name
	if a.projectPath != "" {
		title += " (" + filepath.Base(a.projectPath) + ")"
	}
	a.window.SetTitle(title)
}

// ─── Undo / Redo ───────────────────────────────────────────

// mutate records an undo point, applies fn, and drops results that no
// longer match the project.
func (a *App) mutate(label string, fn func()) {
	a.history.Push(MakeSnapshot(a.project, label))
	fn()
	a.project.Result = nil
	a.refreshAll()
}

func (a *App) undo() {
	snap, ok := a.history.Undo(MakeSnapshot(a.project, "current"))
	if !ok {
		return
	}
	snap.Restore(&a.project)
	a.refreshAll()
}

func (a *App) redo() {
	snap, ok := a.history.Redo(MakeSnapshot(a.project, "current"))
	if !ok {
		return
	}
	snap.Restore(&a.project)
	a.refreshAll()
}

// ─── Actions ───────────────────────────────────────────────

// runPack packs the project off the UI goroutine behind a progress dialog;
// the genetic search can take seconds on large part lists.
func (a *App) runPack() {
	if len(a.project.Parts) == 0 {
		dialog.ShowInformation("Nothing to pack", "Add at least one part first.", a.window)
		return
	}

	parts := copyParts(a.project.Parts)
	box := a.project.Container
	settings := a.project.Settings

	progress := dialog.NewCustomWithoutButtons("Packing",
		container.NewVBox(
			widget.NewLabel(fmt.Sprintf("Packing %d parts into %s...", len(parts), box.Label)),
			widget.NewProgressBarInfinite(),
		), a.window)
	progress.Show()

	go func() {
		start := time.Now()
		result, err := engine.New(settings).WithLogger(a.logger.WithName("packer")).Pack(parts, box)
		took := time.Since(start)

		fyne.Do(func() {
			progress.Hide()
			if err != nil {
				dialog.ShowError(err, a.window)
				return
			}
			a.metrics.Observe(result, settings.Algorithm, took)
			a.project.Result = &result
			a.refreshResults()
			a.tabs.SelectIndex(tabResults)
		})
	}()
}

func (a *App) setProject(proj model.Project, path string) {
	a.project = proj
	a.projectPath = path
	a.history.Clear()
	a.refreshAll()
}

func (a *App) saveProject() {
	if a.projectPath == "" {
		a.saveProjectAs()
		return
	}
	a.writeProject(a.projectPath)
}

func (a *App) saveProjectAs() {
	d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		defer writer.Close()

		path := writer.URI().Path()
		if !strings.HasSuffix(path, project.FileExtension) {
			path += project.FileExtension
		}
		a.writeProject(path)
	}, a.window)
	d.SetFileName(a.project.Name + project.FileExtension)
	d.SetFilter(storage.NewExtensionFileFilter([]string{project.FileExtension}))
	d.Show()
}

func (a *App) writeProject(path string) {
	if err := project.Save(path, a.project); err != nil {
		dialog.ShowError(err, a.window)
		return
	}
	a.logger.V(1).Info("Saved project", "path", path)
	a.projectPath = path
	a.rememberRecent(path)
	a.updateTitle()
}

func (a *App) loadProject() {
	d := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		defer reader.Close()
		a.openProjectPath(reader.URI().Path())
	}, a.window)
	d.SetFilter(storage.NewExtensionFileFilter([]string{project.FileExtension, ".json"}))
	d.Show()
}

func (a *App) openProjectPath(path string) {
	proj, err := project.Load(path)
	if err != nil {
		if errors.Is(err, project.ErrInvalidProject) {
			err = fmt.Errorf("%s is not a valid project: %w", filepath.Base(path), err)
		}
		dialog.ShowError(err, a.window)
		return
	}
	a.logger.V(1).Info("Opened project", "path", path, "parts", len(proj.Parts))
	a.setProject(proj, path)
	a.rememberRecent(path)
	if proj.Result != nil {
		a.tabs.SelectIndex(tabResults)
	}
}

func (a *App) rememberRecent(path string) {
	a.config.AddRecentProject(path, maxRecentProjects)
	a.saveConfig()
	a.SetupMenus()
}

func (a *App) saveConfig() {
	if err := project.SaveAppConfig(a.configPath, a.config); err != nil {
		a.logger.Error(err, "Saving preferences", "path", a.configPath)
	}
}

// importParts appends parts from a text, CSV or Excel file.
func (a *App) importParts() {
	d := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		defer reader.Close()
		path := reader.URI().Path()
		a.handleImportResult(path, partimporter.Import(path))
	}, a.window)
	d.SetFilter(storage.NewExtensionFileFilter([]string{".txt", ".csv", ".tsv", ".xlsx", ".xls"}))
	d.Show()
}

func (a *App) handleImportResult(path string, result partimporter.ImportResult) {
	for _, w := range result.Warnings {
		a.logger.V(1).Info("Import warning", "file", path, "warning", w)
	}

	if len(result.Parts) == 0 {
		msg := "No parts found in file."
		if len(result.Errors) > 0 {
			msg = strings.Join(result.Errors, "\n")
		}
		dialog.ShowError(errors.New(msg), a.window)
		return
	}

	a.mutate("Import Parts", func() {
		a.project.Parts = append(a.project.Parts, result.Parts...)
	})
	a.tabs.SelectIndex(tabParts)

	msg := fmt.Sprintf("Imported %d parts from %s.", len(result.Parts), filepath.Base(path))
	if len(result.Errors) > 0 {
		msg += fmt.Sprintf("\n\n%d rows were skipped:\n%s", len(result.Errors), strings.Join(result.Errors, "\n"))
	}
	dialog.ShowInformation("Import Complete", msg, a.window)
}

func (a *App) exportMetrics() {
	d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		path := writer.URI().Path()
		writer.Close()

		if err := a.metrics.WriteTextfile(path); err != nil {
			dialog.ShowError(fmt.Errorf("failed to write metrics: %w", err), a.window)
			return
		}
		dialog.ShowInformation("Export Complete", "Pack metrics written to "+filepath.Base(path), a.window)
	}, a.window)
	d.SetFileName("boxstack.prom")
	d.Show()
}
