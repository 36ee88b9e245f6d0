package ui

import (
	"fmt"
	"path/filepath"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"

	"github.com/piwi3910/BoxStack/internal/export"
	"github.com/piwi3910/BoxStack/internal/model"
)

// exportResult asks for a destination and hands the current result to write.
func (a *App) exportResult(kind, ext string, write func(path string, result model.PackResult) error) {
	if a.project.Result == nil {
		dialog.ShowInformation("No results", "Run Pack before exporting.", a.window)
		return
	}
	result := *a.project.Result

	d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		path := writer.URI().Path()
		// The exporters create the file themselves.
		writer.Close()
		if !strings.EqualFold(filepath.Ext(path), ext) {
			path += ext
		}

		if err := write(path, result); err != nil {
			dialog.ShowError(fmt.Errorf("failed to export %s: %w", kind, err), a.window)
			return
		}
		a.logger.V(1).Info("Exported result", "kind", kind, "path", path)
		dialog.ShowInformation("Export Complete", fmt.Sprintf("%s saved to %s", kind, filepath.Base(path)), a.window)
	}, a.window)
	d.SetFileName(a.project.Name + ext)
	d.SetFilter(storage.NewExtensionFileFilter([]string{ext}))
	d.Show()
}

func (a *App) exportPDF() {
	settings := a.project.Settings
	a.exportResult("PDF report", ".pdf", func(path string, result model.PackResult) error {
		return export.ExportPDF(path, result, settings)
	})
}

func (a *App) exportDXF() {
	a.exportResult("DXF layout", ".dxf", export.ExportDXF)
}

func (a *App) exportSTL() {
	a.exportResult("STL model", ".stl", export.ExportSTL)
}

func (a *App) exportLabels() {
	a.exportResult("Labels", ".pdf", export.ExportLabels)
}
