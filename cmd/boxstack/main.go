// BoxStack - 3D container stacking
//
// A cross-platform desktop application that stacks axis-aligned boxes
// into a container and exports the layout as PDF, DXF, STL and labels.
//
// Build:
//   go build -o boxstack ./cmd/boxstack
//
// Using fyne-cross for packaging:
//   fyne-cross windows -arch=amd64
//   fyne-cross darwin  -arch=amd64,arm64

package main

import (
	"flag"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	fynetooltip "github.com/dweymouth/fyne-tooltip"
	"k8s.io/klog/v2"

	"github.com/piwi3910/BoxStack/internal/ui"
)

func main() {
	klog.InitFlags(nil)
	flag.Parse()
	defer klog.Flush()

	application := app.NewWithID("com.piwi3910.boxstack")
	window := application.NewWindow("BoxStack")

	appUI := ui.NewApp(application, window)
	appUI.SetupMenus()
	window.SetContent(fynetooltip.AddWindowToolTipLayer(appUI.Build(), window.Canvas()))
	window.Resize(fyne.NewSize(1200, 780))
	window.CenterOnScreen()
	window.ShowAndRun()
}
