// Package main provides the entry point for the Curve Viewer application.
package main

import (
	"log"

	"curve-viewer/internal/app"
	"curve-viewer/internal/dataset"
	"curve-viewer/internal/version"
	"curve-viewer/ui/canvas"
	"curve-viewer/ui/mainwindow"
	"curve-viewer/ui/prefs"

	fyneapp "fyne.io/fyne/v2/app"
	"github.com/sgostarter/i/l"
)

const appTitle = "Curve Viewer"

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Printf("Starting %s v%s", appTitle, version.Version)

	a := fyneapp.NewWithID("curve-viewer")
	a.Settings().SetTheme(&app.CurveViewerTheme{})

	appPrefs := prefs.Load()
	interval, delay := appPrefs.HoverThrottle()

	// Spectra are conventionally drawn with x decreasing to the right.
	plot := canvas.NewCurvePlot(true, interval, delay)
	appState := app.NewState(plot, appPrefs.ViewerSettings(), l.NewConsoleLoggerWrapper())
	plot.SetHandler(appState)

	win := mainwindow.New(a, appState, plot, appPrefs)
	appState.LoadDataset(dataset.GenerateSpectra(dataset.DefaultSyntheticOptions()))
	win.AddDemoMarking(1600, 1800)

	win.ShowAndRun()
}
