// Package mainwindow provides the main application window.
package mainwindow

import (
	"errors"
	"fmt"
	"log"
	"path/filepath"

	"curve-viewer/internal/app"
	"curve-viewer/internal/dataset"
	"curve-viewer/internal/version"
	"curve-viewer/internal/view"
	"curve-viewer/ui/canvas"
	"curve-viewer/ui/prefs"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"
)

// MainWindow is the primary application window.
type MainWindow struct {
	fyne.Window
	app       fyne.App
	state     *app.State
	prefs     *prefs.Prefs
	plot      *canvas.CurvePlot
	statusBar *widget.Label
	modeLabel *widget.Label

	// Menu items that need state tracking
	mainMenu         *fyne.MainMenu
	snapItem         *fyne.MenuItem
	showLocationItem *fyne.MenuItem
	markClosestItem  *fyne.MenuItem

	demoSeed int64
}

// New creates a new main window around a plot already wired to state.
func New(fyneApp fyne.App, state *app.State, plot *canvas.CurvePlot, p *prefs.Prefs) *MainWindow {
	win := fyneApp.NewWindow("Curve Viewer")

	mw := &MainWindow{
		Window:   win,
		app:      fyneApp,
		state:    state,
		prefs:    p,
		plot:     plot,
		demoSeed: dataset.DefaultSyntheticOptions().Seed,
	}

	mw.setupUI()
	mw.setupMenus()
	mw.setupShortcuts()
	mw.setupEventHandlers()

	return mw
}

// setupUI creates the main UI layout.
func (mw *MainWindow) setupUI() {
	mw.statusBar = widget.NewLabel("No selection")
	mw.modeLabel = widget.NewLabel(view.ModePanning.String())

	toolbar := container.NewHBox(
		widget.NewButton("Zoom", mw.state.EnterZoomMode),
		widget.NewButton("Fit", mw.state.FitView),
		widget.NewButton("Back", mw.state.ZoomBack),
		widget.NewButton("Forward", mw.state.ZoomForward),
	)

	content := container.NewBorder(
		toolbar, // top
		container.NewPadded(container.NewBorder(nil, nil, nil, mw.modeLabel, mw.statusBar)), // bottom
		nil,     // left
		nil,     // right
		mw.plot, // center
	)

	mw.SetContent(content)
	mw.Resize(fyne.NewSize(1000, 650))
}

// setupMenus creates the application menus.
func (mw *MainWindow) setupMenus() {
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("Load Demo Spectra", mw.onLoadDemo),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Export PNG...", mw.onExportPNG),
	)

	dataMenu := fyne.NewMenu("Data",
		fyne.NewMenuItem("Subset: Every Other Curve", mw.onSubsetAlternate),
		fyne.NewMenuItem("Clear Subset", func() { mw.state.SetSubset(nil) }),
	)

	cfg := mw.state.Config()
	zoomIn := fyne.NewMenuItem("Zoom In", mw.state.EnterZoomMode)
	zoomIn.Shortcut = zoomShortcut
	fit := fyne.NewMenuItem("Fit in View", mw.state.FitView)
	fit.Shortcut = fitShortcut
	mw.snapItem = fyne.NewMenuItem("Snap Crosshair", func() {
		mw.toggle(func(c *view.Config) { c.Snap = !c.Snap })
	})
	mw.showLocationItem = fyne.NewMenuItem("Show Location", func() {
		mw.toggle(func(c *view.Config) { c.ShowLocation = !c.ShowLocation })
	})
	mw.markClosestItem = fyne.NewMenuItem("Mark Closest Curve", func() {
		mw.toggle(func(c *view.Config) { c.MarkClosest = !c.MarkClosest })
	})
	mw.syncToggles(cfg)

	viewMenu := fyne.NewMenu("View",
		zoomIn,
		fit,
		fyne.NewMenuItem("Zoom Back", mw.state.ZoomBack),
		fyne.NewMenuItem("Zoom Forward", mw.state.ZoomForward),
		fyne.NewMenuItemSeparator(),
		mw.snapItem,
		mw.showLocationItem,
		mw.markClosestItem,
	)

	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("About", mw.onAbout),
	)

	mw.mainMenu = fyne.NewMainMenu(fileMenu, dataMenu, viewMenu, helpMenu)
	mw.SetMainMenu(mw.mainMenu)
}

var (
	zoomShortcut = &desktop.CustomShortcut{KeyName: fyne.KeyEqual, Modifier: fyne.KeyModifierShortcutDefault}
	fitShortcut  = &desktop.CustomShortcut{KeyName: fyne.Key0, Modifier: fyne.KeyModifierShortcutDefault}
)

// setupShortcuts binds the keyboard shortcuts. Z and Backspace work without
// modifiers.
func (mw *MainWindow) setupShortcuts() {
	c := mw.Canvas()
	c.AddShortcut(zoomShortcut, func(fyne.Shortcut) { mw.state.EnterZoomMode() })
	c.AddShortcut(fitShortcut, func(fyne.Shortcut) { mw.state.FitView() })
	c.SetOnTypedKey(func(ev *fyne.KeyEvent) {
		switch ev.Name {
		case fyne.KeyZ:
			mw.state.EnterZoomMode()
		case fyne.KeyBackspace:
			mw.state.FitView()
		}
	})
}

// setupEventHandlers registers for application events.
func (mw *MainWindow) setupEventHandlers() {
	mw.state.On(app.EventSelectionChanged, func(interface{}) {
		mw.updateStatus(selectionText(mw.state.SelectionOutput()))
	})

	mw.state.On(app.EventModeChanged, func(data interface{}) {
		if m, ok := data.(view.Mode); ok {
			mw.modeLabel.SetText(m.String())
		}
	})

	mw.state.On(app.EventDatasetLoaded, func(data interface{}) {
		if d, ok := data.(*dataset.Dataset); ok {
			mw.SetTitle(fmt.Sprintf("Curve Viewer - %d curves", d.Len()))
		}
	})

	mw.state.On(app.EventConfigChanged, func(data interface{}) {
		if cfg, ok := data.(view.Config); ok {
			mw.syncToggles(cfg)
		}
	})

	mw.state.On(app.EventMarkingChanged, func(data interface{}) {
		if m, ok := data.(*view.Marking); ok {
			lo, hi := m.Range()
			log.Printf("marking %q: %g .. %g", m.Name, lo, hi)
		}
	})
}

// AddDemoMarking adds a range-select region to the plot.
func (mw *MainWindow) AddDemoMarking(lo, hi float64) *view.Marking {
	m := view.NewMarking("region", lo, hi)
	mw.state.AddMarking(m)
	return m
}

// selectionText describes the selection for the status bar.
func selectionText(curves []*dataset.Curve) string {
	switch len(curves) {
	case 0:
		return "No selection"
	case 1:
		return fmt.Sprintf("Selected curve %d (row %d)", curves[0].ID, curves[0].Row)
	default:
		return fmt.Sprintf("%d curves selected", len(curves))
	}
}

// updateStatus updates the status bar text.
func (mw *MainWindow) updateStatus(text string) {
	mw.statusBar.SetText(text)
}

func (mw *MainWindow) toggle(change func(c *view.Config)) {
	cfg := mw.state.Config()
	change(&cfg)
	mw.state.SetConfig(cfg)
	mw.prefs.SetViewerSettings(cfg)
	if err := mw.prefs.Save(); err != nil {
		log.Printf("Failed to save preferences: %v", err)
	}
}

func (mw *MainWindow) syncToggles(cfg view.Config) {
	mw.snapItem.Checked = cfg.Snap
	mw.showLocationItem.Checked = cfg.ShowLocation
	mw.markClosestItem.Checked = cfg.MarkClosest
	if mw.mainMenu != nil {
		mw.mainMenu.Refresh()
	}
}

// Menu action handlers

func (mw *MainWindow) onLoadDemo() {
	mw.demoSeed++
	opts := dataset.DefaultSyntheticOptions()
	opts.Seed = mw.demoSeed
	mw.state.LoadDataset(dataset.GenerateSpectra(opts))
}

func (mw *MainWindow) onSubsetAlternate() {
	d := mw.state.Dataset()
	var ids []dataset.ID
	for i, c := range d.Curves() {
		if i%2 == 0 {
			ids = append(ids, c.ID)
		}
	}
	mw.state.SetSubset(ids)
}

func (mw *MainWindow) onExportPNG() {
	fd := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil {
			dialog.ShowError(err, mw.Window)
			return
		}
		if writer == nil {
			return
		}
		defer writer.Close()

		curves, pens, visible := mw.plot.Snapshot()
		opts := canvas.DefaultExportOptions()
		opts.InvertX = true
		opts.XLabel = "wavenumber"
		if err := canvas.ExportPNG(writer, curves, pens, visible, opts); err != nil {
			if errors.Is(err, canvas.ErrNothingVisible) {
				mw.updateStatus("Nothing to export in the visible range")
				return
			}
			dialog.ShowError(err, mw.Window)
			return
		}
		mw.prefs.SetString(prefs.KeyLastExportDir, filepath.Dir(writer.URI().Path()))
		if err := mw.prefs.Save(); err != nil {
			log.Printf("Failed to save preferences: %v", err)
		}
		mw.updateStatus("Exported " + writer.URI().Name())
	}, mw.Window)
	fd.SetFileName("curves.png")
	if dir := mw.lastExportDir(); dir != nil {
		fd.SetLocation(dir)
	}
	fd.Show()
}

// lastExportDir returns the last export directory as a ListableURI, or nil.
func (mw *MainWindow) lastExportDir() fyne.ListableURI {
	path := mw.prefs.String(prefs.KeyLastExportDir)
	if path == "" {
		return nil
	}
	listable, err := storage.ListerForURI(storage.NewFileURI(path))
	if err != nil {
		return nil
	}
	return listable
}

func (mw *MainWindow) onAbout() {
	dialog.ShowInformation("About Curve Viewer",
		fmt.Sprintf("Curve Viewer v%s\n\n"+
			"Interactive viewer for many curves on a shared axis.\n\n"+
			"Hover to highlight, click to select, Ctrl+click to add.\n"+
			"Z zooms to a rectangle, Backspace fits the view.\n\n"+
			"Built: %s\n"+
			"Commit: %s",
			version.Version, version.BuildTime, version.GitCommit),
		mw.Window)
}
