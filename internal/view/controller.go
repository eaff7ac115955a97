// Package view implements the interaction core of the curve plot: hover
// highlighting, click selection, and the pan/zoom mode machine with its
// zoom history.
package view

import (
	"fmt"

	"curve-viewer/internal/dataset"
	"curve-viewer/internal/spatial"
	"curve-viewer/pkg/geometry"

	"github.com/sgostarter/i/l"
)

// Config holds the user-tunable behaviour of the controller.
type Config struct {
	HoverRadius  float64 // pixels within which a curve counts as hovered
	Snap         bool    // snap the crosshair to the hovered sample
	ShowLocation bool    // report the pointer position through SetLabel
	MarkClosest  bool    // highlight the curve under the pointer
	HistoryLimit int     // zoom rectangles kept; <= 0 keeps all
}

// DefaultConfig returns the settings used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		HoverRadius:  20,
		Snap:         true,
		ShowLocation: true,
		MarkClosest:  true,
		HistoryLimit: 64,
	}
}

// SelectionListener receives the source rows of the selected curves in
// ascending order. An empty slice means nothing is selected.
type SelectionListener func(rows []int)

// Controller owns the interaction state of one plot. It is not safe for
// concurrent use; the host must serialize every call.
type Controller struct {
	logger   l.Wrapper
	cfg      Config
	renderer Renderer

	onSelection []SelectionListener

	data        *dataset.Dataset
	mode        Mode
	anchor      *geometry.Point2D
	history     *ZoomHistory
	highlighted int // index into data, -1 when nothing is hovered
	markings    []*Marking
}

// NewController returns a controller in panning mode with no dataset.
func NewController(renderer Renderer, cfg Config, logger l.Wrapper) *Controller {
	if logger == nil {
		logger = l.NewNopLoggerWrapper()
	}
	if renderer == nil {
		logger.Fatal("no renderer")
	}

	return &Controller{
		logger:      logger.WithFields(l.StringField(l.ClsKey, "viewController")),
		cfg:         cfg,
		renderer:    renderer,
		history:     NewZoomHistory(cfg.HistoryLimit),
		highlighted: -1,
	}
}

// OnSelectionChanged registers a selection listener.
func (c *Controller) OnSelectionChanged(fn SelectionListener) {
	c.onSelection = append(c.onSelection, fn)
}

// Config returns the active configuration.
func (c *Controller) Config() Config {
	return c.cfg
}

// SetConfig replaces the configuration. The zoom history keeps its entries
// but adopts the new limit on the next push.
func (c *Controller) SetConfig(cfg Config) {
	c.cfg = cfg
	c.history.limit = cfg.HistoryLimit
	if !cfg.MarkClosest {
		c.clearHighlight()
	}
	if !cfg.ShowLocation {
		c.renderer.SetLabel("")
	}
}

func (c *Controller) Dataset() *dataset.Dataset { return c.data }
func (c *Controller) Mode() Mode                { return c.mode }
func (c *Controller) History() *ZoomHistory     { return c.history }

// Anchor returns the recorded start of an in-progress zoom rectangle.
func (c *Controller) Anchor() (geometry.Point2D, bool) {
	if c.anchor == nil {
		return geometry.Point2D{}, false
	}
	return *c.anchor, true
}

// Highlighted returns the id of the hovered curve.
func (c *Controller) Highlighted() (dataset.ID, bool) {
	if c.highlighted < 0 {
		return 0, false
	}
	return c.data.Curve(c.highlighted).ID, true
}

// LoadDataset replaces the plotted curves. Selection, subset, highlight,
// mode and zoom history are reset and listeners are told that the
// selection is now empty. A nil dataset clears the plot.
func (c *Controller) LoadDataset(d *dataset.Dataset) {
	if d != nil && d.Len() == 0 {
		d = nil
	}
	c.data = d
	c.highlighted = -1
	c.history.Clear()
	c.EnterPanMode()

	c.renderer.SetCurves(d.Curves())
	c.renderer.SetMarkings(c.markings)
	c.applyPens(nil)
	if d != nil {
		c.renderer.AutoRange()
	}

	c.logger.WithFields(l.IntField("curves", d.Len())).Debug("dataset loaded")
	c.notifySelection()
}

// SetSubsetIDs replaces the subset overlay; nil clears it. The selection is
// not touched.
func (c *Controller) SetSubsetIDs(ids []dataset.ID) {
	if c.data == nil {
		return
	}
	c.data.SetSubset(ids)
	c.applyPens(nil)
}

// AddMarking adds an overlay region that is drawn but not interpreted.
func (c *Controller) AddMarking(m *Marking) {
	c.markings = append(c.markings, m)
	c.renderer.SetMarkings(c.markings)
}

// Markings returns the registered overlay regions.
func (c *Controller) Markings() []*Marking {
	return c.markings
}

// EnterZoomMode arms rectangle zooming.
func (c *Controller) EnterZoomMode() {
	c.setMode(ModeZooming, CursorCrosshair)
}

// EnterPanMode returns to panning and discards an in-progress zoom.
func (c *Controller) EnterPanMode() {
	c.setMode(ModePanning, CursorDefault)
}

func (c *Controller) setMode(m Mode, cursor Cursor) {
	if c.mode != m {
		c.logger.WithFields(l.StringField("from", c.mode.String()), l.StringField("to", m.String())).Debug("mode change")
	}
	c.mode = m
	c.anchor = nil
	c.renderer.HideZoomBand()
	c.renderer.SetCursor(cursor)
}

// FitView shows the full data range and returns to panning.
func (c *Controller) FitView() {
	c.renderer.AutoRange()
	c.EnterPanMode()
}

// ZoomBack steps back through the zoom history. Stepping past the first
// entry shows the full data range.
func (c *Controller) ZoomBack() {
	r, ok, moved := c.history.Back()
	if !moved {
		return
	}
	if ok {
		c.renderer.ShowRect(r)
	} else {
		c.renderer.AutoRange()
	}
	c.EnterPanMode()
}

// ZoomForward re-applies the next zoom rectangle after ZoomBack.
func (c *Controller) ZoomForward() {
	if r, ok := c.history.Forward(); ok {
		c.renderer.ShowRect(r)
		c.EnterPanMode()
	}
}

// Hover handles pointer motion at pos (widget pixels) in any mode.
func (c *Controller) Hover(pos geometry.Point2D) {
	point := c.renderer.ToData(pos)

	if c.cfg.ShowLocation {
		c.renderer.SetLabel(fmt.Sprintf("%g, %g", point.X, point.Y))
	}

	if c.mode == ModeZooming && c.anchor != nil {
		c.renderer.ShowZoomBand(dragRect(*c.anchor, pos))
	}

	if c.data == nil {
		c.renderer.SetCrosshair(point)
		return
	}

	hit, found := spatial.Hit{}, false
	if c.cfg.MarkClosest {
		sx, sy := c.renderer.PixelSize()
		hit, found = spatial.Nearest(c.data.Curves(), spatial.Query{
			X:            point.X,
			Y:            point.Y,
			PixelScaleX:  sx,
			PixelScaleY:  sy,
			RadiusPixels: c.cfg.HoverRadius,
		}, spatial.NewRangeCache())
		found = found && hit.Within(c.cfg.HoverRadius)
	}

	if c.highlighted >= 0 && (!found || hit.Curve != c.highlighted) {
		c.clearHighlight()
	}
	if found {
		if c.highlighted != hit.Curve {
			c.highlighted = hit.Curve
			c.renderer.SetPen(hit.Curve, PenHover, ZHover)
		}
		if c.cfg.Snap {
			point = c.data.Curve(hit.Curve).Point(hit.Sample)
		}
	}
	c.renderer.SetCrosshair(point)
}

// Click handles a button click that was not part of a drag.
func (c *Controller) Click(ev PointerEvent) {
	switch ev.Button {
	case ButtonSecondary:
		c.FitView()
	case ButtonPrimary:
		if c.mode == ModeZooming {
			c.zoomClick(ev.Pos)
			return
		}
		c.selectHighlighted(ev.Modifiers.Additive())
	}
}

// Drag handles a drag gesture. Primary drags pan in panning mode and span
// the zoom rectangle in zooming mode; secondary drags reset the view. Drags
// never change the selection.
func (c *Controller) Drag(ev DragEvent) {
	switch ev.Button {
	case ButtonSecondary:
		if ev.Phase == DragEnd {
			c.FitView()
		}
	case ButtonPrimary:
		if c.mode == ModePanning {
			if ev.Delta != (geometry.Point2D{}) {
				c.renderer.PanBy(ev.Delta.X, ev.Delta.Y)
			}
			return
		}
		switch ev.Phase {
		case DragStart:
			if c.anchor == nil {
				start := ev.Start
				c.anchor = &start
			}
			c.renderer.ShowZoomBand(dragRect(*c.anchor, ev.Pos))
		case DragMove:
			if c.anchor != nil {
				c.renderer.ShowZoomBand(dragRect(*c.anchor, ev.Pos))
			}
		case DragEnd:
			if c.anchor != nil {
				c.applyZoom(*c.anchor, ev.Pos)
			}
		}
	}
}

func (c *Controller) zoomClick(pos geometry.Point2D) {
	if c.anchor == nil {
		c.anchor = &pos
		return
	}
	c.applyZoom(*c.anchor, pos)
}

// applyZoom shows the rectangle between two pixel positions, records it in
// the history and leaves zooming mode.
func (c *Controller) applyZoom(start, end geometry.Point2D) {
	px := dragRect(start, end)
	r := geometry.RectFromCorners(c.renderer.ToData(px.Min()), c.renderer.ToData(px.Max()))

	c.renderer.HideZoomBand()
	c.renderer.ShowRect(r)
	c.history.Push(r)
	c.logger.WithFields(l.IntField("history", c.history.Len())).Debug("zoom applied")
	c.EnterPanMode()
}

// dragRect returns the pixel rectangle between start and end. An end equal
// to start on an axis is moved one pixel along it so the result always has
// area.
func dragRect(start, end geometry.Point2D) geometry.Rect {
	if end.X == start.X {
		end.X++
	}
	if end.Y == start.Y {
		end.Y++
	}
	return geometry.RectFromCorners(start, end)
}

func (c *Controller) selectHighlighted(additive bool) {
	var old, next dataset.IDSet
	if c.data != nil {
		old = c.data.Selected().Clone()
		switch {
		case c.highlighted < 0:
			next = dataset.NewIDSet()
		case additive:
			next = old.Clone()
			next.Add(c.data.Curve(c.highlighted).ID)
		default:
			next = dataset.NewIDSet(c.data.Curve(c.highlighted).ID)
		}
		c.data.SetSelected(next)
		c.applyPens(old.Union(next))
	}

	c.logger.WithFields(l.IntField("selected", next.Len())).Debug("selection changed")
	c.notifySelection()
}

func (c *Controller) notifySelection() {
	rows := c.data.SelectedRows()
	for _, fn := range c.onSelection {
		fn(rows)
	}
}

func (c *Controller) clearHighlight() {
	if c.highlighted < 0 {
		return
	}
	i := c.highlighted
	c.highlighted = -1
	c.applyPen(i)
}

// applyPens restores the policy pen of the curves in ids, or of every curve
// when ids is nil.
func (c *Controller) applyPens(ids dataset.IDSet) {
	if c.data == nil {
		return
	}
	if ids == nil {
		for i := range c.data.Curves() {
			c.applyPen(i)
		}
		return
	}
	for id := range ids {
		if i, ok := c.data.IndexOf(id); ok {
			c.applyPen(i)
		}
	}
}

func (c *Controller) applyPen(i int) {
	if i == c.highlighted {
		c.renderer.SetPen(i, PenHover, ZHover)
		return
	}
	pen, z := PenFor(c.data.Curve(i).ID, c.data.Subset(), c.data.Selected())
	c.renderer.SetPen(i, pen, z)
}
