// Package canvas provides the curve plot widget: a raster that draws curves
// through a pan/zoom viewport and turns pointer input into controller events.
package canvas

import (
	"image"
	"math"
	"sync"
	"time"

	"curve-viewer/internal/dataset"
	"curve-viewer/internal/view"
	"curve-viewer/pkg/geometry"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
	"gonum.org/v1/gonum/floats"
)

// InputHandler receives pointer input in widget units.
type InputHandler interface {
	Hover(pos geometry.Point2D)
	Click(ev view.PointerEvent)
	Drag(ev view.DragEvent)
}

// CurvePlot draws curves and forwards pointer input to an InputHandler.
// Its view.Renderer methods may be called from any goroutine.
type CurvePlot struct {
	widget.BaseWidget

	mu        sync.RWMutex
	viewport  *Viewport
	curves    []*dataset.Curve
	pens      []penState
	markings  []*view.Marking
	crosshair *geometry.Point2D
	band      *geometry.Rect
	label     string
	cursor    desktop.Cursor

	raster     *fynecanvas.Raster
	lastOutput *image.RGBA

	handler  InputHandler
	throttle *hoverThrottle

	// input state, touched only from the fyne event goroutine
	button      view.Button
	modifiers   view.Modifier
	dragging    bool
	dragStart   geometry.Point2D
	dragLast    geometry.Point2D
	dragMarking *view.Marking
	dragEdge    int // 0 lower edge, 1 upper edge
}

var (
	_ view.Renderer          = (*CurvePlot)(nil)
	_ desktop.Hoverable      = (*CurvePlot)(nil)
	_ desktop.Mouseable      = (*CurvePlot)(nil)
	_ desktop.Cursorable     = (*CurvePlot)(nil)
	_ fyne.Draggable         = (*CurvePlot)(nil)
	_ fyne.Tappable          = (*CurvePlot)(nil)
	_ fyne.SecondaryTappable = (*CurvePlot)(nil)
)

// NewCurvePlot creates an empty plot. Hover input is dispatched at most once
// per interval, with the final position delivered after delay.
func NewCurvePlot(invertX bool, interval, delay time.Duration) *CurvePlot {
	p := &CurvePlot{
		viewport: NewViewport(invertX),
		cursor:   desktop.DefaultCursor,
	}
	p.raster = fynecanvas.NewRaster(p.draw)
	p.raster.ScaleMode = fynecanvas.ImageScalePixels
	p.raster.SetMinSize(fyne.NewSize(400, 300))
	p.throttle = newHoverThrottle(interval, delay, func(pos geometry.Point2D) {
		if h := p.handler; h != nil {
			h.Hover(pos)
		}
	})
	p.ExtendBaseWidget(p)
	return p
}

// SetHandler sets where pointer input is sent.
func (p *CurvePlot) SetHandler(h InputHandler) {
	p.handler = h
}

// SetHoverRate changes the hover throttle.
func (p *CurvePlot) SetHoverRate(interval, delay time.Duration) {
	p.throttle.SetRate(interval, delay)
}

// VisibleRect returns the data range currently shown.
func (p *CurvePlot) VisibleRect() geometry.Rect {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.viewport.Rect()
}

// Snapshot returns the visible curves and their pens for export, in draw
// order.
func (p *CurvePlot) Snapshot() ([]*dataset.Curve, []view.Pen, geometry.Rect) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	f := p.frameLocked(1)
	order := f.drawOrder()
	curves := make([]*dataset.Curve, 0, len(order))
	pens := make([]view.Pen, 0, len(order))
	for _, i := range order {
		curves = append(curves, f.curves[i])
		pens = append(pens, f.pens[i].pen)
	}
	return curves, pens, p.viewport.Rect()
}

// RenderedOutput returns the last rendered raster.
func (p *CurvePlot) RenderedOutput() *image.RGBA {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.lastOutput
}

// Resize keeps the viewport in step with the widget size.
func (p *CurvePlot) Resize(size fyne.Size) {
	p.mu.Lock()
	p.viewport.SetSize(float64(size.Width), float64(size.Height))
	p.mu.Unlock()
	p.BaseWidget.Resize(size)
}

// ToData implements view.Renderer.
func (p *CurvePlot) ToData(pos geometry.Point2D) geometry.Point2D {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.viewport.ToData(pos)
}

// PixelSize implements view.Renderer.
func (p *CurvePlot) PixelSize() (float64, float64) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.viewport.PixelSize()
}

func (p *CurvePlot) SetCurves(curves []*dataset.Curve) {
	p.mu.Lock()
	p.curves = curves
	p.pens = make([]penState, len(curves))
	p.mu.Unlock()
	p.Refresh()
}

func (p *CurvePlot) SetPen(curve int, pen view.Pen, z int) {
	p.mu.Lock()
	if curve >= 0 && curve < len(p.pens) {
		p.pens[curve] = penState{pen: pen, z: z}
	}
	p.mu.Unlock()
	p.Refresh()
}

func (p *CurvePlot) SetMarkings(markings []*view.Marking) {
	p.mu.Lock()
	p.markings = append([]*view.Marking(nil), markings...)
	p.mu.Unlock()
	p.Refresh()
}

func (p *CurvePlot) SetCrosshair(pos geometry.Point2D) {
	p.mu.Lock()
	p.crosshair = &pos
	p.mu.Unlock()
	p.Refresh()
}

func (p *CurvePlot) SetLabel(text string) {
	p.mu.Lock()
	p.label = text
	p.mu.Unlock()
	p.Refresh()
}

func (p *CurvePlot) SetCursor(c view.Cursor) {
	p.mu.Lock()
	if c == view.CursorCrosshair {
		p.cursor = desktop.CrosshairCursor
	} else {
		p.cursor = desktop.DefaultCursor
	}
	p.mu.Unlock()
}

// Cursor implements desktop.Cursorable.
func (p *CurvePlot) Cursor() desktop.Cursor {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.cursor
}

func (p *CurvePlot) ShowZoomBand(r geometry.Rect) {
	p.mu.Lock()
	p.band = &r
	p.mu.Unlock()
	p.Refresh()
}

func (p *CurvePlot) HideZoomBand() {
	p.mu.Lock()
	p.band = nil
	p.mu.Unlock()
	p.Refresh()
}

func (p *CurvePlot) ShowRect(r geometry.Rect) {
	p.mu.Lock()
	p.viewport.SetRect(r)
	p.mu.Unlock()
	p.Refresh()
}

func (p *CurvePlot) PanBy(dx, dy float64) {
	p.mu.Lock()
	p.viewport.PanBy(dx, dy)
	p.mu.Unlock()
	p.Refresh()
}

func (p *CurvePlot) AutoRange() {
	p.mu.Lock()
	if b, ok := curveBounds(p.curves); ok {
		p.viewport.Fit(b)
	}
	p.mu.Unlock()
	p.Refresh()
}

// curveBounds returns the rectangle spanning every sample.
func curveBounds(curves []*dataset.Curve) (geometry.Rect, bool) {
	corners := make([]geometry.Point2D, 0, 2*len(curves))
	for _, c := range curves {
		if c.Len() == 0 {
			continue
		}
		corners = append(corners,
			geometry.Point2D{X: floats.Min(c.X), Y: floats.Min(c.Y)},
			geometry.Point2D{X: floats.Max(c.X), Y: floats.Max(c.Y)})
	}
	if len(corners) == 0 {
		return geometry.Rect{}, false
	}
	return geometry.BoundingBox(corners), true
}

// MouseIn implements desktop.Hoverable.
func (p *CurvePlot) MouseIn(ev *desktop.MouseEvent) {
	p.throttle.Trigger(toPoint(ev.Position))
}

// MouseMoved implements desktop.Hoverable.
func (p *CurvePlot) MouseMoved(ev *desktop.MouseEvent) {
	p.throttle.Trigger(toPoint(ev.Position))
}

// MouseOut implements desktop.Hoverable.
func (p *CurvePlot) MouseOut() {
	p.throttle.Stop()
	p.mu.Lock()
	p.crosshair = nil
	p.mu.Unlock()
	p.Refresh()
}

// MouseDown records the button and modifiers for the following tap or drag.
func (p *CurvePlot) MouseDown(ev *desktop.MouseEvent) {
	p.button = toButton(ev.Button)
	p.modifiers = toModifiers(ev.Modifier)
}

func (p *CurvePlot) MouseUp(*desktop.MouseEvent) {}

// Tapped implements fyne.Tappable.
func (p *CurvePlot) Tapped(ev *fyne.PointEvent) {
	if !p.inside(ev.Position) {
		return
	}
	p.click(view.ButtonPrimary, ev.Position)
}

// TappedSecondary implements fyne.SecondaryTappable.
func (p *CurvePlot) TappedSecondary(ev *fyne.PointEvent) {
	if !p.inside(ev.Position) {
		return
	}
	p.click(view.ButtonSecondary, ev.Position)
}

func (p *CurvePlot) click(b view.Button, pos fyne.Position) {
	if p.handler == nil {
		return
	}
	mods := p.modifiers
	if p.button != b {
		mods = 0
	}
	p.handler.Click(view.PointerEvent{Pos: toPoint(pos), Button: b, Modifiers: mods})
}

// Dragged implements fyne.Draggable. A drag starting on a marking edge moves
// that edge; every other drag goes to the handler.
func (p *CurvePlot) Dragged(ev *fyne.DragEvent) {
	pos := toPoint(ev.Position)
	delta := geometry.Point2D{X: float64(ev.Dragged.DX), Y: float64(ev.Dragged.DY)}
	button := p.button
	if button == view.ButtonNone {
		button = view.ButtonPrimary
	}

	phase := view.DragMove
	p.dragLast = pos
	if !p.dragging {
		p.dragging = true
		phase = view.DragStart
		p.dragStart = pos.Sub(delta)
		if button == view.ButtonPrimary {
			p.dragMarking, p.dragEdge = p.markingEdgeAt(p.dragStart)
		}
	}

	if p.dragMarking != nil {
		p.moveMarkingEdge(pos)
		return
	}
	if p.handler != nil {
		p.handler.Drag(view.DragEvent{
			Phase: phase, Button: button, Modifiers: p.modifiers,
			Start: p.dragStart, Pos: pos, Delta: delta,
		})
	}
	// the crosshair and zoom band follow the pointer during a drag too
	p.throttle.Trigger(pos)
}

// DragEnd implements fyne.Draggable.
func (p *CurvePlot) DragEnd() {
	if !p.dragging {
		return
	}
	p.dragging = false
	if p.dragMarking != nil {
		p.dragMarking = nil
		return
	}
	button := p.button
	if button == view.ButtonNone {
		button = view.ButtonPrimary
	}
	if p.handler != nil {
		p.handler.Drag(view.DragEvent{Phase: view.DragEnd, Button: button, Modifiers: p.modifiers, Start: p.dragStart, Pos: p.dragLast})
	}
}

// markingEdgeAt returns the marking whose edge is within grab distance of
// pos, and which edge.
func (p *CurvePlot) markingEdgeAt(pos geometry.Point2D) (*view.Marking, int) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	for _, m := range p.markings {
		lo, hi := m.Range()
		for edge, x := range []float64{lo, hi} {
			px := p.viewport.ToPixel(geometry.Point2D{X: x}).X
			if math.Abs(px-pos.X) <= markingEdgeGrab {
				return m, edge
			}
		}
	}
	return nil, 0
}

func (p *CurvePlot) moveMarkingEdge(pos geometry.Point2D) {
	p.mu.RLock()
	x := p.viewport.ToData(pos).X
	p.mu.RUnlock()

	m := p.dragMarking
	lo, hi := m.Range()
	if p.dragEdge == 0 {
		lo = x
	} else {
		hi = x
	}
	// crossing edges swap roles so the grabbed edge stays under the pointer
	if lo > hi {
		p.dragEdge = 1 - p.dragEdge
	}
	m.SetRange(lo, hi)
	p.Refresh()
}

func (p *CurvePlot) inside(pos fyne.Position) bool {
	size := p.Size()
	return geometry.NewRect(0, 0, float64(size.Width), float64(size.Height)).Contains(toPoint(pos))
}

func toPoint(pos fyne.Position) geometry.Point2D {
	return geometry.Point2D{X: float64(pos.X), Y: float64(pos.Y)}
}

func toButton(b desktop.MouseButton) view.Button {
	switch {
	case b&desktop.MouseButtonPrimary != 0:
		return view.ButtonPrimary
	case b&desktop.MouseButtonSecondary != 0:
		return view.ButtonSecondary
	default:
		return view.ButtonNone
	}
}

func toModifiers(m fyne.KeyModifier) view.Modifier {
	var out view.Modifier
	if m&fyne.KeyModifierShift != 0 {
		out |= view.ModifierShift
	}
	if m&fyne.KeyModifierControl != 0 {
		out |= view.ModifierControl
	}
	if m&fyne.KeyModifierAlt != 0 {
		out |= view.ModifierAlt
	}
	if m&fyne.KeyModifierSuper != 0 {
		out |= view.ModifierSuper
	}
	return out
}

// frameLocked snapshots the draw state. mu must be held.
func (p *CurvePlot) frameLocked(scale float64) *frame {
	f := &frame{
		vp:       *p.viewport,
		scale:    scale,
		curves:   p.curves,
		pens:     append([]penState(nil), p.pens...),
		markings: p.markings,
		label:    p.label,
	}
	if p.crosshair != nil {
		c := *p.crosshair
		f.crosshair = &c
	}
	if p.band != nil {
		b := *p.band
		f.band = &b
	}
	return f
}

// draw is the raster drawing function.
func (p *CurvePlot) draw(w, h int) image.Image {
	p.mu.RLock()
	scale := 1.0
	if vw := p.viewport.Size().Width; vw > 0 && w > 0 {
		scale = float64(w) / vw
	}
	f := p.frameLocked(scale)
	p.mu.RUnlock()

	output := f.render(w, h)

	p.mu.Lock()
	p.lastOutput = output
	p.mu.Unlock()
	return output
}

// Refresh refreshes the plot display.
func (p *CurvePlot) Refresh() {
	p.raster.Refresh()
}

// CreateRenderer implements fyne.Widget.
func (p *CurvePlot) CreateRenderer() fyne.WidgetRenderer {
	return &curvePlotRenderer{plot: p}
}

type curvePlotRenderer struct {
	plot *CurvePlot
}

func (r *curvePlotRenderer) Layout(size fyne.Size) {
	r.plot.raster.Resize(size)
}

func (r *curvePlotRenderer) MinSize() fyne.Size {
	return r.plot.raster.MinSize()
}

func (r *curvePlotRenderer) Refresh() {
	r.plot.raster.Refresh()
}

func (r *curvePlotRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.plot.raster}
}

func (r *curvePlotRenderer) Destroy() {}
