package view

import (
	"sync"

	"curve-viewer/internal/dataset"
	"curve-viewer/pkg/geometry"
)

// Renderer is the presentation layer driven by the Controller. It owns the
// mapping between widget pixels and data coordinates and draws whatever
// the controller tells it to. A Renderer must not call back into the
// controller from any of these methods.
type Renderer interface {
	// ToData maps a widget pixel position to data coordinates.
	ToData(p geometry.Point2D) geometry.Point2D
	// PixelSize returns the data extent of one pixel along x and y.
	// Both values are positive.
	PixelSize() (sx, sy float64)

	SetCurves(curves []*dataset.Curve)
	SetPen(curve int, pen Pen, z int)
	SetMarkings(markings []*Marking)
	SetCrosshair(p geometry.Point2D)
	SetLabel(text string)
	SetCursor(c Cursor)

	// ShowZoomBand draws the rubber band of an in-progress zoom, in pixels.
	ShowZoomBand(r geometry.Rect)
	HideZoomBand()

	// ShowRect makes r (data coordinates) the visible range.
	ShowRect(r geometry.Rect)
	// PanBy shifts the visible range by a pixel delta.
	PanBy(dx, dy float64)
	// AutoRange shows the full extent of the current curves.
	AutoRange()
}

// Marking is an overlay region along x drawn on top of the curves. The
// controller forwards markings to the renderer but never interprets them;
// the host reads the range back when it needs it.
type Marking struct {
	Name string

	mu       sync.RWMutex
	min, max float64
	onChange []func(m *Marking)
}

// NewMarking returns a marking spanning [a, b] in either order.
func NewMarking(name string, a, b float64) *Marking {
	m := &Marking{Name: name}
	m.min, m.max = min(a, b), max(a, b)
	return m
}

// Range returns the marked x range.
func (m *Marking) Range() (lo, hi float64) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.min, m.max
}

// SetRange updates the range and notifies listeners.
func (m *Marking) SetRange(a, b float64) {
	lo, hi := min(a, b), max(a, b)
	m.mu.Lock()
	if lo == m.min && hi == m.max {
		m.mu.Unlock()
		return
	}
	m.min, m.max = lo, hi
	listeners := append(([]func(m *Marking))(nil), m.onChange...)
	m.mu.Unlock()

	for _, fn := range listeners {
		fn(m)
	}
}

// OnChange registers a callback fired after the range changes.
func (m *Marking) OnChange(fn func(m *Marking)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onChange = append(m.onChange, fn)
}
