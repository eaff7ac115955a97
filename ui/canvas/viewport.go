package canvas

import (
	"math"

	"curve-viewer/pkg/geometry"
)

// autoRangePad is the fraction of the data extent added on every side by Fit.
const autoRangePad = 0.02

// Viewport maps a visible data rectangle onto a widget of a given pixel size.
// Pixel y grows downwards, data y grows upwards. With invertX set, data x
// grows to the left, as spectra are usually plotted in descending wavenumber.
type Viewport struct {
	rect    geometry.Rect
	size    geometry.Size
	invertX bool
}

// NewViewport returns a viewport showing the unit square on a 1x1 widget.
func NewViewport(invertX bool) *Viewport {
	return &Viewport{
		rect:    geometry.NewRect(0, 0, 1, 1),
		size:    geometry.NewSize(1, 1),
		invertX: invertX,
	}
}

// SetSize sets the widget size in pixels. Non-positive sizes are ignored.
func (v *Viewport) SetSize(width, height float64) {
	if width <= 0 || height <= 0 {
		return
	}
	v.size = geometry.NewSize(width, height)
}

// Size returns the widget size in pixels.
func (v *Viewport) Size() geometry.Size {
	return v.size
}

// SetRect makes r the visible data range. Rectangles without area are
// rejected so that the pixel scale is always positive and finite.
func (v *Viewport) SetRect(r geometry.Rect) bool {
	if r.Empty() || math.IsNaN(r.X) || math.IsNaN(r.Y) {
		return false
	}
	v.rect = r
	return true
}

// Rect returns the visible data range.
func (v *Viewport) Rect() geometry.Rect {
	return v.rect
}

// InvertX reports whether data x grows to the left.
func (v *Viewport) InvertX() bool {
	return v.invertX
}

// Transform returns the data to pixel transform.
func (v *Viewport) Transform() geometry.AffineTransform {
	sx := v.size.Width / v.rect.Width
	sy := v.size.Height / v.rect.Height
	origin := geometry.Translation(0, v.size.Height)
	if v.invertX {
		sx = -sx
		origin = geometry.Translation(v.size.Width, v.size.Height)
	}
	return origin.
		Compose(geometry.Scale(sx, -sy)).
		Compose(geometry.Translation(-v.rect.X, -v.rect.Y))
}

// ToPixel maps data coordinates to widget pixels.
func (v *Viewport) ToPixel(p geometry.Point2D) geometry.Point2D {
	return v.Transform().Apply(p)
}

// ToData maps widget pixels to data coordinates.
func (v *Viewport) ToData(p geometry.Point2D) geometry.Point2D {
	inv, ok := v.Transform().Inverse()
	if !ok {
		return v.rect.Min()
	}
	return inv.Apply(p)
}

// PixelSize returns the data extent of one pixel along x and y.
func (v *Viewport) PixelSize() (sx, sy float64) {
	return v.rect.Width / v.size.Width, v.rect.Height / v.size.Height
}

// PanBy moves the visible range so that the content follows a pointer
// moved by (dx, dy) pixels.
func (v *Viewport) PanBy(dx, dy float64) {
	sx, sy := v.PixelSize()
	if v.invertX {
		v.rect.X += dx * sx
	} else {
		v.rect.X -= dx * sx
	}
	v.rect.Y += dy * sy
}

// Fit shows bounds with a small margin. A flat extent along an axis is
// widened so the result always has area.
func (v *Viewport) Fit(bounds geometry.Rect) bool {
	w, h := bounds.Width, bounds.Height
	if w <= 0 {
		w = math.Max(math.Abs(bounds.X), 1)
	}
	if h <= 0 {
		h = math.Max(math.Abs(bounds.Y), 1)
	}
	c := bounds.Center()
	w *= 1 + 2*autoRangePad
	h *= 1 + 2*autoRangePad
	return v.SetRect(geometry.NewRect(c.X-w/2, c.Y-h/2, w, h))
}
