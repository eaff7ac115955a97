package canvas

import (
	"image"
	"image/color"
	"image/draw"
	"math"
	"sort"

	"curve-viewer/internal/dataset"
	"curve-viewer/internal/view"
	"curve-viewer/pkg/colorutil"
	"curve-viewer/pkg/geometry"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// maxCoord bounds pixel coordinates handed to the line rasterizer. Segments
// reaching further out are far outside any widget and are skipped.
const maxCoord = 1 << 20

type penState struct {
	pen view.Pen
	z   int
}

// frame is a snapshot of everything the plot draws.
type frame struct {
	vp        Viewport
	scale     float64 // raster pixels per widget unit
	curves    []*dataset.Curve
	pens      []penState
	markings  []*view.Marking
	crosshair *geometry.Point2D
	band      *geometry.Rect // widget units
	label     string
}

// drawOrder returns curve indices sorted by ascending z. Equal z keeps the
// enumeration order, so later curves are drawn on top.
func (f *frame) drawOrder() []int {
	order := make([]int, len(f.curves))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return f.pens[order[a]].z < f.pens[order[b]].z
	})
	return order
}

// render draws the frame into a new w x h image.
func (f *frame) render(w, h int) *image.RGBA {
	output := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(output, output.Bounds(), image.NewUniform(colorutil.White), image.Point{}, draw.Src)

	tr := geometry.Scale(f.scale, f.scale).Compose(f.vp.Transform())

	for _, m := range f.markings {
		f.drawMarking(output, tr, m)
	}
	for _, i := range f.drawOrder() {
		f.drawCurve(output, tr, f.curves[i], styleFor(f.pens[i].pen))
	}
	if f.crosshair != nil {
		p := tr.Apply(*f.crosshair)
		x, y := clampCoord(p.X), clampCoord(p.Y)
		drawLine(output, x, 0, x, h-1, crosshairCol, 1)
		drawLine(output, 0, y, w-1, y, crosshairCol, 1)
	}
	if f.band != nil {
		drawDashedRect(output, f.band.X*f.scale, f.band.Y*f.scale,
			(f.band.X+f.band.Width)*f.scale, (f.band.Y+f.band.Height)*f.scale, zoomBandColor)
	}
	if f.label != "" {
		drawText(output, f.label, 8, h-6, labelColor, &labelBG)
	}
	return output
}

// drawCurve strokes a curve as a polyline in pixel space.
func (f *frame) drawCurve(output *image.RGBA, tr geometry.AffineTransform, c *dataset.Curve, style PenStyle) {
	if c.Len() == 0 {
		return
	}
	bounds := output.Bounds()
	prev := tr.Apply(c.Point(0))
	if c.Len() == 1 {
		drawLine(output, clampCoord(prev.X), clampCoord(prev.Y), clampCoord(prev.X), clampCoord(prev.Y), style.Color, style.Thickness)
		return
	}
	for i := 1; i < c.Len(); i++ {
		next := tr.Apply(c.Point(i))
		if segmentVisible(prev, next, bounds) {
			drawLine(output, int(math.Round(prev.X)), int(math.Round(prev.Y)),
				int(math.Round(next.X)), int(math.Round(next.Y)), style.Color, style.Thickness)
		}
		prev = next
	}
}

// segmentVisible rejects segments that lie entirely on one side of the
// image or have coordinates too large to rasterize.
func segmentVisible(a, b geometry.Point2D, bounds image.Rectangle) bool {
	for _, v := range []float64{a.X, a.Y, b.X, b.Y} {
		if math.IsNaN(v) || math.Abs(v) > maxCoord {
			return false
		}
	}
	minX, maxX := float64(bounds.Min.X), float64(bounds.Max.X)
	minY, maxY := float64(bounds.Min.Y), float64(bounds.Max.Y)
	switch {
	case a.X < minX && b.X < minX, a.X >= maxX && b.X >= maxX:
		return false
	case a.Y < minY && b.Y < minY, a.Y >= maxY && b.Y >= maxY:
		return false
	}
	return true
}

// drawMarking fills the x range of a marking across the full height and
// outlines its edges.
func (f *frame) drawMarking(output *image.RGBA, tr geometry.AffineTransform, m *view.Marking) {
	lo, hi := m.Range()
	x1 := clampCoord(tr.Apply(geometry.Point2D{X: lo}).X)
	x2 := clampCoord(tr.Apply(geometry.Point2D{X: hi}).X)
	if x1 > x2 {
		x1, x2 = x2, x1
	}
	bounds := output.Bounds()
	x1 = max(x1, bounds.Min.X-1)
	x2 = min(x2, bounds.Max.X)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := x1; x <= x2; x++ {
			colorutil.Over(output, x, y, markingFill)
		}
	}
	drawLine(output, x1, bounds.Min.Y, x1, bounds.Max.Y-1, markingEdge, 2)
	drawLine(output, x2, bounds.Min.Y, x2, bounds.Max.Y-1, markingEdge, 2)
	if m.Name != "" {
		drawText(output, m.Name, x1+4, bounds.Min.Y+14, markingEdge, nil)
	}
}

func clampCoord(v float64) int {
	if math.IsNaN(v) {
		return 0
	}
	return int(math.Round(math.Max(-maxCoord, math.Min(maxCoord, v))))
}

// drawLine draws a line between two points using Bresenham's algorithm,
// blending col over the existing pixels.
func drawLine(output *image.RGBA, x1, y1, x2, y2 int, col color.NRGBA, thickness int) {
	dx := x2 - x1
	dy := y2 - y1
	if dx < 0 {
		dx = -dx
	}
	if dy < 0 {
		dy = -dy
	}

	sx := 1
	if x1 > x2 {
		sx = -1
	}
	sy := 1
	if y1 > y2 {
		sy = -1
	}

	err := dx - dy
	lo, hi := -(thickness-1)/2, thickness/2

	for {
		// Thick lines widen across the dominant direction only so that
		// translucent pens are not blended twice.
		for t := lo; t <= hi; t++ {
			if dx >= dy {
				colorutil.Over(output, x1, y1+t, col)
			} else {
				colorutil.Over(output, x1+t, y1, col)
			}
		}

		if x1 == x2 && y1 == y2 {
			break
		}

		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x1 += sx
		}
		if e2 < dx {
			err += dx
			y1 += sy
		}
	}
}

// drawDashedRect draws a dashed rectangle outline between two pixel corners.
func drawDashedRect(output *image.RGBA, fx1, fy1, fx2, fy2 float64, col color.NRGBA) {
	x1, y1, x2, y2 := clampCoord(fx1), clampCoord(fy1), clampCoord(fx2), clampCoord(fy2)
	if x1 > x2 {
		x1, x2 = x2, x1
	}
	if y1 > y2 {
		y1, y2 = y2, y1
	}
	bounds := output.Bounds()
	x1, x2 = max(x1, bounds.Min.X-1), min(x2, bounds.Max.X)
	y1, y2 = max(y1, bounds.Min.Y-1), min(y2, bounds.Max.Y)

	for x := x1; x <= x2; x++ {
		if (x+y1)%4 < 2 {
			colorutil.Over(output, x, y1, col)
		}
		if (x+y2)%4 < 2 {
			colorutil.Over(output, x, y2, col)
		}
	}
	for y := y1; y <= y2; y++ {
		if (x1+y)%4 < 2 {
			colorutil.Over(output, x1, y, col)
		}
		if (x2+y)%4 < 2 {
			colorutil.Over(output, x2, y, col)
		}
	}
}

// drawText draws text with its baseline at (x, y), on an optional
// background box.
func drawText(output *image.RGBA, text string, x, y int, col color.NRGBA, bg *color.NRGBA) {
	face := basicfont.Face7x13
	dr := &font.Drawer{Dst: output, Src: image.NewUniform(col), Face: face}
	if bg != nil {
		pad := 3
		tw := dr.MeasureString(text).Ceil()
		rect := image.Rect(x-pad, y-face.Metrics().Ascent.Ceil()-pad, x+tw+pad, y+pad)
		draw.Draw(output, rect, image.NewUniform(*bg), image.Point{}, draw.Over)
	}
	dr.Dot = fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y)}
	dr.DrawString(text)
}
