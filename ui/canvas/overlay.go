package canvas

import (
	"image/color"

	"curve-viewer/internal/view"
	"curve-viewer/pkg/colorutil"
)

// PenStyle is how a curve pen is stroked.
type PenStyle struct {
	Color     color.NRGBA
	Thickness int
}

// PenStyles maps controller pens to strokes.
var PenStyles = map[view.Pen]PenStyle{
	view.PenNormal:   {Color: colorutil.WithAlpha(colorutil.LightGrey, 127), Thickness: 1},
	view.PenSubset:   {Color: colorutil.WithAlpha(colorutil.Black, 127), Thickness: 1},
	view.PenSelected: {Color: colorutil.WithAlpha(colorutil.Red, 127), Thickness: 1},
	view.PenHover:    {Color: colorutil.Blue, Thickness: 2},
}

// styleFor returns the stroke of pen, falling back to the normal pen.
func styleFor(pen view.Pen) PenStyle {
	if s, ok := PenStyles[pen]; ok {
		return s
	}
	return PenStyles[view.PenNormal]
}

// Overlay colors.
var (
	markingFill   = colorutil.AlphaF(colorutil.Red, 0.05)
	markingEdge   = colorutil.WithAlpha(colorutil.Red, 160)
	zoomBandColor = colorutil.WithAlpha(colorutil.Red, 200)
	crosshairCol  = colorutil.WithAlpha(colorutil.Grey, 180)
	labelColor    = colorutil.Black
	labelBG       = colorutil.WithAlpha(colorutil.White, 200)
)

// markingEdgeGrab is how close, in pixels, a drag must start to a marking
// edge to move that edge.
const markingEdgeGrab = 4
