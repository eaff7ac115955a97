package canvas

import (
	"errors"
	"fmt"
	"io"
	"sort"

	"curve-viewer/internal/dataset"
	"curve-viewer/internal/view"
	"curve-viewer/pkg/geometry"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// ErrNothingVisible is returned by ExportPNG when no curve has two samples
// inside the visible range.
var ErrNothingVisible = errors.New("no curve samples in the visible range")

// ExportOptions controls the exported chart.
type ExportOptions struct {
	Width, Height int
	InvertX       bool
	Title         string
	XLabel        string
}

// DefaultExportOptions returns a 1200x700 chart.
func DefaultExportOptions() ExportOptions {
	return ExportOptions{Width: 1200, Height: 700}
}

// ExportPNG renders the curves clipped to the visible range as a PNG chart.
// Curves are drawn in the given order with their pen colors.
func ExportPNG(w io.Writer, curves []*dataset.Curve, pens []view.Pen, visible geometry.Rect, opts ExportOptions) error {
	if len(pens) != len(curves) {
		return fmt.Errorf("export: %d pens for %d curves", len(pens), len(curves))
	}

	var series []chart.Series
	for i, c := range curves {
		xs, ys := clipX(c, visible.X, visible.X+visible.Width)
		if len(xs) < 2 {
			continue
		}
		style := styleFor(pens[i])
		series = append(series, chart.ContinuousSeries{
			Name:    fmt.Sprintf("%d", c.ID),
			XValues: xs,
			YValues: ys,
			Style: chart.Style{
				StrokeColor: drawing.Color{R: style.Color.R, G: style.Color.G, B: style.Color.B, A: style.Color.A},
				StrokeWidth: float64(style.Thickness),
			},
		})
	}
	if len(series) == 0 {
		return ErrNothingVisible
	}

	ch := chart.Chart{
		Title:      opts.Title,
		Width:      opts.Width,
		Height:     opts.Height,
		Background: chart.Style{Padding: chart.Box{Top: 20, Left: 16, Right: 16, Bottom: 16}},
		XAxis: chart.XAxis{
			Name: opts.XLabel,
			Range: &chart.ContinuousRange{
				Min:        visible.X,
				Max:        visible.X + visible.Width,
				Descending: opts.InvertX,
			},
		},
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: visible.Y, Max: visible.Y + visible.Height},
		},
		Series: series,
	}
	if err := ch.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	return nil
}

// clipX returns the samples of c with x in [lo, hi], extended by one sample
// on each side so lines leaving the range are kept.
func clipX(c *dataset.Curve, lo, hi float64) ([]float64, []float64) {
	i := sort.SearchFloat64s(c.X, lo)
	j := sort.Search(len(c.X), func(k int) bool { return c.X[k] > hi })
	i = max(i-1, 0)
	j = min(j+1, len(c.X))
	if i >= j {
		return nil, nil
	}
	return c.X[i:j], c.Y[i:j]
}
