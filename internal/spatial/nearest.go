package spatial

import (
	"math"

	"curve-viewer/internal/dataset"

	"gonum.org/v1/gonum/floats"
)

// Query describes a pointer position in data coordinates and the size of
// one screen pixel in data units along each axis. Scales must be positive.
type Query struct {
	X, Y         float64
	PixelScaleX  float64
	PixelScaleY  float64
	RadiusPixels float64
}

// Hit is the closest sample found by Nearest.
type Hit struct {
	Curve    int     // index into the queried curves
	Sample   int     // index of the closest sample on that curve
	Distance float64 // screen distance in pixels
}

// Nearest returns the curve closest to the query point and the closest
// sample on it, measured in pixels. Only samples whose x lies within the
// query radius are examined; the distance itself is not thresholded, so
// callers compare Hit.Distance with their radius. Ties resolve to the lowest
// curve index and then the lowest sample index. Missing (NaN) samples are
// skipped. ok is false when there are no samples to examine.
func Nearest(curves []*dataset.Curve, q Query, cache *RangeCache) (hit Hit, ok bool) {
	var dist []float64
	best := Hit{Distance: math.Inf(1)}

	for ci, c := range curves {
		if c.Len() == 0 {
			continue
		}
		lo, hi := cache.RangeNear(c.X, q.X, q.RadiusPixels, q.PixelScaleX)

		dist = dist[:0]
		for i := lo; i <= hi; i++ {
			dx := (c.X[i] - q.X) / q.PixelScaleX
			dy := (c.Y[i] - q.Y) / q.PixelScaleY
			d := math.Hypot(dx, dy)
			if math.IsNaN(d) {
				d = math.Inf(1)
			}
			dist = append(dist, d)
		}
		mi := floats.MinIdx(dist)
		if math.IsInf(dist[mi], 1) {
			continue
		}
		if !ok || dist[mi] < best.Distance {
			best = Hit{Curve: ci, Sample: lo + mi, Distance: dist[mi]}
			ok = true
		}
	}
	return best, ok
}

// Within reports whether the hit is close enough to count for radius.
func (h Hit) Within(radiusPixels float64) bool {
	return h.Distance < radiusPixels
}
