package main

import (
	"testing"

	"curve-viewer/internal/dataset"
	"curve-viewer/internal/spatial"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMeasureUsesOneCachePerQuery(t *testing.T) {
	d := dataset.GenerateSpectra(dataset.SyntheticOptions{
		Curves: 4, Samples: 50, XMin: 0, XMax: 49, Peaks: 1, Seed: 2,
	})
	b, ok := d.Bounds()
	require.True(t, ok)

	qs := []spatial.Query{
		{X: 10, Y: b.Y, PixelScaleX: 0.1, PixelScaleY: 0.01, RadiusPixels: 20},
		{X: 10, Y: b.Y, PixelScaleX: 0.1, PixelScaleY: 0.01, RadiusPixels: 20},
		{X: 30, Y: b.Y + b.Height, PixelScaleX: 0.1, PixelScaleY: 0.01, RadiusPixels: 20},
	}
	latencies, _, cacheHits := measure(d.Curves(), qs)

	require.Len(t, latencies, 3)
	for _, l := range latencies {
		assert.GreaterOrEqual(t, l, 0.0)
	}
	// the curves share one domain: each query misses once, then hits for the
	// other three curves; a repeated query starts from an empty cache
	assert.Equal(t, 3*3, cacheHits)
}
