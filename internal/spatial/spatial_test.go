package spatial

import (
	"math"
	"math/rand"
	"sort"
	"testing"

	"curve-viewer/internal/dataset"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClosestIndex(t *testing.T) {
	xs := []float64{0, 1, 2, 4, 8}
	tests := []struct {
		v    float64
		want int
	}{
		{-100, 0},
		{0, 0},
		{0.4, 0},
		{0.5, 0}, // tie goes to the lower index
		{0.6, 1},
		{3, 2}, // tie between 2 and 4
		{3.1, 3},
		{8, 4},
		{1e9, 4},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ClosestIndex(xs, tt.v), "v=%v", tt.v)
	}
	assert.Equal(t, 2, ClosestIndex([]float64{3, 3, 5, 5}, 4.5))
	assert.Equal(t, 0, ClosestIndex([]float64{3, 3, 5, 5}, 4), "tie across runs picks the first of the lower run")
	assert.Equal(t, 2, ClosestIndex([]float64{3, 3, 5, 5}, 9), "clamp picks the first of the last run")
	assert.Equal(t, 0, ClosestIndex([]float64{5}, -3))
	assert.Equal(t, 0, ClosestIndex([]float64{5}, 30))
}

func TestClosestIndexMatchesLinearScan(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	for iter := 0; iter < 500; iter++ {
		n := 1 + rng.Intn(40)
		xs := make([]float64, n)
		for i := range xs {
			xs[i] = float64(rng.Intn(30)) // duplicates and ties on purpose
		}
		sort.Float64s(xs)
		v := rng.Float64()*40 - 5

		got := ClosestIndex(xs, v)
		require.True(t, got >= 0 && got < n)
		for j := range xs {
			dg := math.Abs(xs[got] - v)
			dj := math.Abs(xs[j] - v)
			require.LessOrEqual(t, dg, dj, "xs=%v v=%v got=%d j=%d", xs, v, got, j)
			if dj == dg {
				require.LessOrEqual(t, got, j, "tie must resolve to the lower index: xs=%v v=%v", xs, v)
				break
			}
		}
	}
}

func TestRangeNear(t *testing.T) {
	xs := []float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}
	cache := NewRangeCache()

	lo, hi := cache.RangeNear(xs, 4.2, 2, 1)
	assert.Equal(t, 2, lo)
	assert.Equal(t, 6, hi)
	assert.Equal(t, 0, cache.Hits())

	lo, hi = cache.RangeNear(xs, 4.2, 2, 1)
	assert.Equal(t, [2]int{2, 6}, [2]int{lo, hi})
	assert.Equal(t, 1, cache.Hits())

	// out of range clamps to the boundary samples
	lo, hi = cache.RangeNear(xs, -50, 3, 1)
	assert.Equal(t, [2]int{0, 0}, [2]int{lo, hi})
	lo, hi = cache.RangeNear(xs, 50, 3, 1)
	assert.Equal(t, [2]int{9, 9}, [2]int{lo, hi})

	// a different domain with the same query x is not served from the cache
	other := []float64{100, 101}
	lo, hi = cache.RangeNear(other, 4.2, 2, 1)
	assert.Equal(t, [2]int{0, 0}, [2]int{lo, hi})
}

func TestRangeNearNilCache(t *testing.T) {
	var cache *RangeCache
	lo, hi := cache.RangeNear([]float64{0, 10, 20}, 10, 1, 1)
	assert.Equal(t, [2]int{1, 1}, [2]int{lo, hi})
}

func curves(t *testing.T, x []float64, ys ...[]float64) []*dataset.Curve {
	t.Helper()
	ids := make([]dataset.ID, len(ys))
	for i := range ids {
		ids[i] = dataset.ID(i + 1)
	}
	d, err := dataset.New(x, ys, ids)
	require.NoError(t, err)
	return d.Curves()
}

func TestNearestEmpty(t *testing.T) {
	_, ok := Nearest(nil, Query{X: 1, Y: 1, PixelScaleX: 1, PixelScaleY: 1, RadiusPixels: 5}, NewRangeCache())
	assert.False(t, ok)

	cs := curves(t, []float64{})
	cs = append(cs, &dataset.Curve{})
	_, ok = Nearest(cs, Query{X: 1, Y: 1, PixelScaleX: 1, PixelScaleY: 1, RadiusPixels: 5}, NewRangeCache())
	assert.False(t, ok)
}

func TestNearestPicksClosestCurveAndSample(t *testing.T) {
	x := []float64{0, 1, 2, 3, 4}
	cs := curves(t, x,
		[]float64{0, 0, 0, 0, 0},
		[]float64{5, 5, 5, 5, 5},
		[]float64{2, 2, 2.5, 2, 2},
	)
	cache := NewRangeCache()
	hit, ok := Nearest(cs, Query{X: 2.1, Y: 2.4, PixelScaleX: 0.1, PixelScaleY: 0.1, RadiusPixels: 20}, cache)
	require.True(t, ok)
	assert.Equal(t, 2, hit.Curve)
	assert.Equal(t, 2, hit.Sample)
	assert.InDelta(t, math.Hypot(1, 1), hit.Distance, 1e-9)
	assert.True(t, hit.Within(20))
	assert.False(t, hit.Within(1))

	// three curves, one shared domain: one miss then two cache hits
	assert.Equal(t, 2, cache.Hits())
}

func TestNearestTieGoesToLowestCurve(t *testing.T) {
	cs := curves(t, []float64{0, 1, 2},
		[]float64{1, 1, 1},
		[]float64{-1, -1, -1},
	)
	hit, ok := Nearest(cs, Query{X: 1, Y: 0, PixelScaleX: 1, PixelScaleY: 1, RadiusPixels: 3}, nil)
	require.True(t, ok)
	assert.Equal(t, 0, hit.Curve)
	assert.Equal(t, 1, hit.Sample)
	assert.Equal(t, 1.0, hit.Distance)
}

func TestNearestUsesPixelSpace(t *testing.T) {
	// In data units curve 1 is closer to the pointer, but one x pixel spans
	// 10 units while one y pixel spans 0.01, so curve 0 wins on screen.
	cs := curves(t, []float64{0, 10},
		[]float64{100, 3},
		[]float64{1, 1},
	)
	hit, ok := Nearest(cs, Query{X: 0, Y: 3, PixelScaleX: 10, PixelScaleY: 0.01, RadiusPixels: 1}, NewRangeCache())
	require.True(t, ok)
	assert.Equal(t, 0, hit.Curve)
	assert.Equal(t, 1, hit.Sample)
	assert.InDelta(t, 1, hit.Distance, 1e-9)
	assert.False(t, hit.Within(1), "the radius is exclusive")
	assert.True(t, hit.Within(20))
}

func TestNearestOutOfRangeClamps(t *testing.T) {
	cs := curves(t, []float64{0, 1, 2}, []float64{0, 0, 0})

	// the pointer is 3 pixels right of the last sample: clamped and within radius
	hit, ok := Nearest(cs, Query{X: 2.3, Y: 0, PixelScaleX: 0.1, PixelScaleY: 0.1, RadiusPixels: 20}, NewRangeCache())
	require.True(t, ok)
	assert.Equal(t, 2, hit.Sample)
	assert.True(t, hit.Within(20))

	// far outside: still a hit on the boundary sample, rejected by the radius
	hit, ok = Nearest(cs, Query{X: 50, Y: 0, PixelScaleX: 0.1, PixelScaleY: 0.1, RadiusPixels: 20}, NewRangeCache())
	require.True(t, ok)
	assert.Equal(t, 2, hit.Sample)
	assert.False(t, hit.Within(20))
}

func TestNearestSkipsMissingSamples(t *testing.T) {
	nan := math.NaN()
	x := []float64{0, 1, 2, 3, 4}
	q := Query{X: 2, Y: 5, PixelScaleX: 1, PixelScaleY: 1, RadiusPixels: 20}

	cs := curves(t, x,
		[]float64{nan, nan, nan, nan, nan},
		[]float64{5, 5, 5, 5, 5},
	)
	hit, ok := Nearest(cs, q, NewRangeCache())
	require.True(t, ok)
	assert.Equal(t, Hit{Curve: 1, Sample: 2, Distance: 0}, hit)

	// a gap at the start of the window does not hide the rest of the curve
	cs = curves(t, x, []float64{nan, nan, 6, 5, nan})
	hit, ok = Nearest(cs, q, NewRangeCache())
	require.True(t, ok)
	assert.Equal(t, 3, hit.Sample)
	assert.InDelta(t, 1, hit.Distance, 1e-9)

	cs = curves(t, x, []float64{nan, nan, nan, nan, nan})
	_, ok = Nearest(cs, q, NewRangeCache())
	assert.False(t, ok, "a curve with only missing samples is never a hit")
}

func TestNearestMatchesBruteForce(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	const radius = 20.0

	for iter := 0; iter < 200; iter++ {
		n := 5 + rng.Intn(200)
		x := make([]float64, n)
		for i := range x {
			x[i] = rng.Float64() * 100
		}
		ys := make([][]float64, 1+rng.Intn(12))
		for c := range ys {
			ys[c] = make([]float64, n)
			for i := range ys[c] {
				ys[c][i] = rng.NormFloat64() * 10
			}
		}
		cs := curves(t, x, ys...)

		sx := 0.05 + rng.Float64()*0.5
		sy := 0.05 + rng.Float64()*0.5

		// place the pointer a few pixels from a random sample
		tc := rng.Intn(len(cs))
		ts := rng.Intn(n)
		q := Query{
			X:            cs[tc].X[ts] + (rng.Float64()-0.5)*4*sx,
			Y:            cs[tc].Y[ts] + (rng.Float64()-0.5)*4*sy,
			PixelScaleX:  sx,
			PixelScaleY:  sy,
			RadiusPixels: radius,
		}

		wantCurve, wantSample, wantDist := -1, -1, math.Inf(1)
		for ci, c := range cs {
			for i := range c.X {
				d := math.Hypot((c.X[i]-q.X)/sx, (c.Y[i]-q.Y)/sy)
				if d < wantDist {
					wantCurve, wantSample, wantDist = ci, i, d
				}
			}
		}
		require.Less(t, wantDist, radius)

		hit, ok := Nearest(cs, q, NewRangeCache())
		require.True(t, ok)
		require.Equal(t, wantCurve, hit.Curve, "iteration %d", iter)
		require.Equal(t, wantSample, hit.Sample, "iteration %d", iter)
		require.InDelta(t, wantDist, hit.Distance, 1e-9)
	}
}

func BenchmarkNearest(b *testing.B) {
	opts := dataset.DefaultSyntheticOptions()
	opts.Curves = 200
	d := dataset.GenerateSpectra(opts)
	q := Query{X: 2000, Y: 0.4, PixelScaleX: 4, PixelScaleY: 0.002, RadiusPixels: 20}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Nearest(d.Curves(), q, NewRangeCache())
	}
}
