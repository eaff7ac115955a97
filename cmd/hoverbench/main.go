// Command hoverbench measures nearest-curve lookup latency on synthetic
// spectra and outputs results.
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"sort"
	"time"

	"curve-viewer/internal/dataset"
	"curve-viewer/internal/spatial"

	"gonum.org/v1/gonum/stat"
)

func main() {
	curves := flag.Int("curves", 200, "Number of curves")
	samples := flag.Int("samples", 4000, "Samples per curve")
	queries := flag.Int("queries", 2000, "Number of hover queries")
	radius := flag.Float64("radius", 20, "Hover radius in pixels")
	width := flag.Int("width", 1200, "Plot width in pixels")
	height := flag.Int("height", 700, "Plot height in pixels")
	seed := flag.Int64("seed", 1, "Random seed")
	flag.Parse()

	if *curves <= 0 || *samples <= 1 || *queries <= 0 || *width <= 0 || *height <= 0 {
		fmt.Println("Usage: hoverbench [-curves 200] [-samples 4000] [-queries 2000] [-radius 20] [-width 1200] [-height 700]")
		os.Exit(1)
	}

	opts := dataset.DefaultSyntheticOptions()
	opts.Curves = *curves
	opts.Samples = *samples
	opts.Seed = *seed
	d := dataset.GenerateSpectra(opts)

	b, ok := d.Bounds()
	if !ok {
		fmt.Fprintln(os.Stderr, "Dataset is empty")
		os.Exit(1)
	}
	fmt.Printf("Dataset: %d curves x %d samples\n", d.Len(), *samples)
	fmt.Printf("Bounds: x %.1f..%.1f  y %.3f..%.3f\n", b.X, b.X+b.Width, b.Y, b.Y+b.Height)

	sx := b.Width / float64(*width)
	sy := b.Height / float64(*height)
	rng := rand.New(rand.NewSource(*seed))

	qs := make([]spatial.Query, *queries)
	for i := range qs {
		qs[i] = spatial.Query{
			X:            b.X + rng.Float64()*b.Width,
			Y:            b.Y + rng.Float64()*b.Height,
			PixelScaleX:  sx,
			PixelScaleY:  sy,
			RadiusPixels: *radius,
		}
	}
	latencies, hits, cacheHits := measure(d.Curves(), qs)

	sort.Float64s(latencies)
	fmt.Printf("\nQueries: %d  within radius: %d (%.1f%%)\n", *queries, hits, 100*float64(hits)/float64(*queries))
	fmt.Printf("Latency: mean %.1fus  p50 %.1fus  p99 %.1fus  max %.1fus\n",
		stat.Mean(latencies, nil),
		stat.Quantile(0.5, stat.Empirical, latencies, nil),
		stat.Quantile(0.99, stat.Empirical, latencies, nil),
		latencies[len(latencies)-1])
	fmt.Printf("Range cache hits: %.1f per query\n", float64(cacheHits)/float64(*queries))
}

// measure times one Nearest lookup per query, in microseconds. Every query
// gets its own cache, as one hover dispatch does.
func measure(curves []*dataset.Curve, queries []spatial.Query) (latencies []float64, hits, cacheHits int) {
	latencies = make([]float64, 0, len(queries))
	for _, q := range queries {
		start := time.Now()
		cache := spatial.NewRangeCache()
		hit, ok := spatial.Nearest(curves, q, cache)
		latencies = append(latencies, time.Since(start).Seconds()*1e6)
		cacheHits += cache.Hits()
		if ok && hit.Within(q.RadiusPixels) {
			hits++
		}
	}
	return latencies, hits, cacheHits
}
