package dataset

import (
	"math"
	"math/rand"
)

// SyntheticOptions configures GenerateSpectra.
type SyntheticOptions struct {
	Curves  int
	Samples int
	XMin    float64
	XMax    float64
	Peaks   int     // absorption bands per curve
	Noise   float64 // standard deviation of additive noise
	Seed    int64
}

// DefaultSyntheticOptions resembles a small infrared measurement.
func DefaultSyntheticOptions() SyntheticOptions {
	return SyntheticOptions{
		Curves:  40,
		Samples: 1500,
		XMin:    650,
		XMax:    4000,
		Peaks:   6,
		Noise:   0.004,
		Seed:    1,
	}
}

// GenerateSpectra builds a dataset of smooth spectra made of gaussian bands
// on a sloped baseline. Output is deterministic for a given seed. Ids are
// 1-based row numbers.
func GenerateSpectra(opts SyntheticOptions) *Dataset {
	rng := rand.New(rand.NewSource(opts.Seed))

	x := make([]float64, opts.Samples)
	step := 0.0
	if opts.Samples > 1 {
		step = (opts.XMax - opts.XMin) / float64(opts.Samples-1)
	}
	for i := range x {
		x[i] = opts.XMin + float64(i)*step
	}

	type band struct{ center, width, height float64 }
	shared := make([]band, opts.Peaks)
	for i := range shared {
		shared[i] = band{
			center: opts.XMin + rng.Float64()*(opts.XMax-opts.XMin),
			width:  10 + rng.Float64()*60,
			height: 0.2 + rng.Float64()*0.8,
		}
	}

	ys := make([][]float64, opts.Curves)
	ids := make([]ID, opts.Curves)
	for c := range ys {
		scale := 0.6 + rng.Float64()*0.8
		shift := (rng.Float64() - 0.5) * 8
		offset := rng.Float64() * 0.1
		slope := (rng.Float64() - 0.5) * 0.05 / math.Max(opts.XMax-opts.XMin, 1)

		y := make([]float64, len(x))
		for i, xv := range x {
			v := offset + slope*(xv-opts.XMin)
			for _, b := range shared {
				d := (xv - b.center - shift) / b.width
				v += scale * b.height * math.Exp(-0.5*d*d)
			}
			y[i] = v + rng.NormFloat64()*opts.Noise
		}
		ys[c] = y
		ids[c] = ID(c + 1)
	}

	d, err := New(x, ys, ids)
	if err != nil {
		// shapes are constructed above and always agree
		panic(err)
	}
	return d
}
