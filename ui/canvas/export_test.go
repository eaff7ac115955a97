package canvas

import (
	"bytes"
	"image/png"
	"testing"

	"curve-viewer/internal/dataset"
	"curve-viewer/internal/view"
	"curve-viewer/pkg/geometry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportPNG(t *testing.T) {
	d := dataset.GenerateSpectra(dataset.SyntheticOptions{
		Curves: 3, Samples: 200, XMin: 650, XMax: 4000, Peaks: 2, Noise: 0.01, Seed: 3,
	})
	pens := []view.Pen{view.PenNormal, view.PenSubset, view.PenSelected}
	b, ok := d.Bounds()
	require.True(t, ok)

	var buf bytes.Buffer
	opts := DefaultExportOptions()
	opts.Width, opts.Height = 320, 200
	opts.InvertX = true
	require.NoError(t, ExportPNG(&buf, d.Curves(), pens, b, opts))

	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 320, img.Bounds().Dx())
	assert.Equal(t, 200, img.Bounds().Dy())
}

func TestExportNothingVisible(t *testing.T) {
	d, err := dataset.New([]float64{0, 1, 2}, [][]float64{{0, 1, 0}}, []dataset.ID{1})
	require.NoError(t, err)

	var buf bytes.Buffer
	err = ExportPNG(&buf, d.Curves(), []view.Pen{view.PenNormal}, geometry.NewRect(10, 0, 5, 1), DefaultExportOptions())
	assert.ErrorIs(t, err, ErrNothingVisible)

	err = ExportPNG(&buf, d.Curves(), nil, geometry.NewRect(0, 0, 2, 1), DefaultExportOptions())
	assert.Error(t, err)
}

func TestClipX(t *testing.T) {
	c := &dataset.Curve{X: []float64{0, 1, 2, 3, 4, 5}, Y: []float64{0, 10, 20, 30, 40, 50}}
	xs, ys := clipX(c, 1.5, 3.5)
	assert.Equal(t, []float64{1, 2, 3, 4}, xs)
	assert.Equal(t, []float64{10, 20, 30, 40}, ys)

	xs, _ = clipX(c, -10, 10)
	assert.Len(t, xs, 6)
}
