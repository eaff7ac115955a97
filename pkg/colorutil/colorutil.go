// Package colorutil provides shared color utilities for the curve viewer.
package colorutil

import (
	"image"
	"image/color"
)

// Common colors used throughout the application.
var (
	Black     = color.NRGBA{R: 0, G: 0, B: 0, A: 255}
	White     = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	Grey      = color.NRGBA{R: 128, G: 128, B: 128, A: 255}
	LightGrey = color.NRGBA{R: 200, G: 200, B: 200, A: 255}
	Blue      = color.NRGBA{R: 0, G: 0, B: 255, A: 255}
	Red       = color.NRGBA{R: 255, G: 0, B: 0, A: 255}
)

// WithAlpha returns c with its alpha replaced.
func WithAlpha(c color.NRGBA, a uint8) color.NRGBA {
	c.A = a
	return c
}

// AlphaF returns c with alpha set from a fraction in [0, 1].
func AlphaF(c color.NRGBA, f float64) color.NRGBA {
	if f < 0 {
		f = 0
	}
	if f > 1 {
		f = 1
	}
	c.A = uint8(f*255 + 0.5)
	return c
}

// Over blends src over the pixel at (x, y) of dst. Out-of-bounds writes are ignored.
func Over(dst *image.RGBA, x, y int, src color.NRGBA) {
	if !(image.Point{X: x, Y: y}.In(dst.Bounds())) || src.A == 0 {
		return
	}
	if src.A == 255 {
		dst.SetRGBA(x, y, color.RGBA{R: src.R, G: src.G, B: src.B, A: 255})
		return
	}
	d := dst.RGBAAt(x, y)
	a := uint32(src.A)
	inv := 255 - a
	dst.SetRGBA(x, y, color.RGBA{
		R: uint8((uint32(src.R)*a + uint32(d.R)*inv) / 255),
		G: uint8((uint32(src.G)*a + uint32(d.G)*inv) / 255),
		B: uint8((uint32(src.B)*a + uint32(d.B)*inv) / 255),
		A: uint8(a + uint32(d.A)*inv/255),
	})
}
