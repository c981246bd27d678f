package renderer

import (
	"image"
	"math"
)

// Modulation is the per-pixel, per-channel background factor. Each channel
// of the source image maps to m in [-1, 1] and the factor is exp(m * power),
// so mid-grey leaves deposits unchanged.
type Modulation struct {
	Width, Height int
	factors       []float64
}

// NewModulation builds factors from img, which should already be canvas sized.
// Pixels outside img's bounds get a factor of 1.
func NewModulation(img image.Image, width, height int, power float64) *Modulation {
	m := &Modulation{
		Width:   width,
		Height:  height,
		factors: make([]float64, width*height*3),
	}
	b := img.Bounds()
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			i := (y*width + x) * 3
			if x >= b.Dx() || y >= b.Dy() {
				m.factors[i], m.factors[i+1], m.factors[i+2] = 1, 1, 1
				continue
			}
			r, g, bl, _ := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
			m.factors[i] = math.Exp(toSigned(r) * power)
			m.factors[i+1] = math.Exp(toSigned(g) * power)
			m.factors[i+2] = math.Exp(toSigned(bl) * power)
		}
	}
	return m
}

// At returns the factors of pixel (x, y)
func (m *Modulation) At(x, y int) (r, g, b float64) {
	i := (y*m.Width + x) * 3
	return m.factors[i], m.factors[i+1], m.factors[i+2]
}

// toSigned maps a 16-bit color channel to [-1, 1]
func toSigned(c uint32) float64 {
	return float64(c)/0xffff*2 - 1
}
