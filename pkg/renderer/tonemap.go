package renderer

import (
	"image"
	"image/color"
	"math"

	"gonum.org/v1/gonum/stat"
)

// Tonemap converts accumulated radiance to an 8-bit image. Values are
// normalized by the mean luminance of the lit pixels, so the result does not
// depend on how many photons were fired, then compressed with 1-exp(-x) and
// gamma encoded.
func Tonemap(values []float32, width, height int, exposure, gamma float64) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))

	lums := make([]float64, 0, width*height)
	for i := 0; i+2 < len(values); i += 3 {
		if l := luminance(float64(values[i]), float64(values[i+1]), float64(values[i+2])); l > 0 {
			lums = append(lums, l)
		}
	}

	scale := 0.0
	if len(lums) > 0 {
		scale = exposure / stat.Mean(lums, nil)
	}
	invGamma := 1 / gamma

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			i := (y*width + x) * 3
			img.SetRGBA(x, y, color.RGBA{
				R: toByte(float64(values[i])*scale, invGamma),
				G: toByte(float64(values[i+1])*scale, invGamma),
				B: toByte(float64(values[i+2])*scale, invGamma),
				A: 255,
			})
		}
	}
	return img
}

func toByte(v, invGamma float64) uint8 {
	if v <= 0 {
		return 0
	}
	v = math.Pow(1-math.Exp(-v), invGamma)
	return uint8(math.Min(255, math.Round(v*255)))
}
