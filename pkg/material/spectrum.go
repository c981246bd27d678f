package material

import "github.com/df07/go-lumen2d/pkg/core"

// Spectrum is either an explicit RGB color or a single wavelength with an intensity
type Spectrum struct {
	Color      core.Color
	Wavelength float64 // nm; when positive, Color is ignored
	Intensity  float64
}

// RGB resolves the spectrum to a color on the 0-255 scale
func (s Spectrum) RGB() core.Color {
	if s.Wavelength > 0 {
		return core.WavelengthToRGB(s.Wavelength).Mul(s.Intensity)
	}
	return s.Color
}
