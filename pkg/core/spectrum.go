package core

import "math"

const (
	// MinWavelength and MaxWavelength bound the visible range in nanometres
	MinWavelength = 380.0
	MaxWavelength = 780.0

	wavelengthGamma = 0.80
	intensityMax    = 255.0
)

// WavelengthToRGB maps a visible wavelength in nanometres to an RGB color on
// the 0-255 scale. Intensity falls off near the limits of vision; anything
// outside [380, 781) maps to black.
func WavelengthToRGB(wavelength float64) Color {
	var r, g, b float64

	switch {
	case wavelength >= 380 && wavelength < 440:
		r = -(wavelength - 440) / (440 - 380)
		b = 1
	case wavelength >= 440 && wavelength < 490:
		g = (wavelength - 440) / (490 - 440)
		b = 1
	case wavelength >= 490 && wavelength < 510:
		g = 1
		b = -(wavelength - 510) / (510 - 490)
	case wavelength >= 510 && wavelength < 580:
		r = (wavelength - 510) / (580 - 510)
		g = 1
	case wavelength >= 580 && wavelength < 645:
		r = 1
		g = -(wavelength - 645) / (645 - 580)
	case wavelength >= 645 && wavelength < 781:
		r = 1
	}

	var factor float64
	switch {
	case wavelength >= 380 && wavelength < 420:
		factor = 0.3 + 0.7*(wavelength-380)/(420-380)
	case wavelength >= 420 && wavelength < 701:
		factor = 1
	case wavelength >= 701 && wavelength < 781:
		factor = 0.3 + 0.7*(780-wavelength)/(780-700)
	}

	return NewColor(channel(r, factor), channel(g, factor), channel(b, factor))
}

// channel avoids 0^gamma = 1 for zero components
func channel(value, factor float64) float64 {
	if value == 0 {
		return 0
	}
	return math.Round(intensityMax * math.Pow(value*factor, wavelengthGamma))
}
