package material

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"

	"github.com/df07/go-lumen2d/pkg/core"
)

const (
	planckH = 6.62607015e-34 // J·s
	planckC = 2.99792458e8   // m/s
	boltzK  = 1.380649e-23   // J/K

	blackbodyStep = 1.0 // nm between tabulated wavelengths
)

// BlackbodyTable samples visible wavelengths in proportion to a blackbody's
// spectral radiance
type BlackbodyTable struct {
	Temperature float64
	wavelengths []float64
	weights     []float64
	cdf         []float64
}

// NewBlackbodyTable tabulates the visible spectrum at the given temperature in Kelvin
func NewBlackbodyTable(temperature float64) *BlackbodyTable {
	var wavelengths, weights []float64
	for w := core.MinWavelength; w <= core.MaxWavelength; w += blackbodyStep {
		wavelengths = append(wavelengths, w)
		weights = append(weights, planck(w*1e-9, temperature))
	}

	cdf := make([]float64, len(weights))
	floats.CumSum(cdf, weights)

	return &BlackbodyTable{
		Temperature: temperature,
		wavelengths: wavelengths,
		weights:     weights,
		cdf:         cdf,
	}
}

// planck returns the spectral radiance at wavelength (m) and temperature (K)
func planck(wavelength, temperature float64) float64 {
	a := 2 * planckH * planckC * planckC / math.Pow(wavelength, 5)
	b := math.Expm1(planckH * planckC / (wavelength * boltzK * temperature))
	return a / b
}

// Sample maps u in [0, 1) to a wavelength in nm
func (bt *BlackbodyTable) Sample(u float64) float64 {
	target := u * bt.cdf[len(bt.cdf)-1]
	// smallest i such that cdf[i] > target
	i := sort.Search(len(bt.cdf), func(i int) bool { return bt.cdf[i] > target })
	if i == len(bt.cdf) {
		i--
	}
	return bt.wavelengths[i]
}

// MeanRGB returns the radiance-weighted average color of the table
func (bt *BlackbodyTable) MeanRGB() core.Color {
	total := floats.Sum(bt.weights)
	var mean core.Color
	if total == 0 {
		return mean
	}
	for i, w := range bt.wavelengths {
		mean = mean.Add(core.WavelengthToRGB(w).Mul(bt.weights[i] / total))
	}
	return mean
}
