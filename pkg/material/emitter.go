package material

import (
	"github.com/df07/go-lumen2d/pkg/core"
)

// Emitter represents a light-emitting material. Photons leave a random point
// of the surface with a cosine-weighted direction around its outward normal,
// or inside a beam when Direction is set.
type Emitter struct {
	Color        core.Color // Emitted color on the 0-255 scale
	SamplePower  float64    // Explicit selection weight; overrides Color*SampleWeight when positive
	SampleWeight float64    // Multiplier on the color sum used as selection weight
	Opacity      float64    // Probability that a photon hitting the emitter is absorbed

	Wavelength float64         // Single wavelength in nm (0 = use Color)
	Intensity  float64         // Scale applied to wavelength colors
	Blackbody  *BlackbodyTable // Per-photon wavelength distribution (overrides Wavelength)

	Direction core.Vec2 // Beam direction; zero means cosine emission around the normal
	Spread    float64   // Beam half-angle in radians
}

var _ Emissive = (*Emitter)(nil)

// NewEmitter creates an RGB emitter
func NewEmitter(color core.Color) *Emitter {
	return &Emitter{Color: color, SampleWeight: 1}
}

// NewWavelengthEmitter creates an emitter whose photons all carry one wavelength
func NewWavelengthEmitter(wavelength, intensity float64) *Emitter {
	return &Emitter{
		Color:        core.WavelengthToRGB(wavelength).Mul(intensity),
		SampleWeight: 1,
		Wavelength:   wavelength,
		Intensity:    intensity,
	}
}

// NewBlackbodyEmitter creates an emitter whose photon wavelengths follow
// Planck's law at the given temperature in Kelvin
func NewBlackbodyEmitter(temperature, intensity float64) *Emitter {
	table := NewBlackbodyTable(temperature)
	return &Emitter{
		Color:        table.MeanRGB().Mul(intensity),
		SampleWeight: 1,
		Intensity:    intensity,
		Blackbody:    table,
	}
}

// SampleValue implements Emissive
func (e *Emitter) SampleValue() float64 {
	if e.SamplePower > 0 {
		return e.SamplePower
	}
	return (e.Color.X() + e.Color.Y() + e.Color.Z()) * e.SampleWeight
}

// Photon implements Emissive
func (e *Emitter) Photon(surface Surface, sampler core.Sampler) Photon {
	point, normal := surface.SamplePoint(sampler)

	var direction core.Vec2
	if e.Direction != (core.Vec2{}) {
		direction = core.Normalize(core.Rotate(e.Direction, (2*sampler.Get1D()-1)*e.Spread))
	} else {
		direction = core.SampleCosineDirection(normal, sampler.Get1D())
	}

	return Photon{
		Ray:      core.NewRay(point, direction),
		Spectrum: e.spectrum(sampler),
	}
}

func (e *Emitter) spectrum(sampler core.Sampler) Spectrum {
	switch {
	case e.Blackbody != nil:
		return Spectrum{Wavelength: e.Blackbody.Sample(sampler.Get1D()), Intensity: e.Intensity}
	case e.Wavelength > 0:
		return Spectrum{Wavelength: e.Wavelength, Intensity: e.Intensity}
	default:
		return Spectrum{Color: e.Color}
	}
}

// Scatter absorbs the photon with probability Opacity, otherwise lets it through
func (e *Emitter) Scatter(ray *core.Ray, hit Interaction, contribution *core.Contribution, sampler core.Sampler) {
	passThrough(ray, hit)
	if sampler.Get1D() < e.Opacity {
		contribution.Scale(0)
	}
}
