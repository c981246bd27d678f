package material

import (
	"github.com/df07/go-lumen2d/pkg/core"
)

// Interaction describes the surface hit a material scatters from
type Interaction struct {
	T                float64   // Parameter t along the incoming ray
	Normal           core.Vec2 // Unit outward normal at the hit point
	Wavelength       float64   // Photon wavelength in nm, 0 for RGB photons
	WorldAttenuation float64   // Attenuation coefficient of the surrounding medium
}

// Point returns the hit point on ray
func (i Interaction) Point(ray core.Ray) core.Vec2 {
	return ray.At(i.T)
}

// Material interface for surfaces that interact with photons. Scatter moves
// the ray to the hit point, picks the outgoing direction and updates the
// photon's contribution, all in place.
type Material interface {
	Scatter(ray *core.Ray, hit Interaction, contribution *core.Contribution, sampler core.Sampler)
}

// Surface is the geometric part of an emitting primitive
type Surface interface {
	SamplePoint(sampler core.Sampler) (point, normal core.Vec2)
}

// Emissive is implemented by materials that emit photons
type Emissive interface {
	Material
	// Photon emits one photon from a random point of surface
	Photon(surface Surface, sampler core.Sampler) Photon
	// SampleValue is the relative weight used when choosing which emitter fires
	SampleValue() float64
}

// Photon is a freshly emitted ray with its spectrum
type Photon struct {
	Ray      core.Ray
	Spectrum Spectrum
}

// passThrough continues the ray unchanged from the hit point
func passThrough(ray *core.Ray, hit Interaction) {
	ray.Origin = hit.Point(*ray)
}

// facing returns n flipped, if needed, to point against direction d
func facing(n, d core.Vec2) core.Vec2 {
	if d.Dot(n) > 0 {
		return n.Mul(-1)
	}
	return n
}
