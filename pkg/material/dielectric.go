package material

import (
	"math"

	"github.com/df07/go-lumen2d/pkg/core"
)

// referenceWavelength is where Dispersion leaves the index of refraction unchanged
const referenceWavelength = 550.0

// Dielectric represents a transparent material like glass that can both
// reflect and refract, optionally with dispersion, rough surfaces and
// volumetric absorption inside
type Dielectric struct {
	Opacity       float64 // Probability that a photon interacts instead of passing through
	Transmittance float64 // Contribution multiplier on refraction
	IOR           float64 // Index of refraction at the reference wavelength
	Roughness     float64 // 0 = smooth; 1 perturbs normals by up to ±90°
	Dispersion    float64 // Cauchy-style spread of the IOR across wavelengths
	Absorption    float64 // Volumetric absorption coefficient inside the material
}

// NewDielectric creates a clear, smooth dielectric material
func NewDielectric(ior float64) *Dielectric {
	return &Dielectric{Opacity: 1, Transmittance: 1, IOR: ior}
}

// IndexAt returns the index of refraction for a wavelength in nm (0 = reference)
func (d *Dielectric) IndexAt(wavelength float64) float64 {
	if wavelength <= 0 || d.Dispersion == 0 {
		return d.IOR
	}
	ratio := referenceWavelength / wavelength
	return d.IOR + d.Dispersion*(ratio*ratio-1)
}

// Scatter reflects or refracts the photon using Schlick's Fresnel approximation
func (d *Dielectric) Scatter(ray *core.Ray, hit Interaction, contribution *core.Contribution, sampler core.Sampler) {
	passThrough(ray, hit)
	unitDirection := core.Normalize(ray.Direction)
	entering := unitDirection.Dot(hit.Normal) < 0

	// photons let through unbent still cross into or out of the medium
	if sampler.Get1D() >= d.Opacity {
		d.setMedium(contribution, entering)
		return
	}
	normal := facing(hit.Normal, unitDirection)

	if perturbed := core.PerturbNormal(normal, d.Roughness, sampler.Get1D()); perturbed.Dot(unitDirection) < 0 {
		normal = perturbed
	}

	ior := d.IndexAt(hit.Wavelength)
	refractionRatio := ior
	if entering {
		refractionRatio = 1.0 / ior
	}

	cosTheta := math.Min(-unitDirection.Dot(normal), 1.0)
	refracted, canRefract := core.Refract(unitDirection, normal, refractionRatio)

	if !canRefract || core.Reflectance(cosTheta, refractionRatio) > sampler.Get1D() {
		ray.Direction = core.Reflect(unitDirection, normal)
		return
	}

	ray.Direction = core.Normalize(refracted)
	contribution.Scale(d.Transmittance)
	d.setMedium(contribution, entering)
}

func (d *Dielectric) setMedium(contribution *core.Contribution, entering bool) {
	if entering {
		contribution.SetAbsorption(d.Absorption)
	} else {
		contribution.SetAbsorption(0)
	}
}
