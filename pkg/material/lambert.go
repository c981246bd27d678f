package material

import (
	"github.com/df07/go-lumen2d/pkg/core"
)

// Lambert represents a perfectly diffuse surface. A zero Albedo absorbs everything.
type Lambert struct {
	Opacity float64    // Probability that a photon interacts instead of passing through
	Albedo  core.Color // Per-channel reflectance
}

// NewLambert creates a white diffuse material with the given opacity
func NewLambert(opacity float64) *Lambert {
	return &Lambert{Opacity: opacity, Albedo: core.NewColor(1, 1, 1)}
}

// NewAbsorber creates an opaque surface that absorbs every photon
func NewAbsorber() *Lambert {
	return &Lambert{Opacity: 1}
}

// Scatter reflects diffusely on the side the photon came from
func (l *Lambert) Scatter(ray *core.Ray, hit Interaction, contribution *core.Contribution, sampler core.Sampler) {
	passThrough(ray, hit)
	if sampler.Get1D() >= l.Opacity {
		return
	}

	normal := facing(hit.Normal, ray.Direction)
	ray.Direction = core.SampleCosineDirection(normal, sampler.Get1D())
	contribution.Modulate(l.Albedo)
}
