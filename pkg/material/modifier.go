package material

import "github.com/df07/go-lumen2d/pkg/core"

// ContributionModifier rescales the photon's contribution without changing
// its path. Modifiers above one are allowed and brighten the photon.
type ContributionModifier struct {
	Modifier float64
}

// NewContributionModifier creates a modifier material
func NewContributionModifier(modifier float64) *ContributionModifier {
	return &ContributionModifier{Modifier: modifier}
}

// Scatter lets the photon through and scales its contribution
func (m *ContributionModifier) Scatter(ray *core.Ray, hit Interaction, contribution *core.Contribution, sampler core.Sampler) {
	passThrough(ray, hit)
	contribution.Scale(m.Modifier)
}
