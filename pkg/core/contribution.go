package core

// Contribution is the running per-channel multiplier of one photon, plus the
// volumetric absorption coefficients of the medium it is currently crossing.
// It is owned by a single photon and mutated in place across bounces.
type Contribution struct {
	R, G, B float64

	AbsorptionR, AbsorptionG, AbsorptionB float64
}

// NeutralContribution returns a contribution that leaves the emitter color
// unchanged and travels through a non-absorbing medium
func NeutralContribution() Contribution {
	return Contribution{R: 1, G: 1, B: 1}
}

// Absorbing reports whether any absorption coefficient is positive
func (c *Contribution) Absorbing() bool {
	return c.AbsorptionR+c.AbsorptionG+c.AbsorptionB > 0
}

// Scale multiplies the color multipliers by s
func (c *Contribution) Scale(s float64) {
	c.R *= s
	c.G *= s
	c.B *= s
}

// Modulate multiplies the color multipliers channel-wise by col
func (c *Contribution) Modulate(col Color) {
	c.R *= col.X()
	c.G *= col.Y()
	c.B *= col.Z()
}

// SetAbsorption sets the same absorption coefficient on all channels
func (c *Contribution) SetAbsorption(a float64) {
	c.AbsorptionR, c.AbsorptionG, c.AbsorptionB = a, a, a
}

// ClampNegative clamps each color multiplier to zero from below
func (c *Contribution) ClampNegative() {
	if c.R < 0 {
		c.R = 0
	}
	if c.G < 0 {
		c.G = 0
	}
	if c.B < 0 {
		c.B = 0
	}
}

// IsZero reports whether the photon can no longer carry any radiance
func (c *Contribution) IsZero() bool {
	return c.R == 0 && c.G == 0 && c.B == 0
}
