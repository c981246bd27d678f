package scene

import (
	"math"

	"github.com/df07/go-lumen2d/pkg/core"
	"github.com/df07/go-lumen2d/pkg/geometry"
	"github.com/df07/go-lumen2d/pkg/material"
)

// BuildPrism creates a dispersive prism lit by a narrow white-hot beam
func BuildPrism(s *Scene, motionT float64, frame int) error {
	prism := &material.Dielectric{
		Opacity:       1,
		Transmittance: 1,
		IOR:           1.5,
		Dispersion:    0.12,
		Absorption:    0.05,
	}
	if err := s.Add(geometry.NewRegularPolygon(core.NewVec2(0, 0), 3, 3, math.Pi/2), prism); err != nil {
		return err
	}

	beam := material.NewBlackbodyEmitter(6500, 1)
	beam.Direction = core.NewVec2(1, 0.25)
	beam.Spread = 0.004
	source := geometry.NewEdgeFromPoints(core.NewVec2(-12, -2.6), core.NewVec2(-12, -2.4), beam)
	if err := s.Add(source, nil); err != nil {
		return err
	}

	return s.Add(geometry.NewRect(core.NewVec2(0, 0), 36, 22), material.NewAbsorber())
}
