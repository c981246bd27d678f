package scene

import (
	"github.com/df07/go-lumen2d/pkg/core"
	"github.com/df07/go-lumen2d/pkg/geometry"
	"github.com/df07/go-lumen2d/pkg/material"
)

// BuildSingleEmitter creates a white beam leaving the origin along +x and an
// absorbing edge five units away
func BuildSingleEmitter(s *Scene, motionT float64, frame int) error {
	beam := material.NewEmitter(core.NewColor(1, 1, 1))
	beam.Direction = core.NewVec2(1, 0)

	source := geometry.NewEdgeFromPoints(core.NewVec2(0, -1e-4), core.NewVec2(0, 1e-4), beam)
	if err := s.Add(source, nil); err != nil {
		return err
	}
	return s.Add(geometry.NewEdge(5, -5, 5, 5), material.NewAbsorber())
}
