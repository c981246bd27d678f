package scene

import (
	"github.com/df07/go-lumen2d/pkg/core"
	"github.com/df07/go-lumen2d/pkg/geometry"
	"github.com/df07/go-lumen2d/pkg/material"
)

// BuildBlackbody creates a diffuse room with a 3200K lamp shining through a
// glass lens. The lens drifts up with motionT.
func BuildBlackbody(s *Scene, motionT float64, frame int) error {
	room := geometry.NewRect(core.NewVec2(0, 0), 38, 21)
	walls := &material.Lambert{Opacity: 1, Albedo: core.NewColor(0.8, 0.75, 0.7)}
	if err := s.Add(room, walls); err != nil {
		return err
	}

	lens := material.NewDielectric(1.6)
	lens.Absorption = 0.1
	if err := s.Add(geometry.NewCircle(0, motionT, 3), lens); err != nil {
		return err
	}

	lamp := material.NewBlackbodyEmitter(3200, 2)
	return s.Add(geometry.NewCircle(-12, 0, 1), lamp)
}
