package scene

import (
	"math"
	"math/rand"

	"github.com/df07/go-lumen2d/pkg/core"
	"github.com/df07/go-lumen2d/pkg/geometry"
	"github.com/df07/go-lumen2d/pkg/material"
)

// nestedSquaresSeed keeps the per-square jitter identical across workers and frames
const nestedSquaresSeed = 921

// BuildNestedSquares creates a walled room holding a 3×3 grid of nested
// squares. The side squares slide back and forth over an eight frame cycle,
// blurred within each frame by motionT; the middle one is glass.
func BuildNestedSquares(s *Scene, motionT float64, frame int) error {
	walls := material.NewLambert(1)
	const (
		top, bottom = 11.0, 11.0
		left, right = 19.5, 19.5
	)
	room := []*geometry.Edge{
		geometry.NewEdge(-left, -bottom, -left, top),
		geometry.NewEdge(right, -bottom, right, top),
		geometry.NewEdge(-left, top, right, top),
		geometry.NewEdge(-left, -bottom, right, -bottom),
	}
	for _, e := range room {
		if err := s.Add(e, walls); err != nil {
			return err
		}
	}

	glass := &material.Dielectric{
		Opacity:       1,
		Transmittance: 1,
		IOR:           1.4,
		Roughness:     0.05,
		Dispersion:    0.15,
		Absorption:    0.35,
	}
	darken := material.NewContributionModifier(0.2)
	brighten := material.NewContributionModifier(1 / 0.2)

	random := rand.New(rand.NewSource(nestedSquaresSeed))
	const spacing = 5.0
	shift := SlideOffset(motionT, frame)

	for i := 0; i < 9; i++ {
		radius := 2.0
		xo := random.Float64()*0.5 - 0.25
		yo := random.Float64()*0.5 - 0.25

		gx := float64(i%3 - 1)
		gy := float64(i/3 - 1)

		for j := 0; j < 4; j++ {
			center := core.NewVec2(xo*float64(j)+spacing*gx, yo*float64(j)+spacing*gy)

			switch i {
			case 5:
				center[0] += shift
			case 3:
				center[0] -= shift
			case 1:
				center[1] -= shift
			case 7:
				center[1] += shift
			}

			var m material.Material = darken
			if (i*9+j)%2 == 1 {
				m = brighten
			}
			if i == 4 {
				m = glass
			}

			if err := s.Add(geometry.NewRect(center, 2*radius, 2*radius), m); err != nil {
				return err
			}
			radius *= 0.7
		}
	}

	lamp := material.NewEmitter(core.NewColor(40, 90, 250))
	return s.Add(geometry.NewCircle(16, 7.5, 3), lamp)
}

// slideCycle is the number of frames the side squares take to slide out and back
const slideCycle = 8

// SlideOffset returns how far the nested-squares side squares have moved at
// shutter position motionT of the given frame
func SlideOffset(motionT float64, frame int) float64 {
	phase := (float64(frame%slideCycle) + motionT) / slideCycle
	return 2 * math.Sin(2*math.Pi*phase)
}
