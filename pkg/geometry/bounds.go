package geometry

import (
	"math"

	"github.com/df07/go-lumen2d/pkg/core"
)

// CanvasBounds is the world-space rectangle visible on the canvas, centered
// on the origin
type CanvasBounds struct {
	Width, Height float64
	box           core.AABB
}

// NewCanvasBounds creates bounds for a visible world of width × height
func NewCanvasBounds(width, height float64) CanvasBounds {
	half := core.NewVec2(width/2, height/2)
	return CanvasBounds{
		Width:  width,
		Height: height,
		box:    core.NewAABB(half.Mul(-1), half),
	}
}

// Intersect returns the parametric interval over which the ray's line crosses
// the rectangle. tmin is negative when the origin is already inside. ok is
// false when the line misses the rectangle or the rectangle lies behind the ray.
func (cb CanvasBounds) Intersect(ray core.Ray) (tmin, tmax float64, ok bool) {
	tmin, tmax, ok = cb.box.Intersect(ray, math.Inf(-1), math.Inf(1))
	if !ok || tmax < 0 {
		return 0, 0, false
	}
	return tmin, tmax, true
}

// Box returns the rectangle as an AABB
func (cb CanvasBounds) Box() core.AABB {
	return cb.box
}
