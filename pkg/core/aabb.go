package core

import "math"

// AABB represents an axis-aligned bounding box
type AABB struct {
	Min Vec2 // Minimum corner
	Max Vec2 // Maximum corner
}

// NewAABB creates a new AABB from min and max points
func NewAABB(min, max Vec2) AABB {
	return AABB{Min: min, Max: max}
}

// NewAABBFromPoints creates an AABB that bounds all given points
func NewAABBFromPoints(points ...Vec2) AABB {
	if len(points) == 0 {
		return AABB{}
	}

	min := points[0]
	max := points[0]

	for _, point := range points[1:] {
		min[0] = math.Min(min[0], point[0])
		min[1] = math.Min(min[1], point[1])

		max[0] = math.Max(max[0], point[0])
		max[1] = math.Max(max[1], point[1])
	}

	return AABB{Min: min, Max: max}
}

// Intersect clips the ray against the box using the slab method and returns
// the parametric interval [tEnter, tExit] inside [tMin, tMax]
func (aabb AABB) Intersect(ray Ray, tMin, tMax float64) (float64, float64, bool) {
	for axis := 0; axis < 2; axis++ {
		min := aabb.Min[axis]
		max := aabb.Max[axis]
		origin := ray.Origin[axis]
		direction := ray.Direction[axis]

		// Handle parallel rays (direction near zero)
		if math.Abs(direction) < 1e-12 {
			if origin < min || origin > max {
				return 0, 0, false
			}
			continue
		}

		invDirection := 1.0 / direction
		t1 := (min - origin) * invDirection
		t2 := (max - origin) * invDirection

		if t1 > t2 {
			t1, t2 = t2, t1
		}

		tMin = math.Max(tMin, t1)
		tMax = math.Min(tMax, t2)

		if tMin > tMax {
			return 0, 0, false
		}
	}

	return tMin, tMax, true
}

// Hit tests if a ray intersects with this AABB within [tMin, tMax]
func (aabb AABB) Hit(ray Ray, tMin, tMax float64) bool {
	_, _, ok := aabb.Intersect(ray, tMin, tMax)
	return ok
}

// Union returns an AABB that bounds both this AABB and another
func (aabb AABB) Union(other AABB) AABB {
	return AABB{
		Min: Vec2{math.Min(aabb.Min[0], other.Min[0]), math.Min(aabb.Min[1], other.Min[1])},
		Max: Vec2{math.Max(aabb.Max[0], other.Max[0]), math.Max(aabb.Max[1], other.Max[1])},
	}
}

// Center returns the center point of the AABB
func (aabb AABB) Center() Vec2 {
	return aabb.Min.Add(aabb.Max).Mul(0.5)
}

// Size returns the size (extent) of the AABB along each axis
func (aabb AABB) Size() Vec2 {
	return aabb.Max.Sub(aabb.Min)
}

// LongestAxis returns the axis (0=X, 1=Y) with the longest extent
func (aabb AABB) LongestAxis() int {
	size := aabb.Size()
	if size[0] >= size[1] {
		return 0
	}
	return 1
}

// Contains reports whether p lies inside or on the box
func (aabb AABB) Contains(p Vec2) bool {
	return p[0] >= aabb.Min[0] && p[0] <= aabb.Max[0] &&
		p[1] >= aabb.Min[1] && p[1] <= aabb.Max[1]
}

// Expand returns an AABB expanded by the given amount in all directions
func (aabb AABB) Expand(amount float64) AABB {
	expansion := Vec2{amount, amount}
	return AABB{
		Min: aabb.Min.Sub(expansion),
		Max: aabb.Max.Add(expansion),
	}
}
