package geometry

import (
	"math"

	"github.com/df07/go-lumen2d/pkg/core"
	"github.com/df07/go-lumen2d/pkg/material"
)

// Circle represents a circle shape
type Circle struct {
	surface
	Center core.Vec2
	Radius float64
}

// NewCircle creates a circle centered at (x, y)
func NewCircle(x, y, radius float64) *Circle {
	return NewCircleWithMaterial(core.NewVec2(x, y), radius, nil)
}

// NewCircleWithMaterial creates a circle with the given material
func NewCircleWithMaterial(center core.Vec2, radius float64, m material.Material) *Circle {
	c := &Circle{Center: center, Radius: radius}
	c.material = m
	return c
}

// Primitives implements Object
func (c *Circle) Primitives() []Primitive {
	return []Primitive{c}
}

// Hit tests if a ray intersects with the circle
func (c *Circle) Hit(ray core.Ray, tMin, tMax float64) (Intersection, bool) {
	oc := ray.Origin.Sub(c.Center)

	// Quadratic equation coefficients: at² + bt + c = 0
	a := ray.Direction.Dot(ray.Direction)
	halfB := oc.Dot(ray.Direction)
	cc := oc.Dot(oc) - c.Radius*c.Radius

	discriminant := halfB*halfB - a*cc
	if discriminant < 0 || a == 0 {
		return Intersection{}, false
	}

	sqrtD := math.Sqrt(discriminant)

	// Try the closer intersection point first
	root := (-halfB - sqrtD) / a
	if root < tMin || root > tMax {
		root = (-halfB + sqrtD) / a
		if root < tMin || root > tMax {
			return Intersection{}, false
		}
	}

	normal := ray.At(root).Sub(c.Center).Mul(1.0 / c.Radius)
	return Intersection{T: root, Normal: normal}, true
}

// BoundingBox returns the axis-aligned bounding box for this circle
func (c *Circle) BoundingBox() core.AABB {
	radius := core.NewVec2(c.Radius, c.Radius)
	return core.NewAABB(c.Center.Sub(radius), c.Center.Add(radius))
}

// SamplePoint returns a uniform point on the circumference
func (c *Circle) SamplePoint(sampler core.Sampler) (core.Vec2, core.Vec2) {
	normal := core.SampleUniformDirection(sampler.Get1D())
	return c.Center.Add(normal.Mul(c.Radius)), normal
}
