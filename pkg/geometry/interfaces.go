package geometry

import (
	"github.com/df07/go-lumen2d/pkg/core"
	"github.com/df07/go-lumen2d/pkg/material"
)

// Intersection describes where a ray meets a primitive
type Intersection struct {
	T      float64   // Parameter t along the ray
	Normal core.Vec2 // Unit outward normal at the hit point (not flipped toward the ray)
}

// Object is anything that can be added to a scene: a single primitive or a
// composite shape that expands into several primitives
type Object interface {
	Primitives() []Primitive
	SetMaterial(m material.Material)
}

// Primitive is the unit the spatial index and the transport loop work with
type Primitive interface {
	Object
	Hit(ray core.Ray, tMin, tMax float64) (Intersection, bool)
	BoundingBox() core.AABB
	Material() material.Material
	// SamplePoint returns a uniformly distributed point on the surface and the outward normal there
	SamplePoint(sampler core.Sampler) (point, normal core.Vec2)
}

// surface holds the material shared by every primitive type
type surface struct {
	material material.Material
}

func (s *surface) Material() material.Material { return s.material }

func (s *surface) SetMaterial(m material.Material) { s.material = m }
