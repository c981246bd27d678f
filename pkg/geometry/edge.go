package geometry

import (
	"math"

	"github.com/df07/go-lumen2d/pkg/core"
	"github.com/df07/go-lumen2d/pkg/material"
)

// Edge is a line segment from A to B. Its normal points to the right of the
// A→B direction, which is outward for counter-clockwise polygons.
type Edge struct {
	surface
	A, B   core.Vec2
	normal core.Vec2
}

// NewEdge creates an edge between (x1, y1) and (x2, y2)
func NewEdge(x1, y1, x2, y2 float64) *Edge {
	return NewEdgeFromPoints(core.NewVec2(x1, y1), core.NewVec2(x2, y2), nil)
}

// NewEdgeFromPoints creates an edge between a and b with the given material
func NewEdgeFromPoints(a, b core.Vec2, m material.Material) *Edge {
	e := &Edge{A: a, B: b, normal: core.Normalize(core.Perp(b.Sub(a)))}
	e.material = m
	return e
}

// Primitives implements Object
func (e *Edge) Primitives() []Primitive {
	return []Primitive{e}
}

// Normal returns the outward unit normal
func (e *Edge) Normal() core.Vec2 {
	return e.normal
}

// Length returns the length of the segment
func (e *Edge) Length() float64 {
	return e.B.Sub(e.A).Len()
}

// Hit tests if a ray intersects the segment
func (e *Edge) Hit(ray core.Ray, tMin, tMax float64) (Intersection, bool) {
	seg := e.B.Sub(e.A)
	denom := core.Cross(ray.Direction, seg)
	if math.Abs(denom) < 1e-12 {
		// Parallel (or degenerate) - grazing hits are measure zero
		return Intersection{}, false
	}

	w := e.A.Sub(ray.Origin)
	t := core.Cross(w, seg) / denom
	if t < tMin || t > tMax {
		return Intersection{}, false
	}

	s := core.Cross(w, ray.Direction) / denom
	if s < 0 || s > 1 {
		return Intersection{}, false
	}

	return Intersection{T: t, Normal: e.normal}, true
}

// BoundingBox returns the axis-aligned bounding box for this edge
func (e *Edge) BoundingBox() core.AABB {
	return core.NewAABBFromPoints(e.A, e.B)
}

// SamplePoint returns a uniform point along the segment
func (e *Edge) SamplePoint(sampler core.Sampler) (core.Vec2, core.Vec2) {
	u := sampler.Get1D()
	return e.A.Add(e.B.Sub(e.A).Mul(u)), e.normal
}
