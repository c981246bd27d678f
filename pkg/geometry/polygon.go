package geometry

import (
	"math"

	"github.com/df07/go-lumen2d/pkg/core"
	"github.com/df07/go-lumen2d/pkg/material"
)

// Polygon is a closed composite shape made of edges. Vertices are stored
// counter-clockwise so every edge normal points outward.
type Polygon struct {
	Points []core.Vec2
	edges  []*Edge
}

// NewPolygon creates a closed polygon through the given vertices
func NewPolygon(points ...core.Vec2) *Polygon {
	pts := make([]core.Vec2, len(points))
	copy(pts, points)

	if signedArea(pts) < 0 {
		for i, j := 0, len(pts)-1; i < j; i, j = i+1, j-1 {
			pts[i], pts[j] = pts[j], pts[i]
		}
	}

	p := &Polygon{Points: pts}
	for i := range pts {
		p.edges = append(p.edges, NewEdgeFromPoints(pts[i], pts[(i+1)%len(pts)], nil))
	}
	return p
}

// NewRect creates an axis-aligned rectangle centered on center
func NewRect(center core.Vec2, width, height float64) *Polygon {
	hw, hh := width/2, height/2
	return NewPolygon(
		center.Add(core.NewVec2(-hw, -hh)),
		center.Add(core.NewVec2(hw, -hh)),
		center.Add(core.NewVec2(hw, hh)),
		center.Add(core.NewVec2(-hw, hh)),
	)
}

// NewRegularPolygon creates a polygon with the given number of sides,
// circumradius and rotation (radians)
func NewRegularPolygon(center core.Vec2, radius float64, sides int, rotation float64) *Polygon {
	points := make([]core.Vec2, sides)
	for i := range points {
		angle := rotation + 2*math.Pi*float64(i)/float64(sides)
		points[i] = center.Add(core.NewVec2(math.Cos(angle), math.Sin(angle)).Mul(radius))
	}
	return NewPolygon(points...)
}

// Primitives implements Object
func (p *Polygon) Primitives() []Primitive {
	prims := make([]Primitive, len(p.edges))
	for i, e := range p.edges {
		prims[i] = e
	}
	return prims
}

// SetMaterial applies m to every edge
func (p *Polygon) SetMaterial(m material.Material) {
	for _, e := range p.edges {
		e.SetMaterial(m)
	}
}

func signedArea(points []core.Vec2) float64 {
	area := 0.0
	for i := range points {
		area += core.Cross(points[i], points[(i+1)%len(points)])
	}
	return area / 2
}
