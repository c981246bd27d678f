package geometry

import (
	"math"
	"math/rand"
	"testing"

	"github.com/df07/go-lumen2d/pkg/core"
)

// linearIntersect is the reference the BVH must agree with: closest t, ties
// to the lower insertion index
func linearIntersect(prims []Primitive, ray core.Ray) (float64, int) {
	bestT, bestIndex := math.Inf(1), -1
	for i, p := range prims {
		hit, ok := p.Hit(ray, core.Epsilon, bestT)
		if ok && hit.T < bestT {
			bestT, bestIndex = hit.T, i
		}
	}
	return bestT, bestIndex
}

func randomPrimitives(random *rand.Rand, n int) []Primitive {
	prims := make([]Primitive, n)
	for i := range prims {
		center := core.NewVec2(random.Float64()*20-10, random.Float64()*20-10)
		if i%3 == 0 {
			prims[i] = NewCircle(center.X(), center.Y(), 0.2+random.Float64())
			continue
		}
		dir := core.SampleUniformDirection(random.Float64()).Mul(0.5 + random.Float64()*2)
		a, b := center.Sub(dir), center.Add(dir)
		prims[i] = NewEdge(a.X(), a.Y(), b.X(), b.Y())
	}
	return prims
}

func TestBVH_MatchesLinearScan(t *testing.T) {
	random := rand.New(rand.NewSource(1))
	prims := randomPrimitives(random, 200)
	bvh := NewBVH(prims)

	if n := bvh.Stats().TotalPrimitives; n != len(prims) {
		t.Fatalf("Expected %d primitives, got %d", len(prims), n)
	}

	for i := 0; i < 2000; i++ {
		origin := core.NewVec2(random.Float64()*30-15, random.Float64()*30-15)
		ray := core.NewRay(origin, core.SampleUniformDirection(random.Float64()))

		expectedT, expectedIndex := linearIntersect(prims, ray)
		hit, ok := bvh.Intersect(ray, core.Epsilon)

		if ok != (expectedIndex >= 0) {
			t.Fatalf("Ray %d: expected hit=%t, got %t", i, expectedIndex >= 0, ok)
		}
		if !ok {
			continue
		}
		if hit.Index != expectedIndex || hit.T != expectedT {
			t.Fatalf("Ray %d: expected primitive %d at t=%f, got %d at t=%f", i, expectedIndex, expectedT, hit.Index, hit.T)
		}
		if hit.Primitive != prims[expectedIndex] {
			t.Fatalf("Ray %d: primitive does not match index", i)
		}
	}
}

func TestBVH_TieGoesToLowerIndex(t *testing.T) {
	// Two walls crossed at the same point, with centers far enough apart
	// along the split axis to land in different subtrees
	prims := make([]Primitive, 0, 12)
	for i := 0; i < 12; i++ {
		y := float64(i) * 3
		prims = append(prims, NewEdge(-10, y, -9, y))
	}
	prims[2] = NewEdge(5, -1, 5, 1)
	prims[9] = NewEdge(5, -1, 5, 31)

	bvh := NewBVH(prims)
	if stats := bvh.Stats(); stats.LeafNodes < 2 {
		t.Fatalf("Expected a split tree, got %d leaves", stats.LeafNodes)
	}

	ray := core.NewRay(core.NewVec2(0, 0), core.NewVec2(1, 0))
	hit, ok := bvh.Intersect(ray, core.Epsilon)
	if !ok {
		t.Fatal("Expected hit, but got miss")
	}
	if hit.Index != 2 {
		t.Errorf("Expected the tie to resolve to index 2, got %d", hit.Index)
	}
	if math.Abs(hit.T-5) > 1e-9 {
		t.Errorf("Expected t=5, got t=%f", hit.T)
	}
}

func TestBVH_Empty(t *testing.T) {
	bvh := NewBVH(nil)
	if _, ok := bvh.Intersect(core.NewRay(core.NewVec2(0, 0), core.NewVec2(1, 0)), core.Epsilon); ok {
		t.Error("Expected empty BVH to miss")
	}
	if stats := bvh.Stats(); stats.TotalNodes != 0 {
		t.Errorf("Expected no nodes, got %d", stats.TotalNodes)
	}
}

func TestBVH_LeafThreshold(t *testing.T) {
	prims := make([]Primitive, leafThreshold)
	for i := range prims {
		prims[i] = NewCircle(float64(i)*3, 0, 1)
	}
	if stats := NewBVH(prims).Stats(); stats.TotalNodes != 1 || stats.LeafNodes != 1 {
		t.Errorf("Expected a single leaf for %d primitives, got %+v", len(prims), stats)
	}

	prims = append(prims, NewCircle(100, 0, 1))
	stats := NewBVH(prims).Stats()
	if stats.LeafNodes < 2 {
		t.Errorf("Expected a split for %d primitives, got %+v", len(prims), stats)
	}
	if stats.TotalPrimitives != len(prims) {
		t.Errorf("Expected %d primitives in leaves, got %d", len(prims), stats.TotalPrimitives)
	}
}
