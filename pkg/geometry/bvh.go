package geometry

import (
	"math"
	"sort"

	"github.com/df07/go-lumen2d/pkg/core"
)

// BVHNode represents a node in the Bounding Volume Hierarchy
type BVHNode struct {
	BoundingBox core.AABB
	Left        *BVHNode
	Right       *BVHNode
	Entries     []bvhEntry // Primitives for leaf nodes (nil for internal nodes)
}

// bvhEntry remembers the insertion index so equal-t hits resolve deterministically
type bvhEntry struct {
	primitive Primitive
	index     int
	box       core.AABB
}

// BVH represents a Bounding Volume Hierarchy for fast ray-primitive intersection.
// It is immutable once built.
type BVH struct {
	Root *BVHNode
}

// Hit is the closest intersection found by the BVH
type Hit struct {
	Intersection
	Primitive Primitive
	Index     int // Insertion index of Primitive
}

// Leaf threshold: if we have this many or fewer primitives, store them in a leaf node
const leafThreshold = 4

// NewBVH constructs a BVH over primitives. The slice order defines the
// tie-break order and is not modified.
func NewBVH(primitives []Primitive) *BVH {
	if len(primitives) == 0 {
		return &BVH{Root: nil}
	}

	entries := make([]bvhEntry, len(primitives))
	for i, p := range primitives {
		entries[i] = bvhEntry{primitive: p, index: i, box: p.BoundingBox()}
	}

	return &BVH{Root: buildBVH(entries, 0)}
}

// buildBVH recursively builds the BVH using a median split along the longest axis
func buildBVH(entries []bvhEntry, depth int) *BVHNode {
	boundingBox := entries[0].box
	for i := 1; i < len(entries); i++ {
		boundingBox = boundingBox.Union(entries[i].box)
	}

	if len(entries) <= leafThreshold {
		return &BVHNode{
			BoundingBox: boundingBox,
			Entries:     entries,
		}
	}

	axis := centroidBounds(entries).LongestAxis()
	sortEntriesByAxis(entries, axis)

	mid := len(entries) / 2
	return &BVHNode{
		BoundingBox: boundingBox,
		Left:        buildBVH(entries[:mid], depth+1),
		Right:       buildBVH(entries[mid:], depth+1),
	}
}

// centroidBounds bounds the box centers, so a cluster of large overlapping
// primitives still splits along the axis where they actually differ
func centroidBounds(entries []bvhEntry) core.AABB {
	points := make([]core.Vec2, len(entries))
	for i, e := range entries {
		points[i] = e.box.Center()
	}
	return core.NewAABBFromPoints(points...)
}

// sortEntriesByAxis sorts entries by their bounding box center along the specified axis
func sortEntriesByAxis(entries []bvhEntry, axis int) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].box.Center()[axis] < entries[j].box.Center()[axis]
	})
}

// Intersect returns the closest hit with t in [tMin, +Inf)
func (bvh *BVH) Intersect(ray core.Ray, tMin float64) (Hit, bool) {
	best := Hit{Index: -1}
	best.T = math.Inf(1)
	if bvh.Root == nil {
		return best, false
	}
	bvh.hitNode(bvh.Root, ray, tMin, &best)
	return best, best.Primitive != nil
}

// hitNode recursively tests ray intersection with BVH nodes, shrinking best.T as it goes
func (bvh *BVH) hitNode(node *BVHNode, ray core.Ray, tMin float64, best *Hit) {
	// Boxes entered beyond the current best cannot hold a closer hit
	if !node.BoundingBox.Hit(ray, tMin, best.T) {
		return
	}

	if node.Entries != nil {
		for _, e := range node.Entries {
			isect, ok := e.primitive.Hit(ray, tMin, best.T)
			if !ok {
				continue
			}
			if isect.T < best.T || (isect.T == best.T && e.index < best.Index) {
				best.Intersection = isect
				best.Primitive = e.primitive
				best.Index = e.index
			}
		}
		return
	}

	// Visit the nearer child first so the farther one is pruned more often
	first, second := node.Left, node.Right
	lt, _, lok := first.BoundingBox.Intersect(ray, tMin, best.T)
	rt, _, rok := second.BoundingBox.Intersect(ray, tMin, best.T)
	if lok && rok && rt < lt {
		first, second = second, first
	}
	bvh.hitNode(first, ray, tMin, best)
	bvh.hitNode(second, ray, tMin, best)
}

// BoundingBox returns the overall bounding box of the BVH
func (bvh *BVH) BoundingBox() core.AABB {
	if bvh.Root == nil {
		return core.AABB{}
	}
	return bvh.Root.BoundingBox
}

// BVHStats contains statistics about the BVH structure
type BVHStats struct {
	TotalNodes      int
	LeafNodes       int
	MaxDepth        int
	AvgDepth        float64
	TotalPrimitives int
}

// Stats returns statistics about the BVH structure
func (bvh *BVH) Stats() BVHStats {
	if bvh.Root == nil {
		return BVHStats{}
	}

	stats := BVHStats{}
	bvh.collectStats(bvh.Root, 0, &stats)

	if stats.LeafNodes > 0 {
		stats.AvgDepth = stats.AvgDepth / float64(stats.LeafNodes)
	}

	return stats
}

// collectStats recursively collects statistics about the BVH
func (bvh *BVH) collectStats(node *BVHNode, depth int, stats *BVHStats) {
	stats.TotalNodes++

	if depth > stats.MaxDepth {
		stats.MaxDepth = depth
	}

	if node.Entries != nil {
		stats.LeafNodes++
		stats.TotalPrimitives += len(node.Entries)
		stats.AvgDepth += float64(depth)
		return
	}
	bvh.collectStats(node.Left, depth+1, stats)
	bvh.collectStats(node.Right, depth+1, stats)
}
