package scene

import (
	"errors"
	"fmt"
	"sort"

	"github.com/df07/go-lumen2d/pkg/core"
	"github.com/df07/go-lumen2d/pkg/geometry"
	"github.com/df07/go-lumen2d/pkg/material"
)

// ErrMissingMaterial is returned by Add when a primitive has no material
var ErrMissingMaterial = errors.New("material not specified")

// EmitterEntry is one row of the emitter CDF table
type EmitterEntry struct {
	Primitive geometry.Primitive
	CDF       float64 // Running sum of sample values up to and including this emitter
}

// Intersection is the closest hit of a ray against the scene
type Intersection struct {
	T         float64
	Primitive geometry.Primitive
	Normal    core.Vec2
}

// Scene owns the primitives a render worker traces photons through. It is
// not safe for concurrent use; each worker builds its own.
type Scene struct {
	primitives []geometry.Primitive
	emitters   []EmitterEntry
	cdfMax     float64
	bvh        *geometry.BVH // nil until the first Intersect after a mutation
	logger     core.Logger
}

// New creates an empty scene
func New(logger core.Logger) *Scene {
	if logger == nil {
		logger = core.NewNopLogger()
	}
	return &Scene{logger: logger}
}

// Add expands obj into primitives and adds them in order. A non-nil override
// material is applied to every primitive first. If any primitive ends up
// without a material the whole object is rejected, including primitives
// before the bad one, and an error wrapping ErrMissingMaterial is returned.
func (s *Scene) Add(obj geometry.Object, override material.Material) error {
	if override != nil {
		obj.SetMaterial(override)
	}

	primitives := obj.Primitives()
	for i, p := range primitives {
		if p.Material() == nil {
			err := fmt.Errorf("scene: primitive %d of %T: %w", i, obj, ErrMissingMaterial)
			s.logger.Errorf("%v", err)
			return err
		}
	}

	for _, p := range primitives {
		s.primitives = append(s.primitives, p)

		emitter, ok := p.Material().(material.Emissive)
		if !ok {
			continue
		}
		s.cdfMax += emitter.SampleValue()
		s.emitters = append(s.emitters, EmitterEntry{Primitive: p, CDF: s.cdfMax})
	}

	s.bvh = nil
	return nil
}

// Reset removes every primitive and emitter and drops the spatial index
func (s *Scene) Reset() {
	s.primitives = nil
	s.emitters = nil
	s.cdfMax = 0
	s.bvh = nil
}

// Emitter picks an emitter primitive with probability proportional to its
// sample value. The scene must contain at least one emitter.
func (s *Scene) Emitter(sampler core.Sampler) geometry.Primitive {
	switch len(s.emitters) {
	case 0:
		panic("scene: Emitter called on a scene without emitters")
	case 1:
		return s.emitters[0].Primitive
	}

	target := sampler.Get1D() * s.cdfMax

	// smallest i such that cdf[i] > target, i.e. target lies in [cdf[i-1], cdf[i])
	i := sort.Search(len(s.emitters), func(i int) bool { return s.emitters[i].CDF > target })
	if i == len(s.emitters) {
		// only reachable when every sample value is zero
		i--
	}
	return s.emitters[i].Primitive
}

// Intersect returns the closest primitive hit by ray, building the spatial
// index first if the scene changed since the last query
func (s *Scene) Intersect(ray core.Ray) (Intersection, bool) {
	if s.bvh == nil {
		s.bvh = geometry.NewBVH(s.primitives)
		if s.logger.DebugEnabled() {
			stats := s.bvh.Stats()
			s.logger.Debugf("built BVH: %d primitives, %d nodes, %d leaves, max depth %d",
				stats.TotalPrimitives, stats.TotalNodes, stats.LeafNodes, stats.MaxDepth)
		}
	}

	hit, ok := s.bvh.Intersect(ray, core.Epsilon)
	if !ok {
		return Intersection{}, false
	}
	return Intersection{T: hit.T, Primitive: hit.Primitive, Normal: hit.Normal}, true
}

// Primitives returns the primitives in insertion order
func (s *Scene) Primitives() []geometry.Primitive {
	return s.primitives
}

// Emitters returns the emitter CDF table
func (s *Scene) Emitters() []EmitterEntry {
	return s.emitters
}

// EmitterCount returns the number of emitter primitives
func (s *Scene) EmitterCount() int {
	return len(s.emitters)
}

// CDFMax returns the sum of all emitter sample values
func (s *Scene) CDFMax() float64 {
	return s.cdfMax
}
