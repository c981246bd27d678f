package scene

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/df07/go-lumen2d/pkg/core"
	"github.com/df07/go-lumen2d/pkg/geometry"
	"github.com/df07/go-lumen2d/pkg/material"
)

type fixedSampler float64

func (f fixedSampler) Get1D() float64   { return float64(f) }
func (f fixedSampler) Get2D() core.Vec2 { return core.NewVec2(float64(f), float64(f)) }

// unusedSampler fails the test if the scene draws a random number
type unusedSampler struct{ t *testing.T }

func (u unusedSampler) Get1D() float64 {
	u.t.Fatal("sampler should not be used")
	return 0
}

func (u unusedSampler) Get2D() core.Vec2 {
	u.t.Fatal("sampler should not be used")
	return core.Vec2{}
}

func weightedEmitter(power float64) *material.Emitter {
	return &material.Emitter{Color: core.NewColor(1, 1, 1), SamplePower: power}
}

func sceneWithEmitters(t *testing.T, powers ...float64) (*Scene, []geometry.Primitive) {
	t.Helper()
	s := New(nil)
	var prims []geometry.Primitive
	for i, p := range powers {
		var m material.Material = weightedEmitter(p)
		if p == 0 {
			m = &material.Emitter{}
		}
		edge := geometry.NewEdge(float64(i), 0, float64(i), 1)
		require.NoError(t, s.Add(edge, m))
		prims = append(prims, edge)
	}
	return s, prims
}

func TestEmitterCDF(t *testing.T) {
	s, _ := sceneWithEmitters(t, 1, 2, 7)
	require.NoError(t, s.Add(geometry.NewEdge(0, 5, 1, 5), material.NewAbsorber()))

	entries := s.Emitters()
	require.Len(t, entries, 3)
	assert.Equal(t, 1.0, entries[0].CDF)
	assert.Equal(t, 3.0, entries[1].CDF)
	assert.Equal(t, 10.0, entries[2].CDF)
	assert.Equal(t, 10.0, s.CDFMax())
	assert.Len(t, s.Primitives(), 4)
	assert.Equal(t, 3, s.EmitterCount())
}

func TestEmitterIntervals(t *testing.T) {
	s, prims := sceneWithEmitters(t, 1, 2, 7)

	tests := []struct {
		u        float64
		expected int
	}{
		{0, 0},
		{0.099, 0},
		{0.1, 1}, // target lands exactly on cdf[0], which belongs to the next emitter
		{0.29, 1},
		{0.35, 2},
		{0.999, 2},
	}
	for _, tt := range tests {
		assert.Same(t, prims[tt.expected], s.Emitter(fixedSampler(tt.u)), "u=%v", tt.u)
	}
}

func TestEmitterZeroWeights(t *testing.T) {
	s, prims := sceneWithEmitters(t, 0, 4, 0)
	for _, u := range []float64{0, 0.3, 0.999} {
		assert.Same(t, prims[1], s.Emitter(fixedSampler(u)), "zero-weight emitters are never picked")
	}

	allZero, zeroPrims := sceneWithEmitters(t, 0, 0)
	assert.Same(t, zeroPrims[1], allZero.Emitter(fixedSampler(0.5)))
}

func TestEmitterDistribution(t *testing.T) {
	powers := []float64{1, 2, 7, 10}
	s, prims := sceneWithEmitters(t, powers...)

	index := make(map[geometry.Primitive]int, len(prims))
	for i, p := range prims {
		index[p] = i
	}

	const n = 100000
	sampler := core.NewSeededSampler(17)
	observed := make([]float64, len(prims))
	for i := 0; i < n; i++ {
		observed[index[s.Emitter(sampler)]]++
	}

	expected := make([]float64, len(powers))
	for i, p := range powers {
		expected[i] = n * p / 20
	}

	chi2 := stat.ChiSquare(observed, expected)
	dist := distuv.ChiSquared{K: float64(len(powers) - 1)}
	pValue := 1 - dist.CDF(chi2)
	assert.Greater(t, pValue, 0.001, "observed %v, expected %v", observed, expected)
}

func TestSingleEmitterNeedsNoSample(t *testing.T) {
	s, prims := sceneWithEmitters(t, 3)
	assert.Same(t, prims[0], s.Emitter(unusedSampler{t}))
}

func TestEmitterPanicsWithoutEmitters(t *testing.T) {
	s := New(nil)
	require.NoError(t, s.Add(geometry.NewEdge(0, 0, 1, 0), material.NewAbsorber()))
	assert.Panics(t, func() { s.Emitter(fixedSampler(0.5)) })
}

func TestAddMissingMaterial(t *testing.T) {
	s := New(nil)
	square := geometry.NewRect(core.NewVec2(0, 0), 2, 2)
	square.Primitives()[2].SetMaterial(material.NewAbsorber())

	err := s.Add(square, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingMaterial))
	assert.Empty(t, s.Primitives(), "a failed add must not leave partial geometry")

	require.NoError(t, s.Add(square, material.NewLambert(1)))
	assert.Len(t, s.Primitives(), 4)
}

func TestAddKeepsInsertionOrder(t *testing.T) {
	s := New(nil)
	first := geometry.NewEdge(0, 0, 1, 0)
	circle := geometry.NewCircle(3, 3, 1)
	require.NoError(t, s.Add(first, material.NewAbsorber()))
	require.NoError(t, s.Add(circle, material.NewLambert(1)))

	prims := s.Primitives()
	require.Len(t, prims, 2)
	assert.Same(t, first, prims[0])
	assert.Same(t, circle, prims[1])
}

func TestIntersectTracksMutations(t *testing.T) {
	s := New(nil)
	require.NoError(t, s.Add(geometry.NewEdge(5, -1, 5, 1), material.NewAbsorber()))

	ray := core.NewRay(core.NewVec2(0, 0), core.NewVec2(1, 0))
	hit, ok := s.Intersect(ray)
	require.True(t, ok)
	assert.InDelta(t, 5.0, hit.T, 1e-9)
	assert.Equal(t, core.NewVec2(1, 0), hit.Normal)

	nearer := geometry.NewEdge(2, -1, 2, 1)
	require.NoError(t, s.Add(nearer, material.NewAbsorber()))
	hit, ok = s.Intersect(ray)
	require.True(t, ok)
	assert.Same(t, nearer, hit.Primitive)
	assert.InDelta(t, 2.0, hit.T, 1e-9)

	_, ok = s.Intersect(core.NewRay(core.NewVec2(0, 0), core.NewVec2(-1, 0)))
	assert.False(t, ok)
}

func TestReset(t *testing.T) {
	s, _ := sceneWithEmitters(t, 1, 2)
	s.Reset()

	assert.Empty(t, s.Primitives())
	assert.Equal(t, 0, s.EmitterCount())
	assert.Equal(t, 0.0, s.CDFMax())
	_, ok := s.Intersect(core.NewRay(core.NewVec2(-5, 0.5), core.NewVec2(1, 0)))
	assert.False(t, ok)
}

func TestBuiltinScenes(t *testing.T) {
	infos := List()
	require.Len(t, infos, 4)
	for i := 1; i < len(infos); i++ {
		assert.Less(t, infos[i-1].DisplayName, infos[i].DisplayName)
	}

	for _, info := range infos {
		t.Run(info.Name, func(t *testing.T) {
			build, err := Lookup(info.Name)
			require.NoError(t, err)

			for _, motionT := range []float64{0, 0.5} {
				s := New(nil)
				require.NoError(t, build(s, motionT, 0))
				assert.Positive(t, s.EmitterCount())
				assert.Positive(t, s.CDFMax())
			}
		})
	}

	_, err := Lookup("does-not-exist")
	assert.Error(t, err)
}

func TestSlideOffsetFollowsFrames(t *testing.T) {
	assert.InDelta(t, 0, SlideOffset(0, 0), 1e-12)
	assert.InDelta(t, 2, SlideOffset(0, 2), 1e-12)
	assert.InDelta(t, -2, SlideOffset(0, 6), 1e-12)
	assert.InDelta(t, SlideOffset(0.5, 1), SlideOffset(0.5, 1+slideCycle), 1e-12)
	assert.Greater(t, SlideOffset(0.9, 0), SlideOffset(0.1, 0))

	a, b := New(nil), New(nil)
	require.NoError(t, BuildNestedSquares(a, 0, 0))
	require.NoError(t, BuildNestedSquares(b, 0, 2))
	ray := core.NewRay(core.NewVec2(12, 0), core.NewVec2(-1, 0))
	ha, ok := a.Intersect(ray)
	require.True(t, ok)
	hb, ok := b.Intersect(ray)
	require.True(t, ok)
	assert.InDelta(t, 5, ha.T, 1e-9)
	assert.InDelta(t, 3, hb.T, 1e-9)
}
