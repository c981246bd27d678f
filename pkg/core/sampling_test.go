package core

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/stat"
)

func TestSeededSamplerIsDeterministic(t *testing.T) {
	a := NewSeededSampler(42)
	b := NewSeededSampler(42)
	for i := 0; i < 10; i++ {
		assert.Equal(t, a.Get1D(), b.Get1D())
	}
	assert.Equal(t, a.Get2D(), b.Get2D())
}

func TestSampleUniformDirection(t *testing.T) {
	assert.InDelta(t, 1.0, SampleUniformDirection(0.3).Len(), 1e-12)
	assertVecInDelta(t, NewVec2(1, 0), SampleUniformDirection(0), 1e-12)
	assertVecInDelta(t, NewVec2(-1, 0), SampleUniformDirection(0.5), 1e-12)
}

func TestSampleCosineDirection(t *testing.T) {
	normal := Normalize(NewVec2(1, 2))
	sampler := NewSeededSampler(7)

	cosines := make([]float64, 20000)
	for i := range cosines {
		d := SampleCosineDirection(normal, sampler.Get1D())
		assert.InDelta(t, 1.0, d.Len(), 1e-9)
		cosines[i] = d.Dot(normal)
		assert.GreaterOrEqual(t, cosines[i], -1e-12, "direction below the surface")
	}

	// with sin(theta) uniform on [-1, 1], E[cos(theta)] = pi/4
	assert.InDelta(t, math.Pi/4, stat.Mean(cosines, nil), 0.01)

	// the extremes graze the surface
	assert.InDelta(t, 0.0, SampleCosineDirection(normal, 0).Dot(normal), 1e-9)
	assertVecInDelta(t, normal, SampleCosineDirection(normal, 0.5), 1e-12)
}

func TestPerturbNormal(t *testing.T) {
	n := NewVec2(0, 1)
	assert.Equal(t, n, PerturbNormal(n, 0, 0.9))

	// full roughness at u=1 tilts by pi/2
	assertVecInDelta(t, NewVec2(-1, 0), PerturbNormal(n, 1, 1), 1e-12)
	assertVecInDelta(t, n, PerturbNormal(n, 0.7, 0.5), 1e-12)
}
