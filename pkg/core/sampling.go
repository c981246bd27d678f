package core

import (
	"math"
	"math/rand"
)

// Sampler provides random sampling for rendering algorithms
// Can be swapped out for deterministic testing or different sampling patterns
type Sampler interface {
	Get1D() float64
	Get2D() Vec2
}

// RandomSampler wraps a standard Go random generator
type RandomSampler struct {
	random *rand.Rand
}

// NewRandomSampler creates a sampler from a Go random generator
func NewRandomSampler(random *rand.Rand) *RandomSampler {
	return &RandomSampler{random: random}
}

// NewSeededSampler creates a sampler over a fresh generator with the given seed
func NewSeededSampler(seed int64) *RandomSampler {
	return NewRandomSampler(rand.New(rand.NewSource(seed)))
}

// Get1D returns a random float64 in [0, 1)
func (r *RandomSampler) Get1D() float64 {
	return r.random.Float64()
}

// Get2D returns two random float64 values in [0, 1)
func (r *RandomSampler) Get2D() Vec2 {
	return NewVec2(r.random.Float64(), r.random.Float64())
}

// SampleUniformDirection returns a unit direction with a uniformly distributed angle
func SampleUniformDirection(u float64) Vec2 {
	angle := 2 * math.Pi * u
	return NewVec2(math.Cos(angle), math.Sin(angle))
}

// SampleCosineDirection returns a unit direction in the half-plane around
// normal, with density proportional to the cosine of the angle to normal.
// In 2D that means sin(theta) is uniform in [-1, 1].
func SampleCosineDirection(normal Vec2, u float64) Vec2 {
	theta := math.Asin(2*u - 1)
	return Normalize(Rotate(normal, theta))
}

// PerturbNormal rotates normal by a uniform angle in [-roughness, +roughness] * pi/2
func PerturbNormal(normal Vec2, roughness, u float64) Vec2 {
	if roughness <= 0 {
		return normal
	}
	return Normalize(Rotate(normal, (2*u-1)*roughness*math.Pi/2))
}
