package core

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Vec2 is a 2D world-space point or direction
type Vec2 = mgl64.Vec2

// Color is an RGB triple; emitter colors use the 0-255 scale of WavelengthToRGB
type Color = mgl64.Vec3

// Epsilon is the minimum ray parameter accepted as a hit, so a ray leaving a
// surface does not hit that same surface again
const Epsilon = 1e-6

// NewVec2 creates a new Vec2
func NewVec2(x, y float64) Vec2 {
	return Vec2{x, y}
}

// NewColor creates a new Color
func NewColor(r, g, b float64) Color {
	return Color{r, g, b}
}

// Normalize returns a unit vector in the same direction, or the zero vector
// unchanged (mgl64's Normalize divides by zero)
func Normalize(v Vec2) Vec2 {
	length := v.Len()
	if length == 0 {
		return Vec2{}
	}
	return v.Mul(1 / length)
}

// Perp returns v rotated by -90 degrees. For an edge walked counter-clockwise
// this is the outward side.
func Perp(v Vec2) Vec2 {
	return Vec2{v.Y(), -v.X()}
}

// Cross returns the z component of the 3D cross product of a and b
func Cross(a, b Vec2) float64 {
	return a.X()*b.Y() - a.Y()*b.X()
}

// Rotate rotates v counter-clockwise by angle radians
func Rotate(v Vec2, angle float64) Vec2 {
	return mgl64.Rotate2D(angle).Mul2x1(v)
}

// Reflect calculates the reflection of a vector v off a surface with normal n
func Reflect(v, n Vec2) Vec2 {
	// r = v - 2*dot(v,n)*n
	return v.Sub(n.Mul(2 * v.Dot(n)))
}

// Refract bends the unit vector uv through a surface with unit normal n facing
// against uv, using Snell's law. Returns false on total internal reflection.
func Refract(uv, n Vec2, etaiOverEtat float64) (Vec2, bool) {
	cosTheta := math.Min(-uv.Dot(n), 1.0)
	sinTheta2 := 1.0 - cosTheta*cosTheta
	if etaiOverEtat*etaiOverEtat*sinTheta2 > 1.0 {
		return Vec2{}, false
	}
	rOutPerp := uv.Add(n.Mul(cosTheta)).Mul(etaiOverEtat)
	rOutParallel := n.Mul(-math.Sqrt(math.Abs(1.0 - rOutPerp.LenSqr())))
	return rOutPerp.Add(rOutParallel), true
}

// Reflectance calculates the Fresnel reflectance using Schlick's approximation
func Reflectance(cosine, refractionRatio float64) float64 {
	r0 := (1 - refractionRatio) / (1 + refractionRatio)
	r0 = r0 * r0
	return r0 + (1-r0)*math.Pow(1-cosine, 5)
}

// IsFinite reports whether x is neither NaN nor infinite
func IsFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
