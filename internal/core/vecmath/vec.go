// Package vecmath holds the small amount of linear algebra the gesture
// pipeline needs: 2D/3D vectors, a 3x3 matrix, principal-axis plane fitting and
// critically damped smoothing.
//
// World coordinates are +X right, +Y up, +Z forward.
package vecmath

import "math"

// Vec2 is a 2D point or vector.
type Vec2 struct{ X, Y float64 }

// Vec3 is a 3D point or vector.
type Vec3 struct{ X, Y, Z float64 }

var (
	Up      = Vec3{0, 1, 0}
	Down    = Vec3{0, -1, 0}
	Right   = Vec3{1, 0, 0}
	Forward = Vec3{0, 0, 1}
)

// normalizeEpsilon is the length below which Normalize yields the zero vector.
const normalizeEpsilon = 1e-9

func V2(x, y float64) Vec2    { return Vec2{x, y} }
func V3(x, y, z float64) Vec3 { return Vec3{x, y, z} }

func (a Vec2) Add(b Vec2) Vec2         { return Vec2{a.X + b.X, a.Y + b.Y} }
func (a Vec2) Sub(b Vec2) Vec2         { return Vec2{a.X - b.X, a.Y - b.Y} }
func (a Vec2) Scale(s float64) Vec2    { return Vec2{a.X * s, a.Y * s} }
func (a Vec2) Dot(b Vec2) float64      { return a.X*b.X + a.Y*b.Y }
func (a Vec2) LenSq() float64          { return a.X*a.X + a.Y*a.Y }
func (a Vec2) Len() float64            { return math.Hypot(a.X, a.Y) }
func (a Vec2) Distance(b Vec2) float64 { return a.Sub(b).Len() }

// Perp returns a rotated 90 degrees counter-clockwise.
func (a Vec2) Perp() Vec2 { return Vec2{-a.Y, a.X} }

func (a Vec2) Normalize() Vec2 {
	l := a.Len()
	if l < normalizeEpsilon {
		return Vec2{}
	}
	return Vec2{a.X / l, a.Y / l}
}

// Project returns the component of a along onto. A zero-length onto has no
// direction, so the result is the zero vector.
func (a Vec2) Project(onto Vec2) Vec2 {
	d := onto.LenSq()
	if d < normalizeEpsilon*normalizeEpsilon {
		return Vec2{}
	}
	return onto.Scale(a.Dot(onto) / d)
}

func (a Vec3) Add(b Vec3) Vec3      { return Vec3{a.X + b.X, a.Y + b.Y, a.Z + b.Z} }
func (a Vec3) Sub(b Vec3) Vec3      { return Vec3{a.X - b.X, a.Y - b.Y, a.Z - b.Z} }
func (a Vec3) Scale(s float64) Vec3 { return Vec3{a.X * s, a.Y * s, a.Z * s} }
func (a Vec3) Neg() Vec3            { return Vec3{-a.X, -a.Y, -a.Z} }
func (a Vec3) Dot(b Vec3) float64   { return a.X*b.X + a.Y*b.Y + a.Z*b.Z }
func (a Vec3) LenSq() float64       { return a.Dot(a) }
func (a Vec3) Len() float64         { return math.Sqrt(a.LenSq()) }

func (a Vec3) Cross(b Vec3) Vec3 {
	return Vec3{
		a.Y*b.Z - a.Z*b.Y,
		a.Z*b.X - a.X*b.Z,
		a.X*b.Y - a.Y*b.X,
	}
}

func (a Vec3) Distance(b Vec3) float64 { return a.Sub(b).Len() }

// Lerp interpolates from a to b by t without clamping.
func (a Vec3) Lerp(b Vec3, t float64) Vec3 {
	return a.Add(b.Sub(a).Scale(t))
}

func (a Vec3) Normalize() Vec3 {
	l := a.Len()
	if l < normalizeEpsilon {
		return Vec3{}
	}
	return a.Scale(1 / l)
}

// IsZero reports whether every component is exactly zero.
func (a Vec3) IsZero() bool { return a == Vec3{} }

// Project returns the component of a along onto, or the zero vector when onto
// has no length.
func (a Vec3) Project(onto Vec3) Vec3 {
	d := onto.LenSq()
	if d < normalizeEpsilon*normalizeEpsilon {
		return Vec3{}
	}
	return onto.Scale(a.Dot(onto) / d)
}

// ProjectOnPlane removes the component of a along normal.
func (a Vec3) ProjectOnPlane(normal Vec3) Vec3 {
	return a.Sub(a.Project(normal))
}

// Centroid is the arithmetic mean of points, or the zero vector for none.
func Centroid(points []Vec3) Vec3 {
	if len(points) == 0 {
		return Vec3{}
	}
	var sum Vec3
	for _, p := range points {
		sum = sum.Add(p)
	}
	return sum.Scale(1 / float64(len(points)))
}

// PathLength sums the distances between consecutive points.
func PathLength(points []Vec3) float64 {
	total := 0.0
	for i := 1; i < len(points); i++ {
		total += points[i].Distance(points[i-1])
	}
	return total
}

// Sign follows the convention that zero is positive.
func Sign(x float64) float64 {
	if x < 0 {
		return -1
	}
	return 1
}

// Clamp01 clamps x into [0, 1].
func Clamp01(x float64) float64 {
	return math.Max(0, math.Min(1, x))
}
