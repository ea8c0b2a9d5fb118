// Package drawing holds 2D gesture drawings and the transforms applied to them
// before rasterization. Coordinates are +x right, +y down.
package drawing

import (
	"fmt"
	"math"
	"strings"

	"github.com/zeusync/gesturecast/internal/core/vecmath"
)

// MinExtent keeps Normalized from dividing by zero on a single point or a
// zero-extent drawing.
const MinExtent = 1e-4

// Drawing is an ordered 2D polyline. Transforms return new drawings and never
// modify the receiver.
type Drawing []vecmath.Vec2

// FromPairs builds a drawing from [x, y] pairs.
func FromPairs(pairs [][2]float64) Drawing {
	d := make(Drawing, len(pairs))
	for i, p := range pairs {
		d[i] = vecmath.V2(p[0], p[1])
	}
	return d
}

// Pairs is the inverse of FromPairs.
func (d Drawing) Pairs() [][2]float64 {
	out := make([][2]float64, len(d))
	for i, p := range d {
		out[i] = [2]float64{p.X, p.Y}
	}
	return out
}

func (d Drawing) Len() int { return len(d) }

// AABB returns the axis-aligned bounding box. For an empty drawing min is
// +Inf and max is -Inf.
func (d Drawing) AABB() (min, max vecmath.Vec2) {
	min = vecmath.V2(math.Inf(1), math.Inf(1))
	max = vecmath.V2(math.Inf(-1), math.Inf(-1))
	for _, p := range d {
		min.X = math.Min(min.X, p.X)
		min.Y = math.Min(min.Y, p.Y)
		max.X = math.Max(max.X, p.X)
		max.Y = math.Max(max.Y, p.Y)
	}
	return min, max
}

// Extent is the larger side of the bounding box, zero when empty.
func (d Drawing) Extent() float64 {
	if len(d) == 0 {
		return 0
	}
	min, max := d.AABB()
	return math.Max(max.X-min.X, max.Y-min.Y)
}

// PathLength sums segment lengths.
func (d Drawing) PathLength() float64 {
	total := 0.0
	for i := 1; i < len(d); i++ {
		total += d[i].Distance(d[i-1])
	}
	return total
}

func (d Drawing) Map(f func(vecmath.Vec2) vecmath.Vec2) Drawing {
	out := make(Drawing, len(d))
	for i, p := range d {
		out[i] = f(p)
	}
	return out
}

// Normalized scales the drawing uniformly so its larger side equals size and
// centers it in the square [0, size]x[0, size]. Aspect ratio is preserved.
func (d Drawing) Normalized(size float64) Drawing {
	if len(d) == 0 {
		return Drawing{}
	}
	min, max := d.AABB()
	extent := math.Max(math.Max(max.X-min.X, max.Y-min.Y), MinExtent)
	corner := min.Add(max).Scale(0.5).Sub(vecmath.V2(extent/2, extent/2))
	scale := size / extent
	return d.Map(func(p vecmath.Vec2) vecmath.Vec2 {
		return p.Sub(corner).Scale(scale)
	})
}

// Translated offsets every point by (dx, dy).
func (d Drawing) Translated(dx, dy float64) Drawing {
	offset := vecmath.V2(dx, dy)
	return d.Map(func(p vecmath.Vec2) vecmath.Vec2 { return p.Add(offset) })
}

// Scaled multiplies every coordinate by k about the origin.
func (d Drawing) Scaled(k float64) Drawing {
	return d.Map(func(p vecmath.Vec2) vecmath.Vec2 { return p.Scale(k) })
}

// Reflected mirrors the drawing horizontally across its bounding box center.
func (d Drawing) Reflected() Drawing {
	if len(d) == 0 {
		return Drawing{}
	}
	min, max := d.AABB()
	xc := (min.X + max.X) / 2
	return d.Map(func(p vecmath.Vec2) vecmath.Vec2 { return vecmath.V2(2*xc-p.X, p.Y) })
}

// Rotated rotates the drawing by theta radians about its bounding box center.
func (d Drawing) Rotated(theta float64) Drawing {
	if len(d) == 0 {
		return Drawing{}
	}
	min, max := d.AABB()
	center := min.Add(max).Scale(0.5)
	sin, cos := math.Sincos(theta)
	return d.Map(func(p vecmath.Vec2) vecmath.Vec2 {
		p = p.Sub(center)
		return vecmath.V2(p.X*cos-p.Y*sin, p.Y*cos+p.X*sin).Add(center)
	})
}

// Simplified drops points with Ramer-Douglas-Peucker. Endpoints are kept.
func (d Drawing) Simplified(epsilon float64) Drawing {
	if len(d) < 3 || epsilon <= 0 {
		return append(Drawing{}, d...)
	}
	keep := make([]bool, len(d))
	keep[0], keep[len(d)-1] = true, true
	rdp(d, 0, len(d)-1, epsilon, keep)

	out := make(Drawing, 0, len(d))
	for i, k := range keep {
		if k {
			out = append(out, d[i])
		}
	}
	return out
}

func rdp(d Drawing, first, last int, epsilon float64, keep []bool) {
	if last-first < 2 {
		return
	}
	maxDist, index := -1.0, first
	for i := first + 1; i < last; i++ {
		if dist := segmentDistance(d[i], d[first], d[last]); dist > maxDist {
			maxDist, index = dist, i
		}
	}
	if maxDist <= epsilon {
		return
	}
	keep[index] = true
	rdp(d, first, index, epsilon, keep)
	rdp(d, index, last, epsilon, keep)
}

// segmentDistance is the distance from p to the segment ab.
func segmentDistance(p, a, b vecmath.Vec2) float64 {
	ab := b.Sub(a)
	l2 := ab.LenSq()
	if l2 == 0 {
		return p.Distance(a)
	}
	t := vecmath.Clamp01(p.Sub(a).Dot(ab) / l2)
	return p.Distance(a.Add(ab.Scale(t)))
}

func (d Drawing) String() string {
	parts := make([]string, len(d))
	for i, p := range d {
		parts[i] = fmt.Sprintf("(%g, %g)", p.X, p.Y)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
