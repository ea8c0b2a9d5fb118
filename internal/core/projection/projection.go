// Package projection flattens a 3D stroke onto its drawing plane and expresses
// it in a canonical 2D frame: +x to the drawer's right, +y down.
package projection

import (
	"github.com/zeusync/gesturecast/internal/core/drawing"
	"github.com/zeusync/gesturecast/internal/core/vecmath"
)

// degenerateAxis is the length below which a projected reference axis is
// treated as parallel to the plane normal.
const degenerateAxis = 1e-6

// Plane is a point on the drawing plane plus its unit normal.
type Plane struct {
	Centroid vecmath.Vec3
	Normal   vecmath.Vec3
}

// Frame is an orthonormal in-plane basis.
type Frame struct {
	Plane
	XAxis vecmath.Vec3
	YAxis vecmath.Vec3
	// Fallback is set when world up was parallel to the normal and a
	// secondary reference axis was used for YAxis.
	Fallback bool
}

// ComputePlane anchors the plane at the stroke centroid and orients it by the
// drawer's facing direction. The fitted minimum-variance axis is not used:
// the facing direction is steadier while the stroke is still being drawn.
func ComputePlane(points []vecmath.Vec3, facing vecmath.Vec3) Plane {
	axes := vecmath.FitPlane(points)
	normal := facing.Normalize()
	if normal.IsZero() {
		normal = axes.Normal()
	}
	return Plane{Centroid: axes.Centroid, Normal: normal}
}

// NewFrame derives the in-plane axes. YAxis is world up projected onto the
// plane. When the drawer faces straight up or down, world forward and then
// world right stand in for up.
func NewFrame(plane Plane) Frame {
	f := Frame{Plane: plane}
	for i, ref := range []vecmath.Vec3{vecmath.Up, vecmath.Forward, vecmath.Right} {
		y := ref.ProjectOnPlane(plane.Normal)
		if y.Len() < degenerateAxis {
			continue
		}
		f.YAxis = y.Normalize()
		f.Fallback = i > 0
		break
	}
	f.XAxis = f.YAxis.Cross(plane.Normal).Normalize()
	return f
}

// Project maps each point to (x, y) in the frame. y is negated so that +y
// points down, matching raster rows.
func Project(points []vecmath.Vec3, frame Frame) drawing.Drawing {
	out := make(drawing.Drawing, len(points))
	for i, p := range points {
		q := p.Sub(frame.Centroid).ProjectOnPlane(frame.Normal)
		out[i] = vecmath.V2(q.Dot(frame.XAxis), -q.Dot(frame.YAxis))
	}
	return out
}

// Flatten computes the plane and frame for points and projects them.
func Flatten(points []vecmath.Vec3, facing vecmath.Vec3) (drawing.Drawing, Frame) {
	frame := NewFrame(ComputePlane(points, facing))
	return Project(points, frame), frame
}
