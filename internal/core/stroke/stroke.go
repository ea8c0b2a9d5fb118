// Package stroke captures a free-hand 3D gesture as a smoothed polyline and
// animates it away once the gesture has been classified.
//
// A Stroke owns its points and segments in two index-stable slices. While
// drawing, segment i joins points i and i+1. Index 0 is the oldest point (the
// tail), the last index is the live head that follows the pointer.
package stroke

import (
	"fmt"
	"image/color"
	"math"
	"slices"

	"github.com/google/uuid"

	"github.com/zeusync/gesturecast/internal/core/projection"
	"github.com/zeusync/gesturecast/internal/core/vecmath"
)

const (
	// retireLength is the segment length below which a tail point, or a
	// dissolving segment, is removed.
	retireLength = 1e-3
	// seedOffset separates the two seed points so the first segment has a
	// direction.
	seedOffset = 1.5e-3
)

// Pointer is a read-only handle on the tracked device drawing the stroke.
type Pointer interface {
	Position() vecmath.Vec3
	Forward() vecmath.Vec3
}

type State uint8

const (
	StateDrawing State = iota
	StateFinishedSuccess
	StateFinishedFailure
	StateDisposed
)

func (s State) String() string {
	switch s {
	case StateDrawing:
		return "drawing"
	case StateFinishedSuccess:
		return "finished_success"
	case StateFinishedFailure:
		return "finished_failure"
	case StateDisposed:
		return "disposed"
	default:
		return fmt.Sprintf("state(%d)", uint8(s))
	}
}

// Segment is the render state of one line piece. The velocities carry
// smoothing state for each endpoint between ticks.
type Segment struct {
	Start, End    vecmath.Vec3
	StartVelocity vecmath.Vec3
	EndVelocity   vecmath.Vec3
	Width         float64
	Color         color.RGBA
}

func (s Segment) Length() float64 { return s.Start.Distance(s.End) }

type Stroke struct {
	id      uuid.UUID
	cfg     Config
	pointer Pointer

	points   []vecmath.Vec3
	segments []Segment

	headVelocity vecmath.Vec3
	state        State

	// finish animation
	elapsed     float64
	shrinking   bool
	shrinkSpeed float64
}

// New starts a stroke at the pointer's current position.
func New(cfg Config, pointer Pointer) *Stroke {
	s := &Stroke{
		id:      uuid.New(),
		cfg:     cfg,
		pointer: pointer,
	}
	pos := pointer.Position()
	s.points = append(s.points, pos.Add(vecmath.Down.Scale(seedOffset)))
	s.addPoint(pos)
	return s
}

func (s *Stroke) ID() uuid.UUID { return s.id }
func (s *Stroke) State() State  { return s.state }

// Disposed reports whether the finish animation has completed.
func (s *Stroke) Disposed() bool { return s.state == StateDisposed }

// Facing is the drawer's current forward direction.
func (s *Stroke) Facing() vecmath.Vec3 { return s.pointer.Forward() }

// Points returns a copy of the current points.
func (s *Stroke) Points() []vecmath.Vec3 { return slices.Clone(s.points) }

// Segments returns a copy of the current segment render state.
func (s *Stroke) Segments() []Segment { return slices.Clone(s.segments) }

// Length sums the segment lengths.
func (s *Stroke) Length() float64 {
	total := 0.0
	for _, seg := range s.segments {
		total += seg.Length()
	}
	return total
}

// MaxLength is the bound Length never exceeds while drawing.
func (s *Stroke) MaxLength() float64 {
	return s.cfg.MaxDrawingLength + s.cfg.LineLength
}

// Update advances the stroke by dt seconds: capture while drawing, the
// finish animation afterwards.
func (s *Stroke) Update(dt float64) {
	switch s.state {
	case StateDrawing:
		s.updateDrawing(dt)
	case StateFinishedSuccess:
		s.updateSuccess(dt)
		s.elapsed += dt
	case StateFinishedFailure:
		s.updateFailure(dt)
		s.elapsed += dt
	}
}

func (s *Stroke) updateDrawing(dt float64) {
	head := len(s.points) - 1
	follow := vecmath.FollowParams{
		MaxFollow:  s.cfg.SmoothDistance,
		FollowTime: s.cfg.SmoothTime,
	}
	s.movePoint(head, vecmath.Follow(s.points[head], s.pointer.Position(), &s.headVelocity, follow, dt))

	// Start a fresh head once the current segment is long enough, so
	// segments are never degenerate while the pointer moves.
	if s.points[head].Distance(s.points[head-1]) > s.cfg.LineLength {
		s.addPoint(s.points[head])
	}

	excess := math.Max(s.Length()-s.cfg.MaxDrawingLength, 0)
	speed := excess/s.cfg.ShortenTime + s.cfg.LineLength
	s.retract(speed*dt, 2)

	if s.cfg.FlattenTime > 0 {
		s.flatten(dt)
	}

	if over := s.Length() - s.MaxLength(); over > 0 {
		s.retract(over, 2)
	}
}

// flatten pulls every point toward the plane through the head with the
// drawer's facing direction as normal.
func (s *Stroke) flatten(dt float64) {
	if len(s.points) <= 2 {
		return
	}
	plane := projection.ComputePlane(s.points, s.Facing())
	head := s.points[len(s.points)-1]
	origin := plane.Centroid.Add(head.Sub(plane.Centroid).Project(plane.Normal))

	for i, p := range s.points {
		target := p.Sub(p.Sub(origin).Project(plane.Normal))
		vel := s.pointVelocity(i)
		s.movePoint(i, vecmath.SmoothDamp(p, target, &vel, s.cfg.FlattenTime, dt))
		s.setPointVelocity(i, vel)
	}
}

// retract erodes the tail along the polyline by distance, removing tail
// points whose segment becomes shorter than retireLength while more than
// minPoints remain.
func (s *Stroke) retract(distance float64, minPoints int) {
	for distance > 0 && len(s.points) > 1 {
		l := s.points[0].Distance(s.points[1])
		if len(s.points) > minPoints && distance >= l-retireLength {
			distance -= l
			s.removeTail()
			continue
		}
		if l > 0 {
			s.movePoint(0, s.points[0].Lerp(s.points[1], math.Min(distance, l)/l))
		}
		return
	}
}

func (s *Stroke) addPoint(p vecmath.Vec3) {
	s.points = append(s.points, p)
	s.segments = append(s.segments, Segment{
		Start: s.points[len(s.points)-2],
		End:   p,
		Width: s.cfg.LineWidth,
		Color: s.cfg.LineColor,
	})
}

// movePoint moves point i and the segment ends attached to it. An index out
// of range is a caller bug.
func (s *Stroke) movePoint(i int, to vecmath.Vec3) {
	if i < 0 || i >= len(s.points) {
		panic(fmt.Sprintf("stroke: point index %d out of range [0, %d)", i, len(s.points)))
	}
	s.points[i] = to
	if i < len(s.segments) {
		s.segments[i].Start = to
	}
	if i > 0 {
		s.segments[i-1].End = to
	}
}

func (s *Stroke) removeTail() {
	if len(s.segments) > 1 {
		s.segments[1].StartVelocity = s.segments[0].StartVelocity
	}
	s.points = slices.Delete(s.points, 0, 1)
	if len(s.segments) > 0 {
		s.segments = slices.Delete(s.segments, 0, 1)
	}
}

// pointVelocity is the smoothing velocity stored for point i: the start
// velocity of the first segment for the tail, otherwise the end velocity of
// the segment arriving at i.
func (s *Stroke) pointVelocity(i int) vecmath.Vec3 {
	if i == 0 {
		if len(s.segments) == 0 {
			return vecmath.Vec3{}
		}
		return s.segments[0].StartVelocity
	}
	return s.segments[i-1].EndVelocity
}

func (s *Stroke) setPointVelocity(i int, v vecmath.Vec3) {
	if i > 0 {
		s.segments[i-1].EndVelocity = v
	}
	if i < len(s.segments) {
		s.segments[i].StartVelocity = v
	}
}
