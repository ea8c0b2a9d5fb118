package stroke

import (
	"math"
	"math/rand"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/gesturecast/internal/core/vecmath"
)

type fakePointer struct {
	pos     vecmath.Vec3
	forward vecmath.Vec3
}

func (p *fakePointer) Position() vecmath.Vec3 { return p.pos }
func (p *fakePointer) Forward() vecmath.Vec3  { return p.forward }

func newPointer(pos vecmath.Vec3) *fakePointer {
	return &fakePointer{pos: pos, forward: vecmath.Forward}
}

// fromPoints builds a stroke whose polyline is exactly points, as if it had
// just been drawn.
func fromPoints(t *testing.T, cfg Config, points ...vecmath.Vec3) *Stroke {
	t.Helper()
	require.GreaterOrEqual(t, len(points), 2)
	s := &Stroke{cfg: cfg, pointer: newPointer(points[len(points)-1])}
	s.points = append(s.points, points[0])
	for _, p := range points[1:] {
		s.addPoint(p)
	}
	return s
}

func assertConnected(t *testing.T, s *Stroke) {
	t.Helper()
	require.Len(t, s.segments, len(s.points)-1)
	for i, seg := range s.segments {
		assert.Equal(t, s.points[i], seg.Start, "segment %d start", i)
		assert.Equal(t, s.points[i+1], seg.End, "segment %d end", i)
	}
}

func TestNewSeedsOneSegment(t *testing.T) {
	s := New(DefaultConfig(), newPointer(vecmath.V3(0, 1, 0)))

	assert.Equal(t, StateDrawing, s.State())
	assert.NotEqual(t, uuid.Nil, s.ID())
	require.Len(t, s.Points(), 2)
	assert.InDelta(t, seedOffset, s.Length(), 1e-12)
	assertConnected(t, s)
}

func TestStationaryPointerStaysSmall(t *testing.T) {
	s := New(DefaultConfig(), newPointer(vecmath.V3(0.3, 1.2, 0.5)))
	for i := 0; i < 300; i++ {
		s.Update(1.0 / 90)
		require.LessOrEqual(t, len(s.Points()), 2)
	}
	assert.Less(t, s.Length(), 0.01)
}

func TestMovingPointerAppendsPoints(t *testing.T) {
	cfg := DefaultConfig()
	p := newPointer(vecmath.Vec3{})
	s := New(cfg, p)

	for i := 0; i < 60; i++ {
		p.pos = vecmath.V3(float64(i)*0.005, 0, 0)
		s.Update(1.0 / 60)
	}

	assert.Greater(t, len(s.Points()), 5)
	assertConnected(t, s)
	for _, seg := range s.Segments()[:len(s.segments)-1] {
		// Closed segments stay near the line length.
		assert.Less(t, seg.Length(), cfg.LineLength+cfg.SmoothDistance)
	}
}

func TestLengthBoundedUnderRandomInput(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxDrawingLength = 0.5

	rng := rand.New(rand.NewSource(2024))
	for trial := 0; trial < 10; trial++ {
		p := newPointer(vecmath.Vec3{})
		p.forward = vecmath.V3(rng.Float64()-0.5, rng.Float64()-0.5, 1)
		s := New(cfg, p)

		for tick := 0; tick < 2000; tick++ {
			step := vecmath.V3(rng.Float64()-0.5, rng.Float64()-0.5, rng.Float64()-0.5).Scale(0.1)
			if rng.Intn(50) == 0 {
				step = step.Scale(20)
			}
			p.pos = p.pos.Add(step)
			s.Update(1.0/120 + rng.Float64()/40)

			require.LessOrEqual(t, s.Length(), s.MaxLength()+1e-9, "trial %d tick %d", trial, tick)
			require.GreaterOrEqual(t, len(s.points), 2)
			if tick%100 == 0 {
				assertConnected(t, s)
			}
		}
	}
}

func TestFlattenPullsPointsOntoPlane(t *testing.T) {
	cfg := DefaultConfig()
	cfg.FlattenTime = 0.2
	cfg.MaxDrawingLength = 10

	s := fromPoints(t, cfg,
		vecmath.V3(0, 0, 0.2),
		vecmath.V3(0.1, 0, -0.1),
		vecmath.V3(0.2, 0.1, 0.15),
		vecmath.V3(0.3, 0.1, 0),
	)
	for i := 0; i < 180; i++ {
		s.Update(1.0 / 90)
	}

	for i, p := range s.Points() {
		assert.InDelta(t, 0, p.Z, 1e-3, "point %d", i)
	}
	assertConnected(t, s)
}

func TestFinishTwice(t *testing.T) {
	s := New(DefaultConfig(), newPointer(vecmath.Vec3{}))
	require.NoError(t, s.Finish(true))
	assert.ErrorIs(t, s.Finish(false), ErrFinished)
	assert.Equal(t, StateFinishedSuccess, s.State())

	// Frozen: the pointer no longer drives the stroke.
	before := s.Points()
	s.pointer.(*fakePointer).pos = vecmath.V3(5, 5, 5)
	s.Update(1.0 / 90)
	assert.Equal(t, before, s.Points())
}

func TestMovePointOutOfRangePanics(t *testing.T) {
	s := New(DefaultConfig(), newPointer(vecmath.Vec3{}))
	assert.Panics(t, func() { s.movePoint(2, vecmath.Vec3{}) })
	assert.Panics(t, func() { s.movePoint(-1, vecmath.Vec3{}) })
}

func TestSuccessAnimation(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SuccessTime = 0.5
	cfg.SuccessShortenTime = 0.5
	const dt = 1.0 / 64

	s := fromPoints(t, cfg,
		vecmath.V3(0, 0, 1),
		vecmath.V3(0.1, 0, 1),
		vecmath.V3(0.2, 0, 1),
		vecmath.V3(0.3, 0, 1),
		vecmath.V3(0.4, 0, 1),
		vecmath.V3(0.5, 0, 1),
	)
	require.Len(t, s.Segments(), 5)
	require.NoError(t, s.Finish(true))

	s.Update(dt)
	segs := s.Segments()
	assert.Equal(t, cfg.SuccessColor, segs[0].Color)
	assert.Equal(t, cfg.LineColor, segs[4].Color)

	for s.Elapsed() < cfg.SuccessTime {
		s.Update(dt)
	}
	require.Len(t, s.Segments(), 5)
	for i, seg := range s.Segments() {
		assert.Equal(t, cfg.SuccessColor, seg.Color, "segment %d", i)
	}
	assert.Equal(t, StateFinishedSuccess, s.State())

	for s.Elapsed() < cfg.SuccessTime+cfg.SuccessShortenTime {
		s.Update(dt)
	}
	assert.LessOrEqual(t, len(s.Points()), 1)
	assert.Equal(t, StateDisposed, s.State())
	assert.True(t, s.Disposed())
}

func TestFailureAnimation(t *testing.T) {
	cfg := DefaultConfig()
	s := fromPoints(t, cfg,
		vecmath.V3(0, 0, 1),
		vecmath.V3(0.02, 0, 1),
		vecmath.V3(0.04, 0.01, 1),
		vecmath.V3(0.06, 0.01, 1),
	)
	before := s.Segments()
	require.NoError(t, s.Finish(false))
	for _, seg := range s.Segments() {
		assert.Equal(t, cfg.FailureColor, seg.Color)
	}

	s.Update(1.0 / 90)
	for i, seg := range s.Segments() {
		assert.Less(t, seg.Length(), before[i].Length())
		assert.Less(t, seg.Width, before[i].Width)
		// Each segment collapses onto its own midpoint.
		mid := before[i].Start.Add(before[i].End).Scale(0.5)
		assert.InDelta(t, 0, seg.Start.Add(seg.End).Scale(0.5).Distance(mid), 1e-9)
	}

	for tick := 0; tick < 5*90 && !s.Disposed(); tick++ {
		s.Update(1.0 / 90)
	}
	assert.True(t, s.Disposed())
	assert.Empty(t, s.Segments())
}

func TestAbandonAndRelease(t *testing.T) {
	s := New(DefaultConfig(), newPointer(vecmath.Vec3{}))
	s.Abandon()
	assert.Equal(t, StateFinishedFailure, s.State())

	s.Release()
	assert.True(t, s.Disposed())
	assert.Empty(t, s.Points())
	assert.Zero(t, s.Length())
	s.Update(1.0 / 90)
	assert.True(t, s.Disposed())
}

func TestConfigValidate(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())

	cfg := DefaultConfig()
	cfg.LineLength = 0
	assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)

	cfg = DefaultConfig()
	cfg.FlattenTime = math.Inf(-1)
	assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "drawing", StateDrawing.String())
	assert.Equal(t, "disposed", StateDisposed.String())
}
