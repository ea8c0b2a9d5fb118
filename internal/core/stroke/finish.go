package stroke

import (
	"image/color"

	"github.com/zeusync/gesturecast/internal/core/vecmath"
)

// Finish freezes capture and starts the finish animation. A successful
// gesture turns green front to back and then shrinks to nothing; a failed one
// turns red at once and each segment collapses onto its midpoint.
func (s *Stroke) Finish(success bool) error {
	if s.state != StateDrawing {
		return ErrFinished
	}
	if success {
		s.state = StateFinishedSuccess
	} else {
		s.state = StateFinishedFailure
		s.recolor(len(s.segments), s.cfg.FailureColor)
	}
	s.elapsed = 0
	return nil
}

// Abandon finishes an in-progress stroke as a failure. It is a no-op once the
// stroke has finished.
func (s *Stroke) Abandon() {
	_ = s.Finish(false)
}

// Release drops all points and segments immediately.
func (s *Stroke) Release() {
	s.points = nil
	s.segments = nil
	s.state = StateDisposed
}

// Elapsed is the time since Finish.
func (s *Stroke) Elapsed() float64 { return s.elapsed }

func (s *Stroke) updateSuccess(dt float64) {
	if s.elapsed < s.cfg.SuccessTime {
		frac := s.elapsed / s.cfg.SuccessTime
		n := len(s.segments)
		s.recolor(min(int(float64(n)*frac+1), n), s.cfg.SuccessColor)
		return
	}

	if !s.shrinking {
		s.recolor(len(s.segments), s.cfg.SuccessColor)
		s.shrinkSpeed = s.Length()/s.cfg.SuccessShortenTime + s.cfg.LineLength
		s.shrinking = true
	}
	s.retract(s.shrinkSpeed*dt, 1)
	if len(s.points) <= 1 {
		s.Release()
	}
}

func (s *Stroke) updateFailure(dt float64) {
	kept := s.segments[:0]
	for _, seg := range s.segments {
		mid := seg.Start.Add(seg.End).Scale(0.5)
		before := seg.Length()

		seg.Start = vecmath.SmoothDamp(seg.Start, mid, &seg.StartVelocity, s.cfg.FailureTime, dt)
		seg.End = vecmath.SmoothDamp(seg.End, mid, &seg.EndVelocity, s.cfg.FailureTime, dt)

		after := seg.Length()
		if before > 0 {
			seg.Width *= after / before
		}
		if after < retireLength {
			velocity := -s.cfg.LineLength
			seg.Width = vecmath.SmoothDampFloat(seg.Width, 0, &velocity, s.cfg.FailureTime, dt)
			if seg.Width < retireLength {
				continue
			}
		}
		kept = append(kept, seg)
	}
	s.segments = kept

	if len(s.segments) == 0 {
		s.Release()
	}
}

// recolor sets the color of the first n segments.
func (s *Stroke) recolor(n int, c color.RGBA) {
	for i := 0; i < n; i++ {
		s.segments[i].Color = c
	}
}
