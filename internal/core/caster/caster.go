// Package caster runs drawing sessions: it captures a stroke per hand, sends
// finished strokes through the classification pipeline and animates them
// until they are disposed.
//
// A Caster is driven by a single goroutine. It is not safe for concurrent
// use.
package caster

import (
	"fmt"
	"maps"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/zeusync/gesturecast/internal/core/classify"
	"github.com/zeusync/gesturecast/internal/core/events/bus"
	"github.com/zeusync/gesturecast/internal/core/observability/log"
	"github.com/zeusync/gesturecast/internal/core/projection"
	"github.com/zeusync/gesturecast/internal/core/raster"
	"github.com/zeusync/gesturecast/internal/core/stroke"
)

const eventSource = "caster"

type session struct {
	hand    Hand
	stroke  *stroke.Stroke
	success bool
}

type Caster struct {
	cfg        Config
	logger     log.Log
	classifier classify.Classifier
	spells     *classify.SpellTable
	selector   Selector
	events     bus.EventBus
	rasterizer *raster.Rasterizer

	active    map[Hand]*session
	finishing []*session
}

// New builds a caster. A nil selector means MatchSelector and a nil bus
// publishes nowhere.
func New(cfg Config, logger log.Log, classifier classify.Classifier, selector Selector, events bus.EventBus) *Caster {
	if selector == nil {
		selector = MatchSelector
	}
	spells := classify.DefaultSpells
	return &Caster{
		cfg:        cfg,
		logger:     logger.With(log.String("component", "caster")),
		classifier: classifier,
		spells:     &spells,
		selector:   selector,
		events:     events,
		rasterizer: &raster.Rasterizer{},
		active:     make(map[Hand]*session),
	}
}

// Begin starts a stroke for hand at the pointer's position.
func (c *Caster) Begin(hand Hand, pointer stroke.Pointer) (uuid.UUID, error) {
	if hand == "" {
		return uuid.Nil, ErrInvalidHand
	}
	if _, ok := c.active[hand]; ok {
		c.logger.Warn("begin while drawing", log.String("hand", string(hand)))
		return uuid.Nil, fmt.Errorf("%w: %s", ErrAlreadyDrawing, hand)
	}
	s := &session{hand: hand, stroke: stroke.New(c.cfg.Stroke, pointer)}
	c.active[hand] = s
	c.logger.Debug("drawing started",
		log.String("hand", string(hand)),
		log.Stringer("id", s.stroke.ID()),
	)
	return s.stroke.ID(), nil
}

// Drawing reports whether hand has a stroke in progress.
func (c *Caster) Drawing(hand Hand) bool {
	_, ok := c.active[hand]
	return ok
}

// End finishes the stroke of hand: the stroke is classified exactly once,
// the outcome is published as a gesture.drawn event and the finish
// animation starts.
func (c *Caster) End(hand Hand) (Outcome, error) {
	s, ok := c.active[hand]
	if !ok {
		c.logger.Warn("end without begin", log.String("hand", string(hand)))
		return Outcome{}, fmt.Errorf("%w: %s", ErrNotDrawing, hand)
	}
	delete(c.active, hand)

	out := c.resolve(s)
	s.success = out.Success
	_ = s.stroke.Finish(out.Success)
	c.finishing = append(c.finishing, s)

	c.logger.Info("gesture drawn",
		log.String("hand", string(hand)),
		log.Stringer("id", out.ID),
		log.Int("class", out.Result.Class),
		log.String("class_name", out.Result.ClassName),
		log.Int("spell", out.Result.Spell),
		log.Bool("success", out.Success),
	)
	c.publish(bus.EventGestureDrawn, out)
	return out, nil
}

// Abandon finishes the stroke of hand as a failure without classifying it.
func (c *Caster) Abandon(hand Hand) error {
	s, ok := c.active[hand]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotDrawing, hand)
	}
	delete(c.active, hand)
	s.stroke.Abandon()
	c.finishing = append(c.finishing, s)
	c.logger.Info("drawing abandoned",
		log.String("hand", string(hand)),
		log.Stringer("id", s.stroke.ID()),
	)
	return nil
}

// Tick advances every stroke by dt seconds and drops the ones whose finish
// animation completed, publishing a gesture.disposed event for each.
func (c *Caster) Tick(dt float64) {
	for _, s := range c.active {
		s.stroke.Update(dt)
	}

	kept := c.finishing[:0]
	for _, s := range c.finishing {
		s.stroke.Update(dt)
		if !s.stroke.Disposed() {
			kept = append(kept, s)
			continue
		}
		c.logger.Debug("stroke disposed", log.Stringer("id", s.stroke.ID()))
		c.publish(bus.EventGestureDisposed, Disposal{ID: s.stroke.ID(), Hand: s.hand, Success: s.success})
	}
	clear(c.finishing[len(kept):])
	c.finishing = kept
}

// Strokes snapshots every live stroke, drawing ones first.
func (c *Caster) Strokes() []View {
	views := make([]View, 0, len(c.active)+len(c.finishing))
	for _, hand := range slices.Sorted(maps.Keys(c.active)) {
		views = append(views, view(c.active[hand]))
	}
	for _, s := range c.finishing {
		views = append(views, view(s))
	}
	return views
}

// Close releases every stroke without animating it.
func (c *Caster) Close() {
	for hand, s := range c.active {
		s.stroke.Release()
		delete(c.active, hand)
	}
	for _, s := range c.finishing {
		s.stroke.Release()
	}
	c.finishing = nil
}

func (c *Caster) resolve(s *session) Outcome {
	st := s.stroke
	started := time.Now()

	points := st.Points()
	d, frame := projection.Flatten(points, st.Facing())
	bmp := &raster.Bitmap{}
	if extent := d.Extent(); extent >= c.cfg.MinExtent {
		bmp = c.cfg.Canvas.Render(c.rasterizer, d)
	} else {
		c.logger.Debug("drawing too small to render", log.Float64("extent", extent))
	}
	c.logger.Debug("drawing rasterized",
		log.Int("points", len(points)),
		log.Bool("fallback_frame", frame.Fallback),
		log.Int("pixels", bmp.NonZero()),
		log.Duration("took", time.Since(started)),
	)

	res, err := classify.Run(c.classifier, c.spells, bmp)
	if err != nil {
		c.logger.Error("classifier failed", log.Stringer("id", st.ID()), log.Error(err))
	}

	return Outcome{
		ID:      st.ID(),
		Hand:    s.hand,
		Result:  res,
		Success: c.selector.Select(res),
		Bitmap:  bmp,
		Frame:   frame,
		Length:  st.Length(),
		Points:  len(points),
	}
}

func (c *Caster) publish(eventType string, data any) {
	if c.events == nil {
		return
	}
	if err := c.events.Publish(bus.NewEvent(eventType, eventSource, data)); err != nil {
		c.logger.Warn("publish failed", log.String("event", eventType), log.Error(err))
	}
}

func view(s *session) View {
	return View{
		ID:       s.stroke.ID(),
		Hand:     s.hand,
		State:    s.stroke.State(),
		Segments: s.stroke.Segments(),
	}
}
