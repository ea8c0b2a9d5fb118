package caster

import (
	"github.com/google/uuid"

	"github.com/zeusync/gesturecast/internal/core/classify"
	"github.com/zeusync/gesturecast/internal/core/projection"
	"github.com/zeusync/gesturecast/internal/core/raster"
	"github.com/zeusync/gesturecast/internal/core/stroke"
)

// Hand identifies the pointer a drawing session belongs to. Each hand draws
// at most one stroke at a time.
type Hand string

const (
	HandLeft  Hand = "left"
	HandRight Hand = "right"
)

// Config tunes capture and the classification pipeline.
type Config struct {
	Stroke stroke.Config
	Canvas classify.Canvas
	// MinExtent is the projected size, in world units, below which a
	// drawing is rendered as a blank bitmap.
	MinExtent float64
}

func DefaultConfig() Config {
	return Config{
		Stroke:    stroke.DefaultConfig(),
		Canvas:    classify.DefaultCanvas(),
		MinExtent: 0.01,
	}
}

// Selector decides whether a classified drawing finishes as a success.
type Selector interface {
	Select(res classify.Result) bool
}

type SelectorFunc func(res classify.Result) bool

func (f SelectorFunc) Select(res classify.Result) bool { return f(res) }

// MatchSelector accepts every drawing that resolved to a spell.
var MatchSelector = SelectorFunc(func(res classify.Result) bool { return res.Matched() })

// Outcome is the result of one finished drawing.
type Outcome struct {
	ID      uuid.UUID
	Hand    Hand
	Result  classify.Result
	Success bool
	// Bitmap is what the classifier saw.
	Bitmap *raster.Bitmap
	Frame  projection.Frame
	Length float64
	Points int
}

// Disposal reports a stroke whose finish animation completed.
type Disposal struct {
	ID      uuid.UUID
	Hand    Hand
	Success bool
}

// View is a read-only snapshot of a stroke for rendering.
type View struct {
	ID       uuid.UUID
	Hand     Hand
	State    stroke.State
	Segments []stroke.Segment
}
