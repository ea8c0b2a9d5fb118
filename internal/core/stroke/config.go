package stroke

import (
	"fmt"
	"image/color"
)

// Config tunes capture smoothing and the finish animation. Lengths are in
// world units, times in seconds.
type Config struct {
	// SmoothDistance is the leash between the live pointer and the head of
	// the stroke.
	SmoothDistance float64
	// SmoothTime is the head smoothing time constant.
	SmoothTime float64
	// LineLength is the segment length at which a new point is appended.
	LineLength float64
	// MaxDrawingLength is the total length beyond which the tail erodes.
	MaxDrawingLength float64
	// ShortenTime is how long eroding the excess length takes.
	ShortenTime float64
	// FlattenTime is the time constant for pulling points onto the drawing
	// plane while drawing. Zero disables flattening.
	FlattenTime float64

	FailureTime        float64
	SuccessTime        float64
	SuccessShortenTime float64

	LineWidth    float64
	LineColor    color.RGBA
	SuccessColor color.RGBA
	FailureColor color.RGBA
}

func DefaultConfig() Config {
	return Config{
		SmoothDistance:     0.1,
		SmoothTime:         0.07,
		LineLength:         0.02,
		MaxDrawingLength:   2,
		ShortenTime:        2,
		FlattenTime:        2,
		FailureTime:        0.5,
		SuccessTime:        0.5,
		SuccessShortenTime: 0.5,
		LineWidth:          0.015,
		LineColor:          color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff},
		SuccessColor:       color.RGBA{R: 0x33, G: 0xff, B: 0x66, A: 0xff},
		FailureColor:       color.RGBA{R: 0xff, G: 0x33, B: 0x33, A: 0xff},
	}
}

func (c Config) Validate() error {
	positive := []struct {
		name  string
		value float64
	}{
		{"smooth distance", c.SmoothDistance},
		{"line length", c.LineLength},
		{"max drawing length", c.MaxDrawingLength},
		{"shorten time", c.ShortenTime},
		{"failure time", c.FailureTime},
		{"success shorten time", c.SuccessShortenTime},
		{"line width", c.LineWidth},
	}
	for _, p := range positive {
		if p.value <= 0 {
			return fmt.Errorf("%w: %s must be positive, got %g", ErrInvalidConfig, p.name, p.value)
		}
	}
	if c.SmoothTime < 0 || c.FlattenTime < 0 || c.SuccessTime < 0 {
		return fmt.Errorf("%w: times must not be negative", ErrInvalidConfig)
	}
	return nil
}
