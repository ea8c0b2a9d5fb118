// Package config loads the gesture service configuration from YAML.
package config

import (
	"errors"
	"fmt"
	"image/color"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/zeusync/gesturecast/internal/core/caster"
	"github.com/zeusync/gesturecast/internal/core/classify"
	"github.com/zeusync/gesturecast/internal/core/observability/log"
	"github.com/zeusync/gesturecast/internal/core/stroke"
)

var ErrInvalidConfig = errors.New("invalid configuration")

type Config struct {
	Log        LogConfig        `yaml:"log"`
	Stroke     StrokeConfig     `yaml:"stroke"`
	Pipeline   PipelineConfig   `yaml:"pipeline"`
	Classifier ClassifierConfig `yaml:"classifier"`
	Server     ServerConfig     `yaml:"server"`
}

type LogConfig struct {
	Level    string `yaml:"level"`
	Encoding string `yaml:"encoding"`
}

// StrokeConfig mirrors stroke.Config. Times are seconds, colors are hex
// strings like "#33ff66".
type StrokeConfig struct {
	SmoothDistance     float64 `yaml:"smooth_distance"`
	SmoothTime         float64 `yaml:"smooth_time"`
	LineLength         float64 `yaml:"line_length"`
	MaxDrawingLength   float64 `yaml:"max_drawing_length"`
	ShortenTime        float64 `yaml:"shorten_time"`
	FlattenTime        float64 `yaml:"flatten_time"`
	FailureTime        float64 `yaml:"failure_time"`
	SuccessTime        float64 `yaml:"success_time"`
	SuccessShortenTime float64 `yaml:"success_shorten_time"`
	LineWidth          float64 `yaml:"line_width"`
	LineColor          string  `yaml:"line_color"`
	SuccessColor       string  `yaml:"success_color"`
	FailureColor       string  `yaml:"failure_color"`
}

type PipelineConfig struct {
	CanvasSize float64 `yaml:"canvas_size"`
	Padding    float64 `yaml:"padding"`
	Simplify   float64 `yaml:"simplify"`
	MinExtent  float64 `yaml:"min_extent"`
}

type ClassifierConfig struct {
	// TemplatesDir holds one <class>.yaml gesture file per class.
	TemplatesDir string `yaml:"templates_dir"`
	// ClassNames optionally overrides the class order with a file of one
	// name per line.
	ClassNames string `yaml:"class_names"`
	// Rotations adds rotated copies of every template, in degrees.
	Rotations     []float64 `yaml:"rotations"`
	MinSimilarity float64   `yaml:"min_similarity"`
	Workers       int       `yaml:"workers"`
}

type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	ReadBufferSize  int           `yaml:"read_buffer_size"`
	WriteBufferSize int           `yaml:"write_buffer_size"`
	MaxMessageSize  int64         `yaml:"max_message_size"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

func Default() Config {
	sc := stroke.DefaultConfig()
	canvas := classify.DefaultCanvas()
	cc := caster.DefaultConfig()
	return Config{
		Log: LogConfig{Level: "info", Encoding: "json"},
		Stroke: StrokeConfig{
			SmoothDistance:     sc.SmoothDistance,
			SmoothTime:         sc.SmoothTime,
			LineLength:         sc.LineLength,
			MaxDrawingLength:   sc.MaxDrawingLength,
			ShortenTime:        sc.ShortenTime,
			FlattenTime:        sc.FlattenTime,
			FailureTime:        sc.FailureTime,
			SuccessTime:        sc.SuccessTime,
			SuccessShortenTime: sc.SuccessShortenTime,
			LineWidth:          sc.LineWidth,
			LineColor:          FormatColor(sc.LineColor),
			SuccessColor:       FormatColor(sc.SuccessColor),
			FailureColor:       FormatColor(sc.FailureColor),
		},
		Pipeline: PipelineConfig{
			CanvasSize: canvas.Size,
			Padding:    canvas.Padding,
			Simplify:   canvas.Simplify,
			MinExtent:  cc.MinExtent,
		},
		Classifier: ClassifierConfig{
			TemplatesDir:  "gestures",
			Rotations:     []float64{-15, 15},
			MinSimilarity: classify.DefaultTemplateOptions().MinSimilarity,
		},
		Server: ServerConfig{
			Addr:            "127.0.0.1:8080",
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			MaxMessageSize:  64 * 1024,
			ShutdownTimeout: 5 * time.Second,
		},
	}
}

// Load reads path over the defaults and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err = yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err = cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if c.Log.Encoding != "json" && c.Log.Encoding != "console" {
		return fmt.Errorf("%w: log encoding %q", ErrInvalidConfig, c.Log.Encoding)
	}
	sc, err := c.StrokeConfig()
	if err != nil {
		return err
	}
	if err = sc.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	p := c.Pipeline
	if p.CanvasSize <= 0 || p.Padding < 0 || p.CanvasSize+2*p.Padding > 28 {
		return fmt.Errorf("%w: canvas %g with padding %g does not fit the bitmap", ErrInvalidConfig, p.CanvasSize, p.Padding)
	}
	if p.Simplify < 0 || p.MinExtent < 0 {
		return fmt.Errorf("%w: pipeline tolerances must not be negative", ErrInvalidConfig)
	}
	if c.Classifier.TemplatesDir == "" {
		return fmt.Errorf("%w: classifier templates_dir is required", ErrInvalidConfig)
	}
	if c.Server.Addr == "" {
		return fmt.Errorf("%w: server addr is required", ErrInvalidConfig)
	}
	if c.Server.MaxMessageSize <= 0 {
		return fmt.Errorf("%w: server max_message_size must be positive", ErrInvalidConfig)
	}
	return nil
}

// LogLevel is the parsed log level.
func (c Config) LogLevel() log.Level {
	level, _ := log.ParseLevel(c.Log.Level)
	return level
}

// StrokeConfig converts the stroke section, parsing colors.
func (c Config) StrokeConfig() (stroke.Config, error) {
	s := c.Stroke
	out := stroke.Config{
		SmoothDistance:     s.SmoothDistance,
		SmoothTime:         s.SmoothTime,
		LineLength:         s.LineLength,
		MaxDrawingLength:   s.MaxDrawingLength,
		ShortenTime:        s.ShortenTime,
		FlattenTime:        s.FlattenTime,
		FailureTime:        s.FailureTime,
		SuccessTime:        s.SuccessTime,
		SuccessShortenTime: s.SuccessShortenTime,
		LineWidth:          s.LineWidth,
	}
	var err error
	for _, col := range []struct {
		name string
		in   string
		out  *color.RGBA
	}{
		{"line_color", s.LineColor, &out.LineColor},
		{"success_color", s.SuccessColor, &out.SuccessColor},
		{"failure_color", s.FailureColor, &out.FailureColor},
	} {
		if *col.out, err = ParseColor(col.in); err != nil {
			return out, fmt.Errorf("%w: %s: %v", ErrInvalidConfig, col.name, err)
		}
	}
	return out, nil
}

// CasterConfig assembles the capture and pipeline settings.
func (c Config) CasterConfig() (caster.Config, error) {
	sc, err := c.StrokeConfig()
	if err != nil {
		return caster.Config{}, err
	}
	return caster.Config{
		Stroke: sc,
		Canvas: classify.Canvas{
			Size:     c.Pipeline.CanvasSize,
			Padding:  c.Pipeline.Padding,
			Simplify: c.Pipeline.Simplify,
		},
		MinExtent: c.Pipeline.MinExtent,
	}, nil
}

// ParseColor reads "#rrggbb" or "#rrggbbaa". The leading '#' is optional.
func ParseColor(s string) (color.RGBA, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) != 6 && len(hex) != 8 {
		return color.RGBA{}, fmt.Errorf("color %q: want 6 or 8 hex digits", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("color %q: %w", s, err)
	}
	if len(hex) == 6 {
		v = v<<8 | 0xff
	}
	return color.RGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}

// FormatColor writes c as "#rrggbb", or "#rrggbbaa" when not opaque.
func FormatColor(c color.RGBA) string {
	if c.A == 0xff {
		return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
	}
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}
