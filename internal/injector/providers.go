package injector

import (
	"context"
	"fmt"
	"math"

	"github.com/google/wire"

	"github.com/zeusync/gesturecast/internal/config"
	"github.com/zeusync/gesturecast/internal/core/caster"
	"github.com/zeusync/gesturecast/internal/core/classify"
	"github.com/zeusync/gesturecast/internal/core/dataset"
	"github.com/zeusync/gesturecast/internal/core/events/bus"
	"github.com/zeusync/gesturecast/internal/core/observability/log"
	"github.com/zeusync/gesturecast/internal/server"
)

// App is the assembled gesture service.
type App struct {
	Config   config.Config
	Logger   *log.Logger
	Outcomes bus.EventBus
	Server   *server.Server
}

var ProviderSet = wire.NewSet(
	ProvideConfig,
	ProvideLogger,
	wire.Bind(new(log.Log), new(*log.Logger)),
	ProvideOutcomes,
	ProvideClassifier,
	ProvideCasterFactory,
	ProvideServer,
)

// ProvideConfig loads path, or the defaults when path is empty.
func ProvideConfig(path string) (config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}

func ProvideLogger(cfg config.Config) (*log.Logger, error) {
	return log.New(cfg.LogLevel(), cfg.Log.Encoding)
}

// ProvideOutcomes is the bus gameplay consumers subscribe to for
// gesture.drawn events.
func ProvideOutcomes(logger log.Log) bus.EventBus {
	b := bus.New()
	b.AddObserver(bus.NewLogObserver(logger))
	return b
}

// ProvideClassifier builds a template classifier from the gesture files in
// the configured templates directory.
func ProvideClassifier(ctx context.Context, cfg config.Config, logger log.Log) (classify.Classifier, error) {
	cc := cfg.Classifier
	names := classify.DefaultSpells.ClassNames()
	if cc.ClassNames != "" {
		loaded, err := dataset.LoadClassNames(cc.ClassNames)
		if err != nil {
			return nil, fmt.Errorf("load class names: %w", err)
		}
		if len(loaded) != classify.NumClasses {
			return nil, fmt.Errorf("%w: %s lists %d classes, want %d", config.ErrInvalidConfig, cc.ClassNames, len(loaded), classify.NumClasses)
		}
		names = loaded
	}

	samples, err := dataset.NewStore(cc.TemplatesDir).Samples(names)
	if err != nil {
		return nil, err
	}
	rotations := make([]float64, len(cc.Rotations))
	for i, deg := range cc.Rotations {
		rotations[i] = deg * math.Pi / 180
	}
	canvas := classify.Canvas{
		Size:     cfg.Pipeline.CanvasSize,
		Padding:  cfg.Pipeline.Padding,
		Simplify: cfg.Pipeline.Simplify,
	}
	templates, err := classify.BuildTemplates(ctx, samples, canvas, rotations, cc.Workers)
	if err != nil {
		return nil, err
	}

	opts := classify.DefaultTemplateOptions()
	opts.MinSimilarity = cc.MinSimilarity
	opts.Workers = cc.Workers
	classifier, err := classify.NewTemplateClassifier(templates, opts)
	if err != nil {
		return nil, fmt.Errorf("templates in %s: %w", cc.TemplatesDir, err)
	}
	logger.Info("classifier ready",
		log.String("templates_dir", cc.TemplatesDir),
		log.Int("samples", len(samples)),
		log.Int("templates", classifier.Len()),
	)
	return classifier, nil
}

func ProvideCasterFactory(cfg config.Config, logger log.Log, classifier classify.Classifier) (server.CasterFactory, error) {
	cc, err := cfg.CasterConfig()
	if err != nil {
		return nil, err
	}
	return func(events bus.EventBus) *caster.Caster {
		return caster.New(cc, logger, classifier, caster.MatchSelector, events)
	}, nil
}

func ProvideServer(cfg config.Config, logger log.Log, newCaster server.CasterFactory, outcomes bus.EventBus) *server.Server {
	return server.New(cfg.Server, logger, newCaster, outcomes)
}
