package bus

import (
	"time"

	"github.com/zeusync/gesturecast/internal/core/observability/log"
)

type logObserver struct {
	logger log.Log
}

// NewLogObserver reports every delivery to logger: failed deliveries at warn,
// the rest at debug.
func NewLogObserver(logger log.Log) EventBusObserver {
	return &logObserver{logger: logger.With(log.String("component", "bus"))}
}

func (o *logObserver) OnPublish(string, Event) {}

func (o *logObserver) OnDelivered(eventType string, handlers int, err error, duration time.Duration) {
	fields := []log.Field{
		log.String("event", eventType),
		log.Int("handlers", handlers),
		log.Duration("took", duration),
	}
	if err != nil {
		o.logger.Warn("event handlers failed", append(fields, log.Error(err))...)
		return
	}
	o.logger.Debug("event delivered", fields...)
}
