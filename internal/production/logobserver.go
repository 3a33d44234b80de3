package production

import "github.com/rs/zerolog"

// LogObserver writes every event it receives to a zerolog logger.
type LogObserver[E any] struct {
	log   zerolog.Logger
	level zerolog.Level
}

// NewLogObserver logs events at level with an "observer" field set to name.
func NewLogObserver[E any](l zerolog.Logger, name string, level zerolog.Level) *LogObserver[E] {
	return &LogObserver[E]{
		log:   l.With().Str("observer", name).Logger(),
		level: level,
	}
}

func (o *LogObserver[E]) OnNotify(event E) {
	o.log.WithLevel(o.level).Interface("event", event).Msg("event received")
}
