package nav

import (
	"log/slog"

	"github.com/mj1618/focusnav/internal/geometry"
)

// Option configures an Engine at construction.
type Option func(*Engine)

// WithConfig sets the initial configuration.
func WithConfig(cfg Config) Option {
	return func(e *Engine) { e.cfg = cfg.normalize() }
}

// WithLogger sets the engine's logger. The default discards everything.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// CallOption tunes a single focus transition.
type CallOption func(*callOptions)

type callOptions struct {
	direction geometry.Direction
	events    bool
}

func newCallOptions(opts []CallOption) callOptions {
	o := callOptions{events: true}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithDirection records the direction reported in the focus-moved event.
func WithDirection(d geometry.Direction) CallOption {
	return func(o *callOptions) { o.direction = d }
}

// WithoutEvents suppresses notifications for the transition.
func WithoutEvents() CallOption {
	return func(o *callOptions) { o.events = false }
}
