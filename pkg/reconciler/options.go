package reconciler

import (
	"github.com/rs/zerolog"

	"github.com/agentstation/coreoffset/pkg/errors"
)

type options struct {
	strategy Strategy
	tracking bool
	logger   *zerolog.Logger
}

func defaultOptions() *options {
	return &options{
		strategy: NewFirstConfidentStrategy(),
		tracking: true,
	}
}

// Option is a function that configures a Reconciler.
type Option func(*options) error

func (o *options) apply(opts ...Option) (*options, error) {
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	return o, nil
}

func newOptions(opts ...Option) (*options, error) {
	return defaultOptions().apply(opts...)
}

// WithStrategy sets the conflict resolution strategy.
func WithStrategy(strategy Strategy) Option {
	return func(o *options) error {
		if strategy == nil {
			return &errors.ValidationError{
				Field:   "strategy",
				Message: "cannot be nil",
			}
		}
		o.strategy = strategy
		return nil
	}
}

// WithProvenance enables per-model observation tracking.
func WithProvenance(enabled bool) Option {
	return func(o *options) error {
		o.tracking = enabled
		return nil
	}
}

// WithLogger sets the logger mismatches are reported to.
func WithLogger(logger *zerolog.Logger) Option {
	return func(o *options) error {
		o.logger = logger
		return nil
	}
}
