package coreoffset

import (
	"github.com/rs/zerolog"

	"github.com/agentstation/coreoffset/pkg/emitter"
	"github.com/agentstation/coreoffset/pkg/errors"
	"github.com/agentstation/coreoffset/pkg/pipeline"
	"github.com/agentstation/coreoffset/pkg/reconciler"
)

// Option configures a CoreOffset instance.
type Option func(*config) error

type config struct {
	layout     pipeline.Layout
	strategy   reconciler.Strategy
	provenance bool
	logger     *zerolog.Logger

	format     emitter.Format
	arrayName  string
	comparator emitter.Comparator
}

func newConfig(opts ...Option) (*config, error) {
	cfg := &config{
		layout:     pipeline.DefaultLayout(),
		provenance: true,
		format:     emitter.FormatPlist,
	}
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

func (c *config) pipelineOptions() []pipeline.Option {
	opts := []pipeline.Option{
		pipeline.WithLayout(c.layout),
		pipeline.WithProvenance(c.provenance),
	}
	if c.strategy != nil {
		opts = append(opts, pipeline.WithStrategy(c.strategy))
	}
	if c.logger != nil {
		opts = append(opts, pipeline.WithLogger(c.logger))
	}
	return opts
}

func (c *config) emitterOptions() []emitter.Option {
	opts := []emitter.Option{emitter.WithFormat(c.format)}
	if c.arrayName != "" {
		opts = append(opts, emitter.WithArrayName(c.arrayName))
	}
	if c.comparator != nil {
		opts = append(opts, emitter.WithComparator(c.comparator))
	}
	return opts
}

// WithLayout overrides the input file and directory names.
func WithLayout(layout pipeline.Layout) Option {
	return func(c *config) error {
		c.layout = layout
		return nil
	}
}

// WithStrategy replaces the conflict policy.
func WithStrategy(strategy reconciler.Strategy) Option {
	return func(c *config) error {
		if strategy == nil {
			return errors.NewValidationError("strategy", nil, "cannot be nil")
		}
		c.strategy = strategy
		return nil
	}
}

// WithProvenance toggles per-model observation history.
func WithProvenance(enabled bool) Option {
	return func(c *config) error {
		c.provenance = enabled
		return nil
	}
}

// WithLogger sets the logger used for mismatch warnings.
func WithLogger(logger *zerolog.Logger) Option {
	return func(c *config) error {
		c.logger = logger
		return nil
	}
}

// WithFormat selects the document format written before the array.
func WithFormat(format emitter.Format) Option {
	return func(c *config) error {
		f, err := emitter.ParseFormat(string(format))
		if err != nil {
			return err
		}
		c.format = f
		return nil
	}
}

// WithArrayName sets the C identifier of the generated array.
func WithArrayName(name string) Option {
	return func(c *config) error {
		if name == "" {
			return errors.NewValidationError("array_name", name, "cannot be empty")
		}
		c.arrayName = name
		return nil
	}
}

// WithCollation selects how the array entries are ordered.
func WithCollation(mode emitter.CollationMode, locale string) Option {
	return func(c *config) error {
		cmp, err := emitter.NewComparator(mode, locale)
		if err != nil {
			return err
		}
		c.comparator = cmp
		return nil
	}
}
