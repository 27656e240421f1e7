// Package app provides the application context and dependency management
// for the coreoffset CLI. It centralizes configuration, logging and the
// construction of the reconciliation pipeline.
package app

import (
	"github.com/rs/zerolog"

	"github.com/agentstation/coreoffset"
	"github.com/agentstation/coreoffset/pkg/emitter"
	"github.com/agentstation/coreoffset/pkg/errors"
	"github.com/agentstation/coreoffset/pkg/metrics"
)

// App represents the coreoffset application with all its dependencies.
type App struct {
	// Version information
	version string
	commit  string
	date    string
	builtBy string

	// Configuration
	config *Config

	// Logger; fixed loggers are not rebuilt from flags
	logger      *zerolog.Logger
	fixedLogger bool
}

// New creates a new App instance with the given version information.
// Configuration is loaded from the environment, .env files and the
// default config file locations; options may replace it.
func New(version, commit, date, builtBy string, opts ...Option) (*App, error) {
	app := &App{
		version: version,
		commit:  commit,
		date:    date,
		builtBy: builtBy,
	}

	config, err := LoadConfig("")
	if err != nil {
		return nil, errors.WrapResource("load", "config", "", err)
	}
	app.config = config

	logger := NewLogger(config)
	app.logger = &logger

	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}

	return app, nil
}

// Version returns the version information.
func (a *App) Version() string {
	return a.version
}

// Commit returns the git commit hash.
func (a *App) Commit() string {
	return a.commit
}

// Date returns the build date.
func (a *App) Date() string {
	return a.date
}

// BuiltBy returns the build system identifier.
func (a *App) BuiltBy() string {
	return a.builtBy
}

// Config returns the application configuration.
func (a *App) Config() *Config {
	return a.config
}

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger {
	return a.logger
}

// CoreOffset builds the reconciler and renderer from the configuration,
// followed by opts. Diagnostics go to the logger of the run context.
func (a *App) CoreOffset(opts ...coreoffset.Option) (coreoffset.CoreOffset, error) {
	base := []coreoffset.Option{
		coreoffset.WithLayout(a.config.Layout),
		coreoffset.WithArrayName(a.config.ArrayName),
		coreoffset.WithCollation(emitter.CollationMode(a.config.Collation.Mode), a.config.Collation.Locale),
	}
	return coreoffset.New(append(base, opts...)...)
}

// Metrics builds a metrics manager for one run.
func (a *App) Metrics() *metrics.Manager {
	return metrics.NewManager()
}

// Option is a functional option for configuring the App.
type Option func(*App) error

// WithConfig sets a custom configuration.
func WithConfig(config *Config) Option {
	return func(a *App) error {
		if config == nil {
			return errors.NewValidationError("config", nil, "cannot be nil")
		}
		a.config = config
		return nil
	}
}

// WithLogger sets a custom logger. Flags no longer rebuild it.
func WithLogger(logger *zerolog.Logger) Option {
	return func(a *App) error {
		a.logger = logger
		a.fixedLogger = true
		return nil
	}
}
