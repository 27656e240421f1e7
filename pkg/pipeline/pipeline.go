// Package pipeline runs a full reconciliation over a documentation tree:
// it loads the board registry, fetches the three sources and drains them
// through a reconciler in canonical order.
package pipeline

import (
	"context"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"github.com/agentstation/coreoffset/internal/sources/dumps"
	"github.com/agentstation/coreoffset/internal/sources/firmware"
	"github.com/agentstation/coreoffset/internal/sources/istat"
	"github.com/agentstation/coreoffset/pkg/boards"
	"github.com/agentstation/coreoffset/pkg/constants"
	"github.com/agentstation/coreoffset/pkg/errors"
	"github.com/agentstation/coreoffset/pkg/logging"
	"github.com/agentstation/coreoffset/pkg/reconciler"
	"github.com/agentstation/coreoffset/pkg/sources"
)

// Layout names the inputs relative to the docs root.
type Layout struct {
	DumpsDir     string `mapstructure:"dumps_dir" yaml:"dumps_dir" json:"dumps_dir"`
	ModelsFile   string `mapstructure:"models_file" yaml:"models_file" json:"models_file"`
	DatabaseDir  string `mapstructure:"database_dir" yaml:"database_dir" json:"database_dir"`
	DatabaseFile string `mapstructure:"database_file" yaml:"database_file" json:"database_file"`
	IStatFile    string `mapstructure:"istat_file" yaml:"istat_file" json:"istat_file"`
}

// DefaultLayout returns the layout of the documentation tree.
func DefaultLayout() Layout {
	return Layout{
		DumpsDir:     constants.DumpsDir,
		ModelsFile:   constants.ModelsFile,
		DatabaseDir:  constants.DatabaseDir,
		DatabaseFile: constants.DatabaseFile,
		IStatFile:    constants.IStatFile,
	}
}

// withDefaults fills empty names from the default layout.
func (l Layout) withDefaults() Layout {
	d := DefaultLayout()
	if l.DumpsDir == "" {
		l.DumpsDir = d.DumpsDir
	}
	if l.ModelsFile == "" {
		l.ModelsFile = d.ModelsFile
	}
	if l.DatabaseDir == "" {
		l.DatabaseDir = d.DatabaseDir
	}
	if l.DatabaseFile == "" {
		l.DatabaseFile = d.DatabaseFile
	}
	if l.IStatFile == "" {
		l.IStatFile = d.IStatFile
	}
	return l
}

// Pipeline runs reconciliations.
type Pipeline struct {
	layout     Layout
	strategy   reconciler.Strategy
	provenance bool
	logger     *zerolog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLayout overrides input names. Empty fields keep their defaults.
func WithLayout(l Layout) Option {
	return func(p *Pipeline) {
		p.layout = l.withDefaults()
	}
}

// WithStrategy sets the conflict strategy of the reconciler.
func WithStrategy(s reconciler.Strategy) Option {
	return func(p *Pipeline) {
		p.strategy = s
	}
}

// WithProvenance enables or disables provenance tracking.
func WithProvenance(enabled bool) Option {
	return func(p *Pipeline) {
		p.provenance = enabled
	}
}

// WithLogger sets the logger mismatch diagnostics are written to.
func WithLogger(logger *zerolog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// New creates a Pipeline.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{
		layout:     DefaultLayout(),
		provenance: true,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Layout returns the effective layout.
func (p *Pipeline) Layout() Layout {
	return p.layout
}

// Open validates root and returns a filesystem rooted at it.
func Open(root string) (afero.Fs, error) {
	if root == "" {
		return nil, errors.NewValidationError("docs_dir", root, "cannot be empty")
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, errors.WrapIO("resolve", root, err)
	}
	osfs := afero.NewOsFs()
	ok, err := afero.DirExists(osfs, abs)
	if err != nil {
		return nil, errors.WrapIO("stat", abs, err)
	}
	if !ok {
		return nil, errors.WrapIO("stat", abs, errors.NewNotFoundError("directory", abs))
	}
	return afero.NewReadOnlyFs(afero.NewBasePathFs(osfs, abs)), nil
}

// Sources builds the three sources for fsys. The board registry is loaded
// first since the firmware source resolves through it.
func (p *Pipeline) Sources(ctx context.Context, fsys afero.Fs) ([]sources.Source, error) {
	logger := logging.FromContext(ctx)

	registry, err := boards.Load(fsys, p.layout.ModelsFile)
	if err != nil {
		return nil, errors.WrapResource("load", "registry", p.layout.ModelsFile, err)
	}
	logger.Debug().Int("boards", registry.Len()).Msg("Loaded board registry")

	return []sources.Source{
		dumps.New(dumps.WithDir(p.layout.DumpsDir)),
		firmware.New(registry,
			firmware.WithDir(p.layout.DatabaseDir),
			firmware.WithFile(p.layout.DatabaseFile),
		),
		istat.New(istat.WithFile(p.layout.IStatFile)),
	}, nil
}

// Run fetches every source from fsys and reconciles them. Any missing
// input aborts the run before reconciliation starts.
func (p *Pipeline) Run(ctx context.Context, fsys afero.Fs) (*reconciler.Result, error) {
	srcs, err := p.Sources(ctx, fsys)
	if err != nil {
		return nil, err
	}

	for _, src := range srcs {
		ctx := logging.WithSource(ctx, src.ID().String())
		if err := src.Fetch(ctx, fsys); err != nil {
			return nil, errors.WrapResource("fetch", "source", src.ID().String(), err)
		}
	}

	opts := []reconciler.Option{reconciler.WithProvenance(p.provenance)}
	if p.strategy != nil {
		opts = append(opts, reconciler.WithStrategy(p.strategy))
	}
	logger := p.logger
	if logger == nil {
		logger = logging.FromContext(ctx)
	}
	opts = append(opts, reconciler.WithLogger(logger))

	r, err := reconciler.New(opts...)
	if err != nil {
		return nil, err
	}
	return r.Sources(ctx, srcs)
}

// RunDir opens root and runs the pipeline over it.
func (p *Pipeline) RunDir(ctx context.Context, root string) (*reconciler.Result, error) {
	fsys, err := Open(root)
	if err != nil {
		return nil, err
	}
	return p.Run(ctx, fsys)
}
