// Package firmware extracts classifications from the SMC firmware database:
// one directory per board identifier, each holding a main.txt key listing.
package firmware

import (
	"context"
	"iter"
	"path"

	"github.com/spf13/afero"

	"github.com/agentstation/coreoffset/pkg/constants"
	"github.com/agentstation/coreoffset/pkg/coretemp"
	"github.com/agentstation/coreoffset/pkg/errors"
	"github.com/agentstation/coreoffset/pkg/logging"
	"github.com/agentstation/coreoffset/pkg/sources"
)

// Resolver maps a raw board identifier to a model name.
type Resolver interface {
	Resolve(boardID string) string
}

// Source reads every board directory of the firmware database.
type Source struct {
	dir      string
	file     string
	resolver Resolver
	boards   []board
}

type board struct {
	id      string
	content string
}

// Option configures a firmware source.
type Option func(*Source)

// WithDir overrides the database directory relative to the docs root.
func WithDir(dir string) Option {
	return func(s *Source) {
		s.dir = dir
	}
}

// WithFile overrides the content file name inside each board directory.
func WithFile(name string) Option {
	return func(s *Source) {
		s.file = name
	}
}

// New creates a firmware source that resolves board identifiers through
// resolver. A nil resolver keeps raw identifiers.
func New(resolver Resolver, opts ...Option) *Source {
	s := &Source{
		dir:      constants.DatabaseDir,
		file:     constants.DatabaseFile,
		resolver: resolver,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ID returns the source identifier.
func (s *Source) ID() sources.ID {
	return sources.FirmwareID
}

// Fetch reads the content file of every board directory. A board
// directory without its content file is an error.
func (s *Source) Fetch(ctx context.Context, fsys afero.Fs) error {
	logger := logging.FromContext(ctx)

	infos, err := sources.ReadDir(fsys, s.dir)
	if err != nil {
		return err
	}

	s.boards = s.boards[:0]
	for _, info := range infos {
		if ctx.Err() != nil {
			return errors.Join(errors.ErrCanceled, ctx.Err())
		}
		if !info.IsDir() {
			logger.Debug().Str("entry", info.Name()).Msg("Skipping non-directory in firmware database")
			continue
		}
		content, err := sources.ReadFile(fsys, path.Join(s.dir, info.Name(), s.file))
		if err != nil {
			return err
		}
		s.boards = append(s.boards, board{id: info.Name(), content: content})
	}

	logger.Debug().Int("boards", len(s.boards)).Str("dir", s.dir).Msg("Fetched firmware database")
	return nil
}

// Records yields one record per board, keyed by the resolved model name.
func (s *Source) Records() iter.Seq[sources.Record] {
	return func(yield func(sources.Record) bool) {
		for _, b := range s.boards {
			if !yield(Extract(s.resolver, b.id, b.content)) {
				return
			}
		}
	}
}

// Extract classifies one board's key listing. The directory name has its
// extension stripped before resolution.
func Extract(resolver Resolver, dirName, content string) sources.Record {
	model := sources.Stem(dirName)
	if resolver != nil {
		model = resolver.Resolve(model)
	}
	return sources.Record{
		Model:          model,
		Classification: coretemp.Classify(content),
		Source:         sources.FirmwareID,
	}
}
