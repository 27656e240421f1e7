// Package dumps extracts classifications from the SMCDumps directory: one
// raw key dump per model, named after the model.
package dumps

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

// Source reads every file in the dumps directory.
type Source struct {
	dir   string
	files []file
}

type file struct {
	name    string
	content string
}

// Option configures a dumps source.
type Option func(*Source)

// WithDir overrides the dumps directory relative to the docs root.
func WithDir(dir string) Option {
	return func(s *Source) {
		s.dir = dir
	}
}

// New creates a new dumps source.
func New(opts ...Option) *Source {
	s := &Source{dir: constants.DumpsDir}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ID returns the source identifier.
func (s *Source) ID() sources.ID {
	return sources.DumpID
}

// Fetch reads every regular file of the dumps directory.
func (s *Source) Fetch(ctx context.Context, fsys afero.Fs) error {
	logger := logging.FromContext(ctx)

	infos, err := sources.ReadDir(fsys, s.dir)
	if err != nil {
		return err
	}

	s.files = s.files[:0]
	for _, info := range infos {
		if ctx.Err() != nil {
			return errors.Join(errors.ErrCanceled, ctx.Err())
		}
		if info.IsDir() {
			logger.Debug().Str("entry", info.Name()).Msg("Skipping directory in dumps")
			continue
		}
		content, err := sources.ReadFile(fsys, path.Join(s.dir, info.Name()))
		if err != nil {
			return err
		}
		s.files = append(s.files, file{name: info.Name(), content: content})
	}

	logger.Debug().Int("files", len(s.files)).Str("dir", s.dir).Msg("Fetched dumps")
	return nil
}

// Records yields one record per dump file, keyed by the file name without
// its extension.
func (s *Source) Records() iter.Seq[sources.Record] {
	return func(yield func(sources.Record) bool) {
		for _, f := range s.files {
			if !yield(Extract(f.name, f.content)) {
				return
			}
		}
	}
}

// Extract classifies a single dump.
func Extract(name, content string) sources.Record {
	return sources.Record{
		Model:          sources.Stem(name),
		Classification: coretemp.Classify(content),
		Source:         sources.DumpID,
	}
}
