// Package istat extracts classifications from the aggregated iStat log, a
// single file of per-model sections each starting with a
// "Dumping <model> ..." header line.
package istat

import (
	"context"
	"iter"
	"strings"

	"github.com/spf13/afero"

	"github.com/agentstation/coreoffset/pkg/constants"
	"github.com/agentstation/coreoffset/pkg/coretemp"
	"github.com/agentstation/coreoffset/pkg/logging"
	"github.com/agentstation/coreoffset/pkg/sources"
)

// Source reads the iStat log.
type Source struct {
	file    string
	content string
}

// Option configures an iStat source.
type Option func(*Source)

// WithFile overrides the log path relative to the docs root.
func WithFile(name string) Option {
	return func(s *Source) {
		s.file = name
	}
}

// New creates a new iStat source.
func New(opts ...Option) *Source {
	s := &Source{file: constants.IStatFile}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ID returns the source identifier.
func (s *Source) ID() sources.ID {
	return sources.IStatID
}

// Fetch reads the log.
func (s *Source) Fetch(ctx context.Context, fsys afero.Fs) error {
	content, err := sources.ReadFile(fsys, s.file)
	if err != nil {
		return err
	}
	s.content = content
	logging.FromContext(ctx).Debug().Int("bytes", len(content)).Str("file", s.file).Msg("Fetched iStat log")
	return nil
}

// Records yields one record per section.
func (s *Source) Records() iter.Seq[sources.Record] {
	return Extract(s.content)
}

// Extract scans log text section by section. Text before the first header
// is ignored, markers on a header line do not count toward its section,
// and the last section is flushed at end of input.
func Extract(text string) iter.Seq[sources.Record] {
	return func(yield func(sources.Record) bool) {
		var (
			model string
			acc   coretemp.Accumulator
		)

		flush := func() bool {
			if model == "" {
				return true
			}
			return yield(sources.Record{
				Model:          model,
				Classification: acc.Classification(),
				Source:         sources.IStatID,
			})
		}

		for line := range strings.Lines(text) {
			line = strings.TrimRight(line, "\r\n")
			if next, ok := header(line); ok {
				if !flush() {
					return
				}
				model = next
				acc.Reset()
				continue
			}
			if model != "" {
				acc.Add(line)
			}
		}

		flush()
	}
}

// header returns the model named by a section header line.
func header(line string) (string, bool) {
	if !strings.HasPrefix(line, constants.SectionPrefix) {
		return "", false
	}
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return "", false
	}
	return fields[1], true
}
