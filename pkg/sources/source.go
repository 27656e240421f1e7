// Package sources defines the contract shared by the three sensor dump
// sources of a documentation tree and the record type they produce.
//
// A source is fetched once, reading all of its raw text through an
// afero.Fs, and then yields its records lazily:
//
//	src := dumps.New()
//	if err := src.Fetch(ctx, fsys); err != nil {
//	    return err // missing inputs are fatal
//	}
//	for rec := range src.Records() {
//	    reconciler.Observe(rec.Model, rec.Classification, rec.Source)
//	}
package sources

import (
	"context"
	"iter"
	"slices"

	"github.com/spf13/afero"

	"github.com/agentstation/coreoffset/pkg/coretemp"
)

// ID represents the identifier of a data source. It is also the source
// label that appears in mismatch diagnostics.
type ID string

// String returns the string representation of a source ID.
func (id ID) String() string {
	return string(id)
}

// Source identifiers, in canonical observation order.
const (
	DumpID     ID = "dump"
	FirmwareID ID = "firmware"
	IStatID    ID = "iStat"
)

// IDs returns all source IDs in the order the reconciler must observe them.
func IDs() []ID {
	return []ID{DumpID, FirmwareID, IStatID}
}

// IsValid returns true if the ID is one of the defined constants.
func (id ID) IsValid() bool {
	return slices.Contains(IDs(), id)
}

// Order returns the position of id in the canonical order, or -1.
func (id ID) Order() int {
	return slices.Index(IDs(), id)
}

// Record is one observation: a model and the classification one source
// found for it.
type Record struct {
	Model          string                  `json:"model" yaml:"model"`
	Classification coretemp.Classification `json:"classification" yaml:"classification"`
	Source         ID                      `json:"source" yaml:"source"`
}

// Source is implemented by every extractor.
type Source interface {
	// ID returns the source identifier
	ID() ID

	// Fetch reads the raw text of the source. Any missing or unreadable
	// input is returned as an error.
	Fetch(ctx context.Context, fsys afero.Fs) error

	// Records yields one record per model observation. It must only be
	// called after a successful Fetch.
	Records() iter.Seq[Record]
}

// Sort orders sources canonically: dump, firmware, iStat. Unknown IDs go last.
func Sort(srcs []Source) []Source {
	sorted := slices.Clone(srcs)
	slices.SortStableFunc(sorted, func(a, b Source) int {
		return rank(a.ID()) - rank(b.ID())
	})
	return sorted
}

func rank(id ID) int {
	if o := id.Order(); o >= 0 {
		return o
	}
	return len(IDs())
}
