// Package boards resolves board identifiers (Mac-XXXXXXXX) to the model
// names they ship in, using the MacModels lookup table.
package boards

import (
	"maps"
	"strings"

	"github.com/spf13/afero"

	"github.com/agentstation/coreoffset/pkg/sources"
)

// Registry maps raw board identifiers to canonical model names.
// It is read-only once built.
type Registry struct {
	models map[string]string
}

// Parse builds a registry from lookup table text. Each line contributes
// its first two whitespace-separated tokens as key and value; lines with
// fewer tokens are skipped and later duplicates overwrite earlier ones.
func Parse(text string) *Registry {
	r := &Registry{models: make(map[string]string)}
	for line := range strings.Lines(text) {
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		r.models[fields[0]] = fields[1]
	}
	return r
}

// Load reads and parses the lookup table at path.
func Load(fsys afero.Fs, path string) (*Registry, error) {
	text, err := sources.ReadFile(fsys, path)
	if err != nil {
		return nil, err
	}
	return Parse(text), nil
}

// Resolve returns the model name for boardID, or boardID itself when the
// table has no entry for it.
func (r *Registry) Resolve(boardID string) string {
	if r == nil {
		return boardID
	}
	if model, ok := r.models[boardID]; ok {
		return model
	}
	return boardID
}

// Lookup returns the model name for boardID and whether it was found.
func (r *Registry) Lookup(boardID string) (string, bool) {
	if r == nil {
		return "", false
	}
	model, ok := r.models[boardID]
	return model, ok
}

// Len returns the number of board identifiers known.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.models)
}

// All returns a copy of the table.
func (r *Registry) All() map[string]string {
	if r == nil {
		return map[string]string{}
	}
	return maps.Clone(r.models)
}
