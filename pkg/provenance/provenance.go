// Package provenance records, per model, every observation the reconciler
// made and what it did with it.
package provenance

import (
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
	"strings"

	"github.com/agentstation/utc"
	"github.com/goccy/go-yaml"
	"github.com/spf13/afero"

	"github.com/agentstation/coreoffset/pkg/constants"
	"github.com/agentstation/coreoffset/pkg/coretemp"
	"github.com/agentstation/coreoffset/pkg/errors"
	"github.com/agentstation/coreoffset/pkg/sources"
)

// Action is what the reconciler did with one observation.
type Action string

const (
	// ActionInserted means the model was new.
	ActionInserted Action = "inserted"
	// ActionConfirmed means the observation matched the stored value.
	ActionConfirmed Action = "confirmed"
	// ActionSuperseded means the observation replaced a NoCoreTemperature value.
	ActionSuperseded Action = "superseded"
	// ActionSuppressed means the observation disagreed and was not applied.
	ActionSuppressed Action = "suppressed"
)

// String returns the string representation of an action.
func (a Action) String() string {
	return string(a)
}

// Provenance is one observation of a model.
type Provenance struct {
	Source        sources.ID               `json:"source" yaml:"source"`
	Value         coretemp.Classification  `json:"value" yaml:"value"`
	PreviousValue *coretemp.Classification `json:"previous_value,omitempty" yaml:"previous_value,omitempty"`
	Action        Action                   `json:"action" yaml:"action"`
	Timestamp     utc.Time                 `json:"timestamp" yaml:"timestamp"`
	Reason        string                   `json:"reason,omitempty" yaml:"reason,omitempty"`
}

// Map holds observation history keyed by model, in observation order.
type Map map[string][]Provenance

// Tracker manages provenance tracking during reconciliation.
type Tracker interface {
	// Track records an observation for a model
	Track(model string, entry Provenance)

	// FindByModel retrieves the history of one model
	FindByModel(model string) []Provenance

	// Map returns a copy of the complete provenance map
	Map() Map

	// Clear removes all provenance data
	Clear()
}

// tracker is the default implementation.
type tracker struct {
	provenance Map
	enabled    bool
}

// NewTracker creates a new provenance tracker. A disabled tracker records
// nothing.
func NewTracker(enabled bool) Tracker {
	return &tracker{
		provenance: make(Map),
		enabled:    enabled,
	}
}

// Track records an observation for a model.
func (p *tracker) Track(model string, entry Provenance) {
	if !p.enabled {
		return
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = utc.Now()
	}
	p.provenance[model] = append(p.provenance[model], entry)
}

// FindByModel retrieves the history of one model.
func (p *tracker) FindByModel(model string) []Provenance {
	if !p.enabled {
		return nil
	}
	return slices.Clone(p.provenance[model])
}

// Map returns a copy of the complete provenance map.
func (p *tracker) Map() Map {
	if !p.enabled {
		return nil
	}
	result := make(Map, len(p.provenance))
	for k, v := range p.provenance {
		result[k] = slices.Clone(v)
	}
	return result
}

// Clear removes all provenance data.
func (p *tracker) Clear() {
	p.provenance = make(Map)
}

// Models returns the tracked models in lexical order.
func (m Map) Models() []string {
	return slices.Sorted(maps.Keys(m))
}

// Conflicts returns the entries of a history that disagreed with the
// stored value.
func Conflicts(history []Provenance) []Provenance {
	var conflicts []Provenance
	for _, entry := range history {
		if entry.Action == ActionSuperseded || entry.Action == ActionSuppressed {
			conflicts = append(conflicts, entry)
		}
	}
	return conflicts
}

// String renders a human-readable report of the whole map.
func (m Map) String() string {
	var sb strings.Builder

	sb.WriteString("Provenance Report\n")
	sb.WriteString("=================\n\n")

	for _, model := range m.Models() {
		history := m[model]
		sb.WriteString(model)
		sb.WriteString("\n")
		sb.WriteString(strings.Repeat("-", 40))
		sb.WriteString("\n")
		for _, entry := range history {
			fmt.Fprintf(&sb, "  %-10s %-20s %s", entry.Source, entry.Value, entry.Action)
			if entry.PreviousValue != nil {
				fmt.Fprintf(&sb, " (was %s)", entry.PreviousValue)
			}
			sb.WriteString("\n")
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// File is the on-disk form of a provenance map.
type File struct {
	Provenance Map `yaml:"provenance" json:"provenance"`
}

// Write encodes a provenance map as YAML.
func Write(w io.Writer, m Map) error {
	data, err := yaml.MarshalWithOptions(File{Provenance: m}, yaml.Indent(2), yaml.IndentSequence(false))
	if err != nil {
		return errors.WrapEncode("yaml", err)
	}
	if _, err := w.Write(data); err != nil {
		return errors.WrapIO("write", "provenance", err)
	}
	return nil
}

// Save writes a provenance map as YAML to path.
func Save(fsys afero.Fs, path string, m Map) error {
	f, err := fsys.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, constants.FilePermissions)
	if err != nil {
		return errors.WrapIO("create", path, err)
	}
	defer f.Close()
	return Write(f, m)
}

// Load reads a provenance file. A missing file yields nil, nil.
func Load(fsys afero.Fs, path string) (*File, error) {
	exists, err := afero.Exists(fsys, path)
	if err != nil {
		return nil, errors.WrapIO("stat", path, err)
	}
	if !exists {
		return nil, nil
	}

	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		return nil, errors.WrapIO("read", path, err)
	}

	var pf File
	if err := yaml.Unmarshal(data, &pf); err != nil {
		return nil, errors.WrapParse("yaml", path, err)
	}
	return &pf, nil
}
