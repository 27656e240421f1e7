package reconciler

import (
	"maps"
	"slices"
	"time"

	"github.com/agentstation/utc"

	"github.com/agentstation/coreoffset/pkg/coretemp"
	"github.com/agentstation/coreoffset/pkg/provenance"
	"github.com/agentstation/coreoffset/pkg/sources"
)

// Map is the arbitrated model → classification mapping.
type Map map[string]coretemp.Classification

// Len returns the number of models.
func (m Map) Len() int {
	return len(m)
}

// Get returns the classification of a model.
func (m Map) Get(model string) (coretemp.Classification, bool) {
	c, ok := m[model]
	return c, ok
}

// Models returns every model in lexical order.
func (m Map) Models() []string {
	return slices.Sorted(maps.Keys(m))
}

// Filter returns the models classified exactly as c, in lexical order.
func (m Map) Filter(c coretemp.Classification) []string {
	var models []string
	for model, v := range m {
		if v == c {
			models = append(models, model)
		}
	}
	slices.Sort(models)
	return models
}

// Values converts the map to its mixed-type document form.
func (m Map) Values() map[string]any {
	out := make(map[string]any, len(m))
	for model, c := range m {
		out[model] = c.PlistValue()
	}
	return out
}

func (m Map) clone() Map {
	return maps.Clone(m)
}

// Result represents the outcome of a reconciliation.
type Result struct {
	Map        Map            `json:"models" yaml:"models"`
	Mismatches []Mismatch     `json:"mismatches,omitempty" yaml:"mismatches,omitempty"`
	Provenance provenance.Map `json:"-" yaml:"-"`
	Metadata   Metadata       `json:"metadata" yaml:"metadata"`
}

// Metadata contains metadata about the reconciliation run.
type Metadata struct {
	StartTime utc.Time      `json:"start_time" yaml:"start_time"`
	EndTime   utc.Time      `json:"end_time" yaml:"end_time"`
	Duration  time.Duration `json:"duration" yaml:"duration"`
	Sources   []sources.ID  `json:"sources" yaml:"sources"`
	Strategy  StrategyType  `json:"strategy" yaml:"strategy"`
	Stats     Statistics    `json:"stats" yaml:"stats"`
}

// Statistics counts what the reconciler saw and did.
type Statistics struct {
	RecordsBySource map[sources.ID]int `json:"records_by_source" yaml:"records_by_source"`
	Models          int                `json:"models" yaml:"models"`
	Mismatches      int                `json:"mismatches" yaml:"mismatches"`
	Superseded      int                `json:"superseded" yaml:"superseded"`
	Suppressed      int                `json:"suppressed" yaml:"suppressed"`
}

func newStatistics() Statistics {
	return Statistics{RecordsBySource: make(map[sources.ID]int)}
}

func (s Statistics) clone() Statistics {
	s.RecordsBySource = maps.Clone(s.RecordsBySource)
	return s
}

// Records returns the total number of records observed.
func (s Statistics) Records() int {
	total := 0
	for _, n := range s.RecordsBySource {
		total += n
	}
	return total
}

// HasMismatches returns true if any source disagreed.
func (r *Result) HasMismatches() bool {
	return len(r.Mismatches) > 0
}

// MismatchesFor returns the mismatches reported for one model.
func (r *Result) MismatchesFor(model string) []Mismatch {
	var out []Mismatch
	for _, m := range r.Mismatches {
		if m.Model == model {
			out = append(out, m)
		}
	}
	return out
}
