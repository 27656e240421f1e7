package reconciler

import (
	"fmt"

	"github.com/agentstation/coreoffset/pkg/coretemp"
	"github.com/agentstation/coreoffset/pkg/provenance"
	"github.com/agentstation/coreoffset/pkg/sources"
)

// Mismatch is a soft diagnostic: a source disagreed with the stored value.
type Mismatch struct {
	Model      string                  `json:"model" yaml:"model"`
	Was        coretemp.Classification `json:"was" yaml:"was"`
	New        coretemp.Classification `json:"new" yaml:"new"`
	Source     sources.ID              `json:"source" yaml:"source"`
	Resolution provenance.Action       `json:"resolution" yaml:"resolution"`
}

// String renders the diagnostic line.
func (m Mismatch) String() string {
	return fmt.Sprintf("Value mismatch for %s: was %s, new %s, new source: %s", m.Model, m.Was, m.New, m.Source)
}
