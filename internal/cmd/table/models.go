package table

import (
	"github.com/agentstation/coreoffset/pkg/coretemp"
	"github.com/agentstation/coreoffset/pkg/reconciler"
)

// ModelsToTableData lists every model of the map with its classification.
// Models that end up in the one-indexed array are marked.
func ModelsToTableData(m reconciler.Map, mismatches []reconciler.Mismatch) Data {
	conflicted := make(map[string]int, len(mismatches))
	for _, mm := range mismatches {
		conflicted[mm.Model]++
	}

	rows := make([][]string, 0, m.Len())
	for _, model := range m.Models() {
		c, _ := m.Get(model)

		oneIndexed := ""
		if c == coretemp.CoreIndex(1) {
			oneIndexed = "✓"
		}

		conflicts := "-"
		if n := conflicted[model]; n > 0 {
			conflicts = itoa(n)
		}

		rows = append(rows, []string{model, c.String(), oneIndexed, conflicts})
	}

	return Data{
		Headers: []string{"Model", "Core Key", "One-Indexed", "Conflicts"},
		Rows:    rows,
		ColumnAlignment: []Align{
			AlignLeft,   // Model
			AlignLeft,   // Core Key
			AlignCenter, // One-Indexed
			AlignRight,  // Conflicts
		},
	}
}
