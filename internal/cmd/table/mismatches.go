package table

import (
	"strconv"

	"github.com/agentstation/coreoffset/pkg/reconciler"
)

// MismatchesToTableData converts mismatches to table format, in the order
// they were observed.
func MismatchesToTableData(mismatches []reconciler.Mismatch) Data {
	rows := make([][]string, 0, len(mismatches))
	for i, m := range mismatches {
		rows = append(rows, []string{
			itoa(i + 1),
			m.Model,
			m.Was.String(),
			m.New.String(),
			m.Source.String(),
			m.Resolution.String(),
		})
	}

	return Data{
		Headers: []string{"#", "Model", "Was", "New", "Source", "Resolution"},
		Rows:    rows,
		ColumnAlignment: []Align{
			AlignRight, // #
			AlignLeft,  // Model
			AlignLeft,  // Was
			AlignLeft,  // New
			AlignLeft,  // Source
			AlignLeft,  // Resolution
		},
	}
}

// StatsToTableData summarizes a run as a key-value table.
func StatsToTableData(meta reconciler.Metadata) Data {
	rows := [][]string{}
	for _, id := range meta.Sources {
		rows = append(rows, []string{"Records (" + id.String() + ")", itoa(meta.Stats.RecordsBySource[id])})
	}
	rows = append(rows,
		[]string{"Models", itoa(meta.Stats.Models)},
		[]string{"Mismatches", itoa(meta.Stats.Mismatches)},
		[]string{"Superseded", itoa(meta.Stats.Superseded)},
		[]string{"Suppressed", itoa(meta.Stats.Suppressed)},
		[]string{"Strategy", meta.Strategy.String()},
		[]string{"Duration", meta.Duration.String()},
	)

	return Data{
		Headers:         []string{"Property", "Value"},
		Rows:            rows,
		ColumnAlignment: []Align{AlignLeft, AlignRight},
	}
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
