package table

import (
	"fmt"
	"slices"
	"time"

	"github.com/agentstation/coreoffset/pkg/provenance"
)

// ProvenanceToTableData converts provenance history to table format.
// Each model's observations are listed in the order they were applied;
// the arrow marks the observation that set the final value.
func ProvenanceToTableData(m provenance.Map, now time.Time) Data {
	var rows [][]string

	for _, model := range m.Models() {
		history := m[model]
		if len(history) == 0 {
			continue
		}
		current := decisive(history)

		for i, entry := range history {
			modelName := ""
			if i == 0 {
				modelName = model
			}

			currentIndicator := ""
			if i == current {
				currentIndicator = "→"
			}

			previous := "-"
			if entry.PreviousValue != nil {
				previous = entry.PreviousValue.String()
			}

			rows = append(rows, []string{
				modelName,
				currentIndicator,
				entry.Value.String(),
				previous,
				entry.Source.String(),
				entry.Action.String(),
				formatTimestamp(entry.Timestamp.Time, now),
				entry.Reason,
			})
		}
	}

	return Data{
		Headers: []string{"Model", "Curr", "Value", "Previous", "Source", "Action", "When", "Reason"},
		Rows:    rows,
		ColumnAlignment: []Align{
			AlignLeft,   // Model
			AlignCenter, // Curr
			AlignLeft,   // Value
			AlignLeft,   // Previous
			AlignLeft,   // Source
			AlignLeft,   // Action
			AlignLeft,   // When
			AlignLeft,   // Reason
		},
	}
}

// decisive returns the index of the last entry that set the stored value.
func decisive(history []provenance.Provenance) int {
	idx := slices.IndexFunc(history, func(p provenance.Provenance) bool {
		return p.Action == provenance.ActionInserted
	})
	for i, p := range history {
		if p.Action == provenance.ActionSuperseded {
			idx = i
		}
	}
	return idx
}

// formatTimestamp formats a timestamp relative to now.
func formatTimestamp(t, now time.Time) string {
	if t.IsZero() {
		return "-"
	}

	diff := now.Sub(t)

	if diff < time.Minute {
		return "just now"
	}
	if diff < time.Hour {
		return fmt.Sprintf("%d min ago", int(diff.Minutes()))
	}
	if diff < 24*time.Hour {
		return fmt.Sprintf("%d hr ago", int(diff.Hours()))
	}
	if diff < 7*24*time.Hour {
		return fmt.Sprintf("%d days ago", int(diff.Hours()/24))
	}

	return t.Format("2006-01-02 15:04")
}
