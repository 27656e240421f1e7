package table

import (
	"testing"
	"time"

	"github.com/agentstation/utc"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/coreoffset/pkg/coretemp"
	"github.com/agentstation/coreoffset/pkg/provenance"
	"github.com/agentstation/coreoffset/pkg/reconciler"
	"github.com/agentstation/coreoffset/pkg/sources"
)

var mismatches = []reconciler.Mismatch{
	{
		Model:      "iMac19,1",
		Was:        coretemp.NoCoreTemperature,
		New:        coretemp.CoreIndex(1),
		Source:     sources.FirmwareID,
		Resolution: provenance.ActionSuperseded,
	},
	{
		Model:      "Macmini8,1",
		Was:        coretemp.CoreIndex(1),
		New:        coretemp.CoreIndex(0),
		Source:     sources.IStatID,
		Resolution: provenance.ActionSuppressed,
	},
}

func TestModelsToTableData(t *testing.T) {
	m := reconciler.Map{
		"iMac19,1":   coretemp.CoreIndex(1),
		"Macmini8,1": coretemp.CoreIndex(1),
		"Mac-AAA":    coretemp.NoCoreTemperature,
	}

	data := ModelsToTableData(m, mismatches)
	assert.Len(t, data.ColumnAlignment, len(data.Headers))

	want := [][]string{
		{"Mac-AAA", "No core temperature", "", "-"},
		{"Macmini8,1", "1", "✓", "1"},
		{"iMac19,1", "1", "✓", "1"},
	}
	if diff := cmp.Diff(want, data.Rows); diff != "" {
		t.Errorf("ModelsToTableData() rows mismatch (-want +got):\n%s", diff)
	}
}

func TestMismatchesToTableData(t *testing.T) {
	data := MismatchesToTableData(mismatches)
	assert.Equal(t, []string{"#", "Model", "Was", "New", "Source", "Resolution"}, data.Headers)
	assert.Equal(t, [][]string{
		{"1", "iMac19,1", "No core temperature", "1", "firmware", "superseded"},
		{"2", "Macmini8,1", "1", "0", "iStat", "suppressed"},
	}, data.Rows)

	assert.Empty(t, MismatchesToTableData(nil).Rows)
}

func TestStatsToTableData(t *testing.T) {
	data := StatsToTableData(reconciler.Metadata{
		Sources:  []sources.ID{sources.DumpID, sources.IStatID},
		Strategy: reconciler.StrategyTypeFirstConfident,
		Duration: 2 * time.Millisecond,
		Stats: reconciler.Statistics{
			RecordsBySource: map[sources.ID]int{sources.DumpID: 3},
			Models:          3,
			Mismatches:      1,
			Suppressed:      1,
		},
	})

	assert.Equal(t, []string{"Records (dump)", "3"}, data.Rows[0])
	assert.Equal(t, []string{"Records (iStat)", "0"}, data.Rows[1])
	assert.Contains(t, data.Rows, []string{"Strategy", "first-confident"})
	assert.Contains(t, data.Rows, []string{"Duration", "2ms"})
}

func TestProvenanceToTableData(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	at := func(d time.Duration) utc.Time { return utc.Time{Time: now.Add(-d)} }
	none := coretemp.NoCoreTemperature
	one := coretemp.CoreIndex(1)

	m := provenance.Map{
		"iMac19,1": {
			{Source: sources.DumpID, Value: none, Action: provenance.ActionInserted, Timestamp: at(2 * time.Hour)},
			{Source: sources.FirmwareID, Value: one, PreviousValue: &none, Action: provenance.ActionSuperseded, Timestamp: at(5 * time.Minute), Reason: "first confident"},
			{Source: sources.IStatID, Value: one, Action: provenance.ActionConfirmed, Timestamp: at(time.Second)},
		},
		"Mac-AAA": {
			{Source: sources.DumpID, Value: one, Action: provenance.ActionInserted, Timestamp: at(30 * 24 * time.Hour)},
		},
	}

	data := ProvenanceToTableData(m, now)
	require.Len(t, data.Rows, 4)

	assert.Equal(t, []string{"Mac-AAA", "→", "1", "-", "dump", "inserted", "2025-01-30 12:00", ""}, data.Rows[0])
	assert.Equal(t, []string{"iMac19,1", "", "No core temperature", "-", "dump", "inserted", "2 hr ago", ""}, data.Rows[1])
	assert.Equal(t, []string{"", "→", "1", "No core temperature", "firmware", "superseded", "5 min ago", "first confident"}, data.Rows[2])
	assert.Equal(t, []string{"", "", "1", "-", "iStat", "confirmed", "just now", ""}, data.Rows[3])
}

func TestFormatTimestamp(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, "-", formatTimestamp(time.Time{}, now))
	assert.Equal(t, "3 days ago", formatTimestamp(now.Add(-72*time.Hour), now))
}
