package coretemp_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/coreoffset/pkg/coretemp"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		text string
		want coretemp.Classification
	}{
		{"upper core 0", "TC0C  [sp78]  (bytes 3a 00)", coretemp.CoreIndex(0)},
		{"lower core 0", "key TC0c found", coretemp.CoreIndex(0)},
		{"upper core 1", "TC1C", coretemp.CoreIndex(1)},
		{"lower core 1", "TC1c", coretemp.CoreIndex(1)},
		{"core 0 beats core 1", "TC1C\nTC0c\n", coretemp.CoreIndex(0)},
		{"none", "TA0P TB0T", coretemp.NoCoreTemperature},
		{"no case folding", "tc0c TC0X tc1C", coretemp.NoCoreTemperature},
		{"empty", "", coretemp.NoCoreTemperature},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, coretemp.Classify(tt.text))
		})
	}
}

func TestClassificationValues(t *testing.T) {
	idx, ok := coretemp.CoreIndex(1).Index()
	assert.True(t, ok)
	assert.Equal(t, uint8(1), idx)

	_, ok = coretemp.NoCoreTemperature.Index()
	assert.False(t, ok)
	assert.True(t, coretemp.NoCoreTemperature.IsNoCoreTemperature())
	assert.True(t, coretemp.Classification{}.IsNoCoreTemperature())

	assert.Equal(t, "0", coretemp.CoreIndex(0).String())
	assert.Equal(t, "No core temperature", coretemp.NoCoreTemperature.String())

	assert.Equal(t, 1, coretemp.CoreIndex(1).PlistValue())
	assert.Equal(t, "No core temperature", coretemp.NoCoreTemperature.PlistValue())

	assert.NotEqual(t, coretemp.CoreIndex(0), coretemp.NoCoreTemperature)
}

func TestParse(t *testing.T) {
	for _, c := range []coretemp.Classification{
		coretemp.CoreIndex(0), coretemp.CoreIndex(1), coretemp.NoCoreTemperature,
	} {
		got, err := coretemp.Parse(c.String())
		require.NoError(t, err)
		assert.Equal(t, c, got)
	}

	_, err := coretemp.Parse("two")
	assert.Error(t, err)

	var c coretemp.Classification
	require.NoError(t, c.UnmarshalText([]byte("1")))
	assert.Equal(t, coretemp.CoreIndex(1), c)
}

func TestAccumulator(t *testing.T) {
	var acc coretemp.Accumulator
	assert.Equal(t, coretemp.NoCoreTemperature, acc.Classification())

	acc.Add("TC1C 42.0")
	assert.Equal(t, coretemp.CoreIndex(1), acc.Classification())

	acc.Add("TC0c 40.0")
	assert.Equal(t, coretemp.CoreIndex(0), acc.Classification())

	acc.Reset()
	assert.Equal(t, coretemp.NoCoreTemperature, acc.Classification())
}
