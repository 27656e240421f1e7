package dumps_test

import (
	"context"
	"slices"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/coreoffset/internal/sources/dumps"
	"github.com/agentstation/coreoffset/pkg/constants"
	"github.com/agentstation/coreoffset/pkg/coretemp"
	"github.com/agentstation/coreoffset/pkg/errors"
	"github.com/agentstation/coreoffset/pkg/sources"
)

func write(t *testing.T, fsys afero.Fs, name, content string) {
	t.Helper()
	require.NoError(t, afero.WriteFile(fsys, name, []byte(content), constants.FilePermissions))
}

func TestExtract(t *testing.T) {
	rec := dumps.Extract("Mac-ABC123.txt", "TC0C  [sp78]")
	assert.Equal(t, sources.Record{
		Model:          "Mac-ABC123",
		Classification: coretemp.CoreIndex(0),
		Source:         sources.DumpID,
	}, rec)
}

func TestSourceRecords(t *testing.T) {
	fsys := afero.NewMemMapFs()
	write(t, fsys, "SMCDumps/MacBookPro15,1.txt", "TC1c 44.0\nTA0P")
	write(t, fsys, "SMCDumps/iMac19,1.txt", "TA0P TB0T")
	write(t, fsys, "SMCDumps/Macmini8,1", "TC0c\nTC1C")
	require.NoError(t, fsys.MkdirAll("SMCDumps/nested", constants.DirPermissions))

	src := dumps.New()
	assert.Equal(t, sources.DumpID, src.ID())
	require.NoError(t, src.Fetch(context.Background(), fsys))

	got := slices.Collect(src.Records())
	require.Len(t, got, 3)

	byModel := map[string]coretemp.Classification{}
	for _, rec := range got {
		assert.Equal(t, sources.DumpID, rec.Source)
		byModel[rec.Model] = rec.Classification
	}
	assert.Equal(t, map[string]coretemp.Classification{
		"MacBookPro15,1": coretemp.CoreIndex(1),
		"iMac19,1":       coretemp.NoCoreTemperature,
		"Macmini8,1":     coretemp.CoreIndex(0),
	}, byModel)
}

func TestRecordsStopsEarly(t *testing.T) {
	fsys := afero.NewMemMapFs()
	write(t, fsys, "SMCDumps/a.txt", "TC0C")
	write(t, fsys, "SMCDumps/b.txt", "TC0C")

	src := dumps.New()
	require.NoError(t, src.Fetch(context.Background(), fsys))

	count := 0
	for range src.Records() {
		count++
		break
	}
	assert.Equal(t, 1, count)
}

func TestFetchMissingDir(t *testing.T) {
	src := dumps.New(dumps.WithDir("Elsewhere"))
	err := src.Fetch(context.Background(), afero.NewMemMapFs())
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
}

func TestFetchCanceled(t *testing.T) {
	fsys := afero.NewMemMapFs()
	write(t, fsys, "SMCDumps/a.txt", "TC0C")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := dumps.New().Fetch(ctx, fsys)
	assert.True(t, errors.IsCanceled(err))
}
