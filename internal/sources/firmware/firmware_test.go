package firmware_test

import (
	"context"
	"slices"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/coreoffset/internal/sources/firmware"
	"github.com/agentstation/coreoffset/pkg/boards"
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
	registry := boards.Parse("Mac-ABC123 MacBookPro15,1\n")

	rec := firmware.Extract(registry, "Mac-ABC123", "TC1c")
	assert.Equal(t, "MacBookPro15,1", rec.Model)
	assert.Equal(t, coretemp.CoreIndex(1), rec.Classification)
	assert.Equal(t, sources.FirmwareID, rec.Source)

	rec = firmware.Extract(registry, "Mac-ABC123.bundle", "")
	assert.Equal(t, "MacBookPro15,1", rec.Model, "extension stripped before lookup")
	assert.Equal(t, coretemp.NoCoreTemperature, rec.Classification)

	rec = firmware.Extract(registry, "Mac-UNKNOWN", "TC0C")
	assert.Equal(t, "Mac-UNKNOWN", rec.Model, "unresolved boards keep the raw id")

	rec = firmware.Extract(nil, "Mac-ABC123", "TC0C")
	assert.Equal(t, "Mac-ABC123", rec.Model)
}

func TestSourceRecords(t *testing.T) {
	fsys := afero.NewMemMapFs()
	write(t, fsys, "SMCDatabase/Mac-ABC123/main.txt", "TC1c")
	write(t, fsys, "SMCDatabase/Mac-DEF456/main.txt", "TC0C TC1C")
	write(t, fsys, "SMCDatabase/Mac-DEF456/other.txt", "ignored")
	write(t, fsys, "SMCDatabase/README", "not a board")

	registry := boards.Parse("Mac-ABC123 MacBookPro15,1\nMac-DEF456 iMac19,1\n")
	src := firmware.New(registry)
	assert.Equal(t, sources.FirmwareID, src.ID())
	require.NoError(t, src.Fetch(context.Background(), fsys))

	got := slices.Collect(src.Records())
	assert.Equal(t, []sources.Record{
		{Model: "MacBookPro15,1", Classification: coretemp.CoreIndex(1), Source: sources.FirmwareID},
		{Model: "iMac19,1", Classification: coretemp.CoreIndex(0), Source: sources.FirmwareID},
	}, got)
}

func TestFetchMissingContentFile(t *testing.T) {
	fsys := afero.NewMemMapFs()
	write(t, fsys, "SMCDatabase/Mac-ABC123/other.txt", "TC1c")

	err := firmware.New(nil).Fetch(context.Background(), fsys)
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
	assert.Contains(t, err.Error(), "main.txt")
}

func TestCustomLayout(t *testing.T) {
	fsys := afero.NewMemMapFs()
	write(t, fsys, "db/Mac-1/keys.txt", "TC0c")

	src := firmware.New(nil, firmware.WithDir("db"), firmware.WithFile("keys.txt"))
	require.NoError(t, src.Fetch(context.Background(), fsys))

	got := slices.Collect(src.Records())
	require.Len(t, got, 1)
	assert.Equal(t, "Mac-1", got[0].Model)
}
