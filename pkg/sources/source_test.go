package sources_test

import (
	"context"
	"iter"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/coreoffset/pkg/constants"
	"github.com/agentstation/coreoffset/pkg/errors"
	"github.com/agentstation/coreoffset/pkg/sources"
)

type stubSource struct{ id sources.ID }

func (s stubSource) ID() sources.ID { return s.id }
func (s stubSource) Fetch(context.Context, afero.Fs) error { return nil }
func (s stubSource) Records() iter.Seq[sources.Record] {
	return func(func(sources.Record) bool) {}
}

func TestIDs(t *testing.T) {
	assert.Equal(t, []sources.ID{"dump", "firmware", "iStat"}, sources.IDs())
	assert.True(t, sources.IStatID.IsValid())
	assert.False(t, sources.ID("istat").IsValid())
	assert.Equal(t, 1, sources.FirmwareID.Order())
	assert.Equal(t, -1, sources.ID("other").Order())
}

func TestSort(t *testing.T) {
	in := []sources.Source{
		stubSource{"other"},
		stubSource{sources.IStatID},
		stubSource{sources.DumpID},
		stubSource{sources.FirmwareID},
	}
	sorted := sources.Sort(in)

	var got []sources.ID
	for _, s := range sorted {
		got = append(got, s.ID())
	}
	assert.Equal(t, []sources.ID{"dump", "firmware", "iStat", "other"}, got)
	assert.Equal(t, sources.ID("other"), in[0].ID(), "input must not be reordered")
}

func TestStem(t *testing.T) {
	tests := map[string]string{
		"Mac-ABC123.txt":     "Mac-ABC123",
		"MacBookPro15,1.txt": "MacBookPro15,1",
		"iMac19,1":           "iMac19,1",
		"archive.tar.gz":     "archive.tar",
		".DS_Store":          ".DS_Store",
	}
	for in, want := range tests {
		assert.Equal(t, want, sources.Stem(in), in)
	}
}

func TestReadHelpers(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "docs/a.txt", []byte("hello"), constants.FilePermissions))

	content, err := sources.ReadFile(fsys, "docs/a.txt")
	require.NoError(t, err)
	assert.Equal(t, "hello", content)

	_, err = sources.ReadFile(fsys, "docs/missing.txt")
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))

	infos, err := sources.ReadDir(fsys, "docs")
	require.NoError(t, err)
	require.Len(t, infos, 1)
	assert.Equal(t, "a.txt", infos[0].Name())

	_, err = sources.ReadDir(fsys, "nope")
	assert.True(t, errors.IsNotFound(err))
}
