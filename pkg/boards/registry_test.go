package boards_test

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/coreoffset/pkg/boards"
	"github.com/agentstation/coreoffset/pkg/constants"
	"github.com/agentstation/coreoffset/pkg/errors"
)

const table = `Mac-ABC123 MacBookPro15,1 Mid 2018
Mac-DEF456	iMac19,1

lonely-token
Mac-ABC123 MacBookPro15,2
`

func TestParse(t *testing.T) {
	r := boards.Parse(table)

	assert.Equal(t, 2, r.Len())
	assert.Equal(t, "MacBookPro15,2", r.Resolve("Mac-ABC123"), "later duplicates overwrite")
	assert.Equal(t, "iMac19,1", r.Resolve("Mac-DEF456"), "tabs are whitespace too")

	_, ok := r.Lookup("lonely-token")
	assert.False(t, ok, "short lines are skipped")
}

func TestResolveFallback(t *testing.T) {
	r := boards.Parse(table)
	assert.Equal(t, "Mac-UNKNOWN", r.Resolve("Mac-UNKNOWN"))
	assert.Equal(t, "", r.Resolve(""))

	var nilRegistry *boards.Registry
	assert.Equal(t, "Mac-ABC123", nilRegistry.Resolve("Mac-ABC123"))
	assert.Equal(t, 0, nilRegistry.Len())
}

func TestAllReturnsCopy(t *testing.T) {
	r := boards.Parse("a b\n")
	all := r.All()
	all["a"] = "mutated"
	assert.Equal(t, "b", r.Resolve("a"))
}

func TestLoad(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, constants.ModelsFile, []byte(table), constants.FilePermissions))

	r, err := boards.Load(fsys, constants.ModelsFile)
	require.NoError(t, err)
	assert.Equal(t, "iMac19,1", r.Resolve("Mac-DEF456"))

	_, err = boards.Load(afero.NewMemMapFs(), constants.ModelsFile)
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
}
