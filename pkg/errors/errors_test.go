package errors_test

import (
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/agentstation/coreoffset/pkg/errors"
)

func TestNew(t *testing.T) {
	err := pkgerrors.New("test error")
	assert.NotNil(t, err)
	assert.Equal(t, "test error", err.Error())
}

func TestNotFoundError(t *testing.T) {
	t.Run("basic error", func(t *testing.T) {
		err := &pkgerrors.NotFoundError{
			Resource: "directory",
			ID:       "SMCDumps",
		}
		assert.Equal(t, "directory SMCDumps not found", err.Error())
		assert.True(t, errors.Is(err, pkgerrors.ErrNotFound))
	})

	t.Run("wrapped in IO error", func(t *testing.T) {
		base := pkgerrors.NewNotFoundError("file", "iStat.txt")
		wrapped := pkgerrors.WrapIO("read", "iStat.txt", base)
		assert.True(t, pkgerrors.IsNotFound(wrapped))

		var ioErr *pkgerrors.IOError
		require.True(t, errors.As(wrapped, &ioErr))
		assert.Equal(t, "read", ioErr.Operation)
		assert.Equal(t, "iStat.txt", ioErr.Path)
	})
}

func TestValidationError(t *testing.T) {
	t.Run("with field", func(t *testing.T) {
		err := &pkgerrors.ValidationError{
			Field:   "docs_dir",
			Message: "cannot be empty",
		}
		assert.Equal(t, "validation failed for field docs_dir: cannot be empty", err.Error())
		assert.True(t, pkgerrors.IsValidationError(err))
	})

	t.Run("without field", func(t *testing.T) {
		err := &pkgerrors.ValidationError{Message: "invalid configuration"}
		assert.Equal(t, "validation failed: invalid configuration", err.Error())
	})

	t.Run("wrap nil", func(t *testing.T) {
		assert.NoError(t, pkgerrors.WrapValidation("x", nil))
	})
}

func TestIOError(t *testing.T) {
	err := pkgerrors.NewIOError("read", "/docs/MacModels.txt", os.ErrPermission)
	assert.Contains(t, err.Error(), "IO error during read of /docs/MacModels.txt")
	assert.ErrorIs(t, err, os.ErrPermission)

	noPath := &pkgerrors.IOError{Operation: "stat", Message: "boom"}
	assert.Equal(t, "IO error during stat: boom", noPath.Error())
}

func TestEncodeError(t *testing.T) {
	cause := fmt.Errorf("unsupported type")
	err := pkgerrors.WrapEncode("plist", cause)
	require.Error(t, err)
	assert.Equal(t, "failed to encode plist: unsupported type", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.NoError(t, pkgerrors.WrapEncode("plist", nil))

	var encErr *pkgerrors.EncodeError
	require.True(t, errors.As(err, &encErr))
	assert.Equal(t, "plist", encErr.Format)
}

func TestResourceError(t *testing.T) {
	err := pkgerrors.WrapResource("extract", "source", "firmware", errors.New("bad"))
	assert.Equal(t, "failed to extract source firmware: bad", err.Error())

	var resErr *pkgerrors.ResourceError
	require.True(t, errors.As(err, &resErr))
	assert.Equal(t, "extract", resErr.Operation)
	assert.Equal(t, "firmware", resErr.ID)
	assert.NoError(t, pkgerrors.WrapResource("load", "registry", "", nil))

	err = pkgerrors.WrapResource("load", "config", "", errors.New("bad"))
	assert.Equal(t, "failed to load config: bad", err.Error())
}

func TestParseError(t *testing.T) {
	err := &pkgerrors.ParseError{Format: "yaml", File: "c.yaml", Line: 3, Message: "bad indent"}
	assert.Equal(t, "parse error in yaml at c.yaml:3: bad indent", err.Error())

	err = pkgerrors.NewParseError("yaml", "c.yaml", "bad", nil)
	assert.Equal(t, "parse error in yaml file c.yaml: bad", err.Error())
}

func TestReadOnly(t *testing.T) {
	err := fmt.Errorf("observe after freeze: %w", pkgerrors.ErrReadOnly)
	assert.True(t, pkgerrors.IsReadOnly(err))
	assert.False(t, pkgerrors.IsNotFound(err))
}
