package sources

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/agentstation/coreoffset/pkg/errors"
)

// ReadFile reads a whole file, mapping a missing path to a NotFoundError.
func ReadFile(fsys afero.Fs, path string) (string, error) {
	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", errors.WrapIO("read", path, errors.NewNotFoundError("file", path))
		}
		return "", errors.WrapIO("read", path, err)
	}
	return string(data), nil
}

// ReadDir lists a directory sorted by name, mapping a missing path to a
// NotFoundError.
func ReadDir(fsys afero.Fs, path string) ([]os.FileInfo, error) {
	infos, err := afero.ReadDir(fsys, path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.WrapIO("read", path, errors.NewNotFoundError("directory", path))
		}
		return nil, errors.WrapIO("read", path, err)
	}
	return infos, nil
}

// Stem drops the last extension from a file name. Names that are nothing
// but an extension (".DS_Store") are returned unchanged.
func Stem(name string) string {
	stem := strings.TrimSuffix(name, filepath.Ext(name))
	if stem == "" {
		return name
	}
	return stem
}
