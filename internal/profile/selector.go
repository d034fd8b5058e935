package profile

import (
	"os"
	"path/filepath"
	"strings"

	"codeberg.org/mutker/ledmatrixctl/internal/errors"
)

// DefaultFileName is the selector file kept in the user's home directory.
const DefaultFileName = ".ledmatrix-profile"

// Selector yields the raw, unvalidated profile value chosen by the operator.
type Selector interface {
	Read() (string, error)
}

// FileSelector reads the profile name from a plain text file.
type FileSelector struct {
	path string
}

func NewFileSelector(path string) *FileSelector {
	return &FileSelector{path: path}
}

// DefaultPath returns ~/.ledmatrix-profile for the current user.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.New().Wrap(errors.ErrSelectorRead, err)
	}

	return filepath.Join(home, DefaultFileName), nil
}

func (f *FileSelector) Path() string {
	return f.path
}

// Read returns the normalized file contents.
func (f *FileSelector) Read() (string, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return "", errors.New().Wrap(errors.ErrSelectorRead, err)
	}

	return Normalize(string(data)), nil
}

// Write stores n, replacing the file in one rename so the monitor never
// reads a partially written value.
func (f *FileSelector) Write(n Name) error {
	errFactory := errors.New()
	if !n.Valid() {
		return errFactory.WithData(errors.ErrUnknownProfile, string(n))
	}

	dir := filepath.Dir(f.path)
	tmp, err := os.CreateTemp(dir, "."+strings.TrimPrefix(filepath.Base(f.path), ".")+".*")
	if err != nil {
		return errFactory.Wrap(errors.ErrSelectorWrite, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.WriteString(string(n) + "\n"); err != nil {
		tmp.Close()
		return errFactory.Wrap(errors.ErrSelectorWrite, err)
	}
	if err := tmp.Close(); err != nil {
		return errFactory.Wrap(errors.ErrSelectorWrite, err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return errFactory.Wrap(errors.ErrSelectorWrite, err)
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return errFactory.Wrap(errors.ErrSelectorWrite, err)
	}

	return nil
}
