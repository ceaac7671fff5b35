package filestore

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

var (
	ErrEmptyFilename = errors.New("filename must not be empty")
	ErrFileExists    = errors.New("file already exists")
	ErrFileNotFound  = errors.New("file does not exist")
)

// Manager exposes a flat upload directory: list, save, open, delete.
// Filenames are single path components; anything else is rejected.
type Manager struct {
	dir string
}

func NewManager(dir string) (*Manager, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create file storage directory: %w", err)
	}
	return &Manager{dir: dir}, nil
}

func validateFilename(name string) error {
	if name == "" {
		return ErrEmptyFilename
	}
	if name != filepath.Base(name) || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("invalid filename: %q", name)
	}
	return nil
}

// List returns the stored filenames, sorted.
func (m *Manager) List() ([]string, error) {
	entries, err := os.ReadDir(m.dir)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// Save stores an uploaded file. It refuses empty names and never overwrites
// an existing file.
func (m *Manager) Save(name string, r io.Reader) error {
	if err := validateFilename(name); err != nil {
		return err
	}

	path := filepath.Join(m.dir, name)
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return ErrFileExists
		}
		return err
	}

	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	return f.Close()
}

// Open returns a reader over a stored file. The caller closes it.
func (m *Manager) Open(name string) (io.ReadCloser, error) {
	if err := validateFilename(name); err != nil {
		return nil, err
	}

	f, err := os.Open(filepath.Join(m.dir, name))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrFileNotFound
		}
		return nil, err
	}
	return f, nil
}

// Delete removes a stored file. It reports false if the file was absent.
func (m *Manager) Delete(name string) (bool, error) {
	if err := validateFilename(name); err != nil {
		return false, err
	}

	if err := os.Remove(filepath.Join(m.dir, name)); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
