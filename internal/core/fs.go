package core

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/agent-board/backend/internal/dto"
)

// DirEntry is one row of list_directory, describing a single child of a
// listed path.
type DirEntry struct {
	Name  string `json:"name"`
	Path  string `json:"path"`
	IsDir bool   `json:"is_dir"`
}

// ListDirectory lists the immediate children of path, directories first,
// both groups sorted by name. Used by the project-creation directory picker.
func (c *Core) ListDirectory(path string) ([]DirEntry, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, dto.NotFound("directory")
		}
		return nil, dto.InternalError("read directory").Wrap(err)
	}
	out := make([]DirEntry, 0, len(entries))
	for _, e := range entries {
		out = append(out, DirEntry{Name: e.Name(), Path: filepath.Join(path, e.Name()), IsDir: e.IsDir()})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].IsDir != out[j].IsDir {
			return out[i].IsDir
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

// GetParentDirectory returns the parent of path, or path unchanged if it is
// already a filesystem root.
func (c *Core) GetParentDirectory(path string) string {
	parent := filepath.Dir(path)
	return parent
}

// GetHomeDirectory returns the current user's home directory.
func (c *Core) GetHomeDirectory() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", dto.InternalError("resolve home directory").Wrap(err)
	}
	return home, nil
}

// CreateProjectDirectory creates a new directory named name under parent,
// for the "create a new repo here" project-creation flow.
func (c *Core) CreateProjectDirectory(parent, name string) (string, error) {
	dest := filepath.Join(parent, name)
	if _, err := os.Stat(dest); err == nil {
		return "", dto.Conflict("directory already exists")
	}
	if err := os.MkdirAll(dest, 0o750); err != nil {
		return "", dto.InternalError("create directory").Wrap(err)
	}
	return dest, nil
}
