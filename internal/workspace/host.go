package workspace

import (
	"fmt"

	"github.com/simonhull/roost/internal/tree"
)

// Host is the file access the workspace reader needs. It lets the reader
// work against the virtual tree instead of the disk.
type Host interface {
	ReadFile(path string) ([]byte, error)
	WriteFile(path string, data []byte) error
	IsFile(path string) bool
	IsDirectory(path string) bool
}

type treeHost struct {
	t *tree.Tree
}

// NewHost adapts a virtual tree to Host. Writes go to the tree's stage.
func NewHost(t *tree.Tree) Host {
	return treeHost{t: t}
}

func (h treeHost) ReadFile(path string) ([]byte, error) {
	data, ok := h.t.Read(path)
	if !ok {
		return nil, fmt.Errorf("%s: %w", tree.Normalize(path), ErrNotFound)
	}
	return data, nil
}

func (h treeHost) WriteFile(path string, data []byte) error {
	if h.t.Exists(path) {
		return h.t.Overwrite(path, data)
	}
	return h.t.Create(path, data)
}

func (h treeHost) IsFile(path string) bool {
	return h.t.Exists(path)
}

func (h treeHost) IsDirectory(path string) bool {
	return h.t.DirExists(path)
}
