package schematic

import (
	"fmt"

	"github.com/simonhull/roost/internal/tree"
)

// Marker is the placeholder file that keeps empty directories in git.
const Marker = ".gitkeep"

// EnsureDir creates p if it is missing and, when withMarker is set, adds
// an empty marker file unless one is already there.
func EnsureDir(t *tree.Tree, p string, withMarker bool) error {
	if !t.DirExists(p) {
		if err := t.MkdirAll(p); err != nil {
			return fmt.Errorf("ensure %s: %w", tree.Normalize(p), err)
		}
	}
	if !withMarker {
		return nil
	}
	return EmitIfAbsent(t, tree.Join(p, Marker), nil)
}

// EnsureDirs runs EnsureDir for every path.
func EnsureDirs(t *tree.Tree, withMarker bool, paths ...string) error {
	for _, p := range paths {
		if err := EnsureDir(t, p, withMarker); err != nil {
			return err
		}
	}
	return nil
}

// EmitIfAbsent creates p with content. An existing file is left untouched.
func EmitIfAbsent(t *tree.Tree, p string, content []byte) error {
	if t.Exists(p) {
		return nil
	}
	if err := t.Create(p, content); err != nil {
		return fmt.Errorf("create %s: %w", tree.Normalize(p), err)
	}
	return nil
}

// Overwrite replaces p with content, creating it when absent. Use it only
// for files roost owns outright.
func Overwrite(t *tree.Tree, p string, content []byte) error {
	var err error
	if t.Exists(p) {
		err = t.Overwrite(p, content)
	} else {
		err = t.Create(p, content)
	}
	if err != nil {
		return fmt.Errorf("overwrite %s: %w", tree.Normalize(p), err)
	}
	return nil
}

// OverwriteIfPresent replaces p only when it already exists.
func OverwriteIfPresent(t *tree.Tree, p string, content []byte) error {
	if !t.Exists(p) {
		return nil
	}
	return Overwrite(t, p, content)
}
