// Package tree implements the virtual tree schematics mutate.
//
// A Tree layers an in-memory staging filesystem over a base filesystem
// (the project on disk, or a memfs in tests). Reads fall through to the
// base; writes only ever touch the staging layer until Commit flushes the
// net changes to the base in one transaction.
package tree

import (
	"errors"
	"fmt"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
)

var (
	// ErrExists is returned by Create when the path already holds a file.
	ErrExists = errors.New("path already exists")
	// ErrNotFound is returned by Overwrite when the path holds no file.
	ErrNotFound = errors.New("path does not exist")
)

type recordKind int

const (
	recordFile recordKind = iota
	recordDir
)

type record struct {
	kind recordKind
	path string
}

// Tree is a staging buffer over a base filesystem.
type Tree struct {
	base    billy.Filesystem
	stage   billy.Filesystem
	records []record
	seen    map[string]bool
}

// New creates a tree over base. The base is never written until Commit.
func New(base billy.Filesystem) *Tree {
	return &Tree{
		base:  base,
		stage: memfs.New(),
		seen:  make(map[string]bool),
	}
}

// Empty creates a tree over an empty in-memory base.
func Empty() *Tree {
	return New(memfs.New())
}

// Base returns the filesystem the tree commits to.
func (t *Tree) Base() billy.Filesystem {
	return t.base
}

// Normalize converts p to the tree's canonical form: forward slashes,
// cleaned, without a leading slash. The root is "".
func Normalize(p string) string {
	p = strings.ReplaceAll(p, "\\", "/")
	p = strings.TrimPrefix(path.Clean("/"+p), "/")
	return p
}

// Join joins path elements and normalizes the result.
func Join(elem ...string) string {
	return Normalize(path.Join(elem...))
}

func isFile(fs billy.Filesystem, p string) bool {
	info, err := fs.Stat(p)
	return err == nil && !info.IsDir()
}

func isDir(fs billy.Filesystem, p string) bool {
	if p == "" {
		return true
	}
	info, err := fs.Stat(p)
	return err == nil && info.IsDir()
}

// Exists reports whether a file (not a directory) exists at p.
func (t *Tree) Exists(p string) bool {
	p = Normalize(p)
	if p == "" {
		return false
	}
	return isFile(t.stage, p) || isFile(t.base, p)
}

// DirExists reports whether p is a directory in the tree, either on the
// base or created (explicitly or as a parent) by staged changes.
func (t *Tree) DirExists(p string) bool {
	p = Normalize(p)
	return isDir(t.stage, p) || isDir(t.base, p)
}

// Read returns the content at p, preferring staged content.
func (t *Tree) Read(p string) ([]byte, bool) {
	p = Normalize(p)
	if p == "" {
		return nil, false
	}
	if isFile(t.stage, p) {
		b, err := util.ReadFile(t.stage, p)
		return b, err == nil
	}
	if isFile(t.base, p) {
		b, err := util.ReadFile(t.base, p)
		return b, err == nil
	}
	return nil, false
}

// Create stages a new file. It fails with ErrExists if p already holds a file.
func (t *Tree) Create(p string, content []byte) error {
	p = Normalize(p)
	if t.Exists(p) {
		return fmt.Errorf("create %s: %w", p, ErrExists)
	}
	return t.write(p, content)
}

// Overwrite replaces the content of an existing file. It fails with
// ErrNotFound if p holds no file.
func (t *Tree) Overwrite(p string, content []byte) error {
	p = Normalize(p)
	if !t.Exists(p) {
		return fmt.Errorf("overwrite %s: %w", p, ErrNotFound)
	}
	return t.write(p, content)
}

func (t *Tree) write(p string, content []byte) error {
	if p == "" {
		return fmt.Errorf("write: empty path")
	}
	if t.DirExists(p) {
		return fmt.Errorf("write %s: is a directory", p)
	}
	if dir := path.Dir(p); dir != "." {
		if err := t.stage.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("stage %s: %w", dir, err)
		}
	}
	if content == nil {
		content = []byte{}
	}
	if err := util.WriteFile(t.stage, p, content, 0644); err != nil {
		return fmt.Errorf("stage %s: %w", p, err)
	}
	t.remember(recordFile, p)
	return nil
}

// MkdirAll ensures p exists as a directory. It is a no-op if it already does.
func (t *Tree) MkdirAll(p string) error {
	p = Normalize(p)
	if t.DirExists(p) {
		return nil
	}
	for dir := p; dir != "." && dir != ""; dir = path.Dir(dir) {
		if t.Exists(dir) {
			return fmt.Errorf("mkdir %s: %s is a file", p, dir)
		}
	}
	if err := t.stage.MkdirAll(p, 0755); err != nil {
		return fmt.Errorf("mkdir %s: %w", p, err)
	}
	t.remember(recordDir, p)
	return nil
}

func (t *Tree) remember(kind recordKind, p string) {
	if t.seen[p] {
		return
	}
	t.seen[p] = true
	t.records = append(t.records, record{kind: kind, path: p})
}

// Dir lists the direct children of a directory.
type Dir struct {
	Path     string
	Subfiles []string
	Subdirs  []string
}

// GetDir returns the merged listing of p across staged and base content.
// A missing directory yields an empty listing.
func (t *Tree) GetDir(p string) Dir {
	p = Normalize(p)
	files := map[string]bool{}
	dirs := map[string]bool{}

	for _, fs := range []billy.Filesystem{t.base, t.stage} {
		dir := p
		if dir == "" {
			dir = "."
		}
		entries, err := fs.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, e := range entries {
			if e.IsDir() {
				dirs[e.Name()] = true
			} else {
				files[e.Name()] = true
			}
		}
	}

	return Dir{Path: p, Subfiles: sortedKeys(files), Subdirs: sortedKeys(dirs)}
}

// Files returns every file path in the tree, sorted.
func (t *Tree) Files() []string {
	all := map[string]bool{}
	for _, fs := range []billy.Filesystem{t.base, t.stage} {
		_ = util.Walk(fs, "/", func(p string, info os.FileInfo, err error) error {
			if err != nil {
				return nil
			}
			if !info.IsDir() {
				all[Normalize(p)] = true
			}
			return nil
		})
	}
	return sortedKeys(all)
}

func sortedKeys(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
