package generator

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
)

// ErrConflict is returned when a create-only operation finds an existing file.
var ErrConflict = errors.New("file already exists")

// Operation represents a file system operation that can be validated and executed.
//
// Validate checks whether the operation would succeed without executing it.
// force=true skips conflict checks.
//
// Description returns a human-readable line for output, e.g.
// "Create src/app/core/core.ts (1843 bytes)".
type Operation interface {
	Validate(ctx context.Context, force bool) error
	Execute(ctx context.Context) error
	Description() string
}

// Undoer is implemented by operations that can revert their own effect.
// Transactions call Undo in reverse order after a failure.
type Undoer interface {
	Undo(ctx context.Context) error
}

// WriteFileOp writes Content to Path.
//
// A create-only op (Overwrite=false) fails validation when the file already
// exists. Overwrite ops expect the file may exist and replace it. Execute
// remembers the previous content so Undo can restore it.
type WriteFileOp struct {
	FS        billy.Filesystem
	Path      string
	Content   []byte
	Mode      fs.FileMode
	Overwrite bool

	existed  bool
	previous []byte
	written  bool
}

func (op *WriteFileOp) Validate(ctx context.Context, force bool) error {
	if op.Content == nil {
		return fmt.Errorf("content is nil for file: %s", op.Path)
	}

	info, err := op.FS.Stat(op.Path)
	switch {
	case err == nil && info.IsDir():
		return fmt.Errorf("cannot write %s: is a directory", op.Path)
	case err == nil && !op.Overwrite && !force:
		return fmt.Errorf("%w: %s", ErrConflict, op.Path)
	case err != nil && !os.IsNotExist(err):
		return fmt.Errorf("cannot stat %s: %w", op.Path, err)
	}

	return nil
}

func (op *WriteFileOp) Execute(ctx context.Context) error {
	if prev, err := util.ReadFile(op.FS, op.Path); err == nil {
		op.existed = true
		op.previous = prev
	}

	if dir := path.Dir(op.Path); dir != "." {
		if err := op.FS.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("cannot create directory %s: %w", dir, err)
		}
	}

	mode := op.Mode
	if mode == 0 {
		mode = 0644
	}
	if err := util.WriteFile(op.FS, op.Path, op.Content, mode); err != nil {
		return fmt.Errorf("cannot write %s: %w", op.Path, err)
	}
	op.written = true
	return nil
}

func (op *WriteFileOp) Undo(ctx context.Context) error {
	if !op.written {
		return nil
	}
	op.written = false
	if op.existed {
		return util.WriteFile(op.FS, op.Path, op.previous, 0644)
	}
	return op.FS.Remove(op.Path)
}

func (op *WriteFileOp) Description() string {
	verb := "Create"
	if op.Overwrite {
		verb = "Update"
	}
	return fmt.Sprintf("%s %s (%d bytes)", verb, op.Path, len(op.Content))
}

// MkdirOp creates a directory (and its parents) if it does not exist.
type MkdirOp struct {
	FS   billy.Filesystem
	Path string

	created bool
}

func (op *MkdirOp) Validate(ctx context.Context, force bool) error {
	info, err := op.FS.Stat(op.Path)
	if err == nil && !info.IsDir() {
		return fmt.Errorf("cannot create directory %s: a file exists at that path", op.Path)
	}
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("cannot stat %s: %w", op.Path, err)
	}
	return nil
}

func (op *MkdirOp) Execute(ctx context.Context) error {
	if _, err := op.FS.Stat(op.Path); err == nil {
		return nil
	}
	if err := op.FS.MkdirAll(op.Path, 0755); err != nil {
		return fmt.Errorf("cannot create directory %s: %w", op.Path, err)
	}
	op.created = true
	return nil
}

func (op *MkdirOp) Undo(ctx context.Context) error {
	if !op.created {
		return nil
	}
	op.created = false
	// Best effort: only succeeds while the directory is still empty.
	_ = op.FS.Remove(op.Path)
	return nil
}

func (op *MkdirOp) Description() string {
	return fmt.Sprintf("Create %s/", op.Path)
}
