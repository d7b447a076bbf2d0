package tree

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"

	"github.com/simonhull/roost/internal/generator"
)

// CommitOptions configures how staged changes reach the base filesystem.
type CommitOptions struct {
	DryRun bool
	// Resolver decides what to do with files whose on-disk content is
	// about to be replaced. Nil overwrites.
	Resolver *generator.Resolver
	Writer   io.Writer
}

// CommitResult lists what a commit did, by path.
type CommitResult struct {
	Created     []string
	Updated     []string
	Directories []string
	Skipped     []string
}

// Commit writes the net changes to the base filesystem in one transaction.
// On success the staging layer is cleared; on failure nothing is written.
func (t *Tree) Commit(ctx context.Context, opts CommitOptions) (*CommitResult, error) {
	if opts.Writer == nil {
		opts.Writer = os.Stdout
	}

	result := &CommitResult{}
	var ops []generator.Operation

	for _, a := range t.Actions() {
		switch a.Kind {
		case ActionMkdir:
			ops = append(ops, &generator.MkdirOp{FS: t.base, Path: a.Path})
			result.Directories = append(result.Directories, a.Path)

		case ActionCreate:
			ops = append(ops, &generator.WriteFileOp{FS: t.base, Path: a.Path, Content: a.Content, Mode: 0644})
			result.Created = append(result.Created, a.Path)

		case ActionOverwrite:
			if !opts.DryRun && opts.Resolver != nil {
				existing, err := util.ReadFile(t.base, a.Path)
				if err != nil {
					return nil, fmt.Errorf("read %s: %w", a.Path, err)
				}
				res, err := opts.Resolver.ResolveConflict(a.Path, existing, a.Content)
				if err != nil {
					return nil, fmt.Errorf("resolve %s: %w", a.Path, err)
				}
				switch res {
				case generator.Skip:
					result.Skipped = append(result.Skipped, a.Path)
					continue
				case generator.Cancel:
					return nil, generator.ErrCancelled
				}
			}
			ops = append(ops, &generator.WriteFileOp{FS: t.base, Path: a.Path, Content: a.Content, Mode: 0644, Overwrite: true})
			result.Updated = append(result.Updated, a.Path)
		}
	}

	if err := generator.Execute(ctx, ops, generator.ExecuteOptions{DryRun: opts.DryRun, Writer: opts.Writer}); err != nil {
		return nil, err
	}

	if !opts.DryRun {
		t.stage = memfs.New()
		t.records = nil
		t.seen = make(map[string]bool)
	}
	return result, nil
}
