package tree_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simonhull/roost/internal/generator"
	"github.com/simonhull/roost/internal/tree"
)

func TestCommit_WritesAndClearsStage(t *testing.T) {
	ctx := context.Background()
	fs := memfs.New()
	require.NoError(t, util.WriteFile(fs, "src/app/app.routes.ts", []byte("old"), 0644))
	tr := tree.New(fs)

	require.NoError(t, tr.MkdirAll("src/app/ui"))
	require.NoError(t, tr.Create("src/app/core/core.ts", []byte("core")))
	require.NoError(t, tr.Overwrite("src/app/app.routes.ts", []byte("new")))

	res, err := tr.Commit(ctx, tree.CommitOptions{Writer: &bytes.Buffer{}})
	require.NoError(t, err)
	assert.Equal(t, []string{"src/app/core/core.ts"}, res.Created)
	assert.Equal(t, []string{"src/app/app.routes.ts"}, res.Updated)
	assert.Equal(t, []string{"src/app/ui"}, res.Directories)

	got, err := util.ReadFile(fs, "src/app/app.routes.ts")
	require.NoError(t, err)
	assert.Equal(t, "new", string(got))

	info, err := fs.Stat("src/app/ui")
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	assert.False(t, tr.HasChanges(), "stage is cleared after commit")
	assert.True(t, tr.Exists("src/app/core/core.ts"), "committed files are visible through the base")
}

func TestCommit_DryRunWritesNothing(t *testing.T) {
	fs := memfs.New()
	tr := tree.New(fs)
	require.NoError(t, tr.Create("src/app/core/core.ts", []byte("core")))

	var buf bytes.Buffer
	res, err := tr.Commit(context.Background(), tree.CommitOptions{DryRun: true, Writer: &buf})
	require.NoError(t, err)
	assert.Equal(t, []string{"src/app/core/core.ts"}, res.Created)

	_, err = fs.Stat("src/app/core/core.ts")
	assert.Error(t, err)
	assert.True(t, tr.HasChanges(), "dry run keeps staged changes")
	assert.Contains(t, buf.String(), "[DRY RUN]")
}

func TestCommit_SkipResolverKeepsDiskContent(t *testing.T) {
	fs := memfs.New()
	require.NoError(t, util.WriteFile(fs, "src/app/app.config.ts", []byte("mine"), 0644))
	tr := tree.New(fs)
	require.NoError(t, tr.Overwrite("src/app/app.config.ts", []byte("generated")))

	resolver, err := generator.NewResolver(generator.ResolverOptions{Skip: true})
	require.NoError(t, err)

	res, err := tr.Commit(context.Background(), tree.CommitOptions{Resolver: resolver, Writer: &bytes.Buffer{}})
	require.NoError(t, err)
	assert.Equal(t, []string{"src/app/app.config.ts"}, res.Skipped)
	assert.Empty(t, res.Updated)

	got, _ := util.ReadFile(fs, "src/app/app.config.ts")
	assert.Equal(t, "mine", string(got))
}

type cancelStrategy struct{}

func (cancelStrategy) Resolve(string, []byte, []byte) (generator.ConflictResolution, error) {
	return generator.Cancel, nil
}

func TestCommit_CancelWritesNothing(t *testing.T) {
	fs := memfs.New()
	require.NoError(t, util.WriteFile(fs, "src/app/app.config.ts", []byte("mine"), 0644))
	tr := tree.New(fs)
	require.NoError(t, tr.Create("src/app/core/core.ts", []byte("core")))
	require.NoError(t, tr.Overwrite("src/app/app.config.ts", []byte("generated")))

	_, err := tr.Commit(context.Background(), tree.CommitOptions{
		Resolver: generator.NewResolverWithStrategy(cancelStrategy{}),
		Writer:   &bytes.Buffer{},
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, generator.ErrCancelled))

	_, statErr := fs.Stat("src/app/core/core.ts")
	assert.Error(t, statErr)
}
