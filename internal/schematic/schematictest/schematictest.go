// Package schematictest provides helpers for testing schematic rules.
package schematictest

import (
	"context"
	"io"
	"testing"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/simonhull/roost/internal/schematic"
	"github.com/simonhull/roost/internal/tree"
)

// Tree returns a tree over an in-memory base holding files.
func Tree(t testing.TB, files map[string]string) *tree.Tree {
	t.Helper()
	fs := memfs.New()
	for p, c := range files {
		require.NoError(t, util.WriteFile(fs, p, []byte(c), 0644))
	}
	return tree.New(fs)
}

// Context returns a schematic context whose logs are captured.
func Context() (*schematic.Context, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return schematic.NewContext(zap.New(core)), logs
}

// Run applies rule to tr with a fresh context and fails the test on error.
func Run(t testing.TB, rule schematic.Rule, tr *tree.Tree) (*schematic.Context, *observer.ObservedLogs) {
	t.Helper()
	ctx, logs := Context()
	require.NoError(t, rule(ctx, tr))
	return ctx, logs
}

// Commit flushes the staged changes of tr to its base.
func Commit(t testing.TB, tr *tree.Tree) {
	t.Helper()
	_, err := tr.Commit(context.Background(), tree.CommitOptions{Writer: io.Discard})
	require.NoError(t, err)
}

// Content returns the content of p, failing the test when it is missing.
func Content(t testing.TB, tr *tree.Tree, p string) string {
	t.Helper()
	b, ok := tr.Read(p)
	require.True(t, ok, "%s does not exist", p)
	return string(b)
}
