package schematic

import (
	"errors"

	"go.uber.org/zap"

	"github.com/simonhull/roost/internal/tree"
	"github.com/simonhull/roost/internal/workspace"
)

// Fallback locations used when no project resolves.
const (
	DefaultSourceRoot  = "src"
	DefaultPackageJSON = "package.json"
)

// Paths are the locations a generator writes to.
type Paths struct {
	SourceRoot  string
	AppPath     string
	PackageJSON string

	// Workspace and Project are nil when they could not be resolved.
	Workspace *workspace.Workspace
	Project   *workspace.Project
}

// DefaultPaths returns the fallback layout: src, src/app, package.json.
func DefaultPaths() Paths {
	return Paths{
		SourceRoot:  DefaultSourceRoot,
		AppPath:     tree.Join(DefaultSourceRoot, "app"),
		PackageJSON: DefaultPackageJSON,
	}
}

// ResolvePaths reads the workspace from t and resolves project (or the
// default project). Failures never abort: they are logged and the default
// layout is returned.
func ResolvePaths(ctx *Context, t *tree.Tree, project string) Paths {
	paths := DefaultPaths()

	ws, err := workspace.Read(workspace.NewHost(t))
	switch {
	case errors.Is(err, workspace.ErrNotFound):
		ctx.Logger.Info("no workspace file found, using default source root",
			zap.String("sourceRoot", paths.SourceRoot))
		return paths
	case err != nil:
		ctx.Logger.Warn("cannot read workspace, using default source root",
			zap.String("sourceRoot", paths.SourceRoot), zap.Error(err))
		return paths
	}
	paths.Workspace = ws

	p := workspace.Resolve(ws, project)
	if p == nil {
		ctx.Logger.Info("project not found in workspace, using default source root",
			zap.String("project", project), zap.String("sourceRoot", paths.SourceRoot))
		return paths
	}

	paths.Project = p
	paths.SourceRoot = p.SourceRoot()
	paths.AppPath = tree.Join(paths.SourceRoot, "app")
	paths.PackageJSON = p.PackageJSONPath()
	ctx.Logger.Debug("resolved project",
		zap.String("project", p.Name), zap.String("sourceRoot", paths.SourceRoot))
	return paths
}
