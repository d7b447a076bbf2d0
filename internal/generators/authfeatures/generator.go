// Package authfeatures implements the auth-features schematic. Each option
// flag adds one rule; the rules run in a fixed order against one tree.
package authfeatures

import (
	"embed"
	"errors"
	"fmt"
	"path"

	"go.uber.org/zap"

	"github.com/simonhull/roost/internal/generator"
	"github.com/simonhull/roost/internal/generators/structure"
	"github.com/simonhull/roost/internal/pkgjson"
	"github.com/simonhull/roost/internal/schematic"
	"github.com/simonhull/roost/internal/tasks"
	"github.com/simonhull/roost/internal/tree"
)

//go:embed templates
var templatesFS embed.FS

// Schema is the JSON schema for Options.
//
//go:embed schema.json
var Schema []byte

// NgrxPackages are installed when the NgRx store is requested but missing.
var NgrxPackages = []string{"@ngrx/store", "@ngrx/effects", "@ngrx/entity", "@ngrx/store-devtools"}

// ErrPackageJSONRequired is returned when NgRx setup finds no package.json.
var ErrPackageJSONRequired = errors.New("package.json is required for NgRx setup")

// Options configures the schematic. All flags default to false.
type Options struct {
	Project         string `json:"project"`
	AddAuth         bool   `json:"addAuth"`
	AddGuards       bool   `json:"addGuards"`
	AddInterceptors bool   `json:"addInterceptors"`
	UseNgrx         bool   `json:"useNgrx"`
	InstallNgrx     bool   `json:"installNgrx"`
	PackageManager  string `json:"packageManager"`
}

type fileSet struct {
	dir   string // under core/
	files []string
}

var (
	authFiles        = fileSet{"auth", []string{"auth.service.ts", "auth.models.ts", "token-storage.service.ts", "index.ts"}}
	guardFiles       = fileSet{"guards", []string{"auth.guard.ts", "guest.guard.ts", "index.ts"}}
	interceptorFiles = fileSet{"interceptors", []string{"auth-token.interceptor.ts", "error.interceptor.ts", "index.ts"}}
	storeFiles       = fileSet{"auth/store", []string{"auth.actions.ts", "auth.reducer.ts", "auth.effects.ts", "auth.selectors.ts", "index.ts"}}
)

// gated folders hold only what their flag emits, so they get no marker.
var gated = map[string]bool{
	"core/" + authFiles.dir:        true,
	"core/" + guardFiles.dir:       true,
	"core/" + interceptorFiles.dir: true,
}

func (s fileSet) template(name string) string {
	return path.Join("templates", path.Base(s.dir), name+".tmpl")
}

// Generator composes the auth-features rules.
type Generator struct {
	opts     Options
	renderer *generator.Renderer
}

// New creates a generator for opts.
func New(opts Options) *Generator {
	return &Generator{opts: opts, renderer: generator.NewRenderer()}
}

// Factory decodes options and returns the schematic rule.
func Factory(options map[string]any) (schematic.Rule, error) {
	var opts Options
	if err := schematic.Decode(options, &opts); err != nil {
		return nil, err
	}
	return New(opts).Rule(), nil
}

// Compose returns the rules for the options: the mandatory skeleton, then
// auth services, guards, interceptors and the NgRx store, each only when
// its flag is set. Flags are read here, once.
func (g *Generator) Compose(paths *schematic.Paths) []schematic.Rule {
	return []schematic.Rule{
		g.skeleton(paths),
		schematic.When(g.opts.AddAuth, g.emitSet(paths, authFiles)),
		schematic.When(g.opts.AddGuards, g.emitSet(paths, guardFiles)),
		schematic.When(g.opts.AddInterceptors, g.emitSet(paths, interceptorFiles)),
		schematic.When(g.opts.UseNgrx, g.ngrx(paths)),
	}
}

// Rule resolves the project paths and runs the composed rules in order.
// A failing rule stops the run; earlier mutations stay in the tree.
func (g *Generator) Rule() schematic.Rule {
	return func(ctx *schematic.Context, t *tree.Tree) error {
		paths := schematic.ResolvePaths(ctx, t, g.opts.Project)
		return schematic.Chain(g.Compose(&paths)...)(ctx, t)
	}
}

func (g *Generator) render(name string) ([]byte, error) {
	content, err := g.renderer.RenderFS(templatesFS, name, g.opts)
	if err != nil {
		return nil, fmt.Errorf("rendering %s: %w", name, err)
	}
	return content, nil
}

func (g *Generator) skeleton(paths *schematic.Paths) schematic.Rule {
	return func(_ *schematic.Context, t *tree.Tree) error {
		for _, f := range structure.Folders {
			if err := schematic.EnsureDir(t, tree.Join(paths.AppPath, f), !gated[f]); err != nil {
				return err
			}
		}
		content, err := g.render("templates/core/core.ts.tmpl")
		if err != nil {
			return err
		}
		return schematic.EmitIfAbsent(t, tree.Join(paths.AppPath, "core/core.ts"), content)
	}
}

func (g *Generator) emitSet(paths *schematic.Paths, set fileSet) schematic.Rule {
	return func(_ *schematic.Context, t *tree.Tree) error {
		dir := tree.Join(paths.AppPath, "core", set.dir)
		if err := schematic.EnsureDir(t, dir, false); err != nil {
			return err
		}
		for _, name := range set.files {
			content, err := g.render(set.template(name))
			if err != nil {
				return err
			}
			if err := schematic.EmitIfAbsent(t, tree.Join(dir, name), content); err != nil {
				return err
			}
		}
		return nil
	}
}

// ngrx requires package.json. It schedules an install of the NgRx packages
// when requested and @ngrx/store is not declared, then emits the store.
func (g *Generator) ngrx(paths *schematic.Paths) schematic.Rule {
	return func(ctx *schematic.Context, t *tree.Tree) error {
		if !t.Exists(paths.PackageJSON) {
			return fmt.Errorf("%s: %w", paths.PackageJSON, ErrPackageJSONRequired)
		}

		pkg, err := pkgjson.Read(t, paths.PackageJSON)
		if err != nil {
			ctx.Logger.Warn("cannot parse package.json, skipping NgRx install check",
				zap.String("file", paths.PackageJSON), zap.Error(err))
		} else if g.opts.InstallNgrx && !pkg.HasDependency("@ngrx/store") {
			if err := ctx.Tasks.Add(g.installTask(t, paths, pkg)); err != nil {
				return err
			}
		}

		return g.emitSet(paths, storeFiles)(ctx, t)
	}
}

func (g *Generator) installTask(t *tree.Tree, paths *schematic.Paths, pkg *pkgjson.PackageJSON) *tasks.NodePackageInstallTask {
	dir := path.Dir(tree.Normalize(paths.PackageJSON))
	if dir == "." {
		dir = ""
	}
	pm := g.opts.PackageManager
	if pm == "" {
		pm = tasks.DetectPackageManager(t.Base(), dir)
	}
	return &tasks.NodePackageInstallTask{
		Packages:       NgrxPackages,
		VersionRange:   pkg.CompatibleRange("@angular/core"),
		PackageManager: pm,
		WorkingDir:     dir,
	}
}
