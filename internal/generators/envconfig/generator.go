// Package envconfig implements the env-config schematic. It adds staging
// and production environment files, a BASE_API_URL injection token, build
// scripts in package.json and the matching angular.json configurations.
package envconfig

import (
	"embed"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/simonhull/roost/internal/generator"
	"github.com/simonhull/roost/internal/pkgjson"
	"github.com/simonhull/roost/internal/schematic"
	"github.com/simonhull/roost/internal/tree"
	"github.com/simonhull/roost/internal/workspace"
)

// DefaultAPIURL is used when no apiUrl option is given.
const DefaultAPIURL = "https://app-uat-api.example.com/internal"

//go:embed templates/*.tmpl
var templatesFS embed.FS

// Schema is the JSON schema for Options.
//
//go:embed schema.json
var Schema []byte

// Options configures the schematic.
type Options struct {
	Project string `json:"project"`
	APIURL  string `json:"apiUrl"`
}

// Scripts are added to package.json, replacing existing entries.
var Scripts = map[string]string{
	"build:prod":    "ng build --configuration production",
	"build:staging": "ng build --configuration staging",
}

// ProductionURL derives the production API URL from the UAT one.
func ProductionURL(apiURL string) string {
	return strings.Replace(apiURL, "-uat-", "-", 1)
}

// Configurations returns the build configurations for a source root.
func Configurations(sourceRoot string) workspace.EnvConfigurations {
	replacement := func(env string) []any {
		return []any{map[string]any{
			"replace": sourceRoot + "/environments/environment.ts",
			"with":    sourceRoot + "/environments/environment." + env + ".ts",
		}}
	}
	return workspace.EnvConfigurations{
		Production: map[string]any{
			"budgets": []any{
				map[string]any{"type": "initial", "maximumWarning": "1MB", "maximumError": "3MB"},
				map[string]any{"type": "anyComponentStyle", "maximumWarning": "4kB", "maximumError": "8kB"},
			},
			"outputHashing":    "all",
			"fileReplacements": replacement("production"),
			"optimization":     true,
			"sourceMap":        false,
			"extractLicenses":  true,
			"namedChunks":      false,
		},
		Staging: map[string]any{
			"optimization":     false,
			"extractLicenses":  false,
			"sourceMap":        true,
			"fileReplacements": replacement("staging"),
		},
		Development: map[string]any{
			"optimization":    false,
			"extractLicenses": false,
			"sourceMap":       true,
		},
	}
}

// Generator builds the env-config rule.
type Generator struct {
	opts     Options
	renderer *generator.Renderer
}

// New creates a generator for opts. An empty APIURL means DefaultAPIURL.
func New(opts Options) *Generator {
	if opts.APIURL == "" {
		opts.APIURL = DefaultAPIURL
	}
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

// Rule returns the schematic rule.
func (g *Generator) Rule() schematic.Rule {
	return func(ctx *schematic.Context, t *tree.Tree) error {
		paths := schematic.ResolvePaths(ctx, t, g.opts.Project)

		g.patchWorkspace(ctx, t, paths)

		if err := g.environments(t, paths.SourceRoot); err != nil {
			return err
		}

		core := tree.Join(paths.AppPath, "core")
		if err := schematic.EnsureDir(t, core, false); err != nil {
			return err
		}
		tokens, err := g.render("injection-tokens.ts.tmpl", nil)
		if err != nil {
			return err
		}
		if err := schematic.EmitIfAbsent(t, tree.Join(core, "injection-tokens.ts"), tokens); err != nil {
			return err
		}

		g.addScripts(ctx, t, paths.PackageJSON)
		return nil
	}
}

func (g *Generator) render(name string, data any) ([]byte, error) {
	content, err := g.renderer.RenderFS(templatesFS, "templates/"+name, data)
	if err != nil {
		return nil, fmt.Errorf("rendering %s: %w", name, err)
	}
	return content, nil
}

// patchWorkspace adds the staging configuration to angular.json. Any
// failure is logged and leaves the workspace file untouched.
func (g *Generator) patchWorkspace(ctx *schematic.Context, t *tree.Tree, paths schematic.Paths) {
	if paths.Workspace == nil || paths.Project == nil {
		return
	}
	p := paths.Project
	log := ctx.Logger.With(zap.String("file", paths.Workspace.Path()), zap.String("project", p.Name))

	changed := false
	err := workspace.PatchBuildConfigurations(p, Configurations(paths.SourceRoot))
	switch {
	case err == nil:
		changed = true
	case errors.Is(err, workspace.ErrNoTarget):
		log.Info("project has no build target, skipping build configurations")
	default:
		log.Warn("cannot patch build configurations", zap.Error(err))
		return
	}
	if workspace.PatchServeStaging(p) {
		changed = true
	}
	if !changed {
		return
	}

	if err := workspace.Write(workspace.NewHost(t), paths.Workspace); err != nil {
		log.Warn("cannot update workspace file", zap.Error(err))
	}
}

func (g *Generator) environments(t *tree.Tree, sourceRoot string) error {
	dir := tree.Join(sourceRoot, "environments")
	if err := schematic.EnsureDir(t, dir, true); err != nil {
		return err
	}

	envs := []struct {
		file       string
		production bool
		url        string
	}{
		{"environment.ts", false, g.opts.APIURL},
		{"environment.staging.ts", false, g.opts.APIURL},
		{"environment.production.ts", true, ProductionURL(g.opts.APIURL)},
	}
	for _, env := range envs {
		content, err := g.render("environment.ts.tmpl", map[string]any{
			"Production": env.production,
			"APIURL":     env.url,
		})
		if err != nil {
			return err
		}
		if err := schematic.EmitIfAbsent(t, tree.Join(dir, env.file), content); err != nil {
			return err
		}
	}
	return nil
}

// addScripts sets the build scripts in package.json. A missing file is
// skipped; an unparsable one is logged and left untouched.
func (g *Generator) addScripts(ctx *schematic.Context, t *tree.Tree, path string) {
	if !t.Exists(path) {
		ctx.Logger.Debug("no package.json, skipping build scripts", zap.String("file", path))
		return
	}
	pkg, err := pkgjson.Read(t, path)
	if err != nil {
		ctx.Logger.Warn("cannot parse package.json, skipping build scripts", zap.String("file", path), zap.Error(err))
		return
	}
	for _, name := range []string{"build:prod", "build:staging"} {
		if err := pkg.SetScript(name, Scripts[name]); err != nil {
			ctx.Logger.Warn("cannot set script", zap.String("script", name), zap.Error(err))
			return
		}
	}
	if err := pkg.Write(t, path); err != nil {
		ctx.Logger.Warn("cannot write package.json", zap.String("file", path), zap.Error(err))
	}
}
