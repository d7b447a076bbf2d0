// Package structure implements the enterprise-structure schematic: the
// folder skeleton, core providers, portal layout, error pages, routes,
// interceptors, guards and HTTP base classes of an Angular application.
package structure

import (
	"embed"
	"fmt"

	"github.com/simonhull/roost/internal/generator"
	"github.com/simonhull/roost/internal/schematic"
	"github.com/simonhull/roost/internal/tree"
)

//go:embed templates
var templatesFS embed.FS

// Schema is the JSON schema for Options.
//
//go:embed schema.json
var Schema []byte

// Options configures the schematic.
type Options struct {
	Project string `json:"project"`
	Prefix  string `json:"prefix"`
	Title   string `json:"title"`
}

// Folders are the skeleton directories under the app path. Each gets a marker.
var Folders = []string{
	"core",
	"core/auth",
	"core/guards",
	"core/interceptors",
	"core/http",
	"core/utils",
	"layout",
	"ui",
	"feature",
	"pattern",
}

type page struct {
	Name    string
	Class   string
	Code    string
	Heading string
	Message string
	Color   string
}

var pages = []page{
	{
		Name:    "not-found-page",
		Class:   "not-found-container",
		Code:    "404",
		Heading: "Page Not Found",
		Message: "The page you are looking for does not exist or has been moved.",
		Color:   "#dc3545",
	},
	{
		Name:    "forbidden-page",
		Class:   "forbidden-container",
		Code:    "403",
		Heading: "Access Forbidden",
		Message: "You don't have permission to access this resource.",
		Color:   "#fd7e14",
	},
}

// file maps a template to its path under the app path.
type file struct {
	template string
	path     string
}

var (
	layoutFiles = []file{
		{"layout/portal-layout/portal-layout.component.ts.tmpl", "layout/portal-layout/portal-layout.component.ts"},
		{"layout/portal-layout/portal-layout.component.html.tmpl", "layout/portal-layout/portal-layout.component.html"},
		{"layout/portal-layout/portal-layout.component.scss.tmpl", "layout/portal-layout/portal-layout.component.scss"},
	}
	interceptorFiles = []file{
		{"core/interceptors/authorize.interceptor.ts.tmpl", "core/interceptors/authorize.interceptor.ts"},
		{"core/interceptors/http-error-handler.interceptor.ts.tmpl", "core/interceptors/http-error-handler.interceptor.ts"},
		{"core/interceptors/index.ts.tmpl", "core/interceptors/index.ts"},
	}
	guardFiles = []file{
		{"core/guards/auth.guard.ts.tmpl", "core/guards/auth.guard.ts"},
		{"core/guards/role.guard.ts.tmpl", "core/guards/role.guard.ts"},
		{"core/guards/index.ts.tmpl", "core/guards/index.ts"},
	}
	httpFiles = []file{
		{"core/http/injection-tokens.ts.tmpl", "core/http/injection-tokens.ts"},
		{"core/http/base-api.ts.tmpl", "core/http/base-api.ts"},
		{"core/http/api-models/base-response.model.ts.tmpl", "core/http/api-models/base-response.model.ts"},
		{"core/http/api-models/paging-response.model.ts.tmpl", "core/http/api-models/paging-response.model.ts"},
		{"core/http/api-models/index.ts.tmpl", "core/http/api-models/index.ts"},
	}
	// Replaced when present; the app config is created when missing.
	componentFiles = []file{
		{"app/app.component.ts.tmpl", "app.component.ts"},
		{"app/app.component.html.tmpl", "app.component.html"},
		{"app/app.component.scss.tmpl", "app.component.scss"},
	}
)

// viewData is what templates see.
type viewData struct {
	Project string
	Prefix  string
	Title   string
	Page    page
}

// Generator builds the enterprise-structure rule.
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
	opts := Options{Prefix: "app"}
	if err := schematic.Decode(options, &opts); err != nil {
		return nil, err
	}
	return New(opts).Rule(), nil
}

// Rule returns the schematic rule.
func (g *Generator) Rule() schematic.Rule {
	return func(ctx *schematic.Context, t *tree.Tree) error {
		paths := schematic.ResolvePaths(ctx, t, g.opts.Project)
		d := g.viewData(paths)
		app := paths.AppPath

		steps := []func() error{
			func() error { return g.skeleton(t, app) },
			func() error { return g.emit(t, app, d, file{"core/core.ts.tmpl", "core/core.ts"}) },
			func() error { return g.appFiles(t, app, d) },
			func() error { return g.layout(t, app, d) },
			func() error { return g.routes(t, app, d) },
			func() error { return g.pages(t, app, d) },
			func() error { return g.emitAll(t, app, d, interceptorFiles) },
			func() error { return g.emitAll(t, app, d, guardFiles) },
			func() error {
				if err := schematic.EnsureDir(t, tree.Join(app, "core/http/api-models"), false); err != nil {
					return err
				}
				return g.emitAll(t, app, d, httpFiles)
			},
		}
		for _, step := range steps {
			if err := step(); err != nil {
				return err
			}
		}
		return nil
	}
}

func (g *Generator) viewData(paths schematic.Paths) viewData {
	d := viewData{Prefix: g.opts.Prefix, Title: g.opts.Title}
	if d.Prefix == "" {
		d.Prefix = "app"
	}
	if paths.Project != nil {
		d.Project = paths.Project.Name
	}
	if d.Title == "" {
		d.Title = "Enterprise Portal"
		if d.Project != "" {
			d.Title = generator.Classify(d.Project)
		}
	}
	return d
}

func (g *Generator) skeleton(t *tree.Tree, app string) error {
	for _, f := range Folders {
		if err := schematic.EnsureDir(t, tree.Join(app, f), true); err != nil {
			return err
		}
	}
	return nil
}

func (g *Generator) render(name string, d viewData) ([]byte, error) {
	content, err := g.renderer.RenderFS(templatesFS, "templates/"+name, d)
	if err != nil {
		return nil, fmt.Errorf("rendering %s: %w", name, err)
	}
	return content, nil
}

func (g *Generator) emit(t *tree.Tree, app string, d viewData, f file) error {
	content, err := g.render(f.template, d)
	if err != nil {
		return err
	}
	return schematic.EmitIfAbsent(t, tree.Join(app, f.path), content)
}

func (g *Generator) emitAll(t *tree.Tree, app string, d viewData, files []file) error {
	for _, f := range files {
		if err := g.emit(t, app, d, f); err != nil {
			return err
		}
	}
	return nil
}

// appFiles points the app config at provideCore and resets the root
// component to a bare router outlet.
func (g *Generator) appFiles(t *tree.Tree, app string, d viewData) error {
	content, err := g.render("app/app.config.ts.tmpl", d)
	if err != nil {
		return err
	}
	if err := schematic.Overwrite(t, tree.Join(app, "app.config.ts"), content); err != nil {
		return err
	}
	for _, f := range componentFiles {
		content, err := g.render(f.template, d)
		if err != nil {
			return err
		}
		if err := schematic.OverwriteIfPresent(t, tree.Join(app, f.path), content); err != nil {
			return err
		}
	}
	return nil
}

func (g *Generator) layout(t *tree.Tree, app string, d viewData) error {
	if err := schematic.EnsureDir(t, tree.Join(app, "layout/portal-layout"), true); err != nil {
		return err
	}
	return g.emitAll(t, app, d, layoutFiles)
}

// routes replaces an existing app.routes.ts with the portal routes and adds
// the lazily loaded portal feature. Without app.routes.ts nothing happens.
func (g *Generator) routes(t *tree.Tree, app string, d viewData) error {
	routesPath := tree.Join(app, "app.routes.ts")
	if !t.Exists(routesPath) {
		return nil
	}
	content, err := g.render("app/app.routes.ts.tmpl", d)
	if err != nil {
		return err
	}
	if err := schematic.Overwrite(t, routesPath, content); err != nil {
		return err
	}

	if err := schematic.EnsureDirs(t, true,
		tree.Join(app, "feature/dashboard"),
		tree.Join(app, "feature/portal"),
	); err != nil {
		return err
	}
	return g.emitAll(t, app, d, []file{
		{"feature/dashboard.component.ts.tmpl", "feature/dashboard/dashboard.component.ts"},
		{"feature/portal.routes.ts.tmpl", "feature/portal/portal.routes.ts"},
	})
}

func (g *Generator) pages(t *tree.Tree, app string, d viewData) error {
	if err := schematic.EnsureDir(t, tree.Join(app, "layout/page"), true); err != nil {
		return err
	}
	for _, p := range pages {
		dir := tree.Join("layout/page", p.Name)
		if err := schematic.EnsureDir(t, tree.Join(app, dir), true); err != nil {
			return err
		}
		pd := d
		pd.Page = p
		for _, ext := range []string{"ts", "html", "scss"} {
			f := file{
				template: "layout/page/page.component." + ext + ".tmpl",
				path:     tree.Join(dir, p.Name+".component."+ext),
			}
			if err := g.emit(t, app, pd, f); err != nil {
				return err
			}
		}
	}
	return nil
}
