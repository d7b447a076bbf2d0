package structure_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simonhull/roost/internal/generators/structure"
	"github.com/simonhull/roost/internal/schematic/schematictest"
	"github.com/simonhull/roost/internal/tree"
)

const workspaceJSON = `{
  "version": 1,
  "projects": {
    "portal": { "root": "", "sourceRoot": "src", "prefix": "app" },
    "admin": { "root": "projects/admin", "sourceRoot": "projects/admin/src" }
  }
}`

func rule(t *testing.T, options map[string]any) func(*testing.T, *tree.Tree) {
	t.Helper()
	r, err := structure.Factory(options)
	require.NoError(t, err)
	return func(t *testing.T, tr *tree.Tree) {
		schematictest.Run(t, r, tr)
	}
}

func TestEmptyTree(t *testing.T) {
	tr := tree.Empty()
	rule(t, nil)(t, tr)

	for _, f := range structure.Folders {
		assert.True(t, tr.Exists("src/app/"+f+"/.gitkeep"), f)
	}
	for _, p := range []string{
		"src/app/core/core.ts",
		"src/app/app.config.ts",
		"src/app/layout/portal-layout/portal-layout.component.ts",
		"src/app/layout/portal-layout/portal-layout.component.html",
		"src/app/layout/portal-layout/portal-layout.component.scss",
		"src/app/layout/page/not-found-page/not-found-page.component.ts",
		"src/app/layout/page/forbidden-page/forbidden-page.component.scss",
		"src/app/core/interceptors/authorize.interceptor.ts",
		"src/app/core/interceptors/index.ts",
		"src/app/core/guards/role.guard.ts",
		"src/app/core/http/base-api.ts",
		"src/app/core/http/api-models/index.ts",
	} {
		assert.True(t, tr.Exists(p), p)
	}

	// Files that are only replaced, never created.
	assert.False(t, tr.Exists("src/app/app.component.ts"))
	assert.False(t, tr.Exists("src/app/app.routes.ts"))
	assert.False(t, tr.Exists("src/app/feature/portal/portal.routes.ts"))
	assert.False(t, tr.Exists("src/app/core/http/api-models/.gitkeep"))
}

func TestTemplatesRender(t *testing.T) {
	tr := tree.Empty()
	rule(t, map[string]any{"prefix": "acme", "title": "Acme Portal"})(t, tr)

	notFound := schematictest.Content(t, tr, "src/app/layout/page/not-found-page/not-found-page.component.ts")
	assert.Contains(t, notFound, "selector: 'acme-not-found-page'")
	assert.Contains(t, notFound, "export class NotFoundPageComponent {}")

	forbidden := schematictest.Content(t, tr, "src/app/layout/page/forbidden-page/forbidden-page.component.html")
	assert.Contains(t, forbidden, "<h1>403</h1>")
	assert.Contains(t, forbidden, "You don't have permission")

	layout := schematictest.Content(t, tr, "src/app/layout/portal-layout/portal-layout.component.html")
	assert.Contains(t, layout, "<h1>Acme Portal</h1>")

	base := schematictest.Content(t, tr, "src/app/core/http/base-api.ts")
	assert.Contains(t, base, "`${this.apiBaseUrl}/${this.resourcePath.replace(/^\\/+/, '')}`")

	for _, p := range tr.Files() {
		assert.NotContains(t, schematictest.Content(t, tr, p), "<%", p)
	}
}

func TestExistingAppFiles(t *testing.T) {
	tr := schematictest.Tree(t, map[string]string{
		"src/app/app.routes.ts":        "export const routes = [];",
		"src/app/app.component.ts":     "custom component",
		"src/app/app.component.html":   "<h1>custom</h1>",
		"src/app/app.config.ts":        "custom config",
		"src/app/core/core.ts":         "custom core",
		"src/app/core/guards/index.ts": "custom guards",
	})
	rule(t, nil)(t, tr)

	routes := schematictest.Content(t, tr, "src/app/app.routes.ts")
	assert.Contains(t, routes, "loadChildren: () => import('./feature/portal/portal.routes')")
	assert.Contains(t, routes, "component: ForbiddenPageComponent")

	assert.Equal(t, "<router-outlet></router-outlet>\n", schematictest.Content(t, tr, "src/app/app.component.html"))
	assert.Contains(t, schematictest.Content(t, tr, "src/app/app.component.ts"), "export class AppComponent {}")
	assert.False(t, tr.Exists("src/app/app.component.scss"), "absent component files stay absent")
	assert.Contains(t, schematictest.Content(t, tr, "src/app/app.config.ts"), "provideCore({routes})")

	// Create-only files keep the user's content.
	assert.Equal(t, "custom core", schematictest.Content(t, tr, "src/app/core/core.ts"))
	assert.Equal(t, "custom guards", schematictest.Content(t, tr, "src/app/core/guards/index.ts"))

	assert.True(t, tr.Exists("src/app/feature/dashboard/dashboard.component.ts"))
	assert.True(t, tr.Exists("src/app/feature/dashboard/.gitkeep"))
	assert.True(t, tr.Exists("src/app/feature/portal/portal.routes.ts"))
}

func TestIdempotent(t *testing.T) {
	tr := schematictest.Tree(t, map[string]string{
		"src/app/app.routes.ts":    "export const routes = [];",
		"src/app/app.component.ts": "custom",
	})
	run := rule(t, nil)

	run(t, tr)
	require.True(t, tr.HasChanges())
	schematictest.Commit(t, tr)

	run(t, tr)
	assert.Empty(t, tr.Actions(), "second run changes nothing")
}

func TestProjectSourceRoot(t *testing.T) {
	tr := schematictest.Tree(t, map[string]string{"angular.json": workspaceJSON})
	rule(t, map[string]any{"project": "admin"})(t, tr)

	assert.True(t, tr.Exists("projects/admin/src/app/core/core.ts"))
	assert.False(t, tr.Exists("src/app/core/core.ts"))

	layout := schematictest.Content(t, tr, "projects/admin/src/app/layout/portal-layout/portal-layout.component.html")
	assert.Contains(t, layout, "<h1>Admin</h1>")
}

func TestUnknownProjectFallsBack(t *testing.T) {
	tr := schematictest.Tree(t, map[string]string{"angular.json": workspaceJSON})
	r, err := structure.Factory(map[string]any{"project": "missing"})
	require.NoError(t, err)

	_, logs := schematictest.Run(t, r, tr)

	assert.True(t, tr.Exists("src/app/core/.gitkeep"))
	assert.True(t, tr.Exists("src/app/core/core.ts"))
	assert.Equal(t, 1, logs.FilterMessageSnippet("project not found").Len())
}

func TestFactory_RejectsUnknownOptions(t *testing.T) {
	_, err := structure.Factory(map[string]any{"addAuth": true})
	assert.Error(t, err)
}
