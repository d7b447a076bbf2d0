package generator_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/simonhull/roost/internal/generator"
)

func TestDiff_Identical(t *testing.T) {
	assert.Equal(t, "", generator.Diff("a", "a", []byte("same\n"), []byte("same\n")))
}

func TestDiff_ChangedLine(t *testing.T) {
	old := "import { Routes } from '@angular/router';\n\nexport const routes: Routes = [];\n"
	newer := "import { Routes } from '@angular/router';\n\nexport const routes: Routes = [\n  { path: '**', redirectTo: '404' }\n];\n"

	d := generator.Diff("src/app/app.routes.ts", "src/app/app.routes.ts", []byte(old), []byte(newer))

	assert.Contains(t, d, "--- src/app/app.routes.ts")
	assert.Contains(t, d, "+++ src/app/app.routes.ts")
	assert.Contains(t, d, "-export const routes: Routes = [];")
	assert.Contains(t, d, "+  { path: '**', redirectTo: '404' }")
	assert.Contains(t, d, " import { Routes } from '@angular/router';")
}

func TestDiff_SeparateHunks(t *testing.T) {
	var a, b []string
	for i := 0; i < 30; i++ {
		a = append(a, "line")
		b = append(b, "line")
	}
	a[2], b[2] = "old-top", "new-top"
	a[27], b[27] = "old-bottom", "new-bottom"

	d := generator.Diff("f", "f", []byte(strings.Join(a, "\n")), []byte(strings.Join(b, "\n")))
	assert.Equal(t, 2, strings.Count(d, "@@ -"), "distant changes produce two hunks")
}

func TestDiff_AddToEmpty(t *testing.T) {
	d := generator.Diff("f", "f", nil, []byte("one\ntwo\n"))
	assert.Contains(t, d, "+one")
	assert.Contains(t, d, "+two")
}
