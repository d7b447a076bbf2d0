package commands

import (
	"os"
	"path/filepath"
	"testing"

	"4d63.com/testcli"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const angularJSON = `{
  "version": 1,
  "projects": {
    "portal": {
      "root": "",
      "sourceRoot": "src",
      "projectType": "application",
      "architect": {
        "build": {
          "builder": "@angular-devkit/build-angular:application",
          "configurations": {"production": {}, "development": {}}
        },
        "serve": {
          "builder": "@angular-devkit/build-angular:dev-server",
          "configurations": {"production": {}, "development": {}}
        }
      }
    }
  }
}
`

const packageJSON = `{
  "name": "portal",
  "scripts": {"start": "ng serve"},
  "dependencies": {"@angular/core": "^17.3.0"}
}
`

func setupProject(t *testing.T) string {
	t.Helper()
	dir := testcli.MkdirTemp(t)
	testcli.Chdir(t, dir)
	testcli.WriteFile(t, "angular.json", []byte(angularJSON))
	testcli.WriteFile(t, "package.json", []byte(packageJSON))
	return dir
}

func TestList(t *testing.T) {
	exitCode, stdout, _ := testcli.Main(t, []string{"roost", "list"}, nil, Run)
	assert.Equal(t, 0, exitCode)
	assert.Contains(t, stdout, "enterprise-structure (structure, es)")
	assert.Contains(t, stdout, "env-config (env)")
	assert.Contains(t, stdout, "auth-features (auth)")
}

func TestGenerate_UnknownSchematic(t *testing.T) {
	setupProject(t)

	exitCode, stdout, _ := testcli.Main(t, []string{"roost", "generate", "nope"}, nil, Run)
	assert.Equal(t, 1, exitCode)
	assert.Contains(t, stdout, "unknown schematic 'nope'")
}

func TestGenerate_DryRunWritesNothing(t *testing.T) {
	dir := setupProject(t)

	exitCode, stdout, _ := testcli.Main(t, []string{"roost", "g", "structure", "--dry-run"}, nil, Run)
	require.Equal(t, 0, exitCode)
	assert.Contains(t, stdout, "src/app/core/core.ts")
	assert.Contains(t, stdout, "dry run")

	assert.NoDirExists(t, filepath.Join(dir, "src", "app", "core"))
}

func TestGenerate_Structure(t *testing.T) {
	dir := setupProject(t)

	exitCode, _, _ := testcli.Main(t, []string{"roost", "generate", "enterprise-structure"}, nil, Run)
	require.Equal(t, 0, exitCode)

	assert.FileExists(t, filepath.Join(dir, "src", "app", "core", "core.ts"))
	assert.FileExists(t, filepath.Join(dir, "src", "app", "ui", ".gitkeep"))

	exitCode, stdout, _ := testcli.Main(t, []string{"roost", "generate", "enterprise-structure"}, nil, Run)
	require.Equal(t, 0, exitCode)
	assert.Contains(t, stdout, "Nothing to do")
}

func TestGenerate_EnvConfig(t *testing.T) {
	dir := setupProject(t)

	args := []string{"roost", "g", "env", "--api-url", "https://orders-uat-api.example.com"}
	exitCode, _, _ := testcli.Main(t, args, nil, Run)
	require.Equal(t, 0, exitCode)

	env, err := os.ReadFile(filepath.Join(dir, "src", "environments", "environment.prod.ts"))
	require.NoError(t, err)
	assert.Contains(t, string(env), "https://orders-api.example.com")

	pkg, err := os.ReadFile(filepath.Join(dir, "package.json"))
	require.NoError(t, err)
	assert.Contains(t, string(pkg), `"build:staging"`)
}

func TestGenerate_AuthSkipInstall(t *testing.T) {
	dir := setupProject(t)

	args := []string{"roost", "generate", "auth", "--add-auth", "--use-ngrx", "--install-ngrx", "--skip-install"}
	exitCode, stdout, _ := testcli.Main(t, args, nil, Run)
	require.Equal(t, 0, exitCode)
	assert.Contains(t, stdout, "Install @ngrx/store")

	assert.FileExists(t, filepath.Join(dir, "src", "app", "core", "auth", "auth.service.ts"))
	assert.FileExists(t, filepath.Join(dir, "src", "app", "core", "auth", "store", "auth.reducer.ts"))
}

func TestGenerate_NgrxInstallIsOptIn(t *testing.T) {
	dir := setupProject(t)

	exitCode, stdout, _ := testcli.Main(t, []string{"roost", "g", "auth", "--use-ngrx"}, nil, Run)
	require.Equal(t, 0, exitCode)
	assert.NotContains(t, stdout, "Install @ngrx/store")

	assert.FileExists(t, filepath.Join(dir, "src", "app", "core", "auth", "store", "auth.reducer.ts"))
}

func TestGenerate_NgrxWithoutPackageJSONWritesNothing(t *testing.T) {
	dir := testcli.MkdirTemp(t)
	testcli.Chdir(t, dir)

	args := []string{"roost", "generate", "auth", "--add-auth", "--use-ngrx", "--skip-install"}
	exitCode, stdout, _ := testcli.Main(t, args, nil, Run)
	assert.Equal(t, 1, exitCode)
	assert.Contains(t, stdout, "package.json")

	assert.NoDirExists(t, filepath.Join(dir, "src"))
}

func TestGenerate_FlagForOtherSchematic(t *testing.T) {
	setupProject(t)

	exitCode, stdout, _ := testcli.Main(t, []string{"roost", "g", "structure", "--use-ngrx"}, nil, Run)
	assert.Equal(t, 1, exitCode)
	assert.Contains(t, stdout, "--use-ngrx does not apply to enterprise-structure")
}

func TestGenerate_ConflictingStrategies(t *testing.T) {
	setupProject(t)

	exitCode, _, _ := testcli.Main(t, []string{"roost", "g", "structure", "--skip", "--diff"}, nil, Run)
	assert.Equal(t, 1, exitCode)
}

func TestGenerate_ConfigFile(t *testing.T) {
	dir := setupProject(t)
	testcli.WriteFile(t, "roost.yml", []byte("defaults:\n  add_auth: true\nskip_install: true\n"))

	exitCode, _, _ := testcli.Main(t, []string{"roost", "g", "auth"}, nil, Run)
	require.Equal(t, 0, exitCode)

	assert.FileExists(t, filepath.Join(dir, "src", "app", "core", "auth", "auth.service.ts"))
}
