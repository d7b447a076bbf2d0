package tasks

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-git/go-billy/v5"

	"github.com/simonhull/roost/internal/exec"
)

// Package managers roost knows how to drive.
const (
	NPM  = "npm"
	Yarn = "yarn"
	PNPM = "pnpm"
	Bun  = "bun"
)

var lockFiles = []struct {
	file    string
	manager string
}{
	{"pnpm-lock.yaml", PNPM},
	{"yarn.lock", Yarn},
	{"bun.lockb", Bun},
	{"bun.lock", Bun},
	{"package-lock.json", NPM},
}

// DetectPackageManager picks a package manager from the lock file present
// in dir of fs, defaulting to npm.
func DetectPackageManager(fs billy.Filesystem, dir string) string {
	for _, lf := range lockFiles {
		p := lf.file
		if dir != "" && dir != "." {
			p = dir + "/" + lf.file
		}
		if _, err := fs.Stat(p); err == nil {
			return lf.manager
		}
	}
	return NPM
}

// NodePackageInstallTask installs npm packages after commit.
type NodePackageInstallTask struct {
	Packages       []string
	VersionRange   string // applied to every package when set, e.g. "^19.0.0"
	PackageManager string // npm when empty
	WorkingDir     string // relative to the executor's directory
}

func (t *NodePackageInstallTask) Name() string {
	return "install:" + strings.Join(t.Packages, ",")
}

func (t *NodePackageInstallTask) Description() string {
	return "Install " + strings.Join(t.Specs(), " ")
}

// Specs returns the package arguments, with the version range applied.
func (t *NodePackageInstallTask) Specs() []string {
	specs := make([]string, len(t.Packages))
	for i, p := range t.Packages {
		if t.VersionRange != "" {
			specs[i] = p + "@" + t.VersionRange
		} else {
			specs[i] = p
		}
	}
	return specs
}

// Command returns the package manager invocation.
func (t *NodePackageInstallTask) Command() (string, []string) {
	pm := t.PackageManager
	if pm == "" {
		pm = NPM
	}
	verb := "add"
	if pm == NPM {
		verb = "install"
	}
	return pm, append([]string{verb}, t.Specs()...)
}

func (t *NodePackageInstallTask) Run(ctx context.Context, e *exec.Executor) error {
	if len(t.Packages) == 0 {
		return nil
	}
	name, args := t.Command()
	runner := e
	if t.WorkingDir != "" && t.WorkingDir != "." {
		runner = e.In(t.WorkingDir)
	}
	if err := runner.RunWithSpinner(ctx, t.Description(), name, args...); err != nil {
		return fmt.Errorf("%s: %w", exec.String(name, args...), err)
	}
	return nil
}
