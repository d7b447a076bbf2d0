package workspace

import (
	"errors"
	"fmt"
)

// ErrNoTarget is returned when a project has no target to patch.
var ErrNoTarget = errors.New("target not found")

// EnvConfigurations are the build configurations written by
// PatchBuildConfigurations. Nil entries are left alone.
type EnvConfigurations struct {
	Production  map[string]any
	Staging     map[string]any
	Development map[string]any
}

// PatchBuildConfigurations updates the build target of p. Staging is always
// set; production and development replace existing entries only.
func PatchBuildConfigurations(p *Project, env EnvConfigurations) error {
	build := p.Target("build")
	if build == nil {
		return fmt.Errorf("project %s: build: %w", p.Name, ErrNoTarget)
	}

	if env.Production != nil {
		if _, ok := build.Configuration("production"); ok {
			build.SetConfiguration("production", env.Production)
		}
	}
	if env.Staging != nil {
		build.SetConfiguration("staging", env.Staging)
	}
	if env.Development != nil {
		if _, ok := build.Configuration("development"); ok {
			build.SetConfiguration("development", env.Development)
		}
	}
	return nil
}

// PatchServeStaging adds a staging configuration to the serve target that
// points at build:staging. It reports whether anything changed; serve
// targets without a configurations map are left alone.
func PatchServeStaging(p *Project) bool {
	serve := p.Target("serve")
	if serve == nil || !serve.HasConfigurations() {
		return false
	}
	if _, ok := serve.Configuration("staging"); ok {
		return false
	}
	serve.SetConfiguration("staging", map[string]any{
		"buildTarget": p.Name + ":build:staging",
	})
	return true
}
