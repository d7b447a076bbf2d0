package workspace

import (
	"path"
	"sort"
)

// Project is one entry of the workspace projects map. Mutations through
// its targets are visible to the owning Workspace.
type Project struct {
	Name string
	doc  map[string]any
}

// Root returns the project root, "" for the workspace root.
func (p *Project) Root() string {
	s, _ := p.doc["root"].(string)
	return s
}

// SourceRoot returns sourceRoot, defaulting to <root>/src.
func (p *Project) SourceRoot() string {
	if s, ok := p.doc["sourceRoot"].(string); ok && s != "" {
		return s
	}
	if root := p.Root(); root != "" {
		return path.Join(root, "src")
	}
	return "src"
}

// PackageJSONPath returns the package.json path for the project.
func (p *Project) PackageJSONPath() string {
	return path.Join(p.Root(), "package.json")
}

func (p *Project) targets() map[string]any {
	for _, key := range []string{"architect", "targets"} {
		if m, ok := p.doc[key].(map[string]any); ok {
			return m
		}
	}
	return nil
}

// TargetNames returns the names of the project's targets, sorted.
func (p *Project) TargetNames() []string {
	var names []string
	for name := range p.targets() {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Target returns the named target from architect (or targets), or nil.
func (p *Project) Target(name string) *Target {
	m, ok := p.targets()[name].(map[string]any)
	if !ok {
		return nil
	}
	return &Target{Name: name, doc: m}
}

// Target is an architect target such as build or serve.
type Target struct {
	Name string
	doc  map[string]any
}

// Builder returns the builder id, e.g. "@angular/build:application".
func (t *Target) Builder() string {
	s, _ := t.doc["builder"].(string)
	return s
}

// HasConfigurations reports whether the target declares a configurations map.
func (t *Target) HasConfigurations() bool {
	_, ok := t.doc["configurations"].(map[string]any)
	return ok
}

func (t *Target) configurations(create bool) map[string]any {
	m, ok := t.doc["configurations"].(map[string]any)
	if !ok && create {
		m = map[string]any{}
		t.doc["configurations"] = m
	}
	return m
}

// Configuration returns the named configuration.
func (t *Target) Configuration(name string) (map[string]any, bool) {
	m, ok := t.configurations(false)[name].(map[string]any)
	return m, ok
}

// SetConfiguration replaces the named configuration, creating the
// configurations map when missing.
func (t *Target) SetConfiguration(name string, cfg map[string]any) {
	t.configurations(true)[name] = cfg
}
