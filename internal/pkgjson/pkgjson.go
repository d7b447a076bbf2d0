// Package pkgjson reads and patches package.json documents held in a tree.
package pkgjson

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/ohler55/ojg/jp"

	"github.com/simonhull/roost/internal/jsondoc"
	"github.com/simonhull/roost/internal/tree"
)

// ErrNotFound is returned when no package.json exists at the given path.
var ErrNotFound = errors.New("package.json not found")

var dependencySections = []string{"dependencies", "devDependencies", "peerDependencies"}

// PackageJSON is a parsed package.json document.
type PackageJSON struct {
	doc   map[string]any
	order jsondoc.Order
}

// Parse parses raw package.json content. The document must be a JSON object.
func Parse(data []byte) (*PackageJSON, error) {
	v, order, err := jsondoc.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse package.json: %w", err)
	}
	doc, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("parse package.json: top level is %T, not an object", v)
	}
	return &PackageJSON{doc: doc, order: order}, nil
}

// Read loads the package.json at path from t.
func Read(t *tree.Tree, path string) (*PackageJSON, error) {
	data, ok := t.Read(path)
	if !ok {
		return nil, fmt.Errorf("%s: %w", tree.Normalize(path), ErrNotFound)
	}
	p, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", tree.Normalize(path), err)
	}
	return p, nil
}

// Name returns the package name, or "" if unset.
func (p *PackageJSON) Name() string {
	s, _ := p.doc["name"].(string)
	return s
}

// HasDependency reports whether name appears in any dependency section.
func (p *PackageJSON) HasDependency(name string) bool {
	_, ok := p.DependencyVersion(name)
	return ok
}

// DependencyVersion returns the declared version range of name.
func (p *PackageJSON) DependencyVersion(name string) (string, bool) {
	for _, section := range dependencySections {
		if v, ok := jp.C(section).C(name).First(p.doc).(string); ok {
			return v, true
		}
	}
	return "", false
}

// MajorVersion returns the major version of the declared range of name,
// e.g. 19 for "^19.2.0".
func (p *PackageJSON) MajorVersion(name string) (uint64, error) {
	raw, ok := p.DependencyVersion(name)
	if !ok {
		return 0, fmt.Errorf("dependency %s not declared", name)
	}
	v, err := semver.NewVersion(lowerBound(raw))
	if err != nil {
		return 0, fmt.Errorf("dependency %s: version %q: %w", name, raw, err)
	}
	return v.Major(), nil
}

// CompatibleRange returns a caret range on the major version of name,
// e.g. "^19.0.0", or "" when the version cannot be determined.
func (p *PackageJSON) CompatibleRange(name string) string {
	major, err := p.MajorVersion(name)
	if err != nil {
		return ""
	}
	return fmt.Sprintf("^%d.0.0", major)
}

// lowerBound reduces a range such as "^19.2.0", ">=18 <20" or "19.x" to a
// parsable version.
func lowerBound(r string) string {
	r = strings.TrimSpace(r)
	if i := strings.IndexAny(r, " |"); i >= 0 {
		r = r[:i]
	}
	r = strings.TrimLeft(r, "^~>=<v")
	r = strings.NewReplacer(".x", ".0", ".X", ".0", ".*", ".0").Replace(r)
	return r
}

// Scripts returns a copy of the scripts section.
func (p *PackageJSON) Scripts() map[string]string {
	out := map[string]string{}
	scripts, _ := p.doc["scripts"].(map[string]any)
	for k, v := range scripts {
		if s, ok := v.(string); ok {
			out[k] = s
		}
	}
	return out
}

// SetScript sets scripts.name, creating the section when missing.
func (p *PackageJSON) SetScript(name, cmd string) error {
	if _, ok := p.doc["scripts"].(map[string]any); !ok {
		p.doc["scripts"] = map[string]any{}
	}
	if err := jp.C("scripts").C(name).Set(p.doc, cmd); err != nil {
		return fmt.Errorf("set script %s: %w", name, err)
	}
	return nil
}

// Bytes renders the document with two-space indentation. Keys keep the
// order they were read in; added keys follow, sorted.
func (p *PackageJSON) Bytes() []byte {
	return jsondoc.Marshal(p.doc, p.order)
}

// Write stores the document at path, creating the file if needed.
func (p *PackageJSON) Write(t *tree.Tree, path string) error {
	if t.Exists(path) {
		return t.Overwrite(path, p.Bytes())
	}
	return t.Create(path, p.Bytes())
}
