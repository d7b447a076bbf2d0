// Package workspace reads, resolves and patches Angular workspace files
// (angular.json) through a Host.
package workspace

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/simonhull/roost/internal/jsondoc"
)

// ErrNotFound is returned when no workspace file exists.
var ErrNotFound = errors.New("workspace file not found")

// ErrInvalid is returned when the workspace file does not match the
// workspace schema.
var ErrInvalid = errors.New("invalid workspace file")

// FileNames are the workspace file names tried, in order.
var FileNames = []string{"angular.json", ".angular.json"}

//go:embed schema/workspace.schema.json
var schemaBytes []byte

var (
	compiledSchema *jsonschema.Schema
	compileOnce    sync.Once
	compileErr     error
)

func getSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaBytes))
		if err != nil {
			compileErr = fmt.Errorf("unmarshaling schema JSON: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource("workspace.schema.json", doc); err != nil {
			compileErr = fmt.Errorf("adding schema resource: %w", err)
			return
		}
		compiledSchema, compileErr = c.Compile("workspace.schema.json")
		if compileErr != nil {
			compileErr = fmt.Errorf("compiling schema: %w", compileErr)
		}
	})
	return compiledSchema, compileErr
}

// Workspace is a parsed workspace file.
type Workspace struct {
	path  string
	doc   map[string]any
	order jsondoc.Order
}

// Read loads and validates the first workspace file found through h.
func Read(h Host) (*Workspace, error) {
	for _, name := range FileNames {
		if !h.IsFile(name) {
			continue
		}
		data, err := h.ReadFile(name)
		if err != nil {
			return nil, err
		}
		return Parse(name, data)
	}
	return nil, ErrNotFound
}

// Parse validates data against the workspace schema and parses it. path
// is where Write will store the document.
func Parse(path string, data []byte) (*Workspace, error) {
	schema, err := getSchema()
	if err != nil {
		return nil, fmt.Errorf("loading schema: %w", err)
	}
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: parse: %w", path, err)
	}
	if err := schema.Validate(inst); err != nil {
		return nil, fmt.Errorf("%s: %w: %v", path, ErrInvalid, err)
	}

	v, order, err := jsondoc.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: parse: %w", path, err)
	}
	return &Workspace{path: path, doc: v.(map[string]any), order: order}, nil
}

// Path returns the file the workspace was read from.
func (w *Workspace) Path() string {
	return w.path
}

func (w *Workspace) projects() map[string]any {
	m, _ := w.doc["projects"].(map[string]any)
	return m
}

// ProjectNames returns every project name, sorted.
func (w *Workspace) ProjectNames() []string {
	names := make([]string, 0, len(w.projects()))
	for name := range w.projects() {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultProject returns the defaultProject entry, or the only project
// when the workspace has exactly one. It returns "" otherwise.
func (w *Workspace) DefaultProject() string {
	if s, ok := w.doc["defaultProject"].(string); ok && s != "" {
		return s
	}
	if names := w.ProjectNames(); len(names) == 1 {
		return names[0]
	}
	return ""
}

// Project returns the named project, or nil.
func (w *Workspace) Project(name string) *Project {
	m, ok := w.projects()[name].(map[string]any)
	if !ok {
		return nil
	}
	return &Project{Name: name, doc: m}
}

// Resolve picks the explicitly named project, else the default project.
// It returns nil when neither resolves; an unknown explicit name never
// falls back to the default.
func Resolve(w *Workspace, explicit string) *Project {
	if w == nil {
		return nil
	}
	if explicit != "" {
		return w.Project(explicit)
	}
	if name := w.DefaultProject(); name != "" {
		return w.Project(name)
	}
	return nil
}

// Bytes renders the workspace with two-space indentation, keeping the key
// order of the file it was read from.
func (w *Workspace) Bytes() []byte {
	return jsondoc.Marshal(w.doc, w.order)
}

// Write stores the workspace back where it was read from.
func Write(h Host, w *Workspace) error {
	if err := h.WriteFile(w.path, w.Bytes()); err != nil {
		return fmt.Errorf("write %s: %w", w.path, err)
	}
	return nil
}
