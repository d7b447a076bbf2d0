package schematic

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/santhosh-tekuri/jsonschema/v6"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/simonhull/roost/internal/tree"
)

// ErrUnknownSchematic is returned for names that match no schematic or alias.
var ErrUnknownSchematic = errors.New("unknown schematic")

// ErrInvalidOptions is returned when options do not match a schematic's schema.
var ErrInvalidOptions = errors.New("invalid options")

// Factory builds the rule for one run from validated options.
type Factory func(options map[string]any) (Rule, error)

// Definition is the code side of a schematic: its option schema (JSON
// Schema) and factory.
type Definition struct {
	Schema  []byte
	Factory Factory
}

// Entry is one schematic of a collection.
type Entry struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Aliases     []string `yaml:"aliases"`
	Hidden      bool     `yaml:"hidden"`

	factory Factory
	schema  *jsonschema.Schema
}

type manifest struct {
	Name       string   `yaml:"name"`
	Schematics []*Entry `yaml:"schematics"`
}

// Collection is an ordered set of schematics loaded from a YAML manifest.
type Collection struct {
	Name    string
	entries []*Entry
	byName  map[string]*Entry
}

// LoadCollection parses the manifest and binds each entry to its
// definition. Every entry needs a definition and every definition an entry.
func LoadCollection(data []byte, defs map[string]Definition) (*Collection, error) {
	var m manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing collection manifest: %w", err)
	}

	c := &Collection{Name: m.Name, byName: make(map[string]*Entry)}
	bound := make(map[string]bool)

	for _, e := range m.Schematics {
		if e.Name == "" {
			return nil, fmt.Errorf("collection %s: schematic without a name", m.Name)
		}
		def, ok := defs[e.Name]
		if !ok || def.Factory == nil {
			return nil, fmt.Errorf("collection %s: no definition for schematic %s", m.Name, e.Name)
		}
		schema, err := compileSchema(e.Name, def.Schema)
		if err != nil {
			return nil, err
		}
		e.factory = def.Factory
		e.schema = schema

		for _, key := range append([]string{e.Name}, e.Aliases...) {
			if _, dup := c.byName[key]; dup {
				return nil, fmt.Errorf("collection %s: duplicate schematic name or alias %s", m.Name, key)
			}
			c.byName[key] = e
		}
		bound[e.Name] = true
		c.entries = append(c.entries, e)
	}

	for name := range defs {
		if !bound[name] {
			return nil, fmt.Errorf("collection %s: schematic %s is not listed in the manifest", m.Name, name)
		}
	}
	return c, nil
}

func compileSchema(name string, data []byte) (*jsonschema.Schema, error) {
	if len(data) == 0 {
		return nil, nil
	}
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("schematic %s: unmarshaling schema JSON: %w", name, err)
	}
	c := jsonschema.NewCompiler()
	url := name + ".schema.json"
	if err := c.AddResource(url, doc); err != nil {
		return nil, fmt.Errorf("schematic %s: adding schema resource: %w", name, err)
	}
	schema, err := c.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("schematic %s: compiling schema: %w", name, err)
	}
	return schema, nil
}

// Entries returns the schematics in manifest order, hidden ones included.
func (c *Collection) Entries() []*Entry {
	out := make([]*Entry, len(c.entries))
	copy(out, c.entries)
	return out
}

// Lookup finds a schematic by name or alias.
func (c *Collection) Lookup(name string) (*Entry, bool) {
	e, ok := c.byName[name]
	return e, ok
}

// Names returns the primary names of all schematics.
func (c *Collection) Names() []string {
	names := make([]string, len(c.entries))
	for i, e := range c.entries {
		names[i] = e.Name
	}
	return names
}

// Validate checks options against the schematic's schema.
func (e *Entry) Validate(options map[string]any) error {
	if e.schema == nil {
		return nil
	}
	if options == nil {
		options = map[string]any{}
	}
	if err := e.schema.Validate(options); err != nil {
		return fmt.Errorf("%s: %w: %v", e.Name, ErrInvalidOptions, err)
	}
	return nil
}

// Rule validates options and builds the rule for one run.
func (e *Entry) Rule(options map[string]any) (Rule, error) {
	if err := e.Validate(options); err != nil {
		return nil, err
	}
	return e.factory(options)
}

// Run looks up name, builds its rule from options and applies it to t.
func (c *Collection) Run(ctx *Context, name string, options map[string]any, t *tree.Tree) error {
	e, ok := c.Lookup(name)
	if !ok {
		return fmt.Errorf("%w: %s (available: %s)", ErrUnknownSchematic, name, strings.Join(c.Names(), ", "))
	}
	rule, err := e.Rule(options)
	if err != nil {
		return err
	}
	ctx.Logger.Debug("running schematic", zap.String("schematic", e.Name), zap.Any("options", options))
	if err := rule(ctx, t); err != nil {
		return fmt.Errorf("%s: %w", e.Name, err)
	}
	return nil
}

// Decode copies options onto out, a pointer to an options struct whose
// fields carry `json` tags matching the schema property names. Fields
// absent from options keep their current values, so callers pre-fill
// defaults.
func Decode(options map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		TagName:          "json",
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return fmt.Errorf("options decoder: %w", err)
	}
	if err := dec.Decode(options); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidOptions, err)
	}
	return nil
}
