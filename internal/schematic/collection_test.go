package schematic_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simonhull/roost/internal/schematic"
	"github.com/simonhull/roost/internal/tree"
)

const testManifest = `
name: test
schematics:
  - name: greet
    description: Write a greeting.
    aliases: [hi]
  - name: noop
    description: Do nothing.
    hidden: true
`

const greetSchema = `{
  "type": "object",
  "additionalProperties": false,
  "properties": {
    "name": { "type": "string", "minLength": 1 },
    "loud": { "type": "boolean" }
  }
}`

type greetOptions struct {
	Name string `json:"name"`
	Loud bool   `json:"loud"`
}

func testDefinitions() map[string]schematic.Definition {
	return map[string]schematic.Definition{
		"greet": {
			Schema: []byte(greetSchema),
			Factory: func(options map[string]any) (schematic.Rule, error) {
				opts := greetOptions{Name: "world"}
				if err := schematic.Decode(options, &opts); err != nil {
					return nil, err
				}
				msg := "hello " + opts.Name
				if opts.Loud {
					msg += "!"
				}
				return func(_ *schematic.Context, t *tree.Tree) error {
					return schematic.EmitIfAbsent(t, "greeting.txt", []byte(msg))
				}, nil
			},
		},
		"noop": {
			Factory: func(map[string]any) (schematic.Rule, error) { return schematic.Noop, nil },
		},
	}
}

func TestLoadCollection(t *testing.T) {
	c, err := schematic.LoadCollection([]byte(testManifest), testDefinitions())
	require.NoError(t, err)

	assert.Equal(t, "test", c.Name)
	assert.Equal(t, []string{"greet", "noop"}, c.Names())

	e, ok := c.Lookup("hi")
	require.True(t, ok)
	assert.Equal(t, "greet", e.Name)
	assert.True(t, c.Entries()[1].Hidden)
}

func TestLoadCollection_Mismatch(t *testing.T) {
	defs := testDefinitions()
	delete(defs, "noop")
	_, err := schematic.LoadCollection([]byte(testManifest), defs)
	assert.ErrorContains(t, err, "no definition for schematic noop")

	defs = testDefinitions()
	defs["extra"] = schematic.Definition{Factory: defs["noop"].Factory}
	_, err = schematic.LoadCollection([]byte(testManifest), defs)
	assert.ErrorContains(t, err, "extra is not listed")

	_, err = schematic.LoadCollection([]byte("name: [broken"), testDefinitions())
	assert.Error(t, err)
}

func TestCollection_Run(t *testing.T) {
	c, err := schematic.LoadCollection([]byte(testManifest), testDefinitions())
	require.NoError(t, err)
	tr := tree.Empty()

	require.NoError(t, c.Run(schematic.NewContext(nil), "hi", map[string]any{"name": "roost", "loud": true}, tr))

	got, _ := tr.Read("greeting.txt")
	assert.Equal(t, "hello roost!", string(got))
}

func TestCollection_RunDefaults(t *testing.T) {
	c, err := schematic.LoadCollection([]byte(testManifest), testDefinitions())
	require.NoError(t, err)
	tr := tree.Empty()

	require.NoError(t, c.Run(schematic.NewContext(nil), "greet", nil, tr))

	got, _ := tr.Read("greeting.txt")
	assert.Equal(t, "hello world", string(got))
}

func TestCollection_RunErrors(t *testing.T) {
	c, err := schematic.LoadCollection([]byte(testManifest), testDefinitions())
	require.NoError(t, err)

	err = c.Run(schematic.NewContext(nil), "missing", nil, tree.Empty())
	assert.True(t, errors.Is(err, schematic.ErrUnknownSchematic))
	assert.ErrorContains(t, err, "greet, noop")

	err = c.Run(schematic.NewContext(nil), "greet", map[string]any{"colour": "red"}, tree.Empty())
	assert.True(t, errors.Is(err, schematic.ErrInvalidOptions))

	err = c.Run(schematic.NewContext(nil), "greet", map[string]any{"loud": "yes"}, tree.Empty())
	assert.True(t, errors.Is(err, schematic.ErrInvalidOptions))
}

func TestDecode(t *testing.T) {
	opts := greetOptions{Name: "default"}
	require.NoError(t, schematic.Decode(map[string]any{"loud": "true"}, &opts))
	assert.Equal(t, greetOptions{Name: "default", Loud: true}, opts)

	err := schematic.Decode(map[string]any{"unknown": 1}, &opts)
	assert.True(t, errors.Is(err, schematic.ErrInvalidOptions))
}
