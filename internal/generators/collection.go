// Package generators wires every schematic into the roost collection.
package generators

import (
	_ "embed"
	"fmt"
	"sync"

	"github.com/simonhull/roost/internal/generators/authfeatures"
	"github.com/simonhull/roost/internal/generators/envconfig"
	"github.com/simonhull/roost/internal/generators/structure"
	"github.com/simonhull/roost/internal/schematic"
)

//go:embed collection.yml
var manifest []byte

var (
	collection     *schematic.Collection
	collectionOnce sync.Once
	collectionErr  error
)

// Definitions maps schematic names to their schema and factory.
func Definitions() map[string]schematic.Definition {
	return map[string]schematic.Definition{
		"enterprise-structure": {Schema: structure.Schema, Factory: structure.Factory},
		"env-config":           {Schema: envconfig.Schema, Factory: envconfig.Factory},
		"auth-features":        {Schema: authfeatures.Schema, Factory: authfeatures.Factory},
	}
}

// Collection returns the built-in collection, loading it on first use.
func Collection() (*schematic.Collection, error) {
	collectionOnce.Do(func() {
		collection, collectionErr = schematic.LoadCollection(manifest, Definitions())
		if collectionErr != nil {
			collectionErr = fmt.Errorf("loading built-in collection: %w", collectionErr)
		}
	})
	return collection, collectionErr
}
