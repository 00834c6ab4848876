package registry

import (
	"fmt"
	"sync"

	"github.com/suparena/userlookup/storagemodels"
)

// schemaRegistry holds the mapping from a record type name (like "users") to its schema.
var (
	schemaRegistry = make(map[string]storagemodels.Schema)
	schemaMu       sync.RWMutex
)

func init() {
	RegisterSchema(storagemodels.UserSchema)
}

// RegisterSchema registers a schema under its name.
// If a schema is already registered for the name, it panics to prevent accidental overrides.
func RegisterSchema(schema storagemodels.Schema) {
	if err := schema.Validate(); err != nil {
		panic(fmt.Sprintf("schema registry: %v", err))
	}

	schemaMu.Lock()
	defer schemaMu.Unlock()
	if _, exists := schemaRegistry[schema.Name]; exists {
		panic(fmt.Sprintf("schema registry: schema %q already registered", schema.Name))
	}
	schemaRegistry[schema.Name] = schema.Clone()
}

// GetSchema returns the schema registered under name.
// If no schema is registered, it returns an error.
func GetSchema(name string) (storagemodels.Schema, error) {
	schemaMu.RLock()
	defer schemaMu.RUnlock()
	s, ok := schemaRegistry[name]
	if !ok {
		return storagemodels.Schema{}, fmt.Errorf("schema registry: no schema registered for %q", name)
	}
	return s.Clone(), nil
}
