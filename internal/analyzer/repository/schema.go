package repository

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

//go:embed catalog.schema.json
var catalogSchemaJSON []byte

var catalogSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("catalog.schema.json", bytes.NewReader(catalogSchemaJSON)); err != nil {
		return nil, fmt.Errorf("add schema: %w", err)
	}
	return compiler.Compile("catalog.schema.json")
})

// validateCatalog checks a YAML catalog document against the catalog schema.
// An empty document is valid.
func validateCatalog(data []byte) error {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decode catalog: %w", err)
	}
	if raw == nil {
		return nil
	}

	// Round-trip through JSON so the validator only sees JSON types.
	b, err := json.Marshal(raw)
	if err != nil {
		return fmt.Errorf("%w: catalog must be a mapping: %v", ErrInvalidMaterial, err)
	}
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return fmt.Errorf("decode catalog: %w", err)
	}

	schema, err := catalogSchema()
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidMaterial, err)
	}
	return nil
}
