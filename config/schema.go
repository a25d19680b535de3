package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

const characterSchema = "character.schema.json"

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

func characterSchemaCompiled() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		data, err := SchemaFS.ReadFile("schema/" + characterSchema)
		if err != nil {
			schemaErr = fmt.Errorf("config: load %s: %w", characterSchema, err)
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource(characterSchema, bytes.NewReader(data)); err != nil {
			schemaErr = fmt.Errorf("config: add %s: %w", characterSchema, err)
			return
		}
		schema, schemaErr = c.Compile(characterSchema)
	})
	return schema, schemaErr
}

// Validate checks a YAML character document against the embedded schema.
// An empty document is valid.
func Validate(data []byte) error {
	s, err := characterSchemaCompiled()
	if err != nil {
		return err
	}
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("config: parse: %w", err)
	}
	if doc == nil {
		doc = map[string]any{}
	}
	// round trip through JSON so the validator sees JSON types
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("config: parse: %w", err)
	}
	v, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("config: parse: %w", err)
	}
	return s.Validate(v)
}
