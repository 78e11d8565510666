package prefabs

import (
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

//go:embed schemas/element.schema.json
var elementSchemaJSON string

const elementSchemaURL = "https://kickbomb.local/schemas/element.schema.json"

// CompileElementSchema compiles the embedded element metadata schema.
func CompileElementSchema() (*jsonschema.Schema, error) {
	schema, err := jsonschema.CompileString(elementSchemaURL, elementSchemaJSON)
	if err != nil {
		return nil, fmt.Errorf("prefabs: compile element schema: %w", err)
	}
	return schema, nil
}

// ValidateYAML checks a YAML document against schema. The document goes
// through JSON first so numbers and maps have the shapes the validator
// expects.
func ValidateYAML(schema *jsonschema.Schema, data []byte) error {
	if schema == nil {
		return nil
	}
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return err
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	var normalized any
	if err := json.Unmarshal(raw, &normalized); err != nil {
		return err
	}
	return schema.Validate(normalized)
}
