package contracts

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"log"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schemas/search-criteria/v1.json
var schemaFS embed.FS

var compiledSchemas = make(map[string]*jsonschema.Schema)

func init() {
	compiler := jsonschema.NewCompiler()
	compiler.AssertFormat = true

	schemaPath := "schemas/search-criteria/v1.json"
	raw, err := schemaFS.ReadFile(schemaPath)
	if err != nil {
		log.Fatalf("failed to read embedded schema %s: %v", schemaPath, err)
	}
	if err := compiler.AddResource(schemaPath, bytes.NewReader(raw)); err != nil {
		log.Fatalf("failed to register schema %s: %v", schemaPath, err)
	}
	schema, err := compiler.Compile(schemaPath)
	if err != nil {
		log.Fatalf("failed to compile schema %s: %v", schemaPath, err)
	}

	compiledSchemas["SearchCriteria/1.0.0"] = schema
}

// ValidateCriteria проверяет JSON, полученный от языковой модели,
// по схеме критериев поиска до разбора в доменный тип.
func ValidateCriteria(body []byte) error {
	schema, ok := compiledSchemas["SearchCriteria/1.0.0"]
	if !ok {
		return fmt.Errorf("schema for SearchCriteria version 1.0.0 not found")
	}

	// распарсить JSON в универсальный тип interface{}
	var v interface{}
	if err := json.Unmarshal(body, &v); err != nil {
		// Если это невалидный JSON, валидация по схеме невозможна
		return fmt.Errorf("criteria body is not a valid JSON: %w", err)
	}

	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("JSON schema validation failed: %w", err)
	}

	return nil
}
