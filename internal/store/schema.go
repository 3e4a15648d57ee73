package store

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

const schemaURL = "todos.schema.json"

//go:embed todos.schema.json
var collectionSchemaJSON []byte

var (
	collectionSchemaOnce sync.Once
	collectionSchema     *jsonschema.Schema
	collectionSchemaErr  error
)

func compiledCollectionSchema() (*jsonschema.Schema, error) {
	collectionSchemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.Draft = jsonschema.Draft2020
		if err := compiler.AddResource(schemaURL, bytes.NewReader(collectionSchemaJSON)); err != nil {
			collectionSchemaErr = err
			return
		}
		collectionSchema, collectionSchemaErr = compiler.Compile(schemaURL)
	})
	return collectionSchema, collectionSchemaErr
}

// ValidateCollection checks that b is a JSON array of item records.
func ValidateCollection(b []byte) error {
	sch, err := compiledCollectionSchema()
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	var doc any
	if err := json.Unmarshal(b, &doc); err != nil {
		return fmt.Errorf("parse: %w", err)
	}
	if err := sch.Validate(doc); err != nil {
		return fmt.Errorf("schema: %w", err)
	}
	return nil
}
