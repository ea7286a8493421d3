/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * Licensed under the Apache License, Version 2.0.
 */

package storage

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"

	gojsonschema "github.com/xeipuuv/gojsonschema"
)

// The canonical manifest schema ships inside the binary so `check` works
// against any studio directory without a repo checkout nearby.
//
//go:embed studio.schema.json
var studioSchemaJSON []byte

// StudioSchemaJSON returns the embedded JSON Schema for studio manifests.
func StudioSchemaJSON() []byte { return studioSchemaJSON }

// ValidateManifest checks raw manifest bytes against the embedded studio
// schema. All violations are collected into a single error.
func ValidateManifest(data []byte) error {
	schemaLoader := gojsonschema.NewBytesLoader(studioSchemaJSON)
	docLoader := gojsonschema.NewBytesLoader(data)
	result, err := gojsonschema.Validate(schemaLoader, docLoader)
	if err != nil {
		return fmt.Errorf("schema validate: %w", err)
	}
	if result.Valid() {
		return nil
	}
	var sb strings.Builder
	sb.WriteString("manifest does not conform to schema:")
	for _, e := range result.Errors() {
		sb.WriteString("\n  ")
		sb.WriteString(e.String())
	}
	return errors.New(sb.String())
}
