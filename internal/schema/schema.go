// Package schema turns a store model into runtime-checkable JSON Schemas and
// validates documents and individual values against them. Validation is only
// active when the model opts into StrictTypes; undeclared variables are never
// rejected, matching the advisory nature of the model.
package schema

import (
	"fmt"

	"github.com/xeipuuv/gojsonschema"

	qyerrors "github.com/TFAGaming/quick-yaml.db/pkg/qydb/v1/errors"
	"github.com/TFAGaming/quick-yaml.db/pkg/qydb/v1/model"
)

// jsonTypeFor maps a model type tag to its JSON Schema type keyword. TypeAny
// maps to the empty string, meaning no constraint.
func jsonTypeFor(t model.Type) (string, error) {
	switch t {
	case model.TypeString:
		return "string", nil
	case model.TypeNumber:
		return "number", nil
	case model.TypeBoolean:
		return "boolean", nil
	case model.TypeNull:
		return "null", nil
	case model.TypeSequence:
		return "array", nil
	case model.TypeMapping:
		return "object", nil
	case model.TypeAny:
		return "", nil
	default:
		return "", fmt.Errorf("unknown model type '%s'", t)
	}
}

// Validator holds the compiled per-variable schemas for a model.
type Validator struct {
	schemas map[string]*gojsonschema.Schema
}

// NewValidator compiles the model's declarations. Declarations typed as
// TypeAny compile to no schema and are skipped at validation time.
func NewValidator(m *model.Model) (*Validator, error) {
	v := &Validator{schemas: make(map[string]*gojsonschema.Schema, len(m.Declarations))}
	for _, decl := range m.Declarations {
		jsonType, err := jsonTypeFor(decl.Type)
		if err != nil {
			return nil, qyerrors.NewValidationError(fmt.Sprintf("cannot build schema for variable '%s'", decl.Variable), err)
		}
		if jsonType == "" {
			continue
		}
		loader := gojsonschema.NewGoLoader(map[string]interface{}{"type": jsonType})
		compiled, err := gojsonschema.NewSchema(loader)
		if err != nil {
			return nil, qyerrors.NewValidationError(fmt.Sprintf("failed to compile schema for variable '%s'", decl.Variable), err)
		}
		v.schemas[decl.Variable] = compiled
	}
	return v, nil
}

// ValidateValue checks a single value against the declared shape of the
// variable. Undeclared variables and TypeAny declarations always pass.
func (v *Validator) ValidateValue(variable string, value interface{}) error {
	compiled, declared := v.schemas[variable]
	if !declared {
		return nil
	}

	// gojsonschema works with JSON-like Go data (maps, slices, scalars),
	// which is exactly what the YAML decoder produces.
	result, err := compiled.Validate(gojsonschema.NewGoLoader(value))
	if err != nil {
		return qyerrors.NewValidationError(fmt.Sprintf("schema validation process failed for variable '%s'", variable), err)
	}
	if !result.Valid() {
		errMsg := fmt.Sprintf("value for variable '%s' does not match its declared shape:", variable)
		for _, desc := range result.Errors() {
			errMsg += fmt.Sprintf("\n  - %s", desc.Description())
		}
		return qyerrors.NewValidationError(errMsg, nil)
	}
	return nil
}

// ValidateDocument checks every declared variable present in the mapping.
// Variables absent from the document pass; presence is not enforced.
func (v *Validator) ValidateDocument(values map[string]interface{}) error {
	for variable := range v.schemas {
		value, present := values[variable]
		if !present {
			continue
		}
		if err := v.ValidateValue(variable, value); err != nil {
			return err
		}
	}
	return nil
}
