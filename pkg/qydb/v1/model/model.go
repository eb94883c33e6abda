// Package model defines the optional static schema a store can be constructed
// with: the legal variable set with value-shape tags, plus default values
// seeded once at construction.
package model

import (
	"fmt"

	qyerrors "github.com/TFAGaming/quick-yaml.db/pkg/qydb/v1/errors"
)

// Type tags a value shape in the document value domain. The domain mirrors
// the YAML scalar/sequence/mapping model.
type Type string

const (
	TypeString   Type = "string"
	TypeNumber   Type = "number"
	TypeBoolean  Type = "boolean"
	TypeNull     Type = "null"
	TypeSequence Type = "sequence"
	TypeMapping  Type = "mapping"
	// TypeAny places no constraint on the value shape.
	TypeAny Type = "any"
)

// knownTypes is the closed set of valid declaration tags.
var knownTypes = map[Type]struct{}{
	TypeString:   {},
	TypeNumber:   {},
	TypeBoolean:  {},
	TypeNull:     {},
	TypeSequence: {},
	TypeMapping:  {},
	TypeAny:      {},
}

// Valid reports whether t is a known type tag.
func (t Type) Valid() bool {
	_, ok := knownTypes[t]
	return ok
}

// TypeOf classifies a runtime value into its shape tag. Unrecognized Go types
// (which cannot come out of the YAML decoder) classify as TypeAny.
func TypeOf(v interface{}) Type {
	switch v.(type) {
	case nil:
		return TypeNull
	case bool:
		return TypeBoolean
	case string:
		return TypeString
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return TypeNumber
	case []interface{}:
		return TypeSequence
	case map[string]interface{}:
		return TypeMapping
	default:
		return TypeAny
	}
}

// Declaration names a legal variable and its expected value shape.
type Declaration struct {
	Variable string `yaml:"variable"`
	Type     Type   `yaml:"type"`
}

// Default pairs a variable with the value seeded for it at construction when
// the variable is not already present in the document.
type Default struct {
	Variable string      `yaml:"variable"`
	Value    interface{} `yaml:"value"`
}

// Model is the optional static schema for a store. It is fixed at
// construction and never mutated afterwards.
//
// The model is advisory by default: the store does not reject writes of
// undeclared variables. Its two runtime behaviors are default seeding
// (gated by SetValuesOnReady) and, when StrictTypes is set, shape validation
// of declared variables on load and on Set.
type Model struct {
	Declarations []Declaration
	Defaults     []Default

	// SetValuesOnReady gates the one-time default seeding at construction.
	// Defaults never overwrite values already present in the document.
	SetValuesOnReady bool

	// StrictTypes enables runtime shape validation of declared variables.
	StrictTypes bool
}

// Validate checks the model for internal consistency: unique variable names
// and known type tags.
func (m *Model) Validate() error {
	seen := make(map[string]struct{}, len(m.Declarations))
	for _, decl := range m.Declarations {
		if decl.Variable == "" {
			return qyerrors.NewValidationError("model declaration has an empty variable name", nil)
		}
		if _, dup := seen[decl.Variable]; dup {
			return qyerrors.NewValidationError(fmt.Sprintf("model declares variable '%s' more than once", decl.Variable), nil)
		}
		seen[decl.Variable] = struct{}{}
		if !decl.Type.Valid() {
			return qyerrors.NewValidationError(fmt.Sprintf("model declares variable '%s' with unknown type '%s'", decl.Variable, decl.Type), nil)
		}
	}
	for _, def := range m.Defaults {
		if def.Variable == "" {
			return qyerrors.NewValidationError("model default has an empty variable name", nil)
		}
	}
	return nil
}

// DeclarationOf returns the declaration for the given variable, if any.
func (m *Model) DeclarationOf(variable string) (Declaration, bool) {
	for _, decl := range m.Declarations {
		if decl.Variable == variable {
			return decl, true
		}
	}
	return Declaration{}, false
}
