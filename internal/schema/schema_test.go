package schema_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TFAGaming/quick-yaml.db/internal/schema"
	qyerrors "github.com/TFAGaming/quick-yaml.db/pkg/qydb/v1/errors"
	"github.com/TFAGaming/quick-yaml.db/pkg/qydb/v1/model"
)

func newValidator(t *testing.T) *schema.Validator {
	t.Helper()
	v, err := schema.NewValidator(&model.Model{
		Declarations: []model.Declaration{
			{Variable: "name", Type: model.TypeString},
			{Variable: "age", Type: model.TypeNumber},
			{Variable: "alive", Type: model.TypeBoolean},
			{Variable: "tombstone", Type: model.TypeNull},
			{Variable: "tags", Type: model.TypeSequence},
			{Variable: "profile", Type: model.TypeMapping},
			{Variable: "anything", Type: model.TypeAny},
		},
	})
	require.NoError(t, err)
	return v
}

func TestValidateValueAcceptsDeclaredShapes(t *testing.T) {
	v := newValidator(t)

	cases := []struct {
		variable string
		value    interface{}
	}{
		{"name", "John"},
		{"age", 24},
		{"age", 3.5},
		{"alive", true},
		{"tombstone", nil},
		{"tags", []interface{}{"a", "b"}},
		{"profile", map[string]interface{}{"k": "v"}},
		{"anything", "whatever"},
		{"anything", []interface{}{1}},
	}
	for _, tc := range cases {
		assert.NoError(t, v.ValidateValue(tc.variable, tc.value), "%s should accept %v", tc.variable, tc.value)
	}
}

func TestValidateValueRejectsWrongShapes(t *testing.T) {
	v := newValidator(t)

	cases := []struct {
		variable string
		value    interface{}
	}{
		{"name", 42},
		{"age", "old"},
		{"alive", "yes"},
		{"tombstone", "present"},
		{"tags", map[string]interface{}{}},
		{"profile", []interface{}{}},
	}
	for _, tc := range cases {
		err := v.ValidateValue(tc.variable, tc.value)
		require.Error(t, err, "%s should reject %v", tc.variable, tc.value)
		var valErr *qyerrors.ValidationError
		assert.ErrorAs(t, err, &valErr)
	}
}

func TestValidateValueIgnoresUndeclaredVariables(t *testing.T) {
	v := newValidator(t)
	assert.NoError(t, v.ValidateValue("undeclared", []interface{}{"any", "shape"}))
}

func TestValidateDocument(t *testing.T) {
	v := newValidator(t)

	assert.NoError(t, v.ValidateDocument(map[string]interface{}{
		"name":  "John",
		"age":   24,
		"extra": "undeclared variables pass",
	}))

	// Declared variables absent from the document also pass.
	assert.NoError(t, v.ValidateDocument(map[string]interface{}{}))

	err := v.ValidateDocument(map[string]interface{}{
		"name": "John",
		"age":  "not-a-number",
	})
	require.Error(t, err)
}
