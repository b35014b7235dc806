package toolschema

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func weatherSchema() ObjectSchema {
	return ObjectSchema{
		Type: TypeObject,
		Properties: map[string]ParameterSchema{
			"city":  {Type: TypeString},
			"units": {Type: TypeString, Enum: []any{"metric", "imperial"}},
			"days":  {Type: TypeInteger},
		},
		Required: []string{"city"},
	}
}

func TestValidate_PassesWithRequiredPresent(t *testing.T) {
	result := Validate(map[string]any{"city": "Boston"}, weatherSchema(), DefaultOptions())
	assert.True(t, result.IsValid)
	assert.Empty(t, result.Errors)
}

func TestValidate_FailsWithMissingRequired(t *testing.T) {
	result := Validate(map[string]any{}, weatherSchema(), DefaultOptions())
	assert.False(t, result.IsValid)
	assert.Len(t, result.Errors, 1)
}

func TestValidate_FailsWithWrongType(t *testing.T) {
	result := Validate(map[string]any{"city": 42}, weatherSchema(), DefaultOptions())
	assert.False(t, result.IsValid)
}

func TestValidate_FailsWithEnumViolation(t *testing.T) {
	result := Validate(map[string]any{"city": "Boston", "units": "kelvin"}, weatherSchema(), DefaultOptions())
	assert.False(t, result.IsValid)
}

func TestValidate_AcceptsJSONFloatAsInteger(t *testing.T) {
	result := Validate(map[string]any{"city": "Boston", "days": float64(3)}, weatherSchema(), DefaultOptions())
	assert.True(t, result.IsValid)
}

func TestValidate_RejectsNonWholeFloatAsInteger(t *testing.T) {
	result := Validate(map[string]any{"city": "Boston", "days": 3.5}, weatherSchema(), DefaultOptions())
	assert.False(t, result.IsValid)
}

func TestValidate_StrictModeRejectsUnknownKeys(t *testing.T) {
	result := Validate(map[string]any{"city": "Boston", "extra": "nope"}, weatherSchema(), DefaultOptions())
	assert.False(t, result.IsValid)
}

func TestValidate_NonStrictModeAllowsUnknownKeys(t *testing.T) {
	result := Validate(map[string]any{"city": "Boston", "extra": "fine"}, weatherSchema(), Options{Strict: false})
	assert.True(t, result.IsValid)
}

func TestValidate_RecursesIntoNestedArrayItems(t *testing.T) {
	schema := ObjectSchema{
		Type: TypeObject,
		Properties: map[string]ParameterSchema{
			"tags": {Type: TypeArray, Items: &ParameterSchema{Type: TypeString}},
		},
	}

	valid := Validate(map[string]any{"tags": []any{"a", "b"}}, schema, DefaultOptions())
	assert.True(t, valid.IsValid)

	invalid := Validate(map[string]any{"tags": []any{"a", 2}}, schema, DefaultOptions())
	assert.False(t, invalid.IsValid)
}

func TestValidate_RecursesIntoNestedObjectProperties(t *testing.T) {
	schema := ObjectSchema{
		Type: TypeObject,
		Properties: map[string]ParameterSchema{
			"address": {
				Type:       TypeObject,
				Properties: map[string]ParameterSchema{"zip": {Type: TypeString}},
				Required:   []string{"zip"},
			},
		},
	}

	valid := Validate(map[string]any{"address": map[string]any{"zip": "02134"}}, schema, DefaultOptions())
	assert.True(t, valid.IsValid)

	missing := Validate(map[string]any{"address": map[string]any{}}, schema, DefaultOptions())
	assert.False(t, missing.IsValid)
}

func TestValidate_IgnoresNilValues(t *testing.T) {
	result := Validate(map[string]any{"city": "Boston", "units": nil}, weatherSchema(), DefaultOptions())
	assert.True(t, result.IsValid)
}
