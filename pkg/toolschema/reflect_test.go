package toolschema

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type searchArgs struct {
	Query string `json:"query" jsonschema:"required,description=Search query"`
	Limit int    `json:"limit,omitempty" jsonschema:"description=Max results,minimum=1,maximum=100"`
}

func TestFromStruct_ReflectsRequiredAndDescriptions(t *testing.T) {
	schema := FromStruct[searchArgs]()

	assert.Equal(t, TypeObject, schema.Type)
	assert.Contains(t, schema.Required, "query")
	assert.NotContains(t, schema.Required, "limit")
	assert.Equal(t, "Search query", schema.Properties["query"].Description)
	assert.Equal(t, TypeString, schema.Properties["query"].Type)

	limit := schema.Properties["limit"]
	assert.Equal(t, TypeInteger, limit.Type)
	assert.NotNil(t, limit.Minimum)
	assert.Equal(t, float64(1), *limit.Minimum)
}

type emptyArgs struct{}

func TestFromStruct_EmptyStructYieldsNoProperties(t *testing.T) {
	schema := FromStruct[emptyArgs]()
	assert.Equal(t, TypeObject, schema.Type)
	assert.Empty(t, schema.Properties)
}
