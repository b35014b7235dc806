// Package toolschema implements the generic tool parameter schema, its
// validator, and two ways to build one: a DSL->schema converter for
// loosely-typed caller-supplied nodes, and struct reflection for
// Go-typed tool parameters (spec.md §4.4, §9).
package toolschema

// ParamType enumerates the parameter types the schema supports.
type ParamType string

const (
	TypeString  ParamType = "string"
	TypeNumber  ParamType = "number"
	TypeInteger ParamType = "integer"
	TypeBoolean ParamType = "boolean"
	TypeArray   ParamType = "array"
	TypeObject  ParamType = "object"
)

// ParameterSchema describes one tool parameter, matching spec.md §3.
type ParameterSchema struct {
	Type        ParamType
	Description string
	Enum        []any
	Items       *ParameterSchema
	Properties  map[string]ParameterSchema
	Required    []string
	Minimum     *float64
	Maximum     *float64
	Pattern     string
	Format      string
	Default     any
}

// ObjectSchema is the top-level "parameters" shape: always an object.
type ObjectSchema struct {
	Type       ParamType // always TypeObject
	Properties map[string]ParameterSchema
	Required   []string
}

// ToolSchema is the full schema surface for one tool, per spec.md §3.
type ToolSchema struct {
	Name        string
	Description string
	Parameters  ObjectSchema
}

// Empty returns the schema produced when a DSL node cannot be converted at
// all: an object with no properties and no required fields (spec.md §4.4).
func Empty() ObjectSchema {
	return ObjectSchema{Type: TypeObject, Properties: map[string]ParameterSchema{}}
}

// ValidTypes returns the set of ParamType values the registry accepts when
// validating a schema at registration time (spec.md §4.4 Registry.register).
func ValidTypes() map[ParamType]bool {
	return map[ParamType]bool{
		TypeString: true, TypeNumber: true, TypeInteger: true,
		TypeBoolean: true, TypeArray: true, TypeObject: true,
	}
}
