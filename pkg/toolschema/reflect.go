package toolschema

import (
	"encoding/json"

	"github.com/invopop/jsonschema"
)

// FromStruct builds an ObjectSchema from a Go struct type's field tags,
// supplementing the DSL converter with a typed path for tools whose
// parameters are already expressed as Go structs (spec.md §6). It supports
// the same struct tags as the teacher's function-tool reflector:
//
//	json:"name"                      parameter name
//	json:",omitempty"                optional parameter
//	jsonschema:"required"             explicitly mark as required
//	jsonschema:"description=..."      parameter description
//	jsonschema:"enum=a|b|c"           allowed values
//	jsonschema:"minimum=N,maximum=M"  numeric bounds
func FromStruct[T any]() ObjectSchema {
	reflector := &jsonschema.Reflector{
		RequiredFromJSONSchemaTags: true,
		ExpandedStruct:             true,
		DoNotReference:             true,
	}

	raw := reflector.Reflect(new(T))

	data, err := json.Marshal(raw)
	if err != nil {
		return Empty()
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return Empty()
	}

	props, _ := m["properties"].(map[string]any)
	if props == nil {
		return Empty()
	}

	required, _ := toStringSlice(m["required"])

	properties := map[string]ParameterSchema{}
	for name, raw := range props {
		properties[name] = jsonSchemaMapToParameter(raw)
	}

	return ObjectSchema{Type: TypeObject, Properties: properties, Required: required}
}

func jsonSchemaMapToParameter(raw any) ParameterSchema {
	m, ok := raw.(map[string]any)
	if !ok {
		return ParameterSchema{Type: TypeString}
	}

	typeStr, _ := m["type"].(string)
	schema := ParameterSchema{
		Type:        ParamType(typeStr),
		Description: stringOr(m["description"]),
		Default:     m["default"],
		Pattern:     stringOr(m["pattern"]),
		Format:      stringOr(m["format"]),
	}

	if enum, ok := m["enum"].([]any); ok {
		schema.Enum = enum
	}
	if min, ok := numberOr(m["minimum"]); ok {
		schema.Minimum = &min
	}
	if max, ok := numberOr(m["maximum"]); ok {
		schema.Maximum = &max
	}

	if items, ok := m["items"].(map[string]any); ok {
		itemSchema := jsonSchemaMapToParameter(items)
		schema.Items = &itemSchema
	}

	if props, ok := m["properties"].(map[string]any); ok {
		nested := map[string]ParameterSchema{}
		for name, propRaw := range props {
			nested[name] = jsonSchemaMapToParameter(propRaw)
		}
		schema.Properties = nested
		schema.Required, _ = toStringSlice(m["required"])
	}

	if schema.Type == "" {
		schema.Type = TypeString
	}

	return schema
}

func stringOr(v any) string {
	s, _ := v.(string)
	return s
}

func numberOr(v any) (float64, bool) {
	f, ok := v.(float64)
	return f, ok
}

func toStringSlice(v any) ([]string, bool) {
	raw, ok := v.([]any)
	if !ok {
		return nil, false
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out, true
}
