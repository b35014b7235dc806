package toolschema

import "github.com/mitchellh/mapstructure"

// dslNode is the intermediate, typed shape every raw DSL node is decoded
// into via mapstructure before conversion. It models a Zod-like schema
// builder's JSON/map representation: primitive nodes carry Type directly;
// wrapper nodes (Type == "optional"/"nullable"/"default") carry an Inner
// node; "object" nodes carry Shape (or the "properties" alias); "array"
// nodes carry Items; "enum" nodes carry Values.
type dslNode struct {
	Type        string         `mapstructure:"type"`
	Description string         `mapstructure:"description"`
	Inner       map[string]any `mapstructure:"inner"`
	Shape       map[string]any `mapstructure:"shape"`
	Properties  map[string]any `mapstructure:"properties"`
	Items       map[string]any `mapstructure:"items"`
	Values      []any          `mapstructure:"values"`
	Enum        []any          `mapstructure:"enum"`
	Default     any            `mapstructure:"default"`
	Minimum     *float64       `mapstructure:"minimum"`
	Maximum     *float64       `mapstructure:"maximum"`
	Pattern     string         `mapstructure:"pattern"`
	Format      string         `mapstructure:"format"`
}

func decodeNode(raw any) (dslNode, bool) {
	m, ok := raw.(map[string]any)
	if !ok {
		return dslNode{}, false
	}

	var node dslNode
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &node,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return dslNode{}, false
	}
	if err := decoder.Decode(m); err != nil {
		return dslNode{}, false
	}
	return node, true
}

// Converter turns a nested, Zod-like DSL shape into the generic ToolSchema.
// It is total: it never panics or returns an error, falling back to a
// string-typed field (preserving description) or the empty object schema
// when a node cannot be understood, per spec.md §4.4 and §9.
type Converter struct{}

// NewConverter constructs a Converter. It carries no state; the type exists
// so call sites read as `toolschema.NewConverter().Convert(...)` alongside
// the rest of the runtime's constructor-based packages.
func NewConverter() *Converter { return &Converter{} }

// Convert walks the top-level DSL node's shape() and produces the generic
// ObjectSchema. The top-level node is expected to describe an object (the
// tool's parameter bag); anything else converts to the empty schema.
func (c *Converter) Convert(raw map[string]any) ObjectSchema {
	node, ok := decodeNode(raw)
	if !ok {
		return Empty()
	}

	shape := firstNonEmpty(node.Shape, node.Properties)
	if shape == nil {
		return Empty()
	}

	props := map[string]ParameterSchema{}
	var required []string

	for name, fieldRaw := range shape {
		schema, isRequired, ok := c.convertNode(fieldRaw)
		if !ok {
			continue
		}
		props[name] = schema
		if isRequired {
			required = append(required, name)
		}
	}

	return ObjectSchema{Type: TypeObject, Properties: props, Required: required}
}

// convertNode converts one DSL field node into a ParameterSchema and
// reports whether the field is required. ok is false only when raw is not
// shaped like a DSL node at all (e.g. nil); convertNode still never panics.
func (c *Converter) convertNode(raw any) (ParameterSchema, bool, bool) {
	node, ok := decodeNode(raw)
	if !ok {
		return ParameterSchema{}, false, false
	}

	switch node.Type {
	case "optional", "nullable":
		inner, _, innerOK := c.convertNode(map[string]any(node.Inner))
		if !innerOK {
			inner = ParameterSchema{Type: TypeString}
		}
		if node.Description != "" {
			inner.Description = node.Description
		}
		return inner, false, true

	case "default":
		inner, _, innerOK := c.convertNode(map[string]any(node.Inner))
		if !innerOK {
			inner = ParameterSchema{Type: TypeString}
		}
		inner.Default = node.Default
		if node.Description != "" {
			inner.Description = node.Description
		}
		return inner, false, true

	case "enum":
		values := firstNonEmptySlice(node.Values, node.Enum)
		return ParameterSchema{Type: TypeString, Description: node.Description, Enum: values}, true, true

	case "string", "number", "integer", "boolean":
		return ParameterSchema{
			Type:        ParamType(node.Type),
			Description: node.Description,
			Enum:        node.Enum,
			Minimum:     node.Minimum,
			Maximum:     node.Maximum,
			Pattern:     node.Pattern,
			Format:      node.Format,
		}, true, true

	case "array":
		items, _, itemsOK := c.convertNode(map[string]any(node.Items))
		var itemsPtr *ParameterSchema
		if itemsOK {
			itemsPtr = &items
		}
		return ParameterSchema{Type: TypeArray, Description: node.Description, Items: itemsPtr}, true, true

	case "object":
		nestedShape := firstNonEmpty(node.Shape, node.Properties)
		props := map[string]ParameterSchema{}
		var required []string
		for name, fieldRaw := range nestedShape {
			fieldSchema, fieldRequired, fieldOK := c.convertNode(fieldRaw)
			if !fieldOK {
				continue
			}
			props[name] = fieldSchema
			if fieldRequired {
				required = append(required, name)
			}
		}
		return ParameterSchema{Type: TypeObject, Description: node.Description, Properties: props, Required: required}, true, true

	default:
		// Unknown DSL node: fall back to string, preserving description
		// (spec.md §9 "Schema conversion faithfulness").
		return ParameterSchema{Type: TypeString, Description: node.Description}, true, true
	}
}

func firstNonEmpty(maps ...map[string]any) map[string]any {
	for _, m := range maps {
		if len(m) > 0 {
			return m
		}
	}
	return nil
}

func firstNonEmptySlice(slices ...[]any) []any {
	for _, s := range slices {
		if len(s) > 0 {
			return s
		}
	}
	return nil
}
