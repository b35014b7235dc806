package toolschema

import "fmt"

// ValidationResult carries the outcome of validating a parsed argument
// object against a ToolSchema.
type ValidationResult struct {
	IsValid bool
	Errors  []string
}

func ok() ValidationResult { return ValidationResult{IsValid: true} }

func fail(errs ...string) ValidationResult {
	return ValidationResult{IsValid: false, Errors: errs}
}

// Strict, when true (the default per spec.md §4.4), rejects argument objects
// containing keys not declared in the schema's properties.
type Options struct {
	Strict bool
}

// DefaultOptions matches the specification's "strict mode, default on".
func DefaultOptions() Options { return Options{Strict: true} }

// Validate checks a parsed argument object against schema, implementing the
// three-step validation from spec.md §4.4:
//  1. every required key must be present
//  2. every present key must match its declared type (recursing into
//     arrays/objects); enum constraints are checked by equality
//  3. (strict mode) unknown keys are rejected
func Validate(args map[string]any, schema ObjectSchema, opts Options) ValidationResult {
	var errs []string

	for _, req := range schema.Required {
		if _, present := args[req]; !present {
			errs = append(errs, fmt.Sprintf("missing required parameter %q", req))
		}
	}

	for key, val := range args {
		paramSchema, declared := schema.Properties[key]
		if !declared {
			if opts.Strict {
				errs = append(errs, fmt.Sprintf("unknown parameter %q", key))
			}
			continue
		}
		if err := validateValue(key, val, paramSchema, opts); err != "" {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return fail(errs...)
	}
	return ok()
}

// validateValue returns a non-empty error string if val does not satisfy schema.
func validateValue(path string, val any, schema ParameterSchema, opts Options) string {
	if val == nil {
		return ""
	}

	if len(schema.Enum) > 0 && !enumContains(schema.Enum, val) {
		return fmt.Sprintf("parameter %q: value %v not in enum %v", path, val, schema.Enum)
	}

	switch schema.Type {
	case TypeString:
		if _, ok := val.(string); !ok {
			return fmt.Sprintf("parameter %q: expected string, got %T", path, val)
		}
	case TypeBoolean:
		if _, ok := val.(bool); !ok {
			return fmt.Sprintf("parameter %q: expected boolean, got %T", path, val)
		}
	case TypeNumber:
		if !isNumeric(val) {
			return fmt.Sprintf("parameter %q: expected number, got %T", path, val)
		}
	case TypeInteger:
		if !isInteger(val) {
			return fmt.Sprintf("parameter %q: expected integer, got %T", path, val)
		}
	case TypeArray:
		items, ok := val.([]any)
		if !ok {
			return fmt.Sprintf("parameter %q: expected array, got %T", path, val)
		}
		if schema.Items != nil {
			for i, item := range items {
				if err := validateValue(fmt.Sprintf("%s[%d]", path, i), item, *schema.Items, opts); err != "" {
					return err
				}
			}
		}
	case TypeObject:
		obj, ok := val.(map[string]any)
		if !ok {
			return fmt.Sprintf("parameter %q: expected object, got %T", path, val)
		}
		nested := ObjectSchema{Type: TypeObject, Properties: schema.Properties, Required: schema.Required}
		result := Validate(obj, nested, opts)
		if !result.IsValid {
			return fmt.Sprintf("parameter %q: %v", path, result.Errors)
		}
	}

	return ""
}

func enumContains(enum []any, val any) bool {
	for _, e := range enum {
		if fmt.Sprint(e) == fmt.Sprint(val) {
			return true
		}
	}
	return false
}

func isNumeric(v any) bool {
	switch v.(type) {
	case float32, float64, int, int32, int64, uint, uint32, uint64:
		return true
	default:
		return false
	}
}

func isInteger(v any) bool {
	switch n := v.(type) {
	case int, int32, int64, uint, uint32, uint64:
		return true
	case float64:
		return n == float64(int64(n))
	case float32:
		return n == float32(int64(n))
	default:
		return false
	}
}
