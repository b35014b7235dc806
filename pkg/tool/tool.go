// Package tool defines the tool capability, its registry, and dispatch.
// A Tool is a named, schema-validated callable the model may invoke; the
// Registry tracks which tools exist and which are currently visible to a
// turn, and Executor wraps lookup, validation, and invocation into the
// single call the execution loop needs (spec.md §4.4).
package tool

import (
	"context"

	"github.com/agentkit-go/core/pkg/toolschema"
)

// Tool is the runtime's tool adapter surface: a schema plus an executor.
// Execute may return any JSON-marshalable value; the tool executor
// serializes non-string results into the tool message content (spec.md
// §4.2 S3, §9 "Tool adapter surface").
type Tool interface {
	Schema() toolschema.ToolSchema
	Execute(ctx context.Context, params map[string]any) (any, error)
}

// ParameterValidator is an optional interface a Tool can implement to
// override the executor's generic schema validation with custom logic.
type ParameterValidator interface {
	ValidateParameters(params map[string]any) toolschema.ValidationResult
}

// Definition is the wire-level shape a provider needs to advertise a tool
// to an LLM backend.
type Definition struct {
	Name        string
	Description string
	Parameters  toolschema.ObjectSchema
}

// ToDefinition projects a Tool down to the Definition a provider sends
// upstream.
func ToDefinition(t Tool) Definition {
	schema := t.Schema()
	return Definition{
		Name:        schema.Name,
		Description: schema.Description,
		Parameters:  schema.Parameters,
	}
}
