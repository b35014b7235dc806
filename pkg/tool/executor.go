package tool

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/agentkit-go/core/pkg/agenterrors"
	"github.com/agentkit-go/core/pkg/toolschema"
)

// Executor dispatches a named tool call: lookup, allow-list check,
// argument parsing, parameter validation, and invocation, each step
// failing with a typed ToolExecutionError carrying {toolName, cause}
// context (spec.md §4.4 "Execution").
type Executor struct {
	registry     *Registry
	validateOpts toolschema.Options
}

// NewExecutor constructs an Executor bound to registry, validating
// arguments in strict mode by default (spec.md §4.4).
func NewExecutor(registry *Registry) *Executor {
	return &Executor{registry: registry, validateOpts: toolschema.DefaultOptions()}
}

// Result is the outcome of one ExecuteCall, already reduced to the text
// content a tool message needs (spec.md §4.2 S3).
type Result struct {
	Content string
	Err     error
}

// ExecuteCall parses argumentsJSON, validates it against the named tool's
// schema, and invokes it. It never panics: every failure mode is returned
// as Result.Err (a *agenterrors.Error of kind ToolExecution), and Result.Content
// is always populated with a caller-observable string even on failure, so
// the execution loop can append it verbatim as a tool message (spec.md §9
// "Tool errors are recorded as tool messages... the loop continues").
func (e *Executor) ExecuteCall(ctx context.Context, name, argumentsJSON string) Result {
	t, found := e.registry.Get(name)
	if !found {
		err := agenterrors.ToolExecution(fmt.Sprintf("tool %q is not registered", name)).WithContext("toolName", name)
		return Result{Content: err.Error(), Err: err}
	}
	if !e.registry.IsAllowed(name) {
		err := agenterrors.ToolExecution(fmt.Sprintf("tool %q is not in the allow-list", name)).WithContext("toolName", name)
		return Result{Content: err.Error(), Err: err}
	}

	var params map[string]any
	if argumentsJSON != "" {
		if jsonErr := json.Unmarshal([]byte(argumentsJSON), &params); jsonErr != nil {
			err := agenterrors.Wrap(agenterrors.KindToolExecution, fmt.Sprintf("tool %q: arguments did not parse as JSON", name), jsonErr).
				WithContext("toolName", name)
			return Result{Content: err.Error(), Err: err}
		}
	}
	if params == nil {
		params = map[string]any{}
	}

	validation := e.validate(t, params)
	if !validation.IsValid {
		err := agenterrors.ToolExecution(fmt.Sprintf("tool %q: invalid parameters: %v", name, validation.Errors)).
			WithContext("toolName", name).WithContext("validationErrors", validation.Errors)
		return Result{Content: err.Error(), Err: err}
	}

	out, callErr := t.Execute(ctx, params)
	if callErr != nil {
		err := agenterrors.Wrap(agenterrors.KindToolExecution, fmt.Sprintf("tool %q returned an error", name), callErr).
			WithContext("toolName", name)
		return Result{Content: err.Error(), Err: err}
	}

	return Result{Content: stringifyResult(out)}
}

func (e *Executor) validate(t Tool, params map[string]any) toolschema.ValidationResult {
	if validator, ok := t.(ParameterValidator); ok {
		return validator.ValidateParameters(params)
	}
	return toolschema.Validate(params, t.Schema().Parameters, e.validateOpts)
}

// stringifyResult reduces any tool return value to text: strings pass
// through, everything else is JSON-serialized (spec.md §9 "Returning a
// non-text value is permitted; the loop JSON-serializes it").
func stringifyResult(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(data)
}
