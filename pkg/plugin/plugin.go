// Package plugin implements the Plugin Pipeline: ordered hook fan-out
// around the execution loop's lifecycle points, with per-hook failure
// isolation so one misbehaving plugin never aborts a turn (spec.md §4.5,
// §9 "Plugin Pipeline"). Hooks are optional: a Plugin only implements the
// sub-interfaces it cares about, following the teacher's
// CallableTool/StreamingTool optional-interface pattern
// (pkg/tool/tool.go) rather than one fat interface with empty methods.
package plugin

import (
	"context"

	"github.com/agentkit-go/core/pkg/eventbus"
	"github.com/agentkit-go/core/pkg/message"
)

// Category classifies a plugin's concern, per spec.md §4 Plugin.
type Category string

const (
	CategoryMonitoring      Category = "monitoring"
	CategoryLogging         Category = "logging"
	CategoryStorage         Category = "storage"
	CategoryNotification    Category = "notification"
	CategorySecurity        Category = "security"
	CategoryPerformance     Category = "performance"
	CategoryErrorHandling   Category = "error-handling"
	CategoryLimits          Category = "limits"
	CategoryEventProcessing Category = "event-processing"
	CategoryCustom          Category = "custom"
)

// Well-known priority bands; higher runs first (spec.md §4
// "Priority: an integer (critical=1000 ... minimal=100); higher runs first").
const (
	PriorityCritical = 1000
	PriorityHigh     = 750
	PriorityNormal   = 500
	PriorityLow      = 250
	PriorityMinimal  = 100
)

// Plugin is the base capability every pipeline entry implements. Which
// hooks actually fire is determined by which optional hook interfaces
// below a concrete Plugin also implements.
type Plugin interface {
	Name() string
	Version() string
	Enabled() bool
	Category() Category
	Priority() int
}

// BeforeRunHook fires once at the start of a turn, before S0 Prepare.
type BeforeRunHook interface {
	BeforeRun(ctx context.Context, input string) error
}

// AfterRunHook fires once after SFinal, with the turn's final text.
type AfterRunHook interface {
	AfterRun(ctx context.Context, output string) error
}

// BeforeProviderCallHook fires before each S1 Call Provider.
type BeforeProviderCallHook interface {
	BeforeProviderCall(ctx context.Context, messages []message.Message) error
}

// AfterProviderCallHook fires after each S1 Call Provider returns.
type AfterProviderCallHook interface {
	AfterProviderCall(ctx context.Context, response message.Message) error
}

// BeforeToolCallHook fires before each tool invocation in S3.
type BeforeToolCallHook interface {
	BeforeToolCall(ctx context.Context, call message.ToolCall) error
}

// AfterToolCallHook fires after each tool invocation in S3, success or
// failure; resultText is whatever was appended to the tool message.
type AfterToolCallHook interface {
	AfterToolCall(ctx context.Context, call message.ToolCall, resultText string) error
}

// ErrorHook fires whenever the loop records a recoverable error (a JSON
// parse failure, an unknown tool, a tool that threw) or the terminal
// SError transition.
type ErrorHook interface {
	OnError(ctx context.Context, err error) error
}

// ModuleEventSubscriber lets a plugin attach to the agent's event bus when
// it is registered, and detach when it is removed.
type ModuleEventSubscriber interface {
	SubscribeToModuleEvents(bus *eventbus.Bus) *eventbus.Subscription
}
