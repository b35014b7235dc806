package message

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewUser_SetsRoleAndContent(t *testing.T) {
	m := NewUser("hi")
	assert.Equal(t, RoleUser, m.Role)
	assert.Equal(t, "hi", m.Text())
	assert.False(t, m.HasToolCalls())
}

func TestNewAssistantToolCalls_AllowsNilContent(t *testing.T) {
	calls := []ToolCall{{ID: "t1", Kind: "function", Function: ToolCallFunction{Name: "add", ArgumentsJSON: `{"a":1,"b":2}`}}}
	m := NewAssistantToolCalls(nil, calls)

	assert.Equal(t, RoleAssistant, m.Role)
	assert.Nil(t, m.Content)
	assert.Equal(t, "", m.Text())
	assert.True(t, m.HasToolCalls())
	assert.Equal(t, "add", m.ToolCalls[0].Function.Name)
}

func TestNewTool_ReferencesToolCallID(t *testing.T) {
	m := NewTool("t1", "3")
	assert.Equal(t, RoleTool, m.Role)
	assert.Equal(t, "t1", m.ToolCallID)
	assert.Equal(t, "3", m.Text())
}
