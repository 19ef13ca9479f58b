package llm

import "time"

//----------------------------------------------------------------
// Message - provider-neutral conversation turn
//----------------------------------------------------------------

// Message represents one turn of a conversation. A conversation is an
// append-only []Message owned by a single chat request; it is never shared
// across requests.
type Message struct {
	Role      string `json:"role"` // "user", "assistant", "system", "tool"
	Content   string `json:"content"`
	Timestamp int64  `json:"timestamp,omitempty"`

	// ToolCalls contains the function calls requested by the model
	// (only valid for role: assistant).
	ToolCalls []ToolCall `json:"tool_calls,omitempty"`

	// ToolCallID links this message to the tool call it answers
	// (only valid for role: tool).
	ToolCallID string `json:"tool_call_id,omitempty"`
	// ToolName is the function the tool observation came from.
	ToolName string `json:"tool_name,omitempty"`
}

// ToolCall represents one function call requested by the model.
type ToolCall struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Arguments string `json:"arguments"` // JSON object string
}

// ToolSpec describes one callable function offered to the model.
// Provider clients convert it into their native tool format.
type ToolSpec struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"` // JSON Schema object
}

// Turn is the model's answer for one round of the dispatch loop: either
// final text, or a batch of requested function calls. Some providers emit
// commentary alongside calls, so both fields can be set.
type Turn struct {
	Text       string     `json:"text"`
	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`
	StopReason string     `json:"stop_reason,omitempty"`
	Usage      *Usage     `json:"usage,omitempty"`
}

// Usage carries normalized token accounting for one completion round.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

//----------------------------------------------------------------
// Helper constructors
//----------------------------------------------------------------

// NewTextMessage builds a plain text message with the given role.
func NewTextMessage(role, text string) Message {
	return Message{
		Role:      role,
		Content:   text,
		Timestamp: time.Now().Unix(),
	}
}

// NewSystemMessage builds a system message.
func NewSystemMessage(text string) Message {
	return NewTextMessage(RoleSystem, text)
}

// NewUserMessage builds a user message.
func NewUserMessage(text string) Message {
	return NewTextMessage(RoleUser, text)
}

// NewAssistantMessage builds an assistant message carrying the model's text
// and any function calls it requested.
func NewAssistantMessage(text string, calls []ToolCall) Message {
	m := NewTextMessage(RoleAssistant, text)
	m.ToolCalls = calls
	return m
}

// NewToolMessage builds a tool observation answering one function call.
func NewToolMessage(callID, name, content string) Message {
	m := NewTextMessage(RoleTool, content)
	m.ToolCallID = callID
	m.ToolName = name
	return m
}
