// Package llm defines the provider-neutral model contract: message shapes,
// tool call descriptions, and the single-turn Provider interface that every
// backend (Anthropic, Azure OpenAI, local) satisfies.
package llm

import (
	"context"
	"encoding/json"
)

// Role of a message in a conversation sent to a provider.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// Message is one entry of the conversation a provider sees. Assistant
// messages may carry ToolCalls; tool messages carry the result of exactly
// one call, identified by ToolCallID and ToolName.
type Message struct {
	Role       Role
	Content    string
	ToolCalls  []ToolCall
	ToolCallID string
	ToolName   string
}

// ToolCall is a model-requested tool invocation. Args holds the raw JSON
// arguments exactly as the model produced them.
type ToolCall struct {
	ID   string
	Name string
	Args json.RawMessage
}

// ToolSpec describes one tool advertised to the model. Properties holds
// the JSON-schema property map for the tool's object argument; each
// adapter wraps it in its vendor's schema envelope.
type ToolSpec struct {
	Name        string
	Description string
	Properties  any
	Required    []string
}

// Request is a single generation call: system prompt, conversation window,
// and the tools the model may use.
type Request struct {
	System   string
	Messages []Message
	Tools    []ToolSpec
}

// Turn is the model's answer to one Request. Exactly one of Text or
// ToolCalls is meaningful: when ToolCalls is non-empty the engine runs the
// tools and asks again; otherwise Text is the final answer.
type Turn struct {
	Text      string
	ToolCalls []ToolCall

	// Provider is the canonical id of the backend that produced this turn,
	// filled in by the router.
	Provider string
}

// Final reports whether this turn ends the reasoning loop.
func (t *Turn) Final() bool {
	return len(t.ToolCalls) == 0
}

// Provider produces one model turn for a request. Implementations return
// *UnavailableError when the backend cannot be reached or refuses service,
// and *MalformedError when it answers with something unparseable.
type Provider interface {
	Name() string
	Generate(ctx context.Context, req Request) (*Turn, error)
}
