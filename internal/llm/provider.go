package llm

import (
	"context"
	"encoding/json"
	"strings"
)

// Provider is the generation capability every study feature talks to.
// Implementations wrap one vendor SDK; decorators add retry, timeout and
// event logging on top.
type Provider interface {
	// Generate sends a prompt and returns the model output. When the
	// request carries a Schema the output is validated JSON; otherwise it
	// is whatever text the model produced and callers must parse it
	// defensively.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID returns the model identifier this provider is configured to use.
	ModelID() string
}

// Request describes what to send to the model.
type Request struct {
	// System sets the model's role and constraints.
	System string

	// Messages is the conversation. Study features send a single user turn.
	Messages []Message

	// Schema, when set, switches the provider to its native structured
	// output mechanism and the response is validated against it.
	Schema *Schema

	// JSONMode asks for a bare JSON object without a fixed schema. Providers
	// without such a switch ignore it and rely on the prompt.
	JSONMode bool

	// MaxTokens caps the response length.
	MaxTokens int

	// Temperature controls randomness in [0, 1]. Nil leaves the provider's
	// default; Temp(0) asks for deterministic replies.
	Temperature *float64
}

// Temp returns a Temperature value for v.
func Temp(v float64) *float64 {
	return &v
}

// UserRequest is shorthand for the common single-turn request.
func UserRequest(system, prompt string) Request {
	return Request{
		System:   system,
		Messages: []Message{{Role: RoleUser, Content: prompt}},
	}
}

// Message represents a single message in the conversation.
type Message struct {
	Role    Role
	Content string
}

// Role is the message sender role.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Schema defines the JSON structure expected from the model.
type Schema struct {
	// Name identifies this schema, e.g. "flashcard-deck".
	Name string

	// Description is sent to the model to guide generation.
	Description string

	// Definition is the JSON Schema definition as a map.
	Definition map[string]any
}

// Response holds the model output.
type Response struct {
	// Content is the raw output. Validated JSON when a Schema was set.
	Content json.RawMessage

	Usage Usage

	// Model is the model that actually served the request.
	Model string

	// StopReason is normalized to "end", "max_tokens" or "error".
	StopReason string
}

// Text returns the content as trimmed text.
func (r *Response) Text() string {
	if r == nil {
		return ""
	}
	return strings.TrimSpace(string(r.Content))
}

// Usage tracks token consumption for a single request.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}
