// Package llm defines the provider-agnostic interface for text generation
// backends (Ollama, OpenAI-compatible APIs).
package llm

import "context"

// Role identifies the author of a chat message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is a single chat turn.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Response is the result of a generation call.
type Response struct {
	Content          string `json:"content"`
	Model            string `json:"model"`
	Done             bool   `json:"done"`
	PromptTokens     int    `json:"prompt_tokens,omitempty"`
	CompletionTokens int    `json:"completion_tokens,omitempty"`
}

// Provider generates text from a prompt or a chat transcript.
type Provider interface {
	Generate(ctx context.Context, prompt string, opts ...CallOption) (*Response, error)
	Chat(ctx context.Context, messages []Message, opts ...CallOption) (*Response, error)
}

// CallOptions holds per-call generation parameters.
type CallOptions struct {
	Model       string
	System      string
	Temperature *float64
	MaxTokens   int
}

// CallOption mutates CallOptions.
type CallOption func(*CallOptions)

// WithTemperature sets the sampling temperature.
func WithTemperature(t float64) CallOption {
	return func(o *CallOptions) { o.Temperature = &t }
}

// WithMaxTokens bounds the number of generated tokens.
func WithMaxTokens(n int) CallOption {
	return func(o *CallOptions) { o.MaxTokens = n }
}

// WithModel overrides the provider's default model for one call.
func WithModel(model string) CallOption {
	return func(o *CallOptions) { o.Model = model }
}

// WithSystem sets a system prompt for Generate calls.
func WithSystem(system string) CallOption {
	return func(o *CallOptions) { o.System = system }
}

// ApplyOptions folds opts into a CallOptions value.
func ApplyOptions(opts ...CallOption) CallOptions {
	var o CallOptions
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}
