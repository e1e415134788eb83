package testutil

import (
	"context"
	"sync"

	"github.com/HerbHall/strainwise/pkg/llm"
)

// Compile-time interface check.
var _ llm.Provider = (*MockProvider)(nil)

// MockProvider is a thread-safe llm.Provider that returns a canned reply and
// records every call for later inspection.
type MockProvider struct {
	mu       sync.Mutex
	reply    string
	err      error
	block    bool
	prompts  []string
	messages [][]llm.Message
	options  []llm.CallOptions
}

// NewMockProvider returns a provider that answers every call with reply.
func NewMockProvider(reply string) *MockProvider {
	return &MockProvider{reply: reply}
}

// FailWith makes subsequent calls return err.
func (p *MockProvider) FailWith(err error) *MockProvider {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.err = err
	return p
}

// Hang makes subsequent calls block until their context is done.
func (p *MockProvider) Hang() *MockProvider {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.block = true
	return p
}

// Generate records prompt and returns the configured reply.
func (p *MockProvider) Generate(ctx context.Context, prompt string, opts ...llm.CallOption) (*llm.Response, error) {
	p.mu.Lock()
	p.prompts = append(p.prompts, prompt)
	p.mu.Unlock()
	return p.respond(ctx, opts)
}

// Chat records messages and returns the configured reply.
func (p *MockProvider) Chat(ctx context.Context, messages []llm.Message, opts ...llm.CallOption) (*llm.Response, error) {
	p.mu.Lock()
	p.messages = append(p.messages, append([]llm.Message(nil), messages...))
	p.mu.Unlock()
	return p.respond(ctx, opts)
}

func (p *MockProvider) respond(ctx context.Context, opts []llm.CallOption) (*llm.Response, error) {
	p.mu.Lock()
	p.options = append(p.options, llm.ApplyOptions(opts...))
	reply, err, block := p.reply, p.err, p.block
	p.mu.Unlock()

	if block {
		<-ctx.Done()
		return nil, llm.NewProviderError(llm.ErrCodeTimeout, "mock provider", ctx.Err())
	}
	if err != nil {
		return nil, err
	}
	return &llm.Response{Content: reply, Model: "mock", Done: true}, nil
}

// Calls returns how many Generate and Chat calls were made.
func (p *MockProvider) Calls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.prompts) + len(p.messages)
}

// Messages returns a copy of every recorded Chat conversation.
func (p *MockProvider) Messages() [][]llm.Message {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([][]llm.Message, len(p.messages))
	copy(out, p.messages)
	return out
}

// Options returns the resolved options of every recorded call.
func (p *MockProvider) Options() []llm.CallOptions {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]llm.CallOptions, len(p.options))
	copy(out, p.options)
	return out
}

// Reset clears recorded calls.
func (p *MockProvider) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.prompts = nil
	p.messages = nil
	p.options = nil
}
