// Package ollama implements llm.Provider against a local Ollama server.
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/HerbHall/strainwise/pkg/llm"
)

// Defaults used when Config fields are empty.
const (
	DefaultBaseURL = "http://localhost:11434"
	DefaultModel   = "llama3.2"
	DefaultTimeout = 30 * time.Second
)

// Compile-time interface guard.
var _ llm.Provider = (*Provider)(nil)

// Config configures the Ollama provider.
type Config struct {
	BaseURL string
	Model   string
	Timeout time.Duration
}

// Provider talks to the Ollama REST API with streaming disabled.
type Provider struct {
	baseURL string
	model   string
	client  *http.Client
}

// New creates an Ollama provider.
func New(cfg Config) *Provider {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	return &Provider{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		model:   cfg.Model,
		client:  &http.Client{Timeout: cfg.Timeout},
	}
}

type modelOptions struct {
	Temperature *float64 `json:"temperature,omitempty"`
	NumPredict  int      `json:"num_predict,omitempty"`
}

type generateRequest struct {
	Model   string        `json:"model"`
	Prompt  string        `json:"prompt"`
	System  string        `json:"system,omitempty"`
	Stream  bool          `json:"stream"`
	Options *modelOptions `json:"options,omitempty"`
}

type generateResponse struct {
	Model           string `json:"model"`
	Response        string `json:"response"`
	Done            bool   `json:"done"`
	PromptEvalCount int    `json:"prompt_eval_count"`
	EvalCount       int    `json:"eval_count"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []llm.Message `json:"messages"`
	Stream   bool          `json:"stream"`
	Options  *modelOptions `json:"options,omitempty"`
}

type chatResponse struct {
	Model           string      `json:"model"`
	Message         llm.Message `json:"message"`
	Done            bool        `json:"done"`
	PromptEvalCount int         `json:"prompt_eval_count"`
	EvalCount       int         `json:"eval_count"`
}

// Generate runs a single-prompt completion via POST /api/generate.
func (p *Provider) Generate(ctx context.Context, prompt string, opts ...llm.CallOption) (*llm.Response, error) {
	o := llm.ApplyOptions(opts...)
	req := generateRequest{
		Model:   p.modelFor(o),
		Prompt:  prompt,
		System:  o.System,
		Stream:  false,
		Options: toModelOptions(o),
	}

	var resp generateResponse
	if err := p.post(ctx, "/api/generate", req, &resp); err != nil {
		return nil, mapError(err)
	}

	return &llm.Response{
		Content:          resp.Response,
		Model:            resp.Model,
		Done:             resp.Done,
		PromptTokens:     resp.PromptEvalCount,
		CompletionTokens: resp.EvalCount,
	}, nil
}

// Chat runs a chat completion via POST /api/chat.
func (p *Provider) Chat(ctx context.Context, messages []llm.Message, opts ...llm.CallOption) (*llm.Response, error) {
	o := llm.ApplyOptions(opts...)
	req := chatRequest{
		Model:    p.modelFor(o),
		Messages: messages,
		Stream:   false,
		Options:  toModelOptions(o),
	}

	var resp chatResponse
	if err := p.post(ctx, "/api/chat", req, &resp); err != nil {
		return nil, mapError(err)
	}

	return &llm.Response{
		Content:          resp.Message.Content,
		Model:            resp.Model,
		Done:             resp.Done,
		PromptTokens:     resp.PromptEvalCount,
		CompletionTokens: resp.EvalCount,
	}, nil
}

func (p *Provider) modelFor(o llm.CallOptions) string {
	if o.Model != "" {
		return o.Model
	}
	return p.model
}

func toModelOptions(o llm.CallOptions) *modelOptions {
	if o.Temperature == nil && o.MaxTokens == 0 {
		return nil
	}
	return &modelOptions{Temperature: o.Temperature, NumPredict: o.MaxTokens}
}

// post sends a JSON request and decodes a JSON response into out.
func (p *Provider) post(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return llm.NewProviderError(llm.ErrCodeInvalidRequest, "encode request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return llm.NewProviderError(llm.ErrCodeInvalidRequest, "build request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var e struct {
			Error string `json:"error"`
		}
		msg := strings.TrimSpace(string(data))
		if json.Unmarshal(data, &e) == nil && e.Error != "" {
			msg = e.Error
		}
		return &ollamaStatusError{StatusCode: resp.StatusCode, Message: msg}
	}

	if err := json.Unmarshal(data, out); err != nil {
		return llm.NewProviderError(llm.ErrCodeInvalidResponse, "decode response", err)
	}
	return nil
}
