// Package openai implements llm.Provider for OpenAI-compatible chat
// completion APIs (OpenAI, Groq, vLLM, LM Studio).
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/HerbHall/strainwise/pkg/llm"
)

// Defaults used when Config fields are empty.
const (
	DefaultBaseURL = "https://api.openai.com/v1"
	DefaultModel   = "gpt-4o-mini"
	DefaultTimeout = 30 * time.Second
)

// Compile-time interface guard.
var _ llm.Provider = (*Provider)(nil)

// Config configures the OpenAI-compatible provider.
type Config struct {
	BaseURL string
	APIKey  string
	Model   string
	Timeout time.Duration
}

// Provider calls POST {BaseURL}/chat/completions.
type Provider struct {
	baseURL string
	apiKey  string
	model   string
	client  *http.Client
}

// New creates an OpenAI-compatible provider.
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
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
		client:  &http.Client{Timeout: cfg.Timeout},
	}
}

type completionRequest struct {
	Model       string        `json:"model"`
	Messages    []llm.Message `json:"messages"`
	Temperature *float64      `json:"temperature,omitempty"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

type completionResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
	} `json:"usage"`
	Error *apiError `json:"error,omitempty"`
}

type apiError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
	Code    any    `json:"code,omitempty"`
}

// Generate wraps the prompt (and optional system prompt) in a chat request.
func (p *Provider) Generate(ctx context.Context, prompt string, opts ...llm.CallOption) (*llm.Response, error) {
	o := llm.ApplyOptions(opts...)
	messages := make([]llm.Message, 0, 2)
	if o.System != "" {
		messages = append(messages, llm.Message{Role: llm.RoleSystem, Content: o.System})
	}
	messages = append(messages, llm.Message{Role: llm.RoleUser, Content: prompt})
	return p.complete(ctx, messages, o)
}

// Chat sends the transcript as-is.
func (p *Provider) Chat(ctx context.Context, messages []llm.Message, opts ...llm.CallOption) (*llm.Response, error) {
	return p.complete(ctx, messages, llm.ApplyOptions(opts...))
}

func (p *Provider) complete(ctx context.Context, messages []llm.Message, o llm.CallOptions) (*llm.Response, error) {
	model := p.model
	if o.Model != "" {
		model = o.Model
	}

	payload, err := json.Marshal(completionRequest{
		Model:       model,
		Messages:    messages,
		Temperature: o.Temperature,
		MaxTokens:   o.MaxTokens,
	})
	if err != nil {
		return nil, llm.NewProviderError(llm.ErrCodeInvalidRequest, "encode request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return nil, llm.NewProviderError(llm.ErrCodeInvalidRequest, "build request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if p.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+p.apiKey)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) ||
			strings.Contains(err.Error(), "Client.Timeout exceeded") {
			return nil, llm.NewProviderError(llm.ErrCodeTimeout, "request timed out or cancelled", err)
		}
		return nil, llm.NewProviderError(llm.ErrCodeServerError, "request failed", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, llm.NewProviderError(llm.ErrCodeServerError, "read response", err)
	}

	var out completionResponse
	decodeErr := json.Unmarshal(data, &out)

	if resp.StatusCode != http.StatusOK {
		msg := strings.TrimSpace(string(data))
		if decodeErr == nil && out.Error != nil && out.Error.Message != "" {
			msg = out.Error.Message
		}
		return nil, statusError(resp.StatusCode, msg)
	}
	if decodeErr != nil {
		return nil, llm.NewProviderError(llm.ErrCodeInvalidResponse, "decode response", decodeErr)
	}
	if len(out.Choices) == 0 {
		return nil, llm.NewProviderError(llm.ErrCodeInvalidResponse, "response has no choices", nil)
	}

	return &llm.Response{
		Content:          out.Choices[0].Message.Content,
		Model:            out.Model,
		Done:             out.Choices[0].FinishReason != "",
		PromptTokens:     out.Usage.PromptTokens,
		CompletionTokens: out.Usage.CompletionTokens,
	}, nil
}

// statusError maps an HTTP status to a typed provider error.
func statusError(status int, msg string) error {
	cause := fmt.Errorf("openai: %d %s", status, msg)
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return llm.NewProviderError(llm.ErrCodeAuthentication, msg, cause)
	case status == http.StatusNotFound:
		return llm.NewProviderError(llm.ErrCodeModelNotFound, msg, cause)
	case status == http.StatusTooManyRequests:
		return llm.NewProviderError(llm.ErrCodeRateLimited, msg, cause)
	case status >= 500:
		return llm.NewProviderError(llm.ErrCodeServerError, msg, cause)
	default:
		return llm.NewProviderError(llm.ErrCodeInvalidRequest, msg, cause)
	}
}
