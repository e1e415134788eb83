package llm

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestApplyOptions(t *testing.T) {
	o := ApplyOptions(
		WithTemperature(0.2),
		WithMaxTokens(64),
		WithModel("llama3.2"),
		WithSystem("be brief"),
		nil,
	)

	if o.Temperature == nil || *o.Temperature != 0.2 {
		t.Errorf("Temperature = %v, want 0.2", o.Temperature)
	}
	if o.MaxTokens != 64 {
		t.Errorf("MaxTokens = %d, want 64", o.MaxTokens)
	}
	if o.Model != "llama3.2" {
		t.Errorf("Model = %q, want llama3.2", o.Model)
	}
	if o.System != "be brief" {
		t.Errorf("System = %q, want %q", o.System, "be brief")
	}
}

func TestApplyOptions_Defaults(t *testing.T) {
	o := ApplyOptions()
	if o.Temperature != nil {
		t.Error("Temperature should be nil when unset")
	}
	if o.MaxTokens != 0 {
		t.Errorf("MaxTokens = %d, want 0", o.MaxTokens)
	}
}

func TestProviderError(t *testing.T) {
	cause := context.DeadlineExceeded
	err := fmt.Errorf("describe: %w", NewProviderError(ErrCodeTimeout, "request timed out", cause))

	if !errors.Is(err, context.DeadlineExceeded) {
		t.Error("ProviderError should unwrap to its cause")
	}
	if got := CodeOf(err); got != ErrCodeTimeout {
		t.Errorf("CodeOf() = %q, want %q", got, ErrCodeTimeout)
	}
	if got := CodeOf(errors.New("plain")); got != "" {
		t.Errorf("CodeOf(plain) = %q, want empty", got)
	}
}

func TestProviderError_Retryable(t *testing.T) {
	tests := []struct {
		code ErrorCode
		want bool
	}{
		{ErrCodeTimeout, true},
		{ErrCodeRateLimited, true},
		{ErrCodeServerError, true},
		{ErrCodeAuthentication, false},
		{ErrCodeModelNotFound, false},
		{ErrCodeInvalidRequest, false},
		{ErrCodeInvalidResponse, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			if got := NewProviderError(tt.code, "x", nil).Retryable(); got != tt.want {
				t.Errorf("Retryable() = %v, want %v", got, tt.want)
			}
		})
	}
}
