package recommend

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/HerbHall/strainwise/internal/metrics"
	pkgcatalog "github.com/HerbHall/strainwise/pkg/catalog"
	"github.com/HerbHall/strainwise/pkg/llm"
	gobreaker "github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const describerSystemPrompt = `You are a knowledgeable cannabis budtender.
Write one or two friendly sentences explaining why the recommended strain suits
the customer's stated preferences. Do not give medical advice.`

// FallbackDescription is the templated description used whenever text
// generation is unavailable or fails.
func FallbackDescription(s pkgcatalog.Strain) string {
	return fmt.Sprintf("Based on your preferences, %s (%s) might be a good choice for you.", s.Name, s.Type)
}

// DescriberConfig bounds calls to the text-generation provider.
type DescriberConfig struct {
	Model       string
	Timeout     time.Duration
	MaxTokens   int
	Temperature float64

	// Outbound pacing shared by all requests.
	RequestsPerSecond float64
	Burst             int

	// Consecutive failures before the breaker opens, and how long it stays open.
	BreakerFailures uint32
	BreakerTimeout  time.Duration
}

func (c *DescriberConfig) withDefaults() DescriberConfig {
	out := *c
	if out.Timeout <= 0 {
		out.Timeout = 10 * time.Second
	}
	if out.MaxTokens <= 0 {
		out.MaxTokens = 150
	}
	if out.RequestsPerSecond <= 0 {
		out.RequestsPerSecond = 2
	}
	if out.Burst <= 0 {
		out.Burst = 1
	}
	if out.BreakerFailures == 0 {
		out.BreakerFailures = 3
	}
	if out.BreakerTimeout <= 0 {
		out.BreakerTimeout = 30 * time.Second
	}
	return out
}

// Describer produces a short natural-language pitch for the top match.
type Describer struct {
	provider llm.Provider
	cfg      DescriberConfig
	limiter  *rate.Limiter
	breaker  *gobreaker.CircuitBreaker[string]
	logger   *zap.Logger
}

// NewDescriber creates a Describer. A nil provider always yields the fallback.
func NewDescriber(provider llm.Provider, cfg DescriberConfig, logger *zap.Logger) *Describer {
	cfg = cfg.withDefaults()
	if logger == nil {
		logger = zap.NewNop()
	}
	d := &Describer{
		provider: provider,
		cfg:      cfg,
		limiter:  rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst),
		logger:   logger,
	}
	d.breaker = gobreaker.NewCircuitBreaker[string](gobreaker.Settings{
		Name:        "llm-describe",
		MaxRequests: 1,
		Timeout:     cfg.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.BreakerFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state change",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
			if to == gobreaker.StateOpen {
				metrics.BreakerOpen.Set(1)
			} else {
				metrics.BreakerOpen.Set(0)
			}
		},
	})
	return d
}

// Describe returns generated text for top, or FallbackDescription(top) on any
// failure. It never returns an error.
func (d *Describer) Describe(ctx context.Context, top pkgcatalog.Strain, prefs Preferences) string {
	if d == nil || d.provider == nil {
		metrics.Descriptions.WithLabelValues(metrics.SourceFallback).Inc()
		return FallbackDescription(top)
	}

	ctx, cancel := context.WithTimeout(ctx, d.cfg.Timeout)
	defer cancel()

	// Pacing happens outside the breaker: a local wait is not a provider failure.
	if err := d.limiter.Wait(ctx); err != nil {
		d.logger.Warn("description pacing exceeded deadline, using fallback",
			zap.String("strain", top.Name),
			zap.Error(err),
		)
		metrics.Descriptions.WithLabelValues(metrics.SourceFallback).Inc()
		return FallbackDescription(top)
	}

	text, err := d.breaker.Execute(func() (string, error) {
		return d.generate(ctx, top, prefs)
	})
	if err != nil {
		d.logger.Warn("description generation failed, using fallback",
			zap.String("strain", top.Name),
			zap.String("code", string(llm.CodeOf(err))),
			zap.Error(err),
		)
		metrics.Descriptions.WithLabelValues(metrics.SourceFallback).Inc()
		return FallbackDescription(top)
	}

	metrics.Descriptions.WithLabelValues(metrics.SourceGenerated).Inc()
	return text
}

func (d *Describer) generate(ctx context.Context, top pkgcatalog.Strain, prefs Preferences) (string, error) {
	messages := []llm.Message{
		{Role: llm.RoleSystem, Content: describerSystemPrompt},
		{Role: llm.RoleUser, Content: describePrompt(top, prefs)},
	}
	opts := []llm.CallOption{
		llm.WithMaxTokens(d.cfg.MaxTokens),
		llm.WithTemperature(d.cfg.Temperature),
	}
	if d.cfg.Model != "" {
		opts = append(opts, llm.WithModel(d.cfg.Model))
	}

	resp, err := d.provider.Chat(ctx, messages, opts...)
	if err != nil {
		return "", err
	}
	if resp == nil {
		return "", llm.NewProviderError(llm.ErrCodeInvalidResponse, "nil response", nil)
	}
	text := strings.TrimSpace(resp.Content)
	if text == "" {
		return "", llm.NewProviderError(llm.ErrCodeInvalidResponse, "empty completion", nil)
	}
	return text, nil
}

// describePrompt renders the strain and the caller's original preferences.
func describePrompt(s pkgcatalog.Strain, prefs Preferences) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Strain: %s (%s)\n", s.Name, s.Type)
	fmt.Fprintf(&b, "Effects: %s\n", strings.Join(s.Effects, ", "))
	fmt.Fprintf(&b, "Flavors: %s\n", strings.Join(s.Flavors, ", "))
	fmt.Fprintf(&b, "THC: %s%%, CBD: %s%%\n", s.THCContent, s.CBDContent)
	if s.Description != "" {
		fmt.Fprintf(&b, "About: %s\n", s.Description)
	}

	b.WriteString("\nCustomer preferences:\n")
	if prefs.Type != "" {
		fmt.Fprintf(&b, "- type: %s\n", prefs.Type)
	}
	if len(prefs.Effects) > 0 {
		fmt.Fprintf(&b, "- effects: %s\n", strings.Join(prefs.Effects, ", "))
	}
	if len(prefs.Flavors) > 0 {
		fmt.Fprintf(&b, "- flavors: %s\n", strings.Join(prefs.Flavors, ", "))
	}
	if prefs.Experience != "" {
		fmt.Fprintf(&b, "- experience: %s\n", prefs.Experience)
	}
	return b.String()
}
