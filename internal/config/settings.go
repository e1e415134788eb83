package config

import (
	"fmt"
	"net"
	"time"

	"github.com/HerbHall/strainwise/internal/validation"
)

// Settings is the typed configuration tree.
type Settings struct {
	Server    ServerSettings    `mapstructure:"server"`
	Catalog   CatalogSettings   `mapstructure:"catalog"`
	Store     StoreSettings     `mapstructure:"store"`
	RateLimit RateLimitSettings `mapstructure:"ratelimit"`
	LLM       LLMSettings       `mapstructure:"llm"`
	Log       LogSettings       `mapstructure:"log"`
}

type ServerSettings struct {
	Host string `mapstructure:"host"`
	Port string `mapstructure:"port"`
}

// Addr joins host and port, falling back to 0.0.0.0:8080.
func (s ServerSettings) Addr() string {
	if s.Host == "" && s.Port == "" {
		return "0.0.0.0:8080"
	}
	return net.JoinHostPort(s.Host, s.Port)
}

type CatalogSettings struct {
	// Path to a YAML catalog; empty uses the embedded catalog.
	Path string `mapstructure:"path"`
}

type StoreSettings struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path" validate:"required_if=Enabled true"`
}

type RateLimitSettings struct {
	Enabled            bool `mapstructure:"enabled"`
	RecommendPerMinute int  `mapstructure:"recommend_per_minute" validate:"min=0"`
	PerHour            int  `mapstructure:"per_hour" validate:"min=0"`
	PerDay             int  `mapstructure:"per_day" validate:"min=0"`
}

type LLMSettings struct {
	Provider          string          `mapstructure:"provider" validate:"omitempty,oneof=none ollama openai"`
	BaseURL           string          `mapstructure:"base_url"`
	Model             string          `mapstructure:"model"`
	APIKey            string          `mapstructure:"api_key"`
	Timeout           time.Duration   `mapstructure:"timeout"`
	MaxTokens         int             `mapstructure:"max_tokens" validate:"min=0"`
	Temperature       float64         `mapstructure:"temperature" validate:"min=0,max=2"`
	RequestsPerSecond float64         `mapstructure:"requests_per_second"`
	Burst             int             `mapstructure:"burst"`
	Breaker           BreakerSettings `mapstructure:"breaker"`
}

type BreakerSettings struct {
	Failures uint32        `mapstructure:"failures"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

type LogSettings struct {
	Development bool `mapstructure:"development"`
}

// Supported llm.provider values.
const (
	ProviderNone   = "none"
	ProviderOllama = "ollama"
	ProviderOpenAI = "openai"
)

// Validate rejects settings the server cannot start with.
func (s Settings) Validate() error {
	if err := validation.Struct(s); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if s.LLM.Provider == ProviderOpenAI && s.LLM.APIKey == "" && s.LLM.BaseURL == "" {
		return fmt.Errorf("llm.provider openai requires llm.api_key or a self-hosted llm.base_url")
	}
	return nil
}
