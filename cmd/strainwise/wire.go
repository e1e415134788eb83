package main

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/HerbHall/strainwise/internal/config"
	"github.com/HerbHall/strainwise/internal/llm/ollama"
	"github.com/HerbHall/strainwise/internal/llm/openai"
	"github.com/HerbHall/strainwise/internal/recommend"
	"github.com/HerbHall/strainwise/internal/server"
	"github.com/HerbHall/strainwise/internal/services"
	"github.com/HerbHall/strainwise/internal/store"
	pkgcatalog "github.com/HerbHall/strainwise/pkg/catalog"
	"github.com/HerbHall/strainwise/pkg/llm"
)

// application holds everything main needs to serve and later close.
type application struct {
	handler *recommend.Handler
	store   *store.SQLiteStore
	perHour int
	perDay  int
}

// Close releases the history database, if any.
func (a *application) Close() error {
	if a.store == nil {
		return nil
	}
	return a.store.Close()
}

// build wires the catalog, text generation, history and HTTP handler from settings.
func build(ctx context.Context, s config.Settings, logger *zap.Logger) (*application, error) {
	cat, err := loadCatalog(s.Catalog.Path)
	if err != nil {
		return nil, err
	}
	if err := cat.Validate(); err != nil {
		return nil, fmt.Errorf("catalog: %w", err)
	}
	strains, _ := cat.Strains()
	logger.Info("catalog loaded",
		zap.Int("strains", len(strains)),
		zap.String("source", catalogSource(s.Catalog.Path)),
	)

	provider, err := newProvider(s.LLM)
	if err != nil {
		return nil, err
	}
	if provider == nil {
		logger.Info("text generation disabled, using fallback descriptions")
	} else {
		logger.Info("text generation enabled", zap.String("provider", s.LLM.Provider))
	}
	describer := recommend.NewDescriber(provider, recommend.DescriberConfig{
		Model:             s.LLM.Model,
		Timeout:           s.LLM.Timeout,
		MaxTokens:         s.LLM.MaxTokens,
		Temperature:       s.LLM.Temperature,
		RequestsPerSecond: s.LLM.RequestsPerSecond,
		Burst:             s.LLM.Burst,
		BreakerFailures:   s.LLM.Breaker.Failures,
		BreakerTimeout:    s.LLM.Breaker.Timeout,
	}, logger.Named("describe"))

	app := &application{}
	var opts []recommend.HandlerOption

	if s.Store.Enabled {
		db, err := store.New(s.Store.Path)
		if err != nil {
			return nil, err
		}
		repo, err := services.NewSQLiteHistoryRepository(ctx, db)
		if err != nil {
			db.Close()
			return nil, err
		}
		app.store = db
		opts = append(opts, recommend.WithHistory(repo))
		schema, err := db.SchemaVersion(ctx, services.HistoryComponent)
		if err != nil {
			db.Close()
			return nil, err
		}
		logger.Info("recommendation history enabled",
			zap.String("path", s.Store.Path),
			zap.Int("schema_version", schema),
		)
	}

	if s.RateLimit.Enabled {
		app.perHour = s.RateLimit.PerHour
		app.perDay = s.RateLimit.PerDay
		opts = append(opts, recommend.WithRecommendLimit(
			server.RateLimit("recommend", s.RateLimit.RecommendPerMinute, time.Minute)))
	}

	app.handler = recommend.NewHandler(recommend.NewEngine(cat), describer, logger.Named("recommend"), opts...)
	return app, nil
}

func loadCatalog(path string) (*pkgcatalog.Catalog, error) {
	if path == "" {
		return pkgcatalog.NewCatalog(), nil
	}
	return pkgcatalog.FromFile(path)
}

func catalogSource(path string) string {
	if path == "" {
		return "embedded"
	}
	return path
}

// newProvider returns nil when text generation is disabled.
func newProvider(s config.LLMSettings) (llm.Provider, error) {
	switch s.Provider {
	case "", config.ProviderNone:
		return nil, nil
	case config.ProviderOllama:
		return ollama.New(ollama.Config{
			BaseURL: s.BaseURL,
			Model:   s.Model,
			Timeout: s.Timeout,
		}), nil
	case config.ProviderOpenAI:
		return openai.New(openai.Config{
			BaseURL: s.BaseURL,
			APIKey:  s.APIKey,
			Model:   s.Model,
			Timeout: s.Timeout,
		}), nil
	}
	return nil, fmt.Errorf("unknown llm provider %q", s.Provider)
}
