package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HerbHall/strainwise/internal/config"
	"github.com/HerbHall/strainwise/internal/llm/ollama"
	"github.com/HerbHall/strainwise/internal/llm/openai"
	"github.com/HerbHall/strainwise/internal/server"
	"github.com/HerbHall/strainwise/internal/testutil"
)

func testSettings(t *testing.T) config.Settings {
	t.Helper()
	return config.Settings{
		Store:     config.StoreSettings{Enabled: true, Path: filepath.Join(t.TempDir(), "history.db")},
		RateLimit: config.RateLimitSettings{Enabled: true, RecommendPerMinute: 2, PerHour: 50, PerDay: 200},
		LLM:       config.LLMSettings{Provider: config.ProviderNone, Timeout: time.Second},
	}
}

func TestNewProvider(t *testing.T) {
	p, err := newProvider(config.LLMSettings{Provider: config.ProviderNone})
	require.NoError(t, err)
	assert.Nil(t, p)

	p, err = newProvider(config.LLMSettings{Provider: config.ProviderOllama})
	require.NoError(t, err)
	assert.IsType(t, &ollama.Provider{}, p)

	p, err = newProvider(config.LLMSettings{Provider: config.ProviderOpenAI, APIKey: "k"})
	require.NoError(t, err)
	assert.IsType(t, &openai.Provider{}, p)

	_, err = newProvider(config.LLMSettings{Provider: "gemini"})
	assert.Error(t, err)
}

func TestBuild_ServesRecommendations(t *testing.T) {
	app, err := build(context.Background(), testSettings(t), testutil.Logger())
	require.NoError(t, err)
	t.Cleanup(func() { app.Close() })
	require.NotNil(t, app.store)

	srv := server.New(server.Config{Addr: ":0", PerHour: app.perHour, PerDay: app.perDay}, testutil.Logger(), app.handler)
	h := srv.Handler()

	post := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/recommend", strings.NewReader(`{"preferences":{"type":"Sativa"}}`))
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		return w
	}

	w := post()
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), "might be a good choice for you.")
	assert.Equal(t, http.StatusOK, post().Code)
	assert.Equal(t, http.StatusTooManyRequests, post().Code)
}

func TestBuild_RejectsInvalidCatalogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	doc := "strains:\n  - name: Bad\n    type: Ruderalis\n    thc_content: n/a\n"
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))

	s := testSettings(t)
	s.Catalog.Path = path
	_, err := build(context.Background(), s, testutil.Logger())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Bad")
}

func TestBuild_StoreDisabled(t *testing.T) {
	s := testSettings(t)
	s.Store.Enabled = false
	s.RateLimit.Enabled = false

	app, err := build(context.Background(), s, testutil.Logger())
	require.NoError(t, err)
	assert.Nil(t, app.store)
	assert.Zero(t, app.perHour)
	assert.NoError(t, app.Close())
}
