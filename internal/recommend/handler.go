package recommend

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/HerbHall/strainwise/internal/metrics"
	"github.com/HerbHall/strainwise/internal/server"
	"github.com/HerbHall/strainwise/internal/services"
	"github.com/HerbHall/strainwise/internal/validation"
	pkgcatalog "github.com/HerbHall/strainwise/pkg/catalog"
)

// SessionHeader identifies the caller's session across requests.
const SessionHeader = "X-Session-ID"

const maxBodyBytes = 64 << 10

// RecommendResponse is the response for POST /api/v1/recommend.
type RecommendResponse struct {
	Recommendations []Match     `json:"recommendations"`
	Description     string      `json:"description"`
	Preferences     Preferences `json:"preferences"`
	SessionID       string      `json:"session_id"`
}

// NoMatchProblem is the 404 body returned when no strain passes the filters.
type NoMatchProblem struct {
	server.Problem
	Error           string  `json:"error"`
	Recommendations []Match `json:"recommendations"`
}

// RateRequest is the body for the rating endpoint.
type RateRequest struct {
	Rating *int `json:"rating" validate:"required,min=1,max=5"`
}

// Handler serves the recommendation, catalog and history API.
type Handler struct {
	engine    *Engine
	describer *Describer
	history   services.HistoryRepository
	limit     server.Middleware
	logger    *zap.Logger
}

// HandlerOption configures a Handler.
type HandlerOption func(*Handler)

// WithHistory records successful recommendations in repo and enables the
// session history routes.
func WithHistory(repo services.HistoryRepository) HandlerOption {
	return func(h *Handler) { h.history = repo }
}

// WithRecommendLimit wraps the recommend routes in mw, typically a
// per-client rate limit.
func WithRecommendLimit(mw server.Middleware) HandlerOption {
	return func(h *Handler) { h.limit = mw }
}

// NewHandler creates a new recommendation API handler.
func NewHandler(engine *Engine, describer *Describer, logger *zap.Logger, opts ...HandlerOption) *Handler {
	h := &Handler{
		engine:    engine,
		describer: describer,
		logger:    logger,
		limit:     func(next http.Handler) http.Handler { return next },
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// RegisterRoutes implements server.RouteRegistrar.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	// Both paths share one limiter so the cap applies per client, not per path.
	recommend := h.limit(http.HandlerFunc(h.handleRecommend))
	mux.Handle("POST /api/v1/recommend", recommend)
	mux.Handle("POST /api/recommend", recommend)

	mux.HandleFunc("GET /api/v1/strains", h.handleListStrains)
	mux.HandleFunc("GET /api/v1/strains/{name}", h.handleGetStrain)

	mux.HandleFunc("GET /api/v1/sessions/{id}/preferences", h.handleSessionPreferences)
	mux.HandleFunc("GET /api/v1/sessions/{id}/recommendations", h.handleSessionHistory)
	mux.HandleFunc("POST /api/v1/sessions/{id}/recommendations/{rec_id}/rating", h.handleRate)
}

// handleRecommend returns the best matching strains for the given preferences.
//
//	@Summary		Recommend strains
//	@Description	Filters the catalog by type, effect and flavor, ranks by effect overlap and experience fit, and returns up to three strains with a description of the top match.
//	@Tags			recommend
//	@Accept			json
//	@Produce		json
//	@Param			X-Session-ID header string false "Session to record history under"
//	@Param			request body Preferences true "Preferences, optionally wrapped in a preferences object"
//	@Success		200 {object} RecommendResponse
//	@Failure		400 {object} server.Problem
//	@Failure		404 {object} NoMatchProblem
//	@Failure		429 {object} server.Problem
//	@Failure		500 {object} server.Problem
//	@Router			/recommend [post]
func (h *Handler) handleRecommend(w http.ResponseWriter, r *http.Request) {
	prefs, err := decodePreferences(r.Body)
	if err != nil {
		server.BadRequest(w, err.Error(), r.URL.Path)
		return
	}

	sessionID := strings.TrimSpace(r.Header.Get(SessionHeader))
	if sessionID == "" {
		sessionID = uuid.New().String()
	}
	w.Header().Set(SessionHeader, sessionID)

	matches, err := h.engine.Recommend(prefs)
	if err != nil {
		metrics.Recommendations.WithLabelValues(metrics.OutcomeError).Inc()
		h.logger.Error("recommendation failed",
			zap.String("request_id", server.RequestIDFrom(r.Context())),
			zap.Error(err),
		)
		server.InternalError(w, "Internal server error", r.URL.Path)
		return
	}

	if len(matches) == 0 {
		metrics.Recommendations.WithLabelValues(metrics.OutcomeNoMatch).Inc()
		server.WriteProblemBody(w, http.StatusNotFound, NoMatchProblem{
			Problem: server.Problem{
				Type:     server.ProblemTypeNoMatches,
				Title:    "No matching strains found",
				Status:   http.StatusNotFound,
				Detail:   "No strain satisfies the requested type, effect and flavor.",
				Instance: r.URL.Path,
			},
			Error:           "No matching strains found",
			Recommendations: []Match{},
		})
		return
	}

	description := h.describer.Describe(r.Context(), matches[0].Strain, prefs)
	metrics.Recommendations.WithLabelValues(metrics.OutcomeOK).Inc()
	h.record(r, sessionID, prefs, matches, description)

	server.WriteJSON(w, http.StatusOK, RecommendResponse{
		Recommendations: matches,
		Description:     description,
		Preferences:     prefs,
		SessionID:       sessionID,
	})
}

// record stores the response in history. Failures are logged, never returned.
func (h *Handler) record(r *http.Request, sessionID string, prefs Preferences, matches []Match, description string) {
	if h.history == nil {
		return
	}
	recs := make([]services.Recommendation, len(matches))
	for i := range matches {
		recs[i] = services.Recommendation{
			StrainName: matches[i].Name,
			Rank:       i + 1,
			Score:      matches[i].Score,
		}
	}
	recs[0].Description = description

	_, err := h.history.Record(r.Context(), services.SessionPreferences{
		SessionID:  sessionID,
		Type:       prefs.Type,
		Effects:    prefs.Effects,
		Flavors:    prefs.Flavors,
		Experience: string(prefs.Experience),
	}, recs)
	if err != nil {
		h.logger.Warn("failed to record recommendation history",
			zap.String("session_id", sessionID),
			zap.Error(err),
		)
	}
}

// decodePreferences accepts {"preferences": {...}}, a bare preferences object,
// or an empty body.
func decodePreferences(body io.Reader) (Preferences, error) {
	data, err := io.ReadAll(io.LimitReader(body, maxBodyBytes+1))
	if err != nil {
		return Preferences{}, errors.New("failed to read request body")
	}
	if len(data) > maxBodyBytes {
		return Preferences{}, errors.New("request body too large")
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return Preferences{}, nil
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(data, &envelope); err != nil {
		return Preferences{}, errors.New("request body must be a JSON object")
	}

	var prefs Preferences
	if inner, ok := envelope["preferences"]; ok {
		// A non-object preferences member is treated as absent.
		_ = json.Unmarshal(inner, &prefs)
		return prefs, nil
	}
	if err := json.Unmarshal(data, &prefs); err != nil {
		return Preferences{}, errors.New("request body must be a JSON object")
	}
	return prefs, nil
}

// handleListStrains returns the catalog.
//
//	@Summary		List strains
//	@Description	Returns every catalog strain, optionally filtered by type.
//	@Tags			strains
//	@Produce		json
//	@Param			type query string false "Indica, Sativa or Hybrid (case-insensitive)"
//	@Success		200 {array} pkgcatalog.Strain
//	@Failure		400 {object} server.Problem
//	@Failure		500 {object} server.Problem
//	@Router			/strains [get]
func (h *Handler) handleListStrains(w http.ResponseWriter, r *http.Request) {
	typeFilter := strings.TrimSpace(r.URL.Query().Get("type"))
	if typeFilter != "" && !knownType(typeFilter) {
		server.BadRequest(w, "type must be one of Indica, Sativa, Hybrid", r.URL.Path)
		return
	}

	strains, err := h.engine.cat.Strains()
	if err != nil {
		h.logger.Error("failed to load catalog", zap.Error(err))
		server.InternalError(w, "Internal server error", r.URL.Path)
		return
	}

	out := make([]pkgcatalog.Strain, 0, len(strains))
	for i := range strains {
		if typeFilter == "" || strings.EqualFold(string(strains[i].Type), typeFilter) {
			out = append(out, strains[i])
		}
	}
	server.WriteJSON(w, http.StatusOK, out)
}

// handleGetStrain returns one strain by name.
//
//	@Summary		Get strain
//	@Description	Looks up a strain by name, case-insensitively.
//	@Tags			strains
//	@Produce		json
//	@Param			name path string true "Strain name"
//	@Success		200 {object} pkgcatalog.Strain
//	@Failure		404 {object} server.Problem
//	@Failure		500 {object} server.Problem
//	@Router			/strains/{name} [get]
func (h *Handler) handleGetStrain(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	s, ok, err := h.engine.cat.Lookup(name)
	if err != nil {
		h.logger.Error("failed to load catalog", zap.Error(err))
		server.InternalError(w, "Internal server error", r.URL.Path)
		return
	}
	if !ok {
		server.NotFound(w, "strain "+strconv.Quote(name)+" not found", r.URL.Path)
		return
	}
	server.WriteJSON(w, http.StatusOK, s)
}

// handleSessionHistory lists what a session has been recommended.
//
//	@Summary		Session history
//	@Description	Returns the recommendations shown to a session, newest first.
//	@Tags			sessions
//	@Produce		json
//	@Param			id path string true "Session ID"
//	@Param			limit query int false "Page size" default(50)
//	@Param			offset query int false "Items to skip" default(0)
//	@Success		200 {object} services.ListResult[services.Recommendation]
//	@Failure		400 {object} server.Problem
//	@Failure		404 {object} server.Problem
//	@Failure		500 {object} server.Problem
//	@Router			/sessions/{id}/recommendations [get]
func (h *Handler) handleSessionHistory(w http.ResponseWriter, r *http.Request) {
	if h.history == nil {
		server.NotFound(w, "recommendation history is disabled", r.URL.Path)
		return
	}

	opts, err := listOptions(r)
	if err != nil {
		server.BadRequest(w, err.Error(), r.URL.Path)
		return
	}

	res, err := h.history.ListBySession(r.Context(), r.PathValue("id"), opts)
	if err != nil {
		h.logger.Error("failed to list history", zap.Error(err))
		server.InternalError(w, "Internal server error", r.URL.Path)
		return
	}
	server.WriteJSON(w, http.StatusOK, res)
}

// handleSessionPreferences returns the latest preferences a session submitted.
//
//	@Summary		Session preferences
//	@Description	Returns the preferences most recently submitted under a session.
//	@Tags			sessions
//	@Produce		json
//	@Param			id path string true "Session ID"
//	@Success		200 {object} services.SessionPreferences
//	@Failure		404 {object} server.Problem
//	@Failure		500 {object} server.Problem
//	@Router			/sessions/{id}/preferences [get]
func (h *Handler) handleSessionPreferences(w http.ResponseWriter, r *http.Request) {
	if h.history == nil {
		server.NotFound(w, "recommendation history is disabled", r.URL.Path)
		return
	}

	prefs, err := h.history.Preferences(r.Context(), r.PathValue("id"))
	switch {
	case errors.Is(err, services.ErrNotFound):
		server.NotFound(w, "no preferences recorded for session", r.URL.Path)
	case err != nil:
		h.logger.Error("failed to load session preferences", zap.Error(err))
		server.InternalError(w, "Internal server error", r.URL.Path)
	default:
		server.WriteJSON(w, http.StatusOK, prefs)
	}
}

// handleRate stores a 1..5 rating for a past recommendation.
//
//	@Summary		Rate recommendation
//	@Description	Sets the user's 1 to 5 rating of a recommendation in their session.
//	@Tags			sessions
//	@Accept			json
//	@Produce		json
//	@Param			id path string true "Session ID"
//	@Param			rec_id path string true "Recommendation ID"
//	@Param			request body RateRequest true "Rating"
//	@Success		200 {object} services.Recommendation
//	@Failure		400 {object} server.Problem
//	@Failure		404 {object} server.Problem
//	@Failure		500 {object} server.Problem
//	@Router			/sessions/{id}/recommendations/{rec_id}/rating [post]
func (h *Handler) handleRate(w http.ResponseWriter, r *http.Request) {
	if h.history == nil {
		server.NotFound(w, "recommendation history is disabled", r.URL.Path)
		return
	}

	var req RateRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&req); err != nil {
		server.BadRequest(w, "body must be {\"rating\": 1..5}", r.URL.Path)
		return
	}
	if err := validation.Struct(req); err != nil {
		server.BadRequest(w, err.Error(), r.URL.Path)
		return
	}

	rec, err := h.history.Rate(r.Context(), r.PathValue("id"), r.PathValue("rec_id"), *req.Rating)
	switch {
	case errors.Is(err, services.ErrInvalidRating):
		server.BadRequest(w, err.Error(), r.URL.Path)
	case errors.Is(err, services.ErrNotFound):
		server.NotFound(w, "recommendation not found", r.URL.Path)
	case err != nil:
		h.logger.Error("failed to rate recommendation", zap.Error(err))
		server.InternalError(w, "Internal server error", r.URL.Path)
	default:
		server.WriteJSON(w, http.StatusOK, rec)
	}
}

func listOptions(r *http.Request) (services.ListOptions, error) {
	var opts services.ListOptions
	q := r.URL.Query()
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return opts, errors.New("limit must be a non-negative integer")
		}
		opts.Limit = n
	}
	if v := q.Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return opts, errors.New("offset must be a non-negative integer")
		}
		opts.Offset = n
	}
	return opts, nil
}

func knownType(t string) bool {
	_, ok := pkgcatalog.ParseStrainType(t)
	return ok
}
